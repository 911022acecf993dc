package static

import "github.com/ICAN-F-2025/readiness-service/internal/models"

// The built-in curriculum mirrors the published ICAN planning calendar:
// month-by-month student tasks for grades 9 through 12, plus a small
// grade-scoped advising set for counselors. Graduated users have no tasks.

type monthEntry struct {
	month string
	texts []string
}

var studentCurriculum = map[models.GradeLevel][]monthEntry{
	models.Grade9: {
		{"August", []string{
			"Schedule a planning session with ICAN",
			"Attend Freshman Transition event",
			"Sign up for ICAN Tip of the Week",
			"Use a planner",
			"Talk to adults about their careers!!",
		}},
		{"September", []string{
			"Join extracurriculars and track them with an activities resume",
			"Attend the Golden Circle College & Career Fair",
			"Explore career assessments",
		}},
		{"October", []string{
			"Explore education and training options (CollegeRaptor, CTE programs, apprenticeships)",
			"Research career pathways",
		}},
		{"November", []string{
			"Talk with parents about future plans",
			"Meet with counselor about course selection",
			"Read regularly",
			"Volunteer",
		}},
		{"December", []string{
			"Learn computer applications (Word, Excel, etc.)",
			"Research 3 careers and related training programs",
			"Learn about financial aid options",
		}},
		{"January", []string{
			"Explore skill-building at ICAN's career planning site",
			"Talk to parents about a college savings plan",
		}},
		{"February", []string{
			"Research high-growth jobs and their required training",
			"Choose 10th-grade classes with counselor",
			"Identify job shadow options",
		}},
		{"March", []string{
			"Find summer camps in your area of interest",
			"Keep GPA strong",
			"Attend the Future Ready Career & College Fair",
		}},
		{"April", []string{
			"Talk to seniors about their planning process",
			"Visit a college campus or take a virtual tour",
			"Build relationships for future recommendations",
		}},
		{"May", []string{
			"Job shadow, volunteer, or intern",
			"Start a summer reading list",
			"Learn about athletic requirements if you want to play sports",
		}},
		{"June", []string{
			"Attend a summer camp on a college campus (if applicable)",
			"Create an activities resume",
			"Talk to adults about their career choices",
		}},
		{"July", []string{
			"Review career assessment and explore matching colleges",
			"Join hobbies tied to career interests",
			"Stay open to changing goals",
		}},
	},
	models.Grade10: {
		{"August", []string{
			"Visit ICAN Center for career/college planning",
			"Sign up for ICAN Tip of the Week",
			"Find a mentor",
			"Attend career planning events",
		}},
		{"September", []string{
			"Attend Golden Circle Fair",
			"Register for PreACT or PSAT/NMSQT",
			"Sign up for job shadows",
			"Join school/community activities",
		}},
		{"October", []string{
			"Compare careers and research job characteristics",
			"Attend a college fair",
			"Take/update career assessment",
		}},
		{"November", []string{
			"Discuss admission requirements with counselor",
			"Explore tuition and financial aid options",
			"Talk to adults about their careers",
		}},
		{"December", []string{
			"Meet college reps/career speakers",
			"Schedule advising with ICAN",
			"Learn about alternate education options",
			"Volunteer over winter break",
		}},
		{"January", []string{
			"Keep track of extracurriculars in your activities resume",
			"Review types of financial aid",
			"Review financial plan for post-high school",
		}},
		{"February", []string{
			"Attend ICAN planning nights",
			"Confirm junior year classes align with your career path",
			"Explore career pathways using MyACT",
		}},
		{"March", []string{
			"Consider AP classes",
			"Attend ICAN Future Ready Fair",
			"Talk to professionals in your field of interest",
			"Tour colleges if on vacation",
		}},
		{"April", []string{
			"Review college financial plan",
			"Explore scholarships and savings strategies",
			"Gain experience via job shadowing or internships",
			"Use ROCI Tool to compare career ROI",
		}},
		{"May", []string{
			"Check status of savings plans",
			"Ask counselor about summer programs",
			"Look for summer jobs related to your interests",
		}},
		{"June", []string{
			"Keep reading over the summer",
			"Join hobbies that develop career interests",
			"Learn about athletic eligibility",
		}},
		{"July", []string{
			"Tour college campuses during camp visits",
			"Talk to parents about cost planning",
			"Maintain connections for future recommendations",
		}},
	},
	models.Grade11: {
		{"August", []string{
			"Sign up for ICAN Tip of the Week",
			"Learn about college fairs/events!!",
			"Keep GPA up",
			"Review/start a savings plan",
			"Take a career assessment",
			"Talk to parents about careers",
		}},
		{"September", []string{
			"Attend the Golden Circle College & Career Fair",
			"Register for the PSAT/NMSQT",
			"Explore military and apprenticeship options",
			"Schedule ICAN planning session",
		}},
		{"October", []string{
			"Attend college/career fairs",
			"Explore Iowa colleges",
			"Talk with your counselor about admission readiness",
		}},
		{"November", []string{
			"Review college brochures",
			"Make a list of 10–15 colleges",
			"Download the College Checklist",
			"Start SAT/ACT planning",
			"Research scholarships",
		}},
		{"December", []string{
			"Register for January SAT or February ACT",
			"Meet with college reps/career speakers",
			"Use CollegeRaptor.com to compare colleges",
			"Schedule planning with ICAN",
		}},
		{"January", []string{
			"Register for March SAT",
			"Attend a financial aid seminar",
			"Plan campus visits based on 'No School' days",
		}},
		{"February", []string{
			"Create an education/training budget (use ROCI tool)",
			"Choose senior classes aligned with your career path",
			"Register for April ACT",
			"Talk about AP/CLEP/honors courses",
		}},
		{"March", []string{
			"Attend the ICAN Future Ready Fair",
			"Visit college campuses",
			"Ask for letters of recommendation",
			"Use Scholarship Finder",
		}},
		{"April", []string{
			"Register for May SAT",
			"Explore majors/careers",
			"Use CollegeRaptor.com",
			"Review college savings",
		}},
		{"May", []string{
			"Register for June ACT/SAT",
			"Narrow college list",
			"Plan a productive summer",
		}},
		{"June", []string{
			"Review college list",
			"Begin college essays",
			"Update activities resume",
		}},
		{"July", []string{
			"Register for September ACT",
			"Visit college campuses",
			"Use Scholarship Finder",
		}},
	},
	models.Grade12: {
		{"August", []string{
			"Create a calendar for admission tasks",
			"Register for ACT/SAT if needed",
			"Review and narrow your college list",
			"Prepare for college applications",
			"Work on your activity resume",
		}},
		{"September", []string{
			"Attend the Golden Circle College Fair",
			"Finalize college essays",
			"Request letters of recommendation",
			"Send transcripts to colleges",
			"Register for your FSA ID",
		}},
		{"October", []string{
			"Complete the FAFSA",
			"Submit college applications",
			"Request transcripts be sent",
			"Send ACT/SAT scores",
		}},
		{"November", []string{
			"Continue applying for scholarships",
			"Verify application submission",
		}},
		{"December", []string{
			"Apply for scholarships",
			"Review financial aid offers",
			"Update your profile for admissions portals",
		}},
		{"January", []string{
			"Complete any remaining applications",
			"Review Student Aid Reports (SAR)",
			"Send mid-year grade reports",
		}},
		{"February", []string{
			"Compare financial aid packages",
			"Continue scholarship search",
			"Verify FAFSA if selected",
		}},
		{"March", []string{
			"Visit your top-choice colleges again",
			"Make your final college decision",
		}},
		{"April", []string{
			"Notify colleges of your decision by May 1",
			"Submit your deposit",
			"Decline other admission offers",
		}},
		{"May", []string{
			"Take AP exams",
			"Request final transcripts be sent to your chosen college",
		}},
		{"June", []string{
			"Attend orientation",
			"Register for classes",
			"Thank your recommenders",
		}},
		{"July", []string{
			"Plan for move-in day",
			"Review your budget",
			"Get ready for college!",
		}},
	},
	models.Graduated: {},
}

var counselorCurriculum = map[models.GradeLevel][]string{
	models.Grade9: {
		"Review course selections with each freshman",
		"Introduce career assessment tools",
		"Host a Freshman Transition session",
	},
	models.Grade10: {
		"Coordinate PreACT/PSAT registration",
		"Arrange job shadow placements",
		"Review academic progress and course alignment",
	},
	models.Grade11: {
		"Host a financial aid seminar",
		"Review college lists with each junior",
		"Coordinate campus visit opportunities",
	},
	models.Grade12: {
		"Track FAFSA completion for each senior",
		"Send transcripts on request",
		"Verify application and scholarship deadlines",
	},
	models.Graduated: {},
}

var gradeOrder = []models.GradeLevel{
	models.Grade9,
	models.Grade10,
	models.Grade11,
	models.Grade12,
	models.Graduated,
}

// curriculumTasks flattens the curriculum into catalog rows with stable,
// deterministic ids: grades in order, months in school-year order,
// counselor tasks after the student tasks for each grade.
func curriculumTasks() []*models.MasterTask {
	var tasks []*models.MasterTask
	var id uint

	for _, grade := range gradeOrder {
		for _, entry := range studentCurriculum[grade] {
			for pos, text := range entry.texts {
				id++
				tasks = append(tasks, &models.MasterTask{
					ID:             id,
					Grade:          grade,
					Track:          models.TrackStudent,
					Month:          entry.month,
					Text:           text,
					FourYear:       true,
					TwoYear:        true,
					Apprenticeship: true,
					Undecided:      true,
					Position:       pos,
				})
			}
		}
		for pos, text := range counselorCurriculum[grade] {
			id++
			tasks = append(tasks, &models.MasterTask{
				ID:             id,
				Grade:          grade,
				Track:          models.TrackCounselor,
				Text:           text,
				FourYear:       true,
				TwoYear:        true,
				Apprenticeship: true,
				Undecided:      true,
				Position:       pos,
			})
		}
	}

	return tasks
}
