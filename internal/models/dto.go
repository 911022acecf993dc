package models

// SchoolYearMonths is the fixed display order for month groups: a school
// year runs August through July. Months absent from the data are omitted
// from views, never invented.
var SchoolYearMonths = []string{
	"August", "September", "October", "November", "December",
	"January", "February", "March", "April", "May", "June", "July",
}

// CounselorGroup is the single bucket counselor checklists collapse into;
// counselor tasks have no month dimension.
const CounselorGroup = "General"

// ChecklistTask is one row of a rendered checklist view.
type ChecklistTask struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// MonthGroup is an ordered month (or the counselor sentinel group) with its
// tasks in catalog order.
type MonthGroup struct {
	Month string          `json:"month"`
	Tasks []ChecklistTask `json:"tasks"`
}

// ChecklistView is the derived month-keyed checklist; recomputed on every
// fetch, never persisted.
type ChecklistView struct {
	Grade     GradeLevel   `json:"grade"`
	Months    []MonthGroup `json:"months"`
	Completed int          `json:"completed"`
	Total     int          `json:"total"`
}

// Ratio returns completed/total, with an empty checklist counting as zero.
func (v *ChecklistView) Ratio() float64 {
	if v.Total == 0 {
		return 0
	}
	return float64(v.Completed) / float64(v.Total)
}

// Find returns the task with the given id and its month group, or nil.
func (v *ChecklistView) Find(taskID uint) (*MonthGroup, *ChecklistTask) {
	for gi := range v.Months {
		group := &v.Months[gi]
		for ti := range group.Tasks {
			if group.Tasks[ti].ID == taskID {
				return group, &group.Tasks[ti]
			}
		}
	}
	return nil, nil
}
