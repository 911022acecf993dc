package validator

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ICAN-F-2025/readiness-service/internal/models"
)

// ValidationError represents a single field validation failure
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// ToValidationErrors converts go-playground errors into our error list
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors
	if err == nil {
		return errors
	}

	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			errors = append(errors, ValidationError{
				Field:   fe.Field(),
				Message: messageForTag(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
		return errors
	}

	errors = append(errors, ValidationError{Field: "request", Message: err.Error()})
	return errors
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "user_role":
		return "must be Student, Parent/Guardian, Counselor or Admin"
	case "grade_level":
		return "must be 9th, 10th, 11th, 12th or Graduated"
	case "college_plan":
		return "must be a recognized post-high-school plan"
	case "school_month":
		return "must be a month name, August through July"
	case "graduation_year":
		return "must be a four-digit year or N/A"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

var graduationYearPattern = regexp.MustCompile(`^\d{4}$`)

// Validator wraps struct validation and domain business rules
type Validator struct {
	validate *validator.Validate
	business *BusinessValidator
}

// New creates the shared validator with the domain rules registered
func New() *Validator {
	validate := validator.New()
	registerDomainRules(validate)

	return &Validator{
		validate: validate,
		business: &BusinessValidator{validate: validate},
	}
}

// Validate performs struct-level validation
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// GetBusinessValidator returns the business rule validator
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

func registerDomainRules(validate *validator.Validate) {
	rules := map[string]validator.Func{
		"user_role": func(fl validator.FieldLevel) bool {
			return models.NormalizeRole(fl.Field().String()) != ""
		},
		"grade_level": func(fl validator.FieldLevel) bool {
			switch models.GradeLevel(fl.Field().String()) {
			case models.Grade9, models.Grade10, models.Grade11, models.Grade12, models.Graduated:
				return true
			}
			return false
		},
		"college_plan": func(fl validator.FieldLevel) bool {
			switch models.CollegePlan(fl.Field().String()) {
			case models.PlanTwoYear, models.PlanFourYear, models.PlanApprenticeship,
				models.PlanUndecided, models.PlanNotApplicable:
				return true
			}
			return false
		},
		"school_month": func(fl validator.FieldLevel) bool {
			return slices.Contains(models.SchoolYearMonths, fl.Field().String())
		},
		"graduation_year": func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			return value == "N/A" || graduationYearPattern.MatchString(value)
		},
	}

	for tag, fn := range rules {
		// RegisterValidation only fails on an empty tag name
		_ = validate.RegisterValidation(tag, fn)
	}
}

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateProfileUpsert validates profile creation business rules
func (bv *BusinessValidator) ValidateProfileUpsert(req *ProfileUpsertRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	role := models.NormalizeRole(req.Role)
	if role == "" {
		return errors
	}

	// Counselors have no graduation timeline; a concrete year on a
	// counselor profile is an authoring mistake.
	if role == models.RoleCounselor && req.GraduationYear != nil && *req.GraduationYear != "N/A" {
		errors = append(errors, ValidationError{
			Field:   "graduation_year",
			Message: "must be N/A for counselors",
			Value:   *req.GraduationYear,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateTaskCreate validates catalog authoring business rules
func (bv *BusinessValidator) ValidateTaskCreate(req *TaskCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	track := models.TaskTrack(req.Track)
	if req.Track == "" {
		track = models.TrackStudent
	}

	if track == models.TrackStudent && strings.TrimSpace(req.Month) == "" {
		errors = append(errors, ValidationError{
			Field:   "month",
			Message: "is required for student-track tasks",
			Rule:    "business_logic",
		})
	}

	if track == models.TrackCounselor && req.Month != "" {
		errors = append(errors, ValidationError{
			Field:   "month",
			Message: "must be empty for counselor-track tasks",
			Value:   req.Month,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateAnnouncementCreate validates announcement posting rules
func (bv *BusinessValidator) ValidateAnnouncementCreate(req *AnnouncementCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if strings.TrimSpace(req.Content) == "" {
		errors = append(errors, ValidationError{
			Field:   "content",
			Message: "cannot be blank",
			Rule:    "business_logic",
		})
	}

	return errors
}
