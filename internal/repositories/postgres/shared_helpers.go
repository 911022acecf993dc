package postgres

import (
	"gorm.io/gorm"

	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// PlanColumn maps a college plan to the eligibility flag column on
// checklist_master_tasks. An empty string means no plan filter applies.
func PlanColumn(plan models.CollegePlan) string {
	switch plan {
	case models.PlanFourYear:
		return "four_year"
	case models.PlanTwoYear:
		return "two_year"
	case models.PlanApprenticeship:
		return "apprenticeship"
	case models.PlanUndecided, models.PlanNotApplicable:
		return "undecided"
	default:
		return ""
	}
}

// ApplyTaskFilters applies common filters to master task queries
func (h *SharedHelpers) ApplyTaskFilters(query *gorm.DB, filters repositories.TaskFilters) *gorm.DB {
	if filters.Grade != nil {
		query = query.Where("grade = ?", *filters.Grade)
	}
	if filters.Track != nil {
		query = query.Where("track = ?", *filters.Track)
	}
	if filters.Month != nil {
		query = query.Where("month = ?", *filters.Month)
	}
	if filters.Plan != nil {
		if col := PlanColumn(*filters.Plan); col != "" {
			query = query.Where(col + " = ?", true)
		}
	}
	if filters.DueFrom != nil {
		query = query.Where("due_date >= ?", *filters.DueFrom)
	}
	if filters.DueTo != nil {
		query = query.Where("due_date <= ?", *filters.DueTo)
	}
	if filters.ReNotify != nil {
		query = query.Where("re_notify = ?", *filters.ReNotify)
	}
	return query
}

// ApplyProfileFilters applies common filters to profile queries
func (h *SharedHelpers) ApplyProfileFilters(query *gorm.DB, filters repositories.ProfileFilters) *gorm.DB {
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.Grade != nil {
		query = query.Where("grade = ?", *filters.Grade)
	}
	if filters.SchoolName != nil {
		query = query.Where("school_name = ?", *filters.SchoolName)
	}
	return query
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"id":         true,
		"grade":      true,
		"month":      true,
		"position":   true,
		"full_name":  true,
	}

	// Validate and set sort column
	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	// Validate and set sort order
	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
