package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
	"github.com/ICAN-F-2025/readiness-service/internal/validator"
)

const (
	catalogSheetName = "Tasks"
	importDateLayout = "2006-01-02"
	importBatchLimit = 5000
)

var catalogSheetHeader = []string{
	"Grade", "Track", "Month", "Text",
	"FourYear", "TwoYear", "Apprenticeship", "Undecided",
	"DueDate", "ReNotify", "Position",
}

type importExportService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportExportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) ImportExportService {
	return &importExportService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ImportTasks reads a catalog spreadsheet and bulk-inserts the valid
// rows. Invalid rows are skipped and reported; one bad row never aborts
// the rest.
func (s *importExportService) ImportTasks(ctx context.Context, r io.Reader, requesterID string) (*ImportResult, error) {
	if err := s.requireAdmin(ctx, requesterID, "import"); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable spreadsheet: %s", ErrBadRequest, err.Error())
	}
	defer f.Close()

	sheet := catalogSheetName
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %s", ErrBadRequest, sheet, err.Error())
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrBadRequest, sheet)
	}

	result := &ImportResult{}
	var tasks []*models.MasterTask

	// Row 1 is the header.
	for i, row := range rows[1:] {
		line := i + 2
		if len(tasks) >= importBatchLimit {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: import limit of %d rows reached", line, importBatchLimit))
			result.Skipped += len(rows[1:]) - i
			break
		}

		task, err := s.parseTaskRow(row)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", line, err.Error()))
			continue
		}
		if task == nil {
			// Blank row.
			continue
		}
		tasks = append(tasks, task)
	}

	if len(tasks) > 0 {
		if err := s.repo.Catalog().BulkCreate(ctx, nil, tasks); err != nil {
			if errors.Is(err, repositories.ErrReadOnlyCatalog) {
				return nil, ErrCatalogReadOnly
			}
			return nil, fmt.Errorf("failed to import tasks: %w", err)
		}
	}
	result.Imported = len(tasks)

	s.logger.Info("Catalog import finished",
		"imported", result.Imported, "skipped", result.Skipped, "requester_id", requesterID)

	return result, nil
}

func (s *importExportService) parseTaskRow(row []string) (*models.MasterTask, error) {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	blank := true
	for i := range catalogSheetHeader {
		if get(i) != "" {
			blank = false
			break
		}
	}
	if blank {
		return nil, nil
	}

	req := &validator.TaskCreateRequest{
		Grade: get(0),
		Track: strings.ToLower(get(1)),
		Month: get(2),
		Text:  get(3),
	}
	if req.Track == "" {
		req.Track = string(models.TrackStudent)
	}

	for i, dst := range []**bool{&req.FourYear, &req.TwoYear, &req.Apprenticeship, &req.Undecided} {
		cell := get(4 + i)
		if cell == "" {
			continue
		}
		v, err := strconv.ParseBool(strings.ToLower(cell))
		if err != nil {
			return nil, fmt.Errorf("invalid %s flag %q", catalogSheetHeader[4+i], cell)
		}
		*dst = &v
	}

	if cell := get(8); cell != "" {
		due, err := time.Parse(importDateLayout, cell)
		if err != nil {
			return nil, fmt.Errorf("invalid due date %q, want YYYY-MM-DD", cell)
		}
		req.DueDate = &due
	}
	if cell := get(9); cell != "" {
		v, err := strconv.ParseBool(strings.ToLower(cell))
		if err != nil {
			return nil, fmt.Errorf("invalid ReNotify flag %q", cell)
		}
		req.ReNotify = &v
	}
	if cell := get(10); cell != "" {
		pos, err := strconv.Atoi(cell)
		if err != nil || pos < 0 {
			return nil, fmt.Errorf("invalid position %q", cell)
		}
		req.Position = &pos
	}

	if errs := s.validator.GetBusinessValidator().ValidateTaskCreate(req); len(errs) > 0 {
		return nil, errors.New(errs.Error())
	}

	task := &models.MasterTask{
		Grade:          models.GradeLevel(req.Grade),
		Track:          models.TaskTrack(req.Track),
		Month:          req.Month,
		Text:           req.Text,
		FourYear:       true,
		TwoYear:        true,
		Apprenticeship: true,
		Undecided:      true,
		DueDate:        req.DueDate,
	}
	if req.FourYear != nil {
		task.FourYear = *req.FourYear
	}
	if req.TwoYear != nil {
		task.TwoYear = *req.TwoYear
	}
	if req.Apprenticeship != nil {
		task.Apprenticeship = *req.Apprenticeship
	}
	if req.Undecided != nil {
		task.Undecided = *req.Undecided
	}
	if req.ReNotify != nil {
		task.ReNotify = *req.ReNotify
	}
	if req.Position != nil {
		task.Position = *req.Position
	}

	return task, nil
}

// ExportTasks writes the filtered catalog to a spreadsheet in the same
// column layout the importer accepts.
func (s *importExportService) ExportTasks(ctx context.Context, filters repositories.TaskFilters, requesterID string) ([]byte, error) {
	if err := s.requireAdmin(ctx, requesterID, "export"); err != nil {
		return nil, err
	}

	tasks, err := s.repo.Catalog().ListTasks(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog tasks: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(catalogSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	header := make([]interface{}, len(catalogSheetHeader))
	for i, h := range catalogSheetHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(catalogSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, task := range tasks {
		due := ""
		if task.DueDate != nil {
			due = task.DueDate.Format(importDateLayout)
		}
		row := []interface{}{
			string(task.Grade), string(task.Track), task.Month, task.Text,
			task.FourYear, task.TwoYear, task.Apprenticeship, task.Undecided,
			due, task.ReNotify, task.Position,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(catalogSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize spreadsheet: %w", err)
	}

	s.logger.Info("Catalog export finished", "tasks", len(tasks), "requester_id", requesterID)

	return buf.Bytes(), nil
}

func (s *importExportService) requireAdmin(ctx context.Context, requesterID, action string) error {
	requester, err := s.repo.Profile().GetByID(ctx, nil, requesterID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to load requester profile: %w", err)
	}

	if requester.Role != models.RoleAdmin {
		return NewPermissionError(requesterID, "catalog", action, "requires admin role")
	}
	return nil
}
