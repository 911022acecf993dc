package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
	"github.com/ICAN-F-2025/readiness-service/internal/validator"
)

func newTestImportExportService(repo *fakeRepository) ImportExportService {
	return NewImportExportService(repo, nil, testLogger(), validator.New())
}

func buildCatalogSheet(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(catalogSheetName); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}

	header := make([]interface{}, len(catalogSheetHeader))
	for i, h := range catalogSheetHeader {
		header[i] = h
	}
	all := append([][]interface{}{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName failed: %v", err)
		}
		if err := f.SetSheetRow(catalogSheetName, cell, &row); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf
}

func TestImportExportService_ImportTasks(t *testing.T) {
	repo := newFakeRepository()
	seedRoles(repo)
	service := newTestImportExportService(repo)

	buf := buildCatalogSheet(t, [][]interface{}{
		{"9th", "student", "August", "Get a library card", true, true, true, true, "2025-08-15", false, 0},
		{"9th", "", "October", "Draft a four-year course plan"},
		{"", "", "", "", "", "", "", "", "", "", ""},
		{"13th", "student", "August", "Bad grade row"},
		{"9th", "student", "November", "Bad flag row", "maybe"},
	})

	result, err := service.ImportTasks(context.Background(), buf, "admin-1")
	if err != nil {
		t.Fatalf("ImportTasks failed: %v", err)
	}

	if result.Imported != 2 {
		t.Errorf("Imported = %d, want 2", result.Imported)
	}
	if result.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", result.Skipped)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("Errors = %v, want 2 entries", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "row 5") {
		t.Errorf("first error = %q, want row 5 mentioned", result.Errors[0])
	}
	if !strings.Contains(result.Errors[1], "row 6") {
		t.Errorf("second error = %q, want row 6 mentioned", result.Errors[1])
	}

	tasks, err := repo.Catalog().ListTasks(context.Background(), nil, repositories.TaskFilters{})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("stored tasks = %d, want 2", len(tasks))
	}
	first := tasks[0]
	if first.Grade != models.Grade9 || first.Month != "August" || first.DueDate == nil {
		t.Errorf("first imported task = %+v", first)
	}
	// A row with no flag columns keeps the task visible to every plan.
	second := tasks[1]
	if !second.FourYear || !second.TwoYear || !second.Apprenticeship || !second.Undecided {
		t.Errorf("second imported task plan flags = %+v, want all true", second)
	}
	if second.Track != models.TrackStudent {
		t.Errorf("second imported task track = %q, want student", second.Track)
	}
}

func TestImportExportService_ImportRequiresAdmin(t *testing.T) {
	repo := newFakeRepository()
	seedRoles(repo)
	service := newTestImportExportService(repo)

	buf := buildCatalogSheet(t, nil)
	if _, err := service.ImportTasks(context.Background(), buf, "counselor-1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("counselor import error = %v, want ErrForbidden", err)
	}
}

func TestImportExportService_ImportRejectsGarbage(t *testing.T) {
	repo := newFakeRepository()
	seedRoles(repo)
	service := newTestImportExportService(repo)

	_, err := service.ImportTasks(context.Background(), strings.NewReader("not a spreadsheet"), "admin-1")
	if !errors.Is(err, ErrBadRequest) {
		t.Errorf("garbage import error = %v, want ErrBadRequest", err)
	}
}

func TestImportExportService_ExportRoundTrip(t *testing.T) {
	repo := newFakeRepository()
	seedRoles(repo)
	seedStudentCatalog(repo)
	service := newTestImportExportService(repo)

	data, err := service.ExportTasks(context.Background(), repositories.TaskFilters{}, "admin-1")
	if err != nil {
		t.Fatalf("ExportTasks failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("exported file unreadable: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(catalogSheetName)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("exported rows = %d, want header plus 5 tasks", len(rows))
	}
	for i, want := range catalogSheetHeader {
		if i >= len(rows[0]) || rows[0][i] != want {
			t.Fatalf("header = %v, want %v", rows[0], catalogSheetHeader)
		}
	}

	// The export must be importable as-is.
	target := newFakeRepository()
	seedRoles(target)
	result, err := newTestImportExportService(target).ImportTasks(context.Background(), bytes.NewReader(data), "admin-1")
	if err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	if result.Imported != 5 || result.Skipped != 0 {
		t.Errorf("re-import = %+v, want 5 imported, 0 skipped", result)
	}
}
