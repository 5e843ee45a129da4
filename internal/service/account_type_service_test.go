package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/xuri/excelize/v2"
)

type fakeAccountTypeRepo struct {
	stored []model.AccountType
}

var _ repository.AccountTypeRepository = (*fakeAccountTypeRepo)(nil)

func (r *fakeAccountTypeRepo) ReplaceAll(_ context.Context, accountTypes []model.AccountType) error {
	r.stored = accountTypes
	return nil
}

func (r *fakeAccountTypeRepo) ListActive(context.Context) ([]model.AccountType, error) {
	return r.stored, nil
}

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := workbook.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return &buf
}

func TestImportExcel(t *testing.T) {
	repo := &fakeAccountTypeRepo{}
	svc := NewAccountTypeService(repo)

	buf := buildWorkbook(t, [][]interface{}{
		{"ID", "Name", "Name_EN", "Description", "Parent_ID"},
		{1, "مصاريف تشغيلية", "Operating expenses", "", ""},
		{2, "قرطاسية", "Stationery", "Office supplies", 1},
		{"", "row without id", "", "", ""},
	})

	result, err := svc.ImportExcel(context.Background(), "accounts.xlsx", buf)
	if err != nil {
		t.Fatalf("ImportExcel: %v", err)
	}

	if result.Imported != 2 || result.Skipped != 1 {
		t.Errorf("result = %+v, want 2 imported, 1 skipped", result)
	}
	if len(repo.stored) != 2 {
		t.Fatalf("stored = %d rows", len(repo.stored))
	}
	child := repo.stored[1]
	if child.ParentID == nil || *child.ParentID != 1 {
		t.Errorf("child parent = %v, want 1", child.ParentID)
	}
	if child.NameEN != "Stationery" {
		t.Errorf("name_en = %q", child.NameEN)
	}
}

func TestImportExcelRejectsOtherExtensions(t *testing.T) {
	svc := NewAccountTypeService(&fakeAccountTypeRepo{})

	_, err := svc.ImportExcel(context.Background(), "accounts.csv", strings.NewReader("id,name"))
	if !errors.Is(err, ErrNotAnExcelFile) {
		t.Errorf("err = %v, want ErrNotAnExcelFile", err)
	}
}

func TestImportExcelEmptySheet(t *testing.T) {
	svc := NewAccountTypeService(&fakeAccountTypeRepo{})

	buf := buildWorkbook(t, [][]interface{}{
		{"ID", "Name", "Name_EN", "Description", "Parent_ID"},
	})
	_, err := svc.ImportExcel(context.Background(), "accounts.xlsx", buf)
	if !errors.Is(err, ErrEmptySheet) {
		t.Errorf("err = %v, want ErrEmptySheet", err)
	}
}

func TestParseAccountTypeRow(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		ok   bool
	}{
		{"full row", []string{"3", "اسم", "Name", "desc", "1"}, true},
		{"no parent", []string{"3", "اسم", "Name", "", ""}, true},
		{"missing id", []string{"", "اسم", "Name", "", ""}, false},
		{"zero id", []string{"0", "اسم", "Name", "", ""}, false},
		{"missing name", []string{"3", "", "Name", "", ""}, false},
		{"short row", []string{"3"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := parseAccountTypeRow(tt.row)
			if ok != tt.ok {
				t.Errorf("ok = %v, want %v", ok, tt.ok)
			}
		})
	}
}
