package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/xuri/excelize/v2"
)

var (
	ErrNotAnExcelFile = errors.New("file must be an .xlsx workbook")
	ErrEmptySheet     = errors.New("the uploaded sheet has no data rows")
)

// AccountTypeResponse flattens the hierarchy for the dropdown views.
type AccountTypeResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	NameEN      string `json:"name_en"`
	Description string `json:"description,omitempty"`
	ParentID    *uint  `json:"parent_id,omitempty"`
	ParentName  string `json:"parent_name,omitempty"`
}

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// AccountTypeService imports and serves the chart of accounts.
type AccountTypeService interface {
	ImportExcel(ctx context.Context, filename string, file io.Reader) (*ImportResult, error)
	ListActive(ctx context.Context) ([]AccountTypeResponse, error)
}

type accountTypeService struct {
	accountTypes repository.AccountTypeRepository
}

func NewAccountTypeService(accountTypes repository.AccountTypeRepository) AccountTypeService {
	return &accountTypeService{accountTypes: accountTypes}
}

// ImportExcel reads the first sheet of an .xlsx workbook with columns
// ID, Name, Name_EN, Description, Parent_ID (header row first) and
// replaces the whole account type table with its rows.
func (s *accountTypeService) ImportExcel(ctx context.Context, filename string, file io.Reader) (*ImportResult, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		return nil, ErrNotAnExcelFile
	}

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	result := &ImportResult{}
	accountTypes := make([]model.AccountType, 0, len(rows)-1)
	for _, row := range rows[1:] {
		at, ok := parseAccountTypeRow(row)
		if !ok {
			result.Skipped++
			continue
		}
		accountTypes = append(accountTypes, at)
	}
	if len(accountTypes) == 0 {
		return nil, ErrEmptySheet
	}

	if err := s.accountTypes.ReplaceAll(ctx, accountTypes); err != nil {
		return nil, fmt.Errorf("failed to store account types: %w", err)
	}

	result.Imported = len(accountTypes)
	return result, nil
}

func (s *accountTypeService) ListActive(ctx context.Context) ([]AccountTypeResponse, error) {
	accountTypes, err := s.accountTypes.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account types: %w", err)
	}

	result := make([]AccountTypeResponse, 0, len(accountTypes))
	for _, at := range accountTypes {
		resp := AccountTypeResponse{
			ID:          at.ID,
			Name:        at.Name,
			NameEN:      at.NameEN,
			Description: at.Description,
			ParentID:    at.ParentID,
		}
		if at.Parent != nil {
			resp.ParentName = at.Parent.Name
		}
		result = append(result, resp)
	}
	return result, nil
}

// parseAccountTypeRow maps one sheet row to a record. Rows without a
// numeric id or a name are skipped rather than failing the import.
func parseAccountTypeRow(row []string) (model.AccountType, bool) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	id, err := strconv.ParseUint(cell(0), 10, 32)
	if err != nil || id == 0 {
		return model.AccountType{}, false
	}
	name := cell(1)
	if name == "" {
		return model.AccountType{}, false
	}

	at := model.AccountType{
		ID:          uint(id),
		Name:        name,
		NameEN:      cell(2),
		Description: cell(3),
		IsActive:    true,
	}
	if parent, perr := strconv.ParseUint(cell(4), 10, 32); perr == nil && parent != 0 {
		p := uint(parent)
		at.ParentID = &p
	}
	return at, true
}
