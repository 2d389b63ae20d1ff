package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/utkandevrim/ac/config"
	"github.com/utkandevrim/ac/internal/model"
	"github.com/utkandevrim/ac/internal/repository"
)

var ErrExportGenerateFail = errors.New("failed to generate the Excel file")

const (
	markPaid    = "✓"
	markUnpaid  = "✗"
	markMissing = "-"
)

// ExportService spreadsheet exports.
//
// The workbook is returned as a buffer; the handler sets the download
// headers and writes it out.
type ExportService interface {
	// ExportDues writes one row per approved member with a column per
	// academic month for the given year. year 0 means the current year.
	ExportDues(ctx context.Context, year int, caller Caller) (*bytes.Buffer, string, error)
}

type exportService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService builds the ExportService.
func NewExportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, repo: repo, logger: logger, now: time.Now}
}

func (s *exportService) ExportDues(ctx context.Context, year int, caller Caller) (*bytes.Buffer, string, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, "", err
	}
	if year == 0 {
		year = s.now().In(s.cfg.Club.Location()).Year()
	}

	// 1. members and the year's ledger
	members, err := s.repo.Member.ListByApproval(ctx, true)
	if err != nil {
		s.logger.Error("list members failed", zap.Error(err))
		return nil, "", err
	}
	records, err := s.repo.Dues.ListByYear(ctx, year)
	if err != nil {
		s.logger.Error("list dues failed", zap.Int("year", year), zap.Error(err))
		return nil, "", err
	}

	// 2. index: member id → month → record
	ledger := make(map[string]map[string]model.Dues, len(members))
	for _, d := range records {
		if ledger[d.UserID] == nil {
			ledger[d.UserID] = make(map[string]model.Dues, len(model.AcademicMonths))
		}
		ledger[d.UserID][d.Month] = d
	}

	sort.SliceStable(members, func(i, j int) bool {
		if members[i].Surname != members[j].Surname {
			return members[i].Surname < members[j].Surname
		}
		return members[i].Name < members[j].Name
	})

	// 3. workbook
	f := excelize.NewFile()
	defer f.Close()

	sheetName := fmt.Sprintf("Aidat %d", year)
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	lastCol := colName(2 + len(model.AcademicMonths) + 1)
	f.SetColWidth(sheetName, "A", "A", 24)
	f.SetColWidth(sheetName, "B", "B", 20)
	f.SetColWidth(sheetName, colName(2), colName(1+len(model.AcademicMonths)), 8)
	f.SetColWidth(sheetName, colName(2+len(model.AcademicMonths)), lastCol, 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	centerStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	// title
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Aidat Takibi %d", year))
	f.MergeCell(sheetName, "A1", lastCol+"1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// header
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "Ad Soyad")
	f.SetCellValue(sheetName, cell("B", row), "Kullanıcı Adı")
	for i, month := range model.AcademicMonths {
		f.SetCellValue(sheetName, cell(colName(2+i), row), month)
	}
	paidCountCol := colName(2 + len(model.AcademicMonths))
	f.SetCellValue(sheetName, cell(paidCountCol, row), "Ödenen Ay")
	f.SetCellValue(sheetName, cell(lastCol, row), "Ödenen Tutar")
	f.SetCellStyle(sheetName, cell("A", row), cell(lastCol, row), headerStyle)

	// data
	row = 3
	for i := range members {
		m := &members[i]
		f.SetCellValue(sheetName, cell("A", row), m.Name+" "+m.Surname)
		f.SetCellValue(sheetName, cell("B", row), m.Username)

		paidCount, paidTotal := 0, 0
		for j, month := range model.AcademicMonths {
			mark := markMissing
			if d, ok := ledger[m.ID][month]; ok {
				mark = markUnpaid
				if d.IsPaid {
					mark = markPaid
					paidCount++
					paidTotal += d.Amount
				}
			}
			f.SetCellValue(sheetName, cell(colName(2+j), row), mark)
		}
		f.SetCellValue(sheetName, cell(paidCountCol, row), paidCount)
		f.SetCellValue(sheetName, cell(lastCol, row), paidTotal)
		f.SetCellStyle(sheetName, cell(colName(2), row), cell(paidCountCol, row), centerStyle)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, fmt.Sprintf("aidat_%d.xlsx", year), nil
}

// ── helpers ──

// colName maps a zero-based column index to its letter name.
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
