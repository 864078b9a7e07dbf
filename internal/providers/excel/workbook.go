// Package excel builds spreadsheet exports.
package excel

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	debtordomain "github.com/smallbiznis/nasiya/internal/debtor/domain"
	"github.com/xuri/excelize/v2"
	"go.uber.org/fx"
)

const (
	DebtorSheet  = "Qarzdorlar"
	minColWidth  = 10
	createdAtFmt = "2006-01-02 15:04"
)

var debtorHeaders = []string{
	"ID", "Ism", "Familiya", "Telefon", "Manzil", "Qarz", "Jami qarzlar", "Jami to'lovlar", "Holat", "Yaratilgan",
}

var statusLabels = map[debtordomain.Status]string{
	debtordomain.StatusOverLimit: "Limitdan oshgan",
	debtordomain.StatusInDebt:    "Qarzdor",
	debtordomain.StatusPaid:      "To'langan",
}

type Provider interface {
	DebtorWorkbook(ctx context.Context, rows []debtordomain.ExportRow) (*bytes.Buffer, error)
}

var Module = fx.Module("providers.excel",
	fx.Provide(New),
)

type ExcelProvider struct{}

func New() Provider {
	return &ExcelProvider{}
}

func StatusLabel(s debtordomain.Status) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func (p *ExcelProvider) DebtorWorkbook(ctx context.Context, rows []debtordomain.ExportRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), DebtorSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	widths := make([]int, len(debtorHeaders))
	setRow := func(rowIdx int, values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(DebtorSheet, cell, &values); err != nil {
			return err
		}
		for i, v := range values {
			if w := utf8.RuneCountInString(fmt.Sprint(v)) + 2; w > widths[i] {
				widths[i] = w
			}
		}
		return nil
	}

	header := make([]any, len(debtorHeaders))
	for i, h := range debtorHeaders {
		header[i] = h
	}
	if err := setRow(1, header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d := row.Debtor
		values := []any{
			d.ID.String(),
			d.FirstName,
			d.LastName,
			deref(d.PhoneNumber),
			deref(d.Address),
			d.TotalDebt.InexactFloat64(),
			row.TotalDebts.InexactFloat64(),
			row.TotalPayments.InexactFloat64(),
			StatusLabel(row.Status),
			d.CreatedAt.UTC().Format(createdAtFmt),
		}
		if err := setRow(i+2, values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	boldID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	last, _ := excelize.ColumnNumberToName(len(debtorHeaders))
	if err := f.SetCellStyle(DebtorSheet, "A1", last+"1", boldID); err != nil {
		return nil, err
	}

	for i, w := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(DebtorSheet, name, name, float64(max(w, minColWidth))); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
