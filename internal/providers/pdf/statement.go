package pdf

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var ErrEmptyStatement = errors.New("empty_statement")

// StatementData is a preformatted debtor statement. Amounts and dates are
// rendered as given.
type StatementData struct {
	DebtorName  string
	Phone       string
	Address     string
	Balance     string
	GeneratedAt string

	Debts    []StatementLine
	Payments []StatementLine

	TotalDebts    string
	TotalPayments string
}

type StatementLine struct {
	Date   string
	Detail string
	Amount string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateStatement(ctx context.Context, data StatementData) (io.Reader, error) {
	if data.DebtorName == "" {
		return nil, ErrEmptyStatement
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "{current} / {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, "Hisob varag'i", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, data.GeneratedAt, props.Text{
			Size:  9,
			Align: align.Right,
		}),
	)

	m.AddRow(24,
		col.New(8).Add(
			text.New(data.DebtorName, props.Text{Size: 12, Style: fontstyle.Bold}),
			text.New("Telefon: "+orDash(data.Phone), props.Text{Top: 6, Size: 9}),
			text.New("Manzil: "+orDash(data.Address), props.Text{Top: 11, Size: 9}),
		),
		col.New(4).Add(
			text.New("Qoldiq", props.Text{Size: 9, Align: align.Right}),
			text.New(data.Balance, props.Text{Top: 5, Size: 14, Style: fontstyle.Bold, Align: align.Right}),
		),
	)

	addSection(m, "Qarzlar", data.Debts, data.TotalDebts)
	addSection(m, "To'lovlar", data.Payments, data.TotalPayments)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func addSection(m core.Maroto, title string, lines []StatementLine, total string) {
	m.AddRow(12,
		text.NewCol(12, title, props.Text{Size: 12, Style: fontstyle.Bold, Top: 4}),
	)
	m.AddRow(8,
		text.NewCol(3, "Sana", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(6, "Izoh", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Summa", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(1, line.NewCol(12))

	if len(lines) == 0 {
		m.AddRow(8, text.NewCol(12, "-", props.Text{Size: 9}))
	}
	for _, l := range lines {
		m.AddRow(7,
			text.NewCol(3, l.Date, props.Text{Size: 9}),
			text.NewCol(6, l.Detail, props.Text{Size: 9}),
			text.NewCol(3, l.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(8,
		col.New(6),
		text.NewCol(3, "Jami", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(3, total, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
