package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	debtordomain "github.com/smallbiznis/nasiya/internal/debtor/domain"
	ledgerdomain "github.com/smallbiznis/nasiya/internal/ledger/domain"
	"github.com/smallbiznis/nasiya/internal/providers/pdf"
	ratingdomain "github.com/smallbiznis/nasiya/internal/rating/domain"
	"github.com/smallbiznis/nasiya/pkg/db/pagination"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
	statementDate   = "2006-01-02 15:04"
)

var amountPrinter = message.NewPrinter(language.English)

func (s *Server) CreateDebtor(c *gin.Context) {
	var req debtordomain.CreateDebtorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.debtorSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListDebtors(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Search string `form:"search"`
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.debtorSvc.List(c.Request.Context(), debtordomain.ListDebtorRequest{
		Pagination: query.Pagination,
		Search:     strings.TrimSpace(query.Search),
		Status:     strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Debtors, "page_info": resp.PageInfo})
}

func (s *Server) GetDebtor(c *gin.Context) {
	resp, err := s.debtorSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateDebtor(c *gin.Context) {
	var req debtordomain.UpdateDebtorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.debtorSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteDebtor(c *gin.Context) {
	if err := s.debtorSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) BulkDeleteDebtors(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	deleted, err := s.debtorSvc.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": deleted}})
}

func (s *Server) GetDebtorTimeline(c *gin.Context) {
	events, err := s.ledgerSvc.Timeline(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (s *Server) GetDebtorRating(c *gin.Context) {
	strategies := ratingdomain.ParseStrategies(c.Query("strategies"))
	resp, err := s.ratingSvc.RateDebtor(c.Request.Context(), strings.TrimSpace(c.Param("id")), strategies...)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ExportDebtors(c *gin.Context) {
	rows, err := s.debtorSvc.Export(c.Request.Context(), debtordomain.ExportRequest{
		Search: strings.TrimSpace(c.Query("search")),
		Status: strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	buf, err := s.excel.DebtorWorkbook(c.Request.Context(), rows)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := slug.Make("qarzdorlar "+s.clock.Now().Format(dateOnlyLayout)) + ".xlsx"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

func (s *Server) GetDebtorStatement(c *gin.Context) {
	ctx := c.Request.Context()
	id := strings.TrimSpace(c.Param("id"))

	debtor, err := s.debtorSvc.Get(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	debts, err := s.ledgerSvc.ListDebts(ctx, ledgerdomain.ListDebtsRequest{DebtorID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	payments, err := s.ledgerSvc.ListPayments(ctx, ledgerdomain.ListPaymentsRequest{DebtorID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.pdf.GenerateStatement(ctx, statementData(debtor, debts, payments, s.clock.Now().UTC().Format(statementDate)))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := slug.Make(debtor.FullName()+" statement") + ".pdf"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentTypePDF, body)
}

func statementData(d debtordomain.Debtor, debts []ledgerdomain.Debt, payments []ledgerdomain.Payment, generatedAt string) pdf.StatementData {
	data := pdf.StatementData{
		DebtorName:  d.FullName(),
		Phone:       derefString(d.PhoneNumber),
		Address:     derefString(d.Address),
		Balance:     formatAmount(d.TotalDebt),
		GeneratedAt: generatedAt,
	}

	totalDebts := decimal.Zero
	for _, debt := range debts {
		totalDebts = totalDebts.Add(debt.Amount)
		data.Debts = append(data.Debts, pdf.StatementLine{
			Date:   debt.CreatedAt.UTC().Format(statementDate),
			Detail: derefString(debt.Description),
			Amount: formatAmount(debt.Amount),
		})
	}

	totalPayments := decimal.Zero
	for _, p := range payments {
		totalPayments = totalPayments.Add(p.Amount)
		detail := string(p.PaymentType)
		if note := derefString(p.Note); note != "" {
			detail += ": " + note
		}
		data.Payments = append(data.Payments, pdf.StatementLine{
			Date:   p.CreatedAt.UTC().Format(statementDate),
			Detail: detail,
			Amount: formatAmount(p.Amount),
		})
	}

	data.TotalDebts = formatAmount(totalDebts)
	data.TotalPayments = formatAmount(totalPayments)
	return data
}

// formatAmount groups thousands with spaces, e.g. 1 250 000.50.
func formatAmount(v decimal.Decimal) string {
	v = v.Round(2)
	whole := v.Truncate(0)

	out := strings.ReplaceAll(amountPrinter.Sprintf("%d", whole.IntPart()), ",", " ")
	if v.IsNegative() && whole.IsZero() {
		out = "-" + out
	}
	if frac := v.Sub(whole).Abs().StringFixed(2)[2:]; frac != "00" {
		out += "." + frac
	}
	return out
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
