package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	ledgerdomain "github.com/smallbiznis/nasiya/internal/ledger/domain"
)

func (s *Server) RecordDebt(c *gin.Context) {
	var req ledgerdomain.RecordDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ledgerSvc.RecordDebt(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListDebts(c *gin.Context) {
	resp, err := s.ledgerSvc.ListDebts(c.Request.Context(), ledgerdomain.ListDebtsRequest{
		DebtorID: strings.TrimSpace(c.Query("debtor_id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RecordPayment(c *gin.Context) {
	var req ledgerdomain.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ledgerSvc.RecordPayment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListPayments(c *gin.Context) {
	resp, err := s.ledgerSvc.ListPayments(c.Request.Context(), ledgerdomain.ListPaymentsRequest{
		DebtorID:    strings.TrimSpace(c.Query("debtor_id")),
		PaymentType: strings.TrimSpace(c.Query("payment_type")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
