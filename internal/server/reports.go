package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetStats(c *gin.Context) {
	resp, err := s.reportSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetChart(c *gin.Context) {
	resp, err := s.reportSvc.Chart(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetWindow(c *gin.Context) {
	resp, err := s.reportSvc.Window(c.Request.Context(),
		strings.TrimSpace(c.Query("window")),
		strings.TrimSpace(c.Query("date")),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTrends(c *gin.Context) {
	resp, err := s.reportSvc.Trends(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRisk(c *gin.Context) {
	resp, err := s.reportSvc.Risk(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetHeatmap(c *gin.Context) {
	resp, err := s.reportSvc.Heatmap(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetMonthly(c *gin.Context) {
	resp, err := s.reportSvc.Monthly(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
