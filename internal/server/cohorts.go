package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	cohortdomain "github.com/smallbiznis/nasiya/internal/cohort/domain"
)

func (s *Server) GetMaturityCohort(c *gin.Context) {
	var query cohortdomain.Query
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.cohortSvc.MaturityReport(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetIntervalCohort(c *gin.Context) {
	var query cohortdomain.Query
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.cohortSvc.IntervalReport(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
