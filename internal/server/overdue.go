package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListOverdue(c *gin.Context) {
	resp, err := s.overdueSvc.ListOverdue(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp, "count": len(resp)})
}
