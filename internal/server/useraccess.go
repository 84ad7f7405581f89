package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetUserAccounts returns the payer account ids one email may query.
func (s *Server) GetUserAccounts(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	lookup, err := s.userAccessSvc.Lookup(c.Request.Context(), email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, lookup)
}
