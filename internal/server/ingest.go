package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type ingestRequest struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// IngestBillingFile manually triggers ingestion of one uploaded billing
// spreadsheet; the bucket listener uses the same engine.
func (s *Server) IngestBillingFile(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	bucket := strings.TrimSpace(req.Bucket)
	key := strings.TrimSpace(req.Key)
	if bucket == "" || key == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.ingestionSvc.ProcessFile(c.Request.Context(), bucket, key)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// IngestUserAccessFile manually triggers ingestion of one
// identity-to-scope mapping CSV.
func (s *Server) IngestUserAccessFile(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	bucket := strings.TrimSpace(req.Bucket)
	key := strings.TrimSpace(req.Key)
	if bucket == "" || key == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.userAccessSvc.ProcessFile(c.Request.Context(), bucket, key)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
