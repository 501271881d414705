package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"smartechtool/api/csvimport"
)

type ImportHandlers struct{}

func NewImportHandlers() *ImportHandlers {
	return &ImportHandlers{}
}

type importRequest struct {
	CSV string `json:"csv" binding:"required"`
}

// ImportCSV parses an event-sheet CSV into the activity tree the form edits.
// Schema failures are surfaced verbatim; nothing is persisted.
func (h *ImportHandlers) ImportCSV(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	activities, err := csvimport.Parse(req.CSV)
	if err != nil {
		var schemaErr *csvimport.SchemaError
		if errors.As(err, &schemaErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": schemaErr.Error()})
			return
		}
		log.Printf("Error parsing CSV import: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse CSV"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"activities": activities})
}
