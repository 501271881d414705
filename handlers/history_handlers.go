package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"smartechtool/api/store"
)

// HistoryHandlers serves the bounded call history and the saved form state.
type HistoryHandlers struct {
	HistoryStore   *store.HistoryStore
	FormStateStore *store.FormStateStore
}

func NewHistoryHandlers(history *store.HistoryStore, formState *store.FormStateStore) *HistoryHandlers {
	return &HistoryHandlers{HistoryStore: history, FormStateStore: formState}
}

// ListHistory returns the user's recent calls, newest first.
func (h *HistoryHandlers) ListHistory(c *gin.Context) {
	userID := c.GetInt("user_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	records, err := h.HistoryStore.List(ctx, userID)
	if err != nil {
		log.Printf("Error listing call history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve call history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": records})
}

// GetCall returns one call record for restoring its form.
func (h *HistoryHandlers) GetCall(c *gin.Context) {
	userID := c.GetInt("user_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid call id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	record, err := h.HistoryStore.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, store.ErrCallNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Call record not found"})
			return
		}
		log.Printf("Error getting call record %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve call record"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// ClearHistory deletes the user's entire call history.
func (h *HistoryHandlers) ClearHistory(c *gin.Context) {
	userID := c.GetInt("user_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.HistoryStore.Clear(ctx, userID); err != nil {
		log.Printf("Error clearing call history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear call history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Call history cleared"})
}

// allowed form-state keys; anything else is a client error.
func isValidFormStateKey(key string) bool {
	switch key {
	case "contactForm", "activityForm":
		return true
	default:
		return false
	}
}

// SaveFormState upserts one saved-form blob.
func (h *HistoryHandlers) SaveFormState(c *gin.Context) {
	userID := c.GetInt("user_id")

	key := c.Param("key")
	if !isValidFormStateKey(key) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form state key. Use contactForm or activityForm"})
		return
	}

	var payload json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.FormStateStore.Save(ctx, userID, key, payload); err != nil {
		log.Printf("Error saving form state %q: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save form state"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Form state saved"})
}

// LoadFormState returns one saved-form blob.
func (h *HistoryHandlers) LoadFormState(c *gin.Context) {
	userID := c.GetInt("user_id")

	key := c.Param("key")
	if !isValidFormStateKey(key) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form state key. Use contactForm or activityForm"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	payload, err := h.FormStateStore.Load(ctx, userID, key)
	if err != nil {
		if errors.Is(err, store.ErrFormStateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No saved form state"})
			return
		}
		log.Printf("Error loading form state %q: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load form state"})
		return
	}

	c.Data(http.StatusOK, "application/json", payload)
}
