package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"smartechtool/api/config"
	"smartechtool/api/models"
	"smartechtool/api/netcore"
	"smartechtool/api/store"
)

// DispatchHandlers previews and fires the composed contact and activity API
// calls, recording every fired call in the history and analytics stores.
type DispatchHandlers struct {
	Cfg           config.Config
	Client        *netcore.Client
	HistoryStore  *store.HistoryStore
	DispatchStore *store.DispatchStore
}

func NewDispatchHandlers(cfg config.Config, client *netcore.Client, history *store.HistoryStore, dispatch *store.DispatchStore) *DispatchHandlers {
	return &DispatchHandlers{
		Cfg:           cfg,
		Client:        client,
		HistoryStore:  history,
		DispatchStore: dispatch,
	}
}

// PreviewContact composes a contact call and returns its curl equivalent
// without firing it.
func (h *DispatchHandlers) PreviewContact(c *gin.Context) {
	req, query, body, ok := h.composeContact(c)
	if !ok {
		return
	}

	endpoint := h.Cfg.ContactEndpoints.Resolve(req.Region)
	c.JSON(http.StatusOK, gin.H{
		"endpoint": endpoint,
		"query":    query.Encode(),
		"body":     body.Encode(),
		"curl":     netcore.ContactCurl(endpoint, query, body),
	})
}

// DispatchContact fires a contact call and records the outcome.
func (h *DispatchHandlers) DispatchContact(c *gin.Context) {
	req, query, body, ok := h.composeContact(c)
	if !ok {
		return
	}

	endpoint := h.Cfg.ContactEndpoints.Resolve(req.Region)

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Cfg.RequestTimeout)
	defer cancel()

	started := time.Now()
	resp, err := h.Client.SendContact(ctx, endpoint, query, body)
	if err != nil {
		log.Printf("Contact dispatch failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	attributes, _ := json.Marshal(req.Attributes)
	h.record(c, &models.CallRecord{
		CalledAt:     time.Now(),
		APIType:      models.APIContact,
		Region:       req.Region,
		Activity:     string(req.Activity),
		ListID:       req.ListID,
		Attributes:   attributes,
		ResponseBody: resp.Body,
		StatusCode:   resp.Status,
	}, []models.DispatchEvent{{
		EventID:      uuid.New().String(),
		APIType:      models.APIContact,
		Region:       req.Region,
		ActivityName: string(req.Activity),
		StatusCode:   resp.Status,
		Success:      resp.OK(),
		DurationMs:   time.Since(started).Milliseconds(),
		Timestamp:    time.Now().UTC(),
	}})

	c.JSON(http.StatusOK, gin.H{"response": resp})
}

// PreviewActivity builds the wire payload for an activity batch and returns
// it with its curl equivalent, without firing it.
func (h *DispatchHandlers) PreviewActivity(c *gin.Context) {
	req, records, ok := h.composeActivity(c)
	if !ok {
		return
	}

	endpoint := h.Cfg.ActivityEndpoints.Resolve(req.Region)
	curl, err := netcore.ActivityCurl(endpoint, req.BearerToken, records)
	if err != nil {
		log.Printf("Error generating activity curl: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate curl"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"endpoint": endpoint,
		"payload":  records,
		"curl":     curl,
	})
}

// DispatchActivity fires an activity batch and records the outcome.
func (h *DispatchHandlers) DispatchActivity(c *gin.Context) {
	req, records, ok := h.composeActivity(c)
	if !ok {
		return
	}

	endpoint := h.Cfg.ActivityEndpoints.Resolve(req.Region)

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Cfg.RequestTimeout)
	defer cancel()

	started := time.Now()
	resp, err := h.Client.SendActivity(ctx, endpoint, req.BearerToken, records)
	if err != nil {
		log.Printf("Activity dispatch failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	duration := time.Since(started).Milliseconds()

	var names []string
	events := make([]models.DispatchEvent, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.ActivityName)
		events = append(events, models.DispatchEvent{
			EventID:      uuid.New().String(),
			APIType:      models.APIActivity,
			Region:       req.Region,
			ActivityName: rec.ActivityName,
			StatusCode:   resp.Status,
			Success:      resp.OK(),
			DurationMs:   duration,
			Timestamp:    time.Now().UTC(),
		})
	}

	activities, _ := json.Marshal(req.Activities)
	h.record(c, &models.CallRecord{
		CalledAt:       time.Now(),
		APIType:        models.APIActivity,
		Region:         req.Region,
		Activity:       strings.Join(names, ", "),
		Identity:       req.Identity,
		ActivitySource: req.ActivitySource,
		Activities:     activities,
		ResponseBody:   resp.Body,
		StatusCode:     resp.Status,
	}, events)

	c.JSON(http.StatusOK, gin.H{"response": resp, "payload": records})
}

func (h *DispatchHandlers) composeContact(c *gin.Context) (models.ContactRequest, url.Values, url.Values, bool) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return req, nil, nil, false
	}

	if !config.IsValidRegion(req.Region) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid region. Use one of: us, in, eu"})
		return req, nil, nil, false
	}
	if !req.Activity.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity. Use one of: add, update, delete, addsync"})
		return req, nil, nil, false
	}

	body, err := netcore.BuildContactBody(req.Attributes)
	if err != nil {
		var coercionErr *netcore.FieldCoercionError
		if errors.As(err, &coercionErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": coercionErr.Error()})
			return req, nil, nil, false
		}
		log.Printf("Error building contact body: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build request body"})
		return req, nil, nil, false
	}

	return req, netcore.BuildContactQuery(req.APIKey, req.Activity, req.ListID), body, true
}

func (h *DispatchHandlers) composeActivity(c *gin.Context) (models.ActivityDispatchRequest, []models.ActivityRecord, bool) {
	var req models.ActivityDispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return req, nil, false
	}

	if !config.IsValidRegion(req.Region) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid region. Use one of: us, in, eu"})
		return req, nil, false
	}
	if len(req.Activities) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one activity is required"})
		return req, nil, false
	}

	return req, netcore.BuildActivityPayload(req.AssetID, req.Identity, req.ActivitySource, req.Activities), true
}

// record persists the call in history and analytics. Both are best-effort:
// a storage failure is logged but does not fail the dispatch response.
func (h *DispatchHandlers) record(c *gin.Context, call *models.CallRecord, events []models.DispatchEvent) {
	userID := c.GetInt("user_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.HistoryStore.Add(ctx, userID, call); err != nil {
		log.Printf("Error recording call history: %v", err)
	}
	if err := h.DispatchStore.InsertDispatchEvents(ctx, events); err != nil {
		log.Printf("Error recording dispatch events: %v", err)
	}
}
