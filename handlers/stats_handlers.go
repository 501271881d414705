package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"smartechtool/api/store"
)

// StatsHandlers serves dispatch analytics from ClickHouse.
type StatsHandlers struct {
	DispatchStore *store.DispatchStore
}

func NewStatsHandlers(dispatch *store.DispatchStore) *StatsHandlers {
	return &StatsHandlers{DispatchStore: dispatch}
}

// parseTimeRange reads optional start/end query params, defaulting to the
// last 7 days. Returns ok=false after writing the error response.
func parseTimeRange(c *gin.Context) (start, end time.Time, ok bool) {
	var err error

	start = time.Now().UTC().Add(-7 * 24 * time.Hour)
	if v := c.Query("start"); v != "" {
		start, err = time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'start' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
			return start, end, false
		}
	}

	end = time.Now().UTC()
	if v := c.Query("end"); v != "" {
		end, err = time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'end' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
			return start, end, false
		}
	}

	return start, end, true
}

// GetDispatchCounts returns call counts bucketed by interval, optionally
// filtered by api type (contact/activity).
func (h *StatsHandlers) GetDispatchCounts(c *gin.Context) {
	interval := c.Query("interval")
	if interval == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval query parameter is required (e.g., 'Day', 'Hour')"})
		return
	}

	apiTypeFilter := c.Query("apiType")

	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, err := h.DispatchStore.GetDispatchCountsOverTime(ctx, interval, start, end, apiTypeFilter)
	if err != nil {
		log.Printf("Error getting dispatch counts over time: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dispatch statistics"})
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetAverageDuration returns the mean round-trip time of dispatched calls.
func (h *StatsHandlers) GetAverageDuration(c *gin.Context) {
	apiTypeFilter := c.Query("apiType")

	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	avgDuration, err := h.DispatchStore.GetAverageDispatchDuration(ctx, apiTypeFilter, start, end)
	if err != nil {
		log.Printf("Error getting average dispatch duration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve average duration statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"apiType":           apiTypeFilter,
		"startDate":         start.Format(time.RFC3339),
		"endDate":           end.Format(time.RFC3339),
		"averageDurationMs": avgDuration,
	})
}

// GetSuccessRate returns the share of 2xx dispatches in the window.
func (h *StatsHandlers) GetSuccessRate(c *gin.Context) {
	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	rate, err := h.DispatchStore.GetSuccessRate(ctx, start, end)
	if err != nil {
		log.Printf("Error getting success rate: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve success rate statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"startDate":   start.Format(time.RFC3339),
		"endDate":     end.Format(time.RFC3339),
		"successRate": rate,
	})
}

// GetTopActivities returns the most dispatched activity names.
func (h *StatsHandlers) GetTopActivities(c *gin.Context) {
	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}

	var limit uint64 = 10
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil || parsed == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' parameter. Must be a positive integer."})
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, err := h.DispatchStore.GetTopActivities(ctx, start, end, limit)
	if err != nil {
		log.Printf("Error getting top activities: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve top activity statistics"})
		return
	}

	c.JSON(http.StatusOK, results)
}
