package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartechtool/api/models"
)

func newImportRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/import/csv", NewImportHandlers().ImportCSV)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestImportCSVEndpoint(t *testing.T) {
	r := newImportRouter()

	csv := "eventName,eventPayload,dataType\n" +
		"Booking_Created,amount,float\n" +
		",items[].sku,string\n" +
		",items[].qty,integer"

	w := postJSON(t, r, "/api/import/csv", gin.H{"csv": csv})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Activities []models.Activity `json:"activities"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Activities, 1)
	assert.Equal(t, "Booking_Created", resp.Activities[0].Name)
	assert.Len(t, resp.Activities[0].Params, 2)
}

func TestImportCSVEndpointSchemaError(t *testing.T) {
	r := newImportRouter()

	w := postJSON(t, r, "/api/import/csv", gin.H{"csv": "eventName,eventPayload,dataType"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "invalid CSV schema")
}

func TestImportCSVEndpointMissingBody(t *testing.T) {
	r := newImportRouter()

	w := postJSON(t, r, "/api/import/csv", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
