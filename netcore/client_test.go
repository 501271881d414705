package netcore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartechtool/api/models"
)

func TestSendContact(t *testing.T) {
	var gotContentType, gotBody, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotQuery = r.URL.RawQuery
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)
	query := BuildContactQuery("key-123", models.ContactAdd, "")
	body := url.Values{"data": {`{"EMAIL":"a@b.c"}`}}

	resp, err := client.SendContact(context.Background(), server.URL, query, body)
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, `{"status":"success"}`, resp.Body)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Contains(t, gotQuery, "type=contact")
	assert.Contains(t, gotBody, "data=")
}

func TestSendActivity(t *testing.T) {
	var gotAuth string
	var gotRecords []models.ActivityRecord
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotRecords))
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"message":"queued"}`))
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)
	records := BuildActivityPayload("A1", "U1", "app", []models.Activity{{Name: "Signup"}})

	resp, err := client.SendActivity(context.Background(), server.URL, "tok-xyz", records)
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, http.StatusAccepted, resp.Status)
	assert.Equal(t, "Bearer tok-xyz", gotAuth)
	require.Len(t, gotRecords, 1)
	assert.Equal(t, "Signup", gotRecords[0].ActivityName)
}

func TestSendActivityNetworkErrorIsWrapped(t *testing.T) {
	client := NewClient(500 * time.Millisecond)
	_, err := client.SendActivity(context.Background(), "http://127.0.0.1:1", "tok", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "activity API request failed")
}

func TestAPIResponseOK(t *testing.T) {
	assert.True(t, APIResponse{Status: 201}.OK())
	assert.False(t, APIResponse{Status: 404}.OK())
	assert.False(t, APIResponse{Status: 500}.OK())
}
