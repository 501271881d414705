package netcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartechtool/api/models"
)

func TestContactCurl(t *testing.T) {
	query := BuildContactQuery("key-123", models.ContactAdd, "")
	body, err := BuildContactBody([]models.Attribute{
		{Key: "EMAIL", Value: "user@example.com", DataType: models.TypeString},
	})
	require.NoError(t, err)

	curl := ContactCurl("https://api.netcoresmartech.com/apiv2", query, body)
	assert.Contains(t, curl, `curl -X POST "https://api.netcoresmartech.com/apiv2?`)
	assert.Contains(t, curl, "activity=add")
	assert.Contains(t, curl, "apikey=key-123")
	assert.Contains(t, curl, "Content-Type: application/x-www-form-urlencoded")
	assert.Contains(t, curl, `--data-urlencode 'data={"EMAIL":"user@example.com"}'`)
}

func TestActivityCurl(t *testing.T) {
	records := BuildActivityPayload("A1", "U1", "app", []models.Activity{{
		Name:   "Signup",
		Params: []models.Parameter{{Key: "plan", Type: models.TypeString, Value: "pro"}},
	}})

	curl, err := ActivityCurl("https://api2.netcoresmartech.com/v1/activity/upload", "tok-xyz", records)
	require.NoError(t, err)
	assert.Contains(t, curl, "curl --location 'https://api2.netcoresmartech.com/v1/activity/upload'")
	assert.Contains(t, curl, "--header 'Authorization: Bearer tok-xyz'")
	assert.Contains(t, curl, "--header 'Content-Type: application/json'")
	assert.Contains(t, curl, `"activity_name":"Signup"`)
	assert.Contains(t, curl, `"plan":"pro"`)
}
