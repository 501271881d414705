package netcore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartechtool/api/models"
)

func TestBuildContactQuery(t *testing.T) {
	query := BuildContactQuery("key-123", models.ContactAdd, "42")
	assert.Equal(t, "contact", query.Get("type"))
	assert.Equal(t, "add", query.Get("activity"))
	assert.Equal(t, "key-123", query.Get("apikey"))
	assert.Equal(t, "42", query.Get("listid"))
}

func TestBuildContactQueryOmitsBadListID(t *testing.T) {
	query := BuildContactQuery("key-123", models.ContactUpdate, "")
	assert.False(t, query.Has("listid"))

	query = BuildContactQuery("key-123", models.ContactUpdate, "abc")
	assert.False(t, query.Has("listid"))
}

func TestBuildContactBody(t *testing.T) {
	body, err := BuildContactBody([]models.Attribute{
		{Key: "EMAIL", Value: "user@example.com", DataType: models.TypeString},
		{Key: "AGE", Value: "30", DataType: models.TypeNumber},
		{Key: "", Value: "ignored", DataType: models.TypeString},
		{Key: "EMPTY", Value: "", DataType: models.TypeString},
	})
	require.NoError(t, err)

	var data map[string]string
	require.NoError(t, json.Unmarshal([]byte(body.Get("data")), &data))
	assert.Equal(t, map[string]string{
		"EMAIL": "user@example.com",
		"AGE":   "30",
	}, data)
}

func TestBuildContactBodyRejectsBadDate(t *testing.T) {
	_, err := BuildContactBody([]models.Attribute{
		{Key: "DOB", Value: "31/01/2024", DataType: models.TypeDate},
	})
	var coercionErr *FieldCoercionError
	require.ErrorAs(t, err, &coercionErr)
	assert.Equal(t, "DOB", coercionErr.Key)
}

func TestValidateAttribute(t *testing.T) {
	assert.NoError(t, ValidateAttribute(models.Attribute{Key: "D", Value: "2024-01-31", DataType: models.TypeDate}))
	assert.NoError(t, ValidateAttribute(models.Attribute{Key: "F", Value: "1.5", DataType: models.TypeFloat}))
	assert.NoError(t, ValidateAttribute(models.Attribute{Key: "S", Value: "anything", DataType: models.TypeString}))
	assert.Error(t, ValidateAttribute(models.Attribute{Key: "F", Value: "1.5x", DataType: models.TypeFloat}))
	assert.Error(t, ValidateAttribute(models.Attribute{Key: "N", Value: "1.5", DataType: models.TypeNumber}))
}

func TestContactActionValidation(t *testing.T) {
	assert.True(t, models.ContactAddSync.IsValid())
	assert.False(t, models.ContactAction("drop").IsValid())
}
