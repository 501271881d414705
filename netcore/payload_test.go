package netcore

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartechtool/api/models"
)

func bookingActivity() models.Activity {
	return models.Activity{
		Name: "Booking_Created",
		Params: []models.Parameter{
			{Key: "amount", Type: models.TypeFloat, Value: 42.5},
			{Key: "items", Type: models.TypeArray, Items: []models.ArrayItem{{
				"sku": {Value: "Sample Text", Type: models.TypeString},
				"qty": {Value: 42, Type: models.TypeNumber},
			}}},
		},
	}
}

func TestBuildActivityPayload(t *testing.T) {
	records := BuildActivityPayload("A1", "U1", "app", []models.Activity{bookingActivity()})
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "A1", rec.AssetID)
	assert.Equal(t, "Booking_Created", rec.ActivityName)
	assert.Equal(t, "U1", rec.Identity)
	assert.Equal(t, "app", rec.ActivitySource)
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}$`), rec.Timestamp)

	assert.Equal(t, 42.5, rec.ActivityParams["amount"])

	items, ok := rec.ActivityParams["items"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "Sample Text", items[0]["sku"])
	assert.Equal(t, 42, items[0]["qty"])
}

func TestBuildActivityPayloadSharedTimestamp(t *testing.T) {
	records := BuildActivityPayload("A1", "U1", "web", []models.Activity{
		{Name: "One"}, {Name: "Two"}, {Name: "Three"},
	})
	require.Len(t, records, 3)
	assert.Equal(t, records[0].Timestamp, records[1].Timestamp)
	assert.Equal(t, records[1].Timestamp, records[2].Timestamp)
}

func TestBuildActivityPayloadPreservesDeclaredTypes(t *testing.T) {
	// Declared types survive the build: float stays numeric, number stays an
	// integer, string and date stay text.
	act := models.Activity{
		Name: "Typed",
		Params: []models.Parameter{
			{Key: "f", Type: models.TypeFloat, Value: "12.25"},
			{Key: "n", Type: models.TypeNumber, Value: "7"},
			{Key: "s", Type: models.TypeString, Value: "hello"},
			{Key: "d", Type: models.TypeDate, Value: "2024-01-31"},
		},
	}

	records := BuildActivityPayload("A", "I", "app", []models.Activity{act})
	params := records[0].ActivityParams
	assert.Equal(t, 12.25, params["f"])
	assert.Equal(t, int64(7), params["n"])
	assert.Equal(t, "hello", params["s"])
	assert.Equal(t, "2024-01-31", params["d"])

	// And the record marshals cleanly as the wire JSON.
	encoded, err := json.Marshal(records)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"activity_name":"Typed"`)
	assert.Contains(t, string(encoded), `"n":7`)
}

func TestCoerceValueEmptyAndMalformed(t *testing.T) {
	// Empty values coerce to null but are still emitted.
	assert.Nil(t, CoerceValue("", models.TypeFloat))
	assert.Nil(t, CoerceValue(nil, models.TypeString))

	// Malformed numerics coerce to null instead of failing the build.
	assert.Nil(t, CoerceValue("not-a-number", models.TypeFloat))
	assert.Nil(t, CoerceValue("abc", models.TypeNumber))

	// Decimal text downgrades to an integer for number params.
	assert.Equal(t, int64(42), CoerceValue("42.9", models.TypeNumber))
}

func TestCoerceValueNullsStillEmitted(t *testing.T) {
	act := models.Activity{
		Name: "Sparse",
		Params: []models.Parameter{
			{Key: "present", Type: models.TypeString, Value: "x"},
			{Key: "missing", Type: models.TypeFloat, Value: ""},
		},
	}

	records := BuildActivityPayload("A", "I", "app", []models.Activity{act})
	params := records[0].ActivityParams
	require.Contains(t, params, "missing")
	assert.Nil(t, params["missing"])
}
