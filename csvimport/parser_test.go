package csvimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartechtool/api/models"
)

func TestParseBookingSheet(t *testing.T) {
	csv := "eventName,eventPayload,dataType\n" +
		"Booking_Created,amount,float\n" +
		",items[].sku,string\n" +
		",items[].qty,integer"

	activities, err := Parse(csv)
	require.NoError(t, err)
	require.Len(t, activities, 1)

	act := activities[0]
	assert.Equal(t, "Booking_Created", act.Name)
	require.Len(t, act.Params, 2)

	amount, ok := act.Param("amount")
	require.True(t, ok)
	assert.Equal(t, models.TypeFloat, amount.Type)
	assert.Equal(t, 42.5, amount.Value)
	assert.False(t, amount.IsArray())

	items, ok := act.Param("items")
	require.True(t, ok)
	require.True(t, items.IsArray())
	require.Len(t, items.Items, 1)
	item := items.Items[0]
	assert.Equal(t, models.ItemField{Value: "Sample Text", Type: models.TypeString}, item["sku"])
	assert.Equal(t, models.ItemField{Value: 42, Type: models.TypeNumber}, item["qty"])
}

func TestParseActivityNamesInFirstAppearanceOrder(t *testing.T) {
	csv := "eventName,eventPayload,dataType\n" +
		"First,a,string\n" +
		"Second,b,integer\n" +
		",c,float\n" +
		"Third,d,date"

	activities, err := Parse(csv)
	require.NoError(t, err)

	var names []string
	for _, a := range activities {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"First", "Second", "Third"}, names)
}

func TestParseRowsWithoutNameContinueCurrentActivity(t *testing.T) {
	csv := "eventName,eventPayload,dataType\n" +
		"Purchase,total,float\n" +
		",currency,string\n" +
		",coupon,string"

	activities, err := Parse(csv)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Len(t, activities[0].Params, 3)
}

func TestParseRepeatedNameStillAttachesToLastCreated(t *testing.T) {
	// A row re-declaring an earlier activity does not move the cursor back:
	// "current" is the last created activity, not the last named one.
	csv := "eventName,eventPayload,dataType\n" +
		"A,one,string\n" +
		"B,two,string\n" +
		"A,three,string"

	activities, err := Parse(csv)
	require.NoError(t, err)
	require.Len(t, activities, 2)

	_, inA := activities[0].Param("three")
	assert.False(t, inA)
	_, inB := activities[1].Param("three")
	assert.True(t, inB)
}

func TestParseHeaderOnlyFails(t *testing.T) {
	_, err := Parse("eventName,eventPayload,dataType")
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestParseMissingColumnFails(t *testing.T) {
	_, err := Parse("eventName,payload,dataType\nA,x,string")
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, err.Error(), "eventName, eventPayload, dataType")
}

func TestParseEmptyPayloadRowIsSkipped(t *testing.T) {
	csv := "eventName,eventPayload,dataType\n" +
		"Signup,plan,string\n" +
		"Ghost,,integer\n" +
		",seats,integer"

	activities, err := Parse(csv)
	require.NoError(t, err)

	// The Ghost row has no payload, so it neither creates an activity nor a
	// parameter; the seats row still belongs to Signup.
	require.Len(t, activities, 1)
	assert.Equal(t, "Signup", activities[0].Name)
	_, ok := activities[0].Param("seats")
	assert.True(t, ok)
}

func TestParseRowsBeforeAnyActivityAreDropped(t *testing.T) {
	csv := "eventName,eventPayload,dataType\n" +
		",orphan,string\n" +
		"Real,field,string"

	activities, err := Parse(csv)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Len(t, activities[0].Params, 1)
}

func TestParseScalarLastWriteWins(t *testing.T) {
	csv := "eventName,eventPayload,dataType\n" +
		"Order,amount,string\n" +
		",amount,float"

	activities, err := Parse(csv)
	require.NoError(t, err)
	require.Len(t, activities[0].Params, 1)
	amount, _ := activities[0].Param("amount")
	assert.Equal(t, models.TypeFloat, amount.Type)
	assert.Equal(t, 42.5, amount.Value)
}

func TestParseExtraColumnsIgnoredAnyOrder(t *testing.T) {
	csv := "notes,dataType,eventPayload,eventName\n" +
		"whatever,string,plan,Signup"

	activities, err := Parse(csv)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	_, ok := activities[0].Param("plan")
	assert.True(t, ok)
}

func TestParseQuotedFieldKeepsComma(t *testing.T) {
	csv := "eventName,eventPayload,dataType\n" +
		"\"Big, Event\",amount,float"

	activities, err := Parse(csv)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Big, Event", activities[0].Name)
}

func TestParseIsDeterministic(t *testing.T) {
	csv := "eventName,eventPayload,dataType\n" +
		"Order,amount,float\n" +
		",items[].sku,string\n" +
		"Refund,reason,string"

	first, err := Parse(csv)
	require.NoError(t, err)
	second, err := Parse(csv)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestClassifyField(t *testing.T) {
	base, sub, isArray := classifyField("items[].variant_id")
	assert.True(t, isArray)
	assert.Equal(t, "items", base)
	assert.Equal(t, "variant_id", sub)

	// Array notation without a sub-field: base key with empty field name.
	base, sub, isArray = classifyField("tags[]")
	assert.True(t, isArray)
	assert.Equal(t, "tags", base)
	assert.Equal(t, "", sub)

	base, _, isArray = classifyField("amount")
	assert.False(t, isArray)
	assert.Equal(t, "amount", base)
}

func TestSampleValues(t *testing.T) {
	assert.Equal(t, "Sample Text", SampleValue("STRING "))
	assert.Equal(t, 42, SampleValue("int"))
	assert.Equal(t, 42.5, SampleValue("Decimal"))
	assert.Equal(t, true, SampleValue("boolean"))
	assert.Equal(t, "Sample Value", SampleValue("mystery"))
	assert.Len(t, SampleValue("datetime"), len("2006-01-02T15:04:05"))
}

func TestMapDataType(t *testing.T) {
	assert.Equal(t, models.TypeFloat, MapDataType("decimal"))
	assert.Equal(t, models.TypeNumber, MapDataType("Integer"))
	assert.Equal(t, models.TypeDate, MapDataType("datetime"))
	assert.Equal(t, models.TypeString, MapDataType("text"))
	assert.Equal(t, models.TypeString, MapDataType("boolean"))
}
