// Package csvimport converts a flat event-sheet CSV (one row per field, with
// base[].sub array notation) into the nested activity tree the console edits
// and dispatches.
package csvimport

import (
	"strings"
	"time"

	"smartechtool/api/models"
)

// SchemaError reports a CSV that cannot be imported at all: wrong header or
// too few rows. It is fatal to the whole import; no activities are produced.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "invalid CSV schema: " + e.Reason
}

// Required header columns, matched case-sensitively in any order.
const (
	colEventName    = "eventName"
	colEventPayload = "eventPayload"
	colDataType     = "dataType"
)

// columnIndex maps the required columns to their positions in the header row.
type columnIndex struct {
	eventName    int
	eventPayload int
	dataType     int
}

// Parse converts raw CSV text into the ordered activity list. Activities
// appear in first-declaration order; parameters keep row order, scalars
// before arrays within one activity. A payload row with an empty
// eventPayload never contributes anything.
func Parse(csvText string) ([]models.Activity, error) {
	lines := strings.Split(strings.TrimSpace(csvText), "\n")
	if len(lines) < 2 {
		return nil, &SchemaError{Reason: "must have at least a header and one data row"}
	}

	idx, err := validateHeader(splitLine(lines[0]))
	if err != nil {
		return nil, err
	}

	arena := newActivityArena()

	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		values := splitLine(line)
		eventName := fieldAt(values, idx.eventName)
		eventPayload := fieldAt(values, idx.eventPayload)
		dataType := fieldAt(values, idx.dataType)

		if eventPayload == "" {
			continue // schema rows without a payload carry no information
		}

		if eventName != "" {
			arena.declare(eventName)
		}

		current := arena.current()
		if current == nil {
			continue // no activity declared yet; the row cannot be attributed
		}

		base, sub, isArray := classifyField(eventPayload)
		if isArray {
			current.addArrayField(base, sub, dataType)
		} else {
			current.setScalar(base, SampleValue(dataType), MapDataType(dataType))
		}
	}

	return arena.finalize(), nil
}

// validateHeader confirms the three required columns are present and returns
// their positions. Extra columns are ignored.
func validateHeader(headers []string) (columnIndex, error) {
	idx := columnIndex{eventName: -1, eventPayload: -1, dataType: -1}
	for i, h := range headers {
		switch h {
		case colEventName:
			idx.eventName = i
		case colEventPayload:
			idx.eventPayload = i
		case colDataType:
			idx.dataType = i
		}
	}
	if idx.eventName < 0 || idx.eventPayload < 0 || idx.dataType < 0 {
		return idx, &SchemaError{Reason: "must have columns: eventName, eventPayload, dataType"}
	}
	return idx, nil
}

// splitLine tokenizes one CSV line. A double quote toggles quoted mode; a
// comma separates fields only outside quotes. Doubled quotes are NOT an
// escape sequence here: the original sheet format never used them, and
// existing sheets rely on every quote being a bare toggle. Malformed quoting
// degrades into merged fields rather than an error.
func splitLine(line string) []string {
	var fields []string
	var current strings.Builder
	insideQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			insideQuotes = !insideQuotes
		case ch == ',' && !insideQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}

// fieldAt returns the trimmed field at position i, or "" when the row is
// shorter than the header.
func fieldAt(values []string, i int) string {
	if i >= len(values) {
		return ""
	}
	return strings.TrimSpace(values[i])
}

// classifyField splits a payload reference into its parts. "items[].sku"
// yields ("items", "sku", true); "tags[]" yields ("tags", "", true); a plain
// "amount" is a scalar key.
func classifyField(payload string) (base, sub string, isArray bool) {
	i := strings.Index(payload, "[]")
	if i < 0 {
		return payload, "", false
	}
	base = strings.TrimSpace(payload[:i])
	sub = strings.TrimPrefix(payload[i+2:], ".")
	return base, sub, true
}

// SampleValue returns a representative value for a declared CSV data type.
// Samples populate previews and form defaults only; dispatched payloads use
// live user-entered values.
func SampleValue(dataType string) any {
	switch strings.ToLower(strings.TrimSpace(dataType)) {
	case "text", "string":
		return "Sample Text"
	case "integer", "int":
		return 42
	case "float", "decimal":
		return 42.5
	case "date", "datetime":
		return time.Now().UTC().Format("2006-01-02T15:04:05")
	case "boolean":
		return true
	default:
		return "Sample Value"
	}
}

// MapDataType normalizes a declared CSV data type to a wire parameter type.
func MapDataType(dataType string) models.ParamType {
	switch strings.ToLower(strings.TrimSpace(dataType)) {
	case "float", "decimal":
		return models.TypeFloat
	case "integer", "int":
		return models.TypeNumber
	case "date", "datetime":
		return models.TypeDate
	default:
		return models.TypeString
	}
}
