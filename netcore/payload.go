package netcore

import (
	"strconv"
	"strings"
	"time"

	"smartechtool/api/models"
)

// timestampLayout is ISO-8601 at seconds precision with no zone suffix, the
// format the activity API expects.
const timestampLayout = "2006-01-02T15:04:05"

// BuildActivityPayload converts an activity tree (imported or hand-edited)
// into the wire-ready record batch. The timestamp is captured once and
// shared by every record in the batch.
func BuildActivityPayload(assetID, identity, activitySource string, activities []models.Activity) []models.ActivityRecord {
	timestamp := time.Now().UTC().Format(timestampLayout)

	records := make([]models.ActivityRecord, 0, len(activities))
	for _, activity := range activities {
		params := make(map[string]any, len(activity.Params))

		for _, p := range activity.Params {
			if p.IsArray() {
				items := make([]map[string]any, 0, len(p.Items))
				for _, item := range p.Items {
					coerced := make(map[string]any, len(item))
					for name, field := range item {
						coerced[name] = CoerceValue(field.Value, field.Type)
					}
					items = append(items, coerced)
				}
				params[p.Key] = items
			} else {
				params[p.Key] = CoerceValue(p.Value, p.Type)
			}
		}

		records = append(records, models.ActivityRecord{
			AssetID:        assetID,
			ActivityName:   activity.Name,
			Timestamp:      timestamp,
			Identity:       identity,
			ActivitySource: activitySource,
			ActivityParams: params,
		})
	}

	return records
}

// CoerceValue applies the declared type to a raw value. Empty and nil values
// coerce to null but are still emitted. Numeric text that does not parse also
// coerces to null rather than failing the build: the wire image matches what
// JSON serialization of a NaN would have produced, and interactive validation
// upstream is expected to catch it first.
func CoerceValue(value any, dataType models.ParamType) any {
	if value == nil {
		return nil
	}
	if s, ok := value.(string); ok && s == "" {
		return nil
	}

	switch dataType {
	case models.TypeFloat:
		return toFloat(value)
	case models.TypeNumber:
		return toInt(value)
	default:
		// string, date and anything unrecognized pass through unchanged
		return value
	}
}

func toFloat(value any) any {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		return f
	default:
		return nil
	}
}

func toInt(value any) any {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return v
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		// parseInt-style downgrade: "42.9" becomes 42
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f)
		}
		return nil
	default:
		return nil
	}
}
