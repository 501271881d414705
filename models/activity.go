package models

// ParamType is the normalized data type attached to a parameter or an array
// item field. These are the wire-level types the activity API distinguishes.
type ParamType string

const (
	TypeString ParamType = "string"
	TypeFloat  ParamType = "float"
	TypeNumber ParamType = "number"
	TypeDate   ParamType = "date"
	TypeArray  ParamType = "array"
)

// ItemField is one named field inside an array item.
type ItemField struct {
	Value any       `json:"value"`
	Type  ParamType `json:"type"`
}

// ArrayItem maps field names to their typed values.
type ArrayItem map[string]ItemField

// Parameter is a tagged variant: a scalar carries Value, an array carries
// Items. Type == TypeArray iff Items is the active arm; the two are never
// populated together.
type Parameter struct {
	Key   string      `json:"key"`
	Type  ParamType   `json:"type"`
	Value any         `json:"value,omitempty"`
	Items []ArrayItem `json:"items,omitempty"`
}

// IsArray reports whether the parameter holds array items rather than a
// scalar value.
func (p Parameter) IsArray() bool {
	return p.Type == TypeArray
}

// Activity is one named event with its ordered parameter list. Params keeps
// CSV discovery order; use Param for keyed lookup.
type Activity struct {
	Name   string      `json:"name"`
	Params []Parameter `json:"params"`
}

// Param returns the parameter with the given key, if present.
func (a *Activity) Param(key string) (Parameter, bool) {
	for _, p := range a.Params {
		if p.Key == key {
			return p, true
		}
	}
	return Parameter{}, false
}

// ActivityRecord is the wire format of one activity in the outbound batch.
type ActivityRecord struct {
	AssetID        string         `json:"asset_id"`
	ActivityName   string         `json:"activity_name"`
	Timestamp      string         `json:"timestamp"`
	Identity       string         `json:"identity"`
	ActivitySource string         `json:"activity_source"`
	ActivityParams map[string]any `json:"activity_params"`
}
