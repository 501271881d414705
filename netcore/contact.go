package netcore

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"smartechtool/api/models"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// FieldCoercionError reports an attribute value that does not satisfy its
// declared type. It fails the single contact call being composed.
type FieldCoercionError struct {
	Key    string
	Value  string
	Reason string
}

func (e *FieldCoercionError) Error() string {
	return fmt.Sprintf("attribute %q: %s (value %q)", e.Key, e.Reason, e.Value)
}

// BuildContactQuery assembles the contact API query parameters.
func BuildContactQuery(apiKey string, activity models.ContactAction, listID string) url.Values {
	params := url.Values{}
	params.Set("type", "contact")
	params.Set("activity", string(activity))
	params.Set("apikey", apiKey)

	if listID != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(listID)); err == nil {
			params.Set("listid", strconv.Itoa(n))
		}
	}

	return params
}

// BuildContactBody assembles the form-encoded request body: a single "data"
// field holding the attribute map as JSON. Attributes with an empty key or
// value are skipped; the raw text value is sent, with the declared type used
// only for validation.
func BuildContactBody(attributes []models.Attribute) (url.Values, error) {
	data := make(map[string]string)

	for _, attr := range attributes {
		if attr.Key == "" || attr.Value == "" {
			continue
		}
		if err := ValidateAttribute(attr); err != nil {
			return nil, err
		}
		data[attr.Key] = attr.Value
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode contact data: %w", err)
	}

	body := url.Values{}
	body.Set("data", string(encoded))
	return body, nil
}

// ValidateAttribute checks a contact attribute value against its declared
// type. Dates must match YYYY-MM-DD; floats and numbers must parse.
func ValidateAttribute(attr models.Attribute) error {
	switch attr.DataType {
	case models.TypeFloat:
		if _, err := strconv.ParseFloat(attr.Value, 64); err != nil {
			return &FieldCoercionError{Key: attr.Key, Value: attr.Value, Reason: "not a valid float"}
		}
	case models.TypeNumber:
		if _, err := strconv.ParseInt(attr.Value, 10, 64); err != nil {
			return &FieldCoercionError{Key: attr.Key, Value: attr.Value, Reason: "not a valid integer"}
		}
	case models.TypeDate:
		if !datePattern.MatchString(attr.Value) {
			return &FieldCoercionError{Key: attr.Key, Value: attr.Value, Reason: "invalid date format, use YYYY-MM-DD"}
		}
	}
	return nil
}
