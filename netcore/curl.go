package netcore

import (
	"encoding/json"
	"fmt"
	"net/url"

	"smartechtool/api/models"
)

// ContactCurl renders the contact call as an equivalent curl invocation,
// form-encoded with the data field passed through --data-urlencode.
func ContactCurl(endpoint string, query, body url.Values) string {
	curl := fmt.Sprintf(`curl -X POST "%s?%s"`, endpoint, query.Encode())
	curl += " \\\n  --header 'Content-Type: application/x-www-form-urlencoded'"

	if data := body.Get("data"); data != "" {
		curl += fmt.Sprintf(" \\\n  --data-urlencode 'data=%s'", data)
	} else {
		curl += fmt.Sprintf(` \\
  -d "%s"`, body.Encode())
	}

	return curl
}

// ActivityCurl renders the activity batch as an equivalent curl invocation
// with the Bearer token and JSON body inline.
func ActivityCurl(endpoint, bearerToken string, payload []models.ActivityRecord) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode activity payload: %w", err)
	}

	curl := fmt.Sprintf("curl --location '%s' \\\n", endpoint)
	curl += fmt.Sprintf("  --header 'Authorization: Bearer %s' \\\n", bearerToken)
	curl += "  --header 'Content-Type: application/json' \\\n"
	curl += fmt.Sprintf("  --data '%s'", string(encoded))

	return curl, nil
}
