package models

// ContactAction enumerates the contact API activity values.
type ContactAction string

const (
	ContactAdd     ContactAction = "add"
	ContactUpdate  ContactAction = "update"
	ContactDelete  ContactAction = "delete"
	ContactAddSync ContactAction = "addsync"
)

// IsValid reports whether the action is one the contact API accepts.
func (a ContactAction) IsValid() bool {
	switch a {
	case ContactAdd, ContactUpdate, ContactDelete, ContactAddSync:
		return true
	default:
		return false
	}
}

// Attribute is one key/value pair of a contact record, with the declared
// data type used for validation before dispatch.
type Attribute struct {
	Key      string    `json:"key"`
	Value    string    `json:"value"`
	DataType ParamType `json:"dataType"`
}

// ContactRequest is a hand-composed contact API call.
type ContactRequest struct {
	Region     string        `json:"region" binding:"required"`
	APIKey     string        `json:"apiKey" binding:"required"`
	Activity   ContactAction `json:"activity" binding:"required"`
	ListID     string        `json:"listId"`
	Attributes []Attribute   `json:"attributes"`
}

// ActivityDispatchRequest is a composed activity API call: static identity
// fields plus the (imported or hand-edited) activity tree.
type ActivityDispatchRequest struct {
	Region         string     `json:"region" binding:"required"`
	BearerToken    string     `json:"bearerToken" binding:"required"`
	AssetID        string     `json:"assetId" binding:"required"`
	Identity       string     `json:"identity" binding:"required"`
	ActivitySource string     `json:"activitySource" binding:"required"`
	Activities     []Activity `json:"activities" binding:"required"`
}
