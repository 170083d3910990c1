package models

// Sensitivity classifies how widely a document may be read. The
// classification is catalog metadata; the policy store remains the authority
// on who may actually read a given document.
type Sensitivity string

const (
	SensitivityPublic     Sensitivity = "public"
	SensitivityRestricted Sensitivity = "restricted"
)

// Document is a unit of retrievable content. Documents are owned by the
// catalog and read-only to every other component.
type Document struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	Sensitivity Sensitivity `json:"sensitivity"`
	// ResourceType is the object type used for policy checks ("document").
	ResourceType string `json:"resource_type"`
}

// Ref returns the lightweight reference used by the authorization gateway.
func (d *Document) Ref() DocumentRef {
	return DocumentRef{ID: d.ID, Title: d.Title}
}

// PolicyRef returns the object reference used in policy-check queries,
// e.g. "document:finance_budget_q4".
func (d *Document) PolicyRef() string {
	rt := d.ResourceType
	if rt == "" {
		rt = "document"
	}
	return rt + ":" + d.ID
}

// DocumentRef identifies a candidate document without exposing its content.
type DocumentRef struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}
