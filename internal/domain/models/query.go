package models

// BlockedDocument identifies a candidate the principal was not permitted to
// read. The title is populated only when the deployment treats document
// existence as non-sensitive; content is never included.
type BlockedDocument struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// QueryResult is the outcome of one answered question. The allowed and
// blocked id sets partition the candidate set exactly: no candidate is
// missing, none appears in both.
type QueryResult struct {
	Answer             string            `json:"answer"`
	AllowedDocumentIDs []string          `json:"allowed_document_ids"`
	BlockedDocuments   []BlockedDocument `json:"blocked_documents"`
	// CheckFailures lists document ids whose permission check could not be
	// completed and which were therefore denied by default.
	CheckFailures []string `json:"check_failures,omitempty"`
}

// BlockedDocumentIDs returns just the ids of the blocked documents.
func (r *QueryResult) BlockedDocumentIDs() []string {
	ids := make([]string, len(r.BlockedDocuments))
	for i, b := range r.BlockedDocuments {
		ids[i] = b.ID
	}
	return ids
}
