package api

// ──────────────────────────────────────────────────
// Check requests
// ──────────────────────────────────────────────────

// CheckRequest is the request body for an authorization check.
type CheckRequest struct {
	ActorID   string         `json:"actor_id,omitempty" description:"Acting user ID; empty resolves the actor bound to the request context"`
	ActorRole string         `json:"actor_role,omitempty" description:"Acting role (client, provider, admin)"`
	Operation string         `json:"operation" description:"Operation (select, insert, update, delete)"`
	Resource  string         `json:"resource" description:"Resource type"`
	Row       map[string]any `json:"row,omitempty" description:"Candidate row columns for owner matching"`
}

// BatchCheckRequest contains multiple checks.
type BatchCheckRequest struct {
	Checks []CheckRequest `json:"checks" description:"List of authorization checks"`
}

// ──────────────────────────────────────────────────
// Resource requests
// ──────────────────────────────────────────────────

// GetResourceRequest is the path parameter for resource type lookups.
type GetResourceRequest struct {
	ResourceType string `path:"resourceType" description:"Resource type name"`
}

// ──────────────────────────────────────────────────
// Record requests
// ──────────────────────────────────────────────────

// ListRecordsRequest holds parameters for listing records of one resource type.
type ListRecordsRequest struct {
	Resource string `path:"resource" description:"Resource type"`
	Limit    int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset   int    `query:"offset" description:"Results to skip"`
}

// CreateRecordRequest is the body for creating a record.
type CreateRecordRequest struct {
	Fields map[string]any `json:"fields" description:"Row columns"`
}

// GetRecordRequest holds path parameters for record lookups.
type GetRecordRequest struct {
	Resource string `path:"resource" description:"Resource type"`
	RecordID string `path:"recordId" description:"Record ID"`
}

// UpdateRecordRequest is the body for updating a record.
type UpdateRecordRequest struct {
	Fields map[string]any `json:"fields" description:"Columns to set"`
}

// ──────────────────────────────────────────────────
// Decision requests
// ──────────────────────────────────────────────────

// ListDecisionsRequest holds query parameters for querying the decision log.
type ListDecisionsRequest struct {
	ActorID   string `query:"actor_id" description:"Filter by actor ID"`
	ActorRole string `query:"actor_role" description:"Filter by actor role"`
	Operation string `query:"operation" description:"Filter by operation"`
	Resource  string `query:"resource" description:"Filter by resource type"`
	RecordID  string `query:"record_id" description:"Filter by record ID"`
	Decision  string `query:"decision" description:"Filter by decision code"`
	After     string `query:"after" description:"After timestamp (RFC3339)"`
	Before    string `query:"before" description:"Before timestamp (RFC3339)"`
	Limit     int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset    int    `query:"offset" description:"Results to skip"`
}
