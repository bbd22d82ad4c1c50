package model

// Identifiers of the persisted visitor counter record.
const (
	VisitorCountKey   = "visitor-count"
	VisitorCountField = "count"
	VisitorCountTable = "VisitorCount"
)

// VisitorCount is the body returned after a successful increment.
type VisitorCount struct {
	Count int64 `json:"count"`
}
