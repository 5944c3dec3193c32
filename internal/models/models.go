package models

// Chunk is the unit of storage and retrieval: a fixed-size, possibly
// overlapping slice of the uploaded runbook. IDs follow the "chunk-<index>"
// scheme and are surfaced to users as answer citations.
type Chunk struct {
	ID    string
	Text  string
	Index int
}

// SearchResult is a retrieved chunk with its cosine distance to the query.
// Results are ordered by ascending distance (descending similarity).
type SearchResult struct {
	ID       string
	Text     string
	Index    int
	Distance float64
}

// Answer is the result of one grounded generation turn.
type Answer struct {
	Text      string
	SourceID  string
	LatencyMS int64
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageMeta records which chunk grounded an assistant turn and how long
// the retrieval+generation round trip took.
type MessageMeta struct {
	Source    string
	LatencyMS int64
}

// Message is one turn in a conversation session. Meta is set on assistant
// messages only.
type Message struct {
	Role    Role
	Content string
	Meta    *MessageMeta
}
