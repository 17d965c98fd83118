package confession

// Entry is one parsed piece of a confession: a QAEntry, StatusEntry,
// MetadataEntry or RawFallback.
type Entry interface {
	isEntry()
}

// QAEntry is a quiz answer such as "Q1: Yes".
type QAEntry struct {
	Label  string `json:"label"`
	Answer string `json:"answer"`
}

// StatusKind classifies free-form log lines.
type StatusKind string

const (
	StatusRejection    StatusKind = "rejection"
	StatusPromiseStage StatusKind = "promise_stage"
	StatusInfo         StatusKind = "info"
)

// StatusEntry is a free-form log line.
type StatusEntry struct {
	Kind StatusKind `json:"kind"`
	Text string     `json:"text"`
}

// MetadataEntry is a named fact pulled out of the log.
type MetadataEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RawFallback holds text no known format matched.
type RawFallback struct {
	Text string `json:"text"`
}

func (QAEntry) isEntry()       {}
func (StatusEntry) isEntry()   {}
func (MetadataEntry) isEntry() {}
func (RawFallback) isEntry()   {}

// Metadata keys.
const (
	KeyFinal        = "final"
	KeyPromise      = "promise"
	KeySweetness    = "sweetness"
	KeyChocolate    = "chocolate"
	KeyTeddy        = "teddy"
	KeyPromises     = "promises"
	KeyHug          = "hug"
	KeyKisses       = "kisses"
	KeyDecisionType = "decision_type"
	KeyStatus       = "status"
)
