package join

import (
	"fmt"
)

// IssueKind classifies a per-entry join problem.
type IssueKind int

const (
	// IssueMissing means a 1:1 join found no matching record.
	IssueMissing IssueKind = iota
	// IssueAmbiguous means a 1:1 join found more than one match.
	IssueAmbiguous
)

// Issue is one join problem scoped to a single primary entry. In
// lenient mode issues are collected; in strict mode the first one is
// returned wrapped in a MissingJoinError or AmbiguousJoinError.
type Issue struct {
	EntryIndex int
	Namespace  string
	Kind       IssueKind
	MatchCount int
}

// String formats the issue for diagnostics surfaces.
func (i Issue) String() string {
	switch i.Kind {
	case IssueAmbiguous:
		return fmt.Sprintf("join %q is ambiguous for primary entry %d: %d matches",
			i.Namespace, i.EntryIndex, i.MatchCount)
	default:
		return fmt.Sprintf("join %q found no match for primary entry %d",
			i.Namespace, i.EntryIndex)
	}
}

// MissingJoinError is the strict-mode failure for a 1:1 join with no
// match.
type MissingJoinError struct {
	EntryIndex int
	Namespace  string
}

func (e *MissingJoinError) Error() string {
	return Issue{EntryIndex: e.EntryIndex, Namespace: e.Namespace, Kind: IssueMissing}.String()
}

// AmbiguousJoinError is the strict-mode failure for a 1:1 join with
// more than one match.
type AmbiguousJoinError struct {
	EntryIndex int
	Namespace  string
	MatchCount int
}

func (e *AmbiguousJoinError) Error() string {
	return Issue{
		EntryIndex: e.EntryIndex,
		Namespace:  e.Namespace,
		Kind:       IssueAmbiguous,
		MatchCount: e.MatchCount,
	}.String()
}

// SourceNotLoadedError reports a declared namespace absent from the
// loaded source map. This is structural in both modes: the resolution
// plan told the caller exactly what to load.
type SourceNotLoadedError struct {
	Namespace string
}

func (e *SourceNotLoadedError) Error() string {
	return fmt.Sprintf("no dataset loaded for declared source %q", e.Namespace)
}

// DataShapeError reports a primary or joined dataset that is not a
// list of records.
type DataShapeError struct {
	Namespace string
	Message   string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("invalid data shape in %q: %s", e.Namespace, e.Message)
}
