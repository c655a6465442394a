package join

import (
	"github.com/m-tem/mailnir/pkg/template"
	"github.com/m-tem/mailnir/pkg/value"
)

// Context is the fully-resolved namespace→value mapping for one
// primary entry. Values holds exactly the declared namespace set: the
// primary record, joined record(s), global datasets, and value.NoMatch
// for unmatched optional joins in lenient mode. Contexts are built
// once and must not be mutated afterwards.
type Context struct {
	Index  int
	Values map[string]any
}

// BuildContexts resolves every primary entry strictly: the first
// missing or ambiguous 1:1 join aborts with a typed error naming the
// entry index and namespace.
func BuildContexts(descriptors []template.SourceDescriptor, sources map[string]any) ([]Context, error) {
	// Strict mode never yields issues; build fails on the first one.
	contexts, _, err := build(descriptors, sources, true)
	if err != nil {
		return nil, err
	}
	return contexts, nil
}

// BuildContextsLenient resolves every primary entry best-effort. Join
// problems become per-entry issues, unmatched 1:1 namespaces are bound
// to value.NoMatch, and ambiguous ones are bound to the first match in
// target-dataset order. Structural problems (missing dataset, wrong
// shape) still fail outright.
func BuildContextsLenient(descriptors []template.SourceDescriptor, sources map[string]any) ([]Context, []Issue, error) {
	return build(descriptors, sources, false)
}

func build(descriptors []template.SourceDescriptor, sources map[string]any, strict bool) ([]Context, []Issue, error) {
	var primary *template.SourceDescriptor
	for i := range descriptors {
		if descriptors[i].Role == template.RolePrimary {
			primary = &descriptors[i]
			break
		}
	}
	if primary == nil {
		return nil, nil, template.ErrMissingPrimary
	}

	primaryRecords, err := loadRecords(sources, primary.Namespace)
	if err != nil {
		return nil, nil, err
	}

	// Joined datasets are record lists; resolve their shape once, not
	// per entry.
	joined := make(map[string][]map[string]any)
	for _, desc := range descriptors {
		switch desc.Role {
		case template.RoleJoined:
			records, err := loadRecords(sources, desc.Namespace)
			if err != nil {
				return nil, nil, err
			}
			joined[desc.Namespace] = records
		case template.RoleGlobal:
			if _, ok := sources[desc.Namespace]; !ok {
				return nil, nil, &SourceNotLoadedError{Namespace: desc.Namespace}
			}
		}
	}

	contexts := make([]Context, 0, len(primaryRecords))
	var issues []Issue

	for entryIndex, primaryRecord := range primaryRecords {
		ctx := Context{Index: entryIndex, Values: make(map[string]any, len(descriptors))}
		ctx.Values[primary.Namespace] = primaryRecord

		for _, desc := range descriptors {
			switch desc.Role {
			case template.RoleGlobal:
				ctx.Values[desc.Namespace] = sources[desc.Namespace]

			case template.RoleJoined:
				matches := matchRecords(joined[desc.Namespace], desc.Keys, ctx.Values)

				if desc.Cardinality == template.CardinalityMany {
					// Zero matches renders as an empty iteration.
					ctx.Values[desc.Namespace] = matches
					continue
				}

				switch len(matches) {
				case 1:
					ctx.Values[desc.Namespace] = matches[0]
				case 0:
					if strict {
						return nil, nil, &MissingJoinError{EntryIndex: entryIndex, Namespace: desc.Namespace}
					}
					ctx.Values[desc.Namespace] = value.NoMatch
					issues = append(issues, Issue{
						EntryIndex: entryIndex,
						Namespace:  desc.Namespace,
						Kind:       IssueMissing,
					})
				default:
					if strict {
						return nil, nil, &AmbiguousJoinError{
							EntryIndex: entryIndex,
							Namespace:  desc.Namespace,
							MatchCount: len(matches),
						}
					}
					// First match keeps the preview renderable; the
					// ambiguity is still reported.
					ctx.Values[desc.Namespace] = matches[0]
					issues = append(issues, Issue{
						EntryIndex: entryIndex,
						Namespace:  desc.Namespace,
						Kind:       IssueAmbiguous,
						MatchCount: len(matches),
					})
				}
			}
		}

		contexts = append(contexts, ctx)
	}

	return contexts, issues, nil
}

func loadRecords(sources map[string]any, namespace string) ([]map[string]any, error) {
	data, ok := sources[namespace]
	if !ok {
		return nil, &SourceNotLoadedError{Namespace: namespace}
	}
	records, ok := value.Records(data)
	if !ok {
		return nil, &DataShapeError{Namespace: namespace, Message: "dataset must be a list of records"}
	}
	return records, nil
}

// matchRecords collects candidates satisfying every join key, in
// target-dataset order. A linear scan per entry is deliberate: batch
// mail-merge datasets are hundreds to low thousands of rows.
func matchRecords(candidates []map[string]any, keys []template.JoinKey, ctxValues map[string]any) []any {
	matches := make([]any, 0, 1)
	for _, candidate := range candidates {
		if matchesAllKeys(candidate, keys, ctxValues) {
			matches = append(matches, any(candidate))
		}
	}
	return matches
}

func matchesAllKeys(candidate map[string]any, keys []template.JoinKey, ctxValues map[string]any) bool {
	for _, key := range keys {
		refRoot, ok := ctxValues[key.RefNamespace]
		if !ok {
			return false
		}
		expected, ok := value.Lookup(refRoot, key.RefField)
		if !ok {
			return false
		}
		actual, ok := candidate[key.LocalField]
		if !ok {
			return false
		}
		if !value.Equal(expected, actual) {
			return false
		}
	}
	return true
}
