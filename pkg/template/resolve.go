package template

import (
	"slices"
	"strings"
)

// Role classifies how a namespace's dataset is bound into contexts.
type Role int

const (
	// RolePrimary marks the dataset whose entries drive the batch.
	RolePrimary Role = iota
	// RoleJoined marks a dataset matched per primary entry by key equality.
	RoleJoined
	// RoleGlobal marks a dataset injected unchanged into every context.
	RoleGlobal
)

// Cardinality is the expected match count of a joined source.
type Cardinality int

const (
	// CardinalityOne requires exactly one match per primary entry.
	CardinalityOne Cardinality = iota
	// CardinalityMany collects all matches, zero included.
	CardinalityMany
)

// JoinKey is one resolved join predicate: the candidate record's
// LocalField must equal RefField of the RefNamespace value already
// bound in the context.
type JoinKey struct {
	LocalField   string
	RefNamespace string
	RefField     string
}

// SourceDescriptor is one namespace's resolved binding strategy.
// Keys and Cardinality are meaningful only for RoleJoined.
type SourceDescriptor struct {
	Namespace   string
	Role        Role
	Keys        []JoinKey
	Cardinality Cardinality
}

// ResolveDescriptors interprets the template's source declarations
// into a resolution plan. It is pure over the parsed template and
// performs no I/O, so it can run before any dataset is loaded.
//
// The primary descriptor comes first; the remaining namespaces follow
// in template declaration order.
func ResolveDescriptors(t *Template) ([]SourceDescriptor, error) {
	names := t.Sources.Names()

	var primaries []string
	for _, name := range names {
		cfg, _ := t.Sources.Get(name)
		if cfg.Primary {
			primaries = append(primaries, name)
		}
	}
	switch len(primaries) {
	case 0:
		return nil, ErrMissingPrimary
	case 1:
	default:
		slices.Sort(primaries)
		return nil, &DuplicatePrimaryError{Namespaces: primaries}
	}
	primary := primaries[0]

	descriptors := make([]SourceDescriptor, 0, len(names))
	descriptors = append(descriptors, SourceDescriptor{Namespace: primary, Role: RolePrimary})

	for _, name := range names {
		if name == primary {
			continue
		}
		cfg, _ := t.Sources.Get(name)

		if cfg.Join == nil {
			descriptors = append(descriptors, SourceDescriptor{Namespace: name, Role: RoleGlobal})
			continue
		}

		keys, err := resolveJoinKeys(t, name, cfg.Join)
		if err != nil {
			return nil, err
		}

		cardinality := CardinalityOne
		if cfg.Many {
			cardinality = CardinalityMany
		}
		descriptors = append(descriptors, SourceDescriptor{
			Namespace:   name,
			Role:        RoleJoined,
			Keys:        keys,
			Cardinality: cardinality,
		})
	}

	return descriptors, nil
}

// resolveJoinKeys validates and splits each join reference. Keys are
// ordered by local field name so diagnostics are stable.
func resolveJoinKeys(t *Template, namespace string, join map[string]string) ([]JoinKey, error) {
	locals := make([]string, 0, len(join))
	for local := range join {
		locals = append(locals, local)
	}
	slices.Sort(locals)

	keys := make([]JoinKey, 0, len(locals))
	for _, local := range locals {
		ref := join[local]
		refNS, refField, ok := strings.Cut(ref, ".")
		if !ok || refNS == "" || refField == "" {
			return nil, &MalformedReferenceError{Namespace: namespace, JoinKey: local, Ref: ref}
		}
		if refNS == namespace {
			return nil, &SelfJoinError{Namespace: namespace}
		}
		if _, declared := t.Sources.Get(refNS); !declared {
			return nil, &UnknownJoinTargetError{Namespace: namespace, JoinKey: local, Target: refNS}
		}
		keys = append(keys, JoinKey{LocalField: local, RefNamespace: refNS, RefField: refField})
	}

	if len(keys) == 0 {
		return nil, &MalformedReferenceError{Namespace: namespace, JoinKey: "", Ref: ""}
	}

	return keys, nil
}
