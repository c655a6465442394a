package join_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m-tem/mailnir/pkg/join"
	"github.com/m-tem/mailnir/pkg/template"
	"github.com/m-tem/mailnir/pkg/value"
)

func descriptors(t *testing.T, src string) []template.SourceDescriptor {
	t.Helper()
	tpl, err := template.Parse([]byte(src))
	require.NoError(t, err)
	descs, err := template.ResolveDescriptors(tpl)
	require.NoError(t, err)
	return descs
}

func record(pairs ...any) map[string]any {
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		m[pairs[i].(string)] = pairs[i+1]
	}
	return m
}

func TestBuildContexts_OneToOne(t *testing.T) {
	t.Parallel()

	descs := descriptors(t, "sources:\n  classes: {primary: true}\n  inst:\n    join:\n      class_id: classes.id\nto: a\nsubject: b\nbody: c")
	sources := map[string]any{
		"classes": []any{
			record("id", int64(1), "name", "Math"),
			record("id", int64(2), "name", "Science"),
			record("id", int64(3), "name", "History"),
		},
		"inst": []any{
			record("class_id", int64(2), "name", "Dr. Smith"),
			record("class_id", int64(1), "name", "Prof. Jones"),
			record("class_id", int64(3), "name", "Ms. Brown"),
		},
	}

	contexts, err := join.BuildContexts(descs, sources)
	require.NoError(t, err)
	require.Len(t, contexts, 3)

	for i, want := range []string{"Prof. Jones", "Dr. Smith", "Ms. Brown"} {
		require.Equal(t, i, contexts[i].Index)
		name, ok := value.Lookup(contexts[i].Values, "inst.name")
		require.True(t, ok)
		require.Equal(t, want, name)
	}
}

func TestBuildContexts_OneToMany(t *testing.T) {
	t.Parallel()

	descs := descriptors(t, "sources:\n  classes: {primary: true}\n  students:\n    join:\n      class_id: classes.id\n    many: true\nto: a\nsubject: b\nbody: c")
	sources := map[string]any{
		"classes": []any{record("id", int64(10), "name", "Algebra")},
		"students": []any{
			record("class_id", int64(10), "name", "Alice"),
			record("class_id", int64(10), "name", "Bob"),
			record("class_id", int64(10), "name", "Carol"),
			record("class_id", int64(10), "name", "Dan"),
			record("class_id", int64(10), "name", "Eve"),
		},
	}

	contexts, err := join.BuildContexts(descs, sources)
	require.NoError(t, err)
	require.Len(t, contexts, 1)

	students, ok := contexts[0].Values["students"].([]any)
	require.True(t, ok)
	require.Len(t, students, 5)
	name, ok := value.Lookup(contexts[0].Values, "students.2.name")
	require.True(t, ok)
	require.Equal(t, "Carol", name)
}

func TestBuildContexts_ManyWithZeroMatchesIsValid(t *testing.T) {
	t.Parallel()

	descs := descriptors(t, "sources:\n  classes: {primary: true}\n  students:\n    join:\n      class_id: classes.id\n    many: true\nto: a\nsubject: b\nbody: c")
	sources := map[string]any{
		"classes":  []any{record("id", int64(1))},
		"students": []any{record("class_id", int64(99), "name", "Zed")},
	}

	contexts, err := join.BuildContexts(descs, sources)
	require.NoError(t, err)
	require.Empty(t, contexts[0].Values["students"])
}

func TestBuildContexts_CompositeJoin(t *testing.T) {
	t.Parallel()

	descs := descriptors(t, "sources:\n  classes: {primary: true}\n  rooms:\n    join:\n      building: classes.building\n      floor: classes.floor\nto: a\nsubject: b\nbody: c")
	sources := map[string]any{
		"classes": []any{
			record("id", int64(1), "building", "A", "floor", int64(2)),
			record("id", int64(2), "building", "B", "floor", int64(1)),
		},
		"rooms": []any{
			record("building", "B", "floor", int64(1), "capacity", int64(30)),
			record("building", "A", "floor", int64(2), "capacity", int64(50)),
		},
	}

	contexts, err := join.BuildContexts(descs, sources)
	require.NoError(t, err)

	capacity, ok := value.Lookup(contexts[0].Values, "rooms.capacity")
	require.True(t, ok)
	require.Equal(t, int64(50), capacity)
	capacity, ok = value.Lookup(contexts[1].Values, "rooms.capacity")
	require.True(t, ok)
	require.Equal(t, int64(30), capacity)
}

func TestBuildContexts_CompositeJoin_BothKeysRequired(t *testing.T) {
	t.Parallel()

	descs := descriptors(t, "sources:\n  classes: {primary: true}\n  rooms:\n    join:\n      building: classes.building\n      floor: classes.floor\nto: a\nsubject: b\nbody: c")
	sources := map[string]any{
		"classes": []any{record("building", "A", "floor", int64(2))},
		"rooms": []any{
			// Right building, wrong floor.
			record("building", "A", "floor", int64(3), "capacity", int64(10)),
			// Right floor, wrong building.
			record("building", "B", "floor", int64(2), "capacity", int64(20)),
		},
	}

	_, err := join.BuildContexts(descs, sources)
	var missing *join.MissingJoinError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "rooms", missing.Namespace)
}

func TestBuildContexts_GlobalSource(t *testing.T) {
	t.Parallel()

	descs := descriptors(t, "sources:\n  classes: {primary: true}\n  cfg: {}\nto: a\nsubject: b\nbody: c")
	cfg := []any{record("smtp_host", "mail.example.com")}
	sources := map[string]any{
		"classes": []any{record("id", int64(1)), record("id", int64(2)), record("id", int64(3))},
		"cfg":     cfg,
	}

	contexts, err := join.BuildContexts(descs, sources)
	require.NoError(t, err)
	require.Len(t, contexts, 3)
	for _, ctx := range contexts {
		host, ok := value.Lookup(ctx.Values, "cfg.0.smtp_host")
		require.True(t, ok)
		require.Equal(t, "mail.example.com", host)
	}
}

func TestBuildContexts_MissingJoinStrict(t *testing.T) {
	t.Parallel()

	descs := descriptors(t, "sources:\n  classes: {primary: true}\n  inst:\n    join:\n      class_id: classes.id\nto: a\nsubject: b\nbody: c")
	sources := map[string]any{
		"classes": []any{record("id", int64(1)), record("id", int64(99))},
		"inst":    []any{record("class_id", int64(1), "name", "Prof. Jones")},
	}

	_, err := join.BuildContexts(descs, sources)
	var missing *join.MissingJoinError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, 1, missing.EntryIndex)
	require.Equal(t, "inst", missing.Namespace)
}

func TestBuildContexts_AmbiguousJoinStrict(t *testing.T) {
	t.Parallel()

	descs := descriptors(t, "sources:\n  classes: {primary: true}\n  inst:\n    join:\n      class_id: classes.id\nto: a\nsubject: b\nbody: c")
	sources := map[string]any{
		"classes": []any{record("id", int64(5))},
		"inst": []any{
			record("class_id", int64(5), "name", "Prof. A"),
			record("class_id", int64(5), "name", "Prof. B"),
		},
	}

	_, err := join.BuildContexts(descs, sources)
	var ambiguous *join.AmbiguousJoinError
	require.True(t, errors.As(err, &ambiguous))
	require.Equal(t, 0, ambiguous.EntryIndex)
	require.Equal(t, 2, ambiguous.MatchCount)
}

func TestBuildContexts_NoStringNumberCoercion(t *testing.T) {
	t.Parallel()

	descs := descriptors(t, "sources:\n  classes: {primary: true}\n  inst:\n    join:\n      class_id: classes.id\nto: a\nsubject: b\nbody: c")
	sources := map[string]any{
		// CSV-style string key never matches a numeric key.
		"classes": []any{record("id", "5")},
		"inst":    []any{record("class_id", int64(5), "name", "Prof. A")},
	}

	_, err := join.BuildContexts(descs, sources)
	var missing *join.MissingJoinError
	require.True(t, errors.As(err, &missing))
}

func TestBuildContexts_NumericEqualityAcrossRepresentations(t *testing.T) {
	t.Parallel()

	descs := descriptors(t, "sources:\n  classes: {primary: true}\n  inst:\n    join:\n      class_id: classes.id\nto: a\nsubject: b\nbody: c")
	sources := map[string]any{
		"classes": []any{record("id", float64(5))},
		"inst":    []any{record("class_id", int64(5), "name", "Prof. A")},
	}

	contexts, err := join.BuildContexts(descs, sources)
	require.NoError(t, err)
	name, ok := value.Lookup(contexts[0].Values, "inst.name")
	require.True(t, ok)
	require.Equal(t, "Prof. A", name)
}

func TestBuildContexts_StructuralErrors(t *testing.T) {
	t.Parallel()

	descs := descriptors(t, "sources:\n  classes: {primary: true}\n  inst:\n    join:\n      class_id: classes.id\nto: a\nsubject: b\nbody: c")

	t.Run("source not loaded", func(t *testing.T) {
		t.Parallel()
		_, err := join.BuildContexts(descs, map[string]any{
			"classes": []any{record("id", int64(1))},
		})
		var notLoaded *join.SourceNotLoadedError
		require.True(t, errors.As(err, &notLoaded))
		require.Equal(t, "inst", notLoaded.Namespace)
	})

	t.Run("primary not a record list", func(t *testing.T) {
		t.Parallel()
		_, err := join.BuildContexts(descs, map[string]any{
			"classes": record("id", int64(1)),
			"inst":    []any{},
		})
		var shape *join.DataShapeError
		require.True(t, errors.As(err, &shape))
		require.Equal(t, "classes", shape.Namespace)
	})
}

func TestBuildContextsLenient_CollectsIssuesAndProceeds(t *testing.T) {
	t.Parallel()

	descs := descriptors(t, "sources:\n  classes: {primary: true}\n  inst:\n    join:\n      class_id: classes.id\nto: a\nsubject: b\nbody: c")
	sources := map[string]any{
		"classes": []any{
			record("id", int64(1)),
			record("id", int64(99)),
			record("id", int64(5)),
		},
		"inst": []any{
			record("class_id", int64(1), "name", "Prof. Jones"),
			record("class_id", int64(5), "name", "Prof. A"),
			record("class_id", int64(5), "name", "Prof. B"),
		},
	}

	contexts, issues, err := join.BuildContextsLenient(descs, sources)
	require.NoError(t, err)
	require.Len(t, contexts, 3)
	require.Len(t, issues, 2)

	// Entry 0 resolved cleanly.
	name, ok := value.Lookup(contexts[0].Values, "inst.name")
	require.True(t, ok)
	require.Equal(t, "Prof. Jones", name)

	// Entry 1 has no match: namespace bound to the no-match marker,
	// still present in the namespace set.
	require.Contains(t, contexts[1].Values, "inst")
	require.True(t, value.IsNoMatch(contexts[1].Values["inst"]))
	require.Equal(t, join.Issue{EntryIndex: 1, Namespace: "inst", Kind: join.IssueMissing}, issues[0])

	// Entry 2 is ambiguous: first match bound, issue recorded.
	name, ok = value.Lookup(contexts[2].Values, "inst.name")
	require.True(t, ok)
	require.Equal(t, "Prof. A", name)
	require.Equal(t, join.Issue{EntryIndex: 2, Namespace: "inst", Kind: join.IssueAmbiguous, MatchCount: 2}, issues[1])
}

func TestIssue_String(t *testing.T) {
	t.Parallel()

	missing := join.Issue{EntryIndex: 3, Namespace: "inst", Kind: join.IssueMissing}
	require.Equal(t, `join "inst" found no match for primary entry 3`, missing.String())

	ambiguous := join.Issue{EntryIndex: 0, Namespace: "inst", Kind: join.IssueAmbiguous, MatchCount: 2}
	require.Equal(t, `join "inst" is ambiguous for primary entry 0: 2 matches`, ambiguous.String())
}
