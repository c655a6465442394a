package mailnir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m-tem/mailnir"
	"github.com/m-tem/mailnir/pkg/join"
	"github.com/m-tem/mailnir/pkg/render"
	"github.com/m-tem/mailnir/pkg/template"
	"github.com/m-tem/mailnir/pkg/validate"
)

const classTemplate = `
sources:
  classes: {primary: true}
  inst:
    join:
      class_id: classes.id
  students:
    join:
      class_id: classes.id
    many: true
to: "{{inst.email}}"
subject: "Roster for {{classes.name}}"
body: |-
  Hello {{inst.name}},
  {{#each students}}
  {{@index}}. {{this.name}}
  {{/each}}
body_format: text
`

func classSources() map[string]any {
	return map[string]any{
		"classes": []any{
			map[string]any{"id": int64(1), "name": "Biology"},
			map[string]any{"id": int64(2), "name": "Chemistry"},
		},
		"inst": []any{
			map[string]any{"class_id": int64(1), "name": "Ada", "email": "ada@example.com"},
			map[string]any{"class_id": int64(2), "name": "Grace", "email": "grace@example.com"},
		},
		"students": []any{
			map[string]any{"class_id": int64(1), "name": "Sam"},
			map[string]any{"class_id": int64(2), "name": "Kim"},
			map[string]any{"class_id": int64(1), "name": "Lee"},
		},
	}
}

func TestRun_RendersAllEntriesInOrder(t *testing.T) {
	t.Parallel()

	tpl, err := template.Parse([]byte(classTemplate))
	require.NoError(t, err)

	instances, err := mailnir.Run(tpl, classSources(), "")
	require.NoError(t, err)
	require.Len(t, instances, 2)

	require.Equal(t, 0, instances[0].Index)
	require.Equal(t, "ada@example.com", instances[0].Email.To)
	require.Equal(t, "Roster for Biology", instances[0].Email.Subject)
	require.Contains(t, instances[0].Email.TextBody, "0. Sam")
	require.Contains(t, instances[0].Email.TextBody, "1. Lee")

	require.Equal(t, 1, instances[1].Index)
	require.Equal(t, "grace@example.com", instances[1].Email.To)
}

func TestRun_Deterministic(t *testing.T) {
	t.Parallel()

	tpl, err := template.Parse([]byte(classTemplate))
	require.NoError(t, err)

	first, err := mailnir.Run(tpl, classSources(), "")
	require.NoError(t, err)
	second, err := mailnir.Run(tpl, classSources(), "")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRun_StrictJoinFailureAbortsBatch(t *testing.T) {
	t.Parallel()

	tpl, err := template.Parse([]byte(classTemplate))
	require.NoError(t, err)

	sources := classSources()
	sources["inst"] = []any{
		map[string]any{"class_id": int64(1), "name": "Ada", "email": "ada@example.com"},
	}

	_, err = mailnir.Run(tpl, sources, "")
	var missing *join.MissingJoinError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "inst", missing.Namespace)
	require.Equal(t, 1, missing.EntryIndex)
}

func TestRun_StrictRenderFailureNamesEntry(t *testing.T) {
	t.Parallel()

	tpl, err := template.Parse([]byte(`
sources:
  p: {primary: true}
to: a@b.com
subject: "{{p.subjct}}"
body: b
body_format: text
`))
	require.NoError(t, err)

	sources := map[string]any{"p": []any{
		map[string]any{"subjct": "ok"},
		map[string]any{"subject": "typo here"},
	}}

	_, err = mailnir.Run(tpl, sources, "")
	var rerr *render.Error
	require.ErrorAs(t, err, &rerr)
	require.Contains(t, err.Error(), "entry 1")
}

func TestPreview_ReportsBrokenEntriesAndRendersRest(t *testing.T) {
	t.Parallel()

	tpl, err := template.Parse([]byte(classTemplate))
	require.NoError(t, err)

	sources := classSources()
	// Entry 1 loses its instructor match.
	sources["inst"] = []any{
		map[string]any{"class_id": int64(1), "name": "Ada", "email": "ada@example.com"},
	}

	result, err := mailnir.Preview(tpl, sources, "")
	require.NoError(t, err)
	require.Len(t, result.Instances, 2)

	require.NotNil(t, result.Instances[0].Email)
	require.Equal(t, "ada@example.com", result.Instances[0].Email.To)

	require.False(t, result.Report.IsValid())
	require.Len(t, result.Report.InvalidEntries(), 1)

	broken := result.Report.Entries[1]
	require.Equal(t, 1, broken.Index)

	var kinds []validate.IssueKind
	for _, issue := range broken.Issues {
		kinds = append(kinds, issue.Kind)
	}
	require.Contains(t, kinds, validate.IssueJoinMissing)
}

func TestPreview_AllValid(t *testing.T) {
	t.Parallel()

	tpl, err := template.Parse([]byte(classTemplate))
	require.NoError(t, err)

	result, err := mailnir.Preview(tpl, classSources(), "")
	require.NoError(t, err)
	require.True(t, result.Report.IsValid())
	require.Equal(t, 2, result.Report.EntryCount)
	for _, inst := range result.Instances {
		require.NotNil(t, inst.Email)
	}
}
