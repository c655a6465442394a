package validate

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strings"

	"github.com/m-tem/mailnir/pkg/join"
	"github.com/m-tem/mailnir/pkg/render"
	"github.com/m-tem/mailnir/pkg/template"
)

// IssueKind classifies one validation problem.
type IssueKind int

const (
	// IssueUnresolvedVariable is a strict-mode render failure carried
	// into the report.
	IssueUnresolvedVariable IssueKind = iota
	// IssueJoinMissing is a 1:1 join with no match.
	IssueJoinMissing
	// IssueJoinAmbiguous is a 1:1 join with more than one match.
	IssueJoinAmbiguous
	// IssueInvalidAddress is a recipient field that does not parse as
	// an address list.
	IssueInvalidAddress
	// IssueAttachmentNotFound is a resolved attachment path absent
	// from the filesystem.
	IssueAttachmentNotFound
	// IssueRequiredFieldEmpty is an empty to, subject, or body after
	// rendering.
	IssueRequiredFieldEmpty
	// IssueStylesheetNotFound is a configured stylesheet path absent
	// from the filesystem.
	IssueStylesheetNotFound
	// IssueCSSInline is a failed CSS inlining pass.
	IssueCSSInline
)

// Issue is one problem found for one entry. FieldOrScope names the
// template field, namespace, or path the problem belongs to; Detail
// carries the literal offending text.
type Issue struct {
	Kind         IssueKind
	FieldOrScope string
	Detail       string
}

// String formats the issue for diagnostics surfaces.
func (i Issue) String() string {
	switch i.Kind {
	case IssueUnresolvedVariable:
		return fmt.Sprintf("field %q: %s", i.FieldOrScope, i.Detail)
	case IssueJoinMissing:
		return fmt.Sprintf("join %q found no match", i.FieldOrScope)
	case IssueJoinAmbiguous:
		return fmt.Sprintf("join %q is ambiguous: %s", i.FieldOrScope, i.Detail)
	case IssueInvalidAddress:
		return fmt.Sprintf("field %q is not a valid address list: %q", i.FieldOrScope, i.Detail)
	case IssueAttachmentNotFound:
		return fmt.Sprintf("attachment not found: %s", i.FieldOrScope)
	case IssueRequiredFieldEmpty:
		return fmt.Sprintf("required field %q is empty", i.FieldOrScope)
	case IssueStylesheetNotFound:
		return fmt.Sprintf("stylesheet not found: %s", i.FieldOrScope)
	case IssueCSSInline:
		return fmt.Sprintf("CSS inlining failed: %s", i.Detail)
	default:
		return i.Detail
	}
}

// EntryResult is the validation outcome for one primary entry.
type EntryResult struct {
	// Index is the zero-based primary dataset index.
	Index int
	// Issues is empty when the entry is valid.
	Issues []Issue
}

// IsValid reports whether the entry passed every check.
func (r EntryResult) IsValid() bool {
	return len(r.Issues) == 0
}

// Report aggregates validation over an entire batch, one EntryResult
// per primary entry in dataset order.
type Report struct {
	EntryCount int
	Entries    []EntryResult
}

// IsValid reports whether every entry passed.
func (r *Report) IsValid() bool {
	for _, e := range r.Entries {
		if !e.IsValid() {
			return false
		}
	}
	return true
}

// InvalidEntries returns the entries with at least one issue.
func (r *Report) InvalidEntries() []EntryResult {
	var out []EntryResult
	for _, e := range r.Entries {
		if !e.IsValid() {
			out = append(out, e)
		}
	}
	return out
}

// Entry pairs one rendered instance with whatever went wrong producing
// it: join issues carried over from lenient context building and the
// render error when rendering failed. Email is nil in that case.
type Entry struct {
	Index      int
	Email      *render.Email
	JoinIssues []join.Issue
	RenderErr  error
}

// Validate applies every per-instance check to each entry and returns
// the full report. It never short-circuits: a user must see every
// problem in one pass.
func Validate(entries []Entry) *Report {
	report := &Report{
		EntryCount: len(entries),
		Entries:    make([]EntryResult, 0, len(entries)),
	}

	for _, entry := range entries {
		result := EntryResult{Index: entry.Index}

		for _, ji := range entry.JoinIssues {
			result.Issues = append(result.Issues, issueFromJoin(ji))
		}
		if entry.RenderErr != nil {
			result.Issues = append(result.Issues, issueFromRenderError(entry.RenderErr))
		}
		if entry.Email != nil {
			checkInstance(entry.Email, &result)
		}

		report.Entries = append(report.Entries, result)
	}

	return report
}

func issueFromJoin(ji join.Issue) Issue {
	if ji.Kind == join.IssueAmbiguous {
		return Issue{
			Kind:         IssueJoinAmbiguous,
			FieldOrScope: ji.Namespace,
			Detail:       fmt.Sprintf("%d matches", ji.MatchCount),
		}
	}
	return Issue{Kind: IssueJoinMissing, FieldOrScope: ji.Namespace}
}

func issueFromRenderError(err error) Issue {
	var stylesheet *render.StylesheetNotFoundError
	if errors.As(err, &stylesheet) {
		return Issue{Kind: IssueStylesheetNotFound, FieldOrScope: stylesheet.Path}
	}
	var cssErr *render.CSSInlineError
	if errors.As(err, &cssErr) {
		return Issue{Kind: IssueCSSInline, Detail: cssErr.Reason}
	}
	var rerr *render.Error
	if errors.As(err, &rerr) {
		return Issue{Kind: IssueUnresolvedVariable, FieldOrScope: rerr.Field, Detail: rerr.Error()}
	}
	return Issue{Kind: IssueUnresolvedVariable, FieldOrScope: "<internal>", Detail: err.Error()}
}

func checkInstance(email *render.Email, result *EntryResult) {
	checkRequired("to", email.To, result)
	checkRequired("subject", email.Subject, result)
	checkRequired("body", email.TextBody, result)

	// Address checks only on non-empty fields, so an empty to is not
	// reported twice.
	if strings.TrimSpace(email.To) != "" {
		checkAddress("to", email.To, result)
	}
	if strings.TrimSpace(email.CC) != "" {
		checkAddress("cc", email.CC, result)
	}
	if strings.TrimSpace(email.BCC) != "" {
		checkAddress("bcc", email.BCC, result)
	}

	for _, path := range email.Attachments {
		if _, err := os.Stat(path); err != nil {
			result.Issues = append(result.Issues, Issue{
				Kind:         IssueAttachmentNotFound,
				FieldOrScope: path,
			})
		}
	}
}

func checkRequired(field, value string, result *EntryResult) {
	if strings.TrimSpace(value) == "" {
		result.Issues = append(result.Issues, Issue{
			Kind:         IssueRequiredFieldEmpty,
			FieldOrScope: field,
		})
	}
}

func checkAddress(field, value string, result *EntryResult) {
	if _, err := mail.ParseAddressList(value); err != nil {
		result.Issues = append(result.Issues, Issue{
			Kind:         IssueInvalidAddress,
			FieldOrScope: field,
			Detail:       value,
		})
	}
}

// ValidateAll runs the whole lenient pipeline: contexts, best-effort
// rendering, and every per-instance check, producing a report over all
// primary entries. It returns an error only for structural failures
// (invalid template, missing dataset, wrong dataset shape).
func ValidateAll(tpl *template.Template, sources map[string]any, templateDir string) (*Report, error) {
	descriptors, err := template.ResolveDescriptors(tpl)
	if err != nil {
		return nil, err
	}
	contexts, joinIssues, err := join.BuildContextsLenient(descriptors, sources)
	if err != nil {
		return nil, err
	}

	issuesByEntry := make(map[int][]join.Issue)
	for _, ji := range joinIssues {
		issuesByEntry[ji.EntryIndex] = append(issuesByEntry[ji.EntryIndex], ji)
	}

	entries := make([]Entry, 0, len(contexts))
	for _, ctx := range contexts {
		entry := Entry{Index: ctx.Index, JoinIssues: issuesByEntry[ctx.Index]}
		email, err := render.Render(tpl, ctx, templateDir)
		if err != nil {
			entry.RenderErr = err
		} else {
			entry.Email = email
		}
		entries = append(entries, entry)
	}

	return Validate(entries), nil
}
