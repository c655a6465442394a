package mailnir

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/m-tem/mailnir/pkg/join"
	"github.com/m-tem/mailnir/pkg/render"
	"github.com/m-tem/mailnir/pkg/template"
	"github.com/m-tem/mailnir/pkg/validate"
)

// Instance is one fully-rendered email paired with its primary entry
// index.
type Instance struct {
	Index int
	Email *render.Email
}

// PreviewResult is the outcome of a lenient pipeline pass. Instances
// holds one entry per primary record in dataset order; Email is nil
// where rendering failed, and the report carries the reason.
type PreviewResult struct {
	Instances []Instance
	Report    *validate.Report
}

// Run executes the strict pipeline: resolve descriptors, build join
// contexts, render every entry. The first join or render failure
// aborts the batch with an error naming the entry.
func Run(tpl *template.Template, sources map[string]any, templateDir string) ([]Instance, error) {
	descriptors, err := template.ResolveDescriptors(tpl)
	if err != nil {
		return nil, err
	}
	contexts, err := join.BuildContexts(descriptors, sources)
	if err != nil {
		return nil, err
	}

	instances := make([]Instance, len(contexts))
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i, ctx := range contexts {
		g.Go(func() error {
			email, err := render.Render(tpl, ctx, templateDir)
			if err != nil {
				return fmt.Errorf("entry %d: %w", ctx.Index, err)
			}
			instances[i] = Instance{Index: ctx.Index, Email: email}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return instances, nil
}

// Preview executes the lenient pipeline: contexts with collected join
// issues, best-effort rendering of every entry, and the full
// validation report. Entries render in parallel; results are slotted
// by index so output order never depends on scheduling.
func Preview(tpl *template.Template, sources map[string]any, templateDir string) (*PreviewResult, error) {
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

	entries := make([]validate.Entry, len(contexts))
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i, ctx := range contexts {
		g.Go(func() error {
			entry := validate.Entry{Index: ctx.Index, JoinIssues: issuesByEntry[ctx.Index]}
			email, err := render.Render(tpl, ctx, templateDir)
			if err != nil {
				entry.RenderErr = err
			} else {
				entry.Email = email
			}
			entries[i] = entry
			return nil
		})
	}
	_ = g.Wait()

	instances := make([]Instance, len(entries))
	for i, entry := range entries {
		instances[i] = Instance{Index: entry.Index, Email: entry.Email}
	}
	return &PreviewResult{
		Instances: instances,
		Report:    validate.Validate(entries),
	}, nil
}
