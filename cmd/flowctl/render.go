package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/docker/go-units"

	"github.com/JaimeStill/flowdeck/internal/dashboard"
	"github.com/JaimeStill/flowdeck/internal/workflows"
	"github.com/JaimeStill/flowdeck/pkg/listview"
)

var now = time.Now

func (a *app) renderState(s dashboard.State, v *dashboard.View) error {
	switch s.Status {
	case listview.StatusError:
		return fmt.Errorf("load workflows: %s", s.Err)
	case listview.StatusLoading:
		return fmt.Errorf("load workflows: no result")
	}

	if err := renderPage(a.out, s); err != nil {
		return err
	}
	if loc, ok := locationOf(v); ok {
		fmt.Fprintf(a.out, "link: %s\n", loc)
	}
	return nil
}

func renderPage(w io.Writer, s dashboard.State) error {
	page := s.Data
	if len(page.Items) == 0 {
		if s.Params.Search != "" {
			fmt.Fprintf(w, "No workflows match %q.\n", s.Params.Search)
		} else {
			fmt.Fprintln(w, "No workflows yet. Create one with: flowctl create <name>")
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tUPDATED")
	for _, item := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", item.ID, item.Name, item.Status, ago(item.UpdatedAt))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "page %d of %d (%d workflows)\n", page.Page, page.TotalPages, page.TotalCount)
	return nil
}

func renderWorkflow(w io.Writer, wf *workflows.Workflow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "id:\t%s\n", wf.ID)
	fmt.Fprintf(tw, "name:\t%s\n", wf.Name)
	if wf.Description != nil {
		fmt.Fprintf(tw, "description:\t%s\n", *wf.Description)
	}
	fmt.Fprintf(tw, "status:\t%s\n", wf.Status)
	fmt.Fprintf(tw, "created:\t%s\n", ago(wf.CreatedAt))
	fmt.Fprintf(tw, "updated:\t%s\n", ago(wf.UpdatedAt))
	return tw.Flush()
}

func ago(t time.Time) string {
	d := now().Sub(t)
	if d < time.Second {
		return "just now"
	}
	return units.HumanDuration(d) + " ago"
}

func locationOf(v *dashboard.View) (string, bool) {
	if s, ok := v.Store.Location().(fmt.Stringer); ok {
		return s.String(), true
	}
	return "", false
}
