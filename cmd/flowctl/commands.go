package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/flowdeck/internal/dashboard"
	"github.com/JaimeStill/flowdeck/internal/workflows"
	"github.com/JaimeStill/flowdeck/pkg/listview"
)

func (a *app) listCmd() *cobra.Command {
	var (
		page   int
		search string
		from   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workflows one page at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var loc listview.Location
			if from != "" {
				u, err := listview.NewURLLocation(from)
				if err != nil {
					return fmt.Errorf("--from: %w", err)
				}
				loc = u
			}

			v, err := a.view(loc)
			if err != nil {
				return err
			}
			defer v.Close()

			if cmd.Flags().Changed("search") {
				v.Store.Set(listview.Search(search))
			}
			if cmd.Flags().Changed("page") {
				v.Store.Set(listview.Page(page))
			}

			return a.renderState(v.Load(cmd.Context()), v)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive name filter")
	cmd.Flags().StringVar(&from, "from", "", "restore page and search from a dashboard link")
	return cmd
}

// searchCmd types the query into the debounced search input and renders once
// it has been promoted.
func (a *app) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Search workflows by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.view(nil)
			if err != nil {
				return err
			}
			defer v.Close()

			if err := promote(cmd.Context(), v, args[0]); err != nil {
				return err
			}
			return a.renderState(v.Load(cmd.Context()), v)
		},
	}
}

func promote(ctx context.Context, v *dashboard.View, text string) error {
	done := make(chan struct{}, 1)
	unsub := v.Store.Subscribe(func(p listview.Params) {
		if p.Search == text {
			select {
			case done <- struct{}{}:
			default:
			}
		}
	})
	defer unsub()

	v.Search.Type(text)
	if v.Store.Read().Search == text {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(10 * time.Second):
		return fmt.Errorf("search was not applied")
	}
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			v, err := a.view(nil)
			if err != nil {
				return err
			}
			defer v.Close()

			w, err := v.Mutations.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return renderWorkflow(a.out, w)
		},
	}
}

func (a *app) createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an INACTIVE workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.view(nil)
			if err != nil {
				return err
			}
			defer v.Close()

			w, err := v.CreateFromEmpty(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, w.ID)
			return nil
		},
	}
}

func (a *app) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a workflow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, args[0], func(ctx context.Context, v *dashboard.View, id uuid.UUID) (*workflows.Workflow, error) {
				return v.Mutations.Rename(ctx, id, args[1])
			})
		},
	}
}

func (a *app) statusCmd(use, short string, status workflows.Status) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, args[0], func(ctx context.Context, v *dashboard.View, id uuid.UUID) (*workflows.Workflow, error) {
				return v.Mutations.SetStatus(ctx, id, status)
			})
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a workflow",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, args[0], func(ctx context.Context, v *dashboard.View, id uuid.UUID) (*workflows.Workflow, error) {
				return v.Mutations.Remove(ctx, id)
			})
		},
	}
}

func (a *app) mutate(cmd *cobra.Command, raw string, fn func(context.Context, *dashboard.View, uuid.UUID) (*workflows.Workflow, error)) error {
	id, err := parseID(raw)
	if err != nil {
		return err
	}
	v, err := a.view(nil)
	if err != nil {
		return err
	}
	defer v.Close()

	w, err := fn(cmd.Context(), v, id)
	if err != nil {
		return err
	}
	return renderWorkflow(a.out, w)
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid workflow id %q", raw)
	}
	return id, nil
}
