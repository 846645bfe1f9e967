// Package dashboard assembles the workflow list view: parameter store, search
// input, list accessor, and the mutation coordinator that keeps their caches
// consistent with the server.
package dashboard

import (
	"context"
	"errors"
	"log/slog"

	"github.com/JaimeStill/flowdeck/internal/client"
	"github.com/JaimeStill/flowdeck/internal/workflows"
	"github.com/JaimeStill/flowdeck/pkg/listview"
	"github.com/google/uuid"
)

// Cache tags.
const (
	TagList = "workflow-list"
	TagItem = "workflow-item"
)

// ErrValidation is returned before any request is sent. It shares the server's
// sentinel so errors.Is matches either side.
var ErrValidation = workflows.ErrValidation

// ItemKey is the single-item cache key for id.
func ItemKey(id uuid.UUID) string {
	return "workflow:" + id.String()
}

type outcome struct {
	success string
	failure string
}

var (
	created    = outcome{"Workflow created successfully", "Failed to create workflow"}
	updated    = outcome{"Workflow updated successfully", "Failed to update workflow"}
	removed    = outcome{"Workflow deleted successfully", "Failed to delete workflow"}
	saved      = outcome{"Workflow saved successfully", "Failed to save workflow"}
	duplicated = outcome{"Workflow duplicated successfully", "Failed to duplicate workflow"}
)

// Coordinator performs workflow mutations and invalidates cached reads only
// after the server confirms each one. Failures leave the cache untouched.
type Coordinator struct {
	backend  Backend
	cache    *listview.Cache
	notifier Notifier
	logger   *slog.Logger
}

func NewCoordinator(backend Backend, cache *listview.Cache, notifier Notifier, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		backend:  backend,
		cache:    cache,
		notifier: notifier,
		logger:   logger.With("system", "dashboard"),
	}
}

// Get reads one workflow through the item cache.
func (c *Coordinator) Get(ctx context.Context, id uuid.UUID) (*workflows.Workflow, error) {
	return listview.Load(ctx, c.cache, ItemKey(id), []string{TagItem}, false, func(ctx context.Context) (*workflows.Workflow, error) {
		return c.backend.Get(ctx, id)
	})
}

func (c *Coordinator) Create(ctx context.Context, name string) (*workflows.Workflow, error) {
	cmd := workflows.CreateCommand{Name: name}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	w, err := c.backend.Create(ctx, cmd)
	if err != nil {
		return nil, c.fail(created, err)
	}

	c.cache.Invalidate(TagList)
	c.succeed(created, "id", w.ID)
	return w, nil
}

func (c *Coordinator) Update(ctx context.Context, id uuid.UUID, cmd workflows.UpdateCommand) (*workflows.Workflow, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	w, err := c.backend.Update(ctx, id, cmd)
	if err != nil {
		return nil, c.fail(updated, err)
	}

	c.invalidate(id)
	c.succeed(updated, "id", id)
	return w, nil
}

// Rename is Update with only a new name.
func (c *Coordinator) Rename(ctx context.Context, id uuid.UUID, name string) (*workflows.Workflow, error) {
	return c.Update(ctx, id, workflows.UpdateCommand{Name: &name})
}

// SetStatus is Update with only a new status.
func (c *Coordinator) SetStatus(ctx context.Context, id uuid.UUID, status workflows.Status) (*workflows.Workflow, error) {
	return c.Update(ctx, id, workflows.UpdateCommand{Status: &status})
}

// Remove deletes the workflow and returns the removed record. Removing an id
// that no longer exists reports not found.
func (c *Coordinator) Remove(ctx context.Context, id uuid.UUID) (*workflows.Workflow, error) {
	w, err := c.backend.Remove(ctx, id)
	if err != nil {
		return nil, c.fail(removed, err)
	}

	c.invalidate(id)
	c.succeed(removed, "id", id)
	return w, nil
}

func (c *Coordinator) SaveGraph(ctx context.Context, id uuid.UUID, cmd workflows.GraphCommand) (*workflows.Workflow, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	w, err := c.backend.SaveGraph(ctx, id, cmd)
	if err != nil {
		return nil, c.fail(saved, err)
	}

	c.invalidate(id)
	c.succeed(saved, "id", id)
	return w, nil
}

func (c *Coordinator) Duplicate(ctx context.Context, id uuid.UUID, name string) (*workflows.Workflow, error) {
	cmd := workflows.DuplicateCommand{Name: name}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	w, err := c.backend.Duplicate(ctx, id, cmd)
	if err != nil {
		return nil, c.fail(duplicated, err)
	}

	c.cache.Invalidate(TagList)
	c.succeed(duplicated, "source", id, "id", w.ID)
	return w, nil
}

func (c *Coordinator) invalidate(id uuid.UUID) {
	c.cache.Invalidate(TagList)
	c.cache.Invalidate(ItemKey(id))
}

func (c *Coordinator) succeed(o outcome, attrs ...any) {
	c.logger.Info(o.success, attrs...)
	c.notifier.Success(o.success)
}

func (c *Coordinator) fail(o outcome, err error) error {
	c.logger.Warn(o.failure, "error", err)
	c.notifier.Error(message(err, o.failure))
	return err
}

// message prefers the server's error text over the fallback.
func message(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
