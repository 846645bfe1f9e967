// Package workflows manages owner-scoped workflow records and their canvas graphs.
// Every operation takes the calling principal explicitly; a workflow owned by
// someone else is indistinguishable from one that does not exist.
package workflows

import (
	"context"

	"github.com/JaimeStill/flowdeck/pkg/auth"
	"github.com/JaimeStill/flowdeck/pkg/pagination"
	"github.com/google/uuid"
)

// System defines workflow storage and retrieval operations.
type System interface {
	// List returns the principal's workflows, newest first, matching page.Search on name.
	List(ctx context.Context, p auth.Principal, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Workflow], error)

	// Find returns ErrNotFound for missing or foreign ids.
	Find(ctx context.Context, p auth.Principal, id uuid.UUID) (*Workflow, error)

	// Create stores a new INACTIVE workflow with an empty graph.
	Create(ctx context.Context, p auth.Principal, cmd CreateCommand) (*Workflow, error)

	// Update applies the non-nil fields of cmd.
	Update(ctx context.Context, p auth.Principal, id uuid.UUID, cmd UpdateCommand) (*Workflow, error)

	// Delete removes the workflow and returns it as it was before removal.
	Delete(ctx context.Context, p auth.Principal, id uuid.UUID) (*Workflow, error)

	// SaveGraph replaces the nodes and edges payloads.
	SaveGraph(ctx context.Context, p auth.Principal, id uuid.UUID, cmd GraphCommand) (*Workflow, error)

	// Duplicate copies a workflow under a new name. The copy starts INACTIVE.
	Duplicate(ctx context.Context, p auth.Principal, id uuid.UUID, cmd DuplicateCommand) (*Workflow, error)
}
