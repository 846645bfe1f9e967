package dashboard

import (
	"context"

	"github.com/JaimeStill/flowdeck/internal/client"
	"github.com/JaimeStill/flowdeck/internal/workflows"
	"github.com/JaimeStill/flowdeck/pkg/listview"
	"github.com/JaimeStill/flowdeck/pkg/pagination"
	"github.com/google/uuid"
)

// Backend is the remote workflow API. *client.Client satisfies it.
type Backend interface {
	List(ctx context.Context, p client.ListParams) (pagination.PageResult[workflows.Workflow], error)
	Get(ctx context.Context, id uuid.UUID) (*workflows.Workflow, error)
	Create(ctx context.Context, cmd workflows.CreateCommand) (*workflows.Workflow, error)
	Update(ctx context.Context, id uuid.UUID, cmd workflows.UpdateCommand) (*workflows.Workflow, error)
	Remove(ctx context.Context, id uuid.UUID) (*workflows.Workflow, error)
	SaveGraph(ctx context.Context, id uuid.UUID, cmd workflows.GraphCommand) (*workflows.Workflow, error)
	Duplicate(ctx context.Context, id uuid.UUID, cmd workflows.DuplicateCommand) (*workflows.Workflow, error)
}

var _ Backend = (*client.Client)(nil)

// ListFetcher adapts the backend's list operation to a listview fetcher.
func ListFetcher(b Backend) listview.Fetcher[workflows.Workflow] {
	return listview.FetcherFunc[workflows.Workflow](func(ctx context.Context, p listview.Params) (pagination.PageResult[workflows.Workflow], error) {
		return b.List(ctx, client.ListParams{
			Page:     p.Page,
			PageSize: p.PageSize,
			Search:   p.Search,
		})
	})
}
