package workflows

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/flowdeck/pkg/auth"
	"github.com/JaimeStill/flowdeck/pkg/pagination"
	"github.com/JaimeStill/flowdeck/pkg/query"
	"github.com/JaimeStill/flowdeck/pkg/repository"
	"github.com/google/uuid"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a PostgreSQL-backed workflows System.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "workflow"),
		pagination: pagination,
	}
}

func (r *repo) List(ctx context.Context, p auth.Principal, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Workflow], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort...).
		WhereEquals("OwnerID", p.Subject).
		WhereContains("Name", page.Search)

	filters.Apply(qb)
	qb.OrderByFields(sortFields(page.Sort))

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count workflows: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanWorkflow)
	if err != nil {
		return nil, fmt.Errorf("query workflows: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, p auth.Principal, id uuid.UUID) (*Workflow, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("OwnerID", p.Subject).
		BuildSingle("ID", id)

	w, err := repository.QueryOne(ctx, r.db, q, args, scanWorkflow)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &w, nil
}

func (r *repo) Create(ctx context.Context, p auth.Principal, cmd CreateCommand) (*Workflow, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO workflows (id, owner_id, name, description, status)
		VALUES ($1, $2, $3, $4, $5)
		` + returning

	args := []any{uuid.New(), p.Subject, cmd.Name, cmd.Description, string(StatusInactive)}

	w, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Workflow, error) {
		return repository.QueryOne(ctx, tx, q, args, scanWorkflow)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("workflow created", "id", w.ID, "owner", p.Subject, "name", w.Name)
	return &w, nil
}

func (r *repo) Update(ctx context.Context, p auth.Principal, id uuid.UUID, cmd UpdateCommand) (*Workflow, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var status *string
	if cmd.Status != nil {
		s := string(*cmd.Status)
		status = &s
	}

	q := `
		UPDATE workflows
		SET name = COALESCE($3, name),
		    description = COALESCE($4, description),
		    status = COALESCE($5, status),
		    updated_at = GREATEST(NOW(), updated_at)
		WHERE id = $1 AND owner_id = $2
		` + returning

	args := []any{id, p.Subject, cmd.Name, cmd.Description, status}

	w, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Workflow, error) {
		return repository.QueryOne(ctx, tx, q, args, scanWorkflow)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("workflow updated", "id", w.ID, "owner", p.Subject, "status", w.Status)
	return &w, nil
}

func (r *repo) Delete(ctx context.Context, p auth.Principal, id uuid.UUID) (*Workflow, error) {
	q := `
		DELETE FROM workflows
		WHERE id = $1 AND owner_id = $2
		` + returning

	w, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Workflow, error) {
		return repository.QueryOne(ctx, tx, q, []any{id, p.Subject}, scanWorkflow)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("workflow deleted", "id", id, "owner", p.Subject)
	return &w, nil
}

func (r *repo) SaveGraph(ctx context.Context, p auth.Principal, id uuid.UUID, cmd GraphCommand) (*Workflow, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		UPDATE workflows
		SET nodes = $3::jsonb,
		    edges = $4::jsonb,
		    updated_at = GREATEST(NOW(), updated_at)
		WHERE id = $1 AND owner_id = $2
		` + returning

	args := []any{id, p.Subject, []byte(cmd.Nodes), []byte(cmd.Edges)}

	w, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Workflow, error) {
		return repository.QueryOne(ctx, tx, q, args, scanWorkflow)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("workflow graph saved", "id", id, "owner", p.Subject)
	return &w, nil
}

func (r *repo) Duplicate(ctx context.Context, p auth.Principal, id uuid.UUID, cmd DuplicateCommand) (*Workflow, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO workflows (id, owner_id, name, description, status, nodes, edges)
		SELECT $3::uuid, owner_id, $4::text, description, $5::text, nodes, edges
		FROM workflows
		WHERE id = $1 AND owner_id = $2
		` + returning

	args := []any{id, p.Subject, uuid.New(), cmd.Name, string(StatusInactive)}

	w, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Workflow, error) {
		return repository.QueryOne(ctx, tx, q, args, scanWorkflow)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("workflow duplicated", "source", id, "id", w.ID, "owner", p.Subject)
	return &w, nil
}
