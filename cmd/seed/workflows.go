package main

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/JaimeStill/flowdeck/internal/workflows"
)

//go:embed seeds/*.json
var seedFiles embed.FS

func init() {
	register(&WorkflowSeeder{})
}

// WorkflowSeedData represents the JSON structure for workflow seed files.
type WorkflowSeedData struct {
	Workflows []WorkflowSeed `json:"workflows"`
}

type WorkflowSeed struct {
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Status      workflows.Status `json:"status"`
	Nodes       json.RawMessage  `json:"nodes"`
	Edges       json.RawMessage  `json:"edges"`
}

// WorkflowSeeder inserts sample workflows for one owner. The seed file
// supplies named examples; count adds generated filler rows for paging.
type WorkflowSeeder struct {
	file  string
	owner string
	count int
}

func (s *WorkflowSeeder) Name() string {
	return "workflows"
}

func (s *WorkflowSeeder) Description() string {
	return "Seeds sample workflows with node/edge graphs for one owner"
}

// SetFile configures an external seed file path, overriding the embedded default.
func (s *WorkflowSeeder) SetFile(path string) {
	s.file = path
}

func (s *WorkflowSeeder) SetOwner(owner string) {
	s.owner = owner
}

func (s *WorkflowSeeder) SetCount(n int) {
	s.count = n
}

// Seed inserts the seed file entries followed by count generated workflows.
func (s *WorkflowSeeder) Seed(ctx context.Context, tx *sql.Tx) error {
	if s.owner == "" {
		return fmt.Errorf("owner required")
	}

	data, err := s.loadSeedData()
	if err != nil {
		return err
	}

	for _, w := range data.Workflows {
		if err := s.insert(ctx, tx, w); err != nil {
			return fmt.Errorf("insert workflow %q: %w", w.Name, err)
		}
	}

	for i := range s.count {
		w := WorkflowSeed{
			Name:   fmt.Sprintf("Generated workflow %03d", i+1),
			Status: workflows.StatusInactive,
		}
		if err := s.insert(ctx, tx, w); err != nil {
			return fmt.Errorf("insert workflow %q: %w", w.Name, err)
		}
	}

	return nil
}

func (s *WorkflowSeeder) loadSeedData() (*WorkflowSeedData, error) {
	var content []byte
	var err error

	if s.file != "" {
		content, err = os.ReadFile(s.file)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	} else {
		content, err = seedFiles.ReadFile("seeds/workflows.json")
		if err != nil {
			return nil, fmt.Errorf("read embedded seed file: %w", err)
		}
	}

	var data WorkflowSeedData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}

	return &data, nil
}

func (s *WorkflowSeeder) insert(ctx context.Context, tx *sql.Tx, w WorkflowSeed) error {
	create := workflows.CreateCommand{Name: w.Name, Description: w.Description}
	if err := create.Validate(); err != nil {
		return err
	}

	graph := workflows.GraphCommand{Nodes: w.Nodes, Edges: w.Edges}
	if err := graph.Validate(); err != nil {
		return err
	}

	status := w.Status
	if status == "" {
		status = workflows.StatusInactive
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", workflows.ErrValidation, status)
	}

	const query = `
		INSERT INTO workflows (id, owner_id, name, description, status, nodes, edges, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7::jsonb, clock_timestamp(), clock_timestamp())`

	_, err := tx.ExecContext(ctx, query,
		uuid.New(), s.owner, create.Name, create.Description, string(status),
		string(graph.Nodes), string(graph.Edges),
	)
	return err
}
