package workflows

import (
	"encoding/json"

	"github.com/JaimeStill/flowdeck/pkg/query"
	"github.com/JaimeStill/flowdeck/pkg/repository"
)

var projection = query.NewProjectionMap("public", "workflows", "w").
	Project("id", "ID").
	Project("owner_id", "OwnerID").
	Project("name", "Name").
	Project("description", "Description").
	Project("status", "Status").
	Project("nodes", "Nodes").
	Project("edges", "Edges").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

// defaultSort lists newest first. ID breaks ties between rows created in the same instant.
var defaultSort = []query.SortField{
	{Field: "CreatedAt", Descending: true},
	{Field: "ID", Descending: true},
}

var sortable = map[string]string{
	"name":       "Name",
	"status":     "Status",
	"created_at": "CreatedAt",
	"updated_at": "UpdatedAt",
}

// sortFields keeps only known fields, maps them to projection names, and
// appends the id tie-break.
func sortFields(fields []query.SortField) []query.SortField {
	out := make([]query.SortField, 0, len(fields)+1)
	for _, f := range fields {
		if name, ok := sortable[f.Field]; ok {
			out = append(out, query.SortField{Field: name, Descending: f.Descending})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return append(out, query.SortField{Field: "ID", Descending: true})
}

const returning = "RETURNING id, owner_id, name, description, status, nodes, edges, created_at, updated_at"

func scanWorkflow(s repository.Scanner) (Workflow, error) {
	var (
		w            Workflow
		status       string
		nodes, edges []byte
	)
	err := s.Scan(
		&w.ID, &w.OwnerID, &w.Name, &w.Description, &status,
		&nodes, &edges, &w.CreatedAt, &w.UpdatedAt,
	)
	w.Status = Status(status)
	w.Nodes = json.RawMessage(nodes)
	w.Edges = json.RawMessage(edges)
	return w, err
}
