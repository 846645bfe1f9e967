package workflows

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxNameLength bounds workflow names in characters.
const MaxNameLength = 255

// Status is the workflow's activation state.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusFailed   Status = "FAILED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusFailed:
		return true
	}
	return false
}

// Settable reports whether a caller may assign s. FAILED is set only by external systems.
func (s Status) Settable() bool {
	return s == StatusActive || s == StatusInactive
}

// Workflow is an owner-scoped automation record. Nodes and Edges are the
// canvas graph, stored and returned without interpretation.
type Workflow struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Status      Status          `json:"status"`
	Nodes       json.RawMessage `json:"nodes"`
	Edges       json.RawMessage `json:"edges"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateCommand contains the data required to create a workflow.
type CreateCommand struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// Validate trims the name and checks its bounds.
func (c *CreateCommand) Validate() error {
	name, err := validName(c.Name)
	if err != nil {
		return err
	}
	c.Name = name
	return nil
}

// UpdateCommand is a partial update. Nil fields are left unchanged.
type UpdateCommand struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *Status `json:"status,omitempty"`
}

// Validate rejects empty patches, blank names, and statuses callers may not set.
func (c *UpdateCommand) Validate() error {
	if c.Name == nil && c.Description == nil && c.Status == nil {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if c.Name != nil {
		name, err := validName(*c.Name)
		if err != nil {
			return err
		}
		c.Name = &name
	}
	if c.Status != nil && !c.Status.Settable() {
		return fmt.Errorf("%w: status must be %s or %s", ErrValidation, StatusActive, StatusInactive)
	}
	return nil
}

// GraphCommand replaces a workflow's canvas graph.
type GraphCommand struct {
	Nodes json.RawMessage `json:"nodes"`
	Edges json.RawMessage `json:"edges"`
}

// Validate requires each payload to be a JSON array. Missing payloads become [].
func (c *GraphCommand) Validate() error {
	nodes, err := jsonArray("nodes", c.Nodes)
	if err != nil {
		return err
	}
	edges, err := jsonArray("edges", c.Edges)
	if err != nil {
		return err
	}
	c.Nodes, c.Edges = nodes, edges
	return nil
}

// DuplicateCommand copies a workflow's description and graph under a new name.
type DuplicateCommand struct {
	Name string `json:"name"`
}

func (c *DuplicateCommand) Validate() error {
	name, err := validName(c.Name)
	if err != nil {
		return err
	}
	c.Name = name
	return nil
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: name exceeds %d characters", ErrValidation, MaxNameLength)
	}
	return name, nil
}

var emptyArray = json.RawMessage(`[]`)

func jsonArray(field string, raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return emptyArray, nil
	}
	if trimmed[0] != '[' || !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: %s must be a JSON array", ErrValidation, field)
	}
	return trimmed, nil
}
