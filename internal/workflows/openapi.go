package workflows

import "github.com/JaimeStill/flowdeck/pkg/openapi"

type spec struct {
	List      *openapi.Operation
	Search    *openapi.Operation
	Create    *openapi.Operation
	Find      *openapi.Operation
	Update    *openapi.Operation
	Delete    *openapi.Operation
	SaveGraph *openapi.Operation
	Duplicate *openapi.Operation
}

// Spec contains OpenAPI operation definitions for all workflow endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List workflows",
		Description: "Returns the caller's workflows, newest first, with optional name search",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Case-insensitive substring match on name", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort fields. Prefix with - for descending", false),
			openapi.QueryParam("status", "string", "Filter by status", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated list of workflows", "WorkflowPageResult"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search workflows",
		Description: "Same as list with the page request in the body",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("status", "string", "Filter by status", false),
		},
		RequestBody: openapi.RequestBodyJSON("PageRequest", false),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated search results", "WorkflowPageResult"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create workflow",
		Description: "Creates an INACTIVE workflow with an empty graph",
		RequestBody: openapi.RequestBodyJSON("CreateWorkflowCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Workflow created", "Workflow"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Find workflow by ID",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Workflow UUID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Workflow", "Workflow"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update workflow",
		Description: "Partially updates name, description, or status. FAILED cannot be set by callers.",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Workflow UUID"),
		},
		RequestBody: openapi.RequestBodyJSON("UpdateWorkflowCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Workflow updated", "Workflow"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete workflow",
		Description: "Removes a workflow and returns the removed record",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Workflow UUID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Workflow deleted", "Workflow"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	SaveGraph: &openapi.Operation{
		Summary:     "Save workflow graph",
		Description: "Replaces the canvas nodes and edges. Payloads are stored as given.",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Workflow UUID"),
		},
		RequestBody: openapi.RequestBodyJSON("WorkflowGraph", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Graph saved", "Workflow"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Duplicate: &openapi.Operation{
		Summary:     "Duplicate workflow",
		Description: "Copies description and graph under a new name. The copy starts INACTIVE.",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Source workflow UUID"),
		},
		RequestBody: openapi.RequestBodyJSON("DuplicateWorkflowCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Workflow duplicated", "Workflow"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

var statusEnum = []string{string(StatusActive), string(StatusInactive), string(StatusFailed)}

// Schemas returns the workflow domain schemas for OpenAPI components.
func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Workflow": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"owner_id":    {Type: "string"},
				"name":        {Type: "string"},
				"description": {Type: "string"},
				"status":      {Type: "string", Enum: statusEnum},
				"nodes":       {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"edges":       {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"created_at":  {Type: "string", Format: "date-time"},
				"updated_at":  {Type: "string", Format: "date-time"},
			},
		},
		"WorkflowPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"items":             {Type: "array", Items: openapi.SchemaRef("Workflow")},
				"total_count":       {Type: "integer"},
				"page":              {Type: "integer"},
				"page_size":         {Type: "integer"},
				"total_pages":       {Type: "integer"},
				"has_next_page":     {Type: "boolean"},
				"has_previous_page": {Type: "boolean"},
			},
		},
		"CreateWorkflowCommand": {
			Type:     "object",
			Required: []string{"name"},
			Properties: map[string]*openapi.Schema{
				"name":        {Type: "string", Example: "demo"},
				"description": {Type: "string"},
			},
		},
		"UpdateWorkflowCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name":        {Type: "string"},
				"description": {Type: "string"},
				"status":      {Type: "string", Enum: []string{string(StatusActive), string(StatusInactive)}},
			},
		},
		"WorkflowGraph": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"nodes": {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"edges": {Type: "array", Items: &openapi.Schema{Type: "object"}},
			},
		},
		"DuplicateWorkflowCommand": {
			Type:     "object",
			Required: []string{"name"},
			Properties: map[string]*openapi.Schema{
				"name": {Type: "string"},
			},
		},
	}
}
