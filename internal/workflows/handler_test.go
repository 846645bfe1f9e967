package workflows_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/flowdeck/internal/workflows"
	"github.com/JaimeStill/flowdeck/pkg/auth"
	"github.com/JaimeStill/flowdeck/pkg/openapi"
	"github.com/JaimeStill/flowdeck/pkg/pagination"
	"github.com/JaimeStill/flowdeck/pkg/routes"
)

func newServer(t *testing.T, sys workflows.System) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := workflows.NewHandler(sys, logger, pageCfg, 1<<10)

	mux := http.NewServeMux()
	routes.Register(mux, "/api", openapi.NewSpec("test", "0.0.0"), h.Routes())

	// X-Subject stands in for a verified bearer token.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sub := r.Header.Get("X-Subject"); sub != "" {
			r = r.WithContext(auth.WithPrincipal(r.Context(), auth.Principal{Subject: sub}))
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, subject, method, path, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	if subject != "" {
		req.Header.Set("X-Subject", subject)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func TestHandler_CRUD(t *testing.T) {
	srv := newServer(t, workflows.NewMemory(pageCfg))

	status, body := do(t, srv, "alice", "POST", "/workflows", `{"name":"demo"}`)
	if status != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", status, body)
	}
	created := decode[workflows.Workflow](t, body)
	path := "/workflows/" + created.ID.String()

	status, body = do(t, srv, "alice", "GET", "/workflows?page=1&page_size=10", "")
	page := decode[pagination.PageResult[workflows.Workflow]](t, body)
	if status != http.StatusOK || page.TotalCount != 1 || page.TotalPages != 1 || page.Items[0].ID != created.ID {
		t.Errorf("list = %d %+v", status, page)
	}

	status, body = do(t, srv, "alice", "PATCH", path, `{"status":"ACTIVE"}`)
	if status != http.StatusOK || decode[workflows.Workflow](t, body).Status != workflows.StatusActive {
		t.Errorf("update = %d %s", status, body)
	}

	status, body = do(t, srv, "alice", "GET", path, "")
	if status != http.StatusOK || decode[workflows.Workflow](t, body).Status != workflows.StatusActive {
		t.Errorf("get = %d %s", status, body)
	}

	status, body = do(t, srv, "alice", "PUT", path+"/graph", `{"nodes":[{"id":"n1"}],"edges":[]}`)
	if status != http.StatusOK || string(decode[workflows.Workflow](t, body).Nodes) != `[{"id":"n1"}]` {
		t.Errorf("save graph = %d %s", status, body)
	}

	status, body = do(t, srv, "alice", "POST", path+"/duplicate", `{"name":"demo 2"}`)
	if status != http.StatusCreated {
		t.Errorf("duplicate = %d %s", status, body)
	}

	status, body = do(t, srv, "alice", "DELETE", path, "")
	if status != http.StatusOK || decode[workflows.Workflow](t, body).ID != created.ID {
		t.Errorf("delete = %d %s", status, body)
	}

	status, _ = do(t, srv, "alice", "DELETE", path, "")
	if status != http.StatusNotFound {
		t.Errorf("repeated delete status = %d, want 404", status)
	}
}

func TestHandler_Errors(t *testing.T) {
	sys := workflows.NewMemory(pageCfg)
	srv := newServer(t, sys)

	_, body := do(t, srv, "alice", "POST", "/workflows", `{"name":"mine"}`)
	owned := "/workflows/" + decode[workflows.Workflow](t, body).ID.String()

	tests := []struct {
		name       string
		subject    string
		method     string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"no principal", "", "GET", "/workflows", "", http.StatusUnauthorized, "unauthorized"},
		{"empty name", "alice", "POST", "/workflows", `{"name":"  "}`, http.StatusBadRequest, "invalid workflow: name is required"},
		{"unknown field", "alice", "POST", "/workflows", `{"name":"x","owner_id":"bob"}`, http.StatusBadRequest, ""},
		{"no body", "alice", "POST", "/workflows", "", http.StatusBadRequest, "request body required"},
		{"oversized", "alice", "POST", "/workflows", `{"name":"` + strings.Repeat("a", 2048) + `"}`, http.StatusBadRequest, "request body exceeds 1024 bytes"},
		{"bad id", "alice", "GET", "/workflows/not-a-uuid", "", http.StatusBadRequest, ""},
		{"foreign id", "bob", "GET", owned, "", http.StatusNotFound, "workflow not found"},
		{"failed status", "alice", "PATCH", owned, `{"status":"FAILED"}`, http.StatusBadRequest, ""},
		{"empty patch", "alice", "PATCH", owned, `{}`, http.StatusBadRequest, ""},
		{"graph object", "alice", "PUT", owned + "/graph", `{"nodes":{}}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, srv, tt.subject, tt.method, tt.path, tt.body)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", status, tt.wantStatus, body)
			}
			resp := decode[struct {
				Error string `json:"error"`
			}](t, body)
			if resp.Error == "" {
				t.Error("error message missing")
			}
			if tt.wantError != "" && resp.Error != tt.wantError {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
			}
		})
	}
}

func TestHandler_Search(t *testing.T) {
	sys := workflows.NewMemory(pageCfg)
	srv := newServer(t, sys)

	for _, name := range []string{"alpha", "beta", "alphabet"} {
		do(t, srv, "alice", "POST", "/workflows", `{"name":"`+name+`"}`)
	}

	status, body := do(t, srv, "alice", "POST", "/workflows/search", `{"page":1,"page_size":1,"search":"alp"}`)
	page := decode[pagination.PageResult[workflows.Workflow]](t, body)
	if status != http.StatusOK || page.TotalCount != 2 || page.TotalPages != 2 || !page.HasNextPage {
		t.Errorf("search = %d %+v", status, page)
	}
	if page.Items[0].Name != "alphabet" {
		t.Errorf("first = %q, want newest match alphabet", page.Items[0].Name)
	}
}
