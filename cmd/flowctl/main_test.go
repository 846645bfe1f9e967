package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/flowdeck/internal/workflows"
	"github.com/JaimeStill/flowdeck/pkg/auth"
	"github.com/JaimeStill/flowdeck/pkg/module"
	"github.com/JaimeStill/flowdeck/pkg/openapi"
	"github.com/JaimeStill/flowdeck/pkg/pagination"
	"github.com/JaimeStill/flowdeck/pkg/routes"
)

var secret = []byte("flowctl-test-secret-0123456789abcdef")

type harness struct {
	t      *testing.T
	server string
	token  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := pagination.Config{DefaultPageSize: 10, MaxPageSize: 100}
	h := workflows.NewHandler(workflows.NewMemory(cfg), logger, cfg, 1<<20)

	mux := http.NewServeMux()
	routes.Register(mux, "/api", openapi.NewSpec("test", "0.0.0"), h.Routes())

	m := module.New("/api", mux)
	m.Use(auth.RequireAuth(auth.NewHMACVerifier(secret, "", ""), logger))

	router := module.NewRouter()
	router.Mount(m)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)

	return &harness{t: t, server: srv.URL + "/api", token: tok}
}

// run executes flowctl with the harness server and token supplied via env.
func (h *harness) run(args ...string) (stdout, stderr string, err error) {
	h.t.Setenv("FLOWCTL_SERVER", h.server)
	h.t.Setenv("FLOWCTL_TOKEN", h.token)
	h.t.Setenv("FLOWCTL_SEARCH_DELAY", "20ms")

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestFlowctl_Lifecycle(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "No workflows yet")

	out, errOut, err := h.run("create", "demo")
	require.NoError(t, err)
	assert.Contains(t, errOut, "[ok] Workflow created successfully")
	id := strings.TrimSpace(out)

	out, _, err = h.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "demo")
	assert.Contains(t, out, "INACTIVE")
	assert.Contains(t, out, "page 1 of 1 (1 workflows)")

	out, errOut, err = h.run("activate", id)
	require.NoError(t, err)
	assert.Contains(t, out, "ACTIVE")
	assert.Contains(t, errOut, "[ok] Workflow updated successfully")

	out, _, err = h.run("get", id)
	require.NoError(t, err)
	assert.Contains(t, out, "status:")
	assert.Contains(t, out, "ACTIVE")

	_, _, err = h.run("rename", id, "renamed")
	require.NoError(t, err)

	out, _, err = h.run("search", "RENAM")
	require.NoError(t, err)
	assert.Contains(t, out, "renamed")
	assert.Contains(t, out, "search=RENAM")

	_, errOut, err = h.run("delete", id)
	require.NoError(t, err)
	assert.Contains(t, errOut, "[ok] Workflow deleted successfully")

	out, _, err = h.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "No workflows yet")

	_, errOut, err = h.run("delete", id)
	require.Error(t, err)
	assert.Contains(t, errOut, "[error] workflow not found")
}

func TestFlowctl_Paging(t *testing.T) {
	h := newHarness(t)

	for _, name := range []string{"alpha", "bravo", "charlie"} {
		_, _, err := h.run("create", name)
		require.NoError(t, err)
	}

	out, _, err := h.run("list", "--page-size", "2", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "alpha")
	assert.NotContains(t, out, "charlie")
	assert.Contains(t, out, "page 2 of 2 (3 workflows)")
	assert.Contains(t, out, "link: http://localhost:8080/workflows?page=2\n")

	out, _, err = h.run("list", "--from", "http://localhost:8080/workflows?search=brav")
	require.NoError(t, err)
	assert.Contains(t, out, "bravo")
	assert.Contains(t, out, "page 1 of 1 (1 workflows)")

	out, _, err = h.run("list", "--search", "zulu")
	require.NoError(t, err)
	assert.Contains(t, out, `No workflows match "zulu"`)
}

func TestFlowctl_Errors(t *testing.T) {
	h := newHarness(t)

	_, errOut, err := h.run("create", "   ")
	require.Error(t, err)
	assert.NotContains(t, errOut, "[error]")

	_, _, err = h.run("get", "not-a-uuid")
	assert.ErrorContains(t, err, "invalid workflow id")

	h.token = ""
	_, _, err = h.run("list")
	assert.ErrorContains(t, err, "bearer token required")
}

func TestAgo(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	tests := []struct {
		t    time.Time
		want string
	}{
		{fixed, "just now"},
		{fixed.Add(-5 * time.Minute), "5 minutes ago"},
		{fixed.Add(-3 * time.Hour), "3 hours ago"},
	}

	for _, tt := range tests {
		if got := ago(tt.t); got != tt.want {
			t.Errorf("ago(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}
