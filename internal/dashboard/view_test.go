package dashboard_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/flowdeck/internal/client"
	"github.com/JaimeStill/flowdeck/internal/dashboard"
	"github.com/JaimeStill/flowdeck/internal/workflows"
	"github.com/JaimeStill/flowdeck/pkg/auth"
	"github.com/JaimeStill/flowdeck/pkg/listview"
	"github.com/JaimeStill/flowdeck/pkg/module"
	"github.com/JaimeStill/flowdeck/pkg/openapi"
	"github.com/JaimeStill/flowdeck/pkg/routes"
)

var secret = []byte("dashboard-test-secret-0123456789abcdef")

func newView(t *testing.T, loc listview.Location) (*dashboard.View, *bytes.Buffer) {
	t.Helper()

	logger := discard()
	h := workflows.NewHandler(workflows.NewMemory(pageCfg), logger, pageCfg, 1<<20)

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

	cfg := dashboard.Config{}
	require.NoError(t, cfg.Finalize(nil))

	var out bytes.Buffer
	v := dashboard.NewView(client.New(srv.URL+"/api", tok), loc, dashboard.NewWriterNotifier(&out), cfg, pageCfg, nil, logger)
	t.Cleanup(v.Close)
	return v, &out
}

func TestView_Lifecycle(t *testing.T) {
	v, out := newView(t, nil)
	ctx := context.Background()

	w, err := v.Mutations.Create(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, workflows.StatusInactive, w.Status)

	s := v.Load(ctx)
	require.Equal(t, listview.StatusSuccess, s.Status)
	assert.Equal(t, 1, s.Data.TotalCount)
	assert.Equal(t, 1, s.Data.TotalPages)
	assert.Equal(t, "demo", s.Data.Items[0].Name)

	_, err = v.Mutations.SetStatus(ctx, w.ID, workflows.StatusActive)
	require.NoError(t, err)

	s = v.Load(ctx)
	assert.Equal(t, workflows.StatusActive, s.Data.Items[0].Status)

	got, err := v.Mutations.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, workflows.StatusActive, got.Status)

	_, err = v.Mutations.Remove(ctx, w.ID)
	require.NoError(t, err)

	s = v.Load(ctx)
	assert.Equal(t, 0, s.Data.TotalCount)
	assert.Equal(t, 0, s.Data.TotalPages)
	assert.Empty(t, s.Data.Items)

	_, err = v.Mutations.Remove(ctx, w.ID)
	assert.True(t, client.IsNotFound(err))

	assert.Equal(t,
		"[ok] Workflow created successfully\n"+
			"[ok] Workflow updated successfully\n"+
			"[ok] Workflow deleted successfully\n"+
			"[error] workflow not found\n",
		out.String())
}

func TestView_ValidationSendsNothing(t *testing.T) {
	v, out := newView(t, nil)

	_, err := v.Mutations.Create(context.Background(), "   ")
	assert.ErrorIs(t, err, dashboard.ErrValidation)
	assert.Empty(t, out.String())
	assert.Equal(t, 0, v.Cache.Len())
}

func TestView_Paging(t *testing.T) {
	loc := listview.NewMemoryLocation(nil)
	v, _ := newView(t, loc)
	ctx := context.Background()

	for i := range 25 {
		_, err := v.Mutations.Create(ctx, "flow-"+string(rune('a'+i)))
		require.NoError(t, err)
	}

	s := v.Load(ctx)
	assert.Equal(t, 3, s.Data.TotalPages)
	assert.False(t, v.PrevPage())

	require.True(t, v.NextPage())
	s = v.Load(ctx)
	assert.Equal(t, 2, s.Params.Page)
	assert.Equal(t, "2", loc.Get()[listview.KeyPage])

	require.True(t, v.NextPage())
	s = v.Load(ctx)
	assert.Len(t, s.Data.Items, 5)
	assert.False(t, v.NextPage())

	v.Store.Set(listview.Search("flow-a"))
	s = v.Load(ctx)
	assert.Equal(t, 1, s.Params.Page)
	assert.Equal(t, 1, s.Data.TotalCount)
	assert.Equal(t, "flow-a", loc.Get()[listview.KeySearch])
}

func TestView_CreateFromEmpty(t *testing.T) {
	loc := listview.NewMemoryLocation(map[string]string{listview.KeySearch: "nothing"})
	v, _ := newView(t, loc)
	ctx := context.Background()

	s := v.Load(ctx)
	require.Equal(t, listview.StatusSuccess, s.Status)
	assert.Equal(t, 0, s.Data.TotalCount)
	assert.Equal(t, "nothing", v.Search.Text())

	w, err := v.CreateFromEmpty(ctx, "demo")
	require.NoError(t, err)

	assert.Equal(t, "", v.Store.Read().Search)
	assert.Equal(t, 1, v.Store.Read().Page)
	assert.Equal(t, "", v.Search.Text())
	assert.NotContains(t, loc.Get(), listview.KeySearch)

	s = v.Load(ctx)
	require.Len(t, s.Data.Items, 1)
	assert.Equal(t, w.ID, s.Data.Items[0].ID)
}

func TestView_StartReloadsOnInvalidation(t *testing.T) {
	v, _ := newView(t, nil)
	ctx := context.Background()

	v.Start(ctx)
	s := v.Load(ctx)
	require.Equal(t, 0, s.Data.TotalCount)

	_, err := v.Mutations.Create(ctx, "demo")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		s := v.List.State()
		return s.Status == listview.StatusSuccess && s.Data.TotalCount == 1
	}, 2*time.Second, 10*time.Millisecond)
}
