// handler_test.go provides shared test infrastructure for handler tests.
// Every test gets a fresh seeded in-memory SQLite database and an
// in-process session backend, so no external services are needed.

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"biolink/internal/analytics"
	"biolink/internal/dashboard"
	"biolink/internal/database"
	"biolink/internal/metrics"
	"biolink/internal/middleware"
	"biolink/internal/models"
	"biolink/internal/profile"
	"biolink/internal/render"
	"biolink/internal/session"
	"biolink/internal/store"
	"biolink/internal/visit"
)

var dbSeq atomic.Int64

type testApp struct {
	db         *sql.DB
	gw         *store.Gateway
	sessions   *session.Store
	dashboards *dashboard.Manager
	handler    http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newCachedTestApp(t, nil)
}

// memCache is an in-process profile cache standing in for Valkey.
type memCache struct {
	mu sync.Mutex
	p  *models.Profile
}

func (c *memCache) Get(context.Context) (*models.Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.p, c.p != nil
}

func (c *memCache) Set(_ context.Context, p *models.Profile) {
	c.mu.Lock()
	c.p = p
	c.mu.Unlock()
}

func (c *memCache) Invalidate(context.Context) {
	c.mu.Lock()
	c.p = nil
	c.mu.Unlock()
}

// newCachedTestApp is newTestApp with a profile cache in front of the
// loader. cache may be nil.
func newCachedTestApp(t *testing.T, cache profile.Cache) *testApp {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.Connect(database.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, database.DriverSQLite))
	require.NoError(t, database.Seed(db))

	gw := store.NewGateway(db)
	renderer, err := render.New()
	require.NoError(t, err)

	loader := profile.NewLoader(gw.Config, gw.Links, cache)
	editor := profile.NewEditor(gw.Config, gw.Links, loader, nil)
	recorder := visit.NewRecorder(gw.Analytics, visit.NewCacheLatch(1<<20, 60))
	sessions := session.NewStore(session.NewMemoryBackend(1<<20), false)

	fetch := dashboard.GatewayFetcher{Counters: gw.Analytics, Links: gw.Links, Guestbook: gw.Comments}
	totals := analytics.GatewayTotals{Analytics: gw.Analytics, Comments: gw.Comments, Reactions: gw.Reactions, Links: gw.Links}
	dashboards := dashboard.NewManager(fetch, totals, time.Hour)
	t.Cleanup(dashboards.CloseAll)

	resetter := analytics.NewResetter(gw.Analytics, gw.Reactions, gw.Links, loader)

	public := NewPublic(renderer, loader, recorder, gw, metrics.Noop{}, "https://bio.example.com/", false)
	admin := NewAdmin(renderer, sessions, dashboards, loader, editor, resetter, gw, "me@example.com", false)

	r := chi.NewRouter()
	r.Use(middleware.LoadSession(sessions))
	r.Get("/", public.Page)
	r.Get("/go/{id}", public.Click)
	r.Get("/share.png", public.ShareQR)
	r.Get("/api/profile", public.Profile)
	r.Get("/api/reactions", public.Reactions)
	r.Post("/api/reactions/{emoji}", public.React)
	r.Get("/api/comments", public.Comments)
	r.Post("/api/comments", public.PostComment)
	r.Post("/api/visit", public.Visit)

	r.Get("/admin/prompt", admin.Prompt)
	r.Post("/admin/unlock", admin.Unlock)
	r.Post("/admin/lock", admin.Lock)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/admin", admin.Dashboard)
		r.Get("/admin/tab/{tab}", admin.Tab)
		r.Get("/admin/traffic", admin.Traffic)
		r.Post("/admin/close", admin.Close)
		r.Get("/admin/report", admin.Report)
		r.Post("/admin/profile", admin.SaveProfile)
		r.Post("/admin/avatar", admin.UploadAvatar)
		r.Post("/admin/theme", admin.SetTheme)
		r.Post("/admin/links", admin.SaveLinks)
		r.Post("/admin/links/{id}/reset", admin.ResetLink)
		r.Delete("/admin/comments/{id}", admin.DeleteComment)
		r.Post("/admin/reset", admin.Reset)
		r.Post("/admin/purge", admin.Purge)
	})

	return &testApp{db: db, gw: gw, sessions: sessions, dashboards: dashboards, handler: r}
}

// do sends a request carrying cookies and returns the recorder.
func (a *testApp) do(t *testing.T, method, target string, body io.Reader, cookies []*http.Cookie, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

// form posts urlencoded values as an HTMX request.
func (a *testApp) form(t *testing.T, target string, values url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	return a.do(t, http.MethodPost, target, strings.NewReader(values.Encode()), cookies,
		"Content-Type", "application/x-www-form-urlencoded", "HX-Request", "true")
}

// unlock opens the prompt, submits a valid passcode and returns the
// session cookies of an unlocked admin.
func (a *testApp) unlock(t *testing.T) []*http.Cookie {
	t.Helper()
	w := a.do(t, http.MethodGet, "/admin/prompt", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = a.form(t, "/admin/unlock", url.Values{"passcode": {"neon-override"}}, cookies)
	require.Equal(t, "/admin", w.Header().Get("HX-Redirect"))
	return cookies
}

// mergeCookies overlays updated cookies onto base.
func mergeCookies(base []*http.Cookie, updates []*http.Cookie) []*http.Cookie {
	byName := map[string]*http.Cookie{}
	var order []string
	for _, c := range append(append([]*http.Cookie{}, base...), updates...) {
		if _, ok := byName[c.Name]; !ok {
			order = append(order, c.Name)
		}
		byName[c.Name] = c
	}
	out := make([]*http.Cookie, 0, len(order))
	for _, n := range order {
		out = append(out, byName[n])
	}
	return out
}
