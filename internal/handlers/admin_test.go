package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biolink/internal/adminauth"
	"biolink/internal/analytics"
	"biolink/internal/models"
)

func TestAdminRequiresUnlockedSession(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/admin", nil, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	// A session with an open but unsatisfied prompt is still locked.
	w = app.do(t, http.MethodGet, "/admin/prompt", nil, nil)
	cookies := w.Result().Cookies()
	w = app.form(t, "/admin/reset", url.Values{}, cookies)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUnlockRetryThenTerminate(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/admin/prompt", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "enter override code")
	cookies := w.Result().Cookies()

	for remaining := adminauth.MaxAttempts - 1; remaining > 0; remaining-- {
		w = app.form(t, "/admin/unlock", url.Values{"passcode": {"guess"}}, cookies)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "attempt(s) remaining")
		assert.Contains(t, w.Body.String(), `value=""`, "input is cleared")
	}

	w = app.form(t, "/admin/unlock", url.Values{"passcode": {"guess"}}, cookies)
	assert.Contains(t, w.Body.String(), adminauth.TerminatedMessage)

	// The prompt is closed: even the right code is refused until reopened.
	w = app.form(t, "/admin/unlock", url.Values{"passcode": {"neon-override"}}, cookies)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodGet, "/admin/prompt", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	w = app.form(t, "/admin/unlock", url.Values{"passcode": {"0xB10L1NK"}}, cookies)
	assert.Equal(t, "/admin", w.Header().Get("HX-Redirect"))
}

func TestDashboardOpensOnAnalytics(t *testing.T) {
	app := newTestApp(t)
	cookies := app.unlock(t)

	w := app.do(t, http.MethodGet, "/admin", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Total visits")
	assert.Contains(t, body, analytics.Placeholder)
	assert.Equal(t, 1, app.dashboards.Len())

	w = app.do(t, http.MethodGet, "/admin/tab/links", nil, cookies, "HX-Request", "true")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Save links")

	w = app.do(t, http.MethodGet, "/admin/tab/bogus", nil, cookies, "HX-Request", "true")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrafficWindow(t *testing.T) {
	app := newTestApp(t)
	cookies := app.unlock(t)

	w := app.do(t, http.MethodGet, "/admin/traffic", nil, cookies)
	assert.Equal(t, http.StatusNoContent, w.Code, "no dashboard open yet")

	app.do(t, http.MethodGet, "/admin", nil, cookies)
	w = app.do(t, http.MethodGet, "/admin/traffic", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var samples []analytics.Sample
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &samples))
	assert.Len(t, samples, analytics.SeriesLength)

	w = app.form(t, "/admin/close", url.Values{}, cookies)
	assert.Equal(t, "/", w.Header().Get("HX-Redirect"))
	w = app.do(t, http.MethodGet, "/admin/traffic", nil, cookies)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSaveProfile(t *testing.T) {
	app := newTestApp(t)
	cookies := app.unlock(t)
	ctx := context.Background()

	w := app.form(t, "/admin/profile", url.Values{"name": {"   "}}, cookies)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "#alerts", w.Header().Get("HX-Retarget"))

	w = app.form(t, "/admin/profile", url.Values{
		"name":            {"Grace"},
		"title":           {"Admiral"},
		"bio":             {"COBOL"},
		"social_github":   {"https://github.com/grace"},
		"social_mastodon": {""},
		"social_new_name": {"Web"},
		"social_new_url":  {"https://grace.example"},
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Profile saved.")

	name, err := app.gw.Config.Get(ctx, models.ConfigName, "")
	require.NoError(t, err)
	assert.Equal(t, "Grace", name)

	socials, err := app.gw.Config.Get(ctx, models.ConfigSocials, "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"github":"https://github.com/grace","web":"https://grace.example"}`, socials)
}

func TestSaveLinks(t *testing.T) {
	app := newTestApp(t)
	cookies := app.unlock(t)

	form := url.Values{
		"id":       {"2", "1", "0", "0"},
		"title":    {"Projects", "Blog v2", "Talks", ""},
		"url":      {"https://example.com/projects", "https://example.com/blog", "https://example.com/talks", ""},
		"status":   {"active", "offline", "active", "active"},
		"category": {"code", "writing", "speaking", ""},
	}
	w := app.form(t, "/admin/links", form, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	links, err := app.gw.Links.List(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, "Projects", links[0].Title)
	assert.Equal(t, "Blog v2", links[1].Title)
	assert.Equal(t, models.LinkStatusOffline, links[1].Status)
	assert.Equal(t, "Talks", links[2].Title)
}

func TestSaveLinksRejectsBadInput(t *testing.T) {
	app := newTestApp(t)
	cookies := app.unlock(t)

	w := app.form(t, "/admin/links", url.Values{"id": {"0"}, "title": {"x"}}, cookies)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = app.form(t, "/admin/links", url.Values{
		"id": {"0"}, "title": {"Bad"}, "url": {"not a url"}, "status": {"active"}, "category": {""},
	}, cookies)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestResetLink(t *testing.T) {
	app := newTestApp(t)
	cookies := app.unlock(t)
	ctx := context.Background()
	require.NoError(t, app.gw.Links.SetVisitCount(ctx, 1, 9))

	w := app.form(t, "/admin/links/1/reset", url.Values{}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	n, _ := app.gw.Links.VisitCount(ctx, 1)
	assert.Zero(t, n)
}

func TestSetTheme(t *testing.T) {
	app := newTestApp(t)
	cookies := app.unlock(t)

	w := app.form(t, "/admin/theme", url.Values{"theme": {"NOPE"}}, cookies)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = app.form(t, "/admin/theme", url.Values{"theme": {"MATRIX"}}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := app.gw.Config.Get(context.Background(), models.ConfigTheme, "")
	require.NoError(t, err)
	assert.Equal(t, "MATRIX", stored)

	var themeCookie string
	for _, c := range w.Result().Cookies() {
		if c.Name == "bl_theme" {
			themeCookie = c.Value
		}
	}
	assert.Equal(t, "MATRIX", themeCookie)
}

func TestDeleteComment(t *testing.T) {
	app := newTestApp(t)
	cookies := app.unlock(t)
	ctx := context.Background()

	c := &models.Comment{Name: "Spam", Content: "buy now"}
	require.NoError(t, app.gw.Comments.Create(ctx, c))

	w := app.do(t, http.MethodDelete, "/admin/comments/"+c.ID.String(), nil, cookies, "HX-Request", "true")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No comments yet")

	n, _ := app.gw.Comments.Count(ctx)
	assert.Zero(t, n)

	w = app.do(t, http.MethodDelete, "/admin/comments/not-a-uuid", nil, cookies, "HX-Request", "true")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetAndPurge(t *testing.T) {
	app := newTestApp(t)
	cookies := app.unlock(t)
	ctx := context.Background()

	seed := func() {
		require.NoError(t, app.gw.Analytics.Upsert(ctx, models.KeyTotalVisits, 5))
		require.NoError(t, app.gw.Reactions.Upsert(ctx, "🚀", 3))
		require.NoError(t, app.gw.Links.SetVisitCount(ctx, 2, 7))
	}

	seed()
	w := app.form(t, "/admin/purge", url.Values{}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	visits, _ := app.gw.Analytics.Sum(ctx)
	reactions, _ := app.gw.Reactions.Sum(ctx)
	clicks, _ := app.gw.Links.SumVisits(ctx)
	assert.Zero(t, visits)
	assert.Equal(t, int64(3), reactions, "purge keeps reactions")
	assert.Equal(t, int64(7), clicks, "purge keeps link clicks")

	seed()
	w = app.form(t, "/admin/reset", url.Values{}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "All counters reset.")
	visits, _ = app.gw.Analytics.Sum(ctx)
	reactions, _ = app.gw.Reactions.Sum(ctx)
	clicks, _ = app.gw.Links.SumVisits(ctx)
	assert.Zero(t, visits+reactions+clicks)
}

func TestResetFailureShowsBlockingAlert(t *testing.T) {
	app := newTestApp(t)
	cookies := app.unlock(t)
	app.dashboards.CloseAll()
	require.NoError(t, app.db.Close())

	w := app.form(t, "/admin/reset", url.Values{}, cookies)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Reset failed")
}

func TestReportRedirectsToMailto(t *testing.T) {
	app := newTestApp(t)
	cookies := app.unlock(t)
	require.NoError(t, app.gw.Analytics.Upsert(context.Background(), models.KeyTotalVisits, 12))

	w := app.do(t, http.MethodGet, "/admin/report", nil, cookies)
	require.Equal(t, http.StatusFound, w.Code)

	loc := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(loc, "mailto:me@example.com?subject="), loc)
	assert.Contains(t, loc, "Total%20visits%3A%2012")
	assert.NotContains(t, loc, "+")
}

func TestAvatarWithoutStorage(t *testing.T) {
	app := newTestApp(t)
	cookies := app.unlock(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("avatar", "a.png")
	require.NoError(t, err)
	fw.Write([]byte("not really a png"))
	require.NoError(t, mw.Close())

	w := app.do(t, http.MethodPost, "/admin/avatar", &buf, cookies,
		"Content-Type", mw.FormDataContentType(), "HX-Request", "true")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLockEndsSession(t *testing.T) {
	app := newTestApp(t)
	cookies := app.unlock(t)
	app.do(t, http.MethodGet, "/admin", nil, cookies)

	w := app.form(t, "/admin/lock", url.Values{}, cookies)
	assert.Equal(t, "/", w.Header().Get("HX-Redirect"))
	assert.Zero(t, app.dashboards.Len())

	w = app.do(t, http.MethodGet, "/admin", nil, cookies)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestLinksFromForm(t *testing.T) {
	r, _ := http.NewRequest(http.MethodPost, "/", strings.NewReader(url.Values{
		"id": {"-1"}, "title": {"x"}, "url": {"https://x"}, "status": {"active"}, "category": {""},
	}.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, r.ParseForm())

	_, err := linksFromForm(r)
	assert.Error(t, err)
}

// profileLinkVisits reads link 1's counter through the cached loader.
func profileLinkVisits(t *testing.T, app *testApp) int64 {
	t.Helper()
	w := app.do(t, http.MethodGet, "/api/profile", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	for _, l := range p.Links {
		if l.ID == 1 {
			return l.VisitCount
		}
	}
	t.Fatal("link 1 missing from profile")
	return 0
}

func TestLinkCountersStayFreshBehindProfileCache(t *testing.T) {
	app := newCachedTestApp(t, &memCache{})

	assert.Zero(t, profileLinkVisits(t, app))
	for range 3 {
		w := app.do(t, http.MethodGet, "/go/1", nil, nil)
		require.Equal(t, http.StatusFound, w.Code)
	}
	assert.Equal(t, int64(3), profileLinkVisits(t, app), "clicks drop the cached profile")

	cookies := app.unlock(t)
	w := app.form(t, "/admin/reset", url.Values{}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := app.gw.Links.VisitCount(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, stored)
	assert.Zero(t, profileLinkVisits(t, app), "reset drops the cached profile")

	w = app.do(t, http.MethodGet, "/admin/tab/links", nil, cookies, "HX-Request", "true")
	require.Equal(t, http.StatusOK, w.Code)
}
