// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"biolink/internal/analytics"
	"biolink/internal/dashboard"
	"biolink/internal/middleware"
	"biolink/internal/models"
	"biolink/internal/prefs"
	"biolink/internal/profile"
	"biolink/internal/render"
	"biolink/internal/session"
	"biolink/internal/site"
	"biolink/internal/store"
	"biolink/internal/theme"
)

// maxAvatarUpload bounds avatar uploads.
const maxAvatarUpload = 10 << 20

// Admin groups the passcode gate and the dashboard handlers.
type Admin struct {
	renderer    *render.Renderer
	sessions    *session.Store
	dashboards  *dashboard.Manager
	loader      *profile.Loader
	editor      *profile.Editor
	resetter    *analytics.Resetter
	gateway     *store.Gateway
	reportEmail string
	secure      bool
}

// NewAdmin creates the admin handler group.
func NewAdmin(renderer *render.Renderer, sessions *session.Store, dashboards *dashboard.Manager, loader *profile.Loader, editor *profile.Editor, resetter *analytics.Resetter, gateway *store.Gateway, reportEmail string, secure bool) *Admin {
	return &Admin{
		renderer:    renderer,
		sessions:    sessions,
		dashboards:  dashboards,
		loader:      loader,
		editor:      editor,
		resetter:    resetter,
		gateway:     gateway,
		reportEmail: reportEmail,
		secure:      secure,
	}
}

// Dashboard opens (or reopens) the caller's dashboard on the analytics
// tab and renders it.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)

	data := &render.PageData{Title: "Dashboard"}
	ds, err := a.dashboards.Open(ctx, sess.ID)
	if err != nil {
		slog.Error("open dashboard failed", "error", err)
		data.Flashes = append(data.Flashes, render.Flash{Type: "error", Message: "Some analytics could not be loaded."})
	}

	data.Data = a.viewData(ctx, ds)
	a.renderer.Page(w, r, "dashboard", data)
}

// Tab switches the visible dashboard tab without refetching.
func (a *Admin) Tab(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ds := a.dashboard(ctx, r)

	if err := ds.SwitchTab(dashboard.Tab(chi.URLParam(r, "tab"))); err != nil {
		a.renderer.Alert(w, r, http.StatusBadRequest, err.Error())
		return
	}
	a.renderer.Fragment(w, r, http.StatusOK, "tab", &render.PageData{Data: a.viewData(ctx, ds)})
}

// Traffic returns the rolling traffic window. A closed dashboard answers
// 204 so the poller stops receiving data.
func (a *Admin) Traffic(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	ds := a.dashboards.Get(sess.ID)
	if ds == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	ds.Touch()

	view := ds.View()
	if r.URL.Query().Get("fragment") != "" {
		a.renderer.Fragment(w, r, http.StatusOK, "traffic", &render.PageData{
			Data: map[string]any{"View": view},
		})
		return
	}
	writeJSON(w, http.StatusOK, view.Traffic)
}

// Close tears the dashboard down and returns to the public page. The admin
// session stays unlocked.
func (a *Admin) Close(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	a.dashboards.Close(sess.ID)
	redirect(w, r, "/")
}

// SaveProfile persists the profile form.
func (a *Admin) SaveProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		a.renderer.Alert(w, r, http.StatusBadRequest, "Invalid form.")
		return
	}

	form := profile.Form{
		Name:     r.PostForm.Get("name"),
		Title:    r.PostForm.Get("title"),
		Bio:      r.PostForm.Get("bio"),
		Status:   r.PostForm.Get("status"),
		Activity: r.PostForm.Get("activity"),
		Socials:  socialsFromForm(r),
	}

	if _, err := a.editor.SaveProfile(ctx, form); err != nil {
		a.saveFailed(w, r, "Save profile", err)
		return
	}
	a.renderTab(w, r, dashboard.TabProfile, "Profile saved.")
}

// UploadAvatar thumbnails and stores a new avatar.
func (a *Admin) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarUpload+1024)
	if err := r.ParseMultipartForm(maxAvatarUpload); err != nil {
		a.renderer.Alert(w, r, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB.")
		return
	}
	file, _, err := r.FormFile("avatar")
	if err != nil {
		a.renderer.Alert(w, r, http.StatusBadRequest, "No file provided.")
		return
	}
	defer file.Close()

	original, err := io.ReadAll(file)
	if err != nil {
		a.renderer.Alert(w, r, http.StatusInternalServerError, "Failed to read file.")
		return
	}

	var previous string
	if current, err := a.loader.Load(ctx); err == nil {
		previous = current.Avatar
	}

	if _, err := a.editor.UploadAvatar(ctx, original, previous); err != nil {
		a.saveFailed(w, r, "Upload avatar", err)
		return
	}
	a.renderTab(w, r, dashboard.TabProfile, "Avatar updated.")
}

// SaveLinks replaces the link list with the submitted rows.
func (a *Admin) SaveLinks(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.renderer.Alert(w, r, http.StatusBadRequest, "Invalid form.")
		return
	}

	links, err := linksFromForm(r)
	if err != nil {
		a.renderer.Alert(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if _, err := a.editor.SaveLinks(r.Context(), links); err != nil {
		a.saveFailed(w, r, "Save links", err)
		return
	}
	a.renderTab(w, r, dashboard.TabLinks, "Links saved.")
}

// ResetLink zeroes one link's click counter.
func (a *Admin) ResetLink(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		a.renderer.Alert(w, r, http.StatusBadRequest, "Invalid link id.")
		return
	}

	if _, err := a.editor.ResetLinkVisits(r.Context(), id); err != nil {
		a.saveFailed(w, r, "Reset link", err)
		return
	}
	a.renderTab(w, r, dashboard.TabLinks, "Link counter reset.")
}

// SetTheme switches the site-wide theme and the admin's own preference.
func (a *Admin) SetTheme(w http.ResponseWriter, r *http.Request) {
	t, ok := theme.Parse(r.FormValue("theme"))
	if !ok {
		a.renderer.Alert(w, r, http.StatusUnprocessableEntity, "Unknown theme.")
		return
	}

	state := a.state(r.Context())
	if err := site.ChangeTheme(r.Context(), state, prefs.NewCookieStore(w, r, a.secure), a.editor, t); err != nil {
		a.saveFailed(w, r, "Change theme", err)
		return
	}
	a.renderTab(w, r, dashboard.TabProfile, "Theme set to "+theme.Describe(t).Label+".")
}

// DeleteComment removes one comment and refreshes the comment list.
func (a *Admin) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.renderer.Alert(w, r, http.StatusBadRequest, "Invalid comment id.")
		return
	}

	ds := a.dashboard(ctx, r)
	if err := ds.DeleteComment(ctx, id); err != nil {
		slog.Error("delete comment failed", "error", err, "id", id)
		a.renderer.Alert(w, r, http.StatusInternalServerError, "Delete failed: "+err.Error())
		return
	}
	a.renderTab(w, r, dashboard.TabComments, "")
}

// Reset wipes analytics and reactions and zeroes every link counter.
func (a *Admin) Reset(w http.ResponseWriter, r *http.Request) {
	a.destructive(w, r, "Reset", a.resetter.ResetAll, "All counters reset.")
}

// Purge clears the analytics counters only.
func (a *Admin) Purge(w http.ResponseWriter, r *http.Request) {
	a.destructive(w, r, "Purge", a.resetter.Purge, "Analytics purged.")
}

// Report redirects to a mailto: link carrying the text report.
func (a *Admin) Report(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := analytics.Load(ctx, a.gateway.Analytics, a.gateway.Links)
	if err != nil {
		slog.Error("load report stats failed", "error", err)
		a.renderer.Alert(w, r, http.StatusInternalServerError, "Report failed: "+err.Error())
		return
	}

	name := ""
	if p, err := a.loader.Load(ctx); err == nil {
		name = p.Name
	}

	body, err := analytics.Report(analytics.ReportInput{ProfileName: name, GeneratedAt: time.Now(), Stats: stats})
	if err != nil {
		slog.Error("render report failed", "error", err)
		a.renderer.Alert(w, r, http.StatusInternalServerError, "Report failed: "+err.Error())
		return
	}
	subject := "biolink analytics report"
	if name != "" {
		subject += " for " + name
	}
	http.Redirect(w, r, analytics.MailtoURL(a.reportEmail, subject, body), http.StatusFound)
}

func (a *Admin) destructive(w http.ResponseWriter, r *http.Request, label string, op func(context.Context) error, done string) {
	ctx := r.Context()
	if err := op(ctx); err != nil {
		slog.Error(strings.ToLower(label)+" failed", "error", err)
		a.renderer.Alert(w, r, http.StatusInternalServerError, label+" failed: "+err.Error())
		return
	}

	ds := a.dashboard(ctx, r)
	if err := ds.ReloadStats(ctx); err != nil {
		slog.Warn("reload stats failed", "error", err)
	}
	a.renderTab(w, r, dashboard.TabAnalytics, done)
}

// saveFailed maps editor errors to a blocking alert.
func (a *Admin) saveFailed(w http.ResponseWriter, r *http.Request, label string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, profile.ErrInvalidProfile), errors.Is(err, profile.ErrInvalidLink), errors.Is(err, profile.ErrInvalidTheme):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, profile.ErrNoStorage):
		status = http.StatusServiceUnavailable
	default:
		slog.Error(strings.ToLower(label)+" failed", "error", err)
	}
	a.renderer.Alert(w, r, status, label+" failed: "+err.Error())
}

// renderTab switches to tab and renders it with an optional success flash.
func (a *Admin) renderTab(w http.ResponseWriter, r *http.Request, tab dashboard.Tab, flash string) {
	ctx := r.Context()
	ds := a.dashboard(ctx, r)
	if err := ds.SwitchTab(tab); err != nil {
		slog.Warn("switch tab failed", "error", err)
	}

	data := &render.PageData{Data: a.viewData(ctx, ds)}
	if flash != "" {
		data.Flashes = []render.Flash{{Type: "success", Message: flash}}
	}
	a.renderer.Fragment(w, r, http.StatusOK, "tab", data)
}

// dashboard returns the caller's open dashboard, reopening it when it was
// reaped or never opened.
func (a *Admin) dashboard(ctx context.Context, r *http.Request) *dashboard.Session {
	sess := middleware.SessionFromCtx(r.Context())
	if ds := a.dashboards.Get(sess.ID); ds != nil {
		ds.Touch()
		return ds
	}
	ds, err := a.dashboards.Open(ctx, sess.ID)
	if err != nil {
		slog.Warn("reopen dashboard failed", "error", err)
	}
	return ds
}

// state builds the request state for an admin page from the session and a
// fresh profile load.
func (a *Admin) state(ctx context.Context) *site.State {
	sess := middleware.SessionFromCtx(ctx)
	s := &site.State{Theme: theme.Fallback, Admin: sess != nil && sess.Admin}
	if err := site.Refresh(ctx, s, a.loader); err != nil {
		slog.Warn("load profile for dashboard failed", "error", err)
		s.Profile = &models.Profile{Links: []models.Link{}, Socials: models.Socials{}}
		s.Offline = true
	}
	return s
}

func (a *Admin) viewData(ctx context.Context, ds *dashboard.Session) map[string]any {
	s := a.state(ctx)
	return map[string]any{
		"View":    ds.View(),
		"Profile": s.Profile,
		"Theme":   s.Theme,
	}
}

// socialsFromForm collects social_<network> fields plus the optional new
// entry. Empty values remove a network.
func socialsFromForm(r *http.Request) models.Socials {
	out := models.Socials{}
	for key, values := range r.PostForm {
		name, ok := strings.CutPrefix(key, "social_")
		if !ok || strings.HasPrefix(name, "new_") || len(values) == 0 {
			continue
		}
		if v := strings.TrimSpace(values[0]); v != "" {
			out[name] = v
		}
	}
	name := strings.ToLower(strings.TrimSpace(r.PostForm.Get("social_new_name")))
	url := strings.TrimSpace(r.PostForm.Get("social_new_url"))
	if name != "" && url != "" {
		out[name] = url
	}
	return out
}

// linksFromForm zips the parallel row fields into links. Rows with neither
// title nor URL are skipped.
func linksFromForm(r *http.Request) ([]models.Link, error) {
	ids := r.PostForm["id"]
	titles := r.PostForm["title"]
	urls := r.PostForm["url"]
	statuses := r.PostForm["status"]
	categories := r.PostForm["category"]

	if len(titles) != len(ids) || len(urls) != len(ids) || len(statuses) != len(ids) || len(categories) != len(ids) {
		return nil, fmt.Errorf("link rows are incomplete")
	}

	links := make([]models.Link, 0, len(ids))
	for i := range ids {
		title := strings.TrimSpace(titles[i])
		target := strings.TrimSpace(urls[i])
		if title == "" && target == "" {
			continue
		}
		id, err := strconv.ParseInt(ids[i], 10, 64)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("row %d has an invalid id", i+1)
		}
		links = append(links, models.Link{
			ID:       id,
			Title:    title,
			URL:      target,
			Status:   models.LinkStatus(statuses[i]),
			Category: strings.TrimSpace(categories[i]),
		})
	}
	return links, nil
}

// redirect sends HTMX callers an HX-Redirect and everyone else a 303.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}
