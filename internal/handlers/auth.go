// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"biolink/internal/adminauth"
	"biolink/internal/middleware"
	"biolink/internal/render"
	"biolink/internal/session"
	"biolink/internal/site"
)

// Prompt opens the passcode prompt, resetting its attempt counter. An
// already unlocked session goes straight to the dashboard.
func (a *Admin) Prompt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)

	if sess != nil && sess.Admin {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	if sess == nil {
		sess = &session.Data{}
		sess.Prompt.Reopen()
		if _, err := a.sessions.Create(ctx, w, sess); err != nil {
			slog.Error("session create failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	} else {
		sess.Prompt.Reopen()
		if err := a.sessions.Update(ctx, sess); err != nil {
			slog.Error("session update failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	a.renderer.Page(w, r, "prompt", &render.PageData{Title: "Override", Session: sess})
}

// Unlock checks a submitted passcode against the open prompt.
func (a *Admin) Unlock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	if sess == nil {
		a.renderer.Alert(w, r, http.StatusForbidden, "Open the prompt first.")
		return
	}

	state := &site.State{Admin: sess.Admin}
	outcome := site.Login(state, &sess.Prompt, r.FormValue("passcode"))
	sess.Admin = state.Admin
	if outcome != adminauth.Closed {
		if err := a.sessions.Update(ctx, sess); err != nil {
			slog.Error("session update failed", "error", err)
			a.renderer.Alert(w, r, http.StatusInternalServerError, "Could not save session.")
			return
		}
	}

	switch outcome {
	case adminauth.Granted:
		slog.Info("admin unlocked", "session", sess.ID[:8])
		redirect(w, r, "/admin")
	case adminauth.Retry:
		a.renderer.Fragment(w, r, http.StatusOK, "prompt-form", &render.PageData{
			Session: sess,
			Data:    map[string]any{"Denied": true},
		})
	case adminauth.Terminated:
		slog.Warn("admin prompt terminated", "session", sess.ID[:8])
		a.renderer.Fragment(w, r, http.StatusOK, "terminated", &render.PageData{
			Session: sess,
			Data:    map[string]any{"Message": adminauth.TerminatedMessage},
		})
	default:
		a.renderer.Alert(w, r, http.StatusConflict, "The prompt is closed. Reopen it to try again.")
	}
}

// Lock closes the dashboard and ends the admin session.
func (a *Admin) Lock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if sess := middleware.SessionFromCtx(ctx); sess != nil {
		a.dashboards.Close(sess.ID)
	}
	if err := a.sessions.Destroy(ctx, w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	redirect(w, r, "/")
}
