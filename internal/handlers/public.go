// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"biolink/internal/counter"
	"biolink/internal/metrics"
	"biolink/internal/models"
	"biolink/internal/prefs"
	"biolink/internal/render"
	"biolink/internal/site"
	"biolink/internal/store"
	"biolink/internal/theme"
	"biolink/internal/visit"
)

const (
	// pageComments is how many comments the public page shows.
	pageComments = 50

	// qrSize is the edge length of the share QR code in pixels.
	qrSize = 256
)

// ProfileLoader loads the assembled profile and drops its cached copy
// after writes that change it.
type ProfileLoader interface {
	site.ProfileSource
	Invalidate(ctx context.Context)
}

// Public groups handlers for the visitor-facing page and its JSON API.
type Public struct {
	renderer *render.Renderer
	loader   ProfileLoader
	recorder *visit.Recorder
	gateway  *store.Gateway
	metrics  metrics.Recorder
	shareURL string
	secure   bool
	now      func() time.Time
}

// NewPublic creates the public handler group. shareURL is the absolute
// public URL encoded into the share QR code.
func NewPublic(renderer *render.Renderer, loader ProfileLoader, recorder *visit.Recorder, gateway *store.Gateway, rec metrics.Recorder, shareURL string, secure bool) *Public {
	if rec == nil {
		rec = metrics.Noop{}
	}
	return &Public{
		renderer: renderer,
		loader:   loader,
		recorder: recorder,
		gateway:  gateway,
		metrics:  rec,
		shareURL: shareURL,
		secure:   secure,
		now:      time.Now,
	}
}

// Page renders the link-in-bio page. The theme is resolved from the
// visitor's cookie or the calendar, then overridden by the site theme when
// one is persisted. A fresh load token is embedded for the visit beacon.
func (p *Public) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	prefStore := prefs.NewCookieStore(w, r, p.secure)
	state := site.Bootstrap(ctx, prefStore, p.loader, p.now())

	reactions := map[string]int64{}
	if counts, err := p.gateway.Reactions.List(ctx); err != nil {
		slog.Warn("list reactions failed", "error", err)
	} else {
		for _, c := range counts {
			reactions[c.Key] = c.Count
		}
	}

	comments, err := p.gateway.Comments.List(ctx, pageComments)
	if err != nil {
		slog.Warn("list comments failed", "error", err)
	}

	p.renderer.Public(w, r, &render.PublicData{
		Theme:     theme.Describe(state.Theme),
		Profile:   state.Profile,
		Offline:   state.Offline,
		LoadToken: uuid.NewString(),
		Reactions: reactions,
		Comments:  comments,
		ShareURL:  p.shareURL,
	})
}

// Visit records one page load described by the beacon. Counter failures
// are logged and never surfaced; the response is always 204 unless the
// beacon itself is unreadable.
func (p *Public) Visit(w http.ResponseWriter, r *http.Request) {
	var b visit.Beacon
	if err := decodeJSON(w, r, &b); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid beacon")
		return
	}
	if b.UserAgent == "" {
		b.UserAgent = r.UserAgent()
	}

	res := p.recorder.Record(r.Context(), b, prefs.NewCookieStore(w, r, p.secure))
	slog.Debug("visit beacon", "outcome", res.Outcome, "failed", res.Failed)

	w.WriteHeader(http.StatusNoContent)
}

// Click counts a link click and redirects to the link target. Only active
// links can be followed.
func (p *Public) Click(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}

	link, err := p.gateway.Links.FindByID(ctx, id)
	if err != nil {
		slog.Error("find link failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if link == nil || !link.Clickable() {
		http.NotFound(w, r)
		return
	}

	if _, err := counter.IncrementLink(ctx, p.gateway.Links, id); err != nil {
		slog.Warn("count link click failed", "error", err, "id", id)
	} else {
		p.loader.Invalidate(ctx)
		p.metrics.IncLinkClicks()
	}

	http.Redirect(w, r, link.URL, http.StatusFound)
}

// Profile returns the assembled profile as JSON.
func (p *Public) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := p.loader.Load(r.Context())
	if err != nil {
		slog.Error("load profile failed", "error", err)
		writeJSONError(w, http.StatusServiceUnavailable, "profile unavailable")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// reactionCount is one emoji tally in the reactions API.
type reactionCount struct {
	Emoji string `json:"emoji"`
	Count int64  `json:"count"`
}

// Reactions lists every reaction tally.
func (p *Public) Reactions(w http.ResponseWriter, r *http.Request) {
	counts, err := p.gateway.Reactions.List(r.Context())
	if err != nil {
		slog.Error("list reactions failed", "error", err)
		writeJSONError(w, http.StatusServiceUnavailable, "reactions unavailable")
		return
	}

	out := make([]reactionCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, reactionCount{Emoji: c.Key, Count: c.Count})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	writeJSON(w, http.StatusOK, out)
}

// React adds one to an emoji's tally. The emoji must belong to a theme's
// reaction set. A failed write is silent to the visitor.
func (p *Public) React(w http.ResponseWriter, r *http.Request) {
	emoji, err := url.PathUnescape(chi.URLParam(r, "emoji"))
	if err != nil || !theme.KnownReaction(emoji) {
		writeJSONError(w, http.StatusBadRequest, "unknown reaction")
		return
	}

	n, err := counter.Increment(r.Context(), p.gateway.Reactions, emoji)
	if err != nil {
		slog.Warn("count reaction failed", "error", err, "emoji", emoji)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	p.metrics.IncReactions(emoji)

	writeJSON(w, http.StatusOK, reactionCount{Emoji: emoji, Count: n})
}

// Comments lists the newest comments.
func (p *Public) Comments(w http.ResponseWriter, r *http.Request) {
	limit := pageComments
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}

	comments, err := p.gateway.Comments.List(r.Context(), limit)
	if err != nil {
		slog.Error("list comments failed", "error", err)
		writeJSONError(w, http.StatusServiceUnavailable, "comments unavailable")
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// PostComment stores a guestbook entry. JSON callers get the stored
// comment back; plain form posts are redirected to the page.
func (p *Public) PostComment(w http.ResponseWriter, r *http.Request) {
	var in commentInput
	if isJSON(r) {
		if err := decodeJSON(w, r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid comment")
			return
		}
	} else {
		in.Name = r.FormValue("name")
		in.Content = r.FormValue("content")
	}

	c, msg := in.toComment()
	if msg != "" {
		writeJSONError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := p.gateway.Comments.Create(r.Context(), c); err != nil {
		slog.Error("create comment failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not save comment")
		return
	}

	if !isJSON(r) {
		http.Redirect(w, r, "/#comments", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// ShareQR serves a PNG QR code pointing at the public page.
func (p *Public) ShareQR(w http.ResponseWriter, r *http.Request) {
	target := p.shareURL
	if target == "" {
		scheme := "http"
		if r.TLS != nil || p.secure {
			scheme = "https"
		}
		target = scheme + "://" + r.Host + "/"
	}

	png, err := qrcode.Encode(strings.TrimSpace(target), qrcode.Medium, qrSize)
	if err != nil {
		slog.Error("encode share qr failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}
