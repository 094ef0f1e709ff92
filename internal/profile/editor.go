// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gookit/validate"

	"biolink/internal/imaging"
	"biolink/internal/models"
	"biolink/internal/theme"
)

// Validation failures. The wrapped message names the offending field.
var (
	ErrInvalidProfile = errors.New("invalid profile")
	ErrInvalidLink    = errors.New("invalid link")
	ErrInvalidTheme   = errors.New("invalid theme")
	ErrNoStorage      = errors.New("object storage not configured")
)

// ConfigWriter writes profile configuration keys.
type ConfigWriter interface {
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
}

// LinkWriter creates, updates and deletes links.
type LinkWriter interface {
	LinkReader
	Create(ctx context.Context, l *models.Link) error
	Update(ctx context.Context, l *models.Link) error
	Delete(ctx context.Context, id int64) error
	SetVisitCount(ctx context.Context, id int64, count int64) error
}

// AvatarStore uploads avatar images to public object storage.
type AvatarStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
	ExtractKey(rawURL string) (string, bool)
}

// Form is the editable part of a profile.
type Form struct {
	Name     string         `json:"name" validate:"required|maxLen:80"`
	Title    string         `json:"title" validate:"maxLen:120"`
	Bio      string         `json:"bio" validate:"maxLen:2000"`
	Status   string         `json:"status" validate:"maxLen:40"`
	Activity string         `json:"activity" validate:"maxLen:120"`
	Socials  models.Socials `json:"socials"`
}

// Editor applies admin edits and returns the freshly reloaded profile.
type Editor struct {
	config  ConfigWriter
	links   LinkWriter
	loader  *Loader
	avatars AvatarStore
}

// NewEditor creates an Editor. avatars may be nil when no object storage
// is configured.
func NewEditor(config ConfigWriter, links LinkWriter, loader *Loader, avatars AvatarStore) *Editor {
	return &Editor{config: config, links: links, loader: loader, avatars: avatars}
}

// SaveProfile validates and persists the profile fields, then reloads.
func (e *Editor) SaveProfile(ctx context.Context, f Form) (*models.Profile, error) {
	f.Name = strings.TrimSpace(f.Name)
	if v := validate.Struct(&f); !v.Validate() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProfile, v.Errors.One())
	}
	for name, url := range f.Socials {
		if strings.TrimSpace(name) == "" || !validate.IsFullURL(url) {
			return nil, fmt.Errorf("%w: social link %q must be a full URL", ErrInvalidProfile, name)
		}
	}

	socials := f.Socials
	if socials == nil {
		socials = models.Socials{}
	}
	encoded, err := json.Marshal(socials)
	if err != nil {
		return nil, fmt.Errorf("encode socials: %w", err)
	}

	values := map[string]string{
		models.ConfigName:     f.Name,
		models.ConfigTitle:    f.Title,
		models.ConfigBio:      f.Bio,
		models.ConfigStatus:   f.Status,
		models.ConfigActivity: f.Activity,
		models.ConfigSocials:  string(encoded),
	}
	if err := e.config.SetMany(ctx, values); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	return e.reload(ctx)
}

// SaveLinks makes the stored link list match submitted: links missing from
// it are deleted, persisted ones are updated and new ones are created.
// Positions follow the submitted order. Writes are not transactional; a
// failure part way through leaves the earlier writes in place.
func (e *Editor) SaveLinks(ctx context.Context, submitted []models.Link) (*models.Profile, error) {
	for i := range submitted {
		l := &submitted[i]
		l.Title = strings.TrimSpace(l.Title)
		l.URL = strings.TrimSpace(l.URL)
		if l.Status == "" {
			l.Status = models.LinkStatusActive
		}
		if v := validate.Struct(l); !v.Validate() {
			return nil, fmt.Errorf("%w: link %d: %s", ErrInvalidLink, i+1, v.Errors.One())
		}
		if !l.Status.Valid() {
			return nil, fmt.Errorf("%w: link %d: unknown status %q", ErrInvalidLink, i+1, l.Status)
		}
		l.Position = i
	}

	existing, err := e.links.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("save links: %w", err)
	}

	keep := make(map[int64]bool, len(submitted))
	for _, l := range submitted {
		if l.IsPersisted() {
			keep[l.ID] = true
		}
	}
	for _, l := range existing {
		if !keep[l.ID] {
			if err := e.links.Delete(ctx, l.ID); err != nil {
				return nil, fmt.Errorf("save links: %w", err)
			}
		}
	}

	for i := range submitted {
		l := &submitted[i]
		if l.IsPersisted() {
			err = e.links.Update(ctx, l)
		} else {
			err = e.links.Create(ctx, l)
		}
		if err != nil {
			return nil, fmt.Errorf("save links: %w", err)
		}
	}

	return e.reload(ctx)
}

// ResetLinkVisits zeroes one link's click counter.
func (e *Editor) ResetLinkVisits(ctx context.Context, id int64) (*models.Profile, error) {
	if err := e.links.SetVisitCount(ctx, id, 0); err != nil {
		return nil, fmt.Errorf("reset link visits: %w", err)
	}
	return e.reload(ctx)
}

// SetTheme persists the site-wide theme tag.
func (e *Editor) SetTheme(ctx context.Context, t theme.Theme) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, t)
	}
	if err := e.config.Set(ctx, models.ConfigTheme, t.String()); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	e.loader.Invalidate(ctx)
	return nil
}

// UploadAvatar thumbnails the image, uploads it and stores its URL. The
// previous avatar object is removed on a best-effort basis.
func (e *Editor) UploadAvatar(ctx context.Context, original []byte, previous string) (*models.Profile, error) {
	if e.avatars == nil {
		return nil, ErrNoStorage
	}

	img, err := imaging.Avatar(original, imaging.AvatarSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	key := "avatars/" + uuid.NewString() + ".png"
	if err := e.avatars.Upload(ctx, key, img.ContentType, bytes.NewReader(img.Data), int64(len(img.Data))); err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	if err := e.config.Set(ctx, models.ConfigAvatar, e.avatars.FileURL(key)); err != nil {
		return nil, fmt.Errorf("save avatar url: %w", err)
	}

	if oldKey, ok := e.avatars.ExtractKey(previous); ok && oldKey != key {
		if err := e.avatars.Delete(ctx, oldKey); err != nil {
			slog.Warn("delete previous avatar", "key", oldKey, "error", err)
		}
	}

	return e.reload(ctx)
}

func (e *Editor) reload(ctx context.Context) (*models.Profile, error) {
	e.loader.Invalidate(ctx)
	p, err := e.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("reload profile: %w", err)
	}
	return p, nil
}
