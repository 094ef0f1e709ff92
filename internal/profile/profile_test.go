package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biolink/internal/database"
	"biolink/internal/models"
	"biolink/internal/store"
	"biolink/internal/theme"
)

var dbSeq atomic.Int64

func testGateway(t *testing.T) *store.Gateway {
	t.Helper()
	dsn := fmt.Sprintf("file:profile_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.Connect(database.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, database.DriverSQLite))
	t.Cleanup(func() { db.Close() })
	return store.NewGateway(db)
}

type memCache struct {
	p           *models.Profile
	invalidated int
}

func (c *memCache) Get(context.Context) (*models.Profile, bool) { return c.p, c.p != nil }
func (c *memCache) Set(_ context.Context, p *models.Profile)    { c.p = p }
func (c *memCache) Invalidate(context.Context) {
	c.p = nil
	c.invalidated++
}

type failingConfig struct{}

func (failingConfig) All(context.Context) (map[string]string, error) {
	return nil, errors.New("gateway down")
}

func TestAssemble(t *testing.T) {
	p := Assemble(map[string]string{
		models.ConfigName:    "Ada",
		models.ConfigBio:     "Hello **world**",
		models.ConfigSocials: `{"github":"https://github.com/ada"}`,
		models.ConfigTheme:   "NOIR",
	}, nil)

	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "NOIR", p.Theme)
	assert.Equal(t, models.Socials{"github": "https://github.com/ada"}, p.Socials)
	assert.Contains(t, p.BioHTML, "<strong>world</strong>")
	assert.NotNil(t, p.Links)
}

func TestAssembleMalformedSocials(t *testing.T) {
	p := Assemble(map[string]string{models.ConfigSocials: `{"github":`}, nil)
	assert.Equal(t, models.Socials{}, p.Socials)
}

func TestLoaderUsesCache(t *testing.T) {
	g := testGateway(t)
	cache := &memCache{}
	l := NewLoader(g.Config, g.Links, cache)
	ctx := context.Background()

	require.NoError(t, g.Config.Set(ctx, models.ConfigName, "first"))
	p, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", p.Name)

	// Served from cache until invalidated.
	require.NoError(t, g.Config.Set(ctx, models.ConfigName, "second"))
	p, err = l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", p.Name)

	l.Invalidate(ctx)
	p, err = l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", p.Name)
}

func TestLoaderPropagatesGatewayError(t *testing.T) {
	g := testGateway(t)
	_, err := NewLoader(failingConfig{}, g.Links, nil).Load(context.Background())
	assert.Error(t, err)
}

func newEditor(t *testing.T, avatars AvatarStore) (*Editor, *store.Gateway) {
	g := testGateway(t)
	l := NewLoader(g.Config, g.Links, &memCache{})
	return NewEditor(g.Config, g.Links, l, avatars), g
}

func TestSaveProfile(t *testing.T) {
	e, _ := newEditor(t, nil)

	p, err := e.SaveProfile(context.Background(), Form{
		Name:    "  Ada  ",
		Title:   "Engineer",
		Bio:     "bio",
		Socials: models.Socials{"github": "https://github.com/ada"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "Engineer", p.Title)
	assert.Equal(t, "https://github.com/ada", p.Socials["github"])
}

func TestSaveProfileValidation(t *testing.T) {
	e, _ := newEditor(t, nil)

	_, err := e.SaveProfile(context.Background(), Form{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidProfile)

	_, err = e.SaveProfile(context.Background(), Form{Name: "Ada", Socials: models.Socials{"x": "not a url"}})
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestSaveLinksSyncsList(t *testing.T) {
	e, g := newEditor(t, nil)
	ctx := context.Background()

	p, err := e.SaveLinks(ctx, []models.Link{
		{Title: "A", URL: "https://a.example"},
		{Title: "B", URL: "https://b.example", Status: models.LinkStatusOffline},
		{Title: "C", URL: "https://c.example"},
	})
	require.NoError(t, err)
	require.Len(t, p.Links, 3)
	a, b := p.Links[0], p.Links[1]
	require.NoError(t, g.Links.SetVisitCount(ctx, a.ID, 9))

	// Drop C, reorder B before A, add D.
	a.Title = "A2"
	p, err = e.SaveLinks(ctx, []models.Link{b, a, {Title: "D", URL: "https://d.example"}})
	require.NoError(t, err)
	require.Len(t, p.Links, 3)

	assert.Equal(t, "B", p.Links[0].Title)
	assert.Equal(t, "A2", p.Links[1].Title)
	assert.Equal(t, int64(9), p.Links[1].VisitCount, "edits keep the click counter")
	assert.Equal(t, "D", p.Links[2].Title)
	assert.Equal(t, models.LinkStatusActive, p.Links[2].Status)
}

func TestSaveLinksValidation(t *testing.T) {
	e, _ := newEditor(t, nil)
	ctx := context.Background()

	_, err := e.SaveLinks(ctx, []models.Link{{Title: "", URL: "https://a.example"}})
	assert.ErrorIs(t, err, ErrInvalidLink)

	_, err = e.SaveLinks(ctx, []models.Link{{Title: "x", URL: "nope"}})
	assert.ErrorIs(t, err, ErrInvalidLink)

	_, err = e.SaveLinks(ctx, []models.Link{{Title: "x", URL: "https://a.example", Status: "hidden"}})
	assert.ErrorIs(t, err, ErrInvalidLink)
}

func TestResetLinkVisits(t *testing.T) {
	e, g := newEditor(t, nil)
	ctx := context.Background()

	p, err := e.SaveLinks(ctx, []models.Link{{Title: "A", URL: "https://a.example"}})
	require.NoError(t, err)
	id := p.Links[0].ID
	require.NoError(t, g.Links.SetVisitCount(ctx, id, 12))

	p, err = e.ResetLinkVisits(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, p.Links[0].VisitCount)
}

func TestSetTheme(t *testing.T) {
	e, g := newEditor(t, nil)
	ctx := context.Background()

	require.NoError(t, e.SetTheme(ctx, theme.Noir))
	v, err := g.Config.Get(ctx, models.ConfigTheme, "")
	require.NoError(t, err)
	assert.Equal(t, "NOIR", v)

	assert.ErrorIs(t, e.SetTheme(ctx, theme.Theme("PLAID")), ErrInvalidTheme)
}

type memAvatars struct {
	objects map[string][]byte
	deleted []string
}

func (m *memAvatars) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memAvatars) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	delete(m.objects, key)
	return nil
}

func (m *memAvatars) FileURL(key string) string { return "https://cdn.example/" + key }

func (m *memAvatars) ExtractKey(raw string) (string, bool) {
	const prefix = "https://cdn.example/"
	if len(raw) > len(prefix) && raw[:len(prefix)] == prefix {
		return raw[len(prefix):], true
	}
	return "", false
}

func pngBytes(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 40))))
	return buf.Bytes()
}

func TestUploadAvatar(t *testing.T) {
	avatars := &memAvatars{objects: map[string][]byte{}}
	e, _ := newEditor(t, avatars)
	ctx := context.Background()

	p, err := e.UploadAvatar(ctx, pngBytes(t), "")
	require.NoError(t, err)
	assert.Contains(t, p.Avatar, "https://cdn.example/avatars/")
	assert.Len(t, avatars.objects, 1)

	first := p.Avatar
	p, err = e.UploadAvatar(ctx, pngBytes(t), first)
	require.NoError(t, err)
	assert.NotEqual(t, first, p.Avatar)
	assert.Len(t, avatars.deleted, 1)
	assert.Len(t, avatars.objects, 1)
}

func TestUploadAvatarWithoutStorage(t *testing.T) {
	e, _ := newEditor(t, nil)
	_, err := e.UploadAvatar(context.Background(), pngBytes(t), "")
	assert.ErrorIs(t, err, ErrNoStorage)
}
