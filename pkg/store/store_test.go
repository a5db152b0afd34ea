package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/typegraph/pkg/cache"
	"github.com/matzehuels/typegraph/pkg/errors"
	"github.com/matzehuels/typegraph/pkg/flatten"
	"github.com/matzehuels/typegraph/pkg/node"
	"github.com/matzehuels/typegraph/pkg/observability"
	"github.com/matzehuels/typegraph/pkg/schema"
)

func setup(t *testing.T) (*Store, *schema.Registry, cache.Cache) {
	t.Helper()
	reg := schema.NewRegistry()
	_, err := schema.RegisterAll(reg, []schema.Descriptor{
		{Name: "Element", Fields: []schema.Field{{Name: "id"}, {Name: "style", Kind: schema.KindMap}}},
		{Name: "Text", Extends: "Element", Fields: []schema.Field{{Name: "content", Kind: schema.KindScalar}}},
		{Name: "Page", Extends: "Element", Fields: []schema.Field{{Name: "children", Kind: schema.KindArray, Type: "Element"}}},
	})
	require.NoError(t, err)

	c, err := cache.NewMemoryCache(16)
	require.NoError(t, err)
	return New(c, reg), reg, c
}

func page(t *testing.T, reg *schema.Registry, text string) *node.Node {
	t.Helper()
	txt, err := node.Build(reg, "Text", "t1", node.Values{"content": text})
	require.NoError(t, err)
	p, err := node.Build(reg, "Page", "p1", node.Values{"children": []any{txt, txt}})
	require.NoError(t, err)
	return p
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (h *countingHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, reg, _ := setup(t)
	p := page(t, reg, "hello")

	key, err := s.Save(ctx, p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "snapshot:"))

	again, err := s.Save(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, key, again, "same graph should produce the same key")

	v, err := s.Load(ctx, key)
	require.NoError(t, err)
	back, err := node.Assert(v, "Page")
	require.NoError(t, err)
	assert.True(t, node.Equal(p, back))

	kids, _ := back.Get("children")
	list := kids.([]any)
	assert.Same(t, list[0], list[1], "shared child should come back shared")
}

func TestLoadMissing(t *testing.T) {
	s, _, _ := setup(t)
	_, err := s.Load(context.Background(), "snapshot:nope")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "got %v", err)
}

func TestLoadCorrupt(t *testing.T) {
	ctx := context.Background()
	s, _, c := setup(t)

	require.NoError(t, c.Set(ctx, "snapshot:bad", []byte("{not json"), 0))
	_, err := s.Load(ctx, "snapshot:bad")
	assert.True(t, errors.Is(err, errors.ErrCodeCorruptGraph), "got %v", err)

	require.NoError(t, c.Set(ctx, "snapshot:dangling", []byte(`{"root":{"$ref":"x"},"types":{}}`), 0))
	_, err = s.Load(ctx, "snapshot:dangling")
	assert.True(t, errors.Is(err, errors.ErrCodeCorruptGraph), "got %v", err)
}

func TestSaveFlattenedValidates(t *testing.T) {
	s, _, _ := setup(t)
	_, err := s.SaveFlattened(context.Background(), &flatten.Flattened{
		Root:  flatten.Ref{ID: "missing"},
		Types: map[string]flatten.Record{},
	})
	assert.True(t, errors.Is(err, errors.ErrCodeCorruptGraph), "got %v", err)
}

func TestTags(t *testing.T) {
	ctx := context.Background()
	s, reg, _ := setup(t)

	v1, err := s.Save(ctx, page(t, reg, "one"))
	require.NoError(t, err)
	v2, err := s.Save(ctx, page(t, reg, "two"))
	require.NoError(t, err)
	require.NotEqual(t, v1, v2)

	require.NoError(t, s.Tag(ctx, "live", v1))
	require.NoError(t, s.Tag(ctx, "live", v2))

	key, err := s.Resolve(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, v2, key)

	f, err := s.LoadFlattened(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "two", f.Types["t1"]["content"])

	require.NoError(t, s.Delete(ctx, "live"))
	_, err = s.Load(ctx, "live")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	assert.Error(t, s.Tag(ctx, " ", v1))
}

func TestTagMissingSnapshot(t *testing.T) {
	ctx := context.Background()
	s, _, _ := setup(t)

	err := s.Tag(ctx, "typo", "snapshot:nope")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "got %v", err)

	key, err := s.Resolve(ctx, "typo")
	require.NoError(t, err)
	assert.Equal(t, "typo", key, "no tag should be written")
}

func TestScopedStoresAreIsolated(t *testing.T) {
	ctx := context.Background()
	_, reg, c := setup(t)
	a := New(c, reg, WithKeyer(cache.NewScopedKeyer(nil, "a:")))
	b := New(c, reg, WithKeyer(cache.NewScopedKeyer(nil, "b:")))

	key, err := a.Save(ctx, page(t, reg, "x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "a:snapshot:"))

	require.NoError(t, a.Tag(ctx, "main", key))
	got, err := b.Resolve(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "main", got, "tag should not leak across scopes")
}

func TestTTL(t *testing.T) {
	ctx := context.Background()
	_, reg, c := setup(t)
	s := New(c, reg, WithTTL(time.Millisecond))

	key, err := s.Save(ctx, page(t, reg, "x"))
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	_, err = s.Load(ctx, key)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestCacheHooks(t *testing.T) {
	ctx := context.Background()
	s, reg, _ := setup(t)

	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	key, err := s.Save(ctx, page(t, reg, "x"))
	require.NoError(t, err)
	_, err = s.Load(ctx, key)
	require.NoError(t, err)

	assert.Equal(t, 1, hooks.sets)
	assert.Equal(t, 1, hooks.hits, "snapshot hit")
	assert.Equal(t, 1, hooks.misses, "tag lookup miss")
}
