// Package store persists node graphs as flattened snapshots in a cache backend.
//
// A snapshot is the indented JSON encoding of a [flatten.Flattened] graph,
// stored under a key derived from the SHA-256 of its bytes. Saving the same
// graph twice yields the same key, and any key names exactly one graph.
// Tags are named pointers to snapshot keys:
//
//	s := store.New(c, reg)
//	key, _ := s.Save(ctx, page)
//	_ = s.Tag(ctx, "published", key)
//	root, _ := s.Load(ctx, "published")
package store

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/typegraph/pkg/cache"
	"github.com/matzehuels/typegraph/pkg/errors"
	"github.com/matzehuels/typegraph/pkg/flatten"
	"github.com/matzehuels/typegraph/pkg/observability"
	"github.com/matzehuels/typegraph/pkg/schema"
)

// Key types reported to cache hooks.
const (
	keyTypeSnapshot = "snapshot"
	keyTypeTag      = "tag"
)

// Store saves and loads snapshots.
type Store struct {
	cache cache.Cache
	reg   *schema.Registry
	keyer cache.Keyer
	ttl   time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithKeyer sets the key scheme. The default is [cache.NewDefaultKeyer].
func WithKeyer(k cache.Keyer) Option {
	return func(s *Store) {
		if k != nil {
			s.keyer = k
		}
	}
}

// WithTTL sets the lifetime of saved snapshots. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// New returns a Store writing to c and rebuilding graphs with the types in reg.
func New(c cache.Cache, reg *schema.Registry, opts ...Option) *Store {
	s := &Store{cache: c, reg: reg, keyer: cache.NewDefaultKeyer()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save flattens root and stores it. It returns the snapshot key.
func (s *Store) Save(ctx context.Context, root any) (string, error) {
	start := time.Now()
	f := flatten.Flatten(root)
	observability.Graph().OnFlatten(ctx, f.Len(), time.Since(start))
	return s.SaveFlattened(ctx, f)
}

// SaveFlattened stores an already flattened graph after validating it.
func (s *Store) SaveFlattened(ctx context.Context, f *flatten.Flattened) (string, error) {
	if err := flatten.Validate(f); err != nil {
		return "", err
	}
	data, err := flatten.Marshal(f)
	if err != nil {
		return "", err
	}

	key := s.keyer.SnapshotKey(cache.Hash(data))
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "store snapshot")
	}
	observability.Cache().OnCacheSet(ctx, keyTypeSnapshot, len(data))
	return key, nil
}

// LoadFlattened returns the flattened graph named by ref, a snapshot key or a
// tag. A missing snapshot fails with NOT_FOUND.
func (s *Store) LoadFlattened(ctx context.Context, ref string) (*flatten.Flattened, error) {
	key, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read snapshot")
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeSnapshot)
		return nil, errors.New(errors.ErrCodeNotFound, "snapshot %q not found", ref)
	}
	observability.Cache().OnCacheHit(ctx, keyTypeSnapshot)

	f, err := flatten.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCorruptGraph, err, "snapshot %q", ref)
	}
	return f, nil
}

// Load returns the graph named by ref, rebuilt with the store's registry.
func (s *Store) Load(ctx context.Context, ref string) (any, error) {
	f, err := s.LoadFlattened(ctx, ref)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	root, err := flatten.Unflatten(s.reg, f)
	observability.Graph().OnUnflatten(ctx, f.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// Delete removes the snapshot named by ref. Tags pointing at it are left
// dangling and resolve to NOT_FOUND on load.
func (s *Store) Delete(ctx context.Context, ref string) error {
	key, err := s.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete snapshot")
	}
	return nil
}

// Tag points name at a snapshot key. Tags never expire. A key with no stored
// snapshot fails with NOT_FOUND.
func (s *Store) Tag(ctx context.Context, name, key string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "tag name cannot be empty")
	}
	_, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "read snapshot")
	}
	if !hit {
		return errors.New(errors.ErrCodeNotFound, "snapshot %q not found", key)
	}
	if err := s.cache.Set(ctx, s.keyer.TagKey(name), []byte(key), 0); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "store tag %q", name)
	}
	observability.Cache().OnCacheSet(ctx, keyTypeTag, len(key))
	return nil
}

// Resolve maps a tag to its snapshot key. Anything that is not a tag is
// returned unchanged.
func (s *Store) Resolve(ctx context.Context, ref string) (string, error) {
	data, hit, err := s.cache.Get(ctx, s.keyer.TagKey(ref))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "read tag %q", ref)
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeTag)
		return ref, nil
	}
	observability.Cache().OnCacheHit(ctx, keyTypeTag)
	return string(data), nil
}
