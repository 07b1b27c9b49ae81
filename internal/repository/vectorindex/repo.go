// Package vectorindex persists the fitted vectorizer state and per-item
// term vectors. Each build writes under a fresh generation prefix and then
// swaps a single pointer key, so readers observe either the previous index
// or the new one, never a mix.
package vectorindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/railvoy/railvoy/internal/db"
	"github.com/railvoy/railvoy/internal/domain"
	"github.com/railvoy/railvoy/internal/domain/index"
	"github.com/railvoy/railvoy/internal/tfidf"
)

// store is the consumer interface for index persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	DelMulti(ctx context.Context, keys []string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// hashBatchSize bounds the number of hashes written per pipelined round-trip.
const hashBatchSize = 200

type persistedState struct {
	State     tfidf.State `json:"state"`
	ItemCount int         `json:"item_count"`
	BuiltAt   int64       `json:"built_at"`
}

// Repo implements usecase/semindex.IndexStore.
type Repo struct {
	store  store
	prefix string
}

// New creates an index repository. Keys are namespaced under prefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = "railvoy:index:"
	}
	return &Repo{store: s, prefix: prefix}
}

// Save persists a freshly built index as a new generation and makes it
// current. The previous generation's keys are removed after the swap.
func (r *Repo) Save(ctx context.Context, snap index.Snapshot) error {
	oldGen, err := r.currentGeneration(ctx)
	if err != nil && !errors.Is(err, db.ErrKeyNotFound) {
		return fmt.Errorf("read current generation: %w: %w", domain.ErrStorageUnavailable, err)
	}

	gen := strconv.FormatInt(time.Now().UnixNano(), 10)

	state, err := json.Marshal(persistedState{
		State:     snap.State,
		ItemCount: len(snap.Vectors),
		BuiltAt:   snap.BuiltAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal index state: %w", err)
	}
	if err := r.store.Set(ctx, r.stateKey(gen), state); err != nil {
		return fmt.Errorf("write index state: %w: %w", domain.ErrStorageUnavailable, err)
	}

	items := make([]db.HashSetItem, 0, hashBatchSize)
	for id, vec := range snap.Vectors {
		if vec.IsEmpty() {
			continue
		}
		items = append(items, db.HashSetItem{Key: r.vectorKey(gen, id), Fields: encodeVector(vec)})
		if len(items) == hashBatchSize {
			if err := r.store.HSetMulti(ctx, items); err != nil {
				return fmt.Errorf("write vectors: %w: %w", domain.ErrStorageUnavailable, err)
			}
			items = items[:0]
		}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("write vectors: %w: %w", domain.ErrStorageUnavailable, err)
	}

	if err := r.store.Set(ctx, r.currentKey(), []byte(gen)); err != nil {
		return fmt.Errorf("swap generation: %w: %w", domain.ErrStorageUnavailable, err)
	}

	if oldGen != "" && oldGen != gen {
		if err := r.dropGeneration(ctx, oldGen); err != nil {
			return fmt.Errorf("drop generation %s: %w", oldGen, err)
		}
	}
	return nil
}

// Load returns the current index generation.
// Returns domain.ErrIndexNotReady when no generation has been saved.
func (r *Repo) Load(ctx context.Context) (index.Snapshot, error) {
	gen, err := r.currentGeneration(ctx)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return index.Snapshot{}, domain.ErrIndexNotReady
		}
		return index.Snapshot{}, fmt.Errorf("read current generation: %w: %w", domain.ErrStorageUnavailable, err)
	}

	raw, err := r.store.Get(ctx, r.stateKey(gen))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return index.Snapshot{}, domain.ErrIndexNotReady
		}
		return index.Snapshot{}, fmt.Errorf("read index state: %w: %w", domain.ErrStorageUnavailable, err)
	}
	var ps persistedState
	if err := json.Unmarshal(raw, &ps); err != nil {
		return index.Snapshot{}, fmt.Errorf("unmarshal index state: %w", err)
	}

	keys, err := r.store.Scan(ctx, r.vectorKey(gen, "*"))
	if err != nil {
		return index.Snapshot{}, fmt.Errorf("scan vectors: %w: %w", domain.ErrStorageUnavailable, err)
	}

	vectors := make(map[string]tfidf.Vector, len(keys))
	vectorPrefix := r.vectorKey(gen, "")
	for start := 0; start < len(keys); start += hashBatchSize {
		end := min(start+hashBatchSize, len(keys))
		batch := keys[start:end]

		hashes, err := r.store.HGetAllMulti(ctx, batch)
		if err != nil {
			return index.Snapshot{}, fmt.Errorf("read vectors: %w: %w", domain.ErrStorageUnavailable, err)
		}
		for i, fields := range hashes {
			id := strings.TrimPrefix(batch[i], vectorPrefix)
			vec, err := decodeVector(fields)
			if err != nil {
				return index.Snapshot{}, fmt.Errorf("decode vector %s: %w", id, err)
			}
			vectors[id] = vec
		}
	}

	return index.Snapshot{State: ps.State, Vectors: vectors, BuiltAt: time.Unix(ps.BuiltAt, 0)}, nil
}

// Ready reports whether a built index generation exists.
func (r *Repo) Ready(ctx context.Context) (bool, error) {
	ok, err := r.store.Exists(ctx, r.currentKey())
	if err != nil {
		return false, fmt.Errorf("check index: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return ok, nil
}

func (r *Repo) currentGeneration(ctx context.Context) (string, error) {
	raw, err := r.store.Get(ctx, r.currentKey())
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (r *Repo) dropGeneration(ctx context.Context, gen string) error {
	keys, err := r.store.Scan(ctx, r.prefix+gen+":*")
	if err != nil {
		return err
	}
	for start := 0; start < len(keys); start += hashBatchSize {
		end := min(start+hashBatchSize, len(keys))
		if err := r.store.DelMulti(ctx, keys[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) currentKey() string { return r.prefix + "current" }

func (r *Repo) stateKey(gen string) string { return r.prefix + gen + ":state" }

func (r *Repo) vectorKey(gen, id string) string { return r.prefix + gen + ":vec:" + id }

func encodeVector(vec tfidf.Vector) map[string]string {
	fields := make(map[string]string, len(vec))
	for term, weight := range vec {
		fields[term] = strconv.FormatFloat(weight, 'g', -1, 64)
	}
	return fields
}

func decodeVector(fields map[string]string) (tfidf.Vector, error) {
	vec := make(tfidf.Vector, len(fields))
	for term, raw := range fields {
		weight, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("term %q: %w", term, err)
		}
		vec[term] = weight
	}
	return vec, nil
}
