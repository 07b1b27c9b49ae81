// Package semindex owns the semantic index lifecycle: batch builds over the
// catalogue, cached in-memory loading, and cosine-similarity queries.
package semindex

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/railvoy/railvoy/internal/domain"
	"github.com/railvoy/railvoy/internal/domain/index"
	"github.com/railvoy/railvoy/internal/metrics"
	"github.com/railvoy/railvoy/internal/tfidf"
)

// NoiseThreshold discards similarities too weak to be meaningful.
const NoiseThreshold = 0.05

// queryKeyLimit bounds the number of runes of query text used in cache keys.
const queryKeyLimit = 200

// Config holds index construction and cache parameters.
type Config struct {
	MaxVocab      int
	MinDF         int
	MaxDFFraction float64
	Workers       int
	VectorTTL     time.Duration
	QueryTTL      time.Duration
	QueryCacheCap int
	DefaultTopK   int
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.MaxVocab == 0 {
		c.MaxVocab = tfidf.DefaultMaxVocab
	}
	if c.MinDF == 0 {
		c.MinDF = tfidf.DefaultMinDF
	}
	if c.MaxDFFraction == 0 {
		c.MaxDFFraction = tfidf.DefaultMaxDFFraction
	}
	if c.Workers <= 0 {
		c.Workers = max(runtime.NumCPU()/2, 1)
	}
	if c.VectorTTL == 0 {
		c.VectorTTL = 5 * time.Minute
	}
	if c.QueryTTL == 0 {
		c.QueryTTL = 2 * time.Minute
	}
	if c.QueryCacheCap == 0 {
		c.QueryCacheCap = 100
	}
	if c.DefaultTopK == 0 {
		c.DefaultTopK = 10
	}
}

// Match is one semantic hit.
type Match struct {
	ID         string
	Similarity float64
}

// Status describes the current index generation.
type Status struct {
	Ready     bool
	ItemCount int
	VocabSize int
	BuiltAt   time.Time
}

// loadedIndex is an immutable in-memory view of one index generation.
// Queries share it read-only; rebuilds swap the pointer.
type loadedIndex struct {
	vectorizer *tfidf.Vectorizer
	vectors    map[string]tfidf.Vector
	order      []string
	builtAt    time.Time
	loadedAt   time.Time
}

type cachedQuery struct {
	matches  []Match
	cachedAt time.Time
}

// Service implements the semantic retrieval operations.
type Service struct {
	store  IndexStore
	corpus CorpusLoader
	cfg    Config
	pool   *ants.Pool
	logger *zap.Logger

	// cacheTotal is a counter vec with label "result" ("hit"/"miss"), may be nil.
	cacheTotal *prometheus.CounterVec

	mu  sync.RWMutex
	idx *loadedIndex

	qmu    sync.Mutex
	qcache map[string]cachedQuery

	building atomic.Bool
}

// New creates a semantic index service.
func New(
	store IndexStore,
	corpus CorpusLoader,
	cfg Config,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) (*Service, error) {
	cfg.ApplyDefaults()
	if _, err := tfidf.NewVectorizer(cfg.MaxVocab, cfg.MinDF, cfg.MaxDFFraction); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}

	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("%w: worker pool: %w", domain.ErrConfiguration, err)
	}

	return &Service{
		store:      store,
		corpus:     corpus,
		cfg:        cfg,
		pool:       pool,
		logger:     logger,
		cacheTotal: cacheTotal,
		qcache:     make(map[string]cachedQuery),
	}, nil
}

// Release frees the worker pool. The service must not be used afterwards.
func (s *Service) Release() {
	s.pool.Release()
}

// BuildIndex fits a fresh vectorizer over the whole catalogue, vectorizes
// every item, persists the result as a new generation and warms the
// in-memory caches. Returns the number of items indexed; an empty catalogue
// yields 0 without error.
func (s *Service) BuildIndex(ctx context.Context) (n int, err error) {
	if !s.building.CompareAndSwap(false, true) {
		return 0, domain.ErrIndexBuildInProgress
	}
	defer s.building.Store(false)
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.IndexBuildsTotal.WithLabelValues(status).Inc()
	}()

	items, err := s.corpus.LoadCorpus(ctx)
	if err != nil {
		return 0, fmt.Errorf("load corpus: %w", err)
	}
	if len(items) == 0 {
		s.logger.Warn("Index build skipped: catalogue is empty")
		return 0, nil
	}

	started := time.Now()

	docs := make([]string, len(items))
	for i, item := range items {
		docs[i] = item.SearchText()
	}

	vectorizer, err := tfidf.NewVectorizer(s.cfg.MaxVocab, s.cfg.MinDF, s.cfg.MaxDFFraction)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	state := vectorizer.Fit(docs)

	vecs := make([]tfidf.Vector, len(items))
	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		if err := s.pool.Submit(func() {
			defer wg.Done()
			vecs[i] = vectorizer.Transform(docs[i])
		}); err != nil {
			wg.Done()
			return 0, fmt.Errorf("submit vectorize task: %w", err)
		}
	}
	wg.Wait()

	vectors := make(map[string]tfidf.Vector, len(items))
	order := make([]string, 0, len(items))
	for i, item := range items {
		order = append(order, item.ID())
		vectors[item.ID()] = vecs[i]
	}

	builtAt := time.Now()
	snap := index.Snapshot{State: state, Vectors: vectors, BuiltAt: builtAt}
	if err := s.store.Save(ctx, snap); err != nil {
		return 0, fmt.Errorf("persist index: %w", err)
	}

	s.mu.Lock()
	s.idx = &loadedIndex{
		vectorizer: vectorizer,
		vectors:    vectors,
		order:      order,
		builtAt:    builtAt,
		loadedAt:   time.Now(),
	}
	s.mu.Unlock()

	s.qmu.Lock()
	s.qcache = make(map[string]cachedQuery)
	s.qmu.Unlock()

	metrics.IndexBuildDuration.Observe(time.Since(started).Seconds())
	metrics.IndexedItems.Set(float64(len(items)))

	s.logger.Info("Semantic index built",
		zap.Int("items", len(items)),
		zap.Int("vocab_size", vectorizer.VocabSize()),
		zap.Duration("took", time.Since(started)),
	)
	return len(items), nil
}

// IsReady reports whether a built index exists.
func (s *Service) IsReady(ctx context.Context) (bool, error) {
	s.mu.RLock()
	warm := s.idx != nil
	s.mu.RUnlock()
	if warm {
		return true, nil
	}
	return s.store.Ready(ctx)
}

// Status returns readiness and size details of the current index.
func (s *Service) Status(ctx context.Context) (Status, error) {
	idx, err := s.getIndex(ctx)
	if err != nil {
		return Status{}, err
	}
	if idx == nil {
		return Status{}, nil
	}
	return Status{
		Ready:     true,
		ItemCount: len(idx.vectors),
		VocabSize: idx.vectorizer.VocabSize(),
		BuiltAt:   idx.builtAt,
	}, nil
}

// Search returns the most similar items for a query text, strongest first.
// An unready index yields an empty result, not an error.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	started := time.Now()
	defer func() {
		metrics.SemanticSearchDuration.Observe(time.Since(started).Seconds())
	}()

	if topK <= 0 {
		topK = s.cfg.DefaultTopK
	}
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	key := s.cacheKey(query, topK)
	if matches, ok := s.cachedMatches(key); ok {
		s.incCache("hit")
		return matches, nil
	}
	s.incCache("miss")

	idx, err := s.getIndex(ctx)
	if err != nil {
		return nil, err
	}
	if idx == nil {
		return nil, nil
	}

	queryVec := idx.vectorizer.Transform(query)
	if queryVec.IsEmpty() {
		return nil, nil
	}

	matches := make([]Match, 0, len(idx.order))
	for _, id := range idx.order {
		sim := tfidf.Cosine(queryVec, idx.vectors[id])
		if sim < NoiseThreshold {
			continue
		}
		matches = append(matches, Match{ID: id, Similarity: sim})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}

	s.putCache(key, matches)
	return matches, nil
}

// getIndex returns the current in-memory index, reloading it from storage
// when missing or past its TTL. A nil index with nil error means not ready.
func (s *Service) getIndex(ctx context.Context) (*loadedIndex, error) {
	s.mu.RLock()
	idx := s.idx
	s.mu.RUnlock()
	if idx != nil && time.Since(idx.loadedAt) < s.cfg.VectorTTL {
		return idx, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx != nil && time.Since(s.idx.loadedAt) < s.cfg.VectorTTL {
		return s.idx, nil
	}

	snap, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrIndexNotReady) {
			if s.idx != nil {
				return s.idx, nil
			}
			return nil, nil
		}
		if s.idx != nil {
			s.logger.Warn("Index reload failed, serving stale index", zap.Error(err))
			return s.idx, nil
		}
		return nil, fmt.Errorf("load index: %w", err)
	}

	order := make([]string, 0, len(snap.Vectors))
	for id := range snap.Vectors {
		order = append(order, id)
	}
	sort.Strings(order)

	s.idx = &loadedIndex{
		vectorizer: tfidf.Restore(snap.State),
		vectors:    snap.Vectors,
		order:      order,
		builtAt:    snap.BuiltAt,
		loadedAt:   time.Now(),
	}
	return s.idx, nil
}

func (s *Service) cacheKey(query string, topK int) string {
	q := strings.ToLower(strings.TrimSpace(query))
	runes := []rune(q)
	if len(runes) > queryKeyLimit {
		q = string(runes[:queryKeyLimit])
	}
	return fmt.Sprintf("%d|%s", topK, q)
}

func (s *Service) cachedMatches(key string) ([]Match, bool) {
	s.qmu.Lock()
	defer s.qmu.Unlock()
	entry, ok := s.qcache[key]
	if !ok {
		return nil, false
	}
	if time.Since(entry.cachedAt) > s.cfg.QueryTTL {
		delete(s.qcache, key)
		return nil, false
	}
	return entry.matches, true
}

func (s *Service) putCache(key string, matches []Match) {
	s.qmu.Lock()
	defer s.qmu.Unlock()
	if len(s.qcache) >= s.cfg.QueryCacheCap {
		var oldestKey string
		var oldestAt time.Time
		for k, v := range s.qcache {
			if oldestKey == "" || v.cachedAt.Before(oldestAt) {
				oldestKey = k
				oldestAt = v.cachedAt
			}
		}
		delete(s.qcache, oldestKey)
	}
	s.qcache[key] = cachedQuery{matches: matches, cachedAt: time.Now()}
}

func (s *Service) incCache(result string) {
	if s.cacheTotal != nil {
		s.cacheTotal.WithLabelValues(result).Inc()
	}
}
