package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/railvoy/railvoy/internal/domain/catalog"
	"github.com/railvoy/railvoy/internal/domain/search/criteria"
	"github.com/railvoy/railvoy/internal/domain/search/predicate"
	"github.com/railvoy/railvoy/internal/domain/search/result"
	"github.com/railvoy/railvoy/internal/domain/search/sortorder"
	"github.com/railvoy/railvoy/internal/metrics"
)

const (
	// scanLimit bounds how many candidates a single structured scan pulls
	// from the catalogue before scoring.
	scanLimit = 500

	// retrieveTopK bounds semantic retrieval.
	retrieveTopK = 50

	// mergeCap bounds how many semantic-only items are backfilled into the
	// candidate pool when the structured scan missed them.
	mergeCap = 20

	defaultLimit = 5
	maxLimit     = 50
)

// Names of the relaxable filters, in the order they are dropped.
const (
	filterDepartureType = "departure type"
	filterTier          = "comfort tier"
	filterTripTypes     = "trip types"
	filterDuration      = "duration"
)

// Request carries the search input for a recommendation run.
type Request struct {
	Criteria criteria.Input
	Query    string
	Limit    int
	Sort     sortorder.Order
}

// Response is the shaped recommendation result.
type Response struct {
	Results        []result.Scored
	TotalMatched   int
	RelaxedFilters []string
	Summary        string
}

// Service orchestrates retrieval, filtering, scoring and shaping.
type Service struct {
	catalogue Catalogue
	retriever Retriever
	logger    *zap.Logger
}

// New creates the recommendation service. retriever may be nil when
// semantic retrieval is disabled.
func New(catalogue Catalogue, retriever Retriever, logger *zap.Logger) *Service {
	return &Service{catalogue: catalogue, retriever: retriever, logger: logger}
}

// Recommend runs the full pipeline: semantic retrieval, structured
// filtering with progressive fallback, candidate merge, scoring, ordering
// and result shaping.
func (s *Service) Recommend(ctx context.Context, req Request) (Response, error) {
	started := time.Now()
	defer func() {
		metrics.RecommendationDuration.Observe(time.Since(started).Seconds())
	}()

	crit := criteria.New(req.Criteria)
	limit := normalizeLimit(req.Limit)
	order := req.Sort.OrDefault()

	simByID := s.retrieve(ctx, req.Query)

	items, relaxed, err := s.filterWithFallback(ctx, crit)
	if err != nil {
		return Response{}, err
	}

	items = s.mergeSemantic(ctx, items, simByID)

	scored := make([]result.Scored, 0, len(items))
	for i := range items {
		item := items[i]
		points, reasons := score(&item, crit, simByID[item.ID()])
		scored = append(scored, result.New(item, points, simByID[item.ID()], reasons))
	}

	sortResults(scored, order)
	scored = dedupeByName(scored)
	if order == sortorder.Score {
		scored = spreadDestinations(scored, crit)
	}

	total := len(scored)
	if len(scored) > limit {
		scored = scored[:limit]
	}

	outcome := "matched"
	switch {
	case total == 0:
		outcome = "empty"
	case len(relaxed) > 0:
		outcome = "relaxed"
	}
	metrics.RecommendationsTotal.WithLabelValues(outcome).Inc()

	return Response{
		Results:        scored,
		TotalMatched:   total,
		RelaxedFilters: relaxed,
		Summary:        summarize(len(scored), total, relaxed),
	}, nil
}

// retrieve runs semantic retrieval for a non-empty query. Retrieval
// failures degrade to structured-only results instead of failing the
// request.
func (s *Service) retrieve(ctx context.Context, query string) map[string]float64 {
	if s.retriever == nil || strings.TrimSpace(query) == "" {
		return nil
	}
	matches, err := s.retriever.Search(ctx, query, retrieveTopK)
	if err != nil {
		s.logger.Warn("semantic retrieval failed, continuing without it", zap.Error(err))
		return nil
	}
	if len(matches) == 0 {
		return nil
	}
	simByID := make(map[string]float64, len(matches))
	for _, m := range matches {
		simByID[m.ID] = m.Similarity
	}
	return simByID
}

// filterWithFallback scans with the full criteria, then progressively
// drops secondary filters one at a time until results appear. Location
// constraints are never relaxed.
func (s *Service) filterWithFallback(ctx context.Context, crit criteria.Criteria) ([]catalog.Item, []string, error) {
	items, err := s.catalogue.Scan(ctx, predicate.Compile(crit), scanLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("catalogue scan: %w", err)
	}
	if len(items) > 0 || crit.IsEmpty() {
		return items, nil, nil
	}

	var relaxed []string
	current := crit
	for _, step := range relaxationSteps() {
		if !step.active(current) {
			continue
		}
		candidate := step.drop(current)
		if candidate.IsEmpty() {
			if crit.HasLocationConstraint() {
				break
			}
			top, err := s.catalogue.TopRanked(ctx, scanLimit)
			if err != nil {
				return nil, nil, fmt.Errorf("top-ranked fallback: %w", err)
			}
			return top, append(relaxed, step.name), nil
		}
		current = candidate
		relaxed = append(relaxed, step.name)
		items, err = s.catalogue.Scan(ctx, predicate.Compile(current), scanLimit)
		if err != nil {
			return nil, nil, fmt.Errorf("catalogue scan: %w", err)
		}
		if len(items) > 0 {
			s.logger.Info("relaxed filters to find results", zap.Strings("relaxed", relaxed))
			return items, relaxed, nil
		}
	}
	return nil, relaxed, nil
}

type relaxationStep struct {
	name   string
	active func(criteria.Criteria) bool
	drop   func(criteria.Criteria) criteria.Criteria
}

func relaxationSteps() []relaxationStep {
	return []relaxationStep{
		{
			name:   filterDepartureType,
			active: func(c criteria.Criteria) bool { return c.DepartureType() != "" },
			drop:   criteria.Criteria.WithoutDepartureType,
		},
		{
			name:   filterTier,
			active: func(c criteria.Criteria) bool { return c.Tier() != "" },
			drop:   criteria.Criteria.WithoutTier,
		},
		{
			name:   filterTripTypes,
			active: func(c criteria.Criteria) bool { return len(c.TripTypes()) > 0 },
			drop:   criteria.Criteria.WithoutTripTypes,
		},
		{
			name:   filterDuration,
			active: func(c criteria.Criteria) bool { return c.DurationMin() != nil || c.DurationMax() != nil },
			drop:   criteria.Criteria.WithoutDuration,
		},
	}
}

// mergeSemantic backfills the highest-similarity retrieved items that the
// structured scan missed, so a strong semantic match is never invisible to
// scoring. Backfilled items still go through marker exclusion.
func (s *Service) mergeSemantic(ctx context.Context, items []catalog.Item, simByID map[string]float64) []catalog.Item {
	if len(simByID) == 0 {
		return items
	}
	present := make(map[string]struct{}, len(items))
	for i := range items {
		present[items[i].ID()] = struct{}{}
	}

	missing := make([]string, 0, len(simByID))
	for id := range simByID {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return items
	}
	sort.SliceStable(missing, func(i, j int) bool {
		if simByID[missing[i]] != simByID[missing[j]] {
			return simByID[missing[i]] > simByID[missing[j]]
		}
		return missing[i] < missing[j]
	})
	if len(missing) > mergeCap {
		missing = missing[:mergeCap]
	}

	extra, err := s.catalogue.GetByIDs(ctx, missing)
	if err != nil {
		s.logger.Warn("semantic backfill failed, continuing without it", zap.Error(err))
		return items
	}
	exclusion := predicate.Compile(criteria.Criteria{})
	for i := range extra {
		if predicate.Eval(exclusion, &extra[i]) {
			items = append(items, extra[i])
		}
	}
	return items
}

func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultLimit
	case limit > maxLimit:
		return maxLimit
	}
	return limit
}

// dedupeByName keeps the first occurrence of each package name, which after
// sorting is the best-placed one.
func dedupeByName(scored []result.Scored) []result.Scored {
	seen := make(map[string]struct{}, len(scored))
	out := scored[:0]
	for _, sc := range scored {
		key := strings.ToLower(strings.TrimSpace(sc.Item().Name()))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, sc)
	}
	return out
}

// spreadDestinations reorders score-sorted results so that when several
// destinations were requested, the best match for each appears before the
// remaining results fill in by score.
func spreadDestinations(scored []result.Scored, crit criteria.Criteria) []result.Scored {
	dests := crit.Destinations()
	if len(dests) < 2 {
		return scored
	}

	picked := make(map[int]struct{}, len(dests))
	front := make([]result.Scored, 0, len(dests))
	for _, dest := range dests {
		for i := range scored {
			if _, ok := picked[i]; ok {
				continue
			}
			if itemMatchesDestination(scored[i].Item(), dest) {
				picked[i] = struct{}{}
				front = append(front, scored[i])
				break
			}
		}
	}
	if len(front) < 2 {
		return scored
	}

	out := make([]result.Scored, 0, len(scored))
	out = append(out, front...)
	for i := range scored {
		if _, ok := picked[i]; !ok {
			out = append(out, scored[i])
		}
	}
	return out
}

func itemMatchesDestination(item catalog.Item, dest string) bool {
	return item.HasCity(dest) || item.HasCountry(dest) || item.HasRegion(dest) ||
		strings.Contains(strings.ToLower(item.Name()), strings.ToLower(dest))
}

func summarize(returned, total int, relaxed []string) string {
	if total == 0 {
		return "No packages matched your criteria"
	}
	summary := fmt.Sprintf("Showing %d of %d matching packages", returned, total)
	if len(relaxed) > 0 {
		summary += ", after relaxing " + strings.Join(relaxed, ", ")
	}
	return summary
}
