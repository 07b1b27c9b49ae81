package recommend

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/railvoy/railvoy/internal/domain/catalog"
	"github.com/railvoy/railvoy/internal/domain/search/predicate"
	"github.com/railvoy/railvoy/internal/usecase/semindex"
)

type mockCatalogue struct {
	scanFn      func(ctx context.Context, node predicate.Node, limit int) ([]catalog.Item, error)
	getByIDsFn  func(ctx context.Context, ids []string) ([]catalog.Item, error)
	topRankedFn func(ctx context.Context, limit int) ([]catalog.Item, error)

	scanCalls      int
	topRankedCalls int
}

func (m *mockCatalogue) Scan(ctx context.Context, node predicate.Node, limit int) ([]catalog.Item, error) {
	m.scanCalls++
	if m.scanFn != nil {
		return m.scanFn(ctx, node, limit)
	}
	return nil, nil
}

func (m *mockCatalogue) GetByIDs(ctx context.Context, ids []string) ([]catalog.Item, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockCatalogue) TopRanked(ctx context.Context, limit int) ([]catalog.Item, error) {
	m.topRankedCalls++
	if m.topRankedFn != nil {
		return m.topRankedFn(ctx, limit)
	}
	return nil, nil
}

type mockRetriever struct {
	searchFn func(ctx context.Context, query string, topK int) ([]semindex.Match, error)
}

func (m *mockRetriever) Search(ctx context.Context, query string, topK int) ([]semindex.Match, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, topK)
	}
	return nil, nil
}

type itemSpec struct {
	id        string
	name      string
	countries string
	cities    string
	regions   string
	tripTypes string
	nights    int
	tier      string
	departure string
	rank      int
	price     int64
	createdAt int64
}

func makeItem(spec itemSpec) catalog.Item {
	return catalog.Reconstruct(
		spec.id, spec.name, "", "",
		spec.countries, spec.cities, spec.regions, spec.tripTypes,
		spec.nights, spec.tier, spec.departure,
		spec.rank, spec.price, "", spec.createdAt,
	)
}

func newTestService(t *testing.T, cat Catalogue, ret Retriever) *Service {
	t.Helper()
	return New(cat, ret, zap.NewNop())
}
