package recommend

import (
	"context"

	"github.com/railvoy/railvoy/internal/domain/catalog"
	"github.com/railvoy/railvoy/internal/domain/search/predicate"
	"github.com/railvoy/railvoy/internal/usecase/semindex"
)

// Catalogue defines the package-store contract for recommendations.
type Catalogue interface {
	Scan(ctx context.Context, node predicate.Node, limit int) ([]catalog.Item, error)
	GetByIDs(ctx context.Context, ids []string) ([]catalog.Item, error)
	TopRanked(ctx context.Context, limit int) ([]catalog.Item, error)
}

// Retriever ranks catalogue items against a free-text query.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]semindex.Match, error)
}
