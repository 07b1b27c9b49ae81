package semindex

import (
	"context"

	"github.com/railvoy/railvoy/internal/domain/catalog"
	"github.com/railvoy/railvoy/internal/domain/index"
)

// IndexStore persists built index generations.
type IndexStore interface {
	Save(ctx context.Context, snap index.Snapshot) error
	Load(ctx context.Context) (index.Snapshot, error)
	Ready(ctx context.Context) (bool, error)
}

// CorpusLoader reads the full indexable catalogue.
type CorpusLoader interface {
	LoadCorpus(ctx context.Context) ([]catalog.Item, error)
}
