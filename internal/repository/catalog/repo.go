// Package catalog is the read-only Postgres adapter for the travel package
// catalogue. It executes predicate scans and corpus loads; schema migration
// and writes belong to the upstream catalogue owner.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/railvoy/railvoy/internal/domain"
	domcat "github.com/railvoy/railvoy/internal/domain/catalog"
	"github.com/railvoy/railvoy/internal/domain/search/predicate"
)

const selectColumns = `
	id,
	COALESCE(external_name, '') AS external_name,
	COALESCE(description, '') AS description,
	COALESCE(highlights, '') AS highlights,
	COALESCE(countries, '') AS countries,
	COALESCE(cities, '') AS cities,
	COALESCE(regions, '') AS regions,
	COALESCE(trip_types, '') AS trip_types,
	COALESCE(duration_nights, 0) AS duration_nights,
	COALESCE(tier, '') AS tier,
	COALESCE(departure_type, '') AS departure_type,
	COALESCE(rank, 0) AS rank,
	COALESCE(price_cents, 0) AS price_cents,
	COALESCE(url, '') AS url,
	created_at`

const tableName = "travel_packages"

type itemRow struct {
	ID             string    `db:"id"`
	ExternalName   string    `db:"external_name"`
	Description    string    `db:"description"`
	Highlights     string    `db:"highlights"`
	Countries      string    `db:"countries"`
	Cities         string    `db:"cities"`
	Regions        string    `db:"regions"`
	TripTypes      string    `db:"trip_types"`
	DurationNights int       `db:"duration_nights"`
	Tier           string    `db:"tier"`
	DepartureType  string    `db:"departure_type"`
	Rank           int       `db:"rank"`
	PriceCents     int64     `db:"price_cents"`
	URL            string    `db:"url"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r itemRow) toItem() domcat.Item {
	return domcat.Reconstruct(
		r.ID, r.ExternalName, r.Description, r.Highlights,
		r.Countries, r.Cities, r.Regions, r.TripTypes,
		r.DurationNights, r.Tier, r.DepartureType,
		r.Rank, r.PriceCents, r.URL, r.CreatedAt.Unix(),
	)
}

// Repo implements the catalogue read operations over Postgres.
type Repo struct {
	db *sqlx.DB
}

// New connects to the catalogue database.
func New(dsn string, maxConn, maxIdleConn int) (*Repo, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to catalogue: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Repo{db: db}, nil
}

// NewWithDB wraps an existing connection (test-only).
func NewWithDB(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

// Close closes the connection pool.
func (r *Repo) Close() error {
	return r.db.Close()
}

// Ping checks catalogue connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping catalogue: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Scan returns up to limit items matching the predicate tree, most popular
// first (unranked items last).
func (r *Repo) Scan(ctx context.Context, node predicate.Node, limit int) ([]domcat.Item, error) {
	where, args := Translate(node)
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY CASE WHEN rank > 0 THEN rank ELSE 2147483647 END ASC, id ASC
		LIMIT $%d`,
		selectColumns, tableName, where, len(args)+1)
	args = append(args, limit)

	return r.queryItems(ctx, query, args...)
}

// GetByIDs returns the items for the given identifiers. Missing identifiers
// are silently skipped; order follows the catalogue, not the input.
func (r *Repo) GetByIDs(ctx context.Context, ids []string) ([]domcat.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ANY($1)`, selectColumns, tableName)
	return r.queryItems(ctx, query, pq.Array(ids))
}

// TopRanked returns the most popular items, used as the default fallback
// when no location constraint was given.
func (r *Repo) TopRanked(ctx context.Context, limit int) ([]domcat.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE rank > 0 AND external_name NOT ILIKE $1
		ORDER BY rank ASC, id ASC
		LIMIT $2`,
		selectColumns, tableName)
	return r.queryItems(ctx, query, "%"+predicate.TestMarker+"%", limit)
}

// LoadCorpus returns every indexable item for an index build.
func (r *Repo) LoadCorpus(ctx context.Context) ([]domcat.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE external_name NOT ILIKE $1
		ORDER BY id ASC`,
		selectColumns, tableName)
	return r.queryItems(ctx, query, "%"+predicate.TestMarker+"%")
}

func (r *Repo) queryItems(ctx context.Context, query string, args ...any) ([]domcat.Item, error) {
	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query catalogue: %w: %w", domain.ErrStorageUnavailable, err)
	}

	items := make([]domcat.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toItem())
	}
	return items, nil
}
