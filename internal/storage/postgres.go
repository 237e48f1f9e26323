package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ntu-info/05-mikashih/internal/models"
)

// Radius, in mm, of the sphere used by all coordinate lookups. The
// ST_DWithin predicate is inclusive, so a coordinate at exactly this
// distance matches.
const proximityRadiusMM = 5

// Every result set is capped at this many rows.
const maxRows = 100

// The dialect reported by the diagnostic endpoint, present even when the
// database is unreachable.
const dialectName = "postgresql"

const termSearchQuery = `
	SELECT study_id, term, AVG(weight) AS avg_weight
	FROM ns.annotations_terms
	WHERE term LIKE $1
	GROUP BY study_id, term
	ORDER BY avg_weight DESC
	LIMIT 100`

const locationSearchQuery = `
	SELECT DISTINCT study_id,
	       ST_X(geom) AS x,
	       ST_Y(geom) AS y,
	       ST_Z(geom) AS z,
	       ST_Distance(geom, ST_SetSRID(ST_MakePoint($1, $2, $3), 4326)) AS distance
	FROM ns.coordinates
	WHERE ST_DWithin(geom, ST_SetSRID(ST_MakePoint($1, $2, $3), 4326), $4)
	ORDER BY distance
	LIMIT 100`

const termDissociationQuery = `
	SELECT DISTINCT a.study_id, a.term, a.weight
	FROM ns.annotations_terms a
	WHERE a.term LIKE $1
	  AND NOT EXISTS (
	      SELECT 1 FROM ns.annotations_terms b
	      WHERE b.study_id = a.study_id
	        AND b.term LIKE $2
	  )
	ORDER BY a.weight DESC
	LIMIT 100`

const locationDissociationQuery = `
	SELECT DISTINCT c1.study_id,
	       ST_X(c1.geom) AS x,
	       ST_Y(c1.geom) AS y,
	       ST_Z(c1.geom) AS z,
	       ST_Distance(c1.geom, ST_SetSRID(ST_MakePoint($1, $2, $3), 4326)) AS dist_a
	FROM ns.coordinates c1
	WHERE ST_DWithin(c1.geom, ST_SetSRID(ST_MakePoint($1, $2, $3), 4326), $7)
	  AND NOT EXISTS (
	      SELECT 1 FROM ns.coordinates c2
	      WHERE c2.study_id = c1.study_id
	        AND ST_DWithin(c2.geom, ST_SetSRID(ST_MakePoint($4, $5, $6), 4326), $7)
	  )
	ORDER BY dist_a
	LIMIT 100`

// NewPool builds the process-wide connection pool. Connections are
// established lazily so the process can come up (and the diagnostic
// endpoint can report the outage) while the database is down.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pgCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	return pool, nil
}

// Store runs the read-only meta-analysis queries. All tables live in the
// ns schema; the search_path is set per transaction because the setting
// is connection-scoped and must not leak across pooled connections.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store instance.
func NewStore(pool *pgxpool.Pool) *Store {
	if pool == nil {
		panic("database pool cannot be nil")
	}
	return &Store{pool: pool}
}

// begin opens a transaction scoped to the ns schema. The caller must
// Rollback (a no-op after Commit).
func (s *Store) begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.Exec(ctx, "SET search_path TO ns, public"); err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("failed to set search_path: %w", err)
	}
	return tx, nil
}

// StudiesByTerm returns (study, term) pairs whose term contains the given
// substring, with the mean weight per pair, ordered by mean weight
// descending.
func (s *Store) StudiesByTerm(ctx context.Context, term string) ([]models.TermStudy, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, termSearchQuery, "%"+term+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query studies by term: %w", err)
	}
	studies, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TermStudy])
	if err != nil {
		return nil, fmt.Errorf("failed to scan term study rows: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	slog.DebugContext(ctx, "term search complete", "term", term, "rows", len(studies))
	return studies, nil
}

// StudiesByLocation returns distinct study coordinates within the
// proximity radius of p, ordered by distance from p ascending.
func (s *Store) StudiesByLocation(ctx context.Context, p models.Point) ([]models.LocationStudy, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, locationSearchQuery, p.X, p.Y, p.Z, proximityRadiusMM)
	if err != nil {
		return nil, fmt.Errorf("failed to query studies by location: %w", err)
	}
	studies, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LocationStudy])
	if err != nil {
		return nil, fmt.Errorf("failed to scan location study rows: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	slog.DebugContext(ctx, "location search complete", "point", p, "rows", len(studies))
	return studies, nil
}

// DissociateTerms returns annotations matching termA from studies that
// have no annotation matching termB. A study with even one B-matching
// annotation, in any contrast, is excluded entirely.
func (s *Store) DissociateTerms(ctx context.Context, termA, termB string) ([]models.TermDissociation, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, termDissociationQuery, "%"+termA+"%", "%"+termB+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query term dissociation: %w", err)
	}
	studies, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TermDissociation])
	if err != nil {
		return nil, fmt.Errorf("failed to scan term dissociation rows: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	slog.DebugContext(ctx, "term dissociation complete", "term_a", termA, "term_b", termB, "rows", len(studies))
	return studies, nil
}

// DissociateLocations returns coordinates within the proximity radius of
// a from studies that have no coordinate within the same radius of b,
// ordered by distance from a ascending.
func (s *Store) DissociateLocations(ctx context.Context, a, b models.Point) ([]models.LocationDissociation, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, locationDissociationQuery, a.X, a.Y, a.Z, b.X, b.Y, b.Z, proximityRadiusMM)
	if err != nil {
		return nil, fmt.Errorf("failed to query location dissociation: %w", err)
	}
	studies, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LocationDissociation])
	if err != nil {
		return nil, fmt.Errorf("failed to scan location dissociation rows: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	slog.DebugContext(ctx, "location dissociation complete", "point_a", a, "point_b", b, "rows", len(studies))
	return studies, nil
}

// Diagnostics reports connectivity, the server version, row counts of the
// three tables, and up to 3 sample rows from each. Sample sub-queries
// degrade independently to empty slices; version and count failures fail
// the whole call, with the partially filled payload returned alongside
// the error so the handler can still report the dialect.
func (s *Store) Diagnostics(ctx context.Context) (models.Diagnostics, error) {
	diag := models.Diagnostics{
		Dialect:                dialectName,
		CoordinatesSample:      []models.CoordinateSample{},
		MetadataSample:         []map[string]any{},
		AnnotationsTermsSample: []models.AnnotationSample{},
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return diag, err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, "SELECT version()").Scan(&diag.Version); err != nil {
		return diag, fmt.Errorf("failed to query server version: %w", err)
	}

	counts := []struct {
		table string
		dst   *int64
	}{
		{"ns.coordinates", &diag.CoordinatesCount},
		{"ns.metadata", &diag.MetadataCount},
		{"ns.annotations_terms", &diag.AnnotationsTermsCount},
	}
	for _, c := range counts {
		if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dst); err != nil {
			return diag, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}

	if sample, err := collectSample(ctx, tx,
		"SELECT study_id, ST_X(geom) AS x, ST_Y(geom) AS y, ST_Z(geom) AS z FROM ns.coordinates LIMIT 3",
		pgx.RowToStructByName[models.CoordinateSample]); err == nil {
		diag.CoordinatesSample = sample
	} else {
		slog.WarnContext(ctx, "coordinates sample unavailable", "error", err)
	}

	if sample, err := collectSample(ctx, tx,
		"SELECT * FROM ns.metadata LIMIT 3", pgx.RowToMap); err == nil {
		diag.MetadataSample = sample
	} else {
		slog.WarnContext(ctx, "metadata sample unavailable", "error", err)
	}

	if sample, err := collectSample(ctx, tx,
		"SELECT study_id, contrast_id, term, weight FROM ns.annotations_terms LIMIT 3",
		pgx.RowToStructByName[models.AnnotationSample]); err == nil {
		diag.AnnotationsTermsSample = sample
	} else {
		slog.WarnContext(ctx, "annotations sample unavailable", "error", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return diag, fmt.Errorf("failed to commit: %w", err)
	}

	diag.Ok = true
	return diag, nil
}

// collectSample runs one diagnostic sample sub-query under a savepoint,
// so a failed sample does not abort the outer transaction. Errors are
// returned for logging but the caller degrades to an empty sample.
func collectSample[T any](ctx context.Context, tx pgx.Tx, query string, scan pgx.RowToFunc[T]) ([]T, error) {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer sp.Rollback(ctx)

	rows, err := sp.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	sample, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, err
	}
	return sample, sp.Commit(ctx)
}
