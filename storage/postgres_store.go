package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"growth-hub/models"
)

// PostgresStore persists businesses and analysis results to PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := NewPostgresStoreWithDB(db)
	if err := ps.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

// NewPostgresStoreWithDB wraps an already open database without migrating it.
func NewPostgresStoreWithDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the schema if it does not exist yet.
func (ps *PostgresStore) Migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS businesses (
			id          BIGSERIAL    PRIMARY KEY,
			owner_id    BIGINT       NOT NULL,
			name        TEXT         NOT NULL,
			description TEXT         NOT NULL DEFAULT '',
			industry    VARCHAR(100) NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		ALTER TABLE businesses ADD COLUMN IF NOT EXISTS target_audience   TEXT  NOT NULL DEFAULT '';
		ALTER TABLE businesses ADD COLUMN IF NOT EXISTS budget_range      TEXT  NOT NULL DEFAULT '';
		ALTER TABLE businesses ADD COLUMN IF NOT EXISTS current_platforms JSONB NOT NULL DEFAULT '[]';
		ALTER TABLE businesses ADD COLUMN IF NOT EXISTS goals             TEXT  NOT NULL DEFAULT '';

		CREATE TABLE IF NOT EXISTS products (
			id                BIGSERIAL     PRIMARY KEY,
			business_id       BIGINT        NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			run_id            UUID          NOT NULL,
			platform          VARCHAR(50)   NOT NULL,
			title             TEXT          NOT NULL,
			price             DOUBLE PRECISION,
			rating            NUMERIC(4,2),
			reviews_count     INTEGER,
			url               TEXT          NOT NULL DEFAULT '',
			competition_level VARCHAR(10)   NOT NULL DEFAULT '',
			created_at        TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS platform_analytics (
			id                   BIGSERIAL     PRIMARY KEY,
			business_id          BIGINT        NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			run_id               UUID          NOT NULL,
			platform             VARCHAR(50)   NOT NULL,
			total_listings       INTEGER       NOT NULL DEFAULT 0,
			avg_rating           DOUBLE PRECISION NOT NULL DEFAULT 0,
			avg_price            DOUBLE PRECISION NOT NULL DEFAULT 0,
			competition_level    VARCHAR(10)   NOT NULL,
			engagement_rate      DOUBLE PRECISION NOT NULL DEFAULT 0,
			recommendation_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at           TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS business_insights (
			id           BIGSERIAL    PRIMARY KEY,
			business_id  BIGINT       NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			run_id       UUID         NOT NULL,
			insight_type VARCHAR(50)  NOT NULL,
			payload      JSONB        NOT NULL,
			confidence   INTEGER      NOT NULL,
			created_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		ALTER TABLE products ALTER COLUMN price TYPE DOUBLE PRECISION;

		CREATE INDEX IF NOT EXISTS idx_businesses_owner        ON businesses(owner_id);
		CREATE INDEX IF NOT EXISTS idx_products_business       ON products(business_id);
		CREATE INDEX IF NOT EXISTS idx_platform_analytics_biz  ON platform_analytics(business_id);
		CREATE INDEX IF NOT EXISTS idx_business_insights_biz   ON business_insights(business_id);
	`)
	return err
}

const businessColumns = `id, owner_id, name, description, industry,
		target_audience, budget_range, current_platforms, goals, created_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBusiness(row rowScanner) (*models.Business, error) {
	var (
		b         models.Business
		platforms []byte
	)
	err := row.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Description, &b.Industry,
		&b.TargetAudience, &b.BudgetRange, &platforms, &b.Goals, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(platforms) > 0 {
		if err := json.Unmarshal(platforms, &b.CurrentPlatforms); err != nil {
			return nil, fmt.Errorf("decode current_platforms: %w", err)
		}
	}
	return &b, nil
}

// CreateBusiness inserts b and fills in its ID and CreatedAt.
func (ps *PostgresStore) CreateBusiness(ctx context.Context, b *models.Business) error {
	platforms := b.CurrentPlatforms
	if platforms == nil {
		platforms = []string{}
	}
	platformsJSON, err := json.Marshal(platforms)
	if err != nil {
		return fmt.Errorf("postgres: encode current_platforms: %w", err)
	}

	err = ps.db.QueryRowContext(ctx, `
		INSERT INTO businesses (owner_id, name, description, industry,
			target_audience, budget_range, current_platforms, goals)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, b.OwnerID, b.Name, b.Description, b.Industry,
		b.TargetAudience, b.BudgetRange, string(platformsJSON), b.Goals).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: create business: %w", err)
	}
	return nil
}

// GetBusiness returns the business with id if ownerID owns it.
func (ps *PostgresStore) GetBusiness(ctx context.Context, id, ownerID int64) (*models.Business, error) {
	b, err := scanBusiness(ps.db.QueryRowContext(ctx, `
		SELECT `+businessColumns+`
		FROM businesses
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get business %d: %w", id, err)
	}
	return b, nil
}

// ListBusinesses returns every business, oldest first.
func (ps *PostgresStore) ListBusinesses(ctx context.Context) ([]models.Business, error) {
	return ps.queryBusinesses(ctx, `
		SELECT `+businessColumns+`
		FROM businesses
		ORDER BY id
	`)
}

// ListOwnerBusinesses returns the businesses ownerID owns, oldest first.
func (ps *PostgresStore) ListOwnerBusinesses(ctx context.Context, ownerID int64) ([]models.Business, error) {
	return ps.queryBusinesses(ctx, `
		SELECT `+businessColumns+`
		FROM businesses
		WHERE owner_id = $1
		ORDER BY id
	`, ownerID)
}

func (ps *PostgresStore) queryBusinesses(ctx context.Context, query string, args ...any) ([]models.Business, error) {
	rows, err := ps.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list businesses: %w", err)
	}
	defer rows.Close()

	var out []models.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan business: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// SaveProducts batch-inserts normalized listings collected during runID.
func (ps *PostgresStore) SaveProducts(ctx context.Context, businessID int64, runID uuid.UUID, listings []models.Listing) error {
	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := min(i+batchSize, len(listings))
		if err := ps.insertProducts(ctx, businessID, runID, listings[i:end]); err != nil {
			return fmt.Errorf("postgres: save products: %w", err)
		}
	}
	return nil
}

func (ps *PostgresStore) insertProducts(ctx context.Context, businessID int64, runID uuid.UUID, batch []models.Listing) error {
	const cols = 9
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*cols)

	for idx, l := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			businessID, runID, string(l.Platform), l.Title,
			l.Price, l.Rating, l.ReviewsCount, l.URL, string(l.CompetitionLevel))
	}

	query := fmt.Sprintf(`
		INSERT INTO products (business_id, run_id, platform, title, price, rating, reviews_count, url, competition_level)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := ps.db.ExecContext(ctx, query, valueArgs...)
	return err
}

// ReplaceAnalytics swaps the business's platform analytics for the given rows
// in one transaction.
func (ps *PostgresStore) ReplaceAnalytics(ctx context.Context, businessID int64, analytics []models.PlatformAnalytic) error {
	return ps.inTx(ctx, "replace analytics", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM platform_analytics WHERE business_id = $1`, businessID); err != nil {
			return err
		}
		for _, a := range analytics {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO platform_analytics (business_id, run_id, platform, total_listings, avg_rating,
					avg_price, competition_level, engagement_rate, recommendation_score)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, businessID, a.RunID, string(a.Platform), a.TotalListings, a.AvgRating,
				a.AvgPrice, string(a.CompetitionLevel), a.EngagementRate, a.RecommendationScore); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceInsights swaps the business's insights for the given rows in one
// transaction.
func (ps *PostgresStore) ReplaceInsights(ctx context.Context, businessID int64, insights []models.Insight) error {
	return ps.inTx(ctx, "replace insights", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM business_insights WHERE business_id = $1`, businessID); err != nil {
			return err
		}
		for _, in := range insights {
			payload, err := json.Marshal(in.Payload)
			if err != nil {
				return fmt.Errorf("encoding %s payload: %w", in.Type, err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO business_insights (business_id, run_id, insight_type, payload, confidence)
				VALUES ($1, $2, $3, $4, $5)
			`, businessID, in.RunID, string(in.Type), payload, in.Confidence); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListAnalytics returns the business's analytics, best score first.
func (ps *PostgresStore) ListAnalytics(ctx context.Context, businessID int64) ([]models.PlatformAnalytic, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT run_id, business_id, platform, total_listings, avg_rating, avg_price,
			competition_level, engagement_rate, recommendation_score, created_at
		FROM platform_analytics
		WHERE business_id = $1
		ORDER BY recommendation_score DESC, platform
	`, businessID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list analytics: %w", err)
	}
	defer rows.Close()

	var out []models.PlatformAnalytic
	for rows.Next() {
		var a models.PlatformAnalytic
		if err := rows.Scan(&a.RunID, &a.BusinessID, &a.Platform, &a.TotalListings, &a.AvgRating,
			&a.AvgPrice, &a.CompetitionLevel, &a.EngagementRate, &a.RecommendationScore, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan analytic: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListInsights returns the business's insights in insertion order.
func (ps *PostgresStore) ListInsights(ctx context.Context, businessID int64) ([]models.Insight, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT run_id, business_id, insight_type, payload, confidence, created_at
		FROM business_insights
		WHERE business_id = $1
		ORDER BY id
	`, businessID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list insights: %w", err)
	}
	defer rows.Close()

	var out []models.Insight
	for rows.Next() {
		var in models.Insight
		var payload []byte
		if err := rows.Scan(&in.RunID, &in.BusinessID, &in.Type, &payload, &in.Confidence, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan insight: %w", err)
		}
		if err := json.Unmarshal(payload, &in.Payload); err != nil {
			return nil, fmt.Errorf("postgres: decode %s payload: %w", in.Type, err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (ps *PostgresStore) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: %s: begin: %w", op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("postgres: %s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: %s: commit: %w", op, err)
	}
	return nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
