package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"VeloDigest/internal/domain"
	"VeloDigest/internal/ports"
)

// PostgresArchive persists ranked articles into Postgres for history and
// audit. The aggregation pipeline itself stays stateless; the archive only
// records what each run produced.
type PostgresArchive struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ArticleArchive = (*PostgresArchive)(nil)

// NewPostgresArchive wires a sql.DB implementation.
func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	return &PostgresArchive{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SeenKeys returns which of the given dedup keys already exist in storage.
func (r *PostgresArchive) SeenKeys(ctx context.Context, keys []string) (map[string]bool, error) {
	if r.db == nil || len(keys) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := r.builder.
		Select("dedup_key").
		From("ranked_articles").
		Where(sq.Expr("dedup_key = ANY(?)", pq.StringArray(keys))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build seen query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query seen keys: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		result[key] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// SaveRanked upserts the ranked snapshots by dedup key.
func (r *PostgresArchive) SaveRanked(ctx context.Context, articles []domain.ArchivedArticle) error {
	if r.db == nil || len(articles) == 0 {
		return nil
	}

	for _, snapshot := range articles {
		query, args, err := r.builder.
			Insert("ranked_articles").
			Columns(
				"dedup_key", "article_id", "title", "summary", "category",
				"source", "url", "published_at", "trending", "popularity", "ranked_at",
			).
			Values(
				snapshot.DedupKey,
				snapshot.Article.ID,
				snapshot.Article.Title,
				snapshot.Article.Summary,
				snapshot.Article.Category,
				snapshot.Article.Source,
				snapshot.Article.URL,
				snapshot.Article.PublishedAt,
				snapshot.Article.Trending,
				snapshot.Article.Popularity,
				snapshot.RankedAt,
			).
			Suffix(`ON CONFLICT (dedup_key) DO UPDATE
                SET popularity = EXCLUDED.popularity,
                    trending = EXCLUDED.trending,
                    ranked_at = EXCLUDED.ranked_at,
                    updated_at = NOW()`).
			ToSql()
		if err != nil {
			return fmt.Errorf("build upsert: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert %s: %w", snapshot.Article.ID, err)
		}
	}

	return nil
}
