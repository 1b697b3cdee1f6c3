package cache

import (
	"context"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/sentimap/sentimap/internal/models"
)

const rawContentSchema = `
CREATE TABLE IF NOT EXISTS raw_content (
    platform     TEXT NOT NULL,
    content_id   TEXT NOT NULL,
    keyword      TEXT NOT NULL,
    content      TEXT NOT NULL DEFAULT '',
    author       TEXT NOT NULL DEFAULT '',
    location     TEXT NOT NULL DEFAULT '',
    publish_time TIMESTAMPTZ,
    collected_at TIMESTAMPTZ NOT NULL,
    extra_json   TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (platform, content_id)
)`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore implements Store on a pgx connection pool. Upsert is a single
// INSERT ... ON CONFLICT statement per item, so concurrent pipeline
// invocations never race on read-modify-write.
type PostgresStore struct {
	pool   *pgxpool.Pool
	ttl    time.Duration
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewPostgresStore connects a pool and ensures the schema exists.
func NewPostgresStore(ctx context.Context, dsn string, ttl time.Duration, clock clockwork.Clock, logger *slog.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, &Error{Op: "connect", Err: err}
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &Error{Op: "ping", Err: err}
	}
	if _, err := pool.Exec(ctx, rawContentSchema); err != nil {
		pool.Close()
		return nil, &Error{Op: "ensure schema", Err: err}
	}

	logger.Info("[PostgresCache] Connected", slog.String("ttl", ttl.String()))
	return &PostgresStore{pool: pool, ttl: ttl, clock: clock, logger: logger}, nil
}

// Lookup returns up to minCount fresh entries for (platform, keyword). Fewer
// fresh entries than minCount is a miss.
func (s *PostgresStore) Lookup(ctx context.Context, platform, keyword string, minCount int) ([]models.RawItem, bool, error) {
	cutoff := s.clock.Now().Add(-s.ttl)

	query, args, err := psql.
		Select("platform", "content_id", "keyword", "content", "author", "location", "publish_time", "collected_at", "extra_json").
		From("raw_content").
		Where(sq.Eq{"platform": platform, "keyword": keyword}).
		Where(sq.Gt{"collected_at": cutoff}).
		OrderBy("collected_at DESC").
		ToSql()
	if err != nil {
		return nil, false, &Error{Op: "build lookup", Err: err}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, &Error{Op: "lookup", Err: err}
	}
	defer rows.Close()

	var items []models.RawItem
	for rows.Next() {
		var entry models.CacheEntry
		var publishTime *time.Time
		if err := rows.Scan(&entry.Platform, &entry.ContentID, &entry.Keyword, &entry.Content,
			&entry.Author, &entry.Location, &publishTime, &entry.CollectedAt, &entry.ExtraJSON); err != nil {
			return nil, false, &Error{Op: "scan", Err: err}
		}
		if publishTime != nil {
			entry.PublishTime = *publishTime
		}
		items = append(items, itemFromEntry(entry))
	}
	if err := rows.Err(); err != nil {
		return nil, false, &Error{Op: "iterate", Err: err}
	}

	if len(items) < minCount {
		return nil, false, nil
	}
	return items[:minCount], true, nil
}

// Upsert writes items for keyword, replacing any previous row with the same
// (platform, content_id).
func (s *PostgresStore) Upsert(ctx context.Context, platform, keyword string, items []models.RawItem) error {
	now := s.clock.Now()

	for _, item := range items {
		entry, err := entryFromItem(keyword, item, now)
		if err != nil {
			s.logger.Warn("[PostgresCache] Skipping unserializable item",
				slog.String("content_id", item.ContentID),
				slog.String("error", err.Error()))
			continue
		}

		var publishTime *time.Time
		if !entry.PublishTime.IsZero() {
			publishTime = &entry.PublishTime
		}

		query, args, err := psql.
			Insert("raw_content").
			Columns("platform", "content_id", "keyword", "content", "author", "location", "publish_time", "collected_at", "extra_json").
			Values(platform, entry.ContentID, keyword, entry.Content, entry.Author, entry.Location, publishTime, entry.CollectedAt, entry.ExtraJSON).
			Suffix(`ON CONFLICT (platform, content_id) DO UPDATE SET
				keyword = EXCLUDED.keyword,
				content = EXCLUDED.content,
				author = EXCLUDED.author,
				location = EXCLUDED.location,
				publish_time = EXCLUDED.publish_time,
				collected_at = EXCLUDED.collected_at,
				extra_json = EXCLUDED.extra_json`).
			ToSql()
		if err != nil {
			return &Error{Op: "build upsert", Err: err}
		}

		if _, err := s.pool.Exec(ctx, query, args...); err != nil {
			return &Error{Op: "upsert", Err: err}
		}
	}

	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
