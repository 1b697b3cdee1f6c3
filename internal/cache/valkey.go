package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/valkey-io/valkey-go"

	"github.com/sentimap/sentimap/internal/models"
)

// ValkeyStore implements Store on a valkey server. Entries expire natively
// via key TTLs; a per-(platform, keyword) set indexes the content ids so a
// lookup is one SMEMBERS plus batched GETs.
type ValkeyStore struct {
	client valkey.Client
	ttl    time.Duration
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewValkeyStore connects and pings a valkey client.
func NewValkeyStore(ctx context.Context, address, password string, ttl time.Duration, clock clockwork.Clock, logger *slog.Logger) (*ValkeyStore, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:      []string{address},
		Password:         password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	})
	if err != nil {
		return nil, &Error{Op: "connect", Err: err}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, &Error{Op: "ping", Err: err}
	}

	logger.Info("[ValkeyCache] Connected", slog.String("ttl", ttl.String()))
	return &ValkeyStore{client: client, ttl: ttl, clock: clock, logger: logger}, nil
}

func itemKey(platform, contentID string) string {
	return fmt.Sprintf("cache:item:%s:%s", platform, contentID)
}

func indexKey(platform, keyword string) string {
	return fmt.Sprintf("cache:idx:%s:%s", platform, keyword)
}

// Lookup reads the keyword index and fetches each entry, dropping ids whose
// entry already expired. Fewer fresh entries than minCount is a miss.
func (s *ValkeyStore) Lookup(ctx context.Context, platform, keyword string, minCount int) ([]models.RawItem, bool, error) {
	ids, err := s.client.Do(ctx, s.client.B().Smembers().Key(indexKey(platform, keyword)).Build()).AsStrSlice()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, &Error{Op: "smembers", Err: err}
	}
	if len(ids) < minCount {
		return nil, false, nil
	}

	gets := make([]valkey.Completed, 0, len(ids))
	for _, id := range ids {
		gets = append(gets, s.client.B().Get().Key(itemKey(platform, id)).Build())
	}

	cutoff := s.clock.Now().Add(-s.ttl)
	var items []models.RawItem
	for _, res := range s.client.DoMulti(ctx, gets...) {
		raw, err := res.ToString()
		if err != nil {
			if valkey.IsValkeyNil(err) {
				continue // expired entry still referenced by the index
			}
			return nil, false, &Error{Op: "get", Err: err}
		}

		var entry models.CacheEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			s.logger.Warn("[ValkeyCache] Dropping undecodable entry",
				slog.String("error", err.Error()))
			continue
		}
		if entry.Keyword != keyword || !entry.CollectedAt.After(cutoff) {
			continue
		}
		items = append(items, itemFromEntry(entry))
	}

	if len(items) < minCount {
		return nil, false, nil
	}
	return items[:minCount], true, nil
}

// Upsert SETs each entry (SET on an existing key replaces it, so the write is
// naturally idempotent) and refreshes the keyword index.
func (s *ValkeyStore) Upsert(ctx context.Context, platform, keyword string, items []models.RawItem) error {
	if len(items) == 0 {
		return nil
	}

	now := s.clock.Now()
	idx := indexKey(platform, keyword)

	cmds := make([]valkey.Completed, 0, 2*len(items)+1)
	for _, item := range items {
		entry, err := entryFromItem(keyword, item, now)
		if err != nil {
			s.logger.Warn("[ValkeyCache] Skipping unserializable item",
				slog.String("content_id", item.ContentID),
				slog.String("error", err.Error()))
			continue
		}
		raw, err := json.Marshal(entry)
		if err != nil {
			return &Error{Op: "encode entry", Err: err}
		}

		cmds = append(cmds,
			s.client.B().Set().Key(itemKey(platform, item.ContentID)).Value(string(raw)).Ex(s.ttl).Build(),
			s.client.B().Sadd().Key(idx).Member(item.ContentID).Build(),
		)
	}
	cmds = append(cmds, s.client.B().Expire().Key(idx).Seconds(int64(s.ttl.Seconds())).Build())

	for _, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &Error{Op: "upsert", Err: err}
		}
	}
	return nil
}

// Close releases the client.
func (s *ValkeyStore) Close() {
	s.client.Close()
}
