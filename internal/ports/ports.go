package ports

import (
	"context"
	"time"

	"VeloDigest/internal/domain"
)

// NewsProvider pulls raw items from one upstream news source. Implementations
// normalize their provider-native payloads into domain.RawArticle and skip
// single malformed records instead of failing the batch.
type NewsProvider interface {
	Name() string
	Fetch(ctx context.Context, since time.Time) ([]domain.RawArticle, error)
}

// ArticleArchive persists ranked output for history and audit.
type ArticleArchive interface {
	SeenKeys(ctx context.Context, keys []string) (map[string]bool, error)
	SaveRanked(ctx context.Context, articles []domain.ArchivedArticle) error
}

// Notifier streams digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when aggregation runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
