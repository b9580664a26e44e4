package rssfeed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"

	"VeloDigest/internal/config"
	"VeloDigest/internal/domain"
	"VeloDigest/internal/ports"
)

// Collector pulls items from configured RSS feeds as a supplemental provider.
// Feed items flow through the same relevance/classification pipeline as the
// API providers.
type Collector struct {
	feeds  []config.FeedConfig
	parser *gofeed.Parser
	logger *slog.Logger
}

var _ ports.NewsProvider = (*Collector)(nil)

// NewCollector builds a provider over the configured feed list.
func NewCollector(feeds []config.FeedConfig, logger *slog.Logger) *Collector {
	return &Collector{
		feeds:  feeds,
		parser: gofeed.NewParser(),
		logger: logger,
	}
}

// Name identifies the provider inside the aggregator.
func (c *Collector) Name() string {
	return "rss"
}

// Fetch parses every configured feed and keeps items published after since.
// A single failing feed is logged and skipped; Fetch errors only when every
// feed fails.
func (c *Collector) Fetch(ctx context.Context, since time.Time) ([]domain.RawArticle, error) {
	if len(c.feeds) == 0 {
		return nil, nil
	}

	var (
		all     []domain.RawArticle
		lastErr error
		fetched int
	)
	for _, feed := range c.feeds {
		items, err := c.fetchFeed(ctx, feed, since)
		if err != nil {
			lastErr = err
			if c.logger != nil {
				c.logger.Warn("feed fetch failed", "feed", feed.Name, "error", err)
			}
			continue
		}
		fetched++
		all = append(all, items...)
	}

	if fetched == 0 && lastErr != nil {
		return nil, lastErr
	}
	return all, nil
}

func (c *Collector) fetchFeed(ctx context.Context, feed config.FeedConfig, since time.Time) ([]domain.RawArticle, error) {
	feedCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	parsed, err := c.parser.ParseURLWithContext(feed.URL, feedCtx)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", feed.URL, err)
	}

	items := make([]domain.RawArticle, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Title == "" || item.PublishedParsed == nil {
			continue
		}
		if item.PublishedParsed.Before(since) {
			continue
		}

		var image string
		if item.Image != nil {
			image = item.Image.URL
		}

		items = append(items, domain.RawArticle{
			Title:       item.Title,
			Summary:     item.Description,
			ImageURL:    image,
			URL:         item.Link,
			Source:      feed.Name,
			PublishedAt: *item.PublishedParsed,
		})
	}
	return items, nil
}
