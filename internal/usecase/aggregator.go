package usecase

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"VeloDigest/internal/domain"
	"VeloDigest/internal/ports"
	"VeloDigest/internal/taxonomy"
)

const (
	baseScore      = 20
	trendingBonus  = 20
	trendingWindow = 24 * time.Hour
	maxJitter      = 3.0

	defaultFetchWindow = 72 * time.Hour

	quickNewsCount  = 5
	recentNewsCount = 3
)

// Recency score tiers, mutually exclusive, largest applicable wins.
var recencyTiers = []struct {
	maxAge time.Duration
	bonus  int
}{
	{2 * time.Hour, 50},
	{6 * time.Hour, 45},
	{24 * time.Hour, 35},
	{72 * time.Hour, 25},
	{168 * time.Hour, 15},
}

// AggregatorDeps wires providers and collaborators into the aggregation
// pipeline. Archive and Notifier are optional; Clock and Jitter default to
// the system clock and a time-seeded source.
type AggregatorDeps struct {
	Providers   []ports.NewsProvider
	Archive     ports.ArticleArchive
	Notifier    ports.Notifier
	Clock       func() time.Time
	Jitter      *rand.Rand
	Logger      *slog.Logger
	FetchWindow time.Duration
	TopStories  int
}

// Aggregator implements the news ingestion, dedup, classification, scoring
// and ranking pipeline. Instances are caller-owned; there is no package
// singleton and no cross-run state.
type Aggregator struct {
	providers   []ports.NewsProvider
	archive     ports.ArticleArchive
	notifier    ports.Notifier
	clock       func() time.Time
	jitter      *rand.Rand
	logger      *slog.Logger
	fetchWindow time.Duration
	topStories  int
}

// NewAggregator constructs the aggregation component.
func NewAggregator(deps AggregatorDeps) *Aggregator {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	jitter := deps.Jitter
	if jitter == nil {
		jitter = rand.New(rand.NewSource(clock().UnixNano()))
	}
	window := deps.FetchWindow
	if window <= 0 {
		window = defaultFetchWindow
	}
	top := deps.TopStories
	if top <= 0 {
		top = quickNewsCount
	}

	return &Aggregator{
		providers:   deps.Providers,
		archive:     deps.Archive,
		notifier:    deps.Notifier,
		clock:       clock,
		jitter:      jitter,
		logger:      deps.Logger,
		fetchWindow: window,
		topStories:  top,
	}
}

// FetchCyclingNews runs the full pipeline and returns the ranked list. A
// provider failure contributes zero articles; an all-empty run returns an
// empty slice, never an error.
func (a *Aggregator) FetchCyclingNews(ctx context.Context) []domain.Article {
	now := a.clock()
	raw := a.collect(ctx, now.Add(-a.fetchWindow))

	articles := make([]domain.Article, 0, len(raw))
	for _, item := range raw {
		if item.Title == "" || item.PublishedAt.IsZero() {
			continue
		}
		if !taxonomy.IsRelevant(item.Title, item.Summary) {
			continue
		}
		articles = append(articles, a.buildArticle(item, now))
	}

	articles = Dedupe(articles)
	Rank(articles, now)

	a.debug("aggregation complete", "articles", len(articles))
	return articles
}

// GetQuickNews returns the first 5 ranked titles for the ticker view.
func (a *Aggregator) GetQuickNews(ctx context.Context) []string {
	articles := a.FetchCyclingNews(ctx)
	if len(articles) > quickNewsCount {
		articles = articles[:quickNewsCount]
	}

	titles := make([]string, 0, len(articles))
	for _, article := range articles {
		titles = append(titles, article.Title)
	}
	return titles
}

// GetRecentNews returns the first 3 ranked articles for the home view.
func (a *Aggregator) GetRecentNews(ctx context.Context) []domain.Article {
	articles := a.FetchCyclingNews(ctx)
	if len(articles) > recentNewsCount {
		articles = articles[:recentNewsCount]
	}
	return articles
}

// Run executes one aggregation pass and feeds the optional archive and
// notifier. Used by the scheduled daemon mode; archive and notifier failures
// are logged, never fatal.
func (a *Aggregator) Run(ctx context.Context) error {
	articles := a.FetchCyclingNews(ctx)
	if len(articles) == 0 {
		a.debug("nothing to archive or publish")
		return nil
	}

	now := a.clock()
	if a.archive != nil {
		keys := make([]string, 0, len(articles))
		for _, article := range articles {
			keys = append(keys, DedupKey(article.Title))
		}
		if seen, err := a.archive.SeenKeys(ctx, keys); err != nil {
			a.warn("seen-keys lookup failed", "error", err)
		} else {
			a.debug("archive lookup", "stories", len(keys), "previously_seen", len(seen))
		}

		if err := a.archiveRanked(ctx, articles, now); err != nil {
			a.warn("archive failed", "error", err)
		}
	}

	if a.notifier != nil {
		digest := BuildDigest(articles, a.topStories)
		if err := a.notifier.PublishDigest(ctx, digest); err != nil {
			a.warn("publish digest failed", "error", err)
		}
	}

	return nil
}

// collect fans out one goroutine per provider, waits for all to settle, and
// concatenates results in provider registration order. The fixed order keeps
// first-wins dedup deterministic across concurrent fetches.
func (a *Aggregator) collect(ctx context.Context, since time.Time) []domain.RawArticle {
	results := make([][]domain.RawArticle, len(a.providers))

	var wg sync.WaitGroup
	for i, provider := range a.providers {
		wg.Add(1)
		go func(i int, provider ports.NewsProvider) {
			defer wg.Done()
			items, err := provider.Fetch(ctx, since)
			if err != nil {
				a.warn("provider fetch failed", "provider", provider.Name(), "error", err)
				return
			}
			a.debug("provider fetched", "provider", provider.Name(), "items", len(items))
			results[i] = items
		}(i, provider)
	}
	wg.Wait()

	var all []domain.RawArticle
	for _, items := range results {
		all = append(all, items...)
	}
	return all
}

// buildArticle derives every computed field exactly once. Trending, the
// rendered date and the popularity score are never re-evaluated downstream.
func (a *Aggregator) buildArticle(item domain.RawArticle, now time.Time) domain.Article {
	summary := item.Summary
	if summary == "" {
		summary = item.Title
	}

	trending := isTrending(item.PublishedAt, now)

	return domain.Article{
		ID:          articleID(item),
		Title:       item.Title,
		Summary:     summary,
		Image:       item.ImageURL,
		Author:      item.Source,
		Source:      item.Source,
		PublishedAt: item.PublishedAt,
		Date:        relativeDate(item.PublishedAt, now),
		Category:    taxonomy.Classify(item.Title, item.Summary),
		Trending:    trending,
		URL:         item.URL,
		Popularity:  a.score(item, now, trending),
	}
}

// score accumulates additive bonuses over the base value and clamps to
// [0,100]. Deterministic apart from the bounded jitter term.
func (a *Aggregator) score(item domain.RawArticle, now time.Time, trending bool) int {
	score := float64(baseScore)

	age := now.Sub(item.PublishedAt)
	for _, tier := range recencyTiers {
		if age < tier.maxAge {
			score += float64(tier.bonus)
			break
		}
	}

	if trending {
		score += trendingBonus
	}

	score += float64(taxonomy.KeywordBonus(item.Title, item.Summary))
	score += float64(taxonomy.SourceBonus(item.Source))

	// Bounded tie-breaker only; the rank comparator consults popularity last.
	score += a.jitter.Float64() * maxJitter

	return int(math.Round(math.Min(100, math.Max(0, score))))
}

func (a *Aggregator) archiveRanked(ctx context.Context, articles []domain.Article, now time.Time) error {
	snapshots := make([]domain.ArchivedArticle, 0, len(articles))
	for _, article := range articles {
		snapshots = append(snapshots, domain.ArchivedArticle{
			Article:  article,
			DedupKey: DedupKey(article.Title),
			RankedAt: now,
		})
	}
	return a.archive.SaveRanked(ctx, snapshots)
}

// isTrending reports whether the publish time falls within the last 24 hours.
func isTrending(publishedAt, now time.Time) bool {
	return now.Sub(publishedAt) < trendingWindow
}

// articleID derives a deterministic identifier so refetching the same story
// produces the same ID. Collisions across providers are tolerated; dedup
// operates on titles, not IDs.
func articleID(item domain.RawArticle) string {
	h := sha256.Sum256([]byte(item.Source + "|" + item.URL + "|" + item.Title))
	return fmt.Sprintf("%x", h[:8])
}

func (a *Aggregator) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}

func (a *Aggregator) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
