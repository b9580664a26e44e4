package usecase

import (
	"testing"
	"time"

	"VeloDigest/internal/domain"
)

func TestDedupKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  string
	}{
		{"Tour de France stage 5 results announced today", "tour de france stage 5"},
		{"Tour  de   France stage 5 results", "tour de france stage 5"},
		{"Short title", "short title"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := DedupKey(tc.title); got != tc.want {
			t.Fatalf("DedupKey(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestDedupeFirstWins(t *testing.T) {
	t.Parallel()

	a := domain.Article{Title: "Tour de France stage 5 results announced today", Source: "A"}
	b := domain.Article{Title: "Tour de France stage 5 results announced yesterday", Source: "B"}

	got := Dedupe([]domain.Article{a, b})
	if len(got) != 1 || got[0].Source != "A" {
		t.Fatalf("Dedupe([A, B]) kept %+v, want A only", got)
	}

	got = Dedupe([]domain.Article{b, a})
	if len(got) != 1 || got[0].Source != "B" {
		t.Fatalf("Dedupe([B, A]) kept %+v, want B only", got)
	}
}

func TestDedupeIdempotent(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{Title: "UCI confirms world cup calendar for next season"},
		{Title: "UCI confirms world cup calendar for this season"},
		{Title: "Vuelta route revealed with six summit finishes"},
		{Title: "Helmet standards tighten for junior racing"},
	}

	once := Dedupe(articles)
	twice := Dedupe(append([]domain.Article(nil), once...))

	if len(once) != 3 {
		t.Fatalf("expected 3 unique articles, got %d", len(once))
	}
	if len(twice) != len(once) {
		t.Fatalf("dedupe not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Title != twice[i].Title {
			t.Fatalf("dedupe reordered on second pass at %d", i)
		}
	}
}

func TestRankTierOrder(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	oldPopular := domain.Article{
		Title:       "old but popular",
		PublishedAt: now.Add(-30 * time.Hour),
		Popularity:  99,
	}
	recentModest := domain.Article{
		Title:       "fresh with modest score",
		PublishedAt: now.Add(-1 * time.Hour),
		Trending:    true,
		Popularity:  40,
	}
	trendingOlder := domain.Article{
		Title:       "trending but past the 6h mark",
		PublishedAt: now.Add(-10 * time.Hour),
		Trending:    true,
		Popularity:  70,
	}
	stale := domain.Article{
		Title:       "stale",
		PublishedAt: now.Add(-40 * time.Hour),
		Popularity:  10,
	}

	articles := []domain.Article{stale, oldPopular, trendingOlder, recentModest}
	Rank(articles, now)

	wantOrder := []string{
		"fresh with modest score",
		"trending but past the 6h mark",
		"old but popular",
		"stale",
	}
	for i, want := range wantOrder {
		if articles[i].Title != want {
			t.Fatalf("position %d: got %q, want %q", i, articles[i].Title, want)
		}
	}
}

func TestRankPopularityTiebreak(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	publishedAt := now.Add(-3 * time.Hour)

	articles := []domain.Article{
		{Title: "low", PublishedAt: publishedAt, Trending: true, Popularity: 40},
		{Title: "high", PublishedAt: publishedAt, Trending: true, Popularity: 90},
	}
	Rank(articles, now)

	if articles[0].Title != "high" {
		t.Fatalf("expected popularity tiebreak, got order %q, %q", articles[0].Title, articles[1].Title)
	}
}

// Ranking must read PublishedAt, not the rendered Date string. The reference
// behavior re-parsed the display string at sort time; that is deliberately not
// reproduced here.
func TestRankIgnoresRenderedDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	articles := []domain.Article{
		{Title: "older", PublishedAt: now.Add(-5 * time.Hour), Trending: true, Date: "Just now"},
		{Title: "newer", PublishedAt: now.Add(-1 * time.Hour), Trending: true, Date: "3 days ago"},
	}
	Rank(articles, now)

	if articles[0].Title != "newer" {
		t.Fatalf("rank followed the rendered date string instead of PublishedAt")
	}
}

func TestRankTotalOrder(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	ages := []time.Duration{
		30 * time.Minute, 2 * time.Hour, 5 * time.Hour, 7 * time.Hour,
		12 * time.Hour, 23 * time.Hour, 30 * time.Hour, 90 * time.Hour,
	}
	popularity := []int{90, 10, 55, 70, 70, 30, 100, 5}

	var articles []domain.Article
	for i, age := range ages {
		publishedAt := now.Add(-age)
		articles = append(articles, domain.Article{
			Title:       "article",
			PublishedAt: publishedAt,
			Trending:    isTrending(publishedAt, now),
			Popularity:  popularity[i],
		})
	}

	Rank(articles, now)

	for i := 0; i+1 < len(articles); i++ {
		if strictlyWorse(articles[i], articles[i+1], now) {
			t.Fatalf("article %d ranks above a strictly better neighbor", i)
		}
	}
}

// strictlyWorse mirrors the 4-tier contract for verification.
func strictlyWorse(x, y domain.Article, now time.Time) bool {
	xRecent := now.Sub(x.PublishedAt) < veryRecentWindow
	yRecent := now.Sub(y.PublishedAt) < veryRecentWindow
	if xRecent != yRecent {
		return yRecent
	}
	if x.Trending != y.Trending {
		return y.Trending
	}
	if !x.PublishedAt.Equal(y.PublishedAt) {
		return y.PublishedAt.After(x.PublishedAt)
	}
	return y.Popularity > x.Popularity
}

func TestRelativeDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		age  time.Duration
		want string
	}{
		{10 * time.Minute, "Just now"},
		{2 * time.Hour, "2 hours ago"},
		{23 * time.Hour, "23 hours ago"},
		{30 * time.Hour, "Yesterday"},
		{72 * time.Hour, "3 days ago"},
		{10 * 24 * time.Hour, "10 days ago"},
	}

	for _, tc := range tests {
		if got := relativeDate(now.Add(-tc.age), now); got != tc.want {
			t.Fatalf("relativeDate(now-%v) = %q, want %q", tc.age, got, tc.want)
		}
	}
}
