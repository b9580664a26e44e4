package usecase

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"VeloDigest/internal/domain"
)

const (
	dedupKeyWords    = 5
	veryRecentWindow = 6 * time.Hour
)

// DedupKey is the first 5 whitespace-tokenized words of the lowercased title
// joined by single spaces.
func DedupKey(title string) string {
	words := strings.Fields(strings.ToLower(title))
	if len(words) > dedupKeyWords {
		words = words[:dedupKeyWords]
	}
	return strings.Join(words, " ")
}

// Dedupe drops later articles whose dedup key was already seen. First
// occurrence wins, so the concat order of provider results decides which
// duplicate survives.
func Dedupe(articles []domain.Article) []domain.Article {
	seen := make(map[string]struct{}, len(articles))
	kept := articles[:0]
	for _, article := range articles {
		key := DedupKey(article.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, article)
	}
	return kept
}

// Rank sorts in place, better first:
//  1. articles younger than 6 hours before everything older
//  2. trending before non-trending
//  3. newer PublishedAt first
//  4. higher popularity first
//
// The comparator reads the immutable PublishedAt timestamp, never the
// rendered Date string.
func Rank(articles []domain.Article, now time.Time) {
	sort.SliceStable(articles, func(i, j int) bool {
		left, right := articles[i], articles[j]

		leftRecent := now.Sub(left.PublishedAt) < veryRecentWindow
		rightRecent := now.Sub(right.PublishedAt) < veryRecentWindow
		if leftRecent != rightRecent {
			return leftRecent
		}

		if left.Trending != right.Trending {
			return left.Trending
		}

		if !left.PublishedAt.Equal(right.PublishedAt) {
			return left.PublishedAt.After(right.PublishedAt)
		}

		return left.Popularity > right.Popularity
	})
}

// relativeDate renders a human-relative label for the publish time. Computed
// once at article build time; ranking never parses it back.
func relativeDate(publishedAt, now time.Time) string {
	age := now.Sub(publishedAt)
	switch {
	case age < time.Hour:
		return "Just now"
	case age < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(age.Hours()))
	case age < 48*time.Hour:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", int(age.Hours()/24))
	}
}
