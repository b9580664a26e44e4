package domain

import "time"

// RawArticle is the provider-neutral view of an item before it enters the
// pipeline. Providers normalize their native payloads into this shape.
type RawArticle struct {
	Title       string
	Summary     string
	ImageURL    string
	URL         string
	Source      string
	PublishedAt time.Time
}

// Article is the unit the aggregator produces and ranks. Every derived field
// (Date, Category, Trending, Popularity) is computed once when the article is
// built and is never recomputed downstream.
type Article struct {
	ID          string
	Title       string
	Summary     string
	Image       string
	Author      string
	Source      string
	PublishedAt time.Time
	Date        string
	Category    string
	Trending    bool
	URL         string
	Popularity  int
}

// Category names form a closed set; classification always returns one of these.
const (
	CategoryGoverningBody = "Governing-Body News"
	CategoryGrandTours    = "Grand Tours"
	CategoryTechnology    = "Technology"
	CategorySafety        = "Safety"
	CategoryOffRoad       = "Off-Road"
	CategoryCommunity     = "Community"
	CategoryTraining      = "Training"
	CategoryGeneral       = "General"
)

// Categories lists the closed set in classification precedence order, with the
// fallback category last.
var Categories = []string{
	CategoryGoverningBody,
	CategoryGrandTours,
	CategoryTechnology,
	CategorySafety,
	CategoryOffRoad,
	CategoryCommunity,
	CategoryTraining,
	CategoryGeneral,
}

// ArchivedArticle is the snapshot persisted to Postgres for history and audit.
type ArchivedArticle struct {
	Article   Article
	DedupKey  string
	RankedAt  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
