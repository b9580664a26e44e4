package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"VeloDigest/internal/config"
	"VeloDigest/internal/domain"
	"VeloDigest/internal/ports"
)

const summaryLimit = 200

// Client queries a NewsAPI-compatible keyword search endpoint. Each run
// issues at most MaxQueriesPerRun of the configured queries to stay inside
// the provider's rate limits.
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	maxQueries int
	queries    []string
	client     *http.Client
	logger     *slog.Logger
}

var _ ports.NewsProvider = (*Client)(nil)

// NewClient builds a provider from configuration.
func NewClient(cfg config.NewsAPIConfig, logger *slog.Logger) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	maxQueries := cfg.MaxQueriesPerRun
	if maxQueries <= 0 {
		maxQueries = 3
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		pageSize:   pageSize,
		maxQueries: maxQueries,
		queries:    cfg.Queries,
		client:     &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// Name identifies the provider inside the aggregator.
func (c *Client) Name() string {
	return "newsapi"
}

// Fetch runs the capped query loop. A single failing query is logged and
// skipped; Fetch errors only when every query fails.
func (c *Client) Fetch(ctx context.Context, since time.Time) ([]domain.RawArticle, error) {
	queries := c.queries
	if len(queries) > c.maxQueries {
		queries = queries[:c.maxQueries]
	}
	if len(queries) == 0 {
		return nil, nil
	}

	var (
		all     []domain.RawArticle
		lastErr error
		fetched int
	)
	for _, query := range queries {
		items, err := c.search(ctx, query, since)
		if err != nil {
			lastErr = err
			if c.logger != nil {
				c.logger.Warn("newsapi query failed", "query", query, "error", err)
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

func (c *Client) search(ctx context.Context, query string, since time.Time) ([]domain.RawArticle, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")
	params.Set("pageSize", strconv.Itoa(c.pageSize))
	params.Set("from", since.UTC().Format("2006-01-02"))
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi error: %s", resp.Status)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	items := make([]domain.RawArticle, 0, len(payload.Articles))
	for _, article := range payload.Articles {
		raw, ok := normalize(article)
		if !ok {
			continue
		}
		items = append(items, raw)
	}
	return items, nil
}

// normalize converts one provider-native record, reporting false for records
// missing a title or a parsable publish time.
func normalize(article searchArticle) (domain.RawArticle, bool) {
	if article.Title == "" {
		return domain.RawArticle{}, false
	}
	publishedAt, err := time.Parse(time.RFC3339, article.PublishedAt)
	if err != nil {
		return domain.RawArticle{}, false
	}

	summary := article.Description
	if summary == "" && article.Content != "" {
		summary = truncate(article.Content, summaryLimit)
	}

	return domain.RawArticle{
		Title:       article.Title,
		Summary:     summary,
		ImageURL:    article.URLToImage,
		URL:         article.URL,
		Source:      article.Source.Name,
		PublishedAt: publishedAt,
	}, true
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

type searchResponse struct {
	Status   string          `json:"status"`
	Articles []searchArticle `json:"articles"`
}

type searchArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}
