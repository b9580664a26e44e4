package guardian

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"VeloDigest/internal/config"
	"VeloDigest/internal/domain"
	"VeloDigest/internal/ports"
)

const sourceName = "The Guardian"

// Client queries the Guardian content API. The trailText field arrives as an
// HTML fragment and is reduced to plain text before it enters the pipeline.
type Client struct {
	baseURL  string
	apiKey   string
	pageSize int
	query    string
	client   *http.Client
}

var _ ports.NewsProvider = (*Client)(nil)

// NewClient builds a provider from configuration.
func NewClient(cfg config.GuardianConfig) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		pageSize: pageSize,
		query:    cfg.Query,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Name identifies the provider inside the aggregator.
func (c *Client) Name() string {
	return "guardian"
}

// Fetch issues the single configured search and normalizes the results.
func (c *Client) Fetch(ctx context.Context, since time.Time) ([]domain.RawArticle, error) {
	params := url.Values{}
	params.Set("q", c.query)
	params.Set("show-fields", "thumbnail,trailText")
	params.Set("page-size", strconv.Itoa(c.pageSize))
	params.Set("from-date", since.UTC().Format("2006-01-02"))
	params.Set("api-key", c.apiKey)

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
		return nil, fmt.Errorf("guardian error: %s", resp.Status)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	items := make([]domain.RawArticle, 0, len(payload.Response.Results))
	for _, result := range payload.Response.Results {
		raw, ok := normalize(result)
		if !ok {
			continue
		}
		items = append(items, raw)
	}
	return items, nil
}

// normalize converts one content API record, reporting false for records
// missing a title or a parsable publish time.
func normalize(result searchResult) (domain.RawArticle, bool) {
	if result.WebTitle == "" {
		return domain.RawArticle{}, false
	}
	publishedAt, err := time.Parse(time.RFC3339, result.WebPublicationDate)
	if err != nil {
		return domain.RawArticle{}, false
	}

	summary := plainText(result.Fields.TrailText)

	return domain.RawArticle{
		Title:       result.WebTitle,
		Summary:     summary,
		ImageURL:    result.Fields.Thumbnail,
		URL:         result.WebURL,
		Source:      sourceName,
		PublishedAt: publishedAt,
	}, true
}

// plainText strips markup from an HTML fragment.
func plainText(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}

type searchResponse struct {
	Response struct {
		Results []searchResult `json:"results"`
	} `json:"response"`
}

type searchResult struct {
	WebTitle           string `json:"webTitle"`
	WebURL             string `json:"webUrl"`
	WebPublicationDate string `json:"webPublicationDate"`
	Fields             struct {
		Thumbnail string `json:"thumbnail"`
		TrailText string `json:"trailText"`
	} `json:"fields"`
}
