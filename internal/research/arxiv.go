// ABOUTME: arXiv search client using the public Atom export API
// ABOUTME: Converts feed entries into stored paper records keyed by short id
package research

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DefaultArxivURL is the arXiv export query endpoint.
const DefaultArxivURL = "https://export.arxiv.org/api/query"

// SearchResult is one paper returned by a search.
type SearchResult struct {
	ID    string
	Paper Paper
}

// Searcher finds papers for a topic, most relevant first.
type Searcher interface {
	Search(ctx context.Context, topic string, maxResults int) ([]SearchResult, error)
}

// ArxivClient queries the arXiv API.
type ArxivClient struct {
	BaseURL string
	HTTP    *http.Client
}

// NewArxivClient creates a client for the public arXiv API.
func NewArxivClient() *ArxivClient {
	return &ArxivClient{
		BaseURL: DefaultArxivURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

type arxivFeed struct {
	XMLName xml.Name     `xml:"feed"`
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
	Links     []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// Search runs a relevance-sorted query for topic.
func (c *ArxivClient) Search(ctx context.Context, topic string, maxResults int) ([]SearchResult, error) {
	q := url.Values{}
	q.Set("search_query", topic)
	q.Set("start", "0")
	q.Set("max_results", strconv.Itoa(maxResults))
	q.Set("sortBy", "relevance")
	q.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/atom+xml")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv query: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv query: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read arxiv response: %w", err)
	}
	return parseArxivFeed(body, maxResults)
}

func parseArxivFeed(data []byte, maxResults int) ([]SearchResult, error) {
	var feed arxivFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("parse arxiv feed: %w", err)
	}

	var results []SearchResult
	for _, e := range feed.Entries {
		// The API reports bad queries as a single entry under /api/errors.
		if strings.Contains(e.ID, "/api/errors") {
			return nil, fmt.Errorf("arxiv query rejected: %s", collapse(e.Summary))
		}
		if len(results) == maxResults {
			break
		}
		results = append(results, SearchResult{
			ID:    shortID(e.ID),
			Paper: entryToPaper(e),
		})
	}
	return results, nil
}

func entryToPaper(e arxivEntry) Paper {
	p := Paper{
		Title:     collapse(e.Title),
		Summary:   collapse(e.Summary),
		PDFURL:    pdfLink(e),
		Published: publishedDate(e.Published),
		Authors:   []string{},
	}
	for _, a := range e.Authors {
		if name := collapse(a.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	return p
}

// shortID strips the abs URL prefix: http://arxiv.org/abs/2301.01234v1
// becomes 2301.01234v1.
func shortID(id string) string {
	if _, after, ok := strings.Cut(id, "/abs/"); ok {
		return after
	}
	return id
}

func pdfLink(e arxivEntry) string {
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return l.Href
		}
	}
	if strings.Contains(e.ID, "/abs/") {
		return strings.Replace(e.ID, "/abs/", "/pdf/", 1)
	}
	return ""
}

func publishedDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
