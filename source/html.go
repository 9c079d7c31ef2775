package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aouyang1/go-pricecast/rawtable"
	"golang.org/x/net/html/charset"
)

const (
	// DefaultURL is the ipeadata daily brent spot price page
	DefaultURL = "http://www.ipeadata.gov.br/ExibeSerie.aspx?module=m&serid=1650971490&oper=view"

	DefaultTimeout   = 60 * time.Second
	DefaultUserAgent = "Mozilla/5.0"
)

// HTMLFetcher downloads a page and extracts every html table
type HTMLFetcher struct {
	URL       string
	UserAgent string
	Client    *http.Client
}

// NewHTMLFetcher creates a fetcher for the url with the given request timeout
func NewHTMLFetcher(url string, timeout time.Duration) *HTMLFetcher {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTMLFetcher{
		URL:       url,
		UserAgent: DefaultUserAgent,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchTables requests the page and parses its tables. Transport failures, non 2xx responses
// and pages without tables fail with ErrFetch.
func (h *HTMLFetcher) FetchTables(ctx context.Context) ([]rawtable.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request for %s, %w: %w", h.URL, ErrFetch, err)
	}
	req.Header.Set("User-Agent", h.UserAgent)

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s returned status %d, %w", h.URL, resp.StatusCode, ErrFetch)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("unable to decode body, %w: %w", ErrFetch, err)
	}
	tables, err := ReadTables(body)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("no tables at %s, %w", h.URL, ErrFetch)
	}
	return tables, nil
}

// ReadTables parses an html document into tables of trimmed cell text. Tables are returned in
// document order, nested tables included, and each row holds the th and td cells of that row.
func ReadTables(r io.Reader) ([]rawtable.Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse html, %w: %w", ErrFetch, err)
	}

	var tables []rawtable.Table
	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		var table rawtable.Table
		tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			if tr.Closest("table").Get(0) != tbl.Get(0) {
				return
			}
			cells := tr.ChildrenFiltered("th, td")
			if cells.Length() == 0 {
				return
			}
			row := make([]string, 0, cells.Length())
			cells.Each(func(_ int, cell *goquery.Selection) {
				row = append(row, strings.TrimSpace(cell.Text()))
			})
			table = append(table, row)
		})
		tables = append(tables, table)
	})
	return tables, nil
}
