package scrape

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

// Card markers on the public job search results page.
const (
	cardSelector    = "div.base-card"
	titleSelector   = "h3.base-search-card__title"
	companySelector = "h4.base-search-card__subtitle"
	linkSelector    = "a.base-card__full-link"
)

type FetcherConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Fetcher runs one search results GET and turns the cards into listings.
type Fetcher struct {
	cfg FetcherConfig
	hc  *http.Client
}

func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Fetcher{
		cfg: cfg,
		hc:  &http.Client{Timeout: cfg.Timeout},
	}
}

// BuildSearchURL returns base?keywords=<role>&location=<country> with spaces
// sent as %20.
func BuildSearchURL(base, role string, country domain.Country) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep +
		"keywords=" + util.QueryValue(role) +
		"&location=" + util.QueryValue(string(country))
}

// Fetch returns every complete card for f. An empty slice is a normal result.
func (s *Fetcher) Fetch(ctx context.Context, f domain.SearchFilter) ([]domain.Listing, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	searchURL := BuildSearchURL(s.cfg.BaseURL, f.Role, f.Country)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, domain.RemoteError("job search", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return nil, domain.RemoteError("job search", fmt.Errorf("status %s: %q", res.Status, string(b)))
	}

	listings, err := ParseListings(res.Body)
	if err != nil {
		return nil, domain.RemoteError("job search", err)
	}

	log.Printf("[search] fetched url=%s cards=%d", searchURL, len(listings))
	return listings, nil
}

// ParseListings extracts title/company/link from each card. Cards missing
// any of the three are skipped.
func ParseListings(r io.Reader) ([]domain.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	out := []domain.Listing{}
	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		titleEl := card.Find(titleSelector).First()
		companyEl := card.Find(companySelector).First()
		linkEl := card.Find(linkSelector).First()
		if titleEl.Length() == 0 || companyEl.Length() == 0 || linkEl.Length() == 0 {
			return
		}
		href, ok := linkEl.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		out = append(out, domain.Listing{
			Title:   util.CleanText(titleEl.Text()),
			Company: util.CleanText(companyEl.Text()),
			Link:    util.StripQuery(href),
		})
	})
	return out, nil
}
