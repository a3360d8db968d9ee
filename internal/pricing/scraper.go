package pricing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/wenwu/saas-platform/pricing-service/internal/models"
)

// The vendor serves a reduced page to unknown agents, so requests present a
// regular browser user agent.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Scraper fetches and parses the vendor pricing pages. Network calls use a
// fixed timeout and fail closed rather than hang.
type Scraper struct {
	httpClient *http.Client
	log        *zap.SugaredLogger
}

// NewScraper creates a scraper with the given request timeout.
func NewScraper(timeout time.Duration, log *zap.SugaredLogger) *Scraper {
	return &Scraper{
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// FetchRows downloads a region's pricing page and extracts the raw table rows.
func (s *Scraper) FetchRows(ctx context.Context, region models.Region) ([]Row, error) {
	body, err := s.get(ctx, region.URL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	rows, err := ParsePricingTables(body)
	if err != nil {
		return nil, fmt.Errorf("parse pricing page: %w", err)
	}
	return rows, nil
}

// FetchCategories downloads the pricing page and extracts the category
// sections. Best-effort: an empty result is valid and callers fall back to
// the static table.
func (s *Scraper) FetchCategories(ctx context.Context, url string) ([]models.Category, error) {
	body, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse categories page: %w", err)
	}
	return ParseCategorySections(doc), nil
}

func (s *Scraper) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}

// ParsePricingTables extracts raw rows from every table on the page. The
// first cell is the product name, the second the billing unit, cells three
// to five the annual / month-to-month / on-demand price strings. Malformed
// rows are skipped, never fatal; only a document-level parse failure errors.
func ParsePricingTables(r io.Reader) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var rows []Row
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			texts := cellTexts(tr)
			if len(texts) < 2 {
				return
			}
			product := texts[0]
			if product == "" || strings.EqualFold(product, "product") || strings.EqualFold(product, "nan") {
				return
			}
			rows = append(rows, Row{
				Product:            product,
				BillingUnit:        texts[1],
				BilledAnnually:     cellAt(texts, 2),
				BilledMonthToMonth: cellAt(texts, 3),
				OnDemand:           cellAt(texts, 4),
			})
		})
	})

	return rows, nil
}

// ParseCategorySections derives categories from the page structure: each
// pricing table titled by a preceding heading becomes a category whose
// explicit product list is the table's first column.
func ParseCategorySections(doc *goquery.Document) []models.Category {
	var categories []models.Category
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		heading := strings.TrimSpace(table.PrevAllFiltered("h2, h3").First().Text())
		if heading == "" {
			return
		}

		var products []string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			texts := cellTexts(tr)
			if len(texts) == 0 {
				return
			}
			name := CleanProductName(texts[0], "")
			if name == "" || strings.EqualFold(name, "product") {
				return
			}
			products = append(products, name)
		})
		if len(products) == 0 {
			return
		}

		categories = append(categories, models.Category{
			Name:     heading,
			Order:    len(categories) + 1,
			Products: products,
		})
	})
	return categories
}

func cellTexts(tr *goquery.Selection) []string {
	var texts []string
	tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(cell.Text()))
	})
	return texts
}

func cellAt(texts []string, i int) *string {
	if i >= len(texts) {
		return nil
	}
	v := strings.TrimSpace(texts[i])
	if v == "" {
		return nil
	}
	return &v
}
