package allotments

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

// AllotmentsURL is the vendor page listing included quantities per product.
const AllotmentsURL = "https://www.datadoghq.com/pricing/allotments/"

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Scraper fetches and parses the vendor allotments page.
type Scraper struct {
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func NewScraper(timeout time.Duration, log *zap.SugaredLogger) *Scraper {
	return &Scraper{
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Fetch downloads and parses the allotments page.
func (s *Scraper) Fetch(ctx context.Context) ([]models.Allotment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, AllotmentsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch allotments: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch allotments: unexpected status %d", resp.StatusCode)
	}

	return ParseAllotmentTables(resp.Body)
}

// ParseAllotmentTables extracts allotment rows from the page tables. Parent
// products span multiple rows via rowspan, so the current parent is carried
// forward to continuation rows. Rows are deduplicated on the
// (parent, allotted) pair, first occurrence winning.
func ParseAllotmentTables(r io.Reader) ([]models.Allotment, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var allotments []models.Allotment
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		currentParent := ""
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("th, td")
			if cells.Length() < 3 {
				return
			}
			texts := make([]string, 0, cells.Length())
			cells.Each(func(_ int, cell *goquery.Selection) {
				texts = append(texts, strings.TrimSpace(cell.Text()))
			})

			// A rowspan on the first cell marks a parent product row.
			if _, ok := cells.First().Attr("rowspan"); ok {
				currentParent = texts[0]
			}
			if isHeaderCell(texts[0]) {
				return
			}

			var parent, allotted, monthly, hourly string
			switch {
			case len(texts) >= 4:
				parent = texts[0]
				if parent == "" {
					parent = currentParent
				}
				allotted, monthly, hourly = texts[1], texts[2], texts[3]
			case len(texts) == 3 && currentParent != "":
				parent = currentParent
				allotted, monthly, hourly = texts[0], texts[1], texts[2]
			default:
				return
			}

			if parent == "" || allotted == "" {
				return
			}
			if isHeaderCell(parent) || isHeaderCell(allotted) {
				return
			}

			parsed := ParseAllotmentValue(monthly)
			if parsed == nil {
				return
			}

			allotment := models.Allotment{
				ParentProduct:   parent,
				AllottedProduct: allotted,
				MonthlyOnDemand: monthly,
				MonthlyParsed:   parsed,
				HourlyOnDemand:  hourly,
				AllottedUnit:    parsed.AllottedUnit,
				PerParentUnit:   parsed.PerParentUnit,
				Frequency:       parsed.Frequency,
			}
			if parsed.Quantity != nil {
				allotment.QuantityPerParent = *parsed.Quantity
			}
			allotments = append(allotments, allotment)
		})
	})

	return dedupe(allotments), nil
}

func isHeaderCell(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "parent product") ||
		strings.Contains(lower, "allotted product") ||
		strings.Contains(lower, "monthly")
}

func dedupe(in []models.Allotment) []models.Allotment {
	seen := make(map[string]struct{}, len(in))
	out := make([]models.Allotment, 0, len(in))
	for _, a := range in {
		key := a.ParentProduct + "|" + a.AllottedProduct
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}
