package pricing

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wenwu/saas-platform/pricing-service/internal/changes"
	"github.com/wenwu/saas-platform/pricing-service/internal/models"
	"github.com/wenwu/saas-platform/pricing-service/internal/storage"
)

// Matcher re-enriches allotments after a catalog has been replaced.
// Implemented by the allotments service; wired after construction to avoid
// a dependency cycle.
type Matcher interface {
	Rematch(ctx context.Context, region string)
}

// Service owns the per-region catalogs: scraping, normalization, metadata
// and the category list.
type Service struct {
	store         storage.Store
	scraper       *Scraper
	changeLog     *changes.Service
	matcher       Matcher
	defaultRegion string
	log           *zap.SugaredLogger
}

func NewService(store storage.Store, scraper *Scraper, changeLog *changes.Service, defaultRegion string, log *zap.SugaredLogger) *Service {
	return &Service{
		store:         store,
		scraper:       scraper,
		changeLog:     changeLog,
		defaultRegion: defaultRegion,
		log:           log,
	}
}

// SetMatcher attaches the allotment matcher hook.
func (s *Service) SetMatcher(m Matcher) {
	s.matcher = m
}

// Regions lists the configured pricing regions.
func (s *Service) Regions() []models.Region {
	return AllRegions()
}

// RegionStatus reports per-region sync state for all configured regions.
func (s *Service) RegionStatus(ctx context.Context) []models.RegionStatus {
	statuses := make([]models.RegionStatus, 0, len(regionOrder))
	for _, region := range AllRegions() {
		status := models.RegionStatus{
			ID:   region.ID,
			Name: region.Name,
			Site: region.Site,
		}
		var meta models.PricingMetadata
		found, err := s.store.GetJSON(ctx, storage.PricingMetadataKey(region.ID), &meta)
		if err != nil {
			s.log.Warnw("read region metadata", "region", region.ID, "error", err)
		}
		if found {
			status.Synced = true
			status.LastSync = &meta.LastSync
			status.ProductsCount = meta.ProductsCount
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// Pricing returns the stored catalog for a region; absent catalogs are empty.
func (s *Service) Pricing(ctx context.Context, region string) ([]models.PricingItem, error) {
	var items []models.PricingItem
	if _, err := s.store.GetJSON(ctx, storage.PricingKey(region), &items); err != nil {
		return nil, fmt.Errorf("load pricing for %s: %w", region, err)
	}
	if items == nil {
		items = []models.PricingItem{}
	}
	return items, nil
}

// Metadata returns the last-sync metadata for a region, nil when never synced.
func (s *Service) Metadata(ctx context.Context, region string) (*models.PricingMetadata, error) {
	var meta models.PricingMetadata
	found, err := s.store.GetJSON(ctx, storage.PricingMetadataKey(region), &meta)
	if err != nil {
		return nil, fmt.Errorf("load metadata for %s: %w", region, err)
	}
	if !found {
		return nil, nil
	}
	return &meta, nil
}

// Products returns the flattened product listing for search UIs.
func (s *Service) Products(ctx context.Context, region string) ([]models.ProductSummary, error) {
	items, err := s.Pricing(ctx, region)
	if err != nil {
		return nil, err
	}
	products := make([]models.ProductSummary, 0, len(items))
	for _, item := range items {
		products = append(products, models.ProductSummary{
			ID:                 item.ID,
			Product:            item.Product,
			Category:           item.Category,
			Plan:               item.Plan,
			BillingUnit:        item.BillingUnit,
			BilledAnnually:     item.BilledAnnually,
			BilledMonthToMonth: item.BilledMonthToMonth,
			OnDemand:           item.OnDemand,
		})
	}
	return products, nil
}

// Sync scrapes one region and replaces its catalog wholesale. Errors are
// reported in the result, never raised to the caller; the previously stored
// catalog stays untouched on failure.
func (s *Service) Sync(ctx context.Context, regionID string) models.SyncResult {
	region, ok := RegionByID(regionID)
	if !ok {
		return models.SyncResult{Message: fmt.Sprintf("Unknown region: %s", regionID)}
	}

	rows, err := s.scraper.FetchRows(ctx, region)
	if err != nil {
		s.log.Errorw("pricing scrape failed", "region", regionID, "error", err)
		return models.SyncResult{Message: fmt.Sprintf("Error syncing pricing: %v", err)}
	}

	categories, err := s.Categories(ctx)
	if err != nil {
		s.log.Warnw("load categories, falling back to defaults", "error", err)
		categories = DefaultCategories()
	}

	items := Normalize(regionID, rows, categories)
	if len(items) == 0 {
		return models.SyncResult{Message: "No pricing data found"}
	}

	previous, err := s.Pricing(ctx, regionID)
	if err != nil {
		s.log.Warnw("load previous catalog for diff", "region", regionID, "error", err)
		previous = nil
	}

	// Catalog and metadata are written as two keys with no transaction; a
	// reader racing this sync may briefly see one without the other.
	if err := s.store.SetJSON(ctx, storage.PricingKey(regionID), items, 0); err != nil {
		return models.SyncResult{Message: fmt.Sprintf("Error storing pricing: %v", err)}
	}
	meta := models.PricingMetadata{
		Region:        regionID,
		RegionName:    region.Name,
		Site:          region.Site,
		LastSync:      time.Now().UTC().Format(time.RFC3339),
		ProductsCount: len(items),
		SourceURL:     region.URL,
	}
	if err := s.store.SetJSON(ctx, storage.PricingMetadataKey(regionID), meta, 0); err != nil {
		s.log.Errorw("store pricing metadata", "region", regionID, "error", err)
	}

	if err := s.changeLog.RecordPricingDiff(ctx, regionID, previous, items); err != nil {
		s.log.Warnw("record pricing diff", "region", regionID, "error", err)
	}
	if s.matcher != nil {
		s.matcher.Rematch(ctx, regionID)
	}

	s.log.Infow("pricing synced", "region", regionID, "products", len(items))
	return models.SyncResult{
		Success: true,
		Message: fmt.Sprintf("Successfully synced %d products for %s", len(items), region.Name),
		Count:   len(items),
	}
}

// SyncAll syncs every configured region, collecting per-region outcomes.
func (s *Service) SyncAll(ctx context.Context) []models.RegionSyncResult {
	results := make([]models.RegionSyncResult, 0, len(regionOrder))
	for _, region := range AllRegions() {
		res := s.Sync(ctx, region.ID)
		results = append(results, models.RegionSyncResult{
			Region:        region.ID,
			Success:       res.Success,
			Message:       res.Message,
			ProductsCount: res.Count,
		})
	}
	return results
}

// EnsureData loads the stored catalog for a region and only scrapes when
// nothing is stored yet. Used at startup.
func (s *Service) EnsureData(ctx context.Context, regionID string) models.SyncResult {
	items, err := s.Pricing(ctx, regionID)
	if err == nil && len(items) > 0 {
		lastSync := "unknown"
		if meta, err := s.Metadata(ctx, regionID); err == nil && meta != nil {
			lastSync = meta.LastSync
		}
		name := regionID
		if region, ok := RegionByID(regionID); ok {
			name = region.Name
		}
		return models.SyncResult{
			Success: true,
			Message: fmt.Sprintf("Loaded %d products for %s (last sync: %s)", len(items), name, lastSync),
			Count:   len(items),
		}
	}
	return s.Sync(ctx, regionID)
}

// Categories returns the stored category list, or the static defaults when
// none has been stored yet.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	found, err := s.store.GetJSON(ctx, storage.KeyCategories, &categories)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	if !found || len(categories) == 0 {
		return DefaultCategories(), nil
	}
	return categories, nil
}

// CategoriesOrder returns the display rank per category name.
func (s *Service) CategoriesOrder(ctx context.Context) (map[string]int, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return CategoryOrder(categories), nil
}

// SyncCategories scrapes the category sections from the default region's
// pricing page; on any failure the static fallback table is stored instead,
// so the operation still succeeds with the fallback source reported.
func (s *Service) SyncCategories(ctx context.Context) models.SyncResult {
	region, _ := RegionByID(s.defaultRegion)

	categories, err := s.scraper.FetchCategories(ctx, region.URL)
	if err != nil || len(categories) == 0 {
		if err != nil {
			s.log.Warnw("category scrape failed, using fallback table", "error", err)
		}
		categories = DefaultCategories()
		if err := s.store.SetJSON(ctx, storage.KeyCategories, categories, 0); err != nil {
			return models.SyncResult{Message: fmt.Sprintf("Error storing categories: %v", err)}
		}
		return models.SyncResult{
			Success: true,
			Message: fmt.Sprintf("Using fallback category table (%d categories)", len(categories)),
			Count:   len(categories),
		}
	}

	if err := s.store.SetJSON(ctx, storage.KeyCategories, categories, 0); err != nil {
		return models.SyncResult{Message: fmt.Sprintf("Error storing categories: %v", err)}
	}
	s.log.Infow("categories synced", "count", len(categories))
	return models.SyncResult{
		Success: true,
		Message: fmt.Sprintf("Successfully synced %d categories", len(categories)),
		Count:   len(categories),
	}
}
