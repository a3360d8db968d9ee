package allotments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wenwu/saas-platform/pricing-service/internal/changes"
	"github.com/wenwu/saas-platform/pricing-service/internal/models"
	"github.com/wenwu/saas-platform/pricing-service/internal/storage"
)

// Service owns the single global allotment set. Allotments are not
// partitioned by region: the vendor publishes one allotments page and the
// ratios are region-invariant. Matching runs against the default region's
// catalog.
type Service struct {
	store         storage.Store
	scraper       *Scraper
	changeLog     *changes.Service
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

// All returns the stored allotment set, falling back to the manual table
// when nothing is stored.
func (s *Service) All(ctx context.Context) ([]models.Allotment, error) {
	var allotments []models.Allotment
	if _, err := s.store.GetJSON(ctx, storage.KeyAllotments, &allotments); err != nil {
		return nil, fmt.Errorf("load allotments: %w", err)
	}
	if len(allotments) == 0 {
		return ManualAllotments(), nil
	}
	return allotments, nil
}

// Metadata returns the last-sync metadata, nil when never synced.
func (s *Service) Metadata(ctx context.Context) (*models.AllotmentMetadata, error) {
	var meta models.AllotmentMetadata
	found, err := s.store.GetJSON(ctx, storage.KeyAllotmentsMetadata, &meta)
	if err != nil {
		return nil, fmt.Errorf("load allotments metadata: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &meta, nil
}

// ForProduct returns the allotments whose parent matches the given name
// case-insensitively.
func (s *Service) ForProduct(ctx context.Context, parentProduct string) ([]models.Allotment, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]models.Allotment, 0)
	for _, a := range all {
		if strings.EqualFold(a.ParentProduct, parentProduct) {
			matches = append(matches, a)
		}
	}
	return matches, nil
}

// Sync scrapes the allotments page and replaces the stored set wholesale.
// When scraping fails the manual table is stored instead, so the operation
// still succeeds with the fallback source reported in-band.
func (s *Service) Sync(ctx context.Context) models.SyncResult {
	scraped, err := s.scraper.Fetch(ctx)
	if err != nil || len(scraped) == 0 {
		if err != nil {
			s.log.Warnw("allotments scrape failed, falling back to manual set", "error", err)
		}
		return s.saveManual(ctx)
	}

	if err := s.save(ctx, scraped, "scraped"); err != nil {
		return models.SyncResult{Message: fmt.Sprintf("Error storing allotments: %v", err)}
	}
	return models.SyncResult{
		Success: true,
		Message: fmt.Sprintf("Successfully synced %d allotments", len(scraped)),
		Count:   len(scraped),
	}
}

// Init stores the manual allotment set, used for first-run initialization.
func (s *Service) Init(ctx context.Context) models.SyncResult {
	return s.saveManual(ctx)
}

// EnsureData loads the stored set and only syncs when nothing is stored yet.
func (s *Service) EnsureData(ctx context.Context) models.SyncResult {
	var stored []models.Allotment
	found, err := s.store.GetJSON(ctx, storage.KeyAllotments, &stored)
	if err == nil && found && len(stored) > 0 {
		lastSync := "unknown"
		if meta, err := s.Metadata(ctx); err == nil && meta != nil {
			lastSync = meta.LastSync
		}
		return models.SyncResult{
			Success: true,
			Message: fmt.Sprintf("Loaded %d allotments (last sync: %s)", len(stored), lastSync),
			Count:   len(stored),
		}
	}
	return s.Sync(ctx)
}

// Rematch re-enriches the stored allotments after the reference region's
// catalog was replaced. Enrichment from a superseded catalog is never
// assumed stable. Best-effort: failures are logged, never propagated.
func (s *Service) Rematch(ctx context.Context, region string) {
	if region != s.defaultRegion {
		return
	}
	var stored []models.Allotment
	found, err := s.store.GetJSON(ctx, storage.KeyAllotments, &stored)
	if err != nil || !found || len(stored) == 0 {
		return
	}
	catalog := s.referenceCatalog(ctx)
	if len(catalog) == 0 {
		return
	}
	Enrich(stored, catalog)
	if err := s.store.SetJSON(ctx, storage.KeyAllotments, stored, 0); err != nil {
		s.log.Warnw("store rematched allotments", "error", err)
		return
	}
	s.log.Infow("allotments rematched", "region", region, "count", len(stored))
}

func (s *Service) saveManual(ctx context.Context) models.SyncResult {
	manual := ManualAllotments()
	if err := s.store.SetJSON(ctx, storage.KeyAllotmentsManual, manual, 0); err != nil {
		return models.SyncResult{Message: fmt.Sprintf("Error storing manual allotments: %v", err)}
	}
	if err := s.save(ctx, manual, "manual"); err != nil {
		return models.SyncResult{Message: fmt.Sprintf("Error storing allotments: %v", err)}
	}
	return models.SyncResult{
		Success: true,
		Message: fmt.Sprintf("Using manual allotments data (%d items)", len(manual)),
		Count:   len(manual),
	}
}

func (s *Service) save(ctx context.Context, allotments []models.Allotment, source string) error {
	var previous []models.Allotment
	if _, err := s.store.GetJSON(ctx, storage.KeyAllotments, &previous); err != nil {
		s.log.Warnw("load previous allotments for diff", "error", err)
	}

	Enrich(allotments, s.referenceCatalog(ctx))

	if err := s.store.SetJSON(ctx, storage.KeyAllotments, allotments, 0); err != nil {
		return fmt.Errorf("store allotments: %w", err)
	}
	meta := models.AllotmentMetadata{
		LastSync:        time.Now().UTC().Format(time.RFC3339),
		AllotmentsCount: len(allotments),
		Source:          source,
		SourceURL:       AllotmentsURL,
	}
	if err := s.store.SetJSON(ctx, storage.KeyAllotmentsMetadata, meta, 0); err != nil {
		s.log.Errorw("store allotments metadata", "error", err)
	}

	if err := s.changeLog.RecordAllotmentsDiff(ctx, previous, allotments); err != nil {
		s.log.Warnw("record allotments diff", "error", err)
	}
	s.log.Infow("allotments stored", "source", source, "count", len(allotments))
	return nil
}

func (s *Service) referenceCatalog(ctx context.Context) []models.PricingItem {
	var catalog []models.PricingItem
	if _, err := s.store.GetJSON(ctx, storage.PricingKey(s.defaultRegion), &catalog); err != nil {
		s.log.Warnw("load reference catalog", "region", s.defaultRegion, "error", err)
	}
	return catalog
}
