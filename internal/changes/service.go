package changes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wenwu/saas-platform/pricing-service/internal/models"
	"github.com/wenwu/saas-platform/pricing-service/internal/storage"
)

// maxRecords caps the change history; the oldest surplus is pruned after
// every append.
const maxRecords = 200

// Service keeps an append-only history of catalog and allotment diffs.
type Service struct {
	store storage.Store
	log   *zap.SugaredLogger
}

func NewService(store storage.Store, log *zap.SugaredLogger) *Service {
	return &Service{store: store, log: log}
}

// RecordPricingDiff diffs two catalog snapshots by product ID and appends a
// change record when anything differs. An empty previous snapshot (first
// sync) records every product as added.
func (s *Service) RecordPricingDiff(ctx context.Context, region string, previous, current []models.PricingItem) error {
	prevByID := make(map[string]models.PricingItem, len(previous))
	for _, item := range previous {
		prevByID[item.ID] = item
	}

	rec := models.ChangeRecord{
		Kind:   models.ChangeKindPricing,
		Region: region,
	}

	currentIDs := make(map[string]struct{}, len(current))
	for _, item := range current {
		currentIDs[item.ID] = struct{}{}
		prev, existed := prevByID[item.ID]
		if !existed {
			rec.Added = append(rec.Added, item.Product)
			continue
		}
		rec.Changed = append(rec.Changed, priceFieldChanges(prev, item)...)
	}
	for _, item := range previous {
		if _, still := currentIDs[item.ID]; !still {
			rec.Removed = append(rec.Removed, item.Product)
		}
	}

	if len(rec.Added) == 0 && len(rec.Removed) == 0 && len(rec.Changed) == 0 {
		return nil
	}
	return s.append(ctx, rec)
}

// RecordAllotmentsDiff diffs two allotment snapshots by their
// (parent, allotted) identity.
func (s *Service) RecordAllotmentsDiff(ctx context.Context, previous, current []models.Allotment) error {
	key := func(a models.Allotment) string { return a.ParentProduct + "|" + a.AllottedProduct }

	prevKeys := make(map[string]struct{}, len(previous))
	for _, a := range previous {
		prevKeys[key(a)] = struct{}{}
	}
	currKeys := make(map[string]struct{}, len(current))

	rec := models.ChangeRecord{Kind: models.ChangeKindAllotments}
	for _, a := range current {
		currKeys[key(a)] = struct{}{}
		if _, existed := prevKeys[key(a)]; !existed {
			rec.Added = append(rec.Added, key(a))
		}
	}
	for _, a := range previous {
		if _, still := currKeys[key(a)]; !still {
			rec.Removed = append(rec.Removed, key(a))
		}
	}

	if len(rec.Added) == 0 && len(rec.Removed) == 0 {
		return nil
	}
	return s.append(ctx, rec)
}

// List returns change records newest-first, optionally filtered by kind.
// Dangling index entries (expired or lost records) are pruned in passing.
func (s *Service) List(ctx context.Context, kind string) ([]models.ChangeRecord, error) {
	ids, err := s.store.GetIndex(ctx, storage.KeyChangesIndex)
	if err != nil {
		return nil, fmt.Errorf("read changes index: %w", err)
	}

	records := make([]models.ChangeRecord, 0, len(ids))
	for _, id := range ids {
		var rec models.ChangeRecord
		found, err := s.store.GetJSON(ctx, storage.ChangeKey(id), &rec)
		if err != nil {
			return nil, err
		}
		if !found {
			_ = s.store.RemoveFromIndex(ctx, storage.KeyChangesIndex, id)
			continue
		}
		if kind != "" && rec.Kind != kind {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Summary aggregates the stored history.
func (s *Service) Summary(ctx context.Context) (*models.ChangesSummary, error) {
	records, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}

	summary := &models.ChangesSummary{TotalRecords: len(records)}
	for _, rec := range records {
		switch rec.Kind {
		case models.ChangeKindPricing:
			summary.PricingRecords++
		case models.ChangeKindAllotments:
			summary.AllotmentRecords++
		}
	}
	if len(records) > 0 {
		summary.LatestTimestamp = &records[0].Timestamp
	}
	return summary, nil
}

func (s *Service) append(ctx context.Context, rec models.ChangeRecord) error {
	rec.ID = uuid.NewString()
	rec.Timestamp = time.Now().UTC().Format(time.RFC3339)

	if err := s.store.SetJSON(ctx, storage.ChangeKey(rec.ID), rec, 0); err != nil {
		return fmt.Errorf("store change record: %w", err)
	}
	if err := s.store.AddToIndex(ctx, storage.KeyChangesIndex, rec.ID, storage.NowScore()); err != nil {
		return fmt.Errorf("index change record: %w", err)
	}
	s.log.Infow("recorded change",
		"kind", rec.Kind, "region", rec.Region,
		"added", len(rec.Added), "removed", len(rec.Removed), "changed", len(rec.Changed))

	s.prune(ctx)
	return nil
}

func (s *Service) prune(ctx context.Context) {
	count, err := s.store.CountIndex(ctx, storage.KeyChangesIndex)
	if err != nil || count <= maxRecords {
		return
	}
	oldest, err := s.store.OldestN(ctx, storage.KeyChangesIndex, count-maxRecords)
	if err != nil {
		return
	}
	for _, id := range oldest {
		_, _ = s.store.Delete(ctx, storage.ChangeKey(id))
		_ = s.store.RemoveFromIndex(ctx, storage.KeyChangesIndex, id)
	}
}

func priceFieldChanges(prev, curr models.PricingItem) []models.ProductChange {
	var out []models.ProductChange
	compare := func(field string, before, after *string) {
		if strValue(before) != strValue(after) {
			out = append(out, models.ProductChange{
				ID:      curr.ID,
				Product: curr.Product,
				Field:   field,
				Old:     strValue(before),
				New:     strValue(after),
			})
		}
	}
	compare("billed_annually", prev.BilledAnnually, curr.BilledAnnually)
	compare("billed_month_to_month", prev.BilledMonthToMonth, curr.BilledMonthToMonth)
	compare("on_demand", prev.OnDemand, curr.OnDemand)
	return out
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
