package quotes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/wenwu/saas-platform/pricing-service/internal/allotments"
	"github.com/wenwu/saas-platform/pricing-service/internal/models"
	"github.com/wenwu/saas-platform/pricing-service/internal/pricing"
	"github.com/wenwu/saas-platform/pricing-service/internal/storage"
)

// Tagged failures, mapped to HTTP statuses at the handler layer only.
var (
	ErrQuoteNotFound    = errors.New("quote not found")
	ErrPasswordRequired = errors.New("password required")
	ErrInvalidPassword  = errors.New("invalid password")
)

// Storage usage thresholds: crossing the warning ratio logs and continues,
// crossing the critical ratio triggers aggressive eviction before the write.
const (
	usageWarnRatio     = 0.80
	usageCriticalRatio = 0.95
)

// Service is the quote engine: pricing resolution against the catalog,
// lifecycle, password protection and eviction.
type Service struct {
	store       storage.Store
	pricingSvc  *pricing.Service
	allotSvc    *allotments.Service
	maxQuotes   int
	quoteTTL    time.Duration
	storageType string
	log         *zap.SugaredLogger
}

func NewService(store storage.Store, pricingSvc *pricing.Service, allotSvc *allotments.Service,
	maxQuotes int, quoteTTL time.Duration, storageType string, log *zap.SugaredLogger) *Service {
	return &Service{
		store:       store,
		pricingSvc:  pricingSvc,
		allotSvc:    allotSvc,
		maxQuotes:   maxQuotes,
		quoteTTL:    quoteTTL,
		storageType: storageType,
		log:         log,
	}
}

// Create resolves the requested items against the region's current catalog
// and persists a new quote. Unresolvable items become zero-priced lines
// rather than failing the whole quote.
func (s *Service) Create(ctx context.Context, req models.QuoteCreateRequest) (*models.Quote, error) {
	s.checkCapacity(ctx)

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	quote := &models.Quote{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Region:      req.Region,
		BillingType: req.BillingType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if quote.Name == "" {
		quote.Name = fmt.Sprintf("Quote %s", id[:8])
	}

	if req.EditPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.EditPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash edit password: %w", err)
		}
		quote.EditPasswordHash = string(hash)
	}

	if err := s.priceItems(ctx, quote, req.Items); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, quote, true); err != nil {
		return nil, err
	}
	s.log.Infow("quote created", "id", quote.ID, "items", len(quote.Items), "protected", quote.IsProtected)
	return quote, nil
}

// Update recomputes a quote in place. A protected quote requires the
// matching plaintext password; protection state and created_at are
// preserved verbatim, an update never sets a new password.
func (s *Service) Update(ctx context.Context, id string, req models.QuoteUpdateRequest) (*models.Quote, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.EditPasswordHash != "" {
		if req.EditPassword == "" {
			return nil, ErrPasswordRequired
		}
		if bcrypt.CompareHashAndPassword([]byte(existing.EditPasswordHash), []byte(req.EditPassword)) != nil {
			return nil, ErrInvalidPassword
		}
	}

	quote := &models.Quote{
		ID:               id,
		Name:             req.Name,
		Description:      req.Description,
		Region:           req.Region,
		BillingType:      req.BillingType,
		CreatedAt:        existing.CreatedAt,
		UpdatedAt:        time.Now().UTC().Format(time.RFC3339),
		EditPasswordHash: existing.EditPasswordHash,
	}
	if quote.Name == "" {
		quote.Name = existing.Name
	}

	if err := s.priceItems(ctx, quote, req.Items); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, quote, false); err != nil {
		return nil, err
	}
	s.log.Infow("quote updated", "id", id)
	return quote, nil
}

// Get loads a quote by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Quote, error) {
	var quote models.Quote
	found, err := s.store.GetJSON(ctx, storage.QuoteKey(id), &quote)
	if err != nil {
		return nil, fmt.Errorf("load quote %s: %w", id, err)
	}
	if !found {
		return nil, ErrQuoteNotFound
	}
	return &quote, nil
}

// VerifyPassword checks a plaintext password against a quote's hash. An
// unprotected quote is always valid.
func (s *Service) VerifyPassword(ctx context.Context, id, password string) (*models.VerifyPasswordResponse, error) {
	quote, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.EditPasswordHash == "" {
		return &models.VerifyPasswordResponse{Valid: true, Message: "Quote is not protected"}, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(quote.EditPasswordHash), []byte(password)) != nil {
		return &models.VerifyPasswordResponse{Valid: false, Message: "Invalid password"}, nil
	}
	return &models.VerifyPasswordResponse{Valid: true, Message: "Password is valid"}, nil
}

// Delete removes a quote and its index entry, reporting whether anything
// was actually deleted.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	existed, err := s.store.Delete(ctx, storage.QuoteKey(id))
	if err != nil {
		return false, fmt.Errorf("delete quote %s: %w", id, err)
	}
	if err := s.store.RemoveFromIndex(ctx, storage.KeyQuotesIndex, id); err != nil {
		return existed, fmt.Errorf("unindex quote %s: %w", id, err)
	}
	return existed, nil
}

// List returns all quotes newest-first by creation order. Index entries
// whose record is gone (e.g. expired by TTL) are pruned as housekeeping.
func (s *Service) List(ctx context.Context) ([]models.Quote, error) {
	ids, err := s.store.GetIndex(ctx, storage.KeyQuotesIndex)
	if err != nil {
		return nil, fmt.Errorf("read quotes index: %w", err)
	}

	quotes := make([]models.Quote, 0, len(ids))
	for _, id := range ids {
		var quote models.Quote
		found, err := s.store.GetJSON(ctx, storage.QuoteKey(id), &quote)
		if err != nil {
			return nil, err
		}
		if !found {
			_ = s.store.RemoveFromIndex(ctx, storage.KeyQuotesIndex, id)
			continue
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}

// Stats summarizes the stored quotes.
func (s *Service) Stats(ctx context.Context) (*models.QuoteStats, error) {
	quotes, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := &models.QuoteStats{
		TotalQuotes: len(quotes),
		MaxQuotes:   s.maxQuotes,
		StorageType: s.storageType,
	}
	for _, q := range quotes {
		if q.IsProtected {
			stats.ProtectedQuotes++
		}
	}
	return stats, nil
}

// Cleanup reconciles the index against actual existence, then evicts the
// oldest quotes by creation order until at most max remain. Pruned dangling
// entries are housekeeping, not deletions.
func (s *Service) Cleanup(ctx context.Context, max int) (*models.CleanupResult, error) {
	if max <= 0 {
		max = s.maxQuotes
	}

	result := &models.CleanupResult{}
	ids, err := s.store.GetIndex(ctx, storage.KeyQuotesIndex)
	if err != nil {
		return nil, fmt.Errorf("read quotes index: %w", err)
	}
	for _, id := range ids {
		exists, err := s.store.Exists(ctx, storage.QuoteKey(id))
		if err != nil {
			return nil, err
		}
		if !exists {
			_ = s.store.RemoveFromIndex(ctx, storage.KeyQuotesIndex, id)
			result.Pruned++
		}
	}

	count, err := s.store.CountIndex(ctx, storage.KeyQuotesIndex)
	if err != nil {
		return nil, fmt.Errorf("count quotes index: %w", err)
	}
	if surplus := count - int64(max); surplus > 0 {
		oldest, err := s.store.OldestN(ctx, storage.KeyQuotesIndex, surplus)
		if err != nil {
			return nil, err
		}
		for _, id := range oldest {
			deleted, err := s.Delete(ctx, id)
			if err != nil {
				return nil, err
			}
			if deleted {
				result.Deleted++
			}
		}
		count -= int64(len(oldest))
	}
	result.Remaining = int(count)

	if result.Deleted > 0 || result.Pruned > 0 {
		s.log.Infow("quotes cleanup", "deleted", result.Deleted, "pruned", result.Pruned, "remaining", result.Remaining)
	}
	return result, nil
}

// priceItems resolves every requested line against the region's catalog and
// fills in per-line and aggregate totals for all three billing types, so the
// consumer can switch billing type without re-resolving.
func (s *Service) priceItems(ctx context.Context, quote *models.Quote, reqs []models.QuoteItemRequest) error {
	catalog, err := s.pricingSvc.Pricing(ctx, quote.Region)
	if err != nil {
		s.log.Warnw("load catalog for quote, pricing lines as unknown", "region", quote.Region, "error", err)
		catalog = nil
	}
	allAllotments, err := s.allotSvc.All(ctx)
	if err != nil {
		s.log.Warnw("load allotments for quote", "error", err)
		allAllotments = nil
	}

	items := make([]models.QuoteLineItem, 0, len(reqs))
	sumAnnually, sumMonthly, sumOnDemand := decimal.Zero, decimal.Zero, decimal.Zero

	for _, req := range reqs {
		line := s.buildLine(req, catalog, allAllotments, quote.BillingType)
		items = append(items, line)
		sumAnnually = sumAnnually.Add(decimal.NewFromFloat(line.TotalPriceAnnually))
		sumMonthly = sumMonthly.Add(decimal.NewFromFloat(line.TotalPriceMonthly))
		sumOnDemand = sumOnDemand.Add(decimal.NewFromFloat(line.TotalPriceOnDemand))
	}

	quote.Items = items
	quote.TotalAnnually = sumAnnually.InexactFloat64()
	quote.TotalMonthly = sumMonthly.InexactFloat64()
	quote.TotalOnDemand = sumOnDemand.InexactFloat64()
	switch quote.BillingType {
	case models.BillingMonthly:
		quote.Total = quote.TotalMonthly
	case models.BillingOnDemand:
		quote.Total = quote.TotalOnDemand
	default:
		quote.Total = quote.TotalAnnually
	}
	return nil
}

func (s *Service) buildLine(req models.QuoteItemRequest, catalog []models.PricingItem,
	allAllotments []models.Allotment, billingType string) models.QuoteLineItem {

	line := models.QuoteLineItem{
		Product:     req.Product,
		BillingUnit: "per unit",
		Quantity:    req.Quantity,
		IsAllotment: req.IsAllotment,
	}
	if line.Quantity < 0 {
		line.Quantity = 0
	}

	product := resolveProduct(req, catalog)
	if product != nil {
		line.ID = product.ID
		line.Product = product.Product
		line.BillingUnit = product.BillingUnit
		line.UnitPriceAnnually = pricing.ParsePrice(priceString(product.BilledAnnually, product.BilledAnnually))
		line.UnitPriceMonthly = pricing.ParsePrice(priceString(product.BilledMonthToMonth, product.BilledAnnually))
		line.UnitPriceOnDemand = pricing.ParsePrice(priceString(product.OnDemand, product.BilledAnnually))
	}

	qty := decimal.NewFromInt(int64(line.Quantity))
	line.TotalPriceAnnually = decimal.NewFromFloat(line.UnitPriceAnnually).Mul(qty).InexactFloat64()
	line.TotalPriceMonthly = decimal.NewFromFloat(line.UnitPriceMonthly).Mul(qty).InexactFloat64()
	line.TotalPriceOnDemand = decimal.NewFromFloat(line.UnitPriceOnDemand).Mul(qty).InexactFloat64()

	switch billingType {
	case models.BillingMonthly:
		line.UnitPrice, line.TotalPrice = line.UnitPriceMonthly, line.TotalPriceMonthly
	case models.BillingOnDemand:
		line.UnitPrice, line.TotalPrice = line.UnitPriceOnDemand, line.TotalPriceOnDemand
	default:
		line.UnitPrice, line.TotalPrice = line.UnitPriceAnnually, line.TotalPriceAnnually
	}

	for _, a := range allAllotments {
		if strings.EqualFold(a.ParentProduct, line.Product) {
			line.Allotments = append(line.Allotments, models.AllotmentInfo{
				ID:               a.AllottedProductID,
				AllottedProduct:  a.AllottedProduct,
				QuantityIncluded: a.QuantityPerParent,
				AllottedUnit:     a.AllottedUnit,
			})
		}
	}
	return line
}

// resolveProduct tries the catalog ID first, then a case-insensitive name
// match. Nil means an unknown product, priced as zero.
func resolveProduct(req models.QuoteItemRequest, catalog []models.PricingItem) *models.PricingItem {
	if req.ProductID != "" {
		for i := range catalog {
			if catalog[i].ID == req.ProductID {
				return &catalog[i]
			}
		}
	}
	if req.Product != "" {
		for i := range catalog {
			if strings.EqualFold(catalog[i].Product, req.Product) {
				return &catalog[i]
			}
		}
	}
	return nil
}

// priceString falls back to the annual column when the requested column is
// absent, matching how the catalog is published.
func priceString(preferred, fallback *string) string {
	if preferred != nil && *preferred != "" {
		return *preferred
	}
	if fallback != nil {
		return *fallback
	}
	return ""
}

func (s *Service) persist(ctx context.Context, quote *models.Quote, isNew bool) error {
	// Protection is derived from the hash on every save; a stored flag is
	// never trusted on its own.
	quote.IsProtected = quote.EditPasswordHash != ""

	if err := s.store.SetJSON(ctx, storage.QuoteKey(quote.ID), quote, s.quoteTTL); err != nil {
		return fmt.Errorf("store quote %s: %w", quote.ID, err)
	}
	if isNew {
		if err := s.store.AddToIndex(ctx, storage.KeyQuotesIndex, quote.ID, storage.NowScore()); err != nil {
			return fmt.Errorf("index quote %s: %w", quote.ID, err)
		}
	}
	return nil
}

// checkCapacity inspects backend usage before a write. Crossing the warning
// ratio logs; crossing the critical ratio evicts aggressively down to half
// the configured ceiling.
func (s *Service) checkCapacity(ctx context.Context) {
	ratio, err := s.store.UsageRatio(ctx)
	if err != nil {
		s.log.Warnw("read storage usage", "error", err)
		return
	}
	switch {
	case ratio >= usageCriticalRatio:
		s.log.Errorw("storage critically full, evicting oldest quotes", "usage", ratio)
		if _, err := s.Cleanup(ctx, s.maxQuotes/2); err != nil {
			s.log.Errorw("aggressive cleanup failed", "error", err)
		}
	case ratio >= usageWarnRatio:
		s.log.Warnw("storage usage above warning threshold", "usage", ratio)
	}
}
