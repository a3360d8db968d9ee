package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wenwu/saas-platform/pricing-service/internal/allotments"
	"github.com/wenwu/saas-platform/pricing-service/internal/changes"
	"github.com/wenwu/saas-platform/pricing-service/internal/models"
	"github.com/wenwu/saas-platform/pricing-service/internal/pricing"
	"github.com/wenwu/saas-platform/pricing-service/internal/quotes"
	"github.com/wenwu/saas-platform/pricing-service/internal/templates"
)

type Handler struct {
	pricingService   *pricing.Service
	allotmentService *allotments.Service
	quoteService     *quotes.Service
	templateService  *templates.Service
	changeService    *changes.Service
	defaultRegion    string
}

func NewHandler(pricingService *pricing.Service, allotmentService *allotments.Service,
	quoteService *quotes.Service, templateService *templates.Service,
	changeService *changes.Service, defaultRegion string) *Handler {
	return &Handler{
		pricingService:   pricingService,
		allotmentService: allotmentService,
		quoteService:     quoteService,
		templateService:  templateService,
		changeService:    changeService,
		defaultRegion:    defaultRegion,
	}
}

// region returns the region query parameter, defaulting to the configured
// region when absent.
func (h *Handler) region(c *gin.Context) string {
	if region := c.Query("region"); region != "" {
		return region
	}
	return h.defaultRegion
}

// ==================== Pricing Handlers ====================

func (h *Handler) GetRegions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"regions": h.pricingService.Regions()})
}

func (h *Handler) GetRegionStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"regions": h.pricingService.RegionStatus(c.Request.Context())})
}

func (h *Handler) GetPricing(c *gin.Context) {
	region := h.region(c)
	items, err := h.pricingService.Pricing(c.Request.Context(), region)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"region": region, "count": len(items), "items": items})
}

func (h *Handler) GetPricingMetadata(c *gin.Context) {
	meta, err := h.pricingService.Metadata(c.Request.Context(), h.region(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if meta == nil {
		c.JSON(http.StatusOK, gin.H{"synced": false})
		return
	}
	c.JSON(http.StatusOK, meta)
}

// SyncPricing triggers a scrape for one region. Sync outcomes are always
// reported in-band with HTTP 200; Success distinguishes them.
func (h *Handler) SyncPricing(c *gin.Context) {
	c.JSON(http.StatusOK, h.pricingService.Sync(c.Request.Context(), h.region(c)))
}

func (h *Handler) SyncAllPricing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"results": h.pricingService.SyncAll(c.Request.Context())})
}

func (h *Handler) GetProducts(c *gin.Context) {
	region := h.region(c)
	products, err := h.pricingService.Products(c.Request.Context(), region)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"region": region, "count": len(products), "products": products})
}

func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.pricingService.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) GetCategoriesOrder(c *gin.Context) {
	order, err := h.pricingService.CategoriesOrder(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *Handler) SyncCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.pricingService.SyncCategories(c.Request.Context()))
}

// ==================== Quote Handlers ====================

func (h *Handler) CreateQuote(c *gin.Context) {
	var req models.QuoteCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Region == "" {
		req.Region = h.defaultRegion
	}

	quote, err := h.quoteService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *Handler) ListQuotes(c *gin.Context) {
	list, err := h.quoteService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "quotes": list})
}

func (h *Handler) GetQuote(c *gin.Context) {
	quote, err := h.quoteService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.quoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *Handler) UpdateQuote(c *gin.Context) {
	var req models.QuoteUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Region == "" {
		req.Region = h.defaultRegion
	}

	quote, err := h.quoteService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.quoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *Handler) DeleteQuote(c *gin.Context) {
	deleted, err := h.quoteService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "quote not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) VerifyQuotePassword(c *gin.Context) {
	var req models.VerifyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.quoteService.VerifyPassword(c.Request.Context(), c.Param("id"), req.Password)
	if err != nil {
		h.quoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetQuoteStats(c *gin.Context) {
	stats, err := h.quoteService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) CleanupQuotes(c *gin.Context) {
	max := 0
	if raw := c.Query("max_quotes"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_quotes must be an integer"})
			return
		}
		max = parsed
	}

	result, err := h.quoteService.Cleanup(c.Request.Context(), max)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// quoteError maps the quote engine's tagged failures to HTTP statuses.
func (h *Handler) quoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, quotes.ErrQuoteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "quote not found"})
	case errors.Is(err, quotes.ErrPasswordRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": "password required"})
	case errors.Is(err, quotes.ErrInvalidPassword):
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid password"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// ==================== Allotment Handlers ====================

func (h *Handler) GetAllotments(c *gin.Context) {
	list, err := h.allotmentService.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "allotments": list})
}

func (h *Handler) GetAllotmentsMetadata(c *gin.Context) {
	meta, err := h.allotmentService.Metadata(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if meta == nil {
		c.JSON(http.StatusOK, gin.H{"synced": false})
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (h *Handler) GetAllotmentsForProduct(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product name required"})
		return
	}
	list, err := h.allotmentService.ForProduct(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": name, "count": len(list), "allotments": list})
}

func (h *Handler) SyncAllotments(c *gin.Context) {
	c.JSON(http.StatusOK, h.allotmentService.Sync(c.Request.Context()))
}

func (h *Handler) InitAllotments(c *gin.Context) {
	c.JSON(http.StatusOK, h.allotmentService.Init(c.Request.Context()))
}

// ==================== Change History Handlers ====================

func (h *Handler) GetChanges(c *gin.Context) {
	h.listChanges(c, "")
}

func (h *Handler) GetPricingChanges(c *gin.Context) {
	h.listChanges(c, models.ChangeKindPricing)
}

func (h *Handler) GetAllotmentChanges(c *gin.Context) {
	h.listChanges(c, models.ChangeKindAllotments)
}

func (h *Handler) listChanges(c *gin.Context, kind string) {
	records, err := h.changeService.List(c.Request.Context(), kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "changes": records})
}

func (h *Handler) GetChangesSummary(c *gin.Context) {
	summary, err := h.changeService.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ==================== Template Handlers ====================

func (h *Handler) ListTemplates(c *gin.Context) {
	list, err := h.templateService.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "templates": list})
}

func (h *Handler) GetTemplate(c *gin.Context) {
	tpl, err := h.templateService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, templates.ErrTemplateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (h *Handler) SyncTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, h.templateService.SyncFromFiles(c.Request.Context()))
}
