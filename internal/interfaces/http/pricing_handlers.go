package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foundationpro/inspection-billing/internal/domain/catalog"
	"github.com/foundationpro/inspection-billing/internal/domain/pricing"
)

// ProductsRequest carries a product id list
type ProductsRequest struct {
	ProductIDs []string `json:"product_ids"`
}

// QuoteRequest carries a product id list and production days
type QuoteRequest struct {
	ProductIDs     []string `json:"product_ids"`
	ProductionDays int      `json:"production_days"`
}

// PriceRequest is the body of POST /api/pricing/price
type PriceRequest struct {
	Service        pricing.CalculatedService `json:"service"`
	ProductionDays int                       `json:"production_days"`
}

// PriceResponse is the price of one service
type PriceResponse struct {
	ServiceID      string `json:"service_id"`
	ProductionDays int    `json:"production_days"`
	Price          int64  `json:"price"`
}

// MatchRequest is the body of POST /api/pricing/match
type MatchRequest struct {
	Text string `json:"text"`
}

// CatalogResponse lists the catalog contents
type CatalogResponse struct {
	Products []catalog.Product           `json:"products"`
	Services []catalog.InspectionService `json:"services"`
	Systems  []pricing.System            `json:"systems"`
}

// CalculateServices handles POST /api/pricing/services
func (h *Handlers) CalculateServices(c *gin.Context) {
	var req ProductsRequest
	if !bindJSON(c, &req) {
		return
	}
	ok(c, http.StatusOK, h.services.Pricing.CalculateServices(req.ProductIDs))
}

// DetectSystems handles POST /api/pricing/systems
func (h *Handlers) DetectSystems(c *gin.Context) {
	var req ProductsRequest
	if !bindJSON(c, &req) {
		return
	}
	ok(c, http.StatusOK, h.services.Pricing.DetectSystems(req.ProductIDs))
}

// PriceService handles POST /api/pricing/price
func (h *Handlers) PriceService(c *gin.Context) {
	var req PriceRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ProductionDays < 0 {
		fail(c, http.StatusBadRequest, "production_days must not be negative")
		return
	}

	ok(c, http.StatusOK, PriceResponse{
		ServiceID:      req.Service.ServiceID,
		ProductionDays: req.ProductionDays,
		Price:          h.services.Pricing.Price(req.Service, req.ProductionDays),
	})
}

// Quote handles POST /api/pricing/quote
func (h *Handlers) Quote(c *gin.Context) {
	var req QuoteRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ProductionDays < 0 {
		fail(c, http.StatusBadRequest, "production_days must not be negative")
		return
	}
	ok(c, http.StatusOK, h.services.Pricing.Quote(req.ProductIDs, req.ProductionDays))
}

// MatchProducts handles POST /api/pricing/match
func (h *Handlers) MatchProducts(c *gin.Context) {
	var req MatchRequest
	if !bindJSON(c, &req) {
		return
	}
	ok(c, http.StatusOK, h.services.Pricing.MatchText(req.Text))
}

// GetCatalog handles GET /api/catalog
func (h *Handlers) GetCatalog(c *gin.Context) {
	cat := h.services.Pricing.Catalog()
	ok(c, http.StatusOK, CatalogResponse{
		Products: cat.Products(),
		Services: cat.Services(),
		Systems:  h.services.Pricing.Systems(),
	})
}
