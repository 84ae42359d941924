package service

import (
	"github.com/foundationpro/inspection-billing/internal/domain/catalog"
	"github.com/foundationpro/inspection-billing/internal/domain/pricing"
)

// PricedService is a calculated service with its final price for a given
// number of production days
type PricedService struct {
	pricing.CalculatedService
	ProductionDays int   `json:"production_days"`
	Price          int64 `json:"price"`
}

// Quote is the full pricing breakdown for a product list
type Quote struct {
	ProductIDs     []string              `json:"product_ids"`
	ProductionDays int                   `json:"production_days"`
	Systems        []pricing.SystemMatch `json:"systems"`
	Services       []PricedService       `json:"services"`
	Total          int64                 `json:"total"`
}

// PricingService exposes the pricing engine to the API and to other services
type PricingService interface {
	Quote(productIDs []string, productionDays int) *Quote
	CalculateServices(productIDs []string) []pricing.CalculatedService
	DetectSystems(productIDs []string) []pricing.SystemMatch
	Price(svc pricing.CalculatedService, productionDays int) int64
	MatchText(text string) []string
	Catalog() *catalog.Catalog
	Systems() []pricing.System
}

type pricingServiceImpl struct {
	engine *pricing.Engine
}

// NewPricingService creates a new PricingService
func NewPricingService(engine *pricing.Engine) PricingService {
	return &pricingServiceImpl{engine: engine}
}

func (s *pricingServiceImpl) Quote(productIDs []string, productionDays int) *Quote {
	services := s.engine.CalculateInspectionServices(productIDs)

	q := &Quote{
		ProductIDs:     append([]string{}, productIDs...),
		ProductionDays: productionDays,
		Systems:        s.engine.DetectTPISystems(productIDs),
		Services:       make([]PricedService, 0, len(services)),
	}
	for _, svc := range services {
		days := 0
		if svc.RequiresProductionDays {
			days = productionDays
		}
		price := pricing.CalculateServicePrice(svc, days)
		q.Services = append(q.Services, PricedService{
			CalculatedService: svc,
			ProductionDays:    days,
			Price:             price,
		})
		q.Total += price
	}
	return q
}

func (s *pricingServiceImpl) CalculateServices(productIDs []string) []pricing.CalculatedService {
	return s.engine.CalculateInspectionServices(productIDs)
}

func (s *pricingServiceImpl) DetectSystems(productIDs []string) []pricing.SystemMatch {
	return s.engine.DetectTPISystems(productIDs)
}

func (s *pricingServiceImpl) Price(svc pricing.CalculatedService, productionDays int) int64 {
	return pricing.CalculateServicePrice(svc, productionDays)
}

func (s *pricingServiceImpl) MatchText(text string) []string {
	return s.engine.MatchProductsFromText(text)
}

func (s *pricingServiceImpl) Catalog() *catalog.Catalog {
	return s.engine.Catalog()
}

func (s *pricingServiceImpl) Systems() []pricing.System {
	return s.engine.Systems()
}
