package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/foundationpro/inspection-billing/internal/domain/pricing"
)

func TestPricingService_Quote(t *testing.T) {
	svc := NewPricingService(pricing.Default())

	q := svc.Quote([]string{"wall_anchors", "wall_braces", "wall_pins", "sump_pump"}, 4)

	assert.Len(t, q.Services, 3)
	assert.Equal(t, "drainage_inspection", q.Services[0].ServiceID)
	assert.Equal(t, int64(300), q.Services[0].Price)
	assert.Equal(t, 4, q.Services[1].ProductionDays)
	assert.Equal(t, int64(4*600+400), q.Services[1].Price)
	assert.Equal(t, int64(400), q.Services[2].Price)
	assert.Equal(t, int64(300+2800+400), q.Total)

	assert.Len(t, q.Systems, 1)
	assert.False(t, q.Systems[0].IsComplete)
}

func TestPricingService_EmptyQuote(t *testing.T) {
	q := NewPricingService(pricing.Default()).Quote(nil, 0)
	assert.Empty(t, q.Services)
	assert.Equal(t, int64(0), q.Total)
	assert.NotNil(t, q.ProductIDs)
}

func TestPricingService_Passthrough(t *testing.T) {
	svc := NewPricingService(pricing.Default())

	assert.Equal(t, []string{"sump_pump"}, svc.MatchText("new sump pump"))
	assert.Len(t, svc.CalculateServices([]string{"push_piers"}), 1)
	assert.Equal(t, int64(1000), svc.Price(pricing.CalculatedService{Category: pricing.CategoryCSI, BasePrice: 400}, 1))
	assert.NotNil(t, svc.Catalog())
}
