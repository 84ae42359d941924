package pricing

import (
	"fmt"
	"sort"
	"sync"

	"github.com/foundationpro/inspection-billing/internal/domain/catalog"
)

// Engine derives billable inspection services from installed products. It is
// stateless after construction and safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
	systems []System
	csi     map[string]bool
	psi     map[string]bool
}

// Option customises an Engine
type Option func(*Engine)

// WithSystems replaces the system table
func WithSystems(systems []System) Option {
	return func(e *Engine) {
		e.systems = copySystems(systems)
	}
}

// WithCategories replaces the CSI and PSI product sets
func WithCategories(csi, psi []string) Option {
	return func(e *Engine) {
		e.csi = toSet(csi)
		e.psi = toSet(psi)
	}
}

// NewEngine creates an engine over cat
func NewEngine(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: cat,
		systems: DefaultSystems(),
		csi:     toSet(DefaultCSIProducts()),
		psi:     toSet(DefaultPSIProducts()),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the engine over the built-in catalog
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = NewEngine(catalog.Default())
	})
	return defaultEngine
}

// Catalog returns the catalog the engine prices against
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Systems returns the system table in detection order
func (e *Engine) Systems() []System {
	return copySystems(e.systems)
}

// Classify returns the billing category for a product outside any complete system
func (e *Engine) Classify(productID string) Category {
	switch {
	case e.csi[productID]:
		return CategoryCSI
	case e.psi[productID]:
		return CategoryPSI
	default:
		return CategoryTPI
	}
}

// DetectTPISystems reports every system the input touches, complete or not,
// in system order.
func (e *Engine) DetectTPISystems(productIDs []string) []SystemMatch {
	input := toSet(productIDs)

	matches := []SystemMatch{}
	for _, sys := range e.systems {
		var matched []string
		for _, id := range sys.ProductIDs {
			if input[id] {
				matched = append(matched, id)
			}
		}
		if len(matched) == 0 {
			continue
		}
		matches = append(matches, SystemMatch{
			System:     sys.ID,
			Matched:    matched,
			Required:   append([]string(nil), sys.ProductIDs...),
			IsComplete: len(matched) == len(sys.ProductIDs),
		})
	}
	return matches
}

type groupKey struct {
	serviceID string
	category  Category
}

// CalculateInspectionServices turns an installed product list into billable
// services. Complete systems are billed first as one flat TPI service each;
// remaining products are grouped by their first covering service and
// category. Unknown or uncovered products are dropped. The result does not
// depend on input order.
func (e *Engine) CalculateInspectionServices(productIDs []string) []CalculatedService {
	services := []CalculatedService{}
	processed := make(map[string]bool)

	for _, m := range e.DetectTPISystems(productIDs) {
		if !m.IsComplete {
			continue
		}
		sys := e.system(m.System)
		services = append(services, CalculatedService{
			ServiceID:              sys.ID,
			ServiceName:            sys.Name,
			Category:               CategoryTPI,
			Products:               append([]string(nil), sys.ProductIDs...),
			BasePrice:              SystemFlatPrice,
			RequiresProductionDays: false,
			Notes:                  fmt.Sprintf("Complete %s billed as one inspection", sys.Name),
		})
		for _, id := range sys.ProductIDs {
			processed[id] = true
		}
	}

	var order []groupKey
	groups := make(map[groupKey]*CalculatedService)

	for _, id := range e.canonical(productIDs) {
		if processed[id] {
			continue
		}
		svc, ok := e.catalog.ServiceFor(id)
		if !ok {
			continue
		}

		key := groupKey{serviceID: svc.ID, category: e.Classify(id)}
		g, exists := groups[key]
		if !exists {
			g = &CalculatedService{
				ServiceID:   svc.ID,
				ServiceName: svc.Name,
				Category:    key.category,
			}
			groups[key] = g
			order = append(order, key)
		}
		g.Products = append(g.Products, id)
	}

	for _, key := range order {
		g := groups[key]
		switch g.Category {
		case CategoryCSI:
			g.BasePrice = CSIBasePrice
			g.RequiresProductionDays = true
			g.Notes = fmt.Sprintf("Base fee plus $%d per production day", ProductionDayRate)
		case CategoryPSI:
			g.BasePrice = PSIBasePrice
			g.Notes = "Base + component multipliers"
		default:
			g.BasePrice = TPIUnitPrice * int64(len(g.Products))
			g.Notes = fmt.Sprintf("%d product(s) at $%d each", len(g.Products), TPIUnitPrice)
		}
		services = append(services, *g)
	}

	return services
}

// CalculateServicePrice prices a calculated service. Only CSI services charge
// for production days, and only when productionDays is non-zero.
func CalculateServicePrice(service CalculatedService, productionDays int) int64 {
	if service.Category == CategoryCSI && productionDays != 0 {
		return int64(productionDays)*ProductionDayRate + service.BasePrice
	}
	return service.BasePrice
}

// MatchProductsFromText finds catalog products mentioned in free text
func (e *Engine) MatchProductsFromText(text string) []string {
	return e.catalog.MatchProductsFromText(text)
}

// canonical dedupes ids and orders them by catalog position. Unknown ids sort
// last in input order; they are dropped later for lack of a service.
func (e *Engine) canonical(productIDs []string) []string {
	seen := make(map[string]bool, len(productIDs))
	out := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}

	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := e.catalog.Order(out[i]), e.catalog.Order(out[j])
		if oi < 0 {
			return false
		}
		if oj < 0 {
			return true
		}
		return oi < oj
	})
	return out
}

func (e *Engine) system(id string) System {
	for _, s := range e.systems {
		if s.ID == id {
			return s
		}
	}
	return System{ID: id, Name: id}
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func copySystems(in []System) []System {
	out := make([]System, len(in))
	for i, s := range in {
		s.ProductIDs = append([]string(nil), s.ProductIDs...)
		out[i] = s
	}
	return out
}
