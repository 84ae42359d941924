package pricing

// Category is the inspection billing category.
type Category string

const (
	// CategoryTPI is a third-party inspection, billed per product
	CategoryTPI Category = "TPI"
	// CategoryCSI is a continuous special inspection, billed by production day
	CategoryCSI Category = "CSI"
	// CategoryPSI is a periodic special inspection, billed flat
	CategoryPSI Category = "PSI"
)

// Prices are whole currency units.
const (
	TPIUnitPrice      int64 = 300
	SystemFlatPrice   int64 = 300
	CSIBasePrice      int64 = 400
	PSIBasePrice      int64 = 400
	ProductionDayRate int64 = 600
)

// System is a set of products that is inspected and billed as one unit when
// all of them are installed together.
type System struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ProductIDs []string `json:"product_ids"`
}

// SystemMatch reports how much of a system an input covers.
type SystemMatch struct {
	System     string   `json:"system"`
	Matched    []string `json:"matched"`
	Required   []string `json:"required"`
	IsComplete bool     `json:"is_complete"`
}

// CalculatedService is one billable inspection derived from a product list.
type CalculatedService struct {
	ServiceID              string   `json:"service_id"`
	ServiceName            string   `json:"service_name"`
	Category               Category `json:"category"`
	Products               []string `json:"products"`
	BasePrice              int64    `json:"base_price"`
	RequiresProductionDays bool     `json:"requires_production_days"`
	Notes                  string   `json:"notes,omitempty"`
}

// DefaultSystems in detection order.
func DefaultSystems() []System {
	return []System{
		{ID: "encapsulation", Name: "Crawl Space Encapsulation System",
			ProductIDs: []string{"crawlseal_liner", "crawlspace_dehumidifier", "extremebloc_insulation"}},
		{ID: "crawlspace_water_mgmt", Name: "Crawl Space Water Management System",
			ProductIDs: []string{"crawlspace_drain_tile", "crawlspace_sump_pump"}},
		{ID: "basement_water_mgmt_base", Name: "Basement Water Management System",
			ProductIDs: []string{"drain_tile_basement", "sump_pump"}},
	}
}

// DefaultCSIProducts are billed as continuous special inspections.
func DefaultCSIProducts() []string {
	return []string{
		"push_piers", "helical_piers", "slab_piers", "helical_tieback_anchors",
		"wall_anchors", "wall_braces", "carbon_fiber_straps", "intellibrace",
	}
}

// DefaultPSIProducts are billed as periodic special inspections.
func DefaultPSIProducts() []string {
	return []string{"wall_pins", "intellijack", "supplemental_steel_beam"}
}
