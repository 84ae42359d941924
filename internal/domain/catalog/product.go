package catalog

// Group is a presentation grouping for products. It has no pricing meaning.
type Group string

const (
	GroupDrainage      Group = "drainage"
	GroupWaterproofing Group = "waterproofing"
	GroupCrawlspace    Group = "crawlspace"
	GroupStructural    Group = "structural"
	GroupWallRepair    Group = "wall_repair"
	GroupFloorSupport  Group = "floor_support"
)

// Product is an installable item a job can include.
type Product struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Unit    string   `json:"unit,omitempty"`
	Aliases []string `json:"aliases,omitempty"`
	Group   Group    `json:"group"`
}

// InspectionService is a billable inspection covering a set of products.
// A product may appear under more than one service; the first service in
// catalog order wins.
type InspectionService struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ProductIDs []string `json:"product_ids"`
}

// Contains reports whether the service covers productID
func (s InspectionService) Contains(productID string) bool {
	for _, id := range s.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
