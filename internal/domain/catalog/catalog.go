package catalog

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrInconsistentCatalog is returned by Validate when services and products disagree
var ErrInconsistentCatalog = errors.New("inconsistent catalog")

// Catalog is an immutable, ordered set of products and inspection services.
type Catalog struct {
	products      []Product
	services      []InspectionService
	productIndex  map[string]int
	serviceIndex  map[string]int
	productOrder  map[string]int
	needlesByProd [][]string
}

// New builds a catalog. Inputs are copied.
func New(products []Product, services []InspectionService) *Catalog {
	c := &Catalog{
		products:     make([]Product, len(products)),
		services:     make([]InspectionService, len(services)),
		productIndex: make(map[string]int, len(products)),
		serviceIndex: make(map[string]int, len(services)),
		productOrder: make(map[string]int, len(products)),
	}

	for i, p := range products {
		p.Aliases = append([]string(nil), p.Aliases...)
		c.products[i] = p
		if _, dup := c.productIndex[p.ID]; !dup {
			c.productIndex[p.ID] = i
			c.productOrder[p.ID] = i
		}

		needles := make([]string, 0, len(p.Aliases)+1)
		needles = append(needles, strings.ToLower(p.Name))
		for _, a := range p.Aliases {
			needles = append(needles, strings.ToLower(a))
		}
		c.needlesByProd = append(c.needlesByProd, needles)
	}

	for i, s := range services {
		s.ProductIDs = append([]string(nil), s.ProductIDs...)
		c.services[i] = s
		if _, dup := c.serviceIndex[s.ID]; !dup {
			c.serviceIndex[s.ID] = i
		}
	}

	return c
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in product and service catalog
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = New(defaultProducts, defaultServices)
	})
	return defaultCatalog
}

// Products returns all products in catalog order
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	for i, p := range c.products {
		p.Aliases = append([]string(nil), p.Aliases...)
		out[i] = p
	}
	return out
}

// Product looks up a product by id
func (c *Catalog) Product(id string) (Product, bool) {
	i, ok := c.productIndex[id]
	if !ok {
		return Product{}, false
	}
	p := c.products[i]
	p.Aliases = append([]string(nil), p.Aliases...)
	return p, true
}

// ProductName returns the display name for id, or id itself when unknown
func (c *Catalog) ProductName(id string) string {
	if i, ok := c.productIndex[id]; ok {
		return c.products[i].Name
	}
	return id
}

// Services returns all inspection services in catalog order
func (c *Catalog) Services() []InspectionService {
	out := make([]InspectionService, len(c.services))
	for i, s := range c.services {
		s.ProductIDs = append([]string(nil), s.ProductIDs...)
		out[i] = s
	}
	return out
}

// Service looks up an inspection service by id
func (c *Catalog) Service(id string) (InspectionService, bool) {
	i, ok := c.serviceIndex[id]
	if !ok {
		return InspectionService{}, false
	}
	s := c.services[i]
	s.ProductIDs = append([]string(nil), s.ProductIDs...)
	return s, true
}

// ServiceFor returns the first service in catalog order that covers productID
func (c *Catalog) ServiceFor(productID string) (InspectionService, bool) {
	for _, s := range c.services {
		if s.Contains(productID) {
			return s, true
		}
	}
	return InspectionService{}, false
}

// Order returns a product's catalog position, or -1 when unknown
func (c *Catalog) Order(productID string) int {
	if i, ok := c.productOrder[productID]; ok {
		return i
	}
	return -1
}

// ByGroup returns products grouped for presentation, in catalog order
func (c *Catalog) ByGroup() map[Group][]Product {
	out := make(map[Group][]Product)
	for _, p := range c.Products() {
		out[p.Group] = append(out[p.Group], p)
	}
	return out
}

// MatchProductsFromText returns ids of catalog products mentioned in text.
// Matching is a case-insensitive substring test on the product name, then its
// aliases. Results follow catalog order with no duplicates.
func (c *Catalog) MatchProductsFromText(text string) []string {
	matched := []string{}
	if text == "" {
		return matched
	}

	haystack := strings.ToLower(text)
	seen := make(map[string]bool)
	for i, p := range c.products {
		if seen[p.ID] {
			continue
		}
		for _, needle := range c.needlesByProd[i] {
			if needle != "" && strings.Contains(haystack, needle) {
				matched = append(matched, p.ID)
				seen[p.ID] = true
				break
			}
		}
	}
	return matched
}

// Validate checks that ids are unique and every service product exists
func (c *Catalog) Validate() error {
	var problems []string

	seen := make(map[string]bool)
	for _, p := range c.products {
		if p.ID == "" || p.Name == "" {
			problems = append(problems, fmt.Sprintf("product %q missing id or name", p.ID))
		}
		if seen[p.ID] {
			problems = append(problems, fmt.Sprintf("duplicate product %s", p.ID))
		}
		seen[p.ID] = true
	}

	seenSvc := make(map[string]bool)
	for _, s := range c.services {
		if seenSvc[s.ID] {
			problems = append(problems, fmt.Sprintf("duplicate service %s", s.ID))
		}
		seenSvc[s.ID] = true
		if len(s.ProductIDs) == 0 {
			problems = append(problems, fmt.Sprintf("service %s covers no products", s.ID))
		}
		for _, id := range s.ProductIDs {
			if !seen[id] {
				problems = append(problems, fmt.Sprintf("service %s references unknown product %s", s.ID, id))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInconsistentCatalog, strings.Join(problems, "; "))
	}
	return nil
}
