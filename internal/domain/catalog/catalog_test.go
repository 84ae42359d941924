package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Validate(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate_Problems(t *testing.T) {
	c := New(
		[]Product{{ID: "a", Name: "A"}, {ID: "a", Name: "A again"}},
		[]InspectionService{
			{ID: "s1", Name: "S1", ProductIDs: []string{"a", "ghost"}},
			{ID: "s2", Name: "S2"},
		},
	)

	err := c.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInconsistentCatalog)
	assert.Contains(t, err.Error(), "duplicate product a")
	assert.Contains(t, err.Error(), "unknown product ghost")
	assert.Contains(t, err.Error(), "s2 covers no products")
}

func TestServiceFor_FirstMatchWins(t *testing.T) {
	c := Default()

	svc, ok := c.ServiceFor("drain_tile_basement")
	require.True(t, ok)
	assert.Equal(t, "drainage_inspection", svc.ID)

	svc, ok = c.ServiceFor("helical_tieback_anchors")
	require.True(t, ok)
	assert.Equal(t, "pier_inspection", svc.ID)

	_, ok = c.ServiceFor("gutter_extension")
	assert.False(t, ok)
}

func TestLookups(t *testing.T) {
	c := Default()

	p, ok := c.Product("intellijack")
	require.True(t, ok)
	assert.Equal(t, "IntelliJack", p.Name)
	assert.Equal(t, GroupFloorSupport, p.Group)

	_, ok = c.Product("nope")
	assert.False(t, ok)

	assert.Equal(t, "Sump Pump", c.ProductName("sump_pump"))
	assert.Equal(t, "nope", c.ProductName("nope"))

	assert.Equal(t, 0, c.Order("drain_tile_basement"))
	assert.Equal(t, -1, c.Order("nope"))

	svc, ok := c.Service("floor_support_inspection")
	require.True(t, ok)
	assert.Equal(t, []string{"intellijack", "supplemental_steel_beam"}, svc.ProductIDs)
}

func TestAccessorsReturnCopies(t *testing.T) {
	c := Default()

	svc, _ := c.Service("drainage_inspection")
	svc.ProductIDs[0] = "tampered"
	again, _ := c.Service("drainage_inspection")
	assert.Equal(t, "drain_tile_basement", again.ProductIDs[0])

	products := c.Products()
	products[0].Aliases[0] = "tampered"
	p, _ := c.Product(products[0].ID)
	assert.Equal(t, "drain tile", p.Aliases[0])
}

func TestByGroup(t *testing.T) {
	groups := Default().ByGroup()

	require.Len(t, groups[GroupCrawlspace], 5)
	assert.Equal(t, "crawlseal_liner", groups[GroupCrawlspace][0].ID)
	assert.Len(t, groups[GroupFloorSupport], 2)
}

func TestMatchProductsFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty",
			text: "",
			want: []string{},
		},
		{
			name: "nothing recognisable",
			text: "Replace gutters and regrade the yard",
			want: []string{},
		},
		{
			name: "names and aliases in catalog order",
			text: "Install IntelliJack x4, 120 ft of French Drain and a TripleSafe unit.",
			want: []string{"drain_tile_basement", "sump_pump", "intellijack"},
		},
		{
			name: "case insensitive",
			text: "CRAWLSEAL LINER and crawl space dehumidifier",
			want: []string{"crawlseal_liner", "crawlspace_dehumidifier"},
		},
		{
			name: "repeated mentions reported once",
			text: "wall anchor, wall anchors, Wall Anchors, plate anchor",
			want: []string{"wall_anchors"},
		},
		{
			name: "substring overlap matches both products",
			text: "Crawl Space Sump Pump",
			want: []string{"sump_pump", "crawlspace_sump_pump"},
		},
	}

	c := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.MatchProductsFromText(tt.text)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchProductsFromText_InstallNote(t *testing.T) {
	got := Default().MatchProductsFromText("Installed a Sump Pump and Drain Tile")
	assert.Subset(t, got, []string{"sump_pump", "drain_tile_basement"})
	assert.Equal(t, []string{"drain_tile_basement", "sump_pump"}, got)
}
