package catalog

var defaultProducts = []Product{
	// drainage
	{ID: "drain_tile_basement", Name: "Basement Drain Tile", Unit: "linear_ft", Group: GroupDrainage,
		Aliases: []string{"drain tile", "french drain", "waterguard"}},
	{ID: "sump_pump", Name: "Sump Pump", Unit: "each", Group: GroupDrainage,
		Aliases: []string{"triplesafe", "sump basin"}},

	// waterproofing
	{ID: "basement_wall_vapor_barrier", Name: "Basement Wall Vapor Barrier", Unit: "sq_ft", Group: GroupWaterproofing,
		Aliases: []string{"brightwall", "wall vapor barrier"}},

	// crawlspace
	{ID: "crawlseal_liner", Name: "CrawlSeal Liner", Unit: "sq_ft", Group: GroupCrawlspace,
		Aliases: []string{"crawl space liner", "crawlspace liner", "encapsulation liner"}},
	{ID: "crawlspace_dehumidifier", Name: "Crawl Space Dehumidifier", Unit: "each", Group: GroupCrawlspace,
		Aliases: []string{"crawlspace dehumidifier", "sanidry", "dehumidifier"}},
	{ID: "extremebloc_insulation", Name: "ExTremeBloc Insulation", Unit: "sq_ft", Group: GroupCrawlspace,
		Aliases: []string{"extremebloc", "rigid foam insulation"}},
	{ID: "crawlspace_drain_tile", Name: "Crawl Space Drain Tile", Unit: "linear_ft", Group: GroupCrawlspace,
		Aliases: []string{"crawlspace drain tile", "crawl space drainage"}},
	{ID: "crawlspace_sump_pump", Name: "Crawl Space Sump Pump", Unit: "each", Group: GroupCrawlspace,
		Aliases: []string{"crawlspace sump pump", "smartsump"}},

	// structural
	{ID: "push_piers", Name: "Push Piers", Unit: "each", Group: GroupStructural,
		Aliases: []string{"push pier", "resistance pier"}},
	{ID: "helical_piers", Name: "Helical Piers", Unit: "each", Group: GroupStructural,
		Aliases: []string{"helical pier", "helix pier"}},
	{ID: "slab_piers", Name: "Slab Piers", Unit: "each", Group: GroupStructural,
		Aliases: []string{"slab pier", "slab lifting pier"}},
	{ID: "helical_tieback_anchors", Name: "Helical Tieback Anchors", Unit: "each", Group: GroupStructural,
		Aliases: []string{"helical tieback", "tieback anchor"}},

	// wall repair
	{ID: "wall_anchors", Name: "Wall Anchors", Unit: "each", Group: GroupWallRepair,
		Aliases: []string{"wall anchor", "plate anchor"}},
	{ID: "wall_braces", Name: "Wall Braces", Unit: "each", Group: GroupWallRepair,
		Aliases: []string{"wall brace", "i-beam brace"}},
	{ID: "carbon_fiber_straps", Name: "Carbon Fiber Straps", Unit: "each", Group: GroupWallRepair,
		Aliases: []string{"carbon fiber", "carbonarmor"}},
	{ID: "intellibrace", Name: "IntelliBrace", Unit: "each", Group: GroupWallRepair,
		Aliases: []string{"intelli-brace"}},
	{ID: "wall_pins", Name: "Wall Pins", Unit: "each", Group: GroupWallRepair,
		Aliases: []string{"wall pin", "stitch pin"}},

	// floor support
	{ID: "intellijack", Name: "IntelliJack", Unit: "each", Group: GroupFloorSupport,
		Aliases: []string{"intelli-jack", "crawl space jack", "support jack"}},
	{ID: "supplemental_steel_beam", Name: "Supplemental Steel Beam", Unit: "linear_ft", Group: GroupFloorSupport,
		Aliases: []string{"steel beam", "sister beam"}},
}

// Declared order matters: products listed under several services are billed
// under the first one.
var defaultServices = []InspectionService{
	{ID: "drainage_inspection", Name: "Drainage System Inspection",
		ProductIDs: []string{"drain_tile_basement", "sump_pump"}},
	{ID: "waterproofing_inspection", Name: "Basement Waterproofing Inspection",
		ProductIDs: []string{"basement_wall_vapor_barrier", "drain_tile_basement"}},
	{ID: "crawlspace_inspection", Name: "Crawl Space Inspection",
		ProductIDs: []string{"crawlseal_liner", "crawlspace_dehumidifier", "extremebloc_insulation",
			"crawlspace_drain_tile", "crawlspace_sump_pump"}},
	{ID: "pier_inspection", Name: "Pier Installation Inspection",
		ProductIDs: []string{"push_piers", "helical_piers", "slab_piers", "helical_tieback_anchors"}},
	{ID: "wall_stabilization_inspection", Name: "Wall Stabilization Inspection",
		ProductIDs: []string{"wall_anchors", "wall_braces", "carbon_fiber_straps", "intellibrace",
			"wall_pins", "helical_tieback_anchors"}},
	{ID: "floor_support_inspection", Name: "Floor Support Inspection",
		ProductIDs: []string{"intellijack", "supplemental_steel_beam"}},
}
