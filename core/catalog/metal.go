// Package catalog - Coated metal restoration catalog
// This is the source of truth for metal roof restoration products.
// The system carries no insulation or field membrane; takeoff emits
// nothing for categories a system does not stock.
package catalog

// RegisterMetal populates the catalog with the metal restoration system
func RegisterMetal(c *Catalog) {
	// ============================================
	// COATINGS - applied over the prepared panels
	// ============================================

	c.Register(Product{ID: "coat-primer", System: Metal, Category: Coating, Name: "Rust-Inhibitive Primer", Unit: "pail", Coverage: 350, Price: price(218.00)})
	c.Register(Product{ID: "coat-base", System: Metal, Category: Coating, Name: "Elastomeric Base Coat", Unit: "pail", Coverage: 250, Price: price(198.00)})
	c.Register(Product{ID: "coat-top", System: Metal, Category: Coating, Name: "Elastomeric Top Coat", Unit: "pail", Coverage: 300, Price: price(224.00)})

	// ============================================
	// SEAM AND FASTENER TREATMENT
	// ============================================

	c.Register(Product{ID: "seal-seam", System: Metal, Category: Sealant, Name: "Panel Seam Sealer", Unit: "pail", Coverage: 200, Price: price(118.00)})
	c.Register(Product{ID: "seal-fastener", System: Metal, Category: Sealant, Name: "Fastener Head Sealer", Unit: "pail", Coverage: 500, Price: price(96.00)})

	c.Register(Product{ID: "fas-metal-15", System: Metal, Category: Fastener, Name: `#14 Metal Screw 1.5"`, Unit: "box", Coverage: 250, Price: price(72.00), Length: 1.5, Series: "mr"})

	c.Register(Product{ID: "acc-seam-tape", System: Metal, Category: Accessory, Name: `Seam Reinforcement Tape 4"`, Unit: "roll", Coverage: 50, Price: price(76.00)})
}
