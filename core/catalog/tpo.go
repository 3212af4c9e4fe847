// Package catalog - TPO system catalog
// This is the source of truth for TPO single-ply products.
package catalog

import "github.com/shopspring/decimal"

// price converts a list price to its decimal representation
func price(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// RegisterTPO populates the catalog with the TPO single-ply system
func RegisterTPO(c *Catalog) {
	// ============================================
	// DECK PREPARATION
	// ============================================

	c.Register(Product{ID: "vb-sa", System: TPO, Category: VaporBarrier, Name: "Self-Adhered Vapor Barrier", Unit: "roll", Coverage: 500, Price: price(285.00)})
	c.Register(Product{ID: "vb-poly", System: TPO, Category: VaporBarrier, Name: "6 mil Poly Slip Sheet", Unit: "roll", Coverage: 2000, Price: price(95.00)})

	// ============================================
	// INSULATION - polyiso flat stock, 4x8 boards
	// ============================================

	c.Register(Product{ID: "iso-1.0", System: TPO, Category: Insulation, Name: `Polyiso 1.0"`, Unit: "board", Coverage: 32, Price: price(19.20), Thickness: 1.0, RValue: 5.7})
	c.Register(Product{ID: "iso-1.5", System: TPO, Category: Insulation, Name: `Polyiso 1.5"`, Unit: "board", Coverage: 32, Price: price(24.96), Thickness: 1.5, RValue: 8.6})
	c.Register(Product{ID: "iso-2.0", System: TPO, Category: Insulation, Name: `Polyiso 2.0"`, Unit: "board", Coverage: 32, Price: price(31.68), Thickness: 2.0, RValue: 11.4})
	c.Register(Product{ID: "iso-2.5", System: TPO, Category: Insulation, Name: `Polyiso 2.5"`, Unit: "board", Coverage: 32, Price: price(38.40), Thickness: 2.5, RValue: 14.3})
	c.Register(Product{ID: "iso-3.0", System: TPO, Category: Insulation, Name: `Polyiso 3.0"`, Unit: "board", Coverage: 32, Price: price(46.08), Thickness: 3.0, RValue: 17.1})
	c.Register(Product{ID: "iso-3.5", System: TPO, Category: Insulation, Name: `Polyiso 3.5"`, Unit: "board", Coverage: 32, Price: price(53.12), Thickness: 3.5, RValue: 20.0})
	c.Register(Product{ID: "iso-4.0", System: TPO, Category: Insulation, Name: `Polyiso 4.0"`, Unit: "board", Coverage: 32, Price: price(60.80), Thickness: 4.0, RValue: 22.8})

	c.Register(Product{ID: "cb-hd-05", System: TPO, Category: CoverBoard, Name: `1/2" HD Polyiso Cover Board`, Unit: "board", Coverage: 32, Price: price(26.56), Thickness: 0.5, RValue: 2.5})
	c.Register(Product{ID: "cb-gyp-25", System: TPO, Category: CoverBoard, Name: `1/4" Glass-Mat Gypsum Board`, Unit: "board", Coverage: 32, Price: price(30.40), Thickness: 0.25})

	// ============================================
	// MEMBRANE - 10 ft rolls, coverage net of laps
	// ============================================

	c.Register(Product{ID: "tpo-45", System: TPO, Category: Membrane, Name: "45 mil TPO Membrane", Unit: "roll", Coverage: 930, Price: price(715.00), Mil: 45})
	c.Register(Product{ID: "tpo-60", System: TPO, Category: Membrane, Name: "60 mil TPO Membrane", Unit: "roll", Coverage: 930, Price: price(920.00), Mil: 60})
	c.Register(Product{ID: "tpo-80", System: TPO, Category: Membrane, Name: "80 mil TPO Membrane", Unit: "roll", Coverage: 930, Price: price(1180.00), Mil: 80})

	c.Register(Product{ID: "adh-bond", System: TPO, Category: Adhesive, Name: "Bonding Adhesive", Unit: "pail", Coverage: 300, Price: price(312.00)})
	c.Register(Product{ID: "adh-primer", System: TPO, Category: Adhesive, Name: "Membrane Primer", Unit: "gal", Coverage: 250, Price: price(68.00)})

	// ============================================
	// SECUREMENT - one screw series, boxed by 1000
	// ============================================

	c.Register(Product{ID: "fas-hd-2", System: TPO, Category: Fastener, Name: `#14 HD Fastener 2"`, Unit: "box", Coverage: 1000, Price: price(98.00), Length: 2, Series: "hd"})
	c.Register(Product{ID: "fas-hd-3", System: TPO, Category: Fastener, Name: `#14 HD Fastener 3"`, Unit: "box", Coverage: 1000, Price: price(118.00), Length: 3, Series: "hd"})
	c.Register(Product{ID: "fas-hd-4", System: TPO, Category: Fastener, Name: `#14 HD Fastener 4"`, Unit: "box", Coverage: 1000, Price: price(142.00), Length: 4, Series: "hd"})
	c.Register(Product{ID: "fas-hd-5", System: TPO, Category: Fastener, Name: `#14 HD Fastener 5"`, Unit: "box", Coverage: 1000, Price: price(168.00), Length: 5, Series: "hd"})
	c.Register(Product{ID: "fas-hd-6", System: TPO, Category: Fastener, Name: `#14 HD Fastener 6"`, Unit: "box", Coverage: 1000, Price: price(196.00), Length: 6, Series: "hd"})
	c.Register(Product{ID: "fas-hd-7", System: TPO, Category: Fastener, Name: `#14 HD Fastener 7"`, Unit: "box", Coverage: 1000, Price: price(224.00), Length: 7, Series: "hd"})
	c.Register(Product{ID: "fas-hd-8", System: TPO, Category: Fastener, Name: `#14 HD Fastener 8"`, Unit: "box", Coverage: 1000, Price: price(255.00), Length: 8, Series: "hd"})

	c.Register(Product{ID: "plate-ins-3", System: TPO, Category: Plate, Name: `3" Insulation Plate`, Unit: "pail", Coverage: 1000, Price: price(88.00)})
	c.Register(Product{ID: "plate-seam-2", System: TPO, Category: Plate, Name: `2" Barbed Seam Plate`, Unit: "pail", Coverage: 1000, Price: price(105.00)})

	// ============================================
	// DETAILS
	// ============================================

	c.Register(Product{ID: "flash-tpo-60", System: TPO, Category: Flashing, Name: `60 mil TPO Flashing 24"`, Unit: "roll", Coverage: 100, Price: price(168.00), Mil: 60})
	c.Register(Product{ID: "flash-tpo-unc", System: TPO, Category: Flashing, Name: `Uncured TPO Flashing 12"`, Unit: "roll", Coverage: 50, Price: price(148.00)})

	c.Register(Product{ID: "acc-termbar", System: TPO, Category: Accessory, Name: "Termination Bar 10 ft", Unit: "stick", Coverage: 10, Price: price(9.80)})
	c.Register(Product{ID: "acc-sealant", System: TPO, Category: Accessory, Name: "Water Cut-Off Mastic", Unit: "tube", Coverage: 20, Price: price(8.90)})
	c.Register(Product{ID: "acc-walkpad", System: TPO, Category: Accessory, Name: `Walkway Pad 30"`, Unit: "roll", Coverage: 125, Price: price(385.00)})
	c.Register(Product{ID: "acc-boot-sm", System: TPO, Category: Accessory, Name: `Pipe Boot 1-3"`, Unit: "each", Coverage: 1, Price: price(24.50)})
	c.Register(Product{ID: "acc-boot-lg", System: TPO, Category: Accessory, Name: `Pipe Boot 4-6"`, Unit: "each", Coverage: 1, Price: price(38.75)})
	c.Register(Product{ID: "acc-drain", System: TPO, Category: Accessory, Name: "Retrofit Drain Insert", Unit: "each", Coverage: 1, Price: price(210.00)})
	c.Register(Product{ID: "acc-pitchpan", System: TPO, Category: Accessory, Name: "Pitch Pan", Unit: "each", Coverage: 1, Price: price(32.00)})
	c.Register(Product{ID: "acc-pourable", System: TPO, Category: Accessory, Name: "Pourable Sealer Pouch", Unit: "each", Coverage: 1, Price: price(21.00)})
}
