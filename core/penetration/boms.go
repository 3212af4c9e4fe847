package penetration

import "github.com/7mit3/BidFix-sub000/core/catalog"

// builtinTPO returns the penetration details for TPO roofs
func builtinTPO() []Type {
	return []Type{
		{
			ID:           "pen-pipe-small",
			System:       catalog.TPO,
			Name:         "Pipe Penetration (up to 3\")",
			LaborMinutes: 45,
			Items: []BOMItem{
				{ProductID: "acc-boot-sm", Quantity: 1},
				{ProductID: "acc-sealant", Quantity: 2},
			},
		},
		{
			ID:           "pen-pipe-large",
			System:       catalog.TPO,
			Name:         "Pipe Penetration (4\" to 8\")",
			LaborMinutes: 60,
			Items: []BOMItem{
				{ProductID: "acc-boot-lg", Quantity: 1},
				{ProductID: "acc-sealant", Quantity: 3},
			},
		},
		{
			ID:           "pen-drain",
			System:       catalog.TPO,
			Name:         "Roof Drain",
			LaborMinutes: 90,
			Items: []BOMItem{
				{ProductID: "acc-drain", Quantity: 1},
				{ProductID: "flash-tpo-unc", Quantity: 8},
			},
		},
		{
			ID:           "pen-scupper",
			System:       catalog.TPO,
			Name:         "Scupper",
			LaborMinutes: 120,
			Items: []BOMItem{
				{ProductID: "flash-tpo-unc", Quantity: 10},
				{ProductID: "acc-sealant", Quantity: 4},
			},
		},
		{
			ID:           "pen-curb",
			System:       catalog.TPO,
			Name:         "Mechanical Curb (up to 4' x 4')",
			LaborMinutes: 150,
			Items: []BOMItem{
				{ProductID: "flash-tpo-60", Quantity: 24},
				{ProductID: "acc-termbar", Quantity: 16},
				{ProductID: "acc-sealant", Quantity: 4},
			},
		},
		{
			ID:           "pen-pitchpan",
			System:       catalog.TPO,
			Name:         "Pitch Pan",
			LaborMinutes: 60,
			Items: []BOMItem{
				{ProductID: "acc-pitchpan", Quantity: 1},
				{ProductID: "acc-pourable", Quantity: 1},
			},
		},
	}
}

// builtinPVC returns the penetration details for PVC roofs. The
// details mirror TPO with PVC flashing membrane
func builtinPVC() []Type {
	return []Type{
		{
			ID:           "pen-pipe-small",
			System:       catalog.PVC,
			Name:         "Pipe Penetration (up to 3\")",
			LaborMinutes: 45,
			Items: []BOMItem{
				{ProductID: "acc-boot-sm", Quantity: 1},
				{ProductID: "acc-sealant", Quantity: 2},
			},
		},
		{
			ID:           "pen-pipe-large",
			System:       catalog.PVC,
			Name:         "Pipe Penetration (4\" to 8\")",
			LaborMinutes: 60,
			Items: []BOMItem{
				{ProductID: "acc-boot-lg", Quantity: 1},
				{ProductID: "acc-sealant", Quantity: 3},
			},
		},
		{
			ID:           "pen-drain",
			System:       catalog.PVC,
			Name:         "Roof Drain",
			LaborMinutes: 90,
			Items: []BOMItem{
				{ProductID: "acc-drain", Quantity: 1},
				{ProductID: "flash-pvc-60", Quantity: 8},
			},
		},
		{
			ID:           "pen-scupper",
			System:       catalog.PVC,
			Name:         "Scupper",
			LaborMinutes: 120,
			Items: []BOMItem{
				{ProductID: "flash-pvc-60", Quantity: 10},
				{ProductID: "acc-sealant", Quantity: 4},
			},
		},
		{
			ID:           "pen-curb",
			System:       catalog.PVC,
			Name:         "Mechanical Curb (up to 4' x 4')",
			LaborMinutes: 150,
			Items: []BOMItem{
				{ProductID: "flash-pvc-60", Quantity: 24},
				{ProductID: "acc-termbar", Quantity: 16},
				{ProductID: "acc-sealant", Quantity: 4},
			},
		},
		{
			ID:           "pen-pitchpan",
			System:       catalog.PVC,
			Name:         "Pitch Pan",
			LaborMinutes: 60,
			Items: []BOMItem{
				{ProductID: "acc-pitchpan", Quantity: 1},
				{ProductID: "acc-pourable", Quantity: 1},
			},
		},
	}
}

// builtinMetal returns the penetration details for metal restoration.
// Restoration work seals around existing penetrations rather than
// flashing new ones, so the list is short
func builtinMetal() []Type {
	return []Type{
		{
			ID:           "pen-pipe-seal",
			System:       catalog.Metal,
			Name:         "Pipe Re-Seal",
			LaborMinutes: 30,
			Items: []BOMItem{
				{ProductID: "acc-seam-tape", Quantity: 4},
				{ProductID: "seal-seam", Quantity: 8},
			},
		},
		{
			ID:           "pen-curb-seal",
			System:       catalog.Metal,
			Name:         "Curb Re-Seal",
			LaborMinutes: 75,
			Items: []BOMItem{
				{ProductID: "acc-seam-tape", Quantity: 18},
				{ProductID: "seal-seam", Quantity: 24},
			},
		},
	}
}
