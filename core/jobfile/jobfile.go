// Package jobfile reads .roof job documents: an HCL description of
// one roof to estimate, covering the system, assembly, measurements,
// penetrations, and sheet metal in a form estimators can keep under
// version control.
package jobfile

import (
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/7mit3/BidFix-sub000/core/assembly"
	"github.com/7mit3/BidFix-sub000/core/catalog"
	"github.com/7mit3/BidFix-sub000/core/penetration"
	"github.com/7mit3/BidFix-sub000/core/session"
	"github.com/7mit3/BidFix-sub000/core/takeoff"
	"github.com/7mit3/BidFix-sub000/internal/errors"
)

// Rates are the bid percentages named in the job document
type Rates struct {
	TaxPercent    float64
	ProfitPercent float64
}

// Job is one decoded job document
type Job struct {
	// Name is the job name from the block label
	Name string

	// System is the roofing system to estimate
	System catalog.System

	// Assembly is the configured roof assembly
	Assembly assembly.Config

	// Measurements are the field measurements
	Measurements takeoff.Measurements

	// Penetrations holds penetration counts by type id
	Penetrations map[string]int

	// Flashing lists the sheet metal runs
	Flashing []penetration.FlashingSpec

	// Rates carries the rates block, nil when the document has none
	Rates *Rates
}

type rootDoc struct {
	Job *jobDoc `hcl:"job,block"`
}

type jobDoc struct {
	Name         string           `hcl:"name,label"`
	System       string           `hcl:"system"`
	Measurements *measurementsDoc `hcl:"measurements,block"`
	Assembly     *assemblyDoc     `hcl:"assembly,block"`
	Penetrations []penetrationDoc `hcl:"penetration,block"`
	SheetMetal   []sheetMetalDoc  `hcl:"sheet_metal,block"`
	Rates        *ratesDoc        `hcl:"rates,block"`
}

type measurementsDoc struct {
	RoofArea       float64 `hcl:"roof_area"`
	PerimeterLF    float64 `hcl:"perimeter_lf,optional"`
	WallLF         float64 `hcl:"wall_lf,optional"`
	WallHeight     float64 `hcl:"wall_height,optional"`
	BaseFlashingLF float64 `hcl:"base_flashing_lf,optional"`
}

type assemblyDoc struct {
	Deck              string     `hcl:"deck,optional"`
	VaporBarrier      string     `hcl:"vapor_barrier,optional"`
	InsulationEnabled *bool      `hcl:"insulation_enabled,optional"`
	CoverBoard        string     `hcl:"cover_board,optional"`
	MembraneMil       int        `hcl:"membrane_mil,optional"`
	Attachment        string     `hcl:"attachment,optional"`
	InsulationScrewIn *float64   `hcl:"insulation_screw_in,optional"`
	MembraneScrewIn   *float64   `hcl:"membrane_screw_in,optional"`
	Layers            []layerDoc `hcl:"layer,block"`
}

type layerDoc struct {
	Thickness float64 `hcl:"thickness"`
	Enabled   *bool   `hcl:"enabled,optional"`
}

type penetrationDoc struct {
	Type  string `hcl:"type,label"`
	Count int    `hcl:"count"`
}

type sheetMetalDoc struct {
	Profile  string  `hcl:"profile,label"`
	Metal    string  `hcl:"metal"`
	Gauge    int     `hcl:"gauge"`
	LengthLF float64 `hcl:"length_lf"`
}

type ratesDoc struct {
	TaxPercent    float64 `hcl:"tax,optional"`
	ProfitPercent float64 `hcl:"profit,optional"`
}

// Load reads and parses a job document from disk
func Load(path string) (*Job, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "reading job file", err)
	}
	return Parse(src, path)
}

// Parse decodes a job document. The filename is used in diagnostics
func Parse(src []byte, filename string) (*Job, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Parsing("job file is not valid HCL", diags)
	}

	var root rootDoc
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, errors.Parsing("job file has invalid structure", diags)
	}
	if root.Job == nil {
		return nil, errors.Input("job file has no job block")
	}
	return buildJob(root.Job)
}

func buildJob(doc *jobDoc) (*Job, error) {
	system := catalog.System(doc.System)
	if !catalog.ValidSystem(system) {
		return nil, errors.Inputf("job names unknown system %q", doc.System)
	}
	if doc.Measurements == nil {
		return nil, errors.Input("job has no measurements block")
	}

	job := &Job{
		Name:   doc.Name,
		System: system,
		Measurements: takeoff.Measurements{
			RoofArea:       doc.Measurements.RoofArea,
			PerimeterLF:    doc.Measurements.PerimeterLF,
			WallLF:         doc.Measurements.WallLF,
			WallHeight:     doc.Measurements.WallHeight,
			BaseFlashingLF: doc.Measurements.BaseFlashingLF,
		}.Sanitize(),
		Penetrations: make(map[string]int),
	}

	cfg, err := buildAssembly(doc.Assembly)
	if err != nil {
		return nil, err
	}
	job.Assembly = cfg

	for _, pen := range doc.Penetrations {
		if pen.Count > 0 {
			job.Penetrations[pen.Type] += pen.Count
		}
	}
	for _, sm := range doc.SheetMetal {
		job.Flashing = append(job.Flashing, penetration.FlashingSpec{
			Profile: sm.Profile,
			Metal:   penetration.Metal(sm.Metal),
			Gauge:   sm.Gauge,
			LF:      sm.LengthLF,
		})
	}
	if doc.Rates != nil {
		job.Rates = &Rates{
			TaxPercent:    doc.Rates.TaxPercent,
			ProfitPercent: doc.Rates.ProfitPercent,
		}
	}
	return job, nil
}

// buildAssembly maps the assembly block onto a configuration. A
// missing block means the default assembly
func buildAssembly(doc *assemblyDoc) (assembly.Config, error) {
	if doc == nil {
		return assembly.Default(), nil
	}

	cfg := assembly.Config{
		Deck:         assembly.DeckType(doc.Deck),
		VaporBarrier: doc.VaporBarrier,
		CoverBoard:   doc.CoverBoard,
		MembraneMil:  doc.MembraneMil,
		Attachment:   assembly.Attachment(doc.Attachment),
	}
	if doc.Deck == "" {
		cfg.Deck = assembly.DeckSteel
	}
	if !assembly.ValidDeck(cfg.Deck) {
		return assembly.Config{}, errors.Inputf("job names unknown deck %q", doc.Deck)
	}
	if doc.Attachment == "" {
		cfg.Attachment = assembly.MechanicallyAttached
	}
	if !assembly.ValidAttachment(cfg.Attachment) {
		return assembly.Config{}, errors.Inputf("job names unknown attachment %q", doc.Attachment)
	}
	if cfg.MembraneMil == 0 {
		cfg.MembraneMil = 60
	}

	cfg.InsulationEnabled = doc.InsulationEnabled == nil || *doc.InsulationEnabled
	for _, layer := range doc.Layers {
		cfg.Layers = append(cfg.Layers, assembly.Layer{
			Enabled:   layer.Enabled == nil || *layer.Enabled,
			Thickness: layer.Thickness,
		})
	}

	cfg.InsulationFastener = screwSelection(doc.InsulationScrewIn)
	cfg.MembraneFastener = screwSelection(doc.MembraneScrewIn)
	return cfg.Normalize(), nil
}

// screwSelection maps an optional length attribute onto a fastener
// selection; absence means automatic sizing
func screwSelection(inches *float64) assembly.FastenerLength {
	if inches == nil {
		return assembly.Auto()
	}
	return assembly.Explicit(*inches)
}

// NewSession starts a session configured from the job document
func (j *Job) NewSession(cat *catalog.Catalog, pens *penetration.Registry) (*session.Session, error) {
	s, err := session.New(cat, pens, j.System)
	if err != nil {
		return nil, err
	}
	s.SetName(j.Name)
	s.SetAssembly(j.Assembly)
	s.SetMeasurements(j.Measurements)
	for id, n := range j.Penetrations {
		s.SetPenetrationCount(id, n)
	}
	s.SetFlashing(j.Flashing)
	if j.Rates != nil {
		s.SetRates(j.Rates.TaxPercent, j.Rates.ProfitPercent)
	}
	return s, nil
}
