package penetration

import (
	"math"

	"github.com/7mit3/BidFix-sub000/core/catalog"
	"github.com/7mit3/BidFix-sub000/core/takeoff"
)

// Takeoff expands penetration counts into material lines and the total
// labor minutes to work them. Counts are keyed by penetration type id;
// unknown types and zero counts are skipped. Lines for the same
// product are merged so the estimate orders whole units once across
// all penetrations
func (r *Registry) Takeoff(cat *catalog.Catalog, system catalog.System, counts map[string]int) ([]takeoff.Line, float64) {
	var (
		lines   []takeoff.Line
		index   = make(map[string]int)
		minutes float64
	)
	for _, t := range r.List(system) {
		n := counts[t.ID]
		if n <= 0 {
			continue
		}
		minutes += t.LaborMinutes * float64(n)
		for _, item := range t.Items {
			p, ok := cat.Get(system, item.ProductID)
			if !ok {
				continue
			}
			m := item.Quantity * float64(n)
			if m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
				continue
			}
			if i, seen := index[p.ID]; seen {
				lines[i].Measurement += m
				lines[i].Units = takeoff.UnitsToOrder(lines[i].Measurement, p.Coverage)
				continue
			}
			index[p.ID] = len(lines)
			lines = append(lines, takeoff.Line{
				ProductID:   p.ID,
				Measurement: m,
				Units:       takeoff.UnitsToOrder(m, p.Coverage),
			})
		}
	}
	return lines, minutes
}
