package nscp

// LoadCombination represents an NSCP load combination
// Based on NSCP 2015 Section 203.3 - Load Combinations Using Strength Design
type LoadCombination struct {
	ID          string
	Description string
	// Load factors for each load type
	Dead       float64 // D - Dead load
	Live       float64 // L - Live load
	Roof       float64 // Lr - Roof live load
	Wind       float64 // W - Wind load
	Earthquake float64 // E - Earthquake load
	Rain       float64 // R - Rain load
}

// NSCP 2015 Section 203.3.1 - Basic Load Combinations
var LoadCombinations = []LoadCombination{
	{ID: "1", Description: "1.4D", Dead: 1.4},
	{ID: "2", Description: "1.2D + 1.6L + 0.5(Lr or R)", Dead: 1.2, Live: 1.6, Roof: 0.5, Rain: 0.5},
	{ID: "3", Description: "1.2D + 1.6(Lr or R) + (1.0L or 0.5W)", Dead: 1.2, Live: 1.0, Roof: 1.6, Rain: 1.6, Wind: 0.5},
	{ID: "4", Description: "1.2D + 1.0W + 1.0L + 0.5(Lr or R)", Dead: 1.2, Live: 1.0, Wind: 1.0, Roof: 0.5, Rain: 0.5},
	{ID: "5", Description: "1.2D + 1.0E + 1.0L", Dead: 1.2, Live: 1.0, Earthquake: 1.0},
	{ID: "6", Description: "0.9D + 1.0W", Dead: 0.9, Wind: 1.0},
	{ID: "7", Description: "0.9D + 1.0E", Dead: 0.9, Earthquake: 1.0},
}

// Gravity floor loads used by the takeoff when a plan carries no load
// schedule (kPa). Dead covers a 150 mm slab, finishes and partitions;
// live is the NSCP Table 205-1 office/residential upper value.
const (
	FloorDeadLoad = 6.0
	FloorLiveLoad = 2.4
)

// Loads holds unfactored effects of each load type. The unit is whatever
// the caller works in (kPa for floor pressures, kN-m for moments).
type Loads struct {
	Dead       float64
	Live       float64
	Roof       float64
	Wind       float64
	Earthquake float64
	Rain       float64
}

// Factored applies the combination factors to a set of loads.
func (lc LoadCombination) Factored(loads Loads) float64 {
	return lc.Dead*loads.Dead +
		lc.Live*loads.Live +
		lc.Roof*loads.Roof +
		lc.Wind*loads.Wind +
		lc.Earthquake*loads.Earthquake +
		lc.Rain*loads.Rain
}

// Governing finds the maximum factored effect over all combinations.
func Governing(loads Loads, combinations []LoadCombination) (float64, LoadCombination) {
	var maxEffect float64
	var governingCombo LoadCombination

	for _, combo := range combinations {
		u := combo.Factored(loads)
		if u > maxEffect {
			maxEffect = u
			governingCombo = combo
		}
	}

	return maxEffect, governingCombo
}

// FactoredFloorPressure returns the governing factored pressure (kPa) for
// the default floor loads.
func FactoredFloorPressure() (float64, LoadCombination) {
	return Governing(Loads{Dead: FloorDeadLoad, Live: FloorLiveLoad}, LoadCombinations)
}
