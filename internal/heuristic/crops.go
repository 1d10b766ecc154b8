package heuristic

// Static per-crop parameters for the offline approximations. Read-only
// for the process lifetime. Prices are ₹/quintal; decay rates are
// risk-per-day post harvest.
type cropParams struct {
	MaturityDays int
	BasePrice    float64
	DecayRate    float64
}

var crops = map[string]cropParams{
	"onion":     {MaturityDays: 110, BasePrice: 1800, DecayRate: 0.020},
	"tomato":    {MaturityDays: 70, BasePrice: 1500, DecayRate: 0.080},
	"potato":    {MaturityDays: 90, BasePrice: 1200, DecayRate: 0.015},
	"wheat":     {MaturityDays: 120, BasePrice: 2200, DecayRate: 0.004},
	"rice":      {MaturityDays: 135, BasePrice: 2100, DecayRate: 0.006},
	"maize":     {MaturityDays: 100, BasePrice: 1900, DecayRate: 0.008},
	"soybean":   {MaturityDays: 95, BasePrice: 4200, DecayRate: 0.006},
	"cotton":    {MaturityDays: 160, BasePrice: 6500, DecayRate: 0.003},
	"sugarcane": {MaturityDays: 365, BasePrice: 310, DecayRate: 0.005},
	"grapes":    {MaturityDays: 150, BasePrice: 5500, DecayRate: 0.050},
	"banana":    {MaturityDays: 300, BasePrice: 1400, DecayRate: 0.060},
	"pomegranate": {MaturityDays: 180, BasePrice: 7500, DecayRate: 0.030},
}

// Fallbacks for crops outside the table.
const (
	defaultMaturityDays = 110
	defaultBasePrice    = 2000.0
	defaultDecayRate    = 0.010
)

// Base risk per storage type, the intercept of the spoilage formula.
var storageBaseRisk = map[string]float64{
	"open":         0.30,
	"shed":         0.18,
	"warehouse":    0.12,
	"cold_storage": 0.05,
}

const defaultStorageBaseRisk = 0.20

func lookupCrop(name string) cropParams {
	if p, ok := crops[normalizeName(name)]; ok {
		return p
	}
	return cropParams{
		MaturityDays: defaultMaturityDays,
		BasePrice:    defaultBasePrice,
		DecayRate:    defaultDecayRate,
	}
}

func lookupStorageRisk(storageType string) float64 {
	if r, ok := storageBaseRisk[normalizeName(storageType)]; ok {
		return r
	}
	return defaultStorageBaseRisk
}
