// Package heuristic provides deterministic, offline-computable
// approximations of each prediction endpoint. The bank is the terminal
// tier of the resolver: every function is side-effect-free, needs no
// network access, and emits the same field names and types as the
// corresponding backend response, so screens cannot tell the tiers apart
// except through the envelope's provenance.
package heuristic

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/agrimitra/advisory-gateway/pkg/models"
)

// Confidence reported by every heuristic payload. Deliberately below
// anything the backend returns: this path has no live signal.
const Confidence = 0.55

// Seasonal default when the caller gives no temperature reading.
const defaultAvgTemp = 32.0

// Flat transport cost per quintal used for net-profit comparisons.
const transportPerQuintal = 50.0

// Bank computes offline approximations. The clock is injected so outputs
// are a pure function of (inputs, now).
type Bank struct {
	now func() time.Time
}

// NewBank creates a heuristic bank using the wall clock.
func NewBank() *Bank {
	return &Bank{now: time.Now}
}

// NewBankAt creates a bank with a fixed clock. Test hook.
func NewBankAt(now func() time.Time) *Bank {
	return &Bank{now: now}
}

// ── Harvest window ───────────────────────────────────────────

// HarvestWindow estimates the harvest window from the crop's maturity
// calendar: sowing date + maturity days, widened by one day each side.
// An unparsable sowing date anchors at 100 days ago instead of failing.
func (b *Bank) HarvestWindow(req models.HarvestRequest) models.Payload {
	today := b.now().UTC().Truncate(24 * time.Hour)

	sowing, err := time.Parse("2006-01-02", strings.TrimSpace(req.SowingDate))
	if err != nil {
		sowing = today.AddDate(0, 0, -100)
	}

	params := lookupCrop(req.Crop)
	target := sowing.AddDate(0, 0, params.MaturityDays)
	start := target.AddDate(0, 0, -1)
	end := target.AddDate(0, 0, 1)

	daysOut := int(target.Sub(today).Hours() / 24)
	recommendation := fmt.Sprintf("Plan harvest of %s around %s.", displayName(req.Crop), target.Format("2006-01-02"))
	if daysOut <= 0 {
		recommendation = fmt.Sprintf("%s has reached maturity — harvest as soon as weather allows.", displayName(req.Crop))
	}

	return models.Payload{
		"harvest_window": map[string]any{
			"start": start.Format("2006-01-02"),
			"end":   end.Format("2006-01-02"),
		},
		"recommendation":  recommendation,
		"risk_if_delayed": "Quality and price may drop if harvest slips past the window.",
		"confidence":      Confidence,
	}
}

// ── Mandi recommendation ─────────────────────────────────────

// MandiRecommendation approximates market advice from the crop's base
// price: expected range is base × [0.96, 1.05], net profit compares the
// top of that range minus flat transport against the bottom sold locally.
func (b *Bank) MandiRecommendation(req models.MandiRequest) models.Payload {
	params := lookupCrop(req.Crop)
	qty := req.QuantityQuintals
	if qty <= 0 {
		qty = 10
	}

	minPrice := round2(params.BasePrice * 0.96)
	maxPrice := round2(params.BasePrice * 1.05)
	transportCost := round2(transportPerQuintal * qty)
	netBest := round2(maxPrice*qty - transportCost)
	netLocal := round2(minPrice * qty)

	return models.Payload{
		"best_mandi": bestMandiName(req.District),
		"expected_price_range": map[string]any{
			"min": minPrice,
			"max": maxPrice,
		},
		"transport_cost": transportCost,
		"net_profit_comparison": map[string]any{
			"best_mandi":  netBest,
			"local_mandi": netLocal,
		},
		"price_trend": map[string]any{
			"direction":  "steady",
			"confidence": Confidence,
		},
		"confidence": Confidence,
	}
}

// ── Spoilage risk ────────────────────────────────────────────

// SpoilageRisk scores post-harvest spoilage from storage type, time since
// harvest, transit exposure, and heat above 30°C. Risk is clamped to
// [0, 0.95].
func (b *Bank) SpoilageRisk(req models.SpoilageRequest) models.Payload {
	params := lookupCrop(req.Crop)
	base := lookupStorageRisk(req.StorageType)

	avgTemp := req.AvgTemp
	if avgTemp == 0 {
		avgTemp = defaultAvgTemp
	}

	timeTerm := float64(req.DaysSinceHarvest) * params.DecayRate
	transitTerm := req.TransitHours * 0.015
	heatTerm := math.Max(0, avgTemp-30) * 0.02

	risk := base + timeTerm + transitTerm + heatTerm
	risk = math.Min(0.95, math.Max(0, risk))
	risk = round3(risk)

	daysSafe := 0.0
	if risk < 0.70 {
		daysSafe = math.Floor((0.70 - risk) / (params.DecayRate + 0.003))
	}

	return models.Payload{
		"risk_score":    risk,
		"risk_category": riskCategory(risk),
		"risk_factors": map[string]any{
			"storage":     round3(base),
			"time_decay":  round3(timeTerm),
			"transit":     round3(transitTerm),
			"temperature": round3(heatTerm),
		},
		"days_safe":                   daysSafe,
		"preservation_actions_ranked": preservationActions(),
		"avg_temp":                    avgTemp,
		"confidence":                  Confidence,
	}
}

func riskCategory(risk float64) string {
	switch {
	case risk <= 0.30:
		return "Low"
	case risk <= 0.60:
		return "Medium"
	case risk <= 0.80:
		return "High"
	default:
		return "Critical"
	}
}

// preservationActions returns the fixed rank order surfaced alongside
// every spoilage score. Not derived from the score itself.
func preservationActions() []any {
	return []any{
		map[string]any{"rank": 1.0, "action": "sell_now", "cost_estimate": 0.0, "spoilage_saved_pct": 45.0},
		map[string]any{"rank": 2.0, "action": "cold_storage", "cost_estimate": 1200.0, "spoilage_saved_pct": 70.0},
		map[string]any{"rank": 3.0, "action": "grade_and_warehouse", "cost_estimate": 600.0, "spoilage_saved_pct": 55.0},
	}
}

// ── Explanation ──────────────────────────────────────────────

// Explain returns canned reasons for the latest recommendation. This
// path never claims high confidence: it has no real signal.
func (b *Bank) Explain(req models.ExplainRequest) models.Payload {
	crop := displayName(req.Crop)
	district := displayName(req.District)
	if district == "" {
		district = "your district"
	}

	return models.Payload{
		"weather_reason": fmt.Sprintf(
			"Recent conditions around %s look typical for the season, so weather is not forcing an early sale.", district),
		"market_reason": fmt.Sprintf(
			"%s prices in nearby mandis have been moving within their usual seasonal band.", crop),
		"supply_reason": fmt.Sprintf(
			"Arrivals of %s in %s are close to normal, so no supply glut is expected this week.", crop, district),
		"confidence_message": "Medium confidence — based on seasonal averages, not live data.",
		"confidence":         Confidence,
		"decision_id":        req.DecisionID,
	}
}

// ── Helpers ──────────────────────────────────────────────────

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func displayName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}

func bestMandiName(district string) string {
	d := displayName(district)
	if d == "" {
		return "District APMC"
	}
	return d + " APMC"
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
func round3(f float64) float64 { return math.Round(f*1000) / 1000 }
