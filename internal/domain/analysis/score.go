package analysis

import (
	"encoding/json"
	"fmt"
	"math"
)

const (
	// DefaultScore dipakai kalau tidak ada skor maupun daftar risiko.
	DefaultScore = 50
	MaxScore     = 100
	MinScore     = 0

	weightHigh   = 30
	weightMedium = 15
	weightLow    = 5
)

// ScoreInput is what the scorer needs from an upstream result.
// RisksPresent distinguishes a missing risks list from an empty one.
type ScoreInput struct {
	RiskScore    float64
	Risks        []Finding
	RisksPresent bool
}

// SeverityCounts value object
type SeverityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// CountSeverities matches severities case-sensitively; anything else is skipped.
func CountSeverities(findings []Finding) SeverityCounts {
	var c SeverityCounts
	for _, f := range findings {
		switch f.Severity {
		case SeverityHigh:
			c.High++
		case SeverityMedium:
			c.Medium++
		case SeverityLow:
			c.Low++
		}
	}
	return c
}

// Weighted returns 30h + 15m + 5l capped at MaxScore.
func (c SeverityCounts) Weighted() int {
	return min(MaxScore, c.High*weightHigh+c.Medium*weightMedium+c.Low*weightLow)
}

// Score derives the risk score. A supplied score of zero counts as absent and
// falls through to the severity computation.
func Score(in ScoreInput) int {
	if in.RiskScore != 0 {
		// int(1e20) tidak terdefinisi, batasi dulu di float
		return int(math.Round(math.Max(math.MinInt32, math.Min(math.MaxInt32, in.RiskScore))))
	}
	if in.RisksPresent {
		return CountSeverities(in.Risks).Weighted()
	}
	return DefaultScore
}

// Clamp bounds a score to [MinScore, MaxScore].
func Clamp(score int) int {
	return max(MinScore, min(MaxScore, score))
}

// ScoreJSON scores a loosely typed result object, e.g. a stored result_json
// or an upstream "result" payload. Non-numeric risk_score values are ignored.
func ScoreJSON(raw []byte) (int, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("decode result: %w", err)
	}
	var in ScoreInput
	if v, ok := doc["risk_score"].(float64); ok {
		in.RiskScore = v
	}
	if arr, ok := doc["risks"].([]any); ok {
		in.RisksPresent = true
		for _, it := range arr {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			sev, _ := m["severity"].(string)
			in.Risks = append(in.Risks, Finding{Severity: Severity(sev)})
		}
	}
	return Score(in), nil
}

// RiskLevel badge untuk dashboard
type RiskLevel string

const (
	LevelHigh   RiskLevel = "high"
	LevelMedium RiskLevel = "medium"
	LevelLow    RiskLevel = "low"
)

// LevelFor maps a stored score to its badge: >=70 high, >=40 medium.
func LevelFor(score int) RiskLevel {
	switch {
	case score >= 70:
		return LevelHigh
	case score >= 40:
		return LevelMedium
	default:
		return LevelLow
	}
}
