package analysis

import (
	"strings"
	"time"
)

// ID tipe untuk ContractAnalysis
type ID string

// Type enum, menentukan fokus analisa di service upstream
type Type string

const (
	TypeFull       Type = "full"
	TypeRisks      Type = "risks"
	TypeClauses    Type = "clauses"
	TypeCompliance Type = "compliance"
)

// ParseType normalizes a form value. Empty means full.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TypeFull, nil
	case TypeFull, TypeRisks, TypeClauses, TypeCompliance:
		return t, nil
	default:
		return "", &ValidationError{Field: "analysisType", Msg: "unknown analysis type: " + s}
	}
}

// Severity enum. Nilai lain tetap disimpan apa adanya untuk tampilan.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Status enum
type Status string

const StatusCompleted Status = "completed"

// Request input ke gateway
type Request struct {
	ContractText string `json:"contract_text"`
	AnalysisType Type   `json:"analysis_type"`
}

// Finding is one detected risk or compliance issue.
type Finding struct {
	Description    string   `json:"description"`
	Severity       Severity `json:"severity"`
	Location       string   `json:"location,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	Regulation     string   `json:"regulation,omitempty"`
}

// Result value object, hasil analisa dari gateway (sukses atau fallback)
type Result struct {
	Summary          string    `json:"summary,omitempty"`
	Clauses          []string  `json:"clauses"`
	Risks            []Finding `json:"risks"`
	ComplianceIssues []Finding `json:"compliance_issues"`
	Recommendations  []string  `json:"recommendations"`
	RiskScore        int       `json:"risk_score"`
}

// Normalize replaces nil sequences so stored JSON always carries arrays.
func (r *Result) Normalize() {
	if r.Clauses == nil {
		r.Clauses = []string{}
	}
	if r.Risks == nil {
		r.Risks = []Finding{}
	}
	if r.ComplianceIssues == nil {
		r.ComplianceIssues = []Finding{}
	}
	if r.Recommendations == nil {
		r.Recommendations = []string{}
	}
}

// Aggregate Root: ContractAnalysis
type ContractAnalysis struct {
	ID           ID        `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	ContractText string    `json:"contract_text,omitempty"`
	AnalysisType Type      `json:"analysis_type"`
	Result       Result    `json:"result"`
	RiskScore    int       `json:"risk_score"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Level is the dashboard badge for a stored score.
func (a *ContractAnalysis) Level() RiskLevel { return LevelFor(a.RiskScore) }

// Stats rekap dashboard per user
type Stats struct {
	Total    int `json:"total"`
	HighRisk int `json:"high_risk"`
	LowRisk  int `json:"low_risk"`
}

// Summarize counts analyses per badge.
func Summarize(list []*ContractAnalysis) Stats {
	var s Stats
	for _, a := range list {
		s.Total++
		switch a.Level() {
		case LevelHigh:
			s.HighRisk++
		case LevelLow:
			s.LowRisk++
		}
	}
	return s
}
