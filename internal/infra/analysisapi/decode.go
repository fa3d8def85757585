package analysisapi

import (
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	domain "github.com/bryanwahyu/legalynx/internal/domain/analysis"
)

const findingSchema = `{
  "type": "object",
  "properties": {
    "risk": { "type": ["string", "null"] },
    "issue": { "type": ["string", "null"] },
    "severity": { "type": ["string", "null"] },
    "location": { "type": ["string", "null"] },
    "regulation": { "type": ["string", "null"] },
    "recommendation": { "type": ["string", "null"] }
  }
}`

const responseSchemaJSON = `{
  "type": "object",
  "required": ["result"],
  "properties": {
    "success": { "type": "boolean" },
    "analysis_type": { "type": "string" },
    "result": {
      "type": "object",
      "properties": {
        "summary": { "type": ["string", "null"] },
        "risk_score": { "type": ["number", "null"] },
        "clauses": { "type": ["array", "null"], "items": { "type": "string" } },
        "recommendations": { "type": ["array", "null"], "items": { "type": "string" } },
        "risks": { "type": ["array", "null"], "items": ` + findingSchema + ` },
        "compliance_issues": { "type": ["array", "null"], "items": ` + findingSchema + ` }
      }
    }
  }
}`

var responseSchemaLoader = gojsonschema.NewStringLoader(responseSchemaJSON)

// Envelope is the decoded body of a 2xx /analyze response.
type Envelope struct {
	Success      bool
	AnalysisType string
	Result       domain.Result
}

type wireFinding struct {
	Risk           string `json:"risk"`
	Issue          string `json:"issue"`
	Severity       string `json:"severity"`
	Location       string `json:"location"`
	Regulation     string `json:"regulation"`
	Recommendation string `json:"recommendation"`
}

func (w wireFinding) finding() domain.Finding {
	desc := w.Risk
	if desc == "" {
		desc = w.Issue
	}
	return domain.Finding{
		Description:    desc,
		Severity:       domain.Severity(w.Severity),
		Location:       w.Location,
		Recommendation: w.Recommendation,
		Regulation:     w.Regulation,
	}
}

type wireResult struct {
	Summary          string        `json:"summary"`
	RiskScore        *float64      `json:"risk_score"`
	Clauses          []string      `json:"clauses"`
	Risks            []wireFinding `json:"risks"`
	ComplianceIssues []wireFinding `json:"compliance_issues"`
	Recommendations  []string      `json:"recommendations"`
}

type wireEnvelope struct {
	Success      bool       `json:"success"`
	AnalysisType string     `json:"analysis_type"`
	Result       wireResult `json:"result"`
}

// Decode validates raw against the response schema and converts it into a
// typed result whose RiskScore is already derived and clamped.
func Decode(raw []byte) (Envelope, error) {
	res, err := gojsonschema.Validate(responseSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return Envelope{}, &domain.DecodeError{Err: err}
	}
	if !res.Valid() {
		reasons := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			reasons = append(reasons, e.String())
		}
		return Envelope{}, &domain.DecodeError{Reasons: reasons}
	}

	var w wireEnvelope
	if err := json.Unmarshal(raw, &w); err != nil {
		return Envelope{}, &domain.DecodeError{Err: err}
	}
	return Envelope{
		Success:      w.Success,
		AnalysisType: w.AnalysisType,
		Result:       w.Result.toDomain(),
	}, nil
}

func (w wireResult) toDomain() domain.Result {
	r := domain.Result{
		Summary:         w.Summary,
		Clauses:         w.Clauses,
		Recommendations: w.Recommendations,
	}
	for _, f := range w.Risks {
		r.Risks = append(r.Risks, f.finding())
	}
	for _, f := range w.ComplianceIssues {
		r.ComplianceIssues = append(r.ComplianceIssues, f.finding())
	}
	in := domain.ScoreInput{Risks: r.Risks, RisksPresent: w.Risks != nil}
	if w.RiskScore != nil {
		in.RiskScore = *w.RiskScore
	}
	r.RiskScore = domain.Clamp(domain.Score(in))
	r.Normalize()
	return r
}
