package analysis

// FallbackResult is the canned result used when the analysis service cannot
// be reached. It is the same value on every call.
func FallbackResult() Result {
	return Result{
		Summary: "Contract analysis unavailable due to API connection issues",
		Clauses: []string{"Unable to analyze clauses - API unavailable"},
		Risks: []Finding{{
			Description:    "API unavailable - using fallback analysis",
			Severity:       SeverityMedium,
			Location:       "System",
			Recommendation: "Ensure API server is running",
		}},
		ComplianceIssues: []Finding{},
		Recommendations: []string{
			"Ensure API server is running",
			"Check network connectivity",
		},
		RiskScore: DefaultScore,
	}
}
