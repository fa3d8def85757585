package prompt

import (
	"fmt"

	"github.com/bryanwahyu/legalynx/internal/domain/analysis"
)

// GetSystemPrompt provides strict directions for JSON output.
func GetSystemPrompt() string {
	return `You are an expert legal AI assistant specializing in contract analysis. You must produce one valid JSON object only (no markdown, no commentary, no code fences) that follows the schema given in the user message.

Requirements:
- Output must be a single JSON object.
- Severity values are exactly one of: High, Medium, Low.
- risk_score is an integer from 0 to 100 where 100 is the riskiest.
- Be thorough and precise. Focus on legal risks, compliance issues and areas for improvement.`
}

const fullSchema = `{
  "clauses": ["List of key clauses identified in the contract"],
  "risks": [
    {
      "risk": "Description of the risk",
      "severity": "High/Medium/Low",
      "location": "Where in the contract this risk appears",
      "recommendation": "How to mitigate this risk"
    }
  ],
  "compliance_issues": [
    {
      "issue": "Description of compliance issue",
      "regulation": "Relevant regulation or standard",
      "severity": "High/Medium/Low",
      "recommendation": "How to address this issue"
    }
  ],
  "summary": "Brief summary of the contract's main terms and purpose",
  "risk_score": 75,
  "recommendations": ["List of general recommendations for improving the contract"]
}`

const risksSchema = `{
  "risks": [
    {
      "risk": "Description of the risk",
      "severity": "High/Medium/Low",
      "location": "Where in the contract this risk appears",
      "recommendation": "How to mitigate this risk"
    }
  ],
  "risk_score": 75
}`

const clausesSchema = `{
  "clauses": ["List of key clauses with their purposes and implications"]
}`

const complianceSchema = `{
  "compliance_issues": [
    {
      "issue": "Description of compliance issue",
      "regulation": "Relevant regulation or standard",
      "severity": "High/Medium/Low",
      "recommendation": "How to address this issue"
    }
  ]
}`

// SchemaFor returns the JSON example the model must follow for t.
func SchemaFor(t analysis.Type) string {
	switch t {
	case analysis.TypeRisks:
		return risksSchema
	case analysis.TypeClauses:
		return clausesSchema
	case analysis.TypeCompliance:
		return complianceSchema
	default:
		return fullSchema
	}
}

// GetUserPrompt wraps the contract text with the task for t.
func GetUserPrompt(t analysis.Type, contractText string) string {
	var task string
	switch t {
	case analysis.TypeRisks:
		task = "Focus specifically on identifying risks in this contract."
	case analysis.TypeClauses:
		task = "Extract and categorize all important clauses from this contract."
	case analysis.TypeCompliance:
		task = "Focus on compliance issues in this contract."
	default:
		task = "Analyze the following contract and provide a comprehensive analysis."
	}
	return fmt.Sprintf("%s\n\nContract Text:\n%s\n\nProvide your analysis in the following JSON format:\n%s", task, contractText, SchemaFor(t))
}
