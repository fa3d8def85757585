package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bryanwahyu/legalynx/internal/domain/analysis"
)

// Risk mirrors the wire shape of one risk in an /analyze result.
type Risk struct {
	Risk           string `json:"risk"`
	Severity       string `json:"severity"`
	Location       string `json:"location,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
}

// ComplianceIssue mirrors the wire shape of one compliance issue.
type ComplianceIssue struct {
	Issue          string `json:"issue"`
	Regulation     string `json:"regulation,omitempty"`
	Severity       string `json:"severity"`
	Recommendation string `json:"recommendation,omitempty"`
}

// Result is the "result" object served by /analyze.
type Result struct {
	Clauses          []string          `json:"clauses,omitempty"`
	Risks            []Risk            `json:"risks"`
	ComplianceIssues []ComplianceIssue `json:"compliance_issues,omitempty"`
	Summary          string            `json:"summary,omitempty"`
	RiskScore        *int              `json:"risk_score,omitempty"`
	Recommendations  []string          `json:"recommendations,omitempty"`
}

type detector struct {
	re             *regexp.Regexp
	severity       string
	title          string
	recommendation string
}

var riskDetectors = []detector{
	{regexp.MustCompile(`(?i)unlimited\s+liabilit|liabilit(y|ies)\s+shall\s+not\s+be\s+limited`), "High", "Uncapped liability", "Negotiate a liability cap tied to fees paid under the agreement."},
	{regexp.MustCompile(`(?i)indemnif(y|ies|ication)[^.]{0,120}(any\s+and\s+all|all\s+claims)`), "High", "Broad indemnification obligation", "Limit indemnities to third-party claims caused by the indemnifying party's breach or negligence."},
	{regexp.MustCompile(`(?i)terminate[^.]{0,60}(at\s+any\s+time|for\s+convenience|without\s+cause)`), "Medium", "Termination for convenience", "Require a notice period and payment for work performed before termination."},
	{regexp.MustCompile(`(?i)automatic(ally)?\s+renew`), "Medium", "Automatic renewal", "Add a renewal reminder and a right to opt out before each renewal term."},
	{regexp.MustCompile(`(?i)non-?compet`), "Medium", "Non-compete restriction", "Narrow the duration, territory and scope of the restriction."},
	{regexp.MustCompile(`(?i)exclusive\s+(jurisdiction|venue)`), "Low", "Exclusive forum selection", "Confirm the chosen forum is acceptable and cost-effective."},
	{regexp.MustCompile(`(?i)late\s+(payment\s+)?(fee|interest|charge)`), "Low", "Late payment penalties", "Check the rate against statutory limits and add a grace period."},
	{regexp.MustCompile(`(?i)(sole|absolute)\s+discretion`), "Medium", "Unilateral discretion", "Replace sole discretion with a reasonableness standard."},
	{regexp.MustCompile(`(?i)assign[^.]{0,60}without[^.]{0,20}consent`), "Low", "Free assignment by counterparty", "Require mutual consent for assignment except in a change of control."},
}

var complianceDetectors = []struct {
	detector
	regulation string
}{
	{detector{regexp.MustCompile(`(?i)personal\s+(data|information)`), "High", "Personal data processed without data protection terms", "Add a data processing agreement covering purpose, retention and sub-processors."}, "GDPR / CCPA"},
	{detector{regexp.MustCompile(`(?i)health\s+(information|records|data)`), "High", "Health information in scope", "Add a business associate agreement and safeguards."}, "HIPAA"},
	{detector{regexp.MustCompile(`(?i)credit\s+card|cardholder`), "Medium", "Payment card data in scope", "Require PCI DSS compliance attestations from the processor."}, "PCI DSS"},
	{detector{regexp.MustCompile(`(?i)export|sanction`), "Low", "Export control exposure", "Add an export control and sanctions compliance clause."}, "Export control regulations"},
}

var (
	clauseHeading = regexp.MustCompile(`(?m)^\s*(?:(?i:section|article|clause)\s+)?\d+(?:\.\d+)*[.)]?\s+([A-Z][A-Za-z ,&'-]{2,60})\s*[.:]?\s*$`)
	upperHeading  = regexp.MustCompile(`(?m)^\s*([A-Z][A-Z &'-]{3,60})\s*$`)
	paragraphs    = regexp.MustCompile(`\n\s*\n`)
)

const maxFindings = 20

// Heuristic produces an /analyze result for contractText without a model.
// risk_score is left out so consumers derive it from the severities.
func Heuristic(t analysis.Type, contractText string) Result {
	paras := paragraphs.Split(contractText, -1)
	locate := func(re *regexp.Regexp) (string, bool) {
		for i, p := range paras {
			if re.MatchString(p) {
				return fmt.Sprintf("Paragraph %d", i+1), true
			}
		}
		return "", false
	}

	var out Result
	if t == analysis.TypeFull || t == analysis.TypeClauses {
		out.Clauses = extractClauses(contractText)
	}
	if t == analysis.TypeFull || t == analysis.TypeRisks {
		for _, d := range riskDetectors {
			if loc, ok := locate(d.re); ok && len(out.Risks) < maxFindings {
				out.Risks = append(out.Risks, Risk{Risk: d.title, Severity: d.severity, Location: loc, Recommendation: d.recommendation})
			}
		}
		if out.Risks == nil {
			out.Risks = []Risk{}
		}
	}
	if t == analysis.TypeFull || t == analysis.TypeCompliance {
		for _, d := range complianceDetectors {
			if _, ok := locate(d.re); ok {
				out.ComplianceIssues = append(out.ComplianceIssues, ComplianceIssue{
					Issue: d.title, Regulation: d.regulation, Severity: d.severity, Recommendation: d.recommendation,
				})
			}
		}
	}
	if t == analysis.TypeFull {
		out.Summary = summarize(contractText, len(out.Risks), len(out.ComplianceIssues))
		out.Recommendations = advice(out.Risks)
	}
	return out
}

func extractClauses(text string) []string {
	title := cases.Title(language.English)
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, s)
	}
	for _, m := range clauseHeading.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range upperHeading.FindAllStringSubmatch(text, -1) {
		add(title.String(m[1]))
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func summarize(text string, risks, issues int) string {
	words := len(strings.Fields(text))
	return fmt.Sprintf("Automated keyword review of a %d-word contract: %d risk(s) and %d compliance issue(s) flagged. A model-backed review was not available.", words, risks, issues)
}

func advice(risks []Risk) []string {
	high := 0
	for _, r := range risks {
		if r.Severity == "High" {
			high++
		}
	}
	switch {
	case high > 0:
		return []string{"Have counsel review the high severity items before signing", "Negotiate liability caps and narrower indemnities"}
	case len(risks) > 0:
		return []string{"Clarify termination and renewal mechanics", "Confirm notice periods are workable"}
	default:
		return []string{"No common risk patterns detected; a manual review is still recommended"}
	}
}
