package prompt

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/bryanwahyu/legalynx/internal/domain/analysis"
)

const sampleContract = `MASTER SERVICES AGREEMENT

1. Term
This Agreement will automatically renew for successive one year terms.

2. Liability
The Supplier accepts unlimited liability for any breach. The Customer may terminate this Agreement at any time by written notice.

3. Data Protection
The Supplier will process personal data of Customer employees.

Section 4 Governing Law
Courts of Delaware have exclusive jurisdiction.`

func TestHeuristicFull(t *testing.T) {
	r := Heuristic(analysis.TypeFull, sampleContract)

	wantClauses := []string{"Term", "Liability", "Data Protection", "Governing Law", "Master Services Agreement"}
	if strings.Join(r.Clauses, "|") != strings.Join(wantClauses, "|") {
		t.Fatalf("clauses = %q", r.Clauses)
	}

	titles := map[string]Risk{}
	for _, risk := range r.Risks {
		titles[risk.Risk] = risk
	}
	for _, want := range []string{"Uncapped liability", "Termination for convenience", "Automatic renewal", "Exclusive forum selection"} {
		if _, ok := titles[want]; !ok {
			t.Errorf("missing risk %q in %+v", want, r.Risks)
		}
	}
	if got := titles["Uncapped liability"].Location; got != "Paragraph 3" {
		t.Errorf("location = %q, want Paragraph 3", got)
	}
	if len(r.ComplianceIssues) != 1 || r.ComplianceIssues[0].Regulation != "GDPR / CCPA" {
		t.Fatalf("compliance = %+v", r.ComplianceIssues)
	}
	if r.Summary == "" || len(r.Recommendations) == 0 {
		t.Fatal("full analysis needs summary and recommendations")
	}
	if r.RiskScore != nil {
		t.Fatal("heuristic must not supply a score")
	}
}

func TestHeuristicScopedByType(t *testing.T) {
	clauses := Heuristic(analysis.TypeClauses, sampleContract)
	if clauses.Risks != nil || clauses.ComplianceIssues != nil || len(clauses.Clauses) == 0 {
		t.Fatalf("clauses only: %+v", clauses)
	}

	risks := Heuristic(analysis.TypeRisks, "A plain text with nothing of note.")
	raw, _ := json.Marshal(risks)
	if string(raw) != `{"risks":[]}` {
		t.Fatalf("risks only: %s", raw)
	}
	if risks.Risks == nil {
		t.Fatal("risks list must be present for risks analysis")
	}

	comp := Heuristic(analysis.TypeCompliance, "Cardholder data is stored by the vendor.")
	if len(comp.ComplianceIssues) != 1 || comp.ComplianceIssues[0].Regulation != "PCI DSS" || comp.Clauses != nil {
		t.Fatalf("compliance only: %+v", comp)
	}
}

func TestUserPromptCarriesTextAndSchema(t *testing.T) {
	for _, typ := range []analysis.Type{analysis.TypeFull, analysis.TypeRisks, analysis.TypeClauses, analysis.TypeCompliance} {
		p := GetUserPrompt(typ, "CONTRACT BODY")
		if !strings.Contains(p, "CONTRACT BODY") || !strings.Contains(p, SchemaFor(typ)) {
			t.Errorf("%s prompt incomplete", typ)
		}
	}
	if !strings.Contains(SchemaFor(analysis.TypeCompliance), "compliance_issues") || strings.Contains(SchemaFor(analysis.TypeClauses), "risks") {
		t.Fatal("schemas mixed up")
	}
}
