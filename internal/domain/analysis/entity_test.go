package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"", TypeFull, false},
		{"full", TypeFull, false},
		{" Risks ", TypeRisks, false},
		{"clauses", TypeClauses, false},
		{"compliance", TypeCompliance, false},
		{"bulk", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
			var ve *ValidationError
			if tt.wantErr && !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestResultStorageRoundTrip(t *testing.T) {
	in := Result{
		Summary: "Services agreement between Acme and Beta",
		Clauses: []string{"Termination", "Indemnity", "Governing law", "Assignment"},
		Risks: []Finding{
			{Description: "Unlimited liability", Severity: SeverityHigh, Location: "Section 9", Recommendation: "Add a cap"},
			{Description: "Auto renewal", Severity: "Critical"},
			{Description: "Vague SLA", Severity: SeverityLow},
		},
		ComplianceIssues: []Finding{
			{Description: "No DPA", Severity: SeverityMedium, Regulation: "GDPR Art. 28"},
		},
		Recommendations: []string{"Negotiate cap", "Add DPA"},
		RiskScore:       75,
	}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out Result
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}
}

func TestNormalizeFillsEmptySequences(t *testing.T) {
	var r Result
	r.Normalize()
	raw, _ := json.Marshal(r)
	want := `{"clauses":[],"risks":[],"compliance_issues":[],"recommendations":[],"risk_score":0}`
	if string(raw) != want {
		t.Fatalf("got %s\nwant %s", raw, want)
	}
}

func TestFallbackResultIsDeterministic(t *testing.T) {
	a, b := FallbackResult(), FallbackResult()
	if !reflect.DeepEqual(a, b) {
		t.Fatal("fallback differs between calls")
	}
	if a.RiskScore != 50 || len(a.Risks) != 1 || a.Risks[0].Severity != SeverityMedium || a.Summary == "" {
		t.Fatalf("unexpected fallback: %+v", a)
	}
	if len(a.Recommendations) != 2 {
		t.Fatalf("want 2 recommendations, got %d", len(a.Recommendations))
	}
}

func TestSummarize(t *testing.T) {
	list := []*ContractAnalysis{{RiskScore: 90}, {RiskScore: 70}, {RiskScore: 50}, {RiskScore: 10}, {RiskScore: 0}}
	got := Summarize(list)
	want := Stats{Total: 5, HighRisk: 2, LowRisk: 2}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&ValidationError{Msg: "Title and contract text are required"}, "Title and contract text are required"},
		{fmt.Errorf("analyze: %w", &TimeoutError{}), MsgTimeout},
		{&ServiceError{Status: 500, Body: "secret stack trace"}, MsgUnavailable},
		{&NetworkError{Err: errors.New("dial tcp")}, MsgNetwork},
		{&DecodeError{Reasons: []string{"bad"}}, MsgGeneric},
		{errors.New("boom"), MsgGeneric},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestServiceErrorMessage(t *testing.T) {
	err := &ServiceError{Status: 500, Body: "boom"}
	if err.Error() != "API Error: 500 - boom" {
		t.Fatalf("got %q", err.Error())
	}
}
