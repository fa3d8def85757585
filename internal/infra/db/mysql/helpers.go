package mysql

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanwahyu/legalynx/internal/domain/analysis"
)

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func encodeResult(r analysis.Result) (string, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode analysis result: %w", err)
	}
	return string(raw), nil
}

func decodeResult(raw []byte) (analysis.Result, error) {
	var r analysis.Result
	if len(strings.TrimSpace(string(raw))) == 0 {
		return r, nil
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return r, fmt.Errorf("decode analysis result: %w", err)
	}
	return r, nil
}
