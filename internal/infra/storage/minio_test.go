package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/bryanwahyu/legalynx/internal/domain/analysis"
)

// fakeS3 answers the handful of S3 calls the store makes.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
	deleted []string
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodHead:
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = string(body)
		f.types[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		f.deleted = append(f.deleted, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestStorePutAndRemove(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}, types: map[string]string{}}
	ts := httptest.NewServer(fake)
	defer ts.Close()

	ctx := context.Background()
	store, err := New(ctx, strings.TrimPrefix(ts.URL, "http://"), "us-east-1", "archive", "key", "secret", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	a := &analysis.ContractAnalysis{
		ID:           "11111111-2222-3333-4444-555555555555",
		UserID:       "user_1",
		Title:        "NDA",
		ContractText: "Confidential information shall not be disclosed.",
		Result:       analysis.Result{RiskScore: 15},
		RiskScore:    15,
	}
	url, err := store.Put(ctx, a)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !strings.HasSuffix(url, "/archive/user_1/11111111-2222-3333-4444-555555555555/") {
		t.Fatalf("url = %s", url)
	}

	contractKey := "archive/user_1/11111111-2222-3333-4444-555555555555/contract.txt"
	resultKey := "archive/user_1/11111111-2222-3333-4444-555555555555/result.json"
	fake.mu.Lock()
	if !strings.Contains(fake.objects[contractKey], "Confidential information") {
		t.Errorf("contract object missing: %v", fake.objects)
	}
	if !strings.Contains(fake.objects[resultKey], `"risk_score":15`) {
		t.Errorf("result object missing: %v", fake.objects)
	}
	if fake.types[resultKey] != "application/json" {
		t.Errorf("result content type = %q", fake.types[resultKey])
	}
	fake.mu.Unlock()

	if err := store.Remove(ctx, "user_1", a.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(fake.deleted) != 2 || fake.deleted[0] != contractKey || fake.deleted[1] != resultKey {
		t.Fatalf("deleted = %v", fake.deleted)
	}
}
