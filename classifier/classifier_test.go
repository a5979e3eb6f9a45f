package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"govx-be/apperrors"
	"govx-be/models"
)

func classifierStub(t *testing.T, result Result) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		var req classifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.ImageURL == "" {
			t.Error("imageUrl missing from request")
		}
		json.NewEncoder(w).Encode(result)
	}))
}

func TestClassifySuccess(t *testing.T) {
	srv := classifierStub(t, Result{
		Category:            models.Pothole,
		Confidence:          0.93,
		SuggestedDepartment: models.MunicipalCorporation,
	})
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	result, err := c.Classify(context.Background(), "https://media.example/pothole.jpg", "deep pothole near the crossing")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.Category != models.Pothole {
		t.Errorf("category = %s, want Pothole", result.Category)
	}
	if result.Confidence != 0.93 {
		t.Errorf("confidence = %f, want 0.93", result.Confidence)
	}
}

func TestClassifyLowConfidence(t *testing.T) {
	srv := classifierStub(t, Result{
		Category:   models.Garbage,
		Confidence: 0.31,
	})
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Classify(context.Background(), "https://media.example/blurry.jpg", "")

	var ce *apperrors.ClassificationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}
}

func TestClassifyRetriesOnceThenFails(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Classify(context.Background(), "https://media.example/img.jpg", "")

	var ce *apperrors.ClassificationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Errorf("expected exactly one retry (2 attempts), got %d", got)
	}
}

func TestClassifyMissingCategory(t *testing.T) {
	srv := classifierStub(t, Result{Confidence: 0.9})
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Classify(context.Background(), "https://media.example/img.jpg", "")

	var ce *apperrors.ClassificationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}
}

func TestClassifyUnconfigured(t *testing.T) {
	c := NewClient("", "")
	_, err := c.Classify(context.Background(), "https://media.example/img.jpg", "")

	var ce *apperrors.ClassificationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}
}
