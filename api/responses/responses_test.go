package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/venkateshdh/gotours-backend/pkg/errors"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}

	var body Envelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode success envelope: %v", err)
	}
	if body.Status != "success" {
		t.Fatalf("unexpected status %q", body.Status)
	}
	if body.Data.(map[string]any)["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body.Data)
	}
}

func TestWriteListIncludesResults(t *testing.T) {
	w := httptest.NewRecorder()
	WriteList(w, 3, []string{"a", "b", "c"})

	var body Envelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode list envelope: %v", err)
	}
	if body.Results == nil || *body.Results != 3 {
		t.Fatalf("expected results=3, got %v", body.Results)
	}
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "bad input").
		WithDetails(map[string]string{"field": "demo"})
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}

	var body Envelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Status != "fail" {
		t.Fatalf("expected fail status for 4xx, got %q", body.Status)
	}
	if body.Message != "bad input" {
		t.Fatalf("expected operational message to surface, got %q", body.Message)
	}
	if body.Details == nil {
		t.Fatalf("expected details in public payload")
	}
}

func TestWriteErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}

	var body Envelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Status != "error" {
		t.Fatalf("expected error status for 5xx, got %q", body.Status)
	}
	if body.Message != "something went very wrong!" {
		t.Fatalf("internal errors must stay terse, got %q", body.Message)
	}
	if body.Error != nil {
		t.Fatalf("error chain should be omitted outside verbose mode")
	}
}

func TestWriteErrorVerboseIncludesChain(t *testing.T) {
	SetVerbose(true)
	defer SetVerbose(false)

	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	var body Envelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Error == nil {
		t.Fatalf("expected error dump in verbose mode")
	}
}
