package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/go-cmp/cmp"
)

func TestParsePaginationClampsLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=500&offset=-1", nil)
	p := ParsePagination(req, 50, 200)
	if p.Limit != 200 || p.Offset != 0 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	if diff := cmp.Diff([]int{3, 4}, Page(items, Pagination{Limit: 2, Offset: 2})); diff != "" {
		t.Fatalf("page mismatch (-want +got):\n%s", diff)
	}
	if got := Page(items, Pagination{Limit: 2, Offset: 9}); len(got) != 0 {
		t.Fatalf("expected empty page, got %v", got)
	}
}

func TestQueryDateDefaultsToToday(t *testing.T) {
	now := time.Date(2025, 5, 3, 10, 0, 0, 0, time.UTC)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := QueryDate(req, "date", now); got != "2025-05-03" {
		t.Fatalf("expected today, got %q", got)
	}
	req = httptest.NewRequest(http.MethodGet, "/?date=2024-11-01", nil)
	if got := QueryDate(req, "date", now); got != "2024-11-01" {
		t.Fatalf("expected query date, got %q", got)
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Memo string `json:"memo"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := DecodeJSON(req, &dst); !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("expected empty body error, got %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"memo":"ok","extra":1}`))
	if err := DecodeJSON(req, &dst); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestValidatorCheckMapsFieldErrors(t *testing.T) {
	type details struct {
		MainContent string `validate:"required"`
	}
	type form struct {
		Status  string `validate:"oneof=Completed FollowUpRequired"`
		Details details
	}
	err := validator.New().Struct(form{Status: "Open"})
	v := NewValidator()
	if !v.Check(err) {
		t.Fatal("expected validation errors to be recognised")
	}
	want := []ValidationIssue{
		{Field: "details.mainContent", Reason: "is required"},
		{Field: "status", Reason: "must be one of Completed FollowUpRequired"},
	}
	if diff := cmp.Diff(want, v.Issues()); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
	if NewValidator().Check(errors.New("boom")) {
		t.Fatal("expected non-validation error to be reported back")
	}
}
