package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSearchPageNarrowsResults(t *testing.T) {
	app, _, db := newApp(t)
	sid := signedInSID(t, db, "alice")

	resp, err := app.Test(withSID(httptest.NewRequest("GET", "/search?query=red+chair", nil), sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search: status %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	s := string(body)
	if !strings.Contains(s, "red chair") {
		t.Fatalf("narrowed match missing; body=%s", s)
	}
	if strings.Contains(s, "red table") || strings.Contains(s, "blue chair") {
		t.Fatalf("results not narrowed by second token; body=%s", s)
	}
}

func TestSearchRejectsInvalidQuery(t *testing.T) {
	app, _, db := newApp(t)
	sid := signedInSID(t, db, "alice")

	resp, err := app.Test(withSID(httptest.NewRequest("GET", "/search?query=%3Cscript%3E", nil), sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid query: status %d, want 400", resp.StatusCode)
	}
}

func TestSearchEmptyQueryRendersForm(t *testing.T) {
	app, _, db := newApp(t)
	sid := signedInSID(t, db, "alice")

	resp, err := app.Test(withSID(httptest.NewRequest("GET", "/search", nil), sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("empty query: status %d, want 200", resp.StatusCode)
	}
}
