package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func postJSON(t *testing.T, app *fiber.App, sid, path, body string) map[string]any {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(withSID(req, sid))
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	return out
}

func getJSON(t *testing.T, app *fiber.App, sid, path string) map[string]any {
	t.Helper()
	resp, err := app.Test(withSID(httptest.NewRequest("GET", path, nil), sid))
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	return out
}

func TestCartAPIFlow(t *testing.T) {
	app, _, db := newApp(t)
	sid := signedInSID(t, db, "alice")

	var redChair, blueChair string
	if err := db.Get(&redChair, `SELECT id FROM products WHERE name='red chair'`); err != nil {
		t.Fatal(err)
	}
	if err := db.Get(&blueChair, `SELECT id FROM products WHERE name='blue chair'`); err != nil {
		t.Fatal(err)
	}

	// out of stock add fails with a structured message
	res := postJSON(t, app, sid, "/cart/add", `{"id":"`+blueChair+`"}`)
	if res["result"] != false {
		t.Fatalf("out-of-stock add: %+v", res)
	}
	if msg, _ := res["message"].(string); !strings.Contains(msg, "out of STOCK") {
		t.Fatalf("out-of-stock message missing: %+v", res)
	}

	// missing id fails
	if res := postJSON(t, app, sid, "/cart/add", `{}`); res["result"] != false {
		t.Fatalf("missing id add: %+v", res)
	}

	// in-stock add succeeds
	if res := postJSON(t, app, sid, "/cart/add", `{"id":"`+redChair+`"}`); res["result"] != true {
		t.Fatalf("add: %+v", res)
	}

	if res := getJSON(t, app, sid, "/cart/amount"); res["amount"] != float64(1) {
		t.Fatalf("amount: %+v", res)
	}
	if res := getJSON(t, app, sid, "/cart/"+redChair+"/exist"); res["result"] != true {
		t.Fatalf("exist: %+v", res)
	}
	if res := getJSON(t, app, sid, "/cart/"+blueChair+"/exist"); res["result"] != false {
		t.Fatalf("exist of absent product: %+v", res)
	}

	// remove succeeds once, then fails when the line is gone
	if res := postJSON(t, app, sid, "/cart/remove", `{"id":"`+redChair+`"}`); res["result"] != true {
		t.Fatalf("remove: %+v", res)
	}
	if res := postJSON(t, app, sid, "/cart/remove", `{"id":"`+redChair+`"}`); res["result"] != false {
		t.Fatalf("remove of absent product: %+v", res)
	}
	if res := getJSON(t, app, sid, "/cart/amount"); res["amount"] != float64(0) {
		t.Fatalf("amount after removes: %+v", res)
	}
}

func TestCartClearRedirectsHome(t *testing.T) {
	app, _, db := newApp(t)
	sid := signedInSID(t, db, "alice")

	var redChair string
	if err := db.Get(&redChair, `SELECT id FROM products WHERE name='red chair'`); err != nil {
		t.Fatal(err)
	}
	postJSON(t, app, sid, "/cart/add", `{"id":"`+redChair+`"}`)

	resp, err := app.Test(withSID(httptest.NewRequest("GET", "/cart/clear", nil), sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/" {
		t.Fatalf("clear: status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if res := getJSON(t, app, sid, "/cart/amount"); res["amount"] != float64(0) {
		t.Fatalf("amount after clear: %+v", res)
	}
}
