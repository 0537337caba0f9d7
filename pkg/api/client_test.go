package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token", "session-abc", time.Second, zap.NewNop())
}

func TestClient_UpdateClientField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/baza_klientov/api/update_client/42/" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("X-CSRFToken"); got != "test-token" {
			t.Errorf("Missing CSRF header, got %q", got)
		}
		if got := r.Header.Get("X-Requested-With"); got != "XMLHttpRequest" {
			t.Errorf("Missing AJAX marker, got %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		if got := r.PostFormValue("csrfmiddlewaretoken"); got != "test-token" {
			t.Errorf("Missing CSRF form field, got %q", got)
		}
		if got := r.PostFormValue("field_name"); got != "discount" {
			t.Errorf("Incorrect field_name: %q", got)
		}
		if got := r.PostFormValue("new_value"); got != "25" {
			t.Errorf("Incorrect new_value: %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "client": {"id": 42, "name": "ООО Ромашка", "discount": 25}}`))
	})

	rec, err := c.UpdateClientField(context.Background(), 42, "discount", "25")
	if err != nil {
		t.Fatalf("UpdateClientField failed: %v", err)
	}
	if rec.Discount != 25 || rec.Name != "ООО Ромашка" {
		t.Errorf("Incorrect canonical record: %+v", rec)
	}
}

func TestClient_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "error": "скидка вне диапазона"}`))
	})

	_, err := c.UpdateClientField(context.Background(), 1, "discount", "500")
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("Expected ServerError, got %v", err)
	}
	if serverErr.Message != "скидка вне диапазона" {
		t.Errorf("Incorrect message: %q", serverErr.Message)
	}
}

func TestClient_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	_, _, err := c.GetProschetPriceData(context.Background(), 1)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusInternalServerError {
		t.Errorf("Incorrect status code: %d", statusErr.Code)
	}
}

func TestClient_GetProschetPriceData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calculator/get-proschet-price-data/7/" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"print_components": [{"id": 1, "number": 1, "total_circulation_price": 100.5}],
			"additional_works": [{"id": 2, "number": 1, "title": "Ламинация", "price": 30}]
		}`))
	})

	components, works, err := c.GetProschetPriceData(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetProschetPriceData failed: %v", err)
	}
	if len(components) != 1 || components[0].TotalCirculationPrice != 100.5 {
		t.Errorf("Incorrect components: %+v", components)
	}
	if len(works) != 1 || works[0].Title != "Ламинация" {
		t.Errorf("Incorrect works: %+v", works)
	}
}

func TestClient_SaveSheetCalc_EchoFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vichisliniya_listov/save-data/" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Expected JSON body, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		// No data field: the client keeps the submitted params.
		w.Write([]byte(`{"success": true}`))
	})

	params := SheetCalcParams{Vyleta: 2, PolosaCount: 4, Color: "4+4", ListCount: 252}
	got, err := c.SaveSheetCalc(context.Background(), 5, params)
	if err != nil {
		t.Fatalf("SaveSheetCalc failed: %v", err)
	}
	if *got != params {
		t.Errorf("Missing echo should keep submitted params, got %+v", got)
	}
}

func TestClient_RecalculateComponents(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calculator/recalculate-components/3/" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		r.ParseForm()
		if got := r.PostFormValue("circulation"); got != "2000" {
			t.Errorf("Incorrect circulation: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "updated_count": 3, "message": "Пересчитано"}`))
	})

	count, message, err := c.RecalculateComponents(context.Background(), 3, 2000)
	if err != nil {
		t.Fatalf("RecalculateComponents failed: %v", err)
	}
	if count != 3 || message != "Пересчитано" {
		t.Errorf("Incorrect result: %d, %q", count, message)
	}
}

func TestClient_CalculateArbitraryPrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/print_price/api/calculate_arbitrary_price/9/" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"arbitrary_copies": 300,
			"price_per_sheet": 8.0,
			"interpolation_method": "linear",
			"interpolation_method_display": "Линейная"
		}`))
	})

	got, err := c.CalculateArbitraryPrice(context.Background(), 9, 300)
	if err != nil {
		t.Fatalf("CalculateArbitraryPrice failed: %v", err)
	}
	if got.Copies != 300 || got.PricePerSheet != 8.0 || got.InterpolationMethod != "linear" {
		t.Errorf("Incorrect result: %+v", got)
	}
}
