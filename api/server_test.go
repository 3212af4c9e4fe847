package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/7mit3/BidFix-sub000/core/assembly"
	"github.com/7mit3/BidFix-sub000/core/breakdown"
	"github.com/7mit3/BidFix-sub000/core/estimate"
	"github.com/7mit3/BidFix-sub000/core/penetration"
	"github.com/7mit3/BidFix-sub000/core/session"
	"github.com/7mit3/BidFix-sub000/core/takeoff"
	"github.com/7mit3/BidFix-sub000/db"
)

func newStoreServer(t *testing.T) *Server {
	t.Helper()
	st, err := db.NewStore(filepath.Join(t.TempDir(), "bidfix.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewServerWithStore("test", st)
}

func do(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, w.Body.String())
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	decode(t, w, &resp)
	return resp.Error.Code
}

// warehouseRequest mirrors the mid-size job the session tests compile
func warehouseRequest() EstimateRequest {
	return EstimateRequest{
		System:        "tpo",
		Name:          "Riverside Warehouse",
		TaxPercent:    7.25,
		ProfitPercent: 15,
		Assembly: &assembly.Config{
			Deck:              assembly.DeckSteel,
			VaporBarrier:      "vb-sa",
			InsulationEnabled: true,
			Layers: []assembly.Layer{
				{Enabled: true, Thickness: 2.5},
				{Enabled: true, Thickness: 2.0},
			},
			CoverBoard:  "cb-hd-05",
			MembraneMil: 60,
			Attachment:  assembly.MechanicallyAttached,
		},
		Measurements: takeoff.Measurements{
			RoofArea:       10000,
			WallLF:         420,
			WallHeight:     2.5,
			BaseFlashingLF: 180,
		},
		Penetrations: map[string]int{"pen-pipe-small": 2, "pen-drain": 1},
		Flashing: []penetration.FlashingSpec{
			{Profile: "coping", Metal: penetration.Galvanized, Gauge: 24, LF: 120},
		},
	}
}

func findItem(t *testing.T, items []estimate.LineItem, productID string) estimate.LineItem {
	t.Helper()
	for _, item := range items {
		if item.ProductID == productID {
			return item
		}
	}
	t.Fatalf("item %s not in estimate", productID)
	return estimate.LineItem{}
}

func TestEstimateEndpoint(t *testing.T) {
	s := NewServer("test")

	w := do(t, s, http.MethodPost, "/api/v1/estimate", warehouseRequest())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp EstimateResponse
	decode(t, w, &resp)
	if resp.RequestID == "" {
		t.Error("missing request id")
	}
	r := resp.Estimate
	if r == nil {
		t.Fatal("missing estimate")
	}
	if got := r.GrandTotal.String(); got != "91204.4577" {
		t.Errorf("grand total = %s, want 91204.4577", got)
	}
	if r.Insulation.Thickness != 4.5 {
		t.Errorf("insulation thickness = %v, want 4.5", r.Insulation.Thickness)
	}
	if len(r.Breakdown.Sections) != 4 {
		t.Errorf("sections = %d, want 4", len(r.Breakdown.Sections))
	}
	if r.PricingDegraded {
		t.Error("estimate degraded without a store in play")
	}
}

func TestEstimateValidation(t *testing.T) {
	s := NewServer("test")

	t.Run("malformed json", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/api/v1/estimate", "{")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
		if code := errorCode(t, w); code != "PARSING_ERROR" {
			t.Errorf("code = %s", code)
		}
	})

	t.Run("unknown system", func(t *testing.T) {
		req := warehouseRequest()
		req.System = "shingle"
		w := do(t, s, http.MethodPost, "/api/v1/estimate", req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
		if code := errorCode(t, w); code != "INPUT_ERROR" {
			t.Errorf("code = %s", code)
		}
	})

	t.Run("malformed price edit", func(t *testing.T) {
		req := warehouseRequest()
		req.PriceEdits = map[string]string{"tpo-60": "cheap"}
		w := do(t, s, http.MethodPost, "/api/v1/estimate", req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("unknown section name", func(t *testing.T) {
		req := warehouseRequest()
		req.Excluded = map[string][]string{"consumables": {"tpo-60"}}
		w := do(t, s, http.MethodPost, "/api/v1/estimate", req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
	})
}

func TestEstimateAppliesEditsAndToggles(t *testing.T) {
	s := NewServer("test")

	base := warehouseRequest()
	baseResp := EstimateResponse{}
	decode(t, do(t, s, http.MethodPost, "/api/v1/estimate", base), &baseResp)

	req := warehouseRequest()
	req.PriceEdits = map[string]string{"tpo-60": "850"}
	req.Excluded = map[string][]string{"labor": {"labor-tearoff"}}

	w := do(t, s, http.MethodPost, "/api/v1/estimate", req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp EstimateResponse
	decode(t, w, &resp)

	item := findItem(t, resp.Estimate.Materials.Items, "tpo-60")
	if got := item.UnitPrice.String(); got != "850" {
		t.Errorf("edited unit price = %s, want 850", got)
	}

	labor := resp.Estimate.Breakdown.Section(breakdown.SectionLabor)
	found := false
	for _, row := range labor.Rows {
		if row.ID == "labor-tearoff" {
			found = true
			if row.Included {
				t.Error("labor-tearoff still included")
			}
			if row.Quantity != 10000 {
				t.Errorf("excluded row lost its quantity: %v", row.Quantity)
			}
		}
	}
	if !found {
		t.Fatal("labor-tearoff row missing")
	}

	if resp.Estimate.GrandTotal.Cmp(baseResp.Estimate.GrandTotal) >= 0 {
		t.Errorf("grand total %s not below baseline %s",
			resp.Estimate.GrandTotal, baseResp.Estimate.GrandTotal)
	}
}

func TestSystemsEndpoints(t *testing.T) {
	s := NewServer("test")

	w := do(t, s, http.MethodGet, "/api/v1/systems", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var systems struct {
		Systems []SystemInfo `json:"systems"`
		Count   int          `json:"count"`
	}
	decode(t, w, &systems)
	if systems.Count != 3 {
		t.Errorf("systems = %d, want 3", systems.Count)
	}

	w = do(t, s, http.MethodGet, "/api/v1/systems/tpo/catalog", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("catalog status = %d", w.Code)
	}
	var cat struct {
		Products []ProductInfo `json:"products"`
		Count    int           `json:"count"`
	}
	decode(t, w, &cat)
	if cat.Count == 0 || len(cat.Products) != cat.Count {
		t.Errorf("catalog count = %d with %d products", cat.Count, len(cat.Products))
	}
	if cat.Products[0].Price == "" {
		t.Error("product price missing")
	}

	w = do(t, s, http.MethodGet, "/api/v1/systems/shingle/catalog", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown system status = %d, want 404", w.Code)
	}
}

func TestStoreEndpointsWithoutStore(t *testing.T) {
	s := NewServer("test")

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/api/v1/systems/tpo/prices"},
		{http.MethodPost, "/api/v1/estimates"},
		{http.MethodGet, "/api/v1/estimates"},
	} {
		w := do(t, s, tc.method, tc.path, nil)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s %s status = %d, want 503", tc.method, tc.path, w.Code)
		}
	}
}

func TestPriceLifecycleOverHTTP(t *testing.T) {
	s := newStoreServer(t)

	w := do(t, s, http.MethodPut, "/api/v1/systems/tpo/prices/tpo-60",
		SetPriceRequest{Price: "875.50"})
	if w.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", w.Code, w.Body.String())
	}

	w = do(t, s, http.MethodPut, "/api/v1/systems/tpo/prices/discontinued",
		SetPriceRequest{Price: "10"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown product PUT status = %d, want 404", w.Code)
	}

	w = do(t, s, http.MethodPut, "/api/v1/systems/tpo/prices/tpo-60",
		SetPriceRequest{Price: "a lot"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad price PUT status = %d, want 400", w.Code)
	}

	w = do(t, s, http.MethodGet, "/api/v1/systems/tpo/prices", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}
	var list struct {
		Overrides []PriceOverride `json:"overrides"`
		Count     int             `json:"count"`
	}
	decode(t, w, &list)
	if list.Count != 1 || list.Overrides[0].ProductID != "tpo-60" {
		t.Fatalf("overrides = %+v", list)
	}
	if list.Overrides[0].Price != "875.5" || list.Overrides[0].Default != "920" {
		t.Errorf("override = %+v", list.Overrides[0])
	}

	// The override now prices estimates.
	var resp EstimateResponse
	decode(t, do(t, s, http.MethodPost, "/api/v1/estimate", warehouseRequest()), &resp)
	item := findItem(t, resp.Estimate.Materials.Items, "tpo-60")
	if got := item.UnitPrice.String(); got != "875.5" {
		t.Errorf("estimate priced tpo-60 at %s, want the 875.5 override", got)
	}

	w = do(t, s, http.MethodDelete, "/api/v1/systems/tpo/prices/tpo-60", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d", w.Code)
	}
	w = do(t, s, http.MethodDelete, "/api/v1/systems/tpo/prices/tpo-60", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second DELETE status = %d, want 404", w.Code)
	}
}

func TestSavedEstimateLifecycle(t *testing.T) {
	s := newStoreServer(t)

	w := do(t, s, http.MethodPost, "/api/v1/estimates", warehouseRequest())
	if w.Code != http.StatusCreated {
		t.Fatalf("save status = %d, body %s", w.Code, w.Body.String())
	}
	var saved SavedEstimate
	decode(t, w, &saved)
	if saved.ID == "" || saved.Name != "Riverside Warehouse" {
		t.Fatalf("saved = %+v", saved)
	}
	if saved.GrandTotal != "91204.4577" {
		t.Errorf("saved grand total = %s", saved.GrandTotal)
	}

	w = do(t, s, http.MethodGet, "/api/v1/estimates", nil)
	var list struct {
		Estimates []SavedEstimate `json:"estimates"`
		Count     int             `json:"count"`
	}
	decode(t, w, &list)
	if list.Count != 1 || list.Estimates[0].ID != saved.ID {
		t.Fatalf("listing = %+v", list)
	}

	w = do(t, s, http.MethodGet, "/api/v1/estimates/"+saved.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, body %s", w.Code, w.Body.String())
	}
	var loaded struct {
		Saved    SavedEstimate   `json:"saved"`
		Estimate *session.Result `json:"estimate"`
	}
	decode(t, w, &loaded)
	if got := loaded.Estimate.GrandTotal.String(); got != "91204.4577" {
		t.Errorf("replayed grand total = %s, want 91204.4577", got)
	}

	w = do(t, s, http.MethodGet, "/api/v1/estimates/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing estimate status = %d, want 404", w.Code)
	}

	w = do(t, s, http.MethodDelete, "/api/v1/estimates/"+saved.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = do(t, s, http.MethodDelete, "/api/v1/estimates/"+saved.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestExportEndpoints(t *testing.T) {
	s := newStoreServer(t)

	var saved SavedEstimate
	decode(t, do(t, s, http.MethodPost, "/api/v1/estimates", warehouseRequest()), &saved)

	w := do(t, s, http.MethodPost, "/api/v1/estimates/"+saved.ID+"/export?format=csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("csv status = %d, body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("csv content type = %s", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "Category,Item,") {
		t.Errorf("csv body starts %q", w.Body.String())
	}

	w = do(t, s, http.MethodPost, "/api/v1/estimates/"+saved.ID+"/export?format=xlsx", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("xlsx status = %d", w.Code)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
		t.Error("xlsx body is not a workbook")
	}

	w = do(t, s, http.MethodPost, "/api/v1/estimates/"+saved.ID+"/export?format=pdf", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("pdf status = %d, want 400", w.Code)
	}
}

func TestDiffEndpoint(t *testing.T) {
	s := newStoreServer(t)

	var base SavedEstimate
	decode(t, do(t, s, http.MethodPost, "/api/v1/estimates", warehouseRequest()), &base)

	revised := warehouseRequest()
	revised.PriceEdits = map[string]string{"tpo-60": "850"}
	var head SavedEstimate
	decode(t, do(t, s, http.MethodPost, "/api/v1/estimates", revised), &head)

	w := do(t, s, http.MethodPost, "/api/v1/estimates/diff",
		DiffRequest{Base: base.ID, Head: head.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("diff status = %d, body %s", w.Code, w.Body.String())
	}
	var resp DiffResponse
	decode(t, w, &resp)

	// 11 rolls repriced from 920 to 850: base moves by 770, the section
	// total by 770 * 1.2225 with tax and profit on.
	if resp.Delta != "-$941.33" {
		t.Errorf("delta = %s, want -$941.33", resp.Delta)
	}
	if len(resp.Sections) != 4 {
		t.Fatalf("sections = %d", len(resp.Sections))
	}
	if got := resp.Sections[0].Delta; got != "-$941.33" {
		t.Errorf("materials delta = %s", got)
	}
	if got := resp.Sections[2].Delta; got != "+$0.00" {
		t.Errorf("labor delta = %s, want +$0.00", got)
	}

	if len(resp.Changes) != 1 {
		t.Fatalf("changes = %+v", resp.Changes)
	}
	c := resp.Changes[0]
	if c.Type != "changed" || c.RowID != "tpo-60" || c.Delta != "-$770.00" {
		t.Errorf("change = %+v", c)
	}
	if c.Before != "10120.00" || c.After != "9350.00" {
		t.Errorf("change amounts = %+v", c)
	}

	w = do(t, s, http.MethodPost, "/api/v1/estimates/diff",
		DiffRequest{Base: base.ID, Head: "nope"})
	if w.Code != http.StatusNotFound {
		t.Errorf("missing head status = %d, want 404", w.Code)
	}

	w = do(t, s, http.MethodPost, "/api/v1/estimates/diff", DiffRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty diff status = %d, want 400", w.Code)
	}
}

func TestHealthAndVersion(t *testing.T) {
	s := NewServer("1.2.3")

	w := do(t, s, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", w.Code)
	}
	var health map[string]interface{}
	decode(t, w, &health)
	if health["status"] != "healthy" {
		t.Errorf("health = %+v", health)
	}

	w = do(t, s, http.MethodGet, "/version", nil)
	var version map[string]string
	decode(t, w, &version)
	if version["version"] != "1.2.3" || version["api_version"] != "v1" {
		t.Errorf("version = %+v", version)
	}
}
