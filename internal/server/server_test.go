package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/calk-kg/calk/internal/config"
	"go.uber.org/zap"
)

var fixedNow = func() time.Time {
	return time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
}

func newTestHandler(t *testing.T, adjust ...func(*config.Configuration)) http.Handler {
	t.Helper()
	return newTestHandlerWithLogger(t, zap.NewNop(), adjust...)
}

func newTestHandlerWithLogger(t *testing.T, logger *zap.Logger, adjust ...func(*config.Configuration)) http.Handler {
	t.Helper()
	conf, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("failed to load default configuration: %v", err)
	}
	conf.RateLimit.RequestsPerSecond = 0
	for _, fn := range adjust {
		fn(conf)
	}

	handler, err := NewHandler(Options{Logger: logger, Config: conf, Version: "1.2.3", Now: fixedNow})
	if err != nil {
		t.Fatalf("NewHandler returned error: %v", err)
	}
	return handler
}

func doRequest(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
}

func TestHandleVersion(t *testing.T) {
	handler := newTestHandler(t)

	rr := doRequest(handler, http.MethodGet, "/api/version", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json content type, got %q", ct)
	}

	var payload map[string]string
	decodeBody(t, rr, &payload)
	if payload["version"] != "1.2.3" {
		t.Fatalf("expected version 1.2.3, got %q", payload["version"])
	}
}

func TestHandleVersionMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t)

	rr := doRequest(handler, http.MethodPost, "/api/version", "{}")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestNewHandlerDefaultsVersion(t *testing.T) {
	handler, err := NewHandler(Options{Now: fixedNow})
	if err != nil {
		t.Fatalf("NewHandler returned error: %v", err)
	}

	var payload map[string]string
	decodeBody(t, doRequest(handler, http.MethodGet, "/api/version", ""), &payload)
	if payload["version"] != "dev" {
		t.Fatalf("expected version dev, got %q", payload["version"])
	}
}

func TestNewHandlerRejectsMissingOffersFile(t *testing.T) {
	conf, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("failed to load default configuration: %v", err)
	}
	conf.Offers.File = "does-not-exist.yaml"

	if _, err := NewHandler(Options{Config: conf}); err == nil {
		t.Fatal("expected error for missing offers file")
	}
}

func TestHealthz(t *testing.T) {
	rr := doRequest(newTestHandler(t), http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health body %q", rr.Body.String())
	}
}

func TestUnknownAPIRouteReturnsJSON(t *testing.T) {
	rr := doRequest(newTestHandler(t), http.MethodGet, "/api/nothing-here", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	var payload map[string]string
	decodeBody(t, rr, &payload)
	if payload["error"] == "" {
		t.Fatal("expected error message in 404 body")
	}
}

func TestCalculatorsNegotiatesLanguage(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name           string
		target         string
		acceptLanguage string
		wantLang       string
		wantTitle      string
		wantURL        string
	}{
		{"Default", "/api/calculators", "", "ru", "Калькулятор автокредита", "https://calk.kg/calculator/auto-loan"},
		{"Query parameter", "/api/calculators?lang=ky", "", "ky", "Автонасыя калькулятору", "https://calk.kg/ky/calculator/auto-loan"},
		{"Accept-Language", "/api/calculators", "ky-KG,ky;q=0.9", "ky", "Автонасыя калькулятору", "https://calk.kg/ky/calculator/auto-loan"},
		{"Query beats header", "/api/calculators?lang=ru", "ky", "ru", "Калькулятор автокредита", "https://calk.kg/calculator/auto-loan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tt.acceptLanguage)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rr.Code)
			}
			var resp calculatorsResponse
			decodeBody(t, rr, &resp)

			if resp.Language != tt.wantLang {
				t.Errorf("language = %q, expected %q", resp.Language, tt.wantLang)
			}
			if len(resp.Categories) == 0 {
				t.Error("expected categories")
			}
			var found bool
			for _, c := range resp.Calculators {
				if c.ID == "auto-loan" {
					found = true
					if c.Title != tt.wantTitle {
						t.Errorf("title = %q, expected %q", c.Title, tt.wantTitle)
					}
					if c.URL != tt.wantURL {
						t.Errorf("url = %q, expected %q", c.URL, tt.wantURL)
					}
					if len(c.Alternates) != 3 {
						t.Errorf("expected 3 alternates, got %d", len(c.Alternates))
					}
				}
			}
			if !found {
				t.Fatal("auto-loan missing from calculators")
			}
		})
	}
}

func TestHandleSchema(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name     string
		target   string
		wantType string
		minDocs  int
	}{
		{"Home", "/api/schema", "WebSite", 3},
		{"Calculator", "/api/schema/calculator/deposit", "BreadcrumbList", 3},
		{"Kyrgyz calculator", "/api/schema/ky/calculator/single-tax", "SoftwareApplication", 3},
		{"About page", "/api/schema/about", "AboutPage", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(handler, http.MethodGet, tt.target, "")
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/ld+json" {
				t.Fatalf("unexpected content type %q", ct)
			}

			var docs []map[string]any
			decodeBody(t, rr, &docs)
			if len(docs) < tt.minDocs {
				t.Fatalf("expected at least %d documents, got %d", tt.minDocs, len(docs))
			}
			var found bool
			for _, doc := range docs {
				if doc["@type"] == tt.wantType {
					found = true
				}
				if doc["@context"] != "https://schema.org" {
					t.Errorf("document missing schema.org context: %v", doc["@context"])
				}
			}
			if !found {
				t.Errorf("expected a %s document", tt.wantType)
			}
		})
	}

	if rr := doRequest(handler, http.MethodGet, "/api/schema/calculator/salary", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown page, got %d", rr.Code)
	}
}

func TestHandleOffers(t *testing.T) {
	handler := newTestHandler(t)

	rr := doRequest(handler, http.MethodGet, "/api/offers/deposit", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var deposits []map[string]any
	decodeBody(t, rr, &deposits)
	if len(deposits) == 0 {
		t.Fatal("expected deposit offers")
	}
	if _, ok := deposits[0]["currencies"]; !ok {
		t.Fatalf("expected currencies in deposit offer, got %v", deposits[0])
	}

	if rr := doRequest(handler, http.MethodGet, "/api/offers/gold", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown offer kind, got %d", rr.Code)
	}
}

func TestHandleExamples(t *testing.T) {
	rr := doRequest(newTestHandler(t), http.MethodGet, "/api/examples", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var payload map[string][]map[string]any
	decodeBody(t, rr, &payload)
	for _, key := range []string{"autoLoan", "loan", "mortgage", "deposit"} {
		if len(payload[key]) == 0 {
			t.Errorf("expected examples for %s", key)
		}
	}
}

func TestReferenceLists(t *testing.T) {
	handler := newTestHandler(t)

	var activities []map[string]any
	decodeBody(t, doRequest(handler, http.MethodGet, "/api/single-tax/activities", ""), &activities)
	if len(activities) != 4 {
		t.Fatalf("expected 4 activities, got %d", len(activities))
	}

	var cities []map[string]any
	decodeBody(t, doRequest(handler, http.MethodGet, "/api/property-tax/cities", ""), &cities)
	if len(cities) == 0 || cities[0]["id"] != "bishkek" {
		t.Fatalf("expected Bishkek first, got %v", cities)
	}
}

func TestPages(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{
			name:   "Russian home",
			target: "/",
			want: []string{
				`<html lang="ru">`,
				`<link rel="canonical" href="https://calk.kg">`,
				`hreflang="ky" href="https://calk.kg/ky"`,
				`hreflang="x-default" href="https://calk.kg"`,
				`<script type="application/ld+json">`,
				`"@context": "https://schema.org"`,
				`href="/calculator/deposit"`,
			},
		},
		{
			name:   "Kyrgyz calculator",
			target: "/ky/calculator/auto-loan",
			want: []string{
				`<html lang="ky">`,
				`<title>Автонасыя калькулятору</title>`,
				`<link rel="canonical" href="https://calk.kg/ky/calculator/auto-loan">`,
				`data-api="/api/calculate/auto-loan"`,
				`Банктардын сунуштары`,
				`href="/calculator/auto-loan"`,
			},
		},
		{
			name:   "Single tax rate table",
			target: "/calculator/single-tax",
			want:   []string{`Вид деятельности`, `6 000 KGS`, `30 000 KGS`},
		},
		{
			name:   "Sitemap page",
			target: "/sitemap",
			want:   []string{`Все страницы`, `href="/terms-of-service"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(handler, http.MethodGet, tt.target, "")
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Fatalf("unexpected content type %q", ct)
			}
			body := rr.Body.String()
			for _, want := range tt.want {
				if !strings.Contains(body, want) {
					t.Errorf("page %s missing %q", tt.target, want)
				}
			}
		})
	}
}

func TestPageRedirectsAndMisses(t *testing.T) {
	handler := newTestHandler(t)

	rr := doRequest(handler, http.MethodGet, "/calculator/deposit?lang=ky", "")
	if rr.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/ky/calculator/deposit" {
		t.Fatalf("unexpected redirect location %q", loc)
	}

	if rr := doRequest(handler, http.MethodGet, "/calculator/salary", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown calculator, got %d", rr.Code)
	}

	if rr := doRequest(handler, http.MethodGet, "/calculator/deposit/", ""); rr.Code != http.StatusMovedPermanently {
		t.Fatalf("expected trailing slash redirect, got %d", rr.Code)
	}
}

func TestPagesAreCached(t *testing.T) {
	handler := newTestHandler(t)

	first := doRequest(handler, http.MethodGet, "/calculator/loan", "").Body.String()
	second := doRequest(handler, http.MethodGet, "/calculator/loan", "").Body.String()
	if first != second {
		t.Fatal("expected identical renders for the same page")
	}
}

func TestSitemapAndRobots(t *testing.T) {
	handler := newTestHandler(t)

	rr := doRequest(handler, http.MethodGet, "/sitemap.xml", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Fatalf("unexpected sitemap content type %q", ct)
	}
	body := rr.Body.String()
	for _, want := range []string{"<urlset", "https://calk.kg/ky/calculator/deposit", "<lastmod>2026-10-19</lastmod>"} {
		if !strings.Contains(body, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}

	rr = doRequest(handler, http.MethodGet, "/robots.txt", "")
	if !strings.Contains(rr.Body.String(), "Sitemap: https://calk.kg/sitemap.xml") {
		t.Fatalf("robots.txt missing sitemap line: %q", rr.Body.String())
	}
}

func TestStaticAssets(t *testing.T) {
	rr := doRequest(newTestHandler(t), http.MethodGet, "/static/style.css", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "--accent") {
		t.Fatal("unexpected stylesheet body")
	}
}

func TestMetricsCountCalculations(t *testing.T) {
	handler := newTestHandler(t)

	body := `{"amount": 500000, "termMonths": 24, "annualRatePercent": 20}`
	for i := 0; i < 2; i++ {
		if rr := doRequest(handler, http.MethodPost, "/api/calculate/loan", body); rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
	}

	rr := doRequest(handler, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	metrics := rr.Body.String()
	for _, want := range []string{
		`calk_calculations_total{calculator="loan"} 2`,
		`calk_http_requests_total{method="POST",route="/api/calculate/loan",status="200"} 2`,
		`calk_http_request_duration_seconds_bucket`,
	} {
		if !strings.Contains(metrics, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestWriteJSONUnencodablePayload(t *testing.T) {
	h := &handler{logger: zap.NewNop()}

	rr := httptest.NewRecorder()
	h.writeJSON(rr, http.StatusOK, map[string]float64{"payment": math.Inf(1)})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}

	var payload map[string]string
	decodeBody(t, rr, &payload)
	if payload["error"] == "" {
		t.Errorf("expected an error body, got %q", rr.Body.String())
	}
}
