package integration

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/calk-kg/calk/internal/config"
	"github.com/calk-kg/calk/internal/server"
	"github.com/calk-kg/calk/pkg/deposit"
	"github.com/calk-kg/calk/pkg/loans"
	"github.com/calk-kg/calk/pkg/tax"
	"github.com/calk-kg/calk/pkg/testutil"
	"go.uber.org/zap"
)

func startServer(t testing.TB) *httptest.Server {
	t.Helper()

	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	handler, err := server.NewHandler(server.Options{
		Logger:  zap.NewNop(),
		Config:  conf,
		Version: "integration",
		Now: func() time.Time {
			return time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC)
		},
	})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t testing.TB, srv *httptest.Server, path, body string, v any) int {
	t.Helper()
	resp, err := srv.Client().Post(srv.URL+path, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if v != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("failed to decode %s response: %v", path, err)
		}
	}
	return resp.StatusCode
}

func get(t testing.TB, srv *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return resp, string(data)
}

// TestCalculatorBaseline checks that every calculator endpoint returns the
// same figures as the calculation packages for the published examples.
func TestCalculatorBaseline(t *testing.T) {
	srv := startServer(t)

	t.Run("auto loan", func(t *testing.T) {
		var got struct {
			Result   loans.LoanResult `json:"result"`
			Schedule []loans.Payment  `json:"schedule"`
		}
		status := postJSON(t, srv, "/api/calculate/auto-loan",
			`{"principal": 1500000, "downPayment": 300000, "termMonths": 36, "annualRatePercent": 18}`, &got)
		if status != http.StatusOK {
			t.Fatalf("expected status 200, got %d", status)
		}
		want := loans.Calculate(loans.LoanInput{Principal: 1500000, DownPayment: 300000, TermMonths: 36, AnnualRatePercent: 18})
		testutil.AssertClose(t, "monthlyPayment", got.Result.MonthlyPayment, want.MonthlyPayment, 1e-6)
		testutil.AssertClose(t, "overpayment", got.Result.Overpayment, want.Overpayment, 1e-6)
		if len(got.Schedule) != 36 || got.Schedule[0].Date != "2026-02" || got.Schedule[35].Date != "2029-01" {
			t.Errorf("unexpected schedule span: %d rows", len(got.Schedule))
		}
		testutil.AssertClose(t, "final balance", got.Schedule[35].Balance, 0, 0.01)
	})

	t.Run("loan", func(t *testing.T) {
		var got struct {
			Result loans.CreditResult `json:"result"`
		}
		if status := postJSON(t, srv, "/api/calculate/loan",
			`{"amount": "500000", "termMonths": "24", "annualRatePercent": "20"}`, &got); status != http.StatusOK {
			t.Fatalf("expected status 200, got %d", status)
		}
		want := loans.CalculateCredit(loans.CreditInput{Amount: 500000, TermMonths: 24, AnnualRatePercent: 20})
		testutil.AssertClose(t, "totalAmount", got.Result.TotalAmount, want.TotalAmount, 1e-6)
		testutil.AssertClose(t, "effectiveRate", got.Result.EffectiveRate, want.EffectiveRate, 1e-9)
	})

	t.Run("mortgage", func(t *testing.T) {
		var got struct {
			Result loans.MortgageResult `json:"result"`
		}
		if status := postJSON(t, srv, "/api/calculate/mortgage",
			`{"propertyValue": 5000000, "downPayment": 1000000, "termYears": 15, "annualRatePercent": 14}`, &got); status != http.StatusOK {
			t.Fatalf("expected status 200, got %d", status)
		}
		want := loans.CalculateMortgage(loans.MortgageInput{PropertyValue: 5000000, DownPayment: 1000000, TermYears: 15, AnnualRatePercent: 14})
		testutil.AssertClose(t, "monthlyPayment", got.Result.MonthlyPayment, want.MonthlyPayment, 1e-6)
	})

	t.Run("deposit", func(t *testing.T) {
		var got struct {
			Result deposit.Result `json:"result"`
		}
		if status := postJSON(t, srv, "/api/calculate/deposit",
			`{"principal": 100000, "annualRatePercent": 12, "termMonths": 12, "interestType": "compound"}`, &got); status != http.StatusOK {
			t.Fatalf("expected status 200, got %d", status)
		}
		want := deposit.Calculate(deposit.Input{Principal: 100000, AnnualRatePercent: 12, TermMonths: 12, InterestType: deposit.Compound})
		testutil.AssertClose(t, "finalAmount", got.Result.FinalAmount, want.FinalAmount, 1e-6)
	})

	t.Run("property tax", func(t *testing.T) {
		var got struct {
			Result tax.PropertyResult `json:"result"`
		}
		if status := postJSON(t, srv, "/api/calculate/property-tax",
			`{"totalArea": 120, "ratePerSqm": 12, "propertyType": "apartment", "applyBenefit": true}`, &got); status != http.StatusOK {
			t.Fatalf("expected status 200, got %d", status)
		}
		testutil.AssertClose(t, "taxAmount", got.Result.TaxAmount, 480, 1e-9)
	})

	t.Run("single tax", func(t *testing.T) {
		var got struct {
			Result tax.SingleResult `json:"result"`
		}
		if status := postJSON(t, srv, "/api/calculate/single-tax",
			`{"monthlyRevenue": 500000, "activityType": "trade"}`, &got); status != http.StatusOK {
			t.Fatalf("expected status 200, got %d", status)
		}
		testutil.AssertClose(t, "monthlyTax", got.Result.MonthlyTax, 20000, 1e-9)
		if !got.Result.CanUseSingleTax {
			t.Error("6 000 000 KGS a year is within the turnover limit")
		}
	})
}

// TestSiteCrawl follows every sitemap entry and checks that each page renders
// with its canonical link on the configured base URL.
func TestSiteCrawl(t *testing.T) {
	srv := startServer(t)

	resp, body := get(t, srv, "/sitemap.xml")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected sitemap status 200, got %d", resp.StatusCode)
	}

	var sitemap struct {
		URLs []struct {
			Loc     string `xml:"loc"`
			LastMod string `xml:"lastmod"`
		} `xml:"url"`
	}
	if err := xml.Unmarshal([]byte(body), &sitemap); err != nil {
		t.Fatalf("failed to parse sitemap: %v", err)
	}
	if len(sitemap.URLs) == 0 {
		t.Fatal("sitemap has no entries")
	}

	const base = "https://test.calk.kg"
	for _, u := range sitemap.URLs {
		if !strings.HasPrefix(u.Loc, base) {
			t.Errorf("sitemap entry %s is not on %s", u.Loc, base)
			continue
		}
		if u.LastMod != "2026-01-15" {
			t.Errorf("sitemap entry %s has lastmod %s", u.Loc, u.LastMod)
		}

		path := strings.TrimPrefix(u.Loc, base)
		if path == "" {
			path = "/"
		}
		page, html := get(t, srv, path)
		if page.StatusCode != http.StatusOK {
			t.Errorf("GET %s: expected status 200, got %d", path, page.StatusCode)
			continue
		}
		if !strings.Contains(html, `<link rel="canonical" href="`+u.Loc+`">`) {
			t.Errorf("GET %s: canonical link to %s missing", path, u.Loc)
		}
		if !strings.Contains(html, `application/ld+json`) {
			t.Errorf("GET %s: structured data missing", path)
		}
	}
}

// TestRobotsPointsAtSitemap checks the crawler entry points agree.
func TestRobotsPointsAtSitemap(t *testing.T) {
	srv := startServer(t)

	resp, body := get(t, srv, "/robots.txt")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Sitemap: https://test.calk.kg/sitemap.xml") {
		t.Errorf("robots.txt does not reference the sitemap: %q", body)
	}
}

// TestBodyLimitFromConfig checks that the configured 16K body limit applies.
func TestBodyLimitFromConfig(t *testing.T) {
	srv := startServer(t)

	body := `{"name": "` + strings.Repeat("x", 20*1024) + `"}`
	if status := postJSON(t, srv, "/api/contact", body, nil); status != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status 413, got %d", status)
	}
}
