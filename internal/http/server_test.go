package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"finboard/internal/core"
	"finboard/internal/services"
	"finboard/internal/storage/memory"
	"finboard/internal/upstream"
)

const testAuth = "Token test-token"

// fakeAPI serves canned upstream payloads and records what it received.
type fakeAPI struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
	status   map[string]int
	payloads map[string]string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		status: map[string]int{},
		payloads: map[string]string{
			"GET /api/dashboard/summary/": `{
				"summary": {"total_income": 5000, "total_expenses": "3500.50", "balance": 1499.5},
				"chart": [
					{"month": "Mar", "income": 10, "expenses": 5},
					{"month": "Jan", "income": 20, "expenses": 7},
					{"month": "Feb", "income": 30, "expenses": 9}
				],
				"recent_transactions": [
					{"id": 1, "description": "Coffee", "amount": 4.5, "type": "expense", "date": "2024-03-01", "category": 2, "category_name": "Food"}
				]
			}`,
			"GET /api/analytics/overview/": `{
				"category_data": [{"name": "Food", "value": 300}, {"name": "Home", "value": 700}],
				"trend_data": [{"month": "Feb 2024", "amount": 2}, {"month": "Dec 2023", "amount": 1}],
				"average_daily_spending": 33.333,
				"savings_rate": 12.5
			}`,
			"GET /api/categories/": `[
				{"id": 2, "name": "Food", "color": "#f00", "icon": "Utensils", "type": "expense", "budget": 500, "spent": 400},
				{"id": 3, "name": "Home", "color": "#0f0", "icon": "Castle", "type": "expense", "budget": 1000, "spent": 1200},
				{"id": 4, "name": "Salary", "color": "#00f", "icon": "DollarSign", "type": "income", "budget": 0}
			]`,
			"GET /api/transactions/": `[
				{"id": 1, "description": "Coffee", "amount": 4.5, "type": "expense", "date": "2024-03-01", "category": 2},
				{"id": 2, "description": "Salary", "amount": 5000, "type": "income", "date": "2024-03-01"}
			]`,
			"POST /api/transactions/": `{"id": 9, "description": "Lunch", "amount": "12.5", "type": "expense", "date": "2024-03-10"}`,
			"POST /api/categories/":   `{"id": 5, "name": "Travel", "type": "expense", "budget": 200}`,
		},
	}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path

	f.mu.Lock()
	f.requests = append(f.requests, key+"?"+r.URL.RawQuery+" auth="+r.Header.Get("Authorization"))
	f.bodies = append(f.bodies, string(body))
	status, hasStatus := f.status[key]
	payload, hasPayload := f.payloads[key]
	f.mu.Unlock()

	switch {
	case hasStatus:
		w.WriteHeader(status)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	case hasPayload:
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, payload)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeAPI) setPayload(key, payload string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads[key] = payload
}

func (f *fakeAPI) setStatus(key string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[key] = status
}

func (f *fakeAPI) received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

type testEnv struct {
	api    *fakeAPI
	server *Server
	ts     *httptest.Server
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	return newTestEnvWith(t, opts, nil)
}

// newTestEnvWith lets a test replace services before the server starts.
func newTestEnvWith(t *testing.T, opts Options, mutate func(*Services, *upstream.Client)) *testEnv {
	t.Helper()
	api := newFakeAPI()
	up := httptest.NewServer(api)
	t.Cleanup(up.Close)

	client, err := upstream.NewClient(upstream.Config{BaseURL: up.URL + "/api/", Timeout: 2 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	store := memory.New()
	svc := Services{
		Dashboard:    services.NewDashboardService(client, nil, nil),
		Analytics:    services.NewAnalyticsService(client, nil, nil),
		Categories:   services.NewCategoryService(client, nil, nil, nil),
		Transactions: services.NewTransactionService(client, nil, nil),
		Templates:    services.NewTemplateService(store, client, nil, nil),
		Preferences:  services.NewPreferenceService(store, nil),
	}
	if mutate != nil {
		mutate(&svc, client)
	}

	srv := NewServer(svc, opts)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown(context.Background())
	})
	return &testEnv{api: api, server: srv, ts: ts}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.ts.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", testAuth)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func TestServer_Dashboard(t *testing.T) {
	env := newTestEnv(t, Options{Currency: core.EUR})

	resp, body := env.do(t, http.MethodGet, "/api/dashboard", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	got := decode[struct {
		Summary struct {
			TotalIncome   moneyView `json:"total_income"`
			TotalExpenses moneyView `json:"total_expenses"`
			SavingsRate   struct {
				Value   *float64 `json:"value"`
				Display string   `json:"display"`
			} `json:"savings_rate"`
		} `json:"summary"`
		Chart              []core.ChartPoint `json:"chart"`
		RecentTransactions []struct {
			ID            int64  `json:"id"`
			AmountDisplay string `json:"amount_display"`
		} `json:"recent_transactions"`
	}](t, body)

	if got.Summary.TotalIncome.Display != "€5000.00" || got.Summary.TotalExpenses.Display != "€3500.50" {
		t.Errorf("money displays = %q, %q", got.Summary.TotalIncome.Display, got.Summary.TotalExpenses.Display)
	}
	if got.Summary.SavingsRate.Display != "30.0%" {
		t.Errorf("savings rate display = %q, want 30.0%%", got.Summary.SavingsRate.Display)
	}
	months := []string{got.Chart[0].Month, got.Chart[1].Month, got.Chart[2].Month}
	if months[0] != "Jan" || months[1] != "Feb" || months[2] != "Mar" {
		t.Errorf("chart order = %v, want Jan Feb Mar", months)
	}
	if len(got.RecentTransactions) != 1 || got.RecentTransactions[0].AmountDisplay != "€4.50" {
		t.Errorf("recent transactions = %+v", got.RecentTransactions)
	}

	reqs := env.api.received()
	if len(reqs) != 1 || !strings.HasSuffix(reqs[0], "auth="+testAuth) {
		t.Errorf("upstream requests = %v, want Authorization forwarded", reqs)
	}
	if resp.Header.Get("X-Request-ID") == "" || resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("trace or security headers missing")
	}
}

func TestServer_Analytics(t *testing.T) {
	env := newTestEnv(t, Options{})

	resp, body := env.do(t, http.MethodGet, "/api/analytics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	got := decode[struct {
		TrendData []core.TrendPoint `json:"trend_data"`
		Summary   struct {
			AverageDailySpending moneyView   `json:"average_daily_spending"`
			TopCategory          string      `json:"top_category"`
			TopCategoryPercent   percentView `json:"top_category_percent"`
			SavingsRate          percentView `json:"savings_rate"`
		} `json:"summary"`
	}](t, body)

	if got.TrendData[0].Month != "Dec 2023" || got.TrendData[1].Month != "Feb 2024" {
		t.Errorf("trend order = %+v", got.TrendData)
	}
	if got.Summary.TopCategory != "Home" || got.Summary.TopCategoryPercent.Display != "70.0%" {
		t.Errorf("top category = %q %q", got.Summary.TopCategory, got.Summary.TopCategoryPercent.Display)
	}
	if got.Summary.AverageDailySpending.Display != "$33.33" {
		t.Errorf("average daily = %q", got.Summary.AverageDailySpending.Display)
	}
	// 5000 income and 3500.50 expenses from the dashboard totals.
	if got.Summary.SavingsRate.Display != "30.0%" {
		t.Errorf("savings rate = %q", got.Summary.SavingsRate.Display)
	}
}

func TestServer_AnalyticsEmpty(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.api.setPayload("GET /api/analytics/overview/", `{"category_data": [], "trend_data": []}`)
	env.api.setStatus("GET /api/dashboard/summary/", http.StatusBadRequest)

	resp, body := env.do(t, http.MethodGet, "/api/analytics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	got := decode[analyticsResponse](t, body)
	if got.Summary.TopCategoryDisplay != NoCategoryData {
		t.Errorf("top category display = %q", got.Summary.TopCategoryDisplay)
	}
	if got.Summary.TopCategoryPercent.Display != "--" || got.Summary.SavingsRate.Display != "--" {
		t.Errorf("percent displays = %q, %q, want --", got.Summary.TopCategoryPercent.Display, got.Summary.SavingsRate.Display)
	}
	if got.TrendData == nil || got.CategoryData == nil {
		t.Error("empty lists should encode as []")
	}
}

func TestServer_Categories(t *testing.T) {
	env := newTestEnv(t, Options{})

	resp, body := env.do(t, http.MethodGet, "/api/categories?type=expense", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	got := decode[[]struct {
		ID       int64 `json:"id"`
		IconInfo struct {
			Name     string `json:"name"`
			Fallback bool   `json:"fallback"`
		} `json:"icon_info"`
		BudgetStatus *budgetView `json:"budget_status"`
	}](t, body)

	if len(got) != 2 {
		t.Fatalf("categories = %d, want 2 expense categories", len(got))
	}
	food, home := got[0], got[1]
	if food.BudgetStatus == nil || food.BudgetStatus.Tier != core.TierWarning || food.BudgetStatus.Label != "20% remaining" {
		t.Errorf("food budget = %+v", food.BudgetStatus)
	}
	if food.BudgetStatus.Progress != "$400.00 / $500.00" || food.BudgetStatus.PercentDisplay != "80.0%" {
		t.Errorf("food progress = %+v", food.BudgetStatus)
	}
	if home.BudgetStatus.Tier != core.TierOver || home.BudgetStatus.Percent != 100 || home.BudgetStatus.Label != "Over budget!" {
		t.Errorf("home budget = %+v", home.BudgetStatus)
	}
	if !home.IconInfo.Fallback || home.IconInfo.Name != "ShoppingCart" {
		t.Errorf("unknown icon = %+v, want fallback cart", home.IconInfo)
	}

	resp, body = env.do(t, http.MethodGet, "/api/categories?type=income", "")
	income := decode[[]struct {
		BudgetStatus *budgetView `json:"budget_status"`
	}](t, body)
	if resp.StatusCode != http.StatusOK || len(income) != 1 || income[0].BudgetStatus != nil {
		t.Errorf("income categories = %s", body)
	}
}

func TestServer_CategoryMutations(t *testing.T) {
	env := newTestEnv(t, Options{})

	resp, body := env.do(t, http.MethodPost, "/api/categories", `{"name":"Travel","color":"#abc","icon":"Car","type":"expense","budget":200}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", resp.StatusCode, body)
	}

	env.api.setPayload("PUT /api/categories/5/", `{"id": 5, "name": "Trips", "type": "expense", "budget": 250}`)
	resp, body = env.do(t, http.MethodPut, "/api/categories/5", `{"name":"Trips","type":"expense","budget":250}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", resp.StatusCode, body)
	}

	resp, _ = env.do(t, http.MethodDelete, "/api/categories/5", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	resp, body = env.do(t, http.MethodPost, "/api/categories", `{"name":"","type":"expense"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("invalid create status = %d, body = %s", resp.StatusCode, body)
	}
	if got := decode[errorResponse](t, body); got.Error != core.ErrEmptyCategoryName.Error() {
		t.Errorf("error = %q", got.Error)
	}
}

func TestServer_Transactions(t *testing.T) {
	env := newTestEnv(t, Options{})

	resp, body := env.do(t, http.MethodGet, "/api/transactions?type=expense&search=cof&category=2", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	got := decode[[]transactionView](t, body)
	if len(got) != 1 || got[0].ID != 1 || got[0].AmountDisplay != "$4.50" {
		t.Errorf("transactions = %s", body)
	}
	reqs := env.api.received()
	if !strings.Contains(reqs[0], "category=2") || !strings.Contains(reqs[0], "search=cof") || !strings.Contains(reqs[0], "type=expense") {
		t.Errorf("upstream query = %s", reqs[0])
	}

	resp, body = env.do(t, http.MethodPost, "/api/transactions", `{"description":"Lunch","amount":"12.5","type":"expense","date":"2024-03-10"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", resp.StatusCode, body)
	}
	if tx := decode[transactionView](t, body); tx.ID != 9 || tx.AmountDisplay != "$12.50" {
		t.Errorf("created = %s", body)
	}

	env.api.setPayload("PUT /api/transactions/9/", `{"id": 9, "description": "Team lunch", "amount": "30", "type": "expense", "date": "2024-03-11"}`)
	resp, body = env.do(t, http.MethodPut, "/api/transactions/9", `{"description":"Team lunch","amount":"30","type":"expense","date":"2024-03-11"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", resp.StatusCode, body)
	}
	if tx := decode[transactionView](t, body); tx.Description != "Team lunch" || tx.AmountDisplay != "$30.00" || tx.DateDisplay != "2024-03-11" {
		t.Errorf("updated = %s", body)
	}

	resp, body = env.do(t, http.MethodPut, "/api/transactions/9", `{"description":"","amount":"30","type":"expense","date":"2024-03-11"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("invalid update status = %d, body = %s", resp.StatusCode, body)
	}

	resp, _ = env.do(t, http.MethodDelete, "/api/transactions/9", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
}

func TestServer_ProfileDrivesDisplay(t *testing.T) {
	withProfile := func(s *Services, c *upstream.Client) {
		s.Profile = services.NewProfileService(c, nil, core.Profile{Currency: core.EUR, DateFormat: core.DateISO}, nil)
	}
	env := newTestEnvWith(t, Options{Currency: core.EUR}, withProfile)

	// No upstream profile yet: the configured currency and ISO dates apply.
	resp, body := env.do(t, http.MethodGet, "/api/transactions", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	if got := decode[[]transactionView](t, body); got[0].AmountDisplay != "€4.50" || got[0].DateDisplay != "2024-03-01" {
		t.Errorf("fallback display = %s", body)
	}

	env.api.setPayload("GET /api/settings/profile/", `{"user": {"id": 1, "name": "Ana", "email": "ana@example.com"}, "profile": {"currency": "GBP", "date_format": "DD/MM/YYYY"}}`)
	resp, body = env.do(t, http.MethodGet, "/api/transactions", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	if got := decode[[]transactionView](t, body); got[0].AmountDisplay != "£4.50" || got[0].DateDisplay != "01/03/2024" {
		t.Errorf("profile display = %s", body)
	}

	resp, body = env.do(t, http.MethodGet, "/api/settings/profile", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile status = %d, body = %s", resp.StatusCode, body)
	}
	if got := decode[upstream.ProfileResponse](t, body); got.User.Name != "Ana" || got.Profile.DateFormat != core.DateDayFirst {
		t.Errorf("profile = %s", body)
	}

	env.api.setPayload("PUT /api/settings/profile/", `{"user": {"id": 1, "name": "Ana", "email": "ana@example.com"}, "profile": {"currency": "USD", "date_format": "MM/DD/YYYY"}}`)
	resp, body = env.do(t, http.MethodPut, "/api/settings/profile", `{"currency":"USD","date_format":"MM/DD/YYYY"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", resp.StatusCode, body)
	}
	if got := decode[upstream.ProfileResponse](t, body); got.Profile.Currency != core.USD {
		t.Errorf("updated profile = %s", body)
	}

	resp, body = env.do(t, http.MethodPut, "/api/settings/profile", `{"date_format":"DD.MM.YYYY"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("invalid update status = %d, body = %s", resp.StatusCode, body)
	}
	resp, _ = env.do(t, http.MethodPut, "/api/settings/profile", `{"timezone":"UTC"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown field status = %d", resp.StatusCode)
	}
}

func TestServer_ProfileDisabled(t *testing.T) {
	env := newTestEnv(t, Options{})
	resp, _ := env.do(t, http.MethodGet, "/api/settings/profile", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without a profile service", resp.StatusCode)
	}
}

func TestServer_Errors(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*fakeAPI)
		method     string
		path       string
		body       string
		noAuth     bool
		wantStatus int
	}{
		{"missing auth", nil, http.MethodGet, "/api/dashboard", "", true, http.StatusUnauthorized},
		{"upstream 403", func(f *fakeAPI) { f.setStatus("GET /api/dashboard/summary/", 403) }, http.MethodGet, "/api/dashboard", "", false, http.StatusUnauthorized},
		{"upstream 404", func(f *fakeAPI) { f.setStatus("DELETE /api/transactions/77/", 404) }, http.MethodDelete, "/api/transactions/77", "", false, http.StatusNotFound},
		{"upstream 400 on create", func(f *fakeAPI) { f.setStatus("POST /api/categories/", 400) }, http.MethodPost, "/api/categories", `{"name":"X","type":"expense"}`, false, http.StatusUnprocessableEntity},
		{"upstream 500", func(f *fakeAPI) { f.setStatus("GET /api/categories/", 500) }, http.MethodGet, "/api/categories", "", false, http.StatusBadGateway},
		{"bad id", nil, http.MethodDelete, "/api/categories/abc", "", false, http.StatusBadRequest},
		{"bad category filter", nil, http.MethodGet, "/api/transactions?category=x", "", false, http.StatusBadRequest},
		{"unknown type filter", nil, http.MethodGet, "/api/categories?type=transfer", "", false, http.StatusUnprocessableEntity},
		{"malformed json", nil, http.MethodPost, "/api/transactions", `{"description":`, false, http.StatusBadRequest},
		{"unknown field", nil, http.MethodPost, "/api/transactions", `{"descr":"x"}`, false, http.StatusBadRequest},
		{"empty body", nil, http.MethodPost, "/api/transactions", "", false, http.StatusBadRequest},
		{"unknown route", nil, http.MethodGet, "/api/nope", "", false, http.StatusNotFound},
		{"wrong method", nil, http.MethodPost, "/api/dashboard", "", false, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, Options{})
			if tt.setup != nil {
				tt.setup(env.api)
			}

			var reader io.Reader
			if tt.body != "" {
				reader = strings.NewReader(tt.body)
			}
			req, _ := http.NewRequest(tt.method, env.ts.URL+tt.path, reader)
			if !tt.noAuth {
				req.Header.Set("Authorization", testAuth)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, tt.wantStatus, body)
			}
			if got := decode[errorResponse](t, body); got.Error == "" {
				t.Errorf("error body = %s, want {\"error\": ...}", body)
			}
		})
	}
}

func TestServer_Templates(t *testing.T) {
	env := newTestEnv(t, Options{})

	resp, body := env.do(t, http.MethodGet, "/api/templates", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d, body = %s", resp.StatusCode, body)
	}
	templates := decode[[]templateView](t, body)
	if len(templates) != 3 || templates[0].Name != "Monthly Rent" || templates[0].AmountDisplay != "$1200.00" {
		t.Fatalf("templates = %s", body)
	}

	resp, body = env.do(t, http.MethodPost, "/api/templates", `{"name":"Gym","description":"Membership","amount":40,"category":"Fod","type":"expense"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", resp.StatusCode, body)
	}
	gym := decode[templateView](t, body)

	resp, body = env.do(t, http.MethodPost, "/api/templates/"+gym.ID+"/apply", `{"date":"2024-04-01"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("apply status = %d, body = %s", resp.StatusCode, body)
	}
	draft := decode[draftResponse](t, body)
	if !draft.CategoryMatched || draft.CategoryName != "Food" || draft.Transaction.Category == nil || *draft.Transaction.Category != 2 {
		t.Errorf("draft = %s", body)
	}
	if draft.Transaction.Date != "2024-04-01" || draft.AmountDisplay != "$40.00" {
		t.Errorf("draft = %s", body)
	}

	resp, body = env.do(t, http.MethodPut, "/api/templates/"+gym.ID, `{"name":"Gym","description":"Membership","amount":45,"category":"Health","type":"expense"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", resp.StatusCode, body)
	}

	resp, _ = env.do(t, http.MethodDelete, "/api/templates/"+gym.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp, _ = env.do(t, http.MethodGet, "/api/templates/"+gym.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get deleted status = %d, want 404", resp.StatusCode)
	}

	resp, _ = env.do(t, http.MethodPost, "/api/templates", `{"name":"","description":"x","amount":1,"category":"c","type":"expense"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("invalid create status = %d", resp.StatusCode)
	}
}

func TestServer_Preferences(t *testing.T) {
	env := newTestEnv(t, Options{})

	resp, body := env.do(t, http.MethodGet, "/api/preferences", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := decode[core.Preferences](t, body); got != core.DefaultPreferences() {
		t.Errorf("defaults = %+v", got)
	}

	resp, _ = env.do(t, http.MethodPut, "/api/preferences", `{"theme":"dark","sidebar_collapsed":true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}
	_, body = env.do(t, http.MethodGet, "/api/preferences", "")
	if got := decode[core.Preferences](t, body); got.Theme != core.ThemeDark || !got.SidebarCollapsed {
		t.Errorf("saved = %+v", got)
	}

	resp, _ = env.do(t, http.MethodPut, "/api/preferences", `{"theme":"neon"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("invalid theme status = %d", resp.StatusCode)
	}
}

func TestServer_RateLimitsMutations(t *testing.T) {
	env := newTestEnv(t, Options{RateLimitPerMinute: 2})
	body := `{"theme":"light","sidebar_collapsed":false}`

	for i := 0; i < 2; i++ {
		if resp, _ := env.do(t, http.MethodPut, "/api/preferences", body); resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d status = %d", i+1, resp.StatusCode)
		}
	}
	resp, data := env.do(t, http.MethodPut, "/api/preferences", body)
	if resp.StatusCode != http.StatusTooManyRequests || resp.Header.Get("Retry-After") == "" {
		t.Fatalf("status = %d, Retry-After = %q", resp.StatusCode, resp.Header.Get("Retry-After"))
	}
	if got := decode[errorResponse](t, data); got.Error == "" {
		t.Errorf("body = %s", data)
	}
	if resp, _ := env.do(t, http.MethodGet, "/api/preferences", ""); resp.StatusCode != http.StatusOK {
		t.Errorf("reads should not be limited, got %d", resp.StatusCode)
	}
}

func TestServer_HealthAndReady(t *testing.T) {
	var failing atomic.Bool
	env := newTestEnv(t, Options{Ready: func(context.Context) error {
		if failing.Load() {
			return errors.New("database is locked")
		}
		return nil
	}})

	resp, _ := env.do(t, http.MethodGet, "/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz = %d", resp.StatusCode)
	}

	resp, body := env.do(t, http.MethodGet, "/readyz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("readyz = %d", resp.StatusCode)
	}
	if got := decode[readyResponse](t, body); got.Status != "ready" {
		t.Errorf("ready body = %s", body)
	}

	failing.Store(true)
	resp, body = env.do(t, http.MethodGet, "/readyz", "")
	if resp.StatusCode != http.StatusServiceUnavailable || strings.Contains(string(body), "locked") {
		t.Errorf("readyz = %d, body = %s", resp.StatusCode, body)
	}
}

func TestServer_IconsAndRecovery(t *testing.T) {
	env := newTestEnv(t, Options{})

	resp, body := env.do(t, http.MethodGet, "/api/icons", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("icons = %d", resp.StatusCode)
	}
	icons := decode[[]iconView](t, body)
	if len(icons) != len(core.Icons()) || icons[0].Name != "ShoppingCart" {
		t.Errorf("icons = %s", body)
	}

	// A nil service panics inside the handler; Recoverer must turn it into a 500.
	broken := newTestEnvWith(t, Options{}, func(s *Services, _ *upstream.Client) { s.Dashboard = nil })
	resp, _ = broken.do(t, http.MethodGet, "/api/dashboard", "")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("panicking handler status = %d, want 500", resp.StatusCode)
	}
}
