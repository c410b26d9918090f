package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"insight-web/pkg/clients/insight"
	"insight-web/pkg/leadform"
	"insight-web/pkg/services"
	"insight-web/pkg/session"
)

type fakeAPI struct {
	catalogID   uuid.UUID
	leadStatus  atomic.Int32
	leadCalls   atomic.Int32
	deleteCalls atomic.Int32

	mu    sync.Mutex
	leads []map[string]string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	authorized := r.Header.Get("Authorization") == "Bearer good-token"
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/requests":
		f.leadCalls.Add(1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.leads = append(f.leads, body)
		f.mu.Unlock()
		w.WriteHeader(int(f.leadStatus.Load()))
	case r.Method == http.MethodGet && r.URL.Path == "/requests":
		if !authorized {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"id":"` + uuid.NewString() + `","name":"Анна","phone":"+7 (912) 345-67-89","created_at":"2024-05-01T10:00:00Z"}]`))
	case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
		_ = r.ParseForm()
		if r.PostForm.Get("password") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"good-token","token_type":"bearer"}`))
	case r.Method == http.MethodGet && r.URL.Path == "/catalogs":
		_, _ = w.Write([]byte(`[{"id":"` + f.catalogID.String() + `","name":"Сухие смеси","image":"https://cdn.insight.test/mixes.png"}]`))
	case r.Method == http.MethodGet && r.URL.Path == "/catalogs/"+f.catalogID.String():
		_, _ = w.Write([]byte(`{"id":"` + f.catalogID.String() + `","name":"Сухие смеси"}`))
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/catalogs/"):
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodGet && r.URL.Path == "/products":
		_, _ = w.Write([]byte(`[{"id":"` + uuid.NewString() + `","title":"Штукатурка гипсовая","price":"420.00","quantity":260,"image":"/uploads/plaster.png"},` +
			`{"id":"` + uuid.NewString() + `","title":"Перфоратор ударный","price":"9900","quantity":3}]`))
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/catalogs/"):
		if !authorized {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.deleteCalls.Add(1)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type testSite struct {
	router *gin.Engine
	api    *fakeAPI
	apiURL string
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := &fakeAPI{catalogID: uuid.New()}
	api.leadStatus.Store(http.StatusCreated)
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	client := insight.NewClient(server.URL, 2*time.Second, nil)
	store, err := session.NewStore([]byte("0123456789abcdef0123456789abcdef"), 3600, false)
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	tmpl, err := Templates(time.UTC, server.URL)
	if err != nil {
		t.Fatalf("templates: %v", err)
	}

	h := NewHandlers(
		services.NewStorefrontService(client, 8, time.UTC, nil),
		services.NewLeadFormRegistry(client, time.Hour, nil),
		store,
		nil,
	)
	return &testSite{
		router: NewRouter(h, RouterConfig{Templates: tmpl}),
		api:    api,
		apiURL: server.URL,
	}
}

// do performs a request carrying cookies and returns the recorder plus the
// cookies to send next time.
func (s *testSite) do(t *testing.T, method, path, contentType, body string, cookies []*http.Cookie) (*httptest.ResponseRecorder, []*http.Cookie) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	merged := map[string]*http.Cookie{}
	for _, c := range cookies {
		merged[c.Name] = c
	}
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(merged, c.Name)
			continue
		}
		merged[c.Name] = c
	}
	out := make([]*http.Cookie, 0, len(merged))
	for _, c := range merged {
		out = append(out, c)
	}
	return rec, out
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) leadform.Snapshot {
	t.Helper()
	var snap leadform.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v (%s)", err, rec.Body.String())
	}
	return snap
}

func TestHealthCheck(t *testing.T) {
	site := newTestSite(t)
	rec, _ := site.do(t, http.MethodGet, "/health", "", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestLeadFlowSuccess(t *testing.T) {
	site := newTestSite(t)

	rec, cookies := site.do(t, http.MethodPost, "/lead/open", "", "", nil)
	if rec.Code != http.StatusOK || decodeSnapshot(t, rec).Status != leadform.StatusEditing {
		t.Fatalf("open failed: %d %s", rec.Code, rec.Body.String())
	}

	rec, cookies = site.do(t, http.MethodPatch, "/lead", "application/json", `{"phone":"8999123"}`, cookies)
	if got := decodeSnapshot(t, rec).PhoneDisplay; got != "+7 (999) 123" {
		t.Fatalf("expected live mask, got %q", got)
	}

	rec, _ = site.do(t, http.MethodPost, "/lead/submit", "application/json", `{"name":" Иван ","phone":"89991234567"}`, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	snap := decodeSnapshot(t, rec)
	if snap.Status != leadform.StatusSucceeded || snap.Name != "" || snap.Success == "" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if site.api.leadCalls.Load() != 1 {
		t.Fatalf("expected one lead call, got %d", site.api.leadCalls.Load())
	}
	if got := site.api.leads[0]; got["name"] != "Иван" || got["phone"] != "+7 (999) 123-45-67" {
		t.Fatalf("unexpected lead payload %v", got)
	}
}

func TestLeadValidationErrors(t *testing.T) {
	site := newTestSite(t)
	_, cookies := site.do(t, http.MethodPost, "/lead/open", "", "", nil)

	rec, cookies := site.do(t, http.MethodPost, "/lead/submit", "application/json", `{"name":"   ","phone":"9991234567"}`, cookies)
	if rec.Code != http.StatusUnprocessableEntity || decodeSnapshot(t, rec).ErrorKind != leadform.KindInvalidName {
		t.Fatalf("expected invalid name, got %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = site.do(t, http.MethodPost, "/lead/submit", "application/json", `{"name":"Иван","phone":"999123456"}`, cookies)
	if rec.Code != http.StatusUnprocessableEntity || decodeSnapshot(t, rec).ErrorKind != leadform.KindInvalidPhone {
		t.Fatalf("expected invalid phone, got %d %s", rec.Code, rec.Body.String())
	}
	if site.api.leadCalls.Load() != 0 {
		t.Fatalf("validation failures must not reach the API")
	}
}

func TestLeadBackendFailureKeepsValues(t *testing.T) {
	site := newTestSite(t)
	site.api.leadStatus.Store(http.StatusInternalServerError)
	_, cookies := site.do(t, http.MethodPost, "/lead/open", "", "", nil)

	rec, _ := site.do(t, http.MethodPost, "/lead/submit", "application/json", `{"name":"Иван","phone":"9991234567"}`, cookies)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	snap := decodeSnapshot(t, rec)
	if snap.Status != leadform.StatusFailed || snap.Name != "Иван" || snap.Phone != "9991234567" {
		t.Fatalf("expected preserved values, got %+v", snap)
	}
	if site.api.leadCalls.Load() != 1 {
		t.Fatalf("expected one lead call, got %d", site.api.leadCalls.Load())
	}
}

func TestLeadSubmitBeforeOpen(t *testing.T) {
	site := newTestSite(t)
	rec, _ := site.do(t, http.MethodPost, "/lead/submit", "", "", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestLeadFormsAreIsolatedPerVisitor(t *testing.T) {
	site := newTestSite(t)
	_, alice := site.do(t, http.MethodPost, "/lead/open", "", "", nil)
	_, _ = site.do(t, http.MethodPatch, "/lead", "application/json", `{"name":"Алиса"}`, alice)

	_, bob := site.do(t, http.MethodGet, "/lead", "", "", nil)
	rec, _ := site.do(t, http.MethodGet, "/lead", "", "", bob)
	if snap := decodeSnapshot(t, rec); snap.Name != "" || snap.Status != leadform.StatusIdle {
		t.Fatalf("second visitor sees foreign state: %+v", snap)
	}
}

func TestLeadClose(t *testing.T) {
	site := newTestSite(t)
	_, cookies := site.do(t, http.MethodPost, "/lead/open", "", "", nil)
	_, cookies = site.do(t, http.MethodPatch, "/lead", "application/json", `{"name":"Иван"}`, cookies)

	rec, _ := site.do(t, http.MethodPost, "/lead/close", "", "", cookies)
	if snap := decodeSnapshot(t, rec); snap.Status != leadform.StatusIdle || snap.Name != "" {
		t.Fatalf("expected discarded form, got %+v", snap)
	}
}

func TestLandingAndCatalogPages(t *testing.T) {
	site := newTestSite(t)

	rec, _ := site.do(t, http.MethodGet, "/", "", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Сухие смеси") {
		t.Fatalf("landing: %d %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `src="https://cdn.insight.test/mixes.png"`) {
		t.Fatalf("absolute image url must be kept: %s", rec.Body.String())
	}

	rec, _ = site.do(t, http.MethodGet, "/catalog/"+site.api.catalogID.String(), "", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Штукатурка гипсовая") {
		t.Fatalf("catalog: %d %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `src="`+site.apiURL+`/uploads/plaster.png"`) {
		t.Fatalf("uploaded image must be served from the API: %s", rec.Body.String())
	}

	rec, _ = site.do(t, http.MethodGet, "/catalog/"+uuid.NewString(), "", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown catalog, got %d", rec.Code)
	}

	rec, _ = site.do(t, http.MethodGet, "/catalog/not-a-uuid", "", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for bad id, got %d", rec.Code)
	}
}

func TestLeadFormScriptIgnoresStaleResponses(t *testing.T) {
	site := newTestSite(t)
	rec, _ := site.do(t, http.MethodGet, "/", "", "", nil)
	body := rec.Body.String()
	for _, want := range []string{"var n = ++seq;", "if (n !== seq) return;"} {
		if !strings.Contains(body, want) {
			t.Fatalf("lead form script lacks %q", want)
		}
	}
}

func TestAdminRequiresLogin(t *testing.T) {
	site := newTestSite(t)
	rec, _ := site.do(t, http.MethodGet, "/admin", "", "", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/login" {
		t.Fatalf("expected redirect to login, got %d %s", rec.Code, rec.Header().Get("Location"))
	}
}

func TestAdminLoginDashboardLogout(t *testing.T) {
	site := newTestSite(t)
	form := "application/x-www-form-urlencoded"

	rec, _ := site.do(t, http.MethodPost, "/admin/login", form, url.Values{"username": {"insight"}, "password": {"wrong"}}.Encode(), nil)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "Неверный логин или пароль") {
		t.Fatalf("expected login failure page, got %d", rec.Code)
	}

	rec, cookies := site.do(t, http.MethodPost, "/admin/login", form, url.Values{"username": {"insight"}, "password": {"secret"}}.Encode(), nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin" {
		t.Fatalf("expected redirect to dashboard, got %d", rec.Code)
	}

	rec, cookies = site.do(t, http.MethodGet, "/admin?q=912", "", "", cookies)
	body := rec.Body.String()
	if rec.Code != http.StatusOK || !strings.Contains(body, "Анна") {
		t.Fatalf("dashboard: %d %s", rec.Code, body)
	}
	// html/template writes the plus sign as an entity
	if !strings.Contains(body, `href="tel:&#43;79123456789"`) {
		t.Fatalf("expected tel link in dashboard: %s", body)
	}
	if !strings.Contains(body, "Перфоратор ударный") {
		t.Fatalf("expected every product without a product search")
	}

	rec, cookies = site.do(t, http.MethodGet, "/admin?pq="+url.QueryEscape("штукатурка"), "", "", cookies)
	body = rec.Body.String()
	if rec.Code != http.StatusOK || !strings.Contains(body, "Штукатурка гипсовая") || strings.Contains(body, "Перфоратор ударный") {
		t.Fatalf("product search: %d %s", rec.Code, body)
	}

	rec, cookies = site.do(t, http.MethodPost, "/admin/catalogs/"+site.api.catalogID.String()+"/delete", form, "", cookies)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin" {
		t.Fatalf("expected redirect after delete, got %d %s", rec.Code, rec.Header().Get("Location"))
	}
	if site.api.deleteCalls.Load() != 1 {
		t.Fatalf("expected one delete call")
	}

	rec, cookies = site.do(t, http.MethodPost, "/admin/logout", form, "", cookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after logout, got %d", rec.Code)
	}
	rec, _ = site.do(t, http.MethodGet, "/admin", "", "", cookies)
	if rec.Header().Get("Location") != "/admin/login" {
		t.Fatalf("expected logged out, got %d", rec.Code)
	}
}

func TestAdminStaleTokenLogsOut(t *testing.T) {
	site := newTestSite(t)
	store, _ := session.NewStore([]byte("0123456789abcdef0123456789abcdef"), 3600, false)

	saver := httptest.NewRecorder()
	if err := store.Save(saver, httptest.NewRequest(http.MethodGet, "/", nil), "expired-token"); err != nil {
		t.Fatalf("save: %v", err)
	}

	rec, _ := site.do(t, http.MethodGet, "/admin", "", "", saver.Result().Cookies())
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/login" {
		t.Fatalf("expected stale token to be dropped, got %d", rec.Code)
	}
}
