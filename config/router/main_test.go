package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mcsoccercamp/camp-api/internal/log"
)

func mountTestController(rs *RouterService) {
	ctrl := NewRESTController("TestController", "/", func(rs *RouterService, c *RESTController) {
		rs.AddGetHandler(c, nil, "ip", func(ctx *RequestContext) *ServiceResult {
			return OKResult(ctx.ClientIP(), "ok")
		})

		rs.AddPostHandler(c, nil, "echo", func(ctx *RequestContext) *ServiceResult {
			var payload map[string]any
			if err := ctx.ShouldBindJSON(&payload); err != nil {
				return BadRequestResult("bad", nil)
			}
			return OKResult(payload, "ok")
		})
	})

	rs.MountController(ctrl)
}

func newTestRouterService(t *testing.T) *RouterService {
	t.Helper()

	logger := log.NewLoggerWithJSONOutput()
	return CreateRouterService(logger, nil, &RouterConfig{
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
	})
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func serve(rs *RouterService, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestTrustedProxies(t *testing.T) {
	cases := []struct {
		name    string
		proxies string
		wantIP  string
	}{
		{name: "disabled by default uses remote addr", proxies: "", wantIP: "10.0.0.2"},
		{name: "star trusts forwarded for", proxies: "*", wantIP: "1.1.1.1"},
		{name: "listed proxy is trusted", proxies: "10.0.0.0/8, 192.168.0.1", wantIP: "1.1.1.1"},
		{name: "unlisted proxy is ignored", proxies: "172.16.0.0/12", wantIP: "10.0.0.2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TRUSTED_PROXIES", tc.proxies)
			rs := newTestRouterService(t)
			mountTestController(rs)

			req := httptest.NewRequest(http.MethodGet, "/ip", nil)
			req.RemoteAddr = "10.0.0.2:1234"
			req.Header.Set("X-Forwarded-For", "1.1.1.1")

			w, env := serve(rs, req)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}

			var ip string
			if err := json.Unmarshal(env.Data, &ip); err != nil {
				t.Fatalf("decode data: %v", err)
			}
			if ip != tc.wantIP {
				t.Fatalf("ClientIP = %q, want %q", ip, tc.wantIP)
			}
		})
	}
}

func TestParseTrustedProxiesEnv(t *testing.T) {
	if got := parseTrustedProxiesEnv("  "); got != nil {
		t.Fatalf("blank value should trust nobody, got %v", got)
	}
	got := parseTrustedProxiesEnv(" 10.0.0.1 ,, 10.0.0.2")
	if len(got) != 2 || got[0] != "10.0.0.1" || got[1] != "10.0.0.2" {
		t.Fatalf("unexpected proxies %v", got)
	}
}

func TestMaxBodySize_Returns413(t *testing.T) {
	t.Setenv("MAX_REQUEST_BODY_BYTES", "10")

	rs := newTestRouterService(t)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("a", 50)))
	req.Header.Set("Content-Type", "application/json")

	w, env := serve(rs, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", w.Code, w.Body.String())
	}
	if env.Success || env.Code != http.StatusRequestEntityTooLarge || env.Error != "Request payload too large" {
		t.Fatalf("unexpected oversized body envelope: %s", w.Body.String())
	}
}

func TestEnvelope_SuccessAndError(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs)

	post := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	w, env := serve(rs, post(`{"a":1}`))
	if !env.Success || env.Message != "ok" || env.Code != http.StatusOK {
		t.Fatalf("unexpected success envelope: %s", w.Body.String())
	}

	w, env = serve(rs, post(`not-json`))
	if w.Code != http.StatusBadRequest || env.Success || env.Error != "bad" {
		t.Fatalf("unexpected error envelope: %d %s", w.Code, w.Body.String())
	}
}

func TestWrongMethod_Returns405(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs)

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/echo", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestFileResult_BypassesEnvelope(t *testing.T) {
	rs := newTestRouterService(t)
	rs.MountController(NewRESTController("Files", "/files", func(rs *RouterService, c *RESTController) {
		rs.AddGetHandler(c, nil, "doc", func(ctx *RequestContext) *ServiceResult {
			return FileOKResult("application/pdf", "waiver.pdf", true, []byte("%PDF-1.4"))
		})
	}))

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/doc", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := w.Header().Get("Content-Disposition"); got != `inline; filename=waiver.pdf` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if w.Body.String() != "%PDF-1.4" {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
}

func TestAdminKeyMiddleware(t *testing.T) {
	rs := newTestRouterService(t)
	rs.MountController(NewRESTController("Admin", "/admin", func(rs *RouterService, c *RESTController) {
		rs.AddGetHandler(c, nil, "ping", func(ctx *RequestContext) *ServiceResult {
			return OKResult(nil, "pong")
		}, AdminKeyMiddleware("s3cret"))
	}))

	cases := []struct {
		name   string
		target string
		header string
		want   int
	}{
		{"missing", "/admin/ping", "", http.StatusUnauthorized},
		{"wrong header", "/admin/ping", "nope", http.StatusUnauthorized},
		{"header", "/admin/ping", "s3cret", http.StatusOK},
		{"query", "/admin/ping?adminKey=s3cret", "", http.StatusOK},
		{"legacy query", "/admin/ping?admin_key=s3cret", "", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				req.Header.Set("X-Admin-Key", tc.header)
			}
			w := httptest.NewRecorder()
			rs.GetEngine().ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestAdminKeyMiddleware_EmptyKeyDeniesAll(t *testing.T) {
	rs := newTestRouterService(t)
	rs.MountController(NewRESTController("Admin", "/admin", func(rs *RouterService, c *RESTController) {
		rs.AddGetHandler(c, nil, "ping", func(ctx *RequestContext) *ServiceResult {
			return OKResult(nil, "pong")
		}, AdminKeyMiddleware(""))
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/ping?adminKey=", nil)
	req.Header.Set("X-Admin-Key", "")
	w, env := serve(rs, req)

	if w.Code != http.StatusUnauthorized || env.Code != http.StatusUnauthorized || env.Error != "Unauthorized" {
		t.Fatalf("unexpected admin rejection: %d %s", w.Code, w.Body.String())
	}
}

func TestNotBlankValidatorRegistered(t *testing.T) {
	rs := newTestRouterService(t)
	rs.MountController(NewRESTController("Forms", "/forms", func(rs *RouterService, c *RESTController) {
		rs.AddPostHandler(c, nil, "", func(ctx *RequestContext) *ServiceResult {
			var body struct {
				Name string `json:"name" binding:"required,notblank"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				return BadRequestResult("invalid", nil)
			}
			return OKResult(body.Name, "ok")
		})
	}))

	req := httptest.NewRequest(http.MethodPost, "/forms", bytes.NewReader([]byte(`{"name":"   "}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected blank name to be rejected, got %d", w.Code)
	}
}

func TestCorrelationID_EchoedFromHeader(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)

	if got := w.Header().Get("X-Correlation-ID"); got != "abc-123" {
		t.Fatalf("expected correlation id echoed, got %q", got)
	}
}

func TestNewCounterVec_ReusesRegisteredCollector(t *testing.T) {
	rs := newTestRouterService(t)

	first := rs.NewCounterVec("camp_test_total", "test", "kind")
	second := rs.NewCounterVec("camp_test_total", "test", "kind")

	if first != second {
		t.Fatalf("expected the same collector for a repeated registration")
	}
}

func TestMetrics_ExportsRouteSeries(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "true")
	rs := newTestRouterService(t)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString(`{"camp":"summer"}`))
	req.Header.Set("Content-Type", "application/json")
	rs.GetEngine().ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`camp_http_requests_total{method="POST",route="/echo",status="200"} 1`,
		`camp_http_request_body_bytes_count{route="/echo"} 1`,
		"camp_http_requests_in_flight",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}

func TestCORS_DefaultsToSiteOrigin(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGIN", "")
	t.Setenv("SITE_BASE_URL", "https://mcsoccercamp.example.com/camp/")

	rs := newTestRouterService(t)
	mountTestController(rs)

	preflight := httptest.NewRequest(http.MethodOptions, "/echo", nil)
	preflight.Header.Set("Origin", "https://mcsoccercamp.example.com")
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, preflight)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://mcsoccercamp.example.com" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "X-Admin-Key") {
		t.Fatalf("expected admin key header to be allowed")
	}

	other := httptest.NewRequest(http.MethodGet, "/ip", nil)
	other.Header.Set("Origin", "https://elsewhere.example.com")
	w = httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, other)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin for foreign origin, got %q", got)
	}
}

func TestHSTS_OnlyOverHTTPS(t *testing.T) {
	t.Setenv("HSTS_ENABLED", "true")
	t.Setenv("HSTS_INCLUDE_SUBDOMAINS", "false")
	t.Setenv("HSTS_MAX_AGE", "600")

	rs := newTestRouterService(t)
	mountTestController(rs)

	plain := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(plain, httptest.NewRequest(http.MethodGet, "/ip", nil))
	if got := plain.Header().Get("Strict-Transport-Security"); got != "" {
		t.Fatalf("expected no HSTS over http, got %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	secure := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(secure, req)
	if got := secure.Header().Get("Strict-Transport-Security"); got != "max-age=600" {
		t.Fatalf("unexpected HSTS header %q", got)
	}
}
