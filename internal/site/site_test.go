package site

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

var launch = time.Date(2025, time.November, 10, 8, 0, 0, 0, time.UTC)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	p, err := NewPages(launch)
	if err != nil {
		t.Fatalf("pages: %v", err)
	}
	r := gin.New()
	if err := p.Register(r); err != nil {
		t.Fatalf("register: %v", err)
	}
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHomeRendersTeaser(t *testing.T) {
	w := get(newRouter(t), "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`data-launch-at="2025-11-10T08:00:00Z"`,
		"Self-Cleaning",
		`src="/gallery/resin-chamber.svg"`,
		`alt="robotic arm"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in home page", want)
		}
	}
}

func TestLoginCarriesSafeReturnPath(t *testing.T) {
	r := newRouter(t)

	w := get(r, "/login?from=/gallery")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `data-from="/gallery"`) {
		t.Fatalf("expected from to be echoed, got %d", w.Code)
	}

	w = get(r, "/login?from=//evil.example")
	if !strings.Contains(w.Body.String(), `data-from="/"`) {
		t.Fatalf("expected unsafe from to fall back to /")
	}
}

func TestNotFound(t *testing.T) {
	r := newRouter(t)
	if w := get(r, "/dashboard"); w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "/dashboard") {
		t.Fatalf("expected html 404, got %d", w.Code)
	}
	w := get(r, "/api/nope")
	if w.Code != http.StatusNotFound || !strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("expected json 404 for api path, got %d %q", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestAssets(t *testing.T) {
	r := newRouter(t)
	for _, p := range []string{"/static/site.css", "/static/login.js", "/gallery/ai-control.svg"} {
		if w := get(r, p); w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", p, w.Code)
		}
	}
	if w := get(r, "/static/site.css"); !strings.HasPrefix(w.Header().Get("Content-Type"), "text/css") {
		t.Fatalf("expected css content type, got %q", w.Header().Get("Content-Type"))
	}
	w := get(r, "/favicon.ico")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("expected svg favicon, got %d %q", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestAssetDirectoriesAreNotListed(t *testing.T) {
	r := newRouter(t)
	for _, p := range []string{"/static/", "/gallery/", "/static/../templates/index.html", "/static/missing.css"} {
		w := get(r, p)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", p, w.Code)
		}
		if strings.Contains(w.Body.String(), "<pre>") || strings.Contains(w.Body.String(), "favicon.svg") {
			t.Fatalf("%s: directory listing leaked: %q", p, w.Body.String())
		}
	}
}

func TestAltText(t *testing.T) {
	if got := altText("resin-chamber.svg"); got != "resin chamber" {
		t.Fatalf("unexpected alt %q", got)
	}
	if got := altText("ai_control.png"); got != "ai control" {
		t.Fatalf("unexpected alt %q", got)
	}
}
