package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-processform/pkg/orchestrator"
	"github.com/goliatone/go-processform/pkg/render"
	"github.com/goliatone/go-processform/pkg/renderers/vanilla"
	"github.com/goliatone/go-processform/pkg/slider"
	"github.com/goliatone/go-processform/pkg/testsupport"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestServer(t *testing.T, opts Options) (*Server, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	opts.now = clock.Now
	srv, err := New(nil, opts)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, clock
}

func loadPage(t *testing.T, h http.Handler, cookies ...*http.Cookie) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status %d: %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return rec, c
		}
	}
	t.Fatalf("expected session cookie")
	return nil, nil
}

func postEvent(h http.Handler, cookie *http.Cookie, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeRegions(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var resp eventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return resp.Regions
}

func TestServer_PageAndEvents(t *testing.T) {
	srv, _ := newTestServer(t, Options{Title: "Emissions", Slides: orchestrator.DefaultSlides()})
	h := srv.Handler()

	rec, cookie := loadPage(t, h)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	doc := testsupport.MustParseDocument(t, rec.Body.String())
	if doc.GetElementByID(render.DefaultSelectID) == nil {
		t.Fatalf("expected chooser in page")
	}
	if scripts := doc.GetElementsByTagName("script"); len(scripts) != 1 || scripts[0].Attr("src") != "/assets/processform.js" {
		t.Fatalf("expected runtime script reference")
	}
	if !doc.GetElementsByClassName(slider.ClassSlide)[0].HasClass(slider.ClassActive) {
		t.Fatalf("expected first slide active on load")
	}

	res := postEvent(h, cookie, `{"target":"process-select","type":"change","value":"transportation"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("POST /events status %d: %s", res.Code, res.Body.String())
	}
	regions := decodeRegions(t, res)
	fields, ok := regions[render.DefaultFieldsID]
	if !ok || len(regions) != 1 {
		t.Fatalf("expected only the fields region, got %v", regions)
	}
	if !strings.Contains(fields, `name="fuel_type"`) || strings.Contains(fields, `class="hidden"`) {
		t.Fatalf("unexpected fields region: %s", fields)
	}

	res = postEvent(h, cookie, `{"target":"next","type":"click"}`)
	regions = decodeRegions(t, res)
	if _, ok := regions[vanilla.SliderID]; !ok {
		t.Fatalf("expected slider region after click, got %v", regions)
	}
}

func TestServer_RangeInputOnlyRefreshesReadout(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	h := srv.Handler()
	_, cookie := loadPage(t, h)

	postEvent(h, cookie, `{"target":"process-select","type":"change","value":"waste_management"}`)

	control := render.ControlID("recycling_percentage")
	for _, tc := range []struct{ value, want string }{{"80", "80%"}, {"150", "100%"}, {"abc", "50%"}} {
		res := postEvent(h, cookie, `{"target":"`+control+`","type":"input","value":"`+tc.value+`"}`)
		if res.Code != http.StatusOK {
			t.Fatalf("input %s: status %d: %s", tc.value, res.Code, res.Body.String())
		}
		regions := decodeRegions(t, res)
		if _, ok := regions[render.DefaultFieldsID]; ok {
			t.Fatalf("input %s should not return the fields region, got %v", tc.value, regions)
		}
		readout, ok := regions[render.ReadoutID("recycling_percentage")]
		if !ok || len(regions) != 1 || !strings.Contains(readout, ">"+tc.want+"</span>") {
			t.Fatalf("input %s: expected only the readout showing %s, got %v", tc.value, tc.want, regions)
		}
	}
}

func TestServer_EventRefreshesCookie(t *testing.T) {
	srv, clock := newTestServer(t, Options{SessionTTL: time.Minute})
	h := srv.Handler()
	_, cookie := loadPage(t, h)

	for i := 0; i < 3; i++ {
		clock.Advance(40 * time.Second)
		res := postEvent(h, cookie, `{"target":"process-select","type":"change","value":"other"}`)
		if res.Code != http.StatusOK {
			t.Fatalf("event %d: status %d", i, res.Code)
		}
		var refreshed *http.Cookie
		for _, c := range res.Result().Cookies() {
			if c.Name == SessionCookie {
				refreshed = c
			}
		}
		if refreshed == nil || refreshed.Value != cookie.Value || refreshed.MaxAge != 60 || !refreshed.HttpOnly {
			t.Fatalf("event %d: expected refreshed session cookie, got %v", i, refreshed)
		}
	}

	if rec := postEvent(h, &http.Cookie{Name: SessionCookie, Value: "gone"}, `{}`); len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expired sessions should not get a cookie")
	}
}

func TestServer_PruneInterval(t *testing.T) {
	cases := map[time.Duration]time.Duration{
		time.Nanosecond:  time.Second,
		time.Second:      time.Second,
		10 * time.Second: 5 * time.Second,
		time.Hour:        30 * time.Minute,
	}
	for ttl, want := range cases {
		srv, _ := newTestServer(t, Options{SessionTTL: ttl})
		if got := srv.pruneInterval(); got != want {
			t.Errorf("ttl %s: prune interval %s, want %s", ttl, got, want)
		}
	}
}

func TestServer_EventErrors(t *testing.T) {
	srv, clock := newTestServer(t, Options{SessionTTL: time.Minute})
	h := srv.Handler()
	_, cookie := loadPage(t, h)

	cases := []struct {
		name   string
		cookie *http.Cookie
		body   string
		want   int
	}{
		{"no cookie", nil, `{}`, http.StatusUnauthorized},
		{"unknown session", &http.Cookie{Name: SessionCookie, Value: "not-a-uuid"}, `{}`, http.StatusGone},
		{"bad body", cookie, `{`, http.StatusBadRequest},
		{"unknown target", cookie, `{"target":"nope","type":"click"}`, http.StatusBadRequest},
		{"unsupported type", cookie, `{"target":"process-select","type":"hover"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := postEvent(h, tc.cookie, tc.body); rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}

	clock.Advance(2 * time.Minute)
	if rec := postEvent(h, cookie, `{"target":"next","type":"click"}`); rec.Code != http.StatusGone {
		t.Fatalf("expected expired session, got %d", rec.Code)
	}
}

func TestServer_ReloadReplacesSession(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	h := srv.Handler()

	_, first := loadPage(t, h)
	_, second := loadPage(t, h, first)
	if first.Value == second.Value {
		t.Fatalf("expected a new session id")
	}
	if srv.sessions.len() != 1 {
		t.Fatalf("expected the old session to be dropped, have %d", srv.sessions.len())
	}
	if rec := postEvent(h, first, `{"target":"process-select","type":"change","value":"other"}`); rec.Code != http.StatusGone {
		t.Fatalf("expected old session gone, got %d", rec.Code)
	}
}

func TestServer_HealthAndAssets(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	var health map[string]any
	if err := json.NewDecoder(res.Body).Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	res.Body.Close()
	if health["status"] != "ok" {
		t.Fatalf("unexpected health %v", health)
	}

	for _, name := range []string{vanilla.StylesheetName, vanilla.RuntimeScriptName} {
		res, err := http.Get(ts.URL + AssetsPrefix + name)
		if err != nil {
			t.Fatalf("asset %s: %v", name, err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("asset %s: status %d", name, res.StatusCode)
		}
	}
}
