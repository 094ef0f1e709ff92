package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestNewCSRFSecureFlag(t *testing.T) {
	for _, secure := range []bool{true, false} {
		handler := NewCSRF(secure)(okHandler())
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		var found *http.Cookie
		for _, c := range rr.Result().Cookies() {
			if c.Name == CSRFCookieName {
				found = c
			}
		}
		if found == nil {
			t.Fatal("CSRF cookie not set")
		}
		if found.Secure != secure || found.SameSite != http.SameSiteStrictMode || found.Value == "" {
			t.Errorf("unexpected cookie %+v", found)
		}
	}
}

func TestCSRFRejectsMutationWithoutToken(t *testing.T) {
	handler := NewCSRF(false)(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/comments", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "abc"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("got %d, want 403", rr.Code)
	}
}

func TestCSRFAcceptsHeaderToken(t *testing.T) {
	handler := NewCSRF(false)(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/comments", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "abc"})
	req.Header.Set(CSRFHeaderName, "abc")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("got %d, want 200", rr.Code)
	}
}

func TestCSRFAcceptsFormToken(t *testing.T) {
	handler := NewCSRF(false)(okHandler())
	body := url.Values{CSRFFormField: {"abc"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/admin/unlock", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "abc"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("got %d, want 200", rr.Code)
	}
}

func TestGetCSRFTokenOnFirstVisit(t *testing.T) {
	var token string
	handler := NewCSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = GetCSRFToken(r)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if len(token) != csrfTokenLength*2 {
		t.Errorf("token not visible to handler on first visit: %q", token)
	}
}
