//go:build !integration

package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/manojneupaneweb/GoGain-sub000/internal/infra/web"
)

func TestAuthManager(t *testing.T) {
	t.Run("mints a token that parses back to the session", func(t *testing.T) {
		// --- Arrange ---
		auth := web.NewAuthManager("test-secret", false, time.Hour)
		rec := httptest.NewRecorder()

		// --- Act ---
		tok, err := auth.Mint(rec, "sess-1")

		// --- Assert ---
		if err != nil {
			t.Fatalf("mint: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		claims, err := auth.ParseFromRequest(req)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if claims.SessionID != "sess-1" {
			t.Errorf("session id = %q, want sess-1", claims.SessionID)
		}
	})

	t.Run("sets a lax cookie so the gateway return trip carries the session", func(t *testing.T) {
		// --- Arrange ---
		auth := web.NewAuthManager("test-secret", false, time.Hour)
		rec := httptest.NewRecorder()

		// --- Act ---
		if _, err := auth.Mint(rec, "sess-1"); err != nil {
			t.Fatalf("mint: %v", err)
		}

		// --- Assert ---
		cookies := rec.Result().Cookies()
		if len(cookies) != 1 {
			t.Fatalf("got %d cookies, want 1", len(cookies))
		}
		c := cookies[0]
		if c.Name != "gg_session" {
			t.Errorf("cookie name = %q", c.Name)
		}
		if !c.HttpOnly {
			t.Error("cookie is not http-only")
		}
		if c.SameSite != http.SameSiteLaxMode {
			t.Errorf("same-site = %v, want lax", c.SameSite)
		}
	})

	t.Run("falls back to the cookie when no header is present", func(t *testing.T) {
		// --- Arrange ---
		auth := web.NewAuthManager("test-secret", false, time.Hour)
		rec := httptest.NewRecorder()
		tok, err := auth.Mint(rec, "sess-2")
		if err != nil {
			t.Fatalf("mint: %v", err)
		}

		// --- Act ---
		req := httptest.NewRequest(http.MethodGet, "/payment/return", nil)
		req.AddCookie(&http.Cookie{Name: "gg_session", Value: tok})
		claims, err := auth.ParseFromRequest(req)

		// --- Assert ---
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if claims.SessionID != "sess-2" {
			t.Errorf("session id = %q, want sess-2", claims.SessionID)
		}
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		// --- Arrange ---
		minter := web.NewAuthManager("secret-a", false, time.Hour)
		verifier := web.NewAuthManager("secret-b", false, time.Hour)
		tok, err := minter.Mint(httptest.NewRecorder(), "sess-3")
		if err != nil {
			t.Fatalf("mint: %v", err)
		}

		// --- Act ---
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		_, err = verifier.ParseFromRequest(req)

		// --- Assert ---
		if err == nil {
			t.Fatal("expected an error for a foreign signature")
		}
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		// --- Arrange ---
		auth := web.NewAuthManager("test-secret", false, -time.Minute)
		tok, err := auth.Mint(httptest.NewRecorder(), "sess-4")
		if err != nil {
			t.Fatalf("mint: %v", err)
		}

		// --- Act ---
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		_, err = auth.ParseFromRequest(req)

		// --- Assert ---
		if err == nil {
			t.Fatal("expected an error for an expired token")
		}
	})
}
