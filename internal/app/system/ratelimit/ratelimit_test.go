package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_AllowAndBlock(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("key") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("key") {
		t.Error("fourth request should be blocked")
	}

	// Other keys are independent.
	if !l.Allow("other") {
		t.Error("a different key should not be affected")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Minute)

	if !l.Allow("key") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("key") {
		t.Fatal("second request should be blocked")
	}

	l.Reset("key")
	if !l.Allow("key") {
		t.Error("request after reset should be allowed")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := New(1, 10*time.Millisecond)

	if !l.Allow("key") {
		t.Fatal("first request should be allowed")
	}
	time.Sleep(20 * time.Millisecond)
	if !l.Allow("key") {
		t.Error("request after window expiry should be allowed")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:4321"
	if got := ClientIP(r); got != "10.0.0.1" {
		t.Errorf("RemoteAddr: got %q, want %q", got, "10.0.0.1")
	}

	r.Header.Set("X-Real-IP", "203.0.113.9")
	if got := ClientIP(r); got != "203.0.113.9" {
		t.Errorf("X-Real-IP: got %q, want %q", got, "203.0.113.9")
	}

	r.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	if got := ClientIP(r); got != "198.51.100.7" {
		t.Errorf("X-Forwarded-For: got %q, want %q", got, "198.51.100.7")
	}
}

func TestLoginLimiter_EmailThrottle(t *testing.T) {
	ll := NewLoginLimiter()
	r := httptest.NewRequest("POST", "/auth/login", nil)
	r.RemoteAddr = "10.0.0.1:4321"

	for i := 0; i < 5; i++ {
		allowed, _ := ll.Check(r, "maria@example.com")
		if !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	allowed, reason := ll.Check(r, "maria@example.com")
	if allowed {
		t.Error("sixth attempt for the same email should be blocked")
	}
	if reason == "" {
		t.Error("a blocked attempt should carry a reason")
	}

	ll.ResetEmail("maria@example.com")
	if allowed, _ := ll.Check(r, "maria@example.com"); !allowed {
		t.Error("attempt after reset should be allowed")
	}
}
