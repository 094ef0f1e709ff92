// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"encoding/binary"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coocood/freecache"
)

// RateLimiter caps requests per client IP using fixed windows. Counters
// live in a bounded freecache, so idle clients age out without a sweeper.
type RateLimiter struct {
	mu     sync.Mutex
	counts *freecache.Cache
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter allows limit requests per window for each client.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counts: freecache.NewCache(4 * 1024 * 1024),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow reports whether key is still within its budget for the current
// window and consumes one request if so.
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.now()
	slot := now.UnixNano() / int64(rl.window)
	k := []byte(key + "|" + strconv.FormatInt(slot, 10))

	rl.mu.Lock()
	defer rl.mu.Unlock()

	var n uint64
	if v, err := rl.counts.Get(k); err == nil && len(v) == 8 {
		n = binary.BigEndian.Uint64(v)
	}
	if n >= uint64(rl.limit) {
		return false
	}

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n+1)
	ttl := int(rl.window/time.Second) + 1
	_ = rl.counts.Set(k, buf, ttl)
	return true
}

// Middleware returns an HTTP middleware that rate-limits by client IP.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window/time.Second)+1))
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client's IP address, checking X-Forwarded-For
// and X-Real-IP headers for proxied requests.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
