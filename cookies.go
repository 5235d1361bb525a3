package main

import (
	"strconv"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
)

// cookieKey uniquely identifies a cookie within the store.
type cookieKey struct {
	Name   string
	Domain string
	Path   string
}

// CookieStore is an in-memory set of cookies owned by exactly one Session.
// It is mutated only by merging Set-Cookie response headers and by explicit
// synthetic insertion during reconciliation. At most one cookie exists per
// (name, domain, path) key; an insert for an existing key replaces the whole
// cookie, never part of it.
type CookieStore struct {
	cookies map[cookieKey]*http.Cookie
	order   []cookieKey
}

func NewCookieStore() *CookieStore {
	return &CookieStore{cookies: make(map[cookieKey]*http.Cookie)}
}

// Insert adds or replaces a cookie by its identity key.
func (s *CookieStore) Insert(c *http.Cookie) {
	if c == nil || c.Name == "" {
		return
	}
	if c.Path == "" {
		c.Path = "/"
	}
	key := cookieKey{Name: c.Name, Domain: c.Domain, Path: c.Path}
	if _, exists := s.cookies[key]; !exists {
		s.order = append(s.order, key)
	}
	s.cookies[key] = c
}

// MergeSetCookies folds raw Set-Cookie header values into the store. Cookies
// without an explicit Domain attribute are scoped to defaultDomain.
func (s *CookieStore) MergeSetCookies(lines []string, defaultDomain string) {
	for _, line := range lines {
		if c := parseSetCookieLine(line, defaultDomain); c != nil {
			s.Insert(c)
		}
	}
}

// Get returns the first cookie with the given name, across all domains and
// paths, or nil if none is present.
func (s *CookieStore) Get(name string) *http.Cookie {
	for _, key := range s.order {
		if key.Name == name {
			return s.cookies[key]
		}
	}
	return nil
}

// Has reports whether any cookie with the given name is present.
func (s *CookieStore) Has(name string) bool {
	return s.Get(name) != nil
}

// CountByName returns how many cookies share the given name. With the
// per-key invariant this exceeds one only when domains or paths differ.
func (s *CookieStore) CountByName(name string) int {
	n := 0
	for _, key := range s.order {
		if key.Name == name {
			n++
		}
	}
	return n
}

// All returns every cookie in insertion order.
func (s *CookieStore) All() []*http.Cookie {
	out := make([]*http.Cookie, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.cookies[key])
	}
	return out
}

// Len returns the number of cookies in the store.
func (s *CookieStore) Len() int {
	return len(s.cookies)
}

// parseSetCookieLine performs a tolerant lexical parse of one Set-Cookie
// header value. Malformed lines yield nil, never an error; unknown attributes
// are ignored.
func parseSetCookieLine(line, defaultDomain string) *http.Cookie {
	parts := strings.Split(line, ";")
	name, value, ok := strings.Cut(strings.TrimSpace(parts[0]), "=")
	if !ok || name == "" {
		return nil
	}

	c := &http.Cookie{Name: name, Value: value, Domain: defaultDomain, Path: "/"}
	for _, attr := range parts[1:] {
		k, v, _ := strings.Cut(strings.TrimSpace(attr), "=")
		switch strings.ToLower(k) {
		case "domain":
			if v != "" {
				c.Domain = v
			}
		case "path":
			if v != "" {
				c.Path = v
			}
		case "secure":
			c.Secure = true
		case "httponly":
			c.HttpOnly = true
		case "samesite":
			switch strings.ToLower(v) {
			case "lax":
				c.SameSite = http.SameSiteLaxMode
			case "strict":
				c.SameSite = http.SameSiteStrictMode
			case "none":
				c.SameSite = http.SameSiteNoneMode
			}
		case "expires":
			if t, err := time.Parse(time.RFC1123, v); err == nil {
				c.Expires = t
			}
		case "max-age":
			if secs, err := strconv.Atoi(v); err == nil {
				c.Expires = time.Now().Add(time.Duration(secs) * time.Second)
			}
		}
	}
	return c
}
