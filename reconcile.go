package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cookies the target is expected to exchange. The widget cookie belongs to a
// third-party chat widget; the site's scripts normally set it client-side.
const (
	sessionCookieName      = "PHPSESSID"
	continuationCookieName = "ctoken"
	twkWidgetID            = "64fa1c2e8b0f4a0012d9e7c1"
)

var widgetCookieName = "twk_uuid_" + twkWidgetID

const (
	continuationTokenTTL = time.Hour
	widgetCookieTTL      = 365 * 24 * time.Hour
	continuationHexLen   = 10
)

// reconcileCookies inspects raw Set-Cookie header values for the three
// expected cookies and inserts a syntactically plausible substitute for any
// the server withheld, so subsequent requests present a complete-looking
// cookie set. The session identifier is never synthesized; its absence is
// only recorded and allowed to surface as a later failure signal.
//
// Returns the synthesized cookies so the caller can mirror them into the
// transport's jar.
func reconcileCookies(store *CookieStore, setCookies []string, host string, now time.Time, rng *rand.Rand, logger *zap.SugaredLogger) []*http.Cookie {
	var synthesized []*http.Cookie

	sessionInHeaders := setCookieHas(setCookies, sessionCookieName)
	if !sessionInHeaders && !store.Has(sessionCookieName) {
		logger.Warnw("session cookie missing, not synthesized", "cookie", sessionCookieName)
	}

	ctokenInHeaders := setCookieHas(setCookies, continuationCookieName)
	if !ctokenInHeaders && !store.Has(continuationCookieName) {
		c := &http.Cookie{
			Name:     continuationCookieName,
			Value:    randomHex(rng, continuationHexLen),
			Domain:   host,
			Path:     "/",
			Expires:  now.Add(continuationTokenTTL),
			Secure:   true,
			HttpOnly: true,
		}
		store.Insert(c)
		synthesized = append(synthesized, c)
		logger.Infow("synthesized continuation token", "cookie", continuationCookieName)
	}

	widgetInHeaders := setCookieHas(setCookies, widgetCookieName)
	if !widgetInHeaders && !store.Has(widgetCookieName) {
		c := &http.Cookie{
			Name:     widgetCookieName,
			Value:    widgetCookieValue(parentDomain(host), now),
			Domain:   parentDomain(host),
			Path:     "/",
			Expires:  now.Add(widgetCookieTTL),
			SameSite: http.SameSiteLaxMode,
		}
		store.Insert(c)
		synthesized = append(synthesized, c)
		logger.Infow("synthesized widget cookie", "cookie", widgetCookieName)
	}

	for _, name := range []string{sessionCookieName, continuationCookieName, widgetCookieName} {
		logger.Debugw("cookie reconciled",
			"cookie", name,
			"in_headers", setCookieHas(setCookies, name),
			"in_store", store.Has(name),
		)
	}

	return synthesized
}

// setCookieHas reports whether any Set-Cookie value assigns the named cookie.
// A substring check per name, not a full cookie-header parse.
func setCookieHas(setCookies []string, name string) bool {
	for _, line := range setCookies {
		if strings.HasPrefix(strings.TrimSpace(line), name+"=") {
			return true
		}
	}
	return false
}

// randomHex returns n lowercase hex characters.
func randomHex(rng *rand.Rand, n int) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, n)
	for i := range out {
		out[i] = hexDigits[rng.Intn(len(hexDigits))]
	}
	return string(out)
}

// widgetCookieValue builds the URL-encoded JSON structure the chat widget's
// own script would store: a pseudo-UUID, a version number, the parent domain,
// and the current timestamp in milliseconds.
func widgetCookieValue(domain string, now time.Time) string {
	payload, _ := json.Marshal(struct {
		UUID    string `json:"uuid"`
		Version int    `json:"version"`
		Domain  string `json:"domain"`
		TS      int64  `json:"ts"`
	}{
		UUID:    fmt.Sprintf("1.%s", uuid.New().String()),
		Version: 3,
		Domain:  domain,
		TS:      now.UnixMilli(),
	})
	return url.QueryEscape(string(payload))
}

// parentDomain strips a leading www label so widget cookies scope to the
// registrable domain.
func parentDomain(host string) string {
	return strings.TrimPrefix(host, "www.")
}
