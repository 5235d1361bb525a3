package main

import (
	"context"
	"encoding/base64"
	"math/rand"
	"net/url"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"go.uber.org/zap"
)

const (
	registerPath      = "/register.php"
	submitPath        = "/captcha_bot.php"
	sessionTokenField = "stoken"
)

// httpClient is the slice of tls_client.HttpClient the engine needs: issue a
// request, and seed the client's cookie jar with synthesized cookies.
type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
	SetCookies(u *url.URL, cookies []*http.Cookie)
}

// Session is the mutable state of one registration run. It is created fresh
// per run and discarded afterwards; nothing persists across runs.
type Session struct {
	IdentityEmail    string
	SessionToken     string
	TokenFound       bool
	Cookies          *CookieStore
	LastResponseBody string
	Outcome          Outcome
}

// Engine drives a single logical HTTP session through the registration
// handshake: page fetch, token extraction, cookie reconciliation, timed form
// submission, and outcome classification. One engine runs one session at a
// time; concurrent sessions need separate engines.
type Engine struct {
	client   httpClient
	logger   *zap.SugaredLogger
	profile  *BrowserProfile
	identity *IdentityGenerator
	delay    *HumanDelay
	rng      *rand.Rand
	now      func() time.Time
	baseURL  string
	host     string
}

func NewEngine(client httpClient, logger *zap.SugaredLogger) *Engine {
	baseURL := GetBaseURL()
	host := baseURL
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return &Engine{
		client:   client,
		logger:   logger,
		profile:  DefaultProfile,
		identity: NewIdentityGenerator(),
		delay:    NewHumanDelay(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
		baseURL:  baseURL,
		host:     host,
	}
}

// Run performs exactly one registration attempt: one GET and, unless the GET
// transport-failed, one POST. There is no retry and no backoff. Every failure
// except a transport failure is absorbed into logging and, at most, the final
// classified outcome.
func (e *Engine) Run(ctx context.Context) *Session {
	sess := &Session{
		IdentityEmail: e.identity.IdentityEmail(),
		Cookies:       NewCookieStore(),
		Outcome:       OutcomePending,
	}
	e.logger.Infow("session start", "identity_email", sess.IdentityEmail)

	body, headers, err := e.loadRegistrationPage()
	if err != nil {
		return e.finish(sess, OutcomeTransportFailure, err)
	}

	// PageLoaded
	fields := ExtractFormFieldNames(body)
	e.logger.Debugw("form fields discovered", "count", len(fields), "names", fields)

	token, found := ExtractToken(body, sessionTokenField)
	if found {
		sess.SessionToken = token
		sess.TokenFound = true
		e.logger.Infow("session token extracted", "field", sessionTokenField)
	} else {
		// Extraction miss is non-fatal; the form is submitted with an
		// empty token and the server's reaction becomes the outcome.
		e.logger.Warnw("session token not found", "field", sessionTokenField)
	}

	e.reconcile(sess, headers)

	// CookiesReconciled: emulate human reading time before touching the form.
	if err := e.delay.Wait(ctx, 2, 4); err != nil {
		return e.finish(sess, OutcomeTransportFailure, err)
	}

	form, err := e.buildForm(ctx, sess)
	if err != nil {
		return e.finish(sess, OutcomeTransportFailure, err)
	}

	respBody, respHeaders, err := e.submitForm(form)
	if err != nil {
		return e.finish(sess, OutcomeTransportFailure, err)
	}

	// FormSubmitted
	sess.LastResponseBody = respBody
	e.reconcile(sess, respHeaders)

	return e.finish(sess, Classify(respBody), nil)
}

// finish records the terminal outcome and logs completion unconditionally.
func (e *Engine) finish(sess *Session, outcome Outcome, err error) *Session {
	sess.Outcome = outcome
	fields := []any{"outcome", outcome.String(), "identity_email", sess.IdentityEmail}
	if err != nil {
		fields = append(fields, "error", err)
	}
	e.logger.Infow("session complete", fields...)
	return sess
}

// reconcile merges the response cookies into the session store, then inserts
// synthetic substitutes for expected-but-missing cookies, mirroring those
// into the transport jar so the next request carries them.
func (e *Engine) reconcile(sess *Session, headers http.Header) {
	setCookies := headers.Values("Set-Cookie")
	sess.Cookies.MergeSetCookies(setCookies, e.host)

	synthesized := reconcileCookies(sess.Cookies, setCookies, e.host, e.now(), e.rng, e.logger)
	if len(synthesized) == 0 {
		return
	}
	if u, err := url.Parse(e.baseURL); err == nil {
		e.client.SetCookies(u, synthesized)
	}
}

// buildForm assembles the submission payload, pausing between fields to
// simulate per-field typing latency and once more before submit.
func (e *Engine) buildForm(ctx context.Context, sess *Session) (url.Values, error) {
	fullName := e.identity.FullName()
	email := e.identity.SubmissionEmail(fullName)
	signature := base64.StdEncoding.EncodeToString([]byte(sess.IdentityEmail))

	form := url.Values{}
	fields := []struct {
		name  string
		value string
	}{
		{sessionTokenField, sess.SessionToken},
		{"fullname", fullName},
		{"email", email},
		{"request_signature", signature},
	}
	for _, f := range fields {
		if err := e.delay.Wait(ctx, 0.5, 1.5); err != nil {
			return nil, err
		}
		form.Set(f.name, f.value)
		e.logger.Debugw("form field filled", "field", f.name)
	}

	// Pre-submit pause.
	if err := e.delay.Wait(ctx, 1, 2); err != nil {
		return nil, err
	}
	return form, nil
}

// loadRegistrationPage issues the browser-like navigation GET for the
// registration page and returns body and headers.
func (e *Engine) loadRegistrationPage() (string, http.Header, error) {
	req, err := http.NewRequest(http.MethodGet, e.baseURL+registerPath, nil)
	if err != nil {
		return "", nil, err
	}

	req.Header = http.Header{
		"upgrade-insecure-requests": {"1"},
		"user-agent":                {e.profile.UserAgent},
		"accept":                    {"text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7"},
		"sec-fetch-site":            {"none"},
		"sec-fetch-mode":            {"navigate"},
		"sec-fetch-user":            {"?1"},
		"sec-fetch-dest":            {"document"},
		"sec-ch-ua":                 {e.profile.SecChUa},
		"sec-ch-ua-mobile":          {e.profile.Mobile},
		"sec-ch-ua-platform":        {e.profile.Platform},
		"accept-encoding":           {"gzip, deflate, br, zstd"},
		"accept-language":           {"en-US,en;q=0.9"},
		http.HeaderOrderKey: {
			"upgrade-insecure-requests",
			"user-agent",
			"accept",
			"sec-fetch-site",
			"sec-fetch-mode",
			"sec-fetch-user",
			"sec-fetch-dest",
			"sec-ch-ua",
			"sec-ch-ua-mobile",
			"sec-ch-ua-platform",
			"accept-encoding",
			"accept-language",
			"cookie",
		},
		http.PHeaderOrderKey: PseudoHeaderOrder,
	}

	resp, err := e.doRequest(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := readResponseBody(resp)
	if err != nil {
		return "", nil, err
	}
	return string(bodyBytes), resp.Header, nil
}

// submitForm POSTs the URL-encoded payload with the fixed browser-emulation
// header set the target expects on form submissions.
func (e *Engine) submitForm(form url.Values) (string, http.Header, error) {
	req, err := http.NewRequest(http.MethodPost, e.baseURL+submitPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", nil, err
	}

	req.Header = http.Header{
		"cache-control":             {"max-age=0"},
		"device-memory":             {"8"},
		"dpr":                       {"1"},
		"viewport-width":            {"1920"},
		"sec-ch-ua":                 {e.profile.SecChUa},
		"sec-ch-ua-mobile":          {e.profile.Mobile},
		"sec-ch-ua-platform":        {e.profile.Platform},
		"upgrade-insecure-requests": {"1"},
		"origin":                    {e.baseURL},
		"content-type":              {"application/x-www-form-urlencoded"},
		"user-agent":                {e.profile.UserAgent},
		"accept":                    {"text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7"},
		"sec-fetch-site":            {"same-origin"},
		"sec-fetch-mode":            {"navigate"},
		"sec-fetch-user":            {"?1"},
		"sec-fetch-dest":            {"document"},
		"referer":                   {e.baseURL + registerPath},
		"accept-encoding":           {"gzip, deflate, br, zstd"},
		"accept-language":           {"en-US,en;q=0.9"},
		http.HeaderOrderKey: {
			"cache-control",
			"device-memory",
			"dpr",
			"viewport-width",
			"sec-ch-ua",
			"sec-ch-ua-mobile",
			"sec-ch-ua-platform",
			"upgrade-insecure-requests",
			"origin",
			"content-type",
			"user-agent",
			"accept",
			"sec-fetch-site",
			"sec-fetch-mode",
			"sec-fetch-user",
			"sec-fetch-dest",
			"referer",
			"accept-encoding",
			"accept-language",
			"cookie",
		},
		http.PHeaderOrderKey: PseudoHeaderOrder,
	}

	resp, err := e.doRequest(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := readResponseBody(resp)
	if err != nil {
		return "", nil, err
	}
	return string(bodyBytes), resp.Header, nil
}

// doRequest executes an HTTP request and logs the exchange.
func (e *Engine) doRequest(req *http.Request) (*http.Response, error) {
	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Errorw("request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"transport", IsTransportError(err),
			"error", err,
		)
		return nil, err
	}
	e.logger.Debugw("request", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)
	return resp, nil
}
