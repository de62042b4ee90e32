/*
Copyright (C) GRyCAP - I3M - UPV

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package backend

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// LoginPath starts a login session in a browser
	LoginPath = "/auth/login"
	// LogoutPath terminates the current session
	LogoutPath = "/auth/logout"
	healthPath = "/health"
	// SessionCookie is the cookie the backend uses to identify a login session
	SessionCookie = "session_id"
	// RequestIDHeader carries the per-request correlation identifier
	RequestIDHeader = "X-Request-ID"

	_DEFAULT_TIMEOUT = 20
)

var (
	// ErrParsingEndpoint error message for backend endpoint parsing
	ErrParsingEndpoint = errors.New("error parsing the backend endpoint, please check that you have typed it correctly")
	// ErrMakingRequest error message for making requests
	ErrMakingRequest = errors.New("error making the request")
	// ErrSendingRequest error message for sending requests
	ErrSendingRequest = errors.New("unable to communicate with the backend, please check that the endpoint is well typed and accessible")
	// ErrUnauthorized is returned when the backend rejects the credentials (401/403)
	ErrUnauthorized = errors.New("not authenticated, please log in again")
	// ErrNotFound is returned when the backend has no such resource (404)
	ErrNotFound = errors.New("not found")
)

// Backend defines the connection settings of a GIS management API
type Backend struct {
	Endpoint  string `json:"endpoint"`
	SessionID string `json:"session_id,omitempty"`
	Token     string `json:"token,omitempty"`
	SSLVerify bool   `json:"ssl_verify"`
	Timeout   int    `json:"timeout,omitempty"`

	logger *zerolog.Logger
}

type sessionRoundTripper struct {
	sessionID string
	transport http.RoundTripper
}

type tokenRoundTripper struct {
	token     string
	transport http.RoundTripper
}

type loggingRoundTripper struct {
	logger    zerolog.Logger
	transport http.RoundTripper
}

// RoundTrip function to implement the RoundTripper interface adding the session cookie
func (srt *sessionRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: srt.sessionID})
	return srt.transport.RoundTrip(req)
}

// RoundTrip function to implement the RoundTripper interface adding a bearer token
func (trt *tokenRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Add("Authorization", "Bearer "+trt.token)
	return trt.transport.RoundTrip(req)
}

func (lrt *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		req.Header.Set(RequestIDHeader, requestID)
	}
	start := time.Now()
	res, err := lrt.transport.RoundTrip(req)
	event := lrt.logger.Debug()
	if err != nil {
		event = lrt.logger.Warn().Err(err)
	} else {
		event = event.Int("status", res.StatusCode)
	}
	event.
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Dur("duration", time.Since(start)).
		Msg("backend request")
	return res, err
}

// WithLogger attaches a logger used to trace every request sent to the backend
func (b *Backend) WithLogger(logger zerolog.Logger) *Backend {
	b.logger = &logger
	return b
}

// Logger returns the attached logger or a disabled one
func (b *Backend) Logger() zerolog.Logger {
	if b == nil || b.logger == nil {
		return zerolog.Nop()
	}
	return *b.logger
}

// GetClient returns an HTTP client to communicate with the backend
func (b *Backend) GetClient() *http.Client {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = _DEFAULT_TIMEOUT
	}

	var transport http.RoundTripper = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		// Enable/disable ssl verification
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !b.SSLVerify},
	}

	if b.Token != "" {
		transport = &tokenRoundTripper{
			token:     b.Token,
			transport: transport,
		}
	} else if b.SessionID != "" {
		transport = &sessionRoundTripper{
			sessionID: b.SessionID,
			transport: transport,
		}
	}

	transport = &loggingRoundTripper{
		logger:    b.Logger(),
		transport: transport,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   time.Second * time.Duration(timeout),
		// Redirects to the identity provider must surface as auth failures
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// URL joins the backend endpoint with the given path elements
func (b *Backend) URL(elem ...string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(b.Endpoint))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", ErrParsingEndpoint
	}
	u.Path = path.Join(append([]string{u.Path}, elem...)...)
	return u.String(), nil
}

// LoginURL returns the browser navigation target used to start a login session
func (b *Backend) LoginURL() (string, error) {
	return b.URL(LoginPath)
}

// NewRequest builds a request against the backend API
func (b *Backend) NewRequest(ctx context.Context, method, p string, body io.Reader) (*http.Request, error) {
	target, err := b.URL(p)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, ErrMakingRequest
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Do sends the request with the backend credentials attached
func (b *Backend) Do(req *http.Request) (*http.Response, error) {
	if b.Token != "" {
		if exp, ok := b.TokenExpiry(); ok && time.Now().After(exp) {
			return nil, fmt.Errorf("%w: the token expired at %s", ErrUnauthorized, exp.Format(time.RFC3339))
		}
	}
	res, err := b.GetClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSendingRequest, err)
	}
	return res, nil
}

// TokenExpiry decodes the expiration claim of the bearer token without verifying it.
// Opaque tokens report false.
func (b *Backend) TokenExpiry() (time.Time, bool) {
	claims := TokenClaims(b.Token)
	if claims == nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TokenClaims returns the unverified claims of a JWT, or nil if the token is not a JWT
func TokenClaims(token string) jwt.MapClaims {
	if strings.Count(token, ".") != 2 {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	return claims
}

// IsUnauthorized reports whether a status code is an authorization failure
func IsUnauthorized(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// CheckStatusCode checks if a backend response is valid and returns an appropriate error if not
func CheckStatusCode(res *http.Response) error {
	if res.StatusCode >= 200 && res.StatusCode <= 204 {
		return nil
	}
	if IsUnauthorized(res.StatusCode) {
		return ErrUnauthorized
	}
	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if res.StatusCode == 502 {
		return errors.New("the backend is not ready yet, please wait until it's ready or check if something failed")
	}
	// Create an error from the failed response body
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("cannot read the response: %v", err)
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return errors.New(msg)
	}
	return fmt.Errorf("unexpected status %d", res.StatusCode)
}

// Health is the liveness report of the backend
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// GetHealth returns the health report of the backend
func (b *Backend) GetHealth(ctx context.Context) (health Health, err error) {
	req, err := b.NewRequest(ctx, http.MethodGet, healthPath, nil)
	if err != nil {
		return health, err
	}

	res, err := b.Do(req)
	if err != nil {
		return health, err
	}
	defer res.Body.Close()

	if err := CheckStatusCode(res); err != nil {
		return health, err
	}

	if err := json.NewDecoder(res.Body).Decode(&health); err != nil {
		return health, fmt.Errorf("decoding health response: %w", err)
	}

	return health, nil
}
