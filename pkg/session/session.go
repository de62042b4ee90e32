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

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/eizes/gis-cli/pkg/backend"
)

const profilePath = "/user/profile"

// Session is the identity of the authenticated user
type Session struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
}

// LoginRequiredError is returned when the backend rejects the current
// credentials. LoginURL is where a new session can be started.
type LoginRequiredError struct {
	LoginURL string
	Status   int
}

func (e *LoginRequiredError) Error() string {
	return fmt.Sprintf("login required, open %s to start a new session", e.LoginURL)
}

// Unwrap lets callers match the error with backend.ErrUnauthorized
func (e *LoginRequiredError) Unwrap() error {
	return backend.ErrUnauthorized
}

// IsLoginRequired reports whether err asks for a new login
func IsLoginRequired(err error) bool {
	var lr *LoginRequiredError
	return errors.As(err, &lr)
}

// Guard validates the session held by a backend configuration
type Guard struct {
	backend *backend.Backend
}

// NewGuard returns a guard for b
func NewGuard(b *backend.Backend) *Guard {
	return &Guard{backend: b}
}

// Check asks the backend who the current user is. Authorization failures
// are returned as *LoginRequiredError; any other failure is returned as is
// and may be retried.
func (g *Guard) Check(ctx context.Context) (Session, error) {
	var s Session
	req, err := g.backend.NewRequest(ctx, http.MethodGet, profilePath, nil)
	if err != nil {
		return s, err
	}

	res, err := g.backend.Do(req)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return s, g.loginRequired(0)
		}
		return s, err
	}
	defer res.Body.Close()

	// The backend answers unauthenticated browsers with a redirect to the identity provider
	if backend.IsUnauthorized(res.StatusCode) || (res.StatusCode >= 300 && res.StatusCode < 400) {
		return s, g.loginRequired(res.StatusCode)
	}
	if err := backend.CheckStatusCode(res); err != nil {
		return s, err
	}

	if err := json.NewDecoder(res.Body).Decode(&s); err != nil {
		return s, fmt.Errorf("decoding user profile: %w", err)
	}
	return s, nil
}

func (g *Guard) loginRequired(status int) error {
	loginURL, err := g.backend.LoginURL()
	if err != nil {
		return err
	}
	return &LoginRequiredError{LoginURL: loginURL, Status: status}
}

// Logout ends the session in the backend. The result is best effort: the
// caller forgets the local session whatever the outcome.
func (g *Guard) Logout(ctx context.Context) error {
	req, err := g.backend.NewRequest(ctx, http.MethodGet, backend.LogoutPath, nil)
	if err != nil {
		return err
	}
	res, err := g.backend.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 && res.StatusCode < 400 {
		return nil
	}
	return backend.CheckStatusCode(res)
}
