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

package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"

	"github.com/eizes/gis-cli/pkg/backend"
)

const (
	settingsPath          = "/settings"
	validateWorkspacePath = "/settings/geoserver/validate-workspace"

	// DefaultDBHost is used when the database group has no host
	DefaultDBHost = "localhost"
	// DefaultDBPort is used when the database group has no valid port
	DefaultDBPort = 5432
)

// WorkspaceRequest asks the backend whether a schema exists in the map-server database
type WorkspaceRequest struct {
	Workspace  string `json:"workspace"`
	DBHost     string `json:"db_host"`
	DBPort     int    `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password,omitempty"`
}

// WorkspaceResult is the answer of the workspace validation endpoint
type WorkspaceResult struct {
	Exists    bool   `json:"exists"`
	Message   string `json:"message"`
	Workspace string `json:"workspace"`
}

type updateResponse struct {
	Message string `json:"message"`
	Data    *Group `json:"data"`
}

// Client reads and writes service settings through the backend API
type Client struct {
	backend *backend.Backend
}

// NewClient returns a settings client bound to a backend
func NewClient(b *backend.Backend) *Client {
	return &Client{backend: b}
}

// FetchAll returns every service configuration as a group keyed by service name
func (c *Client) FetchAll(ctx context.Context) (Group, error) {
	req, err := c.backend.NewRequest(ctx, http.MethodGet, settingsPath, nil)
	if err != nil {
		return Group{}, err
	}

	res, err := c.backend.Do(req)
	if err != nil {
		return Group{}, err
	}
	defer res.Body.Close()

	if err := backend.CheckStatusCode(res); err != nil {
		return Group{}, err
	}

	all, err := DecodeJSON(res.Body)
	if err != nil {
		return Group{}, fmt.Errorf("decoding settings: %w", err)
	}
	return all, nil
}

// Fetch returns the configuration of a single service
func (c *Client) Fetch(ctx context.Context, service string) (Group, error) {
	req, err := c.backend.NewRequest(ctx, http.MethodGet, path.Join(settingsPath, service), nil)
	if err != nil {
		return Group{}, err
	}

	res, err := c.backend.Do(req)
	if err != nil {
		return Group{}, err
	}
	defer res.Body.Close()

	if err := backend.CheckStatusCode(res); err != nil {
		return Group{}, err
	}

	tree, err := DecodeJSON(res.Body)
	if err != nil {
		return Group{}, fmt.Errorf("decoding settings of %q: %w", service, err)
	}
	return tree, nil
}

// Update stores the configuration of a service and returns the tree as
// normalized by the backend. Failures are returned as *APIError.
func (c *Client) Update(ctx context.Context, service string, tree Group) (Group, error) {
	body, err := tree.MarshalJSON()
	if err != nil {
		return Group{}, fmt.Errorf("cannot encode the settings of %q: %w", service, err)
	}

	req, err := c.backend.NewRequest(ctx, http.MethodPut, path.Join(settingsPath, service), bytes.NewReader(body))
	if err != nil {
		return Group{}, err
	}

	res, err := c.backend.Do(req)
	if err != nil {
		return Group{}, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return Group{}, parseAPIError(res)
	}

	var out updateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return Group{}, fmt.Errorf("decoding update response: %w", err)
	}
	if out.Data == nil {
		return Group{}, fmt.Errorf("the backend returned no data for %q", service)
	}
	return *out.Data, nil
}

// ValidateWorkspace checks whether a workspace schema exists. Failures are returned as *APIError.
func (c *Client) ValidateWorkspace(ctx context.Context, wr WorkspaceRequest) (WorkspaceResult, error) {
	var result WorkspaceResult
	body, err := json.Marshal(wr)
	if err != nil {
		return result, err
	}

	req, err := c.backend.NewRequest(ctx, http.MethodPost, validateWorkspacePath, bytes.NewReader(body))
	if err != nil {
		return result, err
	}

	res, err := c.backend.Do(req)
	if err != nil {
		return result, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return result, parseAPIError(res)
	}

	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return result, fmt.Errorf("decoding workspace validation: %w", err)
	}
	return result, nil
}

// Service names known to the console
const (
	ServiceGeoserver = "geoserver"
	ServiceUmap      = "umap"
	ServiceTraccar   = "traccar"
)
