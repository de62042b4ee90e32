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

package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/eizes/gis-cli/pkg/backend"
)

const mapsPath = "/umap/maps"

// ErrNotImplemented is returned by the push to map server placeholder
var ErrNotImplemented = errors.New("saving maps to GeoServer is not implemented yet")

// Map is a collaborative map owned by the current user
type Map struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ShareStatus  string `json:"share_status"`
	FeatureCount int    `json:"feature_count"`
	ModifiedAt   string `json:"modified_at,omitempty"`
	ViewURL      string `json:"view_url"`
}

type listResponse struct {
	Maps []Map `json:"maps"`
}

// Publisher pushes a map downstream to the map server. The backend
// contract is not settled yet.
type Publisher interface {
	SaveToGeoserver(ctx context.Context, id int) error
}

// Client lists the user's maps
type Client struct {
	backend *backend.Backend
}

// NewClient returns a maps client bound to a backend
func NewClient(b *backend.Backend) *Client {
	return &Client{backend: b}
}

// List returns the maps of the current user
func (c *Client) List(ctx context.Context) ([]Map, error) {
	req, err := c.backend.NewRequest(ctx, http.MethodGet, mapsPath, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.backend.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if err := backend.CheckStatusCode(res); err != nil {
		return nil, err
	}

	var out listResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding maps: %w", err)
	}
	if out.Maps == nil {
		out.Maps = []Map{}
	}
	return out.Maps, nil
}

// SaveToGeoserver is a placeholder that always fails with ErrNotImplemented
// and never contacts the backend.
func (c *Client) SaveToGeoserver(_ context.Context, id int) error {
	return fmt.Errorf("map %d: %w", id, ErrNotImplemented)
}
