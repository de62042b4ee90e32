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

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path"
	"path/filepath"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/eizes/gis-cli/pkg/backend"
)

const defaultConfig = ".gis-cli/config.yaml"

var (
	errNoConfigFile       = errors.New("the configuration file doesn't exists. Please provide a valid one or create it with \"gis-cli backend add\"")
	errParsingConfigFile  = errors.New("the configuration file provided is not valid. Please provide a valid one or create it with \"gis-cli backend add\"")
	errCreatingConfigFile = errors.New("error creating the config file. Please check the path is correct and you have the appropriate permissions")
	errNoDefaultBackend   = errors.New("there is no default backend, set one with \"gis-cli backend default\" or use --backend")
	backendNotDefinedMsg  = "the backend \"%s\" doesn't exist"
)

// Config stores the configuration of gis-cli
type Config struct {
	Backends map[string]*backend.Backend `json:"backends"`
	Default  string                      `json:"default,omitempty"`
	LogLevel string                      `json:"log_level,omitempty"`
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (defaultConfigPath string, err error) {
	user, err := user.Current()
	if err != nil {
		return "", err
	}
	return path.Join(user.HomeDir, defaultConfig), nil
}

// ReadConfig reads the configuration file
func ReadConfig(configPath string) (config *Config, err error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errNoConfigFile
	}

	config = &Config{}
	if isYAML(configPath) {
		if err = yaml.Unmarshal(content, config); err != nil {
			return nil, errParsingConfigFile
		}
	} else {
		// Default JSON
		if err = json.Unmarshal(content, config); err != nil {
			return nil, errParsingConfigFile
		}
	}
	if config.Backends == nil {
		config.Backends = map[string]*backend.Backend{}
	}

	return config, nil
}

// ReadOrCreate reads the configuration file or returns an empty configuration if it doesn't exist
func ReadOrCreate(configPath string) (*Config, error) {
	conf, err := ReadConfig(configPath)
	if err == errNoConfigFile {
		return &Config{Backends: map[string]*backend.Backend{}}, nil
	}
	return conf, err
}

func isYAML(configPath string) bool {
	ext := filepath.Ext(configPath)
	return ext == ".yaml" || ext == ".yml"
}

func (config *Config) writeConfig(configPath string) (err error) {
	var content []byte
	if isYAML(configPath) {
		content, err = yaml.Marshal(config)
	} else {
		content, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return err
	}

	// Create the config path (if required) and write the config file
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return errCreatingConfigFile
	}
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		return errCreatingConfigFile
	}

	return nil
}

// AddBackend adds (or overwrites) a backend. The first backend becomes the default.
func (config *Config) AddBackend(configPath, id, endpoint, token string, sslVerify bool, timeout int) error {
	if config.Backends == nil {
		config.Backends = map[string]*backend.Backend{}
	}
	config.Backends[id] = &backend.Backend{
		Endpoint:  endpoint,
		Token:     token,
		SSLVerify: sslVerify,
		Timeout:   timeout,
	}

	if len(config.Backends) == 1 {
		config.Default = id
	}

	return config.writeConfig(configPath)
}

// RemoveBackend removes a backend from the config
func (config *Config) RemoveBackend(configPath, id string) error {
	if err := config.CheckBackend(id); err != nil {
		return err
	}

	delete(config.Backends, id)
	if config.Default == id {
		config.Default = ""
	}

	return config.writeConfig(configPath)
}

// CheckBackend checks if a backend exists and return error if not
func (config *Config) CheckBackend(id string) error {
	if _, exists := config.Backends[id]; !exists {
		return fmt.Errorf(backendNotDefinedMsg, id)
	}
	return nil
}

// GetBackend resolves a backend by id, falling back to the default one when id is empty
func (config *Config) GetBackend(id string) (string, *backend.Backend, error) {
	if id == "" {
		if config.Default == "" {
			return "", nil, errNoDefaultBackend
		}
		id = config.Default
	}
	if err := config.CheckBackend(id); err != nil {
		return "", nil, err
	}
	return id, config.Backends[id], nil
}

// SetDefault set a default backend in the config file
func (config *Config) SetDefault(configPath, id string) error {
	if err := config.CheckBackend(id); err != nil {
		return err
	}
	config.Default = id
	return config.writeConfig(configPath)
}

// SetSession stores the session of a backend and drops its token, which
// would otherwise take precedence. An empty session logs the backend out.
func (config *Config) SetSession(configPath, id, sessionID string) error {
	if err := config.CheckBackend(id); err != nil {
		return err
	}
	config.Backends[id].SessionID = sessionID
	config.Backends[id].Token = ""
	return config.writeConfig(configPath)
}

// BackendIDs returns the configured backends sorted by id
func (config *Config) BackendIDs() []string {
	ids := make([]string, 0, len(config.Backends))
	for id := range config.Backends {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
