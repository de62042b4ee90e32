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

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/eizes/gis-cli/pkg/backend"
	"github.com/eizes/gis-cli/pkg/config"
	"github.com/eizes/gis-cli/pkg/logging"
)

var (
	failureString = color.New(color.FgRed).Sprint("✗ ")
	successString = color.New(color.FgGreen).Sprint("✓ ")
)

func addBackendFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("backend", "b", "", "set the backend (defaults to the default backend)")
}

// getBackend reads the config file and resolves the backend selected by the --backend flag
func getBackend(cmd *cobra.Command) (*config.Config, string, *backend.Backend, error) {
	conf, err := config.ReadConfig(configPath)
	if err != nil {
		return nil, "", nil, err
	}

	if logLevel == "" && conf.LogLevel != "" {
		logger = logger.Level(logging.ParseLevel(conf.LogLevel))
	}

	id, _ := cmd.Flags().GetString("backend")
	id, b, err := conf.GetBackend(id)
	if err != nil {
		cmd.SilenceUsage = false
		return nil, "", nil, err
	}

	b.WithLogger(logger.With().Str("backend", id).Logger())
	return conf, id, b, nil
}

// startSpinner shows msg while a request is in flight
func startSpinner(msg string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[78], time.Millisecond*100)
	s.Suffix = msg
	s.FinalMSG = fmt.Sprintf("%s%s\n", successString, msg)
	s.Writer = os.Stderr
	s.Start()
	return s
}

// stopSpinner ends s marking the operation as failed when err is set
func stopSpinner(s *spinner.Spinner, err error) {
	if err != nil {
		s.FinalMSG = fmt.Sprintf("%s%s\n", failureString, s.Suffix)
	}
	s.Stop()
}

func readSecretStdin() (string, error) {
	bytes, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	secret := strings.TrimSpace(string(bytes))
	if secret == "" {
		return "", errors.New("no value received from stdin")
	}
	return secret, nil
}
