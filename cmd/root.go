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
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/eizes/gis-cli/pkg/config"
	"github.com/eizes/gis-cli/pkg/logging"
)

var (
	configPath        string
	defaultConfigPath string
	logLevel          string
	logFile           string
	logger            = zerolog.Nop()
	logCloser         io.Closer
	rootCmd           *cobra.Command
)

func newRootCommand() *cobra.Command {
	resetPersistentState()

	cmd := &cobra.Command{
		Use:     "gis-cli",
		Short:   "A CLI tool to manage the settings of a GIS platform",
		Args:    cobra.NoArgs,
		Aliases: []string{"gis"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Only display usage with args related errors
			cmd.SilenceUsage = true
			return setupLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				logCloser.Close()
				logCloser = nil
			}
		},
		Run: runFunc,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "set the location of the config file (YAML or JSON)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "set the log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs as JSON lines to this file instead of stderr")

	cmd.AddCommand(makeVersionCmd())
	cmd.AddCommand(makeBackendCmd())
	cmd.AddCommand(makeLoginCmd())
	cmd.AddCommand(makeLogoutCmd())
	cmd.AddCommand(makeWhoamiCmd())
	cmd.AddCommand(makeSettingsCmd())
	cmd.AddCommand(makeMapsCmd())
	cmd.AddCommand(makeInteractiveCmd())

	return cmd
}

func runFunc(cmd *cobra.Command, args []string) {
	cmd.Help()
}

// setupLogger builds the command logger from the flags. The level set in
// the config file is applied later, once the file is read.
func setupLogger() error {
	level := logLevel
	if level == "" {
		level = logging.DefaultLevel
	}
	l, closer, err := logging.Open(level, logFile)
	if err != nil {
		return err
	}
	logger = l
	logCloser = closer
	return nil
}

// Execute function to launch the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Set default config path
	var err error
	defaultConfigPath, err = config.GetDefaultConfigPath()
	if err != nil {
		os.Exit(1)
	}

	rootCmd = newRootCommand()
}

// NewRootCommand construct a fresh root command instance.
func NewRootCommand() *cobra.Command {
	return newRootCommand()
}

func resetPersistentState() {
	configPath = defaultConfigPath
	logLevel = ""
	logFile = ""
	logger = zerolog.Nop()
}
