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

	"github.com/spf13/cobra"

	"github.com/eizes/gis-cli/pkg/config"
)

func backendAddFunc(cmd *cobra.Command, args []string) error {
	identifier := args[0]
	endpoint := args[1]

	token, _ := cmd.Flags().GetString("token")
	tokenStdin, _ := cmd.Flags().GetBool("token-stdin")
	if tokenStdin {
		if token != "" {
			cmd.SilenceUsage = false
			return errors.New("the \"--token\" and \"--token-stdin\" flags are mutually exclusive")
		}
		var err error
		if token, err = readSecretStdin(); err != nil {
			return err
		}
	}

	conf, err := config.ReadOrCreate(configPath)
	if err != nil {
		return err
	}

	disableSSL, _ := cmd.Flags().GetBool("disable-ssl")
	timeout, _ := cmd.Flags().GetInt("timeout")

	if err := conf.AddBackend(configPath, identifier, endpoint, token, !disableSSL, timeout); err != nil {
		return err
	}

	fmt.Printf("Backend \"%s\" successfully stored. Run \"gis-cli login -b %s\" to start a session\n", identifier, identifier)

	return nil
}

func makeBackendAddCmd() *cobra.Command {
	backendAddCmd := &cobra.Command{
		Use:     "add IDENTIFIER ENDPOINT",
		Short:   "Add a GIS management backend to gis-cli",
		Args:    cobra.ExactArgs(2),
		Aliases: []string{"a"},
		RunE:    backendAddFunc,
	}

	backendAddCmd.Flags().Bool("disable-ssl", false, "disable verification of ssl certificates for the added backend")
	backendAddCmd.Flags().StringP("token", "t", "", "bearer token used instead of a login session")
	backendAddCmd.Flags().Bool("token-stdin", false, "take the bearer token from stdin")
	backendAddCmd.Flags().Int("timeout", 0, "request timeout in seconds (default 20)")

	return backendAddCmd
}
