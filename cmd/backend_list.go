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
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/eizes/gis-cli/pkg/backend"
	"github.com/eizes/gis-cli/pkg/config"
)

func backendListFunc(cmd *cobra.Command, args []string) error {
	conf, err := config.ReadConfig(configPath)
	if err != nil {
		return err
	}

	if len(conf.Backends) == 0 {
		fmt.Println("There are no defined backends in the config file")
		return nil
	}

	bold := color.New(color.Bold)
	for _, id := range conf.BackendIDs() {
		b := conf.Backends[id]
		session := sessionMarker(b)
		if id == conf.Default {
			bold.Printf("%s (%s)%s (Default)\n", id, b.Endpoint, session)
		} else {
			fmt.Printf("%s (%s)%s\n", id, b.Endpoint, session)
		}
	}

	return nil
}

// sessionMarker flags backends without stored credentials
func sessionMarker(b *backend.Backend) string {
	if b.SessionID == "" && b.Token == "" {
		return " (logged out)"
	}
	return ""
}

func makeBackendListCmd() *cobra.Command {
	backendListCmd := &cobra.Command{
		Use:     "list",
		Short:   "List the configured backends",
		Args:    cobra.NoArgs,
		Aliases: []string{"ls"},
		RunE:    backendListFunc,
	}

	return backendListCmd
}
