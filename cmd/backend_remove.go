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
	"strings"

	"github.com/spf13/cobra"

	"github.com/eizes/gis-cli/pkg/config"
)

func backendRemoveFunc(cmd *cobra.Command, args []string) error {
	conf, err := config.ReadConfig(configPath)
	if err != nil {
		return err
	}

	id := args[0]
	wasDefault := conf.Default == id
	var hadSession bool
	if b, ok := conf.Backends[id]; ok {
		hadSession = sessionMarker(b) == ""
	}

	if err := conf.RemoveBackend(configPath, id); err != nil {
		return err
	}

	fmt.Printf("Backend \"%s\" removed from the config file\n", id)
	if hadSession {
		fmt.Println("Its stored session was discarded without logging out")
	}
	if wasDefault && len(conf.Backends) > 0 {
		fmt.Printf("There is no default backend now, choose one of %s with \"gis-cli backend default --set\"\n", strings.Join(conf.BackendIDs(), ", "))
	}

	return nil
}

func makeBackendRemoveCmd() *cobra.Command {
	backendRemoveCmd := &cobra.Command{
		Use:     "remove IDENTIFIER",
		Short:   "Remove a backend from the configuration file",
		Args:    cobra.ExactArgs(1),
		Aliases: []string{"rm", "delete"},
		RunE:    backendRemoveFunc,
	}

	return backendRemoveCmd
}
