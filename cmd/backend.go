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
	"github.com/spf13/cobra"
)

func backendFunc(cmd *cobra.Command, args []string) {
	cmd.Help()
}

func makeBackendCmd() *cobra.Command {
	backendCmd := &cobra.Command{
		Use:     "backend",
		Short:   "Manages the configuration of GIS management backends",
		Args:    cobra.NoArgs,
		Aliases: []string{"b"},
		Run:     backendFunc,
	}

	backendCmd.AddCommand(makeBackendAddCmd())
	backendCmd.AddCommand(makeBackendRemoveCmd())
	backendCmd.AddCommand(makeBackendInfoCmd())
	backendCmd.AddCommand(makeBackendListCmd())
	backendCmd.AddCommand(makeBackendDefaultCmd())

	return backendCmd
}
