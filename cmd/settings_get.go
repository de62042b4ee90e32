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

	"github.com/spf13/cobra"

	"github.com/eizes/gis-cli/pkg/settings"
)

func settingsGetFunc(cmd *cobra.Command, args []string) error {
	_, id, b, err := getBackend(cmd)
	if err != nil {
		return err
	}

	showSecrets, _ := cmd.Flags().GetBool("show-secrets")
	output, _ := cmd.Flags().GetString("output")
	client := settings.NewClient(b)

	var tree settings.Group
	if len(args) == 1 {
		service := args[0]
		if tree, err = client.Fetch(cmd.Context(), service); err != nil {
			return loginHint(id, err)
		}
		if !showSecrets {
			tree = maskSecrets(service, tree)
		}
	} else {
		all, err := client.FetchAll(cmd.Context())
		if err != nil {
			return loginHint(id, err)
		}
		for _, e := range all.Entries() {
			if sub, ok := e.Value.(settings.Group); ok && !showSecrets {
				e.Value = maskSecrets(e.Key, sub)
			}
			tree = tree.With(e.Key, e.Value)
		}
	}

	out, err := encodeTree(tree, output)
	if err != nil {
		return err
	}
	fmt.Print(string(out))

	return nil
}

func makeSettingsGetCmd() *cobra.Command {
	settingsGetCmd := &cobra.Command{
		Use:     "get [SERVICE]",
		Short:   "Show the settings of every service or of a single one",
		Args:    cobra.MaximumNArgs(1),
		Aliases: []string{"g"},
		RunE:    settingsGetFunc,
	}

	addBackendFlag(settingsGetCmd)
	settingsGetCmd.Flags().StringP("output", "o", "yaml", "output format (yaml or json)")
	settingsGetCmd.Flags().Bool("show-secrets", false, "print passwords and tokens in clear text")

	return settingsGetCmd
}
