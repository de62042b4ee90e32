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

	"github.com/spf13/cobra"

	"github.com/eizes/gis-cli/pkg/panel"
	"github.com/eizes/gis-cli/pkg/settings"
	"github.com/eizes/gis-cli/pkg/workspace"
)

func settingsValidateFunc(cmd *cobra.Command, args []string) error {
	_, id, b, err := getBackend(cmd)
	if err != nil {
		return err
	}

	client := settings.NewClient(b)
	tree, err := client.Fetch(cmd.Context(), settings.ServiceGeoserver)
	if err != nil {
		return loginHint(id, err)
	}

	p := panel.New(settings.ServiceGeoserver, tree)
	if err := p.Edit(); err != nil {
		return err
	}
	if ws, _ := cmd.Flags().GetString("workspace"); ws != "" {
		if err := p.SetField(panel.WorkspacePath, ws); err != nil {
			return err
		}
	}

	var validator panel.WorkspaceValidator = client
	if direct, _ := cmd.Flags().GetBool("direct"); direct {
		validator = workspace.NewChecker(logger)
	}

	if err := validateInPanel(cmd, p, validator); err != nil {
		return err
	}
	if msg, failed := p.Errors()[panel.WorkspacePath.Key()]; failed {
		return errors.New(msg)
	}
	return nil
}

func makeSettingsValidateCmd() *cobra.Command {
	settingsValidateCmd := &cobra.Command{
		Use:     "validate-workspace",
		Short:   "Check that the GeoServer workspace exists in its database",
		Args:    cobra.NoArgs,
		Aliases: []string{"validate"},
		RunE:    settingsValidateFunc,
	}

	addBackendFlag(settingsValidateCmd)
	settingsValidateCmd.Flags().StringP("workspace", "w", "", "validate this workspace instead of the stored one")
	settingsValidateCmd.Flags().Bool("direct", false, "connect to the PostGIS database directly instead of asking the backend")

	return settingsValidateCmd
}
