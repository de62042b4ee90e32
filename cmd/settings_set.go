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
	"strings"

	"github.com/spf13/cobra"

	"github.com/eizes/gis-cli/pkg/backend"
	"github.com/eizes/gis-cli/pkg/panel"
	"github.com/eizes/gis-cli/pkg/settings"
)

type fieldEdit struct {
	path  settings.Path
	value string
}

func parseEdits(args []string) ([]fieldEdit, error) {
	edits := make([]fieldEdit, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		path := settings.ParsePath(key)
		if !ok || len(path) == 0 {
			return nil, fmt.Errorf("invalid assignment %q, use PATH=VALUE (e.g. database.host=db)", arg)
		}
		edits = append(edits, fieldEdit{path: path, value: value})
	}
	return edits, nil
}

// editAndSave loads a service into a panel, applies the edits and saves it
func editAndSave(cmd *cobra.Command, id string, b *backend.Backend, service string, edits []fieldEdit) error {
	client := settings.NewClient(b)

	tree, err := client.Fetch(cmd.Context(), service)
	if err != nil {
		return loginHint(id, err)
	}

	p := panel.New(service, tree)
	if err := p.Edit(); err != nil {
		return err
	}
	for _, e := range edits {
		if err := p.SetField(e.path, e.value); err != nil {
			return fmt.Errorf("%s: %w", e.path, err)
		}
	}

	validate, _ := cmd.Flags().GetBool("validate-workspace")
	if validate {
		if err := validateInPanel(cmd, p, client); err != nil {
			return err
		}
	}

	if settings.Equal(p.Buffer(), tree) {
		fmt.Printf("No changes in \"%s\"\n", service)
		return nil
	}

	s := startSpinner(fmt.Sprintf(" Saving the settings of \"%s\"", service))
	err = p.Save(cmd.Context(), client)
	stopSpinner(s, err)
	if err != nil {
		logger.Debug().Err(err).Str("service", service).Msg("save failed")
		var apiErr *settings.APIError
		if !errors.As(err, &apiErr) {
			return loginHint(id, err)
		}
		return saveFailure(p, err)
	}

	logger.Info().Str("service", service).Int("fields", len(edits)).Msg("settings saved")
	return nil
}

// validateInPanel runs the workspace check of a panel and prints its outcome
func validateInPanel(cmd *cobra.Command, p *panel.Panel, v panel.WorkspaceValidator) error {
	s := startSpinner(" Validating the workspace")
	res, err := p.ValidateWorkspace(cmd.Context(), v)
	if err != nil {
		stopSpinner(s, err)
		return err
	}
	if !res.Exists {
		stopSpinner(s, errors.New(res.Message))
		fmt.Printf("%s%s\n", failureString, res.Message)
		return nil
	}
	stopSpinner(s, nil)
	fmt.Printf("%s%s\n", successString, res.Message)
	return nil
}

func settingsSetFunc(cmd *cobra.Command, args []string) error {
	edits, err := parseEdits(args[1:])
	if err != nil {
		cmd.SilenceUsage = false
		return err
	}

	_, id, b, err := getBackend(cmd)
	if err != nil {
		return err
	}

	return editAndSave(cmd, id, b, args[0], edits)
}

func makeSettingsSetCmd() *cobra.Command {
	settingsSetCmd := &cobra.Command{
		Use:   "set SERVICE PATH=VALUE...",
		Short: "Change settings of a service",
		Example: `  gis-cli settings set geoserver database.host=db database.port=5432
  gis-cli settings set traccar auth.token=abc123`,
		Args: cobra.MinimumNArgs(2),
		RunE: settingsSetFunc,
	}

	addBackendFlag(settingsSetCmd)
	settingsSetCmd.Flags().Bool("validate-workspace", false, "check that the workspace exists before saving (geoserver)")

	return settingsSetCmd
}
