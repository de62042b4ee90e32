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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eizes/gis-cli/pkg/settings"
)

// readTreeFile reads a configuration tree from a YAML or JSON file
func readTreeFile(name string) (settings.Group, error) {
	content, err := os.ReadFile(name)
	if err != nil {
		return settings.Group{}, err
	}
	switch filepath.Ext(name) {
	case ".json":
		var g settings.Group
		if err := g.UnmarshalJSON(content); err != nil {
			return settings.Group{}, fmt.Errorf("%s: %w", name, err)
		}
		return g, nil
	default:
		g, err := settings.DecodeYAML(content)
		if err != nil {
			return settings.Group{}, fmt.Errorf("%s: %w", name, err)
		}
		return g, nil
	}
}

func settingsApplyFunc(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	tree, err := readTreeFile(file)
	if err != nil {
		return err
	}

	var edits []fieldEdit
	settings.Walk(tree, func(p settings.Path, v settings.Value) {
		if s, ok := v.(settings.Scalar); ok {
			edits = append(edits, fieldEdit{path: p, value: string(s)})
		}
	})
	if len(edits) == 0 {
		return fmt.Errorf("the file %s has no settings", file)
	}

	_, id, b, err := getBackend(cmd)
	if err != nil {
		return err
	}

	return editAndSave(cmd, id, b, args[0], edits)
}

func makeSettingsApplyCmd() *cobra.Command {
	settingsApplyCmd := &cobra.Command{
		Use:   "apply SERVICE -f FILE",
		Short: "Merge the settings of a YAML or JSON file into a service",
		Args:  cobra.ExactArgs(1),
		RunE:  settingsApplyFunc,
	}

	addBackendFlag(settingsApplyCmd)
	settingsApplyCmd.Flags().StringP("file", "f", "", "YAML or JSON file with the settings to apply")
	settingsApplyCmd.Flags().Bool("validate-workspace", false, "check that the workspace exists before saving (geoserver)")
	settingsApplyCmd.MarkFlagRequired("file")

	return settingsApplyCmd
}
