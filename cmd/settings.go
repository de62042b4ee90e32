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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eizes/gis-cli/pkg/backend"
	"github.com/eizes/gis-cli/pkg/form"
	"github.com/eizes/gis-cli/pkg/panel"
	"github.com/eizes/gis-cli/pkg/settings"
)

func settingsFunc(cmd *cobra.Command, args []string) {
	cmd.Help()
}

func makeSettingsCmd() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:     "settings",
		Short:   "Show and edit the settings of the GIS services",
		Args:    cobra.NoArgs,
		Aliases: []string{"s"},
		Run:     settingsFunc,
	}

	settingsCmd.AddCommand(makeSettingsGetCmd())
	settingsCmd.AddCommand(makeSettingsSetCmd())
	settingsCmd.AddCommand(makeSettingsApplyCmd())
	settingsCmd.AddCommand(makeSettingsValidateCmd())

	return settingsCmd
}

// loginHint points the user to the login command when the session was rejected
func loginHint(id string, err error) error {
	if errors.Is(err, backend.ErrUnauthorized) {
		return fmt.Errorf("%w, run \"gis-cli login -b %s\"", err, id)
	}
	return err
}

// maskSecrets hides the password and token fields of a service tree
func maskSecrets(service string, tree settings.Group) settings.Group {
	return maskGroup(service, nil, tree)
}

func maskGroup(service string, parent settings.Path, g settings.Group) settings.Group {
	entries := g.Entries()
	for i, e := range entries {
		p := parent.Append(e.Key)
		switch v := e.Value.(type) {
		case settings.Group:
			entries[i].Value = maskGroup(service, p, v)
		case settings.Scalar:
			if form.Classify(service, p).Kind.Secret() {
				entries[i].Value = settings.Scalar(form.Mask(string(v)))
			}
		}
	}
	return settings.NewGroup(entries...)
}

func encodeTree(tree settings.Group, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml", "":
		return settings.EncodeYAML(tree)
	case "json":
		raw, err := tree.MarshalJSON()
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q, use yaml or json", format)
	}
}

// saveFailure builds the command error of a failed panel save
func saveFailure(p *panel.Panel, err error) error {
	fieldErrors := p.Errors()
	if len(fieldErrors) == 0 {
		return errors.New(p.Banner())
	}
	keys := make([]string, 0, len(fieldErrors))
	for k := range fieldErrors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := []string{strings.ToLower(p.Banner())}
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %s: %s", k, fieldErrors[k]))
	}
	return errors.New(strings.Join(lines, "\n"))
}
