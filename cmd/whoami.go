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
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/eizes/gis-cli/pkg/session"
)

func whoamiFunc(cmd *cobra.Command, args []string) error {
	_, id, b, err := getBackend(cmd)
	if err != nil {
		return err
	}

	s, err := session.NewGuard(b).Check(cmd.Context())
	if err != nil {
		if session.IsLoginRequired(err) {
			return fmt.Errorf("not logged in to \"%s\", run \"gis-cli login -b %s\": %w", id, id, err)
		}
		return err
	}

	bold := color.New(color.Bold)
	bold.Println(s.Username)
	if s.Name != "" {
		fmt.Printf("Name: %s\n", s.Name)
	}
	fmt.Printf("Email: %s\n", s.Email)
	fmt.Printf("Backend: %s (%s)\n", id, b.Endpoint)
	if exp, ok := b.TokenExpiry(); ok {
		fmt.Printf("Token expires: %s\n", exp.Local().Format(time.RFC1123))
	}

	return nil
}

func makeWhoamiCmd() *cobra.Command {
	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the user of the current session",
		Args:  cobra.NoArgs,
		RunE:  whoamiFunc,
	}

	addBackendFlag(whoamiCmd)

	return whoamiCmd
}
