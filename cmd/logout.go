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

	"github.com/eizes/gis-cli/pkg/session"
)

func logoutFunc(cmd *cobra.Command, args []string) error {
	conf, id, b, err := getBackend(cmd)
	if err != nil {
		return err
	}

	if b.SessionID != "" {
		// best effort, the local session is dropped anyway
		if err := session.NewGuard(b).Logout(cmd.Context()); err != nil {
			logger.Warn().Err(err).Str("backend", id).Msg("logout request failed")
		}
	}

	if err := conf.SetSession(configPath, id, ""); err != nil {
		return err
	}

	fmt.Printf("%sLogged out from \"%s\"\n", successString, id)

	return nil
}

func makeLogoutCmd() *cobra.Command {
	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "End the session of a backend",
		Args:  cobra.NoArgs,
		RunE:  logoutFunc,
	}

	addBackendFlag(logoutCmd)

	return logoutCmd
}
