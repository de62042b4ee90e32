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
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/eizes/gis-cli/pkg/backend"
	"github.com/eizes/gis-cli/pkg/session"
)

func loginFunc(cmd *cobra.Command, args []string) error {
	conf, id, b, err := getBackend(cmd)
	if err != nil {
		return err
	}

	loginURL, err := b.LoginURL()
	if err != nil {
		return err
	}

	sessionStdin, _ := cmd.Flags().GetBool("session-stdin")
	var sessionID string
	if sessionStdin {
		if sessionID, err = readSecretStdin(); err != nil {
			return err
		}
	} else {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("no terminal available, pass the session with \"--session-stdin\"")
		}
		fmt.Printf("Open the following URL in your browser and sign in:\n\n  %s\n\n", loginURL)
		fmt.Printf("Then copy the value of the \"%s\" cookie and paste it here.\n", backend.SessionCookie)
		fmt.Print("Session: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return err
		}
		sessionID = strings.TrimSpace(string(raw))
		if sessionID == "" {
			return errors.New("empty session")
		}
	}

	// a stored token would be sent instead of the pasted cookie
	b.SessionID = sessionID
	b.Token = ""
	s, err := session.NewGuard(b).Check(cmd.Context())
	if err != nil {
		if session.IsLoginRequired(err) {
			return fmt.Errorf("the backend \"%s\" rejected the session, sign in again at %s", id, loginURL)
		}
		return err
	}

	if err := conf.SetSession(configPath, id, sessionID); err != nil {
		return err
	}
	logger.Info().Str("backend", id).Str("user", s.Username).Msg("session stored")

	fmt.Printf("%sLogged in to \"%s\" as %s (%s)\n", successString, id, s.Username, s.Email)

	return nil
}

func makeLoginCmd() *cobra.Command {
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session in a backend",
		Long: `Start a session in a backend.

Sign in through the backend login page in a browser and paste the value of
the session cookie. The session is checked and stored in the config file.`,
		Args: cobra.NoArgs,
		RunE: loginFunc,
	}

	addBackendFlag(loginCmd)
	loginCmd.Flags().Bool("session-stdin", false, "take the session cookie value from stdin")

	return loginCmd
}
