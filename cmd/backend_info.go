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

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/eizes/gis-cli/pkg/session"
)

type backendInfo struct {
	ID       string `json:"id"`
	Endpoint string `json:"endpoint"`
	Status   string `json:"status"`
	Time     string `json:"timestamp,omitempty"`
	Session  string `json:"session"`
	User     string `json:"user,omitempty"`
	Expires  string `json:"token_expires,omitempty"`
}

func backendInfoFunc(cmd *cobra.Command, args []string) error {
	_, id, b, err := getBackend(cmd)
	if err != nil {
		return err
	}

	health, err := b.GetHealth(cmd.Context())
	if err != nil {
		return err
	}

	info := backendInfo{
		ID:       id,
		Endpoint: b.Endpoint,
		Status:   health.Status,
		Time:     health.Timestamp,
		Session:  "none",
	}
	if exp, ok := b.TokenExpiry(); ok {
		info.Expires = exp.Format(time.RFC3339)
	}

	if b.SessionID != "" || b.Token != "" {
		s, err := session.NewGuard(b).Check(cmd.Context())
		switch {
		case err == nil:
			info.Session = "valid"
			info.User = s.Username
		case session.IsLoginRequired(err):
			info.Session = "expired"
		default:
			info.Session = fmt.Sprintf("unknown (%v)", err)
		}
	}

	out, err := yaml.Marshal(info)
	if err != nil {
		return err
	}
	fmt.Print(string(out))

	return nil
}

func makeBackendInfoCmd() *cobra.Command {
	backendInfoCmd := &cobra.Command{
		Use:     "info",
		Short:   "Show the health of a backend and the state of its session",
		Args:    cobra.NoArgs,
		Aliases: []string{"i", "status"},
		RunE:    backendInfoFunc,
	}

	addBackendFlag(backendInfoCmd)

	return backendInfoCmd
}
