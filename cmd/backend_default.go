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

	"github.com/eizes/gis-cli/pkg/config"
)

func backendDefaultFunc(cmd *cobra.Command, args []string) error {
	conf, err := config.ReadConfig(configPath)
	if err != nil {
		return err
	}

	set, _ := cmd.Flags().GetString("set")
	if set == "" {
		b, ok := conf.Backends[conf.Default]
		if !ok {
			fmt.Println("There is no default backend, please set it with the \"--set\" flag")
			return nil
		}
		fmt.Printf("%s (%s)%s\n", conf.Default, b.Endpoint, sessionMarker(b))
		return nil
	}

	if err := conf.SetDefault(configPath, set); err != nil {
		return err
	}

	fmt.Printf("The backend \"%s\" has been set as default successfully\n", set)
	if sessionMarker(conf.Backends[set]) != "" {
		fmt.Printf("There is no session for \"%s\" yet. Run \"gis-cli login -b %s\"\n", set, set)
	}

	return nil
}

func makeBackendDefaultCmd() *cobra.Command {
	backendDefaultCmd := &cobra.Command{
		Use:     "default",
		Short:   "Show or set the default backend",
		Args:    cobra.NoArgs,
		Aliases: []string{"d"},
		RunE:    backendDefaultFunc,
	}

	backendDefaultCmd.Flags().String("set", "", "set a default backend by passing its IDENTIFIER")

	return backendDefaultCmd
}
