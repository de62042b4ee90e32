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
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eizes/gis-cli/pkg/maps"
)

func mapsFunc(cmd *cobra.Command, args []string) {
	cmd.Help()
}

func makeMapsCmd() *cobra.Command {
	mapsCmd := &cobra.Command{
		Use:     "maps",
		Short:   "Show the maps of the current user",
		Args:    cobra.NoArgs,
		Aliases: []string{"m"},
		Run:     mapsFunc,
	}

	mapsCmd.AddCommand(makeMapsListCmd())
	mapsCmd.AddCommand(makeMapsPushCmd())

	return mapsCmd
}

func mapsListFunc(cmd *cobra.Command, args []string) error {
	_, id, b, err := getBackend(cmd)
	if err != nil {
		return err
	}

	list, err := maps.NewClient(b).List(cmd.Context())
	if err != nil {
		view := maps.Diagnose(err)
		fmt.Fprintf(os.Stderr, "%s%s\n", failureString, view.Message)
		for _, s := range view.Suggestions {
			fmt.Fprintf(os.Stderr, "  - %s\n", s)
		}
		return loginHint(id, err)
	}

	if output, _ := cmd.Flags().GetString("output"); output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	if len(list) == 0 {
		fmt.Println(maps.EmptyMessage)
		return nil
	}

	w := new(tabwriter.Writer)
	w.Init(os.Stdout, 0, 8, 2, '\t', 0)
	fmt.Fprintln(w, "ID\tNAME\tSHARING\tFEATURES\tMODIFIED\tURL")
	for _, c := range maps.Cards(list, maps.Locale()) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", strconv.Itoa(c.ID), c.Title, c.Share, c.Features, c.Modified, c.URL)
	}
	w.Flush()

	return nil
}

func makeMapsListCmd() *cobra.Command {
	mapsListCmd := &cobra.Command{
		Use:     "list",
		Short:   "List the maps of the current user",
		Args:    cobra.NoArgs,
		Aliases: []string{"ls"},
		RunE:    mapsListFunc,
	}

	addBackendFlag(mapsListCmd)
	mapsListCmd.Flags().StringP("output", "o", "table", "output format (table or json)")

	return mapsListCmd
}

func mapsPushFunc(cmd *cobra.Command, args []string) error {
	mapID, err := strconv.Atoi(args[0])
	if err != nil {
		cmd.SilenceUsage = false
		return fmt.Errorf("invalid map id %q", args[0])
	}

	_, _, b, err := getBackend(cmd)
	if err != nil {
		return err
	}

	var publisher maps.Publisher = maps.NewClient(b)
	return publisher.SaveToGeoserver(cmd.Context(), mapID)
}

func makeMapsPushCmd() *cobra.Command {
	mapsPushCmd := &cobra.Command{
		Use:   "push MAP_ID",
		Short: "Save a map to GeoServer (not available yet)",
		Args:  cobra.ExactArgs(1),
		RunE:  mapsPushFunc,
	}

	addBackendFlag(mapsPushCmd)

	return mapsPushCmd
}
