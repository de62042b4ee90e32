package cmd

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/eizes/gis-cli/pkg/session"
	"github.com/eizes/gis-cli/pkg/tui"
)

func interactiveFunc(cmd *cobra.Command, args []string) error {
	conf, id, b, err := getBackend(cmd)
	if err != nil {
		return err
	}

	// console logs would corrupt the screen
	tuiLogger := logger
	if logFile == "" {
		tuiLogger = zerolog.Nop()
		b.WithLogger(tuiLogger)
	}

	err = tui.Run(cmd.Context(), tui.Options{
		BackendID: id,
		Backend:   b,
		Logger:    tuiLogger,
	})

	var loginErr *session.LoginRequiredError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tui.ErrLoggedOut):
		if err := conf.SetSession(configPath, id, ""); err != nil {
			return err
		}
		fmt.Printf("%sLogged out from \"%s\"\n", successString, id)
		return nil
	case errors.As(err, &loginErr):
		fmt.Printf("%sA login is required, open %s and run \"gis-cli login -b %s\"\n", failureString, loginErr.LoginURL, id)
	}
	return err
}

func makeInteractiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "interactive",
		Short:   "Launch the interactive terminal UI",
		Aliases: []string{"ui"},
		Args:    cobra.NoArgs,
		RunE:    interactiveFunc,
	}

	addBackendFlag(cmd)

	return cmd
}
