package main

import (
	"fmt"
	"runtime"

	"github.com/spetersoncode/shades/cmd/shades/ui"
	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), ui.KeyValues("",
				ui.KV("version", version),
				ui.KV("go", runtime.Version()),
				ui.KV("platform", runtime.GOOS+"/"+runtime.GOARCH),
			))
			return nil
		},
	}
}
