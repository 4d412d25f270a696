package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/domsleee/forceops/internal/locks"
	"github.com/domsleee/forceops/internal/pathutil"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list <path>",
		Aliases: []string{"locks"},
		Short:   "List the processes holding a file or directory locked",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := pathutil.AbsFromCwd(args[0])
			holders, err := locks.SystemInspector{}.Locks(path)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "ProcessId,ExecutableName,ApplicationName")
			for _, h := range holders {
				fmt.Fprintf(w, "%d,%s,%s\n", h.PID, orNull(h.Executable), orNull(h.Application))
			}
			return nil
		},
	}
}

func orNull(s string) string {
	if s == "" {
		return "<null>"
	}
	return s
}
