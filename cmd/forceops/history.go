package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/domsleee/forceops/internal/history"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent deletion outcomes from the history database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cfg.HistoryDBPath == "" {
				return errors.New("no history database configured (set history_db_path in the config file)")
			}
			db, err := history.Open(opts.cfg.HistoryDBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			records, err := db.Recent(limit)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, r := range records {
				status := "ok"
				if r.ErrorMessage != "" {
					status = r.ErrorMessage
				}
				fmt.Fprintf(w, "%s  %-6s  %-9s  %s  %s\n",
					r.Timestamp.Format(time.RFC3339), r.Action, r.ObjectType, r.Path, status)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum records to show")
	return cmd
}
