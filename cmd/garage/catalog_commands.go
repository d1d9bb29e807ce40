package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <toy-number>",
		Short: "Show the master catalog entry for a toy number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			record, err := svc.LookupInfo(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s, %s)\n",
				record.ToyNumber, record.Name, record.Series, record.Year)
			if record.ImageURL != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "image: %s\n", record.ImageURL)
			}
			return nil
		},
	}
}

func newMissingCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "missing",
		Short: "List catalog entries not yet in the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			rows, err := svc.Missing()
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "collection is complete")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderModelTable(rows, false))
			return nil
		},
	}
}

func newProgressCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show per-series completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			groups, err := svc.Progress()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderProgressTable(groups))
			return nil
		},
	}
}

func newReloadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reload <master|collection>",
		Short: "Discard a store's cached snapshot and re-read the file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			if err := svc.ForceReload(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reloaded %s store\n", args[0])
			return nil
		},
	}
}
