package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "add <toy-number>",
		Short: "Add one model to the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			record, err := svc.AddOne(args[0], quantity)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s), quantity now %d\n",
				record.ToyNumber, record.Name, record.Quantity)
			return nil
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "n", 1, "Quantity to add")
	return cmd
}

func newBulkCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk <text>",
		Short: "Add models from free text, e.g. \"2HW01 HW02 x3 HW03\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			results, err := svc.AddBulk(strings.Join(args, " "))
			if err != nil {
				return err
			}
			for _, result := range results {
				if result.Err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "skipped %s: %v\n", result.ToyNumber, result.Err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s, quantity now %d\n",
					result.Added.ToyNumber, result.Added.Quantity)
			}
			return nil
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List owned models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			rows, total, err := svc.List(filter)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "collection is empty")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderModelTable(rows, true))
			fmt.Fprintf(cmd.OutOrStdout(), "total models: %d\n", total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Substring filter over toy number or name")
	return cmd
}

func newAdjustCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "adjust <toy-number> <delta>",
		Short: "Shift an owned model's quantity (floors at 1)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("delta must be an integer: %w", err)
			}
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			newQuantity, err := svc.Adjust(args[0], delta)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s quantity now %d\n", args[0], newQuantity)
			return nil
		},
	}
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <toy-number>",
		Short: "Remove a model from the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			removed, err := svc.Delete(args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("%s is not in the collection", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the collection in the canonical CSV format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			data, err := svc.Export()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
