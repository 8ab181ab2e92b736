package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"drivequest-fleet/internal/domain"
	"drivequest-fleet/internal/utils"
)

func newVehiclesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vehicles",
		Aliases: []string{"v"},
		Short:   "Vehicle registry commands",
	}
	cmd.AddCommand(
		newVehiclesLsCmd(opts),
		newVehiclesAddCmd(opts),
		newVehiclesRmCmd(opts),
		newVehiclesInvoiceCmd(opts),
	)
	return cmd
}

func newVehiclesLsCmd(opts *rootOptions) *cobra.Command {
	var (
		longTerm bool
		query    domain.VehicleQuery
		kind     string
	)
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List vehicles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			var vehicles []domain.Vehicle
			if longTerm {
				vehicles = a.Vehicles.ListLongTerm(cmd.Context())
			} else {
				query.Type = domain.VehicleType(strings.ToUpper(kind))
				vehicles = a.Vehicles.Query(cmd.Context(), query)
			}
			return printVehicles(cmd.OutOrStdout(), vehicles)
		},
	}
	cmd.Flags().BoolVar(&longTerm, "long-term", false, "only long-term rentals")
	cmd.Flags().StringVar(&kind, "type", "", "cargo or passenger")
	cmd.Flags().IntVar(&query.Year, "year", 0, "model year")
	cmd.Flags().Float64Var(&query.MinPrice, "min-price", 0, "minimum daily price")
	cmd.Flags().Float64Var(&query.MaxPrice, "max-price", 0, "maximum daily price")
	return cmd
}

func printVehicles(out io.Writer, vehicles []domain.Vehicle) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLATE\tTYPE\tMODEL\tYEAR\tDAILY PRICE\tDAYS\tCAPACITY\tSTATUS")
	for i := range vehicles {
		v := &vehicles[i]
		status := "available"
		if !v.Available {
			status = "rented"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\t%d\t%d\t%s\n",
			v.Plate, v.Type(), v.Model, v.Year, v.DailyPrice, v.RentalDays, v.Kind.Capacity(), status)
	}
	return tw.Flush()
}

func newVehiclesAddCmd(opts *rootOptions) *cobra.Command {
	var (
		v        domain.Vehicle
		kind     string
		capacity int
	)
	cmd := &cobra.Command{
		Use:   "add PLATE",
		Short: "Register a vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, ok := domain.KindOf(domain.VehicleType(strings.ToUpper(kind)), capacity)
			if !ok {
				return fmt.Errorf("unknown vehicle type %q (cargo or passenger)", kind)
			}
			v.Plate = args[0]
			v.Kind = k

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			added, err := a.Vehicles.Add(cmd.Context(), &v)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", added.Plate)
			return nil
		},
	}
	cmd.Flags().StringVar(&v.Model, "model", "", "model name")
	cmd.Flags().IntVar(&v.Year, "year", 0, "model year")
	cmd.Flags().Float64Var(&v.DailyPrice, "price", 0, "daily price")
	cmd.Flags().IntVar(&v.RentalDays, "days", 1, "rental days")
	cmd.Flags().StringVar(&kind, "type", "", "cargo or passenger")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "load in kg (cargo) or seats (passenger)")
	for _, name := range []string{"model", "year", "price", "type", "capacity"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newVehiclesRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm PLATE",
		Short: "Remove a vehicle and its rental periods",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			removed, err := a.Fleet.RemoveVehicle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("%s: %w", args[0], domain.ErrVehicleNotFound)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", domain.NormalizePlate(args[0]))
			return nil
		},
	}
}

func newVehiclesInvoiceCmd(opts *rootOptions) *cobra.Command {
	var compare string
	cmd := &cobra.Command{
		Use:   "invoice PLATE",
		Short: "Print the invoice of a vehicle's current rental length",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			if compare != "" {
				c, err := a.Invoices.Compare(cmd.Context(), args[0], compare)
				if err != nil {
					return err
				}
				_, err = io.WriteString(cmd.OutOrStdout(), utils.ComparisonReport(*c))
				return err
			}

			summary, err := a.Invoices.Summary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if _, err := io.WriteString(cmd.OutOrStdout(), summary); err != nil {
				return err
			}
			avg, err := a.Invoices.AverageDailyCost(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Average daily cost: $%.2f\n", avg)
			return err
		},
	}
	cmd.Flags().StringVar(&compare, "compare", "", "compare against another plate")
	return cmd
}
