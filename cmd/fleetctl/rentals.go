package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"drivequest-fleet/internal/domain"
)

// errUnavailable reports a booking operation the calendar refused.
var errUnavailable = errors.New("not available for the requested dates")

func newRentCmd(opts *rootOptions) *cobra.Command {
	var start, end, until, from string
	var days int
	cmd := &cobra.Command{
		Use:   "rent PLATE",
		Short: "Book a vehicle (--start/--end, --until, or --from/--days)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			ctx, plate := cmd.Context(), args[0]
			var ok bool
			switch {
			case start != "" && end != "":
				s, err := parseDateArg("start", start)
				if err != nil {
					return err
				}
				e, err := parseDateArg("end", end)
				if err != nil {
					return err
				}
				ok, err = a.Fleet.RentVehicle(ctx, plate, s, e)
				if err != nil {
					return err
				}
			case until != "":
				u, err := parseDateArg("until", until)
				if err != nil {
					return err
				}
				if ok, err = a.Fleet.RentVehicleUntil(ctx, plate, u); err != nil {
					return err
				}
			case from != "":
				f, err := parseDateArg("from", from)
				if err != nil {
					return err
				}
				if ok, err = a.Fleet.RentVehicleFrom(ctx, plate, f, days); err != nil {
					return err
				}
			default:
				return errors.New("one of --start/--end, --until or --from is required")
			}
			if !ok {
				return fmt.Errorf("%s: %w", domain.NormalizePlate(plate), errUnavailable)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rented %s\n", domain.NormalizePlate(plate))
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&until, "until", "", "last day, starting today")
	cmd.Flags().StringVar(&from, "from", "", "first day of an open or fixed-length booking")
	cmd.Flags().IntVar(&days, "days", 0, "days after --from (0 books the longest allowed rental)")
	return cmd
}

func newExtendCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "extend PLATE ORIGINAL_END NEW_END",
		Short: "Move the end of a booking",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			originalEnd, err := parseDateArg("original end", args[1])
			if err != nil {
				return err
			}
			newEnd, err := parseDateArg("new end", args[2])
			if err != nil {
				return err
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			ok, err := a.Fleet.ExtendRental(cmd.Context(), args[0], originalEnd, newEnd)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s: %w", domain.NormalizePlate(args[0]), errUnavailable)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "extended %s to %s\n", domain.NormalizePlate(args[0]), newEnd)
			return nil
		},
	}
}

func newFinishCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "finish PLATE START",
		Short: "End the booking that starts on START",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDateArg("start", args[1])
			if err != nil {
				return err
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			ok, err := a.Fleet.FinishRental(cmd.Context(), args[0], start)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s: no active rental starts on %s", domain.NormalizePlate(args[0]), start)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "finished %s\n", domain.NormalizePlate(args[0]))
			return nil
		},
	}
}

func newPeriodsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "periods PLATE",
		Short: "List the booked periods of a vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			v, err := a.Vehicles.FindByPlate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			periods := domain.SortedPeriods(v.Plate, a.Fleet.VehicleRentalPeriods(cmd.Context(), v.Plate))

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "START\tEND\tDAYS")
			for _, p := range periods {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", p.Start, p.End, p.Days())
			}
			return tw.Flush()
		},
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the fleet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			s := a.Vehicles.Stats(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Vehicles: %d (rented %d, long-term %d)\n", s.Total, s.RentedCount, s.LongTermCount)
			fmt.Fprintf(out, "Cargo: %d  Passenger: %d\n", s.ByType[domain.VehicleTypeCargo], s.ByType[domain.VehicleTypePassenger])
			if s.Total > 0 {
				fmt.Fprintf(out, "Daily price: min %.2f  max %.2f  avg %.2f  sum %.2f\n", s.MinPrice, s.MaxPrice, s.AvgPrice, s.SumPrice)
			}
			return nil
		},
	}
}
