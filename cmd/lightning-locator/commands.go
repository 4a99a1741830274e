// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wneessen/lightning-locator/internal/geo"
	"github.com/wneessen/lightning-locator/internal/gpsfix"
	"github.com/wneessen/lightning-locator/internal/presenter"
	"github.com/wneessen/lightning-locator/internal/service"
	"github.com/wneessen/lightning-locator/internal/store"
)

var (
	ErrPartialOrigin     = errors.New("both --lat and --lon are required to override the position")
	ErrClearNotConfirmed = errors.New("refusing to clear the strike history without --yes")
	ErrInvalidDelay      = errors.New("--delay must be a finite number of seconds")
)

func newRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record",
		Short: "Time a strike interactively: press Enter on the flash and again on the thunder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, func(serv *service.Service) error {
				report, err := serv.Record(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
}

type estimateFlags struct {
	seconds  float64
	headings []float64
	lat      float64
	lon      float64
	accuracy float64
	notes    string
}

func newEstimateCmd() *cobra.Command {
	flags := new(estimateFlags)
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate a strike from a known flash-to-thunder delay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			delay, err := secondsToDuration(flags.seconds)
			if err != nil {
				return err
			}
			origin, err := originFromFlags(cmd, flags)
			if err != nil {
				return err
			}
			req := service.Request{
				Delay:    delay,
				Headings: flags.headings,
				Notes:    flags.notes,
				Origin:   origin,
			}
			return withService(cmd, func(serv *service.Service) error {
				report, err := serv.Estimate(cmd.Context(), req)
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
	cmd.Flags().Float64VarP(&flags.seconds, "delay", "d", 0, "seconds between flash and thunder")
	cmd.Flags().Float64SliceVar(&flags.headings, "heading", nil, "compass heading towards the flash in degrees (repeatable)")
	cmd.Flags().Float64Var(&flags.lat, "lat", 0, "observer latitude, overrides the location sources")
	cmd.Flags().Float64Var(&flags.lon, "lon", 0, "observer longitude, overrides the location sources")
	cmd.Flags().Float64Var(&flags.accuracy, "accuracy", 0, "horizontal accuracy of --lat/--lon in meters")
	cmd.Flags().StringVar(&flags.notes, "notes", "", "free text notes stored with the strike")
	_ = cmd.MarkFlagRequired("delay")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded strikes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, func(serv *service.Service) error {
				strikes, err := serv.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				total, err := serv.Count(cmd.Context())
				if err != nil {
					return err
				}
				printHistory(cmd.OutOrStdout(), serv.Presenter(), strikes, total)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of strikes to list (default from config)")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the details of a recorded strike",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid strike id %q: %w", args[0], err)
			}
			return withService(cmd, func(serv *service.Service) error {
				report, err := serv.Show(cmd.Context(), id)
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
}

func newExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the strike history as GeoJSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, func(serv *service.Service) error {
				if output == "" || output == "-" {
					return serv.Export(cmd.Context(), cmd.OutOrStdout())
				}
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create export file: %w", err)
				}
				if err = serv.Export(cmd.Context(), file); err != nil {
					_ = file.Close()
					return err
				}
				return file.Close()
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newClearCmd() *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded strikes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return ErrClearNotConfirmed
			}
			return withService(cmd, func(serv *service.Service) error {
				removed, err := serv.Clear(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), StyleDim.Render(fmt.Sprintf("removed %d strikes", removed)))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "confirm deleting the history")
	return cmd
}

// originFromFlags returns the observer position given on the command line, or nil when
// neither --lat nor --lon was set.
func originFromFlags(cmd *cobra.Command, flags *estimateFlags) (*gpsfix.Fix, error) {
	latSet, lonSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lon")
	if !latSet && !lonSet {
		return nil, nil
	}
	if latSet != lonSet {
		return nil, ErrPartialOrigin
	}
	return &gpsfix.Fix{
		Coordinate: geo.Coordinate{Lat: flags.lat, Lon: flags.lon},
		AccuracyM:  flags.accuracy,
		Source:     "flags",
		At:         time.Now(),
	}, nil
}

// secondsToDuration rejects values that have no time.Duration representation.
func secondsToDuration(seconds float64) (time.Duration, error) {
	nanos := math.Round(seconds * float64(time.Second))
	if math.IsNaN(nanos) || nanos >= math.MaxInt64 || nanos <= math.MinInt64 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDelay, seconds)
	}
	return time.Duration(nanos), nil
}

func printReport(w io.Writer, report service.Report) {
	_, _ = fmt.Fprintln(w, StyleTitle.Render(report.Summary))
	style := StyleReport
	if report.Context.SafetyWarning {
		style = style.BorderForeground(ColorWarning)
	}
	_, _ = fmt.Fprintln(w, style.Render(strings.TrimRight(report.Details, "\n")))
	_, _ = fmt.Fprintln(w, StyleDim.Render(report.Strike.ID.String()))
}

var historyColumns = []struct {
	key   string
	width int
}{
	{"", 10},
	{"", 17},
	{"distance", 12},
	{"bearing", 10},
	{"radius", 13},
	{"near", 24},
}

func printHistory(w io.Writer, pres *presenter.Presenter, strikes []store.Strike, total int) {
	if len(strikes) == 0 {
		_, _ = fmt.Fprintln(w, StyleDim.Render(pres.Localize("nostrikes")))
		return
	}

	header := make([]string, len(historyColumns))
	for i, col := range historyColumns {
		title := ""
		if col.key != "" {
			title = pres.Localize(col.key)
		}
		header[i] = StyleHeader.Width(col.width).Render(title)
	}
	_, _ = fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for _, strike := range strikes {
		ctx := pres.BuildContext(strike.Result, strike.CreatedAt, nil, strike.Place)
		cells := []string{
			strike.ID.String()[:8],
			strike.CreatedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%.2f %s", ctx.Distance, ctx.DistanceUnit),
			fmt.Sprintf("%.0f° %s", strike.Result.BearingDeg, ctx.Compass),
			fmt.Sprintf("±%.2f %s", ctx.Radius, ctx.DistanceUnit),
			strike.Place,
		}
		row := make([]string, len(cells))
		for i, cell := range cells {
			style := lipgloss.NewStyle().Width(historyColumns[i].width)
			switch {
			case i == 0:
				style = style.Inherit(StyleDim)
			case i == 2 && ctx.SafetyWarning:
				style = style.Inherit(StyleWarning)
			}
			row[i] = style.Render(cell)
		}
		_, _ = fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	if total > len(strikes) {
		_, _ = fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf(pres.Localize("shown"), len(strikes), total)))
	}
}
