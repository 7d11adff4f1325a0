package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/planetban/hadirbot/internal/attendance"
	"github.com/planetban/hadirbot/internal/config"
)

var (
	hadirAt   string
	hadirName string
	hadirID   int64
)

var hadirCmd = &cobra.Command{
	Use:   "hadir [passcode]",
	Short: "Evaluate a check-in offline, without Telegram",
	Example: `  bot hadir 12345 --at 10:00
  bot hadir 12345 --at 2024-03-05T22:00:00+07:00`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Read()
		if err != nil {
			return err
		}
		window, err := attendance.NewWindow(cfg.OpenAt, cfg.CloseAt, cfg.Timezone)
		if err != nil {
			return err
		}

		ts, err := parseAt(hadirAt, window.Location, time.Now())
		if err != nil {
			return err
		}

		res, err := attendance.NewEvaluator(window, cfg.Passcode).Evaluate(attendance.Request{
			RequesterID: hadirID,
			DisplayName: hadirName,
			Time:        ts,
			Args:        args,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", res.Outcome, res.Text)
		return nil
	},
}

func init() {
	hadirCmd.Flags().StringVar(&hadirAt, "at", "", "check-in time: HH:MM[:SS] local today, or RFC 3339 (default now)")
	hadirCmd.Flags().StringVar(&hadirName, "name", "Tester", "display name of the requester")
	hadirCmd.Flags().Int64Var(&hadirID, "id", 1, "Telegram user id of the requester")
}

// parseAt accepts a wall-clock time on now's date in loc, or a full
// RFC 3339 timestamp.
func parseAt(s string, loc *time.Location, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	c, err := attendance.ParseClock(s)
	if err != nil {
		return time.Time{}, errors.Errorf("--at: want HH:MM[:SS] or RFC 3339, got %q", s)
	}
	local := now.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return day.Add(time.Duration(c) * time.Second), nil
}
