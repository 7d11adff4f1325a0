package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/planetban/hadirbot/internal/report"
)

var (
	reportTitle string
	reportOut   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Work with the document sent by /laporan",
}

var reportRenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write a sample report PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(filepath.Dir(reportOut), 0755); err != nil {
			return err
		}
		f, err := os.Create(reportOut)
		if err != nil {
			return err
		}
		if err := report.Render(f, reportTitle, time.Now()); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return errors.Wrap(err, "close")
		}

		pages, err := report.Inspect(reportOut)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d page)\n", reportOut, pages)
		return nil
	},
}

var reportInspectCmd = &cobra.Command{
	Use:   "inspect <file.pdf>",
	Short: "Print the page count of a PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, err := report.Inspect(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d pages\n", args[0], pages)
		return nil
	},
}

func init() {
	reportRenderCmd.Flags().StringVar(&reportTitle, "title", "Laporan Data Karyawan", "report title")
	reportRenderCmd.Flags().StringVarP(&reportOut, "out", "o", "laporan/contoh-laporan.pdf", "output file")
	reportCmd.AddCommand(reportRenderCmd, reportInspectCmd)
}
