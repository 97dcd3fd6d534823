package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/hmasuda/sitework/internal/gantt"
	"github.com/hmasuda/sitework/internal/models"
	"github.com/hmasuda/sitework/internal/pdfgw"
	"github.com/hmasuda/sitework/internal/project"
	"github.com/hmasuda/sitework/internal/schedule"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule management commands",
	}

	cmd.AddCommand(newScheduleNewCmd())
	cmd.AddCommand(newScheduleItemsCmd())
	cmd.AddCommand(newScheduleImportCmd())
	cmd.AddCommand(newScheduleExportCmd())
	return cmd
}

func newScheduleNewCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "new <project-id>",
		Short: "Create a new empty schedule version for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			s, err := schedule.CreateVersion(gormDB, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created schedule v%d (%s)\n", s.Version, s.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Sitework config file")
	return cmd
}

func newScheduleItemsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "items <schedule-id>",
		Short: "List the items of a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			items, err := schedule.ListItems(gormDB, args[0])
			if err != nil {
				return err
			}
			printItems(cmd, items)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Sitework config file")
	return cmd
}

func newScheduleImportCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "import <project-id> <file.pdf>",
		Short: "Import a schedule PDF via the PDF service",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			p, err := project.Get(gormDB, args[0])
			if err != nil {
				return err
			}

			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[1], err)
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("stat %s: %w", args[1], err)
			}

			gw := pdfgw.New(cfg.PDFService.BaseURL, cfg.PDFService.Timeout)
			result, err := gw.Import(context.Background(), f, info.Size(), "application/pdf", p.ID,
				func(pct int) {
					fmt.Fprintf(out, "\ruploading... %d%%", pct)
				})
			fmt.Fprintln(out)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Imported schedule v%d for %q: %d items (%s)\n",
				result.Version, p.ProjectName, result.ItemCount, result.ScheduleID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Sitework config file")
	return cmd
}

func newScheduleExportCmd() *cobra.Command {
	var (
		configPath string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "export <schedule-id>",
		Short: "Export a schedule to PDF via the PDF service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}

			s, err := schedule.Get(gormDB, args[0])
			if err != nil {
				return err
			}

			gw := pdfgw.New(cfg.PDFService.BaseURL, cfg.PDFService.Timeout)
			payload, err := gw.Export(context.Background(), s.ID)
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("schedule_v%d.pdf", s.Version)
			}
			if err := os.WriteFile(output, payload, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", filepath.Clean(output), len(payload))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Sitework config file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default schedule_v<N>.pdf)")
	return cmd
}

// runProjectShow prints a project, its derived status, and the items of its
// latest schedule.
func runProjectShow(cmd *cobra.Command, gormDB *gorm.DB, projectID string) error {
	out := cmd.OutOrStdout()

	s, err := project.Summarize(gormDB, projectID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Project #%d: %s\n", s.Project.ProjectNumber, s.Project.ProjectName)
	if s.Project.ConstructionLocation != "" {
		fmt.Fprintf(out, "Location:  %s\n", s.Project.ConstructionLocation)
	}
	if s.Project.ConstructionCompany != "" {
		fmt.Fprintf(out, "Company:   %s\n", s.Project.ConstructionCompany)
	}
	fmt.Fprintf(out, "Status:    %s (%d%% complete)\n", s.Status, s.Progress)

	latest, err := schedule.Latest(gormDB, projectID)
	if err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			fmt.Fprintln(out, "No schedule yet.")
			return nil
		}
		return err
	}

	fmt.Fprintf(out, "Schedule:  v%d (%s)\n\n", latest.Version, latest.ID)
	printItems(cmd, latest.Items)

	layout := gantt.Compute(latest.Items, nowUTC())
	if layout.TotalDays > 0 {
		fmt.Fprintf(out, "\nTimeline: %s to %s (%d days, %d week marks)\n",
			layout.Start.Format("2006-01-02"), layout.End.Format("2006-01-02"),
			layout.TotalDays, len(layout.Timeline))
	}
	return nil
}

func nowUTC() time.Time { return time.Now().UTC() }

func printItems(cmd *cobra.Command, items []models.ScheduleItem) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tPROCESS\tPLANNED\tACTUAL\tSTATUS\tASSIGNEE")
	for _, it := range items {
		actual := "-"
		if it.ActualStart != nil {
			end := "..."
			if it.ActualEnd != nil {
				end = it.ActualEnd.Format("01/02")
			}
			actual = fmt.Sprintf("%s-%s", it.ActualStart.Format("01/02"), end)
		}
		fmt.Fprintf(w, "%d\t%s\t%s-%s\t%s\t%s\t%s\n",
			it.OrderIndex, it.ProcessName,
			it.PlannedStart.Format("01/02"), it.PlannedEnd.Format("01/02"),
			actual, it.Status.Normalize(), it.Assignee)
	}
	w.Flush()
}
