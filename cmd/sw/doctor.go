package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hmasuda/sitework/internal/config"
	"github.com/hmasuda/sitework/internal/db"
	"github.com/hmasuda/sitework/internal/pdfgw"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check system prerequisites and configuration",
		Long:  "Runs diagnostic checks: config, database connectivity, schema, and PDF-service health.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Sitework config file")
	return cmd
}

type checkResult struct {
	name   string
	status string // "PASS", "FAIL", "WARN"
	detail string
}

func runDoctor(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Sitework Doctor")
	fmt.Fprintln(out, "===============")

	var results []checkResult

	cfg, cfgResult := checkConfig(configPath)
	results = append(results, cfgResult)

	if cfg != nil {
		results = append(results, checkDatabase(cfg))
		results = append(results, checkSchema(cfg))
		results = append(results, checkPDFService(cfg))
	} else {
		for _, name := range []string{"Database", "Schema", "PDF service"} {
			results = append(results, checkResult{name, "FAIL", "skipped (no config)"})
		}
	}

	passed, failed, warned := 0, 0, 0
	for _, r := range results {
		printCheckResult(out, r)
		switch r.status {
		case "PASS":
			passed++
		case "FAIL":
			failed++
		case "WARN":
			warned++
		}
	}

	fmt.Fprintf(out, "\n%d passed, %d failed, %d warning\n", passed, failed, warned)

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

func printCheckResult(out io.Writer, r checkResult) {
	fmt.Fprintf(out, "[%s] %s: %s\n", r.status, r.name, r.detail)
}

func checkConfig(path string) (*config.Config, checkResult) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, checkResult{"Config file", "FAIL", fmt.Sprintf("%s: %v", path, err)}
	}
	return cfg, checkResult{"Config file", "PASS", path}
}

func checkDatabase(cfg *config.Config) checkResult {
	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		return checkResult{"Database", "FAIL", err.Error()}
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return checkResult{"Database", "FAIL", err.Error()}
	}
	if err := sqlDB.Ping(); err != nil {
		return checkResult{"Database", "FAIL", err.Error()}
	}
	return checkResult{"Database", "PASS", fmt.Sprintf("connected (%s)", cfg.DB.Driver)}
}

func checkSchema(cfg *config.Config) checkResult {
	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		return checkResult{"Schema", "FAIL", err.Error()}
	}
	missing := 0
	for _, m := range db.AllModels() {
		if !gormDB.Migrator().HasTable(m) {
			missing++
		}
	}
	if missing > 0 {
		return checkResult{"Schema", "WARN", fmt.Sprintf("%d table(s) missing, run: sw db migrate", missing)}
	}
	return checkResult{"Schema", "PASS", fmt.Sprintf("%d tables present", len(db.AllModels()))}
}

func checkPDFService(cfg *config.Config) checkResult {
	gw := pdfgw.New(cfg.PDFService.BaseURL, 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if !gw.Health(ctx) {
		return checkResult{"PDF service", "WARN", fmt.Sprintf("%s not answering; imports/exports will fail", cfg.PDFService.BaseURL)}
	}
	return checkResult{"PDF service", "PASS", cfg.PDFService.BaseURL}
}
