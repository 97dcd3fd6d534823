package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/hmasuda/sitework/internal/config"
	"github.com/hmasuda/sitework/internal/db"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const defaultConfigPath = "sitework.yaml"

// connectFromConfig loads config and opens the configured database.
func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return cfg, gormDB, nil
}

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBMigrateCmd())
	cmd.AddCommand(newDBResetCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the Sitework database",
		Long:  "Creates the database (mysql) or file (sqlite) and migrates all tables.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Sitework config file")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fmt.Fprintf(out, "Loaded config from %s (driver: %s)\n", configPath, cfg.DB.Driver)

	if cfg.DB.Driver == "mysql" {
		adminDB, err := db.ConnectAdmin(cfg.DB)
		if err != nil {
			return err
		}
		if err := db.CreateDatabase(adminDB, cfg.DB.Database); err != nil {
			return err
		}
		fmt.Fprintf(out, "Database %s ready\n", cfg.DB.Database)
	}

	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))

	fmt.Fprintln(out, "\nSitework database initialized successfully.")
	return nil
}

func newDBMigrateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations to an existing database",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := db.AutoMigrate(gormDB); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d tables\n", len(db.AllModels()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Sitework config file")
	return cmd
}

func newDBResetCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and re-initialize the Sitework database",
		Long: `Drops the Sitework database (mysql) or removes the database file (sqlite),
then re-creates the schema. All projects, schedules, and items are lost.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBReset(cmd, configPath, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Sitework config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runDBReset(cmd *cobra.Command, configPath string, skipConfirm bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	target := cfg.DB.Database
	if cfg.DB.Driver == "sqlite" {
		target = cfg.DB.Path
	}

	if !skipConfirm {
		fmt.Fprintf(out, "This will destroy all data in %s. Continue? [y/N] ", target)
		reader := bufio.NewReader(cmd.InOrStdin())
		line, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(line)) != "y" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	switch cfg.DB.Driver {
	case "mysql":
		adminDB, err := db.ConnectAdmin(cfg.DB)
		if err != nil {
			return err
		}
		if err := db.DropDatabase(adminDB, cfg.DB.Database); err != nil {
			return err
		}
		if err := db.CreateDatabase(adminDB, cfg.DB.Database); err != nil {
			return err
		}
	case "sqlite":
		if err := os.Remove(cfg.DB.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", cfg.DB.Path, err)
		}
	}

	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}

	fmt.Fprintf(out, "Database %s reset.\n", target)
	return nil
}
