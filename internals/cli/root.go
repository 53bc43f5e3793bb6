// Package cli berisi perintah attendancectl (operasional roster & laporan).
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"attendance_backend/internals/configs"
	database "attendance_backend/internals/databases"
	"attendance_backend/internals/helpers/dbtime"
	routes "attendance_backend/internals/route"
)

// Opener membuka store + config untuk satu perintah.
type Opener func() (*gorm.DB, configs.AppConfig, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"
	Open   Opener
	Clock  dbtime.Clock
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand: attendancectl dengan store dari ENV.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(openFromEnv, nil)
}

// NewRootCommandWith dipakai test untuk menyuntik store & jam.
func NewRootCommandWith(open Opener, clock dbtime.Clock) *cobra.Command {
	opts := &RootOptions{Open: open, Clock: clock}

	cmd := &cobra.Command{
		Use:   "attendancectl",
		Short: "attendancectl - operasional presensi harian",
		Long:  "Seed roster, rotasi token, daftar roster, laporan harian dan export workbook.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewRotateTokensCommand(opts))
	cmd.AddCommand(NewRosterCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func openFromEnv() (*gorm.DB, configs.AppConfig, error) {
	configs.LoadEnv()
	cfg, err := configs.Load()
	if err != nil {
		return nil, cfg, err
	}
	db, err := database.ConnectDB(cfg.DB)
	if err != nil {
		return nil, cfg, err
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, cfg, err
	}
	return db, cfg, nil
}

// withServices membuka store, menjalankan fn, lalu menutup store.
func withServices(opts *RootOptions, fn func(db *gorm.DB, cfg configs.AppConfig, svcs *routes.Services) error) error {
	db, cfg, err := opts.Open()
	if err != nil {
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer database.Close(db)
	return fn(db, cfg, routes.BuildServices(db, cfg, opts.Clock))
}
