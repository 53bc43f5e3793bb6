package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"attendance_backend/internals/configs"
	"attendance_backend/internals/helpers/dbtime"
	routes "attendance_backend/internals/route"
	seedRoster "attendance_backend/internals/seeds/roster"
)

func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}

// NewSeedCommand: attendancectl seed --file roster.yaml
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed roster dari file JSON/YAML (idempoten per vdash)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(opts, func(db *gorm.DB, _ configs.AppConfig, _ *routes.Services) error {
				res, err := seedRoster.SeedRosterFromFile(cmd.Context(), db, file)
				if err != nil {
					return err
				}
				return formatter(opts, cmd).Success(res, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "created=%d skipped=%d\n", res.Created, res.Skipped)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "file roster (.json/.yaml)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// NewRotateTokensCommand: ganti token semua identitas.
func NewRotateTokensCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rotate-tokens",
		Short: "Buat ulang token akses untuk seluruh roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(opts, func(_ *gorm.DB, _ configs.AppConfig, svcs *routes.Services) error {
				tokens, err := svcs.Roster.RotateTokens(cmd.Context())
				if err != nil {
					return err
				}
				return formatter(opts, cmd).Success(tokens, func(w io.Writer) error {
					keys := make([]string, 0, len(tokens))
					for k := range tokens {
						keys = append(keys, k)
					}
					sort.Strings(keys)
					tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
					for _, k := range keys {
						fmt.Fprintf(tw, "%s\t%s\n", k, tokens[k])
					}
					return tw.Flush()
				})
			})
		},
	}
}

// NewRosterCommand: ListRoster.
func NewRosterCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "Tampilkan semua vdash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(opts, func(_ *gorm.DB, _ configs.AppConfig, svcs *routes.Services) error {
				keys, err := svcs.Attendance.ListRoster(cmd.Context())
				if err != nil {
					return err
				}
				return formatter(opts, cmd).Success(keys, func(w io.Writer) error {
					for _, k := range keys {
						if _, err := fmt.Fprintln(w, k); err != nil {
							return err
						}
					}
					return nil
				})
			})
		},
	}
}

func resolveDay(raw string, svcs *routes.Services) (dbtime.Date, error) {
	if raw == "" {
		return svcs.Attendance.Today(), nil
	}
	d, err := dbtime.ParseDate(raw)
	if err != nil {
		return dbtime.Date{}, WrapExitError(ExitCommandError, "tanggal harus YYYY-MM-DD", err)
	}
	return d, nil
}

// NewReportCommand: DailyReport dalam bentuk tabel.
func NewReportCommand(opts *RootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Laporan presensi satu hari",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(opts, func(_ *gorm.DB, _ configs.AppConfig, svcs *routes.Services) error {
				day, err := resolveDay(date, svcs)
				if err != nil {
					return err
				}
				records, err := svcs.Attendance.DailyReport(cmd.Context(), day)
				if err != nil {
					return err
				}
				return formatter(opts, cmd).Success(records, func(w io.Writer) error {
					tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "IDENTITY\tFULL NAME\tCHECK-IN\tCHECK-OUT")
					for _, r := range records {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.VDash, r.FullName, r.CheckinTime, r.CheckoutTime)
					}
					return tw.Flush()
				})
			})
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "tanggal YYYY-MM-DD (default hari ini)")
	return cmd
}

// NewExportCommand: materialize sheet hari itu; --out menyalin workbook.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	var date, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Buat ulang sheet harian di workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(opts, func(_ *gorm.DB, cfg configs.AppConfig, svcs *routes.Services) error {
				day, err := resolveDay(date, svcs)
				if err != nil {
					return err
				}
				b, err := svcs.Attendance.ExportReport(cmd.Context(), day)
				if err != nil {
					return err
				}
				target := cfg.WorkbookPath
				if out != "" {
					if err := os.WriteFile(out, b, 0o644); err != nil {
						return fmt.Errorf("tulis %s: %w", out, err)
					}
					target = out
				}
				data := map[string]any{"date": day.String(), "path": target, "bytes": len(b)}
				return formatter(opts, cmd).Success(data, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "sheet %s → %s (%d bytes)\n", day, target, len(b))
					return err
				})
			})
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "tanggal YYYY-MM-DD (default hari ini)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "salin workbook ke path ini")
	return cmd
}
