package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/alerta/internal/api"
	"github.com/jask/alerta/internal/config"
	"github.com/jask/alerta/internal/database"
	"github.com/jask/alerta/internal/database/repository"
	"github.com/jask/alerta/internal/fakeapi"
	"github.com/jask/alerta/internal/logging"
	"github.com/jask/alerta/internal/media"
	"github.com/jask/alerta/internal/secrets"
	"github.com/jask/alerta/internal/service"
	"github.com/jask/alerta/internal/session"
	"github.com/jask/alerta/internal/tui"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	logLevel   string
	demo       bool
}

func rootCmd() *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:           "alerta",
		Short:         "Report emergencies and follow channels from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if f.configPath != "" {
				_ = os.Setenv("ALERTA_CONFIG", f.configPath)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), f)
		},
	}
	cmd.PersistentFlags().StringVar(&f.configPath, "config", "", "config file (default ~/.config/alerta/config.toml)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "override log.level")
	cmd.Flags().BoolVar(&f.demo, "demo", false, "run against a seeded in-process backend (login demo@alerta.test / demo)")

	cmd.AddCommand(configCmd(), historyCmd(), fakeAPICmd())
	return cmd
}

func runTUI(ctx context.Context, f rootFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	if f.demo {
		srv := fakeapi.NewServer()
		defer srv.Close()
		srv.Seed()
		cfg.API.BaseURL = srv.URL
		logger.Info("demo backend started", zap.String("url", srv.URL))
	}

	db, err := database.OpenMigrated(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	client := api.New(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout), api.WithLogger(logger.Named("api")))
	store := session.NewStore()
	bus := session.NewBus()

	auth := &service.AuthService{
		API:                  client,
		Session:              store,
		Log:                  logger.Named("auth"),
		PrefsDir:             config.Dir(),
		Secrets:              secrets.NewStore(config.Dir()),
		LegacyLogin:          cfg.Auth.LegacyLogin,
		CheckPasswordConfirm: cfg.Auth.CheckPasswordConfirm,
		RememberPassword:     cfg.Auth.RememberPassword,
	}
	if cfg.Auth.LegacyLogin {
		logger.Warn("auth.legacy_login is on: rejected logins still enter the app")
	}
	svc := tui.Services{
		Auth:     auth,
		Channels: &service.ChannelService{API: client, Session: store, Bus: bus, Log: logger.Named("channels")},
		Reports:  &service.ReportService{API: client, Session: store, Repo: repository.NewReportRepo(db), Log: logger.Named("reports")},
		Media:    media.NewLoader(cfg.Media.MaxBytes),
		Session:  store,
		Bus:      bus,
	}

	app := tui.New(ctx, cfg, svc, logger.Named("tui"))
	defer app.Close()
	logger.Info("starting", zap.String("base_url", client.BaseURL()))
	if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Manage the config file"}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s exists (use --force to overwrite)", path)
			}
			// a fresh file has nothing to read yet
			_ = os.Unsetenv("ALERTA_CONFIG")
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			_ = os.Setenv("ALERTA_CONFIG", path)
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.Path())
		},
	}
	cmd.AddCommand(initCmd, pathCmd)
	return cmd
}

func historyCmd() *cobra.Command {
	var (
		user  string
		id    string
		limit int
		clear bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List reports sent from this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := database.OpenMigrated(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if clear {
				if err := (&service.MaintenanceService{DB: db}).ClearHistory(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, "history cleared")
				return nil
			}
			repo := repository.NewReportRepo(db)
			if id = strings.TrimSpace(id); id != "" {
				rep, err := repo.Get(ctx, id)
				if err != nil {
					return err
				}
				if rep == nil {
					return fmt.Errorf("no report with id %q", id)
				}
				printReport(out, cfg.UI.DateFormat, *rep)
				return nil
			}
			list, err := repo.ListByReporter(ctx, strings.TrimSpace(user), limit)
			if err != nil {
				return err
			}
			printHistory(out, cfg.UI.DateFormat, list)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "only reports sent by this email")
	cmd.Flags().StringVar(&id, "id", "", "show one report in full")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows")
	cmd.Flags().BoolVar(&clear, "clear", false, "delete the local history")
	return cmd
}

func channelLabel(r repository.SentReport) string {
	if r.ChannelID == nil {
		return "-"
	}
	return r.ChannelName
}

func remoteLabel(r repository.SentReport) string {
	if r.RemoteID == nil {
		return "-"
	}
	return strconv.FormatInt(*r.RemoteID, 10)
}

func printHistory(w io.Writer, layout string, list []repository.SentReport) {
	if len(list) == 0 {
		fmt.Fprintln(w, "no reports sent yet")
		return
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(1)
			}
			return lipgloss.NewStyle().PaddingRight(1)
		}).
		Headers("ID", "SENT", "TITLE", "CHANNEL", "IMAGES", "REPORTER", "REMOTE ID")
	for _, r := range list {
		t.Row(r.ID, r.CreatedAt.Local().Format(layout), r.Title, channelLabel(r),
			strconv.Itoa(r.Attachments), r.ReporterID, remoteLabel(r))
	}
	fmt.Fprintln(w, t.String())
}

func printReport(w io.Writer, layout string, r repository.SentReport) {
	rows := [][2]string{
		{"ID", r.ID},
		{"Sent", r.CreatedAt.Local().Format(layout)},
		{"Title", r.Title},
		{"Description", r.Description},
		{"Channel", channelLabel(r)},
		{"Images", strconv.Itoa(r.Attachments)},
		{"Reporter", r.ReporterID},
		{"Remote ID", remoteLabel(r)},
		{"Server", r.ServerMessage},
	}
	label := lipgloss.NewStyle().Bold(true).Width(12)
	for _, kv := range rows {
		fmt.Fprintln(w, label.Render(kv[0])+kv[1])
	}
}

func fakeAPICmd() *cobra.Command {
	var (
		addr string
		seed bool
	)
	cmd := &cobra.Command{
		Use:   "fakeapi",
		Short: "Serve the in-memory backend for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			b := fakeapi.NewBackend()
			if seed {
				b.Seed()
			}
			srv := &http.Server{Addr: addr, Handler: b, ReadHeaderTimeout: 5 * time.Second}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdown)
			}()
			fmt.Fprintln(cmd.OutOrStdout(), "fake backend listening on", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8000", "listen address")
	cmd.Flags().BoolVar(&seed, "seed", true, "load demo account and channels")
	return cmd
}
