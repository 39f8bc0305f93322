// Command moodctl is the Mind Saathi operations CLI.
//
// Usage:
//
//	moodctl migrate
//	moodctl users
//	moodctl counts --user u123
//	moodctl streak --user u123 --notify --phone +919800000000
//	moodctl alerts run sadness
//	moodctl alerts run night
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/mindsaathi/internal/alerts"
	"github.com/albapepper/mindsaathi/internal/config"
	"github.com/albapepper/mindsaathi/internal/db"
	"github.com/albapepper/mindsaathi/internal/mood"
	"github.com/albapepper/mindsaathi/internal/notifications"
	"github.com/albapepper/mindsaathi/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "moodctl",
		Short:        "Mind Saathi operations CLI",
		SilenceUsage: true,
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(usersCmd())
	root.AddCommand(countsCmd())
	root.AddCommand(streakCmd())
	root.AddCommand(alertsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema (tables, indexes, mood_recorded trigger)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.StoreDriver != config.DriverPostgres {
				return fmt.Errorf("migrate needs STORE_DRIVER=%s", config.DriverPostgres)
			}
			if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
				return err
			}
			logger.Info("Schema applied")
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// query commands
// --------------------------------------------------------------------------

func usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users with resolved display names",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(func(ctx context.Context, env *env) error {
				users, err := env.engine.Users(ctx)
				if err != nil {
					return err
				}
				return printJSON(users)
			})
		},
	}
}

func countsCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Per-mood occurrence counts for one user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(func(ctx context.Context, env *env) error {
				res, err := env.engine.Counts(ctx, userID)
				if err != nil {
					return err
				}
				return printJSON(res)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func streakCmd() *cobra.Command {
	var userID, phone string
	var notify bool
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Longest sad streak for one user; --notify sends the alert when over threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(func(ctx context.Context, env *env) error {
				if !notify {
					streak, err := env.engine.LongestSadStreak(ctx, userID)
					if err != nil {
						return err
					}
					return printJSON(map[string]interface{}{"userId": userID, "maxConsecutiveSad": streak})
				}
				checker := alerts.NewStreakChecker(env.engine, env.notifier, env.cfg.SadAlertThreshold, logger)
				res, err := checker.Check(ctx, userID, phone)
				if err != nil {
					return err
				}
				return printJSON(res)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User id")
	cmd.Flags().StringVar(&phone, "phone", "", "Recipient override (defaults to ALERT_PHONE)")
	cmd.Flags().BoolVar(&notify, "notify", false, "Send the SMS alert when the streak reaches SAD_ALERT_STREAK")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// --------------------------------------------------------------------------
// alerts command
// --------------------------------------------------------------------------

func alertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Alert job operations",
	}
	run := &cobra.Command{
		Use:       "run [sadness|night]",
		Short:     "Run one tick of an alert job, ignoring its enabled flag",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{alerts.SadnessJobName, alerts.NightJobName},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(func(ctx context.Context, env *env) error {
				var job alerts.Job
				switch args[0] {
				case alerts.SadnessJobName:
					job = alerts.NewSadnessJobFromConfig(env.cfg, env.engine, env.notifier, logger)
				case alerts.NightJobName:
					job = alerts.NewNightJobFromConfig(env.cfg, env.store, env.notifier, logger)
				default:
					return fmt.Errorf("unknown job %q (want %s or %s)", args[0], alerts.SadnessJobName, alerts.NightJobName)
				}
				result := job.Run(ctx)
				return printJSON(result)
			})
		},
	}
	cmd.AddCommand(run)
	return cmd
}

// --------------------------------------------------------------------------
// helpers
// --------------------------------------------------------------------------

type env struct {
	cfg      *config.Config
	store    *store.Opened
	engine   *mood.Engine
	notifier *notifications.Notifier
}

func runWithStore(fn func(ctx context.Context, env *env) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	var gateway notifications.Gateway
	if cfg.TwilioConfigured() {
		gateway = notifications.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken,
			cfg.TwilioAPIURL, cfg.SMSRatePerMinute, logger)
	}

	return fn(ctx, &env{
		cfg:      cfg,
		store:    st,
		engine:   mood.NewEngine(st, cfg.StoreTimeout),
		notifier: notifications.NewNotifier(gateway, cfg.TwilioFrom, cfg.AlertPhone),
	})
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
