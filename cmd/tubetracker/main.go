// Package main provides the tubetracker CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tubetracker/config"
	"tubetracker/feed"
	"tubetracker/profile"
	"tubetracker/scheduler"
	"tubetracker/server"
	"tubetracker/storage"
	"tubetracker/youtube"
)

var version = "0.1.0"

func main() {
	// Missing .env files are fine; environment variables win either way.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// dataDir returns the directory holding the persistent state file.
func dataDir() string {
	if dir := os.Getenv("TUBETRACKER_DATA_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tubetracker")
}

// app holds the wired application components shared by all commands.
type app struct {
	kv       *storage.FileKV
	cfg      *config.Store
	resolver *feed.Resolver
	profiles *profile.Store
	runner   *scheduler.Runner
	seeder   *scheduler.Seeder
	log      zerolog.Logger
}

func newApp(ctx context.Context) (*app, error) {
	log := server.InitLogger(os.Getenv("TUBETRACKER_LOG_LEVEL"), "tubetracker")

	dir := dataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	kv, err := storage.OpenFileKV(filepath.Join(dir, "state.json"), log)
	if err != nil {
		return nil, fmt.Errorf("open state file: %w", err)
	}

	apiKey := os.Getenv("TUBETRACKER_API_KEY")
	if apiKey == "" {
		kv.Close()
		return nil, fmt.Errorf("TUBETRACKER_API_KEY is not set")
	}
	ytCfg := youtube.DefaultClientConfig()
	ytCfg.APIKey = apiKey
	yt, err := youtube.NewClient(ctx, ytCfg, log)
	if err != nil {
		kv.Close()
		return nil, err
	}

	cfg := config.NewStore(kv, log)
	resolver := feed.NewResolver(yt, log)
	aggregator := feed.NewAggregator(yt, log)
	profiles := profile.NewStore(kv, resolver, log)
	runner := scheduler.NewRunner(profiles, cfg, aggregator, log)
	seeder := scheduler.NewSeeder(kv, profiles, resolver, config.DefaultChannels(), log)

	return &app{
		kv:       kv,
		cfg:      cfg,
		resolver: resolver,
		profiles: profiles,
		runner:   runner,
		seeder:   seeder,
		log:      log,
	}, nil
}

func (a *app) Close() {
	a.kv.Close()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tubetracker",
		Short:         "Track recent uploads from your favorite YouTube channels",
		Long:          "Tubetracker aggregates recent uploads across channel lists into a single chronological feed.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("tubetracker version {{.Version}}\n")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newChannelsCmd())
	rootCmd.AddCommand(newProfilesCmd())

	return rootCmd
}

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with periodic background refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			a.seeder.Run(ctx)

			srv := server.New(server.Options{
				Profiles:    a.profiles,
				Config:      a.cfg,
				Runner:      a.runner,
				Pin:         os.Getenv("TUBETRACKER_PIN"),
				CORSOrigins: os.Getenv("TUBETRACKER_CORS_ORIGINS"),
				Log:         a.log,
			})

			go refreshLoop(ctx, a)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Listen(addr)
			}()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case s := <-sig:
				a.log.Info().Str("signal", s.String()).Msg("shutting down")
				cancel()
				return srv.Shutdown()
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")

	return cmd
}

// refreshLoop periodically refreshes the active profile's feed when its
// staleness exceeds the configured interval. Checks run every minute so an
// interval change takes effect without restarting.
func refreshLoop(ctx context.Context, a *app) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	if _, err := a.runner.MaybeRefresh(ctx); err != nil {
		a.log.Warn().Err(err).Msg("initial refresh failed")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.runner.MaybeRefresh(ctx); err != nil {
				a.log.Warn().Err(err).Msg("background refresh failed")
			}
		}
	}
}

func newScanCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Refresh feeds now",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			a.seeder.Run(ctx)

			if all {
				if err := a.runner.ScanAll(ctx); err != nil {
					return err
				}
				for _, p := range a.profiles.List() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d videos\n", p.Name, len(p.Feed.Entries))
				}
				return nil
			}

			if err := a.runner.ScanActive(ctx); err != nil {
				return err
			}
			p := a.profiles.Active()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d videos\n", p.Name, len(p.Feed.Entries))
			for _, e := range p.Feed.Entries {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s  %-20s  %s\n",
					e.PublishedAt.Format("2006-01-02"), e.ChannelName, e.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Scan every profile, not just the active one")

	return cmd
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <query>",
		Short: "Resolve a handle, name, or channel ID to a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			ch, err := a.resolver.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ID:      %s\nName:    %s\nUploads: %s\n",
				ch.ID, ch.Name, ch.UploadsListID)
			return nil
		},
	}
}

func newChannelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "Manage the active profile's channel list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List channels in the active profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			p := a.profiles.Active()
			for _, ch := range p.Channels {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", ch.ID, ch.Name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <query>",
		Short: "Resolve a channel and add it to the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			ch, err := a.profiles.AddChannel(ctx, a.profiles.Active().ID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", ch.Name, ch.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <channel-id>",
		Short: "Remove a channel from the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.profiles.RemoveChannel(a.profiles.Active().ID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	})

	return cmd
}

func newProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage profiles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			active := a.profiles.Active()
			for _, p := range a.profiles.List() {
				marker := " "
				if p.ID == active.ID {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s (%d channels)\n",
					marker, p.ID, p.Name, len(p.Channels))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.profiles.Create(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", p.Name, p.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.profiles.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "activate <id>",
		Short: "Switch the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.profiles.SwitchActive(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Active profile: %s\n", a.profiles.Active().Name)
			return nil
		},
	})

	return cmd
}
