package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stacklok/rust-tracker/internal/app"
	"github.com/stacklok/rust-tracker/internal/config"
	"github.com/stacklok/rust-tracker/internal/store"
	"github.com/stacklok/rust-tracker/internal/validators"
)

// sessionOpener opens an admin session for a config path; replaced in tests
type sessionOpener func(ctx context.Context, configPath string) (*app.AdminSession, error)

func openSession(ctx context.Context, configPath string) (*app.AdminSession, error) {
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return app.NewAdminSession(ctx, cfg)
}

func newTenantCmd() *cobra.Command {
	return newTenantCmdWith(openSession)
}

func newTenantCmdWith(open sessionOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tracked guilds",
		Long: `Configure the guilds (tenants) the tracker serves: game server credentials,
roster source, tracking channels, smart devices and wipes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Usage()
		},
	}
	cmd.PersistentFlags().String("config", "", "Path to configuration file (YAML format, required)")
	if err := cmd.MarkPersistentFlagRequired("config"); err != nil {
		panic(err)
	}

	run := func(fn func(context.Context, *cobra.Command, *app.AdminSession) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			session, err := open(ctx, configPath)
			if err != nil {
				return err
			}
			defer session.Close()
			return fn(ctx, cmd, session)
		}
	}

	cmd.AddCommand(newTenantSetupCmd(run))
	cmd.AddCommand(newTenantRosterSourceCmd(run))
	cmd.AddCommand(newTenantChannelCmd(run))
	cmd.AddCommand(newTenantDeviceCmd(run))
	cmd.AddCommand(newTenantWipeCmd(run))
	cmd.AddCommand(newTenantListCmd(run))
	return cmd
}

type sessionRunner func(func(context.Context, *cobra.Command, *app.AdminSession) error) func(*cobra.Command, []string) error

func mustRequire(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

func newTenantSetupCmd(run sessionRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Store the game server credentials of a tenant",
		RunE: run(func(ctx context.Context, cmd *cobra.Command, s *app.AdminSession) error {
			f := cmd.Flags()
			tenantID, _ := f.GetString("tenant")
			ip, _ := f.GetString("ip")
			port, _ := f.GetInt("port")
			playerID, _ := f.GetString("player-id")
			token, _ := f.GetInt64("token")
			rosterSource, _ := f.GetString("roster-source")

			tenantID, err := validators.ValidateTenantID(tenantID)
			if err != nil {
				return err
			}
			if ip, err = validators.ValidateServerEndpoint(ip, port); err != nil {
				return err
			}

			if rosterSource == "" {
				// keep a roster source set earlier
				if existing, err := s.Store.GetTenantConfig(ctx, tenantID); err == nil {
					rosterSource = existing.RosterSourceID
				}
			}

			err = s.Store.UpsertTenantConfig(ctx, store.TenantConfig{
				TenantID:       tenantID,
				ServerIP:       ip,
				ServerPort:     port,
				PlayerID:       playerID,
				PlayerToken:    token,
				RosterSourceID: rosterSource,
			})
			if err != nil {
				return fmt.Errorf("failed to save tenant %s: %w", tenantID, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Tenant %s configured for %s:%d\n", tenantID, ip, port)
			return err
		}),
	}
	cmd.Flags().String("tenant", "", "Tenant (guild) id")
	cmd.Flags().String("ip", "", "Game server IP")
	cmd.Flags().Int("port", 0, "Game server companion port")
	cmd.Flags().String("player-id", "", "Player id used for the live connection")
	cmd.Flags().Int64("token", 0, "Player token used for the live connection")
	cmd.Flags().String("roster-source", "", "Roster source id (optional)")
	mustRequire(cmd, "tenant", "ip", "port", "player-id", "token")
	return cmd
}

func newTenantRosterSourceCmd(run sessionRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster-source",
		Short: "Set the roster source id of a tenant",
		RunE: run(func(ctx context.Context, cmd *cobra.Command, s *app.AdminSession) error {
			tenantID, _ := cmd.Flags().GetString("tenant")
			sourceID, _ := cmd.Flags().GetString("source")
			if err := s.Store.SetRosterSource(ctx, tenantID, sourceID); err != nil {
				return fmt.Errorf("failed to set roster source for tenant %s: %w", tenantID, err)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Tenant %s now follows roster source %s\n", tenantID, sourceID)
			return err
		}),
	}
	cmd.Flags().String("tenant", "", "Tenant (guild) id")
	cmd.Flags().String("source", "", "Roster source id")
	mustRequire(cmd, "tenant", "source")
	return cmd
}

func newTenantChannelCmd(run sessionRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Manage tracking channels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Usage()
		},
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Post notifications of a tenant to a channel",
		RunE: run(func(ctx context.Context, cmd *cobra.Command, s *app.AdminSession) error {
			tenantID, _ := cmd.Flags().GetString("tenant")
			channelID, _ := cmd.Flags().GetString("channel")
			if err := s.Store.AddTrackingChannel(ctx, tenantID, channelID); err != nil {
				return fmt.Errorf("failed to add channel %s: %w", channelID, err)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Channel %s now tracks tenant %s\n", channelID, tenantID)
			return err
		}),
	}
	add.Flags().String("tenant", "", "Tenant (guild) id")
	add.Flags().String("channel", "", "Discord channel id")
	mustRequire(add, "tenant", "channel")

	remove := &cobra.Command{
		Use:   "remove",
		Short: "Stop posting notifications to a channel",
		RunE: run(func(ctx context.Context, cmd *cobra.Command, s *app.AdminSession) error {
			channelID, _ := cmd.Flags().GetString("channel")
			if err := s.Store.RemoveTrackingChannel(ctx, channelID); err != nil {
				return fmt.Errorf("failed to remove channel %s: %w", channelID, err)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Channel %s removed\n", channelID)
			return err
		}),
	}
	remove.Flags().String("tenant", "", "Tenant (guild) id, informational")
	remove.Flags().String("channel", "", "Discord channel id")
	mustRequire(remove, "channel")

	cmd.AddCommand(add, remove)
	return cmd
}

func newTenantDeviceCmd(run sessionRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Manage smart devices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Usage()
		},
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Register a smart alarm, switch or storage monitor",
		RunE: run(func(ctx context.Context, cmd *cobra.Command, s *app.AdminSession) error {
			f := cmd.Flags()
			tenantID, _ := f.GetString("tenant")
			entityID, _ := f.GetInt64("entity")
			name, _ := f.GetString("name")
			typeName, _ := f.GetString("type")

			deviceType, err := store.ParseDeviceType(typeName)
			if err != nil {
				return err
			}
			err = s.Store.UpsertSmartDevice(ctx, store.SmartDevice{
				TenantID: tenantID,
				EntityID: entityID,
				Name:     name,
				Type:     deviceType,
			})
			if err != nil {
				return fmt.Errorf("failed to register device %d: %w", entityID, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Registered %s %q (%d) for tenant %s\n", deviceType, name, entityID, tenantID)
			return err
		}),
	}
	add.Flags().String("tenant", "", "Tenant (guild) id")
	add.Flags().Int64("entity", 0, "Entity id of the device")
	add.Flags().String("name", "", "Display name")
	add.Flags().String("type", "", "Device type: alarm, switch or storage")
	mustRequire(add, "tenant", "entity", "name", "type")

	cmd.AddCommand(add)
	return cmd
}

func newTenantWipeCmd(run sessionRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Record a server wipe and announce it",
		RunE: run(func(ctx context.Context, cmd *cobra.Command, s *app.AdminSession) error {
			tenantID, _ := cmd.Flags().GetString("tenant")
			atStr, _ := cmd.Flags().GetString("at")

			var at time.Time
			if atStr != "" {
				parsed, err := time.Parse(time.RFC3339, atStr)
				if err != nil {
					return fmt.Errorf("invalid --at timestamp: %w", err)
				}
				at = parsed
			}

			result, err := s.Service.RecordWipe(ctx, tenantID, at)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wipe recorded at %s for %d channel(s), %d notified\n",
				result.WipeTime.Format(time.RFC3339), result.Channels, result.Notified)
			return err
		}),
	}
	cmd.Flags().String("tenant", "", "Tenant (guild) id")
	cmd.Flags().String("at", "", "Wipe time in RFC 3339 (default now)")
	mustRequire(cmd, "tenant")
	return cmd
}

func newTenantListCmd(run sessionRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured tenants as JSON",
		RunE: run(func(ctx context.Context, cmd *cobra.Command, s *app.AdminSession) error {
			tenants, err := s.Store.ListTenants(ctx)
			if err != nil {
				return fmt.Errorf("failed to list tenants: %w", err)
			}
			if tenants == nil {
				tenants = []store.TenantConfig{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tenants)
		}),
	}
}
