// matchctl runs lifecycle corrections and audits against the covematch
// database without going through the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/localnerve/covematch/internal/config"
	"github.com/localnerve/covematch/internal/database"
	"github.com/localnerve/covematch/internal/services"
	"github.com/localnerve/covematch/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// operator is the caller every matchctl correction runs as
var operator = services.Caller{ID: "matchctl", IsAdmin: true}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "matchctl",
		Short:         "Operate on covematch intentions, pools and matches",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile := viper.GetString("env_file"); envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("failed to load %s: %w", envFile, err)
				}
			}
			return nil
		},
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	flags := root.PersistentFlags()
	flags.String("env-file", "", "load environment variables from this .env file")
	flags.String("db-type", "", "database type (DB_TYPE)")
	flags.String("db-host", "", "database host (DB_HOST)")
	flags.String("db-port", "", "database port (DB_PORT)")
	flags.String("db-database", "", "database name or sqlite path (DB_DATABASE)")
	flags.String("db-user", "", "database user (DB_USER)")
	flags.String("db-password", "", "database password (DB_PASSWORD)")
	flags.Duration("timeout", 30*time.Second, "operation timeout")

	_ = viper.BindPFlag("env_file", flags.Lookup("env-file"))
	_ = viper.BindPFlag("db.type", flags.Lookup("db-type"))
	_ = viper.BindPFlag("db.host", flags.Lookup("db-host"))
	_ = viper.BindPFlag("db.port", flags.Lookup("db-port"))
	_ = viper.BindPFlag("db.database", flags.Lookup("db-database"))
	_ = viper.BindPFlag("db.user", flags.Lookup("db-user"))
	_ = viper.BindPFlag("db.password", flags.Lookup("db-password"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))

	root.AddCommand(
		newAuditCmd(),
		newExpireCmd(),
		newCreateMatchCmd(),
		newDeleteMatchCmd(),
		newAddMemberCmd(),
		newRemoveMemberCmd(),
		newMoveMemberCmd(),
	)
	return root
}

// configFromViper starts from the service environment and applies any
// db.* overrides given as flags
func configFromViper() *config.Config {
	cfg := config.FromEnv()

	override := func(key string, dst *string) {
		if v := strings.TrimSpace(viper.GetString(key)); v != "" {
			*dst = v
		}
	}
	override("db.type", &cfg.DBType)
	override("db.host", &cfg.DBHost)
	override("db.port", &cfg.DBPort)
	override("db.database", &cfg.DBDatabase)
	override("db.user", &cfg.DBUser)
	override("db.password", &cfg.DBPassword)

	// One connection is plenty for a single command
	cfg.DBConnectionLimit = 1
	return cfg
}

// withLifecycle connects, migrates and hands fn a lifecycle bound to a
// context carrying the --timeout deadline
func withLifecycle(fn func(ctx context.Context, lifecycle *services.Lifecycle) error) error {
	cfg := configFromViper()
	if cfg.DBDatabase == "" {
		return fmt.Errorf("DB_DATABASE is required")
	}
	log := utils.NewLogger(cfg.LogLevel, "text")

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer func(db *gorm.DB) { _ = database.Close(db) }(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	lifecycle := services.NewLifecycle(db,
		services.WithLogger(log.WithField("component", "matchctl")),
		services.WithIntentionTTL(cfg.IntentionTTL),
		services.WithMatchTTL(cfg.MatchTTL),
	)

	ctx, cancel := context.WithTimeout(context.Background(), viper.GetDuration("timeout"))
	defer cancel()
	return fn(ctx, lifecycle)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return nil
}
