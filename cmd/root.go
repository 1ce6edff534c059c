/*
	Copyright 2023 Markus Papenbrock
*/

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mpapenbr/clash-manager-go/pkg/cmd/app"
	exportCmd "github.com/mpapenbr/clash-manager-go/pkg/cmd/export"
	gpCmd "github.com/mpapenbr/clash-manager-go/pkg/cmd/gp"
	importCmd "github.com/mpapenbr/clash-manager-go/pkg/cmd/importcmd"
	inventoryCmd "github.com/mpapenbr/clash-manager-go/pkg/cmd/inventory"
	loadoutCmd "github.com/mpapenbr/clash-manager-go/pkg/cmd/loadout"
	migrateCmd "github.com/mpapenbr/clash-manager-go/pkg/cmd/migrate"
	seriesCmd "github.com/mpapenbr/clash-manager-go/pkg/cmd/series"
	statsCmd "github.com/mpapenbr/clash-manager-go/pkg/cmd/stats"
	"github.com/mpapenbr/clash-manager-go/pkg/config"
	"github.com/mpapenbr/clash-manager-go/version"
)

const envPrefix = "FCM"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = NewRootCmd()

// NewRootCmd creates the command tree with all sub commands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fcm",
		Short:   "Loadout manager for F1 Clash",
		Long:    ``,
		Version: version.FullVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.SetupLogger()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.fcm.yml)")
	cmd.PersistentFlags().StringVar(&config.DataDir, "data-dir", "data",
		"Directory of the json documents (file store)")
	cmd.PersistentFlags().StringVar(&config.StoreKind, "store", config.StoreFile,
		"Storage backend (file, postgres)")
	cmd.PersistentFlags().StringVar(&config.DB, "db",
		"postgresql://DB_USERNAME:DB_USER_PASSWORD@DB_HOST:5432/clash",
		"Connection string for the database")
	cmd.PersistentFlags().StringVar(&config.WaitForServices,
		"wait-for-services",
		"15s",
		"Duration to wait for other services to be ready")
	cmd.PersistentFlags().StringVar(&config.LogLevel, "log-level", "info",
		"controls the log level (debug, info, warn, error, fatal)")
	cmd.PersistentFlags().StringVar(&config.SQLLogLevel, "sql-log-level", "",
		"controls the log level for sql statements")
	cmd.PersistentFlags().StringVar(&config.LogFormat, "log-format", "text",
		"controls the log output format (json, text)")
	cmd.PersistentFlags().StringVar(&config.LogFilter, "log-filter", "",
		"zapfilter rules, e.g. \"debug:store* info+:*\"")
	cmd.PersistentFlags().StringVar(&config.CatalogTTL, "catalog-ttl", "0",
		"Duration after which the catalog is reloaded (0: keep until refreshed)")

	// add commands here
	cmd.AddCommand(loadoutCmd.NewLoadoutCmd())
	cmd.AddCommand(inventoryCmd.NewInventoryCmd())
	cmd.AddCommand(gpCmd.NewGrandPrixCmd())
	cmd.AddCommand(seriesCmd.NewSeriesCmd())
	cmd.AddCommand(statsCmd.NewStatsCmd())
	cmd.AddCommand(importCmd.NewImportCmd())
	cmd.AddCommand(exportCmd.NewExportCmd())
	cmd.AddCommand(migrateCmd.NewMigrateCmd())
	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".fcm" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".fcm")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindCommands(rootCmd, viper.GetViper())
}

func bindCommands(cmd *cobra.Command, v *viper.Viper) {
	bindFlags(cmd, v)
	for _, sub := range cmd.Commands() {
		bindCommands(sub, v)
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --data-dir to FCM_DATA_DIR
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
