package migrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/clash-manager-go/log"
	"github.com/mpapenbr/clash-manager-go/pkg/cmd/app"
	"github.com/mpapenbr/clash-manager-go/pkg/config"
	dbmigrate "github.com/mpapenbr/clash-manager-go/pkg/db/migrate"
)

var ErrNoDatabase = errors.New("migrate requires the postgres store")

func NewMigrateCmd() *cobra.Command {
	var statusOnly bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs database migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.StoreKind != config.StorePostgres {
				return ErrNoDatabase
			}
			return startMigration(cmd, statusOnly)
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false, "only print the current schema version")
	return cmd
}

func startMigration(cmd *cobra.Command, statusOnly bool) error {
	if err := app.WaitForDB(cmd.Context()); err != nil {
		return err
	}
	dbURL := prepareURLForDB(config.DB)
	if !statusOnly {
		log.Info("Migrating database")
		if err := dbmigrate.MigrateDb(dbURL); err != nil {
			return err
		}
	}
	version, dirty, err := dbmigrate.Version(dbURL)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty: %t)\n", version, dirty)
	return nil
}

func prepareURLForDB(url string) string {
	options := "sslmode=disable"
	if strings.Contains(url, "sslmode=") {
		return url
	}
	if strings.Contains(url, "?") {
		return fmt.Sprintf("%s&%s", url, options)
	}
	return fmt.Sprintf("%s?%s", url, options)
}
