package migration

import (
	"errors"
	"fmt"
	"path"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
)

func newMigrate(sourceURL string, dsn string) *migrate.Migrate {
	m, err := migrate.New(sourceURL, "mysql://"+dsn)
	if err != nil {
		panic(err)
	}
	return m
}

func finish(err error) {
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		panic(err)
	}
}

// MigrateCommand returns the up/down command tree.
func MigrateCommand(dsn string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "migrate",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "migrate up all the way",
		Run: func(cmd *cobra.Command, args []string) {
			m := newMigrate("file://migrations", dsn)
			finish(m.Up())
			fmt.Println("Migrated up successfully")
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "migrate down one version",
		Run: func(cmd *cobra.Command, args []string) {
			m := newMigrate("file://migrations", dsn)
			finish(m.Steps(-1))
			fmt.Println("Migrated down successfully")
		},
	}

	rootCmd.AddCommand(upCmd, downCmd)
	return rootCmd
}

// MigrateUpForTesting brings the test database to the latest version.
func MigrateUpForTesting(rootDir string, dsn string) {
	m := newMigrate("file://"+path.Join(rootDir, "migrations"), dsn)
	finish(m.Up())
}
