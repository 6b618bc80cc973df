package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"grocery-route-service/internal/adapters/repositories"
	"grocery-route-service/internal/config"
	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/platform/db"
	"grocery-route-service/internal/ports"
)

var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "List candidate stores from the database (or the seed file with --seed-only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closeFn, err := openStoreRepository(config.FromEnv(), seedOnly)
		if err != nil {
			return err
		}
		defer closeFn()

		stores, err := repo.ListStores(cmd.Context())
		if err != nil {
			return err
		}
		return printStores(cmd, stores)
	},
}

var seedOnly bool

func init() {
	storesCmd.Flags().BoolVar(&seedOnly, "seed-only", false, "read the seed file without touching a database")
	rootCmd.AddCommand(storesCmd)
}

func openStoreRepository(cfg config.AppConfig, seedOnly bool) (ports.StoreRepository, func(), error) {
	if seedOnly {
		stores, err := repositories.LoadStoreSeeds(cfg.SeedPath)
		if err != nil {
			return nil, nil, err
		}
		return repositories.StaticStoreRepository{Stores: stores}, func() {}, nil
	}

	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewSQLStoreRepository(conn), func() { conn.Close() }, nil
	}

	conn, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewSQLStoreRepository(conn), func() { conn.Close() }, nil
}

func printStores(cmd *cobra.Command, stores []domain.Store) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tADDRESS\tLOCATION")
	for _, s := range stores {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.Address, s.Location)
	}
	return tw.Flush()
}
