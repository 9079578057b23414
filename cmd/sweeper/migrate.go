package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/sweeper/internal/database"
	"github.com/vancomm/sweeper/internal/logging"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the postgres store",
		RunE: func(cmd *cobra.Command, args []string) error {
			log = logging.NewConsole(cfg)
			version, dirty, err := database.Migrate(cfg)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"version": version,
				"dirty":   dirty,
			}).Info("migrations applied")
			return nil
		},
	})
}
