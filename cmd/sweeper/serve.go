package main

import (
	"github.com/spf13/cobra"

	"github.com/vancomm/sweeper/internal/app"
	"github.com/vancomm/sweeper/internal/logging"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/session"
	"github.com/vancomm/sweeper/internal/storage"
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve games over HTTP and websockets",
		RunE:  runServe,
	}
	serveCmd.Flags().String("addr", ":8080", "listen address")
	if err := v.BindPFlag("addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log = logging.NewConsole(cfg)
	logging.Share(log, mines.Log, storage.Log, session.Log)
	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")

	ctx, stop := newContext()
	defer stop()

	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	return app.New(log, cfg, store).Start(ctx)
}
