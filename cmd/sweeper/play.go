package main

import (
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/vancomm/sweeper/internal/logging"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/prompt"
	"github.com/vancomm/sweeper/internal/session"
	"github.com/vancomm/sweeper/internal/storage"
)

func init() {
	playCmd := &cobra.Command{
		Use:   "play [save-name]",
		Short: "Play in the terminal",
		Long: `Play in the terminal, optionally resuming a saved game.

A save that is missing or unreadable starts a new game instead.
Logs go to the rotating file set by log.file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPlay,
	}
	playCmd.Flags().Bool("debug", false, "print the solved board before the first move")
	if err := v.BindPFlag("debug", playCmd.Flags().Lookup("debug")); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(playCmd)
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = new(maphash.Hash).Sum64()
	}
	return rand.New(rand.NewPCG(seed, seed))
}

func runPlay(cmd *cobra.Command, args []string) error {
	fileLog, err := logging.NewFile(cfg)
	if err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	logging.Share(fileLog, log, mines.Log, storage.Log, prompt.Log, session.Log)
	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")

	ctx, stop := newContext()
	defer stop()

	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	player := prompt.NewPlayer(os.Stdin, cmd.OutOrStdout(), store)
	player.Debug = cfg.Debug

	game, err := player.LoadOrNew(ctx, name, cfg.Size, newRand(cfg.Seed))
	if err != nil {
		return err
	}
	outcome, err := player.Play(ctx, game)
	if err != nil {
		log.WithError(err).Error("game aborted")
		return err
	}
	log.WithField("outcome", outcome.String()).Info("game finished")
	return nil
}
