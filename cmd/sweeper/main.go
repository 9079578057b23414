package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/mines"
)

var (
	log = logrus.New()

	v          = config.New()
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "Minesweeper in the terminal or over HTTP",
	Long: `Minesweeper on an N by N board with N*N/8 mines.

Examples:
  sweeper play
  sweeper play --size 16 my-save
  sweeper serve --addr :8080 --store sqlite`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(v, configPath)
		return err
	},
}

func bindFlag(key, flag string, cmd *cobra.Command) {
	if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file path (yaml or json)")
	flags.String("mode", "production", "development or production")
	flags.Int("size", mines.DefaultSize, "board size")
	flags.Uint64("seed", 0, "random seed, 0 picks one")
	flags.String("store", config.StoreFile, "save store: file, sqlite or postgres")
	flags.String("save-dir", "saves", "directory of the file store")

	bindFlag("mode", "mode", rootCmd)
	bindFlag("size", "size", rootCmd)
	bindFlag("seed", "seed", rootCmd)
	bindFlag("store", "store", rootCmd)
	bindFlag("save_dir", "save-dir", rootCmd)
}

func newContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
