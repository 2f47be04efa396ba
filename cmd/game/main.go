package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tomz197/meteorshtorm/internal/config"
	"github.com/tomz197/meteorshtorm/internal/logging"
	"github.com/tomz197/meteorshtorm/internal/loop/client"
	"github.com/tomz197/meteorshtorm/internal/loop/server"
	"github.com/tomz197/meteorshtorm/internal/persist"
	"github.com/tomz197/meteorshtorm/internal/sound"
)

// defaultLogFile keeps log lines off the terminal the game draws on.
const defaultLogFile = "meteorshtorm.log"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.GetEnv("METEOR_CONFIG", ""))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = defaultLogFile
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	store, closeStore, err := persist.Open(context.Background(), cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	player := sound.New(cfg.Audio, log)
	defer player.Close()

	hub := server.NewServer(server.Options{
		Config:    cfg.Game,
		Store:     store,
		Namespace: cfg.Store.Namespace,
		Logger:    log,
	})

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	log.Info("game started", zap.String("store", cfg.Store.Kind), zap.Bool("audio", player != nil))

	c := client.NewClient(hub, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username: os.Getenv("USER"),
		Sound:    player,
		Logger:   log,
	})
	if err := c.Run(); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	return nil
}
