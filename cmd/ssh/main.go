package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"go.uber.org/zap"

	"github.com/tomz197/meteorshtorm/internal/config"
	"github.com/tomz197/meteorshtorm/internal/draw"
	applog "github.com/tomz197/meteorshtorm/internal/logging"
	"github.com/tomz197/meteorshtorm/internal/loop/client"
	"github.com/tomz197/meteorshtorm/internal/loop/server"
	"github.com/tomz197/meteorshtorm/internal/persist"
)

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
	cfg.SSH.Host = config.GetEnv("SSH_HOST", cfg.SSH.Host)
	cfg.SSH.Port = config.GetEnv("SSH_PORT", cfg.SSH.Port)
	cfg.SSH.HostKeyPath = config.GetEnv("SSH_HOST_KEY", cfg.SSH.HostKeyPath)
	cfg.Database.DSN = config.GetEnv("DATABASE_DSN", cfg.Database.DSN)

	log, err := applog.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("ssh config",
		zap.String("host", cfg.SSH.Host),
		zap.String("port", cfg.SSH.Port),
		zap.String("host_key", cfg.SSH.HostKeyPath),
		zap.String("store", cfg.Store.Kind))

	store, closeStore, err := persist.Open(context.Background(), cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	// Shared by all SSH clients
	hub := server.NewServer(server.Options{
		Config:    cfg.Game,
		Store:     store,
		Namespace: cfg.Store.Namespace,
		Logger:    log,
	})

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port)),
		wish.WithMiddleware(
			gameMiddleware(hub, cfg.SSH, log),
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if cfg.SSH.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSH.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("ssh server listening", zap.String("addr", s.Addr))
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-done:
	}

	// Notify players and wait for them to disconnect
	log.Info("shutting down, notifying players", zap.Int("players", hub.Players()))
	hub.Shutdown(cfg.SSH.ShutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.SSH.ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("ssh server stopped")
	return nil
}

// gameMiddleware handles SSH sessions and runs the game client.
func gameMiddleware(hub *server.Server, cfg config.SSHConfig, log *zap.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			sessLog := log.With(zap.String("user", sess.User()), zap.String("remote", sess.RemoteAddr().String()))
			sessLog.Info("game session started",
				zap.String("term", pty.Term),
				zap.Int("width", pty.Window.Width),
				zap.Int("height", pty.Window.Height))

			// Create a terminal size tracker that updates on window changes
			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			c := client.NewClient(hub, bufio.NewReader(sess), sess, client.ClientOptions{
				TermSizeFunc:         sizeTracker.getSize,
				Username:             sess.User(),
				Logger:               sessLog,
				InactivityWarn:       cfg.IdleWarning,
				InactivityDisconnect: cfg.IdleTimeout,
			})
			if err := c.Run(); err != nil {
				sessLog.Warn("game error", zap.Error(err))
			}

			sessLog.Info("game session ended")
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
