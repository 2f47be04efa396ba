package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/meteorshtorm/internal/config"
	"github.com/tomz197/meteorshtorm/internal/logging"
	"github.com/tomz197/meteorshtorm/internal/persist"
)

//go:embed index.html
var htmlPage string

var pageTmpl = template.Must(template.New("index").Parse(htmlPage))

type pageData struct {
	SSHHost   string
	SSHPort   string
	HighScore int
}

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
	cfg.Web.Host = config.GetEnv("WEB_HOST", cfg.Web.Host)
	cfg.Web.Port = config.GetEnv("WEB_PORT", cfg.Web.Port)
	cfg.Web.PublicHost = config.GetEnv("SSH_DISPLAY_HOST", cfg.Web.PublicHost)
	cfg.SSH.Port = config.GetEnv("SSH_PORT", cfg.SSH.Port)
	cfg.Database.DSN = config.GetEnv("DATABASE_DSN", cfg.Database.DSN)

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

	mux := http.NewServeMux()
	mux.HandleFunc("/", indexHandler(store, cfg, log))

	addr := net.JoinHostPort(cfg.Web.Host, cfg.Web.Port)
	log.Info("web server listening", zap.String("addr", "http://"+addr))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func indexHandler(store persist.Store, cfg *config.Config, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		data := pageData{SSHHost: cfg.Web.PublicHost, SSHPort: cfg.SSH.Port}
		score, err := store.LoadHighScore(r.Context(), cfg.Store.Namespace)
		switch {
		case err == nil:
			data.HighScore = score
		case !errors.Is(err, persist.ErrNotFound):
			log.Warn("load high score", zap.Error(err))
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTmpl.Execute(w, data); err != nil {
			log.Warn("render page", zap.Error(err))
		}
	}
}
