package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/tomz197/meteorshtorm/internal/config"
	"github.com/tomz197/meteorshtorm/internal/persist"
)

func TestIndexShowsHighScore(t *testing.T) {
	cfg := config.Defaults()
	cfg.Web.PublicHost = "play.example.org"
	store := persist.NewMemoryStore()

	h := indexHandler(store, cfg, zap.NewNop())

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "ssh -t play.example.org -p 2222") {
		t.Fatalf("page lacks the ssh command:\n%s", body)
	}
	if !strings.Contains(body, "No high score yet") {
		t.Fatal("empty store should show the placeholder")
	}

	if err := store.SaveHighScore(context.Background(), cfg.Store.Namespace, 1234); err != nil {
		t.Fatal(err)
	}
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rec.Body.String(), "High score: 1234") {
		t.Fatalf("page lacks the high score:\n%s", rec.Body.String())
	}
}

func TestIndexNotFound(t *testing.T) {
	h := indexHandler(persist.NewMemoryStore(), config.Defaults(), zap.NewNop())
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
