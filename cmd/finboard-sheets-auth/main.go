// Command finboard-sheets-auth runs the OAuth installed-app flow once and
// stores the resulting user token for the alert worker's Sheets exporter.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"

	"finboard/internal/log"
	gsheet "finboard/internal/sheets/google"
)

const authTimeout = 5 * time.Minute

func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: log.ComponentSheets, Output: os.Stderr})

	if err := run(logger); err != nil {
		logger.Error("Authorization failed", log.FieldError, err.Error())
		os.Exit(1)
	}
}

func run(logger *log.Logger) error {
	cfg, err := gsheet.OAuthConfig()
	if err != nil {
		return err
	}

	// The redirect URI must be listed on the OAuth client.
	port := os.Getenv("OAUTH_REDIRECT_PORT")
	if port == "" {
		port = "8085"
	}
	cfg.RedirectURL = "http://localhost:" + port + "/callback"

	state := uuid.NewString()
	codes := make(chan string, 1)
	failures := make(chan error, 1)

	r := chi.NewRouter()
	r.Get("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("error") != "":
			http.Error(w, "OAuth error: "+q.Get("error"), http.StatusBadRequest)
			notify(failures, fmt.Errorf("authorization denied: %s", q.Get("error")))
		case q.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
		default:
			fmt.Fprintln(w, "You may close this window and return to the terminal.")
			notify(codes, q.Get("code"))
		}
	})

	srv := &http.Server{Addr: "localhost:" + port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			notify(failures, err)
		}
	}()
	defer srv.Close()

	fmt.Printf("Open this URL to authorize:\n%s\n", cfg.AuthCodeURL(state, oauth2.AccessTypeOffline))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	var code string
	select {
	case code = <-codes:
	case err := <-failures:
		return err
	case <-ctx.Done():
		return fmt.Errorf("waiting for authorization: %w", ctx.Err())
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("token exchange: %w", err)
	}

	path := gsheet.TokenFile()
	if err := gsheet.SaveToken(path, tok); err != nil {
		return err
	}
	logger.Info("Saved OAuth token", "path", path)
	return nil
}

// notify delivers v unless a value is already waiting; only the first
// callback counts.
func notify[T any](ch chan<- T, v T) {
	select {
	case ch <- v:
	default:
	}
}
