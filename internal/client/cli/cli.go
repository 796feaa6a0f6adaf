// Package cli команды консольного клиента Skyline Trips.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/skyline-trips/internal/client/api"
	"github.com/magabrotheeeer/skyline-trips/internal/client/store"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/jwt"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/sl"
)

// ErrNotLoggedIn команда требует входа.
var ErrNotLoggedIn = errors.New("not logged in, run login first")

// app общее состояние команд одного запуска.
type app struct {
	serverURL string
	tokenFile string
	timeout   time.Duration
	log       *slog.Logger

	client *api.Client
	state  *store.Store
}

// NewRootCommand создаёт корневую команду со всеми подкомандами.
func NewRootCommand(log *slog.Logger) *cobra.Command {
	a := &app{log: log}

	cmd := &cobra.Command{
		Use:           "skyline-cli",
		Short:         "Command-line client for the Skyline Trips API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	cmd.PersistentFlags().StringVarP(&a.serverURL, "server", "s", envOr("SKYLINE_SERVER", "http://localhost:8080"), "API server URL")
	cmd.PersistentFlags().StringVar(&a.tokenFile, "token-file", defaultTokenFile(), "file that keeps the session token")
	cmd.PersistentFlags().DurationVar(&a.timeout, "timeout", api.DefaultTimeout, "request timeout")

	cmd.AddCommand(
		newRegisterCommand(a),
		newLoginCommand(a),
		newLogoutCommand(a),
		newListCommand(a),
		newShowCommand(a),
		newLikeCommand(a, true),
		newLikeCommand(a, false),
		newCreateCommand(a),
		newUpdateCommand(a),
		newDeleteCommand(a),
		newReportCommand(a),
	)
	return cmd
}

func (a *app) init() error {
	if a.log == nil {
		a.log = sl.Discard()
	}
	a.client = api.NewClient(a.serverURL, a.timeout)
	a.state = store.New()

	data, err := os.ReadFile(a.tokenFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return nil
	}
	claims, err := jwt.ParseUnverified(token)
	if err != nil {
		a.log.Debug("stored token is unreadable, ignoring it", sl.Err(err))
		return nil
	}
	a.client.SetToken(token)
	a.state.SetSession(store.Session{Token: token, Identity: claims.Identity()})
	return nil
}

// requireSession возвращает ErrNotLoggedIn, если токена нет.
func (a *app) requireSession() error {
	if _, ok := a.state.Session(); !ok {
		return ErrNotLoggedIn
	}
	return nil
}

// saveSession записывает токен в файл и открывает сессию.
func (a *app) saveSession(token string) error {
	claims, err := jwt.ParseUnverified(token)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(a.tokenFile), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(a.tokenFile, []byte(token), 0o600); err != nil {
		return err
	}
	a.client.SetToken(token)
	a.state.SetSession(store.Session{Token: token, Identity: claims.Identity()})
	return nil
}

// dropSession удаляет файл токена и закрывает сессию.
func (a *app) dropSession() error {
	a.state.Logout()
	a.client.SetToken("")
	if err := os.Remove(a.tokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// check закрывает сессию, если сервер ответил 401.
func (a *app) check(err error) error {
	if err == nil {
		return nil
	}
	if api.IsUnauthorized(err) {
		if dropErr := a.dropSession(); dropErr != nil {
			a.log.Error("failed to remove token file", sl.Err(dropErr))
		}
		return fmt.Errorf("session expired, please log in again: %w", err)
	}
	return err
}

func (a *app) ctx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultTokenFile() string {
	if v := os.Getenv("SKYLINE_TOKEN_FILE"); v != "" {
		return v
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".skyline-token"
	}
	return filepath.Join(dir, "skyline-trips", "token")
}
