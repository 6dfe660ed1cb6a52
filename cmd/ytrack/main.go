package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sovego/ytrack/internal/app"
	"github.com/sovego/ytrack/internal/session"
	"github.com/sovego/ytrack/internal/tracker"
)

func main() {
	os.Exit(run())
}

func run() int {
	settingsPath := flag.String("settings", "", "override settings path (optional)")
	sessionPath := flag.String("session", "", "override session path (optional)")
	refreshMinutes := flag.Int("refresh", 0, "issue refresh interval in minutes (optional, defaults to 5m)")

	// Sign-in flow: exchange an OAuth authorization code and persist the
	// session, then exit.
	authCode := flag.String("auth-code", "", "OAuth authorization code to exchange for a token")
	clientID := flag.String("client-id", "", "OAuth application client id (with -auth-code)")
	clientSecret := flag.String("client-secret", "", "OAuth application client secret (with -auth-code)")
	orgID := flag.String("org-id", "", "Tracker organization id (with -auth-code)")
	orgType := flag.String("org-type", "yandex360", "organization type: yandex360 or cloud (with -auth-code)")
	logout := flag.Bool("logout", false, "discard the stored session and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *logout {
		if err := signOut(*sessionPath); err != nil {
			fmt.Fprintf(os.Stderr, "ytrack: %v\n", err)
			return 1
		}
		fmt.Println("Signed out.")
		return 0
	}

	if *authCode != "" {
		if err := signIn(ctx, *sessionPath, *authCode, *clientID, *clientSecret, *orgID, *orgType); err != nil {
			fmt.Fprintf(os.Stderr, "ytrack: %v\n", err)
			return 1
		}
		fmt.Println("Signed in. Run ytrack again to open the issue list.")
		return 0
	}

	logger, err := fileLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ytrack: init logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	opts := app.Options{
		SettingsPath: *settingsPath,
		SessionPath:  *sessionPath,
		Logger:       logger,
	}
	if mins := *refreshMinutes; mins > 0 {
		opts.RefreshEvery = time.Duration(mins) * time.Minute
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "ytrack: %v\n", err)
		return 1
	}
	return 0
}

func signIn(ctx context.Context, sessionPath, code, clientID, clientSecret, orgID, orgType string) error {
	token, err := tracker.ExchangeCode(ctx, clientID, clientSecret, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	store, err := session.NewStore(sessionPath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	if err := store.Save(session.Token{
		Token:   token.AccessToken,
		OrgID:   orgID,
		OrgType: orgType,
	}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func signOut(sessionPath string) error {
	store, err := session.NewStore(sessionPath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// fileLogger writes structured logs next to the config files. Logging to
// stderr would corrupt the TUI.
func fileLogger() (*zap.Logger, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return zap.NewNop(), nil
	}
	dir := filepath.Join(home, ".config", "ytrack")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zap.NewNop(), nil
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{filepath.Join(dir, "ytrack.log")}
	cfg.ErrorOutputPaths = []string{filepath.Join(dir, "ytrack.log")}
	return cfg.Build()
}
