// Package cli is the interactive reference consumer of the auth core: a
// small REPL that drives login, second-factor management, and password
// reset against the remote admin API.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/dmitrijs2005/adminauth/internal/client/api"
	"github.com/dmitrijs2005/adminauth/internal/client/config"
	"github.com/dmitrijs2005/adminauth/internal/client/repositories/prefs"
	"github.com/dmitrijs2005/adminauth/internal/client/services"
	"github.com/dmitrijs2005/adminauth/internal/client/session"
	"github.com/dmitrijs2005/adminauth/internal/dbx"
	"github.com/dmitrijs2005/adminauth/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   *session.Store
	session *services.SessionService
	otp     *services.OTPService
	reset   *services.ResetService
	prefs   prefs.Repository
	db      *sql.DB
	reader  *bufio.Reader

	locale  string
	email   string
	adminID string
	// otpOn mirrors the account's second-factor flag so the prompt and help
	// reflect how the next login will behave. Kept fresh by the OTP
	// service's toggle hook.
	otpOn bool
}

func NewApp(cfg *config.Config, logger logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := prefs.Open(ctx, cfg.PrefsDBPath)
	if err != nil {
		return nil, err
	}
	prefsRepo := prefs.NewSQLiteRepository(db)

	store := session.NewStore()
	apiClient, err := api.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, store)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{
		config:  cfg,
		logger:  logger,
		store:   store,
		session: services.NewSessionService(apiClient, store, logger),
		otp:     services.NewOTPService(apiClient, logger),
		reset:   services.NewResetService(apiClient, logger),
		prefs:   prefsRepo,
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
	}
	a.otp.OnToggle(a.onOTPToggled)

	if locale, err := prefsRepo.Get(ctx, prefs.KeyLocale); err == nil && locale != "" {
		a.locale = locale
	} else {
		a.locale = defaultLocale
	}
	if email, err := prefsRepo.Get(ctx, prefs.KeyLastEmail); err == nil {
		a.email = email
	}
	return a, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.store.State() == session.StateAuthenticated
}

// onOTPToggled runs after a successful enable-confirm or disable. The
// account flag flips relative to its previous value; a real profile fetch
// would go here if the API exposed one.
func (a *App) onOTPToggled(ctx context.Context) {
	a.otpOn = !a.otpOn
	a.logger.Debug(ctx, "account second-factor flag refreshed", "enabled", a.otpOn)
}

// rememberLogin persists the operator's email and locale in one
// transaction, so a later session starts with the same prompt defaults.
func (a *App) rememberLogin(ctx context.Context, email string) {
	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := prefs.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, prefs.KeyLastEmail, email); err != nil {
			return err
		}
		return repo.Set(ctx, prefs.KeyLocale, a.locale)
	})
	if err != nil {
		a.logger.Warn(ctx, "failed to persist login preferences", "error", err)
	}
}
