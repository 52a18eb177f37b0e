package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/adminauth/internal/client/repositories/prefs"
)

// status is what the prompt shows between the binary name and the chevron:
// the remembered email plus the session state.
func (a *App) status() string {
	s := ""
	if a.email != "" {
		s = a.email + " "
	}
	switch {
	case a.isLoggedIn():
		s += "authenticated"
	case a.store.ChallengePending():
		s += "awaiting code"
	default:
		s += "anonymous"
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) setLocale(locale string) error {
	if !isSupportedLocale(locale) {
		return fmt.Errorf("unsupported locale %q", locale)
	}
	a.locale = locale
	ctx := context.Background()
	if err := a.prefs.Set(ctx, prefs.KeyLocale, locale); err != nil {
		a.logger.Warn(ctx, "failed to persist locale", "error", err)
	}
	return nil
}

// printErr renders a failure in the operator's locale.
func (a *App) printErr(err error) {
	fmt.Println(localizeError(a.locale, err))
}

func (a *App) Run(ctx context.Context) {
	log.Println("Admin console auth CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, scanner)
}
