package cli

import (
	"errors"

	"github.com/dmitrijs2005/adminauth/internal/common"
)

const defaultLocale = "en"

var supportedLocales = []string{"en", "fr"}

// sentinels is the match order for localization; more specific failures
// first.
var sentinels = []error{
	common.ErrAuthFailure,
	common.ErrInvalidOTP,
	common.ErrSessionExpired,
	common.ErrWeakPassword,
	common.ErrMismatch,
	common.ErrUnavailable,
	common.ErrUnexpected,
}

var messages = map[string]map[error]string{
	"en": {
		common.ErrAuthFailure:    "Invalid email or password.",
		common.ErrInvalidOTP:     "That one-time code is not valid.",
		common.ErrSessionExpired: "Your session has expired. Please log in again.",
		common.ErrWeakPassword:   "The password must be at least 12 characters and contain an upper-case letter, a digit and a symbol.",
		common.ErrMismatch:       "The two passwords do not match.",
		common.ErrUnavailable:    "The server cannot be reached. Please try again later.",
		common.ErrUnexpected:     "Something went wrong. Please try again.",
	},
	"fr": {
		common.ErrAuthFailure:    "Adresse e-mail ou mot de passe invalide.",
		common.ErrInvalidOTP:     "Ce code à usage unique n'est pas valide.",
		common.ErrSessionExpired: "Votre session a expiré. Veuillez vous reconnecter.",
		common.ErrWeakPassword:   "Le mot de passe doit contenir au moins 12 caractères, dont une majuscule, un chiffre et un symbole.",
		common.ErrMismatch:       "Les deux mots de passe ne correspondent pas.",
		common.ErrUnavailable:    "Le serveur est injoignable. Veuillez réessayer plus tard.",
		common.ErrUnexpected:     "Une erreur est survenue. Veuillez réessayer.",
	},
}

// localizeError maps a failure to the operator-facing message for the given
// locale, falling back to the default locale and finally to the raw error
// text for failures outside the taxonomy.
func localizeError(locale string, err error) string {
	for _, sentinel := range sentinels {
		if !errors.Is(err, sentinel) {
			continue
		}
		if msg, ok := messages[locale][sentinel]; ok {
			return msg
		}
		return messages[defaultLocale][sentinel]
	}
	return err.Error()
}

func isSupportedLocale(locale string) bool {
	for _, l := range supportedLocales {
		if l == locale {
			return true
		}
	}
	return false
}
