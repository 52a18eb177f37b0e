package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/adminauth/internal/common"
)

func TestLocalizeError_KnownSentinels(t *testing.T) {
	assert.Equal(t, "Invalid email or password.", localizeError("en", common.ErrAuthFailure))
	assert.Equal(t, "Adresse e-mail ou mot de passe invalide.", localizeError("fr", common.ErrAuthFailure))
}

func TestLocalizeError_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("%w: connect: connection refused", common.ErrUnavailable)
	assert.Equal(t, "The server cannot be reached. Please try again later.", localizeError("en", err))
}

func TestLocalizeError_UnknownLocaleFallsBack(t *testing.T) {
	assert.Equal(t, "That one-time code is not valid.", localizeError("de", common.ErrInvalidOTP))
}

func TestLocalizeError_OutsideTaxonomy(t *testing.T) {
	err := errors.New("something odd")
	assert.Equal(t, "something odd", localizeError("en", err))
}

func TestEveryLocaleCoversEverySentinel(t *testing.T) {
	for _, locale := range supportedLocales {
		for _, sentinel := range sentinels {
			assert.NotEmpty(t, messages[locale][sentinel], "locale %s misses %v", locale, sentinel)
		}
	}
}

func TestIsSupportedLocale(t *testing.T) {
	assert.True(t, isSupportedLocale("en"))
	assert.True(t, isSupportedLocale("fr"))
	assert.False(t, isSupportedLocale("de"))
}
