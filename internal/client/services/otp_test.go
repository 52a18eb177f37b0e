package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/adminauth/internal/common"
)

const testProvisioningURL = "otpauth://totp/AdminConsole:ops@example.com?secret=JBSWY3DPEHPK3PXP&issuer=AdminConsole"

func TestOTPEnable_ParsesProvisioningURL(t *testing.T) {
	fc := &fakeClient{EnableURL: testProvisioningURL}
	svc := NewOTPService(fc, newTestLogger())

	enr, err := svc.Enable(context.Background(), "admin-1")
	require.NoError(t, err)

	assert.Equal(t, testProvisioningURL, enr.ProvisioningURL)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", enr.Secret)
	assert.Equal(t, "AdminConsole", enr.Issuer)
	assert.Equal(t, "ops@example.com", enr.AccountName)
	assert.Equal(t, "admin-1", fc.LastAdminID)
}

func TestOTPEnable_UnparsablePayloadStillReturned(t *testing.T) {
	fc := &fakeClient{EnableURL: "otpauth://%zz"}
	svc := NewOTPService(fc, newTestLogger())

	enr, err := svc.Enable(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "otpauth://%zz", enr.ProvisioningURL)
	assert.Empty(t, enr.Secret)
}

func TestOTPEnable_ServerError(t *testing.T) {
	fc := &fakeClient{EnableErr: common.ErrUnexpected}
	svc := NewOTPService(fc, newTestLogger())

	_, err := svc.Enable(context.Background(), "admin-1")
	require.ErrorIs(t, err, common.ErrUnexpected)
}

func TestOTPConfirm_SuccessFiresToggleHook(t *testing.T) {
	fc := &fakeClient{}
	svc := NewOTPService(fc, newTestLogger())

	toggled := 0
	svc.OnToggle(func(context.Context) { toggled++ })

	require.NoError(t, svc.Confirm(context.Background(), "admin-1", "123456"))
	assert.Equal(t, 1, toggled)
	assert.Equal(t, 1, fc.ValidateCalls)
}

func TestOTPConfirm_WrongCode_NoToggleAndRetriable(t *testing.T) {
	fc := &fakeClient{ValidateErr: common.ErrInvalidOTP}
	svc := NewOTPService(fc, newTestLogger())

	toggled := 0
	svc.OnToggle(func(context.Context) { toggled++ })

	err := svc.Confirm(context.Background(), "admin-1", "000000")
	require.ErrorIs(t, err, common.ErrInvalidOTP)
	assert.Zero(t, toggled)

	// The enrollment is not consumed by a wrong code.
	fc.ValidateErr = nil
	require.NoError(t, svc.Confirm(context.Background(), "admin-1", "123456"))
	assert.Equal(t, 1, toggled)
}

func TestOTPDisable_SuccessFiresToggleHook(t *testing.T) {
	fc := &fakeClient{}
	svc := NewOTPService(fc, newTestLogger())

	toggled := 0
	svc.OnToggle(func(context.Context) { toggled++ })

	require.NoError(t, svc.Disable(context.Background(), "admin-1", "123456"))
	assert.Equal(t, 1, toggled)
	assert.Equal(t, 1, fc.DisableCalls)
}

func TestOTPDisable_WrongCodeLeavesFactorEnabled(t *testing.T) {
	fc := &fakeClient{DisableErr: common.ErrInvalidOTP}
	svc := NewOTPService(fc, newTestLogger())

	toggled := 0
	svc.OnToggle(func(context.Context) { toggled++ })

	err := svc.Disable(context.Background(), "admin-1", "000000")
	require.ErrorIs(t, err, common.ErrInvalidOTP)
	assert.Zero(t, toggled)
}

func TestOTPValidate_StandaloneCheck_NeverTogglesAccount(t *testing.T) {
	fc := &fakeClient{}
	svc := NewOTPService(fc, newTestLogger())

	toggled := 0
	svc.OnToggle(func(context.Context) { toggled++ })

	require.NoError(t, svc.Validate(context.Background(), "admin-1", "123456"))
	assert.Zero(t, toggled)
	assert.Equal(t, 1, fc.ValidateCalls)
}
