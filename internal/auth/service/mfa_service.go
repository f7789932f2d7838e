package service

//go:generate mockgen -destination=../../mocks/mock_mfa_verifier.go -package=mocks github.com/akiliz/swedish-eco-property-hub-sub000/internal/auth/service MfaVerifier

import (
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/akiliz/swedish-eco-property-hub-sub000/pkg/clock"
)

type MfaVerifier interface {
	GenerateSecret(accountEmail string) (string, string, error)
	VerifyCode(secret, code string) bool
}

// TotpService provisions and checks time-based one-time codes. Standard
// parameters throughout: 30s period, six digits, SHA1.
type TotpService struct {
	issuer string
	clock  clock.Clock
}

func NewTotpService(issuer string, clk clock.Clock) *TotpService {
	return &TotpService{issuer: issuer, clock: clk}
}

// GenerateSecret returns a fresh base32 secret and the otpauth:// URI an
// authenticator app enrolls with. It does not enable MFA by itself.
func (s *TotpService) GenerateSecret(accountEmail string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: accountEmail,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
		SecretSize:  20,
	})
	if err != nil {
		return "", "", err
	}

	return key.Secret(), key.URL(), nil
}

// VerifyCode accepts codes from the current time step or one adjacent step
// on either side, tolerating small clock skew on the client device.
func (s *TotpService) VerifyCode(secret, code string) bool {
	valid, err := totp.ValidateCustom(code, secret, s.clock.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})

	return err == nil && valid
}
