package cache

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"janmat/backend/internal/config"
)

// OTPService issues and verifies short-lived one-time codes. At most one
// code is live per account: issuing a new one overwrites the previous.
type OTPService struct {
	Cache *Resilient
}

func NewOTPService(c *Resilient) *OTPService {
	return &OTPService{Cache: c}
}

// Issue generates a 6-digit code for the account and stores it with the
// fixed expiry. The code is returned so the caller can deliver it.
func (s *OTPService) Issue(ctx context.Context, account string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	s.Cache.Set(ctx, otpKey(account), code, config.OTPExpiry)
	return code, nil
}

// Verify checks the submitted code and consumes it on the first success.
// A second verification with the same code fails.
func (s *OTPService) Verify(ctx context.Context, account, code string) bool {
	stored, ok := s.Cache.Get(ctx, otpKey(account))
	if !ok || stored != code {
		return false
	}
	s.Cache.Del(ctx, otpKey(account))
	return true
}

func otpKey(account string) string {
	return "otp:" + account
}

func generateCode() (string, error) {
	// Uniform in [100000, 999999].
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
