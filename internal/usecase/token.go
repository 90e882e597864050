package usecase

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// mintToken signs a fresh credential for the user. The token is opaque to
// callers; the stored copy on the Profile is what validation compares
// against, so rotation invalidates older tokens even before their own
// expiry. A unique jti keeps two issuances within the same second from
// colliding.
func (uc *VerificationUseCase) mintToken(userID uint) (string, time.Time, error) {
	now := uc.now().UTC()
	expiry := now.Add(uc.cfg.TokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}
	if uc.cfg.JWTAudience != "" {
		claims.Audience = jwt.ClaimStrings{uc.cfg.JWTAudience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(uc.cfg.JWTSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}
