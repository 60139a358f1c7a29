package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

// JwtIssuer is the issuer claim stamped into every token this service signs.
const JwtIssuer = "TalentSift"

var secretKey = os.Getenv("SECRET_KEY")

// GenerateStandardToken signs a one hour access token for the given user id.
// The second return value is reserved for a refresh token.
func GenerateStandardToken(id uuid.UUID) (string, string, error) {
	return GenerateTokenWithDuration(id, time.Hour, JwtIssuer)
}

// GenerateTokenWithDuration signs an access token with an explicit lifetime
// and issuer. Tests use it to mint expired or foreign tokens.
func GenerateTokenWithDuration(id uuid.UUID, duration time.Duration, issuer string) (string, string, error) {
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   id.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})

	signedToken, err := accessToken.SignedString([]byte(secretKey))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, "", nil
}

// ValidatedToken parses and verifies a signed token, rejecting any signing
// method other than HMAC. Claims are *jwt.RegisteredClaims.
func ValidatedToken(encodedToken string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(encodedToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, valid := token.Method.(*jwt.SigningMethodHMAC); !valid {
			return nil, fmt.Errorf("invalid token signing method")
		}
		return []byte(secretKey), nil
	})
}
