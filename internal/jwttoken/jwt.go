package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "complimart/pkg/domain"
	authmw "complimart/pkg/platform/middleware/auth"
	derrors "complimart/pkg/domain-errors"
)

// Claims represents the JWT claims the marketplace backend issues for a
// logged-in session. The notification engine only consumes user_id and role.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService handles JWT creation and validation.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewJWTService(signingKey string, issuer string, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// GenerateSessionToken mints a signed session token. Used by tests and local
// development; in production tokens come from the marketplace auth service
// sharing the same signing key.
func (s *JWTService) GenerateSessionToken(userID string, role id.Role, expiresIn time.Duration) (string, error) {
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// ValidateToken parses and verifies a session token, returning the claims the
// auth middleware injects into request context.
func (s *JWTService) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeUnauthorized, "invalid session token")
	}
	if !token.Valid {
		return nil, derrors.New(derrors.CodeUnauthorized, "invalid session token")
	}

	role, err := id.ParseRole(claims.Role)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeUnauthorized, "unsupported role claim")
	}

	return &authmw.JWTClaims{
		UserID: claims.UserID,
		Role:   role,
		JTI:    claims.ID,
	}, nil
}
