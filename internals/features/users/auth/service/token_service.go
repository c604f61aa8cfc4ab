// file: internals/features/users/auth/service/token_service.go
package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	authModel "pdpi_backend/internals/features/users/auth/model"
)

var ErrInvalidToken = errors.New("token tidak valid")

// Claims access token.
type Claims struct {
	Role     string `json:"role"`
	BranchID string `json:"branch_id,omitempty"`
	MemberID string `json:"member_id,omitempty"`
	Name     string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type TokenService struct {
	Secret []byte
	TTL    time.Duration
	Leeway time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{Secret: []byte(secret), TTL: ttl, Leeway: 30 * time.Second, now: time.Now}
}

// Issue menandatangani access token HS256 untuk user.
func (s *TokenService) Issue(u *authModel.UserModel) (string, time.Time, error) {
	if len(s.Secret) == 0 {
		return "", time.Time{}, errors.New("JWT_SECRET kosong")
	}
	now := s.now()
	exp := now.Add(s.TTL)
	claims := Claims{
		Role: u.UserRole,
		Name: u.UserName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.UserID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	if u.UserBranchID != nil {
		claims.BranchID = u.UserBranchID.String()
	}
	if u.UserMemberID != nil {
		claims.MemberID = u.UserMemberID.String()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse memverifikasi signature + exp (dengan leeway).
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.Parser{SkipClaimsValidation: true, ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil || s.now().After(claims.ExpiresAt.Add(s.Leeway)) {
		return nil, fmt.Errorf("%w: expired", ErrInvalidToken)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("%w: subject", ErrInvalidToken)
	}
	return claims, nil
}

// HashToken: kunci blacklist (token mentah tidak disimpan).
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
