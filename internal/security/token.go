package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"dealdesk-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// publicLinkTokenBytes gives 256 bits of entropy per link token
const publicLinkTokenBytes = 32

// ApprovalClaims is the signed payload of an approval/rejection link
type ApprovalClaims struct {
	BookingRequestID int32                 `json:"booking_request_id"`
	Action           domain.ApprovalAction `json:"action"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GeneratePublicLinkToken() (string, error)
	GenerateApprovalToken(bookingRequestID int32, action domain.ApprovalAction) (string, error)
	ValidateApprovalToken(tokenString string) (*ApprovalClaims, error)
}

type tokenManager struct {
	secret   []byte
	validity time.Duration
}

func NewTokenManager(secret string, approvalValidity time.Duration) TokenManager {
	return &tokenManager{
		secret:   []byte(secret),
		validity: approvalValidity,
	}
}

// GeneratePublicLinkToken produces a URL-safe random token. Uniqueness is
// probabilistic here; the link store enforces it again with a unique index.
func (m *tokenManager) GeneratePublicLinkToken() (string, error) {
	buf := make([]byte, publicLinkTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate link token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (m *tokenManager) GenerateApprovalToken(bookingRequestID int32, action domain.ApprovalAction) (string, error) {
	now := time.Now()
	claims := ApprovalClaims{
		BookingRequestID: bookingRequestID,
		Action:           action,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(bookingRequestID)),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.validity)),
			Issuer:    "dealdesk",
			Audience:  jwt.ClaimStrings{"approval-link"},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateApprovalToken(tokenString string) (*ApprovalClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ApprovalClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ApprovalClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Action != domain.ApprovalActionApprove && claims.Action != domain.ApprovalActionReject {
		return nil, ErrInvalidToken
	}
	if claims.BookingRequestID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SecureCompare is a constant-time string equality check for bearer secrets.
// It must not short-circuit on the first mismatched byte.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
