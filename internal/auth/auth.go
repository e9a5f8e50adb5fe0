// Package auth issues and verifies the HS256 tokens used by the admin console
// and by signed-in customers, and checks admin credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"agrilink/internal/models"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrInvalidToken       = errors.New("invalid token")
)

type AdminStore interface {
	// FindAdminByEmail returns ErrAdminNotFound when no admin has email.
	FindAdminByEmail(ctx context.Context, email string) (models.Admin, error)
}

type Authenticator struct {
	admins    AdminStore
	secret    string
	accessTTL time.Duration
}

func NewAuthenticator(admins AdminStore, secret string, accessTTL time.Duration) *Authenticator {
	return &Authenticator{admins: admins, secret: secret, accessTTL: accessTTL}
}

// Login checks an admin's password and returns a signed admin token.
func (a *Authenticator) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return "", ErrInvalidCredentials
	}

	admin, err := a.admins.FindAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("find admin: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return IssueAdminToken(admin, a.secret, a.accessTTL)
}

func IssueAdminToken(admin models.Admin, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   admin.ID.Hex(),
		"role":  RoleAdmin,
		"email": admin.Email,
		"exp":   time.Now().Add(ttl).Unix(),
	}
	return sign(claims, secret)
}

// IssueUserToken signs a customer token carrying the userId claim.
func IssueUserToken(userID primitive.ObjectID, email, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":    userID.Hex(),
		"userId": userID.Hex(),
		"role":   RoleCustomer,
		"email":  email,
		"exp":    time.Now().Add(ttl).Unix(),
	}
	return sign(claims, secret)
}

func sign(claims jwt.MapClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies signature and expiry and returns the claims.
func ParseToken(raw, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
