package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrilink/internal/models"
)

const secret = "test-secret"

type admins map[string]models.Admin

func (a admins) FindAdminByEmail(_ context.Context, email string) (models.Admin, error) {
	admin, ok := a[email]
	if !ok {
		return models.Admin{}, ErrAdminNotFound
	}
	return admin, nil
}

func newAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	store := admins{"ops@agrilink.co.tz": {ID: primitive.NewObjectID(), Email: "ops@agrilink.co.tz", PasswordHash: hash}}
	return NewAuthenticator(store, secret, time.Minute)
}

func TestAdminLogin(t *testing.T) {
	a := newAuthenticator(t)

	token, err := a.Login(context.Background(), "  OPS@agrilink.co.tz ", "s3cret!")
	require.NoError(t, err)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims["role"])
	assert.Equal(t, "ops@agrilink.co.tz", claims["email"])
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	a := newAuthenticator(t)

	_, err := a.Login(context.Background(), "ops@agrilink.co.tz", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = a.Login(context.Background(), "nobody@agrilink.co.tz", "s3cret!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = a.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenRejectsForeignSecretAndExpiry(t *testing.T) {
	id := primitive.NewObjectID()
	token, err := IssueUserToken(id, "a@b.c", "other", time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(token, secret)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	expired, err := IssueUserToken(id, "a@b.c", secret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": id.Hex()}).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ParseToken(noExp, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)

	_, ok = BearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = BearerToken("")
	assert.False(t, ok)
}
