package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"scribehub/models"
)

const testSecret = "test-secret"

func TestJWTRoundTrip(t *testing.T) {
	user := &models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Alice",
		Email: "alice@example.com",
	}

	token, err := GenerateJWTToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := VerifyJWTToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Name, claims.Name)
}

func TestVerifyJWTToken_WrongSecret(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "a@b.co"}

	token, err := GenerateJWTToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = VerifyJWTToken(token, "other-secret")
	assert.Error(t, err)
}

func TestVerifyJWTToken_Expired(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "a@b.co"}

	token, err := GenerateJWTToken(user, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = VerifyJWTToken(token, testSecret)
	assert.Error(t, err)
}

func TestGetUserIDFromToken(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "a@b.co"}

	token, err := GenerateJWTToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	id, err := GetUserIDFromToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}
