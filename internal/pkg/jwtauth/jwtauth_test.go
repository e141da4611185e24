package jwtauth_test

import (
	"testing"
	"time"

	"github.com/Antonov75/gallery_service/internal/gallery/domain/models"
	"github.com/Antonov75/gallery_service/internal/pkg/jwtauth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	u := models.User{ //nolint:exhaustruct
		ID:       uuid.New(),
		Username: "someone",
	}

	token, err := jwtauth.GetToken(u, time.Hour, "secret")
	require.NoError(t, err)

	id, err := jwtauth.ValidateToken(token, "secret")
	require.NoError(t, err)
	require.Equal(t, u.ID, id)
}

func TestTokenWrongSecret(t *testing.T) {
	u := models.User{ //nolint:exhaustruct
		ID: uuid.New(),
	}

	token, err := jwtauth.GetToken(u, time.Hour, "secret")
	require.NoError(t, err)

	_, err = jwtauth.ValidateToken(token, "another_secret")
	require.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	u := models.User{ //nolint:exhaustruct
		ID: uuid.New(),
	}

	token, err := jwtauth.GetToken(u, -time.Minute, "secret")
	require.NoError(t, err)

	_, err = jwtauth.ValidateToken(token, "secret")
	require.Error(t, err)
}
