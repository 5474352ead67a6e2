package utils

import (
	"testing"

	"ftm/src/config"
	"ftm/src/types"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestComputeDepositAmount(t *testing.T) {
	cases := []struct {
		name     string
		proposed string
		want     int64
	}{
		{"plain number", "500", 12500},
		{"currency prefix", "$500 flat fee", 12500},
		{"decimal price", "249.99", 6250},
		{"empty falls back", "", config.DEFAULT_DEPOSIT_MINOR},
		{"no digits falls back", "let's talk", config.DEFAULT_DEPOSIT_MINOR},
		{"zero falls back", "$0", config.DEFAULT_DEPOSIT_MINOR},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ComputeDepositAmount(c.proposed))
		})
	}
}

func TestSlugFor(t *testing.T) {
	assert.Equal(t, "el-fuego-grande-42", SlugFor("El Fuego Grande!", 42))
	assert.Equal(t, "summer-fest-1", SlugFor("Summer Fest", 1))
}

func TestGenerateJWT(t *testing.T) {
	token, err := GenerateJWT("someone@example.com", 7, string(types.ROLE_TRUCK_OWNER), string(types.TIER_BASIC))
	assert.Nil(t, err)
	assert.NotEmpty(t, token)

	claims := &types.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	assert.Nil(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "someone@example.com", claims.Username)
	assert.Equal(t, string(types.ROLE_TRUCK_OWNER), claims.Role)
	assert.Equal(t, string(types.TIER_BASIC), claims.Tier)
	assert.Equal(t, "7", claims.Subject)
}
