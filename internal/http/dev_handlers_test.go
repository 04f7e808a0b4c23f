package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestDevTokenHandler(t *testing.T) {
	secret := []byte("test-secret")

	app := fiber.New()
	app.Get("/dev/token", DevTokenHandler(secret, time.Hour))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/dev/token", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)

	token, err := jwt.Parse(body.Token, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, DevUserID, claims["user_id"])
}
