package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNewAccessToken(t *testing.T) {
    at, err := NewAccessToken("secret", 7, "CUSTOMER", 15)
    require.NoError(t, err)
    assert.NotEmpty(t, at.Token)
    assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, 5*time.Second)

    tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
        return []byte("secret"), nil
    })
    require.NoError(t, err)
    require.True(t, tok.Valid)
    claims := tok.Claims.(jwt.MapClaims)
    assert.Equal(t, float64(7), claims["sub"])
    assert.Equal(t, "CUSTOMER", claims["role"])

    _, err = jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
        return []byte("wrong"), nil
    })
    assert.Error(t, err)
}

func TestNewRefreshToken(t *testing.T) {
    rt, err := NewRefreshToken(30)
    require.NoError(t, err)
    assert.Len(t, rt.Raw, 96)

    other, err := NewRefreshToken(30)
    require.NoError(t, err)
    assert.NotEqual(t, rt.Raw, other.Raw)

    // Hashing is deterministic and never returns the raw token.
    h := HashRefreshRaw(rt.Raw)
    assert.Equal(t, h, HashRefreshRaw(rt.Raw))
    assert.NotEqual(t, rt.Raw, h)
    assert.Len(t, h, 64)
}

func TestPasswordHashing(t *testing.T) {
    hash, err := HashPassword("s3cret-pass", 4)
    require.NoError(t, err)
    assert.True(t, VerifyPassword(hash, "s3cret-pass"))
    assert.False(t, VerifyPassword(hash, "wrong"))
}
