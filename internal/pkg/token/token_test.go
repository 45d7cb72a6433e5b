package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	signed, err := Issue(42, "secret", time.Minute)
	require.NoError(t, err)

	claims, err := Parse(signed, "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestParse_Rejects(t *testing.T) {
	valid, err := Issue(7, "secret", time.Minute)
	require.NoError(t, err)
	expired, err := Issue(7, "secret", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"empty", "", "secret"},
		{"garbage", "not-a-token", "secret"},
		{"wrong secret", valid, "other"},
		{"expired", expired, "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.token, tt.secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
