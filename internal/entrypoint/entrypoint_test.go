package entrypoint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSRFSecret(t *testing.T) {
	t.Run("generates a random secret", func(t *testing.T) {
		a, err := loadCSRFSecret("")
		require.NoError(t, err)
		b, err := loadCSRFSecret("")
		require.NoError(t, err)

		assert.Len(t, a, 32)
		assert.NotEqual(t, a, b)
	})

	t.Run("decodes hex", func(t *testing.T) {
		secret, err := loadCSRFSecret(strings.Repeat("ab", 32))
		require.NoError(t, err)
		assert.Len(t, secret, 32)
		assert.Equal(t, byte(0xab), secret[0])
	})

	t.Run("accepts 32 raw bytes", func(t *testing.T) {
		raw := strings.Repeat("k", 32)
		secret, err := loadCSRFSecret(raw)
		require.NoError(t, err)
		assert.Equal(t, []byte(raw), secret)
	})

	t.Run("rejects other lengths", func(t *testing.T) {
		_, err := loadCSRFSecret("short")
		assert.Error(t, err)
	})
}
