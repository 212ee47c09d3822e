package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	occurredAt := time.Date(2025, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(occurredAt, "entry-42")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, lastID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, occurredAt, decodedAt, "Occurred-at should match after decode")
	assert.Equal(t, "entry-42", lastID, "Last ID should match after decode")
}

func TestDecodeTokenInvalidBase64(t *testing.T) {
	_, _, err := DecodeToken("not-base64!!!")
	assert.Error(t, err)
}

func TestDecodeTokenMissingSeparator(t *testing.T) {
	bad := "bm8tc2VwYXJhdG9y" // base64("no-separator")
	_, _, err := DecodeToken(bad)
	assert.Error(t, err)
}

func TestEncodeTokenIDWithSeparator(t *testing.T) {
	occurredAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	token := EncodeToken(occurredAt, "a|b")
	_, lastID, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "a|b", lastID)
}
