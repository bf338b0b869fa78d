package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)

	token, expiresAt, err := signer.Generate("rep-1", "grades_stu-1.csv")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	reportID, relPath, parsedExpiry, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "rep-1", reportID)
	assert.Equal(t, "grades_stu-1.csv", relPath)
	assert.Equal(t, expiresAt.Unix(), parsedExpiry.Unix())
}

func TestSignedURLRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)

	token, _, err := signer.Generate("rep-1", "grades_stu-1.csv")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[0] = "rep-2"
	_, _, _, err = signer.Parse(strings.Join(parts, "."))
	assert.Error(t, err)
}

func TestSignedURLRejectsWrongSecret(t *testing.T) {
	token, _, err := NewSignedURLSigner("secret-a", time.Minute).Generate("rep-1", "file.csv")
	require.NoError(t, err)

	_, _, _, err = NewSignedURLSigner("secret-b", time.Minute).Parse(token)
	assert.Error(t, err)
}

func TestSignedURLRejectsExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Nanosecond)

	token, _, err := signer.Generate("rep-1", "file.csv")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, _, _, err = signer.Parse(token)
	assert.Error(t, err)
}

func TestSignedURLRejectsGarbage(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)

	for _, token := range []string{"", "abc", "a.b.c", "a.b.c.d.e"} {
		_, _, _, err := signer.Parse(token)
		assert.Error(t, err, "token %q", token)
	}
}
