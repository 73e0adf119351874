package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
	assert.False(t, CheckPasswordHash("correct horse battery staple", "not-a-hash"))
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"someone@example.com",
		"first.last+tag@sub.example.co",
		"UPPER@EXAMPLE.ORG",
	}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"missing@tld",
		"@example.com",
		"spaces in@example.com",
	}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), email)
	}
}
