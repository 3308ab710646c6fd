package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.com", "x_1-2@my-host.io"}
	for _, email := range valid {
		require.True(t, IsValidEmail(email), email)
	}
	invalid := []string{"", "plain", "@no-local.com", "no-at.com", "a@b", "spaces in@example.com"}
	for _, email := range invalid {
		require.False(t, IsValidEmail(email), email)
	}
}

func TestIsValidPhone(t *testing.T) {
	require.True(t, IsValidPhone("1234567890"))
	require.True(t, IsValidPhone("123456789012345"))
	require.False(t, IsValidPhone("123456789"), "too short")
	require.False(t, IsValidPhone("1234567890123456"), "too long")
	require.False(t, IsValidPhone("12345abcde"))
	require.False(t, IsValidPhone("+301234567890"))
}

func TestIsValidPassword(t *testing.T) {
	valid := []string{"Passw0rd!", "Aa1@aaaa", "XyZ9*LmN?"}
	for _, pw := range valid {
		require.True(t, IsValidPassword(pw), pw)
	}
	invalid := []string{
		"",
		"Aa1@aaa",     // too short
		"password1!",  // no uppercase
		"PASSWORD1!",  // no lowercase
		"Password!!",  // no digit
		"Password11",  // no special
		"Passw0rd! ",  // space outside the alphabet
		"Passw0rd!^",  // special not in the allowed set
	}
	for _, pw := range invalid {
		require.False(t, IsValidPassword(pw), pw)
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Passw0rd!")
	require.NoError(t, err)
	require.NotEqual(t, "Passw0rd!", hash)

	require.True(t, CheckPasswordHash("Passw0rd!", hash))
	require.False(t, CheckPasswordHash("Wrong0ne!", hash))
}
