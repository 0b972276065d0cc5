package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeSign(t *testing.T) {
	// sha256("1" + "s" + "alice" + "s")
	sign := SafeSign("1", "s", "alice")
	assert.Len(t, sign, 64)
	assert.Equal(t, strings.ToLower(sign), sign)
	assert.True(t, VerifySign(sign, SafeSign("1", "s", "alice")))
	assert.False(t, VerifySign(sign, SafeSign("2", "s", "alice")))
}

func TestVerifySignIgnoresCase(t *testing.T) {
	sign := SafeSign("1", "s", "alice")

	assert.True(t, VerifySign(sign, strings.ToUpper(sign)))
	assert.True(t, VerifySign(sign, strings.ToUpper(sign[:32])+sign[32:]))
	assert.False(t, VerifySign(sign, strings.ToUpper(SafeSign("1", "s", "bob"))))
	assert.False(t, VerifySign(sign, ""))
}
