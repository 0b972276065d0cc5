package validate

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileInput struct {
	AvatarURL string `binding:"httpurl"`
}

func TestHTTPURL(t *testing.T) {
	require.NoError(t, Register())
	require.NoError(t, Register())

	cases := map[string]bool{
		"":                          true,
		"https://cdn.example.com/a": true,
		"http://x.io":               true,
		"ftp://x.io/a":              false,
		"/relative/path":            false,
		"https://":                  false,
	}
	for in, ok := range cases {
		err := binding.Validator.ValidateStruct(&profileInput{AvatarURL: in})
		if ok {
			assert.NoError(t, err, in)
		} else {
			assert.Error(t, err, in)
		}
	}
}
