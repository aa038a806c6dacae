package schema

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseInsensitivePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "npm", "[nN][pP][mM]"},
		{"punctuation and digits", "a-1", "[aA]-1"},
		{"mixed case", "Bash", "[bB][aA][sS][hH]"},
		{"empty", "", ""},
		{"no letters", "1.0-_", "1.0-_"},
		{"accented", "É", "[éÉ]"},
		{"caseless script", "日本", "日本"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, CaseInsensitivePattern(tc.in))
		})
	}
}

func TestCaseInsensitivePattern_MatchesAnyCasing(t *testing.T) {
	t.Parallel()

	re, err := regexp.Compile("^" + CaseInsensitivePattern("DotNetCoreCLI") + "$")
	require.NoError(t, err)

	for _, candidate := range []string{"DotNetCoreCLI", "dotnetcorecli", "DOTNETCORECLI", "dOtNeTcOrEcLi"} {
		assert.True(t, re.MatchString(candidate), candidate)
	}
	assert.False(t, re.MatchString("DotNetCoreCLI2"))
}
