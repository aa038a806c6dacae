package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasColorSupport(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("NO_COLOR", "")
	assert.False(t, HasColorSupport())
}

func TestHasColorSupport_DumbTerminal(t *testing.T) {
	t.Setenv("TERM", "dumb")
	assert.False(t, HasColorSupport())
}

func TestStripANSI(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "plain", stripANSI("plain"))
	assert.Equal(t, "red", stripANSI("\x1b[31mred\x1b[0m"))
	assert.Equal(t, "link", stripANSI("\x1b]8;;https://example.com\x07link\x1b]8;;\x07"))
}

func TestPadRight(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcd", padRight("abcd", 4))
	assert.Equal(t, "日本  ", padRight("日本", 6))
	assert.Equal(t, "abc…", padRight("abcdef", 4))
}

func TestDisplayWidth(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 4, displayWidth("日本"))
	assert.Equal(t, 3, displayWidth("\x1b[1mabc\x1b[0m"))
}
