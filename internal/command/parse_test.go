package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	inv, ok := Parse("$", "$gen netflix")
	assert.True(t, ok)
	assert.Equal(t, "gen", inv.Name)
	assert.Equal(t, []string{"netflix"}, inv.Args)

	// Command names are case-insensitive
	inv, ok = Parse("$", "  $GEN Netflix  ")
	assert.True(t, ok)
	assert.Equal(t, "gen", inv.Name)
	assert.Equal(t, []string{"Netflix"}, inv.Args)

	_, ok = Parse("$", "hello there")
	assert.False(t, ok)

	_, ok = Parse("$", "$")
	assert.False(t, ok)

	_, ok = Parse("$", "$   ")
	assert.False(t, ok)

	_, ok = Parse("", "gen netflix")
	assert.False(t, ok)
}

func TestParseUserArg(t *testing.T) {
	assert.Equal(t, "123", parseUserArg("<@123>"))
	assert.Equal(t, "123", parseUserArg("<@!123>"))
	assert.Equal(t, "123", parseUserArg("123"))
	assert.Equal(t, "123", parseUserArg(" 123 "))
}
