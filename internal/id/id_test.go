package id_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cineshuffle-server/internal/id"
)

func TestGenerate_PrefixAndUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		got, err := id.Generate(id.PrefixMovie)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, "mov-"))
		_, dup := seen[got]
		assert.False(t, dup, "duplicate id %s", got)
		seen[got] = struct{}{}
	}
}

func TestMustGenerate(t *testing.T) {
	got := id.MustGenerate(id.PrefixSession)
	assert.True(t, strings.HasPrefix(got, "ssn-"))
}
