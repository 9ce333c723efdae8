package typeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUsesPrefix(t *testing.T) {
	id := NewElementID()
	assert.True(t, strings.HasPrefix(id, PrefixElement+"_"), id)
	require.NoError(t, Validate(id, PrefixElement))
}

func TestNewIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewViewID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestValidateRejectsWrongPrefix(t *testing.T) {
	err := Validate(NewAssetID(), PrefixElement)
	assert.Error(t, err)

	err = Validate("not-an-id", PrefixElement)
	assert.Error(t, err)
}
