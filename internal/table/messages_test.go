package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessagesDropOldest(t *testing.T) {
	t.Parallel()
	m, err := NewMessages(4)
	require.NoError(t, err)

	m.Add("one", "two", "three")
	assert.Equal(t, []string{"one", "two", "three"}, m.List())

	m.Add("four").Add("five")
	assert.Equal(t, []string{"two", "three", "four", "five"}, m.List())
	assert.Equal(t, 4, m.Len())
}

func TestMessagesCopyIsIndependent(t *testing.T) {
	t.Parallel()
	m, err := NewMessages(4, "Hole cards dealt.")
	require.NoError(t, err)

	c := m.Copy().Add("Flop dealt.")
	assert.Equal(t, []string{"Hole cards dealt."}, m.List())
	assert.Equal(t, []string{"Hole cards dealt.", "Flop dealt."}, c.List())

	list := m.List()
	list[0] = "changed"
	assert.Equal(t, "Hole cards dealt.", m.List()[0])
}

func TestNewMessagesLimits(t *testing.T) {
	t.Parallel()
	_, err := NewMessages(4, "a", "b", "c", "d", "e")
	assert.Error(t, err)
	_, err = NewMessages(0)
	assert.Error(t, err)
}
