package flow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogValidate(t *testing.T) {
	require.NoError(t, NewCatalog().Validate())
}

func TestCatalogCyclicClosure(t *testing.T) {
	c := NewCatalog()
	for _, start := range c.order {
		s := start
		for i := 0; i < c.Len(); i++ {
			next, err := c.Next(s)
			require.NoError(t, err)
			s = next
		}
		require.Equal(t, start, s)
	}
}

func TestCatalogNextWraps(t *testing.T) {
	c := NewCatalog()
	next, err := c.Next(StageEnd)
	require.NoError(t, err)
	require.Equal(t, StageStart, next)
}

func TestCatalogNextOnMenu(t *testing.T) {
	c := NewCatalog()
	_, err := c.Next(StageMenu)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCatalogUnknownStage(t *testing.T) {
	c := NewCatalog()
	_, err := c.Definition(Stage("nope"))
	require.ErrorIs(t, err, ErrUnknownStage)
	_, err = c.Next(Stage("nope"))
	require.ErrorIs(t, err, ErrUnknownStage)
}

func TestCatalogMenuResolution(t *testing.T) {
	c := NewCatalog()

	target, ok := c.ResolveMenuLabel("Голосование")
	require.True(t, ok)
	require.Equal(t, StageVoting, target)

	_, ok = c.ResolveMenuLabel("что-то другое")
	require.False(t, ok)
}

func TestCatalogMenuLabelsOrder(t *testing.T) {
	c := NewCatalog()
	labels := c.MenuLabels()
	require.NotEmpty(t, labels)
	// Display order is the declaration order of the menu entries.
	for i, e := range c.menu {
		require.Equal(t, e.Label, labels[i])
	}
}

func TestCatalogMenuTargetsNotAfterQuiz(t *testing.T) {
	c := NewCatalog()
	for _, e := range c.menu {
		p, ok := c.prev(e.Target)
		require.True(t, ok)
		require.Empty(t, c.defs[p].Answer, "menu target %s follows quiz stage %s", e.Target, p)
	}
}

func TestValidateCatchesDefects(t *testing.T) {
	defs := []Definition{
		{Stage: StageStart, Steps: []Step{{}}},
		{Stage: StageEnd, Steps: []Step{{}}},
	}

	c := newCatalog([]Stage{StageStart, StageEnd, "ghost"}, defs, nil)
	require.ErrorIs(t, c.Validate(), ErrUnknownStage)

	c = newCatalog([]Stage{StageStart, StageEnd}, defs, []MenuEntry{{Label: "x", Target: StageMenu}})
	require.Error(t, c.Validate())

	c = newCatalog([]Stage{StageStart, StageStart}, defs, nil)
	require.Error(t, c.Validate())
}
