package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZephyrMenuShape(t *testing.T) {
	items := ZephyrMenu()
	require.Len(t, items, 7)

	first, ok := items[0].(Action)
	require.True(t, ok)
	assert.Equal(t, ActionCreateRelease, first.ID)
	assert.Equal(t, NeedsProject, first.Requires)

	g, ok := items[1].(Group)
	require.True(t, ok)
	assert.Equal(t, "Manage Release Data", g.Label)
	require.Len(t, g.Items, 8)
	assert.Equal(t, ActionImportRequirements, g.Items[0].ID)
	for _, a := range g.Items {
		assert.Equal(t, NeedsRelease, a.Requires, a.ID)
	}
}

func TestJiraMenu(t *testing.T) {
	items := JiraMenu()
	require.Len(t, items, 3)
	for _, it := range items {
		_, ok := it.(Action)
		assert.True(t, ok)
	}
}

func TestRequires(t *testing.T) {
	assert.Equal(t, NeedsProject, Requires(ActionCreateRelease))
	assert.Equal(t, NeedsRelease, Requires(ActionImportRequirements))
	assert.Equal(t, NeedsRelease, Requires("update-central-repo"))
	assert.Equal(t, NeedsNothing, Requires("configure-confluence"))
	assert.Equal(t, NeedsNothing, Requires("nope"))
}

func TestToggleGroup(t *testing.T) {
	m := New(Zephyr)
	m.ToggleGroup("manage-release")
	g := m.Menu()[1].(Group)
	assert.True(t, g.Expanded)

	m.ToggleGroup("other")
	g = m.Menu()[1].(Group)
	assert.False(t, g.Expanded)
	assert.Equal(t, "other", m.Expanded())

	m.ToggleGroup("other")
	assert.Equal(t, "", m.Expanded())

	m.ToggleGroup("manage-release")
	m.SetTab(Jira)
	assert.Equal(t, "", m.Expanded())
	assert.Len(t, m.Menu(), 3)
}
