package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commandNames(cmd *cobra.Command) []string {
	names := []string{}
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	return names
}

func TestRootCommandStructure(t *testing.T) {
	// Act
	root := createRootCommand()

	// Assert
	require.Equal(t, "gig-gallery", root.Name())
	names := commandNames(root)
	assert.Contains(t, names, "slideshow")
	assert.Contains(t, names, "facets")
	assert.Contains(t, names, "admin")

	for _, flag := range []string{"api-url", "admin-token", "dry-run", "event", "band", "photographer", "company", "shuffle", "page"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "missing persistent flag %q", flag)
	}

	slideshow, _, err := root.Find([]string{"slideshow"})
	require.NoError(t, err)
	assert.NotNil(t, slideshow.Flags().Lookup("photo"))
}

func TestAdminCommandStructure(t *testing.T) {
	// Act
	admin := createAdminCommand()

	// Assert
	names := commandNames(admin)
	for _, name := range []string{"label", "crop", "edit", "delete"} {
		assert.Contains(t, names, name)
	}
	assert.NotNil(t, admin.PersistentFlags().Lookup("photo"))

	crop, _, err := admin.Find([]string{"crop"})
	require.NoError(t, err)
	for _, flag := range []string{"aspect", "x", "y", "width", "height"} {
		assert.NotNil(t, crop.Flags().Lookup(flag), "missing crop flag %q", flag)
	}

	edit, _, err := admin.Find([]string{"edit"})
	require.NoError(t, err)
	for _, flag := range []string{"set-event", "set-band", "set-photographer", "set-captured-at", "focal-x", "focal-y"} {
		assert.NotNil(t, edit.Flags().Lookup(flag), "missing edit flag %q", flag)
	}
}

func TestFlagParsingSeedsGlobals(t *testing.T) {
	// Setup
	resetConfig()
	root := createRootCommand()
	root.SetArgs([]string{"--event", "e7", "--shuffle", "--page", "4"})
	root.Run = func(cmd *cobra.Command, args []string) {}

	// Act
	err := root.Execute()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "e7", eventID)
	assert.True(t, shuffle)
	assert.Equal(t, 4, startPage)
}
