package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	store := NewFileStoreAt(path, testLogger())
	off := false

	// Act
	store.Save(TStoredPreference{
		Event:       "E1",
		Shuffle:     "ab12cd34",
		GroupScenes: &off,
	})
	loaded := store.Load()

	// Assert
	assert.Equal(t, "E1", loaded.Event)
	assert.Equal(t, "ab12cd34", loaded.Shuffle)
	require.NotNil(t, loaded.GroupScenes)
	assert.False(t, *loaded.GroupScenes)
	assert.Nil(t, loaded.GroupDuplicates, "unsaved toggle must stay unset")
}

func TestLoadSwallowsFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, path string)
	}{
		{
			name:  "missing file",
			setup: func(t *testing.T, path string) {},
		},
		{
			name: "corrupt json",
			setup: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
			},
		},
		{
			name: "wrong shape",
			setup: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, []byte(`{"groupScenes": "yes"}`), 0o644))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "preferences.json")
			tt.setup(t, path)
			store := NewFileStoreAt(path, testLogger())

			// Act
			loaded := store.Load()

			// Assert
			assert.True(t, loaded.IsZero())
		})
	}
}

func TestStoreWithoutPathIsInert(t *testing.T) {
	store := &FileStore{logger: testLogger()}

	// Act
	store.Save(TStoredPreference{Event: "E1"})

	// Assert
	assert.True(t, store.Load().IsZero())
}
