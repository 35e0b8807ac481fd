package main

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/************************************************************************************************
** Test helper functions
************************************************************************************************/

func resetConfig() {
	apiURL = ""
	adminToken = ""
	dryRun = false
	eventID = ""
	bandID = ""
	photographerName = ""
	companySlug = ""
	shuffle = false
	startPage = 1
	photoID = ""
}

func TestFilterQueryFromFlags(t *testing.T) {
	// Setup
	resetConfig()
	eventID = "e1"
	photographerName = "Alice"
	shuffle = true
	startPage = 3
	photoID = "p-9"

	// Act
	values := filterQuery()

	// Assert
	assert.Equal(t, "e1", values.Get("event"))
	assert.Equal(t, "Alice", values.Get("photographer"))
	assert.Equal(t, "true", values.Get("shuffle"))
	assert.Equal(t, "3", values.Get("page"))
	assert.Equal(t, "p-9", values.Get("photo"))
	assert.Empty(t, values.Get("company"))
}

func TestFilterQueryOmitsDefaults(t *testing.T) {
	// Setup
	resetConfig()

	// Act
	values := filterQuery()

	// Assert
	assert.Empty(t, values, "defaults must not clutter the link")
}

func TestLoadEnvPrecedence(t *testing.T) {
	t.Run("env fills empty flag", func(t *testing.T) {
		// Setup
		resetConfig()
		t.Setenv("GALLERY_API_URL", "http://from-env:3000/api")

		// Act
		loadEnv()

		// Assert
		assert.Equal(t, "http://from-env:3000/api", apiURL)
	})

	t.Run("flag wins over env", func(t *testing.T) {
		// Setup
		resetConfig()
		t.Setenv("GALLERY_API_URL", "http://from-env:3000/api")
		apiURL = "http://from-flag:3000/api"

		// Act
		loadEnv()

		// Assert
		assert.Equal(t, "http://from-flag:3000/api", apiURL)
	})

	t.Run("default applies last", func(t *testing.T) {
		// Setup
		resetConfig()
		t.Setenv("GALLERY_API_URL", "")

		// Act
		loadEnv()

		// Assert
		assert.Equal(t, "http://localhost:3000/api", apiURL)
	})

	t.Run("dry run from env", func(t *testing.T) {
		// Setup
		resetConfig()
		t.Setenv("DRY_RUN", "true")

		// Act
		loadEnv()

		// Assert
		assert.True(t, dryRun)
	})

	t.Run("admin token from env", func(t *testing.T) {
		// Setup
		resetConfig()
		t.Setenv("GALLERY_ADMIN_TOKEN", "secret-token")

		// Act
		loadEnv()

		// Assert
		assert.Equal(t, "secret-token", adminToken)
	})
}

func TestConfigureLoggerLevelAndFormat(t *testing.T) {
	t.Run("level and json format from env", func(t *testing.T) {
		// Setup
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "json")

		// Act
		logger := configureLoggerWithOutput(&bytes.Buffer{})

		// Assert
		assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
		_, isJSON := logger.Formatter.(*logrus.JSONFormatter)
		assert.True(t, isJSON)
	})

	t.Run("invalid level warns and falls back to info", func(t *testing.T) {
		// Setup
		t.Setenv("LOG_LEVEL", "bogus")
		var buf bytes.Buffer

		// Act
		logger := configureLoggerWithOutput(&buf)

		// Assert
		assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
		assert.Contains(t, buf.String(), "Invalid LOG_LEVEL")
	})

	t.Run("text format by default", func(t *testing.T) {
		// Setup
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("LOG_FORMAT", "")

		// Act
		logger := configureLoggerWithOutput(&bytes.Buffer{})

		// Assert
		require.NotNil(t, logger)
		_, isText := logger.Formatter.(*logrus.TextFormatter)
		assert.True(t, isText)
		assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	})
}
