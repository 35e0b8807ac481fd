/**************************************************************************************************
** Configuration and environment management for the Gig Gallery CLI.
** Handles logger configuration, environment variable loading, and global configuration state.
**************************************************************************************************/

package main

import (
	"io"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/majorfi/gig-gallery/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Global configuration variables
var apiURL string
var adminToken string
var dryRun bool
var eventID string
var bandID string
var photographerName string
var companySlug string
var shuffle bool
var startPage int
var photoID string

/**************************************************************************************************
** Configures the logger based on environment variables. Sets up the log level and format
** according to LOG_LEVEL and LOG_FORMAT environment variables.
**
** @return *logrus.Logger - Configured logger instance
**************************************************************************************************/
func configureLogger() *logrus.Logger {
	return configureLoggerWithOutput(os.Stderr)
}

/**************************************************************************************************
** configureLoggerWithOutput is the testable core of configureLogger: same level and format
** resolution, writing to the given output.
**
** @param output - Destination writer
** @return *logrus.Logger - Configured logger instance
**************************************************************************************************/
func configureLoggerWithOutput(output io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(output)

	// Set log level from environment variable
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		if parsedLevel, err := logrus.ParseLevel(level); err == nil {
			logger.SetLevel(parsedLevel)
		} else {
			logger.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", level)
			logger.SetLevel(logrus.InfoLevel)
		}
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	// Set log format from environment variable
	if format := os.Getenv("LOG_FORMAT"); format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
			FullTimestamp:    false,
			TimestampFormat:  time.RFC3339,
		})
	}

	return logger
}

/**************************************************************************************************
** Loads environment variables and command-line flags, with flags taking precedence over env
** variables. Handles API location, the admin token and the dry-run switch.
**
** @return *logrus.Logger - Logger for outputting configuration status and errors
**************************************************************************************************/
func loadEnv() *logrus.Logger {
	_ = godotenv.Load()
	logger := configureLogger()
	if apiURL == "" {
		apiURL = os.Getenv("GALLERY_API_URL")
	}
	if apiURL == "" {
		apiURL = "http://localhost:3000/api"
	}
	if adminToken == "" {
		adminToken = os.Getenv("GALLERY_ADMIN_TOKEN")
	}
	if !dryRun {
		dryRun = os.Getenv("DRY_RUN") == "true"
	}
	if dryRun {
		logger.Info("DRY_RUN is set to true, no changes will be applied")
	}
	return logger
}

/**************************************************************************************************
** tuiLogger returns a logger that stays off the terminal the UI draws on: it writes to
** GALLERY_LOG_FILE when set, and is discarded otherwise.
**
** @return *logrus.Logger - Logger safe to use underneath the TUI
**************************************************************************************************/
func tuiLogger() *logrus.Logger {
	logger := configureLogger()
	if path := os.Getenv("GALLERY_LOG_FILE"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			logger.SetOutput(f)
			return logger
		}
	}
	logger.SetOutput(io.Discard)
	return logger
}

/**************************************************************************************************
** filterQuery translates the filter flags into the query the browsing location starts from, the
** same shape a shared link would carry.
**
** @return url.Values - Initial location query
**************************************************************************************************/
func filterQuery() url.Values {
	values := url.Values{}
	if eventID != "" {
		values.Set(utils.ParamEvent, eventID)
	}
	if bandID != "" {
		values.Set(utils.ParamBand, bandID)
	}
	if photographerName != "" {
		values.Set(utils.ParamPhotographer, photographerName)
	}
	if companySlug != "" {
		values.Set(utils.ParamCompany, companySlug)
	}
	if shuffle {
		values.Set(utils.ParamShuffle, utils.ShufflePlaceholder)
	}
	if startPage > 1 {
		values.Set(utils.ParamPage, strconv.Itoa(startPage))
	}
	if photoID != "" {
		values.Set(utils.ParamPhoto, photoID)
	}
	return values
}
