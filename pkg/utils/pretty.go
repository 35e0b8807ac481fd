// Package utils provides the shared wire types, constants and small helpers used by the
// browsing controllers and the CLI.
package utils

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

var colorHeading = color.New(color.FgCyan).Add(color.Bold).SprintFunc()
var colorCount = color.New(color.FgYellow).SprintFunc()
var colorOK = color.New(color.FgGreen).Add(color.Bold).SprintFunc()
var colorErr = color.New(color.FgRed).Add(color.Bold).SprintFunc()

/**************************************************************************************************
** Heading, Count, OK and Err wrap fatih/color sprint functions for the CLI's human-facing
** output. Centralized here so every command renders facet listings and admin results the same
** way.
**************************************************************************************************/
func Heading(s string) string { return colorHeading(s) }
func Count(s string) string   { return colorCount(s) }
func OK(s string) string      { return colorOK(s) }
func Err(s string) string     { return colorErr(s) }

/**************************************************************************************************
** DumpState writes a spew dump of v to the logger at debug level. It is a no-op unless debug
** logging is enabled, so hot paths can call it unconditionally.
**
** @param logger - Destination logger
** @param label - Short description of what is being dumped
** @param v - Value to disassemble
**************************************************************************************************/
func DumpState(logger *logrus.Logger, label string, v interface{}) {
	if logger == nil || !logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	spew.Config.Indent = "    "
	logger.Debugf("%s:\n%s", label, spew.Sdump(v))
}
