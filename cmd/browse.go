/**************************************************************************************************
** Browse and slideshow command implementations: wire the API client, filter store and location
** together and hand them to the terminal UI.
**************************************************************************************************/

package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/majorfi/gig-gallery/pkg/filters"
	"github.com/majorfi/gig-gallery/pkg/gallery"
	"github.com/majorfi/gig-gallery/pkg/nav"
	"github.com/majorfi/gig-gallery/pkg/prefs"
	"github.com/majorfi/gig-gallery/pkg/tui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

/**************************************************************************************************
** Main execution logic for browsing: opens the photo grid on the selection described by the
** filter flags. The boot logger keeps writing to stderr for wiring failures; the UI itself logs
** to GALLERY_LOG_FILE or nowhere, never to the screen it draws on.
**
** @param cmd - Cobra command instance
** @param args - Command line arguments
**************************************************************************************************/
func runBrowse(cmd *cobra.Command, args []string) {
	bootLogger := loadEnv()
	app := buildTUIApp(bootLogger)
	if err := app.Run(); err != nil {
		bootLogger.Fatalf("Error running the browser: %v", err)
	}
}

/**************************************************************************************************
** Main execution logic for the slideshow command: same wiring as browsing, but the viewer opens
** immediately, on --photo when given or on the first photo of the selection.
**
** @param cmd - Cobra command instance
** @param args - Command line arguments
**************************************************************************************************/
func runSlideshow(cmd *cobra.Command, args []string) {
	bootLogger := loadEnv()
	app := buildTUIApp(bootLogger)
	app.OpenViewerOnStart()
	if err := app.Run(); err != nil {
		bootLogger.Fatalf("Error running the slideshow: %v", err)
	}
}

/**************************************************************************************************
** buildTUIApp assembles the full terminal app: client, location seeded from the filter flags,
** initialized filter store, screen. Any failure is fatal through the boot logger.
**
** @param bootLogger - Logger for wiring failures, writes to stderr
** @return *tui.App - Ready to run app
**************************************************************************************************/
func buildTUIApp(bootLogger *logrus.Logger) *tui.App {
	uiLogger := tuiLogger()

	client := gallery.NewClient(apiURL, adminToken, dryRun, uiLogger)
	if client == nil {
		bootLogger.Fatalf("Invalid API URL: %s", apiURL)
	}

	location := nav.NewLocation("/photos", filterQuery())
	store := filters.NewStore(location, prefs.NewFileStore(uiLogger), uiLogger)
	if store == nil {
		bootLogger.Fatal("Error building the filter store")
	}
	store.Init()

	screen, err := tcell.NewScreen()
	if err != nil {
		bootLogger.Fatalf("Error creating the screen: %v", err)
	}

	app := tui.NewApp(screen, client, store, location, uiLogger)
	if app == nil {
		bootLogger.Fatal("Error building the app")
	}
	return app
}
