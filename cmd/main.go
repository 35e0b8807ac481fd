/**************************************************************************************************
** Main entry point for the Gig Gallery CLI. Opens the terminal photo browser for the
** battle-of-the-bands charity gallery, with direct slideshow entry, facet listing and the admin
** side-channel operations as subcommands.
**************************************************************************************************/

package main

import (
	"os"

	"github.com/spf13/cobra"
)

/**************************************************************************************************
** Application entry point. Sets up the CLI command structure using Cobra, including all
** available commands and their associated flags. Handles command execution and error
** reporting.
**************************************************************************************************/
func main() {
	if err := createRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

/**************************************************************************************************
** createRootCommand assembles the command tree. Running with no subcommand opens the browsing
** grid.
**
** @return *cobra.Command - Root command with all subcommands attached
**************************************************************************************************/
func createRootCommand() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "gig-gallery",
		Short: "Gig Gallery photo browser",
		Long:  "Terminal browser for the battle-of-the-bands charity photo gallery.",
		Run:   runBrowse,
	}

	var slideshowCmd = &cobra.Command{
		Use:   "slideshow",
		Short: "Open the slideshow viewer",
		Long:  "Open the full-screen viewer directly, on a given photo or on the first photo of the selection.",
		Run:   runSlideshow,
	}

	var facetsCmd = &cobra.Command{
		Use:   "facets",
		Short: "List filter facets with photo counts",
		Long:  "Fetch the first page of the current selection and print the event, photographer and company facets.",
		Run:   runFacets,
	}

	bindFlags(rootCmd)
	slideshowCmd.Flags().StringVar(&photoID, "photo", "", "Photo id to open on")

	rootCmd.AddCommand(slideshowCmd)
	rootCmd.AddCommand(facetsCmd)
	rootCmd.AddCommand(createAdminCommand())

	return rootCmd
}

/**************************************************************************************************
** bindFlags attaches the shared persistent flags to a command. Kept as one function so the real
** command tree and the testable one cannot drift apart.
**
** @param cmd - Command receiving the flags
**************************************************************************************************/
func bindFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API URL (or set GALLERY_API_URL env var)")
	cmd.PersistentFlags().StringVar(&adminToken, "admin-token", "", "Admin token (or set GALLERY_ADMIN_TOKEN env var)")
	cmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Dry run (or set DRY_RUN=true)")
	cmd.PersistentFlags().StringVar(&eventID, "event", "", "Filter by event id")
	cmd.PersistentFlags().StringVar(&bandID, "band", "", "Filter by band id")
	cmd.PersistentFlags().StringVar(&photographerName, "photographer", "", "Filter by photographer name")
	cmd.PersistentFlags().StringVar(&companySlug, "company", "", "Filter by company slug")
	cmd.PersistentFlags().BoolVar(&shuffle, "shuffle", false, "Shuffled order instead of chronological")
	cmd.PersistentFlags().IntVar(&startPage, "page", 1, "Page to start loading from")
}
