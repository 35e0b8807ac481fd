/**************************************************************************************************
** Facets command implementation: fetches the first page of the current selection and prints the
** facet counts the filter menu would offer, for scripting and quick inspection.
**************************************************************************************************/

package main

import (
	"fmt"

	"github.com/majorfi/gig-gallery/pkg/gallery"
	"github.com/majorfi/gig-gallery/pkg/utils"
	"github.com/spf13/cobra"
)

/**************************************************************************************************
** Main execution logic for the facets listing. One metadata-bearing page request; the facet
** blocks only exist on non skipMeta responses.
**
** @param cmd - Cobra command instance
** @param args - Command line arguments
**************************************************************************************************/
func runFacets(cmd *cobra.Command, args []string) {
	logger := loadEnv()

	client := gallery.NewClient(apiURL, adminToken, dryRun, logger)
	if client == nil {
		logger.Fatalf("Invalid API URL: %s", apiURL)
	}

	query := gallery.Query{
		Event:        eventID,
		Band:         bandID,
		Photographer: photographerName,
		Company:      companySlug,
		Page:         1,
	}
	if shuffle {
		query.ShuffleToken = utils.ShufflePlaceholder
	}

	response, err := client.FetchPhotos(query)
	if err != nil {
		logger.Fatalf("Error fetching facets: %v", err)
	}
	utils.DumpState(logger, "facet response", response)

	fmt.Printf("%s %s\n", utils.Heading("Matching photos:"), utils.Count(fmt.Sprintf("%d", response.Pagination.Total)))
	if response.AvailableFilters == nil {
		fmt.Println("No facet metadata in the response")
		return
	}

	facets := response.AvailableFilters
	fmt.Println()
	fmt.Println(utils.Heading("Events"))
	for _, facet := range facets.Events {
		fmt.Printf("  %-36s %s  %s\n", facet.Name, utils.Count(fmt.Sprintf("%5d", facet.Count)), facet.ID)
	}

	fmt.Println()
	fmt.Println(utils.Heading("Photographers"))
	for _, facet := range facets.Photographers {
		fmt.Printf("  %-36s %s\n", facet.Name, utils.Count(fmt.Sprintf("%5d", facet.Count)))
	}

	fmt.Println()
	fmt.Println(utils.Heading("Companies"))
	for _, facet := range facets.Companies {
		fmt.Printf("  %-36s %s  %s\n", facet.Name, utils.Count(fmt.Sprintf("%5d", facet.Count)), facet.Slug)
	}
}
