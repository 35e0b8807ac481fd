/**************************************************************************************************
** Admin command implementations: the side-channel photo operations (label toggle, hero crop,
** metadata edit, deletion), each keyed by photo id and honoring --dry-run.
**************************************************************************************************/

package main

import (
	"fmt"

	"github.com/majorfi/gig-gallery/pkg/gallery"
	"github.com/majorfi/gig-gallery/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Admin flag variables
var labelName string
var cropAspect string
var cropX int
var cropY int
var cropWidth int
var cropHeight int
var editEvent string
var editBand string
var editPhotographer string
var editCapturedAt string
var editFocalX float64
var editFocalY float64

/**************************************************************************************************
** createAdminCommand assembles the admin subtree. The photo id flag is shared by every
** operation; each operation adds its own flags.
**
** @return *cobra.Command - Admin command with label, crop, edit and delete attached
**************************************************************************************************/
func createAdminCommand() *cobra.Command {
	var adminCmd = &cobra.Command{
		Use:   "admin",
		Short: "Admin side-channel operations",
		Long:  "Toggle labels, crop heroes, edit metadata and delete photos through the admin endpoints.",
	}
	adminCmd.PersistentFlags().StringVar(&photoID, "photo", "", "Photo id to operate on")

	var labelCmd = &cobra.Command{
		Use:   "label",
		Short: "Toggle a hero-placement label",
		Run:   runAdminLabel,
	}
	labelCmd.Flags().StringVar(&labelName, "label", "", fmt.Sprintf("Label to toggle, e.g. %q or %q", utils.LabelHero, utils.LabelNoHero))

	var cropCmd = &cobra.Command{
		Use:   "crop",
		Short: "Store a hero crop for one of the supported aspects",
		Run:   runAdminCrop,
	}
	cropCmd.Flags().StringVar(&cropAspect, "aspect", "", fmt.Sprintf("Crop aspect, one of %v", utils.CropAspects))
	cropCmd.Flags().IntVar(&cropX, "x", 0, "Crop left edge in original pixels")
	cropCmd.Flags().IntVar(&cropY, "y", 0, "Crop top edge in original pixels")
	cropCmd.Flags().IntVar(&cropWidth, "width", 0, "Crop width in original pixels")
	cropCmd.Flags().IntVar(&cropHeight, "height", 0, "Crop height in original pixels")

	var editCmd = &cobra.Command{
		Use:   "edit",
		Short: "Edit photo metadata",
		Long:  "Patch the given fields of a photo record; fields not set on the command line are left untouched.",
		Run:   runAdminEdit,
	}
	editCmd.Flags().StringVar(&editEvent, "set-event", "", "Reassign the photo to an event id")
	editCmd.Flags().StringVar(&editBand, "set-band", "", "Reassign the photo to a band id")
	editCmd.Flags().StringVar(&editPhotographer, "set-photographer", "", "Correct the photographer credit")
	editCmd.Flags().StringVar(&editCapturedAt, "set-captured-at", "", "Correct the capture timestamp (RFC 3339)")
	editCmd.Flags().Float64Var(&editFocalX, "focal-x", utils.DefaultFocalPercent, "Hero focal point X in percent")
	editCmd.Flags().Float64Var(&editFocalY, "focal-y", utils.DefaultFocalPercent, "Hero focal point Y in percent")

	var deleteCmd = &cobra.Command{
		Use:   "delete",
		Short: "Delete a photo",
		Run:   runAdminDelete,
	}

	adminCmd.AddCommand(labelCmd)
	adminCmd.AddCommand(cropCmd)
	adminCmd.AddCommand(editCmd)
	adminCmd.AddCommand(deleteCmd)
	return adminCmd
}

/**************************************************************************************************
** adminClient builds the API client for an admin operation and enforces the photo id flag.
**
** @param logger - Logger instance for output
** @return *gallery.Client - Ready client
**************************************************************************************************/
func adminClient(logger *logrus.Logger) *gallery.Client {
	if photoID == "" {
		logger.Fatal("A photo id is required (--photo)")
	}
	client := gallery.NewClient(apiURL, adminToken, dryRun, logger)
	if client == nil {
		logger.Fatalf("Invalid API URL: %s", apiURL)
	}
	return client
}

/**************************************************************************************************
** reportUpdated prints the outcome of a mutating admin call. Dry runs return no record; the
** client already logged what would have happened.
**
** @param logger - Logger instance for output
** @param photo - Updated record, nil on dry run
**************************************************************************************************/
func reportUpdated(logger *logrus.Logger, photo *utils.TPhoto) {
	if photo == nil {
		return
	}
	fmt.Printf("%s photo %s\n", utils.OK("Updated"), photo.ID)
	utils.DumpState(logger, "updated record", photo)
}

func runAdminLabel(cmd *cobra.Command, args []string) {
	logger := loadEnv()
	client := adminClient(logger)
	if labelName == "" {
		logger.Fatal("A label is required (--label)")
	}

	photo, err := client.ToggleLabel(photoID, labelName)
	if err != nil {
		logger.Fatalf("Error toggling label: %v", err)
	}
	reportUpdated(logger, photo)
}

func runAdminCrop(cmd *cobra.Command, args []string) {
	logger := loadEnv()
	client := adminClient(logger)

	box := utils.TCropBox{Aspect: cropAspect, X: cropX, Y: cropY, Width: cropWidth, Height: cropHeight}
	if box.Width <= 0 || box.Height <= 0 {
		logger.Fatal("Crop width and height must be positive (--width, --height)")
	}

	photo, err := client.CropPhoto(photoID, box)
	if err != nil {
		logger.Fatalf("Error cropping photo: %v", err)
	}
	reportUpdated(logger, photo)
}

func runAdminEdit(cmd *cobra.Command, args []string) {
	logger := loadEnv()
	client := adminClient(logger)

	update := utils.TPhotoUpdate{}
	if cmd.Flags().Changed("set-event") {
		update.EventID = &editEvent
	}
	if cmd.Flags().Changed("set-band") {
		update.BandID = &editBand
	}
	if cmd.Flags().Changed("set-photographer") {
		update.Photographer = &editPhotographer
	}
	if cmd.Flags().Changed("set-captured-at") {
		update.CapturedAt = &editCapturedAt
	}
	if cmd.Flags().Changed("focal-x") || cmd.Flags().Changed("focal-y") {
		update.HeroFocalPoint = &utils.TFocalPoint{X: editFocalX, Y: editFocalY}
	}
	if update == (utils.TPhotoUpdate{}) {
		logger.Fatal("Nothing to change; set at least one field flag")
	}

	photo, err := client.UpdatePhoto(photoID, update)
	if err != nil {
		logger.Fatalf("Error updating photo: %v", err)
	}
	reportUpdated(logger, photo)
}

func runAdminDelete(cmd *cobra.Command, args []string) {
	logger := loadEnv()
	client := adminClient(logger)

	if err := client.DeletePhoto(photoID); err != nil {
		logger.Fatalf("Error deleting photo: %v", err)
	}
	if !client.IsDryRun() {
		fmt.Printf("%s photo %s\n", utils.OK("Deleted"), photoID)
	}
}
