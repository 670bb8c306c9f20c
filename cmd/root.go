package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dcmconvert",
	Short: "dcmconvert - convert DICOM files to JPEG images and PDF documents",
	Long:  "dcmconvert batch-converts DICOM (.dcm) files: pixel data becomes JPEG, encapsulated PDFs are extracted, and presentation states are resolved to the images they reference.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}
