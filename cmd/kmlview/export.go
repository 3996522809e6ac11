package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.kml|file.kmz>",
	Short: "Write the resolved document as KML or KMZ",
	Long: `Write the document with every style resolved and inlined.

Style maps and shared styles are flattened into per-feature styles. Output
ending in .kmz (or --kmz) is written as an archive that also carries the
images of the input archive.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().Bool("kmz", false, "Write a KMZ archive")
}

func runExport(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	asKMZ, _ := cmd.Flags().GetBool("kmz")
	if strings.EqualFold(filepath.Ext(outputPath), ".kmz") {
		asKMZ = true
	}

	layer, err := load(cmd, args[0])
	if err != nil {
		return err
	}

	output := cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	if asKMZ {
		return layer.WriteKMZ(output)
	}
	return layer.WriteKML(output)
}
