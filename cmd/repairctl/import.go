package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"repairdesk/internal/importer"
	"repairdesk/internal/logger"
	"repairdesk/internal/services"
)

var importFormat string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a device catalog",
	Long: `Imports categories, series, models and injury types from a file.

HTML files hold <option value="SKU" data-guid="GUID">Model</option> entries
grouped by <!-- CATEGORY:Name --> and <!-- SERIES:Name --> comments. YAML files
list categories with nested series and models, plus injuries.

Rows that already exist are left untouched, so importing twice is safe.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		format, err := detectFormat(path, importFormat)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		parsed, err := parseCatalog(f, format)
		if err != nil {
			return err
		}

		dbManager, err := openDatabase()
		if err != nil {
			return err
		}
		defer func() { _ = dbManager.Close() }()
		defer logger.Sync()

		catalog := services.NewCatalogService(dbManager.DB(), dbManager.StoreTimeout())
		res, err := importer.New(catalog).Apply(cmd.Context(), parsed)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %s\n", filepath.Base(path), res)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "", "file format: html or yaml (default: from extension)")
	rootCmd.AddCommand(importCmd)
}

func detectFormat(path, explicit string) (string, error) {
	format := strings.ToLower(explicit)
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".html", ".htm", ".liquid":
			format = "html"
		case ".yaml", ".yml":
			format = "yaml"
		}
	}
	if format != "html" && format != "yaml" {
		return "", fmt.Errorf("cannot determine format of %s; pass --format html or --format yaml", path)
	}
	return format, nil
}

func parseCatalog(r io.Reader, format string) (*importer.Catalog, error) {
	if format == "html" {
		return importer.ParseHTML(r)
	}
	return importer.ParseYAML(r)
}
