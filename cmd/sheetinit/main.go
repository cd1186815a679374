package main

import (
	"context"
	"flag"
	"fmt"

	log "github.com/sirupsen/logrus"

	"liquorstock/pkg/config"
	"liquorstock/pkg/liquor"
	"liquorstock/pkg/sheets"
)

// sheetinit is a one-shot tool that makes sure the inventory tab exists
// and carries the expected header row.
func main() {
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Parse()
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	cfg := config.Load()
	ctx := context.Background()

	client, err := sheets.NewClient(ctx, cfg.CredentialsPath, cfg.SpreadsheetID)
	if err != nil {
		log.Fatalf("Failed to initialise sheets client: %v", err)
	}

	if err := client.EnsureSheetExists(ctx, cfg.SheetName); err != nil {
		log.Fatalf("Failed to ensure sheet %q exists: %v", cfg.SheetName, err)
	}

	headerRange := fmt.Sprintf("%s!A1:%s1", cfg.SheetName, liquor.ColumnLetter(len(liquor.Headers)))
	existing := client.Get(ctx, headerRange)
	if len(existing) > 0 {
		log.Infof("Sheet %q already has a header row, leaving it alone", cfg.SheetName)
		return
	}

	header := make([]interface{}, len(liquor.Headers))
	for i, h := range liquor.Headers {
		header[i] = h
	}
	resp := client.Update(ctx, headerRange, [][]interface{}{header})
	if resp == nil || resp.UpdatedCells == 0 {
		log.Fatal("Failed to write header row")
	}
	log.Infof("Wrote header row to sheet %q", cfg.SheetName)
}
