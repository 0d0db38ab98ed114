package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/rules"
)

// Writes the embedded default rule tables to a directory so they can be
// customized and served back via RULES_DIR.
func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "rules", "Directory to write the rule tables to")
	flag.Parse()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	for name, data := range rules.DefaultTables() {
		path := filepath.Join(outDir, name)
		if _, err := os.Stat(path); err == nil {
			log.Printf("Skipping %s: already exists", path)
			continue
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		log.Printf("Wrote %s", path)
	}

	log.Printf("Rule tables exported to %s", outDir)
}
