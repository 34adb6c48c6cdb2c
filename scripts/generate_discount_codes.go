package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Generates sample discount code files for local development. A code is
// accepted by the validator when it appears in at least 2 of the 3 files.
func main() {
	dataDir := "data/discounts"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	codes := map[string][]string{
		"codebase1.gz": {
			"VERANO2024", // files 1, 2
			"AHORRA100",  // files 1, 2, 3
			"BIENVENIDA", // files 1, 3
			"SOLOUNO11",  // file 1 only
		},
		"codebase2.gz": {
			"VERANO2024", // files 1, 2
			"AHORRA100",  // files 1, 2, 3
			"NAVIDAD25",  // files 2, 3
			"SOLODOS22",  // file 2 only
		},
		"codebase3.gz": {
			"AHORRA100",  // files 1, 2, 3
			"BIENVENIDA", // files 1, 3
			"NAVIDAD25",  // files 2, 3
			"SOLOTRES33", // file 3 only
		},
	}

	for filename, lines := range codes {
		filePath := filepath.Join(dataDir, filename)

		if err := createCodeFile(filePath, lines); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d codes\n", filePath, len(lines))
	}

	fmt.Println("\nValid codes (appear in at least 2 files):")
	fmt.Println("  - VERANO2024 (files 1, 2)")
	fmt.Println("  - AHORRA100  (files 1, 2, 3)")
	fmt.Println("  - BIENVENIDA (files 1, 3)")
	fmt.Println("  - NAVIDAD25  (files 2, 3)")
	fmt.Println("\nInvalid codes (appear in only 1 file):")
	fmt.Println("  - SOLOUNO11  (file 1 only)")
	fmt.Println("  - SOLODOS22  (file 2 only)")
	fmt.Println("  - SOLOTRES33 (file 3 only)")
}

func createCodeFile(filePath string, codes []string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, code := range codes {
		if _, err := fmt.Fprintf(gzipWriter, "%s\n", code); err != nil {
			return fmt.Errorf("failed to write code: %w", err)
		}
	}

	return nil
}
