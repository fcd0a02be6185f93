package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwebster45206/story-forge/pkg/document"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <document-file> [kind]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Kinds: plot_outline, narrative_map, puzzle_design, scene_texts, game_mechanics\n")
		fmt.Fprintf(os.Stderr, "When kind is omitted it is inferred from the file name (e.g. narrative_map.yaml).\n")
		os.Exit(1)
	}

	filename := os.Args[1]

	var kindArg string
	if len(os.Args) > 2 {
		kindArg = os.Args[2]
	} else {
		base := filepath.Base(filename)
		kindArg = strings.TrimSuffix(base, filepath.Ext(base))
	}

	kind, err := document.ParseKind(kindArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read file %s: %v\n", filename, err)
		os.Exit(1)
	}

	fmt.Printf("Validating %s as %s...\n", filename, kind)

	result := document.Validate(string(data), kind)
	if !result.IsValid() {
		fmt.Fprintf(os.Stderr, "Validation errors in %s:\n", filename)
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		os.Exit(1)
	}

	fmt.Println("Document is valid!")
}
