package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/story-forge/internal/config"
	"github.com/jwebster45206/story-forge/internal/logger"
	"github.com/jwebster45206/story-forge/pkg/assemble"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <session-dir>\n", os.Args[0])
		os.Exit(1)
	}

	cfg := config.Load()
	log := logger.Setup(cfg)

	assembler := assemble.New(log)
	g, err := assembler.LoadDir(os.Args[1], assemble.Lenient)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to assemble session: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewReportUI(g), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
