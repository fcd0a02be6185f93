package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/story-forge/pkg/game"
)

// ReportUI is the BubbleTea model that renders a playability report
// for an assembled game.
// https://github.com/charmbracelet/bubbletea
type ReportUI struct {
	game     *game.GameData
	result   *game.ValidationResult
	strict   bool
	viewport viewport.Model
	ready    bool
	width    int
	height   int
	status   string
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")) // green

	issueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	suggestionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)
)

func NewReportUI(g *game.GameData) ReportUI {
	ui := ReportUI{game: g}
	ui.revalidate()
	return ui
}

func (ui *ReportUI) revalidate() {
	ui.result = game.NewValidator().Validate(ui.game, ui.strict)
}

func (ui ReportUI) Init() tea.Cmd {
	return nil
}

func (ui ReportUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return ui, tea.Quit
		case "s":
			ui.strict = !ui.strict
			ui.revalidate()
			ui.viewport.SetContent(ui.reportContent())
			if ui.strict {
				ui.status = "strict mode on"
			} else {
				ui.status = "strict mode off"
			}
			return ui, nil
		case "c":
			if err := clipboard.WriteAll(ui.result.Summary()); err != nil {
				ui.status = "clipboard unavailable"
			} else {
				ui.status = "report copied to clipboard"
			}
			return ui, nil
		}

	case tea.WindowSizeMsg:
		ui.width = msg.Width
		ui.height = msg.Height
		headerHeight := 3
		footerHeight := 2
		if !ui.ready {
			ui.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			ui.ready = true
		} else {
			ui.viewport.Width = msg.Width
			ui.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		ui.viewport.SetContent(ui.reportContent())
	}

	var cmd tea.Cmd
	ui.viewport, cmd = ui.viewport.Update(msg)
	return ui, cmd
}

func (ui ReportUI) View() string {
	if !ui.ready {
		return "Loading report..."
	}

	verdict := okStyle.Render("PLAYABLE")
	if !ui.result.IsValid() {
		verdict = issueStyle.Render("NOT PLAYABLE")
	}
	mode := ""
	if ui.strict {
		mode = statusStyle.Render(" [strict]")
	}

	header := fmt.Sprintf("%s %s%s\n%s\n",
		titleStyle.Render(ui.game.Title),
		verdict,
		mode,
		statusStyle.Render(strings.Repeat("─", max(ui.width, 1))))

	footer := statusStyle.Render("\nq quit · s toggle strict · c copy report")
	if ui.status != "" {
		footer += statusStyle.Render("  (" + ui.status + ")")
	}

	return header + ui.viewport.View() + footer
}

func (ui ReportUI) reportContent() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", headerStyle.Render("Stats"))
	fmt.Fprintf(&b, "  scenes: %v total, %v reachable from %v\n",
		ui.result.Stats["total_scenes"],
		ui.result.Stats["reachable_scenes"],
		ui.result.Stats["starting_scene"])
	fmt.Fprintf(&b, "  items: %v   npcs: %v\n\n",
		ui.result.Stats["total_items"],
		ui.result.Stats["total_npcs"])

	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("Issues (%d)", len(ui.result.Issues))))
	if len(ui.result.Issues) == 0 {
		fmt.Fprintf(&b, "  %s\n", okStyle.Render("none"))
	}
	for _, issue := range ui.result.Issues {
		fmt.Fprintf(&b, "  %s\n", issueStyle.Render("✗ "+issue))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("Warnings (%d)", len(ui.result.Warnings))))
	if len(ui.result.Warnings) == 0 {
		fmt.Fprintf(&b, "  %s\n", okStyle.Render("none"))
	}
	for _, warning := range ui.result.Warnings {
		fmt.Fprintf(&b, "  %s\n", warningStyle.Render("! "+warning))
	}
	b.WriteString("\n")

	if len(ui.result.Suggestions) > 0 {
		fmt.Fprintf(&b, "%s\n", headerStyle.Render("Suggestions"))
		sceneIDs := make([]string, 0, len(ui.result.Suggestions))
		for sceneID := range ui.result.Suggestions {
			sceneIDs = append(sceneIDs, sceneID)
		}
		sort.Strings(sceneIDs)
		for _, sceneID := range sceneIDs {
			for _, s := range ui.result.Suggestions[sceneID] {
				fmt.Fprintf(&b, "  %s %s\n", suggestionStyle.Render(sceneID+":"), s)
			}
		}
	}

	width := ui.width
	if width <= 0 {
		width = 80
	}
	return wordwrap.String(b.String(), width)
}
