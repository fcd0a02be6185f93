package sanitize

import "github.com/jwebster45206/story-forge/pkg/document"

// Literal defaults and filler templates used by the corrector. The
// maps are populated once at init and never mutated afterwards, so
// concurrent correction of multiple document kinds needs no locking.

const defaultTitle = "Untitled Adventure"

// fillerTemplates holds the per-kind sentence appended to descriptions
// that fall short of their minimum length. The %s verb receives the
// document's theme.
var fillerTemplates = map[document.Kind]string{
	document.KindPlotOutline:  " The thread of %s runs through this part of the story.",
	document.KindNarrativeMap: " Echoes of %s color this place, rewarding a closer look.",
	document.KindSceneTexts:   " The air carries a sense of %s, and the details of the scene reward patient observation.",
}

const defaultTheme = "mystery"

func defaultPlotOutline() *document.PlotOutline {
	return &document.PlotOutline{
		Title:   defaultTitle,
		Setting: "A forgotten place at the edge of the known world.",
		Themes:  []string{defaultTheme},
		Tone:    "atmospheric",
		PlotPoints: []document.PlotPoint{
			{ID: "opening", Name: "Opening", Description: "The story begins."},
			{ID: "midpoint", Name: "Midpoint", Description: "The stakes become clear."},
			{ID: "finale", Name: "Finale", Description: "The story resolves."},
		},
		Characters: []document.Character{
			{Name: "The Protagonist", Role: "protagonist", Backstory: "An unnamed wanderer drawn into events."},
		},
		Conflicts: []string{"The protagonist against the unknown."},
	}
}

func defaultNarrativeMap() *document.NarrativeMap {
	return &document.NarrativeMap{
		StartScene: "start",
		Scenes: map[string]document.MapScene{
			"start": {
				Name:        "Starting Area",
				Description: "The opening scene of the adventure, where the story begins and the first choices present themselves.",
			},
		},
	}
}

func defaultPuzzleDesign() *document.PuzzleDesign {
	return &document.PuzzleDesign{}
}

func defaultSceneTexts() *document.SceneTexts {
	return &document.SceneTexts{Scenes: map[string]document.SceneText{}}
}

func defaultGameMechanics() *document.GameMechanics {
	return &document.GameMechanics{
		GameTitle: defaultTitle,
		GameSystems: document.GameSystems{
			Movement:    "Compass-direction movement between connected scenes.",
			Inventory:   "Simple list inventory with take, drop and use.",
			Combat:      "Turn-based encounters against hostile creatures.",
			Interaction: "Verb commands for examining and talking.",
		},
		GameState: document.StateRules{
			TrackedVariables: []string{"player_location"},
			WinConditions:    []string{"reach the final scene"},
			LoseConditions:   []string{"player health reaches zero"},
		},
		TechnicalRequirements: []string{"text-only interface"},
	}
}

// defaultDocument returns a fresh, schema-valid document of the given
// kind.
func defaultDocument(kind document.Kind) document.Document {
	switch kind {
	case document.KindPlotOutline:
		return defaultPlotOutline()
	case document.KindNarrativeMap:
		return defaultNarrativeMap()
	case document.KindPuzzleDesign:
		return defaultPuzzleDesign()
	case document.KindSceneTexts:
		return defaultSceneTexts()
	case document.KindGameMechanics:
		return defaultGameMechanics()
	default:
		return nil
	}
}
