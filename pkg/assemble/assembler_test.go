package assemble

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jwebster45206/story-forge/pkg/document"
	"github.com/jwebster45206/story-forge/pkg/game"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func twoSceneMap() *document.NarrativeMap {
	return &document.NarrativeMap{
		StartScene: "start",
		Scenes: map[string]document.MapScene{
			"start": {
				Name:        "Starting Area",
				Description: "The first scene of the adventure, where everything begins in earnest.",
				Connections: []document.Connection{
					{Target: "end", Description: "a path onward", Direction: "north"},
				},
			},
			"end": {
				Name:        "Final Chamber",
				Description: "The last scene of the adventure, where the story finds resolution.",
			},
		},
	}
}

func TestAssembleTitlePrecedence(t *testing.T) {
	a := New(testLogger())

	tests := []struct {
		name      string
		plot      *document.PlotOutline
		mechanics *document.GameMechanics
		want      string
	}{
		{
			name:      "plot title wins",
			plot:      &document.PlotOutline{Title: "Plot Title"},
			mechanics: &document.GameMechanics{GameTitle: "Mechanics Title"},
			want:      "Plot Title",
		},
		{
			name:      "mechanics title when plot has none",
			plot:      &document.PlotOutline{},
			mechanics: &document.GameMechanics{GameTitle: "Mechanics Title"},
			want:      "Mechanics Title",
		},
		{
			name:      "fallback title",
			plot:      &document.PlotOutline{},
			mechanics: &document.GameMechanics{},
			want:      "Untitled Adventure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := a.Assemble(&Documents{
				Plot:      tt.plot,
				Map:       twoSceneMap(),
				Mechanics: tt.mechanics,
			}, Lenient)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if g.Title != tt.want {
				t.Errorf("title = %q, want %q", g.Title, tt.want)
			}
		})
	}
}

func TestAssembleDescriptionOverride(t *testing.T) {
	a := New(testLogger())
	prose := strings.Repeat("The chamber is lined with shelves of salt-stained ledgers. ", 2)
	g, err := a.Assemble(&Documents{
		Map: twoSceneMap(),
		Texts: &document.SceneTexts{
			Scenes: map[string]document.SceneText{
				"start": {
					Description: prose,
					Atmosphere:  "dark and briny",
					InitialText: "You step inside out of the rain.",
				},
			},
		},
	}, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Scenes["start"].Description != prose {
		t.Error("prose description should override the map description")
	}
	if !g.Scenes["start"].Dark {
		t.Error("atmosphere containing \"dark\" should mark the scene dark")
	}
	if g.Scenes["end"].Description == "" || g.Scenes["end"].Dark {
		t.Error("scene without prose keeps map description and stays lit")
	}
}

func TestAssembleDirectionRotation(t *testing.T) {
	a := New(testLogger())
	nm := &document.NarrativeMap{
		StartScene: "hub",
		Scenes: map[string]document.MapScene{
			"hub": {
				Name:        "Hub",
				Description: "A junction with many ways onward, none of them labelled clearly.",
				Connections: []document.Connection{
					{Target: "a"},
					{Target: "b"},
					{Target: "c", Direction: "up"},
					{Target: "d"},
				},
			},
			"a": {Name: "A", Description: strings.Repeat("A quiet side room off the junction. ", 2)},
			"b": {Name: "B", Description: strings.Repeat("A quiet side room off the junction. ", 2)},
			"c": {Name: "C", Description: strings.Repeat("A quiet side room off the junction. ", 2)},
			"d": {Name: "D", Description: strings.Repeat("A quiet side room off the junction. ", 2)},
		},
	}
	g, err := a.Assemble(&Documents{Map: nm}, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hub := g.Scenes["hub"]
	// Undirected connections take the rotation slot of their index;
	// explicit directions are kept as-is.
	want := map[string]string{
		"forward": "a",
		"north":   "b",
		"up":      "c",
		"south":   "d",
	}
	for dir, target := range want {
		if hub.Exits[dir] != target {
			t.Errorf("exit %q = %q, want %q", dir, hub.Exits[dir], target)
		}
	}
}

func TestAssembleDirectionOverwriteWarning(t *testing.T) {
	a := New(testLogger())
	scenes := map[string]document.MapScene{
		"hub": {
			Name:        "Hub",
			Description: "A junction with more connections than the rotation can hold today.",
		},
	}
	var conns []document.Connection
	targets := []string{"r1", "r2", "r3", "r4", "r5", "r6"}
	for _, id := range targets {
		conns = append(conns, document.Connection{Target: id})
		scenes[id] = document.MapScene{
			Name:        strings.ToUpper(id),
			Description: strings.Repeat("A numbered room along the rotation. ", 2),
		}
	}
	hub := scenes["hub"]
	hub.Connections = conns
	scenes["hub"] = hub

	g, err := a.Assemble(&Documents{
		Map: &document.NarrativeMap{StartScene: "hub", Scenes: scenes},
	}, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The sixth connection wraps around and overwrites "forward".
	if g.Scenes["hub"].Exits["forward"] != "r6" {
		t.Errorf("forward exit = %q, want r6", g.Scenes["hub"].Exits["forward"])
	}
	warnings, ok := g.Metadata["assembler_warnings"].([]string)
	if !ok {
		t.Fatal("expected assembler warnings in metadata")
	}
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "reassigned") && strings.Contains(w, `"forward"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings %v do not report the overwrite", warnings)
	}
}

func TestAssembleItemPlacement(t *testing.T) {
	a := New(testLogger())
	g, err := a.Assemble(&Documents{
		Map: twoSceneMap(),
		Puzzles: &document.PuzzleDesign{
			Artifacts: []document.Artifact{
				{ID: "rusty_key", Location: "start", Properties: []string{"opens old locks"}},
				{ID: "lost_amulet", Location: "atlantis", Properties: []string{"glows faintly"}},
			},
		},
	}, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start := g.Scenes["start"]
	if len(start.Items) != 1 || start.Items[0].ID != "rusty_key" {
		t.Errorf("expected rusty_key placed in start, got %v", start.Items)
	}
	if start.Items[0].Name != "Rusty Key" {
		t.Errorf("item name = %q, want %q", start.Items[0].Name, "Rusty Key")
	}
	if !start.Items[0].Takeable {
		t.Error("artifacts should be takeable")
	}
	if _, ok := g.GlobalItems["lost_amulet"]; !ok {
		t.Error("artifact with unknown location should land in the global pool")
	}
}

func TestAssembleNPCs(t *testing.T) {
	a := New(testLogger())
	g, err := a.Assemble(&Documents{
		Map: twoSceneMap(),
		Texts: &document.SceneTexts{
			Scenes: map[string]document.SceneText{
				"start": {
					Description: strings.Repeat("The hall smells of pipe smoke and wet wool tonight. ", 2),
					InitialText: "You push open the door.",
					Dialogue: []document.DialogueLine{
						{Speaker: "Old Sailor", Text: "Mind the tide, stranger."},
						{Speaker: "Old Sailor", Text: "I told you once already."},
						{Speaker: "Barkeep", Text: "What'll it be?"},
					},
				},
			},
		},
		Puzzles: &document.PuzzleDesign{
			NPCs: []document.PuzzleNPC{
				{ID: "lighthouse_keeper", Locations: []string{"end"}, DialogueThemes: []string{"the storm"}},
				{ID: "wandering_ghost", Locations: []string{"nowhere"}, DialogueThemes: []string{"regret"}},
			},
			Monsters: []document.Monster{
				{ID: "harbor_wraith", Locations: []string{"end"}, Abilities: []string{"chilling touch"}},
			},
		},
	}, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start := g.Scenes["start"]
	if len(start.NPCs) != 2 {
		t.Fatalf("expected 2 npcs from dialogue speakers, got %d", len(start.NPCs))
	}
	if start.NPCs[0].ID != "old_sailor" || start.NPCs[0].Name != "Old Sailor" {
		t.Errorf("unexpected first npc: %+v", start.NPCs[0])
	}
	if start.NPCs[0].Dialogue["greeting"] != "Mind the tide, stranger." {
		t.Errorf("npc greeting = %q", start.NPCs[0].Dialogue["greeting"])
	}

	end := g.Scenes["end"]
	var keeper, wraith *game.NPC
	for _, npc := range end.NPCs {
		switch npc.ID {
		case "lighthouse_keeper":
			keeper = npc
		case "harbor_wraith":
			wraith = npc
		}
	}
	if keeper == nil {
		t.Fatal("lighthouse_keeper not placed in end scene")
	}
	if len(keeper.Dialogue) != 1 || !strings.Contains(keeper.Dialogue["topic_1"], "the storm") {
		t.Errorf("keeper dialogue = %v", keeper.Dialogue)
	}
	if wraith == nil {
		t.Fatal("harbor_wraith not placed in end scene")
	}
	if !wraith.Hostile || wraith.Health != 10 {
		t.Errorf("monster should be hostile with default health, got %+v", wraith)
	}

	if _, ok := g.GlobalNPCs["wandering_ghost"]; !ok {
		t.Error("npc with unknown location should land in the global pool")
	}
}

func TestAssembleLockedExits(t *testing.T) {
	a := New(testLogger())
	nm := twoSceneMap()
	start := nm.Scenes["start"]
	start.Connections = []document.Connection{
		{Target: "end", Direction: "north", Condition: "requires the rusty_key to pass"},
	}
	nm.Scenes["start"] = start

	g, err := a.Assemble(&Documents{
		Map: nm,
		Puzzles: &document.PuzzleDesign{
			Artifacts: []document.Artifact{
				{ID: "rusty_key", Location: "start", Properties: []string{"opens old locks"}},
			},
		},
	}, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	scene := g.Scenes["start"]
	if scene.LockedExits["north"] != "rusty_key" {
		t.Errorf("locked exit = %v, want rusty_key", scene.LockedExits)
	}
	if _, open := scene.Exits["north"]; open {
		t.Error("a locked connection must not also be an open exit")
	}
}

func TestAssembleLockedExitMixedCaseKey(t *testing.T) {
	a := New(testLogger())
	nm := twoSceneMap()
	start := nm.Scenes["start"]
	start.Connections = []document.Connection{
		{Target: "end", Direction: "north", Condition: "requires the iron_key to pass"},
	}
	nm.Scenes["start"] = start

	g, err := a.Assemble(&Documents{
		Map: nm,
		Puzzles: &document.PuzzleDesign{
			Artifacts: []document.Artifact{
				{ID: "Iron_Key", Location: "start", Properties: []string{"opens old locks"}},
			},
		},
	}, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Condition tokens are lower-cased; the mixed-case artifact id must
	// still bind, keyed by its declared form.
	if g.Scenes["start"].LockedExits["north"] != "Iron_Key" {
		t.Errorf("locked exit = %v, want Iron_Key", g.Scenes["start"].LockedExits)
	}
}

func TestAssembleLockedExitConflictWarning(t *testing.T) {
	a := New(testLogger())
	nm := twoSceneMap()
	start := nm.Scenes["start"]
	start.Connections = []document.Connection{
		{Target: "end", Direction: "north", Condition: "requires the rusty_key"},
		{Target: "end", Direction: "north", Condition: "requires the brass_key"},
		{Target: "end", Direction: "north"},
	}
	nm.Scenes["start"] = start

	g, err := a.Assemble(&Documents{
		Map: nm,
		Puzzles: &document.PuzzleDesign{
			Artifacts: []document.Artifact{
				{ID: "rusty_key", Location: "start", Properties: []string{"opens old locks"}},
				{ID: "brass_key", Location: "start", Properties: []string{"opens new locks"}},
			},
		},
	}, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.Scenes["start"].LockedExits["north"] != "brass_key" {
		t.Errorf("locked exit = %v, want brass_key", g.Scenes["start"].LockedExits)
	}

	warnings, ok := g.Metadata["assembler_warnings"].([]string)
	if !ok {
		t.Fatal("expected assembler warnings in metadata")
	}
	var lockedReassigned, openConflict bool
	for _, w := range warnings {
		if strings.Contains(w, "locked direction") && strings.Contains(w, "rusty_key") && strings.Contains(w, "brass_key") {
			lockedReassigned = true
		}
		if strings.Contains(w, "both an open exit") {
			openConflict = true
		}
	}
	if !lockedReassigned {
		t.Errorf("warnings %v do not report the locked-exit reassignment", warnings)
	}
	if !openConflict {
		t.Errorf("warnings %v do not report the open/locked conflict", warnings)
	}
}

func TestAssembleEndingsMixedCaseScene(t *testing.T) {
	a := New(testLogger())
	nm := &document.NarrativeMap{
		StartScene: "start",
		Scenes: map[string]document.MapScene{
			"start": {
				Name:        "Start",
				Description: strings.Repeat("The opening scene of the adventure begins here. ", 2),
				Connections: []document.Connection{{Target: "Grand-Finale", Direction: "north"}},
			},
			"Grand-Finale": {
				Name:        "Grand Finale",
				Description: strings.Repeat("The closing scene of the adventure ends here. ", 2),
			},
		},
	}
	g, err := a.Assemble(&Documents{
		Map: nm,
		Mechanics: &document.GameMechanics{
			GameState: document.StateRules{
				WinConditions: []string{"reach the grand-finale with the journal"},
			},
		},
	}, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Endings) != 1 || g.Endings[0].Scene != "Grand-Finale" {
		t.Errorf("ending should bind to the mixed-case scene id, got %v", g.Endings)
	}
}

func TestAssembleEndings(t *testing.T) {
	a := New(testLogger())
	g, err := a.Assemble(&Documents{
		Map: twoSceneMap(),
		Mechanics: &document.GameMechanics{
			GameState: document.StateRules{
				WinConditions: []string{"reach the end with the journal", "solve every puzzle"},
			},
		},
	}, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(g.Endings) != 2 {
		t.Fatalf("expected 2 endings, got %d", len(g.Endings))
	}
	if g.Endings[0].Scene != "end" {
		t.Errorf("first ending scene = %q, want end", g.Endings[0].Scene)
	}
	if g.Endings[1].Scene != "" {
		t.Errorf("second ending should bind to no scene, got %q", g.Endings[1].Scene)
	}
	if !g.IsEndingScene("end") {
		t.Error("end should register as an ending scene")
	}
}

func TestAssembleEmptyDocuments(t *testing.T) {
	a := New(testLogger())
	g, err := a.Assemble(&Documents{}, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Check(); err != nil {
		t.Fatalf("lenient assembly must produce structurally valid data: %v", err)
	}
	if g.StartingScene != "start" {
		t.Errorf("starting scene = %q, want synthesized start", g.StartingScene)
	}
	if g.Title != "Untitled Adventure" {
		t.Errorf("title = %q", g.Title)
	}
	warnings, _ := g.Metadata["assembler_warnings"].([]string)
	if len(warnings) == 0 {
		t.Error("expected a warning about the synthesized scene")
	}

	// Nil bundle behaves the same.
	g2, err := a.Assemble(nil, Lenient)
	if err != nil {
		t.Fatalf("unexpected error for nil documents: %v", err)
	}
	if err := g2.Check(); err != nil {
		t.Errorf("nil documents must still assemble: %v", err)
	}
}

func TestAssembleStrictFailures(t *testing.T) {
	a := New(testLogger())

	if _, err := a.Assemble(&Documents{}, Strict); err == nil {
		t.Error("strict mode should fail with no scenes")
	}

	nm := twoSceneMap()
	nm.StartScene = "void"
	_, err := a.Assemble(&Documents{Map: nm}, Strict)
	if err == nil {
		t.Fatal("strict mode should fail on undeclared start scene")
	}
	var loadErr *LoaderError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoaderError, got %T", err)
	}
	if loadErr.Kind != document.KindNarrativeMap {
		t.Errorf("loader error kind = %s", loadErr.Kind)
	}
}

func TestAssembleLenientBadStartScene(t *testing.T) {
	a := New(testLogger())
	nm := twoSceneMap()
	nm.StartScene = "void"
	g, err := a.Assemble(&Documents{Map: nm}, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.StartingScene != "end" {
		// First declared scene id in sorted order.
		t.Errorf("starting scene = %q, want end", g.StartingScene)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"plot_outline.yaml": `title: The Harbor Mystery
setting: A fog-bound fishing town
themes:
  - smuggling
plot_points:
  - id: arrival
    name: Arrival
    description: A stranger steps off the ferry.
  - id: discovery
    name: Discovery
    description: Contraband turns up in a crab pot.
  - id: reckoning
    name: Reckoning
    description: The ring is exposed at the end.
characters:
  - name: Harbormaster Quinn
    role: ally
    backstory: Knows every boat in the bay.
conflicts:
  - Someone is moving cargo that should not exist.
`,
		"narrative_map.yaml": `start_scene: start
scenes:
  start:
    name: The Quay
    description: Wet cobbles and coiled rope stretch along the waterfront tonight.
    connections:
      - target: end
        description: a narrow stair to the customs house
        direction: north
  end:
    name: Customs House
    description: Ledgers and sealed crates fill the candle-lit customs office.
`,
		"puzzle_design.yaml": `puzzles:
  - id: sealed_crate
    name: The Sealed Crate
    description: A crate with a customs seal that does not match its manifest.
    location: end
    narrative_purpose: reveal the smuggling ring
    solution:
      type: item
      steps:
        - Compare the seal against the ledger.
    difficulty: easy
artifacts:
  - id: customs_ledger
    location: end
    properties:
      - lists every legal shipment
monsters: []
npcs:
  - id: night_watchman
    locations:
      - start
    dialogue_themes:
      - strange lights on the water
`,
		"scene_texts.yaml": `scenes:
  start:
    name: The Quay
    description: The tide slaps the pilings and gulls pick at the day's leavings while lamplight wavers on the wet stone underfoot.
    atmosphere: dark and foggy
    initial_text: You step onto the quay as the last ferry pulls away.
    examination_texts:
      rope: Coiled neatly, still damp.
    dialogue:
      - speaker: Ferryman
        text: Last crossing until dawn.
`,
		"game_mechanics.yaml": `game_title: Harbor Mechanics
game_systems:
  movement: Compass-direction movement between scenes.
  inventory: Simple list inventory.
  combat: None; this is an investigation.
  interaction: Verb commands.
game_state:
  tracked_variables:
    - evidence_count
  win_conditions:
    - expose the ring at the end
  lose_conditions:
    - the ring ships the cargo first
technical_requirements:
  - text-only interface
`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	a := New(testLogger())
	g, err := a.LoadDir(dir, Strict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.Title != "The Harbor Mystery" {
		t.Errorf("title = %q", g.Title)
	}
	if g.StartingScene != "start" {
		t.Errorf("starting scene = %q", g.StartingScene)
	}
	if len(g.Scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(g.Scenes))
	}
	if !g.Scenes["start"].Dark {
		t.Error("start should be dark from its atmosphere")
	}
	if g.GameRules["movement"] == "" {
		t.Error("expected movement rule from mechanics")
	}

	result := game.NewValidator().Validate(g, false)
	if !result.IsValid() {
		t.Errorf("assembled game should be playable, got issues: %v", result.Issues)
	}
	if len(g.Endings) == 0 || g.Endings[0].Scene != "end" {
		t.Errorf("win condition should bind an ending to the end scene, got %v", g.Endings)
	}
}

func TestLoadDirMissingFiles(t *testing.T) {
	dir := t.TempDir()
	a := New(testLogger())

	// Lenient: all files missing still assembles a checkable game.
	g, err := a.LoadDir(dir, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Check(); err != nil {
		t.Errorf("lenient load must produce valid structure: %v", err)
	}

	// Strict: the first missing file is a LoaderError.
	_, err = a.LoadDir(dir, Strict)
	if err == nil {
		t.Fatal("strict load should fail on missing files")
	}
	var loadErr *LoaderError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoaderError, got %T", err)
	}
	if loadErr.Path == "" {
		t.Error("loader error should carry the file path")
	}
}

func TestLoadDirUnparsableFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "plot_outline.yaml"), []byte("title: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	a := New(testLogger())
	g, err := a.LoadDir(dir, Lenient)
	if err != nil {
		t.Fatalf("lenient load should tolerate the bad file: %v", err)
	}
	if g.Title != "Untitled Adventure" {
		t.Errorf("title = %q, want fallback", g.Title)
	}
}
