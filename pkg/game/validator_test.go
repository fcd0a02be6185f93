package game

import (
	"strings"
	"testing"
)

// testGame builds a minimal playable game to mutate in individual
// tests.
func testGame() *GameData {
	return &GameData{
		Title:         "Test Adventure",
		Description:   "A small graph for exercising the validator.",
		StartingScene: "start",
		Scenes: map[string]*Scene{
			"start": {
				ID:          "start",
				Name:        "Start",
				Description: "The beginning.",
				Exits:       map[string]string{"north": "end"},
			},
			"end": {
				ID:          "end",
				Name:        "End",
				Description: "The conclusion.",
				Exits:       map[string]string{},
			},
		},
		GlobalItems: map[string]*Item{},
		GlobalNPCs:  map[string]*NPC{},
		Endings:     []Ending{{Scene: "end", Description: "The story concludes."}},
	}
}

func TestValidatePlayableGame(t *testing.T) {
	v := NewValidator()
	result := v.Validate(testGame(), false)
	if !result.IsValid() {
		t.Fatalf("expected playable game, got issues: %v", result.Issues)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
	if result.Stats["total_scenes"] != 2 {
		t.Errorf("total_scenes = %v, want 2", result.Stats["total_scenes"])
	}
	if result.Stats["reachable_scenes"] != 2 {
		t.Errorf("reachable_scenes = %v, want 2", result.Stats["reachable_scenes"])
	}
	if result.Stats["starting_scene"] != "start" {
		t.Errorf("starting_scene = %v, want start", result.Stats["starting_scene"])
	}
}

func TestValidateUnreachableScene(t *testing.T) {
	g := testGame()
	g.Scenes["island"] = &Scene{
		ID:          "island",
		Name:        "Island",
		Description: "Nothing connects here.",
		Exits:       map[string]string{"south": "start"},
	}

	v := NewValidator()
	result := v.Validate(g, false)
	if result.IsValid() {
		t.Fatal("expected unreachable scene to block playability")
	}
	found := false
	for _, issue := range result.Issues {
		if strings.Contains(issue, "unreachable scene island") {
			found = true
		}
	}
	if !found {
		t.Errorf("issues %v do not name the unreachable scene", result.Issues)
	}
	if len(result.Suggestions["island"]) == 0 {
		t.Error("expected a suggestion for the unreachable scene")
	}
	if result.Stats["reachable_scenes"] != 2 {
		t.Errorf("reachable_scenes = %v, want 2", result.Stats["reachable_scenes"])
	}

	// Connecting the scene restores playability.
	g.Scenes["end"].Exits["east"] = "island"
	result = v.Validate(g, false)
	if !result.IsValid() {
		t.Errorf("expected connected graph to be playable, got %v", result.Issues)
	}
}

func TestValidateInvalidExit(t *testing.T) {
	g := testGame()
	g.Scenes["start"].Exits["west"] = "nowhere"

	v := NewValidator()
	result := v.Validate(g, false)
	if result.IsValid() {
		t.Fatal("expected invalid exit to block playability")
	}
	found := false
	for _, issue := range result.Issues {
		if strings.Contains(issue, "invalid exit to nowhere") && strings.Contains(issue, "direction west") {
			found = true
		}
	}
	if !found {
		t.Errorf("issues %v do not report the broken exit", result.Issues)
	}
}

func TestValidateDeadEnd(t *testing.T) {
	g := testGame()
	// "end" stops being an ending, so its lack of exits becomes a dead
	// end warning.
	g.Endings = nil

	v := NewValidator()
	result := v.Validate(g, false)
	if !result.IsValid() {
		t.Fatalf("dead end should not block playability in non-strict mode: %v", result.Issues)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "dead end: scene end") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings %v do not report the dead end", result.Warnings)
	}

	// Strict mode promotes the warning to a blocking issue.
	strict := v.Validate(g, true)
	if strict.IsValid() {
		t.Error("expected strict mode to block on the dead end")
	}
	if len(strict.Warnings) != 0 {
		t.Errorf("strict mode should clear warnings, got %v", strict.Warnings)
	}
}

func TestValidateNPCs(t *testing.T) {
	g := testGame()
	g.Scenes["start"].NPCs = []*NPC{
		{ID: "silent_guard", Name: "Silent Guard"},
		{ID: "merchant", Name: "Merchant", Dialogue: map[string]string{"greeting": "Welcome."}, GivesItem: "ghost_item"},
	}

	v := NewValidator()
	result := v.Validate(g, false)
	if result.IsValid() {
		t.Fatal("expected undeclared gives_item to block playability")
	}

	var gaveIssue, dialogueWarning bool
	for _, issue := range result.Issues {
		if strings.Contains(issue, "gives item ghost_item") {
			gaveIssue = true
		}
	}
	for _, w := range result.Warnings {
		if strings.Contains(w, "npc silent_guard") && strings.Contains(w, "no dialogue") {
			dialogueWarning = true
		}
	}
	if !gaveIssue {
		t.Errorf("issues %v do not report the undeclared item", result.Issues)
	}
	if !dialogueWarning {
		t.Errorf("warnings %v do not report the silent npc", result.Warnings)
	}

	// Declaring the item clears the issue.
	g.GlobalItems["ghost_item"] = &Item{ID: "ghost_item", Name: "Ghost Item"}
	result = v.Validate(g, false)
	if !result.IsValid() {
		t.Errorf("expected declared item to clear the issue, got %v", result.Issues)
	}

	// In strict mode the silent npc's warning becomes a blocking
	// issue and the warning list is cleared.
	strict := v.Validate(g, true)
	if strict.IsValid() {
		t.Error("strict mode should block on the silent npc")
	}
	found := false
	for _, issue := range strict.Issues {
		if strings.Contains(issue, "npc silent_guard") && strings.Contains(issue, "no dialogue") {
			found = true
		}
	}
	if !found {
		t.Errorf("strict issues %v do not carry the promoted warning", strict.Issues)
	}
	if len(strict.Warnings) != 0 {
		t.Errorf("strict mode should clear warnings, got %v", strict.Warnings)
	}
}

func TestValidateLockedExits(t *testing.T) {
	g := testGame()
	g.Scenes["start"].LockedExits = map[string]string{"down": "iron_key"}

	v := NewValidator()
	result := v.Validate(g, false)
	if !result.IsValid() {
		t.Fatalf("unobtainable key is advisory, got issues: %v", result.Issues)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "requires item iron_key") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings %v do not report the unobtainable key", result.Warnings)
	}

	// Placing the key in a reachable scene clears the warning.
	g.Scenes["end"].Items = []*Item{{ID: "iron_key", Name: "Iron Key", Takeable: true}}
	result = v.Validate(g, false)
	for _, w := range result.Warnings {
		if strings.Contains(w, "iron_key") {
			t.Errorf("warning persists after placing the key: %s", w)
		}
	}

	// A key held only by an npc in an unreachable scene does not count.
	g.Scenes["end"].Items = nil
	g.Scenes["vault"] = &Scene{
		ID:          "vault",
		Name:        "Vault",
		Description: "Sealed off.",
		NPCs:        []*NPC{{ID: "warden", Name: "Warden", GivesItem: "iron_key", Dialogue: map[string]string{"greeting": "..."}}},
	}
	result = v.Validate(g, false)
	found = false
	for _, w := range result.Warnings {
		if strings.Contains(w, "iron_key") {
			found = true
		}
	}
	if !found {
		t.Error("key behind an unreachable scene should still warn")
	}
}

func TestValidateMissingStartingScene(t *testing.T) {
	g := testGame()
	g.StartingScene = "void"

	v := NewValidator()
	result := v.Validate(g, false)
	if result.IsValid() {
		t.Fatal("expected missing starting scene to block playability")
	}
	// Nothing is reachable; every scene reports unreachable.
	if result.Stats["reachable_scenes"] != 0 {
		t.Errorf("reachable_scenes = %v, want 0", result.Stats["reachable_scenes"])
	}
}

func TestValidationResultSummary(t *testing.T) {
	v := NewValidator()

	result := v.Validate(testGame(), false)
	summary := result.Summary()
	if !strings.Contains(summary, "Playability: PLAYABLE") {
		t.Errorf("summary missing status line: %q", summary)
	}
	if !strings.Contains(summary, "2 reachable of 2 total") {
		t.Errorf("summary missing scene counts: %q", summary)
	}

	g := testGame()
	g.Scenes["start"].Exits["west"] = "nowhere"
	broken := v.Validate(g, false)
	summary = broken.Summary()
	if !strings.Contains(summary, "NOT PLAYABLE") {
		t.Errorf("summary missing failure status: %q", summary)
	}
	if !strings.Contains(summary, "issue: scene start: invalid exit to nowhere") {
		t.Errorf("summary missing issue line: %q", summary)
	}
}

func TestGameDataCheck(t *testing.T) {
	g := testGame()
	if err := g.Check(); err != nil {
		t.Errorf("expected valid game data, got %v", err)
	}

	g.StartingScene = "void"
	if err := g.Check(); err == nil {
		t.Error("expected error for undeclared starting scene")
	}

	g = testGame()
	g.Title = ""
	if err := g.Check(); err == nil {
		t.Error("expected error for empty title")
	}

	g = testGame()
	g.Scenes = map[string]*Scene{}
	if err := g.Check(); err == nil {
		t.Error("expected error for empty scene map")
	}
}

func TestIsEndingScene(t *testing.T) {
	g := testGame()
	if !g.IsEndingScene("end") {
		t.Error("end should be an ending scene")
	}
	if g.IsEndingScene("start") {
		t.Error("start should not be an ending scene")
	}
}
