package game

import "fmt"

// GameData is the engine-ready content graph merged from the five
// generated documents. It is constructed once per load and read-only
// afterwards.
type GameData struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Scenes        map[string]*Scene `json:"scenes"`
	StartingScene string            `json:"starting_scene"`
	GlobalItems   map[string]*Item  `json:"global_items"`
	GlobalNPCs    map[string]*NPC   `json:"global_npcs"`
	Themes        []string          `json:"themes"`
	PlotPoints    []string          `json:"plot_points"`
	Endings       []Ending          `json:"endings"`
	GameRules     map[string]string `json:"game_rules"`
	Metadata      map[string]any    `json:"metadata,omitempty"`
}

// Scene is one node of the content graph.
type Scene struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Exits       map[string]string `json:"exits"`        // direction -> scene id
	LockedExits map[string]string `json:"locked_exits"` // direction -> required item id
	Items       []*Item           `json:"items"`
	NPCs        []*NPC            `json:"npcs"`
	Dark        bool              `json:"dark"`
}

// Item is a usable or takeable object.
type Item struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Takeable    bool              `json:"takeable"`
	Useable     bool              `json:"useable"`
	UseText     string            `json:"use_text,omitempty"`
	Effects     map[string]string `json:"effects"`
}

// NPC is a character the player can encounter, friendly or hostile.
type NPC struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Dialogue    map[string]string `json:"dialogue"`
	Hostile     bool              `json:"hostile"`
	Health      int               `json:"health,omitempty"`
	GivesItem   string            `json:"gives_item,omitempty"`
}

// Ending marks a scene where the game can conclude.
type Ending struct {
	Scene       string `json:"scene"`
	Description string `json:"description"`
}

// Check verifies the structural invariants every GameData must hold:
// at least one scene, a starting scene that exists, and a non-empty
// title and description. The lenient assembler guarantees these; the
// strict assembler surfaces violations as load errors.
func (g *GameData) Check() error {
	if g.Title == "" {
		return fmt.Errorf("game title must not be empty")
	}
	if g.Description == "" {
		return fmt.Errorf("game description must not be empty")
	}
	if len(g.Scenes) == 0 {
		return fmt.Errorf("game must have at least one scene")
	}
	if _, ok := g.Scenes[g.StartingScene]; !ok {
		return fmt.Errorf("starting scene %q is not a declared scene", g.StartingScene)
	}
	return nil
}

// IsEndingScene reports whether the scene id is registered as an
// ending.
func (g *GameData) IsEndingScene(sceneID string) bool {
	for _, e := range g.Endings {
		if e.Scene == sceneID {
			return true
		}
	}
	return false
}
