package document

import "fmt"

// PuzzleDesign declares the interactive content of the game: puzzles,
// artifacts, monsters and non-player characters.
type PuzzleDesign struct {
	Puzzles   []Puzzle    `yaml:"puzzles" json:"puzzles"`
	Artifacts []Artifact  `yaml:"artifacts" json:"artifacts"`
	Monsters  []Monster   `yaml:"monsters" json:"monsters"`
	NPCs      []PuzzleNPC `yaml:"npcs" json:"npcs"`
}

// Puzzle is one designed obstacle and its solution.
type Puzzle struct {
	ID               string   `yaml:"id" json:"id"`
	Name             string   `yaml:"name" json:"name"`
	Description      string   `yaml:"description" json:"description"`
	Location         string   `yaml:"location" json:"location"`
	NarrativePurpose string   `yaml:"narrative_purpose" json:"narrative_purpose"`
	Solution         Solution `yaml:"solution" json:"solution"`
	Difficulty       string   `yaml:"difficulty" json:"difficulty"`
}

// Solution describes how a puzzle is solved.
type Solution struct {
	Type  string   `yaml:"type" json:"type"`
	Steps []string `yaml:"steps" json:"steps"`
}

// Artifact is a placeable item.
type Artifact struct {
	ID         string   `yaml:"id" json:"id"`
	Location   string   `yaml:"location" json:"location"`
	Properties []string `yaml:"properties" json:"properties"`
}

// Monster is a hostile encounter.
type Monster struct {
	ID        string   `yaml:"id" json:"id"`
	Locations []string `yaml:"locations" json:"locations"`
	Abilities []string `yaml:"abilities" json:"abilities"`
}

// PuzzleNPC is a friendly or neutral character placed in the world.
type PuzzleNPC struct {
	ID             string   `yaml:"id" json:"id"`
	Locations      []string `yaml:"locations" json:"locations"`
	DialogueThemes []string `yaml:"dialogue_themes" json:"dialogue_themes"`
}

var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

func (p *PuzzleDesign) Kind() Kind { return KindPuzzleDesign }

// Validate checks field constraints; ids must be unique within each of
// the four lists independently.
func (p *PuzzleDesign) Validate() []string {
	var errs []string

	seen := make(map[string]bool)
	for i, pz := range p.Puzzles {
		path := fmt.Sprintf("puzzles[%d]", i)
		errs = appendIDErrors(errs, path, pz.ID, seen, "puzzle")
		if pz.Location == "" {
			errs = append(errs, path+".location: required field is missing or empty")
		}
		if len(pz.Solution.Steps) < 1 {
			errs = append(errs, path+".solution.steps: at least 1 step is required")
		}
		if !validDifficulties[pz.Difficulty] {
			errs = append(errs, fmt.Sprintf("%s.difficulty: %q must be one of easy, medium, hard", path, pz.Difficulty))
		}
	}

	seen = make(map[string]bool)
	for i, a := range p.Artifacts {
		path := fmt.Sprintf("artifacts[%d]", i)
		errs = appendIDErrors(errs, path, a.ID, seen, "artifact")
		if len(a.Properties) < 1 {
			errs = append(errs, path+".properties: at least 1 property is required")
		}
	}

	seen = make(map[string]bool)
	for i, m := range p.Monsters {
		path := fmt.Sprintf("monsters[%d]", i)
		errs = appendIDErrors(errs, path, m.ID, seen, "monster")
		if len(m.Locations) < 1 {
			errs = append(errs, path+".locations: at least 1 location is required")
		}
		if len(m.Abilities) < 1 {
			errs = append(errs, path+".abilities: at least 1 ability is required")
		}
	}

	seen = make(map[string]bool)
	for i, n := range p.NPCs {
		path := fmt.Sprintf("npcs[%d]", i)
		errs = appendIDErrors(errs, path, n.ID, seen, "npc")
		if len(n.Locations) < 1 {
			errs = append(errs, path+".locations: at least 1 location is required")
		}
		if len(n.DialogueThemes) < 1 {
			errs = append(errs, path+".dialogue_themes: at least 1 dialogue theme is required")
		}
	}

	return errs
}

// appendIDErrors validates a list entry id for presence, format and
// uniqueness within its own list.
func appendIDErrors(errs []string, path, id string, seen map[string]bool, noun string) []string {
	if id == "" {
		return append(errs, path+".id: required field is missing or empty")
	}
	if !IsValidID(id) {
		errs = append(errs, fmt.Sprintf("%s.id: %q must match [A-Za-z0-9_-]+", path, id))
	}
	if seen[id] {
		errs = append(errs, fmt.Sprintf("%s.id: %s ids must be unique, %q is duplicated", path, noun, id))
	}
	seen[id] = true
	return errs
}
