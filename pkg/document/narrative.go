package document

import (
	"fmt"
	"unicode/utf8"
)

const minSceneDescription = 50

// NarrativeMap is the scene graph document: every scene the game can
// visit and the connections between them.
type NarrativeMap struct {
	StartScene    string              `yaml:"start_scene" json:"start_scene"`
	Scenes        map[string]MapScene `yaml:"scenes" json:"scenes"`
	CharacterArcs []CharacterArc      `yaml:"character_arcs,omitempty" json:"character_arcs,omitempty"`
}

// MapScene is one node in the narrative map.
type MapScene struct {
	Name             string          `yaml:"name" json:"name"`
	Description      string          `yaml:"description" json:"description"`
	Connections      []Connection    `yaml:"connections" json:"connections"`
	CharacterMoments []string        `yaml:"character_moments,omitempty" json:"character_moments,omitempty"`
	DecisionPoints   []DecisionPoint `yaml:"decision_points,omitempty" json:"decision_points,omitempty"`
}

// Connection is a directed edge to another scene. Direction is
// optional; the assembler assigns one from a fixed rotation when it
// is absent.
type Connection struct {
	Target      string `yaml:"target" json:"target"`
	Description string `yaml:"description" json:"description"`
	Direction   string `yaml:"direction,omitempty" json:"direction,omitempty"`
	Condition   string `yaml:"condition,omitempty" json:"condition,omitempty"`
}

// DecisionPoint is an in-scene branching choice.
type DecisionPoint struct {
	ID      string           `yaml:"id" json:"id"`
	Prompt  string           `yaml:"prompt" json:"prompt"`
	Options []DecisionOption `yaml:"options" json:"options"`
}

// DecisionOption is one selectable branch of a decision point.
type DecisionOption struct {
	Choice  string `yaml:"choice" json:"choice"`
	Outcome string `yaml:"outcome" json:"outcome"`
	Target  string `yaml:"target" json:"target"`
}

// CharacterArc tracks a character's development across scenes.
type CharacterArc struct {
	Character string   `yaml:"character" json:"character"`
	Stages    []string `yaml:"stages,omitempty" json:"stages,omitempty"`
}

func (n *NarrativeMap) Kind() Kind { return KindNarrativeMap }

// Validate checks field constraints and that every referenced scene id
// is declared in the scenes map.
func (n *NarrativeMap) Validate() []string {
	var errs []string

	if len(n.Scenes) < 1 {
		errs = append(errs, "scenes: at least 1 scene is required")
	}
	if n.StartScene == "" {
		errs = append(errs, "start_scene: required field is missing or empty")
	} else if _, ok := n.Scenes[n.StartScene]; !ok {
		errs = append(errs, fmt.Sprintf("start_scene: %q is not a declared scene id", n.StartScene))
	}

	for _, id := range sortedKeys(n.Scenes) {
		scene := n.Scenes[id]
		path := fmt.Sprintf("scenes.%s", id)
		if !IsValidID(id) {
			errs = append(errs, fmt.Sprintf("scenes: scene id %q must match [A-Za-z0-9_-]+", id))
		}
		if got := utf8.RuneCountInString(scene.Description); got < minSceneDescription {
			errs = append(errs, fmt.Sprintf("%s.description: must be at least %d characters, got %d",
				path, minSceneDescription, got))
		}
		for i, conn := range scene.Connections {
			if conn.Target == "" {
				errs = append(errs, fmt.Sprintf("%s.connections[%d].target: required field is missing or empty", path, i))
				continue
			}
			if _, ok := n.Scenes[conn.Target]; !ok {
				errs = append(errs, fmt.Sprintf("%s.connections[%d].target: %q is not a declared scene id", path, i, conn.Target))
			}
		}
		for i, dp := range scene.DecisionPoints {
			dpPath := fmt.Sprintf("%s.decision_points[%d]", path, i)
			if dp.ID == "" {
				errs = append(errs, dpPath+".id: required field is missing or empty")
			} else if !IsValidID(dp.ID) {
				errs = append(errs, fmt.Sprintf("%s.id: %q must match [A-Za-z0-9_-]+", dpPath, dp.ID))
			}
			if len(dp.Options) < 2 {
				errs = append(errs, fmt.Sprintf("%s.options: at least 2 options are required, got %d", dpPath, len(dp.Options)))
			}
			for j, opt := range dp.Options {
				if opt.Target == "" {
					errs = append(errs, fmt.Sprintf("%s.options[%d].target: required field is missing or empty", dpPath, j))
					continue
				}
				if _, ok := n.Scenes[opt.Target]; !ok {
					errs = append(errs, fmt.Sprintf("%s.options[%d].target: %q is not a declared scene id", dpPath, j, opt.Target))
				}
			}
		}
	}

	return errs
}
