package document

import (
	"fmt"
	"unicode/utf8"
)

// Collection-level minimums. These are stricter than what an isolated
// SceneText would need, because the assembled game surfaces these
// strings directly to the player.
const (
	minSceneTextDescription = 100
	minInitialText          = 20
	minExaminationText      = 10
)

// SceneTexts carries the player-facing prose for every scene.
type SceneTexts struct {
	Scenes map[string]SceneText `yaml:"scenes" json:"scenes"`
}

// SceneText is the prose bundle for one scene.
type SceneText struct {
	Name             string            `yaml:"name" json:"name"`
	Description      string            `yaml:"description" json:"description"`
	Atmosphere       string            `yaml:"atmosphere" json:"atmosphere"`
	InitialText      string            `yaml:"initial_text" json:"initial_text"`
	ExaminationTexts map[string]string `yaml:"examination_texts" json:"examination_texts"`
	Dialogue         []DialogueLine    `yaml:"dialogue" json:"dialogue"`
	NarrativeNotes   string            `yaml:"narrative_notes,omitempty" json:"narrative_notes,omitempty"`
}

// DialogueLine is a single spoken line attributed to a speaker.
type DialogueLine struct {
	Speaker string `yaml:"speaker" json:"speaker"`
	Text    string `yaml:"text" json:"text"`
}

func (s *SceneTexts) Kind() Kind { return KindSceneTexts }

// Validate enforces the collection-level length minimums.
func (s *SceneTexts) Validate() []string {
	var errs []string

	for _, id := range sortedKeys(s.Scenes) {
		st := s.Scenes[id]
		path := fmt.Sprintf("scenes.%s", id)
		if !IsValidID(id) {
			errs = append(errs, fmt.Sprintf("scenes: scene id %q must match [A-Za-z0-9_-]+", id))
		}
		if got := utf8.RuneCountInString(st.Description); got < minSceneTextDescription {
			errs = append(errs, fmt.Sprintf("%s.description: must be at least %d characters, got %d",
				path, minSceneTextDescription, got))
		}
		if got := utf8.RuneCountInString(st.InitialText); got < minInitialText {
			errs = append(errs, fmt.Sprintf("%s.initial_text: must be at least %d characters, got %d",
				path, minInitialText, got))
		}
		for _, key := range sortedKeys(st.ExaminationTexts) {
			if got := utf8.RuneCountInString(st.ExaminationTexts[key]); got < minExaminationText {
				errs = append(errs, fmt.Sprintf("%s.examination_texts.%s: must be at least %d characters, got %d",
					path, key, minExaminationText, got))
			}
		}
	}

	return errs
}
