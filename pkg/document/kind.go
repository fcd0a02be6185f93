package document

import "fmt"

// Kind identifies one of the five content documents produced per
// generation session. The set is closed: validator and corrector
// dispatch is exhaustive over these values and rejects anything else.
type Kind string

const (
	KindPlotOutline   Kind = "plot_outline"
	KindNarrativeMap  Kind = "narrative_map"
	KindPuzzleDesign  Kind = "puzzle_design"
	KindSceneTexts    Kind = "scene_texts"
	KindGameMechanics Kind = "game_mechanics"
)

// Kinds returns all document kinds in generation order.
func Kinds() []Kind {
	return []Kind{
		KindPlotOutline,
		KindNarrativeMap,
		KindPuzzleDesign,
		KindSceneTexts,
		KindGameMechanics,
	}
}

// IsValid reports whether k is one of the five known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindPlotOutline, KindNarrativeMap, KindPuzzleDesign, KindSceneTexts, KindGameMechanics:
		return true
	}
	return false
}

// FileName returns the fixed on-disk name for this document kind
// inside a session directory.
func (k Kind) FileName() string {
	return string(k) + ".yaml"
}

// ParseKind converts a string to a Kind, erroring on unknown values.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("unknown document kind: %q", s)
	}
	return k, nil
}
