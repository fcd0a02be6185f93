package sanitize

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/story-forge/pkg/document"
)

// DefaultMaxPasses bounds the repair loop. Structurally unfixable
// errors (for example a decision option targeting a scene that cannot
// be synthesized) would otherwise loop forever.
const DefaultMaxPasses = 3

// Corrector applies bounded, deterministic repairs to documents that
// fail schema validation. It never returns an error: the worst case is
// a ProcessingResult with Success=false carrying best-effort text and
// the remaining violations.
type Corrector struct {
	maxPasses int
}

// NewCorrector creates a corrector with the default repair bound.
func NewCorrector() *Corrector {
	return &Corrector{maxPasses: DefaultMaxPasses}
}

// NewCorrectorWithPasses creates a corrector with a custom repair
// bound. Values below 1 are clamped to 1.
func NewCorrectorWithPasses(passes int) *Corrector {
	if passes < 1 {
		passes = 1
	}
	return &Corrector{maxPasses: passes}
}

// Correct validates raw text as a document of the given kind and, if
// validation fails, repairs it in priority order: literal defaults for
// missing required fields, identifier normalization, description
// padding. Every applied repair is recorded in Corrections. The
// returned Data is always text, ready to persist.
func (c *Corrector) Correct(raw string, kind document.Kind) *document.ProcessingResult {
	result := &document.ProcessingResult{
		Metadata: map[string]any{"kind": string(kind)},
	}
	if !kind.IsValid() {
		result.Errors = append(result.Errors, fmt.Sprintf("unknown document kind: %q", kind))
		result.Data = raw
		return result
	}

	if initial := document.Validate(raw, kind); initial.IsValid() {
		result.Success = true
		result.Data = document.StripWrapping(raw)
		return result
	}

	var corrections []string
	doc, err := document.Parse(raw, kind)
	if err != nil {
		doc = defaultDocument(kind)
		corrections = append(corrections, fmt.Sprintf("%s: replaced unparsable document with defaults (%v)", kind, err))
	}

	text := document.StripWrapping(raw)
	var remaining []string
	for pass := 0; pass < c.maxPasses; pass++ {
		corrections = c.repair(doc, corrections)

		out, err := yaml.Marshal(doc)
		if err != nil {
			remaining = append(remaining, fmt.Sprintf("failed to re-serialize %s document: %v", kind, err))
			break
		}
		text = strings.TrimSpace(string(out))

		check := document.Validate(text, kind)
		if check.IsValid() {
			result.Success = true
			result.Data = text
			result.Corrections = corrections
			return result
		}
		remaining = check.Errors
	}

	result.Data = text
	result.Errors = remaining
	result.Corrections = corrections
	return result
}

func (c *Corrector) repair(doc document.Document, corrections []string) []string {
	switch d := doc.(type) {
	case *document.PlotOutline:
		return repairPlotOutline(d, corrections)
	case *document.NarrativeMap:
		return repairNarrativeMap(d, corrections)
	case *document.PuzzleDesign:
		return repairPuzzleDesign(d, corrections)
	case *document.SceneTexts:
		return repairSceneTexts(d, corrections)
	case *document.GameMechanics:
		return repairGameMechanics(d, corrections)
	}
	return corrections
}

func repairPlotOutline(p *document.PlotOutline, corrections []string) []string {
	if p.Title == "" {
		p.Title = defaultTitle
		corrections = append(corrections, fmt.Sprintf("plot_outline.title: inserted default %q", defaultTitle))
	}
	if len(p.Themes) == 0 {
		p.Themes = []string{defaultTheme}
		corrections = append(corrections, fmt.Sprintf("plot_outline.themes: inserted default theme %q", defaultTheme))
	}
	if len(p.Conflicts) == 0 {
		p.Conflicts = defaultPlotOutline().Conflicts
		corrections = append(corrections, "plot_outline.conflicts: inserted default conflict")
	}
	if len(p.Characters) == 0 {
		p.Characters = defaultPlotOutline().Characters
		corrections = append(corrections, "plot_outline.characters: inserted default protagonist")
	}

	seenNames := make(map[string]int)
	for i := range p.Characters {
		name := p.Characters[i].Name
		if name == "" {
			name = fmt.Sprintf("Character %d", i+1)
			p.Characters[i].Name = name
			corrections = append(corrections, fmt.Sprintf("plot_outline.characters[%d].name: inserted default %q", i, name))
		}
		if n := seenNames[name]; n > 0 {
			renamed := fmt.Sprintf("%s %d", name, n+1)
			p.Characters[i].Name = renamed
			corrections = append(corrections, fmt.Sprintf("plot_outline.characters[%d].name: renamed duplicate %q to %q", i, name, renamed))
		}
		seenNames[name]++
	}

	theme := documentTheme(p)
	seenIDs := make(map[string]int)
	for i := range p.PlotPoints {
		pp := &p.PlotPoints[i]
		if !document.IsValidID(pp.ID) {
			normalized := document.NormalizeID(pp.ID)
			if normalized == "" {
				normalized = fmt.Sprintf("plot_point_%d", i+1)
			}
			corrections = append(corrections, fmt.Sprintf("plot_outline.plot_points[%d].id: normalized %q to %q", i, pp.ID, normalized))
			pp.ID = normalized
		}
		if n := seenIDs[pp.ID]; n > 0 {
			renamed := fmt.Sprintf("%s_%d", pp.ID, n+1)
			corrections = append(corrections, fmt.Sprintf("plot_outline.plot_points[%d].id: renamed duplicate %q to %q", i, pp.ID, renamed))
			seenIDs[pp.ID]++
			pp.ID = renamed
		} else {
			seenIDs[pp.ID]++
		}
		if pp.Name == "" {
			pp.Name = document.DisplayName(pp.ID)
			corrections = append(corrections, fmt.Sprintf("plot_outline.plot_points[%d].name: derived %q from id", i, pp.Name))
		}
	}
	for len(p.PlotPoints) < 3 {
		n := len(p.PlotPoints) + 1
		pp := document.PlotPoint{
			ID:          fmt.Sprintf("plot_point_%d", n),
			Name:        fmt.Sprintf("Plot Point %d", n),
			Description: padText("", 1, fillerFor(document.KindPlotOutline, theme)),
		}
		p.PlotPoints = append(p.PlotPoints, pp)
		corrections = append(corrections, fmt.Sprintf("plot_outline.plot_points: inserted default plot point %q", pp.ID))
	}

	return corrections
}

func repairNarrativeMap(n *document.NarrativeMap, corrections []string) []string {
	if n.Scenes == nil {
		n.Scenes = make(map[string]document.MapScene)
	}
	if len(n.Scenes) == 0 {
		def := defaultNarrativeMap()
		n.Scenes = def.Scenes
		n.StartScene = def.StartScene
		corrections = append(corrections, "narrative_map.scenes: inserted default starting scene")
	}

	// Normalize malformed scene ids, rewriting references to them.
	renames := make(map[string]string)
	for _, id := range sortedKeys(n.Scenes) {
		if document.IsValidID(id) {
			continue
		}
		normalized := document.NormalizeID(id)
		if normalized == "" {
			normalized = fmt.Sprintf("scene_%d", len(renames)+1)
		}
		for {
			_, exists := n.Scenes[normalized]
			if !exists && !renamedTo(renames, normalized) {
				break
			}
			normalized += "_2"
		}
		renames[id] = normalized
		corrections = append(corrections, fmt.Sprintf("narrative_map.scenes: normalized scene id %q to %q", id, normalized))
	}
	for old, renamed := range renames {
		n.Scenes[renamed] = n.Scenes[old]
		delete(n.Scenes, old)
	}
	if len(renames) > 0 {
		if renamed, ok := renames[n.StartScene]; ok {
			n.StartScene = renamed
		}
		for id, scene := range n.Scenes {
			for i := range scene.Connections {
				if renamed, ok := renames[scene.Connections[i].Target]; ok {
					scene.Connections[i].Target = renamed
				}
			}
			for i := range scene.DecisionPoints {
				for j := range scene.DecisionPoints[i].Options {
					if renamed, ok := renames[scene.DecisionPoints[i].Options[j].Target]; ok {
						scene.DecisionPoints[i].Options[j].Target = renamed
					}
				}
			}
			n.Scenes[id] = scene
		}
	}

	if _, ok := n.Scenes[n.StartScene]; !ok {
		first := sortedKeys(n.Scenes)[0]
		corrections = append(corrections, fmt.Sprintf("narrative_map.start_scene: %q is not a declared scene, set to %q", n.StartScene, first))
		n.StartScene = first
	}

	for _, id := range sortedKeys(n.Scenes) {
		scene := n.Scenes[id]
		changed := false
		theme := strings.ToLower(scene.Name)
		if theme == "" {
			theme = defaultTheme
		}
		if utf8.RuneCountInString(scene.Description) < 50 {
			scene.Description = padText(scene.Description, 50, fillerFor(document.KindNarrativeMap, theme))
			corrections = append(corrections, fmt.Sprintf("narrative_map.scenes.%s.description: padded to minimum length", id))
			changed = true
		}
		for i := range scene.DecisionPoints {
			dp := &scene.DecisionPoints[i]
			if !document.IsValidID(dp.ID) {
				normalized := document.NormalizeID(dp.ID)
				if normalized == "" {
					normalized = fmt.Sprintf("decision_%d", i+1)
				}
				corrections = append(corrections, fmt.Sprintf("narrative_map.scenes.%s.decision_points[%d].id: normalized %q to %q", id, i, dp.ID, normalized))
				dp.ID = normalized
				changed = true
			}
			for len(dp.Options) < 2 {
				dp.Options = append(dp.Options, document.DecisionOption{
					Choice:  "Wait",
					Outcome: "Time passes and nothing changes.",
					Target:  id,
				})
				corrections = append(corrections, fmt.Sprintf("narrative_map.scenes.%s.decision_points[%d].options: inserted default option", id, i))
				changed = true
			}
		}
		if changed {
			n.Scenes[id] = scene
		}
	}

	return corrections
}

func repairPuzzleDesign(p *document.PuzzleDesign, corrections []string) []string {
	seen := make(map[string]int)
	for i := range p.Puzzles {
		pz := &p.Puzzles[i]
		path := fmt.Sprintf("puzzle_design.puzzles[%d]", i)
		pz.ID, corrections = normalizeListID(pz.ID, fmt.Sprintf("puzzle_%d", i+1), path, seen, corrections)
		if pz.Location == "" {
			pz.Location = "unknown"
			corrections = append(corrections, path+".location: inserted placeholder location")
		}
		if len(pz.Solution.Steps) == 0 {
			pz.Solution.Steps = []string{"Investigate the surroundings for a way forward."}
			corrections = append(corrections, path+".solution.steps: inserted default step")
		}
		if pz.Difficulty != "easy" && pz.Difficulty != "medium" && pz.Difficulty != "hard" {
			corrections = append(corrections, fmt.Sprintf("%s.difficulty: replaced %q with \"medium\"", path, pz.Difficulty))
			pz.Difficulty = "medium"
		}
	}

	seen = make(map[string]int)
	for i := range p.Artifacts {
		a := &p.Artifacts[i]
		path := fmt.Sprintf("puzzle_design.artifacts[%d]", i)
		a.ID, corrections = normalizeListID(a.ID, fmt.Sprintf("artifact_%d", i+1), path, seen, corrections)
		if len(a.Properties) == 0 {
			a.Properties = []string{"of unknown provenance"}
			corrections = append(corrections, path+".properties: inserted default property")
		}
	}

	seen = make(map[string]int)
	for i := range p.Monsters {
		m := &p.Monsters[i]
		path := fmt.Sprintf("puzzle_design.monsters[%d]", i)
		m.ID, corrections = normalizeListID(m.ID, fmt.Sprintf("monster_%d", i+1), path, seen, corrections)
		if len(m.Locations) == 0 {
			m.Locations = []string{"unknown"}
			corrections = append(corrections, path+".locations: inserted placeholder location")
		}
		if len(m.Abilities) == 0 {
			m.Abilities = []string{"lurks in the shadows"}
			corrections = append(corrections, path+".abilities: inserted default ability")
		}
	}

	seen = make(map[string]int)
	for i := range p.NPCs {
		n := &p.NPCs[i]
		path := fmt.Sprintf("puzzle_design.npcs[%d]", i)
		n.ID, corrections = normalizeListID(n.ID, fmt.Sprintf("npc_%d", i+1), path, seen, corrections)
		if len(n.Locations) == 0 {
			n.Locations = []string{"unknown"}
			corrections = append(corrections, path+".locations: inserted placeholder location")
		}
		if len(n.DialogueThemes) == 0 {
			n.DialogueThemes = []string{"local rumors"}
			corrections = append(corrections, path+".dialogue_themes: inserted default dialogue theme")
		}
	}

	return corrections
}

func repairSceneTexts(s *document.SceneTexts, corrections []string) []string {
	if s.Scenes == nil {
		s.Scenes = make(map[string]document.SceneText)
	}

	renames := make(map[string]string)
	for _, id := range sortedKeys(s.Scenes) {
		if document.IsValidID(id) {
			continue
		}
		normalized := document.NormalizeID(id)
		if normalized == "" {
			normalized = fmt.Sprintf("scene_%d", len(renames)+1)
		}
		for {
			_, exists := s.Scenes[normalized]
			if !exists && !renamedTo(renames, normalized) {
				break
			}
			normalized += "_2"
		}
		renames[id] = normalized
		corrections = append(corrections, fmt.Sprintf("scene_texts.scenes: normalized scene id %q to %q", id, normalized))
	}
	for old, renamed := range renames {
		s.Scenes[renamed] = s.Scenes[old]
		delete(s.Scenes, old)
	}

	for _, id := range sortedKeys(s.Scenes) {
		st := s.Scenes[id]
		changed := false
		theme := strings.ToLower(st.Atmosphere)
		if theme == "" {
			theme = defaultTheme
		}
		filler := fillerFor(document.KindSceneTexts, theme)
		if utf8.RuneCountInString(st.Description) < 100 {
			st.Description = padText(st.Description, 100, filler)
			corrections = append(corrections, fmt.Sprintf("scene_texts.scenes.%s.description: padded to minimum length", id))
			changed = true
		}
		if utf8.RuneCountInString(st.InitialText) < 20 {
			st.InitialText = padText(st.InitialText, 20, filler)
			corrections = append(corrections, fmt.Sprintf("scene_texts.scenes.%s.initial_text: padded to minimum length", id))
			changed = true
		}
		for _, key := range sortedKeys(st.ExaminationTexts) {
			if utf8.RuneCountInString(st.ExaminationTexts[key]) < 10 {
				st.ExaminationTexts[key] = padText(st.ExaminationTexts[key], 10, filler)
				corrections = append(corrections, fmt.Sprintf("scene_texts.scenes.%s.examination_texts.%s: padded to minimum length", id, key))
				changed = true
			}
		}
		if changed {
			s.Scenes[id] = st
		}
	}

	return corrections
}

func repairGameMechanics(g *document.GameMechanics, corrections []string) []string {
	def := defaultGameMechanics()

	if g.GameTitle == "" {
		g.GameTitle = def.GameTitle
		corrections = append(corrections, fmt.Sprintf("game_mechanics.game_title: inserted default %q", def.GameTitle))
	}
	if g.GameSystems.Movement == "" {
		g.GameSystems.Movement = def.GameSystems.Movement
		corrections = append(corrections, "game_mechanics.game_systems.movement: inserted default description")
	}
	if g.GameSystems.Inventory == "" {
		g.GameSystems.Inventory = def.GameSystems.Inventory
		corrections = append(corrections, "game_mechanics.game_systems.inventory: inserted default description")
	}
	if g.GameSystems.Combat == "" {
		g.GameSystems.Combat = def.GameSystems.Combat
		corrections = append(corrections, "game_mechanics.game_systems.combat: inserted default description")
	}
	if g.GameSystems.Interaction == "" {
		g.GameSystems.Interaction = def.GameSystems.Interaction
		corrections = append(corrections, "game_mechanics.game_systems.interaction: inserted default description")
	}
	if len(g.GameState.TrackedVariables) == 0 {
		g.GameState.TrackedVariables = def.GameState.TrackedVariables
		corrections = append(corrections, "game_mechanics.game_state.tracked_variables: inserted default variable")
	}
	if len(g.GameState.WinConditions) == 0 {
		g.GameState.WinConditions = def.GameState.WinConditions
		corrections = append(corrections, "game_mechanics.game_state.win_conditions: inserted default win condition")
	}
	if len(g.GameState.LoseConditions) == 0 {
		g.GameState.LoseConditions = def.GameState.LoseConditions
		corrections = append(corrections, "game_mechanics.game_state.lose_conditions: inserted default lose condition")
	}
	if len(g.TechnicalRequirements) == 0 {
		g.TechnicalRequirements = def.TechnicalRequirements
		corrections = append(corrections, "game_mechanics.technical_requirements: inserted default requirement")
	}

	return corrections
}

// normalizeListID fixes a single list-entry id: inserts a fallback when
// empty, normalizes malformed values, and renames duplicates.
func normalizeListID(id, fallback, path string, seen map[string]int, corrections []string) (string, []string) {
	if !document.IsValidID(id) {
		normalized := document.NormalizeID(id)
		if normalized == "" {
			normalized = fallback
		}
		corrections = append(corrections, fmt.Sprintf("%s.id: normalized %q to %q", path, id, normalized))
		id = normalized
	}
	if n := seen[id]; n > 0 {
		renamed := fmt.Sprintf("%s_%d", id, n+1)
		corrections = append(corrections, fmt.Sprintf("%s.id: renamed duplicate %q to %q", path, id, renamed))
		seen[id]++
		id = renamed
	}
	seen[id]++
	return id, corrections
}

// documentTheme picks the theme the filler templates reference.
func documentTheme(p *document.PlotOutline) string {
	if len(p.Themes) > 0 && p.Themes[0] != "" {
		return p.Themes[0]
	}
	if p.Tone != "" {
		return p.Tone
	}
	return defaultTheme
}

func fillerFor(kind document.Kind, theme string) string {
	tmpl, ok := fillerTemplates[kind]
	if !ok {
		tmpl = fillerTemplates[document.KindSceneTexts]
	}
	return fmt.Sprintf(tmpl, theme)
}

// padText appends filler until text reaches the minimum length,
// measured in runes to match validation.
func padText(text string, minLen int, filler string) string {
	out := strings.TrimSpace(text)
	for utf8.RuneCountInString(out) < minLen {
		out = strings.TrimSpace(out + filler)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func renamedTo(renames map[string]string, id string) bool {
	for _, v := range renames {
		if v == id {
			return true
		}
	}
	return false
}
