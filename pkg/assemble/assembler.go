// Package assemble merges the five independently-generated content
// documents into a single engine-ready game graph.
package assemble

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jwebster45206/story-forge/pkg/document"
	"github.com/jwebster45206/story-forge/pkg/game"
)

// Mode selects how the assembler treats missing or unparsable input.
type Mode string

const (
	// Lenient degrades missing or broken documents to empty
	// structures and always produces a playable-shaped game.
	Lenient Mode = "lenient"
	// Strict fails fast with a LoaderError on the first defect.
	Strict Mode = "strict"
)

// LoaderError reports a load or parse failure in strict mode.
type LoaderError struct {
	Kind document.Kind
	Path string
	Err  error
}

func (e *LoaderError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to load %s document from %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to assemble %s document: %v", e.Kind, e.Err)
}

func (e *LoaderError) Unwrap() error { return e.Err }

// Documents bundles the five typed documents of one generation
// session. Nil members are treated as empty in lenient mode.
type Documents struct {
	Plot      *document.PlotOutline
	Map       *document.NarrativeMap
	Puzzles   *document.PuzzleDesign
	Texts     *document.SceneTexts
	Mechanics *document.GameMechanics
}

const (
	fallbackTitle       = "Untitled Adventure"
	fallbackDescription = "An adventure whose details remain to be discovered."
	defaultSceneID      = "start"
	defaultMonsterHP    = 10
)

// exit directions assigned to connections that carry none, in
// connection order. The rotation cycles, overwriting earlier exits
// when a scene has more than five undirected connections; the
// overwrite is surfaced as an assembler warning.
var ordinalDirections = [5]string{"forward", "north", "east", "south", "west"}

// Assembler builds a game.GameData from a Documents bundle or a
// session directory.
type Assembler struct {
	log *slog.Logger
}

// New creates an assembler.
func New(log *slog.Logger) *Assembler {
	return &Assembler{log: log}
}

// LoadDir reads the five fixed-name document files from a session
// directory and assembles them. In lenient mode a missing or
// unparsable file degrades to an empty document; in strict mode it is
// a LoaderError.
func (a *Assembler) LoadDir(dir string, mode Mode) (*game.GameData, error) {
	docs := &Documents{}

	for _, kind := range document.Kinds() {
		path := filepath.Join(dir, kind.FileName())
		data, err := os.ReadFile(path)
		if err != nil {
			if mode == Strict {
				return nil, &LoaderError{Kind: kind, Path: path, Err: err}
			}
			a.log.Warn("Document file missing, substituting empty document",
				"kind", kind, "path", path, "error", err)
			continue
		}

		doc, err := document.Parse(string(data), kind)
		if err != nil {
			if mode == Strict {
				return nil, &LoaderError{Kind: kind, Path: path, Err: err}
			}
			a.log.Warn("Document file unparsable, substituting empty document",
				"kind", kind, "path", path, "error", err)
			continue
		}
		docs.set(doc)
	}

	return a.Assemble(docs, mode)
}

func (d *Documents) set(doc document.Document) {
	switch v := doc.(type) {
	case *document.PlotOutline:
		d.Plot = v
	case *document.NarrativeMap:
		d.Map = v
	case *document.PuzzleDesign:
		d.Puzzles = v
	case *document.SceneTexts:
		d.Texts = v
	case *document.GameMechanics:
		d.Mechanics = v
	}
}

// Assemble merges the documents into one content graph. The merge
// rules are order-deterministic: scene ids are processed sorted and
// list documents in declaration order.
func (a *Assembler) Assemble(docs *Documents, mode Mode) (*game.GameData, error) {
	if docs == nil {
		docs = &Documents{}
	}
	plot := docs.Plot
	if plot == nil {
		plot = &document.PlotOutline{}
	}
	narrative := docs.Map
	if narrative == nil {
		narrative = &document.NarrativeMap{}
	}
	puzzles := docs.Puzzles
	if puzzles == nil {
		puzzles = &document.PuzzleDesign{}
	}
	texts := docs.Texts
	if texts == nil {
		texts = &document.SceneTexts{}
	}
	mechanics := docs.Mechanics
	if mechanics == nil {
		mechanics = &document.GameMechanics{}
	}

	var warnings []string

	g := &game.GameData{
		Scenes:      make(map[string]*game.Scene),
		GlobalItems: make(map[string]*game.Item),
		GlobalNPCs:  make(map[string]*game.NPC),
		GameRules:   make(map[string]string),
		Metadata:    make(map[string]any),
	}

	g.Title = plot.Title
	if g.Title == "" {
		g.Title = mechanics.GameTitle
	}
	if g.Title == "" {
		g.Title = fallbackTitle
	}
	g.Description = plot.Setting
	if g.Description == "" {
		g.Description = fallbackDescription
	}

	artifactIDs := make(map[string]bool)
	for _, art := range puzzles.Artifacts {
		artifactIDs[art.ID] = true
	}

	warnings = a.mergeScenes(g, narrative, texts, artifactIDs, warnings)

	if len(g.Scenes) == 0 {
		if mode == Strict {
			return nil, &LoaderError{Kind: document.KindNarrativeMap,
				Err: fmt.Errorf("no scenes after merging")}
		}
		g.Scenes[defaultSceneID] = &game.Scene{
			ID:          defaultSceneID,
			Name:        "Starting Area",
			Description: "The adventure begins here.",
			Exits:       make(map[string]string),
			LockedExits: make(map[string]string),
		}
		g.StartingScene = defaultSceneID
		warnings = append(warnings, "no scenes were produced by the merge; synthesized a default starting scene")
	} else {
		g.StartingScene = narrative.StartScene
		if _, ok := g.Scenes[g.StartingScene]; !ok {
			first := sortedSceneIDs(g)[0]
			if mode == Strict {
				return nil, &LoaderError{Kind: document.KindNarrativeMap,
					Err: fmt.Errorf("start scene %q is not a declared scene", g.StartingScene)}
			}
			warnings = append(warnings,
				fmt.Sprintf("start scene %q is not a declared scene; using %q", g.StartingScene, first))
			g.StartingScene = first
		}
	}

	a.mergeItems(g, puzzles)
	a.mergeNPCs(g, puzzles, texts)

	g.Themes = plot.Themes
	for _, pp := range plot.PlotPoints {
		g.PlotPoints = append(g.PlotPoints, pp.Name)
	}
	g.Endings = extractEndings(g, mechanics)
	a.mergeGameRules(g, mechanics)

	if len(warnings) > 0 {
		g.Metadata["assembler_warnings"] = warnings
		for _, w := range warnings {
			a.log.Warn("Assembler warning", "warning", w)
		}
	}

	if mode == Strict {
		if err := g.Check(); err != nil {
			return nil, &LoaderError{Kind: document.KindNarrativeMap, Err: err}
		}
	}

	return g, nil
}

// mergeScenes creates one scene per narrative map entry. Scene
// descriptions prefer the prose document over the map; connections
// become exits, with directions taken from the connection when
// explicit and otherwise assigned from the ordinal rotation.
func (a *Assembler) mergeScenes(g *game.GameData, narrative *document.NarrativeMap, texts *document.SceneTexts, artifactIDs map[string]bool, warnings []string) []string {
	ids := make([]string, 0, len(narrative.Scenes))
	for id := range narrative.Scenes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		src := narrative.Scenes[id]
		scene := &game.Scene{
			ID:          id,
			Name:        src.Name,
			Description: src.Description,
			Exits:       make(map[string]string),
			LockedExits: make(map[string]string),
		}
		if scene.Name == "" {
			scene.Name = document.DisplayName(id)
		}

		if text, ok := texts.Scenes[id]; ok {
			if text.Description != "" {
				scene.Description = text.Description
			}
			scene.Dark = strings.Contains(strings.ToLower(text.Atmosphere), "dark")
		}

		for i, conn := range src.Connections {
			dir := conn.Direction
			if dir == "" {
				dir = ordinalDirections[i%len(ordinalDirections)]
			}

			if keyItem := conditionKeyItem(conn.Condition, artifactIDs); keyItem != "" {
				if prev, taken := scene.LockedExits[dir]; taken {
					warnings = append(warnings,
						fmt.Sprintf("scene %s: locked direction %q reassigned from key %q to %q",
							id, dir, prev, keyItem))
				}
				if target, open := scene.Exits[dir]; open {
					warnings = append(warnings,
						fmt.Sprintf("scene %s: direction %q is both an open exit to %q and locked by %q",
							id, dir, target, keyItem))
				}
				scene.LockedExits[dir] = keyItem
				continue
			}

			if prev, taken := scene.Exits[dir]; taken {
				warnings = append(warnings,
					fmt.Sprintf("scene %s: direction %q reassigned from %q to %q (more than %d connections)",
						id, dir, prev, conn.Target, len(ordinalDirections)))
			}
			if key, locked := scene.LockedExits[dir]; locked {
				warnings = append(warnings,
					fmt.Sprintf("scene %s: direction %q is both an open exit to %q and locked by %q",
						id, dir, conn.Target, key))
			}
			scene.Exits[dir] = conn.Target
		}

		g.Scenes[id] = scene
	}

	return warnings
}

// mergeItems places artifacts into their scene by location, falling
// back to the global item pool.
func (a *Assembler) mergeItems(g *game.GameData, puzzles *document.PuzzleDesign) {
	for _, art := range puzzles.Artifacts {
		item := &game.Item{
			ID:          art.ID,
			Name:        document.DisplayName(art.ID),
			Description: strings.Join(art.Properties, ", "),
			Takeable:    true,
			Useable:     len(art.Properties) > 0,
			Effects:     make(map[string]string),
		}
		if scene, ok := g.Scenes[art.Location]; ok {
			scene.Items = append(scene.Items, item)
		} else {
			g.GlobalItems[item.ID] = item
		}
	}
}

// mergeNPCs synthesizes scene-local NPCs from scene text dialogue,
// places puzzle-design NPCs by location, and folds monsters in as
// hostile NPCs. Entries with no matching scene go to the global pool.
func (a *Assembler) mergeNPCs(g *game.GameData, puzzles *document.PuzzleDesign, texts *document.SceneTexts) {
	for _, id := range sortedSceneIDs(g) {
		text, ok := texts.Scenes[id]
		if !ok {
			continue
		}
		seen := make(map[string]bool)
		for _, line := range text.Dialogue {
			if line.Speaker == "" || seen[line.Speaker] {
				continue
			}
			seen[line.Speaker] = true
			npcID := document.NormalizeID(line.Speaker)
			if npcID == "" {
				continue
			}
			g.Scenes[id].NPCs = append(g.Scenes[id].NPCs, &game.NPC{
				ID:       npcID,
				Name:     line.Speaker,
				Dialogue: map[string]string{"greeting": line.Text},
			})
		}
	}

	for _, src := range puzzles.NPCs {
		dialogue := make(map[string]string, len(src.DialogueThemes))
		for i, theme := range src.DialogueThemes {
			dialogue[fmt.Sprintf("topic_%d", i+1)] = fmt.Sprintf("They speak of %s.", theme)
		}
		placed := false
		for _, loc := range src.Locations {
			scene, ok := g.Scenes[loc]
			if !ok {
				continue
			}
			scene.NPCs = append(scene.NPCs, &game.NPC{
				ID:       src.ID,
				Name:     document.DisplayName(src.ID),
				Dialogue: dialogue,
			})
			placed = true
		}
		if !placed {
			g.GlobalNPCs[src.ID] = &game.NPC{
				ID:       src.ID,
				Name:     document.DisplayName(src.ID),
				Dialogue: dialogue,
			}
		}
	}

	for _, src := range puzzles.Monsters {
		desc := strings.Join(src.Abilities, ", ")
		placed := false
		for _, loc := range src.Locations {
			scene, ok := g.Scenes[loc]
			if !ok {
				continue
			}
			scene.NPCs = append(scene.NPCs, &game.NPC{
				ID:          src.ID,
				Name:        document.DisplayName(src.ID),
				Description: desc,
				Dialogue:    make(map[string]string),
				Hostile:     true,
				Health:      defaultMonsterHP,
			})
			placed = true
		}
		if !placed {
			g.GlobalNPCs[src.ID] = &game.NPC{
				ID:          src.ID,
				Name:        document.DisplayName(src.ID),
				Description: desc,
				Dialogue:    make(map[string]string),
				Hostile:     true,
				Health:      defaultMonsterHP,
			}
		}
	}
}

func (a *Assembler) mergeGameRules(g *game.GameData, mechanics *document.GameMechanics) {
	if mechanics.GameSystems.Movement != "" {
		g.GameRules["movement"] = mechanics.GameSystems.Movement
	}
	if mechanics.GameSystems.Inventory != "" {
		g.GameRules["inventory"] = mechanics.GameSystems.Inventory
	}
	if mechanics.GameSystems.Combat != "" {
		g.GameRules["combat"] = mechanics.GameSystems.Combat
	}
	if mechanics.GameSystems.Interaction != "" {
		g.GameRules["interaction"] = mechanics.GameSystems.Interaction
	}
	if len(mechanics.GameState.LoseConditions) > 0 {
		g.GameRules["losing"] = strings.Join(mechanics.GameState.LoseConditions, "; ")
	}
	if len(mechanics.GameState.TrackedVariables) > 0 {
		g.Metadata["tracked_variables"] = mechanics.GameState.TrackedVariables
	}
	if len(mechanics.TechnicalRequirements) > 0 {
		g.Metadata["technical_requirements"] = mechanics.TechnicalRequirements
	}
}

// extractEndings turns win conditions into ending entries, binding
// each to a scene when the condition names a declared scene id.
func extractEndings(g *game.GameData, mechanics *document.GameMechanics) []game.Ending {
	var endings []game.Ending
	for _, cond := range mechanics.GameState.WinConditions {
		endings = append(endings, game.Ending{
			Scene:       matchSceneID(cond, g),
			Description: cond,
		})
	}
	return endings
}

// matchSceneID looks for a declared scene id mentioned in free text.
// Token matching is case-insensitive so mixed-case ids still bind.
func matchSceneID(text string, g *game.GameData) string {
	if _, ok := g.Scenes[text]; ok {
		return text
	}
	byLower := lowerIndex(sortedSceneIDs(g))
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?\"'")
		if id, ok := byLower[tok]; ok {
			return id
		}
	}
	return ""
}

// conditionKeyItem reports the artifact id a connection condition
// refers to, or empty when the condition names no known artifact.
// Token matching is case-insensitive.
func conditionKeyItem(condition string, artifactIDs map[string]bool) string {
	if condition == "" {
		return ""
	}
	if artifactIDs[condition] {
		return condition
	}
	byLower := lowerIndex(sortedKeys(artifactIDs))
	for _, tok := range strings.Fields(strings.ToLower(condition)) {
		tok = strings.Trim(tok, ".,;:!?\"'")
		if id, ok := byLower[tok]; ok {
			return id
		}
	}
	return ""
}

// lowerIndex maps lower-cased ids back to their declared form. Input
// must be sorted so case collisions resolve the same way every run.
func lowerIndex(ids []string) map[string]string {
	byLower := make(map[string]string, len(ids))
	for _, id := range ids {
		lower := strings.ToLower(id)
		if _, ok := byLower[lower]; !ok {
			byLower[lower] = id
		}
	}
	return byLower
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSceneIDs(g *game.GameData) []string {
	return sortedKeys(g.Scenes)
}
