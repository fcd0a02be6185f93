package game

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationResult is the playability report for an assembled game.
// Issues block play under the caller's policy; warnings are advisory.
// Suggestions are keyed by scene id and populated regardless of mode.
type ValidationResult struct {
	Issues      []string            `json:"issues"`
	Warnings    []string            `json:"warnings"`
	Suggestions map[string][]string `json:"suggestions"`
	Stats       map[string]any      `json:"stats"`
}

// IsValid reports whether the game has no blocking issues.
func (r *ValidationResult) IsValid() bool {
	return len(r.Issues) == 0
}

// Summary renders a human-readable report for operator logs.
func (r *ValidationResult) Summary() string {
	var b strings.Builder

	status := "PLAYABLE"
	if !r.IsValid() {
		status = "NOT PLAYABLE"
	}
	fmt.Fprintf(&b, "Playability: %s (%d issues, %d warnings)\n",
		status, len(r.Issues), len(r.Warnings))
	fmt.Fprintf(&b, "Scenes: %v reachable of %v total, starting at %v\n",
		r.Stats["reachable_scenes"], r.Stats["total_scenes"], r.Stats["starting_scene"])
	fmt.Fprintf(&b, "Content: %v items, %v npcs\n",
		r.Stats["total_items"], r.Stats["total_npcs"])

	for _, issue := range r.Issues {
		fmt.Fprintf(&b, "  issue: %s\n", issue)
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", warning)
	}
	for _, sceneID := range sortedKeys(r.Suggestions) {
		for _, s := range r.Suggestions[sceneID] {
			fmt.Fprintf(&b, "  suggestion (%s): %s\n", sceneID, s)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// Validator analyzes an assembled game for playability defects. It is
// pure and never returns an error: defects are data.
type Validator struct{}

// NewValidator creates a playability validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate runs reachability and consistency analysis over the game.
// In strict mode every warning is promoted to an issue and the warning
// list is cleared.
func (v *Validator) Validate(g *GameData, strictMode bool) *ValidationResult {
	result := &ValidationResult{
		Suggestions: make(map[string][]string),
		Stats:       make(map[string]any),
	}

	reachable := v.reachableScenes(g)

	sceneIDs := sortedKeys(g.Scenes)
	for _, id := range sceneIDs {
		if !reachable[id] {
			result.Issues = append(result.Issues, fmt.Sprintf("unreachable scene %s", id))
			result.Suggestions[id] = append(result.Suggestions[id],
				"add a connection from a reachable scene so players can arrive here")
		}
	}

	for _, id := range sceneIDs {
		scene := g.Scenes[id]
		for _, dir := range sortedKeys(scene.Exits) {
			target := scene.Exits[dir]
			if _, ok := g.Scenes[target]; !ok {
				result.Issues = append(result.Issues,
					fmt.Sprintf("scene %s: invalid exit to %s (direction %s)", id, target, dir))
				result.Suggestions[id] = append(result.Suggestions[id],
					fmt.Sprintf("fix or remove the %s exit to undeclared scene %s", dir, target))
			}
		}

		if len(scene.Exits) == 0 && !g.IsEndingScene(id) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("dead end: scene %s has no exits and is not an ending", id))
			result.Suggestions[id] = append(result.Suggestions[id],
				"add an exit or register this scene as an ending")
		}
	}

	declaredItems := v.declaredItems(g)
	v.checkNPCs(g, sceneIDs, declaredItems, result)
	v.checkLockedExits(g, sceneIDs, reachable, result)

	result.Stats["total_scenes"] = len(g.Scenes)
	result.Stats["total_items"] = v.countItems(g)
	result.Stats["total_npcs"] = v.countNPCs(g)
	result.Stats["reachable_scenes"] = len(reachable)
	result.Stats["starting_scene"] = g.StartingScene

	if strictMode {
		result.Issues = append(result.Issues, result.Warnings...)
		result.Warnings = nil
	}

	return result
}

// reachableScenes walks breadth-first from the starting scene following
// exit targets only.
func (v *Validator) reachableScenes(g *GameData) map[string]bool {
	reachable := make(map[string]bool)
	if _, ok := g.Scenes[g.StartingScene]; !ok {
		return reachable
	}

	queue := []string{g.StartingScene}
	reachable[g.StartingScene] = true
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		scene := g.Scenes[current]
		for _, dir := range sortedKeys(scene.Exits) {
			target := scene.Exits[dir]
			if reachable[target] {
				continue
			}
			if _, ok := g.Scenes[target]; !ok {
				continue
			}
			reachable[target] = true
			queue = append(queue, target)
		}
	}
	return reachable
}

// declaredItems collects every item id declared anywhere in the game.
func (v *Validator) declaredItems(g *GameData) map[string]bool {
	declared := make(map[string]bool)
	for id := range g.GlobalItems {
		declared[id] = true
	}
	for _, scene := range g.Scenes {
		for _, item := range scene.Items {
			declared[item.ID] = true
		}
	}
	return declared
}

func (v *Validator) checkNPCs(g *GameData, sceneIDs []string, declaredItems map[string]bool, result *ValidationResult) {
	check := func(npc *NPC, where string) {
		if npc.GivesItem != "" {
			if _, global := g.GlobalItems[npc.GivesItem]; !global && !declaredItems[npc.GivesItem] {
				result.Issues = append(result.Issues,
					fmt.Sprintf("npc %s (%s) gives item %s which is not declared anywhere", npc.ID, where, npc.GivesItem))
			}
		}
		if len(npc.Dialogue) == 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("npc %s (%s) has no dialogue", npc.ID, where))
		}
	}

	for _, id := range sceneIDs {
		for _, npc := range g.Scenes[id].NPCs {
			check(npc, "scene "+id)
		}
	}
	for _, id := range sortedKeys(g.GlobalNPCs) {
		check(g.GlobalNPCs[id], "global")
	}
}

// checkLockedExits warns when a locked exit's key item is not
// obtainable in the reachable part of the game. Absence detection
// only: presence of the key is not proof the lock is solvable.
func (v *Validator) checkLockedExits(g *GameData, sceneIDs []string, reachable map[string]bool, result *ValidationResult) {
	obtainable := make(map[string]bool)
	for _, id := range sceneIDs {
		if !reachable[id] {
			continue
		}
		for _, item := range g.Scenes[id].Items {
			obtainable[item.ID] = true
		}
		for _, npc := range g.Scenes[id].NPCs {
			if npc.GivesItem != "" {
				obtainable[npc.GivesItem] = true
			}
		}
	}
	for _, npc := range g.GlobalNPCs {
		if npc.GivesItem != "" {
			obtainable[npc.GivesItem] = true
		}
	}

	for _, id := range sceneIDs {
		scene := g.Scenes[id]
		for _, dir := range sortedKeys(scene.LockedExits) {
			key := scene.LockedExits[dir]
			if !obtainable[key] {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("scene %s: locked exit %s requires item %s which is not obtainable in the reachable area", id, dir, key))
				result.Suggestions[id] = append(result.Suggestions[id],
					fmt.Sprintf("place item %s in a reachable scene or have a reachable npc give it", key))
			}
		}
	}
}

func (v *Validator) countItems(g *GameData) int {
	count := len(g.GlobalItems)
	for _, scene := range g.Scenes {
		count += len(scene.Items)
	}
	return count
}

func (v *Validator) countNPCs(g *GameData) int {
	count := len(g.GlobalNPCs)
	for _, scene := range g.Scenes {
		count += len(scene.NPCs)
	}
	return count
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
