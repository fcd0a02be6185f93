package document

import "fmt"

// PlotOutline is the top-level story document: the themes, cast and
// conflicts the other four documents elaborate on.
type PlotOutline struct {
	Title        string       `yaml:"title" json:"title"`
	Setting      string       `yaml:"setting" json:"setting"`
	Themes       []string     `yaml:"themes" json:"themes"`
	Tone         string       `yaml:"tone" json:"tone"`
	PlotPoints   []PlotPoint  `yaml:"plot_points" json:"plot_points"`
	Characters   []Character  `yaml:"characters" json:"characters"`
	Conflicts    []string     `yaml:"conflicts" json:"conflicts"`
	PlotBranches []PlotBranch `yaml:"plot_branches,omitempty" json:"plot_branches,omitempty"`
}

// PlotPoint is a single beat in the story outline.
type PlotPoint struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Character is a named actor in the outline.
type Character struct {
	Name      string   `yaml:"name" json:"name"`
	Role      string   `yaml:"role" json:"role"`
	Backstory string   `yaml:"backstory" json:"backstory"`
	Conflicts []string `yaml:"conflicts,omitempty" json:"conflicts,omitempty"`
}

// PlotBranch is an optional alternate path through the outline.
type PlotBranch struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Outcome     string `yaml:"outcome,omitempty" json:"outcome,omitempty"`
}

func (p *PlotOutline) Kind() Kind { return KindPlotOutline }

// Validate returns one message per violated constraint, each naming
// the offending field path.
func (p *PlotOutline) Validate() []string {
	var errs []string

	if p.Title == "" {
		errs = append(errs, "title: required field is missing or empty")
	}
	if len(p.PlotPoints) < 3 {
		errs = append(errs, fmt.Sprintf("plot_points: at least 3 plot points are required, got %d", len(p.PlotPoints)))
	}
	if len(p.Characters) < 1 {
		errs = append(errs, "characters: at least 1 character is required")
	}
	if len(p.Conflicts) < 1 {
		errs = append(errs, "conflicts: at least 1 conflict is required")
	}

	seenIDs := make(map[string]bool)
	for i, pp := range p.PlotPoints {
		path := fmt.Sprintf("plot_points[%d]", i)
		if pp.ID == "" {
			errs = append(errs, path+".id: required field is missing or empty")
			continue
		}
		if !IsValidID(pp.ID) {
			errs = append(errs, fmt.Sprintf("%s.id: %q must match [A-Za-z0-9_-]+", path, pp.ID))
		}
		if seenIDs[pp.ID] {
			errs = append(errs, fmt.Sprintf("%s.id: plot point ids must be unique, %q is duplicated", path, pp.ID))
		}
		seenIDs[pp.ID] = true
		if pp.Name == "" {
			errs = append(errs, path+".name: required field is missing or empty")
		}
	}

	seenNames := make(map[string]bool)
	for i, c := range p.Characters {
		path := fmt.Sprintf("characters[%d]", i)
		if c.Name == "" {
			errs = append(errs, path+".name: required field is missing or empty")
			continue
		}
		if seenNames[c.Name] {
			errs = append(errs, fmt.Sprintf("%s.name: character names must be unique, %q is duplicated", path, c.Name))
		}
		seenNames[c.Name] = true
	}

	return errs
}
