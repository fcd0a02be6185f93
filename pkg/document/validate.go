package document

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Document is one of the five typed content documents. The concrete
// types are PlotOutline, NarrativeMap, PuzzleDesign, SceneTexts and
// GameMechanics; nothing else implements this interface.
type Document interface {
	Kind() Kind
	// Validate returns one message per violated constraint, each
	// naming the offending field path. An empty slice means the
	// document satisfies its schema.
	Validate() []string
}

var validIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// IsValidID reports whether id is a well-formed identifier.
func IsValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

var disallowedIDRunes = regexp.MustCompile(`[^A-Za-z0-9_\s-]+`)

// NormalizeID rewrites a malformed identifier into a valid one:
// disallowed runes are stripped, whitespace becomes underscores and
// the result is lower-cased. Returns an empty string if nothing
// salvageable remains.
func NormalizeID(id string) string {
	cleaned := disallowedIDRunes.ReplaceAllString(id, "")
	cleaned = strings.Join(strings.Fields(cleaned), "_")
	return strings.ToLower(cleaned)
}

// sortedKeys returns map keys in sorted order so validation output is
// stable for the same input.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var titleCaser = cases.Title(language.English)

// DisplayName converts an identifier like "rusty_key" into a
// human-readable name like "Rusty Key".
func DisplayName(id string) string {
	cleaned := strings.ReplaceAll(strings.ReplaceAll(id, "_", " "), "-", " ")
	return titleCaser.String(cleaned)
}

// New returns an empty document of the given kind.
func New(kind Kind) (Document, error) {
	switch kind {
	case KindPlotOutline:
		return &PlotOutline{}, nil
	case KindNarrativeMap:
		return &NarrativeMap{}, nil
	case KindPuzzleDesign:
		return &PuzzleDesign{}, nil
	case KindSceneTexts:
		return &SceneTexts{}, nil
	case KindGameMechanics:
		return &GameMechanics{}, nil
	default:
		return nil, fmt.Errorf("unknown document kind: %q", kind)
	}
}

// Parse sanitizes raw text and decodes it into a typed document of the
// given kind. A parse failure or a non-mapping root is returned as an
// error; schema constraints are not checked here.
func Parse(raw string, kind Kind) (Document, error) {
	doc, err := New(kind)
	if err != nil {
		return nil, err
	}

	text := StripWrapping(raw)
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, fmt.Errorf("failed to parse %s document: %w", kind, err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("%s document is empty", kind)
	}
	if root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s document root must be a mapping", kind)
	}
	if err := root.Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s document: %w", kind, err)
	}
	return doc, nil
}

// Validate sanitizes, parses and schema-checks raw text as a document
// of the given kind. On success the result carries the typed document;
// on failure it carries one formatted message per violated constraint.
// Pure and deterministic for the same input.
func Validate(raw string, kind Kind) *ProcessingResult {
	result := &ProcessingResult{
		Metadata: map[string]any{"kind": string(kind)},
	}

	doc, err := Parse(raw, kind)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	if errs := doc.Validate(); len(errs) > 0 {
		result.Errors = errs
		return result
	}

	result.Success = true
	result.Data = doc
	return result
}
