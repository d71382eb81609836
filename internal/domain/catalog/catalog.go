// Package catalog loads and validates the fixed question set that every
// scoring run is measured against. The result is immutable and safe to
// share across concurrent runs.
package catalog

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/isosalus/opeq/internal/domain/model"
)

// Metadata describes the catalog source itself.
type Metadata struct {
	FrameworkName string `koanf:"framework_name" json:"framework_name"`
	Version       string `koanf:"version" json:"version"`
}

// questionRecord is the wire shape of one authored question.
type questionRecord struct {
	ID          string         `koanf:"id"`
	Type        string         `koanf:"type"`
	Question    string         `koanf:"question"`
	Options     []string       `koanf:"options"`
	Scoring     map[string]int `koanf:"scoring"`
	Remediation string         `koanf:"remediation"`
	Rationale   string         `koanf:"rationale"`
}

// categoryRecord groups the questions of one maturity dimension.
type categoryRecord struct {
	Name      string           `koanf:"name"`
	Questions []questionRecord `koanf:"questions"`
}

// catalogFile is the full wire shape of a catalog source.
type catalogFile struct {
	Metadata   Metadata         `koanf:"metadata"`
	Categories []categoryRecord `koanf:"categories"`
}

// Catalog is a validated catalog source: its metadata plus the built
// assessment definition.
type Catalog struct {
	Metadata   Metadata
	Definition *model.AssessmentDefinition
}

// Load reads a YAML catalog from path, validates it, and builds the
// assessment definition. The file handle is owned by the provider and
// released before Load returns.
func Load(ctx context.Context, path string) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}

	return Parse(k)
}

// Parse validates an already-loaded catalog source and builds the
// assessment definition from it.
func Parse(k *koanf.Koanf) (*Catalog, error) {
	var src catalogFile
	if err := k.UnmarshalWithConf("", &src, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}

	if err := validate(src); err != nil {
		return nil, err
	}

	questions := make([]model.Question, 0, totalQuestions(src))
	for _, cat := range src.Categories {
		for _, q := range cat.Questions {
			questions = append(questions, model.Question{
				ID:          q.ID,
				Category:    cat.Name,
				Type:        model.QuestionType(q.Type),
				Prompt:      q.Question,
				Options:     q.Options,
				Scoring:     q.Scoring,
				Remediation: q.Remediation,
				Rationale:   q.Rationale,
			})
		}
	}

	return &Catalog{
		Metadata:   src.Metadata,
		Definition: model.NewDefinition(questions),
	}, nil
}

func totalQuestions(src catalogFile) int {
	n := 0
	for _, cat := range src.Categories {
		n += len(cat.Questions)
	}
	return n
}

// validate checks every structural invariant of the catalog source.
// The first inconsistency found is returned as a *ValidationError.
func validate(src catalogFile) error {
	if len(src.Categories) == 0 {
		return &ValidationError{Reason: "no categories defined"}
	}

	seenCategories := make(map[string]bool, len(src.Categories))
	seenIDs := make(map[string]bool, totalQuestions(src))

	questionCount := -1
	categoryMax := -1

	for _, cat := range src.Categories {
		if cat.Name == "" {
			return &ValidationError{Reason: "category with empty name"}
		}
		if seenCategories[cat.Name] {
			return &ValidationError{Reason: fmt.Sprintf("duplicate category %q", cat.Name)}
		}
		seenCategories[cat.Name] = true

		if len(cat.Questions) == 0 {
			return &ValidationError{Reason: fmt.Sprintf("category %q has no questions", cat.Name)}
		}

		max := 0
		for _, q := range cat.Questions {
			if err := validateQuestion(q, seenIDs); err != nil {
				return err
			}
			seenIDs[q.ID] = true
			max += maxPoints(q.Scoring)
		}

		if questionCount == -1 {
			questionCount = len(cat.Questions)
			categoryMax = max
			continue
		}
		if len(cat.Questions) != questionCount {
			return &ValidationError{Reason: fmt.Sprintf(
				"category %q has %d questions, want %d", cat.Name, len(cat.Questions), questionCount)}
		}
		if max != categoryMax {
			return &ValidationError{Reason: fmt.Sprintf(
				"category %q has maximum %d points, want %d", cat.Name, max, categoryMax)}
		}
	}

	return nil
}

func validateQuestion(q questionRecord, seenIDs map[string]bool) error {
	if q.ID == "" {
		return &ValidationError{Reason: "question with empty id"}
	}
	if seenIDs[q.ID] {
		return &ValidationError{QuestionID: q.ID, Reason: "duplicate question id"}
	}
	if !model.QuestionType(q.Type).Valid() {
		return &ValidationError{QuestionID: q.ID, Reason: fmt.Sprintf("unrecognized type %q", q.Type)}
	}
	if len(q.Options) == 0 {
		return &ValidationError{QuestionID: q.ID, Reason: "no options defined"}
	}

	options := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if options[opt] {
			return &ValidationError{QuestionID: q.ID, Reason: fmt.Sprintf("duplicate option %q", opt)}
		}
		options[opt] = true
	}

	for opt, pts := range q.Scoring {
		if !options[opt] {
			return &ValidationError{QuestionID: q.ID, Reason: fmt.Sprintf("scoring references unknown option %q", opt)}
		}
		if pts < 0 {
			return &ValidationError{QuestionID: q.ID, Reason: fmt.Sprintf("negative point value for option %q", opt)}
		}
	}

	return nil
}

func maxPoints(scoring map[string]int) int {
	max := 0
	for _, pts := range scoring {
		if pts > max {
			max = pts
		}
	}
	return max
}
