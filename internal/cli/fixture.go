package cli

import (
	"fmt"
	"os"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/openbenefits/formd/internal/applicant"
	"github.com/openbenefits/formd/internal/docpath"
)

// AnswerFixture is a YAML description of one applicant's answers, used to
// seed documents from the command line and from tests.
type AnswerFixture struct {
	ProgramVersion  int64    `yaml:"program_version"`
	PreferredLocale string   `yaml:"preferred_locale"`
	Answers         []Answer `yaml:"answers"`
}

// Answer is a single path/value pair. Type selects the typed put used to
// store it and defaults to "string".
type Answer struct {
	Path     string   `yaml:"path"`
	Type     string   `yaml:"type"` // string | long | date | currency | longs | entities
	Value    string   `yaml:"value"`
	Values   []int64  `yaml:"values"` // for type "longs"
	Entities []string `yaml:"entities"`
}

// LoadAnswerFixture reads and parses a fixture file.
func LoadAnswerFixture(path string) (*AnswerFixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var fixture AnswerFixture
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if fixture.ProgramVersion == 0 {
		fixture.ProgramVersion = 1
	}
	return &fixture, nil
}

// BuildDocument creates a fresh document holding the fixture's answers.
func (f *AnswerFixture) BuildDocument() (*applicant.Document, error) {
	var opts []applicant.Option
	if f.PreferredLocale != "" {
		tag, err := language.Parse(f.PreferredLocale)
		if err != nil {
			return nil, fmt.Errorf("preferred_locale %q: %w", f.PreferredLocale, err)
		}
		opts = append(opts, applicant.WithPreferredLocale(tag))
	}

	doc := applicant.New(opts...)
	if err := f.Apply(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Apply stores every fixture answer into the document.
func (f *AnswerFixture) Apply(doc *applicant.Document) error {
	for i, answer := range f.Answers {
		if err := applyAnswer(doc, answer); err != nil {
			return fmt.Errorf("answer %d (%s): %w", i, answer.Path, err)
		}
	}
	return nil
}

func applyAnswer(doc *applicant.Document, answer Answer) error {
	path, err := docpath.Parse(answer.Path)
	if err != nil {
		return err
	}

	switch answer.Type {
	case "", "string":
		return doc.PutString(path, answer.Value)
	case "long":
		return doc.PutLongString(path, answer.Value)
	case "date":
		return doc.PutDate(path, answer.Value)
	case "currency":
		return doc.PutCurrencyDollars(path, answer.Value)
	case "longs":
		return doc.PutLongList(path, answer.Values)
	case "entities":
		return doc.PutRepeatedEntities(path, answer.Entities)
	default:
		return fmt.Errorf("unknown answer type %q", answer.Type)
	}
}
