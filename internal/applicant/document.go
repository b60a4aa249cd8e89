// Package applicant implements the answer store for one applicant: a
// path-addressed, schema-less document over a single JSON tree. Callers
// hydrate a document from its persisted string, read and write typed values
// through paths, and lock the document once it becomes the definitive
// snapshot of a submission.
//
// A document is not safe for concurrent mutation. It models one in-flight
// session handled synchronously; separate documents share no state and may
// be used in parallel.
package applicant

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/openbenefits/formd/internal/docpath"
	"github.com/openbenefits/formd/internal/docval"
	"github.com/openbenefits/formd/internal/query"
)

// RootKey is the fixed top-level key every answer lives under.
const RootKey = "applicant"

// RootPath addresses the applicant object itself.
var RootPath = docpath.MustParse(RootKey)

// DefaultLocale is used when an applicant has not chosen a locale.
var DefaultLocale = language.AmericanEnglish

// Document brokers access to one applicant's answers. The zero value is not
// usable; construct with New or FromJSON.
type Document struct {
	root    docval.Object
	locked  bool
	locale  *language.Tag
	queries *query.Engine
	log     zerolog.Logger
}

// Option configures a document at construction.
type Option func(*Document)

// WithPreferredLocale sets the applicant's chosen locale.
func WithPreferredLocale(tag language.Tag) Option {
	return func(d *Document) {
		d.locale = &tag
	}
}

// WithQueryEngine supplies the engine used for predicate evaluation.
func WithQueryEngine(engine *query.Engine) Option {
	return func(d *Document) {
		d.queries = engine
	}
}

// WithLogger supplies the logger used for data-quality warnings.
func WithLogger(log zerolog.Logger) Option {
	return func(d *Document) {
		d.log = log
	}
}

// New creates an empty document: the root object present, no answers.
func New(opts ...Option) *Document {
	d := &Document{
		root:    docval.Object{RootKey: docval.Object{}},
		queries: query.NewEngine(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FromJSON hydrates a document from its persisted string form.
func FromJSON(raw string, opts ...Option) (*Document, error) {
	root, err := docval.DecodeObject([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("hydrate document: %w", err)
	}
	d := New(opts...)
	d.root = root
	return d, nil
}

// Lock makes the document immutable. A locked document cannot be unlocked;
// every later mutation fails with ErrLocked.
func (d *Document) Lock() {
	d.locked = true
}

// Locked reports whether Lock has been called.
func (d *Document) Locked() bool {
	return d.locked
}

func (d *Document) checkLocked() error {
	if d.locked {
		return ErrLocked
	}
	return nil
}

// HasPreferredLocale reports whether the applicant has chosen a locale.
func (d *Document) HasPreferredLocale() bool {
	return d.locale != nil
}

// PreferredLocale returns the chosen locale, or DefaultLocale when unset.
func (d *Document) PreferredLocale() language.Tag {
	if d.locale == nil {
		return DefaultLocale
	}
	return *d.locale
}

// SetPreferredLocale records the applicant's locale choice.
func (d *Document) SetPreferredLocale(tag language.Tag) error {
	if err := d.checkLocked(); err != nil {
		return err
	}
	d.locale = &tag
	return nil
}

// AsJSONString serializes the current tree for persistence. Serialization
// is deterministic, so equal trees always produce equal strings.
func (d *Document) AsJSONString() string {
	return string(docval.Encode(d.root))
}

// Equal compares two documents by their serialized forms.
func (d *Document) Equal(other *Document) bool {
	if other == nil {
		return false
	}
	return d.AsJSONString() == other.AsJSONString()
}

// EvalPredicate executes a compiled query expression against the document,
// returning true iff it matches at least one value. A target path that does
// not exist evaluates to false, never an error.
func (d *Document) EvalPredicate(expr query.Expression) bool {
	return len(d.queries.Exec(d.root, expr)) > 0
}
