// Package program holds program definitions: the ordered blocks of
// questions an applicant works through, their localized display text, and
// the visibility predicates gating each block.
package program

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/openbenefits/formd/internal/docpath"
	"github.com/openbenefits/formd/internal/predicate"
)

// QuestionType discriminates how a question's answers are stored and which
// scalar keys it writes under its path.
type QuestionType string

const (
	TypeText       QuestionType = "text"
	TypeDate       QuestionType = "date"
	TypeID         QuestionType = "id"
	TypeNumber     QuestionType = "number"
	TypeCurrency   QuestionType = "currency"
	TypeCheckbox   QuestionType = "checkbox"
	TypeEnumerator QuestionType = "enumerator"
	TypeFileUpload QuestionType = "fileupload"
)

var questionTypes = map[QuestionType]bool{
	TypeText:       true,
	TypeDate:       true,
	TypeID:         true,
	TypeNumber:     true,
	TypeCurrency:   true,
	TypeCheckbox:   true,
	TypeEnumerator: true,
	TypeFileUpload: true,
}

// ValidQuestionType reports whether t names a known question type.
func ValidQuestionType(t QuestionType) bool {
	return questionTypes[t]
}

// predicateCapable reports whether answers to this question type can be
// referenced from a visibility predicate. Enumerators and file uploads
// hold no comparable scalar.
func predicateCapable(t QuestionType) bool {
	return t != TypeEnumerator && t != TypeFileUpload
}

// QuestionDefinition is a question as placed in a program block.
type QuestionDefinition struct {
	ID   int64
	Name string
	Path docpath.Path
	Type QuestionType
}

// BlockDefinition is one screen of questions. A block with a non-zero
// EnumeratorID repeats once per entity of the referenced enumerator block.
type BlockDefinition struct {
	ID           int64
	Name         string
	Description  string
	EnumeratorID int64
	Visibility   *predicate.Definition
	Questions    []QuestionDefinition
}

// Repeated reports whether the block repeats under an enumerator.
func (b BlockDefinition) Repeated() bool {
	return b.EnumeratorID != 0
}

// HasQuestion reports whether the block contains the question.
func (b BlockDefinition) HasQuestion(questionID int64) bool {
	for _, q := range b.Questions {
		if q.ID == questionID {
			return true
		}
	}
	return false
}

// ProgramDefinition is a full program: admin metadata, localized display
// text, and the ordered block list.
type ProgramDefinition struct {
	ID                   int64
	AdminName            string
	AdminDescription     string
	ExternalLink         string
	DisplayMode          string
	LocalizedName        LocalizedStrings
	LocalizedDescription LocalizedStrings
	Blocks               []BlockDefinition
}

// BlockNotFoundError reports a block lookup miss.
type BlockNotFoundError struct {
	ProgramID int64
	BlockID   int64
}

func (e *BlockNotFoundError) Error() string {
	return fmt.Sprintf("program %d has no block %d", e.ProgramID, e.BlockID)
}

// BlockByIndex returns the block at position i in the program order.
func (p ProgramDefinition) BlockByIndex(i int) (BlockDefinition, error) {
	if i < 0 || i >= len(p.Blocks) {
		return BlockDefinition{}, fmt.Errorf("block index %d out of range [0, %d)", i, len(p.Blocks))
	}
	return p.Blocks[i], nil
}

// BlockByID returns the block with the given ID.
func (p ProgramDefinition) BlockByID(blockID int64) (BlockDefinition, error) {
	for _, b := range p.Blocks {
		if b.ID == blockID {
			return b, nil
		}
	}
	return BlockDefinition{}, &BlockNotFoundError{ProgramID: p.ID, BlockID: blockID}
}

// HasQuestion reports whether any block contains the question.
func (p ProgramDefinition) HasQuestion(questionID int64) bool {
	for _, b := range p.Blocks {
		if b.HasQuestion(questionID) {
			return true
		}
	}
	return false
}

// SupportedLocales lists the locales for which both the name and the
// description carry a translation, sorted by tag string.
func (p ProgramDefinition) SupportedLocales() []language.Tag {
	var tags []language.Tag
	for _, tag := range p.LocalizedName.Locales() {
		if p.LocalizedDescription.HasTranslation(tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// enumeratorAncestors returns the set of enumerator block IDs the block is
// nested under, walking the EnumeratorID chain to the top.
func (p ProgramDefinition) enumeratorAncestors(b BlockDefinition) map[int64]bool {
	ancestors := map[int64]bool{}
	current := b
	for current.Repeated() {
		if ancestors[current.EnumeratorID] {
			break // defensive: a cycle would otherwise loop forever
		}
		ancestors[current.EnumeratorID] = true
		parent, err := p.BlockByID(current.EnumeratorID)
		if err != nil {
			break
		}
		current = parent
	}
	return ancestors
}

// AvailablePredicateQuestions lists the questions a visibility predicate on
// the given block may reference: questions from blocks earlier in program
// order whose enumerator scope encloses the block, excluding question types
// that hold no comparable answer.
func (p ProgramDefinition) AvailablePredicateQuestions(blockID int64) ([]QuestionDefinition, error) {
	target, err := p.BlockByID(blockID)
	if err != nil {
		return nil, err
	}
	ancestors := p.enumeratorAncestors(target)

	var available []QuestionDefinition
	for _, b := range p.Blocks {
		if b.ID == blockID {
			break
		}
		if b.Repeated() && !ancestors[b.EnumeratorID] && b.EnumeratorID != target.EnumeratorID {
			continue
		}
		for _, q := range b.Questions {
			if predicateCapable(q.Type) {
				available = append(available, q)
			}
		}
	}
	return available, nil
}

// HasValidPredicateOrdering reports whether every block predicate
// references only questions asked in earlier blocks.
func (p ProgramDefinition) HasValidPredicateOrdering() bool {
	asked := map[int64]bool{}
	for _, b := range p.Blocks {
		if b.Visibility != nil {
			for _, qid := range predicate.QuestionIDs(b.Visibility.Root) {
				if !asked[qid] {
					return false
				}
			}
		}
		for _, q := range b.Questions {
			asked[q.ID] = true
		}
	}
	return true
}
