package program

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/language"

	"github.com/openbenefits/formd/internal/docpath"
	"github.com/openbenefits/formd/internal/docval"
	"github.com/openbenefits/formd/internal/predicate"
	"github.com/openbenefits/formd/internal/query"
)

// LoadMode controls how errors are handled during program loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the programs loaded from a directory.
type LoadResult struct {
	Programs  []ProgramDefinition
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// LoadError represents an error that occurred during program loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed

	// Program validation errors
	ErrCodeProgramID         = "E101" // Missing or invalid program id
	ErrCodeProgramName       = "E102" // Missing default-locale name
	ErrCodeBlockQuestions    = "E103" // Block without questions
	ErrCodeQuestionType      = "E104" // Unknown question type
	ErrCodeQuestionPath      = "E105" // Malformed question path
	ErrCodePredicate         = "E106" // Malformed visibility predicate
	ErrCodePredicateOrdering = "E107" // Predicate references a later question
)

// LoadPrograms loads and compiles CUE program definitions from a directory.
// Definitions live under the top-level "program" struct, one field per
// program. If mode is LoadModeFailFast, returns on first error; if
// LoadModeCollectAll, collects all errors.
func LoadPrograms(dir string, mode LoadMode) (*LoadResult, []error) {
	var errs []error

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("programs directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing programs directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	programsVal := value.LookupPath(cue.ParsePath("program"))
	if programsVal.Exists() {
		iter, iterErr := programsVal.Fields()
		if iterErr != nil {
			errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating programs: %v", iterErr)})
			if mode == LoadModeFailFast {
				return result, errs
			}
		} else {
			for iter.Next() {
				def, compileErr := compileProgram(iter.Label(), iter.Value())
				if compileErr != nil {
					errs = append(errs, compileErr)
					if mode == LoadModeFailFast {
						return result, errs
					}
					continue
				}
				result.Programs = append(result.Programs, *def)
			}
		}
	}

	if len(result.Programs) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no programs found"})
	}
	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// compileProgram parses one CUE program struct into a ProgramDefinition.
func compileProgram(label string, v cue.Value) (*ProgramDefinition, error) {
	if err := v.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("program %s: %v", label, err), Pos: v.Pos()}
	}

	def := &ProgramDefinition{}

	id, err := v.LookupPath(cue.ParsePath("id")).Int64()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeProgramID, Message: fmt.Sprintf("program %s: id is required: %v", label, err), Pos: v.Pos()}
	}
	def.ID = id
	def.AdminName = stringField(v, "admin_name", label)
	def.AdminDescription = stringField(v, "admin_description", "")
	def.ExternalLink = stringField(v, "external_link", "")
	def.DisplayMode = stringField(v, "display_mode", "public")

	def.LocalizedName, err = compileLocalized(v.LookupPath(cue.ParsePath("name")))
	if err != nil {
		return nil, wrapLoadError(err, fmt.Sprintf("program %s name", label))
	}
	def.LocalizedDescription, err = compileLocalized(v.LookupPath(cue.ParsePath("description")))
	if err != nil {
		return nil, wrapLoadError(err, fmt.Sprintf("program %s description", label))
	}
	if !def.LocalizedName.HasTranslation(DefaultLocale) {
		return nil, &LoadError{
			Code:    ErrCodeProgramName,
			Message: fmt.Sprintf("program %s: name requires a %s translation", label, DefaultLocale),
			Pos:     v.Pos(),
		}
	}

	blocksVal := v.LookupPath(cue.ParsePath("blocks"))
	if blocksVal.Exists() {
		blockIter, err := blocksVal.List()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("program %s: blocks must be a list: %v", label, err), Pos: blocksVal.Pos()}
		}
		for blockIter.Next() {
			block, blockErr := compileBlock(label, blockIter.Value())
			if blockErr != nil {
				return nil, blockErr
			}
			def.Blocks = append(def.Blocks, *block)
		}
	}

	if !def.HasValidPredicateOrdering() {
		return nil, &LoadError{
			Code:    ErrCodePredicateOrdering,
			Message: fmt.Sprintf("program %s: a predicate references a question from a later block", label),
			Pos:     v.Pos(),
		}
	}
	return def, nil
}

func compileBlock(programLabel string, v cue.Value) (*BlockDefinition, error) {
	block := &BlockDefinition{}

	id, err := v.LookupPath(cue.ParsePath("id")).Int64()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("program %s: block id is required: %v", programLabel, err), Pos: v.Pos()}
	}
	block.ID = id
	block.Name = stringField(v, "name", "")
	block.Description = stringField(v, "description", "")
	if enumVal := v.LookupPath(cue.ParsePath("enumerator_id")); enumVal.Exists() {
		enumID, err := enumVal.Int64()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("program %s block %d: enumerator_id: %v", programLabel, id, err), Pos: enumVal.Pos()}
		}
		block.EnumeratorID = enumID
	}

	questionsVal := v.LookupPath(cue.ParsePath("questions"))
	if questionsVal.Exists() {
		qIter, err := questionsVal.List()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("program %s block %d: questions must be a list: %v", programLabel, id, err), Pos: questionsVal.Pos()}
		}
		for qIter.Next() {
			q, qErr := compileQuestion(programLabel, id, qIter.Value())
			if qErr != nil {
				return nil, qErr
			}
			block.Questions = append(block.Questions, *q)
		}
	}
	if len(block.Questions) == 0 {
		return nil, &LoadError{
			Code:    ErrCodeBlockQuestions,
			Message: fmt.Sprintf("program %s block %d: at least one question is required", programLabel, id),
			Pos:     v.Pos(),
		}
	}

	if visVal := v.LookupPath(cue.ParsePath("visibility")); visVal.Exists() {
		vis, visErr := compileVisibility(programLabel, id, visVal)
		if visErr != nil {
			return nil, visErr
		}
		block.Visibility = vis
	}
	return block, nil
}

func compileQuestion(programLabel string, blockID int64, v cue.Value) (*QuestionDefinition, error) {
	q := &QuestionDefinition{}

	id, err := v.LookupPath(cue.ParsePath("id")).Int64()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("program %s block %d: question id is required: %v", programLabel, blockID, err), Pos: v.Pos()}
	}
	q.ID = id
	q.Name = stringField(v, "name", "")

	rawPath, err := v.LookupPath(cue.ParsePath("path")).String()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeQuestionPath, Message: fmt.Sprintf("program %s question %d: path is required: %v", programLabel, id, err), Pos: v.Pos()}
	}
	path, err := docpath.Parse(rawPath)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeQuestionPath, Message: fmt.Sprintf("program %s question %d: %v", programLabel, id, err), Pos: v.Pos()}
	}
	q.Path = path

	rawType, err := v.LookupPath(cue.ParsePath("type")).String()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeQuestionType, Message: fmt.Sprintf("program %s question %d: type is required: %v", programLabel, id, err), Pos: v.Pos()}
	}
	q.Type = QuestionType(rawType)
	if !ValidQuestionType(q.Type) {
		return nil, &LoadError{Code: ErrCodeQuestionType, Message: fmt.Sprintf("program %s question %d: unknown question type %q", programLabel, id, rawType), Pos: v.Pos()}
	}
	return q, nil
}

var loaderOperators = map[query.Operator]bool{
	query.OpEqualTo:            true,
	query.OpNotEqualTo:         true,
	query.OpGreaterThan:        true,
	query.OpGreaterThanOrEqual: true,
	query.OpLessThan:           true,
	query.OpLessThanOrEqual:    true,
	query.OpIn:                 true,
}

// compileVisibility parses a leaf visibility predicate. Composite AND/OR
// trees are built programmatically; program authors declare single
// comparisons.
func compileVisibility(programLabel string, blockID int64, v cue.Value) (*predicate.Definition, error) {
	badPredicate := func(format string, args ...any) *LoadError {
		return &LoadError{
			Code:    ErrCodePredicate,
			Message: fmt.Sprintf("program %s block %d visibility: %s", programLabel, blockID, fmt.Sprintf(format, args...)),
			Pos:     v.Pos(),
		}
	}

	action := predicate.Action(stringField(v, "action", string(predicate.ActionShowBlock)))
	if action != predicate.ActionShowBlock && action != predicate.ActionHideBlock {
		return nil, badPredicate("unknown action %q", action)
	}

	questionID, err := v.LookupPath(cue.ParsePath("question_id")).Int64()
	if err != nil {
		return nil, badPredicate("question_id is required: %v", err)
	}
	rawPath, err := v.LookupPath(cue.ParsePath("path")).String()
	if err != nil {
		return nil, badPredicate("path is required: %v", err)
	}
	path, err := docpath.Parse(rawPath)
	if err != nil {
		return nil, badPredicate("%v", err)
	}

	op := query.Operator(stringField(v, "op", string(query.OpEqualTo)))
	if !loaderOperators[op] {
		return nil, badPredicate("unknown operator %q", op)
	}

	value, err := compileLiteral(v.LookupPath(cue.ParsePath("value")))
	if err != nil {
		return nil, badPredicate("%v", err)
	}

	return &predicate.Definition{
		Root: predicate.Leaf{
			QuestionID: questionID,
			Path:       path,
			Scalar:     stringField(v, "scalar", ""),
			Op:         op,
			Value:      value,
		},
		Action: action,
	}, nil
}

// compileLiteral maps a CUE literal to a document value: string, integer,
// or bool. Anything else has no document representation.
func compileLiteral(v cue.Value) (docval.Value, error) {
	if !v.Exists() {
		return nil, fmt.Errorf("value is required")
	}
	if s, err := v.String(); err == nil {
		return docval.String(s), nil
	}
	if n, err := v.Int64(); err == nil {
		return docval.Long(n), nil
	}
	if b, err := v.Bool(); err == nil {
		return docval.Bool(b), nil
	}
	return nil, fmt.Errorf("value must be a string, integer, or bool")
}

// compileLocalized parses a struct of locale-tag fields into
// LocalizedStrings.
func compileLocalized(v cue.Value) (LocalizedStrings, error) {
	if !v.Exists() {
		return LocalizedStrings{}, nil
	}
	iter, err := v.Fields()
	if err != nil {
		return LocalizedStrings{}, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("translations must be a struct: %v", err), Pos: v.Pos()}
	}

	translations := map[language.Tag]string{}
	for iter.Next() {
		tag, err := language.Parse(iter.Label())
		if err != nil {
			return LocalizedStrings{}, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("invalid locale %q: %v", iter.Label(), err), Pos: iter.Value().Pos()}
		}
		text, err := iter.Value().String()
		if err != nil {
			return LocalizedStrings{}, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("translation for %q must be a string: %v", iter.Label(), err), Pos: iter.Value().Pos()}
		}
		translations[tag] = text
	}
	return NewLocalizedStrings(translations), nil
}

func stringField(v cue.Value, field, fallback string) string {
	s, err := v.LookupPath(cue.ParsePath(field)).String()
	if err != nil {
		return fallback
	}
	return s
}

func wrapLoadError(err error, context string) error {
	if loadErr, ok := err.(*LoadError); ok {
		return &LoadError{Code: loadErr.Code, Message: fmt.Sprintf("%s: %s", context, loadErr.Message), Pos: loadErr.Pos}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("%s: %v", context, err)}
}

// SortPrograms orders programs by ID for deterministic listings.
func SortPrograms(programs []ProgramDefinition) {
	sort.Slice(programs, func(i, j int) bool { return programs[i].ID < programs[j].ID })
}
