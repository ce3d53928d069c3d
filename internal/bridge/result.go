package bridge

import (
	"errors"

	"github.com/dkooll/mcpbridge/internal/database"
	"github.com/dkooll/mcpbridge/internal/pdfform"
)

// Prefixes of the legacy plain-string contract. Callers that cannot use
// Result.Kind match on these.
const (
	PDFSuccessPrefix   = "PDF generated and saved to: "
	PDFFailurePrefix   = "PDF generation failed: "
	QueryFailurePrefix = "Query execution failed: "
)

type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInvalidArgument
	KindValidationFailed
	KindStore
	KindTemplateNotFound
	KindRenderFailure
	KindWriteFailure
	KindNotInitialized
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindValidationFailed:
		return "validation_failed"
	case KindStore:
		return "store"
	case KindTemplateNotFound:
		return "template_not_found"
	case KindRenderFailure:
		return "render_failure"
	case KindWriteFailure:
		return "write_failure"
	case KindNotInitialized:
		return "not_initialized"
	default:
		return "unknown"
	}
}

// Result is what ProcessMessage returns: Ok(text) when Kind is KindNone,
// Err(kind, text) otherwise. Text always carries the user facing message.
type Result struct {
	Kind ErrorKind
	Text string
	Err  error
}

func Ok(text string) Result {
	return Result{Kind: KindNone, Text: text}
}

func Err(kind ErrorKind, prefix string, err error) Result {
	return Result{Kind: kind, Text: prefix + err.Error(), Err: err}
}

func (r Result) OK() bool {
	return r.Kind == KindNone
}

func (r Result) String() string {
	return r.Text
}

// Classify maps an executor or filler error onto its kind. Unknown errors
// are store errors: they come verbatim from the database driver.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotInitialized):
		return KindNotInitialized
	case errors.Is(err, database.ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, database.ErrValidationFailed):
		return KindValidationFailed
	case errors.Is(err, pdfform.ErrTemplateNotFound):
		return KindTemplateNotFound
	case errors.Is(err, pdfform.ErrRenderFailure):
		return KindRenderFailure
	case errors.Is(err, pdfform.ErrWriteFailure):
		return KindWriteFailure
	default:
		return KindStore
	}
}
