package capture

import "fmt"

// Kind tags a Result.
type Kind int

const (
	KindImage Kind = iota
	KindText
	KindCancelled
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindText:
		return "text"
	case KindCancelled:
		return "cancelled"
	case KindFailed:
		return "failed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Result is the outcome of one capture. Only the field matching Kind is set.
type Result struct {
	Kind   Kind
	Image  []byte
	Text   string
	Reason string
}

func ImageResult(data []byte) Result { return Result{Kind: KindImage, Image: data} }
func TextResult(text string) Result  { return Result{Kind: KindText, Text: text} }
func CancelledResult() Result        { return Result{Kind: KindCancelled} }

func FailedResult(format string, args ...any) Result {
	return Result{Kind: KindFailed, Reason: fmt.Sprintf(format, args...)}
}

// OK reports whether the result carries an artifact.
func (r Result) OK() bool {
	return r.Kind == KindImage || r.Kind == KindText
}

func (r Result) String() string {
	switch r.Kind {
	case KindImage:
		return fmt.Sprintf("image(%d bytes)", len(r.Image))
	case KindText:
		return fmt.Sprintf("text(%d chars)", len([]rune(r.Text)))
	case KindFailed:
		return "failed: " + r.Reason
	default:
		return r.Kind.String()
	}
}
