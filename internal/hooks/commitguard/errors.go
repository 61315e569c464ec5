package commitguard

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ansiReset     = "\033[0m"
	ansiRed       = "\033[91m"
	ansiYellow    = "\033[93m"
	ansiUnderline = "\033[4m"
)

// Kind classifies why a commit was refused.
type Kind int

const (
	// KindExemptBranch means the commit happened on an exempt branch. It is
	// reported as a warning but still refuses the commit.
	KindExemptBranch Kind = iota + 1
	// KindBranchFormat means the branch name does not follow the convention.
	KindBranchFormat
	// KindMessageFormat means the commit message does not follow the convention.
	KindMessageFormat
)

var (
	ErrExemptBranch  = errors.New("commit on exempt branch")
	ErrBranchFormat  = errors.New("invalid branch name")
	ErrMessageFormat = errors.New("invalid commit message")
)

func (k Kind) String() string {
	switch k {
	case KindExemptBranch:
		return "exempt-branch"

	case KindBranchFormat:
		return "branch-format"

	case KindMessageFormat:
		return "message-format"

	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindExemptBranch:
		return ErrExemptBranch

	case KindBranchFormat:
		return ErrBranchFormat

	case KindMessageFormat:
		return ErrMessageFormat

	default:
		return nil
	}
}

// ValidationError is the refusal returned by Validator.Validate.
type ValidationError struct {
	Kind   Kind
	Branch string
	// Title is the first line of the rejected message (KindMessageFormat only).
	Title   string
	Pattern string
	Example string
}

// Error returns the diagnostic without terminal colours.
func (e *ValidationError) Error() string {
	return e.Render(false)
}

// Is matches the sentinel error of the same kind.
func (e *ValidationError) Is(target error) bool {
	sentinel := e.Kind.sentinel()
	return sentinel != nil && target == sentinel
}

// Render formats the diagnostic, optionally with ANSI colours.
func (e *ValidationError) Render(color bool) string {
	p := palette{enabled: color}

	var sb strings.Builder

	switch e.Kind {
	case KindExemptBranch:
		sb.WriteString(p.wrap(ansiYellow, fmt.Sprintf(
			"WARNING: You might not have permissions to push to `%s`. Use `git reset HEAD~` to undo this commit,\n"+
				"create a proper branch and/or commit message and commit the changes again.",
			e.Branch,
		)))

	case KindBranchFormat:
		sb.WriteString(p.wrap(ansiRed, fmt.Sprintf("ERROR: Invalid branch name `%s`:", e.Branch)))
		sb.WriteString("\n")
		e.writeExpectation(&sb, p)

	case KindMessageFormat:
		header := "ERROR: Invalid commit message:"
		if e.Title != "" {
			header = fmt.Sprintf("ERROR: Invalid commit message `%s`:", e.Title)
		}

		sb.WriteString(p.wrap(ansiRed, header))
		sb.WriteString("\n")
		e.writeExpectation(&sb, p)

	default:
		sb.WriteString(p.wrap(ansiRed, "ERROR: "+e.Kind.String()))
	}

	return sb.String()
}

func (e *ValidationError) writeExpectation(sb *strings.Builder, p palette) {
	sb.WriteString(p.wrap(ansiRed, "It should match ") + p.wrap(ansiUnderline, e.Pattern))

	if e.Example != "" {
		sb.WriteString("\n")
		sb.WriteString(p.wrap(ansiRed, "Example: ") + p.wrap(ansiUnderline, e.Example))
	}
}

type palette struct {
	enabled bool
}

func (p palette) wrap(code string, text string) string {
	if !p.enabled {
		return text
	}

	return code + text + ansiReset
}
