package commitguard

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
)

const (
	// BranchPattern is the required shape of a branch name.
	BranchPattern = `^(?:feat|fix|bug|chore)/(#\d+-)?\S{5,}`
	// MessagePattern is the required shape of a commit message.
	MessagePattern = `^(?:feat|fix|bug|chore)\((\S{3,})\):( #\d{1,})? [\S ]{5,}`

	// BranchExample is a branch name accepted by BranchPattern.
	BranchExample = "feat/#12-git-hooks"
	// MessageExample is a commit message accepted by MessagePattern.
	MessageExample = "feat(scope): #12 Add commit-msg hook"

	// IssuePattern captures the issue number referenced by a branch or message.
	IssuePattern = `#(\d+)`
)

// Unicode whitespace as matched by \s in the original patterns, space excluded.
const unicodeSpace = `\t\n\v\f\r\x1c-\x1f\x{85}\x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}`

const (
	nonSpace        = `[^ ` + unicodeSpace + `]`
	nonSpaceOrSpace = `[^` + unicodeSpace + `]`
	digit           = `\p{Nd}`
)

// branchExpr and messageExpr are BranchPattern and MessagePattern with
// Unicode-aware \S, [\S ] and \d.
const (
	branchExpr  = `^(?:feat|fix|bug|chore)/(#` + digit + `+-)?` + nonSpace + `{5,}`
	messageExpr = `^(?:feat|fix|bug|chore)\((` + nonSpace + `{3,})\):( #` + digit + `{1,})? ` + nonSpaceOrSpace + `{5,}`
)

// DefaultExemptBranches lists the branches nobody should commit to directly.
var DefaultExemptBranches = []string{
	"main",
}

// Patterns holds the rules a commit is checked against.
// A Patterns value is never mutated once handed to New.
type Patterns struct {
	Branch         *regexp.Regexp
	Message        *regexp.Regexp
	ExemptBranches []string

	// BranchSource and MessageSource are the pattern texts shown in
	// diagnostics. Empty means the compiled expression is shown.
	BranchSource  string
	MessageSource string

	// BranchExample and MessageExample are shown in diagnostics. Empty means
	// no example line is printed.
	BranchExample  string
	MessageExample string
}

// DefaultPatterns returns the built-in branch and commit message conventions.
func DefaultPatterns() Patterns {
	return Patterns{
		Branch:         regexp.MustCompile(branchExpr),
		Message:        regexp.MustCompile(messageExpr),
		ExemptBranches: slices.Clone(DefaultExemptBranches),
		BranchSource:   BranchPattern,
		MessageSource:  MessagePattern,
		BranchExample:  BranchExample,
		MessageExample: MessageExample,
	}
}

// CompilePatterns compiles branch and message expressions into a Patterns
// value without examples.
func CompilePatterns(branch string, message string, exempt ...string) (Patterns, error) {
	if branch == "" {
		return Patterns{}, errors.New("branch pattern is required")
	}

	if message == "" {
		return Patterns{}, errors.New("message pattern is required")
	}

	branchRe, err := regexp.Compile(branch)
	if err != nil {
		return Patterns{}, fmt.Errorf("invalid branch pattern: %w", err)
	}

	messageRe, err := regexp.Compile(message)
	if err != nil {
		return Patterns{}, fmt.Errorf("invalid message pattern: %w", err)
	}

	return Patterns{
		Branch:         branchRe,
		Message:        messageRe,
		ExemptBranches: slices.Clone(exempt),
	}, nil
}

func (p Patterns) isExempt(branch string) bool {
	return slices.Contains(p.ExemptBranches, branch)
}

func (p Patterns) branchText() string {
	if p.BranchSource != "" {
		return p.BranchSource
	}

	return p.Branch.String()
}

func (p Patterns) messageText() string {
	if p.MessageSource != "" {
		return p.MessageSource
	}

	return p.Message.String()
}

func (p Patterns) clone() Patterns {
	p.ExemptBranches = slices.Clone(p.ExemptBranches)
	return p
}
