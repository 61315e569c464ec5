package commitguard

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

// Validator checks a branch name and a commit message against fixed Patterns.
type Validator struct {
	patterns Patterns
}

// New returns a Validator using a private copy of patterns.
func New(patterns Patterns) (*Validator, error) {
	if patterns.Branch == nil {
		return nil, errors.New("branch pattern is required")
	}

	if patterns.Message == nil {
		return nil, errors.New("message pattern is required")
	}

	return &Validator{patterns: patterns.clone()}, nil
}

// Patterns returns a copy of the patterns the validator was built with.
func (v *Validator) Patterns() Patterns {
	return v.patterns.clone()
}

// Validate checks branch and message in order and returns the first failure
// as a *ValidationError, or nil if the commit may proceed.
//
// Checks, first failure wins:
// - branch is exempt: KindExemptBranch (worded as a warning, still a failure)
// - branch does not match the branch pattern: KindBranchFormat
// - message is not valid UTF-8 or does not match the message pattern:
//   KindMessageFormat.
func (v *Validator) Validate(message string, branch string) error {
	if v.patterns.isExempt(branch) {
		return &ValidationError{
			Kind:   KindExemptBranch,
			Branch: branch,
		}
	}

	if !matchesPrefix(v.patterns.Branch, branch) {
		return &ValidationError{
			Kind:    KindBranchFormat,
			Branch:  branch,
			Pattern: v.patterns.branchText(),
			Example: v.patterns.BranchExample,
		}
	}

	if !utf8.ValidString(message) || !matchesPrefix(v.patterns.Message, message) {
		return &ValidationError{
			Kind:    KindMessageFormat,
			Branch:  branch,
			Title:   ParseCommitMessage(message).Title,
			Pattern: v.patterns.messageText(),
			Example: v.patterns.MessageExample,
		}
	}

	return nil
}

// matchesPrefix reports whether re matches at the very start of value.
// Patterns without a leading ^ are still anchored to the start.
func matchesPrefix(re *regexp.Regexp, value string) bool {
	loc := re.FindStringIndex(value)
	return loc != nil && loc[0] == 0
}

// ExtractRef applies re to value and returns the result of the first match:
// the whole match if re has no groups, otherwise the first non-empty group.
// It returns false if there is no match or the result is empty.
func ExtractRef(value string, re *regexp.Regexp) (string, bool) {
	match := re.FindStringSubmatch(value)
	if match == nil {
		return "", false
	}

	if len(match) == 1 {
		return match[0], match[0] != ""
	}

	for _, group := range match[1:] {
		if group != "" {
			return group, true
		}
	}

	return "", false
}
