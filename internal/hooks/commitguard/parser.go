package commitguard

import (
	"strings"
)

// commentPrefix marks lines git strips from the final message.
const commentPrefix = "#"

// ParsedCommitMessage is a commit message split into title and body.
type ParsedCommitMessage struct {
	Title string
	Body  string
}

// ParseCommitMessage splits a commit message file into title and body.
//
// Parsing rules:
// - Line endings are normalized to \n
// - Title: first line that is neither blank nor a git comment
// - Body: everything after the title, without comment lines, trimmed.
func ParseCommitMessage(message string) ParsedCommitMessage {
	var result ParsedCommitMessage

	normalized := strings.ReplaceAll(message, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")

	titleIdx := -1
	for i, line := range lines {
		if isEmptyLine(line) || isCommentLine(line) {
			continue
		}

		titleIdx = i
		break
	}

	if titleIdx < 0 {
		return result
	}

	result.Title = strings.TrimSpace(lines[titleIdx])

	body := make([]string, 0, len(lines)-titleIdx-1)
	for _, line := range lines[titleIdx+1:] {
		if isCommentLine(line) {
			continue
		}

		body = append(body, line)
	}

	result.Body = strings.TrimSpace(strings.Join(body, "\n"))

	return result
}

func isEmptyLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

// isCommentLine reports whether git drops the line on message cleanup.
func isCommentLine(line string) bool {
	return strings.HasPrefix(line, commentPrefix)
}
