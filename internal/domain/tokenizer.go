package domain

import "strings"

// MinTokens is the shortest token sequence any template can match against.
const MinTokens = 7

// Tokenize trims surrounding whitespace and splits the instruction on the space
// character, dropping empty fragments. Inner tabs and newlines stay part of a token.
func Tokenize(instruction string) []string {
	fragments := strings.Split(strings.TrimSpace(instruction), " ")

	tokens := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
