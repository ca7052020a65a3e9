package parser

import "regexp"

var tagPattern = regexp.MustCompile(`[@#]([\p{L}\p{N}_]+)`)

// extractTags collects every @token and #token as a tag name, preserving
// first-seen order and deduplicating exact repeats. Tokens that spell a
// priority keyword are dropped: the priority stage already ran, so a
// surviving "@紧急" is leftover marker input, not a label.
func extractTags(text string) (string, []string) {
	matches := tagPattern.FindAllStringSubmatch(text, -1)
	if matches == nil {
		return text, nil
	}
	var tags []string
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		name := m[1]
		if seen[name] || isPriorityKeyword(name) {
			continue
		}
		seen[name] = true
		tags = append(tags, name)
	}
	return tagPattern.ReplaceAllString(text, ""), tags
}
