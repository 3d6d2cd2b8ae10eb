/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package response

import "strings"

const fence = "```"

// fenceTags are the info strings accepted on an opening fence.
var fenceTags = map[string]bool{"": true, "yaml": true, "yml": true}

// ExtractYAML returns the content of the first fenced code block in text,
// tagged yaml or untagged. The opening fence may follow prose on the same
// line; the block ends at a line holding only a closing fence, or at the
// end of text. When no such block exists the trimmed text is returned
// unchanged.
func ExtractYAML(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	rest := text
	for {
		i := strings.Index(rest, fence)
		if i < 0 {
			break
		}
		after := rest[i+len(fence):]
		nl := strings.IndexByte(after, '\n')
		if nl < 0 {
			break
		}
		tag := strings.ToLower(strings.TrimSpace(after[:nl]))
		body, next, closed := untilClosingFence(after[nl+1:])
		if fenceTags[tag] {
			return strings.TrimSpace(body)
		}
		// Blocks in other languages are skipped whole.
		if !closed {
			break
		}
		rest = next
	}

	// Single-line blocks such as ```yaml a: 1``` never match the loop above.
	text = strings.TrimSpace(text)
	if !strings.Contains(text, "\n") && strings.HasPrefix(text, fence) && strings.HasSuffix(text, fence) && len(text) >= 2*len(fence) {
		text = strings.TrimSuffix(strings.TrimPrefix(text, fence), fence)
		text = strings.TrimPrefix(text, "yaml")
		text = strings.TrimSpace(text)
	}
	return text
}

// untilClosingFence splits s at the first line consisting only of a fence.
func untilClosingFence(s string) (body, rest string, closed bool) {
	off := 0
	for _, line := range strings.SplitAfter(s, "\n") {
		if strings.TrimSpace(line) == fence {
			return s[:off], s[off+len(line):], true
		}
		off += len(line)
	}
	return s, "", false
}
