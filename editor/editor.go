// Package editor implements the markdown toolbar of the admin editor as pure
// text operations: given the text, the selection and an action it returns the
// new text and selection.
package editor

import (
	"errors"
	"strings"
)

// ErrUnknownAction is returned by Apply for an action it does not know.
var ErrUnknownAction = errors.New("unknown editor action")

// Selection is a range of rune offsets into the text. Start == End is a caret.
type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Result is the edited text and the selection to restore.
type Result struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Wrap surrounds the selection with before and after. An empty selection is
// replaced by placeholder. The caret ends up right after the closing fragment.
func Wrap(text string, sel Selection, before, after, placeholder string) Result {
	runes := []rune(text)
	start, end := clamp(sel, len(runes))
	inner := string(runes[start:end])
	if inner == "" {
		inner = placeholder
	}
	inserted := before + inner + after
	var b strings.Builder
	b.WriteString(string(runes[:start]))
	b.WriteString(inserted)
	b.WriteString(string(runes[end:]))
	caret := start + runeLen(inserted)
	return Result{Text: b.String(), Start: caret, End: caret}
}

// PrefixLine inserts prefix at the start of the line holding sel.Start. The
// selection moves with the text.
func PrefixLine(text string, sel Selection, prefix string) Result {
	runes := []rune(text)
	start, end := clamp(sel, len(runes))
	lineStart := start
	for lineStart > 0 && runes[lineStart-1] != '\n' {
		lineStart--
	}
	var b strings.Builder
	b.WriteString(string(runes[:lineStart]))
	b.WriteString(prefix)
	b.WriteString(string(runes[lineStart:]))
	n := runeLen(prefix)
	return Result{Text: b.String(), Start: start + n, End: end + n}
}

type wrapSpec struct {
	before, after, placeholder string
}

var wraps = map[string]wrapSpec{
	"bold":          {"**", "**", "bold text"},
	"italic":        {"*", "*", "italic text"},
	"strikethrough": {"~~", "~~", "strikethrough"},
	"code":          {"`", "`", "code"},
	"codeblock":     {"```\n", "\n```", "code"},
	"link":          {"[", "](https://)", "link text"},
	"image":         {"![", "](https://)", "alt text"},
}

var prefixes = map[string]string{
	"heading":  "## ",
	"quote":    "> ",
	"list":     "- ",
	"ordered":  "1. ",
	"checkbox": "- [ ] ",
}

// Actions lists the toolbar actions Apply understands, in toolbar order.
var Actions = []string{
	"bold", "italic", "strikethrough", "heading", "quote", "code", "codeblock",
	"link", "image", "list", "ordered", "checkbox",
}

// Apply runs the toolbar action on text.
func Apply(action, text string, sel Selection) (Result, error) {
	if w, ok := wraps[action]; ok {
		return Wrap(text, sel, w.before, w.after, w.placeholder), nil
	}
	if p, ok := prefixes[action]; ok {
		return PrefixLine(text, sel, p), nil
	}
	return Result{}, ErrUnknownAction
}

// clamp bounds sel to [0, n] and orders it.
func clamp(sel Selection, n int) (int, int) {
	start, end := sel.Start, sel.End
	if start > end {
		start, end = end, start
	}
	start = max(0, min(start, n))
	end = max(0, min(end, n))
	return start, end
}

func runeLen(s string) int {
	return len([]rune(s))
}
