package editor

import (
	"errors"
	"testing"
	"unicode/utf8"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		sel         Selection
		before      string
		after       string
		placeholder string
		want        Result
	}{
		{"selection", "hello world", Selection{6, 11}, "**", "**", "bold", Result{"hello **world**", 15, 15}},
		{"caret uses placeholder", "ab", Selection{1, 1}, "*", "*", "x", Result{"a*x*b", 4, 4}},
		{"empty text", "", Selection{0, 0}, "`", "`", "code", Result{"`code`", 6, 6}},
		{"reversed selection", "hello world", Selection{11, 6}, "~~", "~~", "", Result{"hello ~~world~~", 15, 15}},
		{"out of range", "abc", Selection{-4, 99}, "[", "]", "", Result{"[abc]", 5, 5}},
		{"multibyte offsets are runes", "héllo wörld", Selection{6, 11}, "*", "*", "", Result{"héllo *wörld*", 13, 13}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, tt.sel, tt.before, tt.after, tt.placeholder)
			if got != tt.want {
				t.Errorf("Wrap = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestWrapLengthAndSpliceBack(t *testing.T) {
	texts := []string{"", "a", "hello world", "línea uno\nlínea dos"}
	frags := [][2]string{{"**", "**"}, {"[", "](https://)"}, {"```\n", "\n```"}, {"", ""}}
	for _, text := range texts {
		n := utf8.RuneCountInString(text)
		for start := 0; start <= n; start++ {
			for end := start; end <= n; end++ {
				for _, f := range frags {
					before, after := f[0], f[1]
					got := Wrap(text, Selection{start, end}, before, after, "")
					runes := []rune(got.Text)

					wantLen := n + utf8.RuneCountInString(before) + utf8.RuneCountInString(after)
					if len(runes) != wantLen {
						t.Fatalf("Wrap(%q,%d,%d) length %d, want %d", text, start, end, len(runes), wantLen)
					}

					// remove the two fragments again
					b := utf8.RuneCountInString(before)
					a := utf8.RuneCountInString(after)
					closeAt := end + b
					spliced := string(runes[:start]) + string(runes[start+b:closeAt]) + string(runes[closeAt+a:])
					if spliced != text {
						t.Fatalf("splice back of %q gave %q", got.Text, spliced)
					}
					if got.Start != closeAt+a || got.End != got.Start {
						t.Fatalf("caret = %d..%d, want %d", got.Start, got.End, closeAt+a)
					}
				}
			}
		}
	}
}

func TestPrefixLine(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		sel    Selection
		prefix string
		want   Result
	}{
		{"first line", "item", Selection{2, 2}, "- ", Result{"- item", 4, 4}},
		{"second line", "one\ntwo", Selection{5, 6}, "> ", Result{"one\n> two", 7, 8}},
		{"caret at line start", "one\ntwo", Selection{4, 4}, "1. ", Result{"one\n1. two", 7, 7}},
		{"caret after newline at end", "one\n", Selection{4, 4}, "## ", Result{"one\n## ", 7, 7}},
		{"empty", "", Selection{0, 0}, "- [ ] ", Result{"- [ ] ", 6, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrefixLine(tt.text, tt.sel, tt.prefix)
			if got != tt.want {
				t.Errorf("PrefixLine = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	got, err := Apply("bold", "make this loud", Selection{10, 14})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got.Text != "make this **loud**" {
		t.Errorf("bold = %q", got.Text)
	}

	got, err = Apply("link", "", Selection{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got.Text != "[link text](https://)" {
		t.Errorf("link = %q", got.Text)
	}

	got, err = Apply("checkbox", "a\nb", Selection{2, 2})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got.Text != "a\n- [ ] b" {
		t.Errorf("checkbox = %q", got.Text)
	}

	for _, action := range Actions {
		if _, err := Apply(action, "x", Selection{0, 1}); err != nil {
			t.Errorf("Apply(%q): %v", action, err)
		}
	}

	if _, err := Apply("blink", "x", Selection{}); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("unknown action err = %v", err)
	}
}
