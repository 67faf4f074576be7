package siteconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "text")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadEnvironmentWins(t *testing.T) {
	path := writeFile(t, "name: From File\ninstagram: filegram\n")
	got, err := Load(envFrom(map[string]string{EnvX: "@envx"}), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Site{Name: DefaultName, X: "@envx"}
	if got != want {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "Name: Lab Notes\n\ndescription: Robots: and chips\nx: @lab\nbogus line\nunknown: 1\n")
	got, err := Load(envFrom(nil), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Site{Name: "Lab Notes", Description: "Robots: and chips", X: "@lab"}
	if got != want {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestLoadDefaults(t *testing.T) {
	got, err := Load(envFrom(nil), filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != (Site{Name: DefaultName}) {
		t.Errorf("Load = %+v, want defaults", got)
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	// a directory cannot be read as a file
	got, err := Load(envFrom(nil), t.TempDir())
	if err == nil {
		t.Fatal("expected an error for an unreadable config")
	}
	if got.Name != DefaultName {
		t.Errorf("Name = %q, want default", got.Name)
	}
}

func TestParseFileEmpty(t *testing.T) {
	s, err := ParseFile(strings.NewReader(""))
	if err != nil || s != (Site{}) {
		t.Errorf("ParseFile(\"\") = %+v, %v", s, err)
	}
}

func TestLinks(t *testing.T) {
	s := Site{Instagram: "@gram", X: "xhandle", LinkedIn: "@in@name", Email: "me@example.com"}
	got := s.Links()
	want := SocialLinks{
		Instagram: "https://instagram.com/gram",
		Twitter:   "https://twitter.com/xhandle",
		LinkedIn:  "https://linkedin.com/in/in@name",
		Email:     "mailto:me@example.com",
	}
	if got != want {
		t.Errorf("Links = %+v, want %+v", got, want)
	}
	if (Site{}).Links() != (SocialLinks{}) {
		t.Error("empty site should have no links")
	}
}
