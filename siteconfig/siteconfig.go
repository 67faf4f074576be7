// Package siteconfig resolves the site's name, description and social handles
// from the environment or a local "key: value" file.
package siteconfig

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
)

// DefaultName is used when no source provides a site name.
const DefaultName = "v11labs"

// Environment variables read by Load.
const (
	EnvName        = "SITE_NAME"
	EnvDescription = "SITE_DESCRIPTION"
	EnvInstagram   = "INSTAGRAM"
	EnvX           = "X_HANDLE"
	EnvLinkedIn    = "LINKEDIN"
	EnvEmail       = "EMAIL"
)

// Site is the public metadata of the blog.
type Site struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Instagram   string `json:"instagram"`
	X           string `json:"x"`
	LinkedIn    string `json:"linkedin"`
	Email       string `json:"email"`
}

// SocialLinks are the profile URLs derived from the handles. Unset handles
// are omitted.
type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Load resolves the site config once. If any of the six environment
// variables is set the environment wins outright, with defaults for the
// missing ones. Otherwise the file at path is read; fields it lacks fall back
// to the environment and then to defaults. A missing file is not an error. An
// unreadable one is reported alongside the defaults.
func Load(getenv func(string) string, path string) (Site, error) {
	env := Site{
		Name:        getenv(EnvName),
		Description: getenv(EnvDescription),
		Instagram:   getenv(EnvInstagram),
		X:           getenv(EnvX),
		LinkedIn:    getenv(EnvLinkedIn),
		Email:       getenv(EnvEmail),
	}
	if env != (Site{}) {
		return withDefaults(env), nil
	}

	var file Site
	var loadErr error
	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			file, loadErr = ParseFile(f)
			f.Close()
		case !errors.Is(err, fs.ErrNotExist):
			loadErr = err
		}
	}
	return withDefaults(merge(file, env)), loadErr
}

// ParseFile reads "key: value" lines. Keys are case-insensitive; values may
// contain further colons. Unknown keys and malformed lines are skipped.
func ParseFile(r io.Reader) (Site, error) {
	var s Site
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "name":
			s.Name = value
		case "description":
			s.Description = value
		case "instagram":
			s.Instagram = value
		case "x":
			s.X = value
		case "linkedin":
			s.LinkedIn = value
		case "email":
			s.Email = value
		}
	}
	return s, sc.Err()
}

// Links builds profile URLs from the handles, dropping the first "@".
func (s Site) Links() SocialLinks {
	var l SocialLinks
	if s.Instagram != "" {
		l.Instagram = "https://instagram.com/" + stripAt(s.Instagram)
	}
	if s.X != "" {
		l.Twitter = "https://twitter.com/" + stripAt(s.X)
	}
	if s.LinkedIn != "" {
		l.LinkedIn = "https://linkedin.com/in/" + stripAt(s.LinkedIn)
	}
	if s.Email != "" {
		l.Email = "mailto:" + s.Email
	}
	return l
}

func stripAt(h string) string {
	return strings.Replace(h, "@", "", 1)
}

func merge(primary, fallback Site) Site {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return Site{
		Name:        pick(primary.Name, fallback.Name),
		Description: pick(primary.Description, fallback.Description),
		Instagram:   pick(primary.Instagram, fallback.Instagram),
		X:           pick(primary.X, fallback.X),
		LinkedIn:    pick(primary.LinkedIn, fallback.LinkedIn),
		Email:       pick(primary.Email, fallback.Email),
	}
}

func withDefaults(s Site) Site {
	if s.Name == "" {
		s.Name = DefaultName
	}
	return s
}
