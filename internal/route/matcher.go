// Package route decides which request paths are intercepted by the session
// gate and which of those stay reachable without a session.
package route

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// Config lists path patterns in path-to-regexp form ("/auth(.*)").
type Config struct {
	PublicRoutes []string
	Matcher      []string
}

// DefaultConfig returns the dashboard's route table.
func DefaultConfig() Config {
	return Config{
		PublicRoutes: []string{
			"/auth(.*)",
			"/portal(.*)",
			"/images(.*)",
		},
		Matcher: []string{
			`/((?!.*\..*|_next).*)`,
			"/",
			"/(api|trpc)(.*)",
		},
	}
}

const matchTimeout = 50 * time.Millisecond

// Matcher evaluates compiled route patterns.
type Matcher struct {
	public      []*regexp2.Regexp
	intercepted []*regexp2.Regexp
}

// NewMatcher compiles every pattern in cfg, anchored at both ends.
func NewMatcher(cfg Config) (*Matcher, error) {
	public, err := compileAll(cfg.PublicRoutes)
	if err != nil {
		return nil, fmt.Errorf("public routes: %w", err)
	}
	intercepted, err := compileAll(cfg.Matcher)
	if err != nil {
		return nil, fmt.Errorf("matcher: %w", err)
	}
	return &Matcher{public: public, intercepted: intercepted}, nil
}

// MustNewMatcher is like NewMatcher but panics on an invalid pattern.
func MustNewMatcher(cfg Config) *Matcher {
	m, err := NewMatcher(cfg)
	if err != nil {
		panic(err)
	}
	return m
}

func compileAll(patterns []string) ([]*regexp2.Regexp, error) {
	out := make([]*regexp2.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp2.Compile("^"+p+"$", regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		re.MatchTimeout = matchTimeout
		out = append(out, re)
	}
	return out, nil
}

// Intercepts reports whether the gate runs for path at all.
func (m *Matcher) Intercepts(path string) bool {
	return anyMatch(m.intercepted, path)
}

// IsPublic reports whether path is reachable without a session.
func (m *Matcher) IsPublic(path string) bool {
	return anyMatch(m.public, path)
}

// RequiresAuth reports whether path needs a session.
func (m *Matcher) RequiresAuth(path string) bool {
	return m.Intercepts(path) && !m.IsPublic(path)
}

// a pattern that times out counts as no match
func anyMatch(patterns []*regexp2.Regexp, path string) bool {
	for _, re := range patterns {
		if ok, err := re.MatchString(path); err == nil && ok {
			return true
		}
	}
	return false
}
