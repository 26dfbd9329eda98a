package runner

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"
)

// varRef matches $NAME and ${NAME}.
var varRef = regexp.MustCompile(`\$(\w+|\{[^}]*\})`)

// docEscaper neutralises everything the here-document expander would
// otherwise interpret.
var docEscaper = strings.NewReplacer(`\`, `\\`, "`", "\\`", "$", `\$`)

// ExpandSource resolves a task source: a leading ~ or ~user first, then
// variable references.
func ExpandSource(p string) (string, error) {
	home, err := expandHome(p)
	if err != nil {
		return "", err
	}
	return expandVars(home)
}

// ExpandPattern resolves an exclude pattern: variable references first, then
// a leading ~ or ~user.
func ExpandPattern(p string) (string, error) {
	vars, err := expandVars(p)
	if err != nil {
		return "", err
	}
	return expandHome(vars)
}

// expandVars replaces $NAME and ${NAME} when NAME is set in the environment.
// Unset names, command substitutions, backslashes and any other shell syntax
// are left exactly as written.
func expandVars(p string) (string, error) {
	var doc strings.Builder
	last := 0
	for _, m := range varRef.FindAllStringSubmatchIndex(p, -1) {
		doc.WriteString(docEscaper.Replace(p[last:m[0]]))
		ref := p[m[0]:m[1]]
		name := strings.TrimSuffix(strings.TrimPrefix(p[m[2]:m[3]], "{"), "}")
		if _, ok := os.LookupEnv(name); ok && syntax.ValidName(name) {
			doc.WriteString(ref)
		} else {
			doc.WriteString(docEscaper.Replace(ref))
		}
		last = m[1]
	}
	doc.WriteString(docEscaper.Replace(p[last:]))

	expanded, err := shell.Expand(doc.String(), nil)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", p, err)
	}
	return expanded, nil
}

func expandHome(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}

	name, rest, _ := strings.Cut(p[1:], "/")
	var home string
	if name == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		home = dir
	} else {
		u, err := user.Lookup(name)
		if err != nil {
			// ~unknown stays literal
			return p, nil
		}
		home = u.HomeDir
	}

	if rest == "" && !strings.HasSuffix(p, "/") {
		return home, nil
	}
	return filepath.Join(home, rest) + trailingSlash(p), nil
}

func trailingSlash(p string) string {
	if strings.HasSuffix(p, "/") {
		return "/"
	}
	return ""
}

// patternStyles are the borg pattern prefixes whose body is a shell glob.
var patternStyles = map[string]bool{"fm": true, "sh": true}

// validPattern reports whether a glob-style exclude pattern is well formed.
// Regex and path-prefix styles are not checked.
func validPattern(p string) bool {
	body := p
	if len(p) > 3 && p[2] == ':' {
		style := p[:2]
		if !patternStyles[style] {
			return true
		}
		body = p[3:]
	}
	return doublestar.ValidatePattern(body)
}
