// Package skills discovers, parses, and caches Skill manifests (SKILL.md
// files with YAML frontmatter) across an ordered set of root directories,
// and formats the per-skill warnings surfaced when a skill fails to load.
//
// Grounded on the teacher's internal/filesearch (WalkDir-based discovery
// with a skip-errors-don't-fail-the-walk posture; its GitignoreMatcher is
// reused directly here so a root's .gitignore keeps generated/vendor trees
// out of skill discovery) and on original_source's skills/{loader,model}.rs
// doc comments describing the root ordering and manifest shape this
// package implements directly (only doc comments survived the original's
// code-filtering pass, so the field validation and dedup rules below are
// built from spec §4.8/§6/§7/§9, not transliterated).
package skills

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/quillterm/quillterm/internal/filesearch"
	"gopkg.in/yaml.v3"
)

const (
	maxNameRunes             = 64
	maxDescriptionRunes      = 1024
	maxShortDescriptionRunes = 1024
)

// Manifest is one parsed SKILL.md: YAML frontmatter plus the body markdown.
type Manifest struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Metadata    map[string]string `yaml:"metadata"`
}

// Skill is a discovered, validated skill ready for injection.
type Skill struct {
	Name        string
	Description string
	ShortDesc   string
	Path        string // path to the SKILL.md file
	Root        string // which configured root this skill was found under
	Body        string // markdown content following the frontmatter
}

// Warning is produced for a skill file that failed to load; it is
// surfaced to the user without aborting discovery of the rest.
type Warning struct {
	Name string
	Path string
	Err  error
}

// String formats the warning the way spec §4.8 specifies: "Failed to load
// skill <name> at <path>: <error chain>".
func (w Warning) String() string {
	name := w.Name
	if name == "" {
		name = "(unknown)"
	}
	return fmt.Sprintf("Failed to load skill %s at %s: %s", name, w.Path, w.Err)
}

// Roots returns the ordered list of skill root directories per spec §4.8:
// ascending from cwd to the repository root under .codex/skills, then the
// user's home .codex/skills, then a system directory, then an
// administrator-provided directory — all optional.
func Roots(cwd, userHome, systemDir, adminDir string) []string {
	var roots []string
	for _, dir := range repoAscendingDirs(cwd) {
		roots = append(roots, filepath.Join(dir, ".codex", "skills"))
	}
	if userHome != "" {
		roots = append(roots, filepath.Join(userHome, ".codex", "skills"))
	}
	if systemDir != "" {
		roots = append(roots, systemDir)
	}
	if adminDir != "" {
		roots = append(roots, adminDir)
	}
	return roots
}

// repoAscendingDirs walks upward from cwd to the filesystem root,
// returning every directory up to and including the first one containing
// a .git entry (the repository root), innermost first. If no .git is
// found, only cwd is returned.
func repoAscendingDirs(cwd string) []string {
	if cwd == "" {
		return nil
	}
	dirs := []string{cwd}
	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dirs
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return []string{cwd}
		}
		dir = parent
		dirs = append(dirs, dir)
	}
}

// Discover walks each root in order, depth-first in lexical order
// (filepath.WalkDir), skipping hidden directories, symlinks and paths the
// root's .gitignore matches, and parses every SKILL.md found. Skills are deduplicated by name, keeping
// the first occurrence encountered (earlier roots win — cwd/repo skills
// shadow user skills, which shadow system skills). Parse failures produce
// a Warning rather than aborting discovery.
func Discover(roots []string) ([]Skill, []Warning) {
	var all []Skill
	var warnings []Warning

	for _, root := range roots {
		found, warns := discoverRoot(root)
		all = append(all, found...)
		warnings = append(warnings, warns...)
	}

	seen := make(map[string]bool, len(all))
	var out []Skill
	for _, s := range all {
		if seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Path < out[j].Path
	})
	return out, warnings
}

func discoverRoot(root string) ([]Skill, []Warning) {
	var found []Skill
	var warnings []Warning

	info, err := os.Lstat(root)
	if err != nil || !info.IsDir() {
		return nil, nil
	}

	ignore, err := filesearch.NewGitignoreMatcher(filepath.Join(root, ".gitignore"))
	if err != nil {
		ignore, _ = filesearch.NewGitignoreMatcher("")
	}

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			relPath = path
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (len(name) > 0 && name[0] == '.') {
				return filepath.SkipDir
			}
			if d.Type()&fs.ModeSymlink != 0 {
				return filepath.SkipDir
			}
			if ignore != nil && ignore.Matches(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if ignore != nil && ignore.Matches(relPath, false) {
			return nil
		}
		if d.Name() != "SKILL.md" {
			return nil
		}
		s, parseErr := parseManifestFile(path, root)
		if parseErr != nil {
			warnings = append(warnings, Warning{Path: path, Err: parseErr})
			return nil
		}
		found = append(found, s)
		return nil
	})
	return found, warnings
}

func parseManifestFile(path, root string) (Skill, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Skill{}, fmt.Errorf("read: %w", err)
	}
	m, body, err := parseFrontmatter(data)
	if err != nil {
		return Skill{}, err
	}
	m.Name = strings.Join(strings.Fields(m.Name), " ")
	m.Description = strings.Join(strings.Fields(m.Description), " ")
	if sd, ok := m.Metadata["short-description"]; ok {
		m.Metadata["short-description"] = strings.Join(strings.Fields(sd), " ")
	}
	if err := validateManifest(m); err != nil {
		return Skill{}, err
	}
	return Skill{
		Name:        m.Name,
		Description: m.Description,
		ShortDesc:   m.Metadata["short-description"],
		Path:        path,
		Root:        root,
		Body:        body,
	}, nil
}

var errNoFrontmatter = errors.New("missing --- frontmatter delimiters")

// parseFrontmatter splits a SKILL.md file into its YAML frontmatter and
// markdown body, delimited by leading/trailing "---" lines.
func parseFrontmatter(data []byte) (Manifest, string, error) {
	const delim = "---"
	text := string(data)
	if len(text) < len(delim) || text[:len(delim)] != delim {
		return Manifest{}, "", errNoFrontmatter
	}
	rest := text[len(delim):]
	if len(rest) > 0 && rest[0] == '\r' {
		rest = rest[1:]
	}
	if len(rest) > 0 && rest[0] == '\n' {
		rest = rest[1:]
	}
	end := indexDelim(rest, delim)
	if end < 0 {
		return Manifest{}, "", errNoFrontmatter
	}
	front := rest[:end]
	body := rest[end+len(delim):]
	for len(body) > 0 && (body[0] == '\n' || body[0] == '\r') {
		body = body[1:]
	}

	var m Manifest
	if err := yaml.Unmarshal([]byte(front), &m); err != nil {
		return Manifest{}, "", fmt.Errorf("parse frontmatter: %w", err)
	}
	return m, body, nil
}

// indexDelim finds the first "\n---" within s (a line starting with the
// delimiter; the rest of that line is not checked), returning the index of
// the delimiter just after the newline, or -1.
func indexDelim(s, delim string) int {
	marker := "\n" + delim
	for i := 0; i+len(marker) <= len(s); i++ {
		if s[i:i+len(marker)] == marker {
			return i + 1
		}
	}
	return -1
}

func validateManifest(m Manifest) error {
	if m.Name == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(m.Name) > maxNameRunes {
		return fmt.Errorf("name exceeds %d characters", maxNameRunes)
	}
	if utf8.RuneCountInString(m.Description) > maxDescriptionRunes {
		return fmt.Errorf("description exceeds %d characters", maxDescriptionRunes)
	}
	if sd, ok := m.Metadata["short-description"]; ok {
		if utf8.RuneCountInString(sd) > maxShortDescriptionRunes {
			return fmt.Errorf("metadata.short-description exceeds %d characters", maxShortDescriptionRunes)
		}
	}
	return nil
}
