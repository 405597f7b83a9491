package skills

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// cacheEntry holds one cwd's discovery result.
type cacheEntry struct {
	skills   []Skill
	warnings []Warning
}

// Manager caches Discover results keyed by working directory, since
// repeated re-discovery on every prompt would otherwise re-walk the
// filesystem on each keystroke.
type Manager struct {
	mu    sync.RWMutex
	cache map[string]cacheEntry

	userHome  string
	systemDir string
	adminDir  string
	log       zerolog.Logger
}

// NewManager constructs a Manager with the given fixed (non-cwd-relative)
// roots.
func NewManager(userHome, systemDir, adminDir string, log zerolog.Logger) *Manager {
	return &Manager{cache: make(map[string]cacheEntry), userHome: userHome, systemDir: systemDir, adminDir: adminDir, log: log}
}

// ForCwd returns the cached discovery result for cwd, computing and
// caching it on first use. A panic during discovery is recovered and
// logged, and an empty result is cached for cwd in its place (until
// Invalidate drops it) rather than wedging the manager.
func (mgr *Manager) ForCwd(cwd string) (skills []Skill, warnings []Warning) {
	mgr.mu.RLock()
	if entry, ok := mgr.cache[cwd]; ok {
		mgr.mu.RUnlock()
		return entry.skills, entry.warnings
	}
	mgr.mu.RUnlock()

	entry := mgr.discoverSafely(cwd)

	mgr.mu.Lock()
	mgr.cache[cwd] = entry
	mgr.mu.Unlock()

	return entry.skills, entry.warnings
}

func (mgr *Manager) discoverSafely(cwd string) (entry cacheEntry) {
	defer func() {
		if r := recover(); r != nil {
			mgr.log.Warn().Interface("panic", r).Str("cwd", cwd).Msg("skills: discovery panicked, caching empty result")
			entry = cacheEntry{}
		}
	}()
	roots := Roots(cwd, mgr.userHome, mgr.systemDir, mgr.adminDir)
	sk, warns := Discover(roots)
	return cacheEntry{skills: sk, warnings: warns}
}

// Invalidate drops the cached entry for cwd, forcing re-discovery on next
// access (e.g. after the skills directory changed on disk).
func (mgr *Manager) Invalidate(cwd string) {
	mgr.mu.Lock()
	delete(mgr.cache, cwd)
	mgr.mu.Unlock()
}

// InstallSystemSkills writes each built-in skill's SKILL.md into destDir
// under a per-skill subdirectory. Each skill has its own marker file,
// SKILL.md.fingerprint, holding the SHA-256 hex of its embedded content; a
// skill whose marker already holds that value is skipped without reading
// SKILL.md itself. destDir is not cleared first, so subdirectories of
// skills absent from builtins are left in place.
func InstallSystemSkills(destDir string, builtins map[string]string) error {
	for name, content := range builtins {
		dir := filepath.Join(destDir, name)
		target := filepath.Join(dir, "SKILL.md")
		fingerprint := fingerprintOf(content)
		markerPath := target + ".fingerprint"

		existing, err := os.ReadFile(markerPath)
		if err == nil && string(existing) == fingerprint {
			continue
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			return err
		}
		if err := os.WriteFile(markerPath, []byte(fingerprint), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func fingerprintOf(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// InjectionResult is the outcome of an async skill-injection pass: the
// formatted system-prompt block for successfully loaded skills, plus any
// per-skill warning strings to surface to the user.
type InjectionResult struct {
	PromptBlock string
	Warnings    []string
}

// Inject runs discovery for cwd (via the manager's cache) and formats the
// result for system-prompt injection. Intended to be run off the UI
// goroutine (spec §4.8 "async injection") and delivered back via a
// bubbletea message.
func (mgr *Manager) Inject(cwd string) InjectionResult {
	sk, warns := mgr.ForCwd(cwd)

	var res InjectionResult
	for _, s := range sk {
		res.PromptBlock += formatSkillBlock(s)
	}
	for _, w := range warns {
		res.Warnings = append(res.Warnings, w.String())
	}
	return res
}

func formatSkillBlock(s Skill) string {
	desc := s.ShortDesc
	if desc == "" {
		desc = s.Description
	}
	return "## " + s.Name + "\n" + desc + "\n\n"
}
