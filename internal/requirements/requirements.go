// Package requirements classifies pip requirement lines and aggregates
// them across plugins, deduplicated against baseline manifests.
package requirements

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/comfykit/nodedep/internal/plan"
)

// Kind classifies a requirement line.
type Kind string

const (
	KindPackage Kind = "package"
	KindVCS     Kind = "vcs"
	KindOther   Kind = "other"
)

// Entry is a single classified requirement line. Key is the dedup
// identity; Original is emitted verbatim.
type Entry struct {
	Original string
	Kind     Kind
	Key      string
}

// tokenPattern extracts the leading package-name token, with an optional
// bracketed extras suffix.
var tokenPattern = regexp.MustCompile(`^\s*([A-Za-z0-9_.-]+(?:\[[A-Za-z0-9_,.-]+\])?)`)

// includePrefixes mark lines that pull in other requirement files; those
// are resolved by pip, not aggregated here.
var includePrefixes = []string{"-r ", "--requirement", "--requirements", "-c ", "--constraint"}

// ParseLine classifies one requirement line. Blank lines, comments, and
// include directives return nil.
func ParseLine(line string) *Entry {
	stripped := strings.TrimSpace(line)
	if stripped == "" || strings.HasPrefix(stripped, "#") {
		return nil
	}

	lowered := strings.ToLower(stripped)
	for _, prefix := range includePrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return nil
		}
	}

	if strings.Contains(lowered, "git+") ||
		strings.HasPrefix(lowered, "-e ") ||
		strings.HasPrefix(lowered, "--editable") {
		return &Entry{Original: stripped, Kind: KindVCS, Key: lowered}
	}

	var base string
	if name, _, found := strings.Cut(stripped, "@"); found {
		// Direct reference install: "name @ url".
		base = strings.TrimSpace(name)
	} else {
		match := tokenPattern.FindStringSubmatch(stripped)
		if match == nil {
			return &Entry{Original: stripped, Kind: KindOther, Key: lowered}
		}
		base = match[1]
	}

	normalized := strings.ToLower(strings.ReplaceAll(base, "_", "-"))
	return &Entry{Original: stripped, Kind: KindPackage, Key: normalized}
}

// Seen is the dedup state threaded through one aggregation run. Packages
// and VCS entries live in separate namespaces; unparseable lines share the
// VCS set under a kind-prefixed key.
type Seen struct {
	Packages map[string]bool
	VCS      map[string]bool
}

// NewSeen returns empty dedup state.
func NewSeen() *Seen {
	return &Seen{
		Packages: make(map[string]bool),
		VCS:      make(map[string]bool),
	}
}

// LoadBaselines marks every package and VCS entry in the given files as
// already satisfied. Missing or unreadable files are skipped.
func (s *Seen) LoadBaselines(paths []string) {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			entry := ParseLine(line)
			if entry == nil {
				continue
			}
			switch entry.Kind {
			case KindPackage:
				s.Packages[entry.Key] = true
			case KindVCS:
				s.VCS[entry.Key] = true
			}
		}
	}
}

// admit records the entry and reports whether it was new.
func (s *Seen) admit(entry *Entry) bool {
	switch entry.Kind {
	case KindPackage:
		if s.Packages[entry.Key] {
			return false
		}
		s.Packages[entry.Key] = true
	case KindVCS:
		if s.VCS[entry.Key] {
			return false
		}
		s.VCS[entry.Key] = true
	default:
		identifier := string(entry.Kind) + ":" + entry.Key
		if s.VCS[identifier] {
			return false
		}
		s.VCS[identifier] = true
	}
	return true
}

// Collect reads every requirement file of every materialized plan in plan
// order and returns the original lines not yet covered by seen. First
// occurrence of a dedup key wins.
func Collect(plans []*plan.PluginPlan, seen *Seen) []string {
	collected := make([]string, 0)

	for _, p := range plans {
		if p.Status != plan.StatusCloned && p.Status != plan.StatusSkipped {
			continue
		}
		for _, reqFile := range p.Requirements {
			data, err := os.ReadFile(reqFile)
			if err != nil {
				continue
			}
			for _, line := range strings.Split(string(data), "\n") {
				entry := ParseLine(line)
				if entry == nil {
					continue
				}
				if seen.admit(entry) {
					collected = append(collected, entry.Original)
				}
			}
		}
	}

	return collected
}

// WriteOutput writes the collected lines with a single trailing newline,
// or removes a stale output file when nothing was collected.
func WriteOutput(path string, lines []string) error {
	if len(lines) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing stale requirements output %s: %w", path, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing requirements output %s: %w", path, err)
	}
	return nil
}
