// Package plan turns resolved plugins into deterministic, collision-free
// clone targets.
package plan

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/comfykit/nodedep/internal/manifest"
)

// Status is a plugin plan's lifecycle state. It transitions exactly once,
// during materialization.
type Status string

const (
	StatusPlanned Status = "planned"
	StatusSkipped Status = "skipped"
	StatusCloned  Status = "cloned"
	StatusFailed  Status = "failed"
)

// defaultSlug is used when a repository URL yields no usable name.
const defaultSlug = "custom-node"

// PluginPlan is one plugin's clone target and outcome.
type PluginPlan struct {
	PluginID string
	Nodes    []string
	RepoURL  string // empty when no URL could be derived
	Slug     string // unique within one run; empty without a URL
	Reason   string // which source produced the URL
	Status   Status
	Message  string
	// Requirements are the requirement-declaration files found after
	// materialization.
	Requirements []string
}

// metadataURLKeys is the priority order for deriving a repository URL from
// plugin metadata when the id itself is not fetchable.
var metadataURLKeys = []string{"repo", "repository", "github", "git", "url", "homepage"}

// Build derives a plan per manifest plugin. Slugs are unique across the
// run; collisions get -2, -3, ... suffixes in first-encountered order.
func Build(m *manifest.Manifest) []*PluginPlan {
	plans := make([]*PluginPlan, 0, len(m.Plugins))
	used := make(SlugSet)

	for _, entry := range m.Plugins {
		pluginID := strings.TrimSpace(entry.ID)

		repoURL := NormalizeGitURL(pluginID)
		reason := ""
		if repoURL != "" {
			reason = "plugin_id"
		} else {
			for _, key := range metadataURLKeys {
				candidate, _ := entry.Metadata[key].(string)
				if repoURL = NormalizeGitURL(candidate); repoURL != "" {
					reason = "metadata." + key
					break
				}
			}
		}

		slug := ""
		if repoURL != "" {
			slug = DeriveSlug(repoURL, used)
		}

		if pluginID == "" {
			pluginID = "<unknown>"
		}
		plans = append(plans, &PluginPlan{
			PluginID: pluginID,
			Nodes:    entry.Nodes,
			RepoURL:  repoURL,
			Slug:     slug,
			Reason:   reason,
			Status:   StatusPlanned,
		})
	}

	return plans
}

// NormalizeGitURL accepts http(s)/ssh URLs and scp-style user@host:path
// strings, stripping a leading "git+" prefix. Anything else returns "".
func NormalizeGitURL(candidate string) string {
	url := strings.TrimSpace(candidate)
	if url == "" {
		return ""
	}
	url = strings.TrimPrefix(url, "git+")

	lowered := strings.ToLower(url)
	if strings.HasPrefix(lowered, "http://") ||
		strings.HasPrefix(lowered, "https://") ||
		strings.HasPrefix(lowered, "ssh://") {
		return url
	}
	// scp-style: user@host:path has an @ before the first slash.
	if firstSegment, _, _ := strings.Cut(url, "/"); strings.Contains(firstSegment, "@") {
		return url
	}
	return ""
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Slugify folds a name to a filesystem-safe lowercase slug.
func Slugify(name string) string {
	cleaned := unsafeChars.ReplaceAllString(name, "-")
	cleaned = strings.ToLower(strings.Trim(cleaned, "-"))
	if cleaned == "" {
		return defaultSlug
	}
	return cleaned
}

// SlugSet tracks slugs already assigned in this run.
type SlugSet map[string]bool

// Unique returns slug, or the first -N suffixed variant not yet taken,
// and records it.
func (s SlugSet) Unique(slug string) string {
	if !s[slug] {
		s[slug] = true
		return slug
	}
	for idx := 2; ; idx++ {
		candidate := fmt.Sprintf("%s-%d", slug, idx)
		if !s[candidate] {
			s[candidate] = true
			return candidate
		}
	}
}

// DeriveSlug derives a unique directory name from a repository URL: last
// path segment, query string and trailing .git stripped.
func DeriveSlug(repoURL string, used SlugSet) string {
	cleaned, _, _ := strings.Cut(repoURL, "?")
	cleaned = strings.TrimRight(cleaned, "/")
	cleaned = strings.TrimSuffix(cleaned, ".git")
	if idx := strings.LastIndex(cleaned, "/"); idx >= 0 {
		cleaned = cleaned[idx+1:]
	}
	return used.Unique(Slugify(cleaned))
}
