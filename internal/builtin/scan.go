// Package builtin extracts node names registered by the host ComfyUI
// checkout, so workflow nodes shipped with ComfyUI never resolve to a
// plugin.
package builtin

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const mappingsName = "NODE_CLASS_MAPPINGS"

var (
	// quotedKey matches a quoted dict key followed by a colon.
	quotedKey = regexp.MustCompile(`["']([^"'\\]+)["']\s*:`)
	// kwargName matches a keyword argument inside an update(...) call.
	kwargName = regexp.MustCompile(`(?m)(?:^|[,(])\s*([A-Za-z_][A-Za-z0-9_]*)\s*=[^=]`)
)

// Scan walks the ComfyUI checkout and collects node names declared in
// NODE_CLASS_MAPPINGS literals. Python sources are scanned textually;
// unparseable files produce a warning, never an error.
func Scan(comfyRoot string) map[string]bool {
	names := make(map[string]bool)

	var candidates []string
	rootNodes := filepath.Join(comfyRoot, "nodes.py")
	if info, err := os.Stat(rootNodes); err == nil && info.Mode().IsRegular() {
		candidates = append(candidates, rootNodes)
	}

	for _, dir := range []string{"comfy_extras", "comfy_api_nodes"} {
		base := filepath.Join(comfyRoot, dir)
		_ = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() && strings.HasSuffix(path, ".py") {
				candidates = append(candidates, path)
			}
			return nil
		})
	}
	sort.Strings(candidates)

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[warn] could not read %s: %v\n", path, err)
			continue
		}
		ExtractNames(string(data), names)
	}

	return names
}

// ExtractNames scans Python source text for NODE_CLASS_MAPPINGS
// assignments and update() calls and collects the declared node names.
func ExtractNames(source string, names map[string]bool) {
	offset := 0
	for {
		rel := strings.Index(source[offset:], mappingsName)
		if rel < 0 {
			return
		}
		pos := offset + rel + len(mappingsName)
		offset = pos

		rest := source[pos:]
		trimmed := strings.TrimLeft(rest, " \t")

		switch {
		case strings.HasPrefix(trimmed, "=") && !strings.HasPrefix(trimmed, "=="):
			collectDictLiterals(trimmed[1:], names)
		case strings.HasPrefix(trimmed, ".update("):
			inner, ok := balancedSpan(trimmed[len(".update"):], '(', ')')
			if !ok {
				continue
			}
			collectDictLiterals(inner, names)
			for _, match := range kwargName.FindAllStringSubmatch(inner, -1) {
				names[match[1]] = true
			}
		}
	}
}

// collectDictLiterals scans the text for one or more brace-delimited dict
// literals (handling the `{...} | {...}` union form) and collects their
// quoted keys.
func collectDictLiterals(text string, names map[string]bool) {
	for {
		text = strings.TrimLeft(text, " \t\r\n\\")
		if !strings.HasPrefix(text, "{") {
			return
		}
		body, ok := balancedSpan(text, '{', '}')
		if !ok {
			return
		}
		for _, match := range quotedKey.FindAllStringSubmatch(body, -1) {
			names[match[1]] = true
		}
		text = text[len(body)+2:]

		// A `|` continues a dict-union expression.
		next := strings.TrimLeft(text, " \t\r\n\\")
		if !strings.HasPrefix(next, "|") {
			return
		}
		text = strings.TrimPrefix(next, "|")
	}
}

// balancedSpan returns the contents between the opening delimiter at the
// start of text and its balanced closing counterpart, skipping over quoted
// strings.
func balancedSpan(text string, open, close byte) (string, bool) {
	if len(text) == 0 || text[0] != open {
		return "", false
	}

	depth := 0
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[1:i], true
			}
		}
	}
	return "", false
}
