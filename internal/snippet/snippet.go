// Package snippet models the ordered list of code versions shown by the
// player and normalizes the loose inputs (bare strings, mappings, file
// references) that decks and the CLI accept.
package snippet

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Item is one version of the code being shown.
type Item struct {
	Text     string `koanf:"code"`
	Filename string `koanf:"filename"`
}

// HasFilename reports whether the item carries a non-blank filename.
func (it Item) HasFilename() bool { return strings.TrimSpace(it.Filename) != "" }

// FromStrings wraps bare strings as items without filenames.
func FromStrings(ss ...string) []Item {
	out := make([]Item, len(ss))
	for i, s := range ss {
		out[i] = Item{Text: s}
	}
	return out
}

// At returns the item at i, or the zero Item when i is out of range.
func At(items []Item, i int) Item {
	if i < 0 || i >= len(items) {
		return Item{}
	}
	return items[i]
}

// Normalize converts one raw deck value into an Item.
//
// Accepted shapes:
//   - "code"
//   - {code: "...", filename: "..."}   (text is an alias of code)
//   - {file: "path", filename: "..."}  (path resolved against base)
func Normalize(v any, base string) (Item, error) {
	switch t := v.(type) {
	case Item:
		return t, nil
	case string:
		return Item{Text: t}, nil
	case map[string]any:
		return fromMap(t, base)
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = val
		}
		return fromMap(m, base)
	case nil:
		return Item{}, fmt.Errorf("empty snippet entry")
	default:
		return Item{}, fmt.Errorf("unsupported snippet entry of type %T", v)
	}
}

// NormalizeAll normalizes a list of raw values, reporting the first bad entry
// by position.
func NormalizeAll(vs []any, base string) ([]Item, error) {
	out := make([]Item, 0, len(vs))
	for i, v := range vs {
		it, err := Normalize(v, base)
		if err != nil {
			return nil, fmt.Errorf("snippet %d: %w", i+1, err)
		}
		out = append(out, it)
	}
	return out, nil
}

func fromMap(m map[string]any, base string) (Item, error) {
	str := func(key string) string {
		if s, ok := m[key].(string); ok {
			return s
		}
		return ""
	}
	it := Item{Text: str("code"), Filename: str("filename")}
	if it.Text == "" {
		it.Text = str("text")
	}
	if path := str("file"); path != "" {
		if !filepath.IsAbs(path) && base != "" {
			path = filepath.Join(base, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return Item{}, fmt.Errorf("read snippet file: %w", err)
		}
		it.Text = strings.TrimSuffix(string(data), "\n")
		if it.Filename == "" {
			it.Filename = filepath.Base(path)
		}
	}
	return it, nil
}

// Expand resolves doublestar patterns into file paths. Matches of each
// pattern are sorted; patterns keep their argument order and duplicates are
// dropped. A pattern without glob meta characters must exist.
func Expand(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range patterns {
		if !hasMeta(p) {
			if _, err := os.Stat(p); err != nil {
				return nil, fmt.Errorf("snippet path: %w", err)
			}
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("glob %q matched no files", p)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}

// FromFiles reads each path into an item named after the file.
func FromFiles(paths []string) ([]Item, error) {
	out := make([]Item, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read snippet file: %w", err)
		}
		out = append(out, Item{Text: strings.TrimSuffix(string(data), "\n"), Filename: filepath.Base(p)})
	}
	return out, nil
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}
