package corpus

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery walks a corpus directory and selects the source files to
// extract, with glob include patterns and ignore rules.
type Discovery struct {
	rootDir        string
	includes       []compiledPattern
	ignorePatterns []compiledPattern
}

// NewDiscovery creates a discovery instance for the given corpus root.
func NewDiscovery(rootDir string, includePatterns, ignorePatterns []string) (*Discovery, error) {
	d := &Discovery{
		rootDir: rootDir,
	}

	var err error
	if d.includes, err = compilePatterns(includePatterns); err != nil {
		return nil, err
	}
	if d.ignorePatterns, err = compilePatterns(ignorePatterns); err != nil {
		return nil, err
	}

	return d, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	var compiled []compiledPattern
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledPattern{pattern: pattern, glob: g})

		// "**/*.c" alone never matches a file sitting at the corpus root
		// because the separator is literal, so compile a root-level variant.
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			g, err := glob.Compile(rest, '/')
			if err != nil {
				return nil, err
			}
			compiled = append(compiled, compiledPattern{pattern: rest, glob: g})
		}
	}
	return compiled, nil
}

// Discover walks the corpus tree and returns matching files in a stable order.
func (d *Discovery) Discover() ([]string, error) {
	files := []string{}

	err := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}

		// Normalize path separators for glob matching
		relPath = filepath.ToSlash(relPath)

		if d.shouldIgnore(relPath) {
			return nil
		}

		if d.matchesAnyPattern(relPath, d.includes) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func (d *Discovery) shouldIgnore(relPath string) bool {
	return d.matchesAnyPattern(relPath, d.ignorePatterns)
}

func (d *Discovery) matchesAnyPattern(relPath string, patterns []compiledPattern) bool {
	base := filepath.Base(relPath)
	for _, p := range patterns {
		if p.glob.Match(relPath) || p.glob.Match(base) {
			return true
		}
	}
	return false
}
