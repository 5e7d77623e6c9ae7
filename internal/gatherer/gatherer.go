// Package gatherer assembles the bounded bundle of workspace files sent to
// the model as background for a question about one focal file.
//
// Related files are found heuristically: import/require statements are
// matched with regular expressions (no parsing, so hits inside comments and
// strings count) and siblings are matched by file name. See Gather for the
// bounds.
package gatherer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"claudia/internal/config"
	"claudia/internal/types"
)

// DefaultExtensions are the source-like extensions considered for relation
// discovery, in resolution order.
var DefaultExtensions = []string{
	".ts", ".js", ".tsx", ".jsx", ".json", ".html", ".css", ".md",
	".py", ".java", ".c", ".cpp", ".cs",
}

var (
	importRegex  = regexp.MustCompile(`import\s+.*?from\s+['"](.+?)['"]`)
	requireRegex = regexp.MustCompile(`require\(['"](.+?)['"]\)`)
)

// Options bound one gather operation
type Options struct {
	MaxFileSize        int64
	MaxTotalSize       int64
	IgnoredDirectories []string
	Extensions         []string
}

// OptionsFromConfig copies the context settings; the extension list is fixed
func OptionsFromConfig(cfg config.ContextConfig) Options {
	return Options{
		MaxFileSize:        cfg.MaxFileSize,
		MaxTotalSize:       cfg.MaxTotalSize,
		IgnoredDirectories: append([]string(nil), cfg.IgnoredDirectories...),
		Extensions:         append([]string(nil), DefaultExtensions...),
	}
}

type Gatherer struct {
	root   string
	opts   Options
	logger *slog.Logger
}

// New returns a Gatherer labeling files relative to root
func New(root string, opts Options, logger *slog.Logger) *Gatherer {
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	return &Gatherer{
		root:   absPath(root),
		opts:   opts,
		logger: logger,
	}
}

// Gather reads the focal file and appends related files until the bundle
// holds maxFiles entries or the running byte total reaches MaxTotalSize.
// The limits are checked before each related file, so the file that crosses
// MaxTotalSize is kept and everything after it is dropped. The focal file is
// never checked against MaxFileSize but its bytes count toward the total.
//
// Only a failure to read the focal file is returned; problems with related
// files are logged and the file skipped.
func (g *Gatherer) Gather(ctx context.Context, focalPath string, maxFiles int) (types.ContextBundle, error) {
	focalPath = absPath(focalPath)

	data, err := os.ReadFile(focalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", focalPath, err)
	}
	content := string(data)

	bundle := types.ContextBundle{{Path: g.relative(focalPath), Content: content}}
	total := int64(len(content))

	for _, path := range g.RelatedFiles(focalPath, content) {
		if err := ctx.Err(); err != nil {
			return bundle, err
		}
		if len(bundle) >= maxFiles || total >= g.opts.MaxTotalSize {
			break
		}

		info, err := os.Stat(path)
		if err != nil {
			g.logger.Warn("skipping context file", "path", path, "error", err)
			continue
		}
		if info.Size() > g.opts.MaxFileSize {
			g.logger.Debug("context file too large", "path", path, "size", info.Size())
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			g.logger.Warn("skipping context file", "path", path, "error", err)
			continue
		}

		bundle = append(bundle, types.ContextFile{Path: g.relative(path), Content: string(data)})
		total += int64(len(data))
	}

	g.logger.Debug("gathered context",
		"focal", bundle[0].Path,
		"files", len(bundle),
		"bytes", total)

	return bundle, nil
}

// RelatedFiles returns the deduplicated candidates for focalPath in discovery
// order: resolved import matches, resolved require matches, then siblings.
func (g *Gatherer) RelatedFiles(focalPath, content string) []string {
	focalPath = absPath(focalPath)

	seen := make(map[string]bool)
	var related []string
	add := func(path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		related = append(related, path)
	}

	for _, importPath := range ScanImports(content) {
		if resolved, ok := g.ResolveImport(focalPath, importPath); ok {
			add(resolved)
		}
	}

	for _, sibling := range g.siblings(focalPath) {
		add(sibling)
	}

	return related
}

// ScanImports returns every `import ... from "<path>"` match followed by
// every `require("<path>")` match.
func ScanImports(content string) []string {
	var paths []string
	for _, m := range importRegex.FindAllStringSubmatch(content, -1) {
		paths = append(paths, m[1])
	}
	for _, m := range requireRegex.FindAllStringSubmatch(content, -1) {
		paths = append(paths, m[1])
	}
	return paths
}

// ResolveImport maps a relative import to a file on disk. It tries
// path+ext for every extension, then path/index+ext; the first existing path
// wins. Imports not starting with "." never resolve.
func (g *Gatherer) ResolveImport(sourcePath, importPath string) (string, bool) {
	if !strings.HasPrefix(importPath, ".") {
		return "", false
	}

	base := filepath.Join(filepath.Dir(sourcePath), importPath)

	for _, ext := range g.opts.Extensions {
		candidate := base + ext
		if exists(candidate) {
			return candidate, true
		}
	}

	for _, ext := range g.opts.Extensions {
		candidate := filepath.Join(base, "index"+ext)
		if exists(candidate) {
			return candidate, true
		}
	}

	return "", false
}

// siblings lists regular files next to focalPath with a recognized extension
// whose name contains the focal base name.
func (g *Gatherer) siblings(focalPath string) []string {
	dir := filepath.Dir(focalPath)
	name := filepath.Base(focalPath)
	stem := strings.TrimSuffix(name, extName(name))

	entries, err := os.ReadDir(dir)
	if err != nil {
		g.logger.Warn("failed to list directory", "dir", dir, "error", err)
		return nil
	}

	var matches []string
	for _, entry := range entries {
		fullPath := filepath.Join(dir, entry.Name())
		if fullPath == focalPath {
			continue
		}
		if !g.recognized(entry.Name()) || !strings.Contains(entry.Name(), stem) {
			continue
		}

		info, err := os.Stat(fullPath)
		if err != nil {
			g.logger.Warn("skipping sibling", "path", fullPath, "error", err)
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		matches = append(matches, fullPath)
	}
	return matches
}

// SourceFiles walks the workspace and returns the relative paths of every
// file with a recognized extension, skipping ignored directories.
func (g *Gatherer) SourceFiles(ctx context.Context) ([]string, error) {
	ignored := make(map[string]bool, len(g.opts.IgnoredDirectories))
	for _, dir := range g.opts.IgnoredDirectories {
		ignored[dir] = true
	}

	var files []string
	err := filepath.WalkDir(g.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			g.logger.Warn("skipping path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != g.root && ignored[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if g.recognized(d.Name()) {
			files = append(files, g.relative(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", g.root, err)
	}
	return files, nil
}

func (g *Gatherer) recognized(name string) bool {
	ext := extName(name)
	for _, e := range g.opts.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (g *Gatherer) relative(path string) string {
	rel, err := filepath.Rel(g.root, path)
	if err != nil {
		return path
	}
	return rel
}

// extName is filepath.Ext except that a leading dot does not start an
// extension, so ".env" has none.
func extName(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return ext
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
