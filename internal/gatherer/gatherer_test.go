package gatherer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"claudia/internal/config"
	"claudia/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files (relative path -> content) under a fresh root
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func newTestGatherer(root string, mutate func(*Options)) *Gatherer {
	opts := OptionsFromConfig(config.DefaultConfig().Context)
	if mutate != nil {
		mutate(&opts)
	}
	return New(root, opts, logging.Discard())
}

func TestGather_NoRelations_ReturnsOnlyFocalFile(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/main.ts":  `import x from "lodash"; console.log(x);`,
		"src/other.ts": "export const y = 2;",
	})
	g := newTestGatherer(root, nil)

	for _, maxFiles := range []int{0, 1, 10} {
		bundle, err := g.Gather(context.Background(), filepath.Join(root, "src/main.ts"), maxFiles)

		require.NoError(t, err)
		require.Len(t, bundle, 1)
		assert.Equal(t, filepath.Join("src", "main.ts"), bundle[0].Path)
		assert.Equal(t, `import x from "lodash"; console.log(x);`, bundle[0].Content)
	}
}

func TestGather_FocalFileMissing_ReturnsError(t *testing.T) {
	root := t.TempDir()
	g := newTestGatherer(root, nil)

	_, err := g.Gather(context.Background(), filepath.Join(root, "missing.ts"), 10)

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGather_OrdersImportsBeforeSiblings(t *testing.T) {
	root := writeTree(t, map[string]string{
		"widget.ts":      "import { a } from './util';\nconst b = require('./helpers');\n",
		"util.ts":        "export const a = 1;",
		"helpers.js":     "module.exports = {};",
		"widget.test.ts": "test('x', () => {});",
		"other.ts":       "export {};",
	})
	g := newTestGatherer(root, nil)

	bundle, err := g.Gather(context.Background(), filepath.Join(root, "widget.ts"), 10)

	require.NoError(t, err)
	assert.Equal(t, []string{"widget.ts", "util.ts", "helpers.js", "widget.test.ts"}, bundle.Paths())
}

func TestGather_DeduplicatesCandidates(t *testing.T) {
	root := writeTree(t, map[string]string{
		"widget.ts":      "import a from './widget.util';\nimport b from './widget.util';\n",
		"widget.util.ts": "export default 1;",
	})
	g := newTestGatherer(root, nil)

	bundle, err := g.Gather(context.Background(), filepath.Join(root, "widget.ts"), 10)

	require.NoError(t, err)
	assert.Equal(t, []string{"widget.ts", "widget.util.ts"}, bundle.Paths())
}

func TestGather_RespectsMaxFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app.ts":   "",
		"app.a.ts": "a",
		"app.b.ts": "b",
		"app.c.ts": "c",
		"app.d.ts": "d",
	})
	g := newTestGatherer(root, nil)

	bundle, err := g.Gather(context.Background(), filepath.Join(root, "app.ts"), 3)

	require.NoError(t, err)
	assert.Len(t, bundle, 3)
	assert.Equal(t, "app.ts", bundle[0].Path)
}

func TestGather_StopsOnceTotalReachesLimit(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app.ts":   strings.Repeat("f", 10),
		"app.a.ts": strings.Repeat("a", 10),
		"app.b.ts": strings.Repeat("b", 10),
		"app.c.ts": strings.Repeat("c", 10),
	})
	g := newTestGatherer(root, func(o *Options) { o.MaxTotalSize = 25 })

	bundle, err := g.Gather(context.Background(), filepath.Join(root, "app.ts"), 10)

	require.NoError(t, err)
	// 10 + 10 = 20 < 25 so a third file is still added, then the total (30) stops the loop
	assert.Equal(t, []string{"app.ts", "app.a.ts", "app.b.ts"}, bundle.Paths())
	assert.Equal(t, 30, bundle.TotalSize())
}

func TestGather_FocalFileAloneCanExhaustTotal(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app.ts":   strings.Repeat("f", 50),
		"app.a.ts": "a",
	})
	g := newTestGatherer(root, func(o *Options) {
		o.MaxTotalSize = 50
		o.MaxFileSize = 10
	})

	bundle, err := g.Gather(context.Background(), filepath.Join(root, "app.ts"), 10)

	require.NoError(t, err)
	// the focal file is larger than MaxFileSize and still included
	assert.Equal(t, []string{"app.ts"}, bundle.Paths())
}

func TestGather_SkipsOversizedCandidates(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app.ts":     "",
		"app.big.ts": strings.Repeat("x", 101),
		"app.ok.ts":  "small",
	})
	g := newTestGatherer(root, func(o *Options) { o.MaxFileSize = 100 })

	bundle, err := g.Gather(context.Background(), filepath.Join(root, "app.ts"), 10)

	require.NoError(t, err)
	assert.Equal(t, []string{"app.ts", "app.ok.ts"}, bundle.Paths())
}

func TestGather_UnreadableCandidateIsSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	root := writeTree(t, map[string]string{
		"app.ts":      "",
		"app.lock.ts": "secret",
		"app.ok.ts":   "fine",
	})
	require.NoError(t, os.Chmod(filepath.Join(root, "app.lock.ts"), 0000))
	g := newTestGatherer(root, nil)

	bundle, err := g.Gather(context.Background(), filepath.Join(root, "app.ts"), 10)

	require.NoError(t, err)
	assert.Equal(t, []string{"app.ts", "app.ok.ts"}, bundle.Paths())
}

func TestGather_CancelledContext(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app.ts":   "",
		"app.a.ts": "a",
	})
	g := newTestGatherer(root, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bundle, err := g.Gather(ctx, filepath.Join(root, "app.ts"), 10)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"app.ts"}, bundle.Paths())
}

func TestScanImports(t *testing.T) {
	src := `
import React from "react";
import { a, b } from './lib/ab';
// import ghost from "./commented"
const fs = require('fs');
const util = require("./util");
`
	assert.Equal(t,
		[]string{"react", "./lib/ab", "./commented", "fs", "./util"},
		ScanImports(src))
}

func TestResolveImport(t *testing.T) {
	t.Run("extension appended", func(t *testing.T) {
		root := writeTree(t, map[string]string{"src/foo.js": ""})
		g := newTestGatherer(root, func(o *Options) { o.Extensions = []string{".ts", ".js"} })

		got, ok := g.ResolveImport(filepath.Join(root, "src/main.ts"), "./foo")

		require.True(t, ok)
		assert.Equal(t, filepath.Join(root, "src/foo.js"), got)
	})

	t.Run("first extension wins", func(t *testing.T) {
		root := writeTree(t, map[string]string{"src/foo.js": "", "src/foo.ts": ""})
		g := newTestGatherer(root, func(o *Options) { o.Extensions = []string{".ts", ".js"} })

		got, ok := g.ResolveImport(filepath.Join(root, "src/main.ts"), "./foo")

		require.True(t, ok)
		assert.Equal(t, filepath.Join(root, "src/foo.ts"), got)
	})

	t.Run("directory index", func(t *testing.T) {
		root := writeTree(t, map[string]string{"src/foo/index.ts": ""})
		g := newTestGatherer(root, func(o *Options) { o.Extensions = []string{".ts", ".js"} })

		got, ok := g.ResolveImport(filepath.Join(root, "src/main.ts"), "./foo")

		require.True(t, ok)
		assert.Equal(t, filepath.Join(root, "src/foo/index.ts"), got)
	})

	t.Run("parent directory", func(t *testing.T) {
		root := writeTree(t, map[string]string{"shared.ts": ""})
		g := newTestGatherer(root, nil)

		got, ok := g.ResolveImport(filepath.Join(root, "src/main.ts"), "../shared")

		require.True(t, ok)
		assert.Equal(t, filepath.Join(root, "shared.ts"), got)
	})

	t.Run("bare import never resolves", func(t *testing.T) {
		root := writeTree(t, map[string]string{"lodash.ts": "", "src/lodash.ts": ""})
		g := newTestGatherer(root, nil)

		_, ok := g.ResolveImport(filepath.Join(root, "src/main.ts"), "lodash")

		assert.False(t, ok)
	})

	t.Run("nothing on disk", func(t *testing.T) {
		root := t.TempDir()
		g := newTestGatherer(root, nil)

		_, ok := g.ResolveImport(filepath.Join(root, "main.ts"), "./missing")

		assert.False(t, ok)
	})

	t.Run("explicit extension is not special-cased", func(t *testing.T) {
		root := writeTree(t, map[string]string{"src/foo.js": ""})
		g := newTestGatherer(root, nil)

		_, ok := g.ResolveImport(filepath.Join(root, "src/main.ts"), "./foo.js")

		assert.False(t, ok)
	})
}

func TestRelatedFiles_SiblingMatching(t *testing.T) {
	root := writeTree(t, map[string]string{
		"widget.ts":      "",
		"widget.test.ts": "",
		"widget.css":     "",
		"widget.txt":     "",
		"other.ts":       "",
	})
	require.NoError(t, os.Mkdir(filepath.Join(root, "widget.dir.ts"), 0755))
	g := newTestGatherer(root, nil)

	related := g.RelatedFiles(filepath.Join(root, "widget.ts"), "")

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "widget.test.ts"),
		filepath.Join(root, "widget.css"),
	}, related)
}

func TestSourceFiles_SkipsIgnoredDirectories(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/app.ts":                "",
		"src/readme.md":             "",
		"src/notes.txt":             "",
		"node_modules/lib/index.js": "",
		"build/out.js":              "",
		"pkg/build.py":              "",
	})
	g := newTestGatherer(root, nil)

	files, err := g.SourceFiles(context.Background())

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join("src", "app.ts"),
		filepath.Join("src", "readme.md"),
		filepath.Join("pkg", "build.py"),
	}, files)
}

func TestExtName(t *testing.T) {
	assert.Equal(t, ".ts", extName("widget.test.ts"))
	assert.Equal(t, "", extName(".env"))
	assert.Equal(t, "", extName("Makefile"))
}
