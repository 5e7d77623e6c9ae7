package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextFile_Label(t *testing.T) {
	f := ContextFile{Path: "src/app.ts", Content: "export const x = 1;"}

	assert.Equal(t, "File: src/app.ts\n```\nexport const x = 1;\n```", f.Label())
}

func TestContextBundle_TotalSizeAndPaths(t *testing.T) {
	b := ContextBundle{
		{Path: "a.ts", Content: "12345"},
		{Path: "b.ts", Content: "678"},
	}

	assert.Equal(t, 8, b.TotalSize())
	assert.Equal(t, []string{"a.ts", "b.ts"}, b.Paths())
	assert.Equal(t, 0, ContextBundle{}.TotalSize())
}
