package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBuildData(t *testing.T) {
	origV, origD, origC := Version, Date, Commit
	t.Cleanup(func() { Version, Date, Commit = origV, origD, origC })

	Version, Date, Commit = "v0.3.1", "2026-10-16", "abc123"

	var buf bytes.Buffer
	PrintBuildData(&buf)
	assert.Equal(t, "Build version: v0.3.1\nBuild date: 2026-10-16\nBuild commit: abc123\n", buf.String())
}
