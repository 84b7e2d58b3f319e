package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestOutputName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "index.md", want: "index.html"},
		{in: "docs/spec.v1.md", want: "docs/spec.v1.html"},
		{in: "README", want: "README.html"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, outputName(tt.in))
		})
	}
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "index.md")
	out := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(in, []byte("# Intro\n\nA <dfn>thing</dfn>.\n"), 0o644))
	sugar := zaptest.NewLogger(t).Sugar()

	require.NoError(t, processFile(context.Background(), in, out, true, false, sugar))
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, processFile(context.Background(), in, out, false, false, sugar))
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), `id="thing"`)
}
