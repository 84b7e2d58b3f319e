package specdata

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func TestGroupName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "Navigate", want: "na"},
		{key: "--a", want: "a_"},
		{key: "x", want: "x_"},
		{key: "", want: "__"},
		{key: "<!DOCTYPE>", want: "do"},
		{key: "9lives", want: "9l"},
		{key: "é", want: "__"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, GroupName(tt.key))
		})
	}
}

func TestShardPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "anchors", "anchors-na.data"), ShardPath("data", "anchors", "na"))
}

func writeXZ(t *testing.T, path string, content string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w, err := xz.NewWriter(f)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestReadShard(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.data")
	require.NoError(t, os.WriteFile(plain, []byte("a\nb\n-\n"), 0664))

	lines, found, err := ReadShard(plain)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b", "-"}, lines)

	packed := filepath.Join(dir, "packed.data")
	writeXZ(t, packed+".xz", "x\ny\n")

	lines, found, err = ReadShard(packed)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"x", "y"}, lines)

	_, found, err = ReadShard(filepath.Join(dir, "missing.data"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReadShardCorruptXZ(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.data")
	require.NoError(t, os.WriteFile(path+".xz", []byte("not xz at all"), 0664))

	_, found, err := ReadShard(path)
	assert.True(t, found)
	assert.Error(t, err)
}

func TestReader(t *testing.T) {
	r := NewReader("f.data", strings.Split("key\nvalue\nfor1\nfor2\n-", "\n"))

	k, err := r.Field("key")
	require.NoError(t, err)
	assert.Equal(t, "key", k)

	v, err := r.Field("value")
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	fors, err := r.UntilTerminator("for")
	require.NoError(t, err)
	assert.Equal(t, []string{"for1", "for2"}, fors)
	assert.False(t, r.More())

	_, err = r.Field("url")
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "f.data", fe.File)
	assert.Contains(t, fe.Error(), "missing url")
}
