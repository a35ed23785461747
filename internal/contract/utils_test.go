package contract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func errorsIs(err, target error) bool { return errors.Is(err, target) }

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{name: "short text", input: "fix bug", maxWidth: 20, expected: "fix bug"},
		{name: "exact width", input: "abcdef", maxWidth: 6, expected: "abcdef"},
		{name: "long text", input: "implement the report cache", maxWidth: 10, expected: "impleme..."},
		{name: "multibyte", input: "한국어 커밋 메시지입니다", maxWidth: 6, expected: "한국어..."},
		{name: "width too small", input: "abcdef", maxWidth: 3, expected: "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateText(tt.input, tt.maxWidth))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.txt")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, path, f.Name())
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(file))
	assert.False(t, IsDir(filepath.Join(dir, "missing")))
}

func TestStatsFilePaths(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetCacheDBFilePath(), ".gitasana_stats.db"))
	assert.True(t, strings.HasSuffix(GetBoltFilePath(), ".gitasana_stats.bolt"))
}

func TestSecrets(t *testing.T) {
	keyring.MockInit()

	assert.Empty(t, LookupSecret(AsanaTokenItem))

	require.NoError(t, StoreSecret(AsanaTokenItem, "tok-123"))
	assert.Equal(t, "tok-123", LookupSecret(AsanaTokenItem))

	assert.Error(t, StoreSecret("unknown-item", "x"))
	assert.Error(t, StoreSecret(OpenAIKeyItem, ""))
}

func TestSetLogLevel(t *testing.T) {
	defer func() { _ = SetLogLevel("info") }()

	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, "debug", Logger.GetLevel().String())
	assert.Error(t, SetLogLevel("loud"))
}
