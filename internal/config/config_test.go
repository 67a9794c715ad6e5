package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/scrabble/apps/go-server/internal/game"
)

func fresh() *viper.Viper {
	v := viper.New()
	defaults(v)
	return v
}

func TestDefaults(t *testing.T) {
	c, err := FromViper(fresh())
	require.NoError(t, err)
	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, ":5175", c.Addr())
	assert.Equal(t, DictionaryDatamuse, c.Dictionary)
	assert.Equal(t, 3*time.Second, c.LookupTimeout)
	assert.Equal(t, 1, c.LookupMaxResults)
	assert.Equal(t, uint(3), c.LookupRetries)
	assert.Equal(t, game.RackSize, c.RackSize)
	assert.Equal(t, game.DefaultLayout, c.BoardLayout)
	assert.Equal(t, "./data/lookup.db", c.CacheDSN)
}

func TestOverrides(t *testing.T) {
	v := fresh()
	v.Set("DICTIONARY", "LOCAL")
	v.Set("BOARD_LAYOUT", "DL,-,DW")
	v.Set("LOOKUP_TIMEOUT", "250ms")
	v.Set("RACK_SIZE", 5)
	v.Set("CACHE_DSN", "")

	c, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, DictionaryLocal, c.Dictionary)
	assert.Equal(t, game.Layout{game.DoubleLetter, game.None, game.DoubleWord}, c.BoardLayout)
	assert.Equal(t, 250*time.Millisecond, c.LookupTimeout)
	assert.Equal(t, 5, c.RackSize)
	assert.Empty(t, c.CacheDSN)
}

func TestRejectsBadValues(t *testing.T) {
	for key, val := range map[string]any{
		"DICTIONARY":         "oxford",
		"BOARD_LAYOUT":       "DL,XX",
		"LOOKUP_TIMEOUT":     "soon",
		"RACK_SIZE":          0,
		"LOOKUP_MAX_RESULTS": -1,
	} {
		v := fresh()
		v.Set(key, val)
		_, err := FromViper(v)
		assert.Error(t, err, key)
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(env, []byte("PORT=9000\nDICTIONARY=local\n"), 0o644))
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")
	t.Setenv("DICTIONARY", "")
	os.Unsetenv("DICTIONARY")
	// the process env wins over the file
	t.Setenv("LOG_LEVEL", "debug")

	c, err := Load(env)
	require.NoError(t, err)
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, DictionaryLocal, c.Dictionary)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestEmptyEnvDisablesCache(t *testing.T) {
	t.Setenv("CACHE_DSN", "")

	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Empty(t, c.CacheDSN)
}

func TestUnsetEnvKeepsCacheDefault(t *testing.T) {
	t.Setenv("CACHE_DSN", "")
	os.Unsetenv("CACHE_DSN")

	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "./data/lookup.db", c.CacheDSN)
}
