package bitmap

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	config, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)

	tables := []struct {
		name   string
		yaml   string
		config Config
		err    bool
	}{
		{
			"partial",
			"workers: 2\nextensions: [.bmp, .dib]\n",
			Config{DB: DefaultDB, Workers: 2, Extensions: []string{".bmp", ".dib"}, Compression: "default"},
			false,
		},
		{
			"full",
			"db: /tmp/x.db\nworkers: 1\nextensions: [bmp]\ncompression: best\n",
			Config{DB: "/tmp/x.db", Workers: 1, Extensions: []string{"bmp"}, Compression: "best"},
			false,
		},
		{"unknown key", "threads: 4\n", Config{}, true},
		{"no workers", "workers: 0\n", Config{}, true},
		{"no extensions", "extensions: []\n", Config{}, true},
		{"bad compression", "compression: maximum\n", Config{}, true},
		{"not yaml", "workers: [\n", Config{}, true},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			file := filepath.Join(dir, table.name+".yaml")
			require.NoError(t, ioutil.WriteFile(file, []byte(table.yaml), 0644))

			config, err := LoadConfig(file)
			if table.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, table.config, config)
		})
	}
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, ".bmp", normalizeExt("BMP"))
	assert.Equal(t, ".dib", normalizeExt(".Dib"))
}
