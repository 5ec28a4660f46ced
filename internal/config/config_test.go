package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"chicago", "new york city", "washington"}, cfg.CityNames())
	assert.Equal(t, DefaultMonths, cfg.Months)
	assert.Equal(t, DefaultDays, cfg.Days)
	assert.Equal(t, 5, cfg.GetPageSize())
	assert.Equal(t, "trips.db", cfg.GetDatabasePath())
}

func TestLoadNormalizesAndResolvesPaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
data_dir: /srv/bikeshare
page_size: 10
cities:
  - name: " Chicago "
    file: chicago.csv
  - name: boston
    file: /abs/boston.csv
months: [January, February, March]
days: [MONDAY, friday]
mqtt:
  enabled: true
  broker: broker:1883
  topic_prefix: stats/
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"chicago", "boston"}, cfg.CityNames())
	assert.Equal(t, []string{"january", "february", "march"}, cfg.Months)
	assert.Equal(t, []string{"monday", "friday"}, cfg.Days)
	assert.Equal(t, 10, cfg.GetPageSize())

	p, ok := cfg.SourcePath("CHICAGO")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/srv/bikeshare", "chicago.csv"), p)

	p, ok = cfg.SourcePath("boston")
	require.True(t, ok)
	assert.Equal(t, "/abs/boston.csv", p)

	_, ok = cfg.SourcePath("washington")
	assert.False(t, ok)

	assert.Equal(t, "stats", cfg.MQTT.GetTopicPrefix())
	assert.Equal(t, "bikestats", cfg.MQTT.GetClientID())
}

func TestLoadRejectsInvalidEnumerations(t *testing.T) {
	cases := map[string]string{
		"month out of order": "months: [january, march]\n",
		"unknown weekday":    "days: [funday]\n",
		"duplicate city":     "cities:\n  - name: chicago\n    file: a.csv\n  - name: Chicago\n    file: b.csv\n",
		"reserved city":      "cities:\n  - name: all\n    file: a.csv\n",
	}
	for name, yml := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(yml), 0600))
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestValidators(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.HasCity("New York City"))
	assert.False(t, cfg.HasCity("boston"))

	assert.True(t, cfg.ValidMonth("all"))
	assert.True(t, cfg.ValidMonth("June"))
	assert.False(t, cfg.ValidMonth("july"))

	assert.True(t, cfg.ValidDay("ALL"))
	assert.True(t, cfg.ValidDay("saturday"))
	assert.False(t, cfg.ValidDay("sat"))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.UseCache = true
	cfg.MQTT.Broker = "localhost:1883"

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
