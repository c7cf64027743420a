package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCitiesDefaults(t *testing.T) {
	cities := parseCities("")
	require.Len(t, cities, 4)
	assert.Equal(t, "khar", cities[0].Code)
	assert.Equal(t, "Kharkiv", cities[0].Name)
}

func TestParseCitiesCustomList(t *testing.T) {
	cities := parseCities("od:Odesa, lviv:Lviv")
	require.Len(t, cities, 2)
	assert.Equal(t, City{Code: "od", Name: "Odesa"}, cities[0])
	assert.Equal(t, City{Code: "lviv", Name: "Lviv"}, cities[1])
}

func TestParseCitiesCodeOnlyEntry(t *testing.T) {
	cities := parseCities("od")
	require.Len(t, cities, 1)
	assert.Equal(t, "od", cities[0].Code)
	assert.Equal(t, "od", cities[0].Name)
}

func TestCityName(t *testing.T) {
	cfg := Config{Cities: defaultCities}
	assert.Equal(t, "Kyiv", cfg.CityName("kiev"))
	assert.Equal(t, "nowhere", cfg.CityName("nowhere"))
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "smkft.space", cfg.FTP.Host)
	assert.Equal(t, 2122, cfg.FTP.Port)
	assert.Equal(t, "/www", cfg.RemoteRoot)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	require.NotEmpty(t, cfg.Cities)
}
