package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// An empty config falls back to defaults everywhere.
	assert.Equal(t, 7.00, cfg.GetTariffRate())
	assert.Equal(t, 7, cfg.GetHorizonDays())
	assert.Equal(t, 0.2, cfg.GetTestFraction())
	assert.Equal(t, "models", cfg.GetModelDir())
	assert.Equal(t, uint64(42), cfg.GetTrainSeed())
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tariff_rate: [not a number"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := &Config{
		TariffRate:   8.5,
		HorizonDays:  14,
		TestFraction: 0.25,
		ModelDir:     "artifacts",
		TrainSeed:    7,
		MQTT: MQTTConfig{
			Enabled:     true,
			Broker:      "localhost:1883",
			TopicPrefix: "home/energy",
		},
		HomeAssistant: HAConfig{
			Enabled:  true,
			URL:      "http://homeassistant.local:8123",
			Token:    "token",
			EntityID: "sensor.energy_forecast",
		},
	}
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.Equal(t, 8.5, got.GetTariffRate())
	assert.Equal(t, 14, got.GetHorizonDays())
	assert.Equal(t, 0.25, got.GetTestFraction())
	assert.Equal(t, "artifacts", got.GetModelDir())
	assert.Equal(t, uint64(7), got.GetTrainSeed())
}

func TestAccessorsRejectInvalid(t *testing.T) {
	cfg := &Config{TariffRate: -1, HorizonDays: -3, TestFraction: 1.5}

	assert.Equal(t, 7.00, cfg.GetTariffRate())
	assert.Equal(t, 7, cfg.GetHorizonDays())
	assert.Equal(t, 0.2, cfg.GetTestFraction())
}
