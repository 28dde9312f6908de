package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	client "homekit-g50a"
)

func TestZoneNames(t *testing.T) {
	cfg := Config{ZoneNames: []string{"Lounge", "", "Studio"}}
	require.Equal(t, client.ZoneNames{
		"1": "Lounge",
		"3": "Studio",
	}, cfg.zoneNames())
}

func TestZoneNamesDefault(t *testing.T) {
	require.Equal(t, client.DefaultZoneNames, Config{}.zoneNames())
}
