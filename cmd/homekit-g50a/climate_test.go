package main

import (
	"testing"

	"github.com/brutella/hap/characteristic"
	"github.com/stretchr/testify/require"
	client "homekit-g50a"
)

func TestFanSpeedMapping(t *testing.T) {
	require.Equal(t, "auto", speedToFanMode(0))
	require.Equal(t, "low", speedToFanMode(25))
	require.Equal(t, "medium", speedToFanMode(50))
	require.Equal(t, "high", speedToFanMode(100))

	for _, mode := range []string{"auto", "low", "medium", "high"} {
		require.Equal(t, mode, speedToFanMode(fanModeToSpeed(mode)))
	}
}

func TestHeatingCoolingStates(t *testing.T) {
	cooling := client.ZoneState{Drive: "ON", Mode: "COOL"}
	require.Equal(t, characteristic.CurrentHeatingCoolingStateCool, currentHeatingCoolingState(cooling))
	require.Equal(t, characteristic.TargetHeatingCoolingStateCool, targetHeatingCoolingState(cooling))

	heating := client.ZoneState{Drive: "ON", Mode: "HEAT"}
	require.Equal(t, characteristic.CurrentHeatingCoolingStateHeat, currentHeatingCoolingState(heating))
	require.Equal(t, characteristic.TargetHeatingCoolingStateHeat, targetHeatingCoolingState(heating))

	off := client.ZoneState{Drive: "OFF", Mode: "COOL"}
	require.Equal(t, characteristic.CurrentHeatingCoolingStateOff, currentHeatingCoolingState(off))
	require.Equal(t, characteristic.TargetHeatingCoolingStateOff, targetHeatingCoolingState(off))

	dry := client.ZoneState{Drive: "ON", Mode: "DRY"}
	require.Equal(t, characteristic.CurrentHeatingCoolingStateOff, currentHeatingCoolingState(dry))
	require.Equal(t, characteristic.TargetHeatingCoolingStateAuto, targetHeatingCoolingState(dry))
}
