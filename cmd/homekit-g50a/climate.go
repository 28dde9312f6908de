package main

import (
	"context"
	"net/http"

	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
	"github.com/brutella/hap/characteristic"
	"github.com/brutella/hap/service"
	client "homekit-g50a"
)

// ZoneClimate is the HomeKit face of one climate zone: a thermostat
// service for mode and temperatures, a fan service carrying speed and
// swing.
type ZoneClimate struct {
	*accessory.A
	Thermostat *service.Thermostat
	Fan        *service.FanV2
	Rotation   *characteristic.RotationSpeed
	Swing      *characteristic.SwingMode

	zoneID  string
	execute Executor
}

func newZoneClimate(info accessory.Info, zoneID string, execute Executor) *ZoneClimate {
	a := &ZoneClimate{
		zoneID:  zoneID,
		execute: execute,
	}
	a.A = accessory.New(info, accessory.TypeThermostat)

	a.Thermostat = service.NewThermostat()
	a.AddS(a.Thermostat.S)

	_ = a.Thermostat.TemperatureDisplayUnits.SetValue(characteristic.TemperatureDisplayUnitsCelsius)
	a.Thermostat.TargetTemperature.SetMinValue(5)
	a.Thermostat.TargetTemperature.SetMaxValue(35)
	a.Thermostat.TargetTemperature.SetStepValue(1)

	a.Fan = service.NewFanV2()
	a.Rotation = characteristic.NewRotationSpeed()
	a.Fan.AddC(a.Rotation.C)
	a.Swing = characteristic.NewSwingMode()
	a.Fan.AddC(a.Swing.C)
	a.AddS(a.Fan.S)

	a.Thermostat.TargetTemperature.SetValueRequestFunc = a.setTemperature
	a.Thermostat.TargetHeatingCoolingState.SetValueRequestFunc = a.setMode
	a.Fan.Active.SetValueRequestFunc = a.setActive
	a.Rotation.SetValueRequestFunc = a.setFan
	a.Swing.SetValueRequestFunc = a.setSwing

	return a
}

// Update pushes a zone snapshot into the HomeKit characteristics,
// logging only transitions so the logbook reads like a history.
func (a *ZoneClimate) Update(state client.ZoneState) {
	if state.HasInletTemp {
		if a.Thermostat.CurrentTemperature.Value() != state.InletTemp {
			a.Thermostat.CurrentTemperature.SetValue(state.InletTemp)
		}
		inletTempGauge.WithLabelValues(a.zoneID, state.Name).Set(state.InletTemp)
	}
	if state.HasSetTemp {
		if a.Thermostat.TargetTemperature.Value() != state.SetTemp {
			a.Thermostat.TargetTemperature.SetValue(state.SetTemp)
		}
		targetTempGauge.WithLabelValues(a.zoneID, state.Name).Set(state.SetTemp)
	}

	if v := currentHeatingCoolingState(state); a.Thermostat.CurrentHeatingCoolingState.Value() != v {
		_ = a.Thermostat.CurrentHeatingCoolingState.SetValue(v)
		log.Info("zone state changed", "zone", a.zoneID, "name", state.Name, "action", state.HVACAction())
	}
	if v := targetHeatingCoolingState(state); a.Thermostat.TargetHeatingCoolingState.Value() != v {
		_ = a.Thermostat.TargetHeatingCoolingState.SetValue(v)
	}

	active := characteristic.ActiveInactive
	if state.On() {
		active = characteristic.ActiveActive
	}
	if a.Fan.Active.Value() != active {
		_ = a.Fan.Active.SetValue(active)
	}
	if v := fanModeToSpeed(state.FanMode()); a.Rotation.Value() != v {
		a.Rotation.SetValue(v)
	}
	swing := characteristic.SwingModeSwingDisabled
	if s := state.SwingMode(); s == "on" || s == "both" {
		swing = characteristic.SwingModeSwingEnabled
	}
	if a.Swing.Value() != swing {
		_ = a.Swing.SetValue(swing)
	}

	driveGauge.WithLabelValues(a.zoneID, state.Name).Set(boolToFloat(state.On()))
}

func (a *ZoneClimate) setTemperature(v interface{}, _ *http.Request) (response interface{}, code int) {
	target := v.(float64)
	log.Info("set target temperature", "zone", a.zoneID, "celsius", target)
	if err := a.execute(func(ctx context.Context, gw *client.Gateway) error {
		return gw.SetTemperature(ctx, a.zoneID, target)
	}); err != nil {
		log.Error("could not set temperature", "zone", a.zoneID, "err", err)
		return nil, hap.JsonStatusResourceBusy
	}
	return nil, hap.JsonStatusSuccess
}

func (a *ZoneClimate) setMode(v interface{}, _ *http.Request) (response interface{}, code int) {
	var mode client.HVACMode
	switch v.(int) {
	case characteristic.TargetHeatingCoolingStateOff:
		mode = client.HVACModeOff
	case characteristic.TargetHeatingCoolingStateHeat:
		mode = client.HVACModeHeat
	case characteristic.TargetHeatingCoolingStateCool:
		mode = client.HVACModeCool
	case characteristic.TargetHeatingCoolingStateAuto:
		mode = client.HVACModeAuto
	default:
		return nil, hap.JsonStatusResourceDoesNotExist
	}
	log.Info("set mode", "zone", a.zoneID, "mode", mode)
	if err := a.execute(func(ctx context.Context, gw *client.Gateway) error {
		return gw.SetSystemMode(ctx, a.zoneID, mode)
	}); err != nil {
		log.Error("could not set mode", "zone", a.zoneID, "err", err)
		return nil, hap.JsonStatusResourceBusy
	}
	return nil, hap.JsonStatusSuccess
}

func (a *ZoneClimate) setActive(v interface{}, _ *http.Request) (response interface{}, code int) {
	drive := "OFF"
	if v.(int) == characteristic.ActiveActive {
		drive = "ON"
	}
	log.Info("set drive", "zone", a.zoneID, "drive", drive)
	if err := a.execute(func(ctx context.Context, gw *client.Gateway) error {
		return gw.TurnOnOff(ctx, a.zoneID, drive)
	}); err != nil {
		log.Error("could not set drive", "zone", a.zoneID, "err", err)
		return nil, hap.JsonStatusResourceBusy
	}
	return nil, hap.JsonStatusSuccess
}

func (a *ZoneClimate) setFan(v interface{}, _ *http.Request) (response interface{}, code int) {
	mode := speedToFanMode(v.(float64))
	log.Info("set fan mode", "zone", a.zoneID, "mode", mode)
	if err := a.execute(func(ctx context.Context, gw *client.Gateway) error {
		return gw.SetFanMode(ctx, a.zoneID, mode)
	}); err != nil {
		log.Error("could not set fan mode", "zone", a.zoneID, "err", err)
		return nil, hap.JsonStatusResourceBusy
	}
	return nil, hap.JsonStatusSuccess
}

func (a *ZoneClimate) setSwing(v interface{}, _ *http.Request) (response interface{}, code int) {
	swing := "off"
	if v.(int) == characteristic.SwingModeSwingEnabled {
		swing = "on"
	}
	log.Info("set swing mode", "zone", a.zoneID, "swing", swing)
	if err := a.execute(func(ctx context.Context, gw *client.Gateway) error {
		return gw.SetSwingMode(ctx, a.zoneID, swing)
	}); err != nil {
		log.Error("could not set swing mode", "zone", a.zoneID, "err", err)
		return nil, hap.JsonStatusResourceBusy
	}
	return nil, hap.JsonStatusSuccess
}

func currentHeatingCoolingState(state client.ZoneState) int {
	switch state.HVACAction() {
	case client.HVACActionHeating:
		return characteristic.CurrentHeatingCoolingStateHeat
	case client.HVACActionCooling:
		return characteristic.CurrentHeatingCoolingStateCool
	default:
		return characteristic.CurrentHeatingCoolingStateOff
	}
}

func targetHeatingCoolingState(state client.ZoneState) int {
	switch state.HVACMode() {
	case client.HVACModeOff:
		return characteristic.TargetHeatingCoolingStateOff
	case client.HVACModeHeat:
		return characteristic.TargetHeatingCoolingStateHeat
	case client.HVACModeCool:
		return characteristic.TargetHeatingCoolingStateCool
	default:
		// dry, fan-only, and auto have no thermostat target of their
		// own; Auto is the closest HomeKit gets
		return characteristic.TargetHeatingCoolingStateAuto
	}
}

func fanModeToSpeed(mode string) float64 {
	switch mode {
	case "low":
		return 33
	case "medium":
		return 66
	case "high":
		return 100
	default:
		return 0
	}
}

func speedToFanMode(speed float64) string {
	switch {
	case speed <= 0:
		return "auto"
	case speed <= 33:
		return "low"
	case speed <= 66:
		return "medium"
	default:
		return "high"
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
