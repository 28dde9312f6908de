package g50a

import (
	"fmt"
	"strings"
)

// HVACMode is the normalized operating-mode vocabulary exposed to
// consumers. The gateway speaks its own codes (COOL, HEAT, FAN, DRY
// plus a separate Drive attribute for power); these constants are what
// everything above the wire uses.
type HVACMode string

const (
	HVACModeOff     HVACMode = "off"
	HVACModeCool    HVACMode = "cool"
	HVACModeHeat    HVACMode = "heat"
	HVACModeDry     HVACMode = "dry"
	HVACModeFanOnly HVACMode = "fan_only"
	HVACModeAuto    HVACMode = "auto"
)

// HVACAction is what a zone is currently doing, as opposed to what it
// is set to.
type HVACAction string

const (
	HVACActionIdle    HVACAction = "idle"
	HVACActionCooling HVACAction = "cooling"
	HVACActionHeating HVACAction = "heating"
	HVACActionFan     HVACAction = "fan"
	HVACActionDrying  HVACAction = "drying"
)

func modeForHVACMode(m HVACMode) string {
	if m == HVACModeFanOnly {
		return "FAN"
	}
	return strings.ToUpper(string(m))
}

// hvacModeFor maps the raw Mode code to the normalized vocabulary.
// Drive wins: a zone that is powered off is off no matter what mode
// its head unit remembers.
func hvacModeFor(mode, drive string) HVACMode {
	if drive == "OFF" {
		return HVACModeOff
	}
	switch mode {
	case "COOL":
		return HVACModeCool
	case "HEAT":
		return HVACModeHeat
	case "FAN":
		return HVACModeFanOnly
	case "DRY":
		return HVACModeDry
	default:
		return HVACModeOff
	}
}

func hvacActionFor(mode, drive string) HVACAction {
	if drive == "OFF" {
		return HVACActionIdle
	}
	switch mode {
	case "COOL":
		return HVACActionCooling
	case "HEAT":
		return HVACActionHeating
	case "FAN":
		return HVACActionFan
	case "DRY":
		return HVACActionDrying
	default:
		return HVACActionIdle
	}
}

// fanModeFor maps a FanSpeed code to a display label. Telling the
// gateway to set the fan speed to LOW makes the head unit settle on
// low, but it reports MID2 afterwards; the head units keep their own
// state and the gateway just relays whatever they landed on. Folding
// MID2 back to "low" keeps read-after-write stable. Display-only, not
// used for writes.
func fanModeFor(speed string) string {
	switch speed {
	case "MID1":
		return "medium"
	case "MID2":
		return "low"
	}
	return strings.ToLower(speed)
}

// fanSpeedFor is deliberately not the inverse of fanModeFor: "low"
// writes LOW, never MID2.
func fanSpeedFor(mode string) string {
	if mode == "medium" {
		return "MID1"
	}
	return strings.ToUpper(mode)
}

func airDirectionFor(swing string) string {
	switch swing {
	case "off":
		return "MID1"
	case "on":
		return "SWING"
	case "both":
		return "MID2"
	}
	return strings.ToUpper(swing)
}

func swingModeFor(direction string) string {
	switch direction {
	case "MID1":
		return "off"
	case "SWING":
		return "on"
	case "MID2":
		return "both"
	}
	return strings.ToLower(direction)
}

// ZoneNames maps zone ids to display labels. Ids without a label get
// the "Zone {id}" fallback.
type ZoneNames map[string]string

// DefaultZoneNames is used when no mapping is supplied.
var DefaultZoneNames = ZoneNames{
	"1": "Living Room",
	"2": "Kitchen",
	"3": "Hallway",
}

func (n ZoneNames) Name(id string) string {
	if name, ok := n[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("Zone %s", id)
}
