package g50a

import (
	"fmt"
	"strconv"
	"time"
)

// Zone holds the last-known state of one climate zone. It is owned by
// the Gateway that discovered it and mutated only under the Gateway's
// lock; consumers read through ZoneState copies.
type Zone struct {
	name         string
	setTemp      float64
	hasSetTemp   bool
	inletTemp    float64
	hasInletTemp bool
	drive        string
	mode         string
	fanSpeed     string
	airDirection string
	lastUpdated  time.Time
}

// apply folds one parsed <Mnet> into the zone. Temperatures only move
// when the gateway reported them; the raw code fields mirror the
// response as-is, absent attributes included.
func (z *Zone) apply(name string, rec zoneRecord, now time.Time) error {
	z.name = name
	if v, ok := rec.attrs["SetTemp"]; ok {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: bad SetTemp %q", ErrProtocol, v)
		}
		z.setTemp = t
		z.hasSetTemp = true
	}
	if v, ok := rec.attrs["InletTemp"]; ok {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: bad InletTemp %q", ErrProtocol, v)
		}
		z.inletTemp = t
		z.hasInletTemp = true
	}
	z.drive = rec.attrs["Drive"]
	z.mode = rec.attrs["Mode"]
	z.fanSpeed = rec.attrs["FanSpeed"]
	z.airDirection = rec.attrs["AirDirection"]
	z.lastUpdated = now
	return nil
}

func (z *Zone) snapshot(id string) ZoneState {
	return ZoneState{
		ID:           id,
		Name:         z.name,
		SetTemp:      z.setTemp,
		HasSetTemp:   z.hasSetTemp,
		InletTemp:    z.inletTemp,
		HasInletTemp: z.hasInletTemp,
		Drive:        z.drive,
		Mode:         z.mode,
		FanSpeed:     z.fanSpeed,
		AirDirection: z.airDirection,
		LastUpdated:  z.lastUpdated,
	}
}

// ZoneState is a read-only snapshot of a zone. The raw code fields are
// the device's own vocabulary; the methods translate to the normalized
// one.
type ZoneState struct {
	ID           string
	Name         string
	SetTemp      float64
	HasSetTemp   bool
	InletTemp    float64
	HasInletTemp bool
	Drive        string
	Mode         string
	FanSpeed     string
	AirDirection string
	LastUpdated  time.Time
}

func (z ZoneState) HVACMode() HVACMode {
	return hvacModeFor(z.Mode, z.Drive)
}

func (z ZoneState) HVACAction() HVACAction {
	return hvacActionFor(z.Mode, z.Drive)
}

func (z ZoneState) FanMode() string {
	return fanModeFor(z.FanSpeed)
}

func (z ZoneState) SwingMode() string {
	return swingModeFor(z.AirDirection)
}

func (z ZoneState) On() bool {
	return z.Drive == "ON"
}
