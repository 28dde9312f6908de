package g50a

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	logp "github.com/charmbracelet/log"
	"github.com/j-keck/arping"
)

var log = logp.NewWithOptions(os.Stderr, logp.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "g50a",
})

// DefaultTimeout bounds each request/response cycle. There is no
// aggregate deadline across multi-step operations; pass a context if
// you need one.
const DefaultTimeout = 30 * time.Second

// staleAfter is the bulk-refresh debounce: several consumers polling
// in the same tick collapse into one request.
const staleAfter = 100 * time.Millisecond

const userAgent = "homekit-g50a/1.0"

// Gateway drives one G50A controller and owns its zone map. Commands
// and refreshes are serialized by an internal lock, so overlapping
// calls from different goroutines cannot lose updates; they just
// queue.
type Gateway struct {
	lock        sync.Mutex
	hostname    string
	names       ZoneNames
	http        *http.Client
	zones       map[string]*Zone
	lastUpdated time.Time
}

type Option func(*Gateway)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.http.Timeout = d }
}

// WithHTTPClient replaces the transport entirely.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.http = c }
}

// WithZoneNames sets the display-name mapping used when responses name
// zones discovery never saw.
func WithZoneNames(n ZoneNames) Option {
	return func(g *Gateway) { g.names = n }
}

// New builds a Gateway for the given hostname, seeded with the zones
// EnumerateZones discovered.
func New(hostname string, zones map[string]*Zone, opts ...Option) *Gateway {
	g := &Gateway{
		hostname: hostname,
		names:    DefaultZoneNames,
		http:     &http.Client{Timeout: DefaultTimeout},
		zones:    zones,
	}
	if g.zones == nil {
		g.zones = map[string]*Zone{}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Hostname() string { return g.hostname }

// MacAddress resolves the gateway's MAC, which the host layer uses as
// a stable serial number.
func MacAddress(ip string) (string, error) {
	hw, _, err := arping.Ping(net.ParseIP(ip))
	if err != nil {
		return "", fmt.Errorf("could not get the mac address: %w", err)
	}
	return hw.String(), nil
}

// sendRequest issues one POST against the gateway's servlet endpoint
// and hands back the body. One connection-scoped request per call, no
// retries: retry policy belongs to the caller.
func sendRequest(ctx context.Context, client *http.Client, hostname, body string) (string, error) {
	url := fmt.Sprintf("http://%s/servlet/MIMEReceiveServlet", hostname)
	log.Debug("sending request", "hostname", hostname, "xml", body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("could not build request: %w", err)
	}
	req.Header.Set("content-type", "text/xml")
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return string(payload), nil
}

// EnumerateZones probes zone ids sequentially from 1 until the gateway
// answers with an error marker or the probe ceiling is reached. The
// gateway errors on ids beyond the installed count, which is the only
// way to tell configured zones from device capacity. Probing stays
// sequential on purpose: the stopping condition is only discovered a
// step at a time, and the device appreciates not being flooded.
func EnumerateZones(ctx context.Context, hostname string, names ZoneNames) (map[string]*Zone, error) {
	if names == nil {
		names = DefaultZoneNames
	}
	client := &http.Client{Timeout: DefaultTimeout}
	zones := map[string]*Zone{}
	for id := 1; id <= maxZones; id++ {
		zoneID := strconv.Itoa(id)
		log.Info("probing zone", "zone", zoneID)
		response, err := sendRequest(ctx, client, hostname, buildGetRequest(zoneID))
		if err != nil {
			return nil, fmt.Errorf("could not enumerate zones: %w", err)
		}
		marker, err := hasErrorMarker(response)
		if err != nil {
			return nil, fmt.Errorf("could not enumerate zones: %w", err)
		}
		if marker {
			log.Info("found zones", "count", id-1)
			return zones, nil
		}
		records, err := parseResponse(response)
		if err != nil {
			return nil, fmt.Errorf("could not enumerate zones: %w", err)
		}
		now := time.Now()
		for _, rec := range records {
			zone := &Zone{}
			if err := zone.apply(names.Name(rec.id), rec, now); err != nil {
				return nil, fmt.Errorf("could not enumerate zones: %w", err)
			}
			zones[rec.id] = zone
		}
	}
	log.Info("probe ceiling reached", "count", len(zones))
	return zones, nil
}

// Zone returns a read-only snapshot of one zone.
func (g *Gateway) Zone(zoneID string) (ZoneState, error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	zone, ok := g.zones[zoneID]
	if !ok {
		return ZoneState{}, fmt.Errorf("%w: %s", ErrZoneNotFound, zoneID)
	}
	return zone.snapshot(zoneID), nil
}

// Zones returns read-only snapshots of every known zone.
func (g *Gateway) Zones() map[string]ZoneState {
	g.lock.Lock()
	defer g.lock.Unlock()
	states := make(map[string]ZoneState, len(g.zones))
	for id, zone := range g.zones {
		states[id] = zone.snapshot(id)
	}
	return states
}

// TurnOnOff powers a zone on or off. A zone already in the requested
// state sends nothing. The local drive field takes the commanded value
// without a follow-up read.
func (g *Gateway) TurnOnOff(ctx context.Context, zoneID, onOff string) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	zone, ok := g.zones[zoneID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrZoneNotFound, zoneID)
	}
	drive := strings.ToUpper(onOff)
	if zone.drive == drive {
		log.Info("zone already in requested state", "zone", zoneID, "drive", drive)
		return nil
	}
	log.Info("setting drive", "zone", zoneID, "drive", drive)
	if err := g.send(ctx, buildSetRequest(zoneID, attr{"Drive", drive})); err != nil {
		return fmt.Errorf("could not set drive for zone %s: %w", zoneID, err)
	}
	zone.drive = drive
	return nil
}

// SetSystemMode sets a zone's operating mode. Off sends Drive only;
// anything else powers the zone on alongside the mode. Commanded
// values land in local state right away, same as every other setter;
// the next refresh reconciles with the device.
func (g *Gateway) SetSystemMode(ctx context.Context, zoneID string, hvacMode HVACMode) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	zone, ok := g.zones[zoneID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrZoneNotFound, zoneID)
	}
	mode := modeForHVACMode(hvacMode)
	attrs := []attr{{"Drive", "ON"}, {"Mode", mode}}
	if hvacMode == HVACModeOff {
		attrs = []attr{{"Drive", "OFF"}}
	}
	log.Info("setting mode", "zone", zoneID, "mode", hvacMode)
	if err := g.send(ctx, buildSetRequest(zoneID, attrs...)); err != nil {
		return fmt.Errorf("could not set mode for zone %s: %w", zoneID, err)
	}
	if hvacMode == HVACModeOff {
		zone.drive = "OFF"
	} else {
		zone.drive = "ON"
		zone.mode = mode
	}
	return nil
}

// SetSwingMode sets a zone's vane position from the normalized swing
// vocabulary.
func (g *Gateway) SetSwingMode(ctx context.Context, zoneID, swingMode string) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	zone, ok := g.zones[zoneID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrZoneNotFound, zoneID)
	}
	direction := airDirectionFor(swingMode)
	log.Info("setting air direction", "zone", zoneID, "direction", direction)
	if err := g.send(ctx, buildSetRequest(zoneID, attr{"AirDirection", direction})); err != nil {
		return fmt.Errorf("could not set swing mode for zone %s: %w", zoneID, err)
	}
	zone.airDirection = direction
	return nil
}

// SetFanMode sets a zone's fan speed from the normalized fan
// vocabulary.
func (g *Gateway) SetFanMode(ctx context.Context, zoneID, fanMode string) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	zone, ok := g.zones[zoneID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrZoneNotFound, zoneID)
	}
	speed := fanSpeedFor(fanMode)
	log.Info("setting fan speed", "zone", zoneID, "speed", speed)
	if err := g.send(ctx, buildSetRequest(zoneID, attr{"FanSpeed", speed})); err != nil {
		return fmt.Errorf("could not set fan mode for zone %s: %w", zoneID, err)
	}
	zone.fanSpeed = speed
	return nil
}

// SetTemperature sets a zone's target temperature in celsius.
func (g *Gateway) SetTemperature(ctx context.Context, zoneID string, celsius float64) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	zone, ok := g.zones[zoneID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrZoneNotFound, zoneID)
	}
	value := strconv.FormatFloat(celsius, 'f', -1, 64)
	log.Info("setting temperature", "zone", zoneID, "celsius", value)
	if err := g.send(ctx, buildSetRequest(zoneID, attr{"SetTemp", value})); err != nil {
		return fmt.Errorf("could not set temperature for zone %s: %w", zoneID, err)
	}
	zone.setTemp = celsius
	zone.hasSetTemp = true
	return nil
}

// UpdateZone refreshes a single zone unconditionally.
func (g *Gateway) UpdateZone(ctx context.Context, zoneID string) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	response, err := sendRequest(ctx, g.http, g.hostname, buildGetRequest(zoneID))
	if err != nil {
		return fmt.Errorf("could not update zone %s: %w", zoneID, err)
	}
	if err := g.applyResponse(response); err != nil {
		return fmt.Errorf("could not update zone %s: %w", zoneID, err)
	}
	return nil
}

// UpdateZones bulk-refreshes every known zone, unless the previous
// bulk refresh is fresher than the debounce window, in which case it
// silently skips.
func (g *Gateway) UpdateZones(ctx context.Context) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	if since := time.Since(g.lastUpdated); since < staleAfter {
		log.Debug("skipping bulk refresh", "since", since)
		return nil
	}
	g.lastUpdated = time.Now()
	response, err := sendRequest(ctx, g.http, g.hostname, buildBulkGetRequest(len(g.zones)))
	if err != nil {
		return fmt.Errorf("could not update zones: %w", err)
	}
	if err := g.applyResponse(response); err != nil {
		return fmt.Errorf("could not update zones: %w", err)
	}
	return nil
}

func (g *Gateway) send(ctx context.Context, body string) error {
	_, err := sendRequest(ctx, g.http, g.hostname, body)
	return err
}

// applyResponse folds every <Mnet> in a get response into the zone
// map. Zones the gateway reports that discovery never saw are created
// on the fly; that normally means discovery and device disagree, so it
// is logged loudly. Known zones are updated in place and never
// removed.
func (g *Gateway) applyResponse(response string) error {
	records, err := parseResponse(response)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, rec := range records {
		zone, ok := g.zones[rec.id]
		if !ok {
			log.Error("gateway reported a zone discovery never saw", "zone", rec.id)
			zone = &Zone{}
			g.zones[rec.id] = zone
		}
		if err := zone.apply(g.names.Name(rec.id), rec, now); err != nil {
			return err
		}
	}
	return nil
}
