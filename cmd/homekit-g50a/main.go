package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
	"github.com/caarlos0/env/v11"
	"github.com/cenkalti/backoff/v4"
	logp "github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slices"
	client "homekit-g50a"
)

var log = logp.NewWithOptions(os.Stderr, logp.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "homekit",
})

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Executor runs one gateway command with the host-layer retry policy
// wrapped around it.
type Executor = func(func(ctx context.Context, gw *client.Gateway) error) error

const (
	manufacturer = "Mitsubishi"
	model        = "G50a"
)

func main() {
	log.Info(
		"homekit-g50a",
		"version", version,
		"commit", commit,
		"date", date,
		"info", "HomeKit bridge for Mitsubishi G50A climate gateways",
	)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatal("could not parse env", "err", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)
	go func() {
		<-c
		log.Info("stopping server")
		signal.Stop(c)
		cancel()
	}()

	zones, err := client.EnumerateZones(ctx, cfg.Host, cfg.zoneNames())
	if err != nil {
		log.Fatal("could not connect to the gateway", "host", cfg.Host, "err", err)
	}
	if len(zones) == 0 {
		log.Fatal("gateway reported no zones", "host", cfg.Host)
	}
	gw := client.New(cfg.Host, zones, client.WithZoneNames(cfg.zoneNames()))

	execute := func(fn func(ctx context.Context, gw *client.Gateway) error) error {
		bo := backoff.NewExponentialBackOff()
		bo.MaxInterval = time.Second * 5
		bo.MaxElapsedTime = time.Minute

		return backoff.RetryNotify(func() error {
			requestCounter.Inc()
			if err := fn(ctx, gw); err != nil {
				requestErrorCounter.Inc()
				if errors.Is(err, client.ErrZoneNotFound) {
					return backoff.Permanent(err)
				}
				return err
			}
			return nil
		}, bo, func(err error, _ time.Duration) {
			log.Error("command to gateway failed", "err", err)
		})
	}

	macAddr, err := client.MacAddress(cfg.Host)
	if err != nil {
		log.Warn(
			"could not get the mac address, needs 'cap_net_raw+ep' capabilities",
			"err", err,
		)
	}
	log.Info(
		"got gateway information",
		"manufacturer", manufacturer,
		"model", model,
		"host", cfg.Host,
		"mac", macAddr,
		"zones", len(zones),
	)

	bridge := accessory.NewBridge(accessory.Info{
		Name:         "Climate Bridge",
		SerialNumber: macAddr,
		Manufacturer: manufacturer,
		Model:        model,
		Firmware:     version,
	})

	states := gw.Zones()
	climates := make([]*ZoneClimate, 0, len(states))
	for i, id := range sortedZoneIDs(states) {
		state := states[id]
		a := newZoneClimate(accessory.Info{
			Name:         state.Name,
			SerialNumber: fmt.Sprintf("%s-%s", cfg.Host, id),
			Manufacturer: manufacturer,
			Model:        model,
			Firmware:     version,
		}, id, execute)
		a.Id = uint64(i + 2)
		a.Update(state)
		climates = append(climates, a)
	}

	go func() {
		tick := time.NewTicker(cfg.PollInterval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
			}

			if err := execute(func(ctx context.Context, gw *client.Gateway) error {
				return gw.UpdateZones(ctx)
			}); err != nil {
				log.Error("could not update zones", "err", err)
				continue
			}

			for _, a := range climates {
				state, err := gw.Zone(a.zoneID)
				if err != nil {
					log.Error("zone went missing", "zone", a.zoneID, "err", err)
					continue
				}
				a.Update(state)
			}
		}
	}()

	fs := hap.NewFsStore("./db")
	server, err := hap.NewServer(fs, bridge.A, climateAccessories(climates)...)
	if err != nil {
		log.Fatal("fail to create server", "error", err)
	}
	server.Addr = cfg.Address
	server.ServeMux().Handle("/metrics", promhttp.Handler())

	log.Info("starting server", "addr", server.Addr)
	if err := server.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("failed to close server", "err", err)
	}
}

func climateAccessories(climates []*ZoneClimate) []*accessory.A {
	result := make([]*accessory.A, 0, len(climates))
	for _, a := range climates {
		result = append(result, a.A)
	}
	return result
}

func sortedZoneIDs(zones map[string]client.ZoneState) []string {
	ids := make([]string, 0, len(zones))
	for id := range zones {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		ai, _ := strconv.Atoi(a)
		bi, _ := strconv.Atoi(b)
		if ai > bi {
			return 1
		}
		return -1
	})
	return ids
}
