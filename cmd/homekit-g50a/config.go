package main

import (
	"strconv"
	"time"

	client "homekit-g50a"
)

type Config struct {
	Host         string        `env:"HOST,required"`
	ZoneNames    []string      `env:"ZONE_NAMES"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"30s"`
	Address      string        `env:"LISTEN"        envDefault:":8000"`
}

// zoneNames turns the positional ZONE_NAMES list into the id-keyed
// mapping the library wants. An empty list keeps the library defaults.
func (c Config) zoneNames() client.ZoneNames {
	names := client.ZoneNames{}
	for i, name := range c.ZoneNames {
		if name == "" {
			continue
		}
		names[strconv.Itoa(i+1)] = name
	}
	if len(names) == 0 {
		return client.DefaultZoneNames
	}
	return names
}
