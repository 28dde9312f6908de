package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestCounter = promauto.NewCounter(prometheus.CounterOpts{
	Namespace:   "homekit_g50a",
	Subsystem:   "client",
	Name:        "requests_total",
	Help:        "",
	ConstLabels: map[string]string{},
})

var requestErrorCounter = promauto.NewCounter(prometheus.CounterOpts{
	Namespace:   "homekit_g50a",
	Subsystem:   "client",
	Name:        "request_errors_total",
	Help:        "",
	ConstLabels: map[string]string{},
})

var inletTempGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace:   "homekit_g50a",
	Subsystem:   "zone",
	Name:        "inlet_temperature_celsius",
	Help:        "",
	ConstLabels: map[string]string{},
}, []string{"zone", "name"})

var targetTempGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace:   "homekit_g50a",
	Subsystem:   "zone",
	Name:        "target_temperature_celsius",
	Help:        "",
	ConstLabels: map[string]string{},
}, []string{"zone", "name"})

var driveGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace:   "homekit_g50a",
	Subsystem:   "zone",
	Name:        "on",
	Help:        "",
	ConstLabels: map[string]string{},
}, []string{"zone", "name"})
