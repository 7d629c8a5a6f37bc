package metrics

import (
	"math"

	"github.com/kestrel-sim/kestrel/internal/world"
)

// AirspeedHold reports the fraction of samples whose airspeed stays inside
// a band around a reference, 1.0 meaning the whole run held the band.
type AirspeedHold struct {
	name       string
	reference  float64
	band       float64
	violations int
	samples    int
}

func NewAirspeedHold(reference, band float64) *AirspeedHold {
	return &AirspeedHold{name: "airspeed_hold", reference: reference, band: band}
}

func (a *AirspeedHold) Name() string { return a.name }

func (a *AirspeedHold) Observe(s world.Sample) {
	a.samples++
	if math.Abs(s.Air.TrueAirspeed-a.reference) > a.band {
		a.violations++
	}
}

func (a *AirspeedHold) Value() float64 {
	if a.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(a.violations)/float64(a.samples)
}

func (a *AirspeedHold) Reset() {
	a.violations = 0
	a.samples = 0
}

// AltitudeDeviation reports the largest absolute altitude excursion from
// the first sample, m.
type AltitudeDeviation struct {
	name    string
	initial float64
	max     float64
	samples int
}

func NewAltitudeDeviation() *AltitudeDeviation {
	return &AltitudeDeviation{name: "altitude_deviation"}
}

func (a *AltitudeDeviation) Name() string { return a.name }

func (a *AltitudeDeviation) Observe(s world.Sample) {
	alt := s.Spatial.Altitude()
	if a.samples == 0 {
		a.initial = alt
	}
	a.samples++
	a.max = math.Max(a.max, math.Abs(alt-a.initial))
}

func (a *AltitudeDeviation) Value() float64 { return a.max }

func (a *AltitudeDeviation) Reset() {
	a.initial = 0
	a.max = 0
	a.samples = 0
}
