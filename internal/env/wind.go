package env

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// ConstantWind is a uniform wind field over ISA density.
type ConstantWind struct {
	Wind mgl64.Vec3 // world NED, m/s
}

func (w ConstantWind) WindAt(mgl64.Vec3) mgl64.Vec3 { return w.Wind }

func (w ConstantWind) DensityAt(p mgl64.Vec3) float64 { return ISADensity(-p.Z()) }

// FromSpeedAndDir builds a constant wind from a speed in m/s and the
// meteorological direction the wind blows FROM, degrees clockwise from
// north.
func FromSpeedAndDir(speed, directionDeg float64) ConstantWind {
	rad := directionDeg * math.Pi / 180
	// Blowing from direction d means the velocity vector points opposite.
	return ConstantWind{Wind: mgl64.Vec3{
		-speed * math.Cos(rad),
		-speed * math.Sin(rad),
		0,
	}}
}

// Layer is one rung of a wind shear profile.
type Layer struct {
	Altitude float64    `yaml:"altitude"` // m
	Wind     mgl64.Vec3 `yaml:"wind"`     // world NED, m/s
}

// Shear interpolates wind linearly between altitude layers, holding the
// edge values outside the profile. Density is ISA.
type Shear struct {
	Layers []Layer
}

// NewShear sorts the layers by altitude and returns the profile.
func NewShear(layers []Layer) *Shear {
	sorted := make([]Layer, len(layers))
	copy(sorted, layers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Altitude < sorted[j].Altitude })
	return &Shear{Layers: sorted}
}

func (s *Shear) WindAt(p mgl64.Vec3) mgl64.Vec3 {
	alt := -p.Z()
	n := len(s.Layers)
	if n == 0 {
		return mgl64.Vec3{}
	}
	if alt <= s.Layers[0].Altitude {
		return s.Layers[0].Wind
	}
	if alt >= s.Layers[n-1].Altitude {
		return s.Layers[n-1].Wind
	}
	i := sort.Search(n, func(i int) bool { return s.Layers[i].Altitude >= alt })
	lo, hi := s.Layers[i-1], s.Layers[i]
	t := (alt - lo.Altitude) / (hi.Altitude - lo.Altitude)
	return lo.Wind.Add(hi.Wind.Sub(lo.Wind).Mul(t))
}

func (s *Shear) DensityAt(p mgl64.Vec3) float64 { return ISADensity(-p.Z()) }
