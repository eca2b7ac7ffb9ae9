package environment

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/dartsim/internal/frames"
)

// MagneticModel returns the geomagnetic field in North-East-Down components,
// nanotesla, at a geodetic position (radians, km) and date.
type MagneticModel interface {
	Field(date time.Time, lat, lon, alt float64) r3.Vec
}

// Dipole is the degree-1 part of the IGRF/WMM spherical harmonic expansion:
// a tilted, centred dipole with linear secular variation.
type Dipole struct {
	Epoch            float64 // decimal year of the coefficients
	G10, G11, H11    float64 // nT
	G10D, G11D, H11D float64 // nT/year
	RefRadius        float64 // km
}

// WMM2025 n=1 coefficients.
func NewDipole() *Dipole {
	return &Dipole{
		Epoch:     2025.0,
		G10:       -29351.8,
		G11:       -1410.8,
		H11:       4545.4,
		G10D:      12.0,
		G11D:      9.7,
		H11D:      -21.5,
		RefRadius: 6371.2,
	}
}

// Coefficients returns g10, g11, h11 advanced to date.
func (d *Dipole) Coefficients(date time.Time) (g10, g11, h11 float64) {
	dy := decimalYear(date.UTC()) - d.Epoch
	return d.G10 + d.G10D*dy, d.G11 + d.G11D*dy, d.H11 + d.H11D*dy
}

func (d *Dipole) Field(date time.Time, lat, lon, alt float64) r3.Vec {
	g10, g11, h11 := d.Coefficients(date)

	geo := frames.Geodetic{Lat: lat, Lon: lon, Alt: alt}
	e := frames.GeodeticToECEF(geo)
	r := r3.Norm(e)
	if r == 0 {
		return r3.Vec{}
	}
	latc := frames.GeocentricLatitude(geo)
	sT, cT := math.Cos(latc), math.Sin(latc) // colatitude
	sP, cP := math.Sincos(lon)

	k := math.Pow(d.RefRadius/r, 3)
	g := g11*cP + h11*sP
	br := 2 * k * (g10*cT + g*sT)
	bt := k * (g10*sT - g*cT)
	bp := k * (g11*sP - h11*cP)

	// Tilt the geocentric local frame onto the geodetic one.
	sD, cD := math.Sincos(lat - latc)
	return r3.Vec{
		X: -bt*cD - br*sD,
		Y: bp,
		Z: bt*sD - br*cD,
	}
}

func decimalYear(t time.Time) float64 {
	y := t.Year()
	start := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(y+1, 1, 1, 0, 0, 0, 0, time.UTC)
	elapsed := t.Sub(start)
	duration := end.Sub(start)
	if duration <= 0 {
		return float64(y)
	}
	return float64(y) + float64(elapsed)/float64(duration)
}
