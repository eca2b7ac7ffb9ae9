// Package environment holds the geomagnetic and aerodynamic models and the
// adapters that turn their native outputs into body-frame quantities.
package environment

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/dartsim/internal/frames"
	"github.com/san-kum/dartsim/internal/quat"
)

const nanoTesla = 1e-9

// BodyField returns the geomagnetic field in the body frame, Tesla, for an
// inertial position r (km), velocity v (km/s) and attitude q relative to the
// orbital frame, t seconds after epoch.
func BodyField(m MagneticModel, r, v r3.Vec, q quat.Q, t float64, epoch time.Time) (r3.Vec, error) {
	gha := frames.GHA(epoch, t)
	geo, err := frames.ECIToGeodetic(r, gha)
	if err != nil {
		return r3.Vec{}, err
	}
	eciToOrb, err := frames.ECIToOrbital(r, v)
	if err != nil {
		return r3.Vec{}, err
	}
	date := epoch.Add(time.Duration(t * float64(time.Second)))

	ned := m.Field(date, geo.Lat, geo.Lon, geo.Alt)
	eci := frames.MulVec(frames.NEDToECI(geo.Lat, geo.Lon, gha), ned)
	orb := frames.MulVec(eciToOrb, eci)
	return r3.Scale(nanoTesla, quat.ToBody(orb, quat.Normalize(q))), nil
}

// OrbitalField is BodyField without the final attitude rotation.
func OrbitalField(m MagneticModel, r, v r3.Vec, t float64, epoch time.Time) (r3.Vec, error) {
	b, err := BodyField(m, r, v, quat.Identity, t, epoch)
	if err != nil {
		return r3.Vec{}, fmt.Errorf("orbital field: %w", err)
	}
	return b, nil
}
