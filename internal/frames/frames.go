// Package frames converts between the inertial, Earth-fixed, local-level
// and orbital reference frames used by the environment adapters.
//
// Distances are km, angles are radians. Direction cosine matrices are gonum
// dense 3x3 matrices mapping source-frame components to target-frame
// components (v_target = M v_source).
package frames

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/dartsim/internal/dynamo"
)

// WGS-84 ellipsoid.
const (
	EarthRadius     = 6378.137
	EarthFlattening = 1 / 298.257223563
	eccSq           = EarthFlattening * (2 - EarthFlattening)
)

// Geodetic is a WGS-84 position: latitude and longitude in radians, altitude in km.
type Geodetic struct {
	Lat, Lon, Alt float64
}

// GHA returns the Greenwich mean sidereal angle in radians at t seconds past epoch.
func GHA(epoch time.Time, t float64) float64 {
	at := epoch.UTC().Add(time.Duration(t * float64(time.Second)))
	return sidereal.Mean(julian.TimeToJD(at)).Angle().Rad()
}

// ECIToECEF rotates an inertial vector into the Earth-fixed frame.
func ECIToECEF(r r3.Vec, gha float64) r3.Vec {
	s, c := math.Sincos(gha)
	return r3.Vec{
		X: r.X*c + r.Y*s,
		Y: -r.X*s + r.Y*c,
		Z: r.Z,
	}
}

// ECIToGeodetic converts an inertial position to WGS-84 geodetic coordinates.
func ECIToGeodetic(r r3.Vec, gha float64) (Geodetic, error) {
	if r3.Norm(r) == 0 {
		return Geodetic{}, fmt.Errorf("geodetic of zero position: %w", dynamo.ErrDegenerateFrame)
	}
	e := ECIToECEF(r, gha)
	return ecefToGeodetic(e), nil
}

func ecefToGeodetic(e r3.Vec) Geodetic {
	lon := math.Atan2(e.Y, e.X)
	p := math.Hypot(e.X, e.Y)
	lat := math.Atan2(e.Z, p*(1-eccSq))

	var n float64
	for i := 0; i < 10; i++ {
		s := math.Sin(lat)
		n = EarthRadius / math.Sqrt(1-eccSq*s*s)
		next := math.Atan2(e.Z+eccSq*n*s, p)
		if math.Abs(next-lat) < 1e-13 {
			lat = next
			break
		}
		lat = next
	}
	s, c := math.Sincos(lat)
	n = EarthRadius / math.Sqrt(1-eccSq*s*s)
	alt := p*c + e.Z*s - EarthRadius*EarthRadius/n
	return Geodetic{Lat: lat, Lon: lon, Alt: alt}
}

// GeodeticToECEF is the inverse of the geodetic conversion.
func GeodeticToECEF(g Geodetic) r3.Vec {
	sLat, cLat := math.Sincos(g.Lat)
	sLon, cLon := math.Sincos(g.Lon)
	n := EarthRadius / math.Sqrt(1-eccSq*sLat*sLat)
	return r3.Vec{
		X: (n + g.Alt) * cLat * cLon,
		Y: (n + g.Alt) * cLat * sLon,
		Z: (n*(1-eccSq) + g.Alt) * sLat,
	}
}

// GeocentricLatitude is the angle between the equator and the radius vector of g.
func GeocentricLatitude(g Geodetic) float64 {
	e := GeodeticToECEF(g)
	return math.Atan2(e.Z, math.Hypot(e.X, e.Y))
}

// NEDToECI returns the DCM taking North-East-Down components at the given
// geodetic latitude and longitude to inertial components.
func NEDToECI(lat, lon, gha float64) *mat.Dense {
	sLat, cLat := math.Sincos(lat)
	sLon, cLon := math.Sincos(lon + gha)
	// Columns are the N, E, D unit vectors in ECI.
	return mat.NewDense(3, 3, []float64{
		-sLat * cLon, -sLon, -cLat * cLon,
		-sLat * sLon, cLon, -cLat * sLon,
		cLat, 0, -sLat,
	})
}

// ECIToOrbital returns the DCM taking inertial components to the orbital
// frame: z toward nadir, y against the orbit normal, x completing the triad
// (along-track for a circular orbit).
func ECIToOrbital(r, v r3.Vec) (*mat.Dense, error) {
	if r3.Norm(r) == 0 || r3.Norm(v) == 0 {
		return nil, fmt.Errorf("orbital frame needs non-zero position and velocity: %w", dynamo.ErrDegenerateFrame)
	}
	h := r3.Cross(r, v)
	if r3.Norm(h) <= 1e-12*r3.Norm(r)*r3.Norm(v) {
		return nil, fmt.Errorf("orbital frame undefined for radial motion: %w", dynamo.ErrDegenerateFrame)
	}
	z := r3.Scale(-1, r3.Unit(r))
	y := r3.Scale(-1, r3.Unit(h))
	x := r3.Cross(y, z)
	return mat.NewDense(3, 3, []float64{
		x.X, x.Y, x.Z,
		y.X, y.Y, y.Z,
		z.X, z.Y, z.Z,
	}), nil
}

// MulVec applies a 3x3 DCM to v.
func MulVec(m mat.Matrix, v r3.Vec) r3.Vec {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
	return r3.Vec{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}
