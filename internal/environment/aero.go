package environment

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/dartsim/internal/quat"
)

// DefaultAltitude is the fixed altitude (km) fed to the aerodynamic model.
const DefaultAltitude = 400.0

// FlowDirection is the free-stream direction in the orbital frame.
var FlowDirection = r3.Vec{X: 1}

// Panel is one flat plate of the spacecraft surface, in body coordinates.
type Panel struct {
	Name     string  `yaml:"name" json:"name"`
	Area     float64 `yaml:"area" json:"area"`         // m²
	Normal   r3.Vec  `yaml:"normal" json:"normal"`     // outward unit normal
	CP       r3.Vec  `yaml:"cp" json:"cp"`             // centre of pressure from the centre of mass, m
	TwoSided bool    `yaml:"two_sided" json:"two_sided"` // thin plate wetted on both faces
}

// Geometry is the reference surface the aerodynamic model integrates over.
type Geometry struct {
	Cd     float64 `yaml:"cd" json:"cd"`
	Panels []Panel `yaml:"panels" json:"panels"`
}

// DartGeometry is a slender bus along body z with four swept feathers aft of
// the centre of mass, so the centre of pressure trails the centre of mass when
// flying nose (+z) first.
func DartGeometry() Geometry {
	const s, c = 0.8660254037844386, 0.5
	return Geometry{
		Cd: 2.2,
		Panels: []Panel{
			{Name: "nose", Area: 0.01, Normal: r3.Vec{Z: 1}, CP: r3.Vec{Z: 0.12}},
			{Name: "tail", Area: 0.01, Normal: r3.Vec{Z: -1}, CP: r3.Vec{Z: -0.18}},
			{Name: "+x", Area: 0.03, Normal: r3.Vec{X: 1}, CP: r3.Vec{X: 0.05, Z: -0.03}},
			{Name: "-x", Area: 0.03, Normal: r3.Vec{X: -1}, CP: r3.Vec{X: -0.05, Z: -0.03}},
			{Name: "+y", Area: 0.03, Normal: r3.Vec{Y: 1}, CP: r3.Vec{Y: 0.05, Z: -0.03}},
			{Name: "-y", Area: 0.03, Normal: r3.Vec{Y: -1}, CP: r3.Vec{Y: -0.05, Z: -0.03}},
			{Name: "feather+x", Area: 0.04, Normal: r3.Vec{X: s, Z: c}, CP: r3.Vec{X: 0.12, Z: -0.28}, TwoSided: true},
			{Name: "feather-x", Area: 0.04, Normal: r3.Vec{X: -s, Z: c}, CP: r3.Vec{X: -0.12, Z: -0.28}, TwoSided: true},
			{Name: "feather+y", Area: 0.04, Normal: r3.Vec{Y: s, Z: c}, CP: r3.Vec{Y: 0.12, Z: -0.28}, TwoSided: true},
			{Name: "feather-y", Area: 0.04, Normal: r3.Vec{Y: -s, Z: c}, CP: r3.Vec{Y: -0.12, Z: -0.28}, TwoSided: true},
		},
	}
}

// AeroModel returns drag (N) and torque (N·m) for a given altitude (km),
// attitude, surface and speed (km/s). The torque is the moment of the drag
// reaction, i.e. of a force along the flow; the physical torque on the body
// is its negation.
type AeroModel interface {
	Aero(alt float64, q quat.Q, g Geometry, speed float64) (drag float64, torque r3.Vec)
}

// PanelModel sums free-molecular flat-plate drag over the geometry panels.
type PanelModel struct {
	Density func(alt float64) float64
}

func NewPanelModel() *PanelModel {
	return &PanelModel{Density: ExponentialDensity}
}

func (p *PanelModel) Aero(alt float64, q quat.Q, g Geometry, speed float64) (float64, r3.Vec) {
	density := p.Density
	if density == nil {
		density = ExponentialDensity
	}
	vms := speed * 1000
	dyn := 0.5 * density(alt) * vms * vms

	flow := quat.ToBody(FlowDirection, quat.Normalize(q))
	var drag float64
	var torque r3.Vec
	for _, pn := range g.Panels {
		c := r3.Dot(pn.Normal, flow)
		if pn.TwoSided {
			c = math.Abs(c)
		}
		if c <= 0 {
			continue
		}
		f := dyn * g.Cd * pn.Area * c
		drag += f
		torque = r3.Add(torque, r3.Cross(pn.CP, r3.Scale(f, flow)))
	}
	return drag, torque
}

// AeroTorque delegates to m and keeps only the torque. A nil model means no
// aerodynamic torque.
func AeroTorque(m AeroModel, alt float64, q quat.Q, g Geometry, speed float64) r3.Vec {
	if m == nil {
		return r3.Vec{}
	}
	_, torque := m.Aero(alt, q, g, speed)
	return torque
}

type densityBand struct {
	base, rho, scale float64 // km, kg/m³, km
}

// Exponential atmosphere (Vallado, Table 8-4).
var densityTable = []densityBand{
	{0, 1.225, 7.249},
	{25, 3.899e-2, 6.349},
	{30, 1.774e-2, 6.682},
	{40, 3.972e-3, 7.554},
	{50, 1.057e-3, 8.382},
	{60, 3.206e-4, 7.714},
	{70, 8.770e-5, 6.549},
	{80, 1.905e-5, 5.799},
	{90, 3.396e-6, 5.382},
	{100, 5.297e-7, 5.877},
	{110, 9.661e-8, 7.263},
	{120, 2.438e-8, 9.473},
	{130, 8.484e-9, 12.636},
	{140, 3.845e-9, 16.149},
	{150, 2.070e-9, 22.523},
	{180, 5.464e-10, 29.740},
	{200, 2.789e-10, 37.105},
	{250, 7.248e-11, 45.546},
	{300, 2.418e-11, 53.628},
	{350, 9.518e-12, 53.298},
	{400, 3.725e-12, 58.515},
	{450, 1.585e-12, 60.828},
	{500, 6.967e-13, 63.822},
	{600, 1.454e-13, 71.835},
	{700, 3.614e-14, 88.667},
	{800, 1.170e-14, 124.64},
	{900, 5.245e-15, 181.05},
	{1000, 3.019e-15, 268.00},
}

// ExponentialDensity returns atmospheric density in kg/m³ at alt km.
func ExponentialDensity(alt float64) float64 {
	if alt < 0 {
		alt = 0
	}
	i := sort.Search(len(densityTable), func(i int) bool { return densityTable[i].base > alt }) - 1
	if i < 0 {
		i = 0
	}
	b := densityTable[i]
	return b.rho * math.Exp(-(alt-b.base)/b.scale)
}
