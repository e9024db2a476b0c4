package materials

// NIST is a lookup service over a catalogue of NIST materials, keyed by their G4_ names.
type NIST struct {
	catalogue map[string]float64
}

// NewNIST returns the built-in catalogue.
func NewNIST() *NIST {
	return &NIST{catalogue: nistDensities}
}

// FindOrBuild returns a fresh material for a catalogue name.
func (n *NIST) FindOrBuild(name string) (*Material, bool) {
	density, ok := n.catalogue[name]
	if !ok {
		return nil, false
	}
	return &Material{Name: name, Density: density}, true
}

// densities in g/cm3
var nistDensities = map[string]float64{
	"G4_Galactic":                1e-25,
	"G4_AIR":                     0.00120479,
	"G4_H":                       8.3748e-05,
	"G4_He":                      0.000166322,
	"G4_N":                       0.0011652,
	"G4_O":                       0.00133151,
	"G4_Ar":                      0.00166201,
	"G4_lH2":                     0.0708,
	"G4_Be":                      1.848,
	"G4_C":                       2.0,
	"G4_Al":                      2.699,
	"G4_Si":                      2.33,
	"G4_Ti":                      4.54,
	"G4_Fe":                      7.874,
	"G4_Ni":                      8.902,
	"G4_Cu":                      8.96,
	"G4_Sn":                      7.31,
	"G4_W":                       19.3,
	"G4_Au":                      19.32,
	"G4_Pb":                      11.35,
	"G4_WATER":                   1.0,
	"G4_KAPTON":                  1.42,
	"G4_MYLAR":                   1.4,
	"G4_POLYSTYRENE":             1.06,
	"G4_PLASTIC_SC_VINYLTOLUENE": 1.032,
	"G4_PbWO4":                   8.28,
	"G4_BGO":                     7.13,
	"G4_CESIUM_IODIDE":           4.51,
	"G4_STAINLESS-STEEL":         8.0,
	"G4_CONCRETE":                2.3,
	"G4_GLASS_PLATE":             2.4,
}
