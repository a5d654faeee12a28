package propagation

import "github.com/sa6mwa/hfprop/internal/model"

// The propagation package is the public API surface; its data types
// are aliases of internal/model so that internal/coeff,
// internal/ionosphere, and internal/raytrace can depend on the shared
// model without creating an import cycle back through propagation.
// Callers of this package never need to know internal/model exists.
type (
	Layer            = model.Layer
	ControlPointRole = model.ControlPointRole
	GeoPoint         = model.GeoPoint
	PathGeometry     = model.PathGeometry
	ControlPoint     = model.ControlPoint
	SolarContext     = model.SolarContext
	GeomagContext    = model.GeomagContext
	TripleValue      = model.TripleValue
	LayerParams      = model.LayerParams
	IonosphericProfile = model.IonosphericProfile
	Ionogram         = model.Ionogram
	ReflectionPoint  = model.ReflectionPoint
	Reflectrix       = model.Reflectrix
	Mode             = model.Mode
	SignalInfo       = model.SignalInfo
	NoiseComponents  = model.NoiseComponents
	MufInfo          = model.MufInfo
	Prediction       = model.Prediction
	ConfigError      = model.ConfigError
	DataError        = model.DataError
)

const (
	LayerE  = model.LayerE
	LayerF1 = model.LayerF1
	LayerF2 = model.LayerF2

	RoleTx          = model.RoleTx
	RoleTxPlus1000  = model.RoleTxPlus1000
	RoleMidpoint    = model.RoleMidpoint
	RoleRxMinus1000 = model.RoleRxMinus1000
	RoleRx          = model.RoleRx
)

var (
	ErrConfigInvalid = model.ErrConfigInvalid
	ErrDataMissing   = model.ErrDataMissing
)
