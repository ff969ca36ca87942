// Package defaults carries the reference attribute values particle
// systems and operators fall back to when an author never overrides
// them. pkg/dazzle (and through it cmd/pcfstrip) uses these tables to drop
// attributes that are present on disk but equal to what the game already
// assumes; pkg/pcf and pkg/packer never import this package themselves.
package defaults

import (
	"github.com/dresswithpockets/dazzle-core/pkg/dmx"
	"github.com/dresswithpockets/dazzle-core/pkg/pcf"
)

// ParticleSystemDefaults returns the default value for every
// particle-system level attribute a DmeParticleSystemDefinition is
// expected to carry.
func ParticleSystemDefaults() pcf.ParticleDefaults {
	return pcf.ParticleDefaults{
		"bounding_box_min": dmx.NewVector3Attr(dmx.Vector3{X: -10, Y: -10, Z: -10}),
		"bounding_box_max": dmx.NewVector3Attr(dmx.Vector3{X: 10, Y: 10, Z: 10}),
		"color":            dmx.NewColorAttr(dmx.Color{R: 255, G: 255, B: 255, A: 255}),
		"control point to disable rendering if it is the camera": dmx.NewIntegerAttr(-1),
		"cull_control_point":          dmx.NewIntegerAttr(0),
		"cull_cost":                   dmx.NewFloatAttr(1.0),
		"cull_radius":                 dmx.NewFloatAttr(0.0),
		"cull_replacement_definition": dmx.NewStringAttr(""),
		"group id":                    dmx.NewIntegerAttr(0),
		"initial_particles":           dmx.NewIntegerAttr(0),
		"material":                    dmx.NewStringAttr("vgui/white"),
		"max_particles":               dmx.NewIntegerAttr(1000),
		"maximum draw distance":       dmx.NewFloatAttr(100_000.0),
		"maximum sim tick rate":       dmx.NewFloatAttr(0.0),
		"maximum time step":           dmx.NewFloatAttr(0.1),
		"minimum rendered frames":     dmx.NewIntegerAttr(0),
		"minimum sim tick rate":       dmx.NewFloatAttr(0.0),
		"radius":                      dmx.NewFloatAttr(5.0),
		"rotation":                    dmx.NewFloatAttr(0.0),
		"rotation_speed":              dmx.NewFloatAttr(0.0),
		"sequence_number":             dmx.NewIntegerAttr(0),
		"sequence_number1":            dmx.NewIntegerAttr(0),
		"Sort particles":              dmx.NewBoolAttr(true),
		"time to sleep when not drawn": dmx.NewFloatAttr(8.0),
		"view model effect":           dmx.NewBoolAttr(false),
	}
}

// FlatOperatorDefaults returns the handful of attribute defaults shared
// across every operator regardless of its functionName, for the "nth"
// variant of default-stripping that doesn't key off the operator's own
// identity.
func FlatOperatorDefaults() pcf.ParticleDefaults {
	return pcf.ParticleDefaults{
		"operator start fadein":                       dmx.NewFloatAttr(0.0),
		"operator end fadein":                         dmx.NewFloatAttr(0.0),
		"operator start fadeout":                      dmx.NewFloatAttr(0.0),
		"operator end fadeout":                        dmx.NewFloatAttr(0.0),
		"Visibility Proxy Input Control Point Number":  dmx.NewIntegerAttr(-1),
		"Visibility Proxy Radius":                      dmx.NewFloatAttr(1.0),
		"Visibility input minimum":                     dmx.NewFloatAttr(0.0),
		"Visibility input maximum":                     dmx.NewFloatAttr(1.0),
		"Visibility Alpha Scale minimum":                dmx.NewFloatAttr(0.0),
		"Visibility Alpha Scale maximum":                dmx.NewFloatAttr(1.0),
		"Visibility Radius Scale minimum":               dmx.NewFloatAttr(1.0),
		"Visibility Radius Scale maximum":               dmx.NewFloatAttr(1.0),
		"Visibility Camera Depth Bias":                  dmx.NewFloatAttr(0.0),
	}
}

// OperatorDefaults returns the same handful of shared defaults, but keyed
// by every functionName known to carry them, for DefaultsStripped's
// per-operator-identity variant. Per-function operator defaults beyond
// this shared set aren't reproduced here: the upstream tooling derives
// them from a bundled reference .pcf rather than a literal table, and no
// such fixture is available to this build, so only the functionName-
// independent defaults are wired; an operator whose functionName isn't
// listed here simply isn't stripped of anything by DefaultsStripped.
func OperatorDefaults() pcf.OperatorDefaults {
	shared := FlatOperatorDefaults()
	functionNames := []string{
		"alpha_random",
		"color_random",
		"Lifespan Decay",
		"Oscillate Scalar",
		"Remap particle count to scalar",
		"Remap Scalar",
		"Velocity Noise",
		"Distance to Camera Fade",
		"Fade and Kill",
		"Fade In Simple",
		"Fade Out Simple",
		"Alpha Fade and Decay",
	}

	out := make(pcf.OperatorDefaults, len(functionNames))
	for _, fn := range functionNames {
		out[fn] = shared
	}
	return out
}
