package pcf

import (
	"errors"

	"github.com/dresswithpockets/dazzle-core/pkg/dmx"
)

// Import/validation errors, raised while projecting a dmx.Dmx into a Pcf.
var (
	ErrNoElements                   = errors.New("🚫 dmx document has no elements")
	ErrMissingDatamodelElementString = errors.New("🚫 missing mandatory 'DmElement' symbol")
	ErrMissingRootDefinitionString   = errors.New("🚫 missing mandatory 'particleSystemDefinitions' symbol")
	ErrMissingSystemDefinitionString = errors.New("🚫 missing mandatory 'DmeParticleSystemDefinition' symbol")
	ErrMissingRootDefinitions       = errors.New("🚫 root element has no particleSystemDefinitions attribute")
	ErrMissingParticleSystem        = errors.New("🚫 particleSystemDefinitions references a missing element")
	ErrInvalidParticleSystem        = errors.New("🚫 referenced element is not a DmeParticleSystemDefinition")
	ErrMissingParticleChild         = errors.New("🚫 children references a missing element")
	ErrInvalidParticleChild         = errors.New("🚫 referenced element is not a DmeParticleChild")
	ErrMissingChild                 = errors.New("🚫 DmeParticleChild has no 'child' attribute")
	ErrMissingOperator              = errors.New("🚫 operator group references a missing element")
	ErrInvalidParticleOperator      = errors.New("🚫 referenced element is not a DmeParticleOperator")
	ErrMissingFunctionName          = errors.New("🚫 DmeParticleOperator has no 'functionName' attribute")
	ErrUnexpectedElementReference   = errors.New("🚫 unexpected Element/ElementArray attribute on a particle system")
	ErrInvalidRootElement           = errors.New("🚫 first dmx element is not a DmElement/DmeElement")
)

// ErrVersionMismatch is returned by Merge when the two PCFs were encoded
// with different DMX versions.
type ErrVersionMismatch struct {
	Into, From dmx.Version
}

func (e *ErrVersionMismatch) Error() string {
	return "🚫 version mismatch: " + e.Into.String() + " vs " + e.From.String()
}
