package ifc

import (
	"io"
	"strings"

	arxerrors "github.com/arx-os/arxos/pkg/errors"
)

// errorThreshold is the default count of collected ParsingErrors above
// which a parse aborts and returns partial results, per 7.
const errorThreshold = 10

// ParseResult is a registry plus the relation maps plus any non-fatal
// parsing errors collected along the way.
type ParseResult struct {
	Registry      *Registry
	Relationships *Relationships
	Errors        []error
	Truncated     bool
	Warned        bool
}

// SpaceTypes is the allow-list of recognized space/room entity types.
var SpaceTypes = map[string]bool{
	"IFCSPACE": true,
	"IFCROOM":  true,
	"IFCZONE":  true,
}

// StoreyTypes is the allow-list of recognized floor/storey entity types.
var StoreyTypes = map[string]bool{
	"IFCBUILDINGSTOREY": true,
	"IFCBUILDINGFLOOR":  true,
	"IFCLEVEL":          true,
}

// EquipmentTypes is the allow-list of recognized equipment entity types,
// per 6.1. Any type containing "TYPE" (e.g. IFCFLOWTERMINALTYPE) is
// excluded even if its base name appears here.
var EquipmentTypes = map[string]bool{
	"IFCFLOWTERMINAL":        true,
	"IFCAIRTERMINAL":         true,
	"IFCLIGHTFIXTURE":        true,
	"IFCDISTRIBUTIONELEMENT": true,
	"IFCFAN":                 true,
	"IFCPUMP":                true,
	"IFCPIPE":                true,
	"IFCFIREALARM":           true,
	"IFCFIREDETECTOR":        true,
	"IFCSWITCHINGDEVICE":     true,
	"IFCTANK":                true,
}

// IsEquipmentType reports whether entityType is in the equipment allow
// list and is not a *TYPE variant.
func IsEquipmentType(entityType string) bool {
	if strings.Contains(entityType, "TYPE") {
		return false
	}
	return EquipmentTypes[entityType]
}

// Parse runs the lexer over r, populating a registry and relationship
// maps. size, when known, feeds the 500MB hard limit check.
func Parse(r io.Reader, size int64) (*ParseResult, error) {
	lexer, err := NewLexer(r, size)
	if err != nil {
		return nil, err
	}

	reg := NewRegistry()
	result := &ParseResult{Registry: reg}

	for {
		entity, err := lexer.Next()
		if err != nil {
			if arxerrors.Is(err, arxerrors.KindParsingError) {
				result.Errors = append(result.Errors, err)
				if len(result.Errors) > errorThreshold {
					result.Truncated = true
					break
				}
				continue
			}
			return result, err
		}
		if entity == nil {
			break
		}
		reg.Add(entity)
	}

	result.Warned = lexer.Warned()
	result.Relationships = ExtractRelationships(reg, SpaceTypes)
	return result, nil
}
