package ifc

import "strings"

// UnitScale is the linear-unit scale factor to meters, derived from the
// prefix of the first IFCSIUNIT whose unit type is LENGTHUNIT (1.0 when
// there is none). Parsed coordinates are not rescaled by it.
func UnitScale(reg *Registry) float64 {
	for _, id := range reg.ByType("IFCSIUNIT") {
		paramStr, _ := reg.Params(id)
		vals := ParseParams(paramStr)
		// IfcSIUnit(Dimensions, UnitType, Prefix, Name)
		if len(vals) < 4 || vals[1].Kind != KindEnum || vals[1].Str != "LENGTHUNIT" {
			continue
		}
		prefix := ""
		if vals[2].Kind == KindEnum {
			prefix = vals[2].Str
		}
		return prefixScale(prefix)
	}
	return 1.0
}

func prefixScale(prefix string) float64 {
	switch strings.ToUpper(prefix) {
	case "MILLI":
		return 0.001
	case "CENTI":
		return 0.01
	case "DECI":
		return 0.1
	case "KILO":
		return 1000
	default:
		return 1.0
	}
}
