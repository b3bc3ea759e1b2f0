package address

import (
	"fmt"
	"strings"
)

// Equipment is the structured address of a piece of equipment, serialized
// as /<country>/<region>/<city>/<building>/<floor>/<system>/<fixture>.
type Equipment struct {
	Country  string
	Region   string
	City     string
	Building string
	Floor    string // rendered "floor-NN"
	System   string
	Fixture  string
}

const maxSegmentLength = 64

// FloorSegment renders a floor level as the zero-padded "floor-NN" segment.
func FloorSegment(level int) string {
	if level < 0 {
		return fmt.Sprintf("floor-m%02d", -level)
	}
	return fmt.Sprintf("floor-%02d", level)
}

// String serializes the address to its canonical slash form.
func (a Equipment) String() string {
	return "/" + strings.Join([]string{a.Country, a.Region, a.City, a.Building, a.Floor, a.System, a.Fixture}, "/")
}

// Validate checks every segment is non-empty, matches [a-z0-9-]+, and is at
// most 64 characters, per 6.4.
func (a Equipment) Validate() error {
	segments := map[string]string{
		"country": a.Country, "region": a.Region, "city": a.City,
		"building": a.Building, "floor": a.Floor, "system": a.System, "fixture": a.Fixture,
	}
	for name, seg := range segments {
		if seg == "" {
			return fmt.Errorf("address segment %q is empty", name)
		}
		if len(seg) > maxSegmentLength {
			return fmt.Errorf("address segment %q exceeds %d characters", name, maxSegmentLength)
		}
		for _, r := range seg {
			if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
				return fmt.Errorf("address segment %q contains invalid character %q", name, r)
			}
		}
	}
	return nil
}

// ParseEquipmentAddress parses a serialized address back into its segments.
func ParseEquipmentAddress(path string) (Equipment, error) {
	path = strings.TrimPrefix(path, "/")
	parts := strings.Split(path, "/")
	if len(parts) != 7 {
		return Equipment{}, fmt.Errorf("address must have 7 segments, got %d", len(parts))
	}
	a := Equipment{
		Country: parts[0], Region: parts[1], City: parts[2], Building: parts[3],
		Floor: parts[4], System: parts[5], Fixture: parts[6],
	}
	return a, a.Validate()
}
