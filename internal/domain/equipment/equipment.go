// Package equipment holds the Equipment leaf of the building tree, its
// type/status enums, and the address structure from 6.4.
package equipment

import (
	"errors"

	"github.com/arx-os/arxos/internal/domain/types"
	"github.com/arx-os/arxos/pkg/address"
	"github.com/arx-os/arxos/internal/spatial"
)

// Type classifies equipment by the building system it belongs to, per the
// IFC entity-type mapping in 6.1.
type Type string

const (
	TypeHVAC       Type = "HVAC"
	TypeElectrical Type = "Electrical"
	TypeAV         Type = "AV"
	TypeFurniture  Type = "Furniture"
	TypeSafety     Type = "Safety"
	TypePlumbing   Type = "Plumbing"
	TypeNetwork    Type = "Network"
)

// OtherType renders an unrecognized equipment type as "Other(<raw>)".
func OtherType(raw string) Type {
	return Type("Other(" + raw + ")")
}

// TypeFromIFCEntity maps an IFC entity type name to an equipment Type,
// following the allow-list and mapping table in 6.1.
func TypeFromIFCEntity(ifcType string) Type {
	switch ifcType {
	case "IFCFLOWTERMINAL", "IFCAIRTERMINAL", "IFCFAN", "IFCPUMP":
		return TypeHVAC
	case "IFCLIGHTFIXTURE", "IFCDISTRIBUTIONELEMENT", "IFCSWITCHINGDEVICE":
		return TypeElectrical
	case "IFCFIREALARM", "IFCFIREDETECTOR":
		return TypeSafety
	case "IFCPIPE", "IFCPIPEFITTING", "IFCTANK":
		return TypePlumbing
	default:
		return OtherType(ifcType)
	}
}

// OperationalStatus is the equipment's current operating state.
type OperationalStatus string

const (
	StatusActive      OperationalStatus = "Active"
	StatusInactive    OperationalStatus = "Inactive"
	StatusMaintenance OperationalStatus = "Maintenance"
	StatusOutOfOrder  OperationalStatus = "OutOfOrder"
	StatusUnknown     OperationalStatus = "Unknown"
)

// HealthStatus is an optional health signal, typically fed by a BAS/sensor
// integration outside the CORE.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "Healthy"
	HealthWarning  HealthStatus = "Warning"
	HealthCritical HealthStatus = "Critical"
	HealthUnknown  HealthStatus = "Unknown"
)

// Position is an equipment's location plus the coordinate system name it
// was expressed in (normally "building_local").
type Position struct {
	Point            spatial.Point3D
	CoordinateSystem string
}

// SensorMapping links equipment to an external sensor feed. The CORE only
// carries the mapping; ingesting live readings is outside its scope.
type SensorMapping struct {
	SensorID string
	Channel  string
}

// ConfidenceLevel records how confidently an equipment's position is known.
type ConfidenceLevel int

const (
	ConfidenceUnknown   ConfidenceLevel = -1
	ConfidenceEstimated ConfidenceLevel = 0
	ConfidenceLow       ConfidenceLevel = 1
	ConfidenceMedium    ConfidenceLevel = 2
	ConfidenceHigh      ConfidenceLevel = 3
	ConfidenceScanned   ConfidenceLevel = 4
	ConfidenceSurveyed  ConfidenceLevel = 5
)

func (c ConfidenceLevel) String() string {
	switch c {
	case ConfidenceEstimated:
		return "estimated"
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	case ConfidenceScanned:
		return "scanned"
	case ConfidenceSurveyed:
		return "surveyed"
	default:
		return "unknown"
	}
}

// Equipment is a piece of equipment placed somewhere in the building tree.
type Equipment struct {
	ID            types.ID
	DisplayName   string
	CanonicalPath string
	Address       *address.Equipment // optional structured address, 6.4
	EquipmentType Type
	Position      Position
	Confidence    ConfidenceLevel
	Properties    map[string]string
	Status        OperationalStatus
	Health        *HealthStatus
	RoomID        *types.ID
	Sensors       []SensorMapping
}

// Validate checks the fields the hierarchy builder and command layer both
// rely on being present.
func (e *Equipment) Validate() error {
	if e.DisplayName == "" {
		return errors.New("equipment display name is required")
	}
	if e.CanonicalPath == "" {
		return errors.New("equipment canonical path is required")
	}
	if e.Address != nil {
		if err := e.Address.Validate(); err != nil {
			return err
		}
		if e.Address.String() != e.CanonicalPath {
			return errors.New("equipment canonical path must equal its address serialization")
		}
	}
	return nil
}

// New creates equipment with default status and an empty property map.
func New(displayName string, equipmentType Type) *Equipment {
	return &Equipment{
		ID:            types.NewID(),
		DisplayName:   displayName,
		EquipmentType: equipmentType,
		Status:        StatusActive,
		Properties:    make(map[string]string),
	}
}
