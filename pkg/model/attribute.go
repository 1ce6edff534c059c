package model

// Attribute is the canonical name of a scoring attribute.
type Attribute string

const (
	AttrSpeed      Attribute = "speed"
	AttrCornering  Attribute = "cornering"
	AttrPowerUnit  Attribute = "power_unit"
	AttrQualifying Attribute = "qualifying"
	AttrPitTime    Attribute = "pit_time"
	AttrOvertaking Attribute = "overtaking"
	AttrDefending  Attribute = "defending"
	AttrRaceStart  Attribute = "race_start"
	AttrTyreMgmt   Attribute = "tyre_mgmt"
)

// qualifying belongs to both groups
func (a Attribute) IsCarStat() bool {
	switch a {
	case AttrSpeed, AttrCornering, AttrPowerUnit, AttrQualifying, AttrPitTime:
		return true
	}
	return false
}

func (a Attribute) IsDriverStat() bool {
	switch a {
	case AttrOvertaking, AttrDefending, AttrQualifying, AttrRaceStart, AttrTyreMgmt:
		return true
	}
	return false
}

// attributeLabels maps the display labels used by the series catalog.
//
//nolint:gochecknoglobals // fixed lookup
var attributeLabels = map[string]Attribute{
	"Speed":           AttrSpeed,
	"Cornering":       AttrCornering,
	"Power Unit":      AttrPowerUnit,
	"Qualifying":      AttrQualifying,
	"Pit Time":        AttrPitTime,
	"Overtaking":      AttrOvertaking,
	"Defending":       AttrDefending,
	"Race Start":      AttrRaceStart,
	"Tyre Mgmt":       AttrTyreMgmt,
	"Tyre Management": AttrTyreMgmt,
}

// AttributeFromLabel maps a display label ("Power Unit") or a canonical
// name ("power_unit") to the attribute.
func AttributeFromLabel(label string) (Attribute, bool) {
	if a, ok := attributeLabels[label]; ok {
		return a, true
	}
	a := Attribute(label)
	if a.IsCarStat() || a.IsDriverStat() {
		return a, true
	}
	return "", false
}

// RotatingLabels lists the labels a rotating series may be set to.
//
//nolint:gochecknoglobals // fixed set
var RotatingLabels = []string{
	"Speed", "Cornering", "Power Unit", "Defending", "Overtaking", "Race Start", "Tyre Mgmt",
}
