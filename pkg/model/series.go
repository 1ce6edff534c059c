package model

import "strconv"

const (
	// GrandPrixSeries is the pseudo series used for Grand Prix events.
	GrandPrixSeries = 0
	// RotatingTrackStats marks a series whose focus is set per period.
	RotatingTrackStats = "Rotating"
)

type Series struct {
	Series        int    `json:"series"`
	TrackStats    string `json:"track_stats"`
	RecommendedTS string `json:"recommended_ts"`
	Coins         int    `json:"coins,omitempty"`
	FlagsToUnlock int    `json:"flags_to_unlock,omitempty"`
	MaxFlags      int    `json:"max_flags,omitempty"`
	BotTS         string `json:"bot_ts,omitempty"`
}

func (s Series) IsRotating() bool {
	return s.TrackStats == RotatingTrackStats
}

//nolint:tagliatelle // document layout
type SeriesDocument struct {
	SeriesData []Series `json:"series_data"`
}

// RotatingOverrides maps a series number (as string key, e.g. "10") to the
// label currently in focus.
type RotatingOverrides map[string]string

func (r RotatingOverrides) For(series int) (string, bool) {
	v, ok := r[strconv.Itoa(series)]
	return v, ok
}

func (r RotatingOverrides) Set(series int, label string) {
	r[strconv.Itoa(series)] = label
}

// SetupFocuses are the focus attributes a series setup recommends
// components for.
//
//nolint:gochecknoglobals // fixed set
var SetupFocuses = []Attribute{AttrSpeed, AttrCornering, AttrPowerUnit}

// SetupEntry is one recommended component with its value for the focus.
type SetupEntry struct {
	Component string  `json:"component"`
	Value     float64 `json:"value"`
}

// SeriesSetup holds the recommended components of a series per focus.
type SeriesSetup struct {
	Series int                        `json:"series"`
	Setups map[Attribute][]SetupEntry `json:"setups"`
}

//nolint:tagliatelle // document layout
type SeriesSetupsDocument struct {
	SeriesSetups []SeriesSetup `json:"series_setups"`
}

// Setup returns the setup of series n. The returned pointer refers into d.
func (d *SeriesSetupsDocument) Setup(n int) (*SeriesSetup, bool) {
	for i := range d.SeriesSetups {
		if d.SeriesSetups[i].Series == n {
			return &d.SeriesSetups[i], true
		}
	}
	return nil, false
}
