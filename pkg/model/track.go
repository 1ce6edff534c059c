package model

type Boost struct {
	Name        string             `json:"name"`
	Stats       map[string]float64 `json:"stats"`
	TrackGroups []string           `json:"track_groups,omitempty"`
	FinalStat   string             `json:"final_stat,omitempty"`
	FinalValue  float64            `json:"final_value,omitempty"`
}

// Stat returns the boost value for a display label or canonical attribute name.
func (b Boost) Stat(label string) float64 {
	if v, ok := b.Stats[label]; ok {
		return v
	}
	if attr, ok := AttributeFromLabel(label); ok {
		return b.Stats[string(attr)]
	}
	return 0
}

//nolint:tagliatelle // document layout
type Track struct {
	Name             string  `json:"name"`
	PrimaryAttribute string  `json:"primary_attribute"`
	Focus            string  `json:"focus"`
	Boosts           []Boost `json:"boosts"`
}
