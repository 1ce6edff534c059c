//nolint:funlen // ok for tests
package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverStats_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want DriverStats
	}{
		{
			name: "snake case",
			data: `{"overtaking":1,"defending":2,"qualifying":3,"race_start":4,"tyre_mgmt":5}`,
			want: DriverStats{1, 2, 3, 4, 5},
		},
		{
			name: "camel case",
			data: `{"overtaking":1,"defending":2,"qualifying":3,"raceStart":4,"tyreMgmt":5}`,
			want: DriverStats{1, 2, 3, 4, 5},
		},
		{
			name: "snake case wins when both present",
			data: `{"race_start":4,"raceStart":9,"tyreMgmt":5}`,
			want: DriverStats{RaceStart: 4, TyreMgmt: 5},
		},
		{
			name: "missing keys",
			data: `{}`,
			want: DriverStats{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got DriverStats
			require.NoError(t, json.Unmarshal([]byte(tt.data), &got))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DriverStats mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDriverStats_MarshalsCanonicalKeys(t *testing.T) {
	data, err := json.Marshal(DriverStats{RaceStart: 4, TyreMgmt: 5})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"race_start":4`)
	assert.Contains(t, string(data), `"tyre_mgmt":5`)
	assert.NotContains(t, string(data), "raceStart")
}

func TestDriverTotals_keepsTotal(t *testing.T) {
	var got DriverTotals
	data := `{"overtaking":10,"raceStart":3,"total_driver_value":13}`
	require.NoError(t, json.Unmarshal([]byte(data), &got))
	assert.Equal(t, DriverTotals{
		DriverStats:      DriverStats{Overtaking: 10, RaceStart: 3},
		TotalDriverValue: 13,
	}, got)
}

func TestDriverLevelStats_keepsLevel(t *testing.T) {
	var got DriverLevelStats
	data := `{"level":5,"overtaking":10,"tyreMgmt":2,"total_value":12}`
	require.NoError(t, json.Unmarshal([]byte(data), &got))
	assert.Equal(t, 5, got.Level)
	assert.Equal(t, 12, got.TotalValue)
	assert.Equal(t, 2, got.TyreMgmt)
}

func TestCarStats_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want CarStats
	}{
		{
			name: "snake case",
			data: `{"speed":1,"cornering":2,"power_unit":3,"qualifying":4,"pit_time":0.5}`,
			want: CarStats{1, 2, 3, 4, 0.5},
		},
		{
			name: "camel case",
			data: `{"speed":1,"cornering":2,"powerUnit":3,"qualifying":4,"pitTime":0.5}`,
			want: CarStats{1, 2, 3, 4, 0.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got CarStats
			require.NoError(t, json.Unmarshal([]byte(tt.data), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmbeddedCarStats_keepOuterFields(t *testing.T) {
	var totals CarTotals
	require.NoError(t, json.Unmarshal([]byte(`{"speed":5,"pitTime":1.5,"total_car_value":5}`), &totals))
	assert.Equal(t, CarTotals{CarStats: CarStats{Speed: 5, PitTime: 1.5}, TotalCarValue: 5}, totals)

	var lvl ComponentLevelStats
	require.NoError(t, json.Unmarshal([]byte(`{"level":3,"powerUnit":2,"total_value":2}`), &lvl))
	assert.Equal(t, ComponentLevelStats{Level: 3, CarStats: CarStats{PowerUnit: 2}, TotalValue: 2}, lvl)
}

func TestLoadoutID_UnmarshalJSON(t *testing.T) {
	var l struct {
		ID LoadoutID `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"id":3}`), &l))
	assert.Equal(t, LoadoutID("3"), l.ID)
	require.NoError(t, json.Unmarshal([]byte(`{"id":"9b2c"}`), &l))
	assert.Equal(t, LoadoutID("9b2c"), l.ID)
}

func TestTimestamp_legacyLayout(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2025-03-15 10:20:30"`), &ts))
	assert.Equal(t, time.Date(2025, 3, 15, 10, 20, 30, 0, time.UTC), ts.Time)

	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-15T10:20:30Z"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestParseRarity(t *testing.T) {
	r, err := ParseRarity(" legendary ")
	require.NoError(t, err)
	assert.Equal(t, RarityLegendary, r)

	_, err = ParseRarity("Mythic")
	assert.ErrorIs(t, err, ErrInvalidRarity)
}

func TestParseComponentType(t *testing.T) {
	tests := []struct {
		in      string
		want    ComponentType
		wantErr bool
	}{
		{"brakes", Brakes, false},
		{"Rear Wing", RearWing, false},
		{"front-wing", FrontWing, false},
		{" ENGINE ", Engine, false},
		{"tyres", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseComponentType(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRaceType(t *testing.T) {
	got, err := ParseRaceType("final")
	require.NoError(t, err)
	assert.Equal(t, RaceFinal, got)

	_, err = ParseRaceType("Sprint")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttributeFromLabel(t *testing.T) {
	tests := []struct {
		label  string
		want   Attribute
		wantOk bool
	}{
		{"Defending", AttrDefending, true},
		{"Power Unit", AttrPowerUnit, true},
		{"Tyre Mgmt", AttrTyreMgmt, true},
		{"race_start", AttrRaceStart, true},
		{"Rotating", "", false},
		{"Custom", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := AttributeFromLabel(tt.label)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	d, err := LoadDefaults()
	require.NoError(t, err)
	assert.Len(t, d.Series, 13)
	assert.Equal(t, Series{Series: 3, TrackStats: "Speed", RecommendedTS: "350 - 600"}, d.Series[2])
	label, ok := d.Rotating.For(11)
	assert.True(t, ok)
	assert.Equal(t, "Cornering", label)
	require.Len(t, d.GPCategories, 3)
	assert.Equal(t, 6, d.GPCategories[0].MaxSeries)
	assert.Equal(t, 9, d.GPCategories[1].MaxSeries)
	assert.Equal(t, NoSeriesLimit, d.GPCategories[2].MaxSeries)
}

func TestNewLoadout_hasAllSlots(t *testing.T) {
	l := NewLoadout("a", "test")
	assert.Len(t, l.Components, len(ComponentTypes))
	for _, ct := range ComponentTypes {
		assert.True(t, l.Components[ct].Empty())
	}
	assert.True(t, l.Drivers[0].Empty())
	assert.False(t, l.CreatedAt.IsZero())
}

func TestGPEventsDocument_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "envelope",
			data: `{"events":[{"id":"gp1","races":{"Qualifying":[{"track":"Monaco","lap_count":8}]}}]}`,
		},
		{
			name: "bare list",
			data: `[{"id":"gp1","races":{"Qualifying":[{"track":"Monaco","lap_count":8}]}}]`,
		},
		{
			name: "lower case race keys",
			data: `[{"id":"gp1","races":{"qualifying":[{"track":"Monaco","lap_count":8}]}}]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc GPEventsDocument
			require.NoError(t, json.Unmarshal([]byte(tt.data), &doc))
			require.Len(t, doc.Events, 1)
			assert.Equal(t, "gp1", doc.Events[0].ID)
			assert.Equal(t, []GPRace{{Track: "Monaco", LapCount: 8}}, doc.Events[0].Races[RaceQualifying])
			assert.Len(t, doc.Events[0].Races, 1)
		})
	}
}

func TestLoadDefaults_gpEvent(t *testing.T) {
	d := MustLoadDefaults()
	assert.Equal(t, "Challenger", d.GPEvent.Category)
	assert.Len(t, d.GPEvent.Races[RaceQualifying], 1)
	assert.Len(t, d.GPEvent.Races[RaceOpening], 8)
	assert.Len(t, d.GPEvent.Races[RaceFinal], 8)
	assert.Equal(t, GPRace{Track: "Barcelona", LapCount: 9}, d.GPEvent.Races[RaceFinal][2])
}
