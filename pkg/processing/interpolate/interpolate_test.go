//nolint:funlen // ok for tests
package interpolate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/clash-manager-go/pkg/model"
)

func componentLevel(level int, speed, cornering, pu, quali, pit float64) model.ComponentLevelStats {
	s := model.CarStats{Speed: speed, Cornering: cornering, PowerUnit: pu, Qualifying: quali, PitTime: pit}
	return model.ComponentLevelStats{Level: level, CarStats: s, TotalValue: model.RawComponentTotal(s)}
}

func driverLevel(level, ot, def, quali, rs, tm int) model.DriverLevelStats {
	s := model.DriverStats{Overtaking: ot, Defending: def, Qualifying: quali, RaceStart: rs, TyreMgmt: tm}
	return model.DriverLevelStats{Level: level, DriverStats: s, TotalValue: s.Total()}
}

func sampleComponentTable() map[int]model.ComponentLevelStats {
	return map[int]model.ComponentLevelStats{
		5: componentLevel(5, 10, 4, 6, 8, 0.9),
		9: componentLevel(9, 20, 8, 10, 12, 0.5),
	}
}

func TestGetStats_component(t *testing.T) {
	table := sampleComponentTable()
	tests := []struct {
		name  string
		level int
		want  model.ComponentLevelStats
	}{
		{
			name:  "exact lower",
			level: 5,
			want:  table[5],
		},
		{
			name:  "exact upper",
			level: 9,
			want:  table[9],
		},
		{
			name:  "midpoint",
			level: 7,
			want:  componentLevel(7, 15, 6, 8, 10, 0.7),
		},
		{
			name:  "below lowest clamps",
			level: 1,
			want:  table[5],
		},
		{
			name:  "above highest clamps",
			level: 11,
			want:  table[9],
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetStats(table, tt.level)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got, floatApprox()); diff != "" {
				t.Errorf("GetStats() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetStats_midpointSpeed(t *testing.T) {
	got, err := GetStats(sampleComponentTable(), 7)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, got.Speed, 1e-9)
	assert.Equal(t, 7, got.Level)
	assert.InDelta(t, got.Speed+got.Cornering+got.PowerUnit+got.Qualifying+got.PitTime,
		got.TotalValue, 1e-9, "total is derived from interpolated stats")
}

func TestGetStats_emptyTable(t *testing.T) {
	_, err := GetStats(map[int]model.ComponentLevelStats{}, 3)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = Driver(nil, 3)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetStats_driverRounding(t *testing.T) {
	table := map[int]model.DriverLevelStats{
		1: driverLevel(1, 10, 10, 10, 10, 10),
		3: driverLevel(3, 11, 13, 12, 10, 15),
	}
	got, err := GetStats(table, 2)
	require.NoError(t, err)
	// 10.5 -> 10, 11.5 -> 12, 12.5 -> 12 (half to even)
	want := driverLevel(2, 10, 12, 11, 10, 12)
	assert.Equal(t, want, got)
	assert.Equal(t, got.Total(), got.TotalValue)
}

func TestGetStats_monotonic(t *testing.T) {
	table := map[int]model.ComponentLevelStats{
		2:  componentLevel(2, 3, 1, 1, 1, 1.2),
		10: componentLevel(10, 27, 9, 5, 13, 0.4),
	}
	for level := 3; level < 10; level++ {
		got, err := GetStats(table, level)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.Speed, 3.0)
		assert.LessOrEqual(t, got.Speed, 27.0)
		// decreasing attribute stays within bounds too
		assert.GreaterOrEqual(t, got.PitTime, 0.4)
		assert.LessOrEqual(t, got.PitTime, 1.2)
	}
}

func TestGetStats_exactIsUnmodified(t *testing.T) {
	// a stored total that does not match the sum must come back untouched
	odd := componentLevel(4, 1, 1, 1, 1, 1)
	odd.TotalValue = 99
	table := map[int]model.ComponentLevelStats{4: odd, 8: componentLevel(8, 2, 2, 2, 2, 2)}
	got, err := GetStats(table, 4)
	require.NoError(t, err)
	assert.Equal(t, odd, got)
}

func TestComponent(t *testing.T) {
	levels := &model.ComponentLevels{Name: "The Stabiliser", Levels: sampleComponentTable()}
	got, err := Component(levels, 7)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, got.Speed, 1e-9)

	_, err = Component(&model.ComponentLevels{Name: "empty"}, 7)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func floatApprox() cmp.Option {
	return cmp.Comparer(func(a, b float64) bool {
		d := a - b
		return d < 1e-9 && d > -1e-9
	})
}
