package filter

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreset_Overdue(t *testing.T) {
	current := Default()
	current.OnlyNoDeadline = true
	current.IncludeNoDeadline = true

	p := Preset(current, PresetOverdue)

	require.NotNil(t, p.ShowOverdue)
	require.NotNil(t, p.DeadlineMinDays)
	require.NotNil(t, p.DeadlineMaxDays)
	require.NotNil(t, p.IncludeNoDeadline)
	require.NotNil(t, p.OnlyNoDeadline)

	assert.True(t, *p.ShowOverdue)
	assert.Equal(t, MinDeadlineDays, *p.DeadlineMinDays)
	assert.Equal(t, -1, *p.DeadlineMaxDays)
	assert.False(t, *p.IncludeNoDeadline)
	assert.False(t, *p.OnlyNoDeadline)

	merged := current.Apply(p)
	assert.False(t, merged.OnlyNoDeadline)
	assert.True(t, merged.ShowOverdue)
}

func TestPreset_IgnoresCurrentFilter(t *testing.T) {
	other := Default()
	other.SearchTerm = "climate"
	other.Statuses = []string{}

	for _, info := range Presets() {
		a := Preset(Default(), info.Key)
		b := Preset(other, info.Key)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("Preset(%s) depends on current filter (-a +b):\n%s", info.Key, diff)
		}
	}
}

func TestPreset_SelfConsistent(t *testing.T) {
	for _, info := range Presets() {
		p := Preset(Default(), info.Key)
		if diff := cmp.Diff(p, Validate(p)); diff != "" {
			t.Errorf("Preset(%s) is not a validator fixed point (-preset +validated):\n%s", info.Key, diff)
		}
		assert.NotEqual(t, Patch{}, p, "preset %s produced an empty patch", info.Key)
		assert.NotEmpty(t, info.Label)
	}
}

func TestPreset_UnknownKey(t *testing.T) {
	assert.Equal(t, Patch{}, Preset(Default(), PresetKey("NOT_A_PRESET")))
	assert.Equal(t, Patch{}, Preset(Default(), ""))
}

func TestPreset_NoDeadlineIsRepaired(t *testing.T) {
	p := Preset(Default(), PresetNoDeadline)

	require.NotNil(t, p.IncludeNoDeadline)
	require.NotNil(t, p.ShowOverdue)
	assert.True(t, *p.OnlyNoDeadline)
	assert.True(t, *p.IncludeNoDeadline)
	assert.False(t, *p.ShowOverdue)
}

func TestPreset_NoFundingInfoIsRepaired(t *testing.T) {
	p := Preset(Default(), PresetNoFundingInfo)

	require.NotNil(t, p.IncludeFundingNull)
	assert.True(t, *p.OnlyNoFunding)
	assert.True(t, *p.IncludeFundingNull)
}

func TestPreset_HighFundingMapsToTrueMaximum(t *testing.T) {
	f := Default().Apply(Preset(Default(), PresetHighFunding))

	q := ToQuery(f, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "1000000", q.Get(ParamFundingMin))
	assert.Equal(t, "9007199254740991", q.Get(ParamFundingMax))
	assert.Equal(t, "false", q.Get(ParamIncludeNoFunding))
}

func TestPreset_OpenOnly(t *testing.T) {
	f := Default().Apply(Preset(Default(), PresetOpenOnly))

	assert.Equal(t, []string{"open"}, f.Statuses)
}

func TestParsePresetKey(t *testing.T) {
	tests := []struct {
		in     string
		want   PresetKey
		wantOK bool
	}{
		{"OVERDUE", PresetOverdue, true},
		{"overdue", PresetOverdue, true},
		{" high-funding ", PresetHighFunding, true},
		{"no_deadline", PresetNoDeadline, true},
		{"bogus", PresetKey("BOGUS"), false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePresetKey(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
