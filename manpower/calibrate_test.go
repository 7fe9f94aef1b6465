package manpower_test

import (
	"math/rand"
	"testing"

	"aviation-ops/manpower"
	"aviation-ops/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zone(code string, counts models.Counts) models.PerZoneManpower {
	return models.PerZoneManpower{Zone: models.String(code), Counts: counts}
}

func TestCalibrate(t *testing.T) {
	// ratioOnly disables the target pass so ratio behaviour can be read directly.
	ratioOnly := manpower.DefaultConfig()
	ratioOnly.Target = nil

	// targetOnly keeps the ratio band out of the way.
	targetOnly := manpower.DefaultConfig()
	targetOnly.MECRatioMin = 0
	targetOnly.MECRatioMax = 1000

	tests := map[string]struct {
		cfg         manpower.Config
		input       []models.PerZoneManpower
		expected    []models.Counts
		adjustments []models.Adjustment
	}{
		"RatioRaisesMECWhereSpecialistsAre": {
			cfg:      ratioOnly,
			input:    []models.PerZoneManpower{zone("100", models.Counts{models.ME128: 3}), zone("300", models.Counts{models.ME34: 2})},
			expected: []models.Counts{{models.ME128: 3, models.MEC: 3}, {models.ME34: 2, models.MEC: 2}},
			adjustments: []models.Adjustment{
				{Stage: manpower.StageRatio, PersonnelType: models.MEC, Before: 0, After: 5},
			},
		},
		"RatioCapsMECProportionally": {
			cfg:      ratioOnly,
			input:    []models.PerZoneManpower{zone("A", models.Counts{models.B1: 1, models.MEC: 10}), zone("B", models.Counts{models.MEC: 2})},
			expected: []models.Counts{{models.B1: 1, models.MEC: 2}, {}},
			adjustments: []models.Adjustment{
				{Stage: manpower.StageRatio, PersonnelType: models.MEC, Before: 12, After: 2},
			},
		},
		"WithinBandUnchanged": {
			cfg:      ratioOnly,
			input:    []models.PerZoneManpower{zone("A", models.Counts{models.B1: 2, models.MEC: 3})},
			expected: []models.Counts{{models.B1: 2, models.MEC: 3}},
		},
		"NoSpecialistsLeavesMEC": {
			cfg:      ratioOnly,
			input:    []models.PerZoneManpower{zone("ZZZ", models.Counts{models.MEC: 7})},
			expected: []models.Counts{{models.MEC: 7}},
		},
		"TargetScalesPreservingShape": {
			cfg:      targetOnly,
			input:    []models.PerZoneManpower{zone("100", models.Counts{models.ME128: 4}), zone("200", models.Counts{models.ME128: 2})},
			expected: []models.Counts{{models.ME128: 1}, {models.ME128: 1}},
			adjustments: []models.Adjustment{
				{Stage: manpower.StageTarget, PersonnelType: models.ME128, Before: 6, After: 2},
			},
		},
		"TargetRoundsSmallSharesToZero": {
			cfg: targetOnly,
			input: []models.PerZoneManpower{
				zone("300", models.Counts{models.ME34: 4}),
				zone("400", models.Counts{models.ME34: 1}),
				zone("70", models.Counts{models.ME34: 1}),
			},
			expected: []models.Counts{{models.ME34: 1}, {}, {}},
			adjustments: []models.Adjustment{
				{Stage: manpower.StageTarget, PersonnelType: models.ME34, Before: 6, After: 1},
			},
		},
		"TypeWithoutTargetUnchanged": {
			cfg:      targetOnly,
			input:    []models.PerZoneManpower{zone("CAB", models.Counts{models.CAB: 3})},
			expected: []models.Counts{{models.CAB: 3}},
		},
		"RatioWinsOverTarget": {
			cfg:      manpower.DefaultConfig(),
			input:    []models.PerZoneManpower{zone("100", models.Counts{models.ME128: 1, models.MEC: 8})},
			expected: []models.Counts{{models.ME128: 2, models.MEC: 4}},
			adjustments: []models.Adjustment{
				{Stage: manpower.StageTarget, PersonnelType: models.ME128, Before: 1, After: 2},
				{Stage: manpower.StageTarget, PersonnelType: models.MEC, Before: 8, After: 15},
				{Stage: manpower.StageRatio, PersonnelType: models.MEC, Before: 15, After: 4},
			},
		},
		"ZeroWeightKeepsRawTotals": {
			cfg: func() manpower.Config {
				c := manpower.DefaultConfig()
				c.CalibrationWeight = 0
				return c
			}(),
			input:    []models.PerZoneManpower{zone("100", models.Counts{models.ME128: 5, models.MEC: 6})},
			expected: []models.Counts{{models.ME128: 5, models.MEC: 6}},
		},
		"Empty": {
			cfg:      manpower.DefaultConfig(),
			input:    []models.PerZoneManpower{},
			expected: []models.Counts{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, adjustments := manpower.Calibrate(tt.input, tt.cfg)
			require.Len(t, out, len(tt.expected))
			for i := range tt.expected {
				assert.Equal(t, tt.input[i].Zone, out[i].Zone)
				assert.Equal(t, tt.expected[i], out[i].Counts, "zone %d", i)
			}
			assert.Equal(t, tt.adjustments, adjustments)
		})
	}
}

func TestCalibrate_DoesNotMutateInput(t *testing.T) {
	input := []models.PerZoneManpower{zone("100", models.Counts{models.ME128: 1, models.MEC: 8})}

	_, _ = manpower.Calibrate(input, manpower.DefaultConfig())

	assert.Equal(t, models.Counts{models.ME128: 1, models.MEC: 8}, input[0].Counts)
}

func TestCalibrate_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cfg := manpower.DefaultConfig()

	for run := 0; run < 200; run++ {
		zones := make([]models.PerZoneManpower, 1+rng.Intn(8))
		for i := range zones {
			counts := models.Counts{}
			for _, pt := range models.AllPersonnelTypes {
				if rng.Intn(3) == 0 {
					counts[pt] = 1 + rng.Intn(6)
				}
			}
			zones[i] = zone(string(rune('A'+i)), counts)
		}

		out, _ := manpower.Calibrate(zones, cfg)
		totals := manpower.Totals(out)

		for _, pt := range models.AllPersonnelTypes {
			sum := 0
			for _, z := range out {
				assert.GreaterOrEqual(t, z.Counts[pt], 0)
				sum += z.Counts[pt]
			}
			assert.Equal(t, sum, totals[pt], "run %d type %s", run, pt)
		}

		specialists := totals.Specialists()
		if specialists > 0 {
			assert.GreaterOrEqual(t, totals[models.MEC], specialists, "run %d", run)
			assert.LessOrEqual(t, totals[models.MEC], 2*specialists, "run %d", run)
		}
	}
}
