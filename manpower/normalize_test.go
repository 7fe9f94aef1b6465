package manpower_test

import (
	"errors"
	"testing"

	customerrors "aviation-ops/errors"
	"aviation-ops/manpower"
	"aviation-ops/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cfg := manpower.DefaultConfig()

	tests := map[string]struct {
		input    []models.RawTask
		expected []models.NormalizedTask
	}{
		"FalsyHoursDefaulted": {
			input: []models.RawTask{
				{"zone division": models.String("100"), "MAC hour": models.Number(4), "tiêu đề các task": models.String("Inspect skin")},
				{"zone division": models.String("100"), "MAC hour": models.Number(4), "tiêu đề các task": models.String("Inspect frame")},
				{"zone division": models.String("100"), "MAC hour": models.Number(0), "tiêu đề các task": models.String("Close panel")},
			},
			expected: []models.NormalizedTask{
				{Zone: models.String("100"), Hours: 4, Title: "Inspect skin"},
				{Zone: models.String("100"), Hours: 4, Title: "Inspect frame"},
				{Zone: models.String("100"), Hours: 0.009, Title: "Close panel"},
			},
		},
		"MissingHoursColumn": {
			input: []models.RawTask{
				{"zone": models.Number(200), "title": models.String("Lube hinge")},
			},
			expected: []models.NormalizedTask{
				{Zone: models.Number(200), Hours: 0.009, Title: "Lube hinge"},
			},
		},
		"StringHours": {
			input: []models.RawTask{
				{"hours": models.String(" 2.5 ")},
				{"hours": models.String("n/a")},
				{"hours": models.String("0")},
				{"hours": models.String("")},
			},
			expected: []models.NormalizedTask{
				{Hours: 2.5},
				{Hours: 0.009},
				{Hours: 0.009},
				{Hours: 0.009},
			},
		},
		"CaseInsensitiveHeaders": {
			input: []models.RawTask{
				{" Zone  Division ": models.String(" AVI "), "mac HOUR": models.Number(3), "Title": models.String(" Test radio ")},
			},
			expected: []models.NormalizedTask{
				{Zone: models.String("AVI"), Hours: 3, Title: "Test radio"},
			},
		},
		"SentinelDefaults": {
			input: []models.RawTask{
				{"WO": models.String("WO-1"), "EOD": models.Absent},
				{"zone division": models.String("   ")},
			},
			expected: []models.NormalizedTask{
				{Zone: models.Absent, Hours: 0.009, Title: ""},
				{Zone: models.Absent, Hours: 0.009, Title: ""},
			},
		},
		"Empty": {
			input:    nil,
			expected: []models.NormalizedTask{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tasks, err := manpower.Normalize(tt.input, cfg)
			require.NoError(t, err)
			require.Len(t, tasks, len(tt.expected))
			for i := range tt.expected {
				assert.Equal(t, tt.expected[i].Zone, tasks[i].Zone, "zone of row %d", i)
				assert.InDelta(t, tt.expected[i].Hours, tasks[i].Hours, 1e-12, "hours of row %d", i)
				assert.Equal(t, tt.expected[i].Title, tasks[i].Title, "title of row %d", i)
			}
		})
	}
}

func TestNormalize_KeepsRawRow(t *testing.T) {
	row := models.RawTask{"WO": models.String("WO-77"), "MAC hour": models.Number(1)}
	tasks, err := manpower.Normalize([]models.RawTask{row}, manpower.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, models.String("WO-77"), tasks[0].Raw["WO"])
}

func TestNormalize_NegativeHours(t *testing.T) {
	input := []models.RawTask{
		{"MAC hour": models.Number(2)},
		{"MAC hour": models.String("-3")},
	}

	tasks, err := manpower.Normalize(input, manpower.DefaultConfig())
	assert.Nil(t, tasks)
	require.Error(t, err)
	assert.True(t, errors.Is(err, customerrors.ErrNegativeHours))

	var rowErr *customerrors.RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Row)
	assert.Equal(t, "MAC hour", rowErr.Field)
}

func TestNormalize_LengthAndPositiveHours(t *testing.T) {
	cells := []models.Value{
		models.Absent, models.Number(0), models.Number(1.5), models.String(""),
		models.String("abc"), models.String("7"), models.Number(0.25),
	}
	var input []models.RawTask
	for i, c := range cells {
		input = append(input, models.RawTask{"MAC hour": c, "zone": models.Number(float64(i))})
	}

	tasks, err := manpower.Normalize(input, manpower.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, tasks, len(input))
	for i, task := range tasks {
		assert.Greater(t, task.Hours, 0.0, "row %d", i)
	}
}
