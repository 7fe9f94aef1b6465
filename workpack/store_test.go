package workpack_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	customerrors "aviation-ops/errors"
	"aviation-ops/models"
	"aviation-ops/workpack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const packsYAML = `
work_packs:
  - id: WP-2024-002
    title: B787 Engine #1 Oil Filter Replacement
    aircraft_type: Boeing 787
    created_by: Jane Smith
    date_created: "2024-05-18T14:30:00Z"
    status: approved
    tasks:
      - id: t-001
        description: Gain access to the engine #1 oil filter housing.
        is_completed: true
      - description: Drain residual oil and remove the old filter element.
  - id: WP-2024-001
    title: A320 Main Landing Gear Inspection
    aircraft_type: Airbus A320
    tasks:
      - description: Visually inspect gear structure for cracks.
  - title: Untracked pack
`

func fixedClock() time.Time {
	return time.Date(2025, time.March, 3, 8, 30, 0, 0, time.UTC)
}

func loadStore(t *testing.T) *workpack.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "packs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(packsYAML), 0644))

	store := workpack.NewStore(workpack.WithClock(fixedClock))
	require.NoError(t, store.Load(path))
	return store
}

func TestStore_Load(t *testing.T) {
	store := loadStore(t)
	packs := store.List()
	require.Len(t, packs, 3)

	assert.Equal(t, models.StatusApproved, packs[0].Status)
	assert.Equal(t, "t-001", packs[0].Tasks[0].ID)
	assert.True(t, packs[0].Tasks[0].IsCompleted)
	assert.Equal(t, "t-002", packs[0].Tasks[1].ID)

	assert.Equal(t, models.StatusPendingReview, packs[1].Status)
	assert.Equal(t, "Airbus A320", packs[1].AircraftType)

	assert.Regexp(t, `^WP-[0-9a-f-]{36}$`, packs[2].ID)
}

func TestStore_LoadRejectsUnknownStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("work_packs:\n  - id: WP-1\n    status: shelved\n"), 0644))

	err := workpack.NewStore().Load(path)
	assert.True(t, errors.Is(err, customerrors.ErrInvalidStatus))
}

func TestStore_Add(t *testing.T) {
	store := loadStore(t)

	wp, err := store.Add(workpack.Draft{
		Title:        "  ATR 72 Cabin Lighting System Check ",
		AircraftType: "ATR 72",
		CreatedBy:    "Current User",
		Tasks:        []string{"Check cabin lights", "", "  Check emergency lights  "},
	})
	require.NoError(t, err)

	assert.Equal(t, "WP-2025-004", wp.ID)
	assert.Equal(t, "ATR 72 Cabin Lighting System Check", wp.Title)
	assert.Equal(t, "2025-03-03T08:30:00Z", wp.DateCreated)
	assert.Equal(t, models.StatusPendingReview, wp.Status)
	assert.Equal(t, []models.WorkPackTask{
		{ID: "t-001", Description: "Check cabin lights"},
		{ID: "t-002", Description: "Check emergency lights"},
	}, wp.Tasks)

	assert.Equal(t, wp.ID, store.List()[0].ID, "new packs come first")

	_, err = store.Add(workpack.Draft{Title: " "})
	assert.Error(t, err)
}

func TestStore_AddSkipsTakenIDs(t *testing.T) {
	store := workpack.NewStore(workpack.WithClock(fixedClock))

	first, err := store.Add(workpack.Draft{Title: "first"})
	require.NoError(t, err)
	assert.Equal(t, "WP-2025-001", first.ID)

	second, err := store.Add(workpack.Draft{Title: "second"})
	require.NoError(t, err)
	assert.Equal(t, "WP-2025-002", second.ID)
}

func TestStore_SetStatus(t *testing.T) {
	tests := map[string]struct {
		id            string
		status        models.WorkPackStatus
		expectedError error
	}{
		"Approve":       {id: "WP-2024-001", status: models.StatusApproved},
		"Reject":        {id: "WP-2024-002", status: models.StatusRejected},
		"BackToPending": {id: "WP-2024-001", status: models.StatusPendingReview, expectedError: customerrors.ErrInvalidStatus},
		"UnknownPack":   {id: "WP-1999-001", status: models.StatusApproved, expectedError: customerrors.ErrWorkPackNotFound},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store := loadStore(t)

			wp, err := store.SetStatus(tt.id, tt.status)
			if tt.expectedError != nil {
				assert.True(t, errors.Is(err, tt.expectedError), "expected %v, got %v", tt.expectedError, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, wp.Status)

			got, err := store.Get(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status)
		})
	}
}

func TestStore_ListIsACopy(t *testing.T) {
	store := loadStore(t)

	packs := store.List()
	packs[0].Title = "changed"

	got, err := store.Get("WP-2024-002")
	require.NoError(t, err)
	assert.Equal(t, "B787 Engine #1 Oil Filter Replacement", got.Title)
}

func TestStore_SaveAndReload(t *testing.T) {
	store := loadStore(t)
	_, err := store.Add(workpack.Draft{Title: "Wheel change", Tasks: []string{"Jack aircraft"}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, store.Save(path))

	reloaded := workpack.NewStore()
	require.NoError(t, reloaded.Load(path))
	assert.Equal(t, store.List(), reloaded.List())
}

func TestParseStatus(t *testing.T) {
	status, err := workpack.ParseStatus("Approve")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, status)

	status, err = workpack.ParseStatus("pending review")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingReview, status)

	_, err = workpack.ParseStatus("done")
	assert.True(t, errors.Is(err, customerrors.ErrInvalidStatus))
}
