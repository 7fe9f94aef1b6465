package sheets_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	customerrors "aviation-ops/errors"
	"aviation-ops/models"
	"aviation-ops/sheets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newStore(t *testing.T, handler http.HandlerFunc) *sheets.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return sheets.New(srv.URL, sheets.WithHTTPClient(srv.Client()))
}

func TestFetch(t *testing.T) {
	client := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.NotEmpty(t, r.Header.Get(sheets.RequestIDHeader))
		_, _ = io.WriteString(w, `[
			{"Date":45292,"AircraftType":"A321","Airport":"SGN","WorkType":"Transit","Flights":"4","ManHours":12.5,"FileName":"jan.xlsx"},
			{"Date":"2024-01-02","AircraftType":787,"Airport":"HAN","Flights":"n/a","ManHours":null}
		]`)
	})

	logs, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.WorkLog{
		{Date: models.Number(45292), AircraftType: "A321", Airport: "SGN", WorkType: "Transit", Flights: 4, ManHours: 12.5, FileName: "jan.xlsx"},
		{Date: models.String("2024-01-02"), AircraftType: "787", Airport: "HAN"},
	}, logs)
}

func TestFetch_Failures(t *testing.T) {
	tests := map[string]struct {
		handler       http.HandlerFunc
		expectedError error
	}{
		"ServerError": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectedError: customerrors.ErrRemoteStatus,
		},
		"NotJSON": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, "<html>login</html>")
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := newStore(t, tt.handler).Fetch(context.Background())
			require.Error(t, err)
			if tt.expectedError != nil {
				assert.True(t, errors.Is(err, tt.expectedError))
			}
		})
	}
}

func TestFetch_NoURL(t *testing.T) {
	_, err := sheets.New("").Fetch(context.Background())
	assert.True(t, errors.Is(err, customerrors.ErrInvalidConfig))
}

func TestSave(t *testing.T) {
	var received []map[string]any
	client := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "text/plain;charset=utf-8", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})

	logs := []models.WorkLog{
		{Date: models.String("2024-01-05"), Airport: "SGN", Flights: 2, ManHours: 6, FileName: "stale.xlsx"},
		{Date: models.Number(45296), Airport: "HAN", Flights: 1},
	}

	status, err := client.Save(context.Background(), logs, "jan.xlsx")
	require.NoError(t, err)
	assert.Equal(t, sheets.SaveSuccess, status)

	require.Len(t, received, 2)
	assert.Equal(t, "jan.xlsx", received[0]["FileName"])
	assert.Equal(t, "jan.xlsx", received[1]["FileName"])
	assert.Equal(t, 45296.0, received[1]["Date"])
	assert.Equal(t, "stale.xlsx", logs[0].FileName, "input must not be modified")
}

func TestSave_Skipped(t *testing.T) {
	client := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty batch")
	})

	status, err := client.Save(context.Background(), nil, "empty.xlsx")
	require.NoError(t, err)
	assert.Equal(t, sheets.SaveSkipped, status)
}

func TestSave_RemoteError(t *testing.T) {
	client := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"sheet is locked"}`)
	})

	status, err := client.Save(context.Background(), []models.WorkLog{{Airport: "SGN"}}, "jan.xlsx")
	assert.Equal(t, sheets.SaveError, status)
	assert.True(t, errors.Is(err, customerrors.ErrRemoteStatus))
	assert.Contains(t, err.Error(), "sheet is locked")
}

func TestSave_ContextCanceled(t *testing.T) {
	client := newStore(t, func(w http.ResponseWriter, r *http.Request) {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	status, err := client.Save(ctx, []models.WorkLog{{Airport: "SGN"}}, "jan.xlsx")
	assert.Equal(t, sheets.SaveError, status)
	assert.True(t, errors.Is(err, context.Canceled))
}
