package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/premonitor/premonitor/pkg/alerts"
	"github.com/premonitor/premonitor/pkg/decision"
	"github.com/premonitor/premonitor/pkg/hardware"
	"github.com/premonitor/premonitor/pkg/inference"
	"github.com/premonitor/premonitor/pkg/metrics"
	"github.com/premonitor/premonitor/pkg/models"
	"github.com/premonitor/premonitor/pkg/monitor"
	"github.com/premonitor/premonitor/pkg/registry"
	"github.com/premonitor/premonitor/pkg/resource"
	"github.com/premonitor/premonitor/pkg/timeseries"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	unit := models.EquipmentUnit{
		ID:     "fridge-a1",
		Kind:   models.KindFridge,
		NodeID: "lab-node-1",
		Sensors: map[models.SensorKind]models.SensorConfig{
			models.SensorThermal:  {Enabled: true},
			models.SensorAcoustic: {Enabled: true},
		},
	}

	reg, err := registry.New([]models.EquipmentUnit{unit})
	require.NoError(t, err)

	shapes := map[models.SensorKind][]int{
		models.SensorThermal:  {24, 32, 1},
		models.SensorAcoustic: {40},
	}

	scalarOut := inference.TensorSpec{Shape: []int{1}, Type: inference.TypeFloat32}
	engine := inference.NewEngine(zap.NewNop(),
		&inference.Artifact{
			Kind:   models.ModelThermalCNN,
			Input:  inference.TensorSpec{Shape: shapes[models.SensorThermal], Type: inference.TypeFloat32},
			Output: scalarOut,
			Runner: &inference.StaticRunner{Output: scalarOut, Score: 0.1},
		},
		&inference.Artifact{
			Kind:   models.ModelAcousticCNN,
			Input:  inference.TensorSpec{Shape: shapes[models.SensorAcoustic], Type: inference.TypeFloat32},
			Output: scalarOut,
			Runner: &inference.StaticRunner{Output: scalarOut, Score: 0.1},
		},
	)

	governor := resource.NewGovernorWithProbe(func(context.Context) (models.ResourceSample, error) {
		return models.ResourceSample{Timestamp: time.Now(), MemoryMB: 128, CPUPercent: 5}, nil
	}, models.ResourceLimits{}, zap.NewNop())

	mets := metrics.New()

	mon := monitor.New("lab-node-1", 30*time.Second, monitor.Deps{
		Registry:   reg,
		Provider:   hardware.NewSimulated(shapes, 1),
		Inference:  engine,
		Windows:    timeseries.NewStore(timeseries.DefaultCapacity),
		Decision:   decision.NewEngine(zap.NewNop()),
		Dispatcher: alerts.NewDispatcher(5*time.Minute, zap.NewNop()),
		Governor:   governor,
		Metrics:    mets,
		Logger:     zap.NewNop(),
	})

	mon.RunCycle(context.Background())

	return NewServer(mon, governor, mets, zap.NewNop())
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	return rec
}

func TestGetStatus(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap monitor.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))

	assert.Equal(t, "lab-node-1", snap.NodeID)
	assert.Equal(t, uint64(1), snap.Cycles)
	require.Len(t, snap.Units, 1)
	assert.Equal(t, "fridge-a1", snap.Units[0].EquipmentID)
}

func TestGetUnits(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/api/units")
	require.Equal(t, http.StatusOK, rec.Code)

	var units []monitor.UnitStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &units))
	require.Len(t, units, 1)
	assert.Equal(t, models.KindFridge, units[0].Kind)
	assert.Equal(t, 2, units[0].SensorsRead)
}

func TestGetUnit(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/api/units/fridge-a1")
	require.Equal(t, http.StatusOK, rec.Code)

	var unit monitor.UnitStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &unit))
	assert.Equal(t, "fridge-a1", unit.EquipmentID)
	assert.Contains(t, unit.Scores, models.SignalThermalConfidence)
}

func TestGetUnitNotFound(t *testing.T) {
	s := testServer(t)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/units/nope").Code)
}

func TestGetResources(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/api/resources")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Stats   resource.Stats          `json:"stats"`
		History []models.ResourceSample `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 1, resp.Stats.Samples)
	assert.InDelta(t, 128, resp.Stats.MemoryAvgMB, 1e-9)
	require.Len(t, resp.History, 1)
}

func TestGetMetrics(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "premonitor_cycles_total")
}

func TestGetHealth(t *testing.T) {
	s := testServer(t)
	assert.Equal(t, http.StatusOK, get(t, s, "/healthz").Code)
}
