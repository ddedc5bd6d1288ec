package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockNATS struct {
	mock.Mock
}

func (m *MockNATS) Status() nats.Status {
	args := m.Called()
	return args.Get(0).(nats.Status)
}

func TestChecker_Check_AllHealthy(t *testing.T) {
	cache := new(MockPinger)
	nc := new(MockNATS)

	cache.On("Ping", mock.Anything).Return(nil)
	nc.On("Status").Return(nats.CONNECTED)

	hc := NewHealthChecker(cache, nc)
	status := hc.Check(context.Background())

	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "healthy", status["cache"])
	assert.Equal(t, "healthy", status["broadcast"])
}

func TestChecker_Check_CacheUnhealthy(t *testing.T) {
	cache := new(MockPinger)
	nc := new(MockNATS)

	cache.On("Ping", mock.Anything).Return(errors.New("connection refused"))
	nc.On("Status").Return(nats.CONNECTED)

	hc := NewHealthChecker(cache, nc)
	status := hc.Check(context.Background())

	assert.Equal(t, "degraded", status["status"])
	assert.Equal(t, "unhealthy", status["cache"])
}

func TestChecker_Check_NilDependenciesAreOmitted(t *testing.T) {
	hc := NewHealthChecker(nil, nil)
	status := hc.Check(context.Background())

	assert.Equal(t, "ok", status["status"])
	_, hasCache := status["cache"]
	_, hasBroadcast := status["broadcast"]
	assert.False(t, hasCache)
	assert.False(t, hasBroadcast)
}

func TestChecker_Handler(t *testing.T) {
	cache := new(MockPinger)
	nc := new(MockNATS)

	cache.On("Ping", mock.Anything).Return(nil)
	nc.On("Status").Return(nats.CONNECTED)

	hc := NewHealthChecker(cache, nc)

	req, _ := http.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()

	hc.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
}
