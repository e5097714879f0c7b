package app

import (
	"context"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/rust-tracker/internal/config"
	mocksvc "github.com/stacklok/rust-tracker/internal/service/mocks"
)

// mockCoordinator implements the coordinator.Coordinator interface for testing
type mockCoordinator struct {
	mu          sync.Mutex
	startCalled bool
	stopCalled  bool
	stopErr     error
}

func (m *mockCoordinator) Start(ctx context.Context) error {
	m.mu.Lock()
	m.startCalled = true
	m.mu.Unlock()

	<-ctx.Done()
	return nil
}

func (m *mockCoordinator) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalled = true
	return m.stopErr
}

func (m *mockCoordinator) wasStartCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startCalled
}

func (m *mockCoordinator) wasStopCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalled
}

// closingProvider records Close calls on a live provider
type closingProvider struct {
	emptyProvider
	mu     sync.Mutex
	closed int
}

func (p *closingProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed++
	return nil
}

func (p *closingProvider) closeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// createTestAppConfig creates a minimal valid config for testing
func createTestAppConfig() *config.Config {
	return &config.Config{
		Storage: &config.StorageConfig{Type: config.StorageTypeMemory},
		Notify:  &config.NotifyConfig{Driver: config.NotifyDriverLog},
	}
}

// createTestApp constructs a TrackerApp directly, bypassing NewTrackerApp
func createTestApp(t *testing.T, ctrl *gomock.Controller, addr string) *TrackerApp {
	t.Helper()

	mockSvc := mocksvc.NewMockTrackerService(ctrl)
	cfg := createTestAppConfig()

	appCtx, cancel := context.WithCancel(context.Background())

	appCfg := &trackerAppConfig{
		config:         cfg,
		address:        addr,
		requestTimeout: 10 * time.Second,
		readTimeout:    10 * time.Second,
		writeTimeout:   15 * time.Second,
		idleTimeout:    60 * time.Second,
	}
	server, err := buildHTTPServer(appCfg, mockSvc)
	require.NoError(t, err)

	return &TrackerApp{
		config: cfg,
		components: &AppComponents{
			RosterCoordinator:    &mockCoordinator{},
			DiscoveryCoordinator: &mockCoordinator{},
			TrackerService:       mockSvc,
			LiveProvider:         &closingProvider{},
		},
		httpServer: server,
		ctx:        appCtx,
		cancelFunc: cancel,
	}
}

func coordinators(app *TrackerApp) []*mockCoordinator {
	return []*mockCoordinator{
		app.components.RosterCoordinator.(*mockCoordinator),
		app.components.DiscoveryCoordinator.(*mockCoordinator),
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

func TestTrackerApp_StartAndStop(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	app := createTestApp(t, ctrl, freeAddr(t))

	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Start()
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + app.httpServer.Addr + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	for _, c := range coordinators(app) {
		assert.Eventually(t, c.wasStartCalled, time.Second, 10*time.Millisecond)
	}

	require.NoError(t, app.Stop(5*time.Second))

	select {
	case startErr := <-errChan:
		require.NoError(t, startErr)
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after Stop()")
	}

	for _, c := range coordinators(app) {
		assert.True(t, c.wasStopCalled())
	}
	assert.Equal(t, 1, app.components.LiveProvider.(*closingProvider).closeCount())
}

func TestTrackerApp_Stop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout time.Duration
		start   bool
	}{
		{name: "graceful shutdown with normal timeout", timeout: 5 * time.Second, start: true},
		{name: "graceful shutdown with short timeout", timeout: time.Second, start: true},
		{name: "stop without starting first", timeout: 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			app := createTestApp(t, ctrl, freeAddr(t))

			if tt.start {
				go func() { _ = app.Start() }()
				time.Sleep(100 * time.Millisecond)
			}

			require.NoError(t, app.Stop(tt.timeout))
			for _, c := range coordinators(app) {
				assert.True(t, c.wasStopCalled())
			}
			assert.ErrorIs(t, app.ctx.Err(), context.Canceled)
		})
	}
}

func TestTrackerApp_StopIdempotent(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	app := createTestApp(t, ctrl, freeAddr(t))

	require.NoError(t, app.Stop(5*time.Second))
	require.NoError(t, app.Stop(5*time.Second))
	assert.Equal(t, 1, app.components.LiveProvider.(*closingProvider).closeCount())
}

func TestTrackerApp_StopWithNilCancelFunc(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	app := createTestApp(t, ctrl, ":0")
	app.cancelFunc = nil

	require.NoError(t, app.Stop(5*time.Second))
}

func TestTrackerApp_Getters(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	app := createTestApp(t, ctrl, ":8080")

	require.NotNil(t, app.GetConfig())
	assert.Equal(t, config.StorageTypeMemory, app.GetConfig().GetStorageType())

	require.NotNil(t, app.GetHTTPServer())
	assert.Equal(t, ":8080", app.GetHTTPServer().Addr)
}

func TestTrackerApp_StartError_AddressInUse(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	app := createTestApp(t, ctrl, listener.Addr().String())
	t.Cleanup(func() { _ = app.Stop(time.Second) })

	err = app.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP server failed")
}
