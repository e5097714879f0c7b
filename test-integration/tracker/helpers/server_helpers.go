package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/onsi/gomega"

	trackerapp "github.com/stacklok/rust-tracker/internal/app"
	"github.com/stacklok/rust-tracker/internal/app/storage"
	"github.com/stacklok/rust-tracker/internal/config"
	"github.com/stacklok/rust-tracker/internal/store"
)

// ServerTestHelper manages the tracker lifecycle for testing
type ServerTestHelper struct {
	ctx        context.Context
	configPath string
	secret     string
	baseURL    string
	httpClient *http.Client
	factory    *storage.MemoryFactory
	sender     *RecordingSender
	app        *trackerapp.TrackerApp
}

// NewServerTestHelper creates a helper for the config at configPath.
// secret is sent in the Authorization header of admin requests.
func NewServerTestHelper(ctx context.Context, configPath, secret string) *ServerTestHelper {
	return &ServerTestHelper{
		ctx:        ctx,
		configPath: configPath,
		secret:     secret,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		factory:    storage.NewMemoryFactory(),
		sender:     &RecordingSender{},
	}
}

// Store returns the store the tracker will use, for seeding
func (s *ServerTestHelper) Store() store.Store {
	st, err := s.factory.CreateStore(s.ctx)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return st
}

// Sender returns the sender capturing notifications
func (s *ServerTestHelper) Sender() *RecordingSender {
	return s.sender
}

// StartServer builds the tracker and starts it on a free local port
func (s *ServerTestHelper) StartServer() error {
	cfg, err := config.LoadConfig(config.WithConfigPath(s.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	addr, err := freeAddress()
	if err != nil {
		return err
	}
	s.baseURL = "http://" + addr

	app, err := trackerapp.NewTrackerApp(s.ctx,
		trackerapp.WithConfig(cfg),
		trackerapp.WithAddress(addr),
		trackerapp.WithStorageFactory(s.factory),
		trackerapp.WithSender(s.sender),
	)
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}
	s.app = app

	go func() {
		if err := app.Start(); err != nil {
			// the test fails when it tries to connect
			fmt.Fprintf(os.Stderr, "Server start failed: %v\n", err)
		}
	}()
	return nil
}

// StopServer gracefully stops the tracker
func (s *ServerTestHelper) StopServer() error {
	if s.app != nil {
		return s.app.Stop(5 * time.Second)
	}
	return nil
}

// WaitForServerReady waits for the readiness endpoint to succeed
func (s *ServerTestHelper) WaitForServerReady(timeout time.Duration) {
	gomega.Eventually(func() error {
		resp, err := s.httpClient.Get(s.baseURL + "/readiness")
		if err != nil {
			return err
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned status %d", resp.StatusCode)
		}
		return nil
	}, timeout, 100*time.Millisecond).Should(gomega.Succeed(), "Server should be ready")
}

// Get performs an authenticated GET
func (s *ServerTestHelper) Get(path string) (*http.Response, error) {
	return s.do(http.MethodGet, path, nil, true)
}

// GetAnonymous performs a GET without the shared secret
func (s *ServerTestHelper) GetAnonymous(path string) (*http.Response, error) {
	return s.do(http.MethodGet, path, nil, false)
}

// Post performs an authenticated POST with a JSON body
func (s *ServerTestHelper) Post(path string, body any) (*http.Response, error) {
	return s.do(http.MethodPost, path, body, true)
}

func (s *ServerTestHelper) do(method, path string, body any, auth bool) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(s.ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth && s.secret != "" {
		req.Header.Set("Authorization", "Bearer "+s.secret)
	}
	return s.httpClient.Do(req)
}

// DecodeJSON reads and closes the response body into v
func DecodeJSON(resp *http.Response, v any) {
	defer func() {
		_ = resp.Body.Close()
	}()
	gomega.Expect(json.NewDecoder(resp.Body).Decode(v)).To(gomega.Succeed())
}

// WriteConfigYAML writes a memory-backed tracker configuration for testing
func WriteConfigYAML(dir, rosterURL, secret string) string {
	secretFile := filepath.Join(dir, "api-secret")
	gomega.Expect(os.WriteFile(secretFile, []byte(secret), 0o600)).To(gomega.Succeed())

	content := fmt.Sprintf(`storage:
  type: memory
roster:
  baseURL: %s
  timeout: 2s
sync:
  interval: 1h
discovery:
  interval: 1h
notify:
  driver: log
api:
  sharedSecretFile: %s
`, rosterURL, secretFile)

	path := filepath.Join(dir, "config.yaml")
	gomega.Expect(os.WriteFile(path, []byte(content), 0o600)).To(gomega.Succeed())
	return path
}

func freeAddress() (string, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to find a free port: %w", err)
	}
	addr := l.Addr().String()
	if err := l.Close(); err != nil {
		return "", err
	}
	return addr, nil
}
