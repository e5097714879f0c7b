package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"

	"github.com/stacklok/rust-tracker/internal/live"
	"github.com/stacklok/rust-tracker/internal/logger"
	"github.com/stacklok/rust-tracker/internal/store"
)

const (
	// DefaultReconnectInitial is the first reconnect delay; it doubles up to DefaultReconnectMax
	DefaultReconnectInitial = 5 * time.Second
	DefaultReconnectMax     = 5 * time.Minute

	// pongWait is how long the connection may stay silent before it is considered dead
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait
	pingPeriod = (pongWait * 9) / 10
	writeWait  = 10 * time.Second
)

// PlayerTokenHeader carries the tenant's companion player token to the gateway
const PlayerTokenHeader = "X-Player-Token"

// TenantLister lists tenants that have live credentials
type TenantLister interface {
	ListLiveTenants(ctx context.Context) ([]store.TenantConfig, error)
}

// WebsocketProvider keeps one gateway connection per live tenant
type WebsocketProvider struct {
	tenants TenantLister
	url     *url.URL
	token   string
	decoder *FrameDecoder
	dialer  *websocket.Dialer

	reconnectInitial time.Duration
	reconnectMax     time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu sync.Mutex
	// sources outlive their connections so a listener stays attached when a
	// tenant reconnects with new settings or comes back after removal
	sources map[string]*tenantSource
	conns   map[string]*tenantConn
}

// tenantConn is the running connection loop of one tenant
type tenantConn struct {
	cfg    store.TenantConfig
	cancel context.CancelFunc
}

var _ live.Provider = (*WebsocketProvider)(nil)

// WebsocketOption configures a WebsocketProvider
type WebsocketOption func(*WebsocketProvider)

// WithDialer overrides the websocket dialer
func WithDialer(d *websocket.Dialer) WebsocketOption {
	return func(p *WebsocketProvider) {
		p.dialer = d
	}
}

// WithReconnectBackoff sets the first and the maximum reconnect delay
func WithReconnectBackoff(initial, maxDelay time.Duration) WebsocketOption {
	return func(p *WebsocketProvider) {
		p.reconnectInitial = initial
		p.reconnectMax = maxDelay
	}
}

// NewWebsocketProvider creates a provider dialing gatewayURL. token is sent
// as bearer token when not empty.
func NewWebsocketProvider(
	tenants TenantLister,
	gatewayURL, token string,
	decoder *FrameDecoder,
	opts ...WebsocketOption,
) (*WebsocketProvider, error) {
	u, err := url.Parse(gatewayURL)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("invalid gateway url scheme %q: must be ws or wss", u.Scheme)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &WebsocketProvider{
		tenants:          tenants,
		url:              u,
		token:            token,
		decoder:          decoder,
		dialer:           websocket.DefaultDialer,
		reconnectInitial: DefaultReconnectInitial,
		reconnectMax:     DefaultReconnectMax,
		ctx:              ctx,
		cancel:           cancel,
		sources:          make(map[string]*tenantSource),
		conns:            make(map[string]*tenantConn),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Sources brings the running connections in line with the live tenants: it
// starts missing ones, restarts those whose connection settings changed and
// stops those of tenants that lost their credentials. It returns the sources
// of all live tenants.
func (p *WebsocketProvider) Sources(ctx context.Context) ([]live.Source, error) {
	if p.ctx.Err() != nil {
		return nil, ErrSourceClosed
	}

	tenants, err := p.tenants.ListLiveTenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list live tenants: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctx.Err() != nil {
		return nil, ErrSourceClosed
	}

	current := make(map[string]struct{}, len(tenants))
	result := make([]live.Source, 0, len(tenants))
	for _, cfg := range tenants {
		current[cfg.TenantID] = struct{}{}

		src, ok := p.sources[cfg.TenantID]
		if !ok {
			src = newTenantSource(cfg.TenantID)
			p.sources[cfg.TenantID] = src
		}
		result = append(result, src)

		if conn, ok := p.conns[cfg.TenantID]; ok {
			if sameConnection(conn.cfg, cfg) {
				continue
			}
			logger.Infow("Live connection settings changed, reconnecting", "tenant_id", cfg.TenantID)
			conn.cancel()
		}
		p.start(src, cfg)
	}

	for tenantID, conn := range p.conns {
		if _, ok := current[tenantID]; ok {
			continue
		}
		logger.Infow("Tenant has no live credentials anymore, disconnecting", "tenant_id", tenantID)
		conn.cancel()
		delete(p.conns, tenantID)
	}
	return result, nil
}

// start runs a connection loop for cfg. Must be called with mu held.
func (p *WebsocketProvider) start(src *tenantSource, cfg store.TenantConfig) {
	ctx, cancel := context.WithCancel(p.ctx)
	p.conns[cfg.TenantID] = &tenantConn{cfg: cfg, cancel: cancel}
	p.wg.Add(1)
	go p.run(ctx, src, cfg)
}

// sameConnection reports whether two tenant configs dial the same game server
// with the same credentials
func sameConnection(a, b store.TenantConfig) bool {
	return a.ServerIP == b.ServerIP &&
		a.ServerPort == b.ServerPort &&
		a.PlayerID == b.PlayerID &&
		a.PlayerToken == b.PlayerToken
}

// Close stops all connections and waits for them to exit
func (p *WebsocketProvider) Close() error {
	// under mu so that Sources cannot start a connection after Wait begins
	p.mu.Lock()
	p.cancel()
	p.mu.Unlock()
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, src := range p.sources {
		src.close()
	}
	return nil
}

// dialURL returns the gateway url carrying the tenant's connection details
func (p *WebsocketProvider) dialURL(cfg store.TenantConfig) string {
	u := *p.url
	q := u.Query()
	q.Set("tenant", cfg.TenantID)
	q.Set("ip", cfg.ServerIP)
	q.Set("port", strconv.Itoa(cfg.ServerPort))
	q.Set("playerId", cfg.PlayerID)
	u.RawQuery = q.Encode()
	return u.String()
}

// run keeps the tenant connected until ctx is cancelled
func (p *WebsocketProvider) run(ctx context.Context, src *tenantSource, cfg store.TenantConfig) {
	defer p.wg.Done()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.reconnectInitial
	b.MaxInterval = p.reconnectMax
	b.Multiplier = 2

	for {
		connected, err := p.connect(ctx, src, cfg)
		if ctx.Err() != nil {
			return
		}
		if connected {
			b.Reset()
		}

		wait := b.NextBackOff()
		logger.Warnw("Live gateway connection lost, reconnecting",
			"tenant_id", cfg.TenantID, "retry_in", wait, "error", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// connect dials the gateway and reads frames until the connection fails.
// It reports whether the dial itself succeeded.
func (p *WebsocketProvider) connect(ctx context.Context, src *tenantSource, cfg store.TenantConfig) (bool, error) {
	header := http.Header{}
	if p.token != "" {
		header.Set("Authorization", "Bearer "+p.token)
	}
	header.Set(PlayerTokenHeader, strconv.FormatInt(cfg.PlayerToken, 10))

	conn, resp, err := p.dialer.DialContext(ctx, p.dialURL(cfg), header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return false, fmt.Errorf("failed to dial live gateway: %w", err)
	}
	defer func() { _ = conn.Close() }()

	logger.Infow("Connected to live gateway", "tenant_id", cfg.TenantID)

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	pingDone := make(chan struct{})
	defer close(pingDone)
	go keepAlive(conn, pingDone)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || errors.Is(err, context.Canceled) {
				return true, nil
			}
			return true, err
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		frame, err := p.decoder.Decode(data)
		if err != nil {
			logger.Warnw("Dropping invalid live frame", "tenant_id", cfg.TenantID, "error", err)
			continue
		}
		src.deliver(ctx, frame)
	}
}

// keepAlive pings the gateway until done is closed or a write fails
func keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
