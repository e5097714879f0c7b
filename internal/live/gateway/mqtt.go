package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/stacklok/rust-tracker/internal/live"
	"github.com/stacklok/rust-tracker/internal/logger"
)

const (
	mqttQoS             = 1
	mqttDisconnectQuiet = 250 // milliseconds
	mqttEventsSuffix    = "events"
)

// MQTTOptions are the broker connection settings
type MQTTOptions struct {
	Broker      string
	TopicPrefix string
	ClientID    string
	Username    string
	Password    string
}

// MQTTProvider consumes frames published on {prefix}/{tenant}/events. A
// tenant becomes a source with its first frame.
type MQTTProvider struct {
	opts    MQTTOptions
	decoder *FrameDecoder
	client  mqtt.Client

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	sources map[string]*tenantSource
}

var _ live.Provider = (*MQTTProvider)(nil)

// NewMQTTProvider creates a provider. Connect must be called before frames arrive.
func NewMQTTProvider(opts MQTTOptions, decoder *FrameDecoder) *MQTTProvider {
	if opts.ClientID == "" {
		opts.ClientID = "rust-tracker-" + uuid.NewString()
	}
	opts.TopicPrefix = strings.TrimSuffix(opts.TopicPrefix, "/")

	ctx, cancel := context.WithCancel(context.Background())
	return &MQTTProvider{
		opts:    opts,
		decoder: decoder,
		ctx:     ctx,
		cancel:  cancel,
		sources: make(map[string]*tenantSource),
	}
}

// Topic returns the subscription filter
func (p *MQTTProvider) Topic() string {
	return p.opts.TopicPrefix + "/+/" + mqttEventsSuffix
}

// Connect connects to the broker and subscribes to the event topic. The
// subscription is restored by the client after every reconnect.
func (p *MQTTProvider) Connect(ctx context.Context) error {
	clientOpts := mqtt.NewClientOptions()
	clientOpts.AddBroker(p.opts.Broker)
	clientOpts.SetClientID(p.opts.ClientID)
	if p.opts.Username != "" {
		clientOpts.SetUsername(p.opts.Username)
	}
	if p.opts.Password != "" {
		clientOpts.SetPassword(p.opts.Password)
	}
	clientOpts.SetAutoReconnect(true)
	clientOpts.SetCleanSession(true)
	clientOpts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warnw("MQTT connection lost", "broker", p.opts.Broker, "error", err)
	})
	clientOpts.SetOnConnectHandler(func(c mqtt.Client) {
		token := c.Subscribe(p.Topic(), mqttQoS, p.onMessage)
		if token.Wait() && token.Error() != nil {
			logger.Errorw("Failed to subscribe to live topic", "topic", p.Topic(), "error", token.Error())
			return
		}
		logger.Infow("Subscribed to live topic", "topic", p.Topic())
	})

	p.client = mqtt.NewClient(clientOpts)
	token := p.client.Connect()
	if !waitToken(ctx, token) {
		return fmt.Errorf("failed to connect to MQTT broker %s: %w", p.opts.Broker, ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker %s: %w", p.opts.Broker, err)
	}
	return nil
}

// waitToken waits for token or ctx, whichever comes first
func waitToken(ctx context.Context, token mqtt.Token) bool {
	select {
	case <-token.Done():
		return true
	case <-ctx.Done():
		return false
	}
}

// Sources returns every tenant seen on the broker so far
func (p *MQTTProvider) Sources(context.Context) ([]live.Source, error) {
	if p.ctx.Err() != nil {
		return nil, ErrSourceClosed
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	result := make([]live.Source, 0, len(p.sources))
	for _, src := range p.sources {
		result = append(result, src)
	}
	return result, nil
}

// Close disconnects from the broker
func (p *MQTTProvider) Close() error {
	p.cancel()
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(mqttDisconnectQuiet)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, src := range p.sources {
		src.close()
	}
	return nil
}

func (p *MQTTProvider) onMessage(_ mqtt.Client, msg mqtt.Message) {
	p.handle(msg.Topic(), msg.Payload())
}

// handle routes one published frame to the source of its tenant
func (p *MQTTProvider) handle(topic string, payload []byte) {
	tenantID, ok := p.tenantFromTopic(topic)
	if !ok {
		logger.Debugf("Ignoring message on unexpected topic %s", topic)
		return
	}

	frame, err := p.decoder.Decode(payload)
	if err != nil {
		logger.Warnw("Dropping invalid live frame", "topic", topic, "error", err)
		return
	}

	src := p.source(tenantID)
	if src == nil {
		return
	}

	ctx, cancel := context.WithTimeout(p.ctx, 30*time.Second)
	defer cancel()
	src.deliver(ctx, frame)
}

// source returns the tenant's source, creating it on first sight
func (p *MQTTProvider) source(tenantID string) *tenantSource {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx.Err() != nil {
		return nil
	}
	src, ok := p.sources[tenantID]
	if !ok {
		src = newTenantSource(tenantID)
		p.sources[tenantID] = src
		logger.Infow("Discovered live tenant on broker", "tenant_id", tenantID)
	}
	return src
}

// tenantFromTopic extracts the tenant id from {prefix}/{tenant}/events
func (p *MQTTProvider) tenantFromTopic(topic string) (string, bool) {
	rest, ok := strings.CutPrefix(topic, p.opts.TopicPrefix+"/")
	if !ok {
		return "", false
	}
	tenantID, ok := strings.CutSuffix(rest, "/"+mqttEventsSuffix)
	if !ok || tenantID == "" || strings.Contains(tenantID, "/") {
		return "", false
	}
	return tenantID, true
}
