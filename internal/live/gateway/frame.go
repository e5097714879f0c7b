// Package gateway provides the transports that deliver live frames to the
// live bridge: a websocket connection per tenant or a shared MQTT broker.
package gateway

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/stacklok/rust-tracker/internal/live"
)

//go:embed frame.schema.json
var frameSchema []byte

const frameSchemaURL = "https://rust-tracker.local/schemas/frame.json"

// ErrInvalidFrame is returned for frames that do not match the frame schema
var ErrInvalidFrame = errors.New("invalid live frame")

// FrameDecoder validates raw frames against the frame schema and decodes them
type FrameDecoder struct {
	schema *jsonschema.Schema
}

// NewFrameDecoder compiles the embedded frame schema
func NewFrameDecoder() (*FrameDecoder, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(frameSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to parse frame schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(frameSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to add frame schema: %w", err)
	}
	schema, err := c.Compile(frameSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile frame schema: %w", err)
	}
	return &FrameDecoder{schema: schema}, nil
}

// Decode validates data and returns the frame it holds
func (d *FrameDecoder) Decode(data []byte) (live.Frame, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return live.Frame{}, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}
	if err := d.schema.Validate(inst); err != nil {
		return live.Frame{}, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}

	var frame live.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return live.Frame{}, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}
	return frame, nil
}
