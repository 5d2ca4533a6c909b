// Package webhook delivers events to registered HTTP endpoints with
// HMAC signing, retries, and per-endpoint circuit breaking. Endpoints
// come from configuration; there is no registration API.
package webhook

import (
	"encoding/json"
	"fmt"

	"github.com/wavecap/wavecap/pkg/events"
)

// Endpoint is one configured webhook subscription.
type Endpoint struct {
	ID         string             `json:"id"          yaml:"id"`
	Name       string             `json:"name"        yaml:"name"`
	URL        string             `json:"url"         yaml:"url"`
	Secret     string             `json:"-"           yaml:"secret"`
	EventTypes []events.EventType `json:"event_types" yaml:"event_types"`
	Active     bool               `json:"active"      yaml:"active"`
}

// Wants reports whether the endpoint subscribes to the event type. An
// empty list means all types.
func (e Endpoint) Wants(t events.EventType) bool {
	if len(e.EventTypes) == 0 {
		return true
	}
	for _, et := range e.EventTypes {
		if et == t {
			return true
		}
	}
	return false
}

// endpointConfig mirrors Endpoint for JSON config parsing, with secret
// readable.
type endpointConfig struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	URL        string             `json:"url"`
	Secret     string             `json:"secret"`
	EventTypes []events.EventType `json:"event_types"`
	Active     *bool              `json:"active"`
}

// ParseEndpoints parses a JSON array of endpoints from configuration.
// Active defaults to true; an endpoint without ID, URL, or secret is
// rejected.
func ParseEndpoints(raw string) ([]Endpoint, error) {
	if raw == "" {
		return nil, nil
	}

	var cfgs []endpointConfig
	if err := json.Unmarshal([]byte(raw), &cfgs); err != nil {
		return nil, fmt.Errorf("parse webhook endpoints: %w", err)
	}

	endpoints := make([]Endpoint, 0, len(cfgs))
	for i, c := range cfgs {
		if c.ID == "" {
			return nil, fmt.Errorf("webhook endpoint %d has no id", i)
		}
		if c.URL == "" {
			return nil, fmt.Errorf("webhook endpoint %q has no url", c.ID)
		}
		if c.Secret == "" {
			return nil, fmt.Errorf("webhook endpoint %q has no secret", c.ID)
		}
		active := true
		if c.Active != nil {
			active = *c.Active
		}
		endpoints = append(endpoints, Endpoint{
			ID:         c.ID,
			Name:       c.Name,
			URL:        c.URL,
			Secret:     c.Secret,
			EventTypes: c.EventTypes,
			Active:     active,
		})
	}
	return endpoints, nil
}

// Directory is a fixed set of configured endpoints.
type Directory struct {
	endpoints []Endpoint
}

// NewDirectory creates a directory over the given endpoints.
func NewDirectory(endpoints []Endpoint) *Directory {
	return &Directory{endpoints: endpoints}
}

// Matching returns the active endpoints subscribed to the event type.
func (d *Directory) Matching(t events.EventType) []Endpoint {
	var out []Endpoint
	for _, e := range d.endpoints {
		if e.Active && e.Wants(t) {
			out = append(out, e)
		}
	}
	return out
}

// All returns every configured endpoint.
func (d *Directory) All() []Endpoint {
	out := make([]Endpoint, len(d.endpoints))
	copy(out, d.endpoints)
	return out
}
