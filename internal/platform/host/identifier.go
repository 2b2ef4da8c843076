package host

import (
	"context"
	"errors"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

var errNoHostID = errors.New("host id is empty")

// Identifier resolves the subscriber id that scopes windowed queries.
type Identifier struct {
	configured string
	hostID     func(ctx context.Context) (string, error)
}

// NewIdentifier creates an Identifier. A non-empty configured id wins over the host id.
func NewIdentifier(configured string) *Identifier {
	return &Identifier{configured: strings.TrimSpace(configured), hostID: host.HostIDWithContext}
}

// SubscriberID returns the configured id, else the machine's host id.
func (i *Identifier) SubscriberID(ctx context.Context) (string, error) {
	if i.configured != "" {
		return i.configured, nil
	}
	id, err := i.hostID(ctx)
	if err != nil {
		return "", err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errNoHostID
	}
	return id, nil
}

// Capability reports which platform features are available.
type Capability struct {
	ledgerEnabled bool
}

// NewCapability creates a Capability.
func NewCapability(ledgerEnabled bool) Capability {
	return Capability{ledgerEnabled: ledgerEnabled}
}

// WindowedSummary reports whether windowed usage summaries can be answered.
func (c Capability) WindowedSummary() bool { return c.ledgerEnabled }
