// Package host provides platform-backed providers: NIC byte counters,
// the subscriber identifier, capability flags and the permission launcher.
package host

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/shirou/gopsutil/v3/net"
)

// unsupported matches the counter sentinel the platform contract uses.
const unsupported int64 = -1

// DefaultMobilePrefixes lists interface name prefixes used by cellular modems.
var DefaultMobilePrefixes = []string{"rmnet", "ccmni", "wwan", "pdp", "usb"}

var errCounterOverflow = errors.New("counter exceeds int64")

type ioCountersFunc func(ctx context.Context, pernic bool) ([]net.IOCountersStat, error)

// Counters reads cumulative byte counters from the host's network interfaces.
type Counters struct {
	mobilePrefixes []string
	ioCounters     ioCountersFunc
}

// NewCounters creates Counters. Empty prefixes fall back to DefaultMobilePrefixes.
func NewCounters(mobilePrefixes []string) *Counters {
	if len(mobilePrefixes) == 0 {
		mobilePrefixes = DefaultMobilePrefixes
	}
	return &Counters{mobilePrefixes: mobilePrefixes, ioCounters: net.IOCountersWithContext}
}

// MobileRxBytes returns bytes received on mobile interfaces since boot.
func (c *Counters) MobileRxBytes(ctx context.Context) (int64, error) {
	return c.sum(ctx, c.isMobile, rx)
}

// MobileTxBytes returns bytes sent on mobile interfaces since boot.
func (c *Counters) MobileTxBytes(ctx context.Context) (int64, error) {
	return c.sum(ctx, c.isMobile, tx)
}

// TotalRxBytes returns bytes received on all non-loopback interfaces since boot.
func (c *Counters) TotalRxBytes(ctx context.Context) (int64, error) {
	return c.sum(ctx, isExternal, rx)
}

// TotalTxBytes returns bytes sent on all non-loopback interfaces since boot.
func (c *Counters) TotalTxBytes(ctx context.Context) (int64, error) {
	return c.sum(ctx, isExternal, tx)
}

func rx(s net.IOCountersStat) uint64 { return s.BytesRecv }
func tx(s net.IOCountersStat) uint64 { return s.BytesSent }

func (c *Counters) sum(
	ctx context.Context,
	match func(string) bool,
	field func(net.IOCountersStat) uint64,
) (int64, error) {
	stats, err := c.ioCounters(ctx, true)
	if err != nil {
		return unsupported, err
	}

	var total uint64
	for _, s := range stats {
		if !match(s.Name) {
			continue
		}
		v := field(s)
		if v > math.MaxInt64 || total > math.MaxInt64-v {
			return unsupported, errCounterOverflow
		}
		total += v
	}
	return int64(total), nil
}

func (c *Counters) isMobile(name string) bool {
	if !isExternal(name) {
		return false
	}
	for _, p := range c.mobilePrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func isExternal(name string) bool {
	return name != "lo" && !strings.HasPrefix(name, "lo0") && !strings.HasPrefix(name, "Loopback")
}
