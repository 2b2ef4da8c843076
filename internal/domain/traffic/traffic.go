package traffic

import "time"

// DefaultWindow is the span of a trailing usage window.
const DefaultWindow = 24 * time.Hour

// Report holds cumulative byte counters since boot.
type Report struct {
	mobileRx int64
	mobileTx int64
	totalRx  int64
	totalTx  int64
}

// NewReport creates a cumulative report. Values are stored as given;
// Valid reports whether they can be returned to a caller.
func NewReport(mobileRx, mobileTx, totalRx, totalTx int64) Report {
	return Report{
		mobileRx: mobileRx,
		mobileTx: mobileTx,
		totalRx:  totalRx,
		totalTx:  totalTx,
	}
}

// ZeroReport is the fallback returned when any counter is invalid.
func ZeroReport() Report { return Report{} }

// MobileRxBytes returns bytes received over mobile interfaces.
func (r Report) MobileRxBytes() int64 { return r.mobileRx }

// MobileTxBytes returns bytes sent over mobile interfaces.
func (r Report) MobileTxBytes() int64 { return r.mobileTx }

// TotalRxBytes returns bytes received over all interfaces.
func (r Report) TotalRxBytes() int64 { return r.totalRx }

// TotalTxBytes returns bytes sent over all interfaces.
func (r Report) TotalTxBytes() int64 { return r.totalTx }

// Valid reports whether all four counters are non-negative.
func (r Report) Valid() bool {
	return r.mobileRx >= 0 && r.mobileTx >= 0 && r.totalRx >= 0 && r.totalTx >= 0
}

// IsZero reports whether every counter is zero.
func (r Report) IsZero() bool { return r == Report{} }

// Map returns the report in the channel wire shape.
func (r Report) Map() map[string]int64 {
	return map[string]int64{
		"mobileRxBytes": r.mobileRx,
		"mobileTxBytes": r.mobileTx,
		"totalRxBytes":  r.totalRx,
		"totalTxBytes":  r.totalTx,
	}
}

// Window is a half-open time range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// TrailingWindow returns the window of the given span ending at end.
func TrailingWindow(end time.Time, span time.Duration) Window {
	return Window{Start: end.Add(-span), End: end}
}

// StartMillis returns the window start as unix millis.
func (w Window) StartMillis() int64 { return w.Start.UnixMilli() }

// EndMillis returns the window end as unix millis.
func (w Window) EndMillis() int64 { return w.End.UnixMilli() }

// Span returns End - Start.
func (w Window) Span() time.Duration { return w.End.Sub(w.Start) }

// Valid reports whether start < end and both are non-negative epoch times.
func (w Window) Valid() bool {
	return w.StartMillis() >= 0 && w.Start.Before(w.End)
}

// WindowReport holds rx/tx bytes for a bounded window.
type WindowReport struct {
	window Window
	rx     int64
	tx     int64
}

// NewWindowReport creates a windowed report.
func NewWindowReport(w Window, rx, tx int64) WindowReport {
	return WindowReport{window: w, rx: rx, tx: tx}
}

// Window returns the queried range.
func (r WindowReport) Window() Window { return r.window }

// RxBytes returns bytes received in the window.
func (r WindowReport) RxBytes() int64 { return r.rx }

// TxBytes returns bytes sent in the window.
func (r WindowReport) TxBytes() int64 { return r.tx }

// Total returns rx + tx.
func (r WindowReport) Total() int64 { return r.rx + r.tx }
