package monitor

import "time"

// Severity is the ordinal stock-alert level: low < critical < out.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityCritical Severity = "critical"
	SeverityOut      Severity = "out"
)

// Bucket thresholds. These are exhaustive and non-overlapping:
// out iff stock == 0, critical iff 0 < stock <= 3, low iff 3 < stock <= 10.
const (
	criticalThreshold = 3
	lowThreshold      = 10
)

// SeverityFor maps a stock count to its alert bucket; ok is false when the
// stock level warrants no alert. Negative counts never occur on the wired
// path (the schema rejects them) and warrant no alert either.
func SeverityFor(stock int) (Severity, bool) {
	switch {
	case stock < 0:
		return "", false
	case stock == 0:
		return SeverityOut, true
	case stock <= criticalThreshold:
		return SeverityCritical, true
	case stock <= lowThreshold:
		return SeverityLow, true
	default:
		return "", false
	}
}

// AlertID derives the deterministic alert identity from the (product,
// severity) pair. Re-polling the same condition reproduces the same id,
// which is what makes dedup across poll cycles work.
func AlertID(productID string, sev Severity) string {
	return productID + "-" + string(sev)
}

// ThresholdFor reports the informational threshold recorded on an alert.
// It is never re-derived once the alert exists.
func ThresholdFor(sev Severity) int {
	if sev == SeverityLow {
		return lowThreshold
	}
	return criticalThreshold
}

type Alert struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	ProductTitle string    `json:"productTitle"`
	CurrentStock int       `json:"currentStock"`
	Threshold    int       `json:"threshold"`
	Severity     Severity  `json:"severity"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// Stats summarizes the displayed alert set per severity.
type Stats struct {
	Total    int `json:"total"`
	Low      int `json:"low"`
	Critical int `json:"critical"`
	Out      int `json:"out"`
}
