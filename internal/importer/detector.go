package importer

import (
	"errors"
	"strings"
)

// ErrUnrecognizedFormat is returned when no known profile clears the
// overlap threshold; callers route to the manual column-mapping flow.
var ErrUnrecognizedFormat = errors.New("unrecognized export format")

// ErrIncompleteMapping is returned when a manual mapping lacks one of the
// required bindings (date, market, closed PnL).
var ErrIncompleteMapping = errors.New("incomplete column mapping: date, market and closed pnl are required")

// detectionThreshold is the fraction of a profile's headers that must be
// present in the candidate header set for the profile to match. Containment
// rather than equality: exporters add vendor-specific extra columns.
const detectionThreshold = 0.7

// Detection is the result of a successful format detection.
type Detection struct {
	Profile    string
	Confidence float64 // matched/total header ratio, in (0, 1]
}

// Detect identifies which known exchange profile the header row matches.
// Both sides are compared lower-cased and trimmed, order-independent.
// Profiles are tried in fixed priority order and the first one with at
// least 70% of its headers present wins.
func Detect(headers []string) (Detection, error) {
	candidate := make(map[string]bool, len(headers))
	for _, h := range headers {
		candidate[normalizeHeader(h)] = true
	}

	for _, p := range knownProfiles {
		matched := 0
		for _, h := range p.headers {
			if candidate[h] {
				matched++
			}
		}
		confidence := float64(matched) / float64(len(p.headers))
		if confidence >= detectionThreshold {
			return Detection{Profile: p.name, Confidence: confidence}, nil
		}
	}

	return Detection{}, ErrUnrecognizedFormat
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
