package enums

import (
	"fmt"
	"time"
)

// Urgency maps to the urgency enum in Postgres and drives the expected
// delivery window quoted at checkout.
type Urgency string

const (
	UrgencyStandard  Urgency = "standard"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

var validUrgencies = []Urgency{
	UrgencyStandard,
	UrgencyUrgent,
	UrgencyEmergency,
}

var urgencyLeadTimes = map[Urgency]time.Duration{
	UrgencyStandard:  168 * time.Hour,
	UrgencyUrgent:    72 * time.Hour,
	UrgencyEmergency: 24 * time.Hour,
}

func (u Urgency) String() string {
	return string(u)
}

// IsValid reports whether the value matches the canonical urgency enum.
func (u Urgency) IsValid() bool {
	for _, candidate := range validUrgencies {
		if candidate == u {
			return true
		}
	}
	return false
}

// LeadTime returns the delivery window promised for the urgency tier.
// Unknown tiers fall back to the standard window.
func (u Urgency) LeadTime() time.Duration {
	if lead, ok := urgencyLeadTimes[u]; ok {
		return lead
	}
	return urgencyLeadTimes[UrgencyStandard]
}

// ParseUrgency converts raw input into Urgency.
func ParseUrgency(value string) (Urgency, error) {
	for _, candidate := range validUrgencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid urgency %q", value)
}
