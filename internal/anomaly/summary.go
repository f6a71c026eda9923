package anomaly

import (
	"fmt"
	"sort"
	"strings"

	"github.com/couchcryptid/enviro-sensor-sim/internal/domain"
)

// Summary aggregates a run's alerts for reporting.
type Summary struct {
	Total      int
	BySeverity map[domain.Severity]int
	ByRule     map[string]int
	BySensor   map[string]int
}

// Summarize tallies alerts by severity, rule, and sensor.
func Summarize(alerts []domain.Alert) Summary {
	s := Summary{
		Total:      len(alerts),
		BySeverity: make(map[domain.Severity]int),
		ByRule:     make(map[string]int),
		BySensor:   make(map[string]int),
	}
	for _, a := range alerts {
		s.BySeverity[a.Severity]++
		s.ByRule[a.RuleName]++
		s.BySensor[a.SensorID]++
	}
	return s
}

// String renders the summary as a small fixed-order report, severities from
// most to least severe, rules and sensors alphabetical.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "alerts: %d\n", s.Total)

	b.WriteString("by severity:\n")
	for i := len(domain.Severities) - 1; i >= 0; i-- {
		sev := domain.Severities[i]
		if n := s.BySeverity[sev]; n > 0 {
			fmt.Fprintf(&b, "  %-9s %d\n", sev, n)
		}
	}

	b.WriteString("by rule:\n")
	for _, name := range sortedKeys(s.ByRule) {
		fmt.Fprintf(&b, "  %-26s %d\n", name, s.ByRule[name])
	}

	b.WriteString("by sensor:\n")
	for _, id := range sortedKeys(s.BySensor) {
		fmt.Fprintf(&b, "  %-26s %d\n", id, s.BySensor[id])
	}
	return b.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
