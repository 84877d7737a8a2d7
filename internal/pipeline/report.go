package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kvadra-invest/catalog-cli/internal/model"
)

// FormatSummary renders the operator-facing console summary for a run:
// accepted count, skip count with top reasons, and per-city breakdown.
func FormatSummary(s model.RunSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s finished in %dms\n", s.RunID, s.DurationMS)
	fmt.Fprintf(&b, "Accepted: %d  Skipped: %d  Field conflicts: %d\n",
		s.Accepted, s.Skipped, s.Conflicts)

	if len(s.ByReason) > 0 {
		b.WriteString("\nTop skip reasons:\n")
		for _, kv := range sortedCounts(s.ByReason) {
			fmt.Fprintf(&b, "  %-28s %d\n", kv.key, kv.count)
		}
	}

	if len(s.ByCity) > 0 {
		b.WriteString("\nAccepted by city:\n")
		for _, kv := range sortedCounts(s.ByCity) {
			fmt.Fprintf(&b, "  %-28s %d\n", kv.key, kv.count)
		}
	}

	return b.String()
}

type keyCount struct {
	key   string
	count int
}

func sortedCounts(m map[string]int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, v := range m {
		out = append(out, keyCount{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}
