package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

type Strategy string

const (
	// StrategyCount numbers new identifiers by counting existing ones with
	// the same prefix. Compatible with historical data, but can collide
	// after mid-sequence deletions.
	StrategyCount Strategy = "count"
	// StrategyMax numbers new identifiers one past the highest existing
	// sequence for the prefix.
	StrategyMax Strategy = "max"
)

// IDGenerator produces the next sequential identifier for a type prefix,
// e.g. PUR-003. The zero value uses the count strategy.
type IDGenerator struct {
	Strategy Strategy
}

func (g IDGenerator) Next(existing []string, prefix string) string {
	switch g.Strategy {
	case StrategyMax:
		return nextMax(existing, prefix)
	default:
		return nextCount(existing, prefix)
	}
}

func nextCount(existing []string, prefix string) string {
	n := 0
	for _, id := range existing {
		if strings.HasPrefix(id, prefix) {
			n++
		}
	}
	if n == 0 {
		return fmt.Sprintf("%s-001", prefix)
	}
	return fmt.Sprintf("%s-%03d", prefix, n+1)
}

func nextMax(existing []string, prefix string) string {
	max := 0
	for _, id := range existing {
		rest, ok := strings.CutPrefix(id, prefix+"-")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%03d", prefix, max+1)
}
