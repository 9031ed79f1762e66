package job

// Strategy is the delivery shape chosen for a batch once every item has
// been optimized.
type Strategy int

const (
	// StrategyIndividual uploads each optimized image and delivers one
	// hosted URL per item.
	StrategyIndividual Strategy = iota
	// StrategyArchive bundles the whole batch into a single zip payload.
	StrategyArchive
)

func (s Strategy) String() string {
	if s == StrategyArchive {
		return "archive"
	}
	return "individual"
}

// ChooseStrategy picks the delivery strategy from the optimized item sizes.
// Any single item at or above the ceiling switches the entire batch to the
// archive shape; a mix of links and archive is not a supported result.
// Single-item batches always take the individual path. The decision is made
// before any upload happens, since uploads cannot be undone.
func ChooseStrategy(sizes []int64, ceiling int64) Strategy {
	if len(sizes) == 1 {
		return StrategyIndividual
	}
	for _, size := range sizes {
		if size >= ceiling {
			return StrategyArchive
		}
	}
	return StrategyIndividual
}
