package chunker

// summary statistics over a chunk sequence, logged by the ingester
type Stats struct {
	TotalChunks   int
	MinChars      int
	MaxChars      int
	AvgChars      int
	AvgWords      int
	UniqueSources int
}

func ComputeStats(chunks []Chunk) Stats {
	if len(chunks) == 0 {
		return Stats{}
	}

	stats := Stats{
		TotalChunks: len(chunks),
		MinChars:    chunks[0].CharCount,
	}

	var (
		totalChars int
		totalWords int
	)

	sources := make(map[string]struct{})

	for _, c := range chunks {
		totalChars += c.CharCount
		totalWords += c.WordCount

		if c.CharCount < stats.MinChars {
			stats.MinChars = c.CharCount
		}

		if c.CharCount > stats.MaxChars {
			stats.MaxChars = c.CharCount
		}

		sources[c.SourceID] = struct{}{}
	}

	stats.AvgChars = totalChars / len(chunks)
	stats.AvgWords = totalWords / len(chunks)
	stats.UniqueSources = len(sources)

	return stats
}
