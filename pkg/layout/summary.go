package layout

// Stats is the per-layout statistics record consumed by the export,
// rendering, and reporting collaborators.
type Stats struct {
	CountA       int     `json:"count_a"`
	CountB       int     `json:"count_b"`
	Area         float64 `json:"area"`
	RuleBoundary bool    `json:"rule_boundary"`
	RulePlaza    bool    `json:"rule_plaza"`
	RuleSpacing  bool    `json:"rule_spacing"`
	RuleNeighbor bool    `json:"rule_neighbor"`
	Valid        bool    `json:"valid"`
}

// Summarize derives the statistics record for a layout.
func (ru Rules) Summarize(l Layout) Stats {
	report := ru.Validate(l)
	return Stats{
		CountA:       l.Count(TypeA),
		CountB:       l.Count(TypeB),
		Area:         l.TotalArea(),
		RuleBoundary: report.Boundary,
		RulePlaza:    report.Plaza,
		RuleSpacing:  report.Spacing,
		RuleNeighbor: report.NeighborMix,
		Valid:        report.All,
	}
}
