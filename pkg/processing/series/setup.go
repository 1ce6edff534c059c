package series

import (
	"github.com/samber/lo"

	"github.com/mpapenbr/clash-manager-go/pkg/model"
)

// SetupRanking lists the recommended components of one focus, best first.
type SetupRanking struct {
	Focus   model.Attribute
	Entries []model.SetupEntry
	Total   float64
}

// RankSetup orders the entries of every setup focus by value. A focus
// without entries yields an empty ranking. Ties keep the stored order.
func RankSetup(setup model.SeriesSetup) []SetupRanking {
	ret := make([]SetupRanking, 0, len(model.SetupFocuses))
	for _, focus := range model.SetupFocuses {
		entries := append([]model.SetupEntry{}, setup.Setups[focus]...)
		sortByScore(entries, func(e model.SetupEntry) float64 { return e.Value })
		ret = append(ret, SetupRanking{
			Focus:   focus,
			Entries: entries,
			Total:   lo.SumBy(entries, func(e model.SetupEntry) float64 { return e.Value }),
		})
	}
	return ret
}
