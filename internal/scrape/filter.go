package scrape

import (
	"log"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/scrape/util"
)

const easyApplyMarker = "easyapply"

// ShouldKeepListing applies the post-fetch filter. The easy-apply check is a
// heuristic on the link text only. Work type is not applied.
func ShouldKeepListing(f domain.SearchFilter, l domain.Listing) (keep bool, reason string) {
	if f.EasyApplyOnly && !util.ContainsFold(l.Link, easyApplyMarker) {
		return false, "not_easy_apply"
	}
	return true, ""
}

func FilterListings(f domain.SearchFilter, in []domain.Listing) []domain.Listing {
	out := make([]domain.Listing, 0, len(in))
	for _, l := range in {
		keep, why := ShouldKeepListing(f, l)
		if !keep {
			log.Printf("[search] skipped (%s) title=%q link=%q", why, l.Title, l.Link)
			continue
		}
		out = append(out, l)
	}
	return out
}
