package scrape

import (
	"context"
	"fmt"
	"log"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/store"
)

const (
	MsgSearching    = "Searching for jobs..."
	MsgNoJobsMatch  = "No jobs match the filters."
	MsgNoNewJobs    = "No new jobs found. Showing previously saved jobs."
	msgNewJobsSaved = "%d new jobs found and saved."
)

type OutcomeKind string

const (
	// OutcomeNew: new listings were appended to the store and are shown.
	OutcomeNew OutcomeKind = "new"
	// OutcomeStale: nothing new; the whole stored table is shown under a warning.
	OutcomeStale OutcomeKind = "stale"
	// OutcomeEmpty: nothing new and nothing stored.
	OutcomeEmpty OutcomeKind = "empty"
)

type Outcome struct {
	Kind OutcomeKind `json:"kind"`
	// Listings is what the results panel shows.
	Listings []domain.Listing `json:"listings"`
	// Banner is a warning shown above the listings, if any.
	Banner string `json:"banner,omitempty"`
	// Status replaces the status line. Empty leaves the previous text.
	Status  string `json:"status,omitempty"`
	Fetched int    `json:"fetched"`
}

type ListingSource interface {
	Fetch(ctx context.Context, f domain.SearchFilter) ([]domain.Listing, error)
}

type Ledger interface {
	Merge(ctx context.Context, fetched []domain.Listing) (store.MergeResult, error)
}

// RunSearch is the search action: fetch, filter, merge into the ledger, and
// decide what to show.
func RunSearch(ctx context.Context, src ListingSource, ledger Ledger, f domain.SearchFilter) (Outcome, error) {
	if err := f.Validate(); err != nil {
		return Outcome{}, err
	}
	if f.WorkType != "" && f.WorkType != domain.WorkAny {
		log.Printf("[search] work type %q is recorded but not applied", f.WorkType)
	}

	fetched, err := src.Fetch(ctx, f)
	if err != nil {
		return Outcome{}, err
	}
	kept := FilterListings(f, fetched)

	res, err := ledger.Merge(ctx, kept)
	if err != nil {
		return Outcome{}, fmt.Errorf("store: %w", err)
	}

	out := Outcome{Fetched: len(fetched)}
	switch {
	case len(res.New) > 0:
		out.Kind = OutcomeNew
		out.Listings = res.New
		out.Status = fmt.Sprintf(msgNewJobsSaved, len(res.New))
	case len(res.Existing) > 0:
		out.Kind = OutcomeStale
		out.Listings = res.Existing
		out.Banner = MsgNoNewJobs
	default:
		out.Kind = OutcomeEmpty
		out.Listings = []domain.Listing{}
		out.Status = MsgNoJobsMatch
	}

	log.Printf("[search] role=%q country=%q easy_apply=%v fetched=%d kept=%d outcome=%s shown=%d",
		f.Role, f.Country, f.EasyApplyOnly, len(fetched), len(kept), out.Kind, len(out.Listings))
	return out, nil
}
