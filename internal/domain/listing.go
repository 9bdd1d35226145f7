package domain

import (
	"strings"
)

// Listing is one scraped job posting. Link is its identity.
type Listing struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	Link    string `json:"link"`
}

type Country string

const (
	CountryRomania       Country = "Romania"
	CountryGermany       Country = "Germany"
	CountryFrance        Country = "France"
	CountryUnitedKingdom Country = "United Kingdom"
	CountrySpain         Country = "Spain"
	CountryItaly         Country = "Italy"
	CountryPoland        Country = "Poland"
	CountryNetherlands   Country = "Netherlands"
)

// Countries is the order the form offers them in.
var Countries = []Country{
	CountryRomania,
	CountryGermany,
	CountryFrance,
	CountryUnitedKingdom,
	CountrySpain,
	CountryItaly,
	CountryPoland,
	CountryNetherlands,
}

func ParseCountry(s string) (Country, error) {
	s = strings.TrimSpace(s)
	for _, c := range Countries {
		if string(c) == s {
			return c, nil
		}
	}
	return "", Invalid("Unknown country %q.", s)
}

type WorkType string

const (
	WorkAny    WorkType = "Any"
	WorkRemote WorkType = "Remote"
	WorkHybrid WorkType = "Hybrid"
	WorkOnSite WorkType = "On-site"
)

var WorkTypes = []WorkType{WorkAny, WorkRemote, WorkHybrid, WorkOnSite}

// ParseWorkType treats an empty value as Any.
func ParseWorkType(s string) (WorkType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return WorkAny, nil
	}
	for _, w := range WorkTypes {
		if string(w) == s {
			return w, nil
		}
	}
	return "", Invalid("Unknown work type %q.", s)
}

// SearchFilter is built from the search form for a single run.
// WorkType is collected but not applied to the query or to filtering.
type SearchFilter struct {
	Role          string   `json:"role"`
	Country       Country  `json:"country"`
	EasyApplyOnly bool     `json:"easyApplyOnly"`
	WorkType      WorkType `json:"workType"`
}

const MsgEmptyRole = "Please enter a role to search!"

// NewSearchFilter parses raw form values.
func NewSearchFilter(role, country string, easyApplyOnly bool, workType string) (SearchFilter, error) {
	f := SearchFilter{Role: strings.TrimSpace(role), EasyApplyOnly: easyApplyOnly}
	if f.Role == "" {
		return f, Invalid(MsgEmptyRole)
	}
	c, err := ParseCountry(country)
	if err != nil {
		return f, err
	}
	f.Country = c
	w, err := ParseWorkType(workType)
	if err != nil {
		return f, err
	}
	f.WorkType = w
	return f, nil
}

func (f SearchFilter) Validate() error {
	if strings.TrimSpace(f.Role) == "" {
		return Invalid(MsgEmptyRole)
	}
	if _, err := ParseCountry(string(f.Country)); err != nil {
		return err
	}
	return nil
}

// CVRequest is one optimize action. The file at FilePath is read but its
// content is not part of the request sent to the model.
type CVRequest struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	FilePath string `json:"filePath"`
}
