package request

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mcoot/playerbase/internal/model"
	"github.com/mcoot/playerbase/internal/query"
)

// Query parameter names shared by the list and count endpoints
const (
	ParamName          = "name"
	ParamTitle         = "title"
	ParamRace          = "race"
	ParamProfession    = "profession"
	ParamAfter         = "after"
	ParamBefore        = "before"
	ParamBanned        = "banned"
	ParamMinExperience = "minExperience"
	ParamMaxExperience = "maxExperience"
	ParamMinLevel      = "minLevel"
	ParamMaxLevel      = "maxLevel"
	ParamOrder         = "order"
	ParamPageNumber    = "pageNumber"
	ParamPageSize      = "pageSize"
)

// ParseFilter reads the filter parameters. Missing parameters leave the
// corresponding constraint unset. An after/before value of 0 counts as absent.
func ParseFilter(v url.Values) (query.Filter, error) {
	f := query.DefaultFilter()

	if s, ok := lookup(v, ParamName); ok {
		f.Name = &s
	}
	if s, ok := lookup(v, ParamTitle); ok {
		f.Title = &s
	}
	if s, ok := lookup(v, ParamRace); ok {
		race, err := model.ParseRace(s)
		if err != nil {
			return f, err
		}
		f.Race = &race
	}
	if s, ok := lookup(v, ParamProfession); ok {
		profession, err := model.ParseProfession(s)
		if err != nil {
			return f, err
		}
		f.Profession = &profession
	}

	var err error
	if f.After, err = parseMillis(v, ParamAfter); err != nil {
		return f, err
	}
	if f.Before, err = parseMillis(v, ParamBefore); err != nil {
		return f, err
	}

	if s, ok := lookup(v, ParamBanned); ok {
		banned, err := strconv.ParseBool(s)
		if err != nil {
			return f, invalidParam(ParamBanned, s)
		}
		f.Banned = &banned
	}

	bounds := []struct {
		name   string
		target *int
	}{
		{ParamMinExperience, &f.MinExperience},
		{ParamMaxExperience, &f.MaxExperience},
		{ParamMinLevel, &f.MinLevel},
		{ParamMaxLevel, &f.MaxLevel},
	}
	for _, b := range bounds {
		if err := parseInt(v, b.name, b.target); err != nil {
			return f, err
		}
	}

	return f, nil
}

// ParseQuery reads the filter parameters and the sort order
func ParseQuery(v url.Values) (query.Query, error) {
	f, err := ParseFilter(v)
	if err != nil {
		return query.Query{}, err
	}
	order, err := query.ParseOrder(v.Get(ParamOrder))
	if err != nil {
		return query.Query{}, err
	}
	return query.Query{Filter: f, Order: order}, nil
}

// ParsePage reads pageNumber and pageSize, defaulting to the first page of
// three
func ParsePage(v url.Values) (query.Page, error) {
	page := query.DefaultPage()
	if err := parseInt(v, ParamPageNumber, &page.Number); err != nil {
		return page, err
	}
	if err := parseInt(v, ParamPageSize, &page.Size); err != nil {
		return page, err
	}
	return page, nil
}

func lookup(v url.Values, name string) (string, bool) {
	if !v.Has(name) {
		return "", false
	}
	return v.Get(name), true
}

func parseInt(v url.Values, name string, target *int) error {
	s, ok := lookup(v, name)
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return invalidParam(name, s)
	}
	*target = int(n)
	return nil
}

func parseMillis(v url.Values, name string) (*time.Time, error) {
	s, ok := lookup(v, name)
	if !ok {
		return nil, nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, invalidParam(name, s)
	}
	if ms == 0 {
		return nil, nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t, nil
}

func invalidParam(name, value string) error {
	return fmt.Errorf("%w: invalid %s %q", model.ErrInvalidInput, name, value)
}
