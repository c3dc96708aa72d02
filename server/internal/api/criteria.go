package api

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/obsidianstack/launchdash/pkg/launch"
)

// ErrInvertedRange is returned when payload_min is greater than payload_max.
var ErrInvertedRange = errors.New("payload_min is greater than payload_max")

// ParseCriteria reads site, payload_min and payload_max from q. A missing
// site selects all sites and a missing bound defaults to the dataset's
// observed bound.
func ParseCriteria(q url.Values, ds *launch.Dataset) (launch.Criteria, error) {
	lo, err := parseBound(q, "payload_min")
	if err != nil {
		return launch.Criteria{}, err
	}
	hi, err := parseBound(q, "payload_max")
	if err != nil {
		return launch.Criteria{}, err
	}
	return ResolveCriteria(ds, q.Get("site"), lo, hi)
}

// ResolveCriteria fills defaults for an incoming selection and validates it.
// Bounds are used as given and never clamped to the slider range. A site
// absent from the dataset is valid and matches nothing.
func ResolveCriteria(ds *launch.Dataset, site string, minKg, maxKg *float64) (launch.Criteria, error) {
	site = strings.TrimSpace(site)
	if site == "" {
		site = launch.AllSites
	}
	lo, hi := ds.PayloadBounds()
	if minKg != nil {
		lo = *minKg
	}
	if maxKg != nil {
		hi = *maxKg
	}
	for _, v := range []float64{lo, hi} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return launch.Criteria{}, fmt.Errorf("payload bound %v is not a finite number", v)
		}
	}
	c := launch.Criteria{Site: site, Payload: launch.Range{Min: lo, Max: hi}}
	if c.Payload.Inverted() {
		return launch.Criteria{}, ErrInvertedRange
	}
	return c, nil
}

func parseBound(q url.Values, name string) (*float64, error) {
	s := strings.TrimSpace(q.Get(name))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not a number", name, s)
	}
	return &v, nil
}
