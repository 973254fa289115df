package dashboard

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-multierror"

	"github.com/banshee-data/bikeshare.report/internal/filter"
)

// apiParser collects every malformed query parameter instead of stopping
// at the first.
type apiParser struct {
	q    url.Values
	errs *multierror.Error
}

func (p *apiParser) text(name string) *string {
	if !p.q.Has(name) {
		return nil
	}
	v := p.q.Get(name)
	return &v
}

func (p *apiParser) integer(name string) *int {
	if !p.q.Has(name) {
		return nil
	}
	v, err := strconv.Atoi(p.q.Get(name))
	if err != nil {
		p.errs = multierror.Append(p.errs, fmt.Errorf("%s: %q is not an integer", name, p.q.Get(name)))
		return nil
	}
	return &v
}

func (p *apiParser) number(name string) *float64 {
	if !p.q.Has(name) {
		return nil
	}
	v, err := strconv.ParseFloat(p.q.Get(name), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.errs = multierror.Append(p.errs, fmt.Errorf("%s: %q is not a finite number", name, p.q.Get(name)))
		return nil
	}
	return &v
}

// band builds a Band from a center and an optional radius (default 0). A
// radius without a center is an error.
func (p *apiParser) band(center, radius string) *filter.Band {
	c, r := p.number(center), p.number(radius)
	if c == nil {
		if r != nil {
			p.errs = multierror.Append(p.errs, fmt.Errorf("%s requires %s", radius, center))
		}
		return nil
	}
	b := &filter.Band{Center: *c}
	if r != nil {
		b.Radius = *r
	}
	return b
}

func (p *apiParser) err() error {
	return p.errs.ErrorOrNil()
}
