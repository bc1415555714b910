// Package policy holds the versioned policy tables (tax brackets, Social
// Security thresholds, IRMAA tiers, RMD divisors, payroll limits, SSA wage
// index and bend points, contribution limits) and the year-indexed lookup
// the engine uses on its hot path.
//
// Lookups select the most recent table whose year does not exceed the
// target year; when every table is future-dated the earliest available one
// is returned. A lookup never fails: a missing table kind yields nil and
// callers treat that as a zero-effect result.
package policy

import (
	"sort"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/shopspring/decimal"
)

// Set is the complete policy table collection for a run.
type Set struct {
	Tax                []domain.TaxPolicy               `yaml:"tax"`
	SSTax              []domain.SSTaxPolicy             `yaml:"ss_tax"`
	IRMAA              []domain.IRMAAPolicy             `yaml:"irmaa"`
	RMD                []domain.RMDPolicy               `yaml:"rmd"`
	Payroll            []domain.PayrollPolicy           `yaml:"payroll"`
	WageIndex          []domain.WageIndexEntry          `yaml:"wage_index"`
	BendPoints         []domain.BendPointPolicy         `yaml:"bend_points"`
	ContributionLimits []domain.ContributionLimitPolicy `yaml:"contribution_limits"`

	// InflationRate inflates table thresholds from their as-of year to the
	// simulation date.
	InflationRate decimal.Decimal `yaml:"inflation_rate"`

	index *setIndex
}

type setIndex struct {
	tax     map[domain.FilingStatus][]*domain.TaxPolicy
	ssTax   map[domain.FilingStatus][]*domain.SSTaxPolicy
	irmaa   map[domain.FilingStatus][]*domain.IRMAAPolicy
	rmd     []*domain.RMDPolicy
	payroll []*domain.PayrollPolicy
	bend    []*domain.BendPointPolicy
	limits  []*domain.ContributionLimitPolicy
	wage    []*domain.WageIndexEntry
}

// BuildIndex precomputes the per-filing-status year indexes. It is called
// once at snapshot load time; lookups afterwards do no filtering.
func (s *Set) BuildIndex() {
	idx := &setIndex{
		tax:   map[domain.FilingStatus][]*domain.TaxPolicy{},
		ssTax: map[domain.FilingStatus][]*domain.SSTaxPolicy{},
		irmaa: map[domain.FilingStatus][]*domain.IRMAAPolicy{},
	}
	for i := range s.Tax {
		p := &s.Tax[i]
		idx.tax[p.FilingStatus] = append(idx.tax[p.FilingStatus], p)
	}
	for _, ps := range idx.tax {
		sort.Slice(ps, func(i, j int) bool { return ps[i].Year < ps[j].Year })
	}
	for i := range s.SSTax {
		p := &s.SSTax[i]
		idx.ssTax[p.FilingStatus] = append(idx.ssTax[p.FilingStatus], p)
	}
	for _, ps := range idx.ssTax {
		sort.Slice(ps, func(i, j int) bool { return ps[i].Year < ps[j].Year })
	}
	for i := range s.IRMAA {
		p := &s.IRMAA[i]
		idx.irmaa[p.FilingStatus] = append(idx.irmaa[p.FilingStatus], p)
	}
	for _, ps := range idx.irmaa {
		sort.Slice(ps, func(i, j int) bool { return ps[i].Year < ps[j].Year })
	}
	for i := range s.RMD {
		idx.rmd = append(idx.rmd, &s.RMD[i])
	}
	sort.Slice(idx.rmd, func(i, j int) bool { return idx.rmd[i].Year < idx.rmd[j].Year })
	for i := range s.Payroll {
		idx.payroll = append(idx.payroll, &s.Payroll[i])
	}
	sort.Slice(idx.payroll, func(i, j int) bool { return idx.payroll[i].Year < idx.payroll[j].Year })
	for i := range s.BendPoints {
		idx.bend = append(idx.bend, &s.BendPoints[i])
	}
	sort.Slice(idx.bend, func(i, j int) bool { return idx.bend[i].Year < idx.bend[j].Year })
	for i := range s.ContributionLimits {
		idx.limits = append(idx.limits, &s.ContributionLimits[i])
	}
	sort.Slice(idx.limits, func(i, j int) bool { return idx.limits[i].Year < idx.limits[j].Year })
	for i := range s.WageIndex {
		idx.wage = append(idx.wage, &s.WageIndex[i])
	}
	sort.Slice(idx.wage, func(i, j int) bool { return idx.wage[i].Year < idx.wage[j].Year })
	s.index = idx
}

func (s *Set) ensureIndex() *setIndex {
	if s.index == nil {
		s.BuildIndex()
	}
	return s.index
}

// mostRecent returns the last entry with year <= target, or the earliest
// entry when all are future-dated. Returns -1 for an empty slice.
func mostRecent(years []int, target int) int {
	if len(years) == 0 {
		return -1
	}
	best := -1
	for i, y := range years {
		if y <= target {
			best = i
		}
	}
	if best == -1 {
		return 0
	}
	return best
}

// TaxPolicyFor returns the federal tax table for the year and filing
// status, or nil when none is configured.
func (s *Set) TaxPolicyFor(year int, fs domain.FilingStatus) *domain.TaxPolicy {
	ps := s.ensureIndex().tax[fs]
	years := make([]int, len(ps))
	for i, p := range ps {
		years[i] = p.Year
	}
	if i := mostRecent(years, year); i >= 0 {
		return ps[i]
	}
	return nil
}

// SSTaxPolicyFor returns the Social Security taxability thresholds.
func (s *Set) SSTaxPolicyFor(year int, fs domain.FilingStatus) *domain.SSTaxPolicy {
	ps := s.ensureIndex().ssTax[fs]
	years := make([]int, len(ps))
	for i, p := range ps {
		years[i] = p.Year
	}
	if i := mostRecent(years, year); i >= 0 {
		return ps[i]
	}
	return nil
}

// IRMAAPolicyFor returns the IRMAA tier table.
func (s *Set) IRMAAPolicyFor(year int, fs domain.FilingStatus) *domain.IRMAAPolicy {
	ps := s.ensureIndex().irmaa[fs]
	years := make([]int, len(ps))
	for i, p := range ps {
		years[i] = p.Year
	}
	if i := mostRecent(years, year); i >= 0 {
		return ps[i]
	}
	return nil
}

// RMDPolicyFor returns the RMD divisor table.
func (s *Set) RMDPolicyFor(year int) *domain.RMDPolicy {
	ps := s.ensureIndex().rmd
	years := make([]int, len(ps))
	for i, p := range ps {
		years[i] = p.Year
	}
	if i := mostRecent(years, year); i >= 0 {
		return ps[i]
	}
	return nil
}

// PayrollPolicyFor returns the FICA table.
func (s *Set) PayrollPolicyFor(year int) *domain.PayrollPolicy {
	ps := s.ensureIndex().payroll
	years := make([]int, len(ps))
	for i, p := range ps {
		years[i] = p.Year
	}
	if i := mostRecent(years, year); i >= 0 {
		return ps[i]
	}
	return nil
}

// BendPointsFor returns the SSA bend points for a claim year.
func (s *Set) BendPointsFor(year int) *domain.BendPointPolicy {
	ps := s.ensureIndex().bend
	years := make([]int, len(ps))
	for i, p := range ps {
		years[i] = p.Year
	}
	if i := mostRecent(years, year); i >= 0 {
		return ps[i]
	}
	return nil
}

// ContributionLimitsFor returns the per-tax-type annual contribution caps.
func (s *Set) ContributionLimitsFor(year int) *domain.ContributionLimitPolicy {
	ps := s.ensureIndex().limits
	years := make([]int, len(ps))
	for i, p := range ps {
		years[i] = p.Year
	}
	if i := mostRecent(years, year); i >= 0 {
		return ps[i]
	}
	return nil
}

// WageIndexFor returns the SSA average wage index for a year. Years beyond
// the table are extrapolated from the last entry by the set's inflation
// rate; years before the table use the earliest entry.
func (s *Set) WageIndexFor(year int) decimal.Decimal {
	ps := s.ensureIndex().wage
	if len(ps) == 0 {
		return decimal.NewFromInt(1)
	}
	first, last := ps[0], ps[len(ps)-1]
	if year <= first.Year {
		return first.Index
	}
	if year <= last.Year {
		for _, p := range ps {
			if p.Year == year {
				return p.Index
			}
		}
		// Gap year inside the table: carry the previous entry forward.
		prev := first
		for _, p := range ps {
			if p.Year > year {
				break
			}
			prev = p
		}
		return prev.Index
	}
	growth := decimal.NewFromInt(1).Add(s.InflationRate)
	idx := last.Index
	for y := last.Year; y < year; y++ {
		idx = idx.Mul(growth)
	}
	return idx
}
