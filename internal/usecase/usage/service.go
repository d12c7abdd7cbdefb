// Package usage reports embedding token consumption against the configured budget.
package usage

import (
	"context"
	"time"
)

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// Report is an embedding token usage report for a time period.
type Report struct {
	Period      Period
	PeriodStart int64 // unix millis
	PeriodEnd   int64 // unix millis
	TokensUsed  int64
	TokensLimit int64 // 0 = unlimited
	Remaining   int64 // -1 = unlimited
	Exhausted   bool
}

// Service handles usage reporting.
type Service struct {
	br BudgetReader
}

// New creates a Service. br can be nil (unlimited mode).
func New(br BudgetReader) *Service {
	return &Service{br: br}
}

// Report builds a usage report for the given period.
func (s *Service) Report(_ context.Context, period Period) Report {
	now := time.Now().UTC()
	r := Report{Period: period, Remaining: -1}

	switch period {
	case PeriodDay:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		r.PeriodStart = start.UnixMilli()
		r.PeriodEnd = start.Add(24 * time.Hour).UnixMilli()
		if s.br != nil {
			r.TokensUsed = s.br.DailyUsed()
			r.TokensLimit = s.br.DailyLimit()
			r.Remaining = s.br.RemainingDaily()
		}
	default: // month
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		r.Period = PeriodMonth
		r.PeriodStart = start.UnixMilli()
		r.PeriodEnd = start.AddDate(0, 1, 0).UnixMilli()
		if s.br != nil {
			r.TokensUsed = s.br.MonthlyUsed()
			r.TokensLimit = s.br.MonthlyLimit()
			r.Remaining = s.br.RemainingMonthly()
		}
	}

	r.Exhausted = r.TokensLimit > 0 && r.Remaining == 0
	return r
}
