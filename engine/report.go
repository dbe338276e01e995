package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// FatalInputError aborts the whole run: a required feed or reference table
// is missing or empty. No engine output is persisted when one is raised.
type FatalInputError struct {
	Reason string
}

func (e *FatalInputError) Error() string {
	return "fatal input error: " + e.Reason
}

func fatalf(format string, args ...any) error {
	return &FatalInputError{Reason: fmt.Sprintf(format, args...)}
}

// IsFatalInputError reports whether err is (or wraps) a FatalInputError.
func IsFatalInputError(err error) bool {
	var fe *FatalInputError
	return errors.As(err, &fe)
}

// SkippedAccount records one account excluded from a run because its facts
// were incomplete. The run continues without it.
type SkippedAccount struct {
	AccountId string `json:"account_id"`
	Reason    string `json:"reason"`
}

// DefaultedField records one documented-default substitution for a missing
// or out-of-range non-critical input. The run continues.
type DefaultedField struct {
	AccountId   string `json:"account_id"`
	Field       string `json:"field"`
	Substituted string `json:"substituted"`
	Reason      string `json:"reason"`
}

// ReconciliationFailure records one account whose movement buckets do not
// sum to closing - opening. This is a correctness bug, never rounded away.
type ReconciliationFailure struct {
	AccountId string          `json:"account_id"`
	Opening   decimal.Decimal `json:"opening"`
	Closing   decimal.Decimal `json:"closing"`
	BucketSum decimal.Decimal `json:"bucket_sum"`
}

// RunReport is the structured account of everything a run skipped,
// defaulted or failed to reconcile. Nothing is swallowed without being
// counted here.
type RunReport struct {
	Skipped                []SkippedAccount        `json:"skipped"`
	Defaulted              []DefaultedField        `json:"defaulted"`
	ReconciliationFailures []ReconciliationFailure `json:"reconciliation_failures"`
}

func (r *RunReport) Skip(accountId, reason string) {
	r.Skipped = append(r.Skipped, SkippedAccount{AccountId: accountId, Reason: reason})
}

func (r *RunReport) Default(accountId, field, substituted, reason string) {
	r.Defaulted = append(r.Defaulted, DefaultedField{
		AccountId:   accountId,
		Field:       field,
		Substituted: substituted,
		Reason:      reason,
	})
}

func (r *RunReport) FailReconciliation(accountId string, opening, closing, bucketSum decimal.Decimal) {
	r.ReconciliationFailures = append(r.ReconciliationFailures, ReconciliationFailure{
		AccountId: accountId,
		Opening:   opening,
		Closing:   closing,
		BucketSum: bucketSum,
	})
}

// Merge appends another report's entries, preserving their order.
func (r *RunReport) Merge(other RunReport) {
	r.Skipped = append(r.Skipped, other.Skipped...)
	r.Defaulted = append(r.Defaulted, other.Defaulted...)
	r.ReconciliationFailures = append(r.ReconciliationFailures, other.ReconciliationFailures...)
}

func (r *RunReport) Empty() bool {
	return len(r.Skipped) == 0 && len(r.Defaulted) == 0 && len(r.ReconciliationFailures) == 0
}
