package shared

import (
	"fmt"
	"time"
)

// PeriodCode returns the MMyy code document numbers embed, e.g. "0625"
// for June 2025
func PeriodCode(t time.Time) string {
	return t.Format("0106")
}

// SequenceNumber formats a document number as prefix + MMyy + a five
// digit sequence, e.g. "B062500004". Sequences restart every month per
// prefix; the repository derives the next sequence from the count of
// rows already numbered in the period.
func SequenceNumber(prefix string, t time.Time, sequence int) string {
	return fmt.Sprintf("%s%s%05d", prefix, PeriodCode(t), sequence)
}
