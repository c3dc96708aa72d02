package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/obsidianstack/launchdash/pkg/launch"
)

// Row check failures. Load errors wrap one of these.
var (
	ErrMissingPayload  = errors.New("missing payload mass")
	ErrNegativePayload = errors.New("negative payload mass")
	ErrBadOutcome      = errors.New("outcome is not a whole number")
	ErrUnknownOutcome  = errors.New("outcome is neither 0 nor 1")
)

// Report summarises one load.
type Report struct {
	Read           int `json:"read"`
	Kept           int `json:"kept"`
	SkippedPayload int `json:"skipped_payload"`
	SkippedOutcome int `json:"skipped_outcome"`
	UnknownOutcome int `json:"unknown_outcome"`
}

// Skipped returns the number of rows dropped.
func (r Report) Skipped() int { return r.SkippedPayload + r.SkippedOutcome }

// parsePayload parses a payload cell. Blank cells are reported as missing.
func parsePayload(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, ErrMissingPayload
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrMissingPayload, cell)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %g", ErrNegativePayload, v)
	}
	return v, nil
}

// parseOutcome parses an outcome cell. Whole numbers other than 0 and 1 are
// returned together with ErrUnknownOutcome so lenient loads can keep them.
// Magnitudes beyond int32 are not representable and count as bad outcomes.
func parseOutcome(cell string) (launch.Outcome, error) {
	cell = strings.TrimSpace(cell)
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q", ErrBadOutcome, cell)
	}
	o := launch.Outcome(int(v))
	if !o.Valid() {
		return o, fmt.Errorf("%w: %d", ErrUnknownOutcome, int(v))
	}
	return o, nil
}

// admit applies the row checks to one parsed row and updates rep.
// It returns keep=false when the row must be dropped and a non-nil error
// when the load must fail.
func admit(rep *Report, strict bool, payloadErr, outcomeErr error) (keep bool, err error) {
	rep.Read++
	if payloadErr != nil {
		if strict {
			return false, payloadErr
		}
		rep.SkippedPayload++
		return false, nil
	}
	if outcomeErr != nil {
		if strict {
			return false, outcomeErr
		}
		if !errors.Is(outcomeErr, ErrUnknownOutcome) {
			rep.SkippedOutcome++
			return false, nil
		}
		rep.UnknownOutcome++
	}
	rep.Kept++
	return true, nil
}
