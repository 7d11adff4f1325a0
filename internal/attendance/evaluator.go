// Package attendance decides the reply to a /hadir check-in. Nothing is
// recorded: two valid check-ins by the same user both succeed.
package attendance

import (
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/planetban/hadirbot/internal/messages"
)

// TimestampLayout is how an accepted check-in time is shown.
const TimestampLayout = "01/02/2006, 15:04:05"

type Outcome int

const (
	// Unknown is the zero value, carried by the Result of a failed Evaluate.
	Unknown Outcome = iota
	Accepted
	OutsideHours
	MissingPasscode
	WrongPasscode
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case OutsideHours:
		return "outside_hours"
	case MissingPasscode:
		return "missing_passcode"
	case WrongPasscode:
		return "wrong_passcode"
	}
	return "unknown"
}

type Request struct {
	RequesterID int64
	DisplayName string
	Time        time.Time
	Args        []string
}

type Result struct {
	Outcome Outcome
	Text    string
}

// ParseError is returned when the supplied passcode is not written as a
// base-10 integer.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return "invalid passcode " + strconv.Quote(e.Input) + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

type Evaluator struct {
	window   Window
	passcode int
}

func NewEvaluator(w Window, passcode int) *Evaluator {
	return &Evaluator{window: w, passcode: passcode}
}

// Evaluate runs the check-in decision. A non-numeric passcode is returned
// as an error, never as a reply. A number too large for an int is still a
// number and cannot match, so it is a wrong passcode.
func (e *Evaluator) Evaluate(req Request) (Result, error) {
	p := messages.Params{Mention: messages.Mention(req.RequesterID, req.DisplayName)}

	if !e.window.Contains(req.Time) {
		return result(OutsideHours, messages.OutsideHours, p), nil
	}
	if len(req.Args) == 0 {
		return result(MissingPasscode, messages.MissingPasscode, p), nil
	}

	code, err := strconv.Atoi(req.Args[0])
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return result(WrongPasscode, messages.WrongPasscode, p), nil
		}
		return Result{}, errors.WithStack(&ParseError{Input: req.Args[0], Err: err})
	}
	if code != e.passcode {
		return result(WrongPasscode, messages.WrongPasscode, p), nil
	}

	p.Timestamp = e.window.Local(req.Time).Format(TimestampLayout)
	return result(Accepted, messages.CheckedIn, p), nil
}

func result(o Outcome, k messages.Kind, p messages.Params) Result {
	return Result{Outcome: o, Text: messages.Render(k, p)}
}
