package loopkit

import "time"

// Schedule plans a sequence of delayed actions and lets due ones run on
// demand, or be cancelled before their due date.
//
// It is not part of the dispatcher proper, but comes in handy for a Model
// that wants to stage several delayed effects (for example, a burst of
// Custom messages a few milliseconds apart) without opening a new named
// effect group for each one. In Update, make several calls to After, and
// call Cancel as needed (on an interrupting input event, say). Then call
// Execute periodically (for example from a ticking command) to run whatever
// is due.
type Schedule struct {
	sfs []schedfn
}

type schedfn struct {
	t  time.Time
	fn func()
}

// Cancel removes any remaining scheduled actions so that Done returns true.
func (s *Schedule) Cancel() {
	s.sfs = nil
}

// Finish runs every remaining scheduled action immediately, in order, and
// returns how many ran.
func (s *Schedule) Finish() int {
	count := len(s.sfs)
	for _, sf := range s.sfs {
		sf.fn()
	}
	s.sfs = nil
	return count
}

// After schedules fn to run with an additional delay d after the last
// previously scheduled action's due date, or after time.Now() if there is
// none.
func (s *Schedule) After(d time.Duration, fn func()) {
	var ot time.Time
	if len(s.sfs) == 0 {
		ot = time.Now()
	} else {
		ot = s.sfs[len(s.sfs)-1].t
	}
	s.sfs = append(s.sfs, schedfn{t: ot.Add(d), fn: fn})
}

// Execute runs, in order, every scheduled action whose due date has passed.
// It returns how many ran.
func (s *Schedule) Execute() int {
	t := time.Now()
	count := 0
	for len(s.sfs) > 0 && s.sfs[0].t.Before(t) {
		s.sfs[0].fn()
		s.sfs = s.sfs[1:]
		count++
	}
	if len(s.sfs) == 0 {
		s.sfs = nil
	}
	return count
}

// Done reports whether there are no more scheduled actions.
func (s *Schedule) Done() bool {
	return len(s.sfs) == 0
}
