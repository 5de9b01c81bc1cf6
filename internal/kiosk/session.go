package kiosk

import "time"

// Addon is one optional service observed inside a session, keyed by its
// package id so repeats of the same id collapse naturally.
type Addon struct {
	Name string
	TS   time.Time
}

// Session accumulates one kiosk transaction between its open and close
// markers. Zero time values mean the field was never observed.
type Session struct {
	Invoice int64
	// Index is the session's position within the file, assigned on close.
	Index int

	FirstTS time.Time
	LastTS  time.Time

	CustomerName string
	LicensePlate string

	PackageID   string
	PackageName string

	PaymentType string
	paymentTS   time.Time

	ImagePath string

	Unlimited     bool
	UnlimitedType string
	unlimitedTS   time.Time

	Addons map[string]Addon

	TipAmount float64
	tipTS     time.Time

	DiscountCode   string
	DiscountAmount *float64
	Tax            *float64
	Total          *float64
}

func newSession(ts time.Time) *Session {
	return &Session{
		FirstTS: ts,
		LastTS:  ts,
		Addons:  make(map[string]Addon),
	}
}

func (s *Session) observeTS(ts time.Time) {
	if ts.IsZero() {
		return
	}
	if s.FirstTS.IsZero() || ts.Before(s.FirstTS) {
		s.FirstTS = ts
	}
	if s.LastTS.IsZero() || ts.After(s.LastTS) {
		s.LastTS = ts
	}
}

// setUnlimited records a membership marker. RECURRING always wins over NEW;
// otherwise a marker only applies when its timestamp is not older than the
// one already recorded.
func (s *Session) setUnlimited(flavor string, ts time.Time) {
	recurring := flavor == "RECURRING"
	if !recurring && !s.unlimitedTS.IsZero() && (ts.IsZero() || ts.Before(s.unlimitedTS)) {
		return
	}
	s.Unlimited = true
	if recurring || s.UnlimitedType == "" {
		s.UnlimitedType = flavor
	}
	if !ts.IsZero() {
		s.unlimitedTS = ts
	}
}

// Payment type is latest-timestamp-wins; an undated observation never
// displaces a dated one.
func (s *Session) setPayment(ptype string, ts time.Time) {
	if s.paymentTS.IsZero() || (!ts.IsZero() && !ts.Before(s.paymentTS)) {
		s.PaymentType = ptype
		s.paymentTS = ts
	}
}

func (s *Session) setTip(amount float64, ts time.Time) {
	if s.tipTS.IsZero() || (!ts.IsZero() && !ts.Before(s.tipTS)) {
		s.TipAmount = amount
		s.tipTS = ts
	}
}
