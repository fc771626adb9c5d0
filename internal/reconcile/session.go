// Package reconcile matches imported statement candidates against existing
// transactions and manages the user's selection prior to commit. A Session
// is a value object: every mutation returns a new Session, leaving the
// previous one untouched, so the engine is testable without any transport
// or storage harness.
package reconcile

import (
	"time"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/ofx"
	"centavo/internal/series"
)

// DuplicateDateTolerance is the symmetric window, in days, within which a
// candidate matching an existing transaction on (amount, type) is flagged
// as a duplicate. One day absorbs the common posting-date skew between a
// statement and a manually entered transaction; this is deliberately not a
// fuzzy matcher.
const DuplicateDateTolerance = 1

// Entry is one candidate inside a session, together with its transient
// reconciliation state. Duplicate and Selected exist only for the lifetime
// of the session and are never persisted.
type Entry struct {
	Candidate ofx.Candidate `json:"candidate"`
	Duplicate bool          `json:"duplicate"`
	Selected  bool          `json:"selected"`
}

// Session is the working set of one import flow. It lives from statement
// parse until commit or cancel and is then discarded.
type Session struct {
	Entries []Entry `json:"entries"`
}

// BuildSession flags duplicates against the existing transactions and
// selects every candidate, duplicates included: duplicate detection is
// advisory, the user decides what to drop.
func BuildSession(candidates []ofx.Candidate, existing []models.Transaction) Session {
	entries := make([]Entry, len(candidates))
	for i, c := range candidates {
		entries[i] = Entry{
			Candidate: c,
			Duplicate: isDuplicate(c, existing),
			Selected:  true,
		}
	}
	return Session{Entries: entries}
}

func isDuplicate(c ofx.Candidate, existing []models.Transaction) bool {
	for i := range existing {
		t := &existing[i]
		if t.Amount != c.Amount || t.Type != c.Type {
			continue
		}
		if dayDistance(series.Day(t.Date), series.Day(c.Date)) <= DuplicateDateTolerance {
			return true
		}
	}
	return false
}

// dayDistance returns the absolute distance between two calendar dates in
// whole days.
func dayDistance(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d / (24 * time.Hour))
}

// ToggleOne flips the selection of the entry at index i.
func (s Session) ToggleOne(i int) (Session, error) {
	if i < 0 || i >= len(s.Entries) {
		return s, apperrors.WithMessage(apperrors.ErrInvalidInput, "candidate index out of range")
	}
	next := s.clone()
	next.Entries[i].Selected = !next.Entries[i].Selected
	return next, nil
}

// ToggleAll selects every entry unless all are already selected, in which
// case it deselects every entry. The direction is computed from the
// current full-vs-partial state, not from a stored flag.
func (s Session) ToggleAll() Session {
	next := s.clone()
	target := !s.AllSelected()
	for i := range next.Entries {
		next.Entries[i].Selected = target
	}
	return next
}

// SetCategory reassigns the suggested category of the entry at index i.
func (s Session) SetCategory(i int, categoryID *uint) (Session, error) {
	if i < 0 || i >= len(s.Entries) {
		return s, apperrors.WithMessage(apperrors.ErrInvalidInput, "candidate index out of range")
	}
	next := s.clone()
	next.Entries[i].Candidate.SuggestedCategoryID = categoryID
	return next, nil
}

// Remove structurally deletes the entry at index i. Surviving entries keep
// their selection and duplicate state; indexes above i shift down by one.
func (s Session) Remove(i int) (Session, error) {
	if i < 0 || i >= len(s.Entries) {
		return s, apperrors.WithMessage(apperrors.ErrInvalidInput, "candidate index out of range")
	}
	next := s.clone()
	next.Entries = append(next.Entries[:i], next.Entries[i+1:]...)
	return next, nil
}

// Selected returns the candidates that would be committed right now.
func (s Session) Selected() []ofx.Candidate {
	var selected []ofx.Candidate
	for _, e := range s.Entries {
		if e.Selected {
			selected = append(selected, e.Candidate)
		}
	}
	return selected
}

// AllSelected reports whether every entry is selected. An empty session
// counts as fully selected so ToggleAll on it is a no-op.
func (s Session) AllSelected() bool {
	for _, e := range s.Entries {
		if !e.Selected {
			return false
		}
	}
	return true
}

func (s Session) clone() Session {
	entries := make([]Entry, len(s.Entries))
	copy(entries, s.Entries)
	return Session{Entries: entries}
}
