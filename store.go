package points

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"slices"
	"time"

	"github.com/etnz/points/date"
)

// DefaultKey is the key of the portfolio snapshot in the blob store.
const DefaultKey = "points_pilot_programs"

// ErrUnknownProgram is returned by the benefit helpers when no program has the given id.
var ErrUnknownProgram = errors.New("unknown program")

// BlobStore is the persistence needed by a Store. A missing key must be
// reported with an error matching fs.ErrNotExist.
//
// See package storage for implementations.
type BlobStore interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// Store is the single owner of the portfolio state.
//
// Every mutation writes a full snapshot of the portfolio to the blob store.
// A Store is meant to be used by a single goroutine.
type Store struct {
	programs []Program
	blobs    BlobStore
	key      string
	now      func() time.Time
	// dirty is set while the last persisted snapshot is behind programs.
	dirty bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now as the source of lastUpdated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty store persisted in blobs under key.
// Call Load to read the persisted portfolio.
func NewStore(blobs BlobStore, key string, opts ...Option) *Store {
	s := &Store{
		programs: []Program{},
		blobs:    blobs,
		key:      key,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted portfolio. A missing or unreadable snapshot is
// replaced by the example programs, Load never fails.
func (s *Store) Load() []Program {
	data, err := s.blobs.Get(s.key)
	if err == nil {
		var programs []Program
		programs, err = DecodePrograms(bytes.NewReader(data))
		if err == nil {
			s.programs = programs
			return s.Programs()
		}
	}
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("no portfolio under %q, starting with the example programs", s.key)
	} else {
		log.Printf("warning, portfolio under %q is unreadable, starting with the example programs instead: %v", s.key, err)
	}
	s.programs = Seed(s.now())
	return s.Programs()
}

// Programs returns a copy of the current portfolio, in insertion order.
func (s *Store) Programs() []Program {
	snapshot := make([]Program, 0, len(s.programs))
	for _, p := range s.programs {
		snapshot = append(snapshot, p.Clone())
	}
	return snapshot
}

// Program returns the program with that id.
func (s *Store) Program(id string) (Program, bool) {
	for _, p := range s.programs {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return Program{}, false
}

// TotalBalance returns the sum of all balances.
func (s *Store) TotalBalance() Points { return TotalBalance(s.programs) }

// AddProgram appends p to the portfolio. lastUpdated is set to now if it is
// zero and benefits without count get a count of 1.
//
// No check is made on the uniqueness of p.ID: the caller is in charge of
// generating a fresh one (see NewID). A program breaking the model invariants
// is rejected with an error wrapping ErrInvalidProgram and the portfolio is
// left unchanged.
func (s *Store) AddProgram(p Program) ([]Program, error) {
	p = p.withDefaults()
	if err := p.Validate(); err != nil {
		return s.Programs(), err
	}
	if p.LastUpdated.IsZero() {
		p.LastUpdated = s.now()
	}
	s.programs = append(s.programs, p)
	return s.commit()
}

// ProgramUpdate holds the fields to change in a program, nil fields are left unchanged.
type ProgramUpdate struct {
	Name         *string
	Provider     *string
	Type         *ProgramType
	Balance      *Points
	CurrencyName *string
	// ExpirationDate set to a pointer to the zero Date removes the expiration.
	ExpirationDate *date.Date
	Benefits       *[]Benefit
	Notes          *string
}

// IsEmpty reports whether the update does not change anything.
func (u ProgramUpdate) IsEmpty() bool { return u == ProgramUpdate{} }

func (u ProgramUpdate) apply(p Program) Program {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Provider != nil {
		p.Provider = *u.Provider
	}
	if u.Type != nil {
		p.Type = *u.Type
	}
	if u.Balance != nil {
		p.Balance = *u.Balance
	}
	if u.CurrencyName != nil {
		p.CurrencyName = *u.CurrencyName
	}
	if u.ExpirationDate != nil {
		p.ExpirationDate = *u.ExpirationDate
	}
	if u.Benefits != nil {
		p.Benefits = Program{Benefits: *u.Benefits}.Clone().Benefits
	}
	if u.Notes != nil {
		p.Notes = *u.Notes
	}
	return p
}

// UpdateProgram merges u into the program with that id and refreshes its
// lastUpdated. It does nothing if there is no such program.
//
// An update that would break the model invariants is rejected with an error
// wrapping ErrInvalidProgram and the portfolio is left unchanged.
func (s *Store) UpdateProgram(id string, u ProgramUpdate) ([]Program, error) {
	updated := make(map[int]Program)
	for i, p := range s.programs {
		if p.ID != id {
			continue
		}
		p = u.apply(p).withDefaults()
		if err := p.Validate(); err != nil {
			return s.Programs(), err
		}
		p.LastUpdated = s.now()
		updated[i] = p
	}
	if len(updated) == 0 {
		return s.Programs(), nil
	}
	for i, p := range updated {
		s.programs[i] = p
	}
	return s.commit()
}

// DeleteProgram removes the program with that id. It does nothing if there is no such program.
func (s *Store) DeleteProgram(id string) ([]Program, error) {
	n := len(s.programs)
	s.programs = slices.DeleteFunc(s.programs, func(p Program) bool { return p.ID == id })
	if len(s.programs) == n {
		return s.Programs(), nil
	}
	return s.commit()
}

// AddBenefit appends b to the benefits of a program. A missing benefit id is
// generated, a missing type is Generic and a missing count is 1.
//
// Programs sharing programID each get the benefit, with their own generated id.
func (s *Store) AddBenefit(programID string, b Benefit) ([]Program, error) {
	if b.Type == "" {
		b.Type = Generic
	} else if t, err := ParseBenefitType(string(b.Type)); err == nil {
		b.Type = t
	}
	if b.Count == 0 {
		b.Count = 1
	}
	return s.editBenefits(programID, "add", func(p Program) ([]Benefit, bool, error) {
		b := b
		if b.ID == "" {
			b.ID = NextBenefitID(p.Benefits)
		}
		if err := b.Validate(); err != nil {
			return nil, false, err
		}
		if _, exists := p.Benefit(b.ID); exists {
			return nil, false, fmt.Errorf("program %q already has a benefit %q", programID, b.ID)
		}
		return append(p.Benefits, b), true, nil
	})
}

// RemoveBenefit removes a benefit from a program. It does nothing if the program has no such benefit.
func (s *Store) RemoveBenefit(programID, benefitID string) ([]Program, error) {
	return s.editBenefits(programID, "remove", func(p Program) ([]Benefit, bool, error) {
		if _, exists := p.Benefit(benefitID); !exists {
			return nil, false, nil
		}
		return slices.DeleteFunc(p.Benefits, func(b Benefit) bool { return b.ID == benefitID }), true, nil
	})
}

// editBenefits replaces the benefits of every program with that id by the
// result of edit, called on a copy of each program. Nothing changes if edit
// fails for one of them.
func (s *Store) editBenefits(programID, verb string, edit func(Program) ([]Benefit, bool, error)) ([]Program, error) {
	found := false
	updated := make(map[int]Program)
	for i, p := range s.programs {
		if p.ID != programID {
			continue
		}
		found = true
		p = p.Clone()
		benefits, changed, err := edit(p)
		if err != nil {
			return s.Programs(), err
		}
		if !changed {
			continue
		}
		p.Benefits = benefits
		p = p.withDefaults()
		if err := p.Validate(); err != nil {
			return s.Programs(), err
		}
		p.LastUpdated = s.now()
		updated[i] = p
	}
	if !found {
		return s.Programs(), fmt.Errorf("cannot %s benefit of %q: %w", verb, programID, ErrUnknownProgram)
	}
	if len(updated) == 0 {
		return s.Programs(), nil
	}
	for i, p := range updated {
		s.programs[i] = p
	}
	return s.commit()
}

// Merge imports programs into the portfolio. A program replaces the one with
// the same id, in place, other programs are appended. With replace, the
// portfolio is made of programs only.
//
// All programs are validated first: on error nothing is imported.
func (s *Store) Merge(programs []Program, replace bool) ([]Program, error) {
	incoming := make([]Program, 0, len(programs))
	for _, p := range programs {
		p = p.withDefaults()
		if err := p.Validate(); err != nil {
			return s.Programs(), err
		}
		if p.LastUpdated.IsZero() {
			p.LastUpdated = s.now()
		}
		incoming = append(incoming, p)
	}

	merged := []Program{}
	if !replace {
		merged = append(merged, s.programs...)
	}
	for _, p := range incoming {
		i := slices.IndexFunc(merged, func(q Program) bool { return q.ID == p.ID })
		if i >= 0 {
			merged[i] = p
		} else {
			merged = append(merged, p)
		}
	}
	s.programs = merged
	return s.commit()
}

// Close persists the portfolio if the last save failed. A store that was
// only read is closed without writing anything.
func (s *Store) Close() error {
	if !s.dirty {
		return nil
	}
	return s.persist()
}

// commit persists the current state and returns a snapshot of it.
// The in-memory state is kept even if the persistence fails.
func (s *Store) commit() ([]Program, error) {
	return s.Programs(), s.persist()
}

// persist is the only place where the portfolio is serialized.
func (s *Store) persist() error {
	s.dirty = true
	var buf bytes.Buffer
	if err := EncodePrograms(&buf, s.programs); err != nil {
		return fmt.Errorf("could not encode portfolio: %w", err)
	}
	if err := s.blobs.Put(s.key, buf.Bytes()); err != nil {
		return fmt.Errorf("could not save portfolio under %q: %w", s.key, err)
	}
	s.dirty = false
	return nil
}
