package services

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/ofx"
	"centavo/internal/reconcile"
	"centavo/internal/series"
)

// importService manages statement import flows. Sessions are held in memory
// only: nothing is persisted until commit, and cancel simply forgets the
// session. A mutex guards the registry; individual sessions are immutable
// values swapped atomically under it.
type importService struct {
	db                 *gorm.DB
	transactionService TransactionServicer

	mu       sync.Mutex
	sessions map[string]*ImportSession
}

// NewImportService creates a new ImportServicer.
func NewImportService(db *gorm.DB, transactionService TransactionServicer) ImportServicer {
	return &importService{
		db:                 db,
		transactionService: transactionService,
		sessions:           make(map[string]*ImportSession),
	}
}

// Start parses the statement, flags duplicates against the account's
// existing transactions, and opens a session with every candidate selected.
// A parse failure aborts before any session exists.
func (s *importService) Start(accountID uint, statement io.Reader) (*ImportSession, error) {
	var account models.Account
	if err := s.db.First(&account, accountID).Error; err != nil {
		return nil, apperrors.ErrAccountNotFound
	}

	candidates, err := ofx.Parse(statement)
	if err != nil {
		return nil, err
	}

	existing, err := s.existingAround(accountID, candidates)
	if err != nil {
		return nil, err
	}
	s.suggestCategories(candidates)

	session := &ImportSession{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Session:   reconcile.BuildSession(candidates, existing),
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return session, nil
}

// existingAround fetches the account's transactions inside the candidate
// date range, widened by the duplicate tolerance on both sides.
func (s *importService) existingAround(accountID uint, candidates []ofx.Candidate) ([]models.Transaction, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	min, max := candidates[0].Date, candidates[0].Date
	for _, c := range candidates[1:] {
		if c.Date.Before(min) {
			min = c.Date
		}
		if c.Date.After(max) {
			max = c.Date
		}
	}
	min = min.AddDate(0, 0, -reconcile.DuplicateDateTolerance)
	max = max.AddDate(0, 0, reconcile.DuplicateDateTolerance)

	var existing []models.Transaction
	err := s.db.
		Where("account_id = ? AND date BETWEEN ? AND ?", accountID, min, max).
		Find(&existing).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return existing, nil
}

// suggestCategories proposes a category for candidates whose description
// contains a category name. A plain substring check is enough for a
// suggestion the user can always override.
func (s *importService) suggestCategories(candidates []ofx.Candidate) {
	var categories []models.Category
	if err := s.db.Find(&categories).Error; err != nil {
		return
	}
	for i := range candidates {
		desc := strings.ToLower(candidates[i].Description)
		for j := range categories {
			cat := &categories[j]
			if string(cat.Type) != string(candidates[i].Type) {
				continue
			}
			if strings.Contains(desc, strings.ToLower(cat.Name)) {
				id := cat.ID
				candidates[i].SuggestedCategoryID = &id
				break
			}
		}
	}
}

// Get returns the session by id.
func (s *importService) Get(sessionID string) (*ImportSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, apperrors.ErrImportSessionGone
	}
	return session, nil
}

// ToggleOne flips the selection of one candidate.
func (s *importService) ToggleOne(sessionID string, index int) (*ImportSession, error) {
	return s.update(sessionID, func(sess reconcile.Session) (reconcile.Session, error) {
		return sess.ToggleOne(index)
	})
}

// ToggleAll selects or deselects every candidate.
func (s *importService) ToggleAll(sessionID string) (*ImportSession, error) {
	return s.update(sessionID, func(sess reconcile.Session) (reconcile.Session, error) {
		return sess.ToggleAll(), nil
	})
}

// SetCategory reassigns the suggested category of one candidate.
func (s *importService) SetCategory(sessionID string, index int, categoryID *uint) (*ImportSession, error) {
	if categoryID != nil {
		var category models.Category
		if err := s.db.First(&category, *categoryID).Error; err != nil {
			return nil, apperrors.ErrCategoryNotFound
		}
	}
	return s.update(sessionID, func(sess reconcile.Session) (reconcile.Session, error) {
		return sess.SetCategory(index, categoryID)
	})
}

// Remove structurally removes one candidate from the session.
func (s *importService) Remove(sessionID string, index int) (*ImportSession, error) {
	return s.update(sessionID, func(sess reconcile.Session) (reconcile.Session, error) {
		return sess.Remove(index)
	})
}

func (s *importService) update(sessionID string, fn func(reconcile.Session) (reconcile.Session, error)) (*ImportSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, apperrors.ErrImportSessionGone
	}
	next, err := fn(session.Session)
	if err != nil {
		return nil, err
	}
	updated := *session
	updated.Session = next
	s.sessions[sessionID] = &updated
	return &updated, nil
}

// Commit persists exactly the selected candidates as transactions, all or
// nothing, and closes the session. An empty selection is rejected before
// any store call. A failed commit leaves the session intact so the user
// can adjust and retry without re-uploading.
func (s *importService) Commit(sessionID string) (int, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return 0, apperrors.ErrImportSessionGone
	}

	selected := session.Session.Selected()
	if len(selected) == 0 {
		return 0, apperrors.ErrEmptySelection
	}

	drafts := make([]models.Transaction, len(selected))
	for i, c := range selected {
		drafts[i] = models.Transaction{
			AccountID:   session.AccountID,
			CategoryID:  c.SuggestedCategoryID,
			Type:        c.Type,
			Amount:      c.Amount,
			Description: c.Description,
			Date:        series.Day(c.Date),
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		_, txErr := s.transactionService.CreateBatch(tx, drafts)
		return txErr
	})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrImportCommitConflict, err)
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return len(drafts), nil
}

// Cancel discards the session. Nothing was persisted, so there is nothing
// to compensate.
func (s *importService) Cancel(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return apperrors.ErrImportSessionGone
	}
	delete(s.sessions, sessionID)
	return nil
}
