// Package store persists transaction records behind a lazily opened GORM
// handle. The connection is established on first use and reused; concurrent
// first requests race on a mutex, not on the handle.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/CesarGorge/mini-wallet-api/internal/logger"
	"github.com/CesarGorge/mini-wallet-api/internal/models"
)

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrMissingFields = errors.New("missing required transaction fields")
)

type Store struct {
	mu   sync.Mutex
	dial gorm.Dialector
	db   *gorm.DB
}

// New prepares a store without touching the database; the connection is
// opened on first use.
func New(dial gorm.Dialector) *Store {
	return &Store{dial: dial}
}

func (s *Store) conn() (*gorm.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	db, err := gorm.Open(s.dial, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.Transaction{}); err != nil {
		return nil, err
	}

	s.db = db
	logger.Log.Info("connected to the database")
	return db, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Create persists a new transaction. currency and status fall back to their
// defaults when empty; txId and timestamp are server-assigned.
func (s *Store) Create(ctx context.Context, userID string, amount float64, currency, status string) (*models.Transaction, error) {
	if userID == "" {
		return nil, ErrMissingFields
	}
	if currency == "" {
		currency = models.DefaultCurrency
	}
	if status == "" {
		status = models.StatusPending
	}

	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	tx := models.Transaction{
		TxID:      uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		Currency:  currency,
		Timestamp: time.Now().UTC(),
		Status:    status,
	}
	if err := db.WithContext(ctx).Create(&tx).Error; err != nil {
		logger.Log.Error("failed to create transaction", zap.Error(err))
		return nil, err
	}
	return &tx, nil
}

func (s *Store) GetByTxID(ctx context.Context, txID string) (*models.Transaction, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var tx models.Transaction
	if err := db.WithContext(ctx).Where("tx_id = ?", txID).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// ListByUser returns the owner's transactions in insertion order. An owner
// with no records gets an empty, non-nil slice.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	if userID == "" {
		return nil, ErrMissingFields
	}

	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	txs := make([]models.Transaction, 0)
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// UpdateFields names the only mutable columns. Nil means "leave untouched".
type UpdateFields struct {
	Amount *float64
	Status *string
}

// Update applies the supplied fields in a single UPDATE keyed on txId and
// returns the resulting record. An empty field set degenerates to a fetch.
func (s *Store) Update(ctx context.Context, txID string, fields UpdateFields) (*models.Transaction, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	cols := map[string]any{}
	if fields.Amount != nil {
		cols["amount"] = *fields.Amount
	}
	if fields.Status != nil {
		cols["status"] = *fields.Status
	}

	if len(cols) > 0 {
		res := db.WithContext(ctx).Model(&models.Transaction{}).Where("tx_id = ?", txID).Updates(cols)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	return s.GetByTxID(ctx, txID)
}

// Delete removes the record permanently. No soft-delete, no tombstone.
func (s *Store) Delete(ctx context.Context, txID string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	res := db.WithContext(ctx).Where("tx_id = ?", txID).Delete(&models.Transaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
