package seed

import (
	"context"

	"go.uber.org/zap"

	"github.com/CesarGorge/mini-wallet-api/internal/logger"
	"github.com/CesarGorge/mini-wallet-api/internal/models"
	"github.com/CesarGorge/mini-wallet-api/internal/store"
)

const demoUserID = "demo-user"

var demoTransactions = []struct {
	Amount   float64
	Currency string
	Status   string
}{
	{1000.00, "USDC", models.StatusCompleted},
	{250.50, "USDC", models.StatusPending},
	{75.25, "USDC", models.StatusFailed},
}

// Run inserts a handful of demo transactions for local development. Skipped
// when the demo owner already has records.
func Run(ctx context.Context, s *store.Store) {
	existing, err := s.ListByUser(ctx, demoUserID)
	if err != nil {
		logger.Log.Fatal("seed check failed", zap.Error(err))
	}
	if len(existing) > 0 {
		logger.Log.Info("seed already applied, skipping")
		return
	}

	for _, d := range demoTransactions {
		if _, err := s.Create(ctx, demoUserID, d.Amount, d.Currency, d.Status); err != nil {
			logger.Log.Fatal("seed failed", zap.Error(err))
		}
	}
	logger.Log.Info("seeded demo transactions",
		zap.String("userId", demoUserID),
		zap.Int("count", len(demoTransactions)),
	)
}
