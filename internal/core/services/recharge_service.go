package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"messpay/internal/core/domain"
	"messpay/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// RechargeSettings configures the scheduled student recharge
type RechargeSettings struct {
	Schedule    string
	Amount      int64
	Description string
}

// RechargeService periodically credits tokens to the active student
type RechargeService struct {
	cron     *cron.Cron
	active   *ActiveSession
	wallet   *WalletService
	settings RechargeSettings
}

// NewRechargeService creates a new recharge scheduler
func NewRechargeService(active *ActiveSession, wallet *WalletService, settings RechargeSettings) *RechargeService {
	return &RechargeService{
		cron:     cron.New(),
		active:   active,
		wallet:   wallet,
		settings: settings,
	}
}

// Start registers the recharge job and starts the scheduler
func (s *RechargeService) Start() error {
	if s.settings.Amount <= 0 {
		return fmt.Errorf("recharge amount must be positive, got %d", s.settings.Amount)
	}

	if _, err := s.cron.AddFunc(s.settings.Schedule, s.run); err != nil {
		return fmt.Errorf("invalid recharge schedule %q: %w", s.settings.Schedule, err)
	}
	s.cron.Start()

	log.Printf("✅ Recharge job scheduled [%s, %d tokens]", s.settings.Schedule, s.settings.Amount)
	return nil
}

// Stop stops the scheduler and waits for a running job
func (s *RechargeService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 Recharge job stopped")
}

func (s *RechargeService) run() {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	credited, err := s.RunOnce(ctx)
	switch {
	case err != nil:
		metrics.RecordRechargeRun("error", time.Since(start))
		log.Printf("❌ Recharge run failed: %v", err)
	case credited:
		metrics.RecordRechargeRun("credited", time.Since(start))
	default:
		metrics.RecordRechargeRun("skipped", time.Since(start))
	}
}

// RunOnce credits the recharge to the active session when it belongs to a student.
// It reports whether a credit was made.
func (s *RechargeService) RunOnce(ctx context.Context) (bool, error) {
	sess, err := s.active.Get()
	if errors.Is(err, domain.ErrNoActiveSession) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if sess.Role() != domain.RoleStudent {
		return false, nil
	}

	if err := s.wallet.Credit(ctx, sess, s.settings.Amount, s.settings.Description); err != nil {
		if errors.Is(err, domain.ErrSessionClosed) {
			return false, nil
		}
		return false, err
	}

	log.Printf("✅ Recharge credited [user=%s amount=%d]", sess.UserID(), s.settings.Amount)
	return true, nil
}
