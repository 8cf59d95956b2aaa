package worker

import (
	"context"
	"time"

	"github.com/Ansh-Mishra04/project/internal/service"

	"github.com/sirupsen/logrus"
)

// ReconcileWorker периодически перепроверяет несверенные платежи.
// Он только читает и отчитывается, записи регистраций не создает.
type ReconcileWorker struct {
	registrationService service.RegistrationService
	interval            time.Duration
}

func NewReconcileWorker(registrationService service.RegistrationService, interval time.Duration) *ReconcileWorker {
	return &ReconcileWorker{
		registrationService: registrationService,
		interval:            interval,
	}
}

func (w *ReconcileWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("Payment reconcile worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Payment reconcile worker stopped")
			return
		case <-ticker.C:
			w.reconcile(ctx)
		}
	}
}

// reconcile выполняет один проход сверки и логирует итоги
func (w *ReconcileWorker) reconcile(ctx context.Context) {
	report, err := w.registrationService.ReconcileUnrecorded(ctx)
	if err != nil {
		logrus.Errorf("Failed to reconcile unrecorded payments: %v", err)
		return
	}

	if report.Resolved == 0 && len(report.Outstanding) == 0 {
		logrus.Debug("No unrecorded payments found")
		return
	}

	logrus.Infof("Payment reconcile completed: %d resolved, %d outstanding",
		report.Resolved, len(report.Outstanding))

	// Каждый оставшийся платеж виден поддержке в логах
	for _, session := range report.Outstanding {
		logrus.Warnf("Payment %s for event %d (order %s) still has no registration row",
			session.PaymentID, session.EventID, session.OrderID)
	}
}
