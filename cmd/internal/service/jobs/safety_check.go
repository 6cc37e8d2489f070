package jobs

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
	"safesound/cmd/internal/service"
	"safesound/cmd/internal/utils"
)

const ScanInterval = 30 * time.Minute

type SafetyCheckJob struct {
	safetyCheck *service.SafetyCheckService
}

func NewSafetyCheckJob(safetyCheck *service.SafetyCheckService) *SafetyCheckJob {
	return &SafetyCheckJob{safetyCheck: safetyCheck}
}

func (j *SafetyCheckJob) Start(ctx context.Context) {
	ticker := time.NewTicker(ScanInterval)
	defer ticker.Stop()

	log.Info("Safety check cron started")

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping safety check...")
			return
		case <-ticker.C:
			j.scan()
		}
	}
}

func (j *SafetyCheckJob) scan() {
	report, err := j.safetyCheck.RunScanPass(utils.NowUTC())
	if err != nil {
		// The next tick simply retries; there is nobody else to report to.
		log.Errorf("Safety check: pass failed: %v", err)
		return
	}

	if report.PreNotifications == 0 && report.EmailAlerts == 0 {
		log.Debugf("Safety check: %d users checked, nothing to schedule", report.UsersChecked)
		return
	}

	log.Infof("Safety check: %d users checked, scheduled %d pre-notifications and %d email alerts",
		report.UsersChecked, report.PreNotifications, report.EmailAlerts)
}
