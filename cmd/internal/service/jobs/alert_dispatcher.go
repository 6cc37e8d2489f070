package jobs

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
	"safesound/cmd/internal/service"
	"safesound/cmd/internal/utils"
)

// DispatchInterval is much shorter than the scan interval so scheduled
// alerts go out promptly after creation.
const DispatchInterval = 2 * time.Minute

type AlertDispatcherJob struct {
	dispatch *service.AlertDispatchService
}

func NewAlertDispatcherJob(dispatch *service.AlertDispatchService) *AlertDispatcherJob {
	return &AlertDispatcherJob{dispatch: dispatch}
}

func (j *AlertDispatcherJob) Start(ctx context.Context) {
	ticker := time.NewTicker(DispatchInterval)
	defer ticker.Stop()

	log.Info("Alert dispatcher cron started")

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping alert dispatcher...")
			return
		case <-ticker.C:
			j.dispatchDue()
		}
	}
}

func (j *AlertDispatcherJob) dispatchDue() {
	// Delivery calls are detached from the ticker's timing.
	bgCtx := context.Background()

	report, err := j.dispatch.RunDispatchPass(bgCtx, utils.NowUTC())
	if err != nil {
		log.Errorf("Dispatcher: pass failed: %v", err)
		return
	}

	if report.Processed == 0 {
		return
	}

	log.Infof("Dispatcher: processed %d alerts (%d sent, %d failed)",
		report.Processed, report.Sent, report.Failed)
}
