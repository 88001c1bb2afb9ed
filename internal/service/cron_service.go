package service

import (
	"context"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/ampweb/userdirapi/internal/config"
	"github.com/ampweb/userdirapi/internal/repository"
	"github.com/ampweb/userdirapi/pkg/utils/zaplogger"
)

// CronService runs the session maintenance jobs
type CronService struct {
	cfg      *config.Config
	db       *gorm.DB
	c        *cron.Cron
	sessions *repository.SessionRepository
}

// NewCronService creates a new CronService
func NewCronService(cfg *config.Config, db *gorm.DB) *CronService {
	return &CronService{
		cfg:      cfg,
		db:       db,
		c:        cron.New(),
		sessions: repository.NewSessionRepository(db),
	}
}

// Start starts the cron service
func (cs *CronService) Start() {
	zaplogger.Info("Initializing CronService")

	// ------------------------------------------------------------
	// SCHEDULED jobs
	// ------------------------------------------------------------
	cs.addScheduledJob("Expired sessions SWEEP Job", cs.expiredSessionsSweepJob, cs.cfg.SessionSweepCron)
	cs.addScheduledJob("Orphan sessions SWEEP Job", cs.orphanSessionsSweepJob, cs.cfg.SessionSweepCron)

	// ------------------------------------------------------------
	// STARTUP jobs
	// ------------------------------------------------------------
	cs.addStartupJob("Orphan sessions SWEEP Job", cs.orphanSessionsSweepJob, 5*time.Second)

	cs.c.Start()
}

// Stop stops the scheduler, letting running jobs finish
func (cs *CronService) Stop() {
	cs.c.Stop()
}

// addStartupJob adds a startup job to the cron service
func (cs *CronService) addStartupJob(name string, job func(), delay time.Duration) {
	go func() {
		time.Sleep(delay)
		zaplogger.Info("STARTED STARTUP job", zaplogger.Fields{
			"job": name,
		})
		job()
		zaplogger.Info("COMPLETED STARTUP job", zaplogger.Fields{
			"job": name,
		})
	}()
	zaplogger.Info("QUEUED STARTUP job", zaplogger.Fields{
		"job": name,
	})
}

// addScheduledJob adds a scheduled job to the cron service
func (cs *CronService) addScheduledJob(name string, job func(), schedule string) {
	_, err := cs.c.AddFunc(schedule, func() {
		zaplogger.Info("STARTED SCHEDULED JOB", zaplogger.Fields{
			"job": name,
		})
		job()
		zaplogger.Info("COMPLETED SCHEDULED JOB", zaplogger.Fields{
			"job": name,
		})
	})
	if err != nil {
		zaplogger.Error("FAILED TO QUEUE SCHEDULED JOB", zaplogger.Fields{
			"job":   name,
			"error": err.Error(),
		})
		return
	}
	zaplogger.Info("QUEUED SCHEDULED job", zaplogger.Fields{
		"job": name,
	})
}

// expiredSessionsSweepJob removes sessions whose autologout expiry has
// passed
func (cs *CronService) expiredSessionsSweepJob() {
	jobName := "Expired sessions SWEEP Job "

	rowsDeleted, err := cs.sessions.DeleteExpired(context.Background(), time.Now().Unix())
	if err != nil {
		zaplogger.Error(jobName, zaplogger.Fields{
			"error": err.Error(),
		})
		return
	}
	zaplogger.Info(jobName, zaplogger.Fields{
		"rows_deleted": strconv.FormatInt(rowsDeleted, 10),
	})
}

// orphanSessionsSweepJob removes sessions left behind by deleted users
func (cs *CronService) orphanSessionsSweepJob() {
	jobName := "Orphan sessions SWEEP Job "

	rowsDeleted, err := cs.sessions.DeleteOrphans(context.Background())
	if err != nil {
		zaplogger.Error(jobName, zaplogger.Fields{
			"error": err.Error(),
		})
		return
	}
	zaplogger.Info(jobName, zaplogger.Fields{
		"rows_deleted": strconv.FormatInt(rowsDeleted, 10),
	})
}
