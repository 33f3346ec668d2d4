package jobs

import (
	"database/sql"

	"dealdesk-backend/internal/config"
	"dealdesk-backend/internal/logger"
	"dealdesk-backend/internal/repository/postgres"
	"dealdesk-backend/internal/service"
)

// JobRunner coordinates all scheduled sweep jobs
type JobRunner struct {
	db       *sql.DB
	store    *postgres.Store
	services *Services
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Email service.EmailService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(db *sql.DB, store *postgres.Store, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		db:       db,
		store:    store,
		services: services,
		config:   cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllSweepJobs runs every sweep job once (for manual execution and the
// authenticated sweep endpoint)
func (jr *JobRunner) RunAllSweepJobs() {
	jr.ExpireStalePublicLinks()
	jr.RemindPendingRequests()
	jr.EscalateUnresolvedConflicts()
}
