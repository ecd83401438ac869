package cron

import (
	"core/services"
	"log"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron           *cron.Cron
	relanceService *services.RelanceService
}

func NewScheduler(relanceService *services.RelanceService) *Scheduler {
	// Create cron with seconds precision and logging
	c := cron.New(cron.WithSeconds(), cron.WithLogger(cron.VerbosePrintfLogger(log.Default())))

	return &Scheduler{
		cron:           c,
		relanceService: relanceService,
	}
}

// Start initializes and starts all scheduled jobs
func (s *Scheduler) Start() error {
	log.Println("Starting cron scheduler...")

	// Cron expression: "0 0 9 * * *" = every day at 09:00
	_, err := s.cron.AddFunc("0 0 9 * * *", s.runRelance)
	if err != nil {
		log.Printf("Error scheduling invitation reminder job: %v", err)
		return err
	}

	s.cron.Start()
	log.Println("Cron scheduler started successfully")

	return nil
}

// Stop gracefully shuts down the scheduler
func (s *Scheduler) Stop() {
	log.Println("Stopping cron scheduler...")
	s.cron.Stop()
	log.Println("Cron scheduler stopped")
}

// runRelance is the job function that reminds opponents of pending invitations
func (s *Scheduler) runRelance() {
	log.Println("Running invitation reminder job...")

	staleCount, err := s.relanceService.GetStaleInvitationsCount()
	if err != nil {
		log.Printf("Error checking stale invitations count: %v", err)
		return
	}

	if staleCount == 0 {
		log.Println("No stale invitations to follow up")
		return
	}

	log.Printf("Found %d stale invitations to follow up", staleCount)

	if err := s.relanceService.RelancerInvitations(); err != nil {
		log.Printf("Error during invitation reminders: %v", err)
		return
	}

	log.Println("Invitation reminder job completed successfully")
}

// RunNow manually triggers the reminder job (useful for testing)
func (s *Scheduler) RunNow() {
	log.Println("Manually triggering invitation reminder job...")
	s.runRelance()
}
