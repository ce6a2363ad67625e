package CronJobs

import (
	"fmt"
	"log"
	"time"

	"Crane/Config"
	"Crane/Geo"
	"Crane/Models"
	"Crane/email"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Scheduler owns the background jobs: overdue invoice sweep (nightly),
// media geo matching (hourly) and the weekly financial digest.
type Scheduler struct {
	cronScheduler *cron.Cron
	db            *gorm.DB
}

func NewScheduler(db *gorm.DB) *Scheduler {
	return &Scheduler{
		cronScheduler: cron.New(cron.WithSeconds()),
		db:            db,
	}
}

// Start registers and starts all jobs.
func (s *Scheduler) Start() error {
	// Nightly at 01:00 — flag overdue invoices
	if _, err := s.cronScheduler.AddFunc("0 0 1 * * *", func() {
		log.Println("Running overdue invoice sweep")
		count, err := MarkOverdueInvoices(s.db, time.Now())
		if err != nil {
			log.Printf("Overdue sweep failed: %v", err)
			return
		}
		log.Printf("Marked %d invoices overdue", count)
	}); err != nil {
		return fmt.Errorf("error scheduling overdue sweep: %w", err)
	}

	// Hourly — assign geotagged media to nearby projects
	if _, err := s.cronScheduler.AddFunc("0 0 * * * *", func() {
		assigned, err := Geo.MatchUnassignedMedia(s.db, Config.AppConfig.GeoMatchRadiusM)
		if err != nil {
			log.Printf("Media geo matching failed: %v", err)
			return
		}
		if assigned > 0 {
			log.Printf("Geo matcher assigned %d media items", assigned)
		}
	}); err != nil {
		return fmt.Errorf("error scheduling geo matcher: %w", err)
	}

	// Monday 07:00 — email the financial digest to managers
	if _, err := s.cronScheduler.AddFunc("0 0 7 * * 1", func() {
		if err := SendWeeklyDigest(s.db); err != nil {
			log.Printf("Weekly digest failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("error scheduling weekly digest: %w", err)
	}

	s.cronScheduler.Start()
	log.Println("Background job scheduler started")
	return nil
}

// Stop terminates the scheduler.
func (s *Scheduler) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
		log.Println("Background job scheduler stopped")
	}
}

// MarkOverdueInvoices flips sent invoices past their due date to overdue.
// Returns the number updated.
func MarkOverdueInvoices(db *gorm.DB, now time.Time) (int64, error) {
	today := now.Format("2006-01-02")
	result := db.Model(&Models.Invoice{}).
		Where("status = ? AND due_date != '' AND due_date < ?", "sent", today).
		Update("status", "overdue")
	return result.RowsAffected, result.Error
}

// SendWeeklyDigest mails every manager-and-up a summary of outstanding
// balances per active project.
func SendWeeklyDigest(db *gorm.DB) error {
	var managers []Models.User
	if err := db.Where("permission >= ? AND is_approved = ?", Models.PermissionManager, true).
		Find(&managers).Error; err != nil {
		return err
	}
	if len(managers) == 0 {
		return nil
	}

	var projects []Models.Project
	if err := db.Preload("Invoices.Payments").
		Where("status IN ?", []string{"planning", "active"}).
		Find(&projects).Error; err != nil {
		return err
	}

	body := "Weekly project financial digest\n\n"
	for _, p := range projects {
		var invoiced, outstanding float64
		overdue := 0
		for _, inv := range p.Invoices {
			if inv.Status == "void" || inv.Status == "draft" {
				continue
			}
			invoiced += inv.Total
			outstanding += inv.Balance()
			if inv.Status == "overdue" {
				overdue++
			}
		}
		body += fmt.Sprintf("%s: invoiced %.2f, outstanding %.2f, %d overdue\n",
			p.Name, invoiced, outstanding, overdue)
	}

	var recipients []string
	for _, m := range managers {
		recipients = append(recipients, m.Email)
	}

	return email.SendEmail(email.ConfigFromEnv(), Models.EmailMessage{
		To:      recipients,
		Subject: "Weekly project digest",
		Body:    body,
	})
}
