package Controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Crane/Models"
)

// AnalyticsController builds the back-office dashboard figures
type AnalyticsController struct {
	DB *gorm.DB
}

func NewAnalyticsController(db *gorm.DB) *AnalyticsController {
	return &AnalyticsController{DB: db}
}

type dashboardSummary struct {
	ActiveProjects   int64   `json:"active_projects"`
	OpenTasks        int64   `json:"open_tasks"`
	OverdueInvoices  int64   `json:"overdue_invoices"`
	OutstandingTotal float64 `json:"outstanding_total"`
	PaidThisMonth    float64 `json:"paid_this_month"`
	NewLeads         int64   `json:"new_leads"`
	PendingExpenses  int64   `json:"pending_expenses"`
}

// GetDashboard returns the headline numbers for the back office.
func (c *AnalyticsController) GetDashboard(ctx *fiber.Ctx) error {
	var summary dashboardSummary

	c.DB.Model(&Models.Project{}).Where("status = ?", "active").Count(&summary.ActiveProjects)
	c.DB.Model(&Models.Task{}).Where("status != ?", "done").Count(&summary.OpenTasks)
	c.DB.Model(&Models.Invoice{}).Where("status = ?", "overdue").Count(&summary.OverdueInvoices)
	c.DB.Model(&Models.Lead{}).Where("status = ?", "new").Count(&summary.NewLeads)
	c.DB.Model(&Models.Expense{}).Where("status = ?", "needs_review").Count(&summary.PendingExpenses)

	c.DB.Model(&Models.Invoice{}).
		Where("status IN ?", []string{"sent", "overdue"}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&summary.OutstandingTotal)

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	c.DB.Model(&Models.Payment{}).
		Where("created_at >= ?", monthStart).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.PaidThisMonth)

	return ctx.JSON(summary)
}

type monthlyRevenue struct {
	Month string  `json:"month"` // YYYY-MM
	Total float64 `json:"total"`
}

// GetMonthlyRevenue returns payment totals per month for the last year.
// Bucketing happens in Go so the query works on both sqlite and postgres.
func (c *AnalyticsController) GetMonthlyRevenue(ctx *fiber.Ctx) error {
	since := time.Now().AddDate(-1, 0, 0)

	var payments []Models.Payment
	result := c.DB.Where("created_at >= ?", since).Order("created_at").Find(&payments)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute revenue"})
	}

	totals := map[string]float64{}
	months := []string{}
	for _, p := range payments {
		month := p.CreatedAt.Format("2006-01")
		if _, seen := totals[month]; !seen {
			months = append(months, month)
		}
		totals[month] += p.Amount
	}

	rows := make([]monthlyRevenue, 0, len(months))
	for _, month := range months {
		rows = append(rows, monthlyRevenue{Month: month, Total: totals[month]})
	}
	return ctx.JSON(rows)
}

type clientRevenue struct {
	ClientID   uint    `json:"client_id"`
	ClientName string  `json:"client_name"`
	Invoiced   float64 `json:"invoiced"`
	Paid       float64 `json:"paid"`
}

// GetTopClients ranks clients by invoiced amount.
func (c *AnalyticsController) GetTopClients(ctx *fiber.Ctx) error {
	var rows []clientRevenue
	result := c.DB.Model(&Models.Invoice{}).
		Select(`projects.client_id AS client_id,
			users.name AS client_name,
			COALESCE(SUM(invoices.total), 0) AS invoiced,
			COALESCE(SUM((SELECT SUM(amount) FROM payments WHERE payments.invoice_id = invoices.id AND payments.deleted_at IS NULL)), 0) AS paid`).
		Joins("JOIN projects ON projects.id = invoices.project_id").
		Joins("JOIN users ON users.id = projects.client_id").
		Where("invoices.status != ?", "void").
		Group("projects.client_id, users.name").
		Order("invoiced DESC").
		Limit(10).
		Scan(&rows)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute client ranking"})
	}
	return ctx.JSON(rows)
}

type expenseBreakdown struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// GetExpenseBreakdown sums confirmed expenses by category, optionally for
// one project.
func (c *AnalyticsController) GetExpenseBreakdown(ctx *fiber.Ctx) error {
	query := c.DB.Model(&Models.Expense{}).Where("status = ?", "confirmed")
	if projectID := ctx.Query("project_id"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}

	var rows []expenseBreakdown
	result := query.
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Group("category").
		Order("total DESC").
		Scan(&rows)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute expense breakdown"})
	}
	return ctx.JSON(rows)
}
