package FiberConfig

import (
	"fmt"

	"Crane/Config"
	"Crane/Controllers"
	"Crane/Models"
	"Crane/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/template/html"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize handlers
	projectController := Controllers.NewProjectController(db)
	taskController := Controllers.NewTaskController(db)
	scheduleController := Controllers.NewScheduleController(db)
	quoteController := Controllers.NewQuoteController(db)
	invoiceController := Controllers.NewInvoiceController(db)
	paymentController := Controllers.NewPaymentController(db)
	documentController := Controllers.NewDocumentController(db)
	mediaController := Controllers.NewMediaController(db)
	dailyLogController := Controllers.NewDailyLogController(db)
	punchListController := Controllers.NewPunchListController(db)
	receiptController := Controllers.NewReceiptController(db)
	chatController := Controllers.NewChatController(db)
	leadController := Controllers.NewLeadController(db)
	proposalController := Controllers.NewProposalController(db)
	apiKeyController := Controllers.NewAPIKeyController(db)
	analyticsController := Controllers.NewAnalyticsController(db)
	logController := Controllers.NewLogController()

	api := app.Group("/api")

	// Auth routes
	api.Post("/RegisterUser", Controllers.RegisterUser)
	api.Post("/Login", Controllers.Login)
	api.Get("/User", Controllers.User)
	api.Get("/validate-token", Controllers.ValidateToken)
	api.Post("/Logout", Controllers.Logout)
	api.Get("/FetchUsers", middleware.Verify(Models.PermissionAdmin), Controllers.FetchUsers)
	api.Patch("/UpdateUser", middleware.Verify(Models.PermissionAdmin), Controllers.UpdateUser)
	api.Delete("/DeleteUser", middleware.Verify(Models.PermissionAdmin), Controllers.DeleteUser)
	api.Post("/UpdateToken", middleware.Verify(Models.PermissionClient), Controllers.UpdateToken)

	// Project routes. Clients see only their own; scoping happens in the
	// controller.
	projects := api.Group("/projects", middleware.Verify(Models.PermissionClient))
	projects.Get("/", projectController.GetProjects)
	projects.Get("/:id", projectController.GetProject)
	projects.Get("/:id/summary", projectController.GetProjectSummary)
	projects.Post("/", middleware.Verify(Models.PermissionManager), projectController.CreateProject)
	projects.Put("/:id", middleware.Verify(Models.PermissionManager), projectController.UpdateProject)
	projects.Delete("/:id", middleware.Verify(Models.PermissionAdmin), projectController.DeleteProject)

	// Task routes under projects
	projects.Get("/:project_id/tasks", taskController.GetProjectTasks)
	projects.Post("/:project_id/tasks", middleware.Verify(Models.PermissionStaff), taskController.CreateTask)
	tasks := api.Group("/tasks", middleware.Verify(Models.PermissionStaff))
	tasks.Put("/:id", taskController.UpdateTask)
	tasks.Delete("/:id", taskController.DeleteTask)

	// Gantt schedule routes
	projects.Get("/:project_id/schedule", scheduleController.GetSchedule)
	projects.Post("/:project_id/schedule", middleware.Verify(Models.PermissionStaff), scheduleController.CreateScheduleItem)
	schedule := api.Group("/schedule", middleware.Verify(Models.PermissionStaff))
	schedule.Put("/:id", scheduleController.UpdateScheduleItem)
	schedule.Post("/:id/reschedule", scheduleController.Reschedule)
	schedule.Delete("/:id", scheduleController.DeleteScheduleItem)

	// Quote routes
	projects.Get("/:project_id/quotes", quoteController.GetProjectQuotes)
	projects.Post("/:project_id/quotes", middleware.Verify(Models.PermissionStaff), quoteController.CreateQuote)
	quotes := api.Group("/quotes", middleware.Verify(Models.PermissionClient))
	quotes.Get("/:id", quoteController.GetQuote)
	quotes.Put("/:id", middleware.Verify(Models.PermissionStaff), quoteController.UpdateQuote)
	quotes.Post("/:id/accept", quoteController.AcceptQuote)
	quotes.Delete("/:id", middleware.Verify(Models.PermissionManager), quoteController.DeleteQuote)

	// Invoice routes
	projects.Get("/:project_id/invoices", invoiceController.GetProjectInvoices)
	projects.Post("/:project_id/invoices", middleware.Verify(Models.PermissionStaff), invoiceController.CreateInvoice)
	projects.Get("/:project_id/invoices/export", middleware.Verify(Models.PermissionManager), invoiceController.ExportInvoices)
	invoices := api.Group("/invoices", middleware.Verify(Models.PermissionClient))
	invoices.Get("/:id", invoiceController.GetInvoice)
	invoices.Put("/:id", middleware.Verify(Models.PermissionStaff), invoiceController.UpdateInvoice)
	invoices.Post("/:id/send", middleware.Verify(Models.PermissionStaff), invoiceController.SendInvoice)
	invoices.Post("/:id/void", middleware.Verify(Models.PermissionManager), invoiceController.VoidInvoice)

	// Payment routes
	invoices.Post("/:id/payments", middleware.Verify(Models.PermissionStaff), paymentController.RecordPayment)
	invoices.Post("/:id/checkout", paymentController.CreateCheckout)

	// Document routes
	projects.Get("/:project_id/documents", documentController.GetProjectDocuments)
	projects.Post("/:project_id/documents", middleware.Verify(Models.PermissionStaff), documentController.UploadDocument)
	documents := api.Group("/documents", middleware.Verify(Models.PermissionClient))
	documents.Get("/:id/url", documentController.GetDownloadURL)
	documents.Delete("/:id", middleware.Verify(Models.PermissionStaff), documentController.DeleteDocument)

	// Media routes
	media := api.Group("/media", middleware.Verify(Models.PermissionStaff))
	media.Get("/", mediaController.GetMedia)
	media.Post("/", mediaController.UploadMedia)
	media.Get("/:id/url", mediaController.GetMediaURL)
	media.Post("/geo-match", middleware.Verify(Models.PermissionManager), mediaController.RunGeoMatch)
	media.Delete("/:id", mediaController.DeleteMedia)

	// Daily log routes
	projects.Get("/:project_id/daily-logs", dailyLogController.GetProjectLogs)
	projects.Post("/:project_id/daily-logs", middleware.Verify(Models.PermissionStaff), dailyLogController.CreateLog)
	dailyLogs := api.Group("/daily-logs", middleware.Verify(Models.PermissionStaff))
	dailyLogs.Put("/:id", dailyLogController.UpdateLog)
	dailyLogs.Delete("/:id", dailyLogController.DeleteLog)

	// Punch list routes
	projects.Get("/:project_id/punch-list", punchListController.GetProjectItems)
	projects.Post("/:project_id/punch-list", middleware.Verify(Models.PermissionStaff), punchListController.CreateItem)
	punchList := api.Group("/punch-list", middleware.Verify(Models.PermissionStaff))
	punchList.Put("/:id", punchListController.UpdateItem)
	punchList.Delete("/:id", punchListController.DeleteItem)

	// Receipt / expense routes
	projects.Post("/:project_id/receipts", middleware.Verify(Models.PermissionStaff), receiptController.ScanReceipt)
	projects.Get("/:project_id/expenses", middleware.Verify(Models.PermissionStaff), receiptController.GetProjectExpenses)
	expenses := api.Group("/expenses", middleware.Verify(Models.PermissionStaff))
	expenses.Post("/:id/confirm", receiptController.ConfirmExpense)
	expenses.Delete("/:id", middleware.Verify(Models.PermissionManager), receiptController.DeleteExpense)

	// Chat routes
	chat := api.Group("/chat", middleware.Verify(Models.PermissionClient))
	chat.Get("/token", chatController.GetChatToken)
	chat.Post("/projects/:project_id/channel", middleware.Verify(Models.PermissionStaff), chatController.EnsureProjectChannel)

	// Lead routes
	leads := api.Group("/leads", middleware.Verify(Models.PermissionStaff))
	leads.Get("/", leadController.GetLeads)
	leads.Get("/:id", leadController.GetLead)
	leads.Post("/", leadController.CreateLead)
	leads.Put("/:id", leadController.UpdateLead)
	leads.Delete("/:id", middleware.Verify(Models.PermissionManager), leadController.DeleteLead)
	leads.Post("/:id/converse", leadController.Converse)

	// Proposal routes
	proposals := api.Group("/proposals", middleware.Verify(Models.PermissionStaff))
	proposals.Get("/", proposalController.GetProposals)
	proposals.Get("/:id", proposalController.GetProposal)
	proposals.Post("/", proposalController.CreateProposal)
	proposals.Put("/:id", proposalController.UpdateProposal)
	proposals.Delete("/:id", middleware.Verify(Models.PermissionManager), proposalController.DeleteProposal)

	// API key management
	apiKeys := api.Group("/api-keys", middleware.Verify(Models.PermissionAdmin))
	apiKeys.Get("/", apiKeyController.GetAPIKeys)
	apiKeys.Post("/", apiKeyController.CreateAPIKey)
	apiKeys.Post("/:id/revoke", apiKeyController.RevokeAPIKey)

	// Analytics routes
	analytics := api.Group("/analytics", middleware.Verify(Models.PermissionManager))
	analytics.Get("/dashboard", analyticsController.GetDashboard)
	analytics.Get("/monthly-revenue", analyticsController.GetMonthlyRevenue)
	analytics.Get("/top-clients", analyticsController.GetTopClients)
	analytics.Get("/expenses", analyticsController.GetExpenseBreakdown)

	// Logs API routes
	api.Get("/logs", middleware.Verify(Models.PermissionAdmin), logController.GetRequestLogs)

	// Machine surfaces, API-key authenticated
	app.Post("/webhooks/stripe", paymentController.StripeWebhook)
	app.Post("/widget/leads", middleware.VerifyAPIKey("leads"), leadController.CreateLead)
	app.Post("/widget/leads/:id/converse", middleware.VerifyAPIKey("leads"), leadController.Converse)

	// Public proposal pages
	app.Get("/p/:token", proposalController.ViewPublicProposal)
	app.Post("/p/:token/accept", proposalController.AcceptPublicProposal)
}

func FiberConfig() {
	fmt.Println("Server Up...")
	engine := html.New("./Templates", ".html")
	// Html Template engine
	app := fiber.New(fiber.Config{
		Views:     engine,
		BodyLimit: 50 * 1024 * 1024, // site photos and plan PDFs
	})
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression, // 2
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*", // Allow all origins
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-API-Key",
		AllowCredentials: true, // Important for cookies
		MaxAge:           300,  // Max age for preflight requests caching (5 minutes)
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupRoutes(app, Models.DB)
	app.Static("/static", "static/")

	if err := app.Listen(":" + Config.AppConfig.Port); err != nil {
		panic(err)
	}
}
