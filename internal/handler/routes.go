package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jornal-escolar/portal-api/internal/middleware"
	"github.com/jornal-escolar/portal-api/internal/models"
)

// Handlers groups every endpoint handler for route registration.
type Handlers struct {
	Auth          *AuthHandler
	Students      *StudentHandler
	Journals      *JournalHandler
	Assets        *AssetHandler
	Departments   *DepartmentHandler
	Tickets       *TicketHandler
	Announcements *AnnouncementHandler
	Calendar      *CalendarHandler
	Rules         *RulesHandler
	Settings      *SettingsHandler
	Dashboard     *DashboardHandler
	Users         *UserHandler
	Roles         *RoleHandler
	Audit         *AuditHandler
}

// Register wires every route under the API prefix. session guards the
// protected group; public link routes stay outside it.
func (h Handlers) Register(r *gin.Engine, prefix string, session gin.HandlerFunc) {
	api := r.Group(prefix)

	api.POST("/auth/login", h.Auth.Login)
	api.GET("/approvals/:token", h.Journals.PublicApprovalPage)
	api.POST("/approvals/:token", h.Journals.PublicDecision)
	api.GET("/downloads/:token", h.Journals.PublicDownload)
	api.GET("/join/:token", h.Departments.PublicJoinInfo)
	api.POST("/join/:token", h.Departments.PublicApply)

	auth := api.Group("", session)

	auth.POST("/auth/logout", h.Auth.Logout)
	auth.GET("/auth/me", h.Auth.Me)

	auth.GET("/dashboard", h.Dashboard.Cards)

	auth.GET("/students", h.Students.List)
	auth.GET("/students/:id", h.Students.Get)
	auth.GET("/students/export/csv", h.Students.ExportCSV)
	auth.GET("/students/export/pdf", h.Students.ExportPDF)
	students := auth.Group("", middleware.RequirePermission(models.PermManageStudents))
	students.POST("/students", h.Students.Create)
	students.PUT("/students/:id", h.Students.Update)
	students.POST("/students/:id/toggle", h.Students.TogglePortal)

	auth.GET("/journals", h.Journals.List)
	auth.GET("/journals/:id/file", h.Journals.Download)
	journals := auth.Group("", middleware.RequirePermission(models.PermManageJournals))
	journals.POST("/journals", h.Journals.Submit)
	journals.POST("/journals/:id/resubmit", h.Journals.Resubmit)
	journals.POST("/journals/:id/share", h.Journals.SignedDownload)

	auth.GET("/assets", h.Assets.List)
	auth.GET("/assets/:id/file", h.Assets.Download)
	auth.POST("/assets", middleware.RequirePermission(models.PermManageAssets), h.Assets.Upload)

	auth.GET("/departments", h.Departments.List)
	auth.GET("/departments/:id", h.Departments.Get)
	departments := auth.Group("", middleware.RequirePermission(models.PermManageDepartments))
	departments.POST("/departments", h.Departments.Create)
	departments.POST("/departments/:id/members", h.Departments.AddMember)
	auth.POST("/departments/:id/queue/:requestId",
		middleware.RequirePermission(models.PermApproveDepartments), h.Departments.DecideQueue)

	auth.GET("/tickets", h.Tickets.List)
	auth.GET("/tickets/reasons", h.Tickets.Reasons)
	auth.GET("/tickets/:id", h.Tickets.Get)
	auth.POST("/tickets", h.Tickets.Create)
	auth.POST("/tickets/:id/reply", h.Tickets.Reply)
	auth.POST("/tickets/:id/close", h.Tickets.Close)
	auth.DELETE("/tickets/:id", middleware.RequirePermission(models.PermManageTickets), h.Tickets.Delete)

	auth.GET("/announcements", h.Announcements.List)
	announcements := auth.Group("", middleware.RequirePermission(models.PermManageAnnouncements))
	announcements.POST("/announcements", h.Announcements.Create)
	announcements.DELETE("/announcements/:id", h.Announcements.Delete)

	auth.GET("/calendar", h.Calendar.List)
	auth.POST("/calendar", middleware.RequirePermission(models.PermManageCalendar), h.Calendar.Create)

	auth.GET("/rules", h.Rules.Get)
	auth.PUT("/rules", middleware.RequirePermission(models.PermManageRules), h.Rules.Update)

	auth.GET("/settings", h.Settings.Get)
	auth.PATCH("/settings", middleware.RequirePermission(models.PermManageSettings), h.Settings.Update)

	users := auth.Group("", middleware.RequirePermission(models.PermManageUsers))
	users.GET("/users", h.Users.List)
	users.POST("/users", h.Users.Create)
	users.POST("/users/:id/toggle", h.Users.ToggleAccess)
	users.GET("/audit", h.Audit.List)

	auth.GET("/roles", h.Roles.List)
	auth.GET("/roles/permissions", h.Roles.Permissions)
	auth.POST("/roles", middleware.RequirePermission(models.PermManageRoles), h.Roles.Create)
	auth.PUT("/users/:id/role", middleware.RequirePermission(models.PermManageRoles), h.Users.ChangeRole)
}
