package routes

import (
	adminapi "defi-academy/internal/api/admin"
	authapi "defi-academy/internal/api/auth"
	"defi-academy/internal/api/billing"
	coursesapi "defi-academy/internal/api/courses"
	"defi-academy/internal/api/plans"
	referralsapi "defi-academy/internal/api/referrals"
	roadmapapi "defi-academy/internal/api/roadmap"
	stripewebhooks "defi-academy/internal/api/stripewebhook"
	"defi-academy/internal/api/users"
	"defi-academy/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine) {
	// raw body is needed for the signature check
	r.POST("/webhook", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Apply input sanitization to public routes only
	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/plans", plans.ListPlans)
	public.GET("/verify", authapi.VerifyEmail)
	public.POST("/resend-verification", authapi.ResendVerification)
	public.POST("/request-password-reset", authapi.RequestPasswordReset)
	public.POST("/reset-password", authapi.ResetPassword)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Anonymous callers are evaluated as tier none
	browse := r.Group("/")
	browse.Use(middleware.OptionalAuth())
	browse.GET("/courses", coursesapi.ListCourses)
	browse.GET("/courses/:slug", coursesapi.GetCourse)
	browse.GET("/roadmap", roadmapapi.ListItems)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", users.GetCurrentUser)
	auth.GET("/payments", billing.GetPaymentHistory)
	auth.POST("/create-checkout-session", billing.CreateCheckoutSession)
	auth.POST("/billing-portal", billing.CreateBillingPortal)
	auth.POST("/change-password", authapi.ChangePassword)
	auth.GET("/referrals", referralsapi.GetMyReferrals)
	// eligibility and weight are resolved by the handler from the caller's tier
	auth.POST("/roadmap/:id/vote", middleware.SanitizeAndCleanInputMiddleware(), roadmapapi.CastVote)
	auth.DELETE("/roadmap/:id/vote", roadmapapi.RemoveVote)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/payments", adminapi.ListAllPayments)
	admin.GET("/user/:id", adminapi.GetUserDetails)
	admin.PATCH("/user/:id/founding", adminapi.SetFoundingMember)
	admin.POST("/sync-plans", plans.SyncPlansFromStripe)

	// lesson bodies are markdown and skip sanitization
	admin.POST("/courses", coursesapi.CreateCourse)
	admin.PUT("/courses/:id", coursesapi.UpdateCourse)

	adminText := admin.Group("/")
	adminText.Use(middleware.SanitizeAndCleanInputMiddleware())
	adminText.POST("/roadmap", roadmapapi.CreateItem)
	adminText.POST("/roadmap/:id/status", roadmapapi.SetStatus)
	adminText.POST("/roadmap/:id/close-voting", roadmapapi.CloseVoting)
	adminText.GET("/commissions", referralsapi.ListCommissions)
	adminText.POST("/commissions/:id/pay", referralsapi.PayCommission)
}
