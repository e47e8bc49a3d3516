package main

import (
	"outreach-platform/internal/auth"
	"outreach-platform/internal/httpapi"
	"outreach-platform/internal/rbac"
	"outreach-platform/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, authMW gin.HandlerFunc, h httpapi.Handlers, collector *metrics.Collector) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(collector.Handler()))

	// AUTH routes (token issuance).
	// NOTE: This is a placeholder login route; real credential validation is not implemented.
	r.POST("/v1/auth/login", h.Login)

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(authMW)
	{
		// Identity echo, useful for debugging token wiring.
		v1.GET("/me", func(c *gin.Context) {
			uid, _ := auth.UserID(c.Request.Context())
			tid, _ := auth.TenantID(c.Request.Context())
			role, _ := auth.Role(c.Request.Context())
			c.JSON(200, gin.H{"user_id": uid, "tenant_id": tid, "role": role})
		})

		// WORKFLOW routes: branch evaluation is the engine's hot path.
		workflows := v1.Group("/workflows")
		workflows.Use(rbac.RequireTenant())
		{
			workflows.POST("/:workflow_id/steps/:step_id/evaluate", h.EvaluateStep)
		}

		// BRANCH authoring helpers.
		branches := v1.Group("/branches")
		branches.Use(httpapi.RequireTenantAndAnyRole(rbac.RoleOwner, rbac.RoleMarketer, rbac.RoleSuperAdmin)...)
		{
			branches.POST("/validate-rule", h.ValidateRule)
		}

		// LEAD routes.
		leads := v1.Group("/leads")
		leads.Use(rbac.RequireTenant())
		{
			leads.POST("/score", h.ScoreLead)
		}

		// CAMPAIGN routes.
		campaigns := v1.Group("/campaigns")
		campaigns.Use(httpapi.RequireTenantAndAnyRole(rbac.RoleOwner, rbac.RoleMarketer, rbac.RoleAnalyst, rbac.RoleSuperAdmin)...)
		{
			campaigns.GET("/:campaign_id/schedule/preview", h.PreviewCampaignSchedule)
			campaigns.GET("/:campaign_id/quota", h.GetQuotaStatus)
		}

		// SCHEDULE routes (ad-hoc planning before a campaign exists).
		schedules := v1.Group("/schedules")
		schedules.Use(rbac.RequireTenant())
		{
			schedules.POST("/preview", h.PreviewSchedule)
		}

		// SETTINGS routes.
		settings := v1.Group("/settings")
		settings.Use(rbac.RequireTenant())
		{
			settings.GET("/business-hours", h.GetBusinessHours)
		}
	}
}
