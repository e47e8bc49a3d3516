package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"outreach-platform/internal/audit"
	"outreach-platform/internal/auth"
	"outreach-platform/internal/branching"
	"outreach-platform/internal/campaigns"
	"outreach-platform/internal/hours"
	"outreach-platform/internal/leads"
	"outreach-platform/internal/quota"
	"outreach-platform/internal/rbac"
	"outreach-platform/internal/scheduling"
	"outreach-platform/pkg/logger"
	"outreach-platform/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth      *auth.Manager
	Selector  *branching.Selector
	Campaigns *campaigns.Service
	Hours     hours.Source
	Quota     *quota.Service
	Audit     *audit.Service
	Metrics   *metrics.Collector
}

// --- Auth ---

type loginRequest struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
}

// Login issues a JWT token pair.
//
// NOTE: This is a skeleton-only endpoint. Real systems must validate credentials.
func (h Handlers) Login(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" || req.TenantID == "" || req.Role == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id, tenant_id, role required"})
		return
	}
	pair, err := h.Auth.IssuePair(time.Now(), req.UserID, req.TenantID, req.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// --- Branch evaluation ---

type evaluateRequest struct {
	Lead      leads.Lead                 `json:"lead"`
	Execution branching.Execution        `json:"execution"`
	PriorStep *branching.StepResult      `json:"prior_step,omitempty"`
	Call      *branching.CallAnalysis    `json:"call,omitempty"`
	Email     *branching.EmailEngagement `json:"email,omitempty"`

	// Now overrides the evaluation instant; defaults to server time.
	Now *time.Time `json:"now,omitempty"`
}

// EvaluateStep runs branch selection for one workflow step.
//
// The lead in the body must belong to the caller's tenant; the handler
// stamps the tenant id rather than trusting the payload.
func (h Handlers) EvaluateStep(c *gin.Context) {
	if h.Selector == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "selector not configured"})
		return
	}
	tenantID, err := auth.TenantID(c.Request.Context())
	if err != nil || tenantID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "tenant_id required"})
		return
	}

	workflowID := c.Param("workflow_id")
	stepID := c.Param("step_id")
	if workflowID == "" || stepID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "workflow_id and step_id required"})
		return
	}

	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.Lead.TenantID = tenantID

	ec := branching.EvalContext{
		Lead:      req.Lead,
		Execution: req.Execution,
		PriorStep: req.PriorStep,
		Call:      req.Call,
		Email:     req.Email,
		Time:      h.timeContext(c, tenantID, req.Now),
	}

	started := time.Now()
	branch, err := h.Selector.SelectBranch(c.Request.Context(), workflowID, stepID, ec)
	elapsed := time.Since(started)

	if err != nil {
		h.recordEvaluation(metrics.OutcomeError, elapsed)
		status := http.StatusInternalServerError
		if errors.Is(err, branching.ErrStoreUnavailable) {
			status = http.StatusServiceUnavailable
		}
		c.AbortWithStatusJSON(status, gin.H{"error": "evaluation failed"})
		return
	}

	branchID := ""
	if branch != nil {
		branchID = branch.ID
		h.recordEvaluation(metrics.OutcomeMatched, elapsed)
	} else {
		h.recordEvaluation(metrics.OutcomeNoMatch, elapsed)
	}

	if h.Audit != nil {
		if err := h.Audit.LogBranchDecision(c.Request.Context(), tenantID, workflowID, stepID, req.Lead.ID, branchID); err != nil {
			logger.From(c.Request.Context()).Warn("audit append failed", "err", err)
		}
	}

	if branch == nil {
		c.JSON(http.StatusOK, gin.H{"matched": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matched": true, "branch": branch})
}

// timeContext assembles the evaluation instant plus the tenant's send
// window. A missing or failing hours source degrades to the defaults;
// time_based and business_hours conditions still evaluate.
func (h Handlers) timeContext(c *gin.Context, tenantID string, override *time.Time) branching.TimeContext {
	now := time.Now()
	if override != nil && !override.IsZero() {
		now = *override
	}

	tc := branching.TimeContext{
		Now:           now,
		BusinessStart: hours.DefaultStart,
		BusinessEnd:   hours.DefaultEnd,
	}

	if h.Hours == nil {
		return tc
	}
	cfg, err := h.Hours.GetBusinessHours(c.Request.Context(), tenantID)
	if err != nil {
		if !errors.Is(err, hours.ErrNotConfigured) {
			logger.From(c.Request.Context()).Warn("business hours lookup failed", "err", err)
		}
		return tc
	}

	tc.Timezone = cfg.Timezone
	if day, ok := hours.HoursForDate(now, cfg); ok {
		tc.BusinessStart = day.Start
		tc.BusinessEnd = day.End
	}
	return tc
}

func (h Handlers) recordEvaluation(outcome string, elapsed time.Duration) {
	if h.Metrics != nil {
		h.Metrics.RecordEvaluation(outcome, elapsed)
	}
}

// ValidateRule checks an authored condition rule before it is persisted.
func (h Handlers) ValidateRule(c *gin.Context) {
	var rule branching.Rule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := rule.Validate(); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// --- Leads ---

// ScoreLead computes the additive quality score and branch suggestions
// for a lead payload. Stateless; nothing is persisted.
func (h Handlers) ScoreLead(c *gin.Context) {
	tenantID, err := auth.TenantID(c.Request.Context())
	if err != nil || tenantID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "tenant_id required"})
		return
	}

	var l leads.Lead
	if err := c.ShouldBindJSON(&l); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	l.TenantID = tenantID

	score := leads.Score(l)
	if h.Metrics != nil {
		h.Metrics.RecordLeadScore(score)
	}
	c.JSON(http.StatusOK, gin.H{
		"score":              score,
		"suggested_branches": leads.SuggestBranches(l),
	})
}

// --- Scheduling ---

// PreviewCampaignSchedule projects the day-by-day plan for a persisted
// campaign's current audience.
func (h Handlers) PreviewCampaignSchedule(c *gin.Context) {
	if h.Campaigns == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "campaigns not configured"})
		return
	}
	tenantID, err := auth.TenantID(c.Request.Context())
	if err != nil || tenantID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "tenant_id required"})
		return
	}
	campaignID := c.Param("campaign_id")
	if campaignID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "campaign_id required"})
		return
	}

	started := time.Now()
	preview, err := h.Campaigns.PreviewSchedule(c.Request.Context(), tenantID, campaignID)
	elapsed := time.Since(started)

	switch {
	case errors.Is(err, campaigns.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
		return
	case errors.Is(err, scheduling.ErrInvalidRequest):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "preview failed"})
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordPlan(!preview.Schedule.Incomplete, elapsed)
	}
	if h.Audit != nil {
		meta, _ := json.Marshal(gin.H{"total_contacts": preview.TotalContacts, "days": len(preview.Schedule.Days)})
		if err := h.Audit.LogSchedulePreview(c.Request.Context(), tenantID, campaignID, string(meta)); err != nil {
			logger.From(c.Request.Context()).Warn("audit append failed", "err", err)
		}
	}

	c.JSON(http.StatusOK, preview)
}

// PreviewSchedule runs the day planner against an ad-hoc request, for
// UI sliders before a campaign exists.
func (h Handlers) PreviewSchedule(c *gin.Context) {
	tenantID, err := auth.TenantID(c.Request.Context())
	if err != nil || tenantID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "tenant_id required"})
		return
	}

	var req scheduling.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	cfg := hours.DefaultConfig()
	if h.Hours != nil {
		if loaded, err := h.Hours.GetBusinessHours(c.Request.Context(), tenantID); err == nil {
			cfg = loaded
		} else if !errors.Is(err, hours.ErrNotConfigured) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "business hours unavailable"})
			return
		}
	}

	started := time.Now()
	sched, err := scheduling.Plan(req, cfg)
	elapsed := time.Since(started)

	if errors.Is(err, scheduling.ErrInvalidRequest) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "planning failed"})
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordPlan(!sched.Incomplete, elapsed)
	}
	c.JSON(http.StatusOK, gin.H{
		"schedule": sched,
		"summary":  scheduling.Summarize(sched, req.TotalContacts),
	})
}

// --- Quota ---

// GetQuotaStatus reads today's authoritative send counter for a campaign.
func (h Handlers) GetQuotaStatus(c *gin.Context) {
	if h.Quota == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "quota not configured"})
		return
	}
	tenantID, err := auth.TenantID(c.Request.Context())
	if err != nil || tenantID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "tenant_id required"})
		return
	}
	campaignID := c.Param("campaign_id")
	if campaignID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "campaign_id required"})
		return
	}

	sent, err := h.Quota.SentToday(c.Request.Context(), tenantID, campaignID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "quota lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaign_id": campaignID, "sent_today": sent})
}

// --- Settings ---

// GetBusinessHours returns the caller's effective weekly window.
func (h Handlers) GetBusinessHours(c *gin.Context) {
	tenantID, err := auth.TenantID(c.Request.Context())
	if err != nil || tenantID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "tenant_id required"})
		return
	}

	cfg := hours.DefaultConfig()
	configured := false
	if h.Hours != nil {
		loaded, err := h.Hours.GetBusinessHours(c.Request.Context(), tenantID)
		switch {
		case err == nil:
			cfg = loaded
			configured = true
		case errors.Is(err, hours.ErrNotConfigured):
			// default applies
		default:
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "business hours unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"configured": configured, "business_hours": cfg})
}

// Convenience middleware bundles.

func RequireTenantAndAnyRole(roles ...string) []gin.HandlerFunc {
	return []gin.HandlerFunc{rbac.RequireTenant(), rbac.RequireAnyRole(roles...)}
}
