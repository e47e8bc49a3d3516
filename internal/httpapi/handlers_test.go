package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"outreach-platform/internal/audit"
	"outreach-platform/internal/auth"
	"outreach-platform/internal/branching"
	"outreach-platform/internal/campaigns"
	"outreach-platform/internal/hours"

	"github.com/gin-gonic/gin"
)

// fakeIdentity injects a tenant identity the way the auth middleware would.
func fakeIdentity(tenantID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := auth.WithIdentity(c.Request.Context(), "user-1", tenantID, "marketer")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func testRouter(h Handlers, tenantID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeIdentity(tenantID))
	r.POST("/v1/workflows/:workflow_id/steps/:step_id/evaluate", h.EvaluateStep)
	r.POST("/v1/schedules/preview", h.PreviewSchedule)
	r.POST("/v1/branches/validate-rule", h.ValidateRule)
	r.POST("/v1/leads/score", h.ScoreLead)
	r.GET("/v1/campaigns/:campaign_id/schedule/preview", h.PreviewCampaignSchedule)
	return r
}

func TestEvaluateStep(t *testing.T) {
	store := branching.NewMemoryStore(
		branching.WorkflowBranch{
			ID: "b-urgent", WorkflowID: "wf-1", ParentStepID: "step-1",
			ConditionType: branching.CondUrgency, ConditionOperator: branching.OpEquals,
			ConditionValue: "urgent", Priority: 10, IsActive: true,
		},
		branching.WorkflowBranch{
			ID: "b-low", WorkflowID: "wf-1", ParentStepID: "step-1",
			ConditionType: branching.CondLeadScore, ConditionOperator: branching.OpLessThan,
			ConditionValue: 40, Priority: 1, IsActive: true,
		},
	)
	auditSvc := audit.NewService(audit.NewMemoryRepo())
	h := Handlers{Selector: branching.NewSelector(store), Audit: auditSvc}
	r := testRouter(h, "tn-1")

	body := `{"lead":{"id":"lead-1","urgency":"urgent"}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/workflows/wf-1/steps/step-1/evaluate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Matched bool                      `json:"matched"`
		Branch  *branching.WorkflowBranch `json:"branch"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Matched || resp.Branch == nil || resp.Branch.ID != "b-urgent" {
		t.Fatalf("expected b-urgent to match, got %+v", resp)
	}
}

func TestEvaluateStep_NoMatch(t *testing.T) {
	h := Handlers{Selector: branching.NewSelector(branching.NewMemoryStore())}
	r := testRouter(h, "tn-1")

	req := httptest.NewRequest(http.MethodPost, "/v1/workflows/wf-1/steps/step-1/evaluate", strings.NewReader(`{"lead":{}}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"matched":false`) {
		t.Fatalf("expected no match, got %s", w.Body.String())
	}
}

func TestPreviewSchedule_InvalidRequest(t *testing.T) {
	h := Handlers{}
	r := testRouter(h, "tn-1")

	// batch_size missing (zero) must be rejected as unprocessable.
	body := `{"total_contacts":10,"start_date":"2025-06-02T00:00:00Z","daily_limit":5}`
	req := httptest.NewRequest(http.MethodPost, "/v1/schedules/preview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPreviewSchedule(t *testing.T) {
	h := Handlers{Hours: &hours.MemorySource{Configs: map[string]hours.BusinessHoursConfig{}}}
	r := testRouter(h, "tn-1")

	body := `{"total_contacts":25,"start_date":"2025-06-02T00:00:00Z","batch_size":10,"daily_limit":10,"batch_interval_minutes":30}`
	req := httptest.NewRequest(http.MethodPost, "/v1/schedules/preview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Schedule struct {
			Days []struct {
				ContactsCount int `json:"contacts_count"`
			} `json:"days"`
		} `json:"schedule"`
		Summary struct {
			TotalDays int `json:"total_days"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Schedule.Days) != 3 || resp.Summary.TotalDays != 3 {
		t.Fatalf("expected a 3-day plan, got %s", w.Body.String())
	}
}

func TestValidateRule(t *testing.T) {
	r := testRouter(Handlers{}, "tn-1")

	cases := []struct {
		body  string
		valid bool
	}{
		{`{"field":"lead_score","operator":"greater_than","values":50}`, true},
		{`{"field":"nope","operator":"equals","values":1}`, false},
		{`{"field":"urgency","operator":"in_array","values":"urgent"}`, false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/v1/branches/validate-rule", strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", tc.body, w.Code)
		}
		var resp struct {
			Valid bool `json:"valid"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Valid != tc.valid {
			t.Fatalf("rule %s: expected valid=%v, got %s", tc.body, tc.valid, w.Body.String())
		}
	}
}

func TestScoreLead(t *testing.T) {
	r := testRouter(Handlers{}, "tn-1")

	body := `{"urgency":"urgent","pest_type":"termites"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/leads/score", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Score     int      `json:"score"`
		Suggested []string `json:"suggested_branches"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Score != 100 {
		t.Fatalf("expected score 100 with urgent+clamp, got %d", resp.Score)
	}
	if len(resp.Suggested) == 0 {
		t.Fatalf("expected branch suggestions")
	}
}

func TestPreviewCampaignSchedule_NotFound(t *testing.T) {
	svc := campaigns.NewService(campaigns.NewMemoryRepo(), nil)
	r := testRouter(Handlers{Campaigns: svc}, "tn-1")

	req := httptest.NewRequest(http.MethodGet, "/v1/campaigns/nope/schedule/preview", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestPreviewCampaignSchedule(t *testing.T) {
	repo := campaigns.NewMemoryRepo()
	repo.Put(campaigns.Campaign{
		ID: "camp-1", TenantID: "tn-1",
		BatchSize: 10, DailyLimit: 10, BatchIntervalMinutes: 30,
		StartDatetime: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
	}, 25)
	svc := campaigns.NewService(repo, nil)
	auditRepo := audit.NewMemoryRepo()
	h := Handlers{Campaigns: svc, Audit: audit.NewService(auditRepo)}
	r := testRouter(h, "tn-1")

	req := httptest.NewRequest(http.MethodGet, "/v1/campaigns/camp-1/schedule/preview", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp campaigns.Preview
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalContacts != 25 || len(resp.Schedule.Days) != 3 {
		t.Fatalf("unexpected preview: %s", w.Body.String())
	}
}
