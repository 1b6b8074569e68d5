package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shaiso/Vitrina/internal/campaign"
	"github.com/shaiso/Vitrina/internal/domain"
	"github.com/shaiso/Vitrina/internal/scheduler"
)

// Handler — обработчик ops API notifier'а.
type Handler struct {
	sweeper   *campaign.Sweeper
	campaigns map[domain.CampaignKind]campaign.Campaign
	scheduler *scheduler.Service
	logger    *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Sweeper   *campaign.Sweeper
	Campaigns []campaign.Campaign
	Scheduler *scheduler.Service
	Logger    *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	campaigns := make(map[domain.CampaignKind]campaign.Campaign, len(cfg.Campaigns))
	for _, c := range cfg.Campaigns {
		campaigns[c.Kind()] = c
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		sweeper:   cfg.Sweeper,
		campaigns: campaigns,
		scheduler: cfg.Scheduler,
		logger:    logger,
	}
}

// CampaignStatus — состояние кампании в ответе API.
type CampaignStatus struct {
	Kind     string       `json:"kind"`
	CronExpr string       `json:"cron_expr,omitempty"`
	Timezone string       `json:"timezone,omitempty"`
	NextRun  string       `json:"next_run,omitempty"`
	Running  bool         `json:"running"`
	Report   *SweepReport `json:"last_report,omitempty"`
}

// SweepReport — отчёт о проходе в ответе API.
type SweepReport struct {
	Campaign     string `json:"campaign"`
	Eligible     int    `json:"eligible"`
	Sent         int    `json:"sent"`
	SendFailed   int    `json:"send_failed"`
	Committed    int    `json:"committed"`
	CommitFailed int    `json:"commit_failed"`
	StartedAt    string `json:"started_at"`
	Duration     string `json:"duration"`
}

// ListCampaigns возвращает состояние всех кампаний.
// GET /api/v1/campaigns
func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	statuses := make([]CampaignStatus, 0, len(h.campaigns))
	for _, kind := range domain.Kinds() {
		if _, ok := h.campaigns[kind]; !ok {
			continue
		}
		statuses = append(statuses, h.campaignStatus(kind))
	}

	List(w, statuses, len(statuses))
}

// TriggerSweep запускает внеплановый проход кампании.
// POST /api/v1/campaigns/{kind}/sweep
func (h *Handler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	kind, c, ok := h.campaignFromPath(r)
	if !ok {
		NotFound(w, "unknown campaign")
		return
	}

	if h.sweeper.IsRunning(kind) {
		Conflict(w, "sweep already running")
		return
	}

	// Проход идёт в фоне: ошибки алертятся и логируются внутри Sweeper.
	go func() {
		_, err := h.sweeper.Run(context.Background(), c)
		if err != nil && !errors.Is(err, campaign.ErrSweepRunning) {
			h.logger.Warn("manual sweep failed", "campaign", kind, "error", err)
		}
	}()

	JSON(w, http.StatusAccepted, DataResponse{Data: map[string]string{
		"campaign": kind.String(),
		"status":   "started",
	}})
}

// GetReport возвращает последний отчёт кампании.
// GET /api/v1/campaigns/{kind}/report
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	kind, _, ok := h.campaignFromPath(r)
	if !ok {
		NotFound(w, "unknown campaign")
		return
	}

	report, ok := h.sweeper.LastReport(kind)
	if !ok {
		NotFound(w, "no sweep has completed yet")
		return
	}

	Success(w, toSweepReport(report))
}

// campaignFromPath извлекает кампанию из path-параметра {kind}.
func (h *Handler) campaignFromPath(r *http.Request) (domain.CampaignKind, campaign.Campaign, bool) {
	kind, ok := domain.ParseCampaignKind(r.PathValue("kind"))
	if !ok {
		return "", nil, false
	}
	c, ok := h.campaigns[kind]
	return kind, c, ok
}

// campaignStatus собирает состояние одной кампании.
func (h *Handler) campaignStatus(kind domain.CampaignKind) CampaignStatus {
	status := CampaignStatus{
		Kind:    kind.String(),
		Running: h.sweeper.IsRunning(kind),
	}

	if h.scheduler != nil {
		for _, t := range h.scheduler.Triggers() {
			if t.Name == kind.String() {
				status.CronExpr = t.CronExpr
				status.Timezone = t.Timezone
				break
			}
		}
		if next, ok := h.scheduler.NextRun(kind.String()); ok {
			status.NextRun = next.Format(time.RFC3339)
		}
	}

	if report, ok := h.sweeper.LastReport(kind); ok {
		r := toSweepReport(report)
		status.Report = &r
	}

	return status
}

// toSweepReport конвертирует доменный отчёт в DTO.
func toSweepReport(r domain.SweepReport) SweepReport {
	return SweepReport{
		Campaign:     r.Campaign.String(),
		Eligible:     r.Eligible,
		Sent:         r.Sent,
		SendFailed:   r.SendFailed,
		Committed:    r.Committed,
		CommitFailed: r.CommitFailed,
		StartedAt:    r.StartedAt.Format(time.RFC3339),
		Duration:     r.Duration.String(),
	}
}
