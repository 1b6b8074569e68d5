package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// --- Response types (дублируются из api, CLI не импортирует internal/api) ---

// CampaignStatusResponse — состояние кампании из API.
type CampaignStatusResponse struct {
	Kind     string               `json:"kind"`
	CronExpr string               `json:"cron_expr,omitempty"`
	Timezone string               `json:"timezone,omitempty"`
	NextRun  string               `json:"next_run,omitempty"`
	Running  bool                 `json:"running"`
	Report   *SweepReportResponse `json:"last_report,omitempty"`
}

// SweepReportResponse — отчёт о проходе из API.
type SweepReportResponse struct {
	Campaign     string `json:"campaign"`
	Eligible     int    `json:"eligible"`
	Sent         int    `json:"sent"`
	SendFailed   int    `json:"send_failed"`
	Committed    int    `json:"committed"`
	CommitFailed int    `json:"commit_failed"`
	StartedAt    string `json:"started_at"`
	Duration     string `json:"duration"`
}

// Client — HTTP клиент ops API notifier'а.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient создаёт Client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListCampaigns возвращает состояние всех кампаний.
func (c *Client) ListCampaigns() ([]CampaignStatusResponse, error) {
	var campaigns []CampaignStatusResponse
	if err := c.do(http.MethodGet, "/api/v1/campaigns", nil, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// TriggerSweep запускает внеплановый проход кампании.
func (c *Client) TriggerSweep(kind string) error {
	path := fmt.Sprintf("/api/v1/campaigns/%s/sweep", kind)
	return c.do(http.MethodPost, path, nil, nil)
}

// GetReport возвращает последний отчёт кампании.
func (c *Client) GetReport(kind string) (*SweepReportResponse, error) {
	var report SweepReportResponse
	path := fmt.Sprintf("/api/v1/campaigns/%s/report", kind)
	if err := c.do(http.MethodGet, path, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// envelope — конверт ответов API.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do выполняет запрос и декодирует data-часть ответа в out.
func (c *Client) do(method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode, respBody)
	}

	if env.Error != nil {
		return fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
