package api

import "net/http"

// RegisterRoutes регистрирует маршруты ops API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	mux.Handle("GET /api/v1/campaigns", chain(http.HandlerFunc(h.ListCampaigns)))
	mux.Handle("POST /api/v1/campaigns/{kind}/sweep", chain(http.HandlerFunc(h.TriggerSweep)))
	mux.Handle("GET /api/v1/campaigns/{kind}/report", chain(http.HandlerFunc(h.GetReport)))
}
