// Package admin is the operator-facing REST API: event and user listings,
// registration statistics, notification fan-out, and Callback API setup.
package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skip2/go-qrcode"

	"vkeventsbot/internal/adapters/vk"
	"vkeventsbot/internal/domain"
	"vkeventsbot/internal/ports/input"
)

const maxBodyBytes = 64 << 10

type ServerDeps struct {
	Pool          *pgxpool.Pool
	Events        input.EventUseCase
	Users         input.UserUseCase
	Notifications input.NotificationUseCase
	Setup         *vk.SetupService
	GroupID       int64
}

func decodeJSONStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// --- Health ---

func (d *ServerDeps) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := d.Pool.Ping(r.Context()); err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "not ready", "database not reachable", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Listings ---

func (d *ServerDeps) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := d.Events.ListUpcoming(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "query error", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events, "count": len(events)})
}

func (d *ServerDeps) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := d.Users.ListActive(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "query error", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users, "count": len(users)})
}

type statsResp struct {
	Users         domain.UserStats         `json:"users"`
	Notifications domain.NotificationStats `json:"notifications"`
}

func (d *ServerDeps) handleStats(w http.ResponseWriter, r *http.Request) {
	users, err := d.Users.Stats(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "query error", err.Error(), nil)
		return
	}
	notifs, err := d.Notifications.Stats(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "query error", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, statsResp{Users: users, Notifications: notifs})
}

// --- Notifications ---

type notifyReq struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (n *notifyReq) validate() map[string][]string {
	errs := map[string][]string{}
	if n.Title == "" {
		errs["title"] = append(errs["title"], "must not be empty")
	}
	if n.Message == "" {
		errs["message"] = append(errs["message"], "must not be empty")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (d *ServerDeps) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	var req notifyReq
	if err := decodeJSONStrict(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid json", err.Error(), nil)
		return
	}
	if errs := req.validate(); errs != nil {
		writeProblem(w, http.StatusBadRequest, "validation failed", "one or more fields are invalid", errs)
		return
	}
	res, err := d.Notifications.Broadcast(r.Context(), req.Title, req.Message)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "broadcast failed", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (d *ServerDeps) handleNotifyEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid parameters", "id must be an integer", nil)
		return
	}
	var req notifyReq
	if err := decodeJSONStrict(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid json", err.Error(), nil)
		return
	}
	if errs := req.validate(); errs != nil {
		writeProblem(w, http.StatusBadRequest, "validation failed", "one or more fields are invalid", errs)
		return
	}
	res, err := d.Notifications.NotifyEventParticipants(r.Context(), eventID, req.Title, req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			writeProblem(w, http.StatusNotFound, "not found", "event does not exist", nil)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "notification failed", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (d *ServerDeps) handleNotificationHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			writeProblem(w, http.StatusBadRequest, "invalid parameters", "limit must be in [1, 500]", nil)
			return
		}
		limit = n
	}
	history, err := d.Notifications.History(r.Context(), limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "query error", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": history, "count": len(history)})
}

// --- Callback API setup ---

type setupReq struct {
	ServerURL string `json:"serverUrl"`
	Title     string `json:"title"`
}

func (d *ServerDeps) handleSetupBot(w http.ResponseWriter, r *http.Request) {
	var req setupReq
	if err := decodeJSONStrict(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid json", err.Error(), nil)
		return
	}
	if req.ServerURL == "" {
		writeProblem(w, http.StatusBadRequest, "validation failed", "serverUrl must not be empty",
			map[string][]string{"serverUrl": {"must not be empty"}})
		return
	}
	if req.Title == "" {
		req.Title = "events-bot"
	}
	serverID, err := d.Setup.EnsureCallbackServer(r.Context(), req.ServerURL, req.Title)
	if err != nil {
		writeProblem(w, http.StatusBadGateway, "setup failed", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"serverId": serverID, "serverUrl": req.ServerURL})
}

func (d *ServerDeps) handleSetupStatus(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(r.PathValue("groupId"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid parameters", "groupId must be an integer", nil)
		return
	}
	status, err := d.Setup.Status(r.Context(), groupID)
	if err != nil {
		writeProblem(w, http.StatusBadGateway, "status unavailable", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// --- QR ---

// handleEventQR renders a QR code that opens the community chat with a
// ref pointing at the event, for printing on offline materials.
func (d *ServerDeps) handleEventQR(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid parameters", "id must be an integer", nil)
		return
	}
	if _, err := d.Events.GetEventByID(r.Context(), eventID); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			writeProblem(w, http.StatusNotFound, "not found", "event does not exist", nil)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "query error", err.Error(), nil)
		return
	}

	link := fmt.Sprintf("https://vk.me/club%d?ref=event_%d", d.GroupID, eventID)
	png, err := qrcode.Encode(link, qrcode.Medium, 512)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "qr generation failed", err.Error(), nil)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// --- Router ---

func (d *ServerDeps) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", d.handleHealth)
	mux.HandleFunc("GET /api/events", d.handleListEvents)
	mux.HandleFunc("GET /api/events/{id}/qr", d.handleEventQR)
	mux.HandleFunc("GET /api/users", d.handleListUsers)
	mux.HandleFunc("GET /api/stats", d.handleStats)
	mux.HandleFunc("POST /api/broadcast", d.handleBroadcast)
	mux.HandleFunc("POST /api/notify-event/{id}", d.handleNotifyEvent)
	mux.HandleFunc("GET /api/notifications", d.handleNotificationHistory)
	mux.HandleFunc("POST /api/setup-bot", d.handleSetupBot)
	mux.HandleFunc("GET /api/setup-status/{groupId}", d.handleSetupStatus)

	var h http.Handler = mux
	h = requireJSON(h)
	h = bodyLimit(maxBodyBytes)(h)
	h = logRequests(h)
	return h
}
