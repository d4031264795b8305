// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/volunteerhub/matchd/internal/domain/model"
)

// NotificationDependencies defines the interface for notification queries.
type NotificationDependencies interface {
	Notifications(ctx context.Context, volunteerID string) ([]model.Notification, error)
}

// NotificationsHandler handles notification queries.
type NotificationsHandler struct {
	deps NotificationDependencies
}

// NewNotificationsHandler creates a new notifications handler.
func NewNotificationsHandler(deps NotificationDependencies) *NotificationsHandler {
	return &NotificationsHandler{deps: deps}
}

type notificationsResponse struct {
	VolunteerID   string             `json:"volunteer_id"`
	Notifications []NotificationInfo `json:"notifications"`
	Count         int                `json:"count"`
}

// HandleListNotifications handles GET /notifications?volunteer_id=X requests.
func (h *NotificationsHandler) HandleListNotifications(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_notifications"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	volunteerID := strings.TrimSpace(r.URL.Query().Get("volunteer_id"))
	if volunteerID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: missing volunteer_id", op))
		return
	}

	notes, err := h.deps.Notifications(r.Context(), volunteerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	rows := make([]NotificationInfo, 0, len(notes))
	for _, note := range notes {
		rows = append(rows, NotificationInfo{
			ID:          note.ID,
			VolunteerID: note.UserID,
			EventID:     note.EventID,
			Type:        note.Type,
			Message:     note.Message,
			IsRead:      note.Read,
			CreatedAt:   note.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, notificationsResponse{
		VolunteerID:   volunteerID,
		Notifications: rows,
		Count:         len(rows),
	})
}
