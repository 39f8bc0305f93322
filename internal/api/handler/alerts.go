package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/albapepper/mindsaathi/internal/api/respond"
)

type checkRequest struct {
	UserID string `json:"userId"`
	Phone  string `json:"phone"`
}

// CheckStreak evaluates a user's sad streak and alerts on demand.
// @Summary Check sad streak
// @Description Computes the longest run of consecutive sad entries and sends an SMS when it reaches the threshold. Ignores the scheduler cooldown. An unconfigured SMS gateway is reported with alerted=false and a reason.
// @Tags alerts
// @Accept json
// @Produce json
// @Param userId query string false "User id (or in the JSON body)"
// @Param phone query string false "Recipient override (or in the JSON body)"
// @Param body body checkRequest false "userId and phone"
// @Success 200 {object} alerts.StreakResult
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /alerts/check [post]
func (h *Handler) CheckStreak(w http.ResponseWriter, r *http.Request) {
	req := checkRequest{
		UserID: r.URL.Query().Get("userId"),
		Phone:  r.URL.Query().Get("phone"),
	}
	if r.Body != nil && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body checkRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			respond.Failure(w, http.StatusBadRequest, respond.ErrorBody{Code: respond.CodeInvalidBody, Message: "Request body must be JSON"})
			return
		}
		if body.UserID != "" {
			req.UserID = body.UserID
		}
		if body.Phone != "" {
			req.Phone = body.Phone
		}
	}
	if req.UserID == "" {
		respond.Failure(w, http.StatusBadRequest, respond.ErrorBody{Code: respond.CodeInvalidScope, Message: "userId is required"})
		return
	}

	result, err := h.streak.Check(r.Context(), req.UserID, req.Phone)
	if err != nil {
		h.writeErr(w, "check/send alert", err)
		return
	}
	respond.Object(w, http.StatusOK, result)
}
