package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mehdibp/site-api/newsletter"
	"github.com/mehdibp/site-api/pkg/requestid"
	"github.com/mehdibp/site-api/pkg/validator"
)

type newsletterHandler struct {
	svc    *newsletter.Service
	logger *slog.Logger
}

type subscribeRequest struct {
	Email string `json:"email"`
	Lang  string `json:"lang"`
}

func (h *newsletterHandler) subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	if err := h.svc.Subscribe(r.Context(), req.Email, req.Lang); err != nil {
		h.respondError(w, r, err, "subscription failed, please try again later")
		return
	}
	writeSuccess(w, "you are subscribed to the newsletter")
}

type unsubscribeRequest struct {
	Email string `json:"email"`
}

func (h *newsletterHandler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req unsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	if err := h.svc.Unsubscribe(r.Context(), req.Email); err != nil {
		h.respondError(w, r, err, "unsubscribe failed, please try again later")
		return
	}
	writeSuccess(w, "you are unsubscribed from the newsletter")
}

func (h *newsletterHandler) publish(w http.ResponseWriter, r *http.Request) {
	var req newsletter.PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	sent, err := h.svc.Publish(r.Context(), req, bearerToken(r))
	if err != nil {
		if errors.Is(err, newsletter.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "invalid publish token")
			return
		}
		h.respondError(w, r, err, "publish failed, please try again later")
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "newsletter published",
		Sent:    &sent,
	})
}

func (h *newsletterHandler) respondError(w http.ResponseWriter, r *http.Request, err error, generic string) {
	if ve := validator.ExtractValidationErrors(err); ve != nil {
		writeError(w, http.StatusBadRequest, strings.Join(ve.Messages(), "; "))
		return
	}

	h.logger.ErrorContext(r.Context(), "newsletter operation failed",
		slog.String("request_id", requestid.FromContext(r.Context())),
		slog.Any("error", err),
	)
	writeError(w, http.StatusInternalServerError, generic)
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return auth[len(prefix):]
	}
	return ""
}
