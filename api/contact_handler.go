package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mehdibp/site-api/contact"
	"github.com/mehdibp/site-api/pkg/clientip"
	"github.com/mehdibp/site-api/pkg/requestid"
	"github.com/mehdibp/site-api/pkg/validator"
)

// MaxContactBodySize bounds the request body. Five 5 MiB files grow by a
// third under base64, plus JSON overhead; 40 MiB covers the worst case.
const MaxContactBodySize = 40 << 20

type contactHandler struct {
	svc    *contact.Service
	logger *slog.Logger
}

func (h *contactHandler) submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxContactBodySize)

	var req contact.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	clientIP := clientip.GetIPFromContext(r.Context())

	if err := h.svc.Submit(r.Context(), req, clientIP); err != nil {
		if ve := validator.ExtractValidationErrors(err); ve != nil {
			writeError(w, http.StatusBadRequest, strings.Join(ve.Messages(), "; "))
			return
		}

		h.logger.ErrorContext(r.Context(), "contact submission failed",
			slog.String("request_id", requestid.FromContext(r.Context())),
			slog.Any("error", err),
		)
		writeError(w, http.StatusInternalServerError, "your message could not be delivered, please try again later")
		return
	}

	writeSuccess(w, "your message has been sent successfully")
}
