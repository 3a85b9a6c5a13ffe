package server

import (
	"fmt"
	"html"
	"net/http"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	maxContactName    = 100
	maxContactEmail   = 254
	maxContactSubject = 200
	maxContactMessage = 5000
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// clean strips markup and control characters from a form field. Newlines and
// tabs are kept and entities escaped by the sanitizer are decoded again.
func (h *handler) clean(s string) string {
	s = html.UnescapeString(h.sanitizer.Sanitize(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\n' || r == '\t' {
			return r
		}
		return -1
	}, s)
	return strings.TrimSpace(s)
}

func checkField(name, value string, limit int) error {
	if value == "" {
		return fmt.Errorf("%s is required", name)
	}
	if utf8.RuneCountInString(value) > limit {
		return fmt.Errorf("%s exceeds %d characters", name, limit)
	}
	return nil
}

// validateContact cleans the request in place and returns the first problem found.
func (h *handler) validateContact(req *contactRequest) error {
	req.Name = h.clean(req.Name)
	req.Subject = h.clean(req.Subject)
	req.Message = h.clean(req.Message)
	req.Email = strings.TrimSpace(req.Email)

	if err := checkField("name", req.Name, maxContactName); err != nil {
		return err
	}
	if err := checkField("email", req.Email, maxContactEmail); err != nil {
		return err
	}
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		return fmt.Errorf("email %q is not a valid address", req.Email)
	}
	if err := checkField("subject", req.Subject, maxContactSubject); err != nil {
		return err
	}
	return checkField("message", req.Message, maxContactMessage)
}

// handleContact accepts a contact form message. Messages are logged for the
// site operators and never stored.
func (h *handler) handleContact(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleContact"

	var req contactRequest
	if status, err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErrorWithOp(w, r, status, err.Error(), op)
		return
	}
	if err := h.validateContact(&req); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.metrics.contacts.Inc()
	LoggerFromContext(r.Context(), h.logger).Info("contact message received",
		zap.String("op", op),
		zap.String("name", req.Name),
		zap.String("email", req.Email),
		zap.String("subject", req.Subject),
		zap.String("message", req.Message),
	)

	h.writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "accepted",
	})
}
