package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storelocator/internal/quotation"
)

func (s *Server) handleDeliveryOptions(w http.ResponseWriter, r *http.Request) {
	s.quote(w, r, r.URL.Query().Get("postalCode"))
}

// handleStoresByCEP is the path form of /delivery-options.
func (s *Server) handleStoresByCEP(w http.ResponseWriter, r *http.Request) {
	s.quote(w, r, chi.URLParam(r, "cep"))
}

func (s *Server) quote(w http.ResponseWriter, r *http.Request, postal string) {
	if strings.TrimSpace(postal) == "" {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_postal_code", "postalCode required")
		return
	}
	limit, ok := queryInt(r, "limit", 0)
	if !ok {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
		return
	}
	offset, ok := queryInt(r, "offset", 0)
	if !ok {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "offset must be a non-negative integer")
		return
	}

	resp, err := s.quotes.Quote(r.Context(), postal, quotation.Page{Limit: limit, Offset: offset})
	if err != nil {
		s.writeQuoteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeQuoteError(w http.ResponseWriter, err error) {
	msg := "internal error"
	var se *quotation.ServiceError
	if errors.As(err, &se) {
		msg = se.Msg
	}
	switch quotation.KindOf(err) {
	case quotation.KindInvalidInput:
		writeErrorJSON(w, http.StatusBadRequest, "invalid_postal_code", msg)
	case quotation.KindUpstreamUnavailable:
		s.log.Warn("quotation upstream unavailable", zap.Error(err))
		writeErrorJSON(w, http.StatusServiceUnavailable, "upstream_unavailable", msg)
	default:
		s.log.Error("quotation failed", zap.Error(err))
		writeErrorJSON(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
