package checkout

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/noah-isme/toko-pricing/internal/common"
)

const maxQuoteBody = 1 << 20

var errTrailingData = errors.New("unexpected data after JSON body")

// Handler exposes the quote endpoint.
type Handler struct {
	Svc *Service
}

// Quote handles POST /api/v1/quotes.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "quote service not configured", nil)
		return
	}
	var payload Input
	dec := json.NewDecoder(io.LimitReader(r.Body, maxQuoteBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		var syntaxErr *json.SyntaxError
		var details any
		if errors.As(err, &syntaxErr) {
			details = map[string]any{"offset": syntaxErr.Offset}
		}
		common.WriteError(w, common.Validation("invalid payload", err, details))
		return
	}
	if dec.More() {
		common.WriteError(w, common.Validation("invalid payload", errTrailingData, nil))
		return
	}
	out, err := h.Svc.Quote(r.Context(), payload)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, out)
}
