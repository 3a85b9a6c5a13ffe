package server

import (
	"net/http"
	"strings"

	"github.com/calk-kg/calk/internal/site"
	"github.com/calk-kg/calk/pkg/schema"
	"github.com/calk-kg/calk/pkg/tax"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type categoryView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type calculatorView struct {
	ID          string           `json:"id"`
	Category    string           `json:"category"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	URL         string           `json:"url"`
	Alternates  []site.Alternate `json:"alternates"`
}

type calculatorsResponse struct {
	Language    string           `json:"language"`
	Categories  []categoryView   `json:"categories"`
	Calculators []calculatorView `json:"calculators"`
}

func (h *handler) handleCalculators(w http.ResponseWriter, r *http.Request) {
	lang := site.Negotiate(r)

	response := calculatorsResponse{Language: lang}
	for _, c := range h.catalog.Categories() {
		response.Categories = append(response.Categories, categoryView{ID: c.ID, Name: c.Name.In(lang)})
	}
	for _, p := range h.catalog.Calculators() {
		response.Calculators = append(response.Calculators, calculatorView{
			ID:          p.ID,
			Category:    p.Category,
			Title:       p.Title.In(lang),
			Description: p.Description.In(lang),
			URL:         h.catalog.URL(p, lang),
			Alternates:  h.catalog.Alternates(p),
		})
	}

	h.writeJSON(w, http.StatusOK, response)
}

// handleSchema returns the structured data of the page whose path follows
// /api/schema, e.g. /api/schema/ky/calculator/deposit.
func (h *handler) handleSchema(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchema"

	path := "/" + strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	page, lang, ok := h.catalog.Resolve(path)
	if !ok {
		h.respondErrorWithOp(w, r, http.StatusNotFound, "unknown page "+path, op)
		return
	}

	data, err := h.cached("schema:"+lang+":"+page.ID, func() ([]byte, error) {
		return schema.Marshal(h.catalog.Schemas(h.schema, page, lang)...)
	})
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, err.Error(), op)
		return
	}

	w.Header().Set("Content-Type", "application/ld+json")
	if _, err := w.Write(data); err != nil {
		LoggerFromContext(r.Context(), h.logger).Error("failed to write structured data", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleOffers(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleOffers"

	kind := chi.URLParam(r, "kind")
	table, err := h.offers.Table(kind)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusNotFound, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, table)
}

func (h *handler) handleExamples(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.offers.ComputedExamples())
}

func (h *handler) handleActivities(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, tax.RateTable())
}

func (h *handler) handleCities(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, tax.Cities())
}
