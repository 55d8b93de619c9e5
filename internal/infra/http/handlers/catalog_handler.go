package handlers

import (
	"net/http"

	"github.com/xavierca1/prospect-intake/internal/entity"
)

type CatalogHandler struct {
	Catalog entity.ServiceCatalog
}

func NewCatalogHandler(catalog entity.ServiceCatalog) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog}
}

// List (GET /services)
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Services())
}
