// internal/app/features/products/listget.go
package products

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	productstore "github.com/kitandahub/kitanda/internal/app/store/products"
	"github.com/kitandahub/kitanda/internal/app/system/authz"
	"github.com/kitandahub/kitanda/internal/app/system/respond"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const listLimit = 200

// ServeList handles GET /products. Open to everyone; lojistas narrow to
// their own listings with ?mine=1, and ?category, ?type, and ?promoted=1
// filter the catalog.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	q := r.URL.Query()
	f := productstore.ListFilter{
		Category:     q.Get("category"),
		ProductType:  q.Get("type"),
		PromotedOnly: q.Get("promoted") == "1",
	}
	if q.Get("mine") == "1" {
		if _, _, uid, ok := authz.UserCtx(r); ok {
			f.LojistaID = &uid
		}
	}

	out, err := productstore.New(h.DB).List(ctx, f, listLimit)
	if err != nil {
		h.Log.Error("list products failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not load products")
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// ServeGet handles GET /products/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := productstore.New(h.DB).GetByID(ctx, id)
	if err == productstore.ErrNotFound {
		respond.Error(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		h.Log.Error("load product failed", zap.Error(err), zap.String("product_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not load product")
		return
	}
	respond.JSON(w, http.StatusOK, p)
}
