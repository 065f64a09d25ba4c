// internal/app/features/products/crud.go
package products

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	productstore "github.com/kitandahub/kitanda/internal/app/store/products"
	"github.com/kitandahub/kitanda/internal/app/system/authz"
	"github.com/kitandahub/kitanda/internal/app/system/respond"
	"github.com/kitandahub/kitanda/internal/app/system/sanitize"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type productInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	ProductType string  `json:"product_type"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

func (in *productInput) clean() string {
	in.Name = sanitize.Text(in.Name)
	in.Description = sanitize.Text(in.Description)
	in.Category = sanitize.Text(strings.ToLower(in.Category))

	switch {
	case in.Name == "":
		return "name is required"
	case in.Price < 0:
		return "price cannot be negative"
	case in.Stock < 0:
		return "stock cannot be negative"
	}
	switch in.ProductType {
	case "", models.ProductTypeProduct, models.ProductTypeService:
	default:
		return "product_type must be product or service"
	}
	return ""
}

// HandleCreate handles POST /products (lojista only).
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var in productInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := in.clean(); msg != "" {
		respond.Error(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := productstore.New(h.DB).Create(ctx, models.Product{
		LojistaID:   uid,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		ProductType: in.ProductType,
		Price:       in.Price,
		Stock:       in.Stock,
	})
	if err != nil {
		h.Log.Error("create product failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not create product")
		return
	}

	h.Log.Info("product created",
		zap.String("product_id", p.ID.Hex()),
		zap.String("lojista_id", uid.Hex()))
	respond.Created(w, p)
}

// HandleUpdate handles PUT /products/{id} (owning lojista only).
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var in productInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := in.clean(); msg != "" {
		respond.Error(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := productstore.New(h.DB)
	err = store.UpdateInfo(ctx, id, uid, in.Name, in.Description, in.Category, in.Price, in.Stock)
	if err == productstore.ErrNotFound {
		respond.Error(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		h.Log.Error("update product failed", zap.Error(err), zap.String("product_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not update product")
		return
	}

	p, err := store.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("reload product failed", zap.Error(err), zap.String("product_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not load product")
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// HandleDelete handles DELETE /products/{id} (owning lojista only).
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := productstore.New(h.DB).Delete(ctx, id, uid)
	if err != nil {
		h.Log.Error("delete product failed", zap.Error(err), zap.String("product_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not delete product")
		return
	}
	if n == 0 {
		respond.Error(w, http.StatusNotFound, "product not found")
		return
	}

	h.Log.Info("product deleted",
		zap.String("product_id", id.Hex()),
		zap.String("lojista_id", uid.Hex()))
	respond.NoContent(w)
}
