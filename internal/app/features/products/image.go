// internal/app/features/products/image.go
package products

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	productstore "github.com/kitandahub/kitanda/internal/app/store/products"
	"github.com/kitandahub/kitanda/internal/app/system/authz"
	"github.com/kitandahub/kitanda/internal/app/system/respond"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// maxImageBytes caps a single product image upload.
const maxImageBytes = 8 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// HandleUploadImage handles POST /products/{id}/images as a multipart form
// with an "image" file field. The image lands in the object store and its
// public URL is appended to the product.
func (h *Handler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	if h.Media == nil {
		respond.Error(w, http.StatusServiceUnavailable, "image storage is not configured")
		return
	}
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

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		respond.Error(w, http.StatusUnsupportedMediaType, "image must be jpeg, png, or webp")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	store := productstore.New(h.DB)
	if _, err := store.GetByID(ctx, id); err == productstore.ErrNotFound {
		respond.Error(w, http.StatusNotFound, "product not found")
		return
	} else if err != nil {
		h.Log.Error("load product failed", zap.Error(err), zap.String("product_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not load product")
		return
	}

	key := fmt.Sprintf("products/%s/%s%s", id.Hex(), uuid.NewString(), ext)
	url, err := h.Media.Put(ctx, key, file, header.Size, contentType)
	if err != nil {
		h.Log.Error("image upload failed", zap.Error(err), zap.String("product_id", id.Hex()))
		respond.Error(w, http.StatusBadGateway, "could not store image")
		return
	}

	if err := store.AddImageURL(ctx, id, uid, url); err == productstore.ErrNotFound {
		// Not the owner's listing; drop the orphaned object.
		if derr := h.Media.Delete(ctx, key); derr != nil {
			h.Log.Warn("orphaned image cleanup failed", zap.Error(derr), zap.String("key", key))
		}
		respond.Error(w, http.StatusNotFound, "product not found")
		return
	} else if err != nil {
		h.Log.Error("record image failed", zap.Error(err), zap.String("product_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not record image")
		return
	}

	h.Log.Info("product image uploaded",
		zap.String("product_id", id.Hex()),
		zap.String("key", key))
	respond.JSON(w, http.StatusOK, map[string]string{"url": url})
}
