// internal/app/features/promotions/request.go
package promotions

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kitandahub/kitanda/internal/app/store/audit"
	productstore "github.com/kitandahub/kitanda/internal/app/store/products"
	promopaymentstore "github.com/kitandahub/kitanda/internal/app/store/promopayments"
	"github.com/kitandahub/kitanda/internal/app/system/authz"
	"github.com/kitandahub/kitanda/internal/app/system/respond"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Promotion tiers and their weekly prices in MZN.
var tierPrices = map[string]float64{
	"basico":   150,
	"destaque": 350,
	"premium":  700,
}

type requestInput struct {
	ProductID string `json:"product_id"`
	Tier      string `json:"tier"`
}

// HandleRequest handles POST /promotions (lojista only). Opens a pending
// payment carrying a generated reference code and moves the listing to
// promotion-pending, atomically.
func (h *Handler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var in requestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	amount, ok := tierPrices[in.Tier]
	if !ok {
		respond.Error(w, http.StatusBadRequest, "tier must be basico, destaque, or premium")
		return
	}
	productID, err := primitive.ObjectIDFromHex(in.ProductID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid product_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := productstore.New(h.DB).GetByID(ctx, productID)
	if err == productstore.ErrNotFound {
		respond.Error(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		h.Log.Error("load product failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not load product")
		return
	}
	if p.LojistaID != uid {
		respond.Error(w, http.StatusForbidden, "not your listing")
		return
	}
	if p.IsPromoted != models.PromotedInactive {
		respond.Error(w, http.StatusConflict, "a promotion is already pending or active for this listing")
		return
	}

	payment, err := promopaymentstore.New(h.DB, h.Log).Request(ctx, uid, p, in.Tier, amount)
	if err != nil {
		h.Log.Error("promotion request failed", zap.Error(err), zap.String("product_id", productID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not request promotion")
		return
	}

	h.AuditLog.Admin(ctx, r, audit.EventPromotionRequested, uid, nil, map[string]string{
		"product_id": productID.Hex(),
		"payment_id": payment.ID.Hex(),
		"tier":       in.Tier,
	})
	h.Log.Info("promotion requested",
		zap.String("payment_id", payment.ID.Hex()),
		zap.String("product_id", productID.Hex()),
		zap.String("tier", in.Tier))
	respond.Created(w, payment)
}

// ServeList handles GET /promotions. Lojistas see their own payments;
// admins see everything, with ?status narrowing either way.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	f := promopaymentstore.ListFilter{Status: r.URL.Query().Get("status")}
	if role != models.RoleAdmin {
		f.LojistaID = &uid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, err := promopaymentstore.New(h.DB, h.Log).List(ctx, f, 200)
	if err != nil {
		h.Log.Error("list promotions failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not load promotions")
		return
	}
	respond.JSON(w, http.StatusOK, out)
}
