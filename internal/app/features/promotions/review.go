// internal/app/features/promotions/review.go
package promotions

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kitandahub/kitanda/internal/app/store/audit"
	notificationstore "github.com/kitandahub/kitanda/internal/app/store/notifications"
	promopaymentstore "github.com/kitandahub/kitanda/internal/app/store/promopayments"
	"github.com/kitandahub/kitanda/internal/app/system/authz"
	"github.com/kitandahub/kitanda/internal/app/system/respond"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleApprove handles POST /promotions/{id}/approve (admin only). The
// payment flips to aprovado and the listing's promotion activates in the
// same transaction; re-approving an already-resolved payment answers 409.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, true)
}

// HandleReject handles POST /promotions/{id}/reject (admin only). The
// listing returns to unpromoted so the lojista can request again.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, false)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, approve bool) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid payment id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := promopaymentstore.New(h.DB, h.Log)
	var payment models.PromotionPayment
	if approve {
		payment, err = store.Approve(ctx, id)
	} else {
		payment, err = store.Reject(ctx, id)
	}
	if err == promopaymentstore.ErrNotFound {
		respond.Error(w, http.StatusNotFound, "payment not found")
		return
	}
	if err == promopaymentstore.ErrNotPending {
		respond.Error(w, http.StatusConflict, "payment already resolved")
		return
	}
	if err != nil {
		h.Log.Error("promotion review failed", zap.Error(err), zap.String("payment_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not resolve payment")
		return
	}

	eventType := audit.EventPromotionApproved
	title := "Promoção aprovada"
	body := "A promoção de " + payment.ProductName + " está ativa"
	if !approve {
		eventType = audit.EventPromotionRejected
		title = "Promoção recusada"
		body = "O pagamento da promoção de " + payment.ProductName + " foi recusado"
	}

	h.AuditLog.Admin(ctx, r, eventType, actorID, &payment.LojistaID, map[string]string{
		"payment_id": payment.ID.Hex(),
		"product_id": payment.ProductID.Hex(),
	})
	if nerr := notificationstore.New(h.DB).Add(ctx, payment.LojistaID, title, body,
		"/products/"+payment.ProductID.Hex()); nerr != nil {
		h.Log.Warn("promotion notification failed", zap.Error(nerr))
	}

	h.Log.Info("promotion payment resolved",
		zap.String("payment_id", payment.ID.Hex()),
		zap.String("status", payment.Status))
	respond.JSON(w, http.StatusOK, payment)
}
