package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/PabloRelojeroo/slinkhard/internal/config"
	"github.com/PabloRelojeroo/slinkhard/internal/gateway"
	"github.com/PabloRelojeroo/slinkhard/internal/model"
	"github.com/PabloRelojeroo/slinkhard/internal/queue"
	"github.com/PabloRelojeroo/slinkhard/internal/repository"
)

// preferenceTTLMinutes is the fixed expiry window given to the gateway for
// a hosted payment page.
const preferenceTTLMinutes = 24 * 60

// PaymentHandler implements the order/payment workflow: preference
// creation, the asynchronous webhook reconciliation, payment status reads
// and the manual (transfer/cash) path.
//
// The webhook handler is the one place in the system requiring
// multi-statement atomicity: payment status, order status and stock must
// never diverge, even under duplicate or concurrent deliveries.
type PaymentHandler struct {
	Cfg      config.Config
	Orders   *repository.OrderRepo
	Payments *repository.PaymentRepo
	Products *repository.ProductRepo
	Gateway  gateway.Client

	// PublishPaid, when set, is invoked after a commit that transitioned an
	// order to paid. Failures are the publisher's problem; reconciliation
	// never depends on the broker.
	PublishPaid func(ctx context.Context, evt queue.OrderPaidEvent)
}

func NewPaymentHandler(cfg config.Config, o *repository.OrderRepo, pay *repository.PaymentRepo, prod *repository.ProductRepo, gw gateway.Client) *PaymentHandler {
	if o == nil || pay == nil || prod == nil || gw == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{Cfg: cfg, Orders: o, Payments: pay, Products: prod, Gateway: gw}
}

// CreatePreference handles POST /v1/orders/:id/payment-preference. The
// order must belong to the caller and still be pending. On success a
// pending payment row is persisted with the gateway preference id and the
// hosted payment page URLs are returned.
func (h *PaymentHandler) CreatePreference(c echo.Context) error {
	principal, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	order, err := h.Orders.GetByIDForUser(ctx, c.Param("id"), principal.ID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if order.Status != model.OrderPending {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order is not pending"})
	}

	items, err := h.Orders.Items(ctx, order.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	prefItems := make([]gateway.PreferenceItem, 0, len(items))
	for _, it := range items {
		title := it.ProductID
		if p, err := h.Products.GetByID(ctx, it.ProductID); err == nil {
			title = p.Name
		}
		prefItems = append(prefItems, gateway.PreferenceItem{
			ID:        it.ProductID,
			Title:     title,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Currency:  h.Cfg.Currency,
		})
	}

	pref, err := h.Gateway.CreatePreference(ctx, gateway.PreferenceRequest{
		Items:             prefItems,
		PayerName:         principal.Name,
		PayerEmail:        principal.Email,
		ExternalReference: order.ID,
		SuccessURL:        h.Cfg.StoreBaseURL + "/checkout/success",
		FailureURL:        h.Cfg.StoreBaseURL + "/checkout/failure",
		PendingURL:        h.Cfg.StoreBaseURL + "/checkout/pending",
		NotificationURL:   h.Cfg.PublicBaseURL + "/v1/payments/webhook",
		ExpiresInMinutes:  preferenceTTLMinutes,
	})
	if err != nil {
		// gateway detail stays in the log, callers get a generic failure
		log.Printf("payment: preference creation for order %s failed: %v", order.ID, err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment processing error"})
	}

	extID := pref.ID
	payment := model.Payment{
		OrderID:    order.ID,
		Method:     model.MethodGateway,
		Amount:     order.Total,
		Currency:   h.Cfg.Currency,
		Status:     model.PaymentPending,
		ExternalID: &extID,
	}
	pid, err := h.Payments.Create(ctx, &payment)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save payment failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"payment_id":         pid,
		"preference_id":      pref.ID,
		"init_point":         pref.InitPoint,
		"sandbox_init_point": pref.SandboxInitPoint,
	})
}

// webhookNotification is the inbound notification shape. The payload is a
// hint only; the authoritative status is always re-fetched from the
// gateway by id.
type webhookNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// deriveOrderStatus maps a reconciled payment status onto the order's next
// status. Anything that is neither a success nor a terminal failure leaves
// the order pending.
func deriveOrderStatus(paymentStatus string) string {
	switch paymentStatus {
	case model.PaymentApproved:
		return model.OrderPaid
	case model.PaymentRejected, model.PaymentCancelled:
		return model.OrderCancelled
	default:
		return model.OrderPending
	}
}

// normalizePaymentStatus folds the gateway's status vocabulary onto ours.
func normalizePaymentStatus(s string) string {
	switch s {
	case "approved":
		return model.PaymentApproved
	case "rejected":
		return model.PaymentRejected
	case "cancelled":
		return model.PaymentCancelled
	default:
		return model.PaymentPending
	}
}

// Webhook handles POST /v1/payments/webhook. Deliveries arrive out of
// order and may repeat; the handler acknowledges no-ops with 200 so the
// gateway stops retrying, and answers 500 on any transactional failure so
// it retries. All state changes happen in one transaction.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	var n webhookNotification
	if err := c.Bind(&n); err != nil {
		// unparseable payloads are acknowledged, retrying cannot fix them
		return c.JSON(http.StatusOK, echo.Map{"status": "ignored"})
	}
	if n.Type == "" {
		n.Type = c.QueryParam("type")
		if n.Type == "" {
			n.Type = c.QueryParam("topic")
		}
	}
	if n.Data.ID == "" {
		n.Data.ID = c.QueryParam("data.id")
		if n.Data.ID == "" {
			n.Data.ID = c.QueryParam("id")
		}
	}
	if n.Type != "payment" || n.Data.ID == "" {
		return c.JSON(http.StatusOK, echo.Map{"status": "ignored"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	info, err := h.Gateway.GetPayment(ctx, n.Data.ID)
	if err != nil {
		log.Printf("payment: webhook lookup of %s failed: %v", n.Data.ID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment lookup failed"})
	}
	if info.ExternalReference == "" {
		return c.JSON(http.StatusOK, echo.Map{"status": "ignored"})
	}

	paid, err := h.reconcile(ctx, info)
	if err != nil {
		if err == repository.ErrNotFound {
			// no actionable order/payment for this reference
			return c.JSON(http.StatusOK, echo.Map{"status": "ignored"})
		}
		log.Printf("payment: reconciliation of order %s failed: %v", info.ExternalReference, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reconciliation failed"})
	}

	if paid != nil && h.PublishPaid != nil {
		h.PublishPaid(ctx, *paid)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "processed"})
}

// reconcile applies the authoritative gateway state to the payment row,
// the order and, on a transition to paid, the stock of every line item,
// all inside a single transaction. It returns the event to publish when the
// order transitioned to paid, nil otherwise. Delivering the same approved
// notification twice is safe: the second run sees the order already paid
// and skips the stock mutation.
func (h *PaymentHandler) reconcile(ctx context.Context, info gateway.PaymentInfo) (*queue.OrderPaidEvent, error) {
	tx, err := h.Orders.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order, err := h.Orders.GetForUpdateTx(ctx, tx, info.ExternalReference)
	if err != nil {
		return nil, err
	}
	payment, err := h.Payments.LatestByOrderTx(ctx, tx, order.ID)
	if err != nil {
		return nil, err
	}

	status := normalizePaymentStatus(info.Status)
	if err := h.Payments.UpdateStatusTx(ctx, tx, payment.ID, status, info.Raw); err != nil {
		return nil, err
	}

	next := deriveOrderStatus(status)
	becamePaid := next == model.OrderPaid && order.Status != model.OrderPaid
	if becamePaid {
		items, err := h.Orders.ItemsTx(ctx, tx, order.ID)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if err := h.Products.ApplySaleTx(ctx, tx, it.ProductID, it.Quantity); err != nil {
				return nil, err
			}
		}
	}

	// leave an order that already advanced past pending alone unless the
	// payment just approved it
	writeStatus := next
	if next == model.OrderPending {
		writeStatus = order.Status
	}
	gwID := info.ID
	if err := h.Orders.UpdateStatusTx(ctx, tx, order.ID, writeStatus, &gwID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	if becamePaid {
		return &queue.OrderPaidEvent{
			OrderID:     order.ID,
			UserID:      order.UserID,
			PaymentID:   payment.ID,
			GatewayID:   info.ID,
			Total:       order.Total.StringFixed(2),
			Currency:    payment.Currency,
			ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
		}, nil
	}
	return nil, nil
}

// Status handles GET /v1/orders/:id/payment: the most recent payment of an
// order, scoped to its owner. Ownership failures look identical to a
// missing order.
func (h *PaymentHandler) Status(c echo.Context) error {
	principal, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	order, err := h.Orders.GetByIDForUser(ctx, c.Param("id"), principal.ID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	payment, err := h.Payments.LatestByOrder(ctx, order.ID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no payment for order"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"payment_id":   payment.ID,
		"order_id":     payment.OrderID,
		"order_status": order.Status,
		"method":       payment.Method,
		"amount":       payment.Amount,
		"currency":     payment.Currency,
		"status":       payment.Status,
		"external_id":  payment.ExternalID,
		"updated_at":   payment.UpdatedAt,
	})
}

// Methods handles GET /v1/payments/methods.
func (h *PaymentHandler) Methods(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": []echo.Map{
		{"id": model.MethodGateway, "name": "Online payment", "automatic": true},
		{"id": model.MethodTransfer, "name": "Bank transfer", "automatic": false},
		{"id": model.MethodCash, "name": "Cash on pickup", "automatic": false},
	}})
}

type manualPaymentReq struct {
	Method    string  `json:"method"`
	Reference *string `json:"reference"`
}

// SubmitManual handles POST /v1/orders/:id/payments/manual. The proof is
// attached as a pending payment awaiting admin reconciliation; nothing is
// sent to the gateway.
func (h *PaymentHandler) SubmitManual(c echo.Context) error {
	principal, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req manualPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Method != model.MethodTransfer && req.Method != model.MethodCash {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "method must be transfer or cash"})
	}
	ctx := c.Request().Context()
	order, err := h.Orders.GetByIDForUser(ctx, c.Param("id"), principal.ID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if order.Status != model.OrderPending {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order is not pending"})
	}
	payment := model.Payment{
		OrderID:     order.ID,
		Method:      req.Method,
		Amount:      order.Total,
		Currency:    h.Cfg.Currency,
		Status:      model.PaymentPending,
		RawResponse: req.Reference,
	}
	pid, err := h.Payments.Create(ctx, &payment)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save payment failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"payment_id": pid, "status": model.PaymentPending})
}
