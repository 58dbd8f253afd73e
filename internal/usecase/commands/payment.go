package commands

import (
	"context"
	"encoding/json"
	"log/slog"

	"cabin-booking/internal/domain/booking"
	"cabin-booking/internal/infra"
	"cabin-booking/internal/pkg/clock"
	"cabin-booking/internal/pkg/config"
	"cabin-booking/internal/pkg/errs"
	"cabin-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type OpenOrderResult struct {
	BookingID   uuid.UUID `json:"booking_id"`
	OrderRef    string    `json:"order_ref"`
	Token       string    `json:"token"`
	RedirectURL string    `json:"redirect_url,omitempty"`
	// Paid is true only in mock mode, where the synthesized order is
	// approved on the spot.
	Paid bool `json:"paid"`
}

type ReconcileResult struct {
	BookingID uuid.UUID  `json:"booking_id"`
	State     OrderState `json:"state"`
	Applied   bool       `json:"applied"`
	Duplicate bool       `json:"duplicate"`
}

type PaymentCommands interface {
	OpenPaymentOrder(ctx context.Context, bookingID uuid.UUID) (*OpenOrderResult, error)
	HandleWebhook(ctx context.Context, token, signature string) (*ReconcileResult, error)
	Reconcile(ctx context.Context, token, source string) (*ReconcileResult, error)
	ConfirmManually(ctx context.Context, bookingID uuid.UUID, actor string) error
}

type paymentCommandsImpl struct {
	uow      shared.UnitOfWork
	gateway  PaymentGateway
	verifier WebhookVerifier
	notifier Notifier
	clock    clock.Clock
	cfg      config.PaymentConfig
	logger   *slog.Logger
}

func NewPaymentCommands(
	uow shared.UnitOfWork,
	gateway PaymentGateway,
	verifier WebhookVerifier,
	notifier Notifier,
	clk clock.Clock,
	cfg config.PaymentConfig,
	logger *slog.Logger,
) PaymentCommands {
	return &paymentCommandsImpl{
		uow:      uow,
		gateway:  gateway,
		verifier: verifier,
		notifier: notifier,
		clock:    clk,
		cfg:      cfg,
		logger:   logger,
	}
}

func (p *paymentCommandsImpl) mode() string {
	if p.cfg.IsMock() {
		return "mock"
	}
	return "live"
}

// OpenPaymentOrder opens the external payment order for a pending hold. The
// hold is validated in one transaction, the gateway call happens outside any
// transaction (no lock held across the network), and the reference is
// attached in a second transaction. A gateway failure leaves the hold
// unchanged and retryable.
func (p *paymentCommandsImpl) OpenPaymentOrder(ctx context.Context, bookingID uuid.UUID) (*OpenOrderResult, error) {
	if p.cfg.IsMock() {
		return p.openMockOrder(ctx, bookingID)
	}

	var req CreateOrderRequest
	var expired bool
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, due, err := p.validateForOrder(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if due {
			expired = true
			return nil
		}
		req = CreateOrderRequest{
			OrderID:       b.ID(),
			Amount:        b.Total(),
			Currency:      p.cfg.Currency,
			CustomerEmail: b.Guest().Email,
			CallbackURL:   p.cfg.CallbackURL,
			ReturnURL:     p.cfg.ReturnURL,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, errs.ErrHoldExpired
	}

	order, err := p.gateway.CreateOrder(ctx, req)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrGatewayUnavailable)
	}

	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, due, err := p.validateForOrder(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if due {
			expired = true
			return nil
		}
		if err := b.AttachOrder(order.OrderRef, order.Token); err != nil {
			return errs.Mark(err, errs.ErrAlreadyOrdered)
		}
		if err := tx.Bookings().Update(ctx, b, booking.StatusPending); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return tx.PaymentEvents().Append(ctx, shared.PaymentEvent{
			BookingID: bookingID,
			Type:      shared.EventOrderOpened,
			Source:    shared.SourceGuest,
			Mode:      "live",
			Outcome:   order.OrderRef,
		})
	})
	if err != nil {
		// The gateway order is now orphaned; it times out on the gateway
		// side, but leave a trace for reconciliation.
		p.logger.Warn("payment order opened but not attached",
			"booking_id", bookingID, "order_ref", order.OrderRef, "error", err.Error())
		return nil, err
	}
	if expired {
		// The hold ran out during the gateway call; the expiry transition is
		// committed and the order left to time out on the gateway side.
		p.logger.Warn("payment order opened but not attached",
			"booking_id", bookingID, "order_ref", order.OrderRef, "error", errs.ErrHoldExpired.Error())
		return nil, errs.ErrHoldExpired
	}

	return &OpenOrderResult{
		BookingID:   bookingID,
		OrderRef:    order.OrderRef,
		Token:       order.Token,
		RedirectURL: order.RedirectURL,
	}, nil
}

// openMockOrder synthesizes an order locally and approves it immediately.
// This path exists for environments without live payment credentials; every
// audit row it writes carries mode "mock".
func (p *paymentCommandsImpl) openMockOrder(ctx context.Context, bookingID uuid.UUID) (*OpenOrderResult, error) {
	orderRef := "mock-" + uuid.NewString()
	token := "mock-" + uuid.NewString()
	payload, _ := json.Marshal(map[string]any{"mode": "mock", "order_ref": orderRef})

	var notify *BookingPaidEvent
	var expired bool
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, due, err := p.validateForOrder(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if due {
			expired = true
			return nil
		}
		if err := b.AttachOrder(orderRef, token); err != nil {
			return errs.Mark(err, errs.ErrAlreadyOrdered)
		}
		if err := b.MarkPaid(payload); err != nil {
			return errs.Mark(err, errs.ErrAlreadyFinalized)
		}
		if err := tx.Bookings().Update(ctx, b, booking.StatusPending); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.PaymentEvents().Append(ctx, shared.PaymentEvent{
			BookingID: bookingID,
			Type:      shared.EventOrderOpened,
			Source:    shared.SourceGuest,
			Mode:      "mock",
			Outcome:   orderRef,
		}); err != nil {
			return err
		}
		if err := tx.PaymentEvents().Append(ctx, shared.PaymentEvent{
			BookingID: bookingID,
			Type:      shared.EventPaymentResult,
			Source:    shared.SourceSystem,
			Mode:      "mock",
			Outcome:   string(OrderPaid),
			Payload:   payload,
		}); err != nil {
			return err
		}
		notify = paidEvent(b, "mock")
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, errs.ErrHoldExpired
	}

	p.sendNotification(ctx, notify)
	return &OpenOrderResult{
		BookingID: bookingID,
		OrderRef:  orderRef,
		Token:     token,
		Paid:      true,
	}, nil
}

// validateForOrder loads the hold under lock and checks it can carry a new
// payment order. An overdue pending hold is transitioned to expired and its
// audit event written; that write has to survive, so the overdue case is
// reported through the due flag rather than an error — an error return would
// roll the whole transaction back. The caller commits, then fails with
// ErrHoldExpired.
func (p *paymentCommandsImpl) validateForOrder(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) (*booking.Booking, bool, error) {
	b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, false, errs.ErrBookingNotFound
		}
		return nil, false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	switch b.Status() {
	case booking.StatusPaid:
		return nil, false, errs.ErrAlreadyFinalized
	case booking.StatusExpired, booking.StatusCanceled:
		return nil, false, errs.ErrNotPending
	}

	if b.IsDue(p.clock.Now()) {
		if _, err := b.Expire(p.clock.Now()); err != nil {
			return nil, false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Bookings().Update(ctx, b, booking.StatusPending); err != nil {
			return nil, false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.PaymentEvents().Append(ctx, shared.PaymentEvent{
			BookingID: bookingID,
			Type:      shared.EventHoldExpired,
			Source:    shared.SourceSystem,
			Mode:      p.mode(),
			Outcome:   booking.StatusExpired.String(),
		}); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}

	if b.OrderRef() != nil {
		return nil, false, errs.ErrAlreadyOrdered
	}
	return b, false, nil
}

// HandleWebhook authenticates an inbound payment notification and, when the
// signature holds, reconciles the referenced order. Signature failures are
// logged and change no state.
func (p *paymentCommandsImpl) HandleWebhook(ctx context.Context, token, signature string) (*ReconcileResult, error) {
	if !p.verifier.Verify(token, signature) {
		p.logger.Warn("webhook signature rejected", "token_prefix", tokenPrefix(token))
		return nil, errs.ErrSignatureInvalid
	}
	return p.Reconcile(ctx, token, shared.SourceWebhook)
}

// Reconcile matches a payment order back to its hold and applies the
// corresponding transition exactly once. Webhook deliveries are
// at-least-once, so a replayed "paid" notification answers success without a
// second transition or a second confirmation message.
func (p *paymentCommandsImpl) Reconcile(ctx context.Context, token, source string) (*ReconcileResult, error) {
	state, err := p.gateway.OrderStatus(ctx, token)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrGatewayUnavailable)
	}
	payload, _ := json.Marshal(map[string]any{"token": token, "state": state})

	var result *ReconcileResult
	var notify *BookingPaidEvent
	var late bool
	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByTokenForUpdate(ctx, token)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrOrderNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		switch state {
		case OrderPaid:
			ev, applied, dup, lateHit, err := p.applyPaidConfirmation(ctx, tx, b, source, payload)
			if err != nil {
				return err
			}
			if lateHit {
				late = true
				return nil
			}
			notify = ev
			result = &ReconcileResult{BookingID: b.ID(), State: state, Applied: applied, Duplicate: dup}
			return nil

		case OrderRejected, OrderPending:
			// The hold stays pending; the sweeper or an explicit
			// cancellation releases the dates.
			result = &ReconcileResult{BookingID: b.ID(), State: state}
			return tx.PaymentEvents().Append(ctx, shared.PaymentEvent{
				BookingID: b.ID(),
				Type:      shared.EventPaymentResult,
				Source:    source,
				Mode:      p.mode(),
				Outcome:   string(state),
				Payload:   payload,
			})

		default:
			return errs.New("unknown order state: " + string(state))
		}
	})
	if err != nil {
		return nil, err
	}
	if late {
		return nil, errs.ErrLateConfirmation
	}

	p.sendNotification(ctx, notify)
	return result, nil
}

// ConfirmManually applies a payment confirmation under operator authority.
// It bypasses signature verification but not the state-machine guards.
func (p *paymentCommandsImpl) ConfirmManually(ctx context.Context, bookingID uuid.UUID, actor string) error {
	payload, _ := json.Marshal(map[string]any{"actor": actor})

	var notify *BookingPaidEvent
	var late bool
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrBookingNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		ev, _, _, lateHit, err := p.applyPaidConfirmation(ctx, tx, b, shared.SourceManual, payload)
		if err != nil {
			return err
		}
		if lateHit {
			late = true
			return nil
		}
		notify = ev
		return nil
	})
	if err != nil {
		return err
	}
	if late {
		return errs.ErrLateConfirmation
	}

	p.sendNotification(ctx, notify)
	return nil
}

// applyPaidConfirmation is the single paid-transition path shared by the
// webhook, polling, and manual flows. Payment truth wins against the hold
// timer: a pending hold past its expiry is still confirmed. A confirmation
// landing on an expired or canceled hold is never applied silently; the
// payload is kept and the booking flagged for human review. That flag and
// its audit row must outlive the transaction, so the late case returns
// late=true with a nil error — the caller commits first and only then
// surfaces ErrLateConfirmation.
func (p *paymentCommandsImpl) applyPaidConfirmation(ctx context.Context, tx shared.Tx, b *booking.Booking, source string, payload []byte) (notify *BookingPaidEvent, applied, duplicate, late bool, err error) {
	prev := b.Status()
	switch markErr := b.MarkPaid(payload); markErr {
	case nil:
		if err := tx.Bookings().Update(ctx, b, prev); err != nil {
			return nil, false, false, false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.PaymentEvents().Append(ctx, shared.PaymentEvent{
			BookingID: b.ID(),
			Type:      shared.EventPaymentResult,
			Source:    source,
			Mode:      p.mode(),
			Outcome:   string(OrderPaid),
			Payload:   payload,
		}); err != nil {
			return nil, false, false, false, err
		}
		return paidEvent(b, p.mode()), true, false, false, nil

	case booking.ErrAlreadyPaid:
		// Replay of a confirmation that already landed: success, no second
		// transition, no second notification.
		if err := tx.PaymentEvents().Append(ctx, shared.PaymentEvent{
			BookingID: b.ID(),
			Type:      shared.EventPaymentResult,
			Source:    source,
			Mode:      p.mode(),
			Outcome:   "duplicate",
			Payload:   payload,
		}); err != nil {
			return nil, false, false, false, err
		}
		return nil, false, true, false, nil

	case booking.ErrLateConfirmation:
		b.FlagForReview(payload)
		if err := tx.Bookings().Update(ctx, b, prev); err != nil {
			return nil, false, false, false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.PaymentEvents().Append(ctx, shared.PaymentEvent{
			BookingID: b.ID(),
			Type:      shared.EventPaymentResult,
			Source:    source,
			Mode:      p.mode(),
			Outcome:   "late_confirmation",
			Payload:   payload,
		}); err != nil {
			return nil, false, false, false, err
		}
		p.logger.Error("payment confirmed after hold was finalized; flagged for review",
			"booking_id", b.ID(), "status", b.Status().String())
		return nil, false, false, true, nil

	default:
		return nil, false, false, false, errs.Mark(markErr, errs.ErrDatabaseOperationFailed)
	}
}

func (p *paymentCommandsImpl) sendNotification(ctx context.Context, ev *BookingPaidEvent) {
	if ev == nil {
		return
	}
	if err := p.notifier.BookingPaid(ctx, *ev); err != nil {
		p.logger.Warn("confirmation notification failed", "booking_id", ev.BookingID, "error", err.Error())
	}
}

func paidEvent(b *booking.Booking, mode string) *BookingPaidEvent {
	return &BookingPaidEvent{
		BookingID:  b.ID(),
		CabinID:    b.CabinID(),
		GuestName:  b.Guest().Name,
		GuestEmail: b.Guest().Email,
		StartDate:  b.Stay().Start(),
		EndDate:    b.Stay().End(),
		Total:      b.Total(),
		Mode:       mode,
	}
}

func tokenPrefix(token string) string {
	if len(token) > 8 {
		return token[:8]
	}
	return token
}
