package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/levelup-shop/internal/domain/models"
	"github.com/linemk/levelup-shop/internal/lib/logger"
	"github.com/linemk/levelup-shop/internal/pricing"
	"github.com/linemk/levelup-shop/internal/storage"
)

// CheckoutState: состояние оформления заказа
type CheckoutState string

const (
	StateIdle       CheckoutState = "idle"
	StateValidating CheckoutState = "validating"
	StateProcessing CheckoutState = "processing"
	StateSuccess    CheckoutState = "success"
	StateFailure    CheckoutState = "failure"
)

type CheckoutResult struct {
	State       CheckoutState     `json:"state"`
	Order       *models.Order     `json:"order,omitempty"`
	Quote       *pricing.Quote    `json:"quote,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	Message     string            `json:"message,omitempty"`
}

type CheckoutService interface {
	// Checkout проводит корзину через Validating и Processing.
	// Ошибки полей и пустая корзина дают StateFailure без error, корзина при этом не меняется.
	Checkout(ctx context.Context, userID string, payment PaymentDetails) (*CheckoutResult, error)
}

type checkoutService struct {
	log       *slog.Logger
	carts     storage.CartStorage
	orders    storage.OrderStorage
	users     storage.UserStorage
	catalog   Catalog
	coupons   *pricing.CouponManager
	publisher OrderPublisher
	delay     time.Duration
	now       func() time.Time
	newID     func() string
}

func NewCheckoutService(
	log *slog.Logger,
	carts storage.CartStorage,
	orders storage.OrderStorage,
	users storage.UserStorage,
	catalog Catalog,
	coupons *pricing.CouponManager,
	publisher OrderPublisher,
	delay time.Duration,
) CheckoutService {
	if publisher == nil {
		publisher = NopOrderPublisher{}
	}
	return &checkoutService{
		log:       log,
		carts:     carts,
		orders:    orders,
		users:     users,
		catalog:   catalog,
		coupons:   coupons,
		publisher: publisher,
		delay:     delay,
		now:       time.Now,
		newID:     func() string { return "ord_" + uuid.NewString() },
	}
}

func (s *checkoutService) Checkout(ctx context.Context, userID string, payment PaymentDetails) (*CheckoutResult, error) {
	const op = "service.CheckoutService.Checkout"
	log := s.log.With(slog.String("op", op), slog.String("userID", userID))

	state := StateIdle
	transition := func(next CheckoutState) {
		log.Debug("checkout state", slog.String("from", string(state)), slog.String("to", string(next)))
		state = next
	}

	transition(StateValidating)
	if fieldErrs := payment.Validate(s.now()); len(fieldErrs) > 0 {
		transition(StateFailure)
		log.Info("payment details rejected", slog.Int("fields", len(fieldErrs)))
		return &CheckoutResult{State: state, FieldErrors: fieldErrs, Message: "Revisa los datos de la tarjeta"}, nil
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		log.Error("failed to load cart", logger.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cart.IsEmpty() {
		transition(StateFailure)
		return &CheckoutResult{State: state, Message: ErrEmptyCart.Error()}, nil
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		log.Error("failed to get user", logger.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	products, err := s.catalog.ProductsByID(ctx)
	if err != nil {
		log.Error("failed to load catalog", logger.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lines := BuildLines(cart, products)
	quote, err := quoteLines(s.coupons, lines, user.Email, cart.CouponCode)
	if err != nil {
		log.Warn("cart total out of range", logger.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transition(StateProcessing)
	select {
	case <-ctx.Done():
		log.Warn("checkout cancelled during processing", logger.Err(ctx.Err()))
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	case <-time.After(s.delay):
	}

	order := &models.Order{
		ID:          s.newID(),
		Timestamp:   s.now(),
		Items:       make([]models.OrderItem, 0, len(lines)),
		TotalAmount: quote.Total,
		UserID:      userID,
	}
	for _, l := range lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductName:  l.Name,
			Quantity:     l.Quantity,
			PricePerUnit: l.UnitPesos(),
		})
	}

	if err := s.orders.AppendOrder(ctx, order); err != nil {
		log.Error("failed to record order", logger.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// снимаем только оплаченное: позиции, добавленные во время обработки, остаются
	if _, err := s.carts.UpdateCart(ctx, userID, func(current *models.Cart) error {
		for id, qty := range cart.Items {
			current.Subtract(id, qty)
		}
		if current.CouponCode == cart.CouponCode {
			current.CouponCode = ""
		}
		return nil
	}); err != nil {
		// заказ уже записан
		log.Error("failed to clear cart", logger.Err(err))
	}
	if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
		log.Error("failed to publish order", logger.Err(err))
	}

	transition(StateSuccess)
	log.Info("order placed", slog.String("orderID", order.ID), slog.Int64("total", order.TotalAmount))
	return &CheckoutResult{State: state, Order: order, Quote: &quote, Message: "¡Pago exitoso!"}, nil
}
