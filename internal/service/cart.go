package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/levelup-shop/internal/domain/models"
	"github.com/linemk/levelup-shop/internal/lib/logger"
	"github.com/linemk/levelup-shop/internal/pricing"
	"github.com/linemk/levelup-shop/internal/storage"
)

const (
	CouponAppliedMessage = "¡Cupón aplicado!"
	CouponInvalidMessage = "Código inválido"
)

type CartService interface {
	GetCart(ctx context.Context, userID string) (*CartView, error)
	AddItem(ctx context.Context, userID string, productID, quantity int) (*CartView, error)
	DecreaseItem(ctx context.Context, userID string, productID int) (*CartView, error)
	RemoveItem(ctx context.Context, userID string, productID int) (*CartView, error)
	ApplyCoupon(ctx context.Context, userID, code string) (*CouponResult, error)
	RemoveCoupon(ctx context.Context, userID string) (*CartView, error)
	Clear(ctx context.Context, userID string) error
}

// CartLine: позиция корзины с данными каталога
type CartLine struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	LineTotal int64   `json:"lineTotal"`
	ImageURL  string  `json:"imageUrl,omitempty"`
}

type CartView struct {
	Items     []CartLine    `json:"items"`
	ItemCount int           `json:"itemCount"`
	Quote     pricing.Quote `json:"quote"`
}

type CouponResult struct {
	Applied bool      `json:"applied"`
	Message string    `json:"message"`
	Cart    *CartView `json:"cart"`
}

type cartService struct {
	log     *slog.Logger
	carts   storage.CartStorage
	users   storage.UserStorage
	catalog Catalog
	coupons *pricing.CouponManager
}

func NewCartService(log *slog.Logger, carts storage.CartStorage, users storage.UserStorage, catalog Catalog, coupons *pricing.CouponManager) CartService {
	return &cartService{
		log:     log,
		carts:   carts,
		users:   users,
		catalog: catalog,
		coupons: coupons,
	}
}

// BuildLines сопоставляет корзину с каталогом.
// Товар, пропавший из каталога, остаётся в корзине с нулевой ценой.
func BuildLines(cart *models.Cart, products map[int]*models.Product) []pricing.Line {
	lines := make([]pricing.Line, 0, len(cart.Items))
	for _, id := range cart.ProductIDs() {
		line := pricing.Line{ProductID: id, Quantity: cart.Items[id]}
		if p, ok := products[id]; ok {
			line.Name = p.Name
			line.UnitPrice = p.Price
		}
		lines = append(lines, line)
	}
	return lines
}

// quoteLines считает итог; сумма вне int64 считается невалидным вводом
func quoteLines(coupons *pricing.CouponManager, lines []pricing.Line, email, couponCode string) (pricing.Quote, error) {
	quote, err := coupons.Quote(lines, email, couponCode)
	if errors.Is(err, pricing.ErrAmountOverflow) {
		return pricing.Quote{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return quote, err
}

func (s *cartService) view(ctx context.Context, userID string, cart *models.Cart) (*CartView, error) {
	const op = "service.CartService.view"

	products, err := s.catalog.ProductsByID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load catalog: %w", op, err)
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	lines := BuildLines(cart, products)
	quote, err := quoteLines(s.coupons, lines, user.Email, cart.CouponCode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	view := &CartView{
		Items:     make([]CartLine, 0, len(lines)),
		ItemCount: cart.Count(),
		Quote:     quote,
	}
	for _, l := range lines {
		item := CartLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: l.Total(),
		}
		if p, ok := products[l.ProductID]; ok {
			item.ImageURL = p.ImageURL
		}
		view.Items = append(view.Items, item)
	}
	return view, nil
}

func (s *cartService) GetCart(ctx context.Context, userID string) (*CartView, error) {
	const op = "service.CartService.GetCart"

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.view(ctx, userID, cart)
}

// update применяет mutate к корзине пользователя и возвращает её представление
func (s *cartService) update(ctx context.Context, op, userID string, mutate func(cart *models.Cart) error) (*CartView, error) {
	log := s.log.With(slog.String("op", op), slog.String("userID", userID))

	cart, err := s.carts.UpdateCart(ctx, userID, mutate)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			log.Warn("cart change rejected", logger.Err(err))
		} else {
			log.Error("failed to update cart", logger.Err(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.view(ctx, userID, cart)
}

func (s *cartService) AddItem(ctx context.Context, userID string, productID, quantity int) (*CartView, error) {
	const op = "service.CartService.AddItem"

	if quantity <= 0 || quantity > models.MaxItemQuantity {
		return nil, fmt.Errorf("%s: quantity must be between 1 and %d: %w", op, models.MaxItemQuantity, ErrInvalidInput)
	}
	if _, err := s.catalog.Product(ctx, productID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	products, err := s.catalog.ProductsByID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load catalog: %w", op, err)
	}

	return s.update(ctx, op, userID, func(cart *models.Cart) error {
		if !cart.Add(productID, quantity) {
			return fmt.Errorf("item quantity would exceed %d: %w", models.MaxItemQuantity, ErrInvalidInput)
		}
		// корзину, сумма которой не помещается в int64, не сохраняем
		if _, err := pricing.Subtotal(BuildLines(cart, products)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return nil
	})
}

func (s *cartService) DecreaseItem(ctx context.Context, userID string, productID int) (*CartView, error) {
	return s.update(ctx, "service.CartService.DecreaseItem", userID, func(cart *models.Cart) error {
		cart.Decrease(productID)
		return nil
	})
}

func (s *cartService) RemoveItem(ctx context.Context, userID string, productID int) (*CartView, error) {
	return s.update(ctx, "service.CartService.RemoveItem", userID, func(cart *models.Cart) error {
		cart.Remove(productID)
		return nil
	})
}

// ApplyCoupon применяет ручной купон. Невалидный код не ошибка:
// возвращается Applied=false с сообщением, ранее применённый купон сбрасывается.
func (s *cartService) ApplyCoupon(ctx context.Context, userID, code string) (*CouponResult, error) {
	const op = "service.CartService.ApplyCoupon"

	var applied bool
	view, err := s.update(ctx, op, userID, func(cart *models.Cart) error {
		if s.coupons.ManualCoupon(code) > 0 {
			coupon, _ := s.coupons.ParseCoupon(code)
			cart.CouponCode = coupon.Code
			applied = true
			return nil
		}
		cart.CouponCode = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &CouponResult{Applied: applied, Message: CouponInvalidMessage, Cart: view}
	if applied {
		result.Message = CouponAppliedMessage
	}
	return result, nil
}

func (s *cartService) RemoveCoupon(ctx context.Context, userID string) (*CartView, error) {
	return s.update(ctx, "service.CartService.RemoveCoupon", userID, func(cart *models.Cart) error {
		cart.CouponCode = ""
		return nil
	})
}

func (s *cartService) Clear(ctx context.Context, userID string) error {
	const op = "service.CartService.Clear"

	if err := s.carts.ClearCart(ctx, userID); err != nil {
		s.log.Error("failed to clear cart", slog.String("op", op), logger.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
