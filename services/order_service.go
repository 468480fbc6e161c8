package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/bakery-app/cart"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/store"
	"github.com/yeremiapane/bakery-app/utils"
)

// OrderService stores orders and serves both the account area and the back-office.
type OrderService struct {
	orders store.Repository[models.Order]
	carts  *cart.Service
	now    func() time.Time
}

func NewOrderService(repos *Repositories, carts *cart.Service) *OrderService {
	return &OrderService{orders: repos.Orders, carts: carts, now: time.Now}
}

// Place persists the order and then empties the browser's cart. A failed
// write leaves the cart as it was so the shopper can retry.
func (s *OrderService) Place(ctx context.Context, browserID string, order models.Order) error {
	if err := s.orders.Put(ctx, order); err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{"order": order.ID}).Errorf("Failed to store order: %v", err)
		return fmt.Errorf("store order: %w", err)
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"order":    order.ID,
		"customer": order.CustomerEmail,
		"type":     order.DeliveryType,
		"total":    order.Total,
	}).Info("Order placed")

	if err := s.carts.Clear(ctx, browserID); err != nil {
		// The order exists; a stale cart is only an annoyance.
		utils.ErrorLogger.Printf("Order %s placed but cart of %s not cleared: %v", order.ID, browserID, err)
	}
	return nil
}

// List returns orders newest first, optionally filtered by status.
func (s *OrderService) List(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	all, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(all))
	for _, o := range all {
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *OrderService) ListForCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	all, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Order, 0)
	for _, o := range all {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// GetForCustomer hides other customers' orders behind not-found.
func (s *OrderService) GetForCustomer(ctx context.Context, customerID, id string) (models.Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if o.CustomerID != customerID {
		return models.Order{}, store.ErrNotFound
	}
	return o, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (models.Order, error) {
	return s.orders.Get(ctx, id)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, models.NewValidationError(fmt.Sprintf("unknown order status %q", status))
	}
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	o.Status = status
	o.UpdatedAt = s.now()
	if err := s.orders.Put(ctx, o); err != nil {
		return models.Order{}, err
	}
	utils.InfoLogger.Printf("Order %s moved to %s", o.ID, status)
	return o, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	utils.InfoLogger.Printf("Order %s deleted", id)
	return nil
}

// ProductCount is one row of the best-sellers table.
type ProductCount struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type Dashboard struct {
	TotalOrders     int                        `json:"total_orders"`
	OrdersByStatus  map[models.OrderStatus]int `json:"orders_by_status"`
	Revenue         float64                    `json:"revenue"`
	AverageOrder    float64                    `json:"average_order"`
	TodayOrders     int                        `json:"today_orders"`
	TodayDeliveries []models.Order             `json:"today_deliveries"`
	TopProducts     []ProductCount             `json:"top_products"`
}

// Dashboard aggregates the order book for the back-office home page.
func (s *OrderService) Dashboard(ctx context.Context) (Dashboard, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	now := s.now()
	today := now.Format(models.DateLayout)

	d := Dashboard{
		TotalOrders:     len(orders),
		OrdersByStatus:  map[models.OrderStatus]int{models.StatusPending: 0, models.StatusInProduction: 0, models.StatusDelivered: 0},
		TodayDeliveries: []models.Order{},
	}
	totals := make([]float64, 0, len(orders))
	counts := map[string]*ProductCount{}
	for _, o := range orders {
		d.OrdersByStatus[o.Status]++
		totals = append(totals, o.Total)
		if sameDay(o.CreatedAt, now) {
			d.TodayOrders++
		}
		if o.DeliveryDate == today {
			d.TodayDeliveries = append(d.TodayDeliveries, o)
		}
		for _, item := range o.Items {
			pc, ok := counts[item.Product.ID]
			if !ok {
				pc = &ProductCount{ProductID: item.Product.ID, Name: item.Product.Name}
				counts[item.Product.ID] = pc
			}
			pc.Quantity += item.Quantity
		}
	}
	d.Revenue = utils.SumMoney(totals...)
	if len(orders) > 0 {
		d.AverageOrder = utils.RoundMoney(d.Revenue / float64(len(orders)))
	}
	sort.Slice(d.TodayDeliveries, func(i, j int) bool {
		return d.TodayDeliveries[i].DeliveryTime < d.TodayDeliveries[j].DeliveryTime
	})

	for _, pc := range counts {
		d.TopProducts = append(d.TopProducts, *pc)
	}
	sort.Slice(d.TopProducts, func(i, j int) bool {
		if d.TopProducts[i].Quantity != d.TopProducts[j].Quantity {
			return d.TopProducts[i].Quantity > d.TopProducts[j].Quantity
		}
		return d.TopProducts[i].Name < d.TopProducts[j].Name
	})
	if len(d.TopProducts) > 5 {
		d.TopProducts = d.TopProducts[:5]
	}
	return d, nil
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func sortNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
}
