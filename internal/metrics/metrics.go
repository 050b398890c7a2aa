package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gemlight_orders_placed_total",
		Help: "Orders successfully placed.",
	})
	CartAdds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gemlight_cart_adds_total",
		Help: "Cart add operations accepted.",
	})
	NewsletterSubscriptions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gemlight_newsletter_subscriptions_total",
		Help: "New newsletter subscriptions.",
	})
	LowStockProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gemlight_products_low_stock",
		Help: "Active products at or below the low-stock threshold.",
	})
)
