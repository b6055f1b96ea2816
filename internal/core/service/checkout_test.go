package service_test

import (
	"context"
	"testing"

	"github.com/equinox-market/shopbot/internal/core/domain"
	"github.com/equinox-market/shopbot/internal/core/port/mock"
	"github.com/equinox-market/shopbot/internal/core/service"
	"github.com/golang/mock/gomock"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testAdminChatID = int64(1000)
	testChatID      = int64(555)
	testCurrency    = "UAH"
)

func widget() *domain.Product {
	return &domain.Product{
		ID:    1,
		Name:  "Widget",
		Price: decimal.MustParse("50"),
		Options: []domain.Option{
			{ID: "a", Name: "Red"},
		},
	}
}

type checkoutMocks struct {
	repo     *mock.MockRepository
	catalog  *mock.MockCatalogLookup
	notifier *mock.MockNotifier
	payments *mock.MockPaymentLinker
}

func newCheckoutService(t *testing.T, prepare func(m *checkoutMocks)) *service.Service {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := checkoutMocks{
		repo:     mock.NewMockRepository(ctrl),
		catalog:  mock.NewMockCatalogLookup(ctrl),
		notifier: mock.NewMockNotifier(ctrl),
		payments: mock.NewMockPaymentLinker(ctrl),
	}
	prepare(&m)

	logger, _ := zap.NewProduction()
	s, err := service.NewService(m.repo, m.catalog, m.notifier, m.payments,
		testAdminChatID, testCurrency, logger)
	require.NoError(t, err)
	return s
}

// expectCreate wires CreateOrder to assign an id and hand the order back,
// and captures it for assertions.
func expectCreate(repo *mock.MockRepository, captured **domain.Order) {
	repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, order *domain.Order) (*domain.Order, error) {
			order.ID = 7
			order.Status = domain.OrderStatusNew
			order.PaymentStatus = domain.PaymentStatusPending
			*captured = order
			return order, nil
		})
}

func TestProcessCheckout_Buy(t *testing.T) {
	var created *domain.Order
	s := newCheckoutService(t, func(m *checkoutMocks) {
		m.catalog.EXPECT().Product(int64(1)).Return(widget())
		m.catalog.EXPECT().FindOption(gomock.Any(), "a").Return(&domain.Option{ID: "a", Name: "Red"})
		expectCreate(m.repo, &created)
		m.payments.EXPECT().CheckoutLink(int64(7), gomock.Any(), gomock.Any()).Return("", false)
		m.notifier.EXPECT().Send(testAdminChatID, gomock.Any(), gomock.Any())
		m.notifier.EXPECT().Send(testChatID, gomock.Any(), gomock.Any())
	})

	order, err := s.ProcessCheckout(context.Background(), &domain.Checkout{
		ChatID:   testChatID,
		UserName: "Test User",
		Payload: domain.CheckoutPayload{
			Action:    domain.CheckoutActionBuy,
			ProductID: float64(1),
			OptionID:  "a",
		},
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "Widget (Red)", order.Items[0].Name)
	assert.Equal(t, 1, order.Items[0].Qty)
	assert.Equal(t, 0, order.Items[0].Price.Cmp(decimal.MustParse("50")))
	assert.Equal(t, 0, order.TotalPrice.Cmp(decimal.MustParse("50")))
	assert.Equal(t, testChatID, created.UserID)
}

func TestProcessCheckout_BuyUnknownProduct(t *testing.T) {
	s := newCheckoutService(t, func(m *checkoutMocks) {
		m.catalog.EXPECT().Product(int64(999)).Return(nil)
	})

	order, err := s.ProcessCheckout(context.Background(), &domain.Checkout{
		ChatID: testChatID,
		Payload: domain.CheckoutPayload{
			Action:    domain.CheckoutActionBuy,
			ProductID: float64(999),
		},
	})
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProcessCheckout_CartDropsUnknown(t *testing.T) {
	var created *domain.Order
	s := newCheckoutService(t, func(m *checkoutMocks) {
		m.catalog.EXPECT().Product(int64(1)).Return(widget())
		m.catalog.EXPECT().Product(int64(999)).Return(nil)
		expectCreate(m.repo, &created)
		m.payments.EXPECT().CheckoutLink(int64(7), gomock.Any(), gomock.Any()).Return("", false)
		m.notifier.EXPECT().Send(testAdminChatID, gomock.Any(), gomock.Any())
		m.notifier.EXPECT().Send(testChatID, gomock.Any(), gomock.Any())
	})

	order, err := s.ProcessCheckout(context.Background(), &domain.Checkout{
		ChatID: testChatID,
		Payload: domain.CheckoutPayload{
			Action: domain.CheckoutActionCart,
			Items: []domain.CheckoutItem{
				{ProductID: float64(1), Qty: float64(2)},
				{ProductID: float64(999), Qty: float64(1)},
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "Widget", order.Items[0].Name)
	assert.Equal(t, 2, order.Items[0].Qty)
	assert.Equal(t, 0, order.TotalPrice.Cmp(decimal.MustParse("100")))
}

func TestProcessCheckout_CartNothingResolves(t *testing.T) {
	s := newCheckoutService(t, func(m *checkoutMocks) {
		m.catalog.EXPECT().Product(int64(998)).Return(nil)
		m.catalog.EXPECT().Product(int64(999)).Return(nil)
	})

	order, err := s.ProcessCheckout(context.Background(), &domain.Checkout{
		ChatID: testChatID,
		Payload: domain.CheckoutPayload{
			Action: domain.CheckoutActionCart,
			Items: []domain.CheckoutItem{
				{ProductID: float64(998)},
				{ProductID: float64(999)},
			},
		},
	})
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestProcessCheckout_CartPromoOverride(t *testing.T) {
	override := 80.0

	var created *domain.Order
	s := newCheckoutService(t, func(m *checkoutMocks) {
		m.catalog.EXPECT().Product(int64(1)).Return(widget())
		expectCreate(m.repo, &created)
		m.payments.EXPECT().CheckoutLink(int64(7), gomock.Any(), gomock.Any()).Return("https://pay.example/x", true)
		m.notifier.EXPECT().Send(testAdminChatID, gomock.Any(), gomock.Any())
		m.notifier.EXPECT().Send(testChatID, gomock.Any(), gomock.Any())
	})

	order, err := s.ProcessCheckout(context.Background(), &domain.Checkout{
		ChatID: testChatID,
		Payload: domain.CheckoutPayload{
			Action:     domain.CheckoutActionCart,
			Items:      []domain.CheckoutItem{{ProductID: float64(1), Qty: float64(2)}},
			Promo:      "SALE20",
			TotalPrice: &override,
		},
	})
	require.NoError(t, err)

	// override wins over the computed 100
	assert.Equal(t, 0, order.TotalPrice.Cmp(decimal.MustParse("80")))
}

func TestProcessCheckout_QtyCoercion(t *testing.T) {
	tests := []struct {
		name     string
		qty      any
		expItems int
		expQty   int
	}{
		{name: "absent defaults to 1", qty: nil, expItems: 1, expQty: 1},
		{name: "non-numeric defaults to 1", qty: "three", expItems: 1, expQty: 1},
		{name: "numeric string parsed", qty: "2", expItems: 1, expQty: 2},
		{name: "zero dropped", qty: float64(0), expItems: 0},
		{name: "negative dropped", qty: float64(-1), expItems: 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var created *domain.Order
			s := newCheckoutService(t, func(m *checkoutMocks) {
				m.catalog.EXPECT().Product(int64(1)).Return(widget())
				if test.expItems > 0 {
					expectCreate(m.repo, &created)
					m.payments.EXPECT().CheckoutLink(int64(7), gomock.Any(), gomock.Any()).Return("", false)
					m.notifier.EXPECT().Send(testAdminChatID, gomock.Any(), gomock.Any())
					m.notifier.EXPECT().Send(testChatID, gomock.Any(), gomock.Any())
				}
			})

			order, err := s.ProcessCheckout(context.Background(), &domain.Checkout{
				ChatID: testChatID,
				Payload: domain.CheckoutPayload{
					Action: domain.CheckoutActionCart,
					Items:  []domain.CheckoutItem{{ProductID: float64(1), Qty: test.qty}},
				},
			})

			if test.expItems == 0 {
				assert.ErrorIs(t, err, domain.ErrEmptyCart)
				return
			}
			require.NoError(t, err)
			require.Len(t, order.Items, test.expItems)
			assert.Equal(t, test.expQty, order.Items[0].Qty)
		})
	}
}

func TestProcessCheckout_UnresolvedOptionIgnored(t *testing.T) {
	var created *domain.Order
	s := newCheckoutService(t, func(m *checkoutMocks) {
		m.catalog.EXPECT().Product(int64(1)).Return(widget())
		m.catalog.EXPECT().FindOption(gomock.Any(), "zzz").Return(nil)
		expectCreate(m.repo, &created)
		m.payments.EXPECT().CheckoutLink(int64(7), gomock.Any(), gomock.Any()).Return("", false)
		m.notifier.EXPECT().Send(testAdminChatID, gomock.Any(), gomock.Any())
		m.notifier.EXPECT().Send(testChatID, gomock.Any(), gomock.Any())
	})

	order, err := s.ProcessCheckout(context.Background(), &domain.Checkout{
		ChatID: testChatID,
		Payload: domain.CheckoutPayload{
			Action:    domain.CheckoutActionBuy,
			ProductID: float64(1),
			OptionID:  "zzz",
		},
	})
	require.NoError(t, err)

	// no suffix when the option id does not resolve
	assert.Equal(t, "Widget", order.Items[0].Name)
}

func TestProcessCheckout_UnknownAction(t *testing.T) {
	s := newCheckoutService(t, func(m *checkoutMocks) {})

	order, err := s.ProcessCheckout(context.Background(), &domain.Checkout{
		ChatID:  testChatID,
		Payload: domain.CheckoutPayload{Action: "subscribe"},
	})
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}
