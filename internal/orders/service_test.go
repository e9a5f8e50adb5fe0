package orders_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"agrilink/internal/models"
	"agrilink/internal/orders"
	"agrilink/internal/orders/mocks"
)

func newService(t *testing.T) (*orders.Service, *mocks.MockStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	random := bytes.NewReader(bytes.Repeat([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9}, 100))
	return orders.NewService(store, orders.NewNumberGenerator(random), nil), store
}

func draft() orders.Draft {
	return orders.Draft{
		OwnerID: "guest:abc",
		Lines: []models.CartLine{{
			ID:        "line-1",
			ProductID: primitive.NewObjectID(),
			Name:      "Premium Corn Seeds (5kg)",
			UnitPrice: 57500,
			Quantity:  2,
			Variants:  map[string]string{"size": "5kg"},
			Subtotal:  115000,
		}},
		Summary: models.CartSummary{ItemCount: 2, Subtotal: 115000, Tax: 20700, Total: 135700},
		ShippingAddress: models.ShippingAddress{
			FirstName: "Asha", LastName: "Mwinyi", Address: "Plot 12", City: "Dar es Salaam",
			Region: "Dar es Salaam", Phone: "0712345678",
		},
		PaymentMethod:  models.PaymentMethod{ID: "cod", Type: models.PaymentCashOnDelivery, Provider: "Cash on Delivery"},
		ShippingMethod: models.ShippingMethod{ID: "standard", Price: 5000, EstimatedDays: "3-5 days", MaxDays: 5},
	}
}

func TestCreateSnapshotsDraft(t *testing.T) {
	svc, store := newService(t)
	id := primitive.NewObjectID()
	d := draft()

	store.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, o *models.Order) error {
			o.ID = id
			return nil
		})

	order, err := svc.Create(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, id, order.ID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, int64(135700), order.Total)
	assert.Equal(t, int64(20700), order.Tax)
	assert.Equal(t, "Asha Mwinyi", order.CustomerName)
	assert.Equal(t, "0712345678", order.CustomerPhone)
	assert.Equal(t, models.PriorityNormal, order.Priority)
	assert.Equal(t, "guest:abc", order.OwnerID)

	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, models.StatusPending, order.StatusHistory[0].Status)
	assert.Equal(t, "Order placed successfully", order.StatusHistory[0].Note)

	require.NotNil(t, order.EstimatedDelivery)
	assert.Equal(t, order.CreatedAt.AddDate(0, 0, 5), *order.EstimatedDelivery)

	assert.Len(t, order.OrderNumber, 11)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "AG"))
	assert.True(t, strings.HasPrefix(order.TrackingNumber, "TRK"))

	d.Lines[0].Quantity = 99
	d.Lines[0].Variants["size"] = "10kg"
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "5kg", order.Items[0].Variants["size"])
}

func TestCreateEmptyOrderIsRejected(t *testing.T) {
	svc, _ := newService(t)
	d := draft()
	d.Lines = nil

	_, err := svc.Create(context.Background(), d)
	assert.ErrorIs(t, err, orders.ErrEmptyOrder)
}

func TestCreatePropagatesGatewayFailure(t *testing.T) {
	svc, store := newService(t)
	boom := errors.New("connection reset")
	store.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(boom)

	_, err := svc.Create(context.Background(), draft())
	assert.ErrorIs(t, err, boom)
}

func TestTransitionFollowsStateTable(t *testing.T) {
	svc, store := newService(t)
	id := primitive.NewObjectID()

	store.EXPECT().GetOrder(gomock.Any(), id).Return(models.Order{ID: id, Status: models.StatusPending}, nil)
	_, err := svc.Transition(context.Background(), id, models.StatusShipped, "")
	require.ErrorIs(t, err, orders.ErrIllegalTransition)
	var illegal *orders.IllegalTransitionError
	require.True(t, errors.As(err, &illegal))
	assert.Equal(t, models.StatusPending, illegal.From)
	assert.Equal(t, models.StatusShipped, illegal.To)

	store.EXPECT().GetOrder(gomock.Any(), id).Return(models.Order{ID: id, Status: models.StatusProcessing}, nil)
	store.EXPECT().UpdateOrderStatus(gomock.Any(), id, models.StatusProcessing, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ primitive.ObjectID, _ models.OrderStatus, change models.StatusChange) (models.Order, error) {
			assert.Equal(t, models.StatusShipped, change.Status)
			assert.Equal(t, "Order status updated to shipped", change.Note)
			return models.Order{ID: id, Status: change.Status, StatusHistory: []models.StatusChange{change}}, nil
		})
	order, err := svc.Transition(context.Background(), id, models.StatusShipped, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, order.Status)
}

func TestCancelFromShippedFails(t *testing.T) {
	svc, store := newService(t)
	id := primitive.NewObjectID()
	store.EXPECT().GetOrder(gomock.Any(), id).Return(models.Order{ID: id, Status: models.StatusShipped}, nil)

	_, err := svc.Cancel(context.Background(), id)
	assert.ErrorIs(t, err, orders.ErrIllegalTransition)
}

func TestCancelUsesCustomerNote(t *testing.T) {
	svc, store := newService(t)
	id := primitive.NewObjectID()
	store.EXPECT().GetOrder(gomock.Any(), id).Return(models.Order{ID: id, Status: models.StatusConfirmed}, nil)
	store.EXPECT().UpdateOrderStatus(gomock.Any(), id, models.StatusConfirmed, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ primitive.ObjectID, _ models.OrderStatus, change models.StatusChange) (models.Order, error) {
			assert.Equal(t, "Order cancelled by customer", change.Note)
			return models.Order{ID: id, Status: change.Status}, nil
		})

	order, err := svc.Cancel(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, order.Status)
}

func TestCancelForOwnerHidesForeignOrders(t *testing.T) {
	svc, store := newService(t)
	id := primitive.NewObjectID()
	store.EXPECT().GetOrder(gomock.Any(), id).Return(models.Order{ID: id, OwnerID: "user:1", Status: models.StatusPending}, nil)

	_, err := svc.CancelForOwner(context.Background(), "user:2", id)
	assert.ErrorIs(t, err, orders.ErrOrderNotFound)
}

func TestTransitionUnknownOrder(t *testing.T) {
	svc, store := newService(t)
	id := primitive.NewObjectID()
	store.EXPECT().GetOrder(gomock.Any(), id).Return(models.Order{}, orders.ErrOrderNotFound)

	_, err := svc.Transition(context.Background(), id, models.StatusConfirmed, "")
	assert.ErrorIs(t, err, orders.ErrOrderNotFound)
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Transition(context.Background(), primitive.NewObjectID(), "lost", "")
	assert.ErrorIs(t, err, orders.ErrUnknownStatus)
}

func TestTransitionSurfacesConcurrentChange(t *testing.T) {
	svc, store := newService(t)
	id := primitive.NewObjectID()
	store.EXPECT().GetOrder(gomock.Any(), id).Return(models.Order{ID: id, Status: models.StatusPending}, nil)
	store.EXPECT().UpdateOrderStatus(gomock.Any(), id, models.StatusPending, gomock.Any()).Return(models.Order{}, orders.ErrStatusChanged)

	_, err := svc.Transition(context.Background(), id, models.StatusConfirmed, "")
	assert.ErrorIs(t, err, orders.ErrStatusChanged)
}

func TestUpdateDetailsWithoutChangesReadsOrder(t *testing.T) {
	svc, store := newService(t)
	id := primitive.NewObjectID()
	store.EXPECT().GetOrder(gomock.Any(), id).Return(models.Order{ID: id}, nil)

	order, err := svc.UpdateDetails(context.Background(), id, orders.Details{})
	require.NoError(t, err)
	assert.Equal(t, id, order.ID)
}

func TestUpdateDetailsPassesFields(t *testing.T) {
	svc, store := newService(t)
	id := primitive.NewObjectID()
	tracking := "TRK1"
	store.EXPECT().UpdateOrderDetails(gomock.Any(), id, orders.Details{TrackingNumber: &tracking}, gomock.Any()).
		Return(models.Order{ID: id, TrackingNumber: tracking}, nil)

	order, err := svc.UpdateDetails(context.Background(), id, orders.Details{TrackingNumber: &tracking})
	require.NoError(t, err)
	assert.Equal(t, "TRK1", order.TrackingNumber)
}

func TestRecentSortsNewestFirstWithDefaultLimit(t *testing.T) {
	svc, store := newService(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var list []models.Order
	for i := 0; i < 12; i++ {
		list = append(list, models.Order{OrderNumber: string(rune('a' + i)), CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	store.EXPECT().ListOrders(gomock.Any(), orders.Filter{Limit: orders.DefaultRecentLimit}).Return(list, nil)

	recent, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, recent, 10)
	assert.Equal(t, "l", recent[0].OrderNumber)
	for i := 1; i < len(recent); i++ {
		assert.False(t, recent[i].CreatedAt.After(recent[i-1].CreatedAt))
	}
}

func TestByStatusRejectsUnknownStatus(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.ByStatus(context.Background(), "returned")
	assert.ErrorIs(t, err, orders.ErrUnknownStatus)
}

func TestDeleteIgnoresStatus(t *testing.T) {
	svc, store := newService(t)
	id := primitive.NewObjectID()
	store.EXPECT().DeleteOrder(gomock.Any(), id).Return(nil)
	require.NoError(t, svc.Delete(context.Background(), id))

	store.EXPECT().DeleteOrder(gomock.Any(), id).Return(orders.ErrOrderNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), id), orders.ErrOrderNotFound)
}
