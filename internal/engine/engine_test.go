package engine

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitwyre-maker-go/order"
	"bitwyre-maker-go/sim"
	"bitwyre-maker-go/strategy"
)

// scriptedClient fails or acks according to the script.
type scriptedClient struct {
	placeErr   error
	placeAck   order.Order
	cancelErr  error
	cancelled  []string
	placeCalls int
}

func (c *scriptedClient) PlaceOrder(_ context.Context, intent order.Intent) (order.Order, error) {
	c.placeCalls++
	if c.placeErr != nil {
		return order.Order{}, c.placeErr
	}
	ack := c.placeAck
	ack.Side = intent.Side
	ack.Price = intent.Price
	ack.Quantity = intent.Quantity
	return ack, nil
}

func (c *scriptedClient) CancelOrder(_ context.Context, id string, _ decimal.Decimal) error {
	if c.cancelErr != nil {
		return c.cancelErr
	}
	c.cancelled = append(c.cancelled, id)
	return nil
}

func testComponents(client ExchangeClient, cancelBound int) (Components, *order.Book) {
	book := order.NewBook()
	quoter := strategy.NewQuoter(strategy.QuoterConfig{
		Instrument:     "btc_usdt_spot",
		MidPrice:       decimal.NewFromInt(30000),
		Quantity:       decimal.RequireFromString("0.02"),
		PricePrecision: 2,
		QtyPrecision:   2,
		MinSpread:      0,
		MaxSpread:      0.01,
	}, rand.New(rand.NewSource(1)))
	return Components{
		Book:   book,
		Quoter: quoter,
		Cancel: strategy.NewCancelPolicy(cancelBound, rand.New(rand.NewSource(2))),
		Client: client,
	}, book
}

func TestPlaceOnceFilesActiveAckAsOpen(t *testing.T) {
	client := &scriptedClient{placeAck: order.Order{ID: "o1", Status: order.StatusNew}}
	comps, book := testComponents(client, 0)
	e := New(0, comps)

	e.PlaceOnce(context.Background())
	require.Equal(t, 1, book.OpenCount())
	assert.Equal(t, int64(1), e.Stats().OrdersPlaced)

	placed := append(book.OpenBids(), book.OpenAsks()...)[0]
	assert.Equal(t, "o1", placed.ID)
}

func TestPlaceOnceFilesRejectedAckAsClosed(t *testing.T) {
	client := &scriptedClient{placeAck: order.Order{ID: "o1", Status: order.StatusRejected}}
	comps, book := testComponents(client, 0)
	e := New(0, comps)

	e.PlaceOnce(context.Background())
	assert.Equal(t, 0, book.OpenCount())
	assert.Equal(t, 1, len(book.ClosedBids())+len(book.ClosedAsks()))
}

func TestPlaceOnceFailureIsNotFatal(t *testing.T) {
	client := &scriptedClient{placeErr: errors.New("venue down")}
	comps, book := testComponents(client, 0)
	e := New(0, comps)

	e.PlaceOnce(context.Background())
	e.PlaceOnce(context.Background())
	assert.Equal(t, 0, book.OpenCount())
	assert.Equal(t, int64(2), e.Stats().PlaceFailures)
	assert.Equal(t, 2, client.placeCalls)
}

func TestCancelOnceFailureLeavesOrderOpen(t *testing.T) {
	client := &scriptedClient{cancelErr: errors.New("cancel refused")}
	comps, book := testComponents(client, 5)
	e := New(0, comps)

	resting := order.Order{ID: "b1", Side: order.Buy, Status: order.StatusNew,
		Price: decimal.NewFromInt(29900), Quantity: decimal.NewFromInt(1)}
	book.AddOpen(resting)

	e.CancelOnce(context.Background())

	require.Len(t, book.OpenBids(), 1)
	assert.Equal(t, resting, book.OpenBids()[0], "failed cancel must not touch the record")
	assert.Equal(t, int64(1), e.Stats().CancelFails)
	assert.Equal(t, int64(0), e.Stats().CancelsSent)
}

func TestCancelOnceZeroBoundIssuesNothing(t *testing.T) {
	client := &scriptedClient{}
	comps, book := testComponents(client, 0)
	e := New(0, comps)

	for i := 0; i < 4; i++ {
		book.AddOpen(order.Order{ID: string(rune('a' + i)), Side: order.Buy, Status: order.StatusNew})
	}
	e.CancelOnce(context.Background())
	assert.Empty(t, client.cancelled)
	assert.Equal(t, 4, book.OpenCount())
}

// Full place -> reconcile -> cancel pass against the in-memory venue.
func TestCycleAgainstSimVenue(t *testing.T) {
	venue := sim.NewVenue(rand.New(rand.NewSource(3)))
	comps, book := testComponents(venue, 10)
	comps.Reconciler = order.NewReconciler(venue, book, nil)
	e := New(0, comps)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		e.PlaceOnce(ctx)
	}
	require.Equal(t, 5, book.OpenCount())

	// Cancel everything, then reconcile: cancels mutate nothing locally,
	// the reconcile pass migrates every order open -> closed.
	e.CancelOnce(ctx)
	assert.Equal(t, 5, book.OpenCount(), "cancel phase must not touch the book")

	comps.Reconciler.ReconcileOnce(ctx)
	assert.Equal(t, 0, book.OpenCount())
	assert.Equal(t, 5, len(book.ClosedBids())+len(book.ClosedAsks()))
	assert.Equal(t, int64(5), comps.Reconciler.Stats().Migrated)
}
