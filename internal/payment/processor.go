// Package payment processes simulated payments for pending bookings.
// Every attempt that reaches a pending booking records exactly one
// Payment and moves the booking to CONFIRMED or EXPIRED.
package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/showtime-booking/internal/booking"
	"github.com/iliyamo/showtime-booking/internal/metrics"
	"github.com/iliyamo/showtime-booking/internal/model"
	"github.com/iliyamo/showtime-booking/internal/queue"
)

const receiptBaseURL = "https://amc.com/receipts/"

// Settler is implemented by *booking.Manager.
type Settler interface {
	Settle(ctx context.Context, id string, fn booking.SettleFunc) (model.Booking, error)
	GetBooking(ctx context.Context, id string) (model.Booking, error)
}

// Store persists payment records.
type Store interface {
	Create(ctx context.Context, p model.Payment) error
	GetByID(ctx context.Context, id string) (model.Payment, error)
	ListByBooking(ctx context.Context, bookingID string) ([]model.Payment, error)
}

// Catalog resolves the names shown on a confirmation.
type Catalog interface {
	FindShowtime(id string) (model.Showtime, error)
	FindMovie(id string) (model.Movie, error)
	FindTheater(id string) (model.Theater, error)
}

// EventPublisher delivers booking.confirmed events.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// Confirmation summarises a paid booking for the customer.
type Confirmation struct {
	Movie     string          `json:"movie"`
	Theater   string          `json:"theater"`
	Date      string          `json:"date"`
	Time      string          `json:"time"`
	Seats     []string        `json:"seats"`
	TotalPaid decimal.Decimal `json:"total_paid"`
}

// Receipt is the result of ProcessPayment.  Confirmation is only set for
// approved payments.
type Receipt struct {
	Payment      model.Payment `json:"payment"`
	Booking      model.Booking `json:"booking"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
}

type Processor struct {
	bookings  Settler
	store     Store
	decide    Decider
	catalog   Catalog
	publisher EventPublisher

	now     func() time.Time
	newID   func() string
	log     *zap.Logger
	metrics *metrics.Metrics
}

type Option func(*Processor)

func WithDecider(d Decider) Option {
	return func(p *Processor) {
		if d != nil {
			p.decide = d
		}
	}
}

// WithCatalog enables confirmation details and event enrichment.
func WithCatalog(c Catalog) Option {
	return func(p *Processor) { p.catalog = c }
}

func WithPublisher(pub EventPublisher) Option {
	return func(p *Processor) { p.publisher = pub }
}

func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

// NewProcessor builds a processor that approves every payment unless
// another Decider is supplied.
func NewProcessor(bookings Settler, store Store, opts ...Option) *Processor {
	p := &Processor{
		bookings: bookings,
		store:    store,
		decide:   AlwaysSucceed(),
		now:      time.Now,
		newID:    uuid.NewString,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessPayment charges amount against a PENDING booking.  The amount
// must equal the booking total exactly.  A mismatch or a non pending
// booking records no payment and leaves the booking as it was.  A declined
// payment is not an error: the failed Payment is returned and the booking
// is EXPIRED with its seats released.
func (p *Processor) ProcessPayment(ctx context.Context, bookingID, method string, amount decimal.Decimal) (Receipt, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		return Receipt{}, model.Invalid("payment_method", "payment_method is required")
	}

	var recorded model.Payment
	settled, err := p.bookings.Settle(ctx, bookingID, func(ctx context.Context, b model.Booking) (booking.Settlement, error) {
		if !amount.Equal(b.TotalPrice) {
			return booking.Settlement{}, model.AmountMismatch(b.ID, b.TotalPrice, amount)
		}
		approved := p.decide(ctx, b, method)
		pay := model.Payment{
			ID:        p.newID(),
			BookingID: b.ID,
			Amount:    amount,
			Method:    method,
			Status:    model.PaymentFailed,
			CreatedAt: p.now().UTC(),
		}
		if approved {
			pay.Status = model.PaymentSuccess
			pay.ReceiptURL = receiptBaseURL + pay.ID
		}
		if err := p.store.Create(ctx, pay); err != nil {
			return booking.Settlement{}, fmt.Errorf("record payment: %w", err)
		}
		recorded = pay
		return booking.Settlement{Approved: approved, PaymentID: pay.ID}, nil
	})
	if err != nil {
		if recorded.ID != "" {
			p.log.Error("payment recorded but booking transition failed",
				zap.String("payment_id", recorded.ID), zap.String("booking_id", bookingID), zap.Error(err))
		}
		return Receipt{}, err
	}

	p.metrics.PaymentRecorded(string(recorded.Status))
	p.log.Info("payment processed",
		zap.String("payment_id", recorded.ID),
		zap.String("booking_id", bookingID),
		zap.String("status", string(recorded.Status)),
	)

	receipt := Receipt{Payment: recorded, Booking: settled}
	if recorded.Status != model.PaymentSuccess {
		return receipt, nil
	}
	receipt.Confirmation = p.confirmation(settled, amount)
	p.publish(ctx, settled, recorded, receipt.Confirmation)
	return receipt, nil
}

// GetPayment looks up a recorded payment.
func (p *Processor) GetPayment(ctx context.Context, id string) (model.Payment, error) {
	return p.store.GetByID(ctx, id)
}

// ListPayments returns every attempt recorded for a booking, oldest
// first.  An unknown booking is NotFound.
func (p *Processor) ListPayments(ctx context.Context, bookingID string) ([]model.Payment, error) {
	if _, err := p.bookings.GetBooking(ctx, bookingID); err != nil {
		return nil, err
	}
	return p.store.ListByBooking(ctx, bookingID)
}

func (p *Processor) confirmation(b model.Booking, paid decimal.Decimal) *Confirmation {
	c := &Confirmation{Movie: "Unknown", Theater: "Unknown Theater", Seats: b.Seats, TotalPaid: paid}
	if p.catalog == nil {
		return c
	}
	st, err := p.catalog.FindShowtime(b.ShowtimeID)
	if err != nil {
		return c
	}
	c.Date, c.Time = st.Date, st.Time
	if m, err := p.catalog.FindMovie(st.MovieID); err == nil {
		c.Movie = m.Title
	}
	if th, err := p.catalog.FindTheater(st.TheaterID); err == nil {
		c.Theater = th.Name
	}
	return c
}

// publish is best effort; the booking is already confirmed.
func (p *Processor) publish(ctx context.Context, b model.Booking, pay model.Payment, c *Confirmation) {
	if p.publisher == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:   b.ID,
		UserID:      b.UserID,
		ShowtimeID:  b.ShowtimeID,
		MovieTitle:  c.Movie,
		TheaterName: c.Theater,
		Date:        c.Date,
		Time:        c.Time,
		Seats:       b.Seats,
		Total:       b.TotalPrice,
		PaymentID:   pay.ID,
		ConfirmedAt: b.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if err := p.publisher.PublishBookingConfirmed(context.WithoutCancel(ctx), ev); err != nil {
		p.log.Warn("publish booking.confirmed failed", zap.String("booking_id", b.ID), zap.Error(err))
	}
}
