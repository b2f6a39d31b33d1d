package boltoutbox

import (
	"context"
	"errors"
	"time"

	bolt "github.com/boltdb/bolt"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
	"github.com/AntonStoeckl/library-lending-engine/notify"
)

const bucketName = "notifications"

const openTimeout = time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotificationNotFound is returned by MarkDelivered for an unknown id.
var ErrNotificationNotFound = errors.New("notification not found")

// Notification is one triggered notification. Fields that do not apply to its Kind are zero.
type Notification struct {
	ID            string
	Kind          notify.Kind
	BookID        core.ISBNString
	PatronID      core.PatronIDString   `json:",omitempty"`
	CheckoutID    core.CheckoutIDString `json:",omitempty"`
	QueuePosition int                   `json:",omitempty"`
	DueDate       time.Time
	TotalFee      decimal.Decimal
	CreatedAt     time.Time
	DeliveredAt   time.Time
}

// IsDelivered reports whether MarkDelivered was called for this notification.
func (n Notification) IsDelivered() bool {
	return !n.DeliveredAt.IsZero()
}

// Outbox is a notify.Trigger that persists every notification.
type Outbox struct {
	db    *bolt.DB
	clock func() time.Time
}

// Option configures an Outbox.
type Option func(*Outbox)

// WithClock sets the source of CreatedAt and DeliveredAt.
func WithClock(clock func() time.Time) Option {
	return func(o *Outbox) {
		o.clock = clock
	}
}

// Open opens (or creates) the Bolt file at path and makes sure the bucket exists.
func Open(path string, options ...Option) (*Outbox, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists([]byte(bucketName))
		return createErr
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	outbox := &Outbox{db: db, clock: time.Now}
	for _, option := range options {
		option(outbox)
	}

	return outbox, nil
}

// Close releases the file lock.
func (o *Outbox) Close() error {
	return o.db.Close()
}

// Pending returns the undelivered notifications, oldest first.
func (o *Outbox) Pending() ([]Notification, error) {
	pending := make([]Notification, 0)

	err := o.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).ForEach(func(_, v []byte) error {
			var n Notification
			if err := json.Unmarshal(v, &n); err != nil {
				return err
			}

			if !n.IsDelivered() {
				pending = append(pending, n)
			}

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return pending, nil
}

// MarkDelivered stamps the notification as delivered. Marking it again keeps the first stamp.
func (o *Outbox) MarkDelivered(id string) error {
	return o.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		stored := b.Get([]byte(id))
		if stored == nil {
			return ErrNotificationNotFound
		}

		var n Notification
		if err := json.Unmarshal(stored, &n); err != nil {
			return err
		}

		if n.IsDelivered() {
			return nil
		}

		n.DeliveredAt = o.now()

		data, err := json.Marshal(n)
		if err != nil {
			return err
		}

		return b.Put([]byte(id), data)
	})
}

func (o *Outbox) OnReservationCreated(_ context.Context, entry core.ReservationEntry) error {
	return o.put(Notification{
		Kind:          notify.KindReservationCreated,
		BookID:        entry.BookID,
		PatronID:      entry.PatronID,
		QueuePosition: entry.QueuePosition,
	})
}

func (o *Outbox) OnCheckoutCreated(_ context.Context, record core.CheckoutRecord) error {
	return o.put(fromRecord(notify.KindCheckoutCreated, record))
}

func (o *Outbox) OnReturnCreated(_ context.Context, record core.CheckoutRecord) error {
	return o.put(fromRecord(notify.KindReturnCreated, record))
}

func (o *Outbox) OnQueueAdvanced(_ context.Context, bookID core.ISBNString) error {
	return o.put(Notification{Kind: notify.KindQueueAdvanced, BookID: bookID})
}

func (o *Outbox) OnOverdueDetected(_ context.Context, record core.CheckoutRecord) error {
	return o.put(fromRecord(notify.KindOverdueDetected, record))
}

func (o *Outbox) put(n Notification) error {
	n.ID = shell.NewMessageID().String()
	n.CreatedAt = o.now()

	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	return o.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(n.ID), data)
	})
}

func (o *Outbox) now() time.Time {
	return o.clock().UTC()
}

func fromRecord(kind notify.Kind, record core.CheckoutRecord) Notification {
	return Notification{
		Kind:       kind,
		BookID:     record.BookID,
		PatronID:   record.PatronID,
		CheckoutID: record.CheckoutID,
		DueDate:    record.DueDate,
		TotalFee:   record.TotalFee,
	}
}

var _ notify.Trigger = (*Outbox)(nil)
