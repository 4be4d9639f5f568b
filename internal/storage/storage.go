package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samborkent/uuidv7"
	bolt "go.etcd.io/bbolt"

	"github.com/gogoref/gogoref/internal/booking"
	"github.com/gogoref/gogoref/internal/crypto"
	"github.com/gogoref/gogoref/internal/logger"
)

const bucketBookings = "bookings"

// ErrNotFound is returned for unknown ledger keys
var ErrNotFound = errors.New("booking not found")

// Ledger persists bookings
type Ledger struct {
	db  *bolt.DB
	enc *crypto.Encryptor
}

// Entry is one stored booking with its ledger key
type Entry struct {
	Key     string           `json:"key"`
	Booking *booking.Booking `json:"booking"`
}

type storedBooking struct {
	Encrypted bool            `json:"encrypted"`
	Booking   booking.Booking `json:"booking"`
}

// Open opens or creates the ledger at path. A nil enc stores contact details
// in the clear.
func Open(path string, enc *crypto.Encryptor) (*Ledger, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketBookings)); err != nil {
			return fmt.Errorf("creating bookings bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Ledger{db: db, enc: enc}, nil
}

// Close closes the database
func (l *Ledger) Close() error {
	return l.db.Close()
}

// SaveBooking stores a copy of b and returns its ledger key
func (l *Ledger) SaveBooking(ctx context.Context, b *booking.Booking) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rec := storedBooking{Booking: *b, Encrypted: l.enc.Enabled()}
	if err := l.enc.SealFields(&rec.Booking.ClientName, &rec.Booking.ClientPhone); err != nil {
		return "", fmt.Errorf("encrypting contact details: %w", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshaling booking: %w", err)
	}

	key := uuidv7.New().String()
	err = l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketBookings)).Put([]byte(key), data)
	})
	if err != nil {
		return "", fmt.Errorf("saving booking %s: %w", b.ID, err)
	}

	logger.Debug("Booking recorded", logger.Fields{
		"key":        key,
		"booking_id": b.ID,
		"encrypted":  rec.Encrypted,
	})
	return key, nil
}

// GetBooking loads the booking stored under key
func (l *Ledger) GetBooking(key string) (*booking.Booking, error) {
	var data []byte
	err := l.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketBookings)).Get([]byte(key)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	return l.decode(data)
}

// ListBookings returns up to limit bookings, most recently submitted first.
// A limit <= 0 returns all of them.
func (l *Ledger) ListBookings(limit int) ([]Entry, error) {
	var entries []Entry

	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketBookings)).ForEach(func(k, v []byte) error {
			b, err := l.decode(v)
			if err != nil {
				return fmt.Errorf("booking %s: %w", k, err)
			}
			entries = append(entries, Entry{Key: string(k), Booking: b})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// keys are time-ordered only to the millisecond
	sort.SliceStable(entries, func(i, j int) bool {
		ti, tj := entries[i].Booking.SubmittedAt, entries[j].Booking.SubmittedAt
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return entries[i].Key > entries[j].Key
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Count returns the number of stored bookings
func (l *Ledger) Count() (int, error) {
	var n int
	err := l.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bucketBookings)).Stats().KeyN
		return nil
	})
	return n, err
}

func (l *Ledger) decode(data []byte) (*booking.Booking, error) {
	var rec storedBooking
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing booking: %w", err)
	}

	if rec.Encrypted {
		if !l.enc.Enabled() {
			return nil, fmt.Errorf("booking %s is encrypted and no key is configured", rec.Booking.ID)
		}
		if err := l.enc.OpenFields(&rec.Booking.ClientName, &rec.Booking.ClientPhone); err != nil {
			return nil, fmt.Errorf("decrypting booking %s: %w", rec.Booking.ID, err)
		}
	}

	return &rec.Booking, nil
}
