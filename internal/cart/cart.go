// Package cart holds the end-customer ordering cart: a purely local,
// durably persisted list of line items. It never talks to the network.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/HustleV0/VirtinSaz-sub001/internal/config/store"
)

// StorageKey is the fixed client-storage key the cart persists under,
// matching the key the web dashboard uses.
const StorageKey = "cart-storage"

// Item is one cart line. Quantity is always >= 1 for a present item; an
// update that would drive it to 0 or below removes the item instead.
type Item struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
}

// Product is the structural contract for AddItem input.
type Product struct {
	ID    int
	Title string
	Price float64
	Image string
}

func (p Product) validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("cart: product id is required")
	}
	if p.Title == "" {
		return fmt.Errorf("cart: product title is required")
	}
	if p.Price < 0 {
		return fmt.Errorf("cart: product price must not be negative")
	}
	return nil
}

type persistedState struct {
	Items []Item `json:"items"`
}

// Store is the cart state container. All mutations are synchronous and
// written through to durable storage before returning.
type Store struct {
	storage *store.Store

	mu    sync.Mutex
	items []Item
}

// Open creates a cart store and rehydrates any persisted contents from the
// fixed storage key.
func Open(ctx context.Context, storage *store.Store) (*Store, error) {
	s := &Store{storage: storage}

	raw, err := storage.LoadValue(ctx, StorageKey)
	if store.IsNotFound(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart: rehydrate: %w", err)
	}

	var state persistedState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("cart: decode persisted state: %w", err)
	}
	s.items = state.Items
	return s, nil
}

// AddItem adds a product to the cart. A product already present has its
// quantity incremented by exactly one; a new product is appended with
// quantity one. Order of the list is insertion order, for display only.
func (s *Store) AddItem(ctx context.Context, product Product) error {
	if err := product.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.items {
		if s.items[i].ID == product.ID {
			s.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, Item{
			ID:       product.ID,
			Title:    product.Title,
			Price:    product.Price,
			Quantity: 1,
			Image:    product.Image,
		})
	}

	return s.persistLocked(ctx)
}

// RemoveItem deletes the item with the given id. Removing an absent id is a
// no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, id)
}

// UpdateQuantity sets the quantity of the item with the given id exactly.
// A quantity of zero or below behaves as RemoveItem.
func (s *Store) UpdateQuantity(ctx context.Context, id, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return s.removeLocked(ctx, id)
	}

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			return s.persistLocked(ctx)
		}
	}
	return nil
}

// Clear empties the cart unconditionally.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return s.persistLocked(ctx)
}

// Items returns a copy of the cart contents in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// TotalPrice returns the sum of price*quantity over all items; 0 when the
// cart is empty.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, item := range s.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount returns the sum of quantities over all items; 0 when the cart
// is empty.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

func (s *Store) removeLocked(ctx context.Context, id int) error {
	kept := s.items[:0]
	removed := false
	for _, item := range s.items {
		if item.ID == id {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return nil
	}
	s.items = kept
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	encoded, err := json.Marshal(persistedState{Items: s.items})
	if err != nil {
		return fmt.Errorf("cart: encode state: %w", err)
	}
	if err := s.storage.SaveValue(ctx, StorageKey, string(encoded)); err != nil {
		return fmt.Errorf("cart: persist: %w", err)
	}
	return nil
}
