package repository

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps both collections in process memory. It backs the unit
// tests and serves as a dev mode when DB_URL is unset. Records come back in
// insertion order, matching an unfiltered MongoDB find.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]User
	userOrder []string
	bills     map[string]Bill
	billOrder []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]User),
		bills: make(map[string]Bill),
	}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) CreateUser(_ context.Context, user *User) (*User, error) {
	if err := checkUser(user); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = primitive.NewObjectID()
	s.users[user.ID.Hex()] = *user
	s.userOrder = append(s.userOrder, user.ID.Hex())
	return user, nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) ListUsers(context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		users = append(users, s.users[id])
	}
	return users, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, id string, patch UserPatch) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Country != nil {
		user.Country = *patch.Country
	}
	if patch.Image != nil {
		user.Image = *patch.Image
	}
	s.users[id] = user
	return &user, nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	s.userOrder = removeID(s.userOrder, id)
	return nil
}

func (s *MemoryStore) CreateBill(_ context.Context, bill *Bill) (*Bill, error) {
	if err := checkBill(bill); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	bill.ID = primitive.NewObjectID()
	s.bills[bill.ID.Hex()] = *bill
	s.billOrder = append(s.billOrder, bill.ID.Hex())
	return bill, nil
}

func (s *MemoryStore) GetBill(_ context.Context, id string) (*Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bill, ok := s.bills[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &bill, nil
}

func (s *MemoryStore) ListBills(context.Context) ([]Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bills := make([]Bill, 0, len(s.billOrder))
	for _, id := range s.billOrder {
		bills = append(bills, s.bills[id])
	}
	return bills, nil
}

func (s *MemoryStore) UpdateBill(_ context.Context, id string, patch BillPatch) (*Bill, error) {
	if err := checkBillPatch(patch); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	bill, ok := s.bills[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.CustomerName != nil {
		bill.CustomerName = *patch.CustomerName
	}
	if patch.Amount != nil {
		bill.Amount = *patch.Amount
	}
	if patch.BillPrice != nil {
		bill.BillPrice = *patch.BillPrice
	}
	if patch.DateOfCall != nil {
		bill.DateOfCall = patch.DateOfCall
	}
	if patch.BillDate != nil {
		bill.BillDate = patch.BillDate
	}
	if patch.State != nil {
		bill.State = *patch.State
	}
	if patch.Description != nil {
		bill.Description = *patch.Description
	}
	s.bills[id] = bill
	return &bill, nil
}

func (s *MemoryStore) DeleteBill(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bills[id]; !ok {
		return ErrNotFound
	}
	delete(s.bills, id)
	s.billOrder = removeID(s.billOrder, id)
	return nil
}

func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
