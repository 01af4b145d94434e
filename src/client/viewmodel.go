package client

import (
	"context"
	"errors"
	"sync"

	db "adminserv/src/repository"
)

// ListPhase tracks the lifecycle of a page's collection fetch.
type ListPhase int

const (
	ListIdle ListPhase = iota
	ListLoading
	ListLoaded
	ListError
)

// DetailPhase tracks the selected-record pane.
type DetailPhase int

const (
	DetailClosed DetailPhase = iota
	DetailViewing
	DetailEditing
)

var (
	ErrNoSelection   = errors.New("no record selected")
	ErrNotEditing    = errors.New("not in edit mode")
	ErrDeleteAborted = errors.New("delete not confirmed")
)

// UsersView reproduces the users page: load once, search in memory, select a
// record, edit it in place, delete after confirmation. Every mutation patches
// the collection only after the server has confirmed it.
type UsersView struct {
	api *Client

	mu       sync.Mutex
	phase    ListPhase
	loadErr  error
	records  *Collection[db.User]
	selected string
	detail   DetailPhase
}

func NewUsersView(api *Client) *UsersView {
	return &UsersView{
		api: api,
		records: NewCollection(
			func(u db.User) string { return u.ID.Hex() },
			func(u db.User) string { return u.Name },
		),
	}
}

// Load fetches the full collection. idle/error -> loading -> loaded|error.
func (v *UsersView) Load(ctx context.Context) error {
	v.mu.Lock()
	v.phase = ListLoading
	v.mu.Unlock()

	users, err := v.api.ListUsers(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.phase = ListError
		v.loadErr = err
		return err
	}
	v.records.Reset(users)
	v.phase = ListLoaded
	v.loadErr = nil
	return nil
}

func (v *UsersView) Phase() ListPhase {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.phase
}

func (v *UsersView) LoadError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loadErr
}

// Visible returns the records matching the search query, in fetch order.
func (v *UsersView) Visible(query string) []db.User {
	return v.records.Search(query)
}

// Select opens the detail pane on a record from the current snapshot.
func (v *UsersView) Select(id string) (db.User, error) {
	user, ok := v.records.Get(id)
	if !ok {
		return db.User{}, ErrNoSelection
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected = id
	v.detail = DetailViewing
	return user, nil
}

func (v *UsersView) Detail() DetailPhase {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.detail
}

// BeginEdit moves viewing -> editing and hands back a copy of the record for
// the form to mutate.
func (v *UsersView) BeginEdit() (db.User, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.detail != DetailViewing {
		return db.User{}, ErrNoSelection
	}
	user, ok := v.records.Get(v.selected)
	if !ok {
		return db.User{}, ErrNoSelection
	}
	v.detail = DetailEditing
	return user, nil
}

// CancelEdit drops the form copy and returns to viewing.
func (v *UsersView) CancelEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.detail == DetailEditing {
		v.detail = DetailViewing
	}
}

// SaveEdit submits the patch. On success the snapshot and detail pane are
// patched with the server's record and the pane returns to viewing; the list
// is never re-fetched.
func (v *UsersView) SaveEdit(ctx context.Context, patch db.UserPatch) (db.User, error) {
	v.mu.Lock()
	if v.detail != DetailEditing {
		v.mu.Unlock()
		return db.User{}, ErrNotEditing
	}
	id := v.selected
	v.mu.Unlock()

	updated, err := v.api.UpdateUser(ctx, id, patch)
	if err != nil {
		return db.User{}, err
	}

	v.records.Put(*updated)
	v.mu.Lock()
	v.detail = DetailViewing
	v.mu.Unlock()
	return *updated, nil
}

// Delete asks for confirmation, issues the delete, then removes the record
// from the snapshot and closes the detail pane.
func (v *UsersView) Delete(ctx context.Context, confirm func() bool) error {
	v.mu.Lock()
	if v.detail == DetailClosed {
		v.mu.Unlock()
		return ErrNoSelection
	}
	id := v.selected
	v.mu.Unlock()

	if confirm != nil && !confirm() {
		return ErrDeleteAborted
	}
	if err := v.api.DeleteUser(ctx, id); err != nil {
		return err
	}

	v.records.Remove(id)
	v.mu.Lock()
	v.selected = ""
	v.detail = DetailClosed
	v.mu.Unlock()
	return nil
}

// BillsView is the bills page counterpart; search runs over customerName.
type BillsView struct {
	api *Client

	mu       sync.Mutex
	phase    ListPhase
	loadErr  error
	records  *Collection[db.Bill]
	selected string
	detail   DetailPhase
}

func NewBillsView(api *Client) *BillsView {
	return &BillsView{
		api: api,
		records: NewCollection(
			func(b db.Bill) string { return b.ID.Hex() },
			func(b db.Bill) string { return b.CustomerName },
		),
	}
}

func (v *BillsView) Load(ctx context.Context) error {
	v.mu.Lock()
	v.phase = ListLoading
	v.mu.Unlock()

	bills, err := v.api.ListBills(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.phase = ListError
		v.loadErr = err
		return err
	}
	v.records.Reset(bills)
	v.phase = ListLoaded
	v.loadErr = nil
	return nil
}

func (v *BillsView) Phase() ListPhase {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.phase
}

func (v *BillsView) LoadError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loadErr
}

func (v *BillsView) Visible(query string) []db.Bill {
	return v.records.Search(query)
}

func (v *BillsView) Select(id string) (db.Bill, error) {
	bill, ok := v.records.Get(id)
	if !ok {
		return db.Bill{}, ErrNoSelection
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected = id
	v.detail = DetailViewing
	return bill, nil
}

func (v *BillsView) Detail() DetailPhase {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.detail
}

func (v *BillsView) BeginEdit() (db.Bill, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.detail != DetailViewing {
		return db.Bill{}, ErrNoSelection
	}
	bill, ok := v.records.Get(v.selected)
	if !ok {
		return db.Bill{}, ErrNoSelection
	}
	v.detail = DetailEditing
	return bill, nil
}

func (v *BillsView) CancelEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.detail == DetailEditing {
		v.detail = DetailViewing
	}
}

func (v *BillsView) SaveEdit(ctx context.Context, patch db.BillPatch) (db.Bill, error) {
	v.mu.Lock()
	if v.detail != DetailEditing {
		v.mu.Unlock()
		return db.Bill{}, ErrNotEditing
	}
	id := v.selected
	v.mu.Unlock()

	updated, err := v.api.UpdateBill(ctx, id, patch)
	if err != nil {
		return db.Bill{}, err
	}

	v.records.Put(*updated)
	v.mu.Lock()
	v.detail = DetailViewing
	v.mu.Unlock()
	return *updated, nil
}

func (v *BillsView) Delete(ctx context.Context, confirm func() bool) error {
	v.mu.Lock()
	if v.detail == DetailClosed {
		v.mu.Unlock()
		return ErrNoSelection
	}
	id := v.selected
	v.mu.Unlock()

	if confirm != nil && !confirm() {
		return ErrDeleteAborted
	}
	if err := v.api.DeleteBill(ctx, id); err != nil {
		return err
	}

	v.records.Remove(id)
	v.mu.Lock()
	v.selected = ""
	v.detail = DetailClosed
	v.mu.Unlock()
	return nil
}
