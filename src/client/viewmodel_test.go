package client

import (
	"context"
	"testing"

	db "adminserv/src/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, store *db.MemoryStore, name string) *db.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), &db.User{
		Name:    name,
		Email:   name + "@example.com",
		Country: "Egypt",
	})
	require.NoError(t, err)
	return user
}

func TestUsersViewLoadPhases(t *testing.T) {
	srv, store := newTestServer(t)
	seedUser(t, store, "Mary")
	seedUser(t, store, "Omar")

	view := NewUsersView(New(srv.URL))
	assert.Equal(t, ListIdle, view.Phase())

	require.NoError(t, view.Load(context.Background()))
	assert.Equal(t, ListLoaded, view.Phase())
	assert.Nil(t, view.LoadError())

	assert.Len(t, view.Visible(""), 2)
	got := view.Visible("mar")
	require.Len(t, got, 1)
	assert.Equal(t, "Mary", got[0].Name)
}

func TestUsersViewLoadFailure(t *testing.T) {
	view := NewUsersView(New("http://127.0.0.1:1")) // nothing listens here

	err := view.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, ListError, view.Phase())
	assert.Error(t, view.LoadError())
}

func TestUsersViewEditPatchesSnapshot(t *testing.T) {
	srv, store := newTestServer(t)
	mary := seedUser(t, store, "Mary")

	view := NewUsersView(New(srv.URL))
	require.NoError(t, view.Load(context.Background()))

	// a record created elsewhere after the load stays invisible:
	// the page works off its snapshot until the next Load
	seedUser(t, store, "Sara")

	_, err := view.Select(mary.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, DetailViewing, view.Detail())

	form, err := view.BeginEdit()
	require.NoError(t, err)
	assert.Equal(t, "Mary", form.Name)
	assert.Equal(t, DetailEditing, view.Detail())

	country := "Jordan"
	saved, err := view.SaveEdit(context.Background(), db.UserPatch{Country: &country})
	require.NoError(t, err)
	assert.Equal(t, "Jordan", saved.Country)
	assert.Equal(t, "Mary", saved.Name)
	assert.Equal(t, DetailViewing, view.Detail())

	visible := view.Visible("")
	require.Len(t, visible, 1, "snapshot is patched, never re-fetched")
	assert.Equal(t, "Jordan", visible[0].Country)
}

func TestUsersViewCancelEdit(t *testing.T) {
	srv, store := newTestServer(t)
	mary := seedUser(t, store, "Mary")

	view := NewUsersView(New(srv.URL))
	require.NoError(t, view.Load(context.Background()))

	_, err := view.SaveEdit(context.Background(), db.UserPatch{})
	assert.ErrorIs(t, err, ErrNotEditing)

	_, err = view.Select(mary.ID.Hex())
	require.NoError(t, err)
	_, err = view.BeginEdit()
	require.NoError(t, err)

	view.CancelEdit()
	assert.Equal(t, DetailViewing, view.Detail())
}

func TestUsersViewDeleteNeedsConfirmation(t *testing.T) {
	srv, store := newTestServer(t)
	mary := seedUser(t, store, "Mary")

	view := NewUsersView(New(srv.URL))
	require.NoError(t, view.Load(context.Background()))
	_, err := view.Select(mary.ID.Hex())
	require.NoError(t, err)

	err = view.Delete(context.Background(), func() bool { return false })
	assert.ErrorIs(t, err, ErrDeleteAborted)
	assert.Len(t, view.Visible(""), 1)

	require.NoError(t, view.Delete(context.Background(), func() bool { return true }))
	assert.Empty(t, view.Visible(""))
	assert.Equal(t, DetailClosed, view.Detail())

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestBillsViewSearchAndDelete(t *testing.T) {
	srv, store := newTestServer(t)
	for _, name := range []string{"Ali", "Aliaa", "Omar"} {
		_, err := store.CreateBill(context.Background(), &db.Bill{
			CustomerName: name,
			Amount:       1,
			BillPrice:    10,
		})
		require.NoError(t, err)
	}

	view := NewBillsView(New(srv.URL))
	require.NoError(t, view.Load(context.Background()))

	assert.Len(t, view.Visible("ali"), 2)
	assert.Len(t, view.Visible("OMAR"), 1)

	target := view.Visible("Aliaa")
	require.Len(t, target, 1)
	_, err := view.Select(target[0].ID.Hex())
	require.NoError(t, err)

	require.NoError(t, view.Delete(context.Background(), nil))
	assert.Len(t, view.Visible(""), 2)
}

func TestBillsViewSaveEdit(t *testing.T) {
	srv, store := newTestServer(t)
	bill, err := store.CreateBill(context.Background(), &db.Bill{
		CustomerName: "Ali",
		Amount:       2,
		BillPrice:    100,
	})
	require.NoError(t, err)

	view := NewBillsView(New(srv.URL))
	require.NoError(t, view.Load(context.Background()))

	_, err = view.Select(bill.ID.Hex())
	require.NoError(t, err)
	_, err = view.BeginEdit()
	require.NoError(t, err)

	state := db.BillStatePaid
	saved, err := view.SaveEdit(context.Background(), db.BillPatch{State: &state})
	require.NoError(t, err)
	assert.Equal(t, db.BillStatePaid, saved.State)
	assert.Equal(t, "Ali", saved.CustomerName)

	visible := view.Visible("")
	require.Len(t, visible, 1)
	assert.Equal(t, db.BillStatePaid, visible[0].State)
}
