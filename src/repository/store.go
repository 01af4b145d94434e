// Package repository is the record store: schema-validated User and Bill
// documents behind a common interface with MongoDB and in-memory backends.
package repository

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
)

type (
	// RecordStore is the full persistence surface the API service needs.
	// Both backends assign immutable, never-reused ObjectID identifiers.
	RecordStore interface {
		UserStore
		BillStore
		Ping(ctx context.Context) error
		Close(ctx context.Context) error
	}

	UserStore interface {
		CreateUser(ctx context.Context, user *User) (*User, error)
		GetUser(ctx context.Context, id string) (*User, error)
		ListUsers(ctx context.Context) ([]User, error)
		UpdateUser(ctx context.Context, id string, patch UserPatch) (*User, error)
		DeleteUser(ctx context.Context, id string) error
	}

	BillStore interface {
		CreateBill(ctx context.Context, bill *Bill) (*Bill, error)
		GetBill(ctx context.Context, id string) (*Bill, error)
		ListBills(ctx context.Context) ([]Bill, error)
		UpdateBill(ctx context.Context, id string, patch BillPatch) (*Bill, error)
		DeleteBill(ctx context.Context, id string) error
	}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// required passes for " ", notblank does not.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// checkUser validates a user document before it is persisted.
func checkUser(user *User) error {
	if err := validate.Struct(user); err != nil {
		return validationError("%s", err.Error())
	}
	return nil
}

// checkBill validates a bill document and applies the state default.
func checkBill(bill *Bill) error {
	if bill.State == "" {
		bill.State = BillStatePending
	}
	if err := validate.Struct(bill); err != nil {
		return validationError("%s", err.Error())
	}
	return nil
}

func checkBillPatch(patch BillPatch) error {
	if err := validate.Struct(patch); err != nil {
		return validationError("%s", err.Error())
	}
	return nil
}
