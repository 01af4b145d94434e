package client

import (
	"fmt"
	"io"
	"time"

	db "adminserv/src/repository"

	"github.com/go-playground/validator/v10"
)

// The create forms reproduce the browser-side schemas: required-ness,
// minimum lengths, the email syntax check the store deliberately does not
// perform, numeric minimums and the state enum.

var formValidate = validator.New()

type (
	UserForm struct {
		Name    string `validate:"required,min=3"`
		Email   string `validate:"required,email"`
		Country string `validate:"required,min=2"`
		// Image is optional; when set, ImageName must carry the original
		// filename so the upload keeps its extension.
		Image     io.Reader `validate:"-"`
		ImageName string    `validate:"required_with=Image"`
	}

	BillForm struct {
		CustomerName string  `validate:"required,min=3"`
		Amount       float64 `validate:"required,min=1"`
		BillPrice    float64 `validate:"required,min=1"`
		DateOfCall   string  `validate:"required"`
		BillDate     string  `validate:"required"`
		State        string  `validate:"required,oneof=pending paid"`
		Description  string  `validate:"-"`
	}
)

func (f UserForm) Validate() error {
	if err := formValidate.Struct(f); err != nil {
		return fmt.Errorf("invalid user form: %w", err)
	}
	return nil
}

// Build validates the form and converts it into the bill document the API
// expects, parsing the date fields the way the date inputs emit them.
func (f BillForm) Build() (*db.Bill, error) {
	if err := formValidate.Struct(f); err != nil {
		return nil, fmt.Errorf("invalid bill form: %w", err)
	}
	dateOfCall, err := parseFormDate(f.DateOfCall)
	if err != nil {
		return nil, fmt.Errorf("invalid bill form: dateOfCall: %w", err)
	}
	billDate, err := parseFormDate(f.BillDate)
	if err != nil {
		return nil, fmt.Errorf("invalid bill form: billDate: %w", err)
	}

	return &db.Bill{
		CustomerName: f.CustomerName,
		Amount:       f.Amount,
		BillPrice:    f.BillPrice,
		DateOfCall:   dateOfCall,
		BillDate:     billDate,
		State:        f.State,
		Description:  f.Description,
	}, nil
}

func parseFormDate(value string) (*db.Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &db.Date{Time: t}, nil
}
