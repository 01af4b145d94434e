package repository

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bill states accepted by the store.
const (
	BillStatePending = "pending"
	BillStatePaid    = "paid"
)

type (
	// User is a client record. Email is intentionally not validated here:
	// the browser form checks it before submitting, the store never did.
	User struct {
		ID      primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
		Name    string `json:"name" bson:"name" validate:"required,notblank,min=3"`
		Email   string `json:"email" bson:"email"`
		Country string `json:"country" bson:"country" validate:"required,notblank,min=2"`
		Image   string `json:"image,omitempty" bson:"image,omitempty"`
	}

	// Bill is an invoice record. CustomerName is a free-text duplicate of the
	// user name with no foreign key behind it; the collections are independent.
	// The misspelled "discription" key is the legacy wire format.
	Bill struct {
		ID           primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
		CustomerName string             `json:"customerName" bson:"customerName" validate:"required,notblank,min=3"`
		Amount       float64            `json:"amount" bson:"amount" validate:"required"`
		BillPrice    float64            `json:"billPrice" bson:"billPrice" validate:"required"`
		DateOfCall   *Date              `json:"dateOfCall,omitempty" bson:"dateOfCall,omitempty"`
		BillDate     *Date              `json:"billDate,omitempty" bson:"billDate,omitempty"`
		State        string             `json:"state" bson:"state" validate:"omitempty,oneof=pending paid"`
		Description  string             `json:"discription,omitempty" bson:"discription,omitempty"`
	}

	// UserPatch carries the fields of a partial update. Nil pointers are
	// omitted from the $set document, so untouched fields survive.
	UserPatch struct {
		Name    *string `json:"name,omitempty" bson:"name,omitempty"`
		Email   *string `json:"email,omitempty" bson:"email,omitempty"`
		Country *string `json:"country,omitempty" bson:"country,omitempty"`
		Image   *string `json:"image,omitempty" bson:"image,omitempty"`
	}

	BillPatch struct {
		CustomerName *string  `json:"customerName,omitempty" bson:"customerName,omitempty"`
		Amount       *float64 `json:"amount,omitempty" bson:"amount,omitempty"`
		BillPrice    *float64 `json:"billPrice,omitempty" bson:"billPrice,omitempty"`
		DateOfCall   *Date    `json:"dateOfCall,omitempty" bson:"dateOfCall,omitempty"`
		BillDate     *Date    `json:"billDate,omitempty" bson:"billDate,omitempty"`
		State        *string  `json:"state,omitempty" bson:"state,omitempty" validate:"omitempty,oneof=pending paid"`
		Description  *string  `json:"discription,omitempty" bson:"discription,omitempty"`
	}
)

// Date is a day-precision timestamp. The browser sends plain `2006-01-02`
// strings, which encoding/json's time.Time would reject, so the wire formats
// are handled here. In BSON it is stored as a regular datetime.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) *Date {
	return &Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%q", d.Format(dateLayout))), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		d.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("date must be a string, got %s", s)
	}
	s = s[1 : len(s)-1]
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("cannot parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.Time)
}

func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	return raw.Unmarshal(&d.Time)
}
