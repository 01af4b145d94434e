package repository

import (
	"context"
	"errors"
	"fmt"

	cfg "adminserv/src/configuration"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore is the production RecordStore backed by two collections in a
// MongoDB database.
type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
	bills  *mongo.Collection
}

func NewMongoStore(ctx context.Context, config cfg.MongoProperties) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, config.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.URL))
	if err != nil {
		return nil, fmt.Errorf("can not connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongodb not reachable: %w", err)
	}

	db := client.Database(config.Database)
	return &MongoStore{
		client: client,
		users:  db.Collection("users"),
		bills:  db.Collection("bills"),
	}, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) CreateUser(ctx context.Context, user *User) (*User, error) {
	if err := checkUser(user); err != nil {
		return nil, err
	}
	user.ID = primitive.NewObjectID()
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *MongoStore) GetUser(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var user User
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]User, error) {
	cursor, err := s.users.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := []User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *MongoStore) UpdateUser(ctx context.Context, id string, patch UserPatch) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	set, err := patchDocument(patch)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return s.GetUser(ctx, id)
	}

	var user User
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = s.users.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, after).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &user, nil
}

func (s *MongoStore) DeleteUser(ctx context.Context, id string) error {
	return deleteByID(ctx, s.users, id)
}

func (s *MongoStore) CreateBill(ctx context.Context, bill *Bill) (*Bill, error) {
	if err := checkBill(bill); err != nil {
		return nil, err
	}
	bill.ID = primitive.NewObjectID()
	if _, err := s.bills.InsertOne(ctx, bill); err != nil {
		return nil, fmt.Errorf("insert bill: %w", err)
	}
	return bill, nil
}

func (s *MongoStore) GetBill(ctx context.Context, id string) (*Bill, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var bill Bill
	if err := s.bills.FindOne(ctx, bson.M{"_id": oid}).Decode(&bill); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find bill: %w", err)
	}
	return &bill, nil
}

func (s *MongoStore) ListBills(ctx context.Context) ([]Bill, error) {
	cursor, err := s.bills.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	bills := []Bill{}
	if err := cursor.All(ctx, &bills); err != nil {
		return nil, fmt.Errorf("decode bills: %w", err)
	}
	return bills, nil
}

func (s *MongoStore) UpdateBill(ctx context.Context, id string, patch BillPatch) (*Bill, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	if err := checkBillPatch(patch); err != nil {
		return nil, err
	}
	set, err := patchDocument(patch)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return s.GetBill(ctx, id)
	}

	var bill Bill
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = s.bills.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, after).Decode(&bill)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update bill: %w", err)
	}
	return &bill, nil
}

func (s *MongoStore) DeleteBill(ctx context.Context, id string) error {
	return deleteByID(ctx, s.bills, id)
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// patchDocument turns a patch struct into the $set document. Fields left nil
// carry omitempty bson tags and drop out, which is what gives updates their
// merge semantics.
func patchDocument(patch any) (bson.M, error) {
	data, err := bson.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("marshal patch: %w", err)
	}
	set := bson.M{}
	if err := bson.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("unmarshal patch: %w", err)
	}
	return set, nil
}
