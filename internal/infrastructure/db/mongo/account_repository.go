package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/confhub/conference-portal/internal/core/domain"
)

const accountCollection = "accounts"

// MongoAccountRepository stores one document per account: credentials plus
// the profile record. The variant fields are optional bson fields, so the
// stored shape is the duck-typing source of truth the classifier works from.
type MongoAccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{coll: db.Collection(accountCollection)}
}

type mongoAccount struct {
	PasswordHash string               `bson:"password_hash"`
	Record       domain.ProfileRecord `bson:"record"`
}

func (r *MongoAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"record.email": email})
}

func (r *MongoAccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"record.id": id})
}

func (r *MongoAccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var ma mongoAccount
	if err := r.coll.FindOne(ctx, filter).Decode(&ma); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &domain.Account{PasswordHash: ma.PasswordHash, Record: ma.Record}, nil
}
