package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zeroclasses/coaching-service/internal/domain"
	"github.com/zeroclasses/coaching-service/internal/repository"
)

type transactionDocument struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	TransactionID        string             `bson:"transactionId"`
	UserID               string             `bson:"userId"`
	CourseID             string             `bson:"courseId"`
	Amount               float64            `bson:"amount"`
	Currency             string             `bson:"currency"`
	PaymentMethod        string             `bson:"paymentMethod"`
	UPIID                string             `bson:"upiId,omitempty"`
	DestinationAccount   string             `bson:"destinationAccount"`
	Status               string             `bson:"status"`
	OwnerAccountCredited bool               `bson:"ownerAccountCredited"`
	CreatedAt            time.Time          `bson:"createdAt"`
}

type transactionRepository struct {
	coll *mongo.Collection
}

// NewTransactionRepository returns a MongoDB-backed payment ledger.
func NewTransactionRepository(db *mongo.Database) repository.TransactionRepository {
	return &transactionRepository{coll: db.Collection("transactions")}
}

func (r *transactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}
	res, err := r.coll.InsertOne(ctx, transactionDocument{
		TransactionID:        txn.Reference,
		UserID:               txn.UserID,
		CourseID:             txn.CourseID,
		Amount:               txn.Amount,
		Currency:             txn.Currency,
		PaymentMethod:        string(txn.PaymentMethod),
		UPIID:                txn.PayerUPIID,
		DestinationAccount:   txn.DestinationAccount,
		Status:               string(txn.Status),
		OwnerAccountCredited: txn.OwnerAccountCredited,
		CreatedAt:            txn.CreatedAt,
	})
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		txn.ID = oid.Hex()
	}
	return nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []transactionDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Transaction, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Transaction{
			ID:                   d.ID.Hex(),
			Reference:            d.TransactionID,
			UserID:               d.UserID,
			CourseID:             d.CourseID,
			Amount:               d.Amount,
			Currency:             d.Currency,
			PaymentMethod:        domain.PaymentMethod(d.PaymentMethod),
			PayerUPIID:           d.UPIID,
			DestinationAccount:   d.DestinationAccount,
			Status:               domain.TransactionStatus(d.Status),
			OwnerAccountCredited: d.OwnerAccountCredited,
			CreatedAt:            d.CreatedAt,
		})
	}
	return out, nil
}
