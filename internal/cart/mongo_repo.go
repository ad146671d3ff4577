package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	pkgmongo "github.com/petparadise/petparadise-api/pkg/mongo"
)

type cartDocument struct {
	ID        string         `bson:"_id"`
	UserID    string         `bson:"user_id"`
	Items     []lineDocument `bson:"items"`
	Version   int64          `bson:"version"`
	CreatedAt time.Time      `bson:"created_at"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

type lineDocument struct {
	ID       string    `bson:"id"`
	PetID    string    `bson:"pet_id"`
	PetName  string    `bson:"pet_name"`
	PetPrice string    `bson:"pet_price"`
	PetImage string    `bson:"pet_image,omitempty"`
	Quantity int       `bson:"quantity"`
	AddedAt  time.Time `bson:"added_at"`
}

// MongoRepository stores carts as documents with a unique user_id index.
type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(client *pkgmongo.Client) *MongoRepository {
	return &MongoRepository{collection: client.Collection(pkgmongo.CartsCollection)}
}

func (r *MongoRepository) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	var doc cartDocument
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID.String()}).Decode(&doc)
	if err != nil {
		if pkgmongo.IsNoDocuments(err) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return fromDocument(doc)
}

func (r *MongoRepository) Create(ctx context.Context, cart *Cart) error {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = cart.UpdatedAt
	}
	if _, err := r.collection.InsertOne(ctx, toDocument(cart)); err != nil {
		if pkgmongo.IsDuplicateKey(err) {
			return ErrVersionConflict
		}
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

func (r *MongoRepository) Save(ctx context.Context, cart *Cart, expectedVersion int64) error {
	doc := toDocument(cart)
	filter := bson.M{"user_id": doc.UserID, "version": expectedVersion}
	update := bson.M{"$set": bson.M{
		"items":      doc.Items,
		"version":    doc.Version,
		"updated_at": doc.UpdatedAt,
	}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}

func toDocument(c *Cart) cartDocument {
	items := make([]lineDocument, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, lineDocument{
			ID:       item.ID.String(),
			PetID:    item.PetID,
			PetName:  item.PetName,
			PetPrice: item.PetPrice.String(),
			PetImage: item.PetImage,
			Quantity: item.Quantity,
			AddedAt:  item.AddedAt,
		})
	}
	return cartDocument{
		ID:        c.ID.String(),
		UserID:    c.UserID.String(),
		Items:     items,
		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func fromDocument(doc cartDocument) (*Cart, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("decoding cart id: %w", err)
	}
	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("decoding cart user id: %w", err)
	}

	items := make([]LineItem, 0, len(doc.Items))
	for _, line := range doc.Items {
		price, err := decimal.NewFromString(line.PetPrice)
		if err != nil {
			return nil, fmt.Errorf("decoding price for pet %s: %w", line.PetID, err)
		}
		lineID, _ := uuid.Parse(line.ID)
		items = append(items, LineItem{
			ID:       lineID,
			PetID:    line.PetID,
			PetName:  line.PetName,
			PetPrice: price,
			PetImage: line.PetImage,
			Quantity: line.Quantity,
			AddedAt:  line.AddedAt,
		})
	}

	return &Cart{
		ID:        id,
		UserID:    userID,
		Items:     items,
		Version:   doc.Version,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}
