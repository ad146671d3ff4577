package pets

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petparadise/petparadise-api/pkg/db/models"
	"github.com/petparadise/petparadise-api/pkg/enums"
	pkgmongo "github.com/petparadise/petparadise-api/pkg/mongo"
)

type contactDocument struct {
	Organization string `bson:"organization,omitempty"`
	Phone        string `bson:"phone,omitempty"`
	Email        string `bson:"email,omitempty"`
	Website      string `bson:"website,omitempty"`
}

type petDocument struct {
	ID             string          `bson:"_id"`
	Name           string          `bson:"name"`
	Animal         string          `bson:"animal"`
	Breed          string          `bson:"breed"`
	City           string          `bson:"city"`
	State          string          `bson:"state"`
	Description    string          `bson:"description"`
	Images         []string        `bson:"images"`
	Price          string          `bson:"price"`
	Age            string          `bson:"age"`
	Gender         string          `bson:"gender"`
	Size           string          `bson:"size"`
	Vaccinated     bool            `bson:"vaccinated"`
	SpayedNeutered bool            `bson:"spayed_neutered"`
	HouseTrained   bool            `bson:"house_trained"`
	GoodWithKids   bool            `bson:"good_with_kids"`
	GoodWithPets   bool            `bson:"good_with_pets"`
	EnergyLevel    string          `bson:"energy_level"`
	IsAvailable    bool            `bson:"is_available"`
	AdoptedBy      string          `bson:"adopted_by,omitempty"`
	AdoptedAt      *time.Time      `bson:"adopted_at,omitempty"`
	AddedBy        string          `bson:"added_by,omitempty"`
	Featured       bool            `bson:"featured"`
	Views          int64           `bson:"views"`
	SpecialNeeds   string          `bson:"special_needs,omitempty"`
	Contact        contactDocument `bson:"contact_info"`
	CreatedAt      time.Time       `bson:"created_at"`
	UpdatedAt      time.Time       `bson:"updated_at"`
}

// MongoRepository stores listings in the pets collection.
type MongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoRepository(client *pkgmongo.Client) *MongoRepository {
	return &MongoRepository{
		coll: client.Collection(pkgmongo.PetsCollection),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func mongoFilter(q ListQuery) bson.M {
	filter := bson.M{}
	if s := strings.TrimSpace(q.Search); s != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"breed": re},
			bson.M{"animal": re},
			bson.M{"city": re},
			bson.M{"state": re},
		}
	}
	if q.Animal != nil {
		filter["animal"] = string(*q.Animal)
	}
	if q.Available != nil {
		filter["is_available"] = *q.Available
	}
	return filter
}

func (r *MongoRepository) List(ctx context.Context, q ListQuery) ([]models.Pet, int64, error) {
	filter := mongoFilter(q)
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count pets: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(q.Offset)).
		SetLimit(int64(q.Limit))
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find pets: %w", err)
	}
	var docs []petDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode pets: %w", err)
	}

	out := make([]models.Pet, 0, len(docs))
	for _, doc := range docs {
		pet, err := fromPetDocument(doc)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *pet)
	}
	return out, total, nil
}

func (r *MongoRepository) Get(ctx context.Context, id uuid.UUID) (*models.Pet, error) {
	var doc petDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if pkgmongo.IsNoDocuments(err) {
			return nil, ErrPetNotFound
		}
		return nil, fmt.Errorf("find pet: %w", err)
	}
	return fromPetDocument(doc)
}

func (r *MongoRepository) Create(ctx context.Context, pet *models.Pet) error {
	if pet.ID == uuid.Nil {
		pet.ID = uuid.New()
	}
	now := r.now().Truncate(time.Millisecond)
	if pet.CreatedAt.IsZero() {
		pet.CreatedAt = now
	}
	if pet.UpdatedAt.IsZero() {
		pet.UpdatedAt = now
	}
	if _, err := r.coll.InsertOne(ctx, toPetDocument(pet)); err != nil {
		return fmt.Errorf("insert pet: %w", err)
	}
	return nil
}

func (r *MongoRepository) Update(ctx context.Context, pet *models.Pet) error {
	pet.UpdatedAt = r.now().Truncate(time.Millisecond)
	doc := toPetDocument(pet)
	set, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode pet: %w", err)
	}
	var fields bson.M
	if err := bson.Unmarshal(set, &fields); err != nil {
		return fmt.Errorf("encode pet: %w", err)
	}
	delete(fields, "_id")
	delete(fields, "created_at")
	delete(fields, "views")

	update := bson.M{"$set": fields}
	unset := bson.M{}
	if doc.AdoptedBy == "" {
		unset["adopted_by"] = ""
	}
	if doc.AdoptedAt == nil {
		unset["adopted_at"] = ""
	}
	if doc.SpecialNeeds == "" {
		unset["special_needs"] = ""
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.coll.UpdateByID(ctx, doc.ID, update)
	if err != nil {
		return fmt.Errorf("update pet: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPetNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete pet: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrPetNotFound
	}
	return nil
}

func (r *MongoRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.UpdateByID(ctx, id.String(), bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPetNotFound
	}
	return nil
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func parseOptionalUUID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func toPetDocument(p *models.Pet) petDocument {
	return petDocument{
		ID:             p.ID.String(),
		Name:           p.Name,
		Animal:         string(p.Animal),
		Breed:          p.Breed,
		City:           p.City,
		State:          p.State,
		Description:    p.Description,
		Images:         imagesOf(p.Images),
		Price:          p.Price.StringFixed(2),
		Age:            string(p.Age),
		Gender:         string(p.Gender),
		Size:           string(p.Size),
		Vaccinated:     p.Vaccinated,
		SpayedNeutered: p.SpayedNeutered,
		HouseTrained:   p.HouseTrained,
		GoodWithKids:   p.GoodWithKids,
		GoodWithPets:   p.GoodWithPets,
		EnergyLevel:    string(p.EnergyLevel),
		IsAvailable:    p.IsAvailable,
		AdoptedBy:      uuidString(p.AdoptedBy),
		AdoptedAt:      p.AdoptedAt,
		AddedBy:        uuidString(p.AddedBy),
		Featured:       p.Featured,
		Views:          p.Views,
		SpecialNeeds:   p.SpecialNeeds,
		Contact: contactDocument{
			Organization: p.Contact.Organization,
			Phone:        p.Contact.Phone,
			Email:        p.Contact.Email,
			Website:      p.Contact.Website,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func fromPetDocument(doc petDocument) (*models.Pet, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("decode pet id: %w", err)
	}
	price, err := decimal.NewFromString(doc.Price)
	if err != nil {
		return nil, fmt.Errorf("decode pet price: %w", err)
	}
	addedBy, err := parseOptionalUUID(doc.AddedBy)
	if err != nil {
		return nil, fmt.Errorf("decode added_by: %w", err)
	}
	adoptedBy, err := parseOptionalUUID(doc.AdoptedBy)
	if err != nil {
		return nil, fmt.Errorf("decode adopted_by: %w", err)
	}
	return &models.Pet{
		ID:             id,
		Name:           doc.Name,
		Animal:         enums.Animal(doc.Animal),
		Breed:          doc.Breed,
		City:           doc.City,
		State:          doc.State,
		Description:    doc.Description,
		Images:         imagesOf(doc.Images),
		Price:          price,
		Age:            enums.PetAge(doc.Age),
		Gender:         enums.PetGender(doc.Gender),
		Size:           enums.PetSize(doc.Size),
		Vaccinated:     doc.Vaccinated,
		SpayedNeutered: doc.SpayedNeutered,
		HouseTrained:   doc.HouseTrained,
		GoodWithKids:   doc.GoodWithKids,
		GoodWithPets:   doc.GoodWithPets,
		EnergyLevel:    enums.EnergyLevel(doc.EnergyLevel),
		IsAvailable:    doc.IsAvailable,
		AdoptedBy:      adoptedBy,
		AdoptedAt:      doc.AdoptedAt,
		AddedBy:        addedBy,
		Featured:       doc.Featured,
		Views:          doc.Views,
		SpecialNeeds:   doc.SpecialNeeds,
		Contact: models.PetContact{
			Organization: doc.Contact.Organization,
			Phone:        doc.Contact.Phone,
			Email:        doc.Contact.Email,
			Website:      doc.Contact.Website,
		},
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}
