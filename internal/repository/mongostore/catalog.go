package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zeroclasses/coaching-service/internal/domain"
	"github.com/zeroclasses/coaching-service/internal/repository"
)

type courseDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Title          string             `bson:"title"`
	Description    string             `bson:"description"`
	Date           time.Time          `bson:"date"`
	MeetLink       string             `bson:"meetLink"`
	InstructorName string             `bson:"instructorName"`
	Price          float64            `bson:"price"`
	Duration       string             `bson:"duration"`
	Status         string             `bson:"status"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

func newCourseDocument(c *domain.Course) courseDocument {
	return courseDocument{
		Title:          c.Title,
		Description:    c.Description,
		Date:           c.Date,
		MeetLink:       c.MeetLink,
		InstructorName: c.InstructorName,
		Price:          c.Price,
		Duration:       c.Duration,
		Status:         string(c.Status),
	}
}

func (d courseDocument) toDomain() domain.Course {
	return domain.Course{
		ID:             d.ID.Hex(),
		Title:          d.Title,
		Description:    d.Description,
		Date:           d.Date,
		MeetLink:       d.MeetLink,
		InstructorName: d.InstructorName,
		Price:          d.Price,
		Duration:       d.Duration,
		Status:         domain.CourseStatus(d.Status),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type courseRepository struct {
	coll *mongo.Collection
}

// NewCourseRepository returns a MongoDB-backed catalog.
func NewCourseRepository(db *mongo.Database) repository.CourseRepository {
	return &courseRepository{coll: db.Collection("courses")}
}

func (r *courseRepository) Create(ctx context.Context, course *domain.Course) error {
	doc := newCourseDocument(course)
	now := time.Now().UTC()
	doc.CreatedAt, doc.UpdatedAt = now, now

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		course.ID = oid.Hex()
	}
	course.CreatedAt, course.UpdatedAt = now, now
	return nil
}

func (r *courseRepository) Update(ctx context.Context, course *domain.Course) error {
	oid, err := primitive.ObjectIDFromHex(course.ID)
	if err != nil {
		return domain.ErrCourseNotFound
	}
	doc := newCourseDocument(course)
	doc.UpdatedAt = time.Now().UTC()

	set := bson.M{
		"title":          doc.Title,
		"description":    doc.Description,
		"date":           doc.Date,
		"meetLink":       doc.MeetLink,
		"instructorName": doc.InstructorName,
		"price":          doc.Price,
		"duration":       doc.Duration,
		"status":         doc.Status,
		"updatedAt":      doc.UpdatedAt,
	}
	var updated courseDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrCourseNotFound
	}
	if err != nil {
		return err
	}
	*course = updated.toDomain()
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCourseNotFound
	}
	var doc courseDocument
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	c := doc.toDomain()
	return &c, nil
}

func (r *courseRepository) List(ctx context.Context) ([]domain.Course, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []courseDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	courses := make([]domain.Course, 0, len(docs))
	for _, d := range docs {
		courses = append(courses, d.toDomain())
	}
	return courses, nil
}

type materialDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Title      string             `bson:"title"`
	Type       string             `bson:"type"`
	URL        string             `bson:"url"`
	Size       string             `bson:"size"`
	UploadedAt time.Time          `bson:"uploadedAt"`
}

type materialRepository struct {
	coll *mongo.Collection
}

// NewMaterialRepository returns a MongoDB-backed material list.
func NewMaterialRepository(db *mongo.Database) repository.MaterialRepository {
	return &materialRepository{coll: db.Collection("materials")}
}

func (r *materialRepository) Create(ctx context.Context, material *domain.Material) error {
	if material.UploadedAt.IsZero() {
		material.UploadedAt = time.Now().UTC()
	}
	res, err := r.coll.InsertOne(ctx, materialDocument{
		Title:      material.Title,
		Type:       string(material.Type),
		URL:        material.URL,
		Size:       material.Size,
		UploadedAt: material.UploadedAt,
	})
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		material.ID = oid.Hex()
	}
	return nil
}

func (r *materialRepository) List(ctx context.Context) ([]domain.Material, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []materialDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Material, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Material{
			ID:         d.ID.Hex(),
			Title:      d.Title,
			Type:       domain.MaterialType(d.Type),
			URL:        d.URL,
			Size:       d.Size,
			UploadedAt: d.UploadedAt,
		})
	}
	return out, nil
}
