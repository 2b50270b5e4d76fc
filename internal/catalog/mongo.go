package catalog

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
)

// MongoCatalog serves the catalog from MongoDB: a "categories" collection
// holding record counts and a "questions" collection keyed by
// (category, index). cmd/seed populates both.
type MongoCatalog struct {
	categories *mongo.Collection
	questions  *mongo.Collection
}

func NewMongoCatalog(db *mongo.Database) *MongoCatalog {
	return &MongoCatalog{
		categories: db.Collection("categories"),
		questions:  db.Collection("questions"),
	}
}

func (c *MongoCatalog) TotalQuestions(ctx context.Context, category string) (int, error) {
	var cat model.Category
	err := c.categories.FindOne(ctx, bson.M{"_id": category}).Decode(&cat)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("catalog: fetch category %s: %w", category, err)
	}
	return cat.TotalQuestions, nil
}

func (c *MongoCatalog) QuestionAt(ctx context.Context, category string, n int) (*model.Question, error) {
	var record model.CatalogQuestion
	err := c.questions.FindOne(ctx, bson.M{"category": category, "index": n}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch question %d of %s: %w", n, category, err)
	}
	return &record.Question, nil
}
