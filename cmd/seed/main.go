package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/question"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/store"
)

// Seeds the question catalog into both backends: the MongoDB collections
// used by the mongo catalog and the document-store paths used by the
// store catalog.
func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "starquiz"
	}
	redisURI := os.Getenv("REDIS_URI")
	if redisURI == "" {
		redisURI = "localhost:6379"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	src := question.NewStaticSource()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(mongoDB)
	categoryColl := db.Collection("categories")
	questionColl := db.Collection("questions")

	rdb := redis.NewClient(&redis.Options{
		Addr: strings.TrimPrefix(redisURI, "redis://"),
	})
	defer rdb.Close()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to ping Redis: %v", err)
	}
	docs := store.NewRedisStore(rdb)

	total := 0
	upsert := options.Update().SetUpsert(true)

	for _, key := range src.Categories() {
		questions, err := src.Questions(ctx, key, 1000)
		if err != nil {
			log.Fatalf("Failed to load questions for %s: %v", key, err)
		}

		_, err = categoryColl.UpdateOne(ctx,
			bson.M{"_id": key},
			bson.M{"$set": bson.M{"totalQuestions": len(questions)}},
			upsert)
		if err != nil {
			log.Fatalf("Failed to upsert category %s: %v", key, err)
		}

		// Catalog records are numbered q1..qN; the sampler draws 1-based ids.
		byID := store.Document{}
		for i, q := range questions {
			id := i + 1
			_, err = questionColl.UpdateOne(ctx,
				bson.M{"category": key, "index": id},
				bson.M{"$set": model.CatalogQuestion{Category: key, Index: id, Question: q}},
				upsert)
			if err != nil {
				log.Fatalf("Failed to upsert question %s/%d: %v", key, id, err)
			}

			byID[fmt.Sprintf("q%d", id)] = q
			total++
		}

		fields := store.Document{
			"totalQuestions": len(questions),
			"questions":      byID,
		}

		path := fmt.Sprintf("categories/categories/%s", key)
		if err := docs.Update(ctx, path, fields); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}

		fmt.Printf("Seeded category %q with %d questions\n", key, len(questions))
	}

	fmt.Printf("Done: %d questions across %d categories\n", total, len(src.Categories()))
}
