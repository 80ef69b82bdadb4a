package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pricewatch/offer-reconciler/models"
)

var Client *mongo.Client

const databaseName = "offer_reconciler"

// ConnectMongo initializes the MongoDB connection
func ConnectMongo(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}

	Client = client
	log.Println("Connected to MongoDB!")
	return nil
}

// SaveRun persists one reconciliation run: both row sets plus the list of
// listings that failed to load.
func SaveRun(ctx context.Context, scraped []models.ScrapedOffer, offers []models.OfferRecord, failedASINs []string) error {
	if Client == nil {
		return fmt.Errorf("mongodb client is not initialized")
	}
	db := Client.Database(databaseName)
	ranAt := time.Now()

	if len(scraped) > 0 {
		docs := make([]interface{}, 0, len(scraped))
		for _, o := range scraped {
			docs = append(docs, o)
		}
		if _, err := db.Collection("scraped_offers").InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("saving scraped offers: %w", err)
		}
	}

	if len(offers) > 0 {
		docs := make([]interface{}, 0, len(offers))
		for _, o := range offers {
			docs = append(docs, o)
		}
		if _, err := db.Collection("offer_records").InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("saving offer records: %w", err)
		}
	}

	summary := bson.M{
		"ran_at":        ranAt,
		"scraped_count": len(scraped),
		"offer_count":   len(offers),
		"failed_asins":  failedASINs,
	}
	if _, err := db.Collection("runs").InsertOne(ctx, summary); err != nil {
		return fmt.Errorf("saving run summary: %w", err)
	}
	return nil
}
