package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/autoserve/jobcard-backend/internal/models"
)

// JobCardCollection defines the interface for job card database
// operations. Each mutation is a single document write; append and
// status change happen in one UpdateOne so a partial application is
// not possible.
type JobCardCollection interface {
	InsertJobCard(ctx context.Context, card *models.JobCard) error
	FindJobCardByID(ctx context.Context, id string) (*models.JobCard, error)
	FindJobCards(ctx context.Context) ([]models.JobCard, error)
	PushUpdate(ctx context.Context, id string, update models.Update, status models.JobStatus) error
	PushPart(ctx context.Context, id string, part models.PartLine) error
	SetStatus(ctx context.Context, id string, status models.JobStatus) error
}

// MongoJobCardCollection implements JobCardCollection for MongoDB
type MongoJobCardCollection struct {
	Collection *mongo.Collection
}

// InsertJobCard inserts a new job card and fills in its server-assigned
// id and timestamps.
func (c *MongoJobCardCollection) InsertJobCard(ctx context.Context, card *models.JobCard) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}

	now := time.Now()
	card.ID = primitive.NewObjectID()
	card.CreatedAt = now
	card.UpdatedAt = now

	_, err := c.Collection.InsertOne(ctx, card)
	return err
}

// FindJobCardByID finds a job card by its ID.
func (c *MongoJobCardCollection) FindJobCardByID(ctx context.Context, id string) (*models.JobCard, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var card models.JobCard
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&card)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &card, nil
}

// FindJobCards returns all job cards, most recently created first.
func (c *MongoJobCardCollection) FindJobCards(ctx context.Context) ([]models.JobCard, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := c.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	cards := make([]models.JobCard, 0)
	if err := cursor.All(ctx, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// PushUpdate appends an update to the card's history and sets its
// status in the same write.
func (c *MongoJobCardCollection) PushUpdate(ctx context.Context, id string, update models.Update, status models.JobStatus) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$push": bson.M{"updates": update},
		"$set":  bson.M{"status": status, "updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PushPart appends a part line to the card. Status is untouched.
func (c *MongoJobCardCollection) PushPart(ctx context.Context, id string, part models.PartLine) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$push": bson.M{"parts": part},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus overwrites the card's status without touching the updates
// history.
func (c *MongoJobCardCollection) SetStatus(ctx context.Context, id string, status models.JobStatus) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
