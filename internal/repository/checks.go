package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/scribeworks/veritas/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const checksCollection = "similarity_checks"

type ChecksRepository struct {
	mongoRepo *MongoRepository
}

func NewChecksRepository(mongoRepo *MongoRepository) *ChecksRepository {
	return &ChecksRepository{
		mongoRepo: mongoRepo,
	}
}

func (r *ChecksRepository) InsertCheckReport(ctx context.Context, report *models.CheckReport) error {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}

	err := r.mongoRepo.InsertOne(ctx, checksCollection, report)
	if err != nil {
		return fmt.Errorf("failed to insert check report: %w", err)
	}

	return nil
}

func (r *ChecksRepository) GetCheckByID(ctx context.Context, checkID string) (*models.CheckReport, error) {
	filter := bson.M{"checkId": checkID}

	var report models.CheckReport
	err := r.mongoRepo.FindOne(ctx, checksCollection, filter).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find check report: %w", err)
	}

	return &report, nil
}

// DeleteCheck removes a persisted check report. It reports whether a report
// with that ID existed.
func (r *ChecksRepository) DeleteCheck(ctx context.Context, checkID string) (bool, error) {
	filter := bson.M{"checkId": checkID}

	deleted, err := r.mongoRepo.DeleteOne(ctx, checksCollection, filter)
	if err != nil {
		return false, fmt.Errorf("failed to delete check report: %w", err)
	}

	return deleted > 0, nil
}

func (r *ChecksRepository) ListChecks(ctx context.Context, limit, offset int64) ([]*models.CheckReport, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.mongoRepo.FindMany(ctx, checksCollection, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list check reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []*models.CheckReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode check reports: %w", err)
	}

	return reports, nil
}
