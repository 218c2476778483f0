package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/scribeworks/veritas/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

const documentsCollection = "reference_documents"

type DocumentsRepository struct {
	mongoRepo *MongoRepository
}

func NewDocumentsRepository(mongoRepo *MongoRepository) *DocumentsRepository {
	return &DocumentsRepository{
		mongoRepo: mongoRepo,
	}
}

func (r *DocumentsRepository) InsertDocument(ctx context.Context, doc *models.Document) error {
	doc.CreatedAt = time.Now()
	err := r.mongoRepo.InsertOne(ctx, documentsCollection, doc)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	return nil
}

func (r *DocumentsRepository) DeactivateDocument(ctx context.Context, id string) (bool, error) {
	filter := bson.M{"documentId": id}
	update := bson.M{"$set": bson.M{"active": false}}

	matched, err := r.mongoRepo.UpdateOne(ctx, documentsCollection, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate document: %w", err)
	}

	return matched > 0, nil
}

func (r *DocumentsRepository) GetActiveDocuments(ctx context.Context) ([]*models.Document, error) {
	filter := bson.M{"active": true}

	cursor, err := r.mongoRepo.FindMany(ctx, documentsCollection, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*models.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}

	return docs, nil
}

func (r *DocumentsRepository) GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	filter := bson.M{"documentId": id}

	var doc models.Document
	err := r.mongoRepo.FindOne(ctx, documentsCollection, filter).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	return &doc, nil
}

func (r *DocumentsRepository) CountActiveDocuments(ctx context.Context) (int64, error) {
	filter := bson.M{"active": true}

	count, err := r.mongoRepo.CountDocuments(ctx, documentsCollection, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}

	return count, nil
}
