package db

import (
	"context"
	"fmt"
	"time"

	"taskdeck/internal/db/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type projectDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	Name      string             `bson:"name"`
	Color     string             `bson:"color,omitempty"`
	Icon      string             `bson:"icon,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d projectDoc) domain() models.Project {
	return models.Project{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Name:      d.Name,
		Color:     d.Color,
		Icon:      d.Icon,
		CreatedAt: d.CreatedAt,
	}
}

// CreateProject inserts a new project for userID.
func (db *DB) CreateProject(ctx context.Context, userID string, in models.CreateProjectInput) (models.Project, error) {
	if userID == "" {
		return models.Project{}, &models.ValidationError{Fields: map[string]string{"userId": "is required"}}
	}
	if err := in.Validate(); err != nil {
		return models.Project{}, err
	}

	doc := projectDoc{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Name:      in.Name,
		Color:     in.Color,
		Icon:      in.Icon,
		CreatedAt: now(),
	}

	if _, err := db.projects().InsertOne(ctx, doc); err != nil {
		return models.Project{}, storeErr("create project", err)
	}
	return doc.domain(), nil
}

// ListProjects returns all projects owned by userID, newest first.
func (db *DB) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	if userID == "" {
		return nil, &models.ValidationError{Fields: map[string]string{"userId": "is required"}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.projects().Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, storeErr("list projects", err)
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	for cursor.Next(ctx) {
		var doc projectDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding project: %w", err)
		}
		projects = append(projects, doc.domain())
	}
	if err := cursor.Err(); err != nil {
		return nil, storeErr("list projects", err)
	}
	return projects, nil
}
