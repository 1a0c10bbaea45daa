package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskdeck/internal/db/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// taskDoc is the stored shape of a task. Documents are decoded into
// this struct and normalized into models.Task before they leave the
// gateway; raw document shapes never cross into the sync layer.
type taskDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"userId"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Completed   bool               `bson:"completed"`
	Priority    string             `bson:"priority,omitempty"`
	DueDate     *time.Time         `bson:"dueDate,omitempty"`
	Tags        []string           `bson:"tags,omitempty"`
	ProjectID   string             `bson:"projectId,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// domain normalizes a stored document into the validated task shape.
func (d taskDoc) domain() (models.Task, error) {
	priority := models.Priority(d.Priority)
	if d.Priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return models.Task{}, fmt.Errorf("task %s: unknown priority %q", d.ID.Hex(), d.Priority)
	}
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.Task{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		Priority:    priority,
		DueDate:     d.DueDate,
		Tags:        tags,
		ProjectID:   d.ProjectID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// ListTasks returns all tasks owned by userID, newest first.
func (db *DB) ListTasks(ctx context.Context, userID string) ([]models.Task, error) {
	if userID == "" {
		return nil, &models.ValidationError{Fields: map[string]string{"userId": "is required"}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.tasks().Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, storeErr("list tasks", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	for cursor.Next(ctx) {
		var doc taskDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding task: %w", err)
		}
		task, err := doc.domain()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := cursor.Err(); err != nil {
		return nil, storeErr("list tasks", err)
	}
	return tasks, nil
}

// CreateTask validates the input and inserts a new task with the store
// defaults: completed false, priority medium, fresh timestamps. The
// write is acknowledged before the call returns.
func (db *DB) CreateTask(ctx context.Context, userID string, in models.CreateTaskInput) (models.Task, error) {
	if userID == "" {
		return models.Task{}, &models.ValidationError{Fields: map[string]string{"userId": "is required"}}
	}
	if err := in.Validate(); err != nil {
		return models.Task{}, err
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	ts := now()
	doc := taskDoc{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Completed:   false,
		Priority:    string(priority),
		DueDate:     in.DueDate,
		Tags:        in.Tags,
		ProjectID:   in.ProjectID,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	if _, err := db.tasks().InsertOne(ctx, doc); err != nil {
		return models.Task{}, storeErr("create task", err)
	}

	db.log.WithField("task", doc.ID.Hex()).Debug("task created")
	return doc.domain()
}

// getTask loads the current stored state of a task. A malformed id
// cannot resolve to any record and maps to ErrNotFound.
func (db *DB) getTask(ctx context.Context, id string) (taskDoc, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return taskDoc{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	var doc taskDoc
	err = db.tasks().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return taskDoc{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return taskDoc{}, storeErr("get task", err)
	}
	return doc, nil
}

// UpdateTask applies a partial update. All writes here are
// read-modify-write: the current document is loaded first and only the
// fields present in the patch are replaced, so concurrent edits to
// unrelated fields are not clobbered.
func (db *DB) UpdateTask(ctx context.Context, id string, in models.UpdateTaskInput) (models.Task, error) {
	if err := in.Validate(); err != nil {
		return models.Task{}, err
	}

	current, err := db.getTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}

	set := bson.M{"updatedAt": now()}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Completed != nil {
		set["completed"] = *in.Completed
	}
	if in.Priority != nil {
		set["priority"] = string(*in.Priority)
	}
	if in.DueDate != nil {
		set["dueDate"] = *in.DueDate
	}
	if in.Tags != nil {
		set["tags"] = *in.Tags
	}
	if in.ProjectID != nil {
		set["projectId"] = *in.ProjectID
	}

	return db.setTaskFields(ctx, current.ID, set)
}

// ToggleTask flips the completion flag against the current stored
// state, going through the same read-modify-write path as UpdateTask.
func (db *DB) ToggleTask(ctx context.Context, id string) (models.Task, error) {
	current, err := db.getTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}

	set := bson.M{
		"completed": !current.Completed,
		"updatedAt": now(),
	}
	return db.setTaskFields(ctx, current.ID, set)
}

func (db *DB) setTaskFields(ctx context.Context, oid primitive.ObjectID, set bson.M) (models.Task, error) {
	result := db.tasks().FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Task{}, fmt.Errorf("task %s: %w", oid.Hex(), ErrNotFound)
		}
		return models.Task{}, storeErr("update task", err)
	}

	var doc taskDoc
	if err := result.Decode(&doc); err != nil {
		return models.Task{}, fmt.Errorf("error decoding updated task: %w", err)
	}
	return doc.domain()
}

// DeleteTask permanently removes a task. No tombstone is kept.
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	result, err := db.tasks().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return storeErr("delete task", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	db.log.WithField("task", id).Debug("task deleted")
	return nil
}
