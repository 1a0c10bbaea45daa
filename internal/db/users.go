package db

import (
	"context"
	"errors"
	"time"

	"taskdeck/internal/db/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDoc struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	Name      string    `bson:"name"`
	Picture   string    `bson:"picture,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
}

// GetOrCreateUser looks up the account for the identity provider
// subject and creates it on first login. Profile fields are refreshed
// on every login; the id and creation time never change.
func (db *DB) GetOrCreateUser(ctx context.Context, id, email, name, picture string) (models.User, error) {
	if id == "" {
		return models.User{}, &models.ValidationError{Fields: map[string]string{"id": "is required"}}
	}

	var doc userDoc
	err := db.users().FindOne(ctx, bson.M{"_id": id}).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		doc = userDoc{
			ID:        id,
			Email:     email,
			Name:      name,
			Picture:   picture,
			CreatedAt: now(),
		}
		if _, err := db.users().InsertOne(ctx, doc); err != nil {
			return models.User{}, storeErr("create user", err)
		}
		db.log.WithField("user", id).Info("user created")
		return userDomain(doc), nil
	}
	if err != nil {
		return models.User{}, storeErr("get user", err)
	}

	if doc.Email != email || doc.Name != name || doc.Picture != picture {
		update := bson.M{"$set": bson.M{"email": email, "name": name, "picture": picture}}
		if _, err := db.users().UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
			return models.User{}, storeErr("update user", err)
		}
		doc.Email, doc.Name, doc.Picture = email, name, picture
	}

	return userDomain(doc), nil
}

func userDomain(d userDoc) models.User {
	return models.User{
		ID:        d.ID,
		Email:     d.Email,
		Name:      d.Name,
		Picture:   d.Picture,
		CreatedAt: d.CreatedAt,
	}
}
