package adminRepo

import (
	"context"
	"errors"
	"time"

	"heallink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new admin record.
func (r *MongoAdminRepo) Create(ctx context.Context, admin *models.AdminUser) error {
	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, admin)
	return err
}

// GetByID retrieves an admin by its unique ID. Returns nil when absent.
func (r *MongoAdminRepo) GetByID(ctx context.Context, id string) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByEmail retrieves an admin by email. Returns nil when absent.
func (r *MongoAdminRepo) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Update replaces the stored record for the admin's ID.
func (r *MongoAdminRepo) Update(ctx context.Context, admin *models.AdminUser) error {
	admin.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": admin.ID}, admin)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("admin not found")
	}
	return nil
}

// Delete removes an admin record by its ID.
func (r *MongoAdminRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New("admin not found")
	}
	return nil
}

// List returns a filtered, sorted, paginated page of admins plus the
// total match count.
func (r *MongoAdminRepo) List(ctx context.Context, params models.AdminQueryParams) ([]models.AdminUser, int64, error) {
	filter := bson.M{}
	if params.Search != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": params.Search, "$options": "i"}},
			{"email": bson.M{"$regex": params.Search, "$options": "i"}},
		}
	}
	if params.AdminRole != "" {
		filter["admin_role"] = params.AdminRole
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	sortField := "created_at"
	if mapped, ok := map[string]string{
		"name":      "name",
		"email":     "email",
		"createdAt": "created_at",
		"lastLogin": "last_login",
	}[params.SortBy]; ok {
		sortField = mapped
	}
	order := -1
	if params.SortOrder == "asc" {
		order = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: order}}).
		SetSkip(int64((params.Page - 1) * params.Limit)).
		SetLimit(int64(params.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var admins []models.AdminUser
	if err := cursor.All(ctx, &admins); err != nil {
		return nil, 0, err
	}
	return admins, total, nil
}

// Count returns the number of admin accounts, optionally only active ones.
func (r *MongoAdminRepo) Count(ctx context.Context, onlyActive bool) (int64, error) {
	filter := bson.M{}
	if onlyActive {
		filter["is_active"] = true
	}
	return r.coll.CountDocuments(ctx, filter)
}

// CountCreatedSince counts admins created within the last cutoffDays days.
func (r *MongoAdminRepo) CountCreatedSince(ctx context.Context, cutoffDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -cutoffDays)
	return r.coll.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": cutoff}})
}

// RoleDistribution returns the number of admins per admin role.
func (r *MongoAdminRepo) RoleDistribution(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$admin_role", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	distribution := make(map[string]int64)
	for cursor.Next(ctx) {
		var row struct {
			Role  string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		distribution[row.Role] = row.Count
	}
	return distribution, cursor.Err()
}
