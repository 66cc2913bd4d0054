package adminRepo

import (
	"context"

	"heallink/database"
	"heallink/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AdminRepository defines data access for admin accounts.
type AdminRepository interface {
	// Create inserts a new admin record.
	Create(ctx context.Context, admin *models.AdminUser) error
	// GetByID retrieves an admin by its unique ID.
	GetByID(ctx context.Context, id string) (*models.AdminUser, error)
	// GetByEmail retrieves an admin by its email address.
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	// Update modifies an existing admin record.
	Update(ctx context.Context, admin *models.AdminUser) error
	// Delete removes an admin record by its ID.
	Delete(ctx context.Context, id string) error
	// List returns a filtered, sorted, paginated page of admins plus the total match count.
	List(ctx context.Context, params models.AdminQueryParams) ([]models.AdminUser, int64, error)
	// Count returns the number of admins matching the filter; a nil filter counts all.
	Count(ctx context.Context, onlyActive bool) (int64, error)
	// CountCreatedSince counts admins created at or after the cutoff.
	CountCreatedSince(ctx context.Context, cutoffDays int) (int64, error)
	// RoleDistribution returns the number of admins per admin role.
	RoleDistribution(ctx context.Context) (map[string]int64, error)
}

// MongoAdminRepo is the MongoDB implementation of AdminRepository.
type MongoAdminRepo struct {
	coll *mongo.Collection
}

// NewMongoAdminRepo returns a new AdminRepository instance using MongoDB.
func NewMongoAdminRepo() *MongoAdminRepo {
	db := database.MongoClient.Database("heallink")
	repo := &MongoAdminRepo{coll: db.Collection("admins")}
	if err := repo.ensureIndexes(); err != nil {
		// Index creation failures are not fatal; queries degrade to scans.
		logIndexError(err)
	}
	return repo
}
