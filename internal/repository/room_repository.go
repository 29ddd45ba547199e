package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bekzod-dev/maktab-api/internal/models"
)

// RoomRepository reads bookable rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new room repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ListByBranch returns all rooms at a branch ordered by name.
func (r *RoomRepository) ListByBranch(ctx context.Context, branchID string) ([]models.Room, error) {
	const query = `SELECT id, branch_id, name, capacity FROM rooms WHERE branch_id = $1 ORDER BY name ASC`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, branchID); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}
