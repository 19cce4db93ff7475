package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/miniplayinc/miniplay-backend/internal/repository/storage"
)

// Repositories bundles the relational repositories. Services receive this
// struct both for plain reads and, through Store.WithinTx, rebound to a
// transaction for atomic read-validate-write sequences.
type Repositories struct {
	Users       UserRepository
	Games       GameRepository
	Rooms       RoomRepository
	Invitations InvitationRepository
	Friendships FriendshipRepository
	Scores      ScoreRepository
}

func newRepositories(conn *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(conn),
		Games:       NewGameRepository(conn),
		Rooms:       NewRoomRepository(conn),
		Invitations: NewInvitationRepository(conn),
		Friendships: NewFriendshipRepository(conn),
		Scores:      NewScoreRepository(conn),
	}
}

// Store is the unit-of-work entry point over the postgres storage.
type Store struct {
	*Repositories

	conn *gorm.DB
}

func NewStore(db *storage.PostgresStorage) *Store {
	return &Store{
		Repositories: newRepositories(db.Connection),
		conn:         db.Connection,
	}
}

func (that *Store) Repos() *Repositories {
	return that.Repositories
}

// WithinTx runs fn with repositories bound to a single database
// transaction. Row locks taken inside are held until fn returns.
func (that *Store) WithinTx(ctx context.Context, fn func(repos *Repositories) error) error {
	err := that.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}
