package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/miniplayinc/miniplay-backend/internal/apperror"
	"github.com/miniplayinc/miniplay-backend/internal/entity"
)

type InvitationRepository interface {
	Create(ctx context.Context, invitation *entity.GameInvitation) error
	Update(ctx context.Context, invitation *entity.GameInvitation) error

	GetByID(ctx context.Context, id uint) (*entity.GameInvitation, error)
	GetByIDLocked(ctx context.Context, id uint) (*entity.GameInvitation, error)

	FindPendingDuplicate(ctx context.Context, inviterID, invitedUserID, gameID uint) (*entity.GameInvitation, error)
	FindPendingFor(ctx context.Context, userID uint, now time.Time) ([]entity.GameInvitation, error)
}

type invitationRepository struct {
	conn *gorm.DB
}

func NewInvitationRepository(conn *gorm.DB) InvitationRepository {
	return &invitationRepository{conn: conn}
}

func (that *invitationRepository) Create(ctx context.Context, invitation *entity.GameInvitation) error {
	if err := that.conn.WithContext(ctx).Create(invitation).Error; err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}

	return nil
}

func (that *invitationRepository) Update(ctx context.Context, invitation *entity.GameInvitation) error {
	if err := that.conn.WithContext(ctx).Save(invitation).Error; err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}

	return nil
}

func (that *invitationRepository) GetByID(ctx context.Context, id uint) (*entity.GameInvitation, error) {
	var invitation entity.GameInvitation

	err := that.conn.WithContext(ctx).
		Preload("Inviter").
		Preload("Game").
		First(&invitation, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation by id: %w", err)
	}

	return &invitation, nil
}

func (that *invitationRepository) GetByIDLocked(ctx context.Context, id uint) (*entity.GameInvitation, error) {
	var invitation entity.GameInvitation

	err := that.conn.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&invitation, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock invitation by id: %w", err)
	}

	return &invitation, nil
}

func (that *invitationRepository) FindPendingDuplicate(ctx context.Context, inviterID, invitedUserID, gameID uint) (*entity.GameInvitation, error) {
	var invitation entity.GameInvitation

	err := that.conn.WithContext(ctx).
		Where("inviter_id = ? AND invited_user_id = ? AND game_id = ? AND status = ?",
			inviterID, invitedUserID, gameID, entity.InvitationStatusPending).
		First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pending invitation: %w", err)
	}

	return &invitation, nil
}

func (that *invitationRepository) FindPendingFor(ctx context.Context, userID uint, now time.Time) ([]entity.GameInvitation, error) {
	var invitations []entity.GameInvitation

	err := that.conn.WithContext(ctx).
		Preload("Inviter").
		Preload("Game").
		Where("invited_user_id = ? AND status = ? AND expires_at > ?",
			userID, entity.InvitationStatusPending, now).
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending invitations: %w", err)
	}

	return invitations, nil
}
