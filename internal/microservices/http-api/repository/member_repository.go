package repository

import (
	"context"
	"fmt"

	"libraryhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	Update(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id string) (*models.Member, error)
	List(ctx context.Context) ([]models.Member, error)
	SearchByName(ctx context.Context, query string) ([]models.Member, error)
	Delete(ctx context.Context, id string) error
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return fmt.Errorf("create member: %w", translate(err))
	}
	return nil
}

func (r *memberRepository) Update(ctx context.Context, member *models.Member) error {
	result := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ?", member.ID).
		Updates(map[string]interface{}{
			"name":  member.Name,
			"email": member.Email,
		})
	if result.Error != nil {
		return fmt.Errorf("update member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update member: %w", ErrRecordNotFound)
	}
	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get member: %w", translate(err))
	}
	return &member, nil
}

func (r *memberRepository) List(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// SearchByName matches the query anywhere in the member's name, ignoring case.
func (r *memberRepository) SearchByName(ctx context.Context, query string) ([]models.Member, error) {
	var members []models.Member
	if err := r.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(query)).
		Order("name ASC").
		Find(&members).Error; err != nil {
		return nil, fmt.Errorf("search members: %w", err)
	}
	return members, nil
}

func (r *memberRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Member{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete member: %w", ErrRecordNotFound)
	}
	return nil
}
