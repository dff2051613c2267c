package repos

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/access"
	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

type DonationFilter struct {
	ProjectID uuid.UUID
}

// MonthlyTotal is one point of the dashboard donation series.
type MonthlyTotal struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
}

type DonationRepo interface {
	Create(dbc dbctx.Context, rows []*domain.Donation) ([]*domain.Donation, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Donation, error)
	List(dbc dbctx.Context, scope access.Scope, filter DonationFilter) ([]*domain.Donation, error)
	ExistsByProject(dbc dbctx.Context, projectID uuid.UUID) (bool, error)
	Delete(dbc dbctx.Context, row *domain.Donation) error
	SumAmounts(dbc dbctx.Context, scope access.Scope, since *time.Time) (decimal.Decimal, error)
	MonthlyTotals(dbc dbctx.Context, scope access.Scope, since time.Time) ([]MonthlyTotal, error)
}

type donationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDonationRepo(db *gorm.DB, log *logger.Logger) DonationRepo {
	return &donationRepo{db: db, log: log.With("repo", "DonationRepo")}
}

func (r *donationRepo) Create(dbc dbctx.Context, rows []*domain.Donation) ([]*domain.Donation, error) {
	if len(rows) == 0 {
		return []*domain.Donation{}, nil
	}
	if err := session(dbc, r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	if dbc.Changes != nil {
		for _, row := range rows {
			dbc.Changes.RecordCreate(row)
		}
	}
	return rows, nil
}

func (r *donationRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Donation, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing donation id")
	}
	var out domain.Donation
	if err := session(dbc, r.db).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *donationRepo) List(dbc dbctx.Context, scope access.Scope, filter DonationFilter) ([]*domain.Donation, error) {
	q := session(dbc, r.db).Model(&domain.Donation{})
	q = scope.FilterDonations(q)
	if filter.ProjectID != uuid.Nil {
		q = q.Where("project_id = ?", filter.ProjectID)
	}
	var out []*domain.Donation
	if err := q.Order("donated_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *donationRepo) ExistsByProject(dbc dbctx.Context, projectID uuid.UUID) (bool, error) {
	if projectID == uuid.Nil {
		return false, fmt.Errorf("missing project id")
	}
	var n int64
	if err := session(dbc, r.db).
		Model(&domain.Donation{}).
		Where("project_id = ?", projectID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *donationRepo) Delete(dbc dbctx.Context, row *domain.Donation) error {
	if row == nil || row.ID == uuid.Nil {
		return fmt.Errorf("missing donation")
	}
	if err := session(dbc, r.db).
		Where("id = ?", row.ID).
		Delete(&domain.Donation{}).Error; err != nil {
		return err
	}
	if dbc.Changes != nil {
		dbc.Changes.RecordDelete(row)
	}
	return nil
}

func (r *donationRepo) SumAmounts(dbc dbctx.Context, scope access.Scope, since *time.Time) (decimal.Decimal, error) {
	q := session(dbc, r.db).Model(&domain.Donation{})
	q = scope.FilterDonations(q)
	if since != nil {
		q = q.Where("donated_at >= ?", *since)
	}
	var total decimal.NullDecimal
	if err := q.Select("SUM(amount)").Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *donationRepo) MonthlyTotals(dbc dbctx.Context, scope access.Scope, since time.Time) ([]MonthlyTotal, error) {
	q := session(dbc, r.db).Model(&domain.Donation{})
	q = scope.FilterDonations(q)
	var out []MonthlyTotal
	if err := q.
		Select("EXTRACT(YEAR FROM donated_at)::int AS year, EXTRACT(MONTH FROM donated_at)::int AS month, SUM(amount) AS total").
		Where("donated_at >= ?", since).
		Group("1, 2").
		Order("1 ASC, 2 ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
