package postgres

import (
	"context"
	"errors"
	"time"

	employeeDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/employee"
	notificationDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/notification"
	orgunitDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/orgunit"
	residencetitleDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/residencetitle"
	"github.com/stayfix/stayfix/internal/employee"
	"github.com/stayfix/stayfix/internal/residencetitle"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) List(ctx context.Context, userID, status, orgUnitID string) ([]*employeeDatamodel.Employee, error) {
	var rows []*employeeDatamodel.Employee
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if orgUnitID != "" {
		q = q.Where("org_unit_id = ?", orgUnitID)
	}
	err := q.Order("created_at ASC").Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *EmployeeRepository) GetByID(ctx context.Context, userID, id string) (*employeeDatamodel.Employee, error) {
	var row employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, row *employeeDatamodel.Employee) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *EmployeeRepository) Update(ctx context.Context, row *employeeDatamodel.Employee) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *EmployeeRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&employeeDatamodel.Employee{}).Error
}

func (r *EmployeeRepository) UpdateDocuments(ctx context.Context, userID, id string, docs []employee.Document) error {
	return r.db.WithContext(ctx).
		Model(&employeeDatamodel.Employee{}).
		Where("id = ? AND user_id = ?", id, userID).
		Select("document_urls", "updated_at").
		Updates(&employeeDatamodel.Employee{DocumentURLs: docs, UpdatedAt: time.Now()}).Error
}

// References answers ownership questions about records an employee points at.
type References struct {
	db *gorm.DB
}

func NewReferences(db *gorm.DB) employee.ReferenceChecker {
	return &References{db: db}
}

func (r *References) RuleExists(ctx context.Context, userID, id string) (bool, error) {
	return r.exists(ctx, &notificationDatamodel.Rule{}, userID, id)
}

func (r *References) OrgUnitExists(ctx context.Context, userID, id string) (bool, error) {
	return r.exists(ctx, &orgunitDatamodel.OrgUnit{}, userID, id)
}

func (r *References) ResidenceTitle(ctx context.Context, userID, id string) (*residencetitle.ResidenceTitle, error) {
	var row residencetitleDatamodel.ResidenceTitle
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return residencetitle.FromDataModel(&row), nil
}

func (r *References) exists(ctx context.Context, model interface{}, userID, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Where("id = ? AND user_id = ?", id, userID).Count(&count).Error
	return count > 0, err
}
