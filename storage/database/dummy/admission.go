package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/campushq/campus/core/admission"
)

type admissionRepository struct {
	db *admissionTable
}

var _ admission.Repository = (*admissionRepository)(nil) // interface compliance check

func NewAdmissionRepository(db *DB) *admissionRepository {
	return &admissionRepository{db: db.admission}
}

// SeedAdmission inserts an application directly; tests use it to arrange state.
func (repo *admissionRepository) SeedAdmission(adm admission.Admission) admission.Admission {
	repo.db.Lock()
	defer repo.db.Unlock()

	if adm.ID == "" {
		adm.ID = uuid.New().String()
	}
	if adm.Status == "" {
		adm.Status = admission.StatusPending
	}
	repo.db.table[adm.ID] = &adm
	return adm
}

func (repo *admissionRepository) GetAdmissionByID(ctx context.Context, id string) (admission.Admission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if adm, ok := repo.db.table[id]; ok {
		return *adm, nil
	}
	return admission.Admission{}, admission.ErrNotFound
}

func (repo *admissionRepository) QueryAllAdmissions(ctx context.Context) ([]admission.Admission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	admissions := make([]admission.Admission, 0, len(repo.db.table))
	for _, adm := range repo.db.table {
		admissions = append(admissions, *adm)
	}
	sort.Slice(admissions, func(i, j int) bool { return admissions[i].AppliedAt.After(admissions[j].AppliedAt) })
	return admissions, nil
}

func (repo *admissionRepository) UpdateAdmissionStatus(ctx context.Context, id string, status admission.Status, decidedBy string, decidedAt time.Time) (admission.Admission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	adm, ok := repo.db.table[id]
	if !ok {
		return admission.Admission{}, admission.ErrNotFound
	}
	// check-and-set under the lock so concurrent decides cannot both commit
	if adm.Status != admission.StatusPending {
		return admission.Admission{}, admission.ErrDecided
	}
	adm.Status = status
	adm.DecidedBy = decidedBy
	decidedAt = decidedAt.UTC()
	adm.DecidedAt = &decidedAt
	return *adm, nil
}
