package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/campushq/campus/core/faculty"
)

type facultyRepository struct {
	db *facultyTable
}

var _ faculty.Repository = (*facultyRepository)(nil) // interface compliance check

func NewFacultyRepository(db *DB) faculty.Repository {
	return &facultyRepository{db: db.faculty}
}

func (repo *facultyRepository) query() []faculty.Faculty {
	members := make([]faculty.Faculty, 0, len(repo.db.table))
	for _, fac := range repo.db.table {
		members = append(members, *fac)
	}
	return members
}

func (repo *facultyRepository) CreateFaculty(ctx context.Context, fac faculty.Faculty) (faculty.Faculty, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.table {
		if existing.Email == fac.Email {
			return faculty.Faculty{}, faculty.ErrEmailExists
		}
	}

	fac.ID = uuid.New().String()
	repo.db.table[fac.ID] = &fac
	return fac, nil
}

func (repo *facultyRepository) GetFacultyByID(ctx context.Context, id string) (faculty.Faculty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if fac, ok := repo.db.table[id]; ok {
		return *fac, nil
	}
	return faculty.Faculty{}, faculty.ErrNotFound
}

func (repo *facultyRepository) GetFacultyByEmail(ctx context.Context, email string) (faculty.Faculty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, fac := range repo.query() {
		if fac.Email == email {
			return fac, nil
		}
	}
	return faculty.Faculty{}, faculty.ErrNotFound
}

func (repo *facultyRepository) QueryAllFaculty(ctx context.Context) ([]faculty.Faculty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	members := repo.query()
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members, nil
}

func (repo *facultyRepository) UpdateFaculty(ctx context.Context, fac faculty.Faculty) (faculty.Faculty, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[fac.ID]; !ok {
		return faculty.Faculty{}, faculty.ErrNotFound
	}
	for _, existing := range repo.db.table {
		if existing.ID != fac.ID && existing.Email == fac.Email {
			return faculty.Faculty{}, faculty.ErrEmailExists
		}
	}
	repo.db.table[fac.ID] = &fac
	return fac, nil
}

func (repo *facultyRepository) DeleteFaculty(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table, id)
	return nil
}
