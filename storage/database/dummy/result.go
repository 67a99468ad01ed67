package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/campushq/campus/core/result"
)

type resultRepository struct {
	db *resultTable
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(db *DB) result.Repository {
	return &resultRepository{db: db.result}
}

// CreateResult checks (RollNumber, Term) uniqueness and inserts under one
// write lock, so concurrent duplicate uploads cannot both succeed.
func (repo *resultRepository) CreateResult(ctx context.Context, res result.Result) (result.Result, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.table {
		if existing.RollNumber == res.RollNumber && existing.Term == res.Term {
			return result.Result{}, result.ErrExists
		}
	}

	res.ID = uuid.New().String()
	repo.db.table[res.ID] = &res
	return res, nil
}

func (repo *resultRepository) GetResultByID(ctx context.Context, id string) (result.Result, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if res, ok := repo.db.table[id]; ok {
		return *res, nil
	}
	return result.Result{}, result.ErrNotFound
}

func (repo *resultRepository) QueryResultsByRollNumber(ctx context.Context, rollNumber string) ([]result.Result, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	results := make([]result.Result, 0)
	for _, res := range repo.db.table {
		if res.RollNumber == rollNumber {
			results = append(results, *res)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Term < results[j].Term })
	return results, nil
}
