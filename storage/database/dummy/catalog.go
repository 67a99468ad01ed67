package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/campushq/campus/core/catalog"
)

type catalogRepository struct {
	db *catalogTables
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *DB) catalog.Repository {
	return &catalogRepository{db: db.catalog}
}

func (repo *catalogRepository) CreateDepartment(ctx context.Context, dep catalog.Department) (catalog.Department, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.departments {
		if existing.Name == dep.Name {
			return catalog.Department{}, catalog.ErrDepartmentExists
		}
	}
	dep.ID = uuid.New().String()
	repo.db.departments[dep.ID] = &dep
	return dep, nil
}

func (repo *catalogRepository) GetDepartmentByName(ctx context.Context, name string) (catalog.Department, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, dep := range repo.db.departments {
		if dep.Name == name {
			return *dep, nil
		}
	}
	return catalog.Department{}, catalog.ErrDepartmentNotFound
}

func (repo *catalogRepository) QueryAllDepartments(ctx context.Context) ([]catalog.Department, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	deps := make([]catalog.Department, 0, len(repo.db.departments))
	for _, dep := range repo.db.departments {
		deps = append(deps, *dep)
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	return deps, nil
}

func (repo *catalogRepository) CreateCategory(ctx context.Context, cat catalog.Category) (catalog.Category, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.categories {
		if existing.Name == cat.Name {
			return catalog.Category{}, catalog.ErrCategoryExists
		}
	}
	cat.ID = uuid.New().String()
	repo.db.categories[cat.ID] = &cat
	return cat, nil
}

func (repo *catalogRepository) GetCategoryByName(ctx context.Context, name string) (catalog.Category, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, cat := range repo.db.categories {
		if cat.Name == name {
			return *cat, nil
		}
	}
	return catalog.Category{}, catalog.ErrCategoryNotFound
}

func (repo *catalogRepository) QueryAllCategories(ctx context.Context) ([]catalog.Category, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	cats := make([]catalog.Category, 0, len(repo.db.categories))
	for _, cat := range repo.db.categories {
		cats = append(cats, *cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	return cats, nil
}

func (repo *catalogRepository) CreateCourse(ctx context.Context, crs catalog.Course) (catalog.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	crs.ID = uuid.New().String()
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

// populate fills the department/category names from the referenced records.
func (repo *catalogRepository) populate(crs catalog.Course) catalog.Course {
	if dep, ok := repo.db.departments[crs.DepartmentID]; ok {
		crs.DepartmentName = dep.Name
	}
	if cat, ok := repo.db.categories[crs.CategoryID]; ok {
		crs.CategoryName = cat.Name
	}
	return crs
}

func (repo *catalogRepository) GetCourseByID(ctx context.Context, id string) (catalog.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.courses[id]; ok {
		return repo.populate(*crs), nil
	}
	return catalog.Course{}, catalog.ErrCourseNotFound
}

func (repo *catalogRepository) QueryAllCourses(ctx context.Context) ([]catalog.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]catalog.Course, 0, len(repo.db.courses))
	for _, crs := range repo.db.courses {
		courses = append(courses, repo.populate(*crs))
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Name < courses[j].Name })
	return courses, nil
}

func (repo *catalogRepository) UpdateCourse(ctx context.Context, crs catalog.Course) (catalog.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.courses[crs.ID]; !ok {
		return catalog.Course{}, catalog.ErrCourseNotFound
	}
	repo.db.courses[crs.ID] = &crs
	return repo.populate(crs), nil
}

func (repo *catalogRepository) DeleteCourse(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.courses, id)
	return nil
}
