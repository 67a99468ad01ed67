package dummydb

import (
	"sync"

	"github.com/campushq/campus/core/admission"
	"github.com/campushq/campus/core/catalog"
	"github.com/campushq/campus/core/document"
	"github.com/campushq/campus/core/faculty"
	"github.com/campushq/campus/core/notification"
	"github.com/campushq/campus/core/payment"
	"github.com/campushq/campus/core/result"
	"github.com/campushq/campus/core/student"
)

type (
	DB struct {
		student      *studentTable
		faculty      *facultyTable
		result       *resultTable
		notification *notificationTable
		admission    *admissionTable
		catalog      *catalogTables
		document     *documentTable
		payment      *paymentTable
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	facultyTable struct {
		sync.RWMutex
		table map[string]*faculty.Faculty
	}

	resultTable struct {
		sync.RWMutex
		table map[string]*result.Result
	}

	notificationTable struct {
		sync.RWMutex
		table map[string]*notification.Notification
	}

	admissionTable struct {
		sync.RWMutex
		table map[string]*admission.Admission
	}

	catalogTables struct {
		sync.RWMutex
		departments map[string]*catalog.Department
		categories  map[string]*catalog.Category
		courses     map[string]*catalog.Course
	}

	documentTable struct {
		sync.RWMutex
		table map[string]*document.Document
	}

	paymentTable struct {
		sync.RWMutex
		table map[string]*payment.Payment
	}
)

func Open() (*DB, error) {
	db := &DB{
		student:      &studentTable{table: make(map[string]*student.Student)},
		faculty:      &facultyTable{table: make(map[string]*faculty.Faculty)},
		result:       &resultTable{table: make(map[string]*result.Result)},
		notification: &notificationTable{table: make(map[string]*notification.Notification)},
		admission:    &admissionTable{table: make(map[string]*admission.Admission)},
		catalog: &catalogTables{
			departments: make(map[string]*catalog.Department),
			categories:  make(map[string]*catalog.Category),
			courses:     make(map[string]*catalog.Course),
		},
		document: &documentTable{table: make(map[string]*document.Document)},
		payment:  &paymentTable{table: make(map[string]*payment.Payment)},
	}
	return db, nil
}
