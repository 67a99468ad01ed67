package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campushq/campus/core"
	"github.com/campushq/campus/core/admission"
	"github.com/campushq/campus/core/catalog"
	"github.com/campushq/campus/core/document"
	"github.com/campushq/campus/core/faculty"
	"github.com/campushq/campus/core/notification"
	"github.com/campushq/campus/core/payment"
	"github.com/campushq/campus/core/result"
	"github.com/campushq/campus/core/student"
	dummydb "github.com/campushq/campus/storage/database/dummy"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []core.EmailMessage
}

func (f *fakeMailer) Send(ctx context.Context, msg *core.EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, *msg)
	return nil
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// studentDirectory resolves notification recipients from the student table.
type studentDirectory struct {
	svc  *student.Service
	kind notification.Kind
	role string
}

func (d *studentDirectory) Email(ctx context.Context, id string) (string, error) {
	std, err := d.svc.GetByID(ctx, id)
	if err != nil {
		return "", nil
	}
	return std.Email, nil
}

func (d *studentDirectory) List(ctx context.Context) ([]notification.Recipient, error) {
	var students []student.Student
	var err error
	if d.role == student.RoleAdmin {
		students, err = d.svc.QueryAdmins(ctx)
	} else {
		students, err = d.svc.QueryAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	recipients := make([]notification.Recipient, 0, len(students))
	for _, std := range students {
		recipients = append(recipients, notification.Recipient{ID: std.ID, Kind: d.kind})
	}
	return recipients, nil
}

type facultyDirectory struct {
	svc *faculty.Service
}

func (d *facultyDirectory) Email(ctx context.Context, id string) (string, error) {
	fac, err := d.svc.GetByID(ctx, id)
	if err != nil {
		return "", nil
	}
	return fac.Email, nil
}

func (d *facultyDirectory) List(ctx context.Context) ([]notification.Recipient, error) {
	members, err := d.svc.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	recipients := make([]notification.Recipient, 0, len(members))
	for _, fac := range members {
		recipients = append(recipients, notification.Recipient{ID: fac.ID, Kind: notification.KindFaculty})
	}
	return recipients, nil
}

// admissionSeeder is the slice of the dummy repo the tests arrange state through.
type admissionSeeder interface {
	SeedAdmission(admission.Admission) admission.Admission
}

type testEnv struct {
	server *Server
	conf   *core.Config
	db     *dummydb.DB
	mailer *fakeMailer

	studentSvc   *student.Service
	admissionDB  admissionSeeder
	adminToken   string
	studentToken string
}

func newTestEnv(t *testing.T) *testEnv {
	conf := &core.Config{
		Env:              "TEST",
		TestMode:         true,
		AppName:          "Campus",
		SecretKey:        "test-secret",
		DefaultFromEmail: mail.Address{Name: "Campus", Address: "noreply@test.test"},
	}
	conf.Server.JWTExpirationDelta = time.Hour

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	mailer := &fakeMailer{}
	logger := nopLogger{}

	validate, translator := core.NewValidator()
	core.InitValidators(validate, translator)
	student.RegisterValidators(validate)
	faculty.RegisterValidators(validate)

	studentSvc := student.NewService(dummydb.NewStudentRepository(db))
	facultySvc := faculty.NewService(dummydb.NewFacultyRepository(db), mailer, logger)
	notificationSvc, err := notification.NewService(
		dummydb.NewNotificationRepository(db), mailer, logger,
		map[notification.Kind]notification.Directory{
			notification.KindStudent: &studentDirectory{svc: studentSvc, kind: notification.KindStudent, role: student.RoleStudent},
			notification.KindFaculty: &facultyDirectory{svc: facultySvc},
			notification.KindAdmin:   &studentDirectory{svc: studentSvc, kind: notification.KindAdmin, role: student.RoleAdmin},
		},
	)
	if err != nil {
		t.Fatalf("notification.NewService() failed: %v", err)
	}
	admissionRepo := dummydb.NewAdmissionRepository(db)
	resultSvc := result.NewService(dummydb.NewResultRepository(db), studentSvc, notificationSvc, logger)
	admissionSvc := admission.NewService(admissionRepo, mailer, notificationSvc, logger)
	catalogSvc := catalog.NewService(dummydb.NewCatalogRepository(db))
	documentSvc := document.NewService(dummydb.NewDocumentRepository(db))
	paymentSvc := payment.NewService(dummydb.NewPaymentRepository(db))

	server := NewServer(ServerDeps{
		Conf:            conf,
		Logger:          logger,
		StudentSvc:      studentSvc,
		FacultySvc:      facultySvc,
		ResultSvc:       resultSvc,
		NotificationSvc: notificationSvc,
		AdmissionSvc:    admissionSvc,
		CatalogSvc:      catalogSvc,
		DocumentSvc:     documentSvc,
		PaymentSvc:      paymentSvc,
		Validate:        validate,
		Translator:      translator,
	})

	env := &testEnv{
		server:      server,
		conf:        conf,
		db:          db,
		mailer:      mailer,
		studentSvc:  studentSvc,
		admissionDB: admissionRepo,
	}
	env.adminToken = env.tokenFor(t, env.createStudent(t, "adm001", "Head Admin", "admin@test.test", student.RoleAdmin))
	env.studentToken = env.tokenFor(t, env.createStudent(t, "std001", "Aisha", "aisha@test.test", student.RoleStudent))
	return env
}

func (env *testEnv) createStudent(t *testing.T, roll, name, email, role string) student.Student {
	std, err := env.studentSvc.Create(context.Background(), student.NewStudent{
		RollNumber: roll,
		Name:       name,
		Email:      email,
		Password:   "S3cureP@ss",
	})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	if role != student.RoleStudent {
		// promote directly; role is not settable through the service
		std.Role = role
		std, err = dummydb.NewStudentRepository(env.db).UpdateStudent(context.Background(), std)
		if err != nil {
			t.Fatalf("createStudent() failed: %v", err)
		}
	}
	return std
}

func (env *testEnv) tokenFor(t *testing.T, std student.Student) string {
	token, err := GenerateToken(env.conf, GetStudentClaims(env.conf, std))
	if err != nil {
		t.Fatalf("tokenFor() failed: %v", err)
	}
	return token
}

func (env *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("request() failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echoHeaderContentType, "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	return rec
}

const echoHeaderContentType = "Content-Type"

func TestResultAPI_upload(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]interface{}{
		"roll_number": "std001",
		"term":        1,
		"total_marks": 450,
		"subjects":    []map[string]interface{}{{"name": "Maths", "marks": 95, "max_marks": 100}},
	}

	rec := env.request(t, http.MethodPost, "/v1/results", env.adminToken, body)
	if !assert.Equal(t, http.StatusCreated, rec.Code) {
		t.Fatalf("body: %s", rec.Body.String())
	}

	var res result.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshalling response failed: %v", err)
	}
	assert.Equal(t, float64(90), res.Percentage)
	assert.Equal(t, "A+", res.Grade)
	assert.Equal(t, result.StatusPass, res.Status)

	// the student got one email
	if assert.Len(t, env.mailer.sent, 1) {
		assert.Equal(t, "aisha@test.test", env.mailer.sent[0].To[0].Address)
		assert.Equal(t, "Result Uploaded", env.mailer.sent[0].Subject)
	}

	// duplicate upload for the same (rollNumber, term) conflicts
	rec = env.request(t, http.MethodPost, "/v1/results", env.adminToken, body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// listing by roll number returns the single stored result
	rec = env.request(t, http.MethodGet, "/v1/results/std001", env.adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var results []result.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("unmarshalling response failed: %v", err)
	}
	assert.Len(t, results, 1)
}

func TestResultAPI_upload_validationAndAuth(t *testing.T) {
	env := newTestEnv(t)

	// missing required fields
	rec := env.request(t, http.MethodPost, "/v1/results", env.adminToken, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown student
	rec = env.request(t, http.MethodPost, "/v1/results", env.adminToken, map[string]interface{}{
		"roll_number": "missing", "term": 1, "total_marks": 300,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// no token
	rec = env.request(t, http.MethodPost, "/v1/results", "", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// non-admin token
	rec = env.request(t, http.MethodPost, "/v1/results", env.studentToken, map[string]interface{}{
		"roll_number": "std001", "term": 1, "total_marks": 300,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdmissionAPI_decide(t *testing.T) {
	env := newTestEnv(t)

	adm := env.admissionDB.SeedAdmission(admission.Admission{
		StudentID:    "std-1",
		CourseID:     "crs-1",
		AppliedAt:    time.Now().UTC(),
		StudentName:  "Aisha",
		StudentEmail: "aisha@test.test",
		CourseName:   "BSc Computer Science",
	})

	rec := env.request(t, http.MethodPut, "/v1/admissions/"+adm.ID+"/decision", env.adminToken,
		map[string]string{"status": "approved"})
	if !assert.Equal(t, http.StatusOK, rec.Code) {
		t.Fatalf("body: %s", rec.Body.String())
	}

	var decided admission.Admission
	if err := json.Unmarshal(rec.Body.Bytes(), &decided); err != nil {
		t.Fatalf("unmarshalling response failed: %v", err)
	}
	assert.Equal(t, admission.StatusApproved, decided.Status)

	if assert.Len(t, env.mailer.sent, 1) {
		assert.Contains(t, env.mailer.sent[0].Body, "Please pay the full fee.")
	}

	// a second decision conflicts
	rec = env.request(t, http.MethodPut, "/v1/admissions/"+adm.ID+"/decision", env.adminToken,
		map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// invalid status fails validation
	rec = env.request(t, http.MethodPut, "/v1/admissions/"+adm.ID+"/decision", env.adminToken,
		map[string]string{"status": "maybe"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotificationAPI_dispatchAndQuery(t *testing.T) {
	env := newTestEnv(t)

	std, err := env.studentSvc.GetByRollNumber(context.Background(), "std001")
	if err != nil {
		t.Fatalf("GetByRollNumber() failed: %v", err)
	}

	rec := env.request(t, http.MethodPost, "/v1/notifications", env.adminToken, map[string]interface{}{
		"recipients": []map[string]string{{"id": std.ID, "kind": "student"}},
		"message":    "Welcome to the new term",
		"channel":    "both",
	})
	if !assert.Equal(t, http.StatusOK, rec.Code) {
		t.Fatalf("body: %s", rec.Body.String())
	}

	var report notification.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshalling response failed: %v", err)
	}
	assert.Len(t, report.Notifications, 1)
	assert.Equal(t, 1, report.Delivered())
	assert.Len(t, env.mailer.sent, 1)

	// the student sees their own notice
	rec = env.request(t, http.MethodGet, "/v1/notifications", env.studentToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var notices []notification.Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &notices); err != nil {
		t.Fatalf("unmarshalling response failed: %v", err)
	}
	if assert.Len(t, notices, 1) {
		assert.Equal(t, "Welcome to the new term", notices[0].Message)
	}

	// students cannot dispatch
	rec = env.request(t, http.MethodPost, "/v1/notifications", env.studentToken, map[string]interface{}{
		"recipients": []map[string]string{{"id": std.ID, "kind": "student"}},
		"message":    "nope",
		"channel":    "in-app",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestNotificationAPI_broadcast(t *testing.T) {
	env := newTestEnv(t)
	env.createStudent(t, "std002", "Bilal", "bilal@test.test", student.RoleStudent)

	rec := env.request(t, http.MethodPost, "/v1/notifications/broadcast", env.adminToken, map[string]interface{}{
		"kind":          "student",
		"message":       "Holiday on Friday",
		"channel":       "both",
		"email_subject": "Holiday Notice",
	})
	if !assert.Equal(t, http.StatusOK, rec.Code) {
		t.Fatalf("body: %s", rec.Body.String())
	}

	var report notification.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshalling response failed: %v", err)
	}
	// both students, not the admin
	assert.Len(t, report.Notifications, 2)
	assert.Len(t, env.mailer.sent, 2)
}

func TestFacultyAPI_create_duplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{
		"name":       "Prof. Verma",
		"email":      "verma@test.test",
		"department": "Physics",
		"password":   "S3cureP@ss",
	}
	rec := env.request(t, http.MethodPost, "/v1/faculty", env.adminToken, body)
	if !assert.Equal(t, http.StatusCreated, rec.Code) {
		t.Fatalf("body: %s", rec.Body.String())
	}

	rec = env.request(t, http.MethodPost, "/v1/faculty", env.adminToken, body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCatalogAPI_courseNeedsDepartmentAndCategory(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/v1/courses", env.adminToken, map[string]string{
		"name": "BSc CS", "department_name": "Science", "category_name": "Undergraduate",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.request(t, http.MethodPost, "/v1/departments", env.adminToken, map[string]string{"name": "Science"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec = env.request(t, http.MethodPost, "/v1/categories", env.adminToken, map[string]string{"name": "Undergraduate"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = env.request(t, http.MethodPost, "/v1/courses", env.adminToken, map[string]string{
		"name": "BSc CS", "department_name": "Science", "category_name": "Undergraduate",
	})
	if !assert.Equal(t, http.StatusCreated, rec.Code) {
		t.Fatalf("body: %s", rec.Body.String())
	}

	var crs catalog.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &crs); err != nil {
		t.Fatalf("unmarshalling response failed: %v", err)
	}
	assert.Equal(t, "Science", crs.DepartmentName)

	// duplicate department conflicts
	rec = env.request(t, http.MethodPost, "/v1/departments", env.adminToken, map[string]string{"name": "Science"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDocumentAPI_filter(t *testing.T) {
	env := newTestEnv(t)

	for _, title := range []string{"Term 1 Syllabus", "Term 2 Syllabus", "Campus Map"} {
		rec := env.request(t, http.MethodPost, "/v1/documents", env.adminToken, map[string]interface{}{
			"type":     document.TypeSyllabus,
			"title":    title,
			"file_url": "https://cdn.test.test/" + title,
		})
		if !assert.Equal(t, http.StatusCreated, rec.Code) {
			t.Fatalf("body: %s", rec.Body.String())
		}
	}

	rec := env.request(t, http.MethodGet, "/v1/documents?search=syllabus&page=1&limit=2", env.studentToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var page document.Page
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("unmarshalling response failed: %v", err)
	}
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 1, page.Pages)
}

func TestPaymentAPI_listAndRetrieve(t *testing.T) {
	env := newTestEnv(t)

	pmt := dummydb.NewPaymentRepository(env.db).SeedPayment(payment.Payment{
		StudentID:   "std-1",
		Amount:      1500,
		Status:      payment.StatusCompleted,
		StudentName: "Aisha",
		CreatedAt:   time.Now().UTC(),
	})

	rec := env.request(t, http.MethodGet, "/v1/payments", env.adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var payments []payment.Payment
	if err := json.Unmarshal(rec.Body.Bytes(), &payments); err != nil {
		t.Fatalf("unmarshalling response failed: %v", err)
	}
	assert.Len(t, payments, 1)

	rec = env.request(t, http.MethodGet, "/v1/payments/"+pmt.ID, env.adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, "/v1/payments/missing", env.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// payments are an admin surface
	rec = env.request(t, http.MethodGet, "/v1/payments", env.studentToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPI_notFoundMapping(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/v1/students/00000000-0000-0000-0000-000000000000", env.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
