package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/campushq/campus/core"
	"github.com/campushq/campus/core/student"
	dummydb "github.com/campushq/campus/storage/database/dummy"
)

func setup(t *testing.T) *commandLine {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("S3cureP@ss"), nil }

	conf := &core.Config{AppName: "Campus", SecretKey: "test-secret"}
	return &commandLine{
		conf:        conf,
		db:          &sqlx.DB{},
		studentRepo: dummydb.NewStudentRepository(db),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func Test_commandLine_run_usage(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no args", args: nil, wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "addadmin: missing flags", args: []string{"addadmin", "-roll", "adm001"}, wantErr: errHelp},
		{name: "resetpassword: missing roll", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "token: missing roll", args: []string{"token"}, wantErr: errHelp},
		{name: "migrate: no subcommand", args: []string{"migrate"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(append([]string{"admin"}, tt.args...))
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(append([]string{"admin"}, tt.args...))
			if tt.wantErrStr != "" {
				assert.EqualError(t, err, tt.wantErrStr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_addAdmin(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	// creates a fresh admin account
	err := cli.run([]string{"admin", "addadmin", "-roll", "ADM001", "-name", "Head Admin", "-email", "Admin@Test.Test"})
	assert.NoError(t, err)

	std, err := cli.studentRepo.GetStudentByRollNumber(ctx, "adm001")
	if assert.NoError(t, err) {
		assert.Equal(t, student.RoleAdmin, std.Role)
		assert.Equal(t, "admin@test.test", std.Email)
		assert.NoError(t, std.CheckPassword("S3cureP@ss"))
	}

	// promotes an existing account
	existing, err := student.NewService(cli.studentRepo).Create(ctx, student.NewStudent{
		RollNumber: "std001",
		Name:       "Aisha",
		Email:      "aisha@test.test",
		Password:   "OldP@ssw0rd",
	})
	if err != nil {
		t.Fatalf("creating student failed: %v", err)
	}
	assert.Equal(t, student.RoleStudent, existing.Role)

	err = cli.run([]string{"admin", "addadmin", "-roll", "std001", "-name", "Aisha", "-email", "aisha@test.test"})
	assert.NoError(t, err)

	std, err = cli.studentRepo.GetStudentByRollNumber(ctx, "std001")
	if assert.NoError(t, err) {
		assert.Equal(t, student.RoleAdmin, std.Role)
		assert.NoError(t, std.CheckPassword("S3cureP@ss"))
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	_, err := student.NewService(cli.studentRepo).Create(ctx, student.NewStudent{
		RollNumber: "std001",
		Name:       "Aisha",
		Email:      "aisha@test.test",
		Password:   "OldP@ssw0rd",
	})
	if err != nil {
		t.Fatalf("creating student failed: %v", err)
	}

	assert.Equal(t, student.ErrNotFound, cli.run([]string{"admin", "resetpassword", "-roll", "missing"}))

	err = cli.run([]string{"admin", "resetpassword", "-roll", "std001"})
	assert.NoError(t, err)

	std, err := cli.studentRepo.GetStudentByRollNumber(ctx, "std001")
	if assert.NoError(t, err) {
		assert.NoError(t, std.CheckPassword("S3cureP@ss"))
		assert.Error(t, std.CheckPassword("OldP@ssw0rd"))
	}
}

func Test_commandLine_token(t *testing.T) {
	cli := setup(t)

	_, err := student.NewService(cli.studentRepo).Create(context.Background(), student.NewStudent{
		RollNumber: "std001",
		Name:       "Aisha",
		Email:      "aisha@test.test",
		Password:   "S3cureP@ss",
	})
	if err != nil {
		t.Fatalf("creating student failed: %v", err)
	}

	assert.Equal(t, student.ErrNotFound, cli.run([]string{"admin", "token", "-roll", "missing"}))
	assert.NoError(t, cli.run([]string{"admin", "token", "-roll", "std001"}))
}
