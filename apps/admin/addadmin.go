package main

import (
	"context"
	"time"

	"github.com/campushq/campus/core"
	"github.com/campushq/campus/core/student"
)

// addAdmin creates an admin account, or promotes an existing account
// and resets its password.
func (cli *commandLine) addAdmin(roll, name, email, pwd string) error {
	ctx := context.Background()
	roll = core.CleanString(roll, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	std, err := cli.studentRepo.GetStudentByRollNumber(ctx, roll)
	if err != nil {
		if err != student.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		std = student.Student{
			RollNumber: roll,
			Name:       core.CleanString(name),
			Email:      email,
			Role:       student.RoleAdmin,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := std.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.studentRepo.CreateStudent(ctx, std)
		return err
	}

	std.Role = student.RoleAdmin
	std.UpdatedAt = time.Now().UTC()
	if err := std.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.studentRepo.UpdateStudent(ctx, std)
	return err
}
