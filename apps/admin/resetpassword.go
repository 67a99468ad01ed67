package main

import (
	"context"
	"time"

	"github.com/campushq/campus/core"
)

func (cli *commandLine) resetPassword(roll, pwd string) error {
	ctx := context.Background()
	std, err := cli.studentRepo.GetStudentByRollNumber(ctx, core.CleanString(roll, true /* lower */))
	if err != nil {
		return err
	}
	if err := std.SetPassword(pwd); err != nil {
		return err
	}
	std.UpdatedAt = time.Now().UTC()
	_, err = cli.studentRepo.UpdateStudent(ctx, std)
	return err
}
