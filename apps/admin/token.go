package main

import (
	"context"
	"fmt"

	echoapi "github.com/campushq/campus/apps/api/echo"
	"github.com/campushq/campus/core"
)

// printToken issues an API token for the given account, mainly for
// smoke-testing endpoints without going through a login flow.
func (cli *commandLine) printToken(roll string) error {
	std, err := cli.studentRepo.GetStudentByRollNumber(context.Background(), core.CleanString(roll, true /* lower */))
	if err != nil {
		return err
	}
	token, err := echoapi.GenerateToken(cli.conf, echoapi.GetStudentClaims(cli.conf, std))
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
