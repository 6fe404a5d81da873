package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
	Home(ctx context.Context) error
	Courses(ctx context.Context) error
	Course(ctx context.Context, id string) error
	Enroll(ctx context.Context, courseID string) error
	Enrollments(ctx context.Context) error
	Enrollment(ctx context.Context, id string) error
	Unenroll(ctx context.Context, id string) error
	Notifications(ctx context.Context) error
	Read(ctx context.Context, id string) error
	WhoAmI(ctx context.Context) error
	Back(ctx context.Context) error
}

const (
	helpPublic    = "Comandos: help, login, register, exit"
	helpProtected = "Comandos: help, home, courses, course <id>, enroll <curso>, enrollments, enrollment <id>, " +
		"unenroll <id>, notifications, read <id>, whoami, back, logout, exit"
)

// runREPL reads commands from reader and dispatches them to a until EOF or
// "exit"/"quit". Handler errors are reported and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("campus %s> ", statusFn()))
		line, ok := readLine(reader)
		if !ok {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		// withID runs fn with the first argument or prints usage.
		withID := func(usage string, fn func(context.Context, string) error) error {
			if len(args) == 0 {
				printlnFn("Uso:", usage)
				return nil
			}
			return fn(ctx, args[0])
		}

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpProtected)
			} else {
				printlnFn(helpPublic)
			}
		case "login":
			err = a.Login(ctx)
		case "register":
			err = a.Register(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "home":
			err = a.Home(ctx)
		case "courses":
			err = a.Courses(ctx)
		case "course":
			err = withID("course <id>", a.Course)
		case "enroll":
			err = withID("enroll <curso>", a.Enroll)
		case "enrollments":
			err = a.Enrollments(ctx)
		case "enrollment":
			err = withID("enrollment <id>", a.Enrollment)
		case "unenroll":
			err = withID("unenroll <id>", a.Unenroll)
		case "notifications":
			err = a.Notifications(ctx)
		case "read":
			err = withID("read <id>", a.Read)
		case "whoami":
			err = a.WhoAmI(ctx)
		case "back":
			err = a.Back(ctx)
		case "exit", "quit":
			printlnFn("¡Hasta pronto!")
			return
		default:
			printlnFn("Comando desconocido:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
