package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/campus/internal/client/models"
	"github.com/dmitrijs2005/campus/internal/client/router"
	"github.com/dmitrijs2005/campus/internal/client/services"
	"github.com/dmitrijs2005/campus/internal/client/session"
	"github.com/dmitrijs2005/campus/internal/common"
)

const (
	msgBusy          = "Hay otra operación en curso, intenta nuevamente"
	msgLoginRequired = "Debes iniciar sesión para continuar"
)

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "RUT o correo", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Contraseña")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	st, err := a.session.SignIn(ctx, identifier, string(password))
	return a.report(st, err, "Bienvenido/a")
}

// Register prompts for the account data, creates it and signs in.
func (a *App) Register(ctx context.Context) error {
	var req models.RegisterRequest
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"RUT (12345678-5)", &req.Rut},
		{"Nombres", &req.FirstName},
		{"Apellidos", &req.LastName},
		{"Correo", &req.Email},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := getPassword(a.out, "Contraseña (mínimo 8 caracteres)")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	st, err := a.session.Register(ctx, req)
	return a.report(st, err, "Cuenta creada")
}

func (a *App) Logout(ctx context.Context) error {
	st, err := a.session.SignOut(ctx)
	if errors.Is(err, common.ErrBusy) {
		fmt.Fprintln(a.out, msgBusy)
		return nil
	}
	if err != nil {
		return err
	}
	if st.Error == "" {
		fmt.Fprintln(a.out, "Sesión cerrada")
	}
	return nil
}

func (a *App) report(st session.State, err error, greeting string) error {
	switch {
	case errors.Is(err, common.ErrBusy):
		fmt.Fprintln(a.out, msgBusy)
		return nil
	case err != nil:
		return err
	case st.Error != "":
		fmt.Fprintln(a.out, "Error:", st.Error)
	case st.User != nil:
		fmt.Fprintf(a.out, "%s, %s\n", greeting, st.User.FullName())
	}
	return nil
}

// navigate pushes route and reports whether the guard let it through.
func (a *App) navigate(route string) bool {
	a.nav.Push(route)
	if a.nav.Current() != route {
		fmt.Fprintln(a.out, msgLoginRequired)
		return false
	}
	return true
}

func (a *App) fail(err error, fallback string) error {
	fmt.Fprintln(a.out, "Error:", services.Message(err, fallback))
	return nil
}

func (a *App) Home(ctx context.Context) error {
	if !a.navigate(router.RouteHome) {
		return nil
	}
	st := a.session.State()
	if st.User != nil {
		fmt.Fprintf(a.out, "Hola, %s\n", st.User.FullName())
	}
	fmt.Fprintln(a.out, helpProtected)
	return nil
}

func (a *App) Courses(ctx context.Context) error {
	if !a.navigate(router.RouteCourses) {
		return nil
	}
	list, err := a.courses.List(ctx)
	if err != nil {
		return a.fail(err, services.MsgCoursesFailed)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No hay cursos disponibles")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCÓDIGO\tNOMBRE\tCRÉDITOS")
	for _, c := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", c.ID, c.Code, c.Name, c.Credits)
	}
	return w.Flush()
}

func (a *App) Course(ctx context.Context, id string) error {
	if !a.navigate(router.Join(router.RouteCourses, id)) {
		return nil
	}
	c, err := a.courses.Get(ctx, id)
	if err != nil {
		return a.fail(err, services.MsgCourseFetchFailed)
	}

	fmt.Fprintf(a.out, "%s %s\n", c.Code, c.Name)
	if c.Instructor != "" {
		fmt.Fprintf(a.out, "Docente: %s\n", c.Instructor)
	}
	fmt.Fprintf(a.out, "Créditos: %d\n", c.Credits)
	if c.Description != "" {
		fmt.Fprintln(a.out, c.Description)
	}
	return nil
}

func (a *App) Enroll(ctx context.Context, courseID string) error {
	if !a.navigate(router.RouteEnrollments) {
		return nil
	}
	e, err := a.enrollments.Enroll(ctx, courseID)
	if err != nil {
		return a.fail(err, services.MsgEnrollFailed)
	}
	fmt.Fprintf(a.out, "Inscripción %s creada (%s)\n", e.ID, e.Status)
	return nil
}

func (a *App) Enrollments(ctx context.Context) error {
	if !a.navigate(router.RouteEnrollments) {
		return nil
	}
	list, err := a.enrollments.List(ctx)
	if err != nil {
		return a.fail(err, services.MsgEnrollmentsFailed)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No tienes inscripciones")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCURSO\tESTADO")
	for _, e := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, enrollmentCourse(e), e.Status)
	}
	return w.Flush()
}

func (a *App) Enrollment(ctx context.Context, id string) error {
	if !a.navigate(router.Join(router.RouteEnrollments, id)) {
		return nil
	}
	e, err := a.enrollments.Get(ctx, id)
	if err != nil {
		return a.fail(err, services.MsgEnrollmentFetchFailed)
	}
	fmt.Fprintf(a.out, "Inscripción %s: %s (%s)\n", e.ID, enrollmentCourse(*e), e.Status)
	if !e.EnrolledAt.IsZero() {
		fmt.Fprintf(a.out, "Fecha: %s\n", e.EnrolledAt.Format("02-01-2006"))
	}
	return nil
}

func enrollmentCourse(e models.Enrollment) string {
	if e.Course != nil && e.Course.Name != "" {
		return e.Course.Name
	}
	return e.CourseID
}

func (a *App) Unenroll(ctx context.Context, id string) error {
	if !a.navigate(router.RouteEnrollments) {
		return nil
	}
	if err := a.enrollments.Cancel(ctx, id); err != nil {
		return a.fail(err, services.MsgCancelFailed)
	}
	fmt.Fprintf(a.out, "Inscripción %s anulada\n", id)
	return nil
}

func (a *App) Notifications(ctx context.Context) error {
	if !a.navigate(router.RouteNotifications) {
		return nil
	}
	list, err := a.notifications.List(ctx)
	if err != nil {
		return a.fail(err, services.MsgNotificationsFailed)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No tienes notificaciones")
		return nil
	}
	for _, n := range list {
		mark := " "
		if n.Read {
			mark = "x"
		}
		fmt.Fprintf(a.out, "[%s] %s  %s\n", mark, n.ID, n.Title)
	}
	return nil
}

// Read shows a notification and marks it as read.
func (a *App) Read(ctx context.Context, id string) error {
	if !a.navigate(router.Join(router.RouteNotifications, id)) {
		return nil
	}
	n, err := a.notifications.Get(ctx, id)
	if err != nil {
		return a.fail(err, services.MsgNotificationFetchFailed)
	}
	fmt.Fprintln(a.out, n.Title)
	fmt.Fprintln(a.out, n.Body)

	if !n.Read {
		if err := a.notifications.MarkRead(ctx, id); err != nil {
			return a.fail(err, services.MsgMarkReadFailed)
		}
	}
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	st := a.session.State()
	if st.User == nil {
		fmt.Fprintln(a.out, "No has iniciado sesión")
		return nil
	}
	fmt.Fprintf(a.out, "%s (%s)\n", st.User.FullName(), st.User.Rut)
	if st.User.Email != "" {
		fmt.Fprintln(a.out, st.User.Email)
	}
	return nil
}

func (a *App) Back(ctx context.Context) error {
	if !a.nav.Back() {
		fmt.Fprintln(a.out, "No hay pantallas anteriores")
		return nil
	}
	fmt.Fprintln(a.out, a.nav.Current())
	return nil
}
