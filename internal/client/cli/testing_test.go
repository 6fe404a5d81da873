package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/campus/internal/client/models"
	"github.com/dmitrijs2005/campus/internal/client/router"
	"github.com/dmitrijs2005/campus/internal/client/securestore"
	"github.com/dmitrijs2005/campus/internal/client/session"
	"github.com/dmitrijs2005/campus/internal/client/vault"
	"github.com/dmitrijs2005/campus/internal/logging"
)

type fakeAuth struct {
	res *models.AuthResult
	err error

	LastIdentifier string
	LastPassword   string
	LastRegister   models.RegisterRequest
}

func (f *fakeAuth) Login(_ context.Context, identifier, password string) (*models.AuthResult, error) {
	f.LastIdentifier, f.LastPassword = identifier, password
	return f.res, f.err
}

func (f *fakeAuth) Register(_ context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	f.LastRegister = req
	return f.res, f.err
}

type fakeCourses struct {
	list  []models.Course
	get   *models.Course
	err   error
	calls int
}

func (f *fakeCourses) List(context.Context) ([]models.Course, error) {
	f.calls++
	return f.list, f.err
}

func (f *fakeCourses) Get(context.Context, string) (*models.Course, error) {
	f.calls++
	return f.get, f.err
}

type fakeEnrollments struct {
	list       []models.Enrollment
	err        error
	LastCourse string
	LastCancel string
}

func (f *fakeEnrollments) List(context.Context) ([]models.Enrollment, error) { return f.list, f.err }

func (f *fakeEnrollments) Get(_ context.Context, id string) (*models.Enrollment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Enrollment{ID: id, CourseID: "c1", Status: models.EnrollmentActive}, nil
}

func (f *fakeEnrollments) Enroll(_ context.Context, courseID string) (*models.Enrollment, error) {
	f.LastCourse = courseID
	if f.err != nil {
		return nil, f.err
	}
	return &models.Enrollment{ID: "e9", CourseID: courseID, Status: models.EnrollmentActive}, nil
}

func (f *fakeEnrollments) Cancel(_ context.Context, id string) error {
	f.LastCancel = id
	return f.err
}

type fakeNotifications struct {
	list     []models.Notification
	get      *models.Notification
	err      error
	markedAs []string
}

func (f *fakeNotifications) List(context.Context) ([]models.Notification, error) {
	return f.list, f.err
}

func (f *fakeNotifications) Get(context.Context, string) (*models.Notification, error) {
	return f.get, f.err
}

func (f *fakeNotifications) MarkRead(_ context.Context, id string) error {
	f.markedAs = append(f.markedAs, id)
	return nil
}

type fakePinger struct {
	mu  sync.Mutex
	err error
}

func (p *fakePinger) Ping(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *fakePinger) set(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

type testApp struct {
	*App
	out           *bytes.Buffer
	auth          *fakeAuth
	vault         *vault.Vault
	courses       *fakeCourses
	enrollments   *fakeEnrollments
	notifications *fakeNotifications
	pinger        *fakePinger
	clock         *clockwork.FakeClock
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	v := vault.New(securestore.NewMemoryStore(), logging.NewNop())
	auth := &fakeAuth{res: &models.AuthResult{
		Token:   "abc",
		Profile: &models.Profile{Rut: "1-9", FirstName: "Ana", LastName: "Pérez", Email: "ana@campus.cl"},
	}}
	mgr := session.NewManager(v, auth, logging.NewNop())
	nav := router.NewStack(router.RouteHome)
	guard := router.NewGuard(mgr, nav, router.DefaultTable(), logging.NewNop())
	guard.Start()
	t.Cleanup(guard.Stop)

	ta := &testApp{
		out:           &bytes.Buffer{},
		auth:          auth,
		vault:         v,
		courses:       &fakeCourses{},
		enrollments:   &fakeEnrollments{},
		notifications: &fakeNotifications{},
		pinger:        &fakePinger{},
		clock:         clockwork.NewFakeClock(),
	}
	ta.App = &App{
		log:           logging.NewNop(),
		out:           ta.out,
		reader:        bufio.NewReader(strings.NewReader("")),
		clock:         ta.clock,
		session:       mgr,
		nav:           nav,
		guard:         guard,
		courses:       ta.courses,
		enrollments:   ta.enrollments,
		notifications: ta.notifications,
		pinger:        ta.pinger,
		mode:          ModeOffline,
	}

	_, err := mgr.Restore(context.Background())
	require.NoError(t, err)
	return ta
}

// stubInputs feeds answers to getSimpleText in order and a fixed password.
func stubInputs(t *testing.T, password string, answers ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})

	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		return []byte(password), nil
	}
}

func (ta *testApp) login(t *testing.T) {
	t.Helper()
	stubInputs(t, "validpass", "user")
	require.NoError(t, ta.Login(context.Background()))
	require.True(t, ta.isLoggedIn())
	ta.out.Reset()
}
