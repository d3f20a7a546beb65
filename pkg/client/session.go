package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// State is the lifecycle position of a Session.
type State int

const (
	StateUninitialized State = iota
	StateSynced
	StateStale
	StateOffline
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateSynced:
		return "synced"
	case StateStale:
		return "stale"
	case StateOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of the session view.
type Snapshot struct {
	State     State
	User      *User
	Courses   []Course
	Materials []Material
}

// Offline reports whether the view is placeholder data.
func (s Snapshot) Offline() bool {
	return s.State == StateOffline
}

// PlaceholderCourses seeds the catalog when the service cannot be reached at startup.
func PlaceholderCourses(now time.Time) []Course {
	return []Course{{
		ID:             "1",
		Title:          "Introduction to React",
		Description:    "Learn basics.",
		Date:           now.Add(24 * time.Hour),
		MeetLink:       "#",
		InstructorName: "Dr. Smith",
		Price:          49.99,
		Duration:       "4 weeks",
		Status:         "ACTIVE",
	}}
}

// Session mirrors the signed-in user and catalog. It owns no source of truth:
// every field can be discarded and rebuilt from the service.
type Session struct {
	client *Client
	tokens TokenStore
	logger *zap.Logger
	now    func() time.Time

	mu        sync.RWMutex
	state     State
	user      *User
	expiresAt time.Time
	courses   []Course
	materials []Material
}

// NewSession builds an uninitialized session.
func NewSession(c *Client, tokens TokenStore, logger *zap.Logger) *Session {
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{client: c, tokens: tokens, logger: logger, now: time.Now}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot copies the current view.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		State:     s.state,
		Courses:   append([]Course(nil), s.courses...),
		Materials: append([]Material(nil), s.materials...),
	}
	if s.user != nil {
		u := *s.user
		u.EnrolledCourseIDs = append([]string(nil), s.user.EnrolledCourseIDs...)
		snap.User = &u
	}
	return snap
}

type syncResult struct {
	user      *User
	courses   []Course
	materials []Material
}

// Initialize restores persisted credentials and loads the catalog and identity
// concurrently. An unreachable service puts the session into offline mode with
// placeholder data; offline is terminal for this Session.
func (s *Session) Initialize(ctx context.Context) error {
	switch s.State() {
	case StateOffline:
		return ErrOfflineMode
	case StateSynced, StateStale:
		return s.Refresh(ctx)
	}

	creds, err := s.tokens.Load()
	if err != nil {
		s.logger.Warn("ignoring unreadable session credentials", zap.Error(err))
		creds = nil
	}
	if creds != nil && creds.Expired(s.now()) {
		s.logger.Info("persisted session expired")
		_ = s.tokens.Clear()
		creds = nil
	}
	if creds != nil {
		s.client.SetToken(creds.Token)
		s.mu.Lock()
		s.user = creds.User
		s.expiresAt = creds.ExpiresAt
		s.mu.Unlock()
	}

	res, err := s.fetch(ctx)
	if errors.Is(err, ErrUnreachable) {
		s.logger.Warn("service unreachable, using offline data", zap.Error(err))
		s.mu.Lock()
		s.state = StateOffline
		s.courses = PlaceholderCourses(s.now())
		s.materials = nil
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return err
	}
	s.apply(res)
	return nil
}

// Refresh re-fetches everything. The state becomes Synced only on success.
func (s *Session) Refresh(ctx context.Context) error {
	switch s.State() {
	case StateOffline:
		return ErrOfflineMode
	case StateUninitialized:
		return s.Initialize(ctx)
	}
	res, err := s.fetch(ctx)
	if err != nil {
		return err
	}
	s.apply(res)
	return nil
}

func (s *Session) fetch(ctx context.Context) (*syncResult, error) {
	res := &syncResult{}
	authenticated := s.client.Token() != ""

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		courses, err := s.client.Courses(gctx)
		res.courses = courses
		return err
	})
	g.Go(func() error {
		materials, err := s.client.Materials(gctx)
		res.materials = materials
		return err
	})
	if authenticated {
		g.Go(func() error {
			user, err := s.client.Me(gctx)
			if IsUnauthorized(err) {
				s.logger.Info("stored token rejected, signing out")
				s.dropCredentials()
				return nil
			}
			res.user = user
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Session) apply(res *syncResult) {
	s.mu.Lock()
	s.courses = res.courses
	s.materials = res.materials
	if res.user != nil {
		s.user = res.user
	} else if s.client.Token() == "" {
		s.user = nil
	}
	s.state = StateSynced
	user, expiresAt := s.user, s.expiresAt
	s.mu.Unlock()

	if user != nil {
		s.persist(user, expiresAt)
	}
}

// Login signs in with email or phone and password.
func (s *Session) Login(ctx context.Context, identifier, password string) (*User, error) {
	if s.State() == StateOffline {
		return nil, ErrOfflineMode
	}
	res, err := s.client.Login(ctx, identifier, password)
	if err != nil {
		return nil, err
	}
	return s.adopt(res), nil
}

// LoginWithPhone signs in with a phone OTP or verification token.
func (s *Session) LoginWithPhone(ctx context.Context, phone, code, verificationToken string) (*User, error) {
	if s.State() == StateOffline {
		return nil, ErrOfflineMode
	}
	res, err := s.client.LoginWithPhone(ctx, phone, code, verificationToken)
	if err != nil {
		return nil, err
	}
	return s.adopt(res), nil
}

// Register creates an account and signs in as it.
func (s *Session) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if s.State() == StateOffline {
		return nil, ErrOfflineMode
	}
	res, err := s.client.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.adopt(res), nil
}

func (s *Session) adopt(res *AuthResult) *User {
	user := res.User
	s.client.SetToken(res.Auth.Token)
	s.mu.Lock()
	s.user = &user
	s.expiresAt = res.Auth.ExpiresAt
	s.mu.Unlock()
	s.persist(&user, res.Auth.ExpiresAt)
	out := user
	return &out
}

// Logout forgets the user locally. It never contacts the service.
func (s *Session) Logout() error {
	s.client.SetToken("")
	s.mu.Lock()
	s.user = nil
	s.expiresAt = time.Time{}
	s.mu.Unlock()
	return s.tokens.Clear()
}

func (s *Session) dropCredentials() {
	s.client.SetToken("")
	s.mu.Lock()
	s.user = nil
	s.expiresAt = time.Time{}
	s.mu.Unlock()
	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("failed to clear session credentials", zap.Error(err))
	}
}

func (s *Session) persist(user *User, expiresAt time.Time) {
	token := s.client.Token()
	if token == "" {
		return
	}
	u := *user
	if err := s.tokens.Save(&Credentials{Token: token, ExpiresAt: expiresAt, User: &u}); err != nil {
		s.logger.Warn("failed to persist session credentials", zap.Error(err))
	}
}

// Checkout pays for a course. Offline, the enrollment is appended locally and
// nothing is sent. Online, the session is Stale until the user is re-fetched;
// a failed payment leaves the view as it was.
func (s *Session) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	s.mu.RLock()
	state, signedIn := s.state, s.user != nil
	s.mu.RUnlock()
	if !signedIn {
		return nil, ErrNotAuthenticated
	}

	if state == StateOffline {
		s.mu.Lock()
		if s.user == nil {
			s.mu.Unlock()
			return nil, ErrNotAuthenticated
		}
		if !s.user.IsEnrolled(req.CourseID) {
			s.user.EnrolledCourseIDs = append(s.user.EnrolledCourseIDs, req.CourseID)
		}
		enrolled := append([]string(nil), s.user.EnrolledCourseIDs...)
		user, expiresAt := *s.user, s.expiresAt
		s.mu.Unlock()
		s.persist(&user, expiresAt)
		return &CheckoutResult{Success: true, Message: "Enrollment recorded offline", EnrolledCourseIDs: enrolled}, nil
	}

	prev := s.markStale()
	res, err := s.client.Checkout(ctx, req)
	if err != nil {
		s.restore(prev)
		return nil, err
	}

	user, err := s.client.Me(ctx)
	if err != nil {
		s.logger.Warn("payment recorded but profile refresh failed", zap.String("course_id", req.CourseID), zap.Error(err))
		return res, nil
	}
	s.mu.Lock()
	s.user = user
	s.resynced()
	expiresAt := s.expiresAt
	s.mu.Unlock()
	s.persist(user, expiresAt)
	return res, nil
}

// CreateCourse adds a course and re-fetches the catalog.
func (s *Session) CreateCourse(ctx context.Context, in CourseInput) (*Course, error) {
	var out *Course
	err := s.mutateCatalog(ctx, func() error {
		course, err := s.client.CreateCourse(ctx, in)
		out = course
		return err
	})
	return out, err
}

// UpdateCourse replaces a course and re-fetches the catalog.
func (s *Session) UpdateCourse(ctx context.Context, id string, in CourseInput) (*Course, error) {
	var out *Course
	err := s.mutateCatalog(ctx, func() error {
		course, err := s.client.UpdateCourse(ctx, id, in)
		out = course
		return err
	})
	return out, err
}

// AddMaterial records a material and re-fetches the material list.
func (s *Session) AddMaterial(ctx context.Context, in MaterialInput) (*Material, error) {
	if s.State() == StateOffline {
		return nil, ErrOfflineMode
	}
	prev := s.markStale()
	material, err := s.client.AddMaterial(ctx, in)
	if err != nil {
		s.restore(prev)
		return nil, err
	}
	materials, err := s.client.Materials(ctx)
	if err != nil {
		s.logger.Warn("material added but list refresh failed", zap.Error(err))
		return material, nil
	}
	s.mu.Lock()
	s.materials = materials
	s.resynced()
	s.mu.Unlock()
	return material, nil
}

func (s *Session) mutateCatalog(ctx context.Context, mutate func() error) error {
	if s.State() == StateOffline {
		return ErrOfflineMode
	}
	prev := s.markStale()
	if err := mutate(); err != nil {
		s.restore(prev)
		return err
	}
	courses, err := s.client.Courses(ctx)
	if err != nil {
		s.logger.Warn("course saved but catalog refresh failed", zap.Error(err))
		return nil
	}
	s.mu.Lock()
	s.courses = courses
	s.resynced()
	s.mu.Unlock()
	return nil
}

// markStale flags an initialized view as out of date. A session that never
// loaded stays Uninitialized.
func (s *Session) markStale() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	if prev != StateUninitialized {
		s.state = StateStale
	}
	return prev
}

// resynced ends a mutation whose result was re-fetched. Caller holds s.mu.
func (s *Session) resynced() {
	if s.state == StateStale {
		s.state = StateSynced
	}
}

// restore undoes markStale when the mutation never reached the service.
func (s *Session) restore(prev State) {
	s.mu.Lock()
	if s.state == StateStale {
		s.state = prev
	}
	s.mu.Unlock()
}
