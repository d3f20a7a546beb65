package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, tokens TokenStore) (*Session, *fakeAPI) {
	t.Helper()
	c, api := newTestClient(t)
	return NewSession(c, tokens, nil), api
}

func offlineClient(t *testing.T) *Client {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()
	return New(addr, WithHTTPClient(&http.Client{Timeout: time.Second}))
}

func TestSessionInitializeAnonymous(t *testing.T) {
	s, _ := newTestSession(t, nil)
	assert.Equal(t, StateUninitialized, s.State())

	require.NoError(t, s.Initialize(context.Background()))

	snap := s.Snapshot()
	assert.Equal(t, StateSynced, snap.State)
	assert.Nil(t, snap.User)
	assert.Len(t, snap.Courses, 2)
	assert.Len(t, snap.Materials, 1)
}

func TestSessionInitializeRestoresPersistedToken(t *testing.T) {
	tokens := NewMemoryTokenStore()
	require.NoError(t, tokens.Save(&Credentials{Token: "tok-1", ExpiresAt: time.Now().Add(time.Hour)}))
	s, _ := newTestSession(t, tokens)

	require.NoError(t, s.Initialize(context.Background()))

	snap := s.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "u1", snap.User.ID)

	stored, err := tokens.Load()
	require.NoError(t, err)
	require.NotNil(t, stored.User)
	assert.Equal(t, "a@x.com", stored.User.Email)
}

func TestSessionInitializeDropsRejectedToken(t *testing.T) {
	tokens := NewMemoryTokenStore()
	require.NoError(t, tokens.Save(&Credentials{Token: "revoked", User: &User{ID: "old"}}))
	s, _ := newTestSession(t, tokens)

	require.NoError(t, s.Initialize(context.Background()))

	assert.Equal(t, StateSynced, s.State())
	assert.Nil(t, s.Snapshot().User)
	stored, err := tokens.Load()
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSessionInitializeIgnoresExpiredToken(t *testing.T) {
	tokens := NewMemoryTokenStore()
	require.NoError(t, tokens.Save(&Credentials{Token: "tok-1", ExpiresAt: time.Now().Add(-time.Minute)}))
	s, api := newTestSession(t, tokens)

	require.NoError(t, s.Initialize(context.Background()))

	assert.Nil(t, s.Snapshot().User)
	assert.Empty(t, api.lastAuth)
}

func TestSessionOfflineFallback(t *testing.T) {
	tokens := NewMemoryTokenStore()
	require.NoError(t, tokens.Save(&Credentials{Token: "tok-1", User: &User{ID: "u1", EnrolledCourseIDs: []string{}}}))
	s := NewSession(offlineClient(t), tokens, nil)

	require.NoError(t, s.Initialize(context.Background()))

	snap := s.Snapshot()
	assert.True(t, snap.Offline())
	require.Len(t, snap.Courses, 1)
	assert.Equal(t, "Introduction to React", snap.Courses[0].Title)
	assert.Equal(t, "Dr. Smith", snap.Courses[0].InstructorName)
	assert.Equal(t, 49.99, snap.Courses[0].Price)
	assert.Equal(t, "4 weeks", snap.Courses[0].Duration)
	assert.Equal(t, "ACTIVE", snap.Courses[0].Status)
	require.NotNil(t, snap.User)

	assert.ErrorIs(t, s.Refresh(context.Background()), ErrOfflineMode)
	assert.ErrorIs(t, s.Initialize(context.Background()), ErrOfflineMode)
	_, err := s.Login(context.Background(), "a@x.com", "secret")
	assert.ErrorIs(t, err, ErrOfflineMode)
	_, err = s.CreateCourse(context.Background(), CourseInput{Title: "x"})
	assert.ErrorIs(t, err, ErrOfflineMode)
	assert.Equal(t, StateOffline, s.State())
}

func TestSessionOfflineCheckoutAppendsLocally(t *testing.T) {
	tokens := NewMemoryTokenStore()
	require.NoError(t, tokens.Save(&Credentials{Token: "tok-1", User: &User{ID: "u1", EnrolledCourseIDs: []string{}}}))
	s := NewSession(offlineClient(t), tokens, nil)
	require.NoError(t, s.Initialize(context.Background()))

	res, err := s.Checkout(context.Background(), CheckoutRequest{CourseID: "1", Amount: 49.99, PaymentMethod: "CARD"})
	require.NoError(t, err)
	assert.Nil(t, res.Transaction)
	assert.Equal(t, []string{"1"}, res.EnrolledCourseIDs)

	_, err = s.Checkout(context.Background(), CheckoutRequest{CourseID: "1", PaymentMethod: "CARD"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, s.Snapshot().User.EnrolledCourseIDs)
	assert.Equal(t, StateOffline, s.State())

	stored, err := tokens.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, stored.User.EnrolledCourseIDs)
}

func TestSessionCheckoutRequiresUser(t *testing.T) {
	s, api := newTestSession(t, nil)
	require.NoError(t, s.Initialize(context.Background()))

	_, err := s.Checkout(context.Background(), CheckoutRequest{CourseID: "c1", PaymentMethod: "CARD"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, api.checkoutCalls)
}

func TestSessionLoginThenCheckout(t *testing.T) {
	tokens := NewMemoryTokenStore()
	s, api := newTestSession(t, tokens)
	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))

	user, err := s.Login(ctx, "a@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	res, err := s.Checkout(ctx, CheckoutRequest{CourseID: "c2", Amount: 20, PaymentMethod: "UPI", UPIID: "asha@okaxis"})
	require.NoError(t, err)
	require.NotNil(t, res.Transaction)
	assert.Equal(t, "txn_1", res.Transaction.TransactionID)
	assert.Equal(t, "asha@okaxis", api.lastCheckout.UPIID)

	snap := s.Snapshot()
	assert.Equal(t, StateSynced, snap.State)
	assert.Equal(t, []string{"c2"}, snap.User.EnrolledCourseIDs)

	stored, err := tokens.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", stored.Token)
	assert.Equal(t, []string{"c2"}, stored.User.EnrolledCourseIDs)
}

func TestSessionMutationsBeforeInitializeStayUninitialized(t *testing.T) {
	s, _ := newTestSession(t, nil)
	ctx := context.Background()
	_, err := s.Login(ctx, "a@x.com", "secret")
	require.NoError(t, err)

	_, err = s.Checkout(ctx, CheckoutRequest{CourseID: "c2", Amount: 20, PaymentMethod: "CARD"})
	require.NoError(t, err)
	assert.Equal(t, StateUninitialized, s.State())
	assert.Equal(t, []string{"c2"}, s.Snapshot().User.EnrolledCourseIDs)
	assert.Empty(t, s.Snapshot().Courses)

	_, err = s.AddMaterial(ctx, MaterialInput{Title: "Notes", Type: "PDF", URL: "https://cdn/n"})
	require.NoError(t, err)
	assert.Equal(t, StateUninitialized, s.State())

	require.NoError(t, s.Initialize(ctx))
	assert.Equal(t, StateSynced, s.State())
	assert.Len(t, s.Snapshot().Courses, 2)
}

func TestSessionFailedCheckoutLeavesViewUntouched(t *testing.T) {
	s, api := newTestSession(t, nil)
	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))
	_, err := s.Login(ctx, "a@x.com", "secret")
	require.NoError(t, err)
	before := s.Snapshot()

	api.mu.Lock()
	api.failCheckout = true
	api.mu.Unlock()

	_, err = s.Checkout(ctx, CheckoutRequest{CourseID: "c1", PaymentMethod: "CARD"})
	require.Error(t, err)
	assert.True(t, HasCode(err, "PAYMENT_FAILED"))
	assert.Equal(t, before, s.Snapshot())
}

func TestSessionStaysStaleWhenRefetchFails(t *testing.T) {
	s, api := newTestSession(t, nil)
	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))
	_, err := s.Login(ctx, "a@x.com", "secret")
	require.NoError(t, err)

	api.mu.Lock()
	api.failMe = true
	api.mu.Unlock()

	res, err := s.Checkout(ctx, CheckoutRequest{CourseID: "c1", PaymentMethod: "CARD"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, res.EnrolledCourseIDs)
	assert.Equal(t, StateStale, s.State())
	assert.Empty(t, s.Snapshot().User.EnrolledCourseIDs)

	api.mu.Lock()
	api.failMe = false
	api.mu.Unlock()

	require.NoError(t, s.Refresh(ctx))
	assert.Equal(t, StateSynced, s.State())
	assert.Equal(t, []string{"c1"}, s.Snapshot().User.EnrolledCourseIDs)
}

func TestSessionCatalogMutations(t *testing.T) {
	s, _ := newTestSession(t, nil)
	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))
	_, err := s.Login(ctx, "a@x.com", "secret")
	require.NoError(t, err)

	course, err := s.CreateCourse(ctx, CourseInput{Title: "Concurrency", Price: 30})
	require.NoError(t, err)
	assert.Equal(t, "c3", course.ID)
	assert.Len(t, s.Snapshot().Courses, 3)
	assert.Equal(t, StateSynced, s.State())

	_, err = s.UpdateCourse(ctx, "c3", CourseInput{Title: "Advanced Concurrency"})
	require.NoError(t, err)
	assert.Equal(t, "Advanced Concurrency", s.Snapshot().Courses[2].Title)

	_, err = s.UpdateCourse(ctx, "missing", CourseInput{Title: "x"})
	assert.True(t, HasCode(err, "NOT_FOUND"))
	assert.Equal(t, StateSynced, s.State())

	_, err = s.AddMaterial(ctx, MaterialInput{Title: "Notes", Type: "PDF", URL: "https://cdn/n"})
	require.NoError(t, err)
	materials := s.Snapshot().Materials
	require.Len(t, materials, 2)
	assert.Equal(t, "Notes", materials[0].Title)
}

func TestSessionRegisterAndPhoneLogin(t *testing.T) {
	s, _ := newTestSession(t, nil)
	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))

	_, err := s.Register(ctx, RegisterRequest{Name: "B", Email: "b@x.com", Phone: "+919000000001", Password: "pw"})
	assert.True(t, HasCode(err, "VERIFICATION_REQUIRED"))
	assert.Nil(t, s.Snapshot().User)

	user, err := s.Register(ctx, RegisterRequest{Name: "B", Email: "b@x.com", Phone: "+919000000001", Password: "pw", VerificationToken: "vt-1"})
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", user.Email)

	require.NoError(t, s.Logout())
	assert.Nil(t, s.Snapshot().User)

	_, err = s.LoginWithPhone(ctx, "+910000000000", "123456", "")
	assert.True(t, HasCode(err, "USER_NOT_REGISTERED"))

	user, err = s.LoginWithPhone(ctx, "+919000000001", "", "vt-1")
	require.NoError(t, err)
	assert.Equal(t, "B", user.Name)
}

func TestSessionPersistsThroughFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	c, _ := newTestClient(t)
	ctx := context.Background()

	first := NewSession(c, NewFileTokenStore(path), nil)
	require.NoError(t, first.Initialize(ctx))
	_, err := first.Login(ctx, "a@x.com", "secret")
	require.NoError(t, err)

	second := NewSession(New(c.baseURL), NewFileTokenStore(path), nil)
	require.NoError(t, second.Initialize(ctx))
	require.NotNil(t, second.Snapshot().User)
	assert.Equal(t, "u1", second.Snapshot().User.ID)

	require.NoError(t, second.Logout())
	third := NewSession(New(c.baseURL), NewFileTokenStore(path), nil)
	require.NoError(t, third.Initialize(ctx))
	assert.Nil(t, third.Snapshot().User)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "synced", StateSynced.String())
	assert.Equal(t, "stale", StateStale.String())
	assert.Equal(t, "offline", StateOffline.String())
}
