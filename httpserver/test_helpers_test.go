package httpserver_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"moviecatalog/auth"
	"moviecatalog/httpserver"
	"moviecatalog/movie"
	"moviecatalog/pkg/config"
	jwtprovider "moviecatalog/pkg/jwt"
	"moviecatalog/review"
	"moviecatalog/user"
	"moviecatalog/watchlist"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testJWTSecret   = "test-jwt-secret"
	testPosterHost  = "https://image.tmdb.org/"
	testUserID      = "user-1"
	testOtherUserID = "user-2"
	testAdminID     = "admin-1"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = testJWTSecret
	cfg.Auth.TokenTTL = time.Hour
	cfg.Catalog.PageSize = 20
	cfg.Catalog.APIPageSize = 20
	cfg.Catalog.PosterURLPrefix = testPosterHost
	return cfg
}

// newTestServer returns a server whose bearer tokens are verified by the
// real auth usecase.
func newTestServer(t testing.TB) *httpserver.Server {
	t.Helper()
	server := httpserver.Default(testConfig())
	server.AuthService = auth.NewUsecase(nil, nil, nil, jwtprovider.NewJWTProvider(testJWTSecret, time.Hour))
	return server
}

func signTestToken(t testing.TB, userID string, role user.Role) string {
	t.Helper()
	token, err := jwtprovider.NewJWTProvider(testJWTSecret, time.Hour).GenerateToken(user.User{
		ID:    userID,
		Email: userID + "@example.com",
		Role:  role,
	})
	require.NoError(t, err)
	return token.Value
}

func signRawToken(t testing.TB, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func doJSON(server *httpserver.Server, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	return rec
}

type apiResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
	Info    string          `json:"info"`
}

func decodeAPIResponse(t testing.TB, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func decodeAPIResult(t testing.TB, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	resp := decodeAPIResponse(t, rec)
	require.NoError(t, json.Unmarshal(resp.Result, v), string(resp.Result))
}

type pagedResult[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) List(ctx context.Context, q movie.ListQuery) (movie.Page, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(movie.Page), args.Error(1)
}

func (m *MockMovieService) Browse(ctx context.Context, q movie.ListQuery) (movie.Page, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(movie.Page), args.Error(1)
}

func (m *MockMovieService) GetMovie(ctx context.Context, id int64) (movie.Document, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(movie.Document)
	return doc, args.Error(1)
}

func (m *MockMovieService) AddMovie(ctx context.Context, mv movie.Movie) error {
	return m.Called(ctx, mv).Error(0)
}

func (m *MockMovieService) UpdateMovie(ctx context.Context, id int64, mv movie.Movie) error {
	return m.Called(ctx, id, mv).Error(0)
}

func (m *MockMovieService) DeleteMovie(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMovieService) ImportMovie(ctx context.Context, d movie.Document) error {
	return m.Called(ctx, d).Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) AddUser(ctx context.Context, u user.User, password string) (user.User, error) {
	args := m.Called(ctx, u, password)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, id string) (user.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(user.User), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (auth.Session, error) {
	args := m.Called(ctx, name, email, password)
	return args.Get(0).(auth.Session), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (auth.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(auth.Session), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (auth.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(auth.Identity), args.Error(1)
}

type MockWatchlistService struct {
	mock.Mock
}

func (m *MockWatchlistService) AddItem(ctx context.Context, userID string, movieID int64) (watchlist.Item, error) {
	args := m.Called(ctx, userID, movieID)
	return args.Get(0).(watchlist.Item), args.Error(1)
}

func (m *MockWatchlistService) ListItems(ctx context.Context, userID string) ([]watchlist.Item, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]watchlist.Item)
	return items, args.Error(1)
}

func (m *MockWatchlistService) RemoveItem(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) CreateReview(ctx context.Context, r review.Review) (review.Review, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(review.Review), args.Error(1)
}

func (m *MockReviewService) ListReviews(ctx context.Context, movieID int64, page, limit int) (review.Page, error) {
	args := m.Called(ctx, movieID, page, limit)
	return args.Get(0).(review.Page), args.Error(1)
}

func (m *MockReviewService) GetReview(ctx context.Context, id string) (review.Review, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(review.Review), args.Error(1)
}

func (m *MockReviewService) UpdateReview(ctx context.Context, id, userID string, rating int, comment string) (review.Review, error) {
	args := m.Called(ctx, id, userID, rating, comment)
	return args.Get(0).(review.Review), args.Error(1)
}

func (m *MockReviewService) DeleteReview(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}
