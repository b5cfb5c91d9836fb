package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pavel-2009/ai-task-assistant/internal/auth"
	dom "github.com/pavel-2009/ai-task-assistant/internal/domain"
	"github.com/pavel-2009/ai-task-assistant/internal/service"
	"github.com/pavel-2009/ai-task-assistant/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// In-memory fakes standing in for Postgres and the blob store.

type fakeUserRepo struct {
	users  map[string]dom.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]dom.User{}, nextID: 1}
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	u, ok := f.users[username]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (f *fakeUserRepo) Create(ctx context.Context, username, passwordHash string) (dom.User, error) {
	if _, ok := f.users[username]; ok {
		return dom.User{}, &pgconn.PgError{Code: "23505"}
	}
	u := dom.User{ID: f.nextID, Username: username, PasswordHash: passwordHash}
	f.nextID++
	f.users[username] = u
	return u, nil
}

type fakeTaskRepo struct {
	tasks  map[int64]dom.Task
	nextID int64
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]dom.Task{}, nextID: 1}
}

func (f *fakeTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	t.ID = f.nextID
	f.nextID++
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id int64) (dom.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return dom.Task{}, pgx.ErrNoRows
	}
	return t, nil
}

func (f *fakeTaskRepo) List(ctx context.Context, userID int64) ([]dom.Task, error) {
	var out []dom.Task
	for _, t := range f.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) Search(ctx context.Context, userID int64, q string) ([]dom.Task, error) {
	var out []dom.Task
	for _, t := range f.tasks {
		if t.UserID == userID && (strings.Contains(t.Title, q) || strings.Contains(t.Description, q)) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, id int64, patch dom.Task) (dom.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return dom.Task{}, pgx.ErrNoRows
	}
	t.Title = patch.Title
	t.Description = patch.Description
	f.tasks[id] = t
	return t, nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id int64) error {
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) SetAvatarPath(ctx context.Context, id int64, path string) (dom.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return dom.Task{}, pgx.ErrNoRows
	}
	t.AvatarPath = &path
	f.tasks[id] = t
	return t, nil
}

type fakeStore struct {
	blobs map[string][]byte
}

func newFakeStore() *fakeStore { return &fakeStore{blobs: map[string][]byte{}} }

func (f *fakeStore) Save(ctx context.Context, key string, data []byte) error {
	f.blobs[key] = data
	return nil
}

func (f *fakeStore) Load(ctx context.Context, key string) ([]byte, error) {
	b, ok := f.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return b, nil
}

type fakeClassifier struct {
	label string
}

func (f *fakeClassifier) Predict(ctx context.Context, data []byte) (string, error) {
	return f.label, nil
}

// newTestRouter wires real services and handlers over the fakes, with the
// same route layout as app.Setup.
func newTestRouter(t *testing.T, cls *fakeClassifier) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenManager("test-secret", time.Minute)
	userSvc := service.NewUserService(newFakeUserRepo())

	var taskSvc *service.TaskService
	if cls != nil {
		taskSvc = service.NewTaskService(newFakeTaskRepo(), nil, newFakeStore(), cls)
	} else {
		taskSvc = service.NewTaskService(newFakeTaskRepo(), nil, newFakeStore(), nil)
	}

	r := gin.New()
	api := r.Group("/api/v1")
	authHandler := NewAuthHandler(userSvc, tokens)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("", auth.RequireAuth(tokens, userSvc, zap.NewNop()))
	taskHandler := NewTaskHandler(taskSvc)
	protected.POST("/tasks", taskHandler.Create)
	protected.GET("/tasks", taskHandler.List)
	protected.GET("/tasks/search", taskHandler.Search)
	protected.GET("/tasks/:id", taskHandler.GetByID)
	protected.PUT("/tasks/:id", taskHandler.Update)
	protected.DELETE("/tasks/:id", taskHandler.Delete)
	protected.POST("/tasks/:id/avatar", taskHandler.UploadAvatar)
	protected.POST("/tasks/:id/predict", taskHandler.Predict)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	rec := doJSON(t, r, "POST", "/api/v1/auth/register", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	form := "username=" + username + "&password=" + password
	req := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

func uploadAvatar(t *testing.T, r *gin.Engine, token, path string, imageBytes []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", "test_image.jpg")
	require.NoError(t, err)
	_, err = part.Write(imageBytes)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height)), nil))
	return buf.Bytes()
}
