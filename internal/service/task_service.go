package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pavel-2009/ai-task-assistant/internal/cache"
	"github.com/pavel-2009/ai-task-assistant/internal/classifier"
	dom "github.com/pavel-2009/ai-task-assistant/internal/domain"
	"github.com/pavel-2009/ai-task-assistant/internal/imagex"
	"github.com/pavel-2009/ai-task-assistant/internal/repo"
	"github.com/pavel-2009/ai-task-assistant/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrForbidden             = errors.New("task belongs to another user")
	ErrUnprocessableImage    = errors.New("bytes do not decode as an image")
	ErrNoAvatar              = errors.New("task has no avatar")
	ErrClassifierUnavailable = errors.New("classifier is not configured")
)

type TaskService struct {
	repo       repo.TaskRepo
	cache      *cache.TaskCache
	avatars    storage.Store
	classifier classifier.Provider
	sf         singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
// cls may be nil when no classification backend is configured.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache, avatars storage.Store, cls classifier.Provider) *TaskService {
	return &TaskService{repo: r, cache: c, avatars: avatars, classifier: cls}
}

func (s *TaskService) Create(ctx context.Context, userID int64, title, desc string) (dom.Task, error) {
	t, err := s.repo.Create(ctx, dom.Task{
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(desc),
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

func (s *TaskService) List(ctx context.Context, userID int64) ([]dom.Task, error) {
	if s.cache != nil {
		key := "list:" + strconv.FormatInt(userID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, userID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, userID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, userID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Task), nil
	}
	return s.repo.List(ctx, userID)
}

func (s *TaskService) Search(ctx context.Context, userID int64, q string) ([]dom.Task, error) {
	q = strings.TrimSpace(q)
	if s.cache != nil {
		key := "search:" + strconv.FormatInt(userID, 10) + ":" + strings.ToLower(q)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetSearch(ctx, userID, q); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.Search(ctx, userID, q)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetSearch(ctx, userID, q, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Task), nil
	}
	return s.repo.Search(ctx, userID, q)
}

// GetByID returns the task if it exists and is owned by userID.
func (s *TaskService) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	if t.UserID != userID {
		return dom.Task{}, ErrForbidden
	}
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, userID, id int64, title, desc *string) (dom.Task, error) {
	existing, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return dom.Task{}, err
	}
	patch := existing
	if title != nil {
		patch.Title = strings.TrimSpace(*title)
	}
	if desc != nil {
		patch.Description = strings.TrimSpace(*desc)
	}
	t, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.GetByID(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

// UploadAvatar validates and normalizes the uploaded bytes, stores the
// canonical JPEG under a collision-proof key and records it on the task.
func (s *TaskService) UploadAvatar(ctx context.Context, userID, id int64, data []byte) (string, error) {
	if _, err := s.GetByID(ctx, userID, id); err != nil {
		return "", err
	}
	if !imagex.Validate(data) {
		return "", ErrUnprocessableImage
	}
	normalized, err := imagex.Normalize(data, imagex.DefaultMaxDimension)
	if err != nil {
		return "", ErrUnprocessableImage
	}
	key := fmt.Sprintf("task_%d_%s.jpg", id, uuid.NewString())
	if err := s.avatars.Save(ctx, key, normalized); err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}
	if _, err := s.repo.SetAvatarPath(ctx, id, key); err != nil {
		return "", err
	}
	s.invalidateCache(ctx, userID)
	return key, nil
}

// Predict loads the task's stored avatar and asks the classifier for its
// top category label.
func (s *TaskService) Predict(ctx context.Context, userID, id int64) (string, error) {
	if s.classifier == nil {
		return "", ErrClassifierUnavailable
	}
	t, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return "", err
	}
	if t.AvatarPath == nil || *t.AvatarPath == "" {
		return "", ErrNoAvatar
	}
	data, err := s.avatars.Load(ctx, *t.AvatarPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrNoAvatar
		}
		return "", err
	}
	return s.classifier.Predict(ctx, data)
}

func (s *TaskService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
