package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/foundlyhq/foundly-backend/internal/notifications"
)

type fakeNotificationsService struct {
	listParams notifications.ListParams
	seen       []uuid.UUID
	dismissed  []uuid.UUID
	unseen     int64
}

func (f *fakeNotificationsService) Create(context.Context, notifications.CreateParams) (*notifications.NotificationDTO, error) {
	return &notifications.NotificationDTO{}, nil
}

func (f *fakeNotificationsService) ListFor(_ context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	f.listParams = params
	return &notifications.ListResult{Items: []notifications.NotificationDTO{}, Cursor: "next"}, nil
}

func (f *fakeNotificationsService) MarkSeen(_ context.Context, _ uuid.UUID, notificationID uuid.UUID) error {
	f.seen = append(f.seen, notificationID)
	return nil
}

func (f *fakeNotificationsService) Dismiss(_ context.Context, _ uuid.UUID, notificationID uuid.UUID) error {
	f.dismissed = append(f.dismissed, notificationID)
	return nil
}

func (f *fakeNotificationsService) UnseenCount(context.Context, uuid.UUID) (int64, error) {
	return f.unseen, nil
}

func TestListNotificationsScopesToActor(t *testing.T) {
	svc := &fakeNotificationsService{}
	user := testUser()
	handler := ListNotifications(svc, nil)

	req := actorContext(httptest.NewRequest(http.MethodGet, "/api/v1/notifications?limit=5&unseenOnly=true&cursor=abc", nil), user)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.listParams.UserID != user.ID {
		t.Fatalf("expected list scoped to %s, got %s", user.ID, svc.listParams.UserID)
	}
	if svc.listParams.Limit != 5 || !svc.listParams.UnseenOnly || svc.listParams.Cursor != "abc" {
		t.Fatalf("unexpected list params %+v", svc.listParams)
	}
}

func TestListNotificationsRejectsBadUnseenFlag(t *testing.T) {
	handler := ListNotifications(&fakeNotificationsService{}, nil)

	req := actorContext(httptest.NewRequest(http.MethodGet, "/api/v1/notifications?unseenOnly=maybe", nil), testUser())
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListNotificationsRequiresActor(t *testing.T) {
	handler := ListNotifications(&fakeNotificationsService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestNotificationsBadgeReturnsCount(t *testing.T) {
	svc := &fakeNotificationsService{unseen: 7}
	handler := NotificationsBadge(svc, nil)

	req := actorContext(httptest.NewRequest(http.MethodGet, "/api/v1/notifications/badge", nil), testUser())
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["unseen"] != 7 {
		t.Fatalf("expected 7 unseen, got %d", envelope.Data["unseen"])
	}
}

func TestMarkNotificationSeen(t *testing.T) {
	svc := &fakeNotificationsService{}
	user := testUser()
	notificationID := uuid.New()

	router := chi.NewRouter()
	router.Post("/api/v1/notifications/{notificationId}/seen", func(w http.ResponseWriter, r *http.Request) {
		MarkNotificationSeen(svc, nil)(w, actorContext(r, user))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/"+notificationID.String()+"/seen", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.seen) != 1 || svc.seen[0] != notificationID {
		t.Fatalf("expected %s marked seen, got %v", notificationID, svc.seen)
	}
}

func TestDismissNotification(t *testing.T) {
	svc := &fakeNotificationsService{}
	user := testUser()
	notificationID := uuid.New()

	router := chi.NewRouter()
	router.Delete("/api/v1/notifications/{notificationId}", func(w http.ResponseWriter, r *http.Request) {
		DismissNotification(svc, nil)(w, actorContext(r, user))
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/notifications/"+notificationID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.dismissed) != 1 || svc.dismissed[0] != notificationID {
		t.Fatalf("expected %s dismissed, got %v", notificationID, svc.dismissed)
	}
}

func TestDismissNotificationRejectsBadID(t *testing.T) {
	user := testUser()
	router := chi.NewRouter()
	router.Delete("/api/v1/notifications/{notificationId}", func(w http.ResponseWriter, r *http.Request) {
		DismissNotification(&fakeNotificationsService{}, nil)(w, actorContext(r, user))
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/notifications/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
