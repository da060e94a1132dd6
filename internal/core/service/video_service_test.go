package service

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clipstream/video-platform/internal/core/domain"
	"github.com/clipstream/video-platform/internal/core/ports"
)

func videoFile() *multipart.FileHeader {
	return &multipart.FileHeader{Filename: "clip.mp4"}
}

func thumbnailFile() *multipart.FileHeader {
	return &multipart.FileHeader{Filename: "thumb.jpg"}
}

func uploadInput() ports.UploadVideoInput {
	return ports.UploadVideoInput{
		Title:       "  My Clip ",
		Description: "a description",
		Channel:     "mychannel",
	}
}

func TestVideoService_Upload(t *testing.T) {
	repo := newStubVideoRepo()
	storage := newStubStorage()
	svc := NewVideoService(repo, storage, zerolog.Nop())

	video, err := svc.Upload(context.Background(), "user_1", uploadInput(), videoFile(), thumbnailFile())
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if video.ID == "" {
		t.Fatalf("expected persisted video id")
	}
	if video.Title != "My Clip" {
		t.Fatalf("title not trimmed: %q", video.Title)
	}
	if video.Owner != "user_1" {
		t.Fatalf("unexpected owner: %q", video.Owner)
	}
	if video.URL == "" || video.Thumbnail == "" {
		t.Fatalf("expected media urls, got %+v", video)
	}
	if len(storage.uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(storage.uploads))
	}
}

func TestVideoService_Upload_MissingFields(t *testing.T) {
	svc := NewVideoService(newStubVideoRepo(), newStubStorage(), zerolog.Nop())

	input := uploadInput()
	input.Description = "  "
	if _, err := svc.Upload(context.Background(), "user_1", input, videoFile(), thumbnailFile()); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	if _, err := svc.Upload(context.Background(), "user_1", uploadInput(), nil, thumbnailFile()); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing video, got %v", err)
	}
	if _, err := svc.Upload(context.Background(), "user_1", uploadInput(), videoFile(), nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing thumbnail, got %v", err)
	}
}

func TestVideoService_Upload_StorageFailure(t *testing.T) {
	repo := newStubVideoRepo()
	storage := newStubStorage()
	storage.failFolders[videoFolder] = true
	svc := NewVideoService(repo, storage, zerolog.Nop())

	if _, err := svc.Upload(context.Background(), "user_1", uploadInput(), videoFile(), thumbnailFile()); !errors.Is(err, domain.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	if len(repo.videos) != 0 {
		t.Fatalf("no video should be persisted after upload failure")
	}

	storage.failFolders[videoFolder] = false
	storage.failFolders[thumbnailFolder] = true
	if _, err := svc.Upload(context.Background(), "user_1", uploadInput(), videoFile(), thumbnailFile()); !errors.Is(err, domain.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed for thumbnail, got %v", err)
	}
}
