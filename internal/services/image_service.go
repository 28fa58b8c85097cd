package services

import (
	"bytes"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"gallery-backend/internal/database"
	"gallery-backend/internal/models"
	"gallery-backend/internal/storage"

	"github.com/google/uuid"
)

var (
	ErrMalformedPayload = errors.New("malformed image payload")
	ErrImageNotFound    = errors.New("image not found")
)

type ImageService struct {
	db    *database.DB
	store *storage.LocalStorage
}

func NewImageService(db *database.DB, store *storage.LocalStorage) *ImageService {
	return &ImageService{db: db, store: store}
}

// Upload turns a data-URI style payload ("<header>,<base64 body>") into a
// stored file plus an ownership row. The file is written before the row is
// inserted, so a crash in between can leak an orphan file but never leaves
// a row without a backing file.
func (s *ImageService) Upload(ownerID uuid.UUID, payload string) (*models.Image, error) {
	data, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}

	seq, err := s.nextSequence(ownerID)
	if err != nil {
		return nil, err
	}

	// Fixed .png extension regardless of the decoded bytes; the payload
	// header is not inspected.
	filename := fmt.Sprintf("user_%s_%d.png", ownerID, seq+1)

	if _, err := s.store.Save(filename, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	return s.record(filename, ownerID)
}

// ListForOwner returns the owner's images, newest first.
func (s *ImageService) ListForOwner(ownerID uuid.UUID) ([]models.Image, error) {
	images := []models.Image{}
	query := "select id, filename, owner_id from images where owner_id = $1 order by id desc"

	if err := s.db.Select(&images, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	return images, nil
}

// FindOwned resolves a filename only when it belongs to the given owner.
// A filename owned by someone else reports the same ErrImageNotFound as a
// filename that was never stored.
func (s *ImageService) FindOwned(filename string, ownerID uuid.UUID) (*models.Image, error) {
	var image models.Image
	query := "select id, filename, owner_id from images where filename = $1 and owner_id = $2"

	if err := s.db.Get(&image, query, filename, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	return &image, nil
}

func (s *ImageService) nextSequence(ownerID uuid.UUID) (int, error) {
	var count int
	if err := s.db.Get(&count, "select count(*) from images where owner_id = $1", ownerID); err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}
	return count, nil
}

func (s *ImageService) record(filename string, ownerID uuid.UUID) (*models.Image, error) {
	image := &models.Image{Filename: filename, OwnerID: ownerID}
	query := "insert into images (filename, owner_id) values ($1, $2) returning id"

	if err := s.db.Get(&image.ID, query, filename, ownerID); err != nil {
		return nil, fmt.Errorf("failed to record image: %w", err)
	}

	return image, nil
}

func decodePayload(payload string) ([]byte, error) {
	_, encoded, found := strings.Cut(payload, ",")
	if !found {
		return nil, ErrMalformedPayload
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrMalformedPayload
	}

	return data, nil
}
