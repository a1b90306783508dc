package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cat_registry/internal/model"
	"cat_registry/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrCatNotFound       = errors.New("cat not found")
	ErrNoCatsFound       = errors.New("no cats found")
	ErrForbidden         = errors.New("forbidden: caller does not have permission for this action")
	ErrInvalidInput      = errors.New("invalid input")
	ErrFileRequired      = errors.New("cat image file is required")
	ErrInvalidFileFormat = errors.New("invalid file format. only .jpg, .jpeg, .png, .gif are allowed")
	ErrFileSizeExceeded  = errors.New("file size exceeds limit")
)

const MaxFileSize = 5 * 1024 * 1024 // 5MB

// CatService defines operations on cat records
type CatService interface {
	ListCats(ctx context.Context) ([]model.Cat, error)
	GetCatByID(ctx context.Context, catID string) (*model.Cat, error)
	ListCatsByOwner(ctx context.Context, ident model.Identity) ([]model.Cat, error)
	ListCatsInBoundingBox(ctx context.Context, bottomLeft, topRight string) ([]model.Cat, error)
	CreateCat(ctx context.Context, ident model.Identity, req model.CreateCatRequest, file *multipart.FileHeader, location *model.GeoPoint) (*model.Cat, error)
	UpdateCat(ctx context.Context, catID string, ident model.Identity, req model.UpdateCatRequest, file *multipart.FileHeader, location *model.GeoPoint) (*model.Cat, error)
	AdminUpdateCat(ctx context.Context, catID string, ident model.Identity, req model.AdminUpdateCatRequest) (*model.Cat, error)
	DeleteCat(ctx context.Context, catID string, ident model.Identity) (*model.Cat, error)
	AdminDeleteCat(ctx context.Context, catID string, ident model.Identity) (*model.Cat, error)
}

type catService struct {
	repo       repository.CatRepository
	uploadsDir string
}

// NewCatService creates a new CatService
func NewCatService(repo repository.CatRepository, uploadsDir string) CatService {
	return &catService{repo: repo, uploadsDir: uploadsDir}
}

func (s *catService) ListCats(ctx context.Context) ([]model.Cat, error) {
	cats, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cats: %w", err)
	}
	if len(cats) == 0 {
		return nil, ErrNoCatsFound
	}
	return cats, nil
}

func (s *catService) GetCatByID(ctx context.Context, catID string) (*model.Cat, error) {
	cat, err := s.repo.FindByID(ctx, catID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cat by ID: %w", err)
	}
	if cat == nil {
		return nil, ErrCatNotFound
	}
	return cat, nil
}

func (s *catService) ListCatsByOwner(ctx context.Context, ident model.Identity) ([]model.Cat, error) {
	cats, err := s.repo.FindByOwnerID(ctx, ident.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cats by owner: %w", err)
	}
	return cats, nil
}

// parseCorner parses a "lon,lat" pair. Values that do not parse become NaN
// and flow through to the storage layer, whose rejection surfaces as a
// server error.
func parseCorner(raw string) [2]float64 {
	corner := [2]float64{math.NaN(), math.NaN()}
	parts := strings.Split(raw, ",")
	for i := 0; i < len(parts) && i < 2; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			v = math.NaN()
		}
		corner[i] = v
	}
	return corner
}

func (s *catService) ListCatsInBoundingBox(ctx context.Context, bottomLeft, topRight string) ([]model.Cat, error) {
	bl := parseCorner(bottomLeft)
	tr := parseCorner(topRight)

	cats, err := s.repo.FindInBoundingBox(ctx, bl[0], bl[1], tr[0], tr[1])
	if err != nil {
		return nil, fmt.Errorf("failed to list cats in bounding box: %w", err)
	}
	return cats, nil
}

func parseBirthdate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("%w: birthdate must be in YYYY-MM-DD format", ErrInvalidInput)
	}
	return &t, nil
}

// saveImage validates and stores an uploaded cat image, returning the stored filename
func (s *catService) saveImage(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > MaxFileSize {
		return "", ErrFileSizeExceeded
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	allowedExts := map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}
	if !allowedExts[ext] {
		return "", ErrInvalidFileFormat
	}

	catUploadsDir := filepath.Join(s.uploadsDir, "cats")
	if err := os.MkdirAll(catUploadsDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	fileName := uuid.NewString() + ext
	filePath := filepath.Join(catUploadsDir, fileName)

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file on server: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filePath) // Attempt to clean up
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return fileName, nil
}

func (s *catService) CreateCat(ctx context.Context, ident model.Identity, req model.CreateCatRequest, file *multipart.FileHeader, location *model.GeoPoint) (*model.Cat, error) {
	if file == nil {
		return nil, ErrFileRequired
	}

	birthdate, err := parseBirthdate(req.Birthdate)
	if err != nil {
		return nil, err
	}

	filename, err := s.saveImage(file)
	if err != nil {
		return nil, err
	}

	cat := &model.Cat{
		ID:        uuid.NewString(),
		CatName:   req.CatName,
		Weight:    req.Weight,
		Filename:  filename,
		Birthdate: birthdate,
		Location:  location,
		Owner: &model.OwnerSnapshot{
			ID:       ident.ID,
			UserName: ident.UserName,
			Email:    ident.Email,
		},
	}

	if err := s.repo.Create(ctx, cat); err != nil {
		return nil, fmt.Errorf("failed to create cat in repo: %w", err)
	}
	return cat, nil
}

func (s *catService) UpdateCat(ctx context.Context, catID string, ident model.Identity, req model.UpdateCatRequest, file *multipart.FileHeader, location *model.GeoPoint) (*model.Cat, error) {
	existing, err := s.repo.FindByID(ctx, catID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cat for update: %w", err)
	}
	if existing == nil {
		return nil, ErrCatNotFound
	}
	if existing.Owner == nil {
		// A record with no owner snapshot is corrupt; surface it instead of
		// silently dropping the request.
		return nil, fmt.Errorf("cat %s has no owner recorded", catID)
	}
	if existing.Owner.ID != ident.ID { // Only the owner can edit
		return nil, ErrForbidden
	}

	// Apply updates
	if req.CatName != nil {
		existing.CatName = *req.CatName
	}
	if req.Weight != nil {
		existing.Weight = *req.Weight
	}
	if req.Birthdate != nil {
		birthdate, err := parseBirthdate(*req.Birthdate)
		if err != nil {
			return nil, err
		}
		existing.Birthdate = birthdate
	}
	if file != nil {
		filename, err := s.saveImage(file)
		if err != nil {
			return nil, err
		}
		existing.Filename = filename
	}
	if location != nil {
		existing.Location = location
	}
	// Re-stamp the owner snapshot from the caller; ownership was just checked
	existing.Owner = &model.OwnerSnapshot{
		ID:       ident.ID,
		UserName: ident.UserName,
		Email:    ident.Email,
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update cat in repo: %w", err)
	}
	return existing, nil
}

func (s *catService) AdminUpdateCat(ctx context.Context, catID string, ident model.Identity, req model.AdminUpdateCatRequest) (*model.Cat, error) {
	if ident.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}

	existing, err := s.repo.FindByID(ctx, catID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cat for admin update: %w", err)
	}
	if existing == nil {
		return nil, ErrCatNotFound
	}

	if req.CatName != nil {
		existing.CatName = *req.CatName
	}
	if req.Weight != nil {
		existing.Weight = *req.Weight
	}
	if req.Birthdate != nil {
		birthdate, err := parseBirthdate(*req.Birthdate)
		if err != nil {
			return nil, err
		}
		existing.Birthdate = birthdate
	}
	if req.Owner != nil { // Admins may reassign the owner snapshot
		existing.Owner = req.Owner
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update cat in repo: %w", err)
	}
	return existing, nil
}

func (s *catService) DeleteCat(ctx context.Context, catID string, ident model.Identity) (*model.Cat, error) {
	existing, err := s.repo.FindByID(ctx, catID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cat for deletion: %w", err)
	}
	if existing == nil {
		return nil, ErrCatNotFound
	}
	if existing.Owner == nil {
		return nil, fmt.Errorf("cat %s has no owner recorded", catID)
	}
	if existing.Owner.ID != ident.ID {
		return nil, ErrForbidden
	}

	if err := s.repo.Delete(ctx, catID); err != nil {
		return nil, fmt.Errorf("failed to delete cat in repo: %w", err)
	}
	return existing, nil
}

func (s *catService) AdminDeleteCat(ctx context.Context, catID string, ident model.Identity) (*model.Cat, error) {
	if ident.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}

	existing, err := s.repo.FindByID(ctx, catID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cat for admin deletion: %w", err)
	}
	if existing == nil {
		return nil, ErrCatNotFound
	}

	if err := s.repo.Delete(ctx, catID); err != nil {
		return nil, fmt.Errorf("failed to delete cat in repo: %w", err)
	}
	return existing, nil
}
