package server

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/lockplane/authfile"
	"github.com/lockplane/authfile/storage"
)

// FileHandler serves user file uploads on top of the storage failover
// chain. Metadata lives in the files table, blobs in whichever backend
// accepted the write.
type FileHandler struct {
	repo        authfile.RepositoryManager
	store       *storage.Chain
	maxSize     int64
	allowedExts map[string]struct{}
	logger      authfile.Logger
}

func NewFileHandler(repo authfile.RepositoryManager, store *storage.Chain, maxSize int64, allowedExts []string, logger authfile.Logger) *FileHandler {
	exts := make(map[string]struct{}, len(allowedExts))
	for _, ext := range allowedExts {
		exts[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &FileHandler{
		repo:        repo,
		store:       store,
		maxSize:     maxSize,
		allowedExts: exts,
		logger:      logger,
	}
}

func (h *FileHandler) Upload(c *fiber.Ctx) error {
	claims := ClaimsFromCtx(c)
	userID, err := uuid.Parse(claims.Subject())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid subject"})
	}

	header, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file field is required"})
	}

	if header.Size > h.maxSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": fmt.Sprintf("file exceeds %d bytes", h.maxSize),
		})
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if len(h.allowedExts) > 0 {
		if _, ok := h.allowedExts[ext]; !ok {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "file type not allowed",
			})
		}
	}

	body, err := header.Open()
	if err != nil {
		return fail(c, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read upload"))
	}
	defer body.Close()

	key := fmt.Sprintf("%s/%s", userID, uuid.New())
	if ext != "" {
		key += "." + ext
	}

	contentType := header.Header.Get(fiber.HeaderContentType)
	backend, err := h.store.UploadTo(c.Context(), key, body, header.Size, contentType)
	if err != nil {
		return fail(c, err)
	}

	record := &authfile.File{
		ID:          uuid.New(),
		UserID:      userID,
		Key:         key,
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: contentType,
		Backend:     backend,
	}

	if _, err := h.repo.Files().Create(c.Context(), record); err != nil {
		// Metadata write failed, do not leave an orphan blob behind.
		if derr := h.store.Delete(c.Context(), key); derr != nil {
			h.logger.Warn("orphaned blob %s after metadata failure: %v", key, derr)
		}
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func (h *FileHandler) Download(c *fiber.Ctx) error {
	record, err := h.lookup(c)
	if err != nil {
		return fail(c, err)
	}

	body, err := h.store.Download(c.Context(), record.Key)
	if err != nil {
		return fail(c, err)
	}

	c.Set(fiber.HeaderContentType, record.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", record.Name))
	return c.SendStream(body, int(record.Size))
}

func (h *FileHandler) Presign(c *fiber.Ctx) error {
	record, err := h.lookup(c)
	if err != nil {
		return fail(c, err)
	}

	url, err := h.store.PresignURL(c.Context(), record.Key, 15*time.Minute)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"url": url})
}

func (h *FileHandler) Delete(c *fiber.Ctx) error {
	record, err := h.lookup(c)
	if err != nil {
		return fail(c, err)
	}

	if err := h.store.Delete(c.Context(), record.Key); err != nil {
		h.logger.Warn("blob delete for %s failed: %v", record.Key, err)
	}

	if err := h.repo.Files().Delete(c.Context(), record); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// lookup loads the file record by id and enforces ownership.
func (h *FileHandler) lookup(c *fiber.Ctx) (*authfile.File, error) {
	claims := ClaimsFromCtx(c)

	id := c.Params("id")
	record, err := h.repo.Files().GetByID(c.Context(), id)
	if err != nil {
		return nil, err
	}

	if record.UserID.String() != claims.Subject() {
		return nil, repository.NewRecordNotFound()
	}

	return record, nil
}
