package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/atmos-collective/atmos-site-backend/database"
	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/atmos-collective/atmos-site-backend/services"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const purgeConcurrency = 4

type fileHandler struct {
	responder     Responder
	logger        zerolog.Logger
	fileRepo      *database.FileUploadRepo
	store         services.ObjectStore
	present       presenter
	maxUploadSize int64
	now           func() time.Time
}

func newFileHandler(fileRepo *database.FileUploadRepo, store services.ObjectStore, present presenter, maxUploadSize int64, now func() time.Time) fileHandler {
	logger := log.With().Str("handlerName", "fileHandler").Logger()

	return fileHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		fileRepo:      fileRepo,
		store:         store,
		present:       present,
		maxUploadSize: maxUploadSize,
		now:           now,
	}
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// getAllFiles lists uploads newest first. DELETED files only show when asked for.
// @Summary Get files
// @Tags Files
// @Produce json
// @Param status query string false "OK, SOFT_DELETED, DELETED, UPLOADING or ERRORED"
// @Param tag query string false "File tag name"
// @Success 200 {array} fileView "Files with tags"
// @Router /files [get]
func (h fileHandler) getAllFiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := models.FileUploadStatus(strings.ToUpper(r.URL.Query().Get("status")))
		if status != "" && !status.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "unknown file status"))
			return
		}

		files, err := h.fileRepo.FindAll(r.Context(), database.FileFilter{
			Status: status,
			Tag:    r.URL.Query().Get("tag"),
		})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find files", "files", err))
			return
		}
		h.responder.WriteJSON(w, h.present.files(files))
	}
}

// getFile returns one upload with a short-lived download link
func (h fileHandler) getFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileID, err := urlParamUUID(r, "fileID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		file, err := h.fileRepo.FindByID(r.Context(), fileID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find file", "file", err))
			return
		}

		view := h.present.file(file)
		if h.store != nil && file.Status != models.FileStatusDeleted {
			downloadURL, err := h.store.PresignGet(r.Context(), file.Key)
			if err != nil {
				h.logger.Warn().Err(err).Str("key", file.Key).Msg("failed to presign download")
			} else {
				view.DownloadURL = downloadURL
			}
		}
		h.responder.WriteJSON(w, view)
	}
}

// uploadFile stores a multipart upload in the bucket. Content already stored
// as an OK file is not uploaded again; the existing file is returned with the
// new tags merged in.
// @Summary Upload file
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File content"
// @Param tags formData string false "Comma separated tag names"
// @Success 201 {object} fileView "Stored file"
// @Success 200 {object} fileView "Existing file with identical content"
// @Failure 413 {object} ErrorResponse "Request Entity Too Large"
// @Failure 415 {object} ErrorResponse "Unsupported Media Type"
// @Failure 502 {object} ErrorResponse "Bad Gateway - Object storage failed"
// @Router /files [post]
func (h fileHandler) uploadFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.store == nil {
			h.responder.WriteError(w, errs.NewStorageNotConfiguredError())
			return
		}

		if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mediaType != "multipart/form-data" {
			h.responder.WriteError(w, errs.NewUnsupportedMediaTypeError(r.Header.Get("Content-Type"), []string{"multipart/form-data"}))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(h.maxUploadSize))
				return
			}
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		upload, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer upload.Close()

		if header.Size > h.maxUploadSize {
			h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(h.maxUploadSize))
			return
		}
		tags := splitTags(r.FormValue("tags"))

		checksum, contentType, err := inspectUpload(upload, header)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to read upload", err))
			return
		}

		existing, err := h.fileRepo.FindOKByChecksum(r.Context(), checksum)
		if err == nil {
			h.respondDeduplicated(w, r, existing, tags)
			return
		}
		if dbErr := wrapDatabaseError("find file", "file", err); !errs.IsNotFound(dbErr) {
			h.responder.WriteError(w, dbErr)
			return
		}

		var uploadedBy *uuid.UUID
		if userID, ok := ctxGetUserID(r.Context()); ok {
			uploadedBy = &userID
		}
		file := &models.FileUpload{
			Key:          services.ObjectKey(h.now(), header.Filename),
			OriginalName: header.Filename,
			ContentType:  contentType,
			Size:         header.Size,
			Checksum:     &checksum,
			Status:       models.FileStatusUploading,
			UploadedByID: uploadedBy,
		}
		if err := h.fileRepo.Add(r.Context(), file, tags); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create file", "file", err))
			return
		}

		if err := h.store.Put(r.Context(), file.Key, upload, header.Size, contentType); err != nil {
			h.markErrored(file.ID, err)
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.fileRepo.SetStatus(r.Context(), file.ID, models.FileStatusOK); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update file status", "file", err))
			return
		}

		stored, err := h.fileRepo.FindByID(r.Context(), file.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find file", "file", err))
			return
		}
		h.logger.Info().Str("fileID", file.ID.String()).Str("key", file.Key).Int64("size", file.Size).Msg("file uploaded")
		h.responder.WriteCreated(w, h.present.file(stored))
	}
}

// inspectUpload hashes the upload and sniffs its type, leaving it rewound
func inspectUpload(upload multipart.File, header *multipart.FileHeader) (string, string, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, upload); err != nil {
		return "", "", err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		sniff := make([]byte, 512)
		if _, err := upload.Seek(0, io.SeekStart); err != nil {
			return "", "", err
		}
		n, _ := io.ReadFull(upload, sniff)
		contentType = http.DetectContentType(sniff[:n])
	}

	if _, err := upload.Seek(0, io.SeekStart); err != nil {
		return "", "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), contentType, nil
}

func (h fileHandler) respondDeduplicated(w http.ResponseWriter, r *http.Request, existing *models.FileUpload, tags []string) {
	if len(tags) > 0 {
		if err := h.fileRepo.AddTags(r.Context(), existing.ID, tags); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("add file tags", "file", err))
			return
		}
	}

	file, err := h.fileRepo.FindByID(r.Context(), existing.ID)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find file", "file", err))
		return
	}

	h.logger.Info().Str("fileID", file.ID.String()).Msg("upload matched existing file")
	view := h.present.file(file)
	view.Deduplicated = true
	h.responder.WriteJSON(w, view)
}

// markErrored records a failed upload. It runs on a fresh context because the
// request context may be the reason the upload failed.
func (h fileHandler) markErrored(fileID uuid.UUID, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := h.fileRepo.SetStatus(ctx, fileID, models.FileStatusErrored); err != nil {
		h.logger.Error().Err(err).Str("fileID", fileID.String()).Msg("failed to mark upload as errored")
	}
	h.logger.Error().Err(cause).Str("fileID", fileID.String()).Msg("upload to object storage failed")
}

// presignUpload creates an UPLOADING record and a URL the browser can PUT the
// object to directly. The upload is finished by confirmUpload.
func (h fileHandler) presignUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.store == nil {
			h.responder.WriteError(w, errs.NewStorageNotConfiguredError())
			return
		}

		var req presignRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		filename, err := requireText("filename", req.Filename, 255)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Size < 0 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("size", "must not be negative"))
			return
		}
		if req.Size > h.maxUploadSize {
			h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(h.maxUploadSize))
			return
		}
		contentType := strings.TrimSpace(req.ContentType)
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		var uploadedBy *uuid.UUID
		if userID, ok := ctxGetUserID(r.Context()); ok {
			uploadedBy = &userID
		}
		file := &models.FileUpload{
			Key:          services.ObjectKey(h.now(), filename),
			OriginalName: filename,
			ContentType:  contentType,
			Size:         req.Size,
			Status:       models.FileStatusUploading,
			UploadedByID: uploadedBy,
		}
		if err := h.fileRepo.Add(r.Context(), file, req.Tags); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create file", "file", err))
			return
		}

		uploadURL, err := h.store.PresignPut(r.Context(), file.Key, contentType)
		if err != nil {
			h.markErrored(file.ID, err)
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteCreated(w, presignResponse{
			File:      h.present.file(file),
			UploadURL: uploadURL,
			Method:    http.MethodPut,
			Headers:   map[string]string{"Content-Type": contentType},
		})
	}
}

// confirmUpload checks that a presigned upload reached the bucket
func (h fileHandler) confirmUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.store == nil {
			h.responder.WriteError(w, errs.NewStorageNotConfiguredError())
			return
		}

		fileID, err := urlParamUUID(r, "fileID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		file, err := h.fileRepo.FindByID(r.Context(), fileID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find file", "file", err))
			return
		}
		if file.Status != models.FileStatusUploading {
			h.responder.WriteError(w, errs.NewInvalidStatusChangeError(string(file.Status), string(models.FileStatusOK)))
			return
		}

		if _, err := h.store.Head(r.Context(), file.Key); err != nil {
			if errs.IsObjectMissing(err) {
				h.markErrored(file.ID, err)
			}
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.fileRepo.SetStatus(r.Context(), file.ID, models.FileStatusOK); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update file status", "file", err))
			return
		}

		confirmed, err := h.fileRepo.FindByID(r.Context(), file.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find file", "file", err))
			return
		}
		h.responder.WriteJSON(w, h.present.file(confirmed))
	}
}

func (h fileHandler) setFileTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileID, err := urlParamUUID(r, "fileID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req fileTagsRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.fileRepo.SetTags(r.Context(), fileID, req.Tags); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("set file tags", "file", err))
			return
		}

		file, err := h.fileRepo.FindByID(r.Context(), fileID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find file", "file", err))
			return
		}
		h.responder.WriteJSON(w, h.present.file(file))
	}
}

func (h fileHandler) setStatus(next models.FileUploadStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileID, err := urlParamUUID(r, "fileID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.fileRepo.SetStatus(r.Context(), fileID, next); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update file status", "file", err))
			return
		}

		file, err := h.fileRepo.FindByID(r.Context(), fileID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find file", "file", err))
			return
		}
		h.responder.WriteJSON(w, h.present.file(file))
	}
}

// softDeleteFile hides a file from the library; the object stays in the bucket
func (h fileHandler) softDeleteFile() http.HandlerFunc {
	return h.setStatus(models.FileStatusSoftDeleted)
}

func (h fileHandler) restoreFile() http.HandlerFunc {
	return h.setStatus(models.FileStatusOK)
}

// purge deletes the object and marks the record DELETED. The transition is
// checked first so an object is never removed for a file that must keep it.
func (h fileHandler) purge(ctx context.Context, file *models.FileUpload) error {
	if !file.Status.CanTransition(models.FileStatusDeleted) {
		return errs.NewInvalidStatusChangeError(string(file.Status), string(models.FileStatusDeleted))
	}
	if err := h.store.Delete(ctx, file.Key); err != nil {
		return err
	}
	if _, err := h.fileRepo.SetStatus(ctx, file.ID, models.FileStatusDeleted); err != nil {
		return wrapDatabaseError("update file status", "file", err)
	}
	h.logger.Info().Str("fileID", file.ID.String()).Str("key", file.Key).Msg("file purged")
	return nil
}

func (h fileHandler) purgeFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.store == nil {
			h.responder.WriteError(w, errs.NewStorageNotConfiguredError())
			return
		}

		fileID, err := urlParamUUID(r, "fileID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		file, err := h.fileRepo.FindByID(r.Context(), fileID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find file", "file", err))
			return
		}

		if err := h.purge(r.Context(), file); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, statusResponse{Status: "success", Message: "file purged successfully"})
	}
}

// purgeFiles hard deletes many files, a few bucket deletes at a time. Each id
// succeeds or fails on its own; the response lists both.
// @Summary Bulk purge files
// @Tags Files
// @Accept json
// @Produce json
// @Param ids body idsRequest true "File IDs"
// @Success 200 {object} purgeResponse "Purged and failed IDs"
// @Router /files/purge [post]
func (h fileHandler) purgeFiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.store == nil {
			h.responder.WriteError(w, errs.NewStorageNotConfiguredError())
			return
		}

		var req idsRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		ids, err := parseUUIDs("ids", req.IDs)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if len(ids) == 0 {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("ids"))
			return
		}
		seen := make(map[uuid.UUID]struct{}, len(ids))
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				h.responder.WriteError(w, errs.NewInvalidFieldError("ids", "duplicate id in list"))
				return
			}
			seen[id] = struct{}{}
		}

		files, err := h.fileRepo.FindByIDs(r.Context(), ids)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find files", "files", err))
			return
		}
		byID := make(map[uuid.UUID]*models.FileUpload, len(files))
		for _, f := range files {
			byID[f.ID] = f
		}

		results := make([]error, len(ids))
		g, gctx := errgroup.WithContext(r.Context())
		g.SetLimit(purgeConcurrency)
		for i, id := range ids {
			file, ok := byID[id]
			if !ok {
				results[i] = errs.NewNotFoundError("file not found")
				continue
			}
			i := i // per-iteration copy; module targets go 1.21 loop semantics
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					results[i] = err
					return err
				}
				results[i] = h.purge(gctx, file)
				return nil
			})
		}
		// only cancellation is returned, and that is already in results
		_ = g.Wait()

		response := purgeResponse{Purged: []string{}, Failed: []purgeResult{}}
		for i, id := range ids {
			if results[i] != nil {
				response.Failed = append(response.Failed, purgeResult{ID: id.String(), Error: results[i].Error()})
				continue
			}
			response.Purged = append(response.Purged, id.String())
		}
		h.responder.WriteJSON(w, response)
	}
}
