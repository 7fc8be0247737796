package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/ghzx55/graderevive/internal/config"
	"github.com/ghzx55/graderevive/internal/logger"
	"github.com/ghzx55/graderevive/internal/model"
	"github.com/ghzx55/graderevive/internal/session"
	"github.com/ghzx55/graderevive/internal/storage"
	"github.com/ghzx55/graderevive/internal/transcript"
	"github.com/ghzx55/graderevive/internal/worker"
	"github.com/ghzx55/graderevive/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// multipartOverhead leaves room for the form framing around the file part.
const multipartOverhead = 64 << 10

type Handler struct {
	store    session.Store
	strategy transcript.ParsingStrategy
	archive  *storage.TranscriptArchive
	pool     *worker.WorkerPool
	cfg      *config.Config
	log      zerolog.Logger
}

// NewHandler wires the calculator endpoints. archive may be nil when upload
// archiving is disabled.
func NewHandler(
	store session.Store,
	strategy transcript.ParsingStrategy,
	archive *storage.TranscriptArchive,
	cfg *config.Config,
) *Handler {
	return &Handler{
		store:    store,
		strategy: strategy,
		archive:  archive,
		cfg:      cfg,
		log:      logger.Get(),
	}
}

// UseWorkerPool moves archive uploads off the request path.
func (h *Handler) UseWorkerPool(pool *worker.WorkerPool) {
	h.pool = pool
}

func (h *Handler) CreateSession(c *gin.Context) {
	filename, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	s := session.New(session.NewID())
	if !h.loadTranscript(c, s, filename, data) {
		return
	}

	if err := h.store.Save(c.Request.Context(), s); err != nil {
		h.respondError(c, err, nil)
		return
	}

	h.log.Info().
		Str("session_id", s.ID).
		Int("courses", len(s.Current)).
		Int("skipped", len(s.Skipped)).
		Msg("Session created")

	c.JSON(http.StatusCreated, toResponse(s))
}

func (h *Handler) GetSession(c *gin.Context) {
	s, ok := h.loadSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toResponse(s))
}

// DeleteSession also purges the session's archived transcripts.
func (h *Handler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err, nil)
		return
	}

	if h.archive != nil {
		h.runArchiveJob(c, id, worker.PurgeJob(h.archive, id), "Archived transcripts not purged")
	}
	c.Status(http.StatusNoContent)
}

// UploadTranscript replaces the session's working set with a new file.
func (h *Handler) UploadTranscript(c *gin.Context) {
	s, ok := h.loadSession(c)
	if !ok {
		return
	}

	filename, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	if !h.loadTranscript(c, s, filename, data) {
		return
	}

	h.save(c, s)
}

func (h *Handler) ToggleMajor(c *gin.Context) {
	var req model.MajorToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", "Invalid request body")
		return
	}

	s, ok := h.loadSession(c)
	if !ok {
		return
	}

	courseID := c.Param("course_id")
	if err := s.ToggleMajor(courseID, *req.IsMajor); err != nil {
		h.respondError(c, err, gin.H{"course_id": courseID})
		return
	}

	h.save(c, s)
}

func (h *Handler) SetPremium(c *gin.Context) {
	var req model.PremiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", "Invalid request body")
		return
	}

	s, ok := h.loadSession(c)
	if !ok {
		return
	}

	s.SetPremium(*req.Premium)
	h.log.Info().Str("session_id", s.ID).Bool("premium", *req.Premium).Msg("Premium flag changed")
	h.save(c, s)
}

func (h *Handler) GetRetake(c *gin.Context) {
	s, ok := h.loadSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, retakeState(s))
}

// UpdateSlot applies course_id first, then grade. Either may be omitted; an
// empty course_id deselects the slot.
func (h *Handler) UpdateSlot(c *gin.Context) {
	slot, ok := slotParam(c)
	if !ok {
		return
	}

	var req model.SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.CourseID == nil && req.Grade == nil) {
		badRequest(c, "INVALID_REQUEST", "course_id or grade is required")
		return
	}

	s, ok := h.loadSession(c)
	if !ok {
		return
	}

	if req.CourseID != nil {
		if err := s.SelectCourse(slot, *req.CourseID); err != nil {
			h.respondError(c, err, nil)
			return
		}
	}
	if req.Grade != nil {
		if err := s.SetReplacementGrade(slot, *req.Grade); err != nil {
			h.respondError(c, err, nil)
			return
		}
	}

	h.saveRetake(c, s)
}

func (h *Handler) ClearSlot(c *gin.Context) {
	slot, ok := slotParam(c)
	if !ok {
		return
	}

	s, ok := h.loadSession(c)
	if !ok {
		return
	}

	if err := s.ClearSlot(slot); err != nil {
		h.respondError(c, err, nil)
		return
	}

	h.saveRetake(c, s)
}

// Simulate submits the retake slots. A rejected submission is not saved, so
// the stored session keeps its previous GPA values.
func (h *Handler) Simulate(c *gin.Context) {
	s, ok := h.loadSession(c)
	if !ok {
		return
	}

	if _, err := s.Simulate(); err != nil {
		h.log.Debug().Err(err).Str("session_id", s.ID).Msg("Simulation rejected")
		h.respondError(c, err, nil)
		return
	}

	h.save(c, s)
}

func (h *Handler) Reset(c *gin.Context) {
	s, ok := h.loadSession(c)
	if !ok {
		return
	}

	s.Reset()
	h.save(c, s)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}

func (h *Handler) loadSession(c *gin.Context) (*session.Session, bool) {
	s, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, nil)
		return nil, false
	}
	return s, true
}

func (h *Handler) save(c *gin.Context, s *session.Session) {
	if err := h.store.Save(c.Request.Context(), s); err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, toResponse(s))
}

func (h *Handler) saveRetake(c *gin.Context, s *session.Session) {
	if err := h.store.Save(c.Request.Context(), s); err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, retakeState(s))
}

// readUpload returns the multipart "file" part, enforcing the upload limit.
func (h *Handler) readUpload(c *gin.Context) (string, []byte, bool) {
	limit := h.cfg.Upload.MaxBytes
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, model.ErrorResponse{Error: "FILE_TOO_LARGE", Message: "Uploaded file is too large"})
			return "", nil, false
		}
		badRequest(c, "FILE_REQUIRED", "Multipart field 'file' is required")
		return "", nil, false
	}

	if header.Size > limit {
		c.JSON(http.StatusRequestEntityTooLarge, model.ErrorResponse{Error: "FILE_TOO_LARGE", Message: "Uploaded file is too large"})
		return "", nil, false
	}

	f, err := header.Open()
	if err != nil {
		h.respondError(c, err, nil)
		return "", nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.respondError(c, err, nil)
		return "", nil, false
	}

	return header.Filename, data, true
}

// loadTranscript parses data into s. On failure the response is written and
// s is left as it was.
func (h *Handler) loadTranscript(c *gin.Context, s *session.Session, filename string, data []byte) bool {
	h.archiveUpload(c, s.ID, filename, data)

	result, err := h.strategy.Parse(c.Request.Context(), filename, data)
	if err != nil {
		var details interface{}
		if result != nil && errors.Is(err, errors.ErrNoValidCourses) {
			details = gin.H{"skipped": result.Skipped}
		}
		h.log.Info().Err(err).Str("session_id", s.ID).Str("filename", filename).Msg("Transcript rejected")
		h.respondError(c, err, details)
		return false
	}

	s.Load(result.Courses, result.Skipped)
	return true
}

// archiveUpload is best effort; the upload is parsed either way.
func (h *Handler) archiveUpload(c *gin.Context, sessionID, filename string, data []byte) {
	if h.archive == nil {
		return
	}
	h.runArchiveJob(c, sessionID, worker.ArchiveJob(h.archive, sessionID, filename, data), "Transcript not archived")
}

// runArchiveJob queues job on the pool, or runs it inline without one.
// Failures are only logged.
func (h *Handler) runArchiveJob(c *gin.Context, sessionID string, job worker.Job, failure string) {
	if h.pool != nil {
		if !h.pool.Submit(job) {
			h.log.Warn().Str("session_id", sessionID).Msg(failure)
		}
		return
	}

	if err := job(c.Request.Context()); err != nil {
		h.log.Warn().Err(err).Str("session_id", sessionID).Msg(failure)
	}
}

func slotParam(c *gin.Context) (int, bool) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		badRequest(c, "INVALID_SLOT", "Slot must be an integer")
		return 0, false
	}
	return slot, true
}

func retakeState(s *session.Session) model.RetakeState {
	slots := s.Slots()
	out := make([]model.RetakeSlot, len(slots))
	for i, slot := range slots {
		out[i] = model.RetakeSlot{Index: i, CourseID: slot.CourseID, Grade: slot.Grade}
	}

	eligible := s.Eligible()
	if eligible == nil {
		eligible = []model.Course{}
	}

	return model.RetakeState{
		Tier:     string(s.Tier()),
		MaxSlots: s.MaxSlots(),
		Slots:    out,
		Eligible: eligible,
	}
}

func toResponse(s *session.Session) model.SessionResponse {
	courses := s.Current
	if courses == nil {
		courses = []model.Course{}
	}

	return model.SessionResponse{
		ID:          s.ID,
		Premium:     s.Premium,
		Courses:     courses,
		Skipped:     s.Skipped,
		Baseline:    s.Baseline.Pair(),
		Simulated:   s.Simulated.Pair(),
		IsSimulated: s.IsSimulated,
		Retake:      retakeState(s),
		UpdatedAt:   s.UpdatedAt,
	}
}
