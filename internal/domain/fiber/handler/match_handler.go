package handler

import (
	"errors"
	"io"
	"time"

	"github.com/fadilmartias/resume-matcher/internal/middleware"
	"github.com/fadilmartias/resume-matcher/internal/usecase"
	"github.com/fadilmartias/resume-matcher/internal/util"
	"github.com/gofiber/fiber/v2"
)

// errUnnamedPart is returned when an unnamed resume part is opened; MatchBatch
// skips unnamed uploads before opening them.
var errUnnamedPart = errors.New("resume part has no file name")

type MatchHandler struct {
	uc                usecase.MatchingUsecaseInterface
	requestsPerMinute int
}

func NewMatchHandler(uc usecase.MatchingUsecaseInterface, requestsPerMinute int) *MatchHandler {
	return &MatchHandler{uc: uc, requestsPerMinute: requestsPerMinute}
}

func (h *MatchHandler) RegisterRoutes(app fiber.Router) {
	app.Post("/match", middleware.RateLimiter(h.requestsPerMinute, 1*time.Minute), h.Match)
}

func (h *MatchHandler) Match(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	// multipart stores parts sent with an empty filename as plain values, so
	// they are counted from form.Value.
	if err != nil || len(form.File["resume"])+len(form.Value["resume"]) == 0 {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "No resume file part",
		}, err)
	}

	jobID := ""
	if values := form.Value["jd_id"]; len(values) > 0 {
		jobID = values[0]
	}
	if jobID == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "No job description selected",
		})
	}

	files := form.File["resume"]
	unnamed := form.Value["resume"]
	uploads := make([]usecase.Upload, 0, len(files)+len(unnamed))
	for _, fh := range files {
		uploads = append(uploads, usecase.Upload{
			Filename: fh.Filename,
			Open:     func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	for range unnamed {
		uploads = append(uploads, usecase.Upload{
			Open: func() (io.ReadCloser, error) { return nil, errUnnamedPart },
		})
	}

	summary, err := h.uc.MatchBatch(c.UserContext(), jobID, uploads)
	switch {
	case errors.Is(err, usecase.ErrNoDocuments):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "No selected file",
		})
	case errors.Is(err, usecase.ErrJobNotFound):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "Job description not found",
		})
	case err != nil:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to process resumes",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: summary.Message(),
		Data:    toMatchSummaryDTO(summary),
	})
}
