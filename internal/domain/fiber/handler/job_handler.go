package handler

import (
	"errors"

	"github.com/fadilmartias/resume-matcher/internal/dto"
	"github.com/fadilmartias/resume-matcher/internal/usecase"
	"github.com/fadilmartias/resume-matcher/internal/util"
	"github.com/gofiber/fiber/v2"
)

type JobHandler struct {
	uc usecase.JobUsecaseInterface
}

func NewJobHandler(uc usecase.JobUsecaseInterface) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(app fiber.Router) {
	app.Get("/", h.List)
	app.Get("/rankings/:jobId", h.Rankings)
	app.Get("/add_jd", h.AddForm)
	app.Post("/add_jd", h.Add)
	app.Post("/delete_jd/:jobId", h.DeleteJob)
	app.Post("/delete_candidate/:candidateId", h.DeleteCandidate)
	app.Get("/candidates/:candidateId/resume", h.Resume)
}

func (h *JobHandler) List(c *fiber.Ctx) error {
	jobs, err := h.uc.List(c.UserContext())
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list job descriptions",
		}, err)
	}

	data := make([]dto.JobDescriptionDTO, 0, len(jobs))
	for i := range jobs {
		data = append(data, toJobDescriptionDTO(&jobs[i]))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get job descriptions",
		Data:    data,
	})
}

func (h *JobHandler) Rankings(c *fiber.Ctx) error {
	rankings, err := h.uc.Rankings(c.UserContext(), c.Params("jobId"), c.QueryInt("page", 1), c.QueryInt("page_size", 0))
	if errors.Is(err, usecase.ErrJobNotFound) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "job description not found",
		})
	}
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to get rankings",
		}, err)
	}

	candidates := make([]dto.CandidateDTO, 0, len(rankings.Candidates))
	for i := range rankings.Candidates {
		candidates = append(candidates, toCandidateDTO(&rankings.Candidates[i]))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get rankings",
		Data: dto.RankingsDTO{
			Job:        toJobDescriptionDTO(rankings.Job),
			Candidates: candidates,
		},
		Pagination: rankings.Pagination,
	})
}

func (h *JobHandler) AddForm(c *fiber.Ctx) error {
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Submit title and description to create a job description",
		Data: fiber.Map{
			"method": fiber.MethodPost,
			"action": "/add_jd",
			"fields": []string{"title", "description"},
		},
	})
}

func (h *JobHandler) Add(c *fiber.Ctx) error {
	var req dto.CreateJobDescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	_, err := h.uc.Create(c.UserContext(), req.Title, req.Description)
	var formErr *util.FormError
	if errors.As(err, &formErr) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: formErr.Message,
		}, err)
	}
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to create job description",
		}, err)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *JobHandler) DeleteJob(c *fiber.Ctx) error {
	if err := h.uc.DeleteJob(c.UserContext(), c.Params("jobId")); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to delete job description",
		}, err)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *JobHandler) DeleteCandidate(c *fiber.Ctx) error {
	target, err := h.uc.DeleteCandidate(c.UserContext(), c.Params("candidateId"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to delete candidate",
		}, err)
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}

func (h *JobHandler) Resume(c *fiber.Ctx) error {
	file, err := h.uc.CandidateResume(c.UserContext(), c.Params("candidateId"))
	switch {
	case errors.Is(err, usecase.ErrCandidateNotFound):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "candidate not found",
		})
	case errors.Is(err, usecase.ErrResumeNotArchived):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "resume is not archived",
		})
	case err != nil:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to fetch resume",
		}, err)
	}

	c.Attachment(file.Filename)
	if file.ContentType != "" {
		c.Set(fiber.HeaderContentType, file.ContentType)
	}
	return c.Send(file.Data)
}
