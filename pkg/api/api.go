// Package api implements the REST API for evaluating boolean expressions and
// reading back the evaluation history.
package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lemonberrylabs/boolcalc/pkg/store"
)

// Source labels evaluations served by this API in the history.
const Source = "http"

// Server is the HTTP API server.
type Server struct {
	app    *fiber.App
	store  *store.Store
	maxLen int // characters; 0 disables the limit
}

// New creates a new API server recording into s. Expressions longer than
// maxExpressionLength characters are rejected; 0 disables the check.
func New(s *store.Store, maxExpressionLength int) *Server {
	srv := &Server{
		store:  s,
		maxLen: maxExpressionLength,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	app.Get("/healthz", srv.health)

	// Evaluations API
	app.Post("/v1/evaluations", srv.createEvaluation)
	app.Get("/v1/evaluations/:id", srv.getEvaluation)
	app.Get("/v1/evaluations", srv.listEvaluations)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing).
func (s *Server) App() *fiber.App {
	return s.app
}

// CheckLength enforces the configured maximum expression length.
func (s *Server) CheckLength(expression string) error {
	return store.CheckLength(expression, s.maxLen)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// --- Evaluation Handlers ---

type createEvaluationRequest struct {
	Expression *string `json:"expression"`
}

func (s *Server) createEvaluation(c *fiber.Ctx) error {
	var req createEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return apiError(c, fiber.StatusBadRequest, "INVALID_ARGUMENT",
			fmt.Sprintf("invalid request body: %v", err))
	}

	// An empty expression is valid input with its own syntax error, so only
	// a missing field is rejected here.
	if req.Expression == nil {
		return apiError(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "expression is required")
	}
	if err := s.CheckLength(*req.Expression); err != nil {
		return apiError(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	}

	ev := s.store.Evaluate(Source, *req.Expression)
	if ev.State == store.EvaluationFailed {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    fiber.StatusBadRequest,
				"message": ev.Error.Message,
				"status":  "INVALID_ARGUMENT",
				"details": ev.Error,
			},
			"name": ev.Name,
		})
	}

	return c.Status(fiber.StatusOK).JSON(evaluationToJSON(ev))
}

func (s *Server) getEvaluation(c *fiber.Ctx) error {
	ev, err := s.store.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apiError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
		}
		return apiError(c, fiber.StatusInternalServerError, "INTERNAL", err.Error())
	}
	return c.JSON(evaluationToJSON(ev))
}

func (s *Server) listEvaluations(c *fiber.Ctx) error {
	evaluations := s.store.List()

	items := make([]fiber.Map, len(evaluations))
	for i, ev := range evaluations {
		items[i] = evaluationToJSON(ev)
	}

	return c.JSON(fiber.Map{
		"evaluations": items,
	})
}

// --- Helpers ---

func apiError(c *fiber.Ctx, code int, status, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
			"status":  status,
		},
	})
}

func evaluationToJSON(ev *store.Evaluation) fiber.Map {
	result := fiber.Map{
		"name":       ev.Name,
		"source":     ev.Source,
		"expression": ev.Expression,
		"state":      ev.State,
		"createTime": ev.CreateTime.Format(time.RFC3339),
	}

	if ev.State == store.EvaluationSucceeded {
		result["result"] = ev.Result
		result["canonical"] = ev.Canonical
	}
	if ev.Error != nil {
		result["error"] = ev.Error
	}

	return result
}
