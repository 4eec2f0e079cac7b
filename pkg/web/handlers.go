// Package web provides the HTTP handlers of the script and session REST API.
package web

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/voxline/scriptflow/pkg/services"
)

type APIHandlers struct {
	scriptService  *services.Script
	sessionService *services.Session
	validator      *validator.Validate
}

func NewAPIHandlers(
	scriptService *services.Script,
	sessionService *services.Session,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		scriptService:  scriptService,
		sessionService: sessionService,
		validator:      validator,
	}
}

// RegisterRoutes mounts every endpoint on the app.
func (h *APIHandlers) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.GetHealth)

	app.Get("/scripts", h.GetScripts)
	app.Post("/scripts", h.PostScript)
	app.Post("/scripts/lint", h.PostScriptLint)
	app.Get("/scripts/:name", h.GetScript)
	app.Delete("/scripts/:name", h.DeleteScript)
	app.Get("/scripts/:name/export", h.GetScriptExport)
	app.Get("/scripts/:name/template", h.GetScriptTemplate)
	app.Get("/scripts/:name/analysis", h.GetScriptAnalysis)
	app.Get("/scripts/:name/transcripts", h.GetScriptTranscripts)

	app.Post("/sessions", h.PostSession)
	app.Get("/sessions/:id", h.GetSession)
	app.Post("/sessions/:id/turns", h.PostTurn)
	app.Delete("/sessions/:id", h.DeleteSession)

	app.Get("/transcripts/:id", h.GetTranscript)
}

func (h *APIHandlers) GetHealth(c fiber.Ctx) error {
	message, healthy := h.scriptService.HealthCheck(c.Context())

	status := fiber.StatusOK
	if !healthy {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"healthy":         healthy,
		"message":         message,
		"active_sessions": h.sessionService.ActiveSessions(),
	})
}

func (h *APIHandlers) GetScripts(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"scripts": h.scriptService.ListScripts(),
	})
}

func (h *APIHandlers) PostScript(c fiber.Ctx) error {
	script, result, err := h.scriptService.RegisterScript(c.Context(), c.Body())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(RegisterScriptResponse{
		Name:     script.Name,
		Version:  script.Version,
		States:   len(script.States),
		Edges:    len(script.Edges),
		Warnings: result.Warnings,
	})
}

func (h *APIHandlers) PostScriptLint(c fiber.Ctx) error {
	result, err := h.scriptService.LintScript(c.Body())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(LintResponse{Result: result})
}

func (h *APIHandlers) GetScript(c fiber.Ctx) error {
	script, err := h.scriptService.GetScript(c.Params("name"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(script)
}

func (h *APIHandlers) DeleteScript(c fiber.Ctx) error {
	if err := h.scriptService.DeleteScript(c.Context(), c.Params("name")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetScriptExport(c fiber.Ctx) error {
	format := c.Query("format", services.FormatMermaid)

	rendered, err := h.scriptService.ExportScript(c.Params("name"), format)
	if err != nil {
		return handleServiceError(c, err)
	}

	if format == services.FormatHTML {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	}

	return c.SendString(rendered)
}

func (h *APIHandlers) GetScriptTemplate(c fiber.Ctx) error {
	template, err := h.scriptService.TemplateForScript(c.Params("name"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(template)
}

func (h *APIHandlers) GetScriptAnalysis(c fiber.Ctx) error {
	analysis, err := h.scriptService.AnalyzeScript(c.Params("name"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(analysis)
}

func (h *APIHandlers) GetScriptTranscripts(c fiber.Ctx) error {
	transcripts, err := h.sessionService.TranscriptsForScript(c.Context(), c.Params("name"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"transcripts": transcripts,
	})
}

func (h *APIHandlers) PostSession(c fiber.Ctx) error {
	var req StartSessionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Invalid request: "+err.Error())
	}

	start, err := h.sessionService.StartSession(c.Context(), req.ScriptName)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(start)
}

func (h *APIHandlers) GetSession(c fiber.Ctx) error {
	turnCtx, err := h.sessionService.SessionContext(c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(turnCtx)
}

func (h *APIHandlers) PostTurn(c fiber.Ctx) error {
	var req TurnRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Invalid request: "+err.Error())
	}

	result, err := h.sessionService.ProcessTurn(c.Context(), c.Params("id"), req.Input)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) DeleteSession(c fiber.Ctx) error {
	transcript, err := h.sessionService.EndSession(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(transcript)
}

func (h *APIHandlers) GetTranscript(c fiber.Ctx) error {
	transcript, err := h.sessionService.Transcript(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(transcript)
}
