package web

import (
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/flowkan/flowkan/pkg/engine"
	"github.com/flowkan/flowkan/pkg/models"
	"github.com/flowkan/flowkan/pkg/registry"
)

type APIHandlers struct {
	engine    *engine.Engine
	validator *validator.Validate
	registry  *registry.Registry
}

func NewAPIHandlers(eng *engine.Engine, validate *validator.Validate, reg *registry.Registry) *APIHandlers {
	return &APIHandlers{
		engine:    eng,
		validator: validate,
		registry:  reg,
	}
}

func (h *APIHandlers) GetRules(c fiber.Ctx) error {
	rules, err := h.engine.Rules(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"rules":       rules,
		"total_count": len(rules),
	})
}

func (h *APIHandlers) CreateRule(c fiber.Ctx) error {
	var req CreateRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	enabled := true
	if req.IsEnabled != nil {
		enabled = *req.IsEnabled
	}

	rule := &models.WorkflowRule{
		Name:       req.Name,
		Trigger:    req.Trigger,
		Conditions: req.Conditions,
		Actions:    req.Actions,
		IsEnabled:  enabled,
	}

	created, err := h.engine.AddRule(c.Context(), rule)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) GetRule(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Rule ID is required")
	}

	rule, err := h.engine.Rule(c.Context(), id)
	if err != nil {
		return handleRuleError(c, err)
	}

	return c.JSON(rule)
}

func (h *APIHandlers) UpdateRule(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Rule ID is required")
	}

	var req UpdateRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	rule, err := h.engine.Rule(c.Context(), id)
	if err != nil {
		return handleRuleError(c, err)
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}

	if req.Trigger != nil {
		rule.Trigger = *req.Trigger
	}

	if req.Conditions != nil {
		rule.Conditions = req.Conditions
	}

	if req.Actions != nil {
		rule.Actions = req.Actions
	}

	if req.IsEnabled != nil {
		rule.IsEnabled = *req.IsEnabled
	}

	updated, err := h.engine.UpdateRule(c.Context(), rule)
	if err != nil {
		return handleRuleError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteRule(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Rule ID is required")
	}

	err := h.engine.DeleteRule(c.Context(), id)
	if err != nil {
		return handleRuleError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ProcessEvent ingests a board event and returns the execution batch it
// produced. Rule and action failures are reported inside the batch, never as
// an HTTP error.
func (h *APIHandlers) ProcessEvent(c fiber.Ctx) error {
	var req ProcessEventRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	executions, err := h.engine.ProcessCardEvent(c.Context(), req.EventType, req.Card, req.Board)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(ProcessEventResponse{Executions: executions})
}

func (h *APIHandlers) GetExecutions(c fiber.Ctx) error {
	var (
		executions []*models.AutomationExecution
		err        error
	)

	if ruleID := c.Query("rule_id"); ruleID != "" {
		executions, err = h.engine.ExecutionsByRule(c.Context(), ruleID)
	} else {
		executions, err = h.engine.Executions(c.Context())
	}

	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"executions":  executions,
		"total_count": len(executions),
	})
}

func (h *APIHandlers) ClearExecutions(c fiber.Ctx) error {
	err := h.engine.ClearExecutions(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetRegistryActions lists the registered action types with their config
// schemas so rule editors can be built from them.
func (h *APIHandlers) GetRegistryActions(c fiber.Ctx) error {
	factories := h.registry.ActionFactories()

	actions := make([]RegisteredActionResponse, 0, len(factories))
	for _, factory := range factories {
		actions = append(actions, RegisteredActionResponse{
			Type:        factory.ID(),
			Name:        factory.Name(),
			Description: factory.Description(),
			Schema:      factory.Schema(),
		})
	}

	sort.Slice(actions, func(i, j int) bool {
		return actions[i].Type < actions[j].Type
	})

	return c.JSON(fiber.Map{"actions": actions})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	err := h.engine.HealthCheck(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  err.Error(),
		})
	}

	return c.JSON(fiber.Map{"status": "healthy"})
}
