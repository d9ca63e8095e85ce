package rest

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/pagemill/deploy-engine/internal/domain"
	"github.com/pagemill/deploy-engine/internal/pipeline"
	"github.com/pagemill/deploy-engine/internal/store"
	"github.com/pagemill/deploy-engine/internal/store/schema"
)

// GitHub delivery headers
const (
	headerGitHubSignature = "X-Hub-Signature-256"
	headerGitHubEvent     = "X-GitHub-Event"
	headerGitHubDelivery  = "X-GitHub-Delivery"
)

// Pipeline handles inbound webhook deliveries
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler,Pipeline=MockPipeline,CallbackHandler=MockCallbackHandler
type Pipeline interface {
	HandlePush(ctx context.Context, req pipeline.PushRequest) (*pipeline.PushResult, error)
	HandleProjectWebhook(ctx context.Context, req pipeline.ProjectWebhookRequest) (*pipeline.ProjectWebhookResult, error)
}

// CallbackHandler reconciles job-status callbacks from the compute service
type CallbackHandler interface {
	HandleCallback(ctx context.Context, cb *domain.JobCallback) (*pipeline.CallbackResult, error)
}

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
type Handler interface {
	// HandleGitHubWebhook receives provider push deliveries
	// POST /api/v1/webhooks/github
	HandleGitHubWebhook(c *gin.Context)

	// HandleProjectWebhook receives calls to a project's webhook endpoint,
	// any HTTP method
	// /api/v1/webhooks/project/:token
	HandleProjectWebhook(c *gin.Context)

	// HandleJobCallback receives job-status callbacks from the compute service
	// POST /api/v1/callbacks/jobs
	HandleJobCallback(c *gin.Context)

	// CreateWebhookClient registers an outgoing webhook client (requires API key)
	// POST /api/v1/webhooks/clients
	CreateWebhookClient(c *gin.Context)

	// GetEvent retrieves a provider or project webhook event by ID
	// GET /api/v1/events/:id
	GetEvent(c *gin.Context)

	// GetJob retrieves a job by ID
	// GET /api/v1/jobs/:id
	GetJob(c *gin.Context)

	// ListDeployments lists a project's deployments, newest first
	// GET /api/v1/projects/:id/deployments?limit=<limit>&offset=<offset>
	ListDeployments(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	debug     bool
	pipeline  Pipeline
	callbacks CallbackHandler
	store     store.Store
}

// NewHandler creates a new REST API handler
func NewHandler(debug bool, pipe Pipeline, callbacks CallbackHandler, st store.Store) Handler {
	return &handler{
		debug:     debug,
		pipeline:  pipe,
		callbacks: callbacks,
		store:     st,
	}
}

// HandleGitHubWebhook receives provider push deliveries
func (h *handler) HandleGitHubWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondAckFailure(c, http.StatusBadRequest, "Failed to read request body", "")
		return
	}

	result, err := h.pipeline.HandlePush(c.Request.Context(), pipeline.PushRequest{
		DeliveryID: c.GetHeader(headerGitHubDelivery),
		EventType:  c.GetHeader(headerGitHubEvent),
		Signature:  c.GetHeader(headerGitHubSignature),
		Body:       body,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSignature):
			respondAckFailure(c, http.StatusUnauthorized, "Invalid webhook signature", "")
		case errors.Is(err, domain.ErrMalformedPayload):
			respondAckFailure(c, http.StatusBadRequest, err.Error(), "")
		default:
			respondAckFailure(c, http.StatusInternalServerError, err.Error(), "")
		}
		return
	}

	respondAck(c, result.Message, result.EventID, result.JobID)
}

// HandleProjectWebhook receives calls to a project's webhook endpoint
func (h *handler) HandleProjectWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondAckFailure(c, http.StatusBadRequest, "Failed to read request body", "")
		return
	}

	headers := make(map[string]string, len(c.Request.Header))
	for name := range c.Request.Header {
		headers[name] = c.GetHeader(name)
	}

	result, err := h.pipeline.HandleProjectWebhook(c.Request.Context(), pipeline.ProjectWebhookRequest{
		Token:   c.Param("token"),
		Method:  c.Request.Method,
		IP:      c.ClientIP(),
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		var permErr *domain.PermissionDeniedError
		switch {
		case errors.Is(err, domain.ErrWebhookNotFound):
			respondAckFailure(c, http.StatusNotFound, "Webhook not found", "")
		case errors.Is(err, domain.ErrMethodNotAllowed):
			respondAckFailure(c, http.StatusMethodNotAllowed, "Method not allowed", "")
		case errors.Is(err, domain.ErrIPNotAllowed):
			respondAckFailure(c, http.StatusForbidden, "IP address not allowed", "")
		case errors.As(err, &permErr):
			respondAckFailure(c, http.StatusForbidden, permErr.Error(), "")
		default:
			respondAckFailure(c, http.StatusInternalServerError, err.Error(), "")
		}
		return
	}

	respondAck(c, result.Message, result.EventID, result.JobID)
}

// HandleJobCallback receives job-status callbacks from the compute service
func (h *handler) HandleJobCallback(c *gin.Context) {
	var cb domain.JobCallback
	if err := c.ShouldBindJSON(&cb); err != nil {
		respondAckFailure(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err), "")
		return
	}

	if err := pipeline.ValidateCallback(&cb); err != nil {
		respondAckFailure(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.callbacks.HandleCallback(c.Request.Context(), &cb)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			respondAckFailure(c, http.StatusNotFound, "Job not found", "")
			return
		}
		respondAckFailure(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	message := "Callback processed"
	if result.Duplicate {
		message = "Duplicate callback ignored"
	}
	c.JSON(http.StatusOK, ackResponse{Success: true, Message: message})
}

// CreateWebhookClient registers an outgoing webhook client
func (h *handler) CreateWebhookClient(c *gin.Context) {
	var req CreateWebhookClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	// Validate request body
	if err := req.Validate(h.debug); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	// Set default retry_max_attempts if not provided
	retryMaxAttempts := defaultRetryMaxAttempts
	if req.RetryMaxAttempts != nil {
		retryMaxAttempts = *req.RetryMaxAttempts
	}

	secret, err := generateWebhookSecret()
	if err != nil {
		respondInternalError(c, err, "Failed to create webhook client")
		return
	}

	filters, err := json.Marshal(req.EventFilters)
	if err != nil {
		respondInternalError(c, err, "Failed to create webhook client")
		return
	}

	client := &schema.WebhookClient{
		ClientID:         uuid.NewString(),
		ProjectID:        req.ProjectID,
		WebhookURL:       req.WebhookURL,
		WebhookSecret:    secret,
		EventFilters:     datatypes.JSON(filters),
		IsActive:         true,
		RetryMaxAttempts: retryMaxAttempts,
	}

	if err := h.store.CreateWebhookClient(c.Request.Context(), client); err != nil {
		respondInternalError(c, err, "Failed to create webhook client")
		return
	}

	c.JSON(http.StatusCreated, CreateWebhookClientResponse{
		ClientID:         client.ClientID,
		ProjectID:        client.ProjectID,
		WebhookURL:       client.WebhookURL,
		WebhookSecret:    client.WebhookSecret,
		EventFilters:     req.EventFilters,
		IsActive:         client.IsActive,
		RetryMaxAttempts: client.RetryMaxAttempts,
		CreatedAt:        client.CreatedAt,
	})
}

// GetEvent retrieves a provider or project webhook event by ID. Both event
// kinds share the ULID identifier space, so the ID alone is enough.
func (h *handler) GetEvent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondBadRequest(c, "Event ID is required")
		return
	}

	gitEvent, err := h.store.GetGitEvent(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "Failed to get event")
		return
	}
	if gitEvent != nil {
		c.JSON(http.StatusOK, MapGitEventToDTO(gitEvent))
		return
	}

	webhookEvent, err := h.store.GetWebhookEvent(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "Failed to get event")
		return
	}
	if webhookEvent == nil {
		respondNotFound(c, "Event not found")
		return
	}

	c.JSON(http.StatusOK, MapWebhookEventToDTO(webhookEvent))
}

// GetJob retrieves a job by ID
func (h *handler) GetJob(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondBadRequest(c, "Job ID is required")
		return
	}

	job, err := h.store.GetJob(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "Failed to get job")
		return
	}
	if job == nil {
		respondNotFound(c, "Job not found")
		return
	}

	c.JSON(http.StatusOK, MapJobToDTO(job))
}

// ListDeployments lists a project's deployments, newest first
func (h *handler) ListDeployments(c *gin.Context) {
	projectID := c.Param("id")
	if projectID == "" {
		respondBadRequest(c, "Project ID is required")
		return
	}

	limit, err := parsePositiveInt(c.Query("limit"), defaultDeploymentsLimit, maxDeploymentsLimit)
	if err != nil {
		respondValidationError(c, "limit must be a positive integer")
		return
	}
	offset, err := parsePositiveInt(c.Query("offset"), 0, 0)
	if err != nil {
		respondValidationError(c, "offset must be a non-negative integer")
		return
	}

	deployments, total, err := h.store.ListDeployments(c.Request.Context(), projectID, limit, offset)
	if err != nil {
		respondInternalError(c, err, "Failed to list deployments")
		return
	}

	response := ListDeploymentsResponse{
		Deployments: make([]*DeploymentResponse, 0, len(deployments)),
		Total:       total,
		Limit:       limit,
		Offset:      offset,
	}
	for i := range deployments {
		response.Deployments = append(response.Deployments, MapDeploymentToDTO(&deployments[i]))
	}

	c.JSON(http.StatusOK, response)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "deploy-engine-api",
	})
}

// generateWebhookSecret produces a hex-encoded 256-bit signing secret
func generateWebhookSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate webhook secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// parsePositiveInt parses a query integer, applying a fallback for the empty
// string and an optional cap (0 means uncapped)
func parsePositiveInt(raw string, fallback int, capValue int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid integer: %q", raw)
	}
	if capValue > 0 && v > capValue {
		v = capValue
	}
	return v, nil
}
