package pipeline_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/pagemill/deploy-engine/internal/adapter"
	"github.com/pagemill/deploy-engine/internal/domain"
	"github.com/pagemill/deploy-engine/internal/github"
	"github.com/pagemill/deploy-engine/internal/mocks"
	"github.com/pagemill/deploy-engine/internal/pipeline"
	"github.com/pagemill/deploy-engine/internal/store"
	"github.com/pagemill/deploy-engine/internal/store/schema"
)

const providerSecret = "provider-webhook-secret"

var serviceTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type testServiceMocks struct {
	ctrl      *gomock.Controller
	store     *mocks.MockStore
	extractor *mocks.MockExtractor
	compute   *mocks.MockComputeClient
	dedup     *mocks.MockDedupCache
	clock     *mocks.MockClock
}

// setupTestService wires a Service over mocked collaborators with real
// recorder, resolver, dispatcher, and payload parser in between.
func setupTestService(t *testing.T, secret string) (*pipeline.Service, *testServiceMocks) {
	ctrl := gomock.NewController(t)

	tm := &testServiceMocks{
		ctrl:      ctrl,
		store:     mocks.NewMockStore(ctrl),
		extractor: mocks.NewMockExtractor(ctrl),
		compute:   mocks.NewMockComputeClient(ctrl),
		dedup:     mocks.NewMockDedupCache(ctrl),
		clock:     mocks.NewMockClock(ctrl),
	}

	tm.clock.EXPECT().Now().Return(serviceTime).AnyTimes()

	json := adapter.NewJSON()
	svc := pipeline.NewService(
		tm.store,
		pipeline.NewRecorder(tm.store, tm.clock),
		pipeline.NewResolver(tm.extractor, json, []string{"main"}),
		pipeline.NewDispatcher(tm.store, tm.compute, json, tm.clock),
		github.NewParser(json),
		tm.dedup,
		json,
		tm.clock,
		secret,
	)
	return svc, tm
}

func signBody(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return "sha256=" + hex.EncodeToString(h.Sum(nil))
}

func pushBody() []byte {
	return []byte(`{
		"ref": "refs/heads/main",
		"repository": {"full_name": "acme/site", "clone_url": "https://github.com/acme/site.git"},
		"head_commit": {"id": "abc123", "message": "update content"},
		"pusher": {"name": "dev", "email": "dev@acme.test"}
	}`)
}

func pushRequest(body []byte) pipeline.PushRequest {
	return pipeline.PushRequest{
		DeliveryID: "delivery-1",
		EventType:  "push",
		Signature:  signBody(providerSecret, body),
		Body:       body,
	}
}

func TestHandlePush_InvalidSignatureRejectedBeforePersist(t *testing.T) {
	svc, tm := setupTestService(t, providerSecret)
	defer tm.ctrl.Finish()

	// No CreateGitEvent expectation: rejected deliveries leave no row
	req := pushRequest(pushBody())
	req.Signature = "sha256=" + hex.EncodeToString(make([]byte, 32))

	_, err := svc.HandlePush(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestHandlePush_DuplicateDeliverySkipped(t *testing.T) {
	svc, tm := setupTestService(t, providerSecret)
	defer tm.ctrl.Finish()

	body := pushBody()
	var eventID string
	tm.store.EXPECT().
		CreateGitEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *schema.GitEvent) error {
			eventID = event.ID
			assert.Equal(t, "delivery-1", event.DeliveryID)
			assert.Equal(t, schema.GitEventStatusProcessing, event.Status)
			return nil
		})
	tm.dedup.EXPECT().Seen("delivery-1").Return(true)
	tm.store.EXPECT().AppendGitEventLog(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	tm.store.EXPECT().
		FinalizeGitEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.FinalizeGitEventInput) (bool, error) {
			assert.Equal(t, eventID, input.EventID)
			assert.Equal(t, schema.GitEventStatusSkipped, input.Status)
			assert.Equal(t, "duplicate delivery", input.SkipReason)
			return true, nil
		})

	result, err := svc.HandlePush(context.Background(), pushRequest(body))
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, "Duplicate delivery ignored", result.Message)
	assert.Equal(t, eventID, result.EventID)
}

func TestHandlePush_NonPushEventSkipped(t *testing.T) {
	svc, tm := setupTestService(t, providerSecret)
	defer tm.ctrl.Finish()

	body := []byte(`{"zen": "Keep it logically awesome."}`)
	tm.store.EXPECT().CreateGitEvent(gomock.Any(), gomock.Any()).Return(nil)
	tm.dedup.EXPECT().Seen(gomock.Any()).Return(false)
	tm.store.EXPECT().
		FinalizeGitEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.FinalizeGitEventInput) (bool, error) {
			assert.Equal(t, schema.GitEventStatusSkipped, input.Status)
			return true, nil
		})

	req := pipeline.PushRequest{
		DeliveryID: "delivery-2",
		EventType:  "ping",
		Signature:  signBody(providerSecret, body),
		Body:       body,
	}
	result, err := svc.HandlePush(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, `event type "ping" is not handled`, result.Message)
}

func TestHandlePush_MalformedPayloadFinalizesFailed(t *testing.T) {
	svc, tm := setupTestService(t, providerSecret)
	defer tm.ctrl.Finish()

	body := []byte(`{"ref": `)
	tm.store.EXPECT().CreateGitEvent(gomock.Any(), gomock.Any()).Return(nil)
	tm.dedup.EXPECT().Seen(gomock.Any()).Return(false)
	tm.store.EXPECT().AppendGitEventLog(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	tm.store.EXPECT().
		FinalizeGitEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.FinalizeGitEventInput) (bool, error) {
			assert.Equal(t, schema.GitEventStatusFailed, input.Status)
			assert.NotEmpty(t, input.Error)
			return true, nil
		})

	req := pipeline.PushRequest{
		DeliveryID: "delivery-3",
		EventType:  "push",
		Signature:  signBody(providerSecret, body),
		Body:       body,
	}
	_, err := svc.HandlePush(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestHandlePush_NoConnectedProjectSkipped(t *testing.T) {
	svc, tm := setupTestService(t, providerSecret)
	defer tm.ctrl.Finish()

	tm.store.EXPECT().CreateGitEvent(gomock.Any(), gomock.Any()).Return(nil)
	tm.dedup.EXPECT().Seen(gomock.Any()).Return(false)
	tm.store.EXPECT().AppendGitEventLog(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	tm.store.EXPECT().GetProjectByRepo(gomock.Any(), "acme/site").Return(nil, nil)
	tm.store.EXPECT().
		FinalizeGitEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.FinalizeGitEventInput) (bool, error) {
			assert.Equal(t, schema.GitEventStatusSkipped, input.Status)
			return true, nil
		})

	result, err := svc.HandlePush(context.Background(), pushRequest(pushBody()))
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, `no project connected to repository "acme/site"`, result.Message)
}

func TestHandlePush_NonDeployBranchSkipped(t *testing.T) {
	svc, tm := setupTestService(t, providerSecret)
	defer tm.ctrl.Finish()

	body := []byte(`{
		"ref": "refs/heads/feature/x",
		"repository": {"full_name": "acme/site"},
		"head_commit": {"id": "abc123", "message": "wip"}
	}`)
	project := testProject()

	tm.store.EXPECT().CreateGitEvent(gomock.Any(), gomock.Any()).Return(nil)
	tm.dedup.EXPECT().Seen(gomock.Any()).Return(false)
	tm.store.EXPECT().AppendGitEventLog(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	tm.store.EXPECT().GetProjectByRepo(gomock.Any(), "acme/site").Return(project, nil)
	tm.store.EXPECT().SetGitEventProject(gomock.Any(), gomock.Any(), "acme/site", project.ID).Return(nil)
	tm.store.EXPECT().
		FinalizeGitEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.FinalizeGitEventInput) (bool, error) {
			assert.Equal(t, schema.GitEventStatusSkipped, input.Status)
			assert.Equal(t, `branch "feature/x" is not a deployment branch`, input.SkipReason)
			return true, nil
		})

	req := pipeline.PushRequest{
		DeliveryID: "delivery-4",
		EventType:  "push",
		Signature:  signBody(providerSecret, body),
		Body:       body,
	}
	result, err := svc.HandlePush(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
}

func TestHandlePush_DispatchFailureFinalizesFailed(t *testing.T) {
	svc, tm := setupTestService(t, providerSecret)
	defer tm.ctrl.Finish()

	project := testProject()

	tm.store.EXPECT().CreateGitEvent(gomock.Any(), gomock.Any()).Return(nil)
	tm.dedup.EXPECT().Seen(gomock.Any()).Return(false)
	tm.store.EXPECT().AppendGitEventLog(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	tm.store.EXPECT().GetProjectByRepo(gomock.Any(), "acme/site").Return(project, nil)
	tm.store.EXPECT().SetGitEventProject(gomock.Any(), gomock.Any(), "acme/site", project.ID).Return(nil)
	tm.store.EXPECT().GetRepoCredential(gomock.Any(), project.ID).Return(nil, nil)
	tm.store.EXPECT().
		FinalizeGitEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.FinalizeGitEventInput) (bool, error) {
			assert.Equal(t, schema.GitEventStatusFailed, input.Status)
			assert.Equal(t, domain.ErrMissingCredential.Error(), input.Error)
			return true, nil
		})

	_, err := svc.HandlePush(context.Background(), pushRequest(pushBody()))
	require.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestHandlePush_DeployBranchCreatesJob(t *testing.T) {
	svc, tm := setupTestService(t, providerSecret)
	defer tm.ctrl.Finish()

	project := testProject()

	tm.store.EXPECT().CreateGitEvent(gomock.Any(), gomock.Any()).Return(nil)
	tm.dedup.EXPECT().Seen("delivery-1").Return(false)
	tm.store.EXPECT().AppendGitEventLog(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	tm.store.EXPECT().GetProjectByRepo(gomock.Any(), "acme/site").Return(project, nil)
	tm.store.EXPECT().SetGitEventProject(gomock.Any(), gomock.Any(), "acme/site", project.ID).Return(nil)
	tm.store.EXPECT().GetRepoCredential(gomock.Any(), project.ID).Return(testCredential(project.ID), nil)

	var jobID string
	tm.store.EXPECT().
		CreateJob(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *schema.Job) error {
			jobID = job.ID
			return nil
		})
	tm.compute.EXPECT().
		SubmitJob(gomock.Any(), gomock.Any(), domain.JobTypeDeployRepo, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ domain.JobType, input domain.JobInput) error {
			assert.Equal(t, "main", input.Branch)
			assert.Equal(t, "abc123", input.Commit)
			assert.Equal(t, domain.EventSourceGitHub, input.Trigger.Source)
			return nil
		})
	tm.store.EXPECT().
		AppendGitEventJob(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, ref schema.TriggeredJob) error {
			assert.Equal(t, jobID, ref.JobID)
			return nil
		})
	tm.store.EXPECT().
		FinalizeGitEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.FinalizeGitEventInput) (bool, error) {
			assert.Equal(t, schema.GitEventStatusProcessed, input.Status)
			assert.Equal(t, "deployment job "+jobID+" created", input.Result)
			return true, nil
		})

	result, err := svc.HandlePush(context.Background(), pushRequest(pushBody()))
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, jobID, result.JobID)
	assert.Equal(t, "deployment job "+jobID+" created", result.Message)
}

func TestHandlePush_EmptySecretSkipsValidation(t *testing.T) {
	svc, tm := setupTestService(t, "")
	defer tm.ctrl.Finish()

	tm.store.EXPECT().CreateGitEvent(gomock.Any(), gomock.Any()).Return(nil)
	tm.dedup.EXPECT().Seen(gomock.Any()).Return(true)
	tm.store.EXPECT().AppendGitEventLog(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	tm.store.EXPECT().FinalizeGitEvent(gomock.Any(), gomock.Any()).Return(true, nil)

	req := pushRequest(pushBody())
	req.Signature = ""

	_, err := svc.HandlePush(context.Background(), req)
	require.NoError(t, err)
}

func testEndpoint() *schema.WebhookEndpoint {
	return &schema.WebhookEndpoint{
		ID:        11,
		ProjectID: "c1a6e1a0-0000-4000-8000-000000000001",
		Token:     "3e9a4a1c-0000-4000-8000-000000000002",
		IsActive:  true,
	}
}

func webhookRequest(body []byte) pipeline.ProjectWebhookRequest {
	return pipeline.ProjectWebhookRequest{
		Token:   "3e9a4a1c-0000-4000-8000-000000000002",
		Method:  http.MethodPost,
		IP:      "203.0.113.7",
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
	}
}

func TestHandleProjectWebhook_UnknownToken(t *testing.T) {
	svc, tm := setupTestService(t, providerSecret)
	defer tm.ctrl.Finish()

	tm.store.EXPECT().GetEndpointByToken(gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := svc.HandleProjectWebhook(context.Background(), webhookRequest([]byte(`{}`)))
	require.ErrorIs(t, err, domain.ErrWebhookNotFound)
}

func TestHandleProjectWebhook_MethodNotAllowed(t *testing.T) {
	svc, tm := setupTestService(t, providerSecret)
	defer tm.ctrl.Finish()

	endpoint := testEndpoint()
	endpoint.AllowedMethods = datatypes.JSON(`["POST"]`)
	tm.store.EXPECT().GetEndpointByToken(gomock.Any(), endpoint.Token).Return(endpoint, nil)

	req := webhookRequest([]byte(`{}`))
	req.Method = http.MethodDelete

	_, err := svc.HandleProjectWebhook(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrMethodNotAllowed)
}

func TestHandleProjectWebhook_IPRejectionPersistsEvent(t *testing.T) {
	svc, tm := setupTestService(t, providerSecret)
	defer tm.ctrl.Finish()

	endpoint := testEndpoint()
	endpoint.AllowedIPs = datatypes.JSON(`["198.51.100.1"]`)
	tm.store.EXPECT().GetEndpointByToken(gomock.Any(), endpoint.Token).Return(endpoint, nil)
	tm.store.EXPECT().
		CreateWebhookEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *schema.WebhookEvent) error {
			assert.Equal(t, schema.WebhookEventStatusRejected, event.Status)
			assert.Equal(t, "203.0.113.7", event.IP)
			require.NotNil(t, event.FinalizedAt)
			assert.Contains(t, event.Error, "203.0.113.7")
			return nil
		})

	_, err := svc.HandleProjectWebhook(context.Background(), webhookRequest([]byte(`{}`)))
	require.ErrorIs(t, err, domain.ErrIPNotAllowed)
}

func TestHandleProjectWebhook_PermissionDeniedFinalizesFailed(t *testing.T) {
	svc, tm := setupTestService(t, providerSecret)
	defer tm.ctrl.Finish()

	endpoint := testEndpoint()
	endpoint.Permissions = datatypes.JSON(`{"deployment":{"trigger_build":true}}`)
	tm.store.EXPECT().GetEndpointByToken(gomock.Any(), endpoint.Token).Return(endpoint, nil)
	tm.store.EXPECT().TouchEndpointUsage(gomock.Any(), endpoint.ID, gomock.Any()).Return(nil)
	tm.store.EXPECT().CreateWebhookEvent(gomock.Any(), gomock.Any()).Return(nil)
	tm.store.EXPECT().AppendWebhookEventLog(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	tm.store.EXPECT().
		FinalizeWebhookEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.FinalizeWebhookEventInput) (bool, error) {
			assert.Equal(t, schema.WebhookEventStatusFailed, input.Status)
			assert.Contains(t, input.Error, "rollback")
			return true, nil
		})

	_, err := svc.HandleProjectWebhook(context.Background(), webhookRequest([]byte(`{"action":"rollback"}`)))
	require.Error(t, err)
	var permErr *domain.PermissionDeniedError
	require.ErrorAs(t, err, &permErr)
}

func TestHandleProjectWebhook_NoActionAcknowledged(t *testing.T) {
	svc, tm := setupTestService(t, providerSecret)
	defer tm.ctrl.Finish()

	endpoint := testEndpoint()
	tm.store.EXPECT().GetEndpointByToken(gomock.Any(), endpoint.Token).Return(endpoint, nil)
	tm.store.EXPECT().TouchEndpointUsage(gomock.Any(), endpoint.ID, gomock.Any()).Return(nil)
	var eventID string
	tm.store.EXPECT().
		CreateWebhookEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *schema.WebhookEvent) error {
			eventID = event.ID
			assert.Equal(t, schema.WebhookEventStatusProcessing, event.Status)
			return nil
		})
	tm.store.EXPECT().AppendWebhookEventLog(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	tm.store.EXPECT().
		FinalizeWebhookEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.FinalizeWebhookEventInput) (bool, error) {
			assert.Equal(t, schema.WebhookEventStatusSuccess, input.Status)
			assert.Equal(t, "payload carries no action", input.Result)
			return true, nil
		})

	result, err := svc.HandleProjectWebhook(context.Background(), webhookRequest([]byte(`{"hello":"world"}`)))
	require.NoError(t, err)
	assert.Equal(t, eventID, result.EventID)
	assert.Equal(t, "payload carries no action", result.Message)
	assert.Empty(t, result.JobID)
}

func TestHandleProjectWebhook_DispatchesJob(t *testing.T) {
	svc, tm := setupTestService(t, providerSecret)
	defer tm.ctrl.Finish()

	endpoint := testEndpoint()
	project := testProject()

	tm.store.EXPECT().GetEndpointByToken(gomock.Any(), endpoint.Token).Return(endpoint, nil)
	tm.store.EXPECT().TouchEndpointUsage(gomock.Any(), endpoint.ID, gomock.Any()).Return(nil)
	tm.store.EXPECT().CreateWebhookEvent(gomock.Any(), gomock.Any()).Return(nil)
	tm.store.EXPECT().GetProjectByID(gomock.Any(), endpoint.ProjectID).Return(project, nil)
	tm.store.EXPECT().AppendWebhookEventLog(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	tm.store.EXPECT().GetRepoCredential(gomock.Any(), project.ID).Return(testCredential(project.ID), nil)

	var jobID string
	tm.store.EXPECT().
		CreateJob(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *schema.Job) error {
			jobID = job.ID
			return nil
		})
	tm.compute.EXPECT().
		SubmitJob(gomock.Any(), gomock.Any(), domain.JobTypeDeployRepo, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ domain.JobType, input domain.JobInput) error {
			assert.Equal(t, "staging", input.Branch)
			assert.Equal(t, domain.EventSourceProjectWebhook, input.Trigger.Source)
			return nil
		})
	tm.store.EXPECT().AppendWebhookEventJob(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	tm.store.EXPECT().
		FinalizeWebhookEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.FinalizeWebhookEventInput) (bool, error) {
			assert.Equal(t, schema.WebhookEventStatusSuccess, input.Status)
			return true, nil
		})

	result, err := svc.HandleProjectWebhook(context.Background(), webhookRequest([]byte(`{"action":"deploy","branch":"staging"}`)))
	require.NoError(t, err)
	assert.Equal(t, jobID, result.JobID)
	assert.Contains(t, result.Message, jobID)
}

func TestHandleProjectWebhook_EndpointLookupFailure(t *testing.T) {
	svc, tm := setupTestService(t, providerSecret)
	defer tm.ctrl.Finish()

	tm.store.EXPECT().
		GetEndpointByToken(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	_, err := svc.HandleProjectWebhook(context.Background(), webhookRequest([]byte(`{}`)))
	require.Error(t, err)
}
