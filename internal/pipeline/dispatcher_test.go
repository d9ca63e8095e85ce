package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagemill/deploy-engine/internal/adapter"
	"github.com/pagemill/deploy-engine/internal/domain"
	"github.com/pagemill/deploy-engine/internal/mocks"
	"github.com/pagemill/deploy-engine/internal/pipeline"
	"github.com/pagemill/deploy-engine/internal/store"
	"github.com/pagemill/deploy-engine/internal/store/schema"
)

var dispatchTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type testDispatcherMocks struct {
	ctrl    *gomock.Controller
	store   *mocks.MockStore
	compute *mocks.MockComputeClient
	clock   *mocks.MockClock
}

func setupTestDispatcher(t *testing.T) (*pipeline.Dispatcher, *testDispatcherMocks) {
	ctrl := gomock.NewController(t)

	tm := &testDispatcherMocks{
		ctrl:    ctrl,
		store:   mocks.NewMockStore(ctrl),
		compute: mocks.NewMockComputeClient(ctrl),
		clock:   mocks.NewMockClock(ctrl),
	}

	tm.clock.EXPECT().Now().Return(dispatchTime).AnyTimes()

	d := pipeline.NewDispatcher(tm.store, tm.compute, adapter.NewJSON(), tm.clock)
	return d, tm
}

func dispatchProject() *schema.Project {
	return &schema.Project{
		ID:           "c1a6e1a0-0000-4000-8000-000000000001",
		Slug:         "acme-site",
		OrgSlug:      "acme",
		RepoFullName: "acme/site",
		RepoCloneURL: "https://github.com/acme/site.git",
		OutputPath:   "dist",
		Format:       "markdown",
	}
}

func testCredential(projectID string) *schema.RepoCredential {
	return &schema.RepoCredential{
		ID:        7,
		ProjectID: projectID,
		Provider:  "github",
		Token:     "ghs_testtoken",
	}
}

func TestDispatch_SubmitsDeployJob(t *testing.T) {
	d, tm := setupTestDispatcher(t)
	defer tm.ctrl.Finish()

	project := dispatchProject()
	trigger := domain.JobTrigger{Source: domain.EventSourceGitHub, EventID: "01J0000000000000000000001"}

	tm.store.EXPECT().
		GetRepoCredential(gomock.Any(), project.ID).
		Return(testCredential(project.ID), nil)

	var createdID string
	tm.store.EXPECT().
		CreateJob(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *schema.Job) error {
			createdID = job.ID
			assert.Equal(t, string(domain.JobTypeDeployRepo), job.Type)
			assert.Equal(t, project.ID, job.ProjectID)
			assert.Equal(t, schema.JobStatusPending, job.Status)
			assert.NotEmpty(t, job.Input)
			return nil
		})

	tm.compute.EXPECT().
		SubmitJob(gomock.Any(), gomock.Any(), domain.JobTypeDeployRepo, gomock.Any()).
		DoAndReturn(func(_ context.Context, jobID string, _ domain.JobType, input domain.JobInput) error {
			assert.Equal(t, createdID, jobID)
			assert.Equal(t, "https://github.com/acme/site.git", input.RepoURL)
			assert.Equal(t, "main", input.Branch)
			assert.Equal(t, "abc123", input.Commit)
			assert.Equal(t, "update content", input.CommitMessage)
			assert.Equal(t, "ghs_testtoken", input.AuthToken)
			assert.Equal(t, "acme-site", input.ProjectSlug)
			assert.Equal(t, "acme", input.OrgSlug)
			assert.Equal(t, "dist", input.OutputPath)
			assert.Equal(t, "markdown", input.Format)
			assert.Equal(t, trigger, input.Trigger)
			return nil
		})

	job, err := d.Dispatch(context.Background(), project, domain.ActionDeploy, pipeline.DispatchInput{
		Branch:        "main",
		Commit:        "abc123",
		CommitMessage: "update content",
		Trigger:       trigger,
	})
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, createdID, job.ID)
}

func TestDispatch_UnmappedActionFails(t *testing.T) {
	d, tm := setupTestDispatcher(t)
	defer tm.ctrl.Finish()

	_, err := d.Dispatch(context.Background(), dispatchProject(), domain.ActionNone, pipeline.DispatchInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not map to a job type")
}

func TestDispatch_MissingCredentialAbortsBeforeJobRow(t *testing.T) {
	d, tm := setupTestDispatcher(t)
	defer tm.ctrl.Finish()

	project := dispatchProject()
	tm.store.EXPECT().
		GetRepoCredential(gomock.Any(), project.ID).
		Return(nil, nil)

	// No CreateJob expectation: the job row must not exist

	_, err := d.Dispatch(context.Background(), project, domain.ActionDeploy, pipeline.DispatchInput{Branch: "main"})
	require.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestDispatch_CredentialLookupFailure(t *testing.T) {
	d, tm := setupTestDispatcher(t)
	defer tm.ctrl.Finish()

	project := dispatchProject()
	tm.store.EXPECT().
		GetRepoCredential(gomock.Any(), project.ID).
		Return(nil, errors.New("connection refused"))

	_, err := d.Dispatch(context.Background(), project, domain.ActionDeploy, pipeline.DispatchInput{Branch: "main"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve repository credential")
}

func TestDispatch_ParameterFallbackForBranchAndCommit(t *testing.T) {
	d, tm := setupTestDispatcher(t)
	defer tm.ctrl.Finish()

	project := dispatchProject()
	tm.store.EXPECT().
		GetRepoCredential(gomock.Any(), project.ID).
		Return(testCredential(project.ID), nil)
	tm.store.EXPECT().CreateJob(gomock.Any(), gomock.Any()).Return(nil)

	tm.compute.EXPECT().
		SubmitJob(gomock.Any(), gomock.Any(), domain.JobTypeUpdateContent, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ domain.JobType, input domain.JobInput) error {
			assert.Equal(t, "staging", input.Branch)
			assert.Equal(t, "def456", input.Commit)
			return nil
		})

	_, err := d.Dispatch(context.Background(), project, domain.ActionUpdate, pipeline.DispatchInput{
		Parameters: map[string]interface{}{"branch": "staging", "commit": "def456", "path": "docs/"},
	})
	require.NoError(t, err)
}

func TestDispatch_SubmitFailureMarksJobFailed(t *testing.T) {
	d, tm := setupTestDispatcher(t)
	defer tm.ctrl.Finish()

	project := dispatchProject()
	tm.store.EXPECT().
		GetRepoCredential(gomock.Any(), project.ID).
		Return(testCredential(project.ID), nil)

	var createdID string
	tm.store.EXPECT().
		CreateJob(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *schema.Job) error {
			createdID = job.ID
			return nil
		})

	tm.compute.EXPECT().
		SubmitJob(gomock.Any(), gomock.Any(), domain.JobTypeDeployRepo, gomock.Any()).
		Return(errors.New("compute service unavailable"))

	tm.store.EXPECT().
		CompleteJob(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.CompleteJobInput) (bool, error) {
			assert.Equal(t, createdID, input.JobID)
			assert.Equal(t, schema.JobStatusFailed, input.Status)
			assert.Contains(t, input.Error, "compute service unavailable")
			return true, nil
		})

	_, err := d.Dispatch(context.Background(), project, domain.ActionDeploy, pipeline.DispatchInput{Branch: "main"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to submit job to compute service")
}

func TestDispatch_CreateJobFailure(t *testing.T) {
	d, tm := setupTestDispatcher(t)
	defer tm.ctrl.Finish()

	project := dispatchProject()
	tm.store.EXPECT().
		GetRepoCredential(gomock.Any(), project.ID).
		Return(testCredential(project.ID), nil)
	tm.store.EXPECT().
		CreateJob(gomock.Any(), gomock.Any()).
		Return(errors.New("insert failed"))

	_, err := d.Dispatch(context.Background(), project, domain.ActionDeploy, pipeline.DispatchInput{Branch: "main"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create job")
}
