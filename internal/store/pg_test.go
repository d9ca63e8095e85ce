package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/datatypes"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pagemill/deploy-engine/internal/domain"
	"github.com/pagemill/deploy-engine/internal/store/schema"
)

var (
	testDB      *gorm.DB
	pgContainer *postgres.PostgresContainer
)

// TestMain sets up the test database before running tests
func TestMain(m *testing.M) {
	ctx := context.Background()

	// Check if we should use an external database (for CI or local development)
	dbHost := os.Getenv("TEST_DB_HOST")
	dbPort := os.Getenv("TEST_DB_PORT")
	dbUser := os.Getenv("TEST_DB_USER")
	dbPassword := os.Getenv("TEST_DB_PASSWORD")
	dbName := os.Getenv("TEST_DB_NAME")

	var dsn string
	var err error

	if dbHost != "" {
		// Use external database
		if dbPort == "" {
			dbPort = "5432"
		}
		if dbUser == "" {
			dbUser = "postgres"
		}
		if dbPassword == "" {
			dbPassword = "postgres"
		}
		if dbName == "" {
			dbName = "test_db"
		}

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPassword, dbName)

		fmt.Printf("Using external database: %s:%s/%s\n", dbHost, dbPort, dbName)
	} else {
		// Start a PostgreSQL container for testing
		pgContainer, err = postgres.Run(ctx,
			"postgres:18-alpine",
			postgres.WithDatabase("test_db"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			fmt.Printf("Failed to start PostgreSQL container: %v\n", err)
			os.Exit(1)
		}

		dsn, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Printf("Failed to get connection string: %v\n", err)
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Printf("Started PostgreSQL container\n")
	}

	// Connect to the database
	testDB, err = gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		if pgContainer != nil {
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
		}
		os.Exit(1)
	}

	// Initialize the database schema from the GORM models
	err = testDB.AutoMigrate(
		&schema.Project{},
		&schema.RepoCredential{},
		&schema.WebhookEndpoint{},
		&schema.GitEvent{},
		&schema.WebhookEvent{},
		&schema.Job{},
		&schema.Deployment{},
		&schema.WebhookClient{},
		&schema.WebhookDelivery{},
	)
	if err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		if pgContainer != nil {
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
		}
		os.Exit(1)
	}

	// Run tests
	code := m.Run()

	// Cleanup
	if pgContainer != nil {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
		}
	}

	os.Exit(code)
}

// initPGTestDB initializes a test store for each test. Each test runs inside
// its own transaction, rolled back at cleanup for isolation.
func initPGTestDB(t *testing.T) Store {
	tx := testDB.Begin()
	require.NotNil(t, tx)
	require.NoError(t, tx.Error)

	t.Cleanup(func() {
		tx.Rollback()
	})

	return NewPGStore(tx)
}

// =============================================================================
// Test Data Builders
// =============================================================================

var seq int

func nextID() string {
	seq++
	return domain.NewID(time.Now().Add(time.Duration(seq) * time.Millisecond).UTC())
}

func buildTestProject(store Store, t *testing.T) *schema.Project {
	project := &schema.Project{
		ID:           fmt.Sprintf("11111111-0000-4000-8000-%012d", seq),
		Slug:         fmt.Sprintf("proj-%d", seq),
		OrgSlug:      "acme",
		Name:         "Test Project",
		RepoFullName: fmt.Sprintf("acme/repo-%d", seq),
		RepoCloneURL: "https://github.com/acme/repo.git",
	}
	seq++
	require.NoError(t, store.(*pgStore).db.Create(project).Error)
	return project
}

func buildTestGitEvent(store Store, t *testing.T) *schema.GitEvent {
	ctx := context.Background()
	event := &schema.GitEvent{
		ID:         nextID(),
		DeliveryID: fmt.Sprintf("delivery-%d", seq),
		EventType:  "push",
		Payload:    datatypes.JSON(`{"ref":"refs/heads/main"}`),
		Status:     schema.GitEventStatusProcessing,
		ReceivedAt: time.Now().UTC(),
	}
	require.NoError(t, store.CreateGitEvent(ctx, event))
	return event
}

func buildTestJob(store Store, t *testing.T, projectID string) *schema.Job {
	ctx := context.Background()
	job := &schema.Job{
		ID:        nextID(),
		Type:      string(domain.JobTypeDeployRepo),
		ProjectID: projectID,
		Input:     datatypes.JSON(`{"branch":"main"}`),
		Status:    schema.JobStatusPending,
	}
	require.NoError(t, store.CreateJob(ctx, job))
	return job
}

// =============================================================================
// Git events
// =============================================================================

func TestGitEventLifecycle(t *testing.T) {
	store := initPGTestDB(t)
	ctx := context.Background()

	t.Run("create and get round-trip", func(t *testing.T) {
		event := buildTestGitEvent(store, t)

		got, err := store.GetGitEvent(ctx, event.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, event.DeliveryID, got.DeliveryID)
		assert.Equal(t, schema.GitEventStatusProcessing, got.Status)
		assert.JSONEq(t, `{"ref":"refs/heads/main"}`, string(got.Payload))
	})

	t.Run("get unknown id returns nil", func(t *testing.T) {
		got, err := store.GetGitEvent(ctx, "01J0000000000000000000000")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("set project backfills repo and project", func(t *testing.T) {
		event := buildTestGitEvent(store, t)
		project := buildTestProject(store, t)

		require.NoError(t, store.SetGitEventProject(ctx, event.ID, project.RepoFullName, project.ID))

		got, err := store.GetGitEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, project.RepoFullName, got.RepoFullName)
		require.NotNil(t, got.ProjectID)
		assert.Equal(t, project.ID, *got.ProjectID)
	})

	t.Run("logs append in order", func(t *testing.T) {
		event := buildTestGitEvent(store, t)

		now := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, store.AppendGitEventLog(ctx, event.ID, schema.LogEntry{Timestamp: now, Level: "info", Message: "first"}))
		require.NoError(t, store.AppendGitEventLog(ctx, event.ID, schema.LogEntry{Timestamp: now, Level: "error", Message: "second"}))

		got, err := store.GetGitEvent(ctx, event.ID)
		require.NoError(t, err)

		var logs []schema.LogEntry
		require.NoError(t, json.Unmarshal(got.Logs, &logs))
		require.Len(t, logs, 2)
		assert.Equal(t, "first", logs[0].Message)
		assert.Equal(t, "second", logs[1].Message)
		assert.Equal(t, "error", logs[1].Level)
	})

	t.Run("triggered jobs append", func(t *testing.T) {
		event := buildTestGitEvent(store, t)

		ref := schema.TriggeredJob{JobID: "01J0000000000000000000009", Type: "deploy-repo", Status: "pending"}
		require.NoError(t, store.AppendGitEventJob(ctx, event.ID, ref))

		got, err := store.GetGitEvent(ctx, event.ID)
		require.NoError(t, err)

		var jobs []schema.TriggeredJob
		require.NoError(t, json.Unmarshal(got.TriggeredJobs, &jobs))
		require.Len(t, jobs, 1)
		assert.Equal(t, ref, jobs[0])
	})

	t.Run("finalize applies once", func(t *testing.T) {
		event := buildTestGitEvent(store, t)

		applied, err := store.FinalizeGitEvent(ctx, FinalizeGitEventInput{
			EventID:    event.ID,
			Status:     schema.GitEventStatusSkipped,
			SkipReason: "duplicate delivery",
			At:         time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.True(t, applied)

		// Second finalize loses the conditional update and changes nothing
		applied, err = store.FinalizeGitEvent(ctx, FinalizeGitEventInput{
			EventID: event.ID,
			Status:  schema.GitEventStatusFailed,
			Error:   "late failure",
			At:      time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.False(t, applied)

		got, err := store.GetGitEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, schema.GitEventStatusSkipped, got.Status)
		assert.Equal(t, "duplicate delivery", got.SkipReason)
		assert.Empty(t, got.Error)
		require.NotNil(t, got.FinalizedAt)
	})

	t.Run("finalize rejects non-terminal status", func(t *testing.T) {
		event := buildTestGitEvent(store, t)

		_, err := store.FinalizeGitEvent(ctx, FinalizeGitEventInput{
			EventID: event.ID,
			Status:  schema.GitEventStatusProcessing,
			At:      time.Now().UTC(),
		})
		require.Error(t, err)
	})
}

// =============================================================================
// Webhook endpoints and events
// =============================================================================

func TestWebhookEndpointAndEvents(t *testing.T) {
	store := initPGTestDB(t)
	ctx := context.Background()

	project := buildTestProject(store, t)
	endpoint := &schema.WebhookEndpoint{
		ProjectID: project.ID,
		Token:     fmt.Sprintf("22222222-0000-4000-8000-%012d", seq),
		IsActive:  true,
	}
	require.NoError(t, store.(*pgStore).db.Create(endpoint).Error)

	t.Run("get endpoint by token", func(t *testing.T) {
		got, err := store.GetEndpointByToken(ctx, endpoint.Token)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, endpoint.ID, got.ID)
	})

	t.Run("inactive endpoint is not found", func(t *testing.T) {
		require.NoError(t, store.(*pgStore).db.Model(endpoint).Update("is_active", false).Error)
		t.Cleanup(func() {
			require.NoError(t, store.(*pgStore).db.Model(endpoint).Update("is_active", true).Error)
		})

		got, err := store.GetEndpointByToken(ctx, endpoint.Token)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("touch usage increments counter", func(t *testing.T) {
		at := time.Now().UTC()
		require.NoError(t, store.TouchEndpointUsage(ctx, endpoint.ID, at))
		require.NoError(t, store.TouchEndpointUsage(ctx, endpoint.ID, at))

		var got schema.WebhookEndpoint
		require.NoError(t, store.(*pgStore).db.First(&got, endpoint.ID).Error)
		assert.Equal(t, int64(2), got.TotalCalls)
		require.NotNil(t, got.LastUsedAt)
	})

	t.Run("webhook event finalize applies once", func(t *testing.T) {
		event := &schema.WebhookEvent{
			ID:         nextID(),
			EndpointID: endpoint.ID,
			ProjectID:  project.ID,
			Method:     "POST",
			Body:       datatypes.JSON(`{"action":"deploy"}`),
			IP:         "203.0.113.7",
			Status:     schema.WebhookEventStatusProcessing,
			ReceivedAt: time.Now().UTC(),
		}
		require.NoError(t, store.CreateWebhookEvent(ctx, event))

		applied, err := store.FinalizeWebhookEvent(ctx, FinalizeWebhookEventInput{
			EventID: event.ID,
			Status:  schema.WebhookEventStatusSuccess,
			Result:  "deploy-repo job created",
			At:      time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.True(t, applied)

		applied, err = store.FinalizeWebhookEvent(ctx, FinalizeWebhookEventInput{
			EventID: event.ID,
			Status:  schema.WebhookEventStatusFailed,
			Error:   "late failure",
			At:      time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.False(t, applied)

		got, err := store.GetWebhookEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, schema.WebhookEventStatusSuccess, got.Status)
		assert.Equal(t, "deploy-repo job created", got.Result)
	})

	t.Run("rejected event persists with terminal status", func(t *testing.T) {
		now := time.Now().UTC()
		event := &schema.WebhookEvent{
			ID:          nextID(),
			EndpointID:  endpoint.ID,
			ProjectID:   project.ID,
			Method:      "POST",
			IP:          "203.0.113.8",
			Status:      schema.WebhookEventStatusRejected,
			Error:       "ip 203.0.113.8 is not allowed",
			FinalizedAt: &now,
			ReceivedAt:  now,
		}
		require.NoError(t, store.CreateWebhookEvent(ctx, event))

		got, err := store.GetWebhookEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, schema.WebhookEventStatusRejected, got.Status)
	})
}

// =============================================================================
// Jobs
// =============================================================================

func TestJobLifecycle(t *testing.T) {
	store := initPGTestDB(t)
	ctx := context.Background()

	project := buildTestProject(store, t)

	t.Run("pending to running to completed", func(t *testing.T) {
		job := buildTestJob(store, t, project.ID)

		require.NoError(t, store.MarkJobRunning(ctx, job.ID))
		got, err := store.GetJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, schema.JobStatusRunning, got.Status)

		duration := int64(42000)
		applied, err := store.CompleteJob(ctx, CompleteJobInput{
			JobID:      job.ID,
			Status:     schema.JobStatusCompleted,
			Output:     []byte(`{"page_count":12}`),
			DurationMS: &duration,
			At:         time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.True(t, applied)

		got, err = store.GetJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, schema.JobStatusCompleted, got.Status)
		assert.JSONEq(t, `{"page_count":12}`, string(got.Output))
		require.NotNil(t, got.DurationMS)
		assert.Equal(t, duration, *got.DurationMS)
		require.NotNil(t, got.CompletedAt)
	})

	t.Run("terminal transition applies once", func(t *testing.T) {
		job := buildTestJob(store, t, project.ID)

		applied, err := store.CompleteJob(ctx, CompleteJobInput{
			JobID:  job.ID,
			Status: schema.JobStatusFailed,
			Error:  "build failed",
			At:     time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.True(t, applied)

		applied, err = store.CompleteJob(ctx, CompleteJobInput{
			JobID:  job.ID,
			Status: schema.JobStatusCompleted,
			At:     time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.False(t, applied)

		got, err := store.GetJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, schema.JobStatusFailed, got.Status)
		assert.Equal(t, "build failed", got.Error)
	})

	t.Run("late running callback does not resurrect a terminal job", func(t *testing.T) {
		job := buildTestJob(store, t, project.ID)

		_, err := store.CompleteJob(ctx, CompleteJobInput{
			JobID:  job.ID,
			Status: schema.JobStatusCompleted,
			At:     time.Now().UTC(),
		})
		require.NoError(t, err)

		require.NoError(t, store.MarkJobRunning(ctx, job.ID))

		got, err := store.GetJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, schema.JobStatusCompleted, got.Status)
	})

	t.Run("logs append in batches", func(t *testing.T) {
		job := buildTestJob(store, t, project.ID)

		now := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, store.AppendJobLogs(ctx, job.ID, []schema.LogEntry{
			{Timestamp: now, Level: "info", Message: "cloning repository"},
			{Timestamp: now, Level: "info", Message: "building"},
		}))
		require.NoError(t, store.AppendJobLogs(ctx, job.ID, []schema.LogEntry{
			{Timestamp: now, Level: "info", Message: "uploading"},
		}))

		got, err := store.GetJob(ctx, job.ID)
		require.NoError(t, err)

		var logs []schema.LogEntry
		require.NoError(t, json.Unmarshal(got.Logs, &logs))
		require.Len(t, logs, 3)
		assert.Equal(t, "uploading", logs[2].Message)
	})
}

// =============================================================================
// Active revision
// =============================================================================

func TestAdvanceActiveRev(t *testing.T) {
	store := initPGTestDB(t)
	ctx := context.Background()

	project := buildTestProject(store, t)

	older := domain.NewID(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	newer := domain.NewID(time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC))

	t.Run("first completion advances from null", func(t *testing.T) {
		advanced, err := store.AdvanceActiveRev(ctx, project.ID, older)
		require.NoError(t, err)
		assert.True(t, advanced)
	})

	t.Run("newer job advances past older", func(t *testing.T) {
		advanced, err := store.AdvanceActiveRev(ctx, project.ID, newer)
		require.NoError(t, err)
		assert.True(t, advanced)
	})

	t.Run("older job cannot regress the revision", func(t *testing.T) {
		advanced, err := store.AdvanceActiveRev(ctx, project.ID, older)
		require.NoError(t, err)
		assert.False(t, advanced)

		got, err := store.GetProjectByID(ctx, project.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ActiveRevJobID)
		assert.Equal(t, newer, *got.ActiveRevJobID)
	})

	t.Run("same job does not re-advance", func(t *testing.T) {
		advanced, err := store.AdvanceActiveRev(ctx, project.ID, newer)
		require.NoError(t, err)
		assert.False(t, advanced)
	})
}

// =============================================================================
// Credentials
// =============================================================================

func TestGetRepoCredential(t *testing.T) {
	store := initPGTestDB(t)
	ctx := context.Background()

	project := buildTestProject(store, t)

	t.Run("no credential returns nil", func(t *testing.T) {
		got, err := store.GetRepoCredential(ctx, project.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("newest credential wins", func(t *testing.T) {
		older := &schema.RepoCredential{
			ProjectID: project.ID,
			Provider:  "github",
			Token:     "ghs_old",
			CreatedAt: time.Now().Add(-time.Hour).UTC(),
		}
		require.NoError(t, store.(*pgStore).db.Create(older).Error)
		newer := &schema.RepoCredential{
			ProjectID: project.ID,
			Provider:  "github",
			Token:     "ghs_new",
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, store.(*pgStore).db.Create(newer).Error)

		got, err := store.GetRepoCredential(ctx, project.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "ghs_new", got.Token)
	})
}

// =============================================================================
// Deployments
// =============================================================================

func TestDeployments(t *testing.T) {
	store := initPGTestDB(t)
	ctx := context.Background()

	project := buildTestProject(store, t)

	t.Run("upsert creates then updates in place", func(t *testing.T) {
		job := buildTestJob(store, t, project.ID)
		now := time.Now().UTC()

		require.NoError(t, store.UpsertDeployment(ctx, &schema.Deployment{
			JobID:     job.ID,
			ProjectID: project.ID,
			Status:    schema.DeploymentStatusFailed,
			Branch:    "main",
			Error:     "build failed",
			CreatedAt: now,
			UpdatedAt: now,
		}))

		// A redelivered callback overwrites the outcome, same row
		require.NoError(t, store.UpsertDeployment(ctx, &schema.Deployment{
			JobID:     job.ID,
			ProjectID: project.ID,
			Status:    schema.DeploymentStatusCompleted,
			Branch:    "main",
			Commit:    "abc123",
			PageCount: 12,
			CreatedAt: now,
			UpdatedAt: now,
		}))

		got, err := store.GetDeploymentByJobID(ctx, job.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, schema.DeploymentStatusCompleted, got.Status)
		assert.Equal(t, 12, got.PageCount)

		var count int64
		require.NoError(t, store.(*pgStore).db.Model(&schema.Deployment{}).
			Where("job_id = ?", job.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("list is newest first with total", func(t *testing.T) {
		listProject := buildTestProject(store, t)
		base := time.Now().Add(-time.Hour).UTC()
		for i := 0; i < 5; i++ {
			job := buildTestJob(store, t, listProject.ID)
			at := base.Add(time.Duration(i) * time.Minute)
			require.NoError(t, store.UpsertDeployment(ctx, &schema.Deployment{
				JobID:     job.ID,
				ProjectID: listProject.ID,
				Status:    schema.DeploymentStatusCompleted,
				Branch:    fmt.Sprintf("branch-%d", i),
				CreatedAt: at,
				UpdatedAt: at,
			}))
		}

		deployments, total, err := store.ListDeployments(ctx, listProject.ID, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, deployments, 2)
		assert.Equal(t, "branch-4", deployments[0].Branch)
		assert.Equal(t, "branch-3", deployments[1].Branch)

		deployments, total, err = store.ListDeployments(ctx, listProject.ID, 2, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, deployments, 1)
		assert.Equal(t, "branch-0", deployments[0].Branch)
	})
}

// =============================================================================
// Webhook clients and deliveries
// =============================================================================

func TestWebhookClients(t *testing.T) {
	store := initPGTestDB(t)
	ctx := context.Background()

	project := buildTestProject(store, t)

	createClient := func(t *testing.T, filters string, projectID *string, active bool) *schema.WebhookClient {
		client := &schema.WebhookClient{
			ClientID:         fmt.Sprintf("33333333-0000-4000-8000-%012d", seq),
			ProjectID:        projectID,
			WebhookURL:       "https://example.com/hooks",
			WebhookSecret:    "aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899",
			EventFilters:     datatypes.JSON(filters),
			IsActive:         active,
			RetryMaxAttempts: 5,
		}
		seq++
		require.NoError(t, store.CreateWebhookClient(ctx, client))
		return client
	}

	exact := createClient(t, `["deployment.completed"]`, nil, true)
	wildcard := createClient(t, `["*"]`, nil, true)
	failedOnly := createClient(t, `["deployment.failed"]`, nil, true)
	scoped := createClient(t, `["deployment.completed"]`, &project.ID, true)
	inactive := createClient(t, `["*"]`, nil, false)

	t.Run("filter matching", func(t *testing.T) {
		clients, err := store.GetActiveWebhookClientsByEvent(ctx, "deployment.completed", project.ID)
		require.NoError(t, err)

		ids := make(map[string]bool)
		for _, c := range clients {
			ids[c.ClientID] = true
		}
		assert.True(t, ids[exact.ClientID], "exact filter should match")
		assert.True(t, ids[wildcard.ClientID], "wildcard should match")
		assert.True(t, ids[scoped.ClientID], "matching project scope should match")
		assert.False(t, ids[failedOnly.ClientID], "other event type should not match")
		assert.False(t, ids[inactive.ClientID], "inactive client should not match")
	})

	t.Run("project scope excludes other projects", func(t *testing.T) {
		other := buildTestProject(store, t)
		clients, err := store.GetActiveWebhookClientsByEvent(ctx, "deployment.completed", other.ID)
		require.NoError(t, err)

		for _, c := range clients {
			assert.NotEqual(t, scoped.ClientID, c.ClientID)
		}
	})

	t.Run("delivery record round-trip", func(t *testing.T) {
		id, err := store.CreateWebhookDelivery(ctx, &schema.WebhookDelivery{
			ClientID:       exact.ClientID,
			EventID:        nextID(),
			EventType:      "deployment.completed",
			Payload:        datatypes.JSON(`{"event_type":"deployment.completed"}`),
			DeliveryStatus: schema.WebhookDeliveryStatusPending,
		})
		require.NoError(t, err)
		require.NotZero(t, id)

		status := 200
		require.NoError(t, store.UpdateWebhookDelivery(ctx, UpdateWebhookDeliveryInput{
			DeliveryID:     id,
			Status:         schema.WebhookDeliveryStatusSuccess,
			Attempts:       2,
			ResponseStatus: &status,
			ResponseBody:   "ok",
			At:             time.Now().UTC(),
		}))

		var got schema.WebhookDelivery
		require.NoError(t, store.(*pgStore).db.First(&got, id).Error)
		assert.Equal(t, schema.WebhookDeliveryStatusSuccess, got.DeliveryStatus)
		assert.Equal(t, 2, got.Attempts)
		require.NotNil(t, got.ResponseStatus)
		assert.Equal(t, 200, *got.ResponseStatus)
		require.NotNil(t, got.LastAttemptAt)
	})
}

// =============================================================================
// Projects
// =============================================================================

func TestGetProjectByRepo(t *testing.T) {
	store := initPGTestDB(t)
	ctx := context.Background()

	project := buildTestProject(store, t)

	got, err := store.GetProjectByRepo(ctx, project.RepoFullName)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, project.ID, got.ID)

	got, err = store.GetProjectByRepo(ctx, "acme/unknown")
	require.NoError(t, err)
	assert.Nil(t, got)
}
