package testfixtures

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/example/hiring-portal/internal/persistence"
)

// Stores groups the repositories a storage backend provides.
type Stores struct {
	Jobs         persistence.JobRepository
	Applications persistence.ApplicationRepository
	Interviews   persistence.InterviewRepository
}

// RunStorageContract exercises the behaviour every storage backend must share. newStores is
// called once per subtest and must return empty, independent repositories.
func RunStorageContract(t *testing.T, newStores func(t *testing.T) Stores) {
	t.Helper()

	t.Run("jobs", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		stores := newStores(t)

		job := NewJobFixture(WithJobID("job-1"), WithJobTitle("Platform Engineer")).Persistence()
		if err := stores.Jobs.CreateJob(ctx, job); err != nil {
			t.Fatalf("CreateJob failed: %v", err)
		}
		if err := stores.Jobs.CreateJob(ctx, job); !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}

		fetched, err := stores.Jobs.GetJob(ctx, "job-1")
		if err != nil {
			t.Fatalf("GetJob failed: %v", err)
		}
		if fetched.Title != "Platform Engineer" || fetched.Requirements != job.Requirements || !fetched.CreatedAt.Equal(job.CreatedAt) {
			t.Fatalf("unexpected job: %#v", fetched)
		}

		if _, err := stores.Jobs.GetJob(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("applications", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		stores := newStores(t)
		seedJobs(t, stores, "job-1", "job-2")

		first := NewApplicationFixture(WithApplicationID("app-1"), WithApplicationJob("job-1")).Persistence()
		second := NewApplicationFixture(WithApplicationID("app-2"), WithApplicationJob("job-2")).Persistence()
		third := NewApplicationFixture(WithApplicationID("app-3"), WithApplicationJob("job-1")).Persistence()
		for _, app := range []persistence.Application{first, second, third} {
			if err := stores.Applications.CreateApplication(ctx, app); err != nil {
				t.Fatalf("CreateApplication(%s) failed: %v", app.ID, err)
			}
		}

		if err := stores.Applications.CreateApplication(ctx, first); !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
		orphan := NewApplicationFixture(WithApplicationJob("no-such-job")).Persistence()
		if err := stores.Applications.CreateApplication(ctx, orphan); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for unknown job, got %v", err)
		}

		all, err := stores.Applications.ListApplications(ctx, persistence.ApplicationFilter{})
		if err != nil {
			t.Fatalf("ListApplications failed: %v", err)
		}
		if got := applicationIDs(all); !reflect.DeepEqual(got, []string{"app-1", "app-2", "app-3"}) {
			t.Fatalf("expected insertion order, got %v", got)
		}

		forJob, err := stores.Applications.ListApplications(ctx, persistence.ApplicationFilter{JobID: "job-1"})
		if err != nil {
			t.Fatalf("ListApplications failed: %v", err)
		}
		if got := applicationIDs(forJob); !reflect.DeepEqual(got, []string{"app-1", "app-3"}) {
			t.Fatalf("unexpected filtered applications: %v", got)
		}

		fetched, err := stores.Applications.GetApplication(ctx, "app-1")
		if err != nil {
			t.Fatalf("GetApplication failed: %v", err)
		}
		if fetched.Email != first.Email || fetched.Analysis != nil || fetched.AIScore != nil {
			t.Fatalf("unexpected application: %#v", fetched)
		}

		result := SampleAnalysis(87.6, 90, 80, 70)
		score := 88
		status := "screened"
		updatedAt := referenceTime.Add(time.Hour)
		updated, err := stores.Applications.UpdateApplication(ctx, "app-1", persistence.ApplicationPatch{
			Status:    &status,
			Analysis:  &result,
			AIScore:   &score,
			UpdatedAt: updatedAt,
		})
		if err != nil {
			t.Fatalf("UpdateApplication failed: %v", err)
		}
		if updated.Status != "screened" || updated.AIScore == nil || *updated.AIScore != 88 {
			t.Fatalf("unexpected updated application: %#v", updated)
		}
		if updated.Analysis == nil || !reflect.DeepEqual(*updated.Analysis, result) {
			t.Fatalf("analysis not stored: %#v", updated.Analysis)
		}
		if !updated.UpdatedAt.Equal(updatedAt) || !updated.CreatedAt.Equal(first.CreatedAt) {
			t.Fatalf("unexpected timestamps: created=%v updated=%v", updated.CreatedAt, updated.UpdatedAt)
		}

		reloaded, err := stores.Applications.GetApplication(ctx, "app-1")
		if err != nil {
			t.Fatalf("GetApplication failed: %v", err)
		}
		if reloaded.Analysis == nil || reloaded.Analysis.OverallScore != 87.6 || reloaded.FullName != first.FullName {
			t.Fatalf("patch not persisted: %#v", reloaded)
		}

		if _, err := stores.Applications.UpdateApplication(ctx, "missing", persistence.ApplicationPatch{Status: &status}); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, err := stores.Applications.GetApplication(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("interviews reject overlapping windows", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		stores := newStores(t)
		seedApplication(t, stores, "job-1", "app-1")

		day := referenceTime.Add(24 * time.Hour)
		base := NewInterviewFixture(
			WithInterviewID("int-1"),
			WithInterviewApplication("app-1"),
			WithInterviewWindow(day.Add(2*time.Hour), 60),
		)
		if err := stores.Interviews.CreateInterview(ctx, base.Persistence()); err != nil {
			t.Fatalf("CreateInterview failed: %v", err)
		}

		cases := []struct {
			name    string
			fixture InterviewFixture
			wantErr error
		}{
			{
				name: "overlapping window for same interviewer",
				fixture: NewInterviewFixture(
					WithInterviewApplication("app-1"),
					WithInterviewWindow(day.Add(2*time.Hour+30*time.Minute), 60),
				),
				wantErr: persistence.ErrOverlap,
			},
			{
				name: "interviewer email differs only in case",
				fixture: NewInterviewFixture(
					WithInterviewApplication("app-1"),
					WithInterviewer("Ivy", "IVY@example.com"),
					WithInterviewWindow(day.Add(90*time.Minute), 60),
				),
				wantErr: persistence.ErrOverlap,
			},
			{
				name: "adjacent window",
				fixture: NewInterviewFixture(
					WithInterviewApplication("app-1"),
					WithInterviewWindow(day.Add(3*time.Hour), 60),
				),
			},
			{
				name: "different interviewer",
				fixture: NewInterviewFixture(
					WithInterviewApplication("app-1"),
					WithInterviewer("Oscar", "oscar@example.com"),
					WithInterviewWindow(day.Add(2*time.Hour), 60),
				),
			},
			{
				name: "unknown application",
				fixture: NewInterviewFixture(
					WithInterviewApplication("no-such-app"),
					WithInterviewer("Nia", "nia@example.com"),
				),
				wantErr: persistence.ErrNotFound,
			},
		}

		// Subtests share the store, so they run sequentially.
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				err := stores.Interviews.CreateInterview(ctx, tc.fixture.Persistence())
				if tc.wantErr == nil && err != nil {
					t.Fatalf("CreateInterview failed: %v", err)
				}
				if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
			})
		}

		if err := stores.Interviews.CreateInterview(ctx, base.Persistence()); !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate for repeated ID, got %v", err)
		}
	})

	t.Run("interviewer emails fold beyond ASCII", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		stores := newStores(t)
		seedApplication(t, stores, "job-1", "app-1")

		start := referenceTime.Add(25 * time.Hour)
		first := NewInterviewFixture(
			WithInterviewID("int-upper"),
			WithInterviewApplication("app-1"),
			WithInterviewer("Ölaf", "Ölaf@x.example"),
			WithInterviewWindow(start, 60),
		)
		if err := stores.Interviews.CreateInterview(ctx, first.Persistence()); err != nil {
			t.Fatalf("CreateInterview failed: %v", err)
		}

		second := NewInterviewFixture(
			WithInterviewID("int-lower"),
			WithInterviewApplication("app-1"),
			WithInterviewer("Ölaf", "ölaf@x.example"),
			WithInterviewWindow(start.Add(30*time.Minute), 60),
		)
		if err := stores.Interviews.CreateInterview(ctx, second.Persistence()); !errors.Is(err, persistence.ErrOverlap) {
			t.Fatalf("expected ErrOverlap, got %v", err)
		}

		stored, err := stores.Interviews.GetInterview(ctx, "int-upper")
		if err != nil {
			t.Fatalf("GetInterview failed: %v", err)
		}
		if stored.InterviewerEmail != "ölaf@x.example" {
			t.Fatalf("expected normalised email, got %q", stored.InterviewerEmail)
		}

		listed, err := stores.Interviews.ListInterviews(ctx, persistence.InterviewFilter{InterviewerEmail: "ÖLAF@X.EXAMPLE"})
		if err != nil {
			t.Fatalf("ListInterviews failed: %v", err)
		}
		if len(listed) != 1 || listed[0].ID != "int-upper" {
			t.Fatalf("expected int-upper, got %v", interviewIDs(listed))
		}
	})

	t.Run("cancelled interviews free their window", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		stores := newStores(t)
		seedApplication(t, stores, "job-1", "app-1")

		start := referenceTime.Add(26 * time.Hour)
		original := NewInterviewFixture(WithInterviewID("int-a"), WithInterviewApplication("app-1"), WithInterviewWindow(start, 60))
		if err := stores.Interviews.CreateInterview(ctx, original.Persistence()); err != nil {
			t.Fatalf("CreateInterview failed: %v", err)
		}

		cancelled := original.Persistence()
		cancelled.Status = persistence.InterviewStatusCancelled
		cancelled.UpdatedAt = referenceTime.Add(time.Hour)
		if err := stores.Interviews.UpdateInterview(ctx, cancelled); err != nil {
			t.Fatalf("UpdateInterview failed: %v", err)
		}

		replacement := NewInterviewFixture(WithInterviewID("int-b"), WithInterviewApplication("app-1"), WithInterviewWindow(start, 60))
		if err := stores.Interviews.CreateInterview(ctx, replacement.Persistence()); err != nil {
			t.Fatalf("expected cancelled interview not to block, got %v", err)
		}

		reopened := cancelled
		reopened.Status = "scheduled"
		if err := stores.Interviews.UpdateInterview(ctx, reopened); !errors.Is(err, persistence.ErrOverlap) {
			t.Fatalf("expected ErrOverlap when reactivating, got %v", err)
		}
	})

	t.Run("interview updates", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		stores := newStores(t)
		seedApplication(t, stores, "job-1", "app-1")

		start := referenceTime.Add(26 * time.Hour)
		first := NewInterviewFixture(WithInterviewID("int-1"), WithInterviewApplication("app-1"), WithInterviewWindow(start, 60))
		second := NewInterviewFixture(WithInterviewID("int-2"), WithInterviewApplication("app-1"), WithInterviewWindow(start.Add(2*time.Hour), 60))
		for _, f := range []InterviewFixture{first, second} {
			if err := stores.Interviews.CreateInterview(ctx, f.Persistence()); err != nil {
				t.Fatalf("CreateInterview(%s) failed: %v", f.ID, err)
			}
		}

		moved := first.Persistence()
		moved.Start = start.Add(30 * time.Minute)
		moved.End = moved.Start.Add(time.Hour)
		moved.Status = "rescheduled"
		moved.Notes = "moved by candidate request"
		moved.CreatedAt = referenceTime.Add(72 * time.Hour)
		moved.UpdatedAt = referenceTime.Add(time.Hour)
		if err := stores.Interviews.UpdateInterview(ctx, moved); err != nil {
			t.Fatalf("UpdateInterview within own window failed: %v", err)
		}

		fetched, err := stores.Interviews.GetInterview(ctx, "int-1")
		if err != nil {
			t.Fatalf("GetInterview failed: %v", err)
		}
		if !fetched.Start.Equal(moved.Start) || !fetched.End.Equal(moved.End) || fetched.Status != "rescheduled" || fetched.Notes != moved.Notes {
			t.Fatalf("unexpected interview after update: %#v", fetched)
		}
		if !fetched.CreatedAt.Equal(first.CreatedAt) {
			t.Fatalf("expected created_at to be preserved, got %v", fetched.CreatedAt)
		}
		if fetched.MeetingLink == nil || *fetched.MeetingLink != *first.MeetingLink || fetched.Location != nil {
			t.Fatalf("unexpected format fields: %#v", fetched)
		}

		clash := moved
		clash.Start = start.Add(150 * time.Minute)
		clash.End = clash.Start.Add(time.Hour)
		if err := stores.Interviews.UpdateInterview(ctx, clash); !errors.Is(err, persistence.ErrOverlap) {
			t.Fatalf("expected ErrOverlap, got %v", err)
		}

		missing := NewInterviewFixture(WithInterviewID("missing")).Persistence()
		if err := stores.Interviews.UpdateInterview(ctx, missing); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, err := stores.Interviews.GetInterview(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("interview listings", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		stores := newStores(t)
		seedApplication(t, stores, "job-1", "app-1")
		seedApplication(t, stores, "job-2", "app-2")

		day := referenceTime.Add(24 * time.Hour)
		fixtures := []InterviewFixture{
			NewInterviewFixture(WithInterviewID("late"), WithInterviewApplication("app-1"), WithInterviewWindow(day.Add(6*time.Hour), 30)),
			NewInterviewFixture(WithInterviewID("early"), WithInterviewApplication("app-1"), WithInterviewWindow(day.Add(time.Hour), 30)),
			NewInterviewFixture(WithInterviewID("other"), WithInterviewApplication("app-2"),
				WithInterviewer("Oscar", "oscar@example.com"), WithInterviewWindow(day.Add(2*time.Hour), 45), WithInterviewInPerson("Room 4")),
			NewInterviewFixture(WithInterviewID("dropped"), WithInterviewApplication("app-1"),
				WithInterviewWindow(day.Add(4*time.Hour), 30), WithInterviewStatus(persistence.InterviewStatusCancelled)),
		}
		for _, f := range fixtures {
			if err := stores.Interviews.CreateInterview(ctx, f.Persistence()); err != nil {
				t.Fatalf("CreateInterview(%s) failed: %v", f.ID, err)
			}
		}

		after := day.Add(time.Hour)
		before := day.Add(4 * time.Hour)
		cases := []struct {
			name   string
			filter persistence.InterviewFilter
			want   []string
		}{
			{name: "all ordered by start", filter: persistence.InterviewFilter{}, want: []string{"early", "other", "dropped", "late"}},
			{name: "by application", filter: persistence.InterviewFilter{ApplicationID: "app-1"}, want: []string{"early", "dropped", "late"}},
			{name: "by interviewer ignoring case", filter: persistence.InterviewFilter{InterviewerEmail: "OSCAR@example.com"}, want: []string{"other"}},
			{name: "excluding cancelled", filter: persistence.InterviewFilter{ExcludeCancelled: true}, want: []string{"early", "other", "late"}},
			{name: "inclusive start bounds", filter: persistence.InterviewFilter{StartsAfter: &after, StartsBefore: &before}, want: []string{"early", "other", "dropped"}},
			{name: "no match", filter: persistence.InterviewFilter{ApplicationID: "app-9"}, want: []string{}},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				interviews, err := stores.Interviews.ListInterviews(ctx, tc.filter)
				if err != nil {
					t.Fatalf("ListInterviews failed: %v", err)
				}
				got := interviewIDs(interviews)
				if !reflect.DeepEqual(got, tc.want) {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			})
		}

		other, err := stores.Interviews.GetInterview(ctx, "other")
		if err != nil {
			t.Fatalf("GetInterview failed: %v", err)
		}
		if other.Location == nil || *other.Location != "Room 4" || other.MeetingLink != nil || other.DurationMinutes != 45 {
			t.Fatalf("unexpected in-person interview: %#v", other)
		}
	})
}

func seedJobs(t *testing.T, stores Stores, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := stores.Jobs.CreateJob(context.Background(), NewJobFixture(WithJobID(id)).Persistence()); err != nil {
			t.Fatalf("seed job %s: %v", id, err)
		}
	}
}

func seedApplication(t *testing.T, stores Stores, jobID, applicationID string) {
	t.Helper()
	seedJobs(t, stores, jobID)
	app := NewApplicationFixture(WithApplicationID(applicationID), WithApplicationJob(jobID)).Persistence()
	if err := stores.Applications.CreateApplication(context.Background(), app); err != nil {
		t.Fatalf("seed application %s: %v", applicationID, err)
	}
}

func applicationIDs(applications []persistence.Application) []string {
	ids := make([]string, 0, len(applications))
	for _, app := range applications {
		ids = append(ids, app.ID)
	}
	return ids
}

func interviewIDs(interviews []persistence.Interview) []string {
	ids := make([]string, 0, len(interviews))
	for _, interview := range interviews {
		ids = append(ids, interview.ID)
	}
	return ids
}
