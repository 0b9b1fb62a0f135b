package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/example/hiring-portal/internal/persistence"
)

type seedJob struct {
	ID           string `mapstructure:"id"`
	Title        string `mapstructure:"title"`
	Requirements string `mapstructure:"requirements"`
}

type seedApplication struct {
	ID         string `mapstructure:"id"`
	JobID      string `mapstructure:"job_id"`
	FullName   string `mapstructure:"full_name"`
	Email      string `mapstructure:"email"`
	Phone      string `mapstructure:"phone"`
	ResumeText string `mapstructure:"resume_text"`
	AIScore    *int   `mapstructure:"ai_score"`
}

type seedFile struct {
	Jobs         []seedJob
	Applications []seedApplication
}

type seedResult struct {
	jobs, applications, skipped int
}

func newSeedCommand(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load jobs and applications from a YAML or JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}

			data, err := readSeedFile(file)
			if err != nil {
				return err
			}

			storage, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer storage.Close()

			result, err := seed(cmd.Context(), storage, data, time.Now().UTC())
			if err != nil {
				logger.Error("failed to seed data", "error", err)
				return err
			}
			logger.Info("seed completed", "jobs", result.jobs, "applications", result.applications, "skipped", result.skipped)
			fmt.Fprintf(cmd.OutOrStdout(), "jobs=%d applications=%d skipped=%d\n", result.jobs, result.applications, result.skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file (.yaml, .yml or .json)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readSeedFile(path string) (seedFile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return seedFile{}, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var data seedFile
	if err := v.UnmarshalKey("jobs", &data.Jobs); err != nil {
		return seedFile{}, fmt.Errorf("decode jobs: %w", err)
	}
	if err := v.UnmarshalKey("applications", &data.Applications); err != nil {
		return seedFile{}, fmt.Errorf("decode applications: %w", err)
	}
	return data, nil
}

type seedStore interface {
	CreateJob(ctx context.Context, job persistence.Job) error
	CreateApplication(ctx context.Context, application persistence.Application) error
}

// seed inserts the records in file order. Records whose ID already exists are skipped.
func seed(ctx context.Context, store seedStore, data seedFile, now time.Time) (seedResult, error) {
	var result seedResult

	for i, job := range data.Jobs {
		if strings.TrimSpace(job.Title) == "" {
			return result, fmt.Errorf("jobs[%d]: title is required", i)
		}
		record := persistence.Job{
			ID:           orNewID(job.ID),
			Title:        strings.TrimSpace(job.Title),
			Requirements: job.Requirements,
			CreatedAt:    now,
		}
		switch err := store.CreateJob(ctx, record); {
		case errors.Is(err, persistence.ErrDuplicate):
			result.skipped++
		case err != nil:
			return result, fmt.Errorf("jobs[%d]: %w", i, err)
		default:
			result.jobs++
		}
	}

	for i, app := range data.Applications {
		if strings.TrimSpace(app.JobID) == "" || strings.TrimSpace(app.Email) == "" {
			return result, fmt.Errorf("applications[%d]: job_id and email are required", i)
		}
		record := persistence.Application{
			ID:         orNewID(app.ID),
			JobID:      strings.TrimSpace(app.JobID),
			Email:      strings.TrimSpace(app.Email),
			Phone:      strings.TrimSpace(app.Phone),
			FullName:   strings.TrimSpace(app.FullName),
			ResumeText: app.ResumeText,
			Status:     "submitted",
			AIScore:    app.AIScore,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		switch err := store.CreateApplication(ctx, record); {
		case errors.Is(err, persistence.ErrDuplicate):
			result.skipped++
		case err != nil:
			return result, fmt.Errorf("applications[%d]: %w", i, err)
		default:
			result.applications++
		}
	}
	return result, nil
}

func orNewID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}
