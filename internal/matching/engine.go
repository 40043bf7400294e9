// Package matching scores a resume against a job posting.
package matching

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/similarity"
)

var errNotConfigured = errors.New("collaborator is not configured")

// Engine computes match results. It keeps no per-request state and is safe
// for concurrent use.
type Engine struct {
	extractor  ai.Extractor
	comparator ai.SkillComparator
	embedder   ai.Embedder
	logger     *zap.Logger
}

// NewEngine creates an Engine. Any collaborator may be nil, in which case its
// fallback is always used.
func NewEngine(extractor ai.Extractor, comparator ai.SkillComparator, embedder ai.Embedder, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		extractor:  extractor,
		comparator: comparator,
		embedder:   embedder,
		logger:     logger,
	}
}

// ComputeMatch matches the resume text against the job text.
// Collaborator failures are absorbed by fallbacks, so a complete result is
// always returned.
func (e *Engine) ComputeMatch(ctx context.Context, jobText, resumeText string) *MatchResult {
	log := logger.WithRequestID(e.logger, uuid.NewString())

	var (
		job                     *ai.JobRequirements
		resume                  *ai.ResumeProfile
		jobErr, resumeErr       error
		jobVec, resumeVec       []float32
		jobVecErr, resumeVecErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		job, jobErr = guard(func() (*ai.JobRequirements, error) {
			if e.extractor == nil {
				return nil, errNotConfigured
			}
			return e.extractor.ExtractJobRequirements(ctx, jobText)
		})
		return nil
	})
	g.Go(func() error {
		resume, resumeErr = guard(func() (*ai.ResumeProfile, error) {
			if e.extractor == nil {
				return nil, errNotConfigured
			}
			return e.extractor.ExtractResumeProfile(ctx, resumeText)
		})
		return nil
	})
	g.Go(func() error {
		jobVec, jobVecErr = e.embed(ctx, jobText)
		return nil
	})
	g.Go(func() error {
		resumeVec, resumeVecErr = e.embed(ctx, resumeText)
		return nil
	})
	_ = g.Wait()

	var fallbacks []string

	if jobErr == nil && job == nil {
		jobErr = errors.New("empty job requirements")
	}
	if jobErr != nil {
		log.Warn("job requirements extraction failed, estimating from text", zap.Error(jobErr))
		job = &ai.JobRequirements{RequiredExperienceYears: FindYears(jobText)}
		fallbacks = append(fallbacks, FallbackJobExtraction)
	}

	if resumeErr == nil && resume == nil {
		resumeErr = errors.New("empty resume profile")
	}
	if resumeErr != nil {
		log.Warn("resume profile extraction failed, estimating from text", zap.Error(resumeErr))
		resume = &ai.ResumeProfile{TotalExperienceYears: FindYears(resumeText)}
		fallbacks = append(fallbacks, FallbackResumeExtraction)
	}

	jobSkills := cleanSkills(job.RequiredSkills)
	resumeSkills := cleanSkills(resume.Skills)

	matched, missing, skillMatch, err := e.compare(ctx, resumeSkills, jobSkills)
	if err != nil {
		log.Warn("skill comparison failed, matching skills by name", zap.Error(err))
		matched, missing, skillMatch = FallbackSkillMatch(jobSkills, resumeSkills)
		fallbacks = append(fallbacks, FallbackSkillComparison)
	}

	semantic := 0.0
	switch {
	case jobVecErr != nil:
		log.Warn("job text embedding failed", zap.Error(jobVecErr))
		fallbacks = append(fallbacks, FallbackEmbedding)
	case resumeVecErr != nil:
		log.Warn("resume text embedding failed", zap.Error(resumeVecErr))
		fallbacks = append(fallbacks, FallbackEmbedding)
	default:
		semantic = round(similarity.Cosine32(jobVec, resumeVec), 4)
	}

	expMatch := ExperienceMatch(job.RequiredExperienceYears, resume.TotalExperienceYears)

	result := &MatchResult{
		OverallScore:       OverallScore(skillMatch, expMatch),
		SemanticSimilarity: semantic,
		RequiredExperience: job.RequiredExperienceYears,
		UserExperience:     resume.TotalExperienceYears,
		ExpMatchPct:        expMatch,
		SkillMatch:         skillMatch,
		RequiredSkills:     jobSkills,
		UserSkills:         resumeSkills,
		MatchedSkills:      orEmpty(matched),
		MissingSkills:      orEmpty(missing),
		Experiences:        orEmpty(resume.Experiences),
		JobTitle:           job.Title,
		Fallbacks:          fallbacks,
	}

	log.Info("match computed",
		zap.Float64("overall_score", result.OverallScore),
		zap.Float64("skill_match", result.SkillMatch),
		zap.Float64("exp_match_pct", result.ExpMatchPct),
		zap.Float64("semantic_similarity", result.SemanticSimilarity),
		zap.Strings("fallbacks", fallbacks),
	)

	return result
}

func (e *Engine) compare(ctx context.Context, resumeSkills, jobSkills []string) (matched, missing []string, percentage float64, err error) {
	if len(jobSkills) == 0 {
		return nil, nil, 0, errors.New("job posting lists no skills")
	}

	cmp, err := guard(func() (*ai.SkillComparison, error) {
		if e.comparator == nil {
			return nil, errNotConfigured
		}
		return e.comparator.CompareSkills(ctx, resumeSkills, jobSkills)
	})
	if err != nil {
		return nil, nil, 0, err
	}
	if cmp == nil {
		return nil, nil, 0, errors.New("empty skill comparison")
	}

	pct := cmp.MatchPercentage
	if math.IsNaN(pct) || pct < 0 || pct > 100 {
		return nil, nil, 0, fmt.Errorf("match percentage %v is out of range", pct)
	}

	return cmp.MatchingSkills, cmp.MissingSkills, pct, nil
}

func (e *Engine) embed(ctx context.Context, text string) ([]float32, error) {
	return guard(func() ([]float32, error) {
		if e.embedder == nil {
			return nil, errNotConfigured
		}
		return e.embedder.Embed(ctx, text)
	})
}

// guard converts a collaborator panic into an error.
func guard[T any](fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("collaborator panic: %v", r)
		}
	}()
	return fn()
}
