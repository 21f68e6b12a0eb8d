package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cgpa-planner-api/internal/dto"
	"github.com/noah-isme/cgpa-planner-api/internal/models"
	appErrors "github.com/noah-isme/cgpa-planner-api/pkg/errors"
	"github.com/noah-isme/cgpa-planner-api/pkg/gpa"
	"github.com/noah-isme/cgpa-planner-api/pkg/jobs"
)

// JobSummaryRefresh recomputes and caches a user's CGPA summary.
const JobSummaryRefresh = "summary.refresh"

const userIDRule = "required,max=64,excludesall=*?[]"

type recordStore interface {
	Create(ctx context.Context, record *models.SemesterRecord) error
	FindByID(ctx context.Context, userID, id string) (*models.SemesterRecord, error)
	List(ctx context.Context, filter models.RecordFilter) ([]models.SemesterRecord, int, error)
	ListAll(ctx context.Context, userID string) ([]models.SemesterRecord, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// SummaryRefreshPayload identifies the summary a refresh job rebuilds.
type SummaryRefreshPayload struct {
	UserID string
	Scale  gpa.Scale
}

// RecordServiceConfig tunes summary caching.
type RecordServiceConfig struct {
	CacheTTL time.Duration
}

// RecordService stores semester results and folds them into summaries.
type RecordService struct {
	repo       recordStore
	calculator *CalculatorService
	cache      *CacheService
	queue      jobDispatcher
	validator  *validator.Validate
	metrics    *MetricsService
	logger     *zap.Logger
	cfg        RecordServiceConfig
	versions   summaryVersions
}

// summaryVersions orders summary cache writes against saves for the same
// user. A refresh only stores its result when no save happened since it
// started reading.
type summaryVersions struct {
	mu       sync.Mutex
	versions map[string]uint64
}

func (v *summaryVersions) current(userID string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.versions[userID]
}

// advance bumps the user's version and runs fn while holding the lock.
func (v *summaryVersions) advance(userID string, fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.versions == nil {
		v.versions = make(map[string]uint64)
	}
	v.versions[userID]++
	fn()
}

// storeIf runs fn only while the user's version still equals version.
func (v *summaryVersions) storeIf(userID string, version uint64, fn func()) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.versions[userID] != version {
		return false
	}
	fn()
	return true
}

// NewRecordService constructs the record service. cache and queue may be nil.
func NewRecordService(repo recordStore, calculator *CalculatorService, cache *CacheService, queue jobDispatcher, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg RecordServiceConfig) *RecordService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if calculator == nil {
		calculator = NewCalculatorService(validate, metrics, logger, CalculatorConfig{})
	}
	return &RecordService{
		repo:       repo,
		calculator: calculator,
		cache:      cache,
		queue:      queue,
		validator:  validate,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
	}
}

// SetQueue attaches the refresh queue once it exists.
func (s *RecordService) SetQueue(queue jobDispatcher) {
	s.queue = queue
}

// Save computes a semester and appends it to the user's history. Skipped
// course lines are returned alongside the stored record.
func (s *RecordService) Save(ctx context.Context, userID string, req dto.SaveRecordRequest) (*dto.SavedRecord, error) {
	if err := s.validateUser(userID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	scale, err := s.calculator.resolveScale(req.Scale)
	if err != nil {
		return nil, err
	}
	mode := resolveMode(req.Mode, "")
	result, err := s.calculator.compute(scale, mode, req.Courses)
	if err != nil {
		return nil, err
	}
	semesterGPA, ok := result.GPA()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNoGPAData, fmt.Sprintf("%s: %d course lines rejected", noDataMessage, len(result.Rejected)))
	}

	record := &models.SemesterRecord{
		UserID:       userID,
		AcademicYear: req.AcademicYear,
		SemesterName: req.SemesterName,
		Scale:        scale,
		GPA:          s.calculator.round(semesterGPA),
		TotalUnits:   result.TotalUnits,
		TotalPoints:  result.TotalPoints,
		Courses:      courseRecords(result.Courses),
	}
	start := time.Now()
	err = s.repo.Create(ctx, record)
	s.metrics.ObserveDBQuery("record_create", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save semester record")
	}
	s.metrics.RecordCalculation(CalculationRecord, scale)
	s.logger.Info("semester record saved",
		zap.String("user_id", userID),
		zap.String("record_id", record.ID),
		zap.String("scale", string(scale)),
		zap.Int("rejected", len(result.Rejected)))

	s.invalidateSummary(ctx, userID, scale)
	return &dto.SavedRecord{Record: record, Rejected: rejectedCourses(result.Rejected)}, nil
}

// Get returns one record owned by the user.
func (s *RecordService) Get(ctx context.Context, userID, id string) (*models.SemesterRecord, error) {
	if err := s.validateUser(userID); err != nil {
		return nil, err
	}
	if err := s.validator.Var(id, "required,uuid"); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid record id")
	}
	start := time.Now()
	record, err := s.repo.FindByID(ctx, userID, id)
	s.metrics.ObserveDBQuery("record_get", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester record")
	}
	return record, nil
}

// List pages through a user's records.
func (s *RecordService) List(ctx context.Context, userID string, query dto.ListRecordsQuery) ([]models.SemesterRecord, *models.Pagination, error) {
	if err := s.validateUser(userID); err != nil {
		return nil, nil, err
	}
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}
	start := time.Now()
	records, total, err := s.repo.List(ctx, models.RecordFilter{
		UserID:       userID,
		AcademicYear: query.AcademicYear,
		Page:         query.Page,
		PageSize:     query.PageSize,
	})
	s.metrics.ObserveDBQuery("record_list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semester records")
	}
	if records == nil {
		records = []models.SemesterRecord{}
	}
	return records, &models.Pagination{Page: query.Page, PageSize: query.PageSize, TotalCount: total}, nil
}

// Summary folds every record on the requested scale. The boolean reports a
// cache hit.
func (s *RecordService) Summary(ctx context.Context, userID, rawScale string) (*models.CGPASummary, bool, error) {
	if err := s.validateUser(userID); err != nil {
		return nil, false, err
	}
	scale, err := s.calculator.resolveScale(rawScale)
	if err != nil {
		return nil, false, err
	}

	key := summaryKey(userID, scale)
	var cached models.CGPASummary
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	summary, err := s.refresh(ctx, userID, scale)
	if err != nil {
		return nil, false, err
	}
	return summary, false, nil
}

// History returns every record together with the folded summary, bypassing
// the cache.
func (s *RecordService) History(ctx context.Context, userID, rawScale string) ([]models.SemesterRecord, *models.CGPASummary, error) {
	if err := s.validateUser(userID); err != nil {
		return nil, nil, err
	}
	scale, err := s.calculator.resolveScale(rawScale)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.loadAll(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return records, s.fold(userID, scale, records), nil
}

// HandleRefreshJob is the queue handler for JobSummaryRefresh.
func (s *RecordService) HandleRefreshJob(ctx context.Context, job jobs.Job) error {
	if job.Type != JobSummaryRefresh {
		return fmt.Errorf("unexpected job type %q", job.Type)
	}
	payload, ok := job.Payload.(SummaryRefreshPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", job.Payload, job.Type)
	}
	_, err := s.refresh(ctx, payload.UserID, payload.Scale)
	return err
}

func (s *RecordService) refresh(ctx context.Context, userID string, scale gpa.Scale) (*models.CGPASummary, error) {
	version := s.versions.current(userID)
	records, err := s.loadAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := s.fold(userID, scale, records)
	s.metrics.RecordCalculation(CalculationSummary, scale)
	if !s.cache.Enabled() {
		return summary, nil
	}
	stored := s.versions.storeIf(userID, version, func() {
		_ = s.cache.Set(ctx, summaryKey(userID, scale), summary, s.cfg.CacheTTL)
	})
	if !stored {
		s.logger.Debug("records changed during summary refresh; result not cached",
			zap.String("user_id", userID), zap.String("scale", string(scale)))
	}
	return summary, nil
}

func (s *RecordService) loadAll(ctx context.Context, userID string) ([]models.SemesterRecord, error) {
	start := time.Now()
	records, err := s.repo.ListAll(ctx, userID)
	s.metrics.ObserveDBQuery("record_list_all", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester records")
	}
	return records, nil
}

// fold runs the cumulative aggregator over the records saved on scale.
// Records on other scales are listed in MixedScales and left out.
func (s *RecordService) fold(userID string, scale gpa.Scale, records []models.SemesterRecord) *models.CGPASummary {
	summary := &models.CGPASummary{
		UserID:     userID,
		Scale:      scale,
		Semesters:  make([]models.SemesterSummaryLine, 0, len(records)),
		ComputedAt: time.Now().UTC(),
	}
	others := map[gpa.Scale]struct{}{}
	var state gpa.CumulativeState
	for _, record := range records {
		if record.Scale != scale {
			others[record.Scale] = struct{}{}
			continue
		}
		result := record.Result()
		next, err := state.Append(result)
		if err != nil {
			s.logger.Warn("record left out of summary", zap.String("record_id", record.ID), zap.Error(err))
			continue
		}
		state = next
		line := models.SemesterSummaryLine{
			RecordID:     record.ID,
			AcademicYear: record.AcademicYear,
			SemesterName: record.SemesterName,
			TotalUnits:   record.TotalUnits,
		}
		if value, ok := result.GPA(); ok {
			rounded := s.calculator.round(value)
			line.GPA = &rounded
		}
		if value, ok := state.CGPA(); ok {
			rounded := s.calculator.round(value)
			line.CumulativeCGPA = &rounded
		}
		summary.Semesters = append(summary.Semesters, line)
	}

	summary.SemesterCount = len(summary.Semesters)
	summary.TotalUnits = state.PriorUnits
	summary.TotalPoints = s.calculator.round(state.PriorPoints)
	if value, ok := state.CGPA(); ok {
		rounded := s.calculator.round(value)
		summary.CGPA = &rounded
	} else {
		summary.NoData = true
	}
	for other := range others {
		summary.MixedScales = append(summary.MixedScales, other)
	}
	sort.Slice(summary.MixedScales, func(i, j int) bool { return summary.MixedScales[i] < summary.MixedScales[j] })
	return summary
}

func (s *RecordService) invalidateSummary(ctx context.Context, userID string, scale gpa.Scale) {
	if !s.cache.Enabled() {
		return
	}
	s.versions.advance(userID, func() {
		_ = s.cache.Delete(ctx, summaryKeys(userID)...)
	})
	if s.queue == nil {
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:      fmt.Sprintf("%s:%s:%d", JobSummaryRefresh, userID, time.Now().UnixNano()),
		Type:    JobSummaryRefresh,
		Key:     summaryKey(userID, scale),
		Payload: SummaryRefreshPayload{UserID: userID, Scale: scale},
	})
	if err != nil && !errors.Is(err, jobs.ErrDuplicate) {
		s.logger.Warn("failed to enqueue summary refresh", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *RecordService) validateUser(userID string) error {
	if err := s.validator.Var(userID, userIDRule); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "invalid user id")
	}
	return nil
}

func summaryKey(userID string, scale gpa.Scale) string {
	return fmt.Sprintf("gpa:summary:%s:%s", userID, scale)
}

// summaryKeys lists the cache key of every scale for the user.
func summaryKeys(userID string) []string {
	scales := gpa.Scales()
	keys := make([]string, 0, len(scales))
	for _, scale := range scales {
		keys = append(keys, summaryKey(userID, scale))
	}
	return keys
}

func courseRecords(courses []gpa.GradedCourse) models.CourseRecords {
	out := make(models.CourseRecords, 0, len(courses))
	for _, c := range courses {
		out = append(out, models.CourseRecord{
			Title:  c.Title,
			Grade:  c.Grade,
			Units:  c.Units,
			Points: c.Points,
			Score:  c.Score,
		})
	}
	return out
}
