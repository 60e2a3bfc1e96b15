package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise-api/internal/dto"
	"github.com/wastewise/wastewise-api/internal/models"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
)

type fakeReportRepo struct {
	reports map[string]models.WasteReport
	media   map[string]models.WasteReportMedia

	createdMedia   [][]models.WasteReportMedia
	assignments    []string
	assignedNotifs []models.Notification
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{
		reports: make(map[string]models.WasteReport),
		media:   make(map[string]models.WasteReportMedia),
	}
}

func (f *fakeReportRepo) Create(ctx context.Context, report *models.WasteReport, media []models.WasteReportMedia) error {
	f.reports[report.ID] = *report
	f.createdMedia = append(f.createdMedia, media)
	for _, m := range media {
		f.media[m.ID] = m
	}
	return nil
}

func (f *fakeReportRepo) FindByID(ctx context.Context, id string) (*models.WasteReport, error) {
	if r, ok := f.reports[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeReportRepo) List(ctx context.Context, filter models.ReportFilter) ([]models.WasteReport, int, error) {
	var result []models.WasteReport
	for _, r := range f.reports {
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		result = append(result, r)
	}
	return result, len(result), nil
}

func (f *fakeReportRepo) Update(ctx context.Context, report *models.WasteReport) error {
	if _, ok := f.reports[report.ID]; !ok {
		return sql.ErrNoRows
	}
	f.reports[report.ID] = *report
	return nil
}

func (f *fakeReportRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.reports[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.reports, id)
	return nil
}

func (f *fakeReportRepo) AssignTeam(ctx context.Context, reportID, teamID string, notification *models.Notification) error {
	r, ok := f.reports[reportID]
	if !ok {
		return sql.ErrNoRows
	}
	r.AssignedTeamID = &teamID
	r.Status = models.ReportInProgress
	f.reports[reportID] = r
	f.assignments = append(f.assignments, reportID)
	f.assignedNotifs = append(f.assignedNotifs, *notification)
	return nil
}

func (f *fakeReportRepo) FindMediaByID(ctx context.Context, id string) (*models.WasteReportMedia, error) {
	if m, ok := f.media[id]; ok {
		return &m, nil
	}
	return nil, sql.ErrNoRows
}

type fakeTeamFinder struct {
	teams map[string]models.CleanupTeam
}

func (f *fakeTeamFinder) FindByID(ctx context.Context, id string) (*models.CleanupTeam, error) {
	if t, ok := f.teams[id]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

type fakeMediaStore struct {
	saved   map[string][]byte
	removed []string

	// failAfter fails the save once this many files are already stored.
	failAfter int
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{saved: make(map[string][]byte), failAfter: -1}
}

func (f *fakeMediaStore) Save(filename string, data []byte) (string, error) {
	if f.failAfter >= 0 && len(f.saved) >= f.failAfter {
		return "", assert.AnError
	}
	f.saved[filename] = data
	return filename, nil
}

func (f *fakeMediaStore) Remove(filename string) error {
	f.removed = append(f.removed, filename)
	delete(f.saved, filename)
	return nil
}

func newReportServiceForTest(repo *fakeReportRepo, teams *fakeTeamFinder, notifier *fakeNotifier, store *fakeMediaStore, cache *fakeInvalidator) *ReportService {
	if teams == nil {
		teams = &fakeTeamFinder{teams: map[string]models.CleanupTeam{}}
	}
	if cache == nil {
		cache = &fakeInvalidator{}
	}
	return NewReportService(repo, teams, notifier, store, cache, nil, nil)
}

func validCreateReport() dto.CreateReportRequest {
	return dto.CreateReportRequest{
		Title:       "Overflowing bins",
		Description: "Bins on the corner have not been emptied",
		WasteType:   "organic",
		Quantity:    4,
		Latitude:    -6.2,
		Longitude:   106.8,
		Address:     "12 Riverside Road",
	}
}

func TestCreateReportClassifiesMedia(t *testing.T) {
	repo := newFakeReportRepo()
	store := newFakeMediaStore()
	notifier := &fakeNotifier{}
	svc := newReportServiceForTest(repo, nil, notifier, store, nil)

	files := []dto.UploadedFile{
		{Filename: "scene.jpg", ContentType: "image/jpeg", Data: []byte("jpg")},
		{Filename: "clip.mp4", ContentType: "video/mp4", Data: []byte("mp4")},
		{Filename: "unknown.bin", ContentType: "application/octet-stream", Data: []byte("bin")},
	}
	report, err := svc.Create(context.Background(), userClaims("user-1"), validCreateReport(), files)

	require.NoError(t, err)
	require.Len(t, report.Media, 3)
	assert.Equal(t, models.MediaImage, report.Media[0].MediaType)
	assert.Equal(t, models.MediaVideo, report.Media[1].MediaType)
	assert.Equal(t, models.MediaImage, report.Media[2].MediaType, "unrecognised content types default to image")
	assert.Len(t, store.saved, 3)

	require.Len(t, notifier.created, 1)
	assert.Equal(t, models.NotifyWasteReport, notifier.created[0].Type)
	require.NotNil(t, notifier.created[0].ReferenceID)
	assert.Equal(t, report.ID, *notifier.created[0].ReferenceID)
}

func TestCreateReportCleansUpOnStorageFailure(t *testing.T) {
	repo := newFakeReportRepo()
	store := newFakeMediaStore()
	store.failAfter = 1
	svc := newReportServiceForTest(repo, nil, &fakeNotifier{}, store, nil)

	files := []dto.UploadedFile{
		{Filename: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")},
		{Filename: "b.jpg", ContentType: "image/jpeg", Data: []byte("b")},
	}
	_, err := svc.Create(context.Background(), userClaims("user-1"), validCreateReport(), files)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
	require.Len(t, store.removed, 1, "the already stored attachment should be cleaned up")
	assert.Empty(t, repo.reports, "no report row should exist after a failed upload")
}

func TestAssignTeamForbiddenForNonStaff(t *testing.T) {
	repo := newFakeReportRepo()
	repo.reports["rep-1"] = models.WasteReport{ID: "rep-1", UserID: "user-1", Status: models.ReportPending}
	svc := newReportServiceForTest(repo, nil, &fakeNotifier{}, nil, nil)

	err := svc.AssignTeam(context.Background(), userClaims("user-1"), "rep-1", dto.AssignTeamRequest{TeamID: "team-1"})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Empty(t, repo.assignments)
	assert.Equal(t, models.ReportPending, repo.reports["rep-1"].Status)
}

func TestAssignTeamUnknownTeam(t *testing.T) {
	repo := newFakeReportRepo()
	repo.reports["rep-1"] = models.WasteReport{ID: "rep-1", UserID: "user-1", Status: models.ReportPending}
	svc := newReportServiceForTest(repo, nil, &fakeNotifier{}, nil, nil)

	err := svc.AssignTeam(context.Background(), staffClaims(), "rep-1", dto.AssignTeamRequest{TeamID: "missing"})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, models.ReportPending, repo.reports["rep-1"].Status)
}

func TestAssignTeamMovesReportAndNotifiesOwner(t *testing.T) {
	repo := newFakeReportRepo()
	repo.reports["rep-1"] = models.WasteReport{ID: "rep-1", UserID: "user-1", Title: "Overflowing bins", Status: models.ReportPending}
	teams := &fakeTeamFinder{teams: map[string]models.CleanupTeam{
		"team-1": {ID: "team-1", Name: "North Crew", IsActive: true},
	}}
	cache := &fakeInvalidator{}
	svc := newReportServiceForTest(repo, teams, &fakeNotifier{}, nil, cache)

	err := svc.AssignTeam(context.Background(), staffClaims(), "rep-1", dto.AssignTeamRequest{TeamID: "team-1"})

	require.NoError(t, err)
	updated := repo.reports["rep-1"]
	assert.Equal(t, models.ReportInProgress, updated.Status)
	require.NotNil(t, updated.AssignedTeamID)
	assert.Equal(t, "team-1", *updated.AssignedTeamID)

	require.Len(t, repo.assignedNotifs, 1, "exactly one notification rides the assignment transaction")
	notif := repo.assignedNotifs[0]
	assert.Equal(t, "user-1", notif.UserID)
	assert.Equal(t, models.NotifyStatusUpdate, notif.Type)
	require.NotNil(t, notif.ReferenceID)
	assert.Equal(t, "rep-1", *notif.ReferenceID)

	assert.Contains(t, cache.userIDs, "user-1")
	assert.Equal(t, 1, cache.adminCalls)
}

func TestGetReportOwnership(t *testing.T) {
	repo := newFakeReportRepo()
	repo.reports["rep-1"] = models.WasteReport{ID: "rep-1", UserID: "user-2"}
	svc := newReportServiceForTest(repo, nil, &fakeNotifier{}, nil, nil)

	_, err := svc.Get(context.Background(), userClaims("user-1"), "rep-1")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	got, err := svc.Get(context.Background(), staffClaims(), "rep-1")
	require.NoError(t, err)
	assert.Equal(t, "rep-1", got.ID)
}

func TestListReportsScopesNonStaff(t *testing.T) {
	repo := newFakeReportRepo()
	repo.reports["rep-1"] = models.WasteReport{ID: "rep-1", UserID: "user-1"}
	repo.reports["rep-2"] = models.WasteReport{ID: "rep-2", UserID: "user-2"}
	svc := newReportServiceForTest(repo, nil, &fakeNotifier{}, nil, nil)

	reports, pagination, err := svc.List(context.Background(), userClaims("user-1"), models.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "user-1", reports[0].UserID)
	assert.Equal(t, 1, pagination.TotalCount)

	all, _, err := svc.List(context.Background(), staffClaims(), models.ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteReportRemovesAttachments(t *testing.T) {
	repo := newFakeReportRepo()
	repo.reports["rep-1"] = models.WasteReport{
		ID: "rep-1", UserID: "user-1",
		Media: []models.WasteReportMedia{{ID: "m1", ReportID: "rep-1", FilePath: "reports/rep-1/a.jpg"}},
	}
	store := newFakeMediaStore()
	store.saved["reports/rep-1/a.jpg"] = []byte("a")
	svc := newReportServiceForTest(repo, nil, &fakeNotifier{}, store, nil)

	err := svc.Delete(context.Background(), userClaims("user-1"), "rep-1")

	require.NoError(t, err)
	assert.Contains(t, store.removed, "reports/rep-1/a.jpg")
	assert.NotContains(t, repo.reports, "rep-1")
}

func TestTrackingHistoryTimeline(t *testing.T) {
	created := time.Now().UTC().Add(-72 * time.Hour)
	repo := newFakeReportRepo()
	repo.reports["rep-1"] = models.WasteReport{
		ID: "rep-1", UserID: "user-1", WasteType: models.WastePlastic,
		Status: models.ReportInProgress, CreatedAt: created, UpdatedAt: created.Add(time.Hour),
	}
	svc := newReportServiceForTest(repo, nil, &fakeNotifier{}, nil, nil)

	ref := "rep-1"
	events := []models.Notification{
		{Title: "Report Status Update", Message: "Cleanup team assigned", Type: models.NotifyStatusUpdate, ReferenceID: &ref, CreatedAt: created.Add(time.Hour)},
	}
	history, err := svc.TrackingHistory(context.Background(), userClaims("user-1"), "rep-1", events)

	require.NoError(t, err)
	require.Len(t, history.Timeline, 2)
	assert.Equal(t, "Report submitted", history.Timeline[0].Event)
	assert.Equal(t, "Report Status Update", history.Timeline[1].Event)
	assert.Equal(t, 3, history.DaysSinceCreation)
	assert.Equal(t, models.ReportInProgress, history.CurrentStatus)
}
