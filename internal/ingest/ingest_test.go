package ingest

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftsense/api-gateway/internal/extract"
	"shiftsense/api-gateway/internal/scoring"
	"shiftsense/api-gateway/internal/shift"
	"shiftsense/api-gateway/internal/store"
	"shiftsense/api-gateway/internal/travel"
	"shiftsense/api-gateway/models"
)

type fakeStore struct {
	mu         sync.Mutex
	profile    *models.Profile
	profileErr error
	uploadErr  error
	insertErr  func(rec models.ShiftRecord) error

	uploads  map[uuid.UUID]models.UploadRecord
	statuses map[uuid.UUID][]models.UploadStatus
	shifts   []models.ShiftRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		uploads:  map[uuid.UUID]models.UploadRecord{},
		statuses: map[uuid.UUID][]models.UploadStatus{},
	}
}

func (f *fakeStore) GetProfile(_ context.Context, _ string) (models.Profile, error) {
	if f.profileErr != nil {
		return models.Profile{}, f.profileErr
	}
	if f.profile == nil {
		return models.Profile{}, store.ErrNotFound
	}
	return *f.profile, nil
}

func (f *fakeStore) CreateUpload(_ context.Context, rec models.UploadRecord) (models.UploadRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return models.UploadRecord{}, f.uploadErr
	}
	f.uploads[rec.ID] = rec
	f.statuses[rec.ID] = append(f.statuses[rec.ID], rec.Status)
	return rec, nil
}

func (f *fakeStore) SetUploadStatus(_ context.Context, id uuid.UUID, status models.UploadStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = append(f.statuses[id], status)
	return nil
}

func (f *fakeStore) InsertShift(_ context.Context, rec models.ShiftRecord) (models.ShiftRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		if err := f.insertErr(rec); err != nil {
			return models.ShiftRecord{}, err
		}
	}
	f.shifts = append(f.shifts, rec)
	return rec, nil
}

type fakeObjects struct {
	mu    sync.Mutex
	err   error
	paths []string
}

func (f *fakeObjects) Put(_ context.Context, path string, _ []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.paths = append(f.paths, path)
	return nil
}

// visionByImage answers with the fixture keyed by the image bytes.
type visionByImage map[string]string

func (v visionByImage) ReadImage(_ context.Context, image []byte, _ string) (string, error) {
	return v[string(image)], nil
}

type recordingScorer struct {
	mu      sync.Mutex
	inner   *scoring.Scorer
	origins []string
	dests   []string
	modes   []travel.Mode
}

func (s *recordingScorer) Score(ctx context.Context, origin, destination string, mode travel.Mode, rate, hours float64) (scoring.Result, error) {
	s.mu.Lock()
	s.origins = append(s.origins, origin)
	s.dests = append(s.dests, destination)
	s.modes = append(s.modes, mode)
	s.mu.Unlock()
	return s.inner.Score(ctx, origin, destination, mode, rate, hours)
}

type harness struct {
	store   *fakeStore
	objects *fakeObjects
	scorer  *recordingScorer
	ing     *Ingestor
}

func newHarness(t *testing.T, fixtures visionByImage) *harness {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)

	ex, err := extract.New(fixtures, extract.DefaultConfig(), l)
	require.NoError(t, err)

	h := &harness{
		store:   newFakeStore(),
		objects: &fakeObjects{},
		scorer:  &recordingScorer{inner: scoring.New(scoring.DefaultConfig(), nil, l)},
	}
	h.ing = New(h.store, h.objects, ex, h.scorer, DefaultConfig(), l)
	h.ing.now = func() time.Time { return time.UnixMilli(1767261600000) }
	return h
}

func image(name, key string) Image {
	return Image{Filename: name, ContentType: "image/png", Data: []byte(key)}
}

func TestIngest_ScenarioA_CompleteShift(t *testing.T) {
	h := newHarness(t, visionByImage{
		"a": `[{"hospital": "St Thomas", "ward": "ED", "date": "2026-03-01", "start": "09:00", "end": "17:00", "rate": 28, "status": "available"}]`,
	})

	res, err := h.ing.Ingest(context.Background(), Request{UserID: "user-1", Images: []Image{image("rota.png", "a")}, HomeLocation: "London"})
	require.NoError(t, err)
	require.False(t, res.NoShiftsFound())

	shifts := res.Shifts()
	require.Len(t, shifts, 1)
	s := shifts[0]
	assert.Equal(t, shift.StatusAvailable, s.Status)
	assert.Nil(t, s.ValidationError)
	assert.Equal(t, 224.0, s.TotalPay)
	assert.Equal(t, 24.72, s.ROIScore)
	assert.Equal(t, 30, s.TravelTimeMinutes)
	assert.Equal(t, 5.0, s.TravelDistanceKm)
	require.NotNil(t, s.PayRate)
	assert.Equal(t, 28.0, *s.PayRate)
	assert.Equal(t, "St Thomas", s.HospitalName)
	assert.Equal(t, "user-1", s.UserID)
	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.False(t, s.CreatedAt.IsZero())
	assert.Contains(t, s.RawText, `"hospital":"St Thomas"`)

	require.NotNil(t, s.UploadID)
	assert.Equal(t, []models.UploadStatus{models.UploadProcessing, models.UploadCompleted}, h.store.statuses[*s.UploadID])
	assert.Equal(t, []string{"London"}, h.scorer.origins)
	assert.Equal(t, []string{"St Thomas"}, h.scorer.dests)
}

func TestIngest_ScenarioB_UnknownRate(t *testing.T) {
	h := newHarness(t, visionByImage{
		"b": `[{"hospital": "Guys", "ward": "ITU", "date": "2026-03-02", "start": "08:00", "end": "20:00", "rate": "unknown", "status": "available"}]`,
	})

	res, err := h.ing.Ingest(context.Background(), Request{UserID: "user-1", Images: []Image{image("b.png", "b")}})
	require.NoError(t, err)

	shifts := res.Shifts()
	require.Len(t, shifts, 1)
	assert.Equal(t, shift.StatusIncomplete, shifts[0].Status)
	require.NotNil(t, shifts[0].ValidationError)
	assert.Equal(t, "Rate not detected", *shifts[0].ValidationError)
	assert.Zero(t, shifts[0].TotalPay)
	assert.Zero(t, shifts[0].ROIScore)
	assert.Nil(t, shifts[0].PayRate)
	assert.Empty(t, h.scorer.dests)
}

func TestIngest_ScenarioC_NoArray(t *testing.T) {
	h := newHarness(t, visionByImage{"c": "Sorry, I can't read this image."})

	res, err := h.ing.Ingest(context.Background(), Request{UserID: "user-1", Images: []Image{image("c.png", "c")}})
	require.NoError(t, err)

	assert.True(t, res.NoShiftsFound())
	assert.Empty(t, res.Shifts())
	assert.Empty(t, h.store.shifts)
	assert.Equal(t, []string{"Sorry, I can't read this image."}, res.RawOutputs())

	uploadID := res.Images[0].UploadID
	require.NotNil(t, uploadID)
	assert.Equal(t, []models.UploadStatus{models.UploadProcessing, models.UploadFailed}, h.store.statuses[*uploadID])
}

func TestIngest_ScenarioD_BookedUnknownRate(t *testing.T) {
	h := newHarness(t, visionByImage{
		"d": `[{"hospital": "Kings", "start": "19:00", "end": "07:00", "rate": "unknown", "status": "booked"}]`,
	})

	res, err := h.ing.Ingest(context.Background(), Request{UserID: "user-1", Images: []Image{image("d.png", "d")}})
	require.NoError(t, err)

	shifts := res.Shifts()
	require.Len(t, shifts, 1)
	assert.Equal(t, shift.StatusBooked, shifts[0].Status)
	assert.Nil(t, shifts[0].ValidationError)
	assert.Zero(t, shifts[0].TotalPay)
	assert.Equal(t, shift.Sentinel, shifts[0].WardName)
	assert.Equal(t, shift.Sentinel, shifts[0].ShiftDate)
}

func TestIngest_UnknownHospitalScoresAgainstDefaultDestination(t *testing.T) {
	h := newHarness(t, visionByImage{
		"x": `[{"hospital": "unknown", "start": "09:00", "end": "17:00", "rate": 30}]`,
	})

	res, err := h.ing.Ingest(context.Background(), Request{UserID: "user-1", Images: []Image{image("x.png", "x")}})
	require.NoError(t, err)
	require.Len(t, res.Shifts(), 1)
	assert.Equal(t, []string{"London"}, h.scorer.dests)
	assert.Equal(t, []string{"London, UK"}, h.scorer.origins)
	assert.Equal(t, shift.Sentinel, res.Shifts()[0].HospitalName)
}

func TestIngest_ProfileDrivesOrigin(t *testing.T) {
	fixture := `[{"hospital": "Guys", "start": "09:00", "end": "17:00", "rate": 30}]`
	home := "Croydon"

	t.Run("profile home and mode", func(t *testing.T) {
		h := newHarness(t, visionByImage{"p": fixture})
		h.store.profile = &models.Profile{ID: "user-1", HomeLocation: &home, TransportMode: models.TransportTransit}

		_, err := h.ing.Ingest(context.Background(), Request{UserID: "user-1", Images: []Image{image("p.png", "p")}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Croydon"}, h.scorer.origins)
		assert.Equal(t, []travel.Mode{travel.Transit}, h.scorer.modes)
	})

	t.Run("request overrides profile", func(t *testing.T) {
		h := newHarness(t, visionByImage{"p": fixture})
		h.store.profile = &models.Profile{ID: "user-1", HomeLocation: &home}

		_, err := h.ing.Ingest(context.Background(), Request{UserID: "user-1", Images: []Image{image("p.png", "p")}, HomeLocation: "Brixton"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Brixton"}, h.scorer.origins)
		assert.Equal(t, []travel.Mode{travel.Driving}, h.scorer.modes)
	})

	t.Run("profile lookup failure degrades", func(t *testing.T) {
		h := newHarness(t, visionByImage{"p": fixture})
		h.store.profileErr = errors.New("connection reset")

		res, err := h.ing.Ingest(context.Background(), Request{UserID: "user-1", Images: []Image{image("p.png", "p")}})
		require.NoError(t, err)
		assert.Len(t, res.Shifts(), 1)
		assert.Equal(t, []string{"London, UK"}, h.scorer.origins)
	})
}

func TestIngest_StorageFailureStillProcesses(t *testing.T) {
	h := newHarness(t, visionByImage{
		"s": `[{"hospital": "Guys", "start": "09:00", "end": "17:00", "rate": 30}]`,
	})
	h.objects.err = errors.New("bucket unavailable")

	res, err := h.ing.Ingest(context.Background(), Request{UserID: "user-1", Images: []Image{image("s.png", "s")}})
	require.NoError(t, err)

	require.Len(t, res.Shifts(), 1)
	assert.Nil(t, res.Shifts()[0].UploadID)
	assert.Empty(t, h.store.uploads)
}

func TestIngest_UploadRecordFailureLeavesNullUploadID(t *testing.T) {
	h := newHarness(t, visionByImage{
		"u": `[{"hospital": "Guys", "start": "09:00", "end": "17:00", "rate": 30}]`,
	})
	h.store.uploadErr = errors.New("permission denied for table uploads")

	res, err := h.ing.Ingest(context.Background(), Request{UserID: "user-1", Images: []Image{image("u.png", "u")}})
	require.NoError(t, err)
	require.Len(t, res.Shifts(), 1)
	assert.Nil(t, res.Shifts()[0].UploadID)
}

func TestIngest_PerShiftInsertFailureContinues(t *testing.T) {
	h := newHarness(t, visionByImage{
		"m": `[
		  {"hospital": "A", "start": "09:00", "end": "17:00", "rate": 30},
		  {"hospital": "B", "start": "09:00", "end": "17:00", "rate": 30},
		  {"hospital": "C", "start": "09:00", "end": "17:00", "rate": 30}
		]`,
	})
	h.store.insertErr = func(rec models.ShiftRecord) error {
		if rec.HospitalName == "B" {
			return errors.New("duplicate key value")
		}
		return nil
	}

	res, err := h.ing.Ingest(context.Background(), Request{UserID: "user-1", Images: []Image{image("m.png", "m")}})
	require.NoError(t, err)

	shifts := res.Shifts()
	require.Len(t, shifts, 2)
	assert.Equal(t, "A", shifts[0].HospitalName)
	assert.Equal(t, "C", shifts[1].HospitalName)

	errs := res.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Index)
	assert.Equal(t, "m.png", errs[0].File)
	assert.Contains(t, errs[0].Message, "duplicate key")
}

func TestIngest_MultipleImagesKeepOrder(t *testing.T) {
	fixtures := visionByImage{}
	var images []Image
	for _, k := range []string{"1", "2", "3", "4", "5", "6"} {
		fixtures[k] = `[{"hospital": "H` + k + `", "start": "09:00", "end": "17:00", "rate": 30},
		               {"hospital": "H` + k + `b", "start": "09:00", "end": "17:00", "rate": 30}]`
		images = append(images, image("shot "+k+".png", k))
	}
	fixtures["empty"] = "[]"
	images = append(images, image("empty.png", "empty"))

	h := newHarness(t, fixtures)
	res, err := h.ing.Ingest(context.Background(), Request{UserID: "user-1", Images: images})
	require.NoError(t, err)
	assert.False(t, res.NoShiftsFound())

	var names []string
	for _, s := range res.Shifts() {
		names = append(names, s.HospitalName)
	}
	assert.Equal(t, []string{"H1", "H1b", "H2", "H2b", "H3", "H3b", "H4", "H4b", "H5", "H5b", "H6", "H6b"}, names)
	assert.Equal(t, OutcomeNoShifts, res.Images[6].Outcome)

	outcomes := res.Outcomes()
	require.Len(t, outcomes, 7)
	assert.Equal(t, ImageOutcome{File: "shot 1.png", Outcome: OutcomeProcessed, Saved: 2}, outcomes[0])
	assert.Equal(t, ImageOutcome{File: "empty.png", Outcome: OutcomeNoShifts, Saved: 0}, outcomes[6])
	assert.Len(t, h.objects.paths, 7)
	for _, p := range h.objects.paths {
		assert.True(t, strings.HasPrefix(p, "user-1/1767261600000_"), p)
	}
}

func TestIngest_AllImagesEmpty(t *testing.T) {
	h := newHarness(t, visionByImage{"e1": "[]", "e2": "no shifts here"})

	res, err := h.ing.Ingest(context.Background(), Request{UserID: "user-1", Images: []Image{image("1.png", "e1"), image("2.png", "e2")}})
	require.NoError(t, err)
	assert.True(t, res.NoShiftsFound())
}

func TestIngest_InvalidRequest(t *testing.T) {
	h := newHarness(t, visionByImage{})

	_, err := h.ing.Ingest(context.Background(), Request{UserID: "", Images: []Image{image("a.png", "a")}})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = h.ing.Ingest(context.Background(), Request{UserID: "user-1"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestIngest_CancelledContext(t *testing.T) {
	h := newHarness(t, visionByImage{"a": `[{"hospital": "Guys"}]`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.ing.Ingest(ctx, Request{UserID: "user-1", Images: []Image{image("a.png", "a")}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, h.store.shifts)
}

func TestStoragePath(t *testing.T) {
	at := time.UnixMilli(1767261600123)
	assert.Equal(t, "user-1/1767261600123_my_rota_Dec.png", StoragePath("user-1", "my rota \t Dec.png", at))
	assert.Equal(t, "user-1/1767261600123_shift_list.jpg", StoragePath("user-1", "shift  list.jpg", at))
}
