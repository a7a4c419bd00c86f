// Package ingest runs the screenshot pipeline: store the image, extract
// candidate shifts, classify and score each one, and persist the results.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"shiftsense/api-gateway/internal/extract"
	"shiftsense/api-gateway/internal/scoring"
	"shiftsense/api-gateway/internal/shift"
	"shiftsense/api-gateway/internal/store"
	"shiftsense/api-gateway/internal/travel"
	"shiftsense/api-gateway/models"
)

// ErrInvalidRequest is returned when the user id or the images are missing.
var ErrInvalidRequest = errors.New("ingest: user id and at least one image are required")

// Store is the subset of the row store the pipeline writes to.
type Store interface {
	GetProfile(ctx context.Context, userID string) (models.Profile, error)
	CreateUpload(ctx context.Context, rec models.UploadRecord) (models.UploadRecord, error)
	SetUploadStatus(ctx context.Context, id uuid.UUID, status models.UploadStatus) error
	InsertShift(ctx context.Context, rec models.ShiftRecord) (models.ShiftRecord, error)
}

type ObjectStorage interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
}

type Extractor interface {
	Extract(ctx context.Context, image []byte) extract.Extraction
}

type Scorer interface {
	Score(ctx context.Context, origin, destination string, mode travel.Mode, hourlyRate, durationHours float64) (scoring.Result, error)
}

type Config struct {
	DefaultHomeLocation string `yaml:"default_home_location" validate:"required"`
	DefaultDestination  string `yaml:"default_destination" validate:"required"`
	MaxConcurrentImages int    `yaml:"max_concurrent_images" validate:"gte=1"`
}

func DefaultConfig() Config {
	return Config{
		DefaultHomeLocation: "London, UK",
		DefaultDestination:  "London",
		MaxConcurrentImages: 4,
	}
}

// Image is one uploaded file.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Request struct {
	UserID       string
	Images       []Image
	HomeLocation string // optional override of the profile's home
}

type Ingestor struct {
	store     Store
	objects   ObjectStorage
	extractor Extractor
	scorer    Scorer
	cfg       Config
	logger    logrus.FieldLogger
	now       func() time.Time
}

func New(st Store, objects ObjectStorage, extractor Extractor, scorer Scorer, cfg Config, logger logrus.FieldLogger) *Ingestor {
	if cfg.MaxConcurrentImages < 1 {
		cfg.MaxConcurrentImages = 1
	}
	return &Ingestor{
		store:     st,
		objects:   objects,
		extractor: extractor,
		scorer:    scorer,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Ingest processes every image of req. Images are independent and run
// concurrently; within an image the steps are strictly ordered. Partial work
// is kept when something fails. The returned error is only set when ctx ends
// before the work is done.
func (in *Ingestor) Ingest(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.UserID) == "" || len(req.Images) == 0 {
		return Result{}, ErrInvalidRequest
	}

	o := in.resolveOrigin(ctx, req)
	results := make([]ImageResult, len(req.Images))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.cfg.MaxConcurrentImages)
	for i, img := range req.Images {
		i, img := i, img
		g.Go(func() error {
			var err error
			results[i], err = in.processImage(gctx, req.UserID, img, o)
			return err
		})
	}

	err := g.Wait()
	return Result{Images: results}, err
}

type origin struct {
	home string
	mode travel.Mode
}

// resolveOrigin picks the home location (request, then profile, then the
// configured default) and the profile's transport mode. A failed profile
// lookup only degrades to the defaults.
func (in *Ingestor) resolveOrigin(ctx context.Context, req Request) origin {
	o := origin{home: strings.TrimSpace(req.HomeLocation), mode: travel.Driving}

	p, err := in.store.GetProfile(ctx, req.UserID)
	switch {
	case err == nil:
		if o.home == "" && p.HomeLocation != nil {
			o.home = strings.TrimSpace(*p.HomeLocation)
		}
		o.mode = travel.ParseMode(string(p.TransportMode))
	case errors.Is(err, store.ErrNotFound):
		in.logger.WithField("user_id", req.UserID).Debug("no profile, using default origin")
	default:
		in.logger.WithField("user_id", req.UserID).WithError(err).Warn("profile lookup failed, using default origin")
	}

	if o.home == "" {
		o.home = in.cfg.DefaultHomeLocation
	}
	return o
}

func (in *Ingestor) processImage(ctx context.Context, userID string, img Image, o origin) (ImageResult, error) {
	res := ImageResult{Filename: img.Filename}
	log := in.logger.WithFields(logrus.Fields{"user_id": userID, "file": img.Filename})

	if err := ctx.Err(); err != nil {
		return res, err
	}

	res.UploadID = in.storeImage(ctx, userID, img, log)

	ext := in.extractor.Extract(ctx, img.Data)
	res.RawOutput = ext.Raw
	if err := ctx.Err(); err != nil {
		return res, err
	}

	if len(ext.Candidates) == 0 {
		res.Outcome = OutcomeNoShifts
		in.markUpload(ctx, res.UploadID, models.UploadFailed, log)
		log.Warn("no shifts found in image")
		return res, nil
	}
	res.Outcome = OutcomeProcessed
	in.markUpload(ctx, res.UploadID, models.UploadCompleted, log)

	for i, c := range ext.Candidates {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		rec := in.buildRecord(ctx, userID, res.UploadID, c, o, log)
		saved, err := in.store.InsertShift(ctx, rec)
		if err != nil {
			log.WithError(err).WithField("index", i).Error("failed to save shift")
			res.Errors = append(res.Errors, ItemError{File: img.Filename, Index: i, Message: err.Error()})
			continue
		}
		res.Shifts = append(res.Shifts, saved)
	}

	log.WithFields(logrus.Fields{
		"candidates": len(ext.Candidates),
		"saved":      len(res.Shifts),
	}).Info("image processed")
	return res, nil
}

// storeImage writes the bytes and opens an upload record. It returns nil
// when either step fails; both failures are logged and tolerated.
func (in *Ingestor) storeImage(ctx context.Context, userID string, img Image, log logrus.FieldLogger) *uuid.UUID {
	path := StoragePath(userID, img.Filename, in.now())
	contentType := img.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(img.Data)
	}

	if err := in.objects.Put(ctx, path, img.Data, contentType); err != nil {
		log.WithError(err).WithField("path", path).Error("storage upload failed")
		return nil
	}

	filename := img.Filename
	up, err := in.store.CreateUpload(ctx, models.UploadRecord{
		ID:               uuid.New(),
		UserID:           userID,
		FilePath:         path,
		OriginalFilename: &filename,
		Status:           models.UploadProcessing,
		CreatedAt:        in.now().UTC(),
	})
	if err != nil {
		log.WithError(err).WithField("path", path).Error("failed to create upload record")
		return nil
	}
	return &up.ID
}

func (in *Ingestor) markUpload(ctx context.Context, id *uuid.UUID, status models.UploadStatus, log logrus.FieldLogger) {
	if id == nil {
		return
	}
	if err := in.store.SetUploadStatus(ctx, *id, status); err != nil {
		log.WithError(err).WithField("upload_id", id.String()).Warn("failed to update upload status")
	}
}

func (in *Ingestor) buildRecord(ctx context.Context, userID string, uploadID *uuid.UUID, c shift.Candidate, o origin, log logrus.FieldLogger) models.ShiftRecord {
	cls := shift.Normalize(c)

	var score scoring.Result
	if cls.Scorable {
		dest, ok := c.HospitalName.Get()
		if !ok {
			dest = in.cfg.DefaultDestination
		}
		rate, _ := c.PayRate.Get()

		var err error
		score, err = in.scorer.Score(ctx, o.home, dest, o.mode, rate, cls.DurationHours)
		if err != nil {
			log.WithError(err).Warn("scoring failed, saving shift unscored")
			score = scoring.Result{}
		}
	}

	rec := models.ShiftRecord{
		ID:                uuid.New(),
		UserID:            userID,
		UploadID:          uploadID,
		HospitalName:      c.HospitalName.String(),
		WardName:          c.WardName.String(),
		ShiftDate:         c.ShiftDate.String(),
		StartTime:         c.StartTime.String(),
		EndTime:           c.EndTime.String(),
		TotalPay:          score.TotalPay,
		TravelTimeMinutes: score.TravelTimeMinutes,
		TravelDistanceKm:  score.TravelDistanceKm,
		ROIScore:          score.ROIScore,
		RawText:           c.Raw,
		Status:            cls.Status,
		CreatedAt:         in.now().UTC(),
	}
	if rate, ok := c.PayRate.Get(); ok {
		rec.PayRate = &rate
	}
	if cls.ValidationError != "" {
		reason := cls.ValidationError
		rec.ValidationError = &reason
	}
	return rec
}

var whitespace = regexp.MustCompile(`\s+`)

// StoragePath is where an image is stored: <userId>/<unixMillis>_<filename>,
// with each whitespace run in the filename replaced by an underscore.
func StoragePath(userID, filename string, at time.Time) string {
	return fmt.Sprintf("%s/%d_%s", userID, at.UnixMilli(), whitespace.ReplaceAllString(filename, "_"))
}
