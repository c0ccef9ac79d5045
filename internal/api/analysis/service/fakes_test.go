package analysisService

import (
	"UBASAnthropometry/internal/anthropometry"
	analysisRepository "UBASAnthropometry/internal/api/analysis/repository"
	"UBASAnthropometry/internal/entity"
	"UBASAnthropometry/pkg/redis"
	"UBASAnthropometry/pkg/utils"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func eye() entity.LandmarkSet {
	return entity.LandmarkSet{
		UpperLid:       entity.Polyline{{X: 80, Y: 92}, {X: 100, Y: 90}, {X: 120, Y: 92}},
		LowerLid:       entity.Polyline{{X: 80, Y: 104}, {X: 100, Y: 105}, {X: 120, Y: 104}},
		LashLine:       entity.Polyline{{X: 88, Y: 96}, {X: 100, Y: 95}, {X: 116, Y: 94}},
		CreaseLine:     entity.Polyline{{X: 88, Y: 90}, {X: 100, Y: 92}, {X: 116, Y: 93}},
		BrowCurve:      entity.Polyline{{X: 70, Y: 72}, {X: 100, Y: 70}, {X: 130, Y: 73}},
		MedialCanthus:  entity.Point{X: 60, Y: 100},
		LateralCanthus: entity.Point{X: 140, Y: 100},
		IrisCenter:     entity.Point{X: 100, Y: 100},
		IrisRadius:     10,
	}
}

func side() entity.SideFeatures {
	return entity.SideFeatures{
		SkinAboveCrease: entity.Polyline{{X: 0, Y: 8}, {X: 1, Y: 6}, {X: 2, Y: 8}},
		CreaseLine:      entity.Polyline{{X: 0, Y: 10}, {X: 1, Y: 10}, {X: 2, Y: 10}},
		LashLine:        entity.Polyline{{X: 0, Y: 0}, {X: 10, Y: 0}},
		CornealApex:     entity.Point{X: 4, Y: 10},
		IrisRadius:      2,
	}
}

// fakeLandmark answers by image content so tests can route pre/post captures.
type fakeLandmark struct {
	front map[string]*entity.FrontExtraction
	side  map[string]*entity.SideExtraction
	err   error
	calls int
}

func (f *fakeLandmark) ExtractFront(_ context.Context, image []byte) (*entity.FrontExtraction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	ex, ok := f.front[string(image)]
	if !ok {
		return &entity.FrontExtraction{FaceFound: false, Resolution: entity.Resolution{Width: 640, Height: 640}}, nil
	}
	copied := *ex
	return &copied, nil
}

func (f *fakeLandmark) ExtractSide(_ context.Context, image []byte) (*entity.SideExtraction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	ex, ok := f.side[string(image)]
	if !ok {
		return &entity.SideExtraction{FaceFound: false, Resolution: entity.Resolution{Width: 640, Height: 640}}, nil
	}
	copied := *ex
	return &copied, nil
}

func (f *fakeLandmark) IsConnected() bool { return true }
func (f *fakeLandmark) Reconnect() error  { return nil }
func (f *fakeLandmark) Close()            {}

func frontOf(lm entity.LandmarkSet, w, h int, roll float64) *entity.FrontExtraction {
	return &entity.FrontExtraction{
		FaceFound:   true,
		Left:        &lm,
		FaceRollDeg: roll,
		Resolution:  entity.Resolution{Width: w, Height: h},
	}
}

type fakeStore struct {
	mu        sync.Mutex
	byID      map[string]entity.Analysis
	createErr error
	reads     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: map[string]entity.Analysis{}}
}

func (f *fakeStore) CreateAnalysis(_ context.Context, a entity.Analysis) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[a.ID] = a
	return nil
}

func (f *fakeStore) GetAnalysisByID(_ context.Context, id string) (entity.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	a, ok := f.byID[id]
	if !ok {
		return entity.Analysis{}, errNotFound
	}
	return a, nil
}

func (f *fakeStore) GetAnalysesByUserID(_ context.Context, userID string) ([]entity.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Analysis
	for _, a := range f.byID {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

var errNotFound = errors.New("not found")

type fakeRepository struct {
	store *fakeStore
}

func (r fakeRepository) NewClient(bool) (analysisRepository.Client, error) {
	return analysisRepository.Client{
		Analysis: r.store,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

type fakeS3 struct {
	uploaded map[string][]byte
	deleted  []string
}

func (f *fakeS3) UploadBytes(key string, data []byte, _ string) (string, error) {
	if f.uploaded == nil {
		f.uploaded = map[string][]byte{}
	}
	f.uploaded[key] = data
	return "https://bucket.s3.amazonaws.com/" + key, nil
}

func (f *fakeS3) PresignUrl(fileUrl string) (string, error) {
	return fileUrl + "?signed=1", nil
}

func (f *fakeS3) DeleteFile(fileUrl string) error {
	f.deleted = append(f.deleted, fileUrl)
	return nil
}

type fakeRedis struct {
	items map[string][]byte
}

func (f *fakeRedis) SetAnalysis(_ context.Context, id string, payload []byte, _ time.Duration) error {
	if f.items == nil {
		f.items = map[string][]byte{}
	}
	f.items[id] = payload
	return nil
}

func (f *fakeRedis) GetAnalysis(_ context.Context, id string) ([]byte, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, redis.ErrCacheMiss
	}
	return p, nil
}

func (f *fakeRedis) Close() error { return nil }

type fakeReport struct{}

func (fakeReport) Render(entity.Analysis, []entity.ReportEntry) ([]byte, error) {
	return []byte("%PDF-1.3 fake"), nil
}

type fakeGemini struct {
	text string
	err  error
}

func (f fakeGemini) Summarize(context.Context, string) (string, error) {
	return f.text, f.err
}

func (fakeGemini) Close() {}

type harness struct {
	svc      IAnalysisService
	landmark *fakeLandmark
	store    *fakeStore
	s3       *fakeS3
	redis    *fakeRedis
}

func newHarness(opts Options, gem *fakeGemini) *harness {
	h := &harness{
		landmark: &fakeLandmark{
			front: map[string]*entity.FrontExtraction{},
			side:  map[string]*entity.SideExtraction{},
		},
		store: newFakeStore(),
		s3:    &fakeS3{},
		redis: &fakeRedis{},
	}

	deps := Dependencies{
		Repository: fakeRepository{store: h.store},
		Engine:     anthropometry.New(anthropometry.DefaultConfig()),
		Landmark:   h.landmark,
		S3:         h.s3,
		Redis:      h.redis,
		Report:     fakeReport{},
		Utils:      utils.New(),
	}
	if gem != nil {
		deps.Gemini = *gem
	}

	h.svc = NewAnalysisService(testLogger(), deps, opts)
	return h
}
