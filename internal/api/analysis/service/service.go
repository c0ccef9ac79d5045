package analysisService

import (
	"UBASAnthropometry/internal/anthropometry"
	"UBASAnthropometry/internal/api/analysis"
	analysisRepository "UBASAnthropometry/internal/api/analysis/repository"
	"UBASAnthropometry/internal/entity"
	"UBASAnthropometry/pkg/gemini"
	"UBASAnthropometry/pkg/landmark"
	"UBASAnthropometry/pkg/redis"
	"UBASAnthropometry/pkg/report"
	"UBASAnthropometry/pkg/s3"
	"UBASAnthropometry/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"time"
)

type IAnalysisService interface {
	AnalyzeMulti(ctx context.Context, userID string, req analysis.MultiAnalysisRequest, images analysis.CaptureImages) (analysis.AnalysisResponse, error)
	AnalyzeLandmarks(ctx context.Context, userID string, req analysis.LandmarkAnalysisRequest) (analysis.AnalysisResponse, error)
	GetAnalysisByID(ctx context.Context, userID string, id string) (analysis.AnalysisResponse, error)
	GetAnalysesByUserID(ctx context.Context, userID string) ([]analysis.AnalysisListItem, error)
	GetReportURL(ctx context.Context, userID string, id string) (string, error)
	CheckFrame(ctx context.Context, frame []byte) (entity.QCResult, error)
}

// Options tune the analysis flow.
type Options struct {
	// UsePreopBaseline scores brow changes against the pre-op capture.
	UsePreopBaseline bool
	CacheTTL         time.Duration
}

// Dependencies groups the collaborators of the analysis service. Gemini,
// S3, Redis and Report may be nil, in which case the matching step is skipped.
type Dependencies struct {
	Repository analysisRepository.Repository
	Engine     *anthropometry.Engine
	Landmark   landmark.ILandmark
	Gemini     gemini.IGemini
	S3         s3.ItfS3
	Redis      redis.IRedis
	Report     report.IReport
	Utils      utils.IUtils
}

type analysisService struct {
	log      *logrus.Logger
	repo     analysisRepository.Repository
	engine   *anthropometry.Engine
	landmark landmark.ILandmark
	gemini   gemini.IGemini
	s3       s3.ItfS3
	redis    redis.IRedis
	report   report.IReport
	utils    utils.IUtils
	opts     Options
}

func NewAnalysisService(log *logrus.Logger, deps Dependencies, opts Options) IAnalysisService {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}

	return &analysisService{
		log:      log,
		repo:     deps.Repository,
		engine:   deps.Engine,
		landmark: deps.Landmark,
		gemini:   deps.Gemini,
		s3:       deps.S3,
		redis:    deps.Redis,
		report:   deps.Report,
		utils:    deps.Utils,
		opts:     opts,
	}
}
