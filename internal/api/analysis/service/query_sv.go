package analysisService

import (
	"UBASAnthropometry/internal/api/analysis"
	"UBASAnthropometry/internal/entity"
	contextPkg "UBASAnthropometry/pkg/context"
	"UBASAnthropometry/pkg/redis"
	"errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *analysisService) GetAnalysisByID(ctx context.Context, userID string, id string) (analysis.AnalysisResponse, error) {
	a, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return analysis.AnalysisResponse{}, err
	}
	return analysis.NewAnalysisResponse(a, ""), nil
}

func (s *analysisService) GetAnalysesByUserID(ctx context.Context, userID string) ([]analysis.AnalysisListItem, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return nil, err
	}

	analyses, err := repo.Analysis.GetAnalysesByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]analysis.AnalysisListItem, 0, len(analyses))
	for _, a := range analyses {
		items = append(items, analysis.NewAnalysisListItem(a))
	}
	return items, nil
}

func (s *analysisService) GetReportURL(ctx context.Context, userID string, id string) (string, error) {
	a, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return "", err
	}

	if a.ReportLocation == "" || s.s3 == nil {
		return "", analysis.ErrReportNotFound
	}

	url, err := s.s3.PresignUrl(a.ReportLocation)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":  contextPkg.GetRequestID(ctx),
			"analysis_id": id,
			"error":       err.Error(),
		}).Error("Failed to presign report url")
		return "", analysis.ErrReportNotFound
	}
	return url, nil
}

// loadOwned reads an analysis through the cache and checks it belongs to userID.
func (s *analysisService) loadOwned(ctx context.Context, userID string, id string) (entity.Analysis, error) {
	requestID := contextPkg.GetRequestID(ctx)

	a, ok := s.cached(ctx, id)
	if !ok {
		repo, err := s.repo.NewClient(false)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to create new client")
			return entity.Analysis{}, err
		}

		a, err = repo.Analysis.GetAnalysisByID(ctx, id)
		if err != nil {
			return entity.Analysis{}, err
		}
		s.cache(ctx, a)
	}

	if a.UserID != userID {
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"analysis_id": id,
			"user_id":     userID,
		}).Warn("Analysis does not belong to user")
		return entity.Analysis{}, analysis.ErrAnalysisNotOwned
	}

	return a, nil
}

func (s *analysisService) cached(ctx context.Context, id string) (entity.Analysis, bool) {
	if s.redis == nil {
		return entity.Analysis{}, false
	}

	payload, err := s.redis.GetAnalysis(ctx, id)
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.log.WithFields(logrus.Fields{
				"request_id":  contextPkg.GetRequestID(ctx),
				"analysis_id": id,
				"error":       err.Error(),
			}).Warn("Analysis cache unavailable")
		}
		return entity.Analysis{}, false
	}

	var a entity.Analysis
	if err := json.Unmarshal(payload, &a); err != nil {
		return entity.Analysis{}, false
	}
	return a, true
}
