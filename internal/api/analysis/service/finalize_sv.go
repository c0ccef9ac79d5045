package analysisService

import (
	"UBASAnthropometry/internal/anthropometry"
	"UBASAnthropometry/internal/api/analysis"
	"UBASAnthropometry/internal/entity"
	contextPkg "UBASAnthropometry/pkg/context"
	"UBASAnthropometry/pkg/s3"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"time"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// finalize assigns an identity to a scored analysis, narrates it, stores the
// printable report and persists the record.
func (s *analysisService) finalize(ctx context.Context, a entity.Analysis) (analysis.AnalysisResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return analysis.AnalysisResponse{}, err
	}
	a.ID = id
	a.CreatedAt = time.Now().UTC()
	if a.QC.Reasons == nil {
		a.QC.Reasons = []string{}
	}

	a.Summary = s.summarize(ctx, a)
	a.ReportLocation = s.storeReport(ctx, a)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return analysis.AnalysisResponse{}, err
	}

	if err := repo.Analysis.CreateAnalysis(ctx, a); err != nil {
		if a.ReportLocation != "" {
			if delErr := s.s3.DeleteFile(a.ReportLocation); delErr != nil {
				s.log.WithFields(logrus.Fields{
					"request_id": requestID,
					"error":      delErr.Error(),
				}).Warn("Failed to remove orphaned report")
			}
		}
		return analysis.AnalysisResponse{}, err
	}

	s.cache(ctx, a)

	return analysis.NewAnalysisResponse(a, s.presign(ctx, a.ReportLocation)), nil
}

func (s *analysisService) storeReport(ctx context.Context, a entity.Analysis) string {
	if s.report == nil || s.s3 == nil {
		return ""
	}
	requestID := contextPkg.GetRequestID(ctx)

	pdf, err := s.report.Render(a, anthropometry.ReportSummary(a.Score, a.Post.Front, a.ScaleMMPerPxPost))
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to render report")
		return ""
	}

	location, err := s.s3.UploadBytes(s3.ReportKey(a.ID), pdf, "application/pdf")
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to upload report")
		return ""
	}

	return location
}

func (s *analysisService) presign(ctx context.Context, location string) string {
	if location == "" || s.s3 == nil {
		return ""
	}

	url, err := s.s3.PresignUrl(location)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Failed to presign report url")
		return ""
	}
	return url
}

func (s *analysisService) cache(ctx context.Context, a entity.Analysis) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(a)
	if err != nil {
		return
	}
	if err := s.redis.SetAnalysis(ctx, a.ID, payload, s.opts.CacheTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":  contextPkg.GetRequestID(ctx),
			"analysis_id": a.ID,
			"error":       err.Error(),
		}).Warn("Failed to cache analysis")
	}
}
