package analysisRepository

import (
	"UBASAnthropometry/internal/api/analysis"
	"UBASAnthropometry/internal/entity"
	contextPkg "UBASAnthropometry/pkg/context"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type AnalysisDB struct {
	ID               string          `db:"id"`
	UserID           string          `db:"user_id"`
	QC               []byte          `db:"qc"`
	PreMetrics       []byte          `db:"pre_metrics"`
	PostMetrics      []byte          `db:"post_metrics"`
	UBAS             []byte          `db:"ubas"`
	ScaleMMPerPxPost sql.NullFloat64 `db:"scale_mm_per_px_post"`
	CalibrationMode  sql.NullString  `db:"calibration_mode"`
	AISummary        sql.NullString  `db:"ai_summary"`
	ReportLocation   sql.NullString  `db:"report_location"`
	CreatedAt        time.Time       `db:"created_at"`
}

func (r *analysisRepository) CreateAnalysis(c context.Context, a entity.Analysis) error {
	requestID := contextPkg.GetRequestID(c)

	argsKV, err := makeAnalysisArgs(a)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to encode analysis columns")
		return err
	}

	query, args, err := sqlx.Named(queryCreateAnalysis, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateAnalysis")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating analysis")
		return err
	}

	return nil
}

func (r *analysisRepository) GetAnalysisByID(c context.Context, id string) (entity.Analysis, error) {
	requestID := contextPkg.GetRequestID(c)
	var row AnalysisDB

	query, args, err := sqlx.Named(queryGetAnalysisByID, map[string]interface{}{
		"id": id,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAnalysisByID named query preparation err")
		return entity.Analysis{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id":  requestID,
				"analysis_id": id,
			}).Warn("GetAnalysisByID no rows found")
			return entity.Analysis{}, analysis.ErrAnalysisNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAnalysisByID execution err")
		return entity.Analysis{}, err
	}

	return makeAnalysis(row)
}

func (r *analysisRepository) GetAnalysesByUserID(c context.Context, userID string) ([]entity.Analysis, error) {
	requestID := contextPkg.GetRequestID(c)
	var rows []AnalysisDB

	query, args, err := sqlx.Named(queryGetAnalysesByUserID, map[string]interface{}{
		"user_id": userID,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAnalysesByUserID named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(c, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAnalysesByUserID execution err")
		return nil, err
	}

	analyses := make([]entity.Analysis, 0, len(rows))
	for _, row := range rows {
		a, err := makeAnalysis(row)
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id":  requestID,
				"analysis_id": row.ID,
				"error":       err.Error(),
			}).Error("GetAnalysesByUserID decode err")
			return nil, err
		}
		analyses = append(analyses, a)
	}

	return analyses, nil
}

func makeAnalysisArgs(a entity.Analysis) (map[string]interface{}, error) {
	qc, err := json.Marshal(a.QC)
	if err != nil {
		return nil, fmt.Errorf("qc: %w", err)
	}
	pre, err := json.Marshal(a.Pre)
	if err != nil {
		return nil, fmt.Errorf("pre_metrics: %w", err)
	}
	post, err := json.Marshal(a.Post)
	if err != nil {
		return nil, fmt.Errorf("post_metrics: %w", err)
	}
	ubas, err := json.Marshal(a.Score)
	if err != nil {
		return nil, fmt.Errorf("ubas: %w", err)
	}

	return map[string]interface{}{
		"id":                   a.ID,
		"user_id":              a.UserID,
		"qc":                   qc,
		"pre_metrics":          pre,
		"post_metrics":         post,
		"ubas":                 ubas,
		"total":                a.Score.Total,
		"band":                 string(a.Score.Band),
		"scale_mm_per_px_post": a.ScaleMMPerPxPost,
		"calibration_mode":     string(a.CalibrationMode),
		"ai_summary":           nullString(a.Summary),
		"report_location":      nullString(a.ReportLocation),
		"created_at":           a.CreatedAt,
	}, nil
}

func makeAnalysis(row AnalysisDB) (entity.Analysis, error) {
	a := entity.Analysis{
		ID:               row.ID,
		UserID:           row.UserID,
		ScaleMMPerPxPost: row.ScaleMMPerPxPost.Float64,
		CalibrationMode:  entity.CalibrationMode(row.CalibrationMode.String),
		Summary:          row.AISummary.String,
		ReportLocation:   row.ReportLocation.String,
		CreatedAt:        row.CreatedAt,
	}

	columns := []struct {
		name string
		raw  []byte
		dest interface{}
	}{
		{"qc", row.QC, &a.QC},
		{"pre_metrics", row.PreMetrics, &a.Pre},
		{"post_metrics", row.PostMetrics, &a.Post},
		{"ubas", row.UBAS, &a.Score},
	}
	for _, col := range columns {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return entity.Analysis{}, fmt.Errorf("decode %s: %w", col.name, err)
		}
	}

	if a.QC.Reasons == nil {
		a.QC.Reasons = []string{}
	}

	return a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
