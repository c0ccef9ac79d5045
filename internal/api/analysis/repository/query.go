package analysisRepository

const (
	queryCreateAnalysis = `
		INSERT INTO analyses (
			id,
			user_id,
			qc,
			pre_metrics,
			post_metrics,
			ubas,
			total,
			band,
			scale_mm_per_px_post,
			calibration_mode,
			ai_summary,
			report_location,
			created_at
		) VALUES (
			:id,
			:user_id,
			:qc,
			:pre_metrics,
			:post_metrics,
			:ubas,
			:total,
			:band,
			:scale_mm_per_px_post,
			:calibration_mode,
			:ai_summary,
			:report_location,
			:created_at
		)
	`

	queryGetAnalysisByID = `
		SELECT
			id,
			user_id,
			qc,
			pre_metrics,
			post_metrics,
			ubas,
			scale_mm_per_px_post,
			calibration_mode,
			ai_summary,
			report_location,
			created_at
		FROM analyses
		WHERE id = :id
	`

	queryGetAnalysesByUserID = `
		SELECT
			id,
			user_id,
			qc,
			pre_metrics,
			post_metrics,
			ubas,
			scale_mm_per_px_post,
			calibration_mode,
			ai_summary,
			report_location,
			created_at
		FROM analyses
		WHERE user_id = :user_id
		ORDER BY created_at DESC
	`
)
