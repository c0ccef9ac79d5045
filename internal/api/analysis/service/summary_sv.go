package analysisService

import (
	"UBASAnthropometry/internal/anthropometry"
	"UBASAnthropometry/internal/entity"
	contextPkg "UBASAnthropometry/pkg/context"
	"fmt"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"time"
)

const summaryPrompt = `You are assisting an oculoplastic surgeon. Write a short (3 sentences or fewer) plain-language summary of this upper blepharoplasty assessment.
Metrics are expressed in iris-radius units (ID). Mention eyelid function (MRD1), tarsal platform show, palpebral fissure height and the overall UBAS-FS 30 rating. Do not give medical advice.

%s`

type summaryPayload struct {
	Pre  entity.CaptureMetrics `json:"pre"`
	Post entity.CaptureMetrics `json:"post"`
	UBAS entity.UBASScore      `json:"ubas"`
}

// summarize prefers Gemini and falls back to the local template narration.
func (s *analysisService) summarize(ctx context.Context, a entity.Analysis) string {
	local := func() string {
		return anthropometry.LocalSummary(&a.Pre.Front, &a.Post.Front, a.Score)
	}

	if s.gemini == nil {
		return local()
	}

	payload, err := json.MarshalIndent(summaryPayload{Pre: a.Pre, Post: a.Post, UBAS: a.Score}, "", "  ")
	if err != nil {
		return local()
	}

	c, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()

	text, err := s.gemini.Summarize(c, fmt.Sprintf(summaryPrompt, payload))
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Gemini summary failed, using local summary")
		return local()
	}

	return text
}
