package httpadapter

import (
	"encoding/json"

	api "ipwatch/internal/api"
	"ipwatch/internal/domain"
	"ipwatch/internal/services/ledger"
	"ipwatch/internal/services/monitoring"
	"ipwatch/internal/services/workflow"
)

func toJob(j domain.Job) api.Job {
	return api.Job{
		Id:           j.ID,
		TargetUrl:    j.TargetURL,
		TargetDomain: j.TargetDomain,
		AssetId:      j.AssetID,
		Status:       api.JobStatus(j.Status),
		CreatedBy:    j.CreatedBy,
		CreatedAt:    j.CreatedAt,
		StartedAt:    j.StartedAt,
		CompletedAt:  j.CompletedAt,
		ErrorMessage: j.ErrorMessage,
	}
}

func toLog(l domain.MonitoringLog) api.MonitoringLog {
	return api.MonitoringLog{
		Id:            l.ID,
		JobId:         l.JobID,
		Result:        l.Result,
		RiskScore:     l.RiskScore,
		ScreenshotUrl: l.ScreenshotURL,
		Metadata:      object(l.Metadata),
		AutoCaseId:    l.AutoCaseID,
		CreatedAt:     l.CreatedAt,
	}
}

// object decodes a stored JSON document; anything that is not an object is dropped.
func object(raw json.RawMessage) *map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return nil
	}
	return &m
}

func ptr[T any](o domain.Opt[T]) *T {
	if v, ok := o.Get(); ok {
		return &v
	}
	return nil
}

func strPtr[T ~string](o domain.Opt[T]) *string {
	if v, ok := o.Get(); ok {
		s := string(v)
		return &s
	}
	return nil
}

func toAssessment(a domain.RiskAssessment) api.RiskAssessment {
	factors := make([]api.RiskFactor, 0, len(a.Factors))
	for _, f := range a.Factors {
		factors = append(factors, api.RiskFactor{
			Name:         f.Name,
			Score:        f.RawScore,
			Weight:       f.Weight,
			Contribution: f.Contribution,
		})
	}
	return api.RiskAssessment{
		OverallRiskScore:   a.OverallRiskScore,
		Recommendation:     string(a.Recommendation),
		Summary:            a.Summary,
		Confidence:         ptr(a.Confidence),
		InfringementLikely: ptr(a.InfringementLikely),
		Strength:           strPtr(a.Strength),
		EvidenceQuality:    strPtr(a.EvidenceQuality),
		LegalBasis:         ptr(a.LegalBasis),
		Factors:            factors,
		TokensUsed:         a.TokensUsed,
	}
}

func toExecution(res monitoring.ExecutionResult) api.ExecutionResult {
	out := api.ExecutionResult{
		Job:             toJob(res.Job),
		Log:             toLog(res.Log),
		Assessment:      toAssessment(res.Assessment),
		AutoCaseCreated: res.Escalation.Created,
	}
	if id := res.Escalation.CaseID; id != "" {
		out.AutoCaseId = &id
	}
	return out
}

func toStats(s domain.JobStats) api.Stats {
	by := make(map[string]int, len(s.JobsByStatus))
	for status, n := range s.JobsByStatus {
		by[string(status)] = n
	}
	return api.Stats{
		TotalJobs:        s.TotalJobs,
		JobsByStatus:     by,
		AverageRiskScore: s.AverageRiskScore,
		HighRiskCount:    s.HighRiskCount,
	}
}

func toCase(c domain.Case) api.Case {
	return api.Case{
		Id:                    c.ID,
		Title:                 c.Title,
		Status:                string(c.Status),
		RelatedAssetId:        c.RelatedAssetID,
		SuspectedUrl:          c.SuspectedURL,
		Description:           c.Description,
		CreatedBy:             c.CreatedBy,
		AutoGenerated:         c.AutoGenerated,
		SourceMonitoringJobId: c.SourceMonitoringJobID,
		CreatedAt:             c.CreatedAt,
	}
}

func toEvidence(r domain.EvidenceRecord) api.EvidenceRecord {
	return api.EvidenceRecord{
		Id:              r.ID,
		Type:            string(r.Type),
		Url:             r.URL,
		Payload:         object(r.Payload),
		AutoGenerated:   r.AutoGenerated,
		MonitoringLogId: r.MonitoringLogID,
		CreatedAt:       r.CreatedAt,
	}
}

func toFile(f domain.EvidenceFile) api.EvidenceFile {
	tags := f.Tags
	if tags == nil {
		tags = []string{}
	}
	return api.EvidenceFile{
		Id:                 f.ID,
		CaseId:             f.CaseID,
		FileName:           f.FileName,
		OriginalFileName:   f.OriginalFileName,
		MimeType:           f.MimeType,
		FileSize:           f.FileSize,
		FileUrl:            f.FileURL,
		Title:              f.Title,
		Description:        f.Description,
		Tags:               tags,
		UploadedBy:         f.UploadedBy,
		UploadedAt:         f.UploadedAt,
		FileHash:           f.Integrity.Hash,
		HashAlgorithm:      f.Integrity.Algorithm,
		VerificationStatus: string(f.Integrity.VerificationStatus),
		LastVerified:       f.Integrity.LastVerified,
	}
}

func toCustody(e domain.CustodyEntry) api.CustodyEntry {
	return api.CustodyEntry{
		EvidenceId: e.EvidenceID,
		Seq:        e.Seq,
		Action:     string(e.Action),
		Actor:      e.Actor,
		Timestamp:  e.Timestamp,
		Details:    e.Details,
		PrevHash:   e.PrevHash,
		ChainHash:  e.ChainHash,
	}
}

func toReport(r ledger.Report) api.CustodyReport {
	history := make([]api.CustodyEntry, 0, len(r.History))
	for _, e := range r.History {
		history = append(history, toCustody(e))
	}
	chain := api.ChainStatus{Intact: r.Chain.Intact, Entries: r.Chain.Entries}
	if !r.Chain.Intact {
		at := r.Chain.BrokenAt
		chain.BrokenAt = &at
	}
	return api.CustodyReport{
		File:        toFile(r.File),
		History:     history,
		Chain:       chain,
		GeneratedAt: r.CreatedAt,
	}
}

func toWorkflow(res workflow.Result, model string) api.WorkflowResult {
	steps := make([]api.WorkflowStep, 0, len(res.Run.Steps))
	for _, s := range res.Run.Steps {
		steps = append(steps, api.WorkflowStep{
			Step:       s.Step,
			Agent:      s.Agent,
			Action:     s.Action,
			Result:     s.Result,
			TokensUsed: s.TokensUsed,
		})
	}
	out := api.WorkflowResult{
		RunId:       res.Run.ID,
		Success:     res.Run.Success,
		Error:       res.Run.Error,
		Steps:       steps,
		TotalTokens: res.Run.TotalTokens,
		TotalCost:   res.Run.TotalCost,
		Model:       model,
	}
	if res.Document != "" {
		doc := res.Document
		out.Document = &doc
	}
	if res.Risk != nil {
		score := res.Risk.OverallRiskScore
		rec := string(res.Risk.Recommendation)
		out.RiskScore = &score
		out.Recommendation = &rec
	}
	if res.Review != nil {
		out.ApprovalRecommendation = ptr(res.Review.ApprovalRecommendation)
	}
	return out
}

func toUsage(s workflow.UsageStats) api.UsageStats {
	return api.UsageStats{
		SessionDurationSeconds: s.SessionDuration.Seconds(),
		TotalTokens:            s.TotalTokens,
		EstimatedCost:          s.EstimatedCost,
		AverageTokensPerMinute: s.AverageTokensPerMinute,
		CostPerHour:            s.CostPerHour,
	}
}

func toJurisdiction(c workflow.JurisdictionCheck) api.JurisdictionCheck {
	return api.JurisdictionCheck{
		Jurisdiction:           c.Jurisdiction,
		IsSupported:            c.IsSupported,
		SupportedJurisdictions: c.SupportedJurisdictions,
		Recommendation:         c.Recommendation,
	}
}

func fromSnapshot(s *api.EvidenceSnapshot) *domain.Snapshot {
	if s == nil {
		return nil
	}
	out := &domain.Snapshot{URL: s.Url}
	if s.Title != nil {
		out.PageTitle = *s.Title
	}
	if s.MetaDescription != nil {
		out.MetaDescription = *s.MetaDescription
	}
	if s.TextContent != nil {
		out.VisibleText = *s.TextContent
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
