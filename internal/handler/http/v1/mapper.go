package v1

import "github.com/cleansweep-app/cleansweep-api/internal/models"

func ModelToProfileResponse(model *models.Profile) *ProfileResponse {
	return &ProfileResponse{
		UserID:              model.UserID,
		Name:                model.Name,
		Role:                string(model.Role),
		TotalReporterPoints: model.TotalReporterPoints,
		TotalPickerPoints:   model.TotalPickerPoints,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}

func ModelToReportResponse(model *models.Report) *ReportResponse {
	return &ReportResponse{
		ID:                   model.ID,
		ReporterID:           model.ReporterID,
		ReporterName:         model.ReporterName,
		PhotoURL:             model.PhotoURL,
		Note:                 model.Note,
		Latitude:             model.Latitude,
		Longitude:            model.Longitude,
		AIClassification:     model.AIClassification,
		Priority:             model.Priority,
		BaseReward:           model.BaseReward,
		Status:               string(model.Status),
		PickerID:             model.PickerID,
		PickerName:           model.PickerName,
		CleanupPhotoURL:      model.CleanupPhotoURL,
		PickerLatitude:       model.PickerLatitude,
		PickerLongitude:      model.PickerLongitude,
		ReporterRewardIssued: model.ReporterRewardIssued,
		PickerRewardIssued:   model.PickerRewardIssued,
		MonitorID:            model.MonitorID,
		MonitorName:          model.MonitorName,
		MonitorMessage:       model.MonitorMessage,
		ReportedAt:           model.ReportedAt,
		UpdatedAt:            model.UpdatedAt,
	}
}

func ModelsToReportResponses(reports []*models.Report) []*ReportResponse {
	responses := make([]*ReportResponse, len(reports))
	for i, report := range reports {
		responses[i] = ModelToReportResponse(report)
	}
	return responses
}

func ModelToSettlementResponse(model *models.Settlement) *SettlementResponse {
	return &SettlementResponse{
		Report:         ModelToReportResponse(model.Report),
		ReporterReward: model.ReporterReward,
		PickerReward:   model.PickerReward,
	}
}
