package models

// Settlement is the outcome of an approval: the completed report plus both
// profiles as they stand after the atomic reward write.
type Settlement struct {
	Report          *Report
	ReporterProfile *Profile
	PickerProfile   *Profile
	ReporterReward  int
	PickerReward    int
}
