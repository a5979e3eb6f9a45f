// Package routing maps an issue category to the responsible government
// department and its initial priority. The table is the canonical routing
// policy: a pure, total lookup with no side effects.
package routing

import (
	"govx-be/apperrors"
	"govx-be/models"
)

type assignment struct {
	Department models.Department
	Priority   models.IssuePriority
}

var routingTable = map[models.IssueCategory]assignment{
	models.Pothole:         {models.MunicipalCorporation, models.PriorityHigh},
	models.RoadDamage:      {models.MunicipalCorporation, models.PriorityHigh},
	models.Garbage:         {models.MunicipalCorporation, models.PriorityMedium},
	models.ParkMaintenance: {models.MunicipalCorporation, models.PriorityLow},

	models.Drainage:     {models.PWD, models.PriorityHigh},
	models.BridgeRepair: {models.PWD, models.PriorityMedium},
	models.Construction: {models.PWD, models.PriorityMedium},

	models.PowerOutage: {models.ElectricityBoard, models.PriorityHigh},
	models.StreetLight: {models.ElectricityBoard, models.PriorityMedium},
	models.CableDamage: {models.ElectricityBoard, models.PriorityMedium},

	models.WaterShortage: {models.WaterDepartment, models.PriorityHigh},
	models.PipeLeakage:   {models.WaterDepartment, models.PriorityHigh},
	models.Sewage:        {models.WaterDepartment, models.PriorityMedium},

	models.TrafficSignal: {models.TrafficPolice, models.PriorityHigh},
	models.RoadSafety:    {models.TrafficPolice, models.PriorityMedium},
	models.Parking:       {models.TrafficPolice, models.PriorityLow},

	models.FireSafety:      {models.FireDepartment, models.PriorityHigh},
	models.EmergencyAccess: {models.FireDepartment, models.PriorityHigh},

	models.PublicHealth: {models.HealthDepartment, models.PriorityMedium},
	models.Sanitation:   {models.HealthDepartment, models.PriorityMedium},

	models.TreeCutting: {models.ForestDepartment, models.PriorityLow},
	models.ParkDamage:  {models.ForestDepartment, models.PriorityLow},
}

// Route returns the department responsible for a category and the initial
// priority of issues in it. "Other" and unrecognized categories are not
// auto-routable; those issues go to the manual triage queue instead.
func Route(category models.IssueCategory) (models.Department, models.IssuePriority, error) {
	a, ok := routingTable[category]
	if !ok {
		return "", "", apperrors.ErrUnknownCategory
	}
	return a.Department, a.Priority, nil
}

// Routable reports whether a category can be auto-assigned to a department.
func Routable(category models.IssueCategory) bool {
	_, ok := routingTable[category]
	return ok
}

// Categories returns every category the routing table supports.
func Categories() []models.IssueCategory {
	cats := make([]models.IssueCategory, 0, len(routingTable))
	for c := range routingTable {
		cats = append(cats, c)
	}
	return cats
}

// CategoriesFor returns the categories owned by a department.
func CategoriesFor(dept models.Department) []models.IssueCategory {
	var cats []models.IssueCategory
	for c, a := range routingTable {
		if a.Department == dept {
			cats = append(cats, c)
		}
	}
	return cats
}
