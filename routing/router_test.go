package routing

import (
	"errors"
	"testing"

	"govx-be/apperrors"
	"govx-be/models"
)

func TestRouteIsTotalAndDeterministic(t *testing.T) {
	for _, category := range Categories() {
		dept1, prio1, err := Route(category)
		if err != nil {
			t.Fatalf("Route(%s) failed: %v", category, err)
		}
		if dept1 == "" || prio1 == "" {
			t.Errorf("Route(%s) returned empty assignment", category)
		}

		// Same category, same answer, every time.
		dept2, prio2, err := Route(category)
		if err != nil || dept1 != dept2 || prio1 != prio2 {
			t.Errorf("Route(%s) is not deterministic: (%s,%s) vs (%s,%s)", category, dept1, prio1, dept2, prio2)
		}
	}
}

func TestCanonicalMapping(t *testing.T) {
	cases := []struct {
		category models.IssueCategory
		dept     models.Department
		priority models.IssuePriority
	}{
		{models.Pothole, models.MunicipalCorporation, models.PriorityHigh},
		{models.RoadDamage, models.MunicipalCorporation, models.PriorityHigh},
		{models.Garbage, models.MunicipalCorporation, models.PriorityMedium},
		{models.ParkMaintenance, models.MunicipalCorporation, models.PriorityLow},
		{models.Drainage, models.PWD, models.PriorityHigh},
		{models.BridgeRepair, models.PWD, models.PriorityMedium},
		{models.Construction, models.PWD, models.PriorityMedium},
		{models.PowerOutage, models.ElectricityBoard, models.PriorityHigh},
		{models.StreetLight, models.ElectricityBoard, models.PriorityMedium},
		{models.CableDamage, models.ElectricityBoard, models.PriorityMedium},
		{models.WaterShortage, models.WaterDepartment, models.PriorityHigh},
		{models.PipeLeakage, models.WaterDepartment, models.PriorityHigh},
		{models.Sewage, models.WaterDepartment, models.PriorityMedium},
		{models.TrafficSignal, models.TrafficPolice, models.PriorityHigh},
		{models.RoadSafety, models.TrafficPolice, models.PriorityMedium},
		{models.Parking, models.TrafficPolice, models.PriorityLow},
		{models.FireSafety, models.FireDepartment, models.PriorityHigh},
		{models.EmergencyAccess, models.FireDepartment, models.PriorityHigh},
		{models.PublicHealth, models.HealthDepartment, models.PriorityMedium},
		{models.Sanitation, models.HealthDepartment, models.PriorityMedium},
		{models.TreeCutting, models.ForestDepartment, models.PriorityLow},
		{models.ParkDamage, models.ForestDepartment, models.PriorityLow},
	}

	if len(Categories()) != len(cases) {
		t.Errorf("routing table has %d categories, test covers %d", len(Categories()), len(cases))
	}

	for _, tc := range cases {
		dept, priority, err := Route(tc.category)
		if err != nil {
			t.Errorf("Route(%s) failed: %v", tc.category, err)
			continue
		}
		if dept != tc.dept {
			t.Errorf("Route(%s) department = %s, want %s", tc.category, dept, tc.dept)
		}
		if priority != tc.priority {
			t.Errorf("Route(%s) priority = %s, want %s", tc.category, priority, tc.priority)
		}
	}
}

func TestUnroutableCategories(t *testing.T) {
	for _, category := range []models.IssueCategory{models.Other, "Graffiti", ""} {
		if Routable(category) {
			t.Errorf("%q must not be auto-routable", category)
		}
		_, _, err := Route(category)
		if !errors.Is(err, apperrors.ErrUnknownCategory) {
			t.Errorf("Route(%q) = %v, want ErrUnknownCategory", category, err)
		}
	}
}

func TestCategoriesFor(t *testing.T) {
	cats := CategoriesFor(models.FireDepartment)
	if len(cats) != 2 {
		t.Fatalf("Fire Department should own 2 categories, got %d", len(cats))
	}
	seen := map[models.IssueCategory]bool{}
	for _, c := range cats {
		seen[c] = true
	}
	if !seen[models.FireSafety] || !seen[models.EmergencyAccess] {
		t.Errorf("unexpected categories for Fire Department: %v", cats)
	}

	if len(CategoriesFor("Space Agency")) != 0 {
		t.Error("unknown department should own no categories")
	}
}
