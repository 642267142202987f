package stats

import (
	"sort"

	"github.com/frontandrew/fleettrack/internal/domain"
	"github.com/google/uuid"
)

// UserDistance - суммарный пробег пользователя
type UserDistance struct {
	UserID        uuid.UUID `json:"user_id"`
	TotalDistance int       `json:"total_distance"`
	TripCount     int       `json:"trip_count"`
}

// VehicleUsage - статистика использования автомобиля
type VehicleUsage struct {
	VehicleID        uuid.UUID `json:"vehicle_id"`
	TotalDistance    int       `json:"total_distance"`
	TripCount        int       `json:"trip_count"`
	AverageDistance  float64   `json:"average_distance"`
	UnresolvedIssues int       `json:"unresolved_issues"`
}

// RankUsersByDistance группирует закрытые поездки по пользователю, суммирует
// пробег и число поездок и сортирует по убыванию суммарного пробега.
// Активные поездки (без конечного пробега) не учитываются. При равном
// пробеге порядок определяется первым появлением пользователя во входных
// данных (стабильная сортировка).
func RankUsersByDistance(trips []*domain.Trip) []*UserDistance {
	totals := make(map[uuid.UUID]*UserDistance)
	var order []uuid.UUID

	for _, trip := range trips {
		distance, ok := trip.Distance()
		if !ok {
			continue
		}

		entry, seen := totals[trip.UserID]
		if !seen {
			entry = &UserDistance{UserID: trip.UserID}
			totals[trip.UserID] = entry
			order = append(order, trip.UserID)
		}

		entry.TotalDistance += distance
		entry.TripCount++
	}

	ranked := make([]*UserDistance, 0, len(order))
	for _, userID := range order {
		ranked = append(ranked, totals[userID])
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalDistance > ranked[j].TotalDistance
	})

	return ranked
}

// VehicleUtilization группирует закрытые поездки по автомобилю: суммарный
// пробег, число поездок и средний пробег за поездку. Автомобили без единой
// закрытой поездки в результат не попадают. К каждому автомобилю
// добавляется число нерешенных заметок типа issue.
func VehicleUtilization(trips []*domain.Trip, observations []*domain.Observation) []*VehicleUsage {
	usage := make(map[uuid.UUID]*VehicleUsage)
	var order []uuid.UUID

	for _, trip := range trips {
		distance, ok := trip.Distance()
		if !ok {
			continue
		}

		entry, seen := usage[trip.VehicleID]
		if !seen {
			entry = &VehicleUsage{VehicleID: trip.VehicleID}
			usage[trip.VehicleID] = entry
			order = append(order, trip.VehicleID)
		}

		entry.TotalDistance += distance
		entry.TripCount++
	}

	for _, observation := range observations {
		if !observation.IsOpenIssue() {
			continue
		}
		if entry, ok := usage[observation.VehicleID]; ok {
			entry.UnresolvedIssues++
		}
	}

	result := make([]*VehicleUsage, 0, len(order))
	for _, vehicleID := range order {
		entry := usage[vehicleID]
		entry.AverageDistance = float64(entry.TotalDistance) / float64(entry.TripCount)
		result = append(result, entry)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalDistance > result[j].TotalDistance
	})

	return result
}
